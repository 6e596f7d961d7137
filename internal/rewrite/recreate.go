package rewrite

import (
	"shady/internal/diagnostics"
	"shady/internal/ir"
)

// RecreateNodeIdentity is the generic fallback every Processor calls for
// tags it does not special-case: it rebuilds n's direct children in the
// destination arena and reconstructs a structurally identical node,
// following `recreate_node_identity`'s role in bind.c's switch (the
// default case every lowering pass in this repo also falls back to).
// Declarations use the two-phase stub-then-body sequence so a declaration
// that references itself (directly, or through a sibling continuation)
// resolves correctly.
func RecreateNodeIdentity(r *Rewriter, n *ir.Node) *ir.Node {
	a := r.DstArena
	switch n.Tag {

	// --- Types ---
	case ir.TagIntType:
		p := n.Payload.(ir.IntTypePayload)
		return ir.IntType(a, p.Width, p.Signed)
	case ir.TagFloatType:
		p := n.Payload.(ir.FloatTypePayload)
		return ir.FloatType(a, p.Width)
	case ir.TagBoolType:
		return ir.BoolType(a)
	case ir.TagPackType:
		p := n.Payload.(ir.PackTypePayload)
		return ir.PackType(a, p.Width, r.RewriteNode(p.Element))
	case ir.TagRecordType:
		p := n.Payload.(ir.RecordTypePayload)
		return ir.RecordType(a, r.RewriteNodes(p.Members), p.Decorated)
	case ir.TagArrayType:
		p := n.Payload.(ir.ArrayTypePayload)
		return ir.ArrayType(a, r.RewriteNode(p.Element), r.RewriteNode(p.Size))
	case ir.TagPtrType:
		p := n.Payload.(ir.PtrTypePayload)
		return ir.PtrType(a, p.AddressSpace, r.RewriteNode(p.Pointed))
	case ir.TagFnType:
		p := n.Payload.(ir.FnTypePayload)
		return ir.FnType(a, r.RewriteNodes(p.Params), r.RewriteNodes(p.Returns))
	case ir.TagQualifiedType:
		p := n.Payload.(ir.QualifiedTypePayload)
		return ir.QualifiedType(a, p.Uniform, r.RewriteNode(p.Type))
	case ir.TagMaskType:
		return ir.MaskTypeNode(a)
	case ir.TagNominalType:
		return recreateNominalType(r, n)

	// --- Values ---
	case ir.TagIntLiteral:
		p := n.Payload.(ir.IntLiteralPayload)
		return ir.IntLiteral(a, r.RewriteNode(p.Type), p.Value)
	case ir.TagFloatLiteral:
		p := n.Payload.(ir.FloatLiteralPayload)
		return ir.FloatLiteral(a, p.Type.Payload.(ir.FloatTypePayload).Width, p.Value)
	case ir.TagStringLiteral:
		p := n.Payload.(ir.StringLiteralPayload)
		return ir.StringLiteral(a, p.Value)
	case ir.TagTuple:
		p := n.Payload.(ir.TuplePayload)
		return ir.Tuple(a, r.RewriteNodes(p.Elements))
	case ir.TagPack:
		p := n.Payload.(ir.PackValuePayload)
		return ir.PackValue(a, r.RewriteNodes(p.Elements))
	case ir.TagRecordValue:
		p := n.Payload.(ir.RecordValuePayload)
		return ir.RecordValue(a, r.RewriteNode(p.Type), r.RewriteNodes(p.Values))
	case ir.TagVariable:
		diagnostics.Raise(diagnostics.CodeUnboundReference,
			"variable %q reached RecreateNodeIdentity unbound — its binder's Process must rewriteBinding it first", ir.VariableName(n))
		return nil
	case ir.TagFnAddr:
		p := n.Payload.(ir.FnAddrPayload)
		return ir.FnAddr(a, r.RewriteNode(p.Fn))
	case ir.TagUnbound:
		p := n.Payload.(ir.UnboundPayload)
		diagnostics.Raise(diagnostics.CodeUnboundReference, "unresolved textual reference %q survived past binding", p.Name)
		return nil

	// --- Instructions ---
	case ir.TagPrimOp:
		p := n.Payload.(ir.PrimOpPayload)
		return ir.PrimOp(a, p.Op, r.RewriteNodes(p.TypeArgs), r.RewriteNodes(p.Operands))
	case ir.TagCall:
		p := n.Payload.(ir.CallPayload)
		return ir.Call(a, r.RewriteNode(p.Callee), r.RewriteNodes(p.Args))
	case ir.TagLet:
		p := n.Payload.(ir.LetPayload)
		instr := r.RewriteNode(p.Instruction)
		outs := r.rewriteBindings(p.Outputs)
		tail := r.RewriteNode(p.Tail)
		return ir.Let(a, instr, outs, tail)
	case ir.TagBlock:
		p := n.Payload.(ir.BlockPayload)
		var instrs ir.Nodes
		if p.Instructions.Len() > 0 {
			instrs = ir.Singleton(r.RewriteNode(ir.First(p.Instructions)))
		}
		return ir.Block(a, instrs, r.RewriteNode(p.Terminator))
	case ir.TagParsedBlock:
		diagnostics.Raise(diagnostics.CodeResidualConstruct, "a ParsedBlock survived past bind_program")
		return nil
	case ir.TagIf:
		p := n.Payload.(ir.IfPayload)
		return ir.If(a, r.RewriteNode(p.Condition), r.RewriteNodes(p.ReturnTypes), r.RewriteNode(p.Then), r.RewriteNode(p.Else))
	case ir.TagMatch:
		p := n.Payload.(ir.MatchPayload)
		cases := make([]ir.MatchCase, len(p.Cases))
		for i, c := range p.Cases {
			cases[i] = ir.MatchCase{Value: r.RewriteNode(c.Value), Body: r.RewriteNode(c.Body)}
		}
		return ir.Match(a, r.RewriteNode(p.Inspectee), r.RewriteNodes(p.ReturnTypes), cases, r.RewriteNode(p.Default))
	case ir.TagLoop:
		p := n.Payload.(ir.LoopPayload)
		initial := r.RewriteNodes(p.Initial)
		params := r.rewriteBindings(p.Params)
		returnTypes := r.RewriteNodes(p.ReturnTypes)
		body := r.RewriteNode(p.Body)
		return ir.Loop(a, params, initial, returnTypes, body)

	// --- Terminators ---
	case ir.TagReturn:
		p := n.Payload.(ir.ReturnPayload)
		return ir.Return(a, r.RewriteNodes(p.Values))
	case ir.TagBranch:
		p := n.Payload.(ir.BranchPayload)
		return ir.Branch(a, r.RewriteNode(p.Condition), r.RewriteNode(p.TrueTgt), r.RewriteNodes(p.TrueArgs), r.RewriteNode(p.FalseTgt), r.RewriteNodes(p.FalseArgs))
	case ir.TagJump:
		p := n.Payload.(ir.JumpPayload)
		return ir.Jump(a, r.RewriteNode(p.Target), r.RewriteNodes(p.Args))
	case ir.TagJoin:
		p := n.Payload.(ir.JoinPayload)
		return ir.Join(a, r.RewriteNode(p.Target), r.RewriteNodes(p.Args))
	case ir.TagTailCall:
		p := n.Payload.(ir.TailCallPayload)
		return ir.TailCall(a, r.RewriteNode(p.Callee), r.RewriteNodes(p.Args))
	case ir.TagUnreachable:
		return ir.Unreachable(a)

	// --- Declarations (two-phase) ---
	case ir.TagFunction:
		return recreateFunction(r, n)
	case ir.TagConstant:
		return recreateConstant(r, n)
	case ir.TagGlobalVariable:
		return recreateGlobalVariable(r, n)

	// --- Annotations ---
	case ir.TagAnnotation:
		p := n.Payload.(ir.AnnotationPayload)
		if p.Value != nil {
			return ir.NewAnnotation(a, p.Name, r.RewriteNode(p.Value))
		}
		return ir.NewAnnotationList(a, p.Name, r.RewriteNodes(p.Values))

	default:
		diagnostics.Raise(diagnostics.CodeUnsupportedOperand, "RecreateNodeIdentity has no rule for tag %s", n.Tag)
		return nil
	}
}

func recreateFunction(r *Rewriter, n *ir.Node) *ir.Node {
	fp := n.Payload.(*ir.FunctionPayload)
	annotations := r.RewriteNodes(fp.Annotations)
	returnTypes := r.RewriteNodes(fp.ReturnTypes)
	params := r.rewriteBindings(fp.Params)
	stub := ir.NewFunctionStub(r.DstModule, params, fp.Name, annotations, returnTypes, fp.IsContinuation)
	r.Remember(n, stub)
	if fp.IsLeaf {
		ir.MarkLeaf(stub)
	}
	if body := ir.GetAbstractionBody(n); body != nil {
		stub.Patch(r.RewriteNode(body))
	}
	return stub
}

func recreateConstant(r *Rewriter, n *ir.Node) *ir.Node {
	cp := n.Payload.(*ir.ConstantPayload)
	annotations := r.RewriteNodes(cp.Annotations)
	typeHint := r.RewriteNode(cp.TypeHint)
	stub := ir.NewConstantStub(r.DstModule, cp.Name, annotations, typeHint)
	r.Remember(n, stub)
	if value := ir.ConstantValue(n); value != nil {
		stub.Patch(r.RewriteNode(value))
	}
	return stub
}

func recreateGlobalVariable(r *Rewriter, n *ir.Node) *ir.Node {
	gp := n.Payload.(*ir.GlobalVariablePayload)
	annotations := r.RewriteNodes(gp.Annotations)
	t := r.RewriteNode(gp.Type)
	stub := ir.NewGlobalVariable(r.DstModule, annotations, t, gp.Name, gp.AddressSpace)
	r.Remember(n, stub)
	if init := ir.GlobalVariableInit(n); init != nil {
		stub.Patch(r.RewriteNode(init))
	}
	return stub
}

func recreateNominalType(r *Rewriter, n *ir.Node) *ir.Node {
	np := n.Payload.(*ir.NominalTypePayload)
	annotations := r.RewriteNodes(np.Annotations)
	stub := ir.NewNominalTypeStub(r.DstArena, np.Name, annotations)
	r.Remember(n, stub)
	if body := ir.NominalTypeBody(n); body != nil {
		stub.PatchBody(r.RewriteNode(body))
	}
	return stub
}
