package ir

import "shady/internal/diagnostics"

// inferType implements C4: a per-variant rule deriving a qualified result
// type from operand types and operator, run on construction when
// Arena.Config.CheckTypes is set. Rejection is fatal (spec §4.2, §7
// category 2) — a typing failure during a pass is always a bug in that
// pass, never a user error. Variants with no typing rule (structural types,
// terminators whose "value" is moot, ParsedBlock which predates binding)
// return nil; I4 only requires a derived type on instructions/values that
// carry one.
func inferType(a *Arena, tag Tag, payload Payload) *Node {
	switch tag {
	case TagIntLiteral:
		p := payload.(IntLiteralPayload)
		return Uniform(a, p.Type)
	case TagFloatLiteral:
		p := payload.(FloatLiteralPayload)
		return Uniform(a, p.Type)
	case TagStringLiteral:
		return Uniform(a, ArrayType(a, IntType(a, 8, false), nil))
	case TagTuple:
		p := payload.(TuplePayload)
		return Uniform(a, RecordType(a, typesOf(p.Elements), false))
	case TagPack:
		p := payload.(PackValuePayload)
		if p.Elements.Len() == 0 {
			return Uniform(a, PackType(a, 0, BoolType(a)))
		}
		elemT := Unqualified(p.Elements.At(0).Type)
		return Uniform(a, PackType(a, p.Elements.Len(), elemT))
	case TagRecordValue:
		p := payload.(RecordValuePayload)
		return Uniform(a, p.Type)
	case TagFnAddr:
		p := payload.(FnAddrPayload)
		fp := p.Fn.Payload.(*FunctionPayload)
		return Uniform(a, FnType(a, typesOf(fp.Params), fp.ReturnTypes))
	case TagPrimOp:
		return inferPrimOp(a, payload.(PrimOpPayload))
	default:
		return nil
	}
}

func typesOf(vars Nodes) Nodes {
	if vars.Len() == 0 {
		return Nodes{}
	}
	a := vars.elems[0].arena
	out := make([]*Node, vars.Len())
	for i, v := range vars.Slice() {
		out[i] = v.Type
	}
	return a.NewNodes(out...)
}

func inferPrimOp(a *Arena, p PrimOpPayload) *Node {
	ops := p.Operands
	switch p.Op {
	case OpAdd, OpSub, OpMul, OpDiv:
		return inferBinaryArith(a, ops)
	case OpEq, OpLt:
		requireArity(ops, 2, p.Op)
		uniform := MeetQualification(IsUniformType(ops.At(0).Type), IsUniformType(ops.At(1).Type))
		return QualifiedType(a, uniform, BoolType(a))
	case OpNot:
		requireArity(ops, 1, p.Op)
		return QualifiedType(a, IsUniformType(ops.At(0).Type), BoolType(a))
	case OpAnd, OpOr:
		requireArity(ops, 2, p.Op)
		uniform := MeetQualification(IsUniformType(ops.At(0).Type), IsUniformType(ops.At(1).Type))
		return QualifiedType(a, uniform, BoolType(a))
	case OpSExt, OpZExt, OpTrunc, OpReinterpretCast:
		requireArity(ops, 1, p.Op)
		if p.TypeArgs.Len() != 1 {
			diagnostics.Raise(diagnostics.CodeArityMismatch, "%s expects one type argument", p.Op)
		}
		return QualifiedType(a, IsUniformType(ops.At(0).Type), p.TypeArgs.At(0))
	case OpLoad:
		requireArity(ops, 1, p.Op)
		ptrT := Unqualified(ops.At(0).Type)
		pp, ok := ptrT.Payload.(PtrTypePayload)
		if !ok {
			diagnostics.Raise(diagnostics.CodeTypeMismatch, "load operand is not a pointer")
		}
		return QualifiedType(a, IsUniform(pp.AddressSpace), pp.Pointed)
	case OpStore:
		requireArity(ops, 2, p.Op)
		return Uniform(a, RecordType(a, Nodes{}, false))
	case OpLea:
		if ops.Len() == 0 {
			diagnostics.Raise(diagnostics.CodeArityMismatch, "lea expects at least a base pointer operand")
		}
		return ops.At(0).Type
	case OpAlloca:
		if p.TypeArgs.Len() != 1 {
			diagnostics.Raise(diagnostics.CodeArityMismatch, "alloca expects one type argument")
		}
		return Uniform(a, PtrType(a, AsPrivate, p.TypeArgs.At(0)))
	case OpPush, OpPop:
		return nil // logical stack ops carry no single uniform shape before lowering
	case OpGetStackBase:
		return Varying(a, PtrType(a, AsPrivate, ArrayType(a, Int32Type(a), nil)))
	case OpSubgroupBroadcastFirst:
		requireArity(ops, 1, p.Op)
		return Uniform(a, Unqualified(ops.At(0).Type))
	case OpSubgroupAssumeUniform:
		requireArity(ops, 1, p.Op)
		return Uniform(a, Unqualified(ops.At(0).Type))
	case OpSubgroupElectFirst:
		return Uniform(a, BoolType(a))
	case OpSubgroupBallot:
		return Uniform(a, MaskRepresentationType(a, a.Config.SubgroupMaskRepresentation))
	case OpMaskIsThreadActive:
		return Varying(a, BoolType(a))
	case OpMaskExtractElement:
		return Varying(a, BoolType(a))
	case OpEmpty:
		return Uniform(a, RecordType(a, Nodes{}, false))
	default:
		return nil
	}
}

func inferBinaryArith(a *Arena, ops Nodes) *Node {
	requireArity(ops, 2, OpAdd)
	lt := Unqualified(ops.At(0).Type)
	rt := Unqualified(ops.At(1).Type)
	lp, lok := lt.Payload.(IntTypePayload)
	rp, rok := rt.Payload.(IntTypePayload)
	if !lok || !rok || lp.Width != rp.Width || lp.Signed != rp.Signed {
		diagnostics.Raise(diagnostics.CodeTypeMismatch, "arithmetic operands are not matching integer types: %s vs %s", lt, rt)
	}
	uniform := MeetQualification(IsUniformType(ops.At(0).Type), IsUniformType(ops.At(1).Type))
	return QualifiedType(a, uniform, lt)
}

func requireArity(ops Nodes, n int, op PrimOpCode) {
	if ops.Len() != n {
		diagnostics.Raise(diagnostics.CodeArityMismatch, "%s expects %d operands, got %d", op, n, ops.Len())
	}
}
