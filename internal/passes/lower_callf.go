package passes

import (
	"shady/internal/ir"
	"shady/internal/rewrite"
)

// LowerCallfProgram converts every non-tail Call into continuation-passing
// form (spec §4.6 step 9, GLOSSARY "Continuation"): each top-level function
// (other than an EntryPoint, which has no caller to convert for) gains a
// trailing "return continuation" parameter, its Return terminators become
// Join(retK, values), and every call site becomes a TailCall passing a
// fresh per-call-site continuation (holding the call's Let outputs and
// original tail) as that extra argument. After this pass every declared
// function's ReturnTypes is empty; it only ever exits via Join/TailCall.
// No original-source file was sampled for this pass; the shape follows
// bind.go's identity-fallback structure.
func LowerCallfProgram(src *ir.Module) *ir.Module {
	dst := ir.NewArena(src.Arena().Config)
	return runProgram(src, dst, &lowerCallfProcessor{})
}

type lowerCallfProcessor struct {
	currentRetK *ir.Node // the enclosing CPS-converted function's return continuation, if any
}

func (p *lowerCallfProcessor) Process(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	switch n.Tag {
	case ir.TagFunction:
		if !ir.IsContinuation(n) {
			return p.cpsConvertFunction(r, n)
		}
	case ir.TagReturn:
		if p.currentRetK != nil {
			rp := n.Payload.(ir.ReturnPayload)
			return ir.Join(r.DstArena, p.currentRetK, r.RewriteNodes(rp.Values))
		}
	case ir.TagLet:
		lp := n.Payload.(ir.LetPayload)
		if lp.Instruction.Tag == ir.TagCall {
			return p.lowerCall(r, lp)
		}
	}
	return rewrite.RecreateNodeIdentity(r, n)
}

func (p *lowerCallfProcessor) cpsConvertFunction(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	if ir.LookupAnnotation(n, ir.AnnotationEntryPoint) != nil {
		return rewrite.RecreateNodeIdentity(r, n)
	}

	fp := n.Payload.(*ir.FunctionPayload)
	annotations := r.RewriteNodes(fp.Annotations)
	params := r.RewriteBindings(fp.Params)
	returnTypes := r.RewriteNodes(fp.ReturnTypes)

	retKType := ir.FnType(r.DstArena, returnTypes, r.DstArena.Empty())
	retK := ir.Var(r.DstArena, retKType, "retk")
	allParams := r.DstArena.AppendNodes(params, retK)

	stub := ir.NewFunctionStub(r.DstModule, allParams, fp.Name, annotations, r.DstArena.Empty(), false)
	r.Remember(n, stub)
	if fp.IsLeaf {
		ir.MarkLeaf(stub)
	}
	if body := ir.GetAbstractionBody(n); body != nil {
		prevRetK := p.currentRetK
		p.currentRetK = retK
		stub.Patch(r.RewriteNode(body))
		p.currentRetK = prevRetK
	}
	return stub
}

func (p *lowerCallfProcessor) lowerCall(r *rewrite.Rewriter, lp ir.LetPayload) *ir.Node {
	cp := lp.Instruction.Payload.(ir.CallPayload)

	outputs := r.RewriteBindings(lp.Outputs)
	retK := ir.NewFunctionStub(r.DstModule, outputs, r.DstArena.UniqueName("callf_ret"), r.DstArena.Empty(), r.DstArena.Empty(), true)
	retK.Patch(r.RewriteNode(lp.Tail))

	callee := r.RewriteNode(cp.Callee)
	args := r.RewriteNodes(cp.Args)
	allArgs := r.DstArena.AppendNodes(args, ir.FnAddr(r.DstArena, retK))
	return ir.TailCall(r.DstArena, callee, allArgs)
}
