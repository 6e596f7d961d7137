package passes

import (
	"shady/internal/ir"
	"shady/internal/rewrite"
)

// SetupStackFramesProgram prepends a `get_stack_base` binding to every
// top-level function's body (spec §4.6 step 5, "per-function scratch
// allocation"): a private-space pointer to an array of 32-bit words
// (stackBaseType) that lower_stack anchors Alloca offsets against.
// Continuations share
// their owning function's frame and are left untouched — only a genuine
// function entry establishes a fresh frame.
func SetupStackFramesProgram(src *ir.Module) *ir.Module {
	dst := ir.NewArena(src.Arena().Config)
	return runProgram(src, dst, &stackFrameProcessor{})
}

type stackFrameProcessor struct{}

func (p *stackFrameProcessor) Process(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	if n.Tag == ir.TagFunction && !ir.IsContinuation(n) {
		return p.wrapFunction(r, n)
	}
	return rewrite.RecreateNodeIdentity(r, n)
}

func (p *stackFrameProcessor) wrapFunction(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	fp := n.Payload.(*ir.FunctionPayload)
	annotations := r.RewriteNodes(fp.Annotations)
	returnTypes := r.RewriteNodes(fp.ReturnTypes)
	params := r.RewriteBindings(fp.Params)
	stub := ir.NewFunctionStub(r.DstModule, params, fp.Name, annotations, returnTypes, false)
	r.Remember(n, stub)
	if fp.IsLeaf {
		ir.MarkLeaf(stub)
	}

	body := ir.GetAbstractionBody(n)
	if body == nil {
		return stub
	}
	rewrittenBody := r.RewriteNode(body)

	frame := ir.Var(r.DstArena, stackBaseType(r.DstArena), "frame_base")
	getBase := ir.PrimOp(r.DstArena, ir.OpGetStackBase, ir.Nodes{}, ir.Nodes{})
	stub.Patch(ir.Let(r.DstArena, getBase, ir.Singleton(frame), rewrittenBody))
	return stub
}
