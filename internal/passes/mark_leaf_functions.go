package passes

import (
	"shady/internal/ir"
	"shady/internal/rewrite"
)

// MarkLeafFunctionsProgram annotates every top-level function that performs
// no Call/TailCall, directly or through one of its own continuations, as a
// leaf (spec §4.6 step 5). Later passes (setup_stack_frames, lower_callf,
// lower_tailcalls and RecreateNodeIdentity) only carry the IsLeaf flag over
// onto the recreated function; no pass in this pipeline treats a leaf
// differently from any other function. No original-source file was sampled
// for this pass; its rewrite shape follows bind.go's identity-fallback
// structure.
func MarkLeafFunctionsProgram(src *ir.Module) *ir.Module {
	dst := ir.NewArena(src.Arena().Config)
	return runProgram(src, dst, &markLeafProcessor{})
}

type markLeafProcessor struct{}

func (p *markLeafProcessor) Process(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	if n.Tag == ir.TagFunction && !ir.IsContinuation(n) {
		return p.recreateWithLeafMark(r, n)
	}
	return rewrite.RecreateNodeIdentity(r, n)
}

func (p *markLeafProcessor) recreateWithLeafMark(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	fp := n.Payload.(*ir.FunctionPayload)
	annotations := r.RewriteNodes(fp.Annotations)
	returnTypes := r.RewriteNodes(fp.ReturnTypes)
	params := r.RewriteBindings(fp.Params)
	stub := ir.NewFunctionStub(r.DstModule, params, fp.Name, annotations, returnTypes, false)
	r.Remember(n, stub)
	if body := ir.GetAbstractionBody(n); body != nil {
		stub.Patch(r.RewriteNode(body))
		if !functionHasCall(body) {
			ir.MarkLeaf(stub)
		}
	}
	return stub
}

// functionHasCall reports whether body (and any continuation nested within
// it) contains a Call or TailCall. It does not descend into a *different*
// top-level function/global reached via a Callee/FnAddr pointer, since that
// is a reference, not a call performed by this function's own frame.
func functionHasCall(body *ir.Node) bool {
	visited := make(map[uint64]bool)
	var walk func(*ir.Node) bool
	walk = func(n *ir.Node) bool {
		if n == nil || visited[n.ID()] {
			return false
		}
		visited[n.ID()] = true
		if n.Tag == ir.TagCall || n.Tag == ir.TagTailCall {
			return true
		}
		if n.Tag == ir.TagFunction && !ir.IsContinuation(n) {
			return false
		}
		for _, c := range ir.Children(n) {
			if walk(c) {
				return true
			}
		}
		return false
	}
	return walk(body)
}
