package passes

import (
	"shady/internal/ir"
	"shady/internal/rewrite"
)

// LowerContinuationsProgram erases the distinction between Jump and Join
// (spec §4.6 step 11, GLOSSARY "Continuation") by hoisting every
// continuation that is ever the target of a Join into an ordinary
// top-level function declaration: once such a continuation has stable,
// arena-global identity instead of only being reachable from its lexical
// nesting, a Join to it needs no more runtime bookkeeping than a Jump
// does (the stack frame it resumes into was already set up by
// setup_stack_frames earlier in the pipeline), so Join(target, args)
// becomes plain Jump(target, args) once target is hoisted. Continuations
// that are never Joined to — only ever reached by a structurally-nested
// Jump — are left exactly as they were. No original-source file was
// sampled for this pass; the shape follows bind.go's identity-fallback
// structure.
func LowerContinuationsProgram(src *ir.Module) *ir.Module {
	dst := ir.NewArena(src.Arena().Config)
	escaping := collectJoinTargets(src)
	return runProgram(src, dst, &lowerContinuationsProcessor{escaping: escaping})
}

type lowerContinuationsProcessor struct {
	escaping map[uint64]bool
}

func (p *lowerContinuationsProcessor) Process(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	switch n.Tag {
	case ir.TagFunction:
		if ir.IsContinuation(n) && p.escaping[n.ID()] {
			return p.hoistContinuation(r, n)
		}
	case ir.TagJoin:
		jp := n.Payload.(ir.JoinPayload)
		return ir.Jump(r.DstArena, r.RewriteNode(jp.Target), r.RewriteNodes(jp.Args))
	}
	return rewrite.RecreateNodeIdentity(r, n)
}

func (p *lowerContinuationsProcessor) hoistContinuation(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	fp := n.Payload.(*ir.FunctionPayload)
	params := r.RewriteBindings(fp.Params)
	stub := ir.NewFunctionStub(r.DstModule, params, r.DstArena.UniqueName("join_"+fp.Name), r.DstArena.Empty(), r.DstArena.Empty(), false)
	r.Remember(n, stub)
	if body := ir.GetAbstractionBody(n); body != nil {
		stub.Patch(r.RewriteNode(body))
	}
	return stub
}

// collectJoinTargets finds every continuation ever reached by a Join
// anywhere in m, the set that must be hoisted to real declarations.
func collectJoinTargets(m *ir.Module) map[uint64]bool {
	escaping := make(map[uint64]bool)
	visited := make(map[uint64]bool)
	var walk func(*ir.Node)
	walk = func(n *ir.Node) {
		if n == nil || visited[n.ID()] {
			return
		}
		visited[n.ID()] = true
		if n.Tag == ir.TagJoin {
			escaping[n.Payload.(ir.JoinPayload).Target.ID()] = true
		}
		for _, c := range ir.Children(n) {
			walk(c)
		}
	}
	for _, decl := range m.Declarations().Slice() {
		walk(decl)
	}
	return escaping
}
