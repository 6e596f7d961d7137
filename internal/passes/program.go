package passes

import (
	"shady/internal/ir"
	"shady/internal/rewrite"
)

// identityProcessor rewrites every node structurally unchanged; used by
// passes whose only effect is a change of arena configuration (infer.go)
// or as the base case composed into a more specific Processor.
type identityProcessor struct{}

func (identityProcessor) Process(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	return rewrite.RecreateNodeIdentity(r, n)
}

// runProgram drives p over every top-level declaration of src into a fresh
// module in dst, the boilerplate shared by every pass's entry point
// (mirrors src/shady/compile.c's "new arena, rewrite_module, verify"
// per-stage shape, minus the verify step which lives in internal/verify).
func runProgram(src *ir.Module, dst *ir.Arena, p rewrite.Processor) *ir.Module {
	dstModule := ir.NewModule(dst, src.Name())
	r := rewrite.New(src.Arena(), dst, dstModule, p)
	for _, decl := range src.Declarations().Slice() {
		r.RewriteNode(decl)
	}
	return dstModule
}

// RecreateProgram rewrites src into dst with no special-cased tags at all.
func RecreateProgram(src *ir.Module, dst *ir.Arena) *ir.Module {
	return runProgram(src, dst, identityProcessor{})
}

// singleUseJumpInliner inlines a continuation reached by exactly one static
// Jump, the cleanup shared by normalize.go (post-bind) and
// opt_restructurize.go (post-lower_cf, where Branch/Match lowering leaves
// many trivial zero-param single-use continuations behind).
type singleUseJumpInliner struct {
	useCount map[uint64]int
}

func (p *singleUseJumpInliner) Process(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	if n.Tag == ir.TagJump {
		jp := n.Payload.(ir.JumpPayload)
		if jp.Target != nil && ir.IsContinuation(jp.Target) && p.useCount[jp.Target.ID()] == 1 {
			return p.inline(r, jp.Target, jp.Args)
		}
	}
	return rewrite.RecreateNodeIdentity(r, n)
}

func (p *singleUseJumpInliner) inline(r *rewrite.Rewriter, target *ir.Node, args ir.Nodes) *ir.Node {
	params := ir.GetAbstractionParams(target)
	rewrittenArgs := r.RewriteNodes(args)
	for i := 0; i < params.Len(); i++ {
		r.Remember(params.At(i), rewrittenArgs.At(i))
	}
	return r.RewriteNode(ir.GetAbstractionBody(target))
}

// countContinuationUses counts, for every continuation declaration
// reachable from m, how many Jump/Branch/Join/TailCall/FnAddr sites
// reference it — a continuation used more than once (a loop back-edge, a
// branch's shared join point) must stay a real abstraction rather than be
// inlined.
func countContinuationUses(m *ir.Module) map[uint64]int {
	counts := make(map[uint64]int)
	visited := make(map[uint64]bool)
	mark := func(target *ir.Node) {
		if target != nil {
			counts[target.ID()]++
		}
	}
	var walk func(*ir.Node)
	walk = func(n *ir.Node) {
		if n == nil || visited[n.ID()] {
			return
		}
		visited[n.ID()] = true
		switch n.Tag {
		case ir.TagJump:
			mark(n.Payload.(ir.JumpPayload).Target)
		case ir.TagBranch:
			bp := n.Payload.(ir.BranchPayload)
			mark(bp.TrueTgt)
			mark(bp.FalseTgt)
		case ir.TagJoin:
			mark(n.Payload.(ir.JoinPayload).Target)
		case ir.TagTailCall:
			mark(n.Payload.(ir.TailCallPayload).Callee)
		case ir.TagFnAddr:
			mark(n.Payload.(ir.FnAddrPayload).Fn)
		}
		for _, c := range ir.Children(n) {
			walk(c)
		}
	}
	for _, decl := range m.Declarations().Slice() {
		walk(decl)
	}
	return counts
}
