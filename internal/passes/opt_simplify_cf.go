package passes

import (
	"shady/internal/ir"
	"shady/internal/rewrite"
)

// OptSimplifyCfProgram threads jumps through trivial forwarding
// continuations and collapses a Branch whose two arms land on the same
// continuation with the same arguments into a plain Jump (spec §4.6 step
// 10). A continuation counts as a trivial forwarder when its body is a
// single Jump passing its own parameters through unchanged — exactly the
// shape lower_cf's "cf_arm" wrappers leave behind once their own contents
// have already been folded away by opt_restructurize. No original-source
// file was sampled for this pass; the shape follows bind.go's
// identity-fallback structure.
func OptSimplifyCfProgram(src *ir.Module) *ir.Module {
	dst := ir.NewArena(src.Arena().Config)
	return runProgram(src, dst, &optSimplifyCfProcessor{})
}

type optSimplifyCfProcessor struct{}

func (p *optSimplifyCfProcessor) Process(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	switch n.Tag {
	case ir.TagJump:
		jp := n.Payload.(ir.JumpPayload)
		target, args := threadJump(r.RewriteNode(jp.Target), r.RewriteNodes(jp.Args))
		return ir.Jump(r.DstArena, target, args)
	case ir.TagBranch:
		bp := n.Payload.(ir.BranchPayload)
		condition := r.RewriteNode(bp.Condition)
		trueTgt, trueArgs := threadJump(r.RewriteNode(bp.TrueTgt), r.RewriteNodes(bp.TrueArgs))
		falseTgt, falseArgs := threadJump(r.RewriteNode(bp.FalseTgt), r.RewriteNodes(bp.FalseArgs))
		if trueTgt == falseTgt && nodesIdentical(trueArgs, falseArgs) {
			return ir.Jump(r.DstArena, trueTgt, trueArgs)
		}
		return ir.Branch(r.DstArena, condition, trueTgt, trueArgs, falseTgt, falseArgs)
	}
	return rewrite.RecreateNodeIdentity(r, n)
}

// threadJump follows a chain of trivial forwarding continuations to the
// real target, rewriting the original call site's args through unchanged.
// A visited set guards against a (degenerate, never-terminating) cycle of
// forwarders all pointing at each other.
func threadJump(target *ir.Node, args ir.Nodes) (*ir.Node, ir.Nodes) {
	visited := map[uint64]bool{target.ID(): true}
	for {
		next, ok := forwardTarget(target)
		if !ok || visited[next.ID()] {
			return target, args
		}
		visited[next.ID()] = true
		target = next
	}
}

// forwardTarget reports the continuation target's body jumps to, if that
// body is nothing but a single Jump passing target's own parameters
// through unchanged and in order.
func forwardTarget(target *ir.Node) (*ir.Node, bool) {
	if !ir.IsContinuation(target) {
		return nil, false
	}
	body := ir.GetAbstractionBody(target)
	if body == nil || body.Tag != ir.TagBlock {
		return nil, false
	}
	bp := body.Payload.(ir.BlockPayload)
	if bp.Instructions.Len() != 0 || bp.Terminator.Tag != ir.TagJump {
		return nil, false
	}
	innerJp := bp.Terminator.Payload.(ir.JumpPayload)
	if !nodesIdentical(innerJp.Args, ir.GetAbstractionParams(target)) {
		return nil, false
	}
	return innerJp.Target, true
}

func nodesIdentical(a, b ir.Nodes) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if a.At(i) != b.At(i) {
			return false
		}
	}
	return true
}
