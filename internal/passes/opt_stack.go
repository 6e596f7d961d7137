package passes

import (
	"shady/internal/ir"
	"shady/internal/rewrite"
)

// OptStackProgram drops a logical stack-slot allocation (Alloca) whose
// result is never referenced again, the sound subset of slot coalescing a
// single rewrite pass can perform without a separate interference-graph
// analysis (spec §4.6 step 12): reusing one physical slot for two
// allocations with disjoint live ranges needs to know exactly where each
// range ends, which this pipeline does not compute, so this pass only
// ever removes slots that were never live to begin with. Bails out (via
// hasControlTransfer) whenever the Let's tail might hand control to a
// continuation the local liveness check cannot see into (ir.ContainsNode
// never crosses into a nested declaration's body), since a variable could
// still be referenced there. No original-source file was sampled for
// this pass; the shape follows bind.go's identity-fallback structure.
func OptStackProgram(src *ir.Module) *ir.Module {
	dst := ir.NewArena(src.Arena().Config)
	return runProgram(src, dst, &optStackProcessor{})
}

type optStackProcessor struct{}

func (p *optStackProcessor) Process(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	if n.Tag == ir.TagLet {
		lp := n.Payload.(ir.LetPayload)
		if lp.Instruction.Tag == ir.TagPrimOp {
			pp := lp.Instruction.Payload.(ir.PrimOpPayload)
			if pp.Op == ir.OpAlloca && lp.Outputs.Len() == 1 && !hasControlTransfer(lp.Tail) {
				if !ir.ContainsNode(lp.Tail, lp.Outputs.At(0)) {
					return r.RewriteNode(lp.Tail)
				}
			}
		}
	}
	return rewrite.RecreateNodeIdentity(r, n)
}

// hasControlTransfer reports whether any Jump/Branch/Join/TailCall/FnAddr
// appears within n's own structural subtree (never crossing into a
// nested declaration, same restriction as ir.ContainsNode), meaning
// control — and with it, visibility of any variable still live — can
// escape to code this pass cannot inspect.
func hasControlTransfer(n *ir.Node) bool {
	if n == nil {
		return false
	}
	switch n.Tag {
	case ir.TagJump, ir.TagBranch, ir.TagJoin, ir.TagTailCall, ir.TagFnAddr:
		return true
	}
	if n.IsDeclaration() {
		return false
	}
	for _, c := range ir.Children(n) {
		if hasControlTransfer(c) {
			return true
		}
	}
	return false
}
