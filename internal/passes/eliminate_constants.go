package passes

import (
	"shady/internal/ir"
	"shady/internal/rewrite"
)

// EliminateConstantsProgram inlines every Constant declaration whose
// value is a plain literal directly at each of its use sites, dropping
// the declaration itself (spec §4.6 step 15): since Rewriter.RewriteNode
// memoizes per source node regardless of whether it is reached from the
// top-level declaration loop or from a use site, simply never
// constructing a replacement Constant stub for an eligible one is enough
// to both erase it from the output module and replace every reference to
// it with its value. A Constant whose value is not a plain literal (a
// computed expression) is left as a genuine declaration, since inlining
// an arbitrary expression at every use site could duplicate it arbitrarily
// many times. No original-source file was sampled for this pass; the
// shape follows bind.go's identity-fallback structure.
func EliminateConstantsProgram(src *ir.Module) *ir.Module {
	dst := ir.NewArena(src.Arena().Config)
	return runProgram(src, dst, &eliminateConstantsProcessor{})
}

type eliminateConstantsProcessor struct{}

func (p *eliminateConstantsProcessor) Process(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	if n.Tag == ir.TagConstant {
		value := ir.ConstantValue(n)
		if isPlainLiteral(value) {
			return r.RewriteNode(value)
		}
	}
	return rewrite.RecreateNodeIdentity(r, n)
}

func isPlainLiteral(n *ir.Node) bool {
	switch n.Tag {
	case ir.TagIntLiteral, ir.TagFloatLiteral:
		return true
	default:
		return false
	}
}
