package passes

import (
	"shady/internal/ir"
	"shady/internal/rewrite"
)

// LowerMaskProgram replaces the abstract per-lane boolean-vector MaskType
// (spec §4.6 step 16, GLOSSARY "Subgroup") with the concrete integer
// representation ArenaConfig.SubgroupMaskRepresentation selects. Under
// MaskAbstract this pass is a no-op identity rewrite, left in the pipeline
// so a fixed backend target can always name "after lower_mask" without a
// conditional stage count. Under MaskInt64/MaskPackedBallot, typecheck.go's
// inferPrimOp already types every subgroup_ballot result in the concrete
// representation (ir.MaskRepresentationType), so this pass only needs to
// rebind that result directly rather than reinterpret_cast it, and
// mask_is_thread_active becomes mask_extract_element against that packed
// value directly, matching primop.go's own note that mask_extract_element
// is "the" lowered-representation op. No MaskType node survives this pass
// once p.repr is concrete (verifier.go's ResidualTags enforces it). No
// original-source file was sampled for this pass; the shape follows
// bind.go's identity-fallback structure.
func LowerMaskProgram(src *ir.Module) *ir.Module {
	dst := ir.NewArena(src.Arena().Config)
	return runProgram(src, dst, &lowerMaskProcessor{repr: src.Arena().Config.SubgroupMaskRepresentation})
}

type lowerMaskProcessor struct {
	repr ir.MaskRepresentation
}

func (p *lowerMaskProcessor) Process(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	if p.repr == ir.MaskAbstract {
		return rewrite.RecreateNodeIdentity(r, n)
	}

	switch n.Tag {
	case ir.TagMaskType:
		return ir.MaskRepresentationType(r.DstArena, p.repr)
	case ir.TagLet:
		lp := n.Payload.(ir.LetPayload)
		if lp.Instruction.Tag == ir.TagPrimOp {
			pp := lp.Instruction.Payload.(ir.PrimOpPayload)
			switch pp.Op {
			case ir.OpSubgroupBallot:
				return p.lowerBallot(r, lp, pp)
			case ir.OpMaskIsThreadActive:
				return p.lowerIsThreadActive(r, lp, pp)
			}
		}
	}
	return rewrite.RecreateNodeIdentity(r, n)
}

func (p *lowerMaskProcessor) lowerBallot(r *rewrite.Rewriter, lp ir.LetPayload, pp ir.PrimOpPayload) *ir.Node {
	a := r.DstArena
	operands := r.RewriteNodes(pp.Operands)
	concreteTy := ir.MaskRepresentationType(a, p.repr)

	// a.Config.SubgroupMaskRepresentation already equals p.repr here (the
	// target representation is fixed into every arena from the first
	// bind stage onward), so the ballot's own inferred type is already
	// concreteTy and the bound result below needs no further
	// reinterpret_cast to carry it past this pass.
	b := ir.BeginBody(a)
	ballot := ir.PrimOp(a, ir.OpSubgroupBallot, r.RewriteNodes(pp.TypeArgs), operands)
	result := b.BindInstruction(ballot, ir.Uniform(a, concreteTy))

	if lp.Outputs.Len() > 0 {
		r.Remember(lp.Outputs.At(0), result)
	}
	return b.FinishBody(r.RewriteNode(lp.Tail))
}

func (p *lowerMaskProcessor) lowerIsThreadActive(r *rewrite.Rewriter, lp ir.LetPayload, pp ir.PrimOpPayload) *ir.Node {
	a := r.DstArena
	mask := r.RewriteNode(pp.Operands.At(0))
	lane := r.RewriteNode(pp.Operands.At(1))
	extract := ir.PrimOp(a, ir.OpMaskExtractElement, ir.Nodes{}, a.NewNodes(mask, lane))
	return ir.Let(a, extract, r.RewriteBindings(lp.Outputs), r.RewriteNode(lp.Tail))
}
