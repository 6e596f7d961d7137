package passes

import (
	"shady/internal/ir"
	"shady/internal/rewrite"
)

// LowerSubgroupOpsProgram emulates subgroup_broadcast_first for any int or
// float element type (or vector of one) other than a plain 32-bit int,
// narrower widths included, by spilling the varying value to the
// private stack and broadcasting it one word at a time (spec §4.6 step 14,
// GLOSSARY "Subgroup"). Grounded directly on original_source's
// lower_subgroup_ops.c: same stack-spill/reload word loop, same
// get_stack_base/reinterpret_cast/lea/load/store primop shape, same
// subgroup_assume_uniform wrap on the reloaded result. EmulateExtendedTypes
// gates the transform exactly as config->lower.emulate_subgroup_ops_extended_types
// does in the original: false leaves non-32-bit-int broadcasts untouched for
// backends that implement them natively.
type LowerSubgroupOpsConfig struct {
	EmulateExtendedTypes bool
}

func LowerSubgroupOpsProgram(src *ir.Module, cfg LowerSubgroupOpsConfig) *ir.Module {
	dst := ir.NewArena(src.Arena().Config)
	return runProgram(src, dst, &lowerSubgroupOpsProcessor{cfg: cfg})
}

type lowerSubgroupOpsProcessor struct {
	cfg LowerSubgroupOpsConfig
}

func (p *lowerSubgroupOpsProcessor) Process(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	if n.Tag == ir.TagLet {
		lp := n.Payload.(ir.LetPayload)
		if lp.Instruction.Tag == ir.TagPrimOp {
			pp := lp.Instruction.Payload.(ir.PrimOpPayload)
			if pp.Op == ir.OpSubgroupBroadcastFirst {
				return p.lowerBroadcastFirst(r, lp, pp)
			}
		}
	}
	return rewrite.RecreateNodeIdentity(r, n)
}

func (p *lowerSubgroupOpsProcessor) lowerBroadcastFirst(r *rewrite.Rewriter, lp ir.LetPayload, pp ir.PrimOpPayload) *ir.Node {
	a := r.DstArena
	varyingValue := r.RewriteNode(pp.Operands.At(0))
	elementType := ir.Unqualified(varyingValue.Type)

	if isPlain32BitInt(elementType) || !isExtendedType(elementType, true) || !p.cfg.EmulateExtendedTypes {
		instr := ir.PrimOp(a, ir.OpSubgroupBroadcastFirst, ir.Nodes{}, a.NewNodes(varyingValue))
		return ir.Let(a, instr, r.RewriteBindings(lp.Outputs), r.RewriteNode(lp.Tail))
	}

	b := ir.BeginBody(a)
	base := b.BindInstruction(ir.PrimOp(a, ir.OpGetStackBase, ir.Nodes{}, ir.Nodes{}), stackBaseType(a))
	reloaded := spillWordwise(b, a, base, varyingValue, elementType, func(word *ir.Node) *ir.Node {
		return b.BindInstruction(ir.PrimOp(a, ir.OpSubgroupBroadcastFirst, ir.Nodes{}, a.NewNodes(word)), ir.IntType(a, 32, false))
	})
	result := b.BindInstruction(ir.PrimOp(a, ir.OpSubgroupAssumeUniform, ir.Nodes{}, a.NewNodes(reloaded)), ir.Uniform(a, elementType))

	if lp.Outputs.Len() > 0 {
		r.Remember(lp.Outputs.At(0), result)
	}
	return b.FinishBody(r.RewriteNode(lp.Tail))
}

func isPlain32BitInt(t *ir.Node) bool {
	if t.Tag != ir.TagIntType {
		return false
	}
	return t.Payload.(ir.IntTypePayload).Width == 32
}

// isExtendedType mirrors the original's is_extended_type: ints and floats
// of any width qualify directly; a vector (PackType) qualifies only when
// allowVectors is set and its element type does.
func isExtendedType(t *ir.Node, allowVectors bool) bool {
	switch t.Tag {
	case ir.TagIntType, ir.TagFloatType:
		return true
	case ir.TagPackType:
		if !allowVectors {
			return false
		}
		return isExtendedType(t.Payload.(ir.PackTypePayload).Element, false)
	default:
		return false
	}
}
