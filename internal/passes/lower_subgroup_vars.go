package passes

import (
	"shady/internal/ir"
	"shady/internal/rewrite"
)

// LowerSubgroupVarsProgram materializes AsSubgroup-space globals (spec
// §4.6 step 8, GLOSSARY "Subgroup"): no physical storage backs the
// abstract "one shared slot per subgroup" address space directly, so this
// pass retargets every such global (and every PtrType naming that space)
// to AsShared, the nearest real physical space every lane in the subgroup
// already has uniform access to, and wraps every Load from one in the same
// subgroup_broadcast_first + subgroup_assume_uniform pair
// lower_subgroup_ops.go's emulation path produces — whichever lane last
// wrote the slot, every lane reads back that one canonical value rather
// than whatever its own view of shared memory happens to hold.
func LowerSubgroupVarsProgram(src *ir.Module) *ir.Module {
	dst := ir.NewArena(src.Arena().Config)
	return runProgram(src, dst, &lowerSubgroupVarsProcessor{})
}

type lowerSubgroupVarsProcessor struct{}

func (p *lowerSubgroupVarsProcessor) Process(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	switch n.Tag {
	case ir.TagPtrType:
		pp := n.Payload.(ir.PtrTypePayload)
		return ir.PtrType(r.DstArena, despecialize(pp.AddressSpace), r.RewriteNode(pp.Pointed))
	case ir.TagGlobalVariable:
		return p.rewriteGlobal(r, n)
	case ir.TagLet:
		lp := n.Payload.(ir.LetPayload)
		if lp.Instruction.Tag == ir.TagPrimOp {
			pp := lp.Instruction.Payload.(ir.PrimOpPayload)
			if pp.Op == ir.OpLoad && isSubgroupPtr(pp.Operands.At(0)) {
				return p.lowerSubgroupLoad(r, lp, pp)
			}
		}
	}
	return rewrite.RecreateNodeIdentity(r, n)
}

func (p *lowerSubgroupVarsProcessor) rewriteGlobal(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	gp := n.Payload.(*ir.GlobalVariablePayload)
	annotations := r.RewriteNodes(gp.Annotations)
	t := r.RewriteNode(gp.Type)
	stub := ir.NewGlobalVariable(r.DstModule, annotations, t, gp.Name, despecialize(gp.AddressSpace))
	r.Remember(n, stub)
	if init := ir.GlobalVariableInit(n); init != nil {
		stub.Patch(r.RewriteNode(init))
	}
	return stub
}

func (p *lowerSubgroupVarsProcessor) lowerSubgroupLoad(r *rewrite.Rewriter, lp ir.LetPayload, pp ir.PrimOpPayload) *ir.Node {
	a := r.DstArena
	ptr := r.RewriteNode(pp.Operands.At(0))
	elementType := r.RewriteNode(ir.Unqualified(ir.Unqualified(pp.Operands.At(0).Type).Payload.(ir.PtrTypePayload).Pointed))

	b := ir.BeginBody(a)
	raw := b.BindInstruction(ir.PrimOp(a, ir.OpLoad, ir.Nodes{}, a.NewNodes(ptr)), ir.Varying(a, elementType))
	broadcast := b.BindInstruction(ir.PrimOp(a, ir.OpSubgroupBroadcastFirst, ir.Nodes{}, a.NewNodes(raw)), ir.Uniform(a, elementType))
	result := b.BindInstruction(ir.PrimOp(a, ir.OpSubgroupAssumeUniform, ir.Nodes{}, a.NewNodes(broadcast)), ir.Uniform(a, elementType))

	if lp.Outputs.Len() > 0 {
		r.Remember(lp.Outputs.At(0), result)
	}
	return b.FinishBody(r.RewriteNode(lp.Tail))
}

func isSubgroupPtr(ptr *ir.Node) bool {
	ptrT := ir.Unqualified(ptr.Type)
	pp, ok := ptrT.Payload.(ir.PtrTypePayload)
	return ok && pp.AddressSpace == ir.AsSubgroup
}

func despecialize(as ir.AddressSpace) ir.AddressSpace {
	if as == ir.AsSubgroup {
		return ir.AsShared
	}
	return as
}
