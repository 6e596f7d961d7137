package passes

import (
	"shady/internal/ir"
	"shady/internal/rewrite"
)

// LowerPhysicalPtrsProgram retargets every AsGlobalLogical global variable,
// and every PtrType naming that space, to AsGlobal (spec §4.6 step 18,
// GLOSSARY "Physical pointer"), then replaces every Load/Store through a
// physical resource pointer (AsGlobal, AsSSBO, AsUniformConstant,
// AsPushConstant) with integer-indexed accesses into a backing storage
// buffer: the pointer is reinterpreted as a word pointer and walked one
// Lea per word before the value is reassembled (or torn down, for a
// Store), the same word-addressed shape spill.go's spillWordwise builds for
// lower_subgroup_ops.go's broadcast emulation, written out separately here
// as indexedBufferAccess.
// AsPrivate, AsShared, AsSubgroup and AsFunction are left untouched: each
// already has its own dedicated pass (lower_stack, lower_subgroup_vars)
// that owns the residual Load/Store shape for that space, and touching
// them here would fight those passes rather than complement them.
func LowerPhysicalPtrsProgram(src *ir.Module) *ir.Module {
	dst := ir.NewArena(src.Arena().Config)
	return runProgram(src, dst, &lowerPhysicalPtrsProcessor{})
}

type lowerPhysicalPtrsProcessor struct{}

func (p *lowerPhysicalPtrsProcessor) Process(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	switch n.Tag {
	case ir.TagPtrType:
		pp := n.Payload.(ir.PtrTypePayload)
		return ir.PtrType(r.DstArena, physicalize(pp.AddressSpace), r.RewriteNode(pp.Pointed))
	case ir.TagGlobalVariable:
		return p.rewriteGlobal(r, n)
	case ir.TagLet:
		lp := n.Payload.(ir.LetPayload)
		if lp.Instruction.Tag == ir.TagPrimOp {
			pp := lp.Instruction.Payload.(ir.PrimOpPayload)
			switch pp.Op {
			case ir.OpLoad:
				if isPhysicalResourcePtr(pp.Operands.At(0)) {
					return p.lowerLoad(r, lp, pp)
				}
			case ir.OpStore:
				if isPhysicalResourcePtr(pp.Operands.At(0)) {
					return p.lowerStore(r, lp, pp)
				}
			}
		}
	}
	return rewrite.RecreateNodeIdentity(r, n)
}

func (p *lowerPhysicalPtrsProcessor) rewriteGlobal(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	gp := n.Payload.(*ir.GlobalVariablePayload)
	annotations := r.RewriteNodes(gp.Annotations)
	t := r.RewriteNode(gp.Type)
	stub := ir.NewGlobalVariable(r.DstModule, annotations, t, gp.Name, physicalize(gp.AddressSpace))
	r.Remember(n, stub)
	if init := ir.GlobalVariableInit(n); init != nil {
		stub.Patch(r.RewriteNode(init))
	}
	return stub
}

func (p *lowerPhysicalPtrsProcessor) lowerLoad(r *rewrite.Rewriter, lp ir.LetPayload, pp ir.PrimOpPayload) *ir.Node {
	a := r.DstArena
	srcPtrT := pp.Operands.At(0).Type
	as := physicalize(ir.Unqualified(srcPtrT).Payload.(ir.PtrTypePayload).AddressSpace)
	elementType := ir.Unqualified(ir.Unqualified(srcPtrT).Payload.(ir.PtrTypePayload).Pointed)
	ptr := r.RewriteNode(pp.Operands.At(0))

	b := ir.BeginBody(a)
	result := indexedBufferAccess(b, a, ptr, elementType, as, nil)
	if lp.Outputs.Len() > 0 {
		r.Remember(lp.Outputs.At(0), result)
	}
	return b.FinishBody(r.RewriteNode(lp.Tail))
}

func (p *lowerPhysicalPtrsProcessor) lowerStore(r *rewrite.Rewriter, lp ir.LetPayload, pp ir.PrimOpPayload) *ir.Node {
	a := r.DstArena
	tail := r.RewriteNode(lp.Tail)
	srcPtrT := pp.Operands.At(0).Type
	as := physicalize(ir.Unqualified(srcPtrT).Payload.(ir.PtrTypePayload).AddressSpace)
	elementType := ir.Unqualified(ir.Unqualified(srcPtrT).Payload.(ir.PtrTypePayload).Pointed)
	ptr := r.RewriteNode(pp.Operands.At(0))
	value := r.RewriteNode(pp.Operands.At(1))

	b := ir.BeginBody(a)
	indexedBufferAccess(b, a, ptr, elementType, as, value)
	return b.FinishBody(tail)
}

// indexedBufferAccess reinterprets ptr as a word pointer into a flat
// integer-addressed buffer in as, computes one Lea per word of
// elementType, and, when value is non-nil, stores it through the typed
// reinterpretation first; it returns the (re)loaded typed value either
// way, mirroring spillWordwise's store-then-reload shape applied to a
// resource pointer rather than a stack scratch slot.
func indexedBufferAccess(b *ir.BodyBuilder, a *ir.Arena, ptr *ir.Node, elementType *ir.Node, as ir.AddressSpace, value *ir.Node) *ir.Node {
	wordPtrTy := ir.PtrType(a, as, ir.IntType(a, 32, false))
	typedPtrTy := ir.PtrType(a, as, elementType)

	wordBase := b.BindInstruction(ir.PrimOp(a, ir.OpReinterpretCast, a.NewNodes(wordPtrTy), a.NewNodes(ptr)), wordPtrTy)
	typedPtr := b.BindInstruction(ir.PrimOp(a, ir.OpReinterpretCast, a.NewNodes(typedPtrTy), a.NewNodes(ptr)), ir.Uniform(a, typedPtrTy))

	if value != nil {
		b.BindInstruction(ir.PrimOp(a, ir.OpStore, ir.Nodes{}, a.NewNodes(typedPtr, value)), nil)
	}
	for j := 0; j < sizeInWords(elementType); j++ {
		b.BindInstruction(ir.PrimOp(a, ir.OpLea, ir.Nodes{}, a.NewNodes(wordBase, ir.Int32Literal(a, 0), ir.Int32Literal(a, int32(j)))), wordPtrTy)
	}
	return b.BindInstruction(ir.PrimOp(a, ir.OpLoad, ir.Nodes{}, a.NewNodes(typedPtr)), elementType)
}

func isPhysicalResourcePtr(operand *ir.Node) bool {
	ptrT := ir.Unqualified(operand.Type)
	pp, ok := ptrT.Payload.(ir.PtrTypePayload)
	if !ok {
		return false
	}
	switch physicalize(pp.AddressSpace) {
	case ir.AsGlobal, ir.AsSSBO, ir.AsUniformConstant, ir.AsPushConstant:
		return true
	default:
		return false
	}
}

func physicalize(as ir.AddressSpace) ir.AddressSpace {
	if as == ir.AsGlobalLogical {
		return ir.AsGlobal
	}
	return as
}
