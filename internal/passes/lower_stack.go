package passes

import (
	"shady/internal/ir"
	"shady/internal/rewrite"
)

// LowerStackProgram turns every logical, per-function Alloca into pointer
// arithmetic against the frame base setup_stack_frames already bound (spec
// §4.6 step 6): each Alloca claims the next free run of 32-bit words in
// that frame (a simple bump allocator, reset per function; a slot is never
// reused or reclaimed) and becomes a
// lea+reinterpret_cast pair addressing it directly, using the same
// word-addressed arithmetic spillWordwise already performs for
// lower_subgroup_ops.go's broadcast emulation.
//
// Logical Push/Pop (a dynamically-sized runtime stack, as opposed to a
// function's fixed local slots) are left untouched: giving them a real
// runtime-moving stack pointer needs state mutated and threaded across
// every call, which would mean either a writable GlobalVariable value
// operand (a capability this IR's declarations don't support — the same
// gap lower_tailcalls hit and deliberately scoped around) or threading an
// explicit extra stack-pointer argument through lower_callf's
// continuations everywhere, neither of which any pass in this pipeline
// currently builds. No pass upstream of this one emits Push/Pop, so this
// is a documented Open Question rather than a live gap. No original-source
// file was sampled for this pass; the shape follows bind.go's
// identity-fallback structure.
func LowerStackProgram(src *ir.Module) *ir.Module {
	dst := ir.NewArena(src.Arena().Config)
	return runProgram(src, dst, &lowerStackProcessor{})
}

type lowerStackProcessor struct {
	frame  *ir.Node // dst-arena frame-base variable for the function currently being processed
	offset int      // next free word offset within that frame
}

func (p *lowerStackProcessor) Process(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	switch n.Tag {
	case ir.TagFunction:
		if !ir.IsContinuation(n) {
			return p.rewriteFunction(r, n)
		}
	case ir.TagLet:
		lp := n.Payload.(ir.LetPayload)
		if lp.Instruction.Tag == ir.TagPrimOp {
			pp := lp.Instruction.Payload.(ir.PrimOpPayload)
			switch pp.Op {
			case ir.OpGetStackBase:
				return p.bindFrame(r, lp)
			case ir.OpAlloca:
				return p.lowerAlloca(r, lp, pp)
			}
		}
	}
	return rewrite.RecreateNodeIdentity(r, n)
}

func (p *lowerStackProcessor) rewriteFunction(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	prevFrame, prevOffset := p.frame, p.offset
	p.frame, p.offset = nil, 0
	out := rewrite.RecreateNodeIdentity(r, n)
	p.frame, p.offset = prevFrame, prevOffset
	return out
}

func (p *lowerStackProcessor) bindFrame(r *rewrite.Rewriter, lp ir.LetPayload) *ir.Node {
	a := r.DstArena
	instr := ir.PrimOp(a, ir.OpGetStackBase, ir.Nodes{}, ir.Nodes{})
	frameVar := r.RewriteBinding(lp.Outputs.At(0))

	prevFrame := p.frame
	p.frame = frameVar
	tail := r.RewriteNode(lp.Tail)
	p.frame = prevFrame

	return ir.Let(a, instr, ir.Singleton(frameVar), tail)
}

func (p *lowerStackProcessor) lowerAlloca(r *rewrite.Rewriter, lp ir.LetPayload, pp ir.PrimOpPayload) *ir.Node {
	a := r.DstArena
	elemType := r.RewriteNode(pp.TypeArgs.At(0))

	wordOffset := p.offset
	p.offset += sizeInWords(elemType)

	wordPtrTy := ir.PtrType(a, ir.AsPrivate, ir.IntType(a, 32, false))
	typedPtrTy := ir.PtrType(a, ir.AsPrivate, elemType)

	b := ir.BeginBody(a)
	addr := b.BindInstruction(ir.PrimOp(a, ir.OpLea, ir.Nodes{}, a.NewNodes(p.frame, ir.Int32Literal(a, 0), ir.Int32Literal(a, int32(wordOffset)))), wordPtrTy)
	typed := b.BindInstruction(ir.PrimOp(a, ir.OpReinterpretCast, a.NewNodes(typedPtrTy), a.NewNodes(addr)), ir.Uniform(a, typedPtrTy))

	if lp.Outputs.Len() > 0 {
		r.Remember(lp.Outputs.At(0), typed)
	}
	return b.FinishBody(r.RewriteNode(lp.Tail))
}
