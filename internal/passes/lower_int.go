package passes

import (
	"shady/internal/ir"
	"shady/internal/rewrite"
)

// LowerIntProgram emulates a 64-bit integer as a pair of 32-bit words on
// backends without a native 64-bit type (spec §4.6 step 17): Int64Type
// becomes a two-field RecordType{lo,hi}, an Int64 literal becomes a
// RecordValue of its two halves, and Add/Sub/And/Or/Eq on a 64-bit operand
// decompose into the schoolbook word-at-a-time algorithm (Add/Sub carry
// the overflow of the low word into the high word via an unsigned
// less-than compare, zero-extended back to a word). Function
// parameters/returns, Store/Load and Call need no extra handling: a
// RecordValue is already an ordinary value RecreateNodeIdentity threads
// through those contexts unchanged. Reading the two fields back out of an
// arbitrary (not locally-constructed) 64-bit value uses the same
// Alloca/Lea/Load round trip as a generic field accessor, since this IR
// has no dedicated record-member-extraction primop. LowerIntProgram runs
// after lower_stack in the pipeline, so the Allocas it introduces are not
// given a frame slot and remain logical Allocas in the final module.
// Mul/Div/Lt on a 64-bit operand are not decomposed: the schoolbook algorithms for those need a wider
// intermediate multiply or a signed/unsigned-aware two-word compare this
// pass does not build. No original-source file was sampled for this pass;
// the shape follows bind.go's identity-fallback structure.
func LowerIntProgram(src *ir.Module) *ir.Module {
	dst := ir.NewArena(src.Arena().Config)
	return runProgram(src, dst, &lowerIntProcessor{})
}

type lowerIntProcessor struct{}

func (p *lowerIntProcessor) Process(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	switch n.Tag {
	case ir.TagIntType:
		ip := n.Payload.(ir.IntTypePayload)
		if ip.Width == 64 {
			return int64PairType(r.DstArena)
		}
	case ir.TagIntLiteral:
		ip := n.Payload.(ir.IntLiteralPayload)
		if ip.Type.Tag == ir.TagIntType && ip.Type.Payload.(ir.IntTypePayload).Width == 64 {
			return splitLiteral(r.DstArena, ip.Value)
		}
	case ir.TagLet:
		lp := n.Payload.(ir.LetPayload)
		if lp.Instruction.Tag == ir.TagPrimOp {
			pp := lp.Instruction.Payload.(ir.PrimOpPayload)
			if pp.Operands.Len() == 2 && is64(pp.Operands.At(0).Type) {
				switch pp.Op {
				case ir.OpAdd:
					return p.lowerAddSub(r, lp, pp, false)
				case ir.OpSub:
					return p.lowerAddSub(r, lp, pp, true)
				case ir.OpAnd, ir.OpOr:
					return p.lowerBitwise(r, lp, pp)
				case ir.OpEq:
					return p.lowerEq(r, lp, pp)
				}
			}
		}
	}
	return rewrite.RecreateNodeIdentity(r, n)
}

func is64(t *ir.Node) bool {
	t = ir.Unqualified(t)
	return t.Tag == ir.TagIntType && t.Payload.(ir.IntTypePayload).Width == 64
}

func int64PairType(a *ir.Arena) *ir.Node {
	u32 := ir.IntType(a, 32, false)
	return ir.RecordType(a, a.NewNodes(u32, u32), false)
}

func splitLiteral(a *ir.Arena, value int64) *ir.Node {
	lo := int32(uint64(value) & 0xffffffff)
	hi := int32(uint64(value) >> 32)
	return ir.RecordValue(a, int64PairType(a), a.NewNodes(ir.Int32Literal(a, lo), ir.Int32Literal(a, hi)))
}

// readPair extracts the (lo, hi) words out of an arbitrary 64-bit-typed
// value via a throwaway private stack slot, the only field-access path
// this IR provides.
func readPair(b *ir.BodyBuilder, a *ir.Arena, val *ir.Node) (lo, hi *ir.Node) {
	pairTy := int64PairType(a)
	u32 := ir.IntType(a, 32, false)
	wordPtrTy := ir.PtrType(a, ir.AsPrivate, u32)

	slot := b.BindInstruction(ir.PrimOp(a, ir.OpAlloca, a.NewNodes(pairTy), ir.Nodes{}), ir.Uniform(a, ir.PtrType(a, ir.AsPrivate, pairTy)))
	b.BindInstruction(ir.PrimOp(a, ir.OpStore, ir.Nodes{}, a.NewNodes(slot, val)), nil)
	loPtr := b.BindInstruction(ir.PrimOp(a, ir.OpLea, ir.Nodes{}, a.NewNodes(slot, ir.Int32Literal(a, 0), ir.Int32Literal(a, 0))), wordPtrTy)
	hiPtr := b.BindInstruction(ir.PrimOp(a, ir.OpLea, ir.Nodes{}, a.NewNodes(slot, ir.Int32Literal(a, 0), ir.Int32Literal(a, 1))), wordPtrTy)
	lo = b.BindInstruction(ir.PrimOp(a, ir.OpLoad, ir.Nodes{}, a.NewNodes(loPtr)), ir.Uniform(a, u32))
	hi = b.BindInstruction(ir.PrimOp(a, ir.OpLoad, ir.Nodes{}, a.NewNodes(hiPtr)), ir.Uniform(a, u32))
	return lo, hi
}

func (p *lowerIntProcessor) lowerAddSub(r *rewrite.Rewriter, lp ir.LetPayload, pp ir.PrimOpPayload, sub bool) *ir.Node {
	a := r.DstArena
	tail := r.RewriteNode(lp.Tail)
	opA := r.RewriteNode(pp.Operands.At(0))
	opB := r.RewriteNode(pp.Operands.At(1))
	u32 := ir.IntType(a, 32, false)

	b := ir.BeginBody(a)
	loA, hiA := readPair(b, a, opA)
	loB, hiB := readPair(b, a, opB)

	wordOp := ir.OpAdd
	if sub {
		wordOp = ir.OpSub
	}
	loResult := b.BindInstruction(ir.PrimOp(a, wordOp, ir.Nodes{}, a.NewNodes(loA, loB)), ir.Uniform(a, u32))

	// carry (add) / borrow (sub) is 1 exactly when the low word wrapped:
	// loA+loB overflows iff the sum comes out less than either operand;
	// loA-loB borrows iff loA was already less than loB.
	carryLhs, carryRhs := loResult, loA
	if sub {
		carryLhs, carryRhs = loA, loB
	}
	carryBool := b.BindInstruction(ir.PrimOp(a, ir.OpLt, ir.Nodes{}, a.NewNodes(carryLhs, carryRhs)), ir.Uniform(a, ir.BoolType(a)))
	carryWord := b.BindInstruction(ir.PrimOp(a, ir.OpZExt, a.NewNodes(u32), a.NewNodes(carryBool)), ir.Uniform(a, u32))

	hiCombined := b.BindInstruction(ir.PrimOp(a, wordOp, ir.Nodes{}, a.NewNodes(hiA, hiB)), ir.Uniform(a, u32))
	hiResult := b.BindInstruction(ir.PrimOp(a, wordOp, ir.Nodes{}, a.NewNodes(hiCombined, carryWord)), ir.Uniform(a, u32))

	result := ir.RecordValue(a, int64PairType(a), a.NewNodes(loResult, hiResult))
	if lp.Outputs.Len() > 0 {
		r.Remember(lp.Outputs.At(0), result)
	}
	return b.FinishBody(tail)
}

func (p *lowerIntProcessor) lowerBitwise(r *rewrite.Rewriter, lp ir.LetPayload, pp ir.PrimOpPayload) *ir.Node {
	a := r.DstArena
	tail := r.RewriteNode(lp.Tail)
	opA := r.RewriteNode(pp.Operands.At(0))
	opB := r.RewriteNode(pp.Operands.At(1))
	u32 := ir.IntType(a, 32, false)

	b := ir.BeginBody(a)
	loA, hiA := readPair(b, a, opA)
	loB, hiB := readPair(b, a, opB)
	loResult := b.BindInstruction(ir.PrimOp(a, pp.Op, ir.Nodes{}, a.NewNodes(loA, loB)), ir.Uniform(a, u32))
	hiResult := b.BindInstruction(ir.PrimOp(a, pp.Op, ir.Nodes{}, a.NewNodes(hiA, hiB)), ir.Uniform(a, u32))

	result := ir.RecordValue(a, int64PairType(a), a.NewNodes(loResult, hiResult))
	if lp.Outputs.Len() > 0 {
		r.Remember(lp.Outputs.At(0), result)
	}
	return b.FinishBody(tail)
}

func (p *lowerIntProcessor) lowerEq(r *rewrite.Rewriter, lp ir.LetPayload, pp ir.PrimOpPayload) *ir.Node {
	a := r.DstArena
	tail := r.RewriteNode(lp.Tail)
	opA := r.RewriteNode(pp.Operands.At(0))
	opB := r.RewriteNode(pp.Operands.At(1))

	b := ir.BeginBody(a)
	loA, hiA := readPair(b, a, opA)
	loB, hiB := readPair(b, a, opB)
	loEq := b.BindInstruction(ir.PrimOp(a, ir.OpEq, ir.Nodes{}, a.NewNodes(loA, loB)), ir.Uniform(a, ir.BoolType(a)))
	hiEq := b.BindInstruction(ir.PrimOp(a, ir.OpEq, ir.Nodes{}, a.NewNodes(hiA, hiB)), ir.Uniform(a, ir.BoolType(a)))
	both := b.BindInstruction(ir.PrimOp(a, ir.OpAnd, ir.Nodes{}, a.NewNodes(loEq, hiEq)), ir.Uniform(a, ir.BoolType(a)))

	if lp.Outputs.Len() > 0 {
		r.Remember(lp.Outputs.At(0), both)
	}
	return b.FinishBody(tail)
}
