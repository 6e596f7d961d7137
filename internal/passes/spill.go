package passes

import "shady/internal/ir"

// spillWordwise moves an arbitrarily-typed value through a 32-bit-word
// addressed private buffer: if value is non-nil it is stored at base
// (reinterpreted as elementType) first; then, when wordOp is non-nil,
// every word of the buffer is reloaded, passed through wordOp and stored
// back (a nil wordOp skips the per-word loop entirely); finally the whole
// buffer is reloaded as elementType and returned. Its only caller is
// lower_subgroup_ops.go's subgroup_broadcast_first emulation
// (original_source's lower_subgroup_ops.c spills/reloads exactly this way,
// one word at a time).
func spillWordwise(b *ir.BodyBuilder, a *ir.Arena, base *ir.Node, value *ir.Node, elementType *ir.Node, wordOp func(word *ir.Node) *ir.Node) *ir.Node {
	wordPtrTy := ir.PtrType(a, ir.AsPrivate, ir.IntType(a, 32, false))
	typedPtrTy := ir.PtrType(a, ir.AsPrivate, elementType)

	rawPtr := b.BindInstruction(ir.PrimOp(a, ir.OpReinterpretCast, a.NewNodes(wordPtrTy), a.NewNodes(base)), wordPtrTy)
	typedPtr := b.BindInstruction(ir.PrimOp(a, ir.OpReinterpretCast, a.NewNodes(typedPtrTy), a.NewNodes(base)), typedPtrTy)

	if value != nil {
		b.BindInstruction(ir.PrimOp(a, ir.OpStore, ir.Nodes{}, a.NewNodes(typedPtr, value)), nil)
	}
	for j := 0; j < sizeInWords(elementType); j++ {
		addr := b.BindInstruction(ir.PrimOp(a, ir.OpLea, ir.Nodes{}, a.NewNodes(rawPtr, ir.Int32Literal(a, 0), ir.Int32Literal(a, int32(j)))), wordPtrTy)
		if wordOp == nil {
			continue
		}
		word := b.BindInstruction(ir.PrimOp(a, ir.OpLoad, ir.Nodes{}, a.NewNodes(addr)), ir.IntType(a, 32, false))
		out := wordOp(word)
		b.BindInstruction(ir.PrimOp(a, ir.OpStore, ir.Nodes{}, a.NewNodes(addr, out)), nil)
	}
	return b.BindInstruction(ir.PrimOp(a, ir.OpLoad, ir.Nodes{}, a.NewNodes(typedPtr)), elementType)
}

// stackBaseType is the type get_stack_base's result carries everywhere it
// is bound to a variable, matching typecheck.go's inferType rule for
// OpGetStackBase exactly: a varying pointer to an unsized private array of
// 32-bit words.
func stackBaseType(a *ir.Arena) *ir.Node {
	return ir.Varying(a, ir.PtrType(a, ir.AsPrivate, ir.ArrayType(a, ir.Int32Type(a), nil)))
}

func sizeInWords(t *ir.Node) int {
	bits := bitWidth(t)
	bytes := (bits + 7) / 8
	return (bytes + 3) / 4
}

func bitWidth(t *ir.Node) int {
	switch t.Tag {
	case ir.TagIntType:
		return t.Payload.(ir.IntTypePayload).Width
	case ir.TagFloatType:
		return t.Payload.(ir.FloatTypePayload).Width
	case ir.TagPackType:
		pp := t.Payload.(ir.PackTypePayload)
		return pp.Width * bitWidth(pp.Element)
	default:
		return 32
	}
}
