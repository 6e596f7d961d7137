package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func checkingArena() *Arena {
	cfg := DefaultArenaConfig()
	cfg.CheckTypes = true
	return NewArena(cfg)
}

func TestInferTypeAddProducesMatchingIntType(t *testing.T) {
	a := checkingArena()

	sum := PrimOp(a, OpAdd, Nodes{}, a.NewNodes(
		Var(a, Uniform(a, Int32Type(a)), "x"),
		Var(a, Uniform(a, Int32Type(a)), "y"),
	))

	qt := sum.Type.Payload.(QualifiedTypePayload)
	assert.True(t, qt.Uniform)
	assert.Equal(t, TagIntType, qt.Type.Tag)
}

func TestInferTypeAddRejectsMismatchedWidths(t *testing.T) {
	a := checkingArena()

	assert.Panics(t, func() {
		PrimOp(a, OpAdd, Nodes{}, a.NewNodes(
			Var(a, Uniform(a, IntType(a, 32, true)), "x"),
			Var(a, Uniform(a, IntType(a, 64, true)), "y"),
		))
	})
}

func TestInferTypeAddIsVaryingWhenEitherOperandIsVarying(t *testing.T) {
	a := checkingArena()

	sum := PrimOp(a, OpAdd, Nodes{}, a.NewNodes(
		Var(a, Uniform(a, Int32Type(a)), "x"),
		Var(a, Varying(a, Int32Type(a)), "y"),
	))

	qt := sum.Type.Payload.(QualifiedTypePayload)
	assert.False(t, qt.Uniform)
}

func TestInferTypeLoadDereferencesPointerAddressSpace(t *testing.T) {
	a := checkingArena()

	ptr := Var(a, Uniform(a, PtrType(a, AsPrivate, Int32Type(a))), "p")
	load := PrimOp(a, OpLoad, Nodes{}, Singleton(ptr))

	qt := load.Type.Payload.(QualifiedTypePayload)
	assert.False(t, qt.Uniform)
	assert.Equal(t, TagIntType, qt.Type.Tag)
}

func TestInferTypeLoadRejectsNonPointerOperand(t *testing.T) {
	a := checkingArena()

	assert.Panics(t, func() {
		PrimOp(a, OpLoad, Nodes{}, Singleton(Var(a, Uniform(a, Int32Type(a)), "x")))
	})
}

func TestInferTypeAllocaProducesPrivatePointer(t *testing.T) {
	a := checkingArena()

	alloca := PrimOp(a, OpAlloca, Singleton(Int32Type(a)), Nodes{})

	qt := alloca.Type.Payload.(QualifiedTypePayload)
	pp := qt.Type.Payload.(PtrTypePayload)
	assert.Equal(t, AsPrivate, pp.AddressSpace)
	assert.Equal(t, TagIntType, pp.Pointed.Tag)
}

func TestInferTypeEqProducesBool(t *testing.T) {
	a := checkingArena()

	eq := PrimOp(a, OpEq, Nodes{}, a.NewNodes(
		Var(a, Uniform(a, Int32Type(a)), "x"),
		Var(a, Uniform(a, Int32Type(a)), "y"),
	))

	qt := eq.Type.Payload.(QualifiedTypePayload)
	assert.Equal(t, TagBoolType, qt.Type.Tag)
}

func TestInferTypeSExtUsesSuppliedTypeArgument(t *testing.T) {
	a := checkingArena()

	ext := PrimOp(a, OpSExt, Singleton(IntType(a, 64, true)), Singleton(Var(a, Uniform(a, Int32Type(a)), "x")))

	qt := ext.Type.Payload.(QualifiedTypePayload)
	ip := qt.Type.Payload.(IntTypePayload)
	assert.Equal(t, 64, ip.Width)
}

func TestInferTypeSExtRequiresExactlyOneTypeArgument(t *testing.T) {
	a := checkingArena()

	assert.Panics(t, func() {
		PrimOp(a, OpSExt, Nodes{}, Singleton(Var(a, Uniform(a, Int32Type(a)), "x")))
	})
}
