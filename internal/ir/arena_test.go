package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashConsingReturnsSamePointerForStructurallyEqualTypes(t *testing.T) {
	a := NewArena(DefaultArenaConfig())

	i1 := IntType(a, 32, true)
	i2 := IntType(a, 32, true)
	assert.Same(t, i1, i2, "two structurally identical IntTypes must hash-cons to the same node")

	u1 := IntType(a, 32, false)
	assert.NotSame(t, i1, u1, "a different signedness must not hash-cons to the same node")
}

func TestHashConsingDistinguishesCompositeTypes(t *testing.T) {
	a := NewArena(DefaultArenaConfig())

	p1 := PtrType(a, AsPrivate, Int32Type(a))
	p2 := PtrType(a, AsPrivate, Int32Type(a))
	assert.Same(t, p1, p2)

	p3 := PtrType(a, AsShared, Int32Type(a))
	assert.NotSame(t, p1, p3, "a different address space must produce a distinct node")
}

func TestVariablesAreNeverHashConsed(t *testing.T) {
	a := NewArena(DefaultArenaConfig())

	v1 := Var(a, Int32Type(a), "x")
	v2 := Var(a, Int32Type(a), "x")
	assert.NotSame(t, v1, v2, "two Vars of the same name/type are still distinct declarations (I2)")
}

func TestNodesFromDifferentArenasAreNeverSame(t *testing.T) {
	a1 := NewArena(DefaultArenaConfig())
	a2 := NewArena(DefaultArenaConfig())

	n1 := Int32Type(a1)
	n2 := Int32Type(a2)
	assert.False(t, SameArena(n1, n2))
	assert.NotSame(t, n1, n2)
}

func TestConstructInfersTypeWhenCheckTypesEnabled(t *testing.T) {
	cfg := DefaultArenaConfig()
	cfg.CheckTypes = true
	a := NewArena(cfg)

	lit := Int32Literal(a, 5)
	assert.NotNil(t, lit.Type)
	assert.Equal(t, TagIntType, Unqualified(lit.Type).Tag)
}
