package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintIntTypeRendersSignAndWidth(t *testing.T) {
	a := NewArena(DefaultArenaConfig())
	assert.Equal(t, "i32", Print(Int32Type(a)))
	assert.Equal(t, "u8", Print(IntType(a, 8, false)))
}

func TestPrintNilNode(t *testing.T) {
	assert.Equal(t, "<nil>", Print(nil))
}

func TestPrintPackTypeNestsElement(t *testing.T) {
	a := NewArena(DefaultArenaConfig())
	p := PackType(a, 4, Int32Type(a))
	assert.Contains(t, Print(p), "pack<4,")
	assert.Contains(t, Print(p), "i32")
}
