package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChildrenReturnsLetSpineInOrder(t *testing.T) {
	a := NewArena(DefaultArenaConfig())

	v := Var(a, Int32Type(a), "x")
	instr := PrimOp(a, OpAdd, Nodes{}, a.NewNodes(Int32Literal(a, 1), Int32Literal(a, 2)))
	tail := Return(a, Singleton(v))
	let := Let(a, instr, Singleton(v), tail)

	children := Children(let)
	assert.Contains(t, children, instr)
	assert.Contains(t, children, v)
	assert.Contains(t, children, tail)
}

func TestChildrenReturnsNilForNilNode(t *testing.T) {
	assert.Nil(t, Children(nil))
}

func TestContainsNodeFindsVariableWithinItsOwnScope(t *testing.T) {
	a := NewArena(DefaultArenaConfig())

	v := Var(a, Int32Type(a), "x")
	tail := Return(a, Singleton(v))

	assert.True(t, ContainsNode(tail, v))
}

func TestContainsNodeDoesNotCrossIntoNestedDeclaration(t *testing.T) {
	a := NewArena(DefaultArenaConfig())
	m := NewModule(a, "m")

	v := Var(a, Int32Type(a), "x")
	inner := NewFunctionStub(m, Nodes{}, "inner", Nodes{}, Nodes{}, true)
	inner.Patch(Return(a, Singleton(v)))

	outer := Jump(a, inner, Nodes{})
	assert.False(t, ContainsNode(outer, v), "a variable referenced only inside a nested declaration's body is invisible from outside it")
}

func TestContainsNodeFalseForUnrelatedNode(t *testing.T) {
	a := NewArena(DefaultArenaConfig())

	v := Var(a, Int32Type(a), "x")
	other := Var(a, Int32Type(a), "y")
	tail := Return(a, Singleton(v))

	assert.False(t, ContainsNode(tail, other))
}
