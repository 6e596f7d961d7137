package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBodyBuilderNestsStepsInEmissionOrder(t *testing.T) {
	a := NewArena(DefaultArenaConfig())

	b := BeginBody(a)
	first := b.BindInstruction(PrimOp(a, OpAdd, Nodes{}, a.NewNodes(Int32Literal(a, 1), Int32Literal(a, 2))), Int32Type(a))
	second := b.BindInstruction(PrimOp(a, OpAdd, Nodes{}, a.NewNodes(first, Int32Literal(a, 3))), Int32Type(a))
	result := b.FinishBody(Return(a, Singleton(second)))

	assert.Equal(t, TagLet, result.Tag)
	outerLp := result.Payload.(LetPayload)
	assert.Same(t, outerLp.Outputs.At(0), first, "the first bound instruction must be the outermost Let")

	innerLp := outerLp.Tail.Payload.(LetPayload)
	assert.Same(t, innerLp.Outputs.At(0), second)
	assert.Equal(t, TagReturn, innerLp.Tail.Tag)
}

func TestBodyBuilderWithNoResultTypeBindsNoOutput(t *testing.T) {
	a := NewArena(DefaultArenaConfig())

	b := BeginBody(a)
	out := b.BindInstruction(PrimOp(a, OpStore, Nodes{}, Nodes{}), nil)
	assert.Nil(t, out)

	result := b.FinishBody(Return(a, Nodes{}))
	lp := result.Payload.(LetPayload)
	assert.Equal(t, 0, lp.Outputs.Len())
}

func TestBodyBuilderFinishBodyWithNoStepsReturnsTailUnchanged(t *testing.T) {
	a := NewArena(DefaultArenaConfig())

	tail := Return(a, Nodes{})
	b := BeginBody(a)
	result := b.FinishBody(tail)
	assert.Same(t, tail, result)
}

func TestCancelBodyDiscardsPendingSteps(t *testing.T) {
	a := NewArena(DefaultArenaConfig())

	b := BeginBody(a)
	b.BindInstruction(PrimOp(a, OpAdd, Nodes{}, a.NewNodes(Int32Literal(a, 1), Int32Literal(a, 2))), Int32Type(a))
	b.CancelBody()

	assert.Nil(t, b.steps)
	assert.False(t, b.started)
}
