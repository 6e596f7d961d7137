package ir

// BodyBuilder accumulates a Let chain in emission order and finishes it by
// closing over a terminator, following the pattern a pass uses to rebuild a
// straight-line body without manually nesting Let constructors (spec §4.7,
// C7). It is the one place in this package allowed to build a Let spine
// back-to-front via a pending list, since Let's own constructor always
// requires its tail up front (I5).
type BodyBuilder struct {
	arena   *Arena
	steps   []bodyStep
	started bool
}

type bodyStep struct {
	instruction *Node
	outputs     Nodes
}

// BeginBody starts a new body under construction against a.
func BeginBody(a *Arena) *BodyBuilder {
	return &BodyBuilder{arena: a, started: true}
}

// BindInstruction appends instruction to the body, binding its result to a
// single fresh Variable of type resultType (pass nil if the instruction
// produces no usable value), and returns that Variable for use by
// subsequent steps.
func (b *BodyBuilder) BindInstruction(instruction *Node, resultType *Node) *Node {
	if resultType == nil {
		b.steps = append(b.steps, bodyStep{instruction: instruction})
		return nil
	}
	out := Var(b.arena, resultType, "t")
	b.steps = append(b.steps, bodyStep{instruction: instruction, outputs: Singleton(out)})
	return out
}

// BindInstructionExtra is BindInstruction for instructions that bind more
// than one output (e.g. a future checked-arithmetic primop), taking the
// result types in order and returning the matching Variables.
func (b *BodyBuilder) BindInstructionExtra(instruction *Node, resultTypes Nodes) []*Node {
	outs := make([]*Node, resultTypes.Len())
	for i, t := range resultTypes.Slice() {
		outs[i] = Var(b.arena, t, "t")
	}
	b.steps = append(b.steps, bodyStep{instruction: instruction, outputs: b.arena.NewNodes(outs...)})
	return outs
}

// FinishBody closes the accumulated steps over tail (a terminator or an
// abstraction body already built by a nested BodyBuilder), producing the
// single Let-chain Node a pass installs as a function/continuation body.
// Steps are folded from the last one emitted backward, since each Let's
// tail is exactly the chain built from the steps after it.
func (b *BodyBuilder) FinishBody(tail *Node) *Node {
	if !b.started {
		panic("FinishBody called on a zero-value BodyBuilder")
	}
	result := tail
	for i := len(b.steps) - 1; i >= 0; i-- {
		s := b.steps[i]
		result = Let(b.arena, s.instruction, s.outputs, result)
	}
	b.started = false
	return result
}

// CancelBody discards an in-progress builder (e.g. when a pass decides
// partway through that the original body can be reused unchanged).
func (b *BodyBuilder) CancelBody() {
	b.steps = nil
	b.started = false
}
