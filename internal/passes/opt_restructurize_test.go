package passes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shady/internal/ir"
	"shady/internal/passes"
)

func TestOptRestructurizeInlinesChainedSingleUseContinuations(t *testing.T) {
	src := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(src, "m")

	join := ir.NewFunctionStub(m, ir.Nodes{}, "if_join", ir.Nodes{}, ir.Nodes{}, true)
	join.Patch(ir.Return(src, ir.Singleton(ir.Int32Literal(src, 9))))

	arm := ir.NewFunctionStub(m, ir.Nodes{}, "cf_arm", ir.Nodes{}, ir.Nodes{}, true)
	arm.Patch(ir.Jump(src, join, ir.Nodes{}))

	fn := ir.NewFunctionStub(m, ir.Nodes{}, "f", ir.Nodes{}, ir.Nodes{}, false)
	fn.Patch(ir.Jump(src, arm, ir.Nodes{}))

	out := passes.OptRestructurizeProgram(m)

	decl := out.LookupDeclaration("f")
	body := ir.GetAbstractionBody(decl)

	// both cf_arm and if_join are reached by exactly one static jump, so the
	// whole chain collapses straight back into f's body.
	assert.Equal(t, ir.TagReturn, body.Tag)
	rp := body.Payload.(ir.ReturnPayload)
	assert.Equal(t, int64(9), ir.ExtractIntLiteralValue(rp.Values.At(0), false))
}

func TestOptRestructurizeKeepsContinuationReachedFromTwoEdges(t *testing.T) {
	src := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(src, "m")

	join := ir.NewFunctionStub(m, ir.Nodes{}, "if_join", ir.Nodes{}, ir.Nodes{}, true)
	join.Patch(ir.Return(src, ir.Singleton(ir.Int32Literal(src, 9))))

	arm := ir.NewFunctionStub(m, ir.Nodes{}, "cf_arm", ir.Nodes{}, ir.Nodes{}, true)
	arm.Patch(ir.Jump(src, join, ir.Nodes{}))

	cond := ir.IntLiteral(src, ir.BoolType(src), 1)
	branch := ir.Branch(src, cond, arm, ir.Nodes{}, join, ir.Nodes{})

	fn := ir.NewFunctionStub(m, ir.Nodes{}, "f", ir.Nodes{}, ir.Nodes{}, false)
	fn.Patch(branch)

	out := passes.OptRestructurizeProgram(m)

	decl := out.LookupDeclaration("f")
	bp := ir.GetAbstractionBody(decl).Payload.(ir.BranchPayload)

	// join is reached both directly (branch's false edge) and through arm's
	// jump, so it must remain a real continuation rather than be inlined.
	assert.Equal(t, ir.TagReturn, ir.GetAbstractionBody(bp.FalseTgt).Tag)
	assert.Same(t, bp.FalseTgt, ir.GetAbstractionBody(bp.TrueTgt).Payload.(ir.JumpPayload).Target)
}
