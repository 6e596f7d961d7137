package passes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shady/internal/ir"
	"shady/internal/passes"
)

func TestLowerCfTurnsIfIntoBranch(t *testing.T) {
	src := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(src, "m")

	cond := ir.IntLiteral(src, ir.BoolType(src), 1)
	thenBlock := ir.Block(src, ir.Nodes{}, ir.Unreachable(src))
	ifInstr := ir.If(src, cond, ir.Nodes{}, thenBlock, nil)

	fn := ir.NewFunctionStub(m, ir.Nodes{}, "f", ir.Nodes{}, ir.Nodes{}, false)
	fn.Patch(ir.Let(src, ifInstr, ir.Nodes{}, ir.Return(src, ir.Nodes{})))

	out := passes.LowerCfProgram(m)

	decl := out.LookupDeclaration("f")
	body := ir.GetAbstractionBody(decl)
	assert.Equal(t, ir.TagBranch, body.Tag)

	bp := body.Payload.(ir.BranchPayload)
	assert.True(t, ir.IsContinuation(bp.TrueTgt))
	assert.True(t, ir.IsContinuation(bp.FalseTgt))
	// the then-arm falls through (Unreachable) straight into the join
	// continuation, whose body is the lowered tail (the original Return).
	thenBody := ir.GetAbstractionBody(bp.TrueTgt).Payload.(ir.BlockPayload)
	assert.Equal(t, ir.TagJump, thenBody.Terminator.Tag)
	joinCont := thenBody.Terminator.Payload.(ir.JumpPayload).Target
	assert.Equal(t, ir.TagReturn, ir.GetAbstractionBody(joinCont).Tag)
	assert.Same(t, joinCont, bp.FalseTgt, "an If with no Else falls straight through to the join continuation")
}

func TestLowerCfRejectsValueYieldingIf(t *testing.T) {
	src := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(src, "m")

	cond := ir.IntLiteral(src, ir.BoolType(src), 1)
	thenBlock := ir.Block(src, ir.Nodes{}, ir.Unreachable(src))
	ifInstr := ir.If(src, cond, src.NewNodes(ir.Int32Type(src)), thenBlock, nil)

	out := ir.Var(src, ir.Int32Type(src), "out")
	fn := ir.NewFunctionStub(m, ir.Nodes{}, "f", ir.Nodes{}, ir.Nodes{}, false)
	fn.Patch(ir.Let(src, ifInstr, ir.Singleton(out), ir.Return(src, ir.Singleton(out))))

	assert.Panics(t, func() { passes.LowerCfProgram(m) })
}
