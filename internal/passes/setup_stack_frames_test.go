package passes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shady/internal/ir"
	"shady/internal/passes"
)

func TestSetupStackFramesPrependsStackBaseBinding(t *testing.T) {
	src := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(src, "m")

	fn := ir.NewFunctionStub(m, ir.Nodes{}, "f", ir.Nodes{}, ir.Nodes{}, false)
	fn.Patch(ir.Return(src, ir.Nodes{}))

	out := passes.SetupStackFramesProgram(m)

	decl := out.LookupDeclaration("f")
	body := ir.GetAbstractionBody(decl)
	lp := body.Payload.(ir.LetPayload)
	assert.Equal(t, ir.TagPrimOp, lp.Instruction.Tag)
	assert.Equal(t, ir.OpGetStackBase, lp.Instruction.Payload.(ir.PrimOpPayload).Op)
	assert.Equal(t, ir.TagReturn, lp.Tail.Tag, "the original body must follow the prepended stack-base binding")
}

func TestSetupStackFramesLeavesContinuationsUntouched(t *testing.T) {
	src := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(src, "m")

	cont := ir.NewFunctionStub(m, ir.Nodes{}, "cont", ir.Nodes{}, ir.Nodes{}, true)
	cont.Patch(ir.Return(src, ir.Nodes{}))

	fn := ir.NewFunctionStub(m, ir.Nodes{}, "f", ir.Nodes{}, ir.Nodes{}, false)
	fn.Patch(ir.Jump(src, cont, ir.Nodes{}))

	out := passes.SetupStackFramesProgram(m)

	decl := out.LookupDeclaration("f")
	jp := ir.GetAbstractionBody(decl).Payload.(ir.JumpPayload)
	target := jp.Target
	assert.True(t, ir.IsContinuation(target))
	assert.Equal(t, ir.TagReturn, ir.GetAbstractionBody(target).Tag, "a continuation never gets its own stack frame")
}
