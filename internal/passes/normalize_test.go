package passes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shady/internal/ir"
	"shady/internal/passes"
)

func TestNormalizeInlinesSingleUseJump(t *testing.T) {
	src := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(src, "m")

	cont := ir.NewFunctionStub(m, ir.Nodes{}, "cont", ir.Nodes{}, ir.Nodes{}, true)
	cont.Patch(ir.Return(src, ir.Singleton(ir.Int32Literal(src, 42))))

	jump := ir.Jump(src, cont, ir.Nodes{})
	body := ir.Block(src, ir.Nodes{}, jump)

	main := ir.NewFunctionStub(m, ir.Nodes{}, "main", ir.Nodes{}, ir.Nodes{}, false)
	main.Patch(body)

	out := passes.NormalizeProgram(m)

	decl := out.LookupDeclaration("main")
	newBody := ir.GetAbstractionBody(decl)
	bp := newBody.Payload.(ir.BlockPayload)

	assert.Equal(t, ir.TagReturn, bp.Terminator.Tag, "a single-use jump target must be inlined in place of the jump")
	rp := bp.Terminator.Payload.(ir.ReturnPayload)
	assert.Equal(t, int64(42), ir.ExtractIntLiteralValue(rp.Values.At(0), false))
}

func TestNormalizeKeepsMultiUseContinuation(t *testing.T) {
	src := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(src, "m")

	cont := ir.NewFunctionStub(m, ir.Nodes{}, "cont", ir.Nodes{}, ir.Nodes{}, true)
	cont.Patch(ir.Return(src, ir.Singleton(ir.Int32Literal(src, 7))))

	trueTgt := ir.NewFunctionStub(m, ir.Nodes{}, "t", ir.Nodes{}, ir.Nodes{}, true)
	trueTgt.Patch(ir.Jump(src, cont, ir.Nodes{}))
	falseTgt := ir.NewFunctionStub(m, ir.Nodes{}, "f", ir.Nodes{}, ir.Nodes{}, true)
	falseTgt.Patch(ir.Jump(src, cont, ir.Nodes{}))

	cond := ir.IntLiteral(src, ir.BoolType(src), 1)
	branch := ir.Branch(src, cond, trueTgt, ir.Nodes{}, falseTgt, ir.Nodes{})
	body := ir.Block(src, ir.Nodes{}, branch)

	main := ir.NewFunctionStub(m, ir.Nodes{}, "main", ir.Nodes{}, ir.Nodes{}, false)
	main.Patch(body)

	out := passes.NormalizeProgram(m)

	decl := out.LookupDeclaration("main")
	bp := ir.GetAbstractionBody(decl).Payload.(ir.BlockPayload)
	brp := bp.Terminator.Payload.(ir.BranchPayload)

	// cont is jumped to from both t and f, so it must survive as a real
	// continuation rather than being inlined into either branch arm.
	assert.Equal(t, ir.TagJump, ir.GetAbstractionBody(brp.TrueTgt).Tag)
	assert.Equal(t, ir.TagJump, ir.GetAbstractionBody(brp.FalseTgt).Tag)
}
