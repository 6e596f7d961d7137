package passes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shady/internal/ir"
)

func TestCountContinuationUsesCountsBothBranchArms(t *testing.T) {
	src := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(src, "m")

	join := ir.NewFunctionStub(m, ir.Nodes{}, "join", ir.Nodes{}, ir.Nodes{}, true)
	join.Patch(ir.Return(src, ir.Nodes{}))

	branch := ir.Branch(src, ir.IntLiteral(src, ir.BoolType(src), 1), join, ir.Nodes{}, join, ir.Nodes{})
	ir.NewFunctionStub(m, ir.Nodes{}, "f", ir.Nodes{}, ir.Nodes{}, false).Patch(branch)

	counts := countContinuationUses(m)
	assert.Equal(t, 2, counts[join.ID()], "a continuation reached by both arms of a Branch is used twice")
}

func TestCountContinuationUsesCountsSingleJump(t *testing.T) {
	src := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(src, "m")

	k := ir.NewFunctionStub(m, ir.Nodes{}, "k", ir.Nodes{}, ir.Nodes{}, true)
	k.Patch(ir.Return(src, ir.Nodes{}))

	ir.NewFunctionStub(m, ir.Nodes{}, "f", ir.Nodes{}, ir.Nodes{}, false).Patch(ir.Jump(src, k, ir.Nodes{}))

	counts := countContinuationUses(m)
	assert.Equal(t, 1, counts[k.ID()])
}

func TestRecreateProgramPreservesStructureUnchanged(t *testing.T) {
	src := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(src, "m")
	ir.NewFunctionStub(m, ir.Nodes{}, "f", ir.Nodes{}, ir.Nodes{}, false).
		Patch(ir.Return(src, ir.Singleton(ir.Int32Literal(src, 7))))

	dst := ir.NewArena(src.Arena().Config)
	out := RecreateProgram(m, dst)

	decl := out.LookupDeclaration("f")
	assert.NotNil(t, decl)
	body := ir.GetAbstractionBody(decl)
	rp := body.Payload.(ir.ReturnPayload)
	assert.Equal(t, int64(7), ir.ExtractIntLiteralValue(rp.Values.At(0), true))
}
