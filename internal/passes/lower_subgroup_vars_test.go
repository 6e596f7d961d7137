package passes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shady/internal/ir"
	"shady/internal/passes"
)

func TestLowerSubgroupVarsDespecializesGlobal(t *testing.T) {
	src := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(src, "m")

	ir.NewGlobalVariable(m, ir.Nodes{}, ir.Int32Type(src), "g", ir.AsSubgroup)

	out := passes.LowerSubgroupVarsProgram(m)

	decl := out.LookupDeclaration("g")
	gp := decl.Payload.(*ir.GlobalVariablePayload)
	assert.Equal(t, ir.AsShared, gp.AddressSpace)
}

func TestLowerSubgroupVarsWrapsLoadInBroadcast(t *testing.T) {
	src := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(src, "m")

	ptrVar := ir.Var(src, ir.Uniform(src, ir.PtrType(src, ir.AsSubgroup, ir.Int32Type(src))), "p")
	load := ir.PrimOp(src, ir.OpLoad, ir.Nodes{}, ir.Singleton(ptrVar))
	result := ir.Var(src, ir.Int32Type(src), "r")

	fn := ir.NewFunctionStub(m, ir.Singleton(ptrVar), "f", ir.Nodes{}, ir.Nodes{}, false)
	fn.Patch(ir.Let(src, load, ir.Singleton(result), ir.Return(src, ir.Singleton(result))))

	out := passes.LowerSubgroupVarsProgram(m)

	decl := out.LookupDeclaration("f")
	outerLp := ir.GetAbstractionBody(decl).Payload.(ir.LetPayload)
	assert.Equal(t, ir.OpLoad, outerLp.Instruction.Payload.(ir.PrimOpPayload).Op)

	broadcastLp := outerLp.Tail.Payload.(ir.LetPayload)
	assert.Equal(t, ir.OpSubgroupBroadcastFirst, broadcastLp.Instruction.Payload.(ir.PrimOpPayload).Op)

	assumeLp := broadcastLp.Tail.Payload.(ir.LetPayload)
	assert.Equal(t, ir.OpSubgroupAssumeUniform, assumeLp.Instruction.Payload.(ir.PrimOpPayload).Op)
	assert.Equal(t, ir.TagReturn, assumeLp.Tail.Tag)
}
