package passes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shady/internal/ir"
	"shady/internal/passes"
)

func TestMarkLeafFunctionsMarksCallFreeFunction(t *testing.T) {
	src := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(src, "m")

	fn := ir.NewFunctionStub(m, ir.Nodes{}, "leafy", ir.Nodes{}, ir.Nodes{}, false)
	fn.Patch(ir.Return(src, ir.Nodes{}))

	out := passes.MarkLeafFunctionsProgram(m)

	decl := out.LookupDeclaration("leafy")
	assert.NotNil(t, decl)
	assert.True(t, ir.IsLeaf(decl))
}

func TestMarkLeafFunctionsDoesNotMarkCallingFunction(t *testing.T) {
	src := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(src, "m")

	callee := ir.NewFunctionStub(m, ir.Nodes{}, "callee", ir.Nodes{}, ir.Nodes{}, false)
	callee.Patch(ir.Return(src, ir.Nodes{}))

	caller := ir.NewFunctionStub(m, ir.Nodes{}, "caller", ir.Nodes{}, ir.Nodes{}, false)
	call := ir.Call(src, callee, ir.Nodes{})
	caller.Patch(ir.Let(src, call, ir.Nodes{}, ir.Return(src, ir.Nodes{})))

	out := passes.MarkLeafFunctionsProgram(m)

	assert.False(t, ir.IsLeaf(out.LookupDeclaration("caller")))
	assert.True(t, ir.IsLeaf(out.LookupDeclaration("callee")))
}
