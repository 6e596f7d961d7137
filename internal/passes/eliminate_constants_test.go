package passes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shady/internal/ir"
	"shady/internal/passes"
)

func TestEliminateConstantsInlinesLiteralConstant(t *testing.T) {
	src := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(src, "m")

	c := ir.NewConstantStub(m, "C", ir.Nodes{}, ir.Int32Type(src))
	c.Patch(ir.Int32Literal(src, 5))

	fn := ir.NewFunctionStub(m, ir.Nodes{}, "f", ir.Nodes{}, ir.Nodes{}, false)
	fn.Patch(ir.Return(src, ir.Singleton(c)))

	out := passes.EliminateConstantsProgram(m)

	assert.Nil(t, out.LookupDeclaration("C"))
	decl := out.LookupDeclaration("f")
	rp := ir.GetAbstractionBody(decl).Payload.(ir.ReturnPayload)
	assert.Equal(t, ir.TagIntLiteral, rp.Values.At(0).Tag)
	assert.Equal(t, int64(5), ir.ExtractIntLiteralValue(rp.Values.At(0), false))
}

func TestEliminateConstantsKeepsComputedConstant(t *testing.T) {
	src := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(src, "m")

	c := ir.NewConstantStub(m, "C", ir.Nodes{}, ir.Int32Type(src))
	add := ir.PrimOp(src, ir.OpAdd, ir.Nodes{}, src.NewNodes(ir.Int32Literal(src, 1), ir.Int32Literal(src, 2)))
	c.Patch(add)

	fn := ir.NewFunctionStub(m, ir.Nodes{}, "f", ir.Nodes{}, ir.Nodes{}, false)
	fn.Patch(ir.Return(src, ir.Singleton(c)))

	out := passes.EliminateConstantsProgram(m)

	assert.NotNil(t, out.LookupDeclaration("C"), "a computed constant must not be duplicated at every use site")
	decl := out.LookupDeclaration("f")
	rp := ir.GetAbstractionBody(decl).Payload.(ir.ReturnPayload)
	assert.Equal(t, ir.TagConstant, rp.Values.At(0).Tag)
}
