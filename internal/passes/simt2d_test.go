package passes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shady/internal/ir"
	"shady/internal/passes"
)

func TestSimt2dWidensVaryingTypeToPackType(t *testing.T) {
	src := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(src, "m")

	ir.NewGlobalVariable(m, ir.Nodes{}, ir.Varying(src, ir.Int32Type(src)), "g", ir.AsPrivate)

	out := passes.Simt2dProgram(m, passes.Simt2dConfig{BundleWidth: 4})

	decl := out.LookupDeclaration("g")
	gp := decl.Payload.(*ir.GlobalVariablePayload)
	assert.Equal(t, ir.TagPackType, gp.Type.Tag)
	pp := gp.Type.Payload.(ir.PackTypePayload)
	assert.Equal(t, 4, pp.Width)
	assert.Equal(t, ir.TagIntType, pp.Element.Tag)
}

func TestSimt2dCollapsesUniformTypeToPlainElement(t *testing.T) {
	src := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(src, "m")

	ir.NewGlobalVariable(m, ir.Nodes{}, ir.Uniform(src, ir.Int32Type(src)), "g", ir.AsPrivate)

	out := passes.Simt2dProgram(m, passes.Simt2dConfig{BundleWidth: 4})

	decl := out.LookupDeclaration("g")
	gp := decl.Payload.(*ir.GlobalVariablePayload)
	assert.Equal(t, ir.TagIntType, gp.Type.Tag, "a uniform type needs no widening and loses its qualifier wrapper")
}

func TestSimt2dFlipsArenaConfigOutOfSimt(t *testing.T) {
	src := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(src, "m")
	ir.NewFunctionStub(m, ir.Nodes{}, "f", ir.Nodes{}, ir.Nodes{}, false).Patch(ir.Return(src, ir.Nodes{}))

	out := passes.Simt2dProgram(m, passes.Simt2dConfig{BundleWidth: 4})

	assert.False(t, out.Arena().Config.IsSIMT)
}
