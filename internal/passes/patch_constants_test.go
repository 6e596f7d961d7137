package passes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shady/internal/ir"
	"shady/internal/passes"
)

func TestPatchConstantsReplacesRecognizedPlaceholders(t *testing.T) {
	src := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(src, "m")

	stub := ir.NewConstantStub(m, passes.ConstantNameSubgroupSize, ir.Nodes{}, ir.Int32Type(src))
	_ = stub // no value patched yet: this is exactly the placeholder shape patch_constants expects

	out := passes.PatchConstantsProgram(m, passes.ConstantPatches{SubgroupSize: 64})

	decl := out.LookupDeclaration(passes.ConstantNameSubgroupSize)
	assert.NotNil(t, decl)
	value := ir.ConstantValue(decl)
	assert.NotNil(t, value)
	assert.Equal(t, int64(64), ir.ExtractIntLiteralValue(value, false))
}

func TestPatchConstantsLeavesUnrecognizedConstantsUntouched(t *testing.T) {
	src := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(src, "m")

	stub := ir.NewConstantStub(m, "MY_CONST", ir.Nodes{}, ir.Int32Type(src))
	stub.Patch(ir.Int32Literal(src, 9))

	out := passes.PatchConstantsProgram(m, passes.ConstantPatches{SubgroupSize: 64})

	decl := out.LookupDeclaration("MY_CONST")
	assert.NotNil(t, decl)
	assert.Equal(t, int64(9), ir.ExtractIntLiteralValue(ir.ConstantValue(decl), false))
}
