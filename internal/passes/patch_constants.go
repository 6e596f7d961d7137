package passes

import (
	"shady/internal/ir"
	"shady/internal/rewrite"
)

// Recognized names of placeholder constants a parser collaborator may
// declare with no value (only a TypeHint), to be filled in with a value
// that is only known once compilation starts (spec §4.6 step 3: "subgroup
// size, stack sizes").
const (
	ConstantNameSubgroupSize     = "SUBGROUP_SIZE"
	ConstantNamePrivateStackSize = "PRIVATE_STACK_SIZE"
	ConstantNameSharedStackSize  = "SHARED_STACK_SIZE"
)

// ConstantPatches carries the compile-time-known values patch_constants
// substitutes in, sourced from the driver's CompilerConfig.
type ConstantPatches struct {
	SubgroupSize     int64
	PrivateStackSize int64
	SharedStackSize  int64
}

func (p ConstantPatches) valueFor(name string) (int64, bool) {
	switch name {
	case ConstantNameSubgroupSize:
		return p.SubgroupSize, true
	case ConstantNamePrivateStackSize:
		return p.PrivateStackSize, true
	case ConstantNameSharedStackSize:
		return p.SharedStackSize, true
	default:
		return 0, false
	}
}

// PatchConstantsProgram replaces every recognized placeholder constant's
// value with an IntLiteral built from patches, leaving every other
// declaration untouched. Runs immediately before InferProgram (spec §4.6
// step 3's ordering note), since the patched literal must be in place
// before type checking can validate its TypeHint against a real value.
func PatchConstantsProgram(src *ir.Module, patches ConstantPatches) *ir.Module {
	dst := ir.NewArena(src.Arena().Config)
	return runProgram(src, dst, &patchConstantsProcessor{patches: patches})
}

type patchConstantsProcessor struct {
	patches ConstantPatches
}

func (p *patchConstantsProcessor) Process(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	if n.Tag == ir.TagConstant {
		if value, ok := p.patches.valueFor(ir.GetDeclName(n)); ok {
			return p.recreatePatched(r, n, value)
		}
	}
	return rewrite.RecreateNodeIdentity(r, n)
}

func (p *patchConstantsProcessor) recreatePatched(r *rewrite.Rewriter, n *ir.Node, value int64) *ir.Node {
	cp := n.Payload.(*ir.ConstantPayload)
	annotations := r.RewriteNodes(cp.Annotations)
	typeHint := r.RewriteNode(cp.TypeHint)
	stub := ir.NewConstantStub(r.DstModule, cp.Name, annotations, typeHint)
	r.Remember(n, stub)
	literalType := typeHint
	if literalType == nil {
		literalType = ir.Int32Type(r.DstArena)
	}
	stub.Patch(ir.IntLiteral(r.DstArena, literalType, value))
	return stub
}
