package passes

import "shady/internal/ir"

// NormalizeProgram canonicalizes Let-chain shape and inlines
// singleton-use continuations (spec §4.6 step 2): a continuation invoked
// by exactly one Jump anywhere in the module is pure administrative
// structure left over from the parser's block-splitting and can be
// flattened back into its caller, which keeps later CFG-shaped passes
// (lower_cf, opt_restructurize) from having to special-case trivial
// single-predecessor blocks. No original-source file covers this pass
// directly, so its rewrite shape follows bind.go's identity-fallback
// structure (spec §9 Open Questions).
func NormalizeProgram(src *ir.Module) *ir.Module {
	dst := ir.NewArena(src.Arena().Config)
	inliner := &singleUseJumpInliner{useCount: countContinuationUses(src)}
	return runProgram(src, dst, inliner)
}
