package passes

import "shady/internal/ir"

// OptRestructurizeProgram re-forms the straight-line regions lower_cf's
// per-arm continuation expansion fragmented (spec §4.6 step 8): every
// "if_join"/"cf_arm"/"match_test" continuation lower_cf introduced that
// ends up reached by exactly one static Jump is folded straight back into
// its caller, the same singleUseJumpInliner cleanup normalize.go runs right
// after bind_program. Running it again here matters because lower_cf
// always emits fresh single-use continuations that did not exist (and so
// could not be inlined) during normalize's pass.
func OptRestructurizeProgram(src *ir.Module) *ir.Module {
	dst := ir.NewArena(src.Arena().Config)
	inliner := &singleUseJumpInliner{useCount: countContinuationUses(src)}
	return runProgram(src, dst, inliner)
}
