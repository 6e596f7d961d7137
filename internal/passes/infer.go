package passes

import "shady/internal/ir"

// InferProgram reconstructs src in a fresh arena with type checking turned
// on (C4), so every node's Type field is populated and every construction
// rule gets a chance to reject a malformed program (spec §4.6 step 4). It
// performs no structural rewriting of its own: arena.go's construct already
// runs inferType on every node whenever Config.CheckTypes is set, so
// reconstructing the module through RecreateProgram is sufficient to type
// the whole program.
func InferProgram(src *ir.Module, cfg ir.ArenaConfig) *ir.Module {
	cfg.CheckTypes = true
	dst := ir.NewArena(cfg)
	return RecreateProgram(src, dst)
}
