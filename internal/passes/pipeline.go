package passes

import "shady/internal/ir"

// PipelineConfig collects every stage's runtime-known parameter: the
// parser-facing arena config bind_program starts from, the values
// patch_constants substitutes, the mask representation and SIMT-bundling
// choices lower_mask/simt2d apply, and the two opt-in extended-type/SIMD
// toggles a backend picks per target. A Driver (internal/compiler) owns
// one of these and threads it through Stages once per compilation.
type PipelineConfig struct {
	BaseArenaConfig                 ir.ArenaConfig
	ConstantPatches                 ConstantPatches
	SubgroupMaskRepresentation      ir.MaskRepresentation
	EmulateSubgroupOpsExtendedTypes bool
	EnableSimt2d                    bool
	Simt2dBundleWidth               int
}

// Stage is one named step of the fixed lowering pipeline. Name matches the
// pass's source file (minus extension), except opt_stack_post_lower, the
// second run of opt_stack.go's pass. It is the identifier compile.c's
// RUN_PASS macro logs and internal/verify's per-pass checks report against.
type Stage struct {
	Name string
	Run  func(*ir.Module) *ir.Module
}

// Stages returns the fixed 21-stage lowering pipeline in the order a
// compilation actually runs it (spec §4.6, the newer/authoritative
// ordering per §9's Open Questions resolution), grounded directly on
// src/shady/compile.c's run_compiler_passes. Every stage's Run is a
// *Program entry point from this package; a Driver is expected to wrap
// each one with logging and verify_program the way RUN_PASS does (see
// internal/compiler.Driver.RunPass) rather than calling Stages' entries
// bare.
//
// Several stages don't fit the common "func(*ir.Module) *ir.Module" shape
// and are adapted here via a closure over cfg: bind (needs a destination arena
// up front, since it is the pipeline's first stage and there is no prior
// src arena to inherit a config from), patch_constants (needs the
// driver-supplied substitution values) and infer (flips CheckTypes on
// explicitly, rather than inheriting it, mirroring compile.c's
// "aconfig.check_types = true" assignment between bind_program and
// infer_program), lower_subgroup_ops (takes its emulation toggle from cfg)
// and, when enabled, simt2d. lower_mask reads its configuration back off
// the arena config every other stage is already threading forward via "ir.NewArena(src.Arena().Config)", so
// SubgroupMaskRepresentation only has to be set once, on cfg.BaseArenaConfig,
// for it to reach lower_mask unchanged through every intervening stage.
func Stages(cfg PipelineConfig) []Stage {
	cfg.BaseArenaConfig.SubgroupMaskRepresentation = cfg.SubgroupMaskRepresentation

	stages := []Stage{
		{"bind", func(src *ir.Module) *ir.Module {
			return BindProgram(src, ir.NewArena(cfg.BaseArenaConfig))
		}},
		{"normalize", NormalizeProgram},
		{"patch_constants", func(src *ir.Module) *ir.Module {
			return PatchConstantsProgram(src, cfg.ConstantPatches)
		}},
		{"infer", func(src *ir.Module) *ir.Module {
			return InferProgram(src, src.Arena().Config)
		}},
		{"setup_stack_frames", SetupStackFramesProgram},
		{"mark_leaf_functions", MarkLeafFunctionsProgram},
		{"lower_cf", LowerCfProgram},
		{"opt_restructurize", OptRestructurizeProgram},
		{"lower_callf", LowerCallfProgram},
		{"opt_simplify_cf", OptSimplifyCfProgram},
		{"lower_continuations", LowerContinuationsProgram},
		{"opt_stack", OptStackProgram},
		{"lower_tailcalls", LowerTailcallsProgram},
		{"eliminate_constants", EliminateConstantsProgram},
		{"lower_mask", LowerMaskProgram},
		{"lower_subgroup_ops", func(src *ir.Module) *ir.Module {
			return LowerSubgroupOpsProgram(src, LowerSubgroupOpsConfig{
				EmulateExtendedTypes: cfg.EmulateSubgroupOpsExtendedTypes,
			})
		}},
		{"lower_stack", LowerStackProgram},
		{"opt_stack_post_lower", OptStackProgram},
		{"lower_physical_ptrs", LowerPhysicalPtrsProgram},
		{"lower_subgroup_vars", LowerSubgroupVarsProgram},
		{"lower_int", LowerIntProgram},
	}

	if cfg.EnableSimt2d {
		stages = append(stages, Stage{"simt2d", func(src *ir.Module) *ir.Module {
			return Simt2dProgram(src, Simt2dConfig{BundleWidth: cfg.Simt2dBundleWidth})
		}})
	}

	return stages
}
