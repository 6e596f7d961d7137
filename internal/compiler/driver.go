package compiler

import (
	"shady/internal/diagnostics"
	"shady/internal/ir"
	"shady/internal/passes"
	"shady/internal/verify"
)

// Driver runs the fixed pipeline over one module, the Go counterpart of
// compile.c's run_compiler_passes. It owns the single logging channel the
// whole compilation shares and is the sole place that ever calls
// diagnostics.Recover (spec §7): every Fault raised by a pass, by the
// verifier, or by arena construction deep inside internal/ir propagates as
// a panic up to here and nowhere further.
type Driver struct {
	Config CompilerConfig
	Logger *diagnostics.Channel
}

// NewDriver builds a Driver with its own logging channel at the given
// verbosity (see diagnostics.NewChannel).
func NewDriver(cfg CompilerConfig, verbosity int) *Driver {
	return &Driver{Config: cfg, Logger: diagnostics.NewChannel(verbosity)}
}

// Run drives src through every stage of passes.Stages in order, verifying
// and logging between each one, and returns the final lowered module. A
// Fault raised anywhere in the pipeline is recovered here and returned as
// an error rather than propagating to the caller as a panic.
func (d *Driver) Run(src *ir.Module) (out *ir.Module, err error) {
	defer diagnostics.Recover(&err)

	pipelineCfg := passes.PipelineConfig{
		BaseArenaConfig:            d.Config.baseArenaConfig(),
		SubgroupMaskRepresentation: d.Config.SubgroupMaskRepresentation,
		ConstantPatches: passes.ConstantPatches{
			SubgroupSize:     d.Config.SubgroupSize,
			PrivateStackSize: d.Config.PerThreadStackSize,
			SharedStackSize:  d.Config.PerSubgroupStackSize,
		},
		EmulateSubgroupOpsExtendedTypes: d.Config.EmulateSubgroupOpsExtendedTypes,
		EnableSimt2d:                    d.Config.EnableSimt2d,
		Simt2dBundleWidth:               d.Config.Simt2dBundleWidth,
	}

	module := src
	for _, stage := range passes.Stages(pipelineCfg) {
		module = d.RunPass(stage, module)
	}
	return module, nil
}

// RunPass runs one stage and audits its output, reifying compile.c's
// RUN_PASS macro: build the next arena (the stage's own *Program function
// already does this), log entry/exit, verify_program the result, and only
// then hand back the new module (the macro's "destroy old arena" step has
// no Go counterpart — the old arena simply becomes unreferenced and is
// left to the garbage collector, since this IR never pools or reuses
// arena memory across stages).
func (d *Driver) RunPass(stage passes.Stage, src *ir.Module) *ir.Module {
	d.Logger.Logf(diagnostics.Info, "", "running pass %s", stage.Name)
	out := stage.Run(src)
	verify.Verify(out)
	verify.VerifyResidual(stage.Name, out)
	d.Logger.Logf(diagnostics.Info, "", "pass %s produced %d declarations", stage.Name, out.Declarations().Len())
	return out
}
