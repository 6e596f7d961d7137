// Package compiler is the core's external entry point: it turns a
// CompilerConfig and a bound-but-unprocessed *ir.Module into a fully
// lowered one, running every stage internal/passes.Stages names in order
// and auditing each one with internal/verify (spec §6).
package compiler

import "shady/internal/ir"

// SpirvVersion names a target SPIR-V version, carried through for a future
// emitter collaborator even though this core stops short of emitting
// SPIR-V itself (spec Non-goals).
type SpirvVersion struct {
	Major int
	Minor int
}

// CompilerConfig is the Go counterpart of compile.c's CompilerConfig: the
// driver-level knobs that apply to a whole compilation, as distinct from
// ArenaConfig's per-arena construction-time knobs. CompilerConfig holds no
// ArenaConfig itself; baseArenaConfig derives the pipeline's starting one.
type CompilerConfig struct {
	// AllowFrontendSyntax records whether a parser collaborator may emit
	// sugar nodes (ParsedBlock, Unbound). No stage reads it: bind_program
	// resolves ParsedBlock and Unbound whatever its value.
	AllowFrontendSyntax bool

	// PerThreadStackSize and PerSubgroupStackSize are, in bytes, the
	// values patch_constants substitutes for PRIVATE_STACK_SIZE and
	// SHARED_STACK_SIZE (spec §4.6 step 3).
	PerThreadStackSize   int64
	PerSubgroupStackSize int64

	// SubgroupSize is the value patch_constants substitutes for
	// SUBGROUP_SIZE.
	SubgroupSize int64

	// SubgroupMaskRepresentation selects lower_mask's target
	// representation.
	SubgroupMaskRepresentation ir.MaskRepresentation

	// EmulateSubgroupOpsExtendedTypes gates lower_subgroup_ops's
	// stack-spill emulation path for int or float operands (or vectors of
	// them) other than a plain 32-bit int, mirroring config->lower.emulate_subgroup_ops_extended_types.
	EmulateSubgroupOpsExtendedTypes bool

	// EnableSimt2d opts into the optional simt2d stage; most backends
	// targeting real per-lane hardware threads leave this false.
	EnableSimt2d      bool
	Simt2dBundleWidth int

	TargetSpirvVersion SpirvVersion
}

// DefaultCompilerConfig matches compile.c's default_compiler_config():
// frontend syntax off, a 32 KiB per-thread stack, a 1 KiB per-subgroup
// stack, SPIR-V 1.4 as the nominal target version, and no opt-in lowering
// stages enabled.
func DefaultCompilerConfig() CompilerConfig {
	const kib = 1024
	return CompilerConfig{
		AllowFrontendSyntax:             false,
		PerThreadStackSize:              32 * kib,
		PerSubgroupStackSize:            1 * kib,
		SubgroupSize:                    8,
		SubgroupMaskRepresentation:      ir.MaskPackedBallot,
		EmulateSubgroupOpsExtendedTypes: true,
		EnableSimt2d:                    false,
		Simt2dBundleWidth:               4,
		TargetSpirvVersion:              SpirvVersion{Major: 1, Minor: 4},
	}
}

// baseArenaConfig derives the ArenaConfig bind_program's destination arena
// starts from: name resolution is still pending (NameBound false) and type
// checking stays off until infer_program turns it on, matching
// compile.c's sequence of "parse with aconfig.check_types = false" then
// flipping it after bind/normalize/patch_constants.
func (c CompilerConfig) baseArenaConfig() ir.ArenaConfig {
	return ir.DefaultArenaConfig()
}
