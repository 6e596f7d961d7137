package passes

import (
	"shady/internal/ir"
	"shady/internal/rewrite"
)

// Simt2dProgram is the optional last lowering stage (spec §4.6 step 18,
// GLOSSARY "Subgroup"): it retargets the implicit one-thread-per-lane
// (SIMT) qualified-type representation to an explicit fixed-width SIMD
// one, where a Varying(T) value becomes a genuine PackType(BundleWidth, T)
// vector register instead of a per-lane scalar the backend schedules
// BundleWidth threads to each compute independently, and Uniform(T) stays
// exactly T (a uniform value is already shared across the whole bundle,
// so it needs no widening). Rewriting individual scalar PrimOps into
// their vectorized form — inserting gather/scatter for a pointer that
// varies per lane, masking off inactive lanes at divergent control flow —
// is a genuine auto-vectorization problem this pass does not solve; it is
// left as an explicit Open Question (see DESIGN.md). Running it is opt-in
// (a backend targeting real per-lane hardware threads skips this stage
// entirely and keeps ArenaConfig.IsSIMT true). No original-source file was
// sampled for this pass; the shape follows bind.go's identity-fallback
// structure.
type Simt2dConfig struct {
	BundleWidth int
}

func Simt2dProgram(src *ir.Module, cfg Simt2dConfig) *ir.Module {
	dstCfg := src.Arena().Config
	dstCfg.IsSIMT = false
	dst := ir.NewArena(dstCfg)
	return runProgram(src, dst, &simt2dProcessor{cfg: cfg})
}

type simt2dProcessor struct {
	cfg Simt2dConfig
}

func (p *simt2dProcessor) Process(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	if n.Tag == ir.TagQualifiedType {
		qp := n.Payload.(ir.QualifiedTypePayload)
		element := r.RewriteNode(qp.Type)
		if qp.Uniform {
			return element
		}
		return ir.PackType(r.DstArena, p.cfg.BundleWidth, element)
	}
	return rewrite.RecreateNodeIdentity(r, n)
}
