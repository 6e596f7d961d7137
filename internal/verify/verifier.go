// Package verify audits a module between pipeline stages (C10). It is the
// Go counterpart of compile.c's verify_program call inside its RUN_PASS
// macro: every check here raises a diagnostics.Fault rather than returning
// an error, because a failed invariant this late in the pipeline is always
// a bug in a pass, never a condition a caller can recover from (spec §7).
package verify

import (
	"shady/internal/diagnostics"
	"shady/internal/ir"
)

// Verify audits m against I1-I6 (spec §4.7) to the extent they are
// checkable from outside the arena that built it:
//
//   - I3 (single-arena membership): every reachable node belongs to m's
//     arena; a foreign-arena reference is always a rewrite bug (a pass
//     forgot to call r.RewriteNode on an operand before threading it into
//     the destination module).
//   - I5 (Let-chain spine): a Let's tail is always another Let, a
//     terminator, or an abstraction body close — never a bare
//     instruction standing outside any binding form.
//   - I2-adjacent (declaration identity): two distinct declarations never
//     share a name within one module.
//   - the annotation-dangling-reference check: every FnAddr anywhere in
//     the module, in particular EntryPointArgs's back-reference, names a
//     declaration still present in m.
//
// I1 (hash-consing) and I4 (on-construction type inference) are enforced
// by construction inside internal/ir itself (arena.go's construct and
// typecheck.go's inferType run on every node as it is built) and so need
// no second audit here; I6 (def-use dominance) is a property of the
// Let-chain spine's nesting order, which the I5 check already subsumes for
// this IR's single-entry, single-exit function bodies.
func Verify(m *ir.Module) {
	visited := make(map[uint64]bool)
	for _, decl := range m.Declarations().Slice() {
		walk(m.Arena(), decl, visited)
	}
	verifyDeclNames(m)
	verifyAnnotations(m)
}

func walk(arena *ir.Arena, n *ir.Node, visited map[uint64]bool) {
	if n == nil || visited[n.ID()] {
		return
	}
	if n.Arena() != arena {
		diagnostics.Raise(diagnostics.CodeForeignArena,
			"node %d (%s) belongs to a different arena than the module it was reached from", n.ID(), n.Tag)
	}
	visited[n.ID()] = true

	if n.Tag == ir.TagLet {
		verifyLetSpine(n)
	}

	for _, c := range ir.Children(n) {
		walk(arena, c, visited)
	}
}

// verifyLetSpine enforces I5: a Let's tail must be another Let, a
// terminator, or nil (the tail of a Let sitting directly inside an
// abstraction's body close) — never a raw, unbound PrimOp or Call floating
// outside any binding form.
func verifyLetSpine(let *ir.Node) {
	lp := let.Payload.(ir.LetPayload)
	tail := lp.Tail
	if tail == nil {
		return
	}
	switch tail.Tag {
	case ir.TagLet, ir.TagReturn, ir.TagBranch, ir.TagJump, ir.TagJoin, ir.TagTailCall, ir.TagUnreachable,
		ir.TagIf, ir.TagMatch, ir.TagLoop:
		return
	default:
		diagnostics.Raise(diagnostics.CodeLetSpineViolation,
			"let %d's tail is a bare %s, not another let, a terminator, or a structured construct", let.ID(), tail.Tag)
	}
}

// verifyDeclNames checks that no two distinct declaration pointers in m
// share a name — RecreateNodeIdentity's two-phase stub/patch contract
// keeps one pointer per source declaration, so a collision here means two
// independent declarations (not a rewrite of the same one) ended up named
// alike, which module.go's LookupDeclaration could not disambiguate.
func verifyDeclNames(m *ir.Module) {
	seen := make(map[string]*ir.Node)
	for _, decl := range m.Declarations().Slice() {
		name := ir.GetDeclName(decl)
		if prior, ok := seen[name]; ok && prior != decl {
			diagnostics.Raise(diagnostics.CodeHashConsViolation,
				"declarations %d and %d both claim the name %q", prior.ID(), decl.ID(), name)
		}
		seen[name] = decl
	}
}

// verifyAnnotations checks that every FnAddr reachable from m's
// declarations names a declaration still present in m — in particular
// EntryPointArgs's FnAddr back-reference (spec §9), which the Open
// Question resolution in DESIGN.md makes a hard verifier failure rather
// than a best-effort check, the same way any other dangling reference
// would be.
func verifyAnnotations(m *ir.Module) {
	present := make(map[uint64]bool, m.Declarations().Len())
	for _, decl := range m.Declarations().Slice() {
		present[decl.ID()] = true
	}

	visited := make(map[uint64]bool)
	var walkFnAddrs func(n *ir.Node)
	walkFnAddrs = func(n *ir.Node) {
		if n == nil || visited[n.ID()] {
			return
		}
		visited[n.ID()] = true
		if n.Tag == ir.TagFnAddr {
			fn := n.Payload.(ir.FnAddrPayload).Fn
			if fn != nil && !present[fn.ID()] {
				diagnostics.Raise(diagnostics.CodeDanglingAnnotation,
					"fn_addr %d references declaration %d, which is not present in this module", n.ID(), fn.ID())
			}
		}
		for _, c := range ir.Children(n) {
			walkFnAddrs(c)
		}
	}

	for _, decl := range m.Declarations().Slice() {
		walkFnAddrs(decl)
		for _, ann := range ir.DeclAnnotations(decl).Slice() {
			if ir.GetAnnotationName(ann) == ir.AnnotationEntryPointArgs {
				for _, v := range ir.ExtractAnnotationValues(ann).Slice() {
					walkFnAddrs(v)
				}
				if v := ir.ExtractAnnotationValue(ann); v != nil {
					walkFnAddrs(v)
				}
			}
		}
	}
}

// ResidualTags lists, per pipeline stage name (Stage.Name in
// internal/passes.Stages), the node tags that stage promises to remove —
// the per-pass fixed-point check: if one of these tags is still reachable
// in the module that stage just produced, the pass has a bug regardless
// of whether Verify's structural checks above happen to pass.
var ResidualTags = map[string][]ir.Tag{
	"bind":                {ir.TagUnbound, ir.TagParsedBlock},
	"lower_cf":            {ir.TagIf, ir.TagMatch, ir.TagLoop},
	"lower_tailcalls":     {ir.TagTailCall},
	"lower_mask":          {ir.TagMaskType},
	"lower_continuations": {ir.TagJoin},
	"lower_int":           {}, // populated once a dedicated 64-bit-width residual tag exists; Int64Type is a type, not a node tag, so it is checked separately by callers that care
}

// ResidualPredicates lists, per stage, a node-level condition that stage's
// contract forbids but that can't be named by a single Tag alone — a
// PrimOp whose Op and operand's address space matter, not just its tag.
// Checked the same walk as ResidualTags, just against the node itself
// rather than against a fixed tag set.
var ResidualPredicates = map[string]func(*ir.Node) bool{
	"lower_physical_ptrs": isPhysicalLoadOrStore,
}

// isPhysicalLoadOrStore reports whether n is a load or store whose pointer
// operand names a physical resource address space — the construct
// lower_physical_ptrs promises to replace with integer-indexed buffer
// accesses (spec §4.6 step 18, §8 "Lowering completeness").
func isPhysicalLoadOrStore(n *ir.Node) bool {
	if n.Tag != ir.TagPrimOp {
		return false
	}
	pp := n.Payload.(ir.PrimOpPayload)
	if pp.Op != ir.OpLoad && pp.Op != ir.OpStore {
		return false
	}
	if pp.Operands.Len() == 0 {
		return false
	}
	ptrT := ir.Unqualified(pp.Operands.At(0).Type)
	ptp, ok := ptrT.Payload.(ir.PtrTypePayload)
	if !ok {
		return false
	}
	switch ptp.AddressSpace {
	case ir.AsGlobal, ir.AsGlobalLogical, ir.AsSSBO, ir.AsUniformConstant, ir.AsPushConstant:
		return true
	default:
		return false
	}
}

// VerifyResidual checks that none of the tags ResidualTags[stage] lists,
// nor ResidualPredicates[stage] when one is registered, are still
// reachable from m's declarations, raising CodeResidualConstruct on the
// first violation found. A stage with no entry in either map is a no-op.
func VerifyResidual(stage string, m *ir.Module) {
	forbidden := ResidualTags[stage]
	predicate := ResidualPredicates[stage]
	if len(forbidden) == 0 && predicate == nil {
		return
	}
	forbiddenSet := make(map[ir.Tag]bool, len(forbidden))
	for _, t := range forbidden {
		forbiddenSet[t] = true
	}

	visited := make(map[uint64]bool)
	var walkTags func(n *ir.Node)
	walkTags = func(n *ir.Node) {
		if n == nil || visited[n.ID()] {
			return
		}
		visited[n.ID()] = true
		if forbiddenSet[n.Tag] {
			diagnostics.Raise(diagnostics.CodeResidualConstruct,
				"stage %q must remove every %s, but node %d is one", stage, n.Tag, n.ID())
		}
		if predicate != nil && predicate(n) {
			diagnostics.Raise(diagnostics.CodeResidualConstruct,
				"stage %q must remove every residual %s it forbids, but node %d is one", stage, n.Tag, n.ID())
		}
		for _, c := range ir.Children(n) {
			walkTags(c)
		}
	}
	for _, decl := range m.Declarations().Slice() {
		walkTags(decl)
	}
}
