// Package rewrite implements the arena-to-arena node rewriting framework
// every lowering pass (C9) is built on: a memoized walk from a source
// arena's nodes to freshly-constructed nodes in a destination arena,
// dispatched through a single-method Processor rather than the original's
// function-pointer rewrite_fn (spec's REDESIGN FLAGS), with two-phase
// stub-then-body handling for declarations so cyclic references (a
// function calling itself, sibling continuations referencing each other)
// resolve correctly (spec §4.4).
package rewrite

import (
	"shady/internal/diagnostics"
	"shady/internal/ir"
)

// Processor is implemented by each pass. Process is called once per
// distinct source node (memoized by Rewriter), and returns that node's
// image in the destination arena. A Processor's Process method typically
// switches on a handful of tags it cares about and falls back to
// RecreateNodeIdentity for everything else.
type Processor interface {
	Process(r *Rewriter, n *ir.Node) *ir.Node
}

// Rewriter drives one arena-to-arena rewrite pass (C8). SrcArena and
// DstArena are always distinct arenas (spec §3 lifecycle: a pass never
// mutates its input in place). DstModule is where rewritten top-level
// declarations are registered.
type Rewriter struct {
	SrcArena  *ir.Arena
	DstArena  *ir.Arena
	DstModule *ir.Module
	Processor Processor

	memo map[uint64]*ir.Node
}

// New creates a Rewriter ready to drive p over src, producing nodes in dst
// registered against module.
func New(src, dst *ir.Arena, module *ir.Module, p Processor) *Rewriter {
	return &Rewriter{SrcArena: src, DstArena: dst, DstModule: module, Processor: p, memo: make(map[uint64]*ir.Node)}
}

// RewriteNode returns n's image under this rewrite, computing and
// memoizing it on first encounter (C8's memoization requirement). Calling
// RewriteNode a second time on the same source node, even reentrantly from
// within its own Process call (see Remember), returns the same pointer.
func (r *Rewriter) RewriteNode(n *ir.Node) *ir.Node {
	if n == nil {
		return nil
	}
	if n.Arena() != r.SrcArena {
		diagnostics.Raise(diagnostics.CodeForeignArena, "rewrite encountered a node from a foreign arena")
	}
	if existing, ok := r.memo[n.ID()]; ok {
		return existing
	}
	out := r.Processor.Process(r, n)
	r.memo[n.ID()] = out
	return out
}

// RewriteNodes rewrites each element of ns and re-interns the result in the
// destination arena.
func (r *Rewriter) RewriteNodes(ns ir.Nodes) ir.Nodes {
	out := make([]*ir.Node, ns.Len())
	for i, n := range ns.Slice() {
		out[i] = r.RewriteNode(n)
	}
	return r.DstArena.NewNodes(out...)
}

// Remember registers dst as src's image before Process has returned,
// letting a declaration (or a Let/Loop binding) that references itself
// resolve to its own stub instead of recursing forever — the two-phase
// stub-then-body discipline (spec §4.4, §9).
func (r *Rewriter) Remember(src, dst *ir.Node) {
	r.memo[src.ID()] = dst
}

// rewriteBinding rewrites a single Variable binding site (a Let output, a
// function/continuation parameter, a Loop param): it allocates a fresh
// Variable of the rewritten type in the destination arena and remembers it
// against the old Variable node, so later references (also Variable nodes,
// resolved purely by identity) pick up the new binding via RewriteNode.
func (r *Rewriter) rewriteBinding(oldVar *ir.Node) *ir.Node {
	name := ir.VariableName(oldVar)
	newVar := ir.Var(r.DstArena, r.RewriteNode(oldVar.Type), name)
	r.Remember(oldVar, newVar)
	return newVar
}

func (r *Rewriter) rewriteBindings(oldVars ir.Nodes) ir.Nodes {
	out := make([]*ir.Node, oldVars.Len())
	for i, v := range oldVars.Slice() {
		out[i] = r.rewriteBinding(v)
	}
	return r.DstArena.NewNodes(out...)
}

// RewriteBinding and RewriteBindings are the exported forms of
// rewriteBinding/rewriteBindings, for passes that need to introduce a fresh
// binder of their own (e.g. a Let the pass itself is inserting) rather than
// just falling through RecreateNodeIdentity.
func (r *Rewriter) RewriteBinding(oldVar *ir.Node) *ir.Node   { return r.rewriteBinding(oldVar) }
func (r *Rewriter) RewriteBindings(oldVars ir.Nodes) ir.Nodes { return r.rewriteBindings(oldVars) }
