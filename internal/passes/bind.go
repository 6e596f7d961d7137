// Package passes implements the fixed 21-stage lowering pipeline (C9): each
// file is one pass, built as a rewrite.Processor driven over the previous
// stage's arena into a fresh one. See pipeline.go for the run order.
package passes

import (
	"shady/internal/diagnostics"
	"shady/internal/ir"
	"shady/internal/rewrite"
)

// bindScope is a lexical stack of continuation-name tables, one pushed per
// ParsedBlock, mirroring bind.c's bound_variables list but keyed to names
// that are local to one block rather than to every binder in scope (this
// IR's plain Variable references already carry their binder's identity
// directly — see VariablePayload's doc comment — so only declaration-style
// name references, i.e. Unbound nodes, ever need resolving here).
type bindScope struct {
	names  map[string]*ir.Node // name -> source-arena node
	parent *bindScope
}

func (s *bindScope) resolve(name string) (*ir.Node, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if n, ok := sc.names[name]; ok {
			return n, true
		}
	}
	return nil, false
}

// bindProcessor resolves every Unbound textual reference left by a parser
// collaborator into a pointer-identified declaration or sibling
// continuation (spec §4.6 step 1, §6). It is the only pass in the pipeline
// that ever looks a node up by name instead of by structure.
type bindProcessor struct {
	srcModule *ir.Module
	scope     *bindScope
}

// BindProgram runs bind_program: it resolves every Unbound node in src
// against either the enclosing ParsedBlock's sibling continuations or
// src's top-level declarations, producing a module in dst with no Unbound
// or ParsedBlock nodes remaining (spec §4.6 step 1's exit condition).
// Grounded directly on src/passes/bind.c's bind_node/bind_program.
func BindProgram(src *ir.Module, dst *ir.Arena) *ir.Module {
	return runProgram(src, dst, &bindProcessor{srcModule: src})
}

func (p *bindProcessor) Process(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	switch n.Tag {
	case ir.TagUnbound:
		return p.resolveUnbound(r, n)
	case ir.TagParsedBlock:
		return p.bindParsedBlock(r, n)
	default:
		return rewrite.RecreateNodeIdentity(r, n)
	}
}

func (p *bindProcessor) resolveUnbound(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	name := n.Payload.(ir.UnboundPayload).Name
	if src, ok := p.scope.resolve(name); ok {
		return r.RewriteNode(src)
	}
	if decl := p.srcModule.LookupDeclaration(name); decl != nil {
		return r.RewriteNode(decl)
	}
	diagnostics.Raise(diagnostics.CodeUnboundReference, "could not resolve reference %q", name)
	return nil
}

// bindParsedBlock resolves the two-phase continuation-stub contract: every
// sibling continuation's name is registered against its *source* node
// before any instruction, terminator, or continuation body is rewritten, so
// a continuation that calls itself or a later sibling resolves correctly
// regardless of rewrite order (the cyclic-safety actually comes from
// rewrite.Rewriter's memoized stub-then-body handling of Function nodes;
// this scope only needs to make the name resolvable at all).
func (p *bindProcessor) bindParsedBlock(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	pb := n.Payload.(ir.ParsedBlockPayload)

	names := make(map[string]*ir.Node, pb.Continuations.Len())
	for i := 0; i < pb.ContinuationsVars.Len(); i++ {
		name := pb.ContinuationsVars.At(i).Payload.(ir.UnboundPayload).Name
		names[name] = pb.Continuations.At(i)
	}
	p.scope = &bindScope{names: names, parent: p.scope}
	defer func() { p.scope = p.scope.parent }()

	var instructions ir.Nodes
	if pb.Instructions.Len() > 0 {
		instructions = ir.Singleton(r.RewriteNode(ir.First(pb.Instructions)))
	}
	terminator := r.RewriteNode(pb.Terminator)

	// A continuation unreferenced by the terminator/instructions (dead code
	// the parser still emitted) must still be bound, or it would be lost.
	for i := 0; i < pb.Continuations.Len(); i++ {
		r.RewriteNode(pb.Continuations.At(i))
	}

	return ir.Block(r.DstArena, instructions, terminator)
}
