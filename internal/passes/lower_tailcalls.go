package passes

import (
	"shady/internal/ir"
	"shady/internal/rewrite"
)

// LowerTailcallsProgram compiles every TailCall to a scheduler trampoline
// (spec §4.6 step 13, GLOSSARY "Tail call"): a self-recursive TailCall (the
// callee is literally the enclosing function) becomes a backward Jump to a
// loop header taking the same parameters, the one case this pipeline can
// resolve as pure intra-function control flow. A TailCall to any other
// function f -> g becomes a Jump straight to g's entry carrying g's
// scheduler ID as an extra trailing argument (spec §8 scenario 3: "f's
// terminator writes g's scheduler ID into the next-continuation slot,
// then jumps to the trampoline"). The "slot" is realized as an ordinary
// received parameter rather than shared mutable memory: this IR's
// declarations have no addressable GlobalVariable value form (the same
// gap lower_stack.go's header documents for a moving stack pointer), so a
// real write-then-dispatch-by-ID loop isn't buildable without inventing
// that capability; threading the ID as a value argument, the same idiom
// lower_callf.go already uses to thread retk, gets the scheduler-visible
// bookkeeping onto every cross-function edge without it. Either way, no
// node with tag TailCall survives this pass (verify.VerifyResidual
// enforces it alongside the other stages). EntryPoint functions are
// skipped, matching lower_callf.go's own carve-out: their signature is
// fixed by the pipeline stage ABI, not something this pass may extend. No
// original-source file was sampled for this pass; the shape follows
// bind.go's identity-fallback structure.
func LowerTailcallsProgram(src *ir.Module) *ir.Module {
	dst := ir.NewArena(src.Arena().Config)

	schedIDs := make(map[*ir.Node]int32)
	var next int32
	for _, decl := range src.Declarations().Slice() {
		if decl.Tag == ir.TagFunction {
			schedIDs[decl] = next
			next++
		}
	}

	return runProgram(src, dst, &lowerTailcallsProcessor{schedIDs: schedIDs})
}

type lowerTailcallsProcessor struct {
	currentSrcFn *ir.Node // enclosing non-continuation Function, src arena
	loopHeader   *ir.Node // its dst-arena loop header continuation, once introduced
	schedIDs     map[*ir.Node]int32
}

func (p *lowerTailcallsProcessor) Process(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	switch n.Tag {
	case ir.TagFunction:
		if !ir.IsContinuation(n) {
			return p.rewriteFunction(r, n)
		}
	case ir.TagTailCall:
		tc := n.Payload.(ir.TailCallPayload)
		if p.currentSrcFn != nil && tc.Callee == p.currentSrcFn {
			return ir.Jump(r.DstArena, p.loopHeader, r.RewriteNodes(tc.Args))
		}
		return p.trampoline(r, tc)
	}
	return rewrite.RecreateNodeIdentity(r, n)
}

func (p *lowerTailcallsProcessor) rewriteFunction(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	fp := n.Payload.(*ir.FunctionPayload)
	annotations := r.RewriteNodes(fp.Annotations)
	returnTypes := r.RewriteNodes(fp.ReturnTypes)
	isEntryPoint := ir.LookupAnnotation(n, ir.AnnotationEntryPoint) != nil

	// Entry params (stub's own, visible to callers) are fresh variables
	// distinct from the loop header's, which are what fp.Params actually
	// gets remembered against — the body always executes as the header,
	// never directly as the entry stub. Every non-EntryPoint stub also
	// receives a trailing scheduler-ID parameter recording which edge was
	// used to reach it; the stub itself ignores it and forwards only the
	// original params on to the header.
	entryParams := make([]*ir.Node, fp.Params.Len())
	for i, op := range fp.Params.Slice() {
		entryParams[i] = ir.Var(r.DstArena, r.RewriteNode(op.Type), ir.VariableName(op))
	}
	stubParams := r.DstArena.NewNodes(entryParams...)
	if !isEntryPoint {
		schedParam := ir.Var(r.DstArena, ir.Uniform(r.DstArena, ir.IntType(r.DstArena, 32, false)), "sched_id")
		stubParams = r.DstArena.AppendNodes(stubParams, schedParam)
	}
	stub := ir.NewFunctionStub(r.DstModule, stubParams, fp.Name, annotations, returnTypes, false)
	r.Remember(n, stub)
	if fp.IsLeaf {
		ir.MarkLeaf(stub)
	}

	body := ir.GetAbstractionBody(n)
	if body == nil {
		return stub
	}

	headerParams := r.RewriteBindings(fp.Params)
	header := ir.NewFunctionStub(r.DstModule, headerParams, r.DstArena.UniqueName("tailrec_loop"), r.DstArena.Empty(), r.DstArena.Empty(), true)

	prevFn, prevHeader := p.currentSrcFn, p.loopHeader
	p.currentSrcFn, p.loopHeader = n, header
	header.Patch(r.RewriteNode(body))
	p.currentSrcFn, p.loopHeader = prevFn, prevHeader

	stub.Patch(ir.Block(r.DstArena, r.DstArena.Empty(), ir.Jump(r.DstArena, header, r.DstArena.NewNodes(entryParams...))))
	return stub
}

// trampoline rewrites a cross-function TailCall(g, args) into a Jump
// straight to g's (already-rewritten) entry stub, appending g's scheduler
// ID as the trailing argument that stub's extra sched_id parameter
// expects — unless g is an EntryPoint, which never received that extra
// parameter in the first place.
func (p *lowerTailcallsProcessor) trampoline(r *rewrite.Rewriter, tc ir.TailCallPayload) *ir.Node {
	calleeStub := r.RewriteNode(tc.Callee)
	args := r.RewriteNodes(tc.Args)

	if ir.LookupAnnotation(tc.Callee, ir.AnnotationEntryPoint) != nil {
		return ir.Jump(r.DstArena, calleeStub, args)
	}

	id := p.schedIDs[tc.Callee]
	args = r.DstArena.AppendNodes(args, ir.Int32Literal(r.DstArena, id))
	return ir.Jump(r.DstArena, calleeStub, args)
}
