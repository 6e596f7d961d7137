package passes

import (
	"shady/internal/diagnostics"
	"shady/internal/ir"
	"shady/internal/rewrite"
)

// LowerCfProgram turns structured If/Match/Loop instructions into plain
// continuations joined by Branch/Jump (spec §4.6 step 7, GLOSSARY
// "Structured control flow"). This core's front-end contract only ever
// produces structured conditionals/loops in effect position (empty
// ReturnTypes/Let-outputs; a value-producing choice is expressed as
// separately-bound PrimOps in each arm instead) — lowering a construct that
// violates that contract raises CodeResidualConstruct rather than silently
// dropping a value. A branch/loop arm's Block is taken to "fall through"
// to its continuation when its own terminator is Unreachable (the
// placeholder the front end emits for "control continues after this
// construct"); any other terminator is a real exit (Return/Jump/Join/
// TailCall) and is left untouched. No original-source file was sampled for
// this pass; the shape follows bind.go's identity-fallback structure.
func LowerCfProgram(src *ir.Module) *ir.Module {
	dst := ir.NewArena(src.Arena().Config)
	return runProgram(src, dst, &lowerCfProcessor{})
}

type lowerCfProcessor struct{}

func (p *lowerCfProcessor) Process(r *rewrite.Rewriter, n *ir.Node) *ir.Node {
	if n.Tag == ir.TagLet {
		lp := n.Payload.(ir.LetPayload)
		switch lp.Instruction.Tag {
		case ir.TagIf:
			return p.lowerIf(r, lp)
		case ir.TagMatch:
			return p.lowerMatch(r, lp)
		case ir.TagLoop:
			return p.lowerLoop(r, lp)
		}
	}
	return rewrite.RecreateNodeIdentity(r, n)
}

func (p *lowerCfProcessor) lowerIf(r *rewrite.Rewriter, lp ir.LetPayload) *ir.Node {
	ip := lp.Instruction.Payload.(ir.IfPayload)
	if ip.ReturnTypes.Len() > 0 || lp.Outputs.Len() > 0 {
		diagnostics.Raise(diagnostics.CodeResidualConstruct,
			"lower_cf: a value-yielding structured If is not supported by this pipeline")
	}

	join := ir.NewFunctionStub(r.DstModule, ir.Nodes{}, r.DstArena.UniqueName("if_join"), r.DstArena.Empty(), r.DstArena.Empty(), true)
	join.Patch(r.RewriteNode(lp.Tail))

	condition := r.RewriteNode(ip.Condition)
	thenCont := p.lowerArm(r, ip.Then, join)
	elseCont := join
	if ip.Else != nil {
		elseCont = p.lowerArm(r, ip.Else, join)
	}
	return ir.Branch(r.DstArena, condition, thenCont, r.DstArena.Empty(), elseCont, r.DstArena.Empty())
}

func (p *lowerCfProcessor) lowerMatch(r *rewrite.Rewriter, lp ir.LetPayload) *ir.Node {
	mp := lp.Instruction.Payload.(ir.MatchPayload)
	if mp.ReturnTypes.Len() > 0 || lp.Outputs.Len() > 0 {
		diagnostics.Raise(diagnostics.CodeResidualConstruct,
			"lower_cf: a value-yielding Match is not supported by this pipeline")
	}

	join := ir.NewFunctionStub(r.DstModule, ir.Nodes{}, r.DstArena.UniqueName("match_join"), r.DstArena.Empty(), r.DstArena.Empty(), true)
	join.Patch(r.RewriteNode(lp.Tail))

	inspectee := r.RewriteNode(mp.Inspectee)
	chain := p.lowerArm(r, mp.Default, join)

	// Build the cascade right-to-left so each test's "miss" target is
	// already the previous (lower-priority) case's test continuation.
	for i := len(mp.Cases) - 1; i >= 0; i-- {
		c := mp.Cases[i]
		caseCont := p.lowerArm(r, c.Body, join)
		caseValue := r.RewriteNode(c.Value)

		test := ir.NewFunctionStub(r.DstModule, ir.Nodes{}, r.DstArena.UniqueName("match_test"), r.DstArena.Empty(), r.DstArena.Empty(), true)
		cond := ir.PrimOp(r.DstArena, ir.OpEq, ir.Nodes{}, r.DstArena.NewNodes(inspectee, caseValue))
		condVar := ir.Var(r.DstArena, ir.BoolType(r.DstArena), "match_cond")
		branch := ir.Branch(r.DstArena, condVar, caseCont, r.DstArena.Empty(), chain, r.DstArena.Empty())
		test.Patch(ir.Let(r.DstArena, cond, ir.Singleton(condVar), branch))
		chain = test
	}
	return ir.Jump(r.DstArena, chain, r.DstArena.Empty())
}

// lowerLoop lowers Loop into a self-jumping header continuation. Per this
// pass's doc comment, only effect-only loops (empty ReturnTypes/outputs)
// are supported: a loop's only observable exit is a real terminator
// (Return/TailCall/Join) inside its body, which — since it diverges out of
// the enclosing function entirely — makes the Let's tail genuinely
// unreachable here, consistent with the same convention applied to If/Match.
func (p *lowerCfProcessor) lowerLoop(r *rewrite.Rewriter, lp ir.LetPayload) *ir.Node {
	loopp := lp.Instruction.Payload.(ir.LoopPayload)
	if loopp.ReturnTypes.Len() > 0 || lp.Outputs.Len() > 0 {
		diagnostics.Raise(diagnostics.CodeResidualConstruct,
			"lower_cf: a value-yielding Loop is not supported by this pipeline")
	}

	params := r.RewriteBindings(loopp.Params)
	header := ir.NewFunctionStub(r.DstModule, params, r.DstArena.UniqueName("loop_header"), r.DstArena.Empty(), r.DstArena.Empty(), true)
	header.Patch(p.lowerBlockContinue(r, loopp.Body, header, params))

	initial := r.RewriteNodes(loopp.Initial)
	return ir.Jump(r.DstArena, header, initial)
}

// lowerArm wraps block in a fresh zero-parameter continuation whose
// terminator falls through to join when block's own terminator is
// Unreachable.
func (p *lowerCfProcessor) lowerArm(r *rewrite.Rewriter, block *ir.Node, join *ir.Node) *ir.Node {
	cont := ir.NewFunctionStub(r.DstModule, ir.Nodes{}, r.DstArena.UniqueName("cf_arm"), r.DstArena.Empty(), r.DstArena.Empty(), true)
	cont.Patch(p.lowerBlockContinue(r, block, join, r.DstArena.Empty()))
	return cont
}

func (p *lowerCfProcessor) lowerBlockContinue(r *rewrite.Rewriter, block *ir.Node, continueTarget *ir.Node, continueArgs ir.Nodes) *ir.Node {
	bp := block.Payload.(ir.BlockPayload)
	var instrs ir.Nodes
	if bp.Instructions.Len() > 0 {
		instrs = ir.Singleton(r.RewriteNode(ir.First(bp.Instructions)))
	}
	var terminator *ir.Node
	if bp.Terminator.Tag == ir.TagUnreachable {
		terminator = ir.Jump(r.DstArena, continueTarget, continueArgs)
	} else {
		terminator = r.RewriteNode(bp.Terminator)
	}
	return ir.Block(r.DstArena, instrs, terminator)
}
