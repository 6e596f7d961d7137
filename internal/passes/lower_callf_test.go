package passes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shady/internal/ir"
	"shady/internal/passes"
)

func TestLowerCallfConvertsCallAndReturnToCPS(t *testing.T) {
	src := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(src, "m")

	callee := ir.NewFunctionStub(m, ir.Nodes{}, "callee", ir.Nodes{}, src.NewNodes(ir.Int32Type(src)), false)
	calleeV := ir.Var(src, ir.Int32Type(src), "cv")
	callee.Patch(ir.Return(src, ir.Singleton(calleeV)))

	caller := ir.NewFunctionStub(m, ir.Nodes{}, "caller", ir.Nodes{}, src.NewNodes(ir.Int32Type(src)), false)
	result := ir.Var(src, ir.Int32Type(src), "r")
	call := ir.Call(src, callee, ir.Nodes{})
	caller.Patch(ir.Let(src, call, ir.Singleton(result), ir.Return(src, ir.Singleton(result))))

	out := passes.LowerCallfProgram(m)

	calleeDecl := out.LookupDeclaration("callee")
	// every declared function's Return becomes a Join to its retK parameter.
	calleeBody := ir.GetAbstractionBody(calleeDecl)
	assert.Equal(t, ir.TagJoin, calleeBody.Tag)
	params := ir.GetAbstractionParams(calleeDecl)
	assert.Equal(t, 1, params.Len(), "a retk parameter must be appended")

	callerDecl := out.LookupDeclaration("caller")
	callerBody := ir.GetAbstractionBody(callerDecl)
	assert.Equal(t, ir.TagTailCall, callerBody.Tag, "a non-tail Call becomes a TailCall passing a fresh return continuation")

	tcp := callerBody.Payload.(ir.TailCallPayload)
	lastArg := tcp.Args.At(tcp.Args.Len() - 1)
	assert.Equal(t, ir.TagFnAddr, lastArg.Tag)
}

func TestLowerCallfLeavesEntryPointUnconverted(t *testing.T) {
	src := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(src, "m")

	entryAnn := ir.Singleton(ir.NewAnnotation(src, ir.AnnotationEntryPoint, nil))
	entry := ir.NewFunctionStub(m, ir.Nodes{}, "main", entryAnn, ir.Nodes{}, false)
	entry.Patch(ir.Return(src, ir.Nodes{}))

	out := passes.LowerCallfProgram(m)

	decl := out.LookupDeclaration("main")
	assert.Equal(t, ir.TagReturn, ir.GetAbstractionBody(decl).Tag, "an EntryPoint function keeps a plain Return, never gains a retk parameter")
	assert.Equal(t, 0, ir.GetAbstractionParams(decl).Len())
}
