package passes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shady/internal/ir"
	"shady/internal/passes"
)

func TestLowerTailcallsTrampolinesSelfRecursion(t *testing.T) {
	src := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(src, "m")

	p := ir.Var(src, ir.Int32Type(src), "i")
	fn := ir.NewFunctionStub(m, ir.Singleton(p), "loop", ir.Nodes{}, ir.Nodes{}, false)
	selfCall := ir.TailCall(src, fn, ir.Singleton(p))
	fn.Patch(selfCall)

	out := passes.LowerTailcallsProgram(m)

	decl := out.LookupDeclaration("loop")
	entryBody := ir.GetAbstractionBody(decl)
	assert.Equal(t, ir.TagBlock, entryBody.Tag)

	bp := entryBody.Payload.(ir.BlockPayload)
	assert.Equal(t, ir.TagJump, bp.Terminator.Tag)
	header := bp.Terminator.Payload.(ir.JumpPayload).Target
	assert.True(t, ir.IsContinuation(header))

	headerBody := ir.GetAbstractionBody(header)
	assert.Equal(t, ir.TagJump, headerBody.Tag, "self-recursive TailCall inside the loop header becomes a backward Jump")
	assert.Same(t, header, headerBody.Payload.(ir.JumpPayload).Target)
}

func TestLowerTailcallsTrampolinesCrossFunctionCall(t *testing.T) {
	src := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(src, "m")

	other := ir.NewFunctionStub(m, ir.Nodes{}, "other", ir.Nodes{}, ir.Nodes{}, false)
	other.Patch(ir.Return(src, ir.Nodes{}))

	fn := ir.NewFunctionStub(m, ir.Nodes{}, "f", ir.Nodes{}, ir.Nodes{}, false)
	fn.Patch(ir.TailCall(src, other, ir.Nodes{}))

	out := passes.LowerTailcallsProgram(m)

	decl := out.LookupDeclaration("f")
	entry := ir.GetAbstractionBody(decl).Payload.(ir.BlockPayload)
	header := entry.Terminator.Payload.(ir.JumpPayload).Target
	body := ir.GetAbstractionBody(header)
	assert.Equal(t, ir.TagJump, body.Tag, "a tail call to a different function is trampolined into a Jump carrying a scheduler ID, not left as a raw TailCall")

	jp := body.Payload.(ir.JumpPayload)
	assert.Equal(t, "other", ir.GetAbstractionName(jp.Target))
	assert.Equal(t, 1, jp.Args.Len(), "the scheduler-ID argument is appended even though the call site itself passed none")
	assert.Equal(t, ir.TagIntLiteral, jp.Args.At(0).Tag)
}

func TestLowerTailcallsAppendsSchedulerIDParamToNonEntryPointFunctions(t *testing.T) {
	src := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(src, "m")

	other := ir.NewFunctionStub(m, ir.Nodes{}, "other", ir.Nodes{}, ir.Nodes{}, false)
	other.Patch(ir.Return(src, ir.Nodes{}))

	fn := ir.NewFunctionStub(m, ir.Nodes{}, "f", ir.Nodes{}, ir.Nodes{}, false)
	fn.Patch(ir.TailCall(src, other, ir.Nodes{}))

	out := passes.LowerTailcallsProgram(m)

	decl := out.LookupDeclaration("other")
	params := ir.GetAbstractionParams(decl)
	assert.Equal(t, 1, params.Len(), "other gains a trailing scheduler-ID parameter since it is a cross-function tail-call target")
}

func TestLowerTailcallsSkipsSchedulerIDParamForEntryPoint(t *testing.T) {
	src := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(src, "m")

	ann := ir.NewAnnotation(src, ir.AnnotationEntryPoint, nil)
	fn := ir.NewFunctionStub(m, ir.Nodes{}, "main", ir.Singleton(ann), ir.Nodes{}, false)
	fn.Patch(ir.Return(src, ir.Nodes{}))

	out := passes.LowerTailcallsProgram(m)

	decl := out.LookupDeclaration("main")
	assert.Equal(t, 0, ir.GetAbstractionParams(decl).Len(), "an EntryPoint's signature is fixed by the pipeline stage ABI and must not grow")
}
