package verify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shady/internal/ir"
	"shady/internal/verify"
)

func TestVerifyAcceptsWellFormedModule(t *testing.T) {
	a := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(a, "m")

	fn := ir.NewFunctionStub(m, ir.Nodes{}, "f", ir.Nodes{}, ir.Nodes{}, false)
	v := ir.Var(a, ir.Int32Type(a), "x")
	fn.Patch(ir.Let(a, ir.Int32Literal(a, 1), ir.Singleton(v), ir.Return(a, ir.Singleton(v))))

	assert.NotPanics(t, func() { verify.Verify(m) })
}

func TestVerifyRejectsForeignArenaReference(t *testing.T) {
	a1 := ir.NewArena(ir.DefaultArenaConfig())
	a2 := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(a1, "m")

	fn := ir.NewFunctionStub(m, ir.Nodes{}, "f", ir.Nodes{}, ir.Nodes{}, false)
	foreign := ir.Int32Literal(a2, 1) // allocated in the wrong arena
	fn.Patch(ir.Return(a1, ir.Singleton(foreign)))

	assert.Panics(t, func() { verify.Verify(m) })
}

func TestVerifyRejectsBareInstructionAsLetTail(t *testing.T) {
	a := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(a, "m")

	fn := ir.NewFunctionStub(m, ir.Nodes{}, "f", ir.Nodes{}, ir.Nodes{}, false)
	v := ir.Var(a, ir.Int32Type(a), "x")
	// a Let whose tail is a bare PrimOp, not a Let/terminator/structured
	// construct, violates the Let-chain spine invariant (I5).
	bareTail := ir.PrimOp(a, ir.OpAdd, ir.Nodes{}, a.NewNodes(v, v))
	fn.Patch(ir.Let(a, ir.Int32Literal(a, 1), ir.Singleton(v), bareTail))

	assert.Panics(t, func() { verify.Verify(m) })
}

func TestVerifyResidualCatchesUnboundAfterBind(t *testing.T) {
	a := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(a, "m")

	fn := ir.NewFunctionStub(m, ir.Nodes{}, "f", ir.Nodes{}, ir.Nodes{}, false)
	fn.Patch(ir.Return(a, ir.Singleton(ir.Unbound(a, "whatever"))))

	assert.Panics(t, func() { verify.VerifyResidual("bind", m) })
}

func TestVerifyResidualCatchesMaskTypeAfterLowerMask(t *testing.T) {
	a := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(a, "m")

	v := ir.Var(a, ir.Uniform(a, ir.MaskTypeNode(a)), "mask")
	fn := ir.NewFunctionStub(m, ir.Nodes{}, "f", ir.Nodes{}, ir.Nodes{}, false)
	fn.Patch(ir.Let(a, ir.PrimOp(a, ir.OpSubgroupBallot, ir.Nodes{}, ir.Nodes{}), ir.Singleton(v), ir.Return(a, ir.Singleton(v))))

	assert.Panics(t, func() { verify.VerifyResidual("lower_mask", m) })
}

func TestVerifyResidualCatchesJoinAfterLowerContinuations(t *testing.T) {
	a := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(a, "m")

	k := ir.NewFunctionStub(m, ir.Nodes{}, "k", ir.Nodes{}, ir.Nodes{}, true)
	k.Patch(ir.Return(a, ir.Nodes{}))

	fn := ir.NewFunctionStub(m, ir.Nodes{}, "f", ir.Nodes{}, ir.Nodes{}, false)
	fn.Patch(ir.Join(a, k, ir.Nodes{}))

	assert.Panics(t, func() { verify.VerifyResidual("lower_continuations", m) })
}

func TestVerifyResidualCatchesPhysicalLoadAfterLowerPhysicalPtrs(t *testing.T) {
	a := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(a, "m")

	ptrTy := ir.PtrType(a, ir.AsGlobal, ir.Int32Type(a))
	ptr := ir.Var(a, ir.Uniform(a, ptrTy), "p")
	v := ir.Var(a, ir.Uniform(a, ir.Int32Type(a)), "x")
	fn := ir.NewFunctionStub(m, ir.Singleton(ptr), "f", ir.Nodes{}, ir.Nodes{}, false)
	fn.Patch(ir.Let(a, ir.PrimOp(a, ir.OpLoad, ir.Nodes{}, a.NewNodes(ptr)), ir.Singleton(v), ir.Return(a, ir.Singleton(v))))

	assert.Panics(t, func() { verify.VerifyResidual("lower_physical_ptrs", m) })
}

func TestVerifyResidualAllowsPrivateLoadAfterLowerPhysicalPtrs(t *testing.T) {
	a := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(a, "m")

	ptrTy := ir.PtrType(a, ir.AsPrivate, ir.Int32Type(a))
	ptr := ir.Var(a, ir.Uniform(a, ptrTy), "p")
	v := ir.Var(a, ir.Uniform(a, ir.Int32Type(a)), "x")
	fn := ir.NewFunctionStub(m, ir.Singleton(ptr), "f", ir.Nodes{}, ir.Nodes{}, false)
	fn.Patch(ir.Let(a, ir.PrimOp(a, ir.OpLoad, ir.Nodes{}, a.NewNodes(ptr)), ir.Singleton(v), ir.Return(a, ir.Singleton(v))))

	assert.NotPanics(t, func() { verify.VerifyResidual("lower_physical_ptrs", m) }, "lower_stack's own residual Private loads are not this stage's concern")
}

func TestVerifyResidualIsNoOpForUnlistedStage(t *testing.T) {
	a := ir.NewArena(ir.DefaultArenaConfig())
	m := ir.NewModule(a, "m")
	ir.NewFunctionStub(m, ir.Nodes{}, "f", ir.Nodes{}, ir.Nodes{}, false).Patch(ir.Return(a, ir.Nodes{}))

	assert.NotPanics(t, func() { verify.VerifyResidual("normalize", m) })
}
