package ir

// PrimOpCode enumerates the primitive operators the grammar's PrimOp
// instruction can carry. This is not an exhaustive instruction-set listing
// (spec §1 scope is the pipeline, not the ISA) but covers every op a
// pipeline pass in this repo constructs or consumes.
type PrimOpCode int

const (
	OpAdd PrimOpCode = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpLt
	OpNot
	OpAnd
	OpOr
	OpSExt
	OpZExt
	OpTrunc
	OpReinterpretCast

	OpLoad
	OpStore
	OpLea // pointer arithmetic: base, offset, indices

	OpAlloca      // user-stack slot allocation (logical, pre lower_stack)
	OpPush        // user-level-stack push (logical)
	OpPop         // user-level-stack pop (logical)
	OpGetStackBase

	OpSubgroupBroadcastFirst
	OpSubgroupAssumeUniform
	OpSubgroupElectFirst
	OpSubgroupBallot // mask-producing

	OpMaskIsThreadActive
	OpMaskExtractElement // when lowered to packed-int representation

	OpEmpty // MaskType-producing "no lanes active yet"/debug no-op marker
)

func (op PrimOpCode) String() string {
	names := map[PrimOpCode]string{
		OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div",
		OpEq: "eq", OpLt: "lt", OpNot: "not", OpAnd: "and", OpOr: "or",
		OpSExt: "sext", OpZExt: "zext", OpTrunc: "trunc",
		OpReinterpretCast: "reinterpret_cast",
		OpLoad:            "load", OpStore: "store", OpLea: "lea",
		OpAlloca: "alloca", OpPush: "push", OpPop: "pop",
		OpGetStackBase:           "get_stack_base",
		OpSubgroupBroadcastFirst: "subgroup_broadcast_first",
		OpSubgroupAssumeUniform:  "subgroup_assume_uniform",
		OpSubgroupElectFirst:     "subgroup_elect_first",
		OpSubgroupBallot:         "subgroup_ballot",
		OpMaskIsThreadActive:     "mask_is_thread_active",
		OpMaskExtractElement:     "mask_extract_element",
		OpEmpty:                  "empty",
	}
	if s, ok := names[op]; ok {
		return s
	}
	return "op?"
}

// IsPure reports whether op has no side effects worth a memory/storage
// barrier — used by the folder (dead-Let elision needs to know an
// instruction is droppable when its result is unused).
func (op PrimOpCode) IsPure() bool {
	switch op {
	case OpStore, OpAlloca, OpPush, OpPop:
		return false
	default:
		return true
	}
}
