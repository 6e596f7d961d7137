// Package diagnostics provides the compiler core's single logging channel
// and fatal-error taxonomy. Every failure the core can produce is a bug in
// the compiler, never a user error (spec §7) — user parse errors belong to
// an external parser collaborator and are never constructed here.
package diagnostics

// Error code ranges, mirroring the category list in spec §7:
//
//	C01xx: type errors during node construction
//	C02xx: verifier failures between passes
//	C03xx: unsupported configuration
//	C04xx: resource exhaustion
//	C09xx: reserved for an external parser collaborator's user-facing errors
const (
	// CodeTypeMismatch: a construction rule rejected mismatched operand types.
	CodeTypeMismatch = "C0100"
	// CodeQualificationMismatch: a construction rule rejected a Uniform/Varying mismatch.
	CodeQualificationMismatch = "C0101"
	// CodeArityMismatch: an instruction received the wrong operand count.
	CodeArityMismatch = "C0102"
	// CodeUnsupportedOperand: a PrimOp was applied to a type it has no rule for.
	CodeUnsupportedOperand = "C0103"

	// CodeForeignArena: a node referenced a node from a different arena (I3).
	CodeForeignArena = "C0200"
	// CodeHashConsViolation: two structurally-equal payloads produced distinct nodes (I1).
	CodeHashConsViolation = "C0201"
	// CodeUnboundReference: an Unbound node survived past bind_program.
	CodeUnboundReference = "C0202"
	// CodeLetSpineViolation: a Let's tail was a raw PrimOp instead of a Let/terminator/abstraction (I5).
	CodeLetSpineViolation = "C0203"
	// CodeDominanceViolation: a variable use was not dominated by its definition (I6).
	CodeDominanceViolation = "C0204"
	// CodeTypeDrift: an instruction's inferred type no longer matches its declared result (I4).
	CodeTypeDrift = "C0205"
	// CodeDanglingAnnotation: an annotation's back-reference target no longer exists in the module.
	CodeDanglingAnnotation = "C0206"
	// CodeResidualConstruct: the pipeline's output retained a construct a later stage promised to remove.
	CodeResidualConstruct = "C0207"

	// CodeUnsupportedConfig: a pass was asked to run under a configuration it cannot honor.
	CodeUnsupportedConfig = "C0300"

	// CodeArenaExhausted: the arena could not satisfy an allocation request.
	CodeArenaExhausted = "C0400"

	// CodeParseError is reserved for an external parser collaborator; the
	// core never raises it, but the code space is kept for symmetry with
	// whatever upstream tool produces it.
	CodeParseError = "C0900"
)

var descriptions = map[string]string{
	CodeTypeMismatch:          "operand types are incompatible for this construct",
	CodeQualificationMismatch: "uniform/varying qualification is incompatible for this construct",
	CodeArityMismatch:         "instruction received the wrong number of operands",
	CodeUnsupportedOperand:    "primop has no typing or folding rule for this operand type",
	CodeForeignArena:          "node references a node allocated in a different arena",
	CodeHashConsViolation:     "structurally equal payloads resolved to distinct nodes",
	CodeUnboundReference:      "an Unbound reference survived past bind_program",
	CodeLetSpineViolation:     "a Let's tail is not another Let, a terminator, or an abstraction",
	CodeDominanceViolation:    "a variable use is not dominated by its definition",
	CodeTypeDrift:             "an instruction's inferred type no longer matches its declared result",
	CodeDanglingAnnotation:    "an annotation's back-reference target is missing from the module",
	CodeResidualConstruct:     "the module still contains a construct this stage of the pipeline must remove",
	CodeUnsupportedConfig:     "the requested configuration cannot be honored by this pass",
	CodeArenaExhausted:        "the arena could not satisfy an allocation request",
	CodeParseError:            "reserved for an external parser collaborator",
}

// Describe returns a human-readable description of an error code, or the
// empty string if the code is not recognized.
func Describe(code string) string {
	return descriptions[code]
}
