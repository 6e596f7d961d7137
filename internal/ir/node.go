package ir

import "fmt"

// Tag identifies which grammar variant a Node's Payload holds (spec §3,
// "Node category"). The grammar is expressed directly as a tagged sum type
// — one Tag plus one payload struct per variant — per the REDESIGN FLAGS
// guidance, rather than through the original's NODES(...) X-macro.
type Tag int

const (
	// Types
	TagIntType Tag = iota
	TagFloatType
	TagBoolType
	TagPackType
	TagRecordType
	TagArrayType
	TagPtrType
	TagFnType
	TagQualifiedType
	TagMaskType
	TagNominalType

	// Values
	TagIntLiteral
	TagFloatLiteral
	TagStringLiteral
	TagTuple
	TagPack
	TagRecordValue
	TagVariable
	TagFnAddr
	TagUnbound

	// Instructions
	TagPrimOp
	TagCall
	TagLet
	TagBlock
	TagParsedBlock
	TagIf
	TagMatch
	TagLoop

	// Terminators
	TagReturn
	TagBranch
	TagJump
	TagJoin
	TagTailCall
	TagUnreachable

	// Declarations
	TagFunction
	TagConstant
	TagGlobalVariable

	// Annotations
	TagAnnotation
)

func (t Tag) String() string {
	switch t {
	case TagIntType:
		return "IntType"
	case TagFloatType:
		return "FloatType"
	case TagBoolType:
		return "BoolType"
	case TagPackType:
		return "PackType"
	case TagRecordType:
		return "RecordType"
	case TagArrayType:
		return "ArrayType"
	case TagPtrType:
		return "PtrType"
	case TagFnType:
		return "FnType"
	case TagQualifiedType:
		return "QualifiedType"
	case TagMaskType:
		return "MaskType"
	case TagNominalType:
		return "NominalType"
	case TagIntLiteral:
		return "IntLiteral"
	case TagFloatLiteral:
		return "FloatLiteral"
	case TagStringLiteral:
		return "StringLiteral"
	case TagTuple:
		return "Tuple"
	case TagPack:
		return "Pack"
	case TagRecordValue:
		return "RecordValue"
	case TagVariable:
		return "Variable"
	case TagFnAddr:
		return "FnAddr"
	case TagUnbound:
		return "Unbound"
	case TagPrimOp:
		return "PrimOp"
	case TagCall:
		return "Call"
	case TagLet:
		return "Let"
	case TagBlock:
		return "Block"
	case TagParsedBlock:
		return "ParsedBlock"
	case TagIf:
		return "If"
	case TagMatch:
		return "Match"
	case TagLoop:
		return "Loop"
	case TagReturn:
		return "Return"
	case TagBranch:
		return "Branch"
	case TagJump:
		return "Jump"
	case TagJoin:
		return "Join"
	case TagTailCall:
		return "TailCall"
	case TagUnreachable:
		return "Unreachable"
	case TagFunction:
		return "Function"
	case TagConstant:
		return "Constant"
	case TagGlobalVariable:
		return "GlobalVariable"
	case TagAnnotation:
		return "Annotation"
	default:
		return fmt.Sprintf("Tag(%d)", int(t))
	}
}

// isDeclTag reports whether nodes of this tag are declarations: pointer-
// unique mutable handles rather than hash-consed values (I2).
func (t Tag) isDeclTag() bool {
	switch t {
	case TagFunction, TagConstant, TagGlobalVariable, TagNominalType:
		return true
	default:
		return false
	}
}

// Payload is implemented by every grammar variant's field struct. hashKey
// must build a structural key using only literal field values and the
// stable IDs of child *Node references — never by recursing into a child's
// own Payload — so that hash-consing a node never walks (and cannot
// infinite-loop on) a cyclic declaration graph (functions calling
// functions). See Arena.construct in arena.go.
type Payload interface {
	hashKey() string
}

// Node is an immutable (except for declaration stubs, see decls.go),
// uniquely-allocated IR atom: a Tag plus a tag-specific Payload (spec §3).
// Every Node belongs to exactly one Arena (I3); two structurally equal
// hash-consable nodes in the same arena are the same pointer (I1).
type Node struct {
	id      uint64
	arena   *Arena
	Tag     Tag
	Payload Payload
	// Type is this node's derived qualified type, populated by the type
	// checker when Arena.Config.CheckTypes is enabled (I4). A Variable
	// carries its declared type whatever that setting; other nodes have nil
	// when it is off, and Type-category nodes themselves always have nil.
	Type *Node
}

// ID returns the node's arena-local identity. Stable for the node's
// lifetime; used as the structural key ingredient for parent nodes instead
// of recursing into this node's own payload.
func (n *Node) ID() uint64 { return n.id }

// Arena returns the arena this node belongs to.
func (n *Node) Arena() *Arena { return n.arena }

// SameArena reports whether two nodes belong to the same arena (I3 check).
func SameArena(a, b *Node) bool {
	if a == nil || b == nil {
		return true
	}
	return a.arena == b.arena
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return Print(n)
}

// IsDeclaration reports whether this node is a mutable declaration handle.
func (n *Node) IsDeclaration() bool { return n.Tag.isDeclTag() }
