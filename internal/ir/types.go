package ir

import "strconv"

// AddressSpace enumerates the memory spaces of spec §3. Spaces with a flat
// integer address model are "physical"; Global/Uniform/SSBO/PushConstant/
// Function/Private/Shared/Subgroup are physical, GlobalLogical is not.
type AddressSpace int

const (
	AsPrivate AddressSpace = iota
	AsShared
	AsSubgroup
	AsGlobal
	AsGlobalLogical
	AsUniformConstant // constant buffer
	AsSSBO
	AsPushConstant
	AsFunction
	AsGeneric
)

// IsPhysical reports whether pointers in this address space are ordinary
// flat integers rather than opaque logical handles (spec §3, GLOSSARY).
func IsPhysical(as AddressSpace) bool {
	return as != AsGlobalLogical
}

// IsUniform reports whether variables in this address space hold identical
// data for every lane of a subgroup (ir.h's is_addr_space_uniform).
func IsUniform(as AddressSpace) bool {
	switch as {
	case AsUniformConstant, AsPushConstant, AsGlobal, AsGlobalLogical:
		return true
	default:
		return false
	}
}

func (as AddressSpace) String() string {
	switch as {
	case AsPrivate:
		return "private"
	case AsShared:
		return "shared"
	case AsSubgroup:
		return "subgroup"
	case AsGlobal:
		return "global"
	case AsGlobalLogical:
		return "global_logical"
	case AsUniformConstant:
		return "uniform_constant"
	case AsSSBO:
		return "ssbo"
	case AsPushConstant:
		return "push_constant"
	case AsFunction:
		return "function"
	case AsGeneric:
		return "generic"
	default:
		return "as?"
	}
}

// --- Type payloads ---

type IntTypePayload struct {
	Width  int
	Signed bool
}

func (p IntTypePayload) hashKey() string {
	return strconv.Itoa(p.Width) + "," + strconv.FormatBool(p.Signed)
}

// IntType constructs Int(width, signed?).
func IntType(a *Arena, width int, signed bool) *Node {
	return a.construct(TagIntType, IntTypePayload{Width: width, Signed: signed})
}

func Int8Type(a *Arena) *Node  { return IntType(a, 8, true) }
func Int16Type(a *Arena) *Node { return IntType(a, 16, true) }
func Int32Type(a *Arena) *Node { return IntType(a, 32, true) }
func Int64Type(a *Arena) *Node { return IntType(a, 64, true) }

type FloatTypePayload struct{ Width int }

func (p FloatTypePayload) hashKey() string { return strconv.Itoa(p.Width) }

func FloatType(a *Arena, width int) *Node {
	return a.construct(TagFloatType, FloatTypePayload{Width: width})
}

type BoolTypePayload struct{}

func (BoolTypePayload) hashKey() string { return "" }

func BoolType(a *Arena) *Node { return a.construct(TagBoolType, BoolTypePayload{}) }

type PackTypePayload struct {
	Width   int
	Element *Node
}

func (p PackTypePayload) hashKey() string {
	return strconv.Itoa(p.Width) + "," + idOf(p.Element)
}

// PackType constructs Pack(N, T): a fixed-width SIMD-ish vector of T.
func PackType(a *Arena, width int, element *Node) *Node {
	return a.construct(TagPackType, PackTypePayload{Width: width, Element: element})
}

type RecordTypePayload struct {
	Members   Nodes
	Decorated bool
}

func (p RecordTypePayload) hashKey() string {
	return nodesKey(p.Members.elems) + "|" + boolKey(p.Decorated)
}

// RecordType constructs Record(members, decoration).
func RecordType(a *Arena, members Nodes, decorated bool) *Node {
	return a.construct(TagRecordType, RecordTypePayload{Members: members, Decorated: decorated})
}

type ArrayTypePayload struct {
	Element *Node
	Size    *Node // nil if unsized
}

func (p ArrayTypePayload) hashKey() string {
	return idOf(p.Element) + "," + idOf(p.Size)
}

// ArrayType constructs Array(elem, size?).
func ArrayType(a *Arena, element, size *Node) *Node {
	return a.construct(TagArrayType, ArrayTypePayload{Element: element, Size: size})
}

type PtrTypePayload struct {
	AddressSpace AddressSpace
	Pointed      *Node
}

func (p PtrTypePayload) hashKey() string {
	return strconv.Itoa(int(p.AddressSpace)) + "," + idOf(p.Pointed)
}

// PtrType constructs Ptr(addrspace, pointed).
func PtrType(a *Arena, as AddressSpace, pointed *Node) *Node {
	return a.construct(TagPtrType, PtrTypePayload{AddressSpace: as, Pointed: pointed})
}

type FnTypePayload struct {
	Params  Nodes
	Returns Nodes
}

func (p FnTypePayload) hashKey() string {
	return nodesKey(p.Params.elems) + "|" + nodesKey(p.Returns.elems)
}

// FnType constructs Fn(params, returns).
func FnType(a *Arena, params, returns Nodes) *Node {
	return a.construct(TagFnType, FnTypePayload{Params: params, Returns: returns})
}

type QualifiedTypePayload struct {
	Uniform bool
	Type    *Node
}

func (p QualifiedTypePayload) hashKey() string {
	return boolKey(p.Uniform) + "," + idOf(p.Type)
}

// QualifiedType wraps an unqualified type as Uniform(T) or Varying(T)
// (spec §3, "Qualified types").
func QualifiedType(a *Arena, uniform bool, t *Node) *Node {
	return a.construct(TagQualifiedType, QualifiedTypePayload{Uniform: uniform, Type: t})
}

// Uniform/Varying are the conventional spellings of QualifiedType.
func Uniform(a *Arena, t *Node) *Node { return QualifiedType(a, true, t) }
func Varying(a *Arena, t *Node) *Node { return QualifiedType(a, false, t) }

// IsQualified reports whether t is a QualifiedType node.
func IsQualified(t *Node) bool { return t != nil && t.Tag == TagQualifiedType }

// Unqualified strips a QualifiedType wrapper, returning t unchanged if it
// is not qualified (ir.h's get_unqualified_type).
func Unqualified(t *Node) *Node {
	if IsQualified(t) {
		return t.Payload.(QualifiedTypePayload).Type
	}
	return t
}

// IsUniformType reports whether a qualified type is Uniform; an
// unqualified type is conservatively treated as uniform.
func IsUniformType(t *Node) bool {
	if !IsQualified(t) {
		return true
	}
	return t.Payload.(QualifiedTypePayload).Uniform
}

// MeetQualification computes the meet used when combining two operands'
// qualification: Varying if either operand is Varying, else Uniform
// (spec §4.2: "qualification = meet(lhs, rhs) where Varying < Uniform").
func MeetQualification(lhs, rhs bool) bool { return lhs && rhs }

type MaskTypePayload struct{}

func (MaskTypePayload) hashKey() string { return "" }

// MaskTypeNode constructs the abstract per-lane boolean-vector type (spec §3,
// GLOSSARY "Mask"), eliminated by lower_mask.
func MaskTypeNode(a *Arena) *Node { return a.construct(TagMaskType, MaskTypePayload{}) }

// MaskRepresentationType returns the concrete type MaskType is lowered to
// under repr: a 64-bit or 32-bit unsigned integer for MaskInt64/
// MaskPackedBallot, or MaskType itself under MaskAbstract, where the
// construct has no lowering to perform yet. inferPrimOp's
// OpSubgroupBallot rule and lower_mask.go both call this so a subgroup
// ballot's own inferred type is already concrete under a concrete
// representation, rather than only the variable a pass happens to bind it
// to.
func MaskRepresentationType(a *Arena, repr MaskRepresentation) *Node {
	switch repr {
	case MaskInt64:
		return IntType(a, 64, false)
	case MaskPackedBallot:
		return IntType(a, 32, false)
	default:
		return MaskTypeNode(a)
	}
}

// NominalTypePayload is a module-scoped named type with a mutable body,
// following the declaration-stub discipline (spec §3: "NominalType
// (module-scoped named, mutable body)").
type NominalTypePayload struct {
	Name        string
	Annotations Nodes
	body        *Node // patched after stub allocation; nil until Patch
}

func (p *NominalTypePayload) hashKey() string { return p.Name }

// NewNominalTypeStub allocates a nominal type declaration with no body yet
// (two-phase declaration rewriting, spec §4.4).
func NewNominalTypeStub(a *Arena, name string, annotations Nodes) *Node {
	return a.construct(TagNominalType, &NominalTypePayload{Name: name, Annotations: annotations})
}

// PatchBody sets a nominal type's body. Must only be called by the pass
// that allocated the stub, before that pass's output is frozen (spec §3
// lifecycle).
func (n *Node) PatchBody(body *Node) {
	switch p := n.Payload.(type) {
	case *NominalTypePayload:
		p.body = body
	default:
		panic("PatchBody called on a non-NominalType declaration")
	}
}

// NominalTypeBody returns a nominal type's current body (nil if unpatched).
func NominalTypeBody(n *Node) *Node {
	return n.Payload.(*NominalTypePayload).body
}

func idOf(n *Node) string {
	if n == nil {
		return "-"
	}
	return strconv.FormatUint(n.id, 36)
}

func boolKey(b bool) string {
	if b {
		return "T"
	}
	return "F"
}
