package ir

import "strconv"

// --- Literal constants ---

type IntLiteralPayload struct {
	Type  *Node // IntType
	Value int64 // sign-extended/truncated per Type's width
}

func (p IntLiteralPayload) hashKey() string {
	return idOf(p.Type) + "," + strconv.FormatInt(p.Value, 10)
}

// IntLiteral constructs a typed integer literal value.
func IntLiteral(a *Arena, t *Node, value int64) *Node {
	return a.construct(TagIntLiteral, IntLiteralPayload{Type: t, Value: value})
}

func Int8Literal(a *Arena, v int8) *Node   { return IntLiteral(a, Int8Type(a), int64(v)) }
func Int16Literal(a *Arena, v int16) *Node { return IntLiteral(a, Int16Type(a), int64(v)) }
func Int32Literal(a *Arena, v int32) *Node { return IntLiteral(a, Int32Type(a), int64(v)) }
func Int64Literal(a *Arena, v int64) *Node { return IntLiteral(a, Int64Type(a), v) }

func Uint8Literal(a *Arena, v uint8) *Node {
	return IntLiteral(a, IntType(a, 8, false), int64(v))
}
func Uint16Literal(a *Arena, v uint16) *Node {
	return IntLiteral(a, IntType(a, 16, false), int64(v))
}
func Uint32Literal(a *Arena, v uint32) *Node {
	return IntLiteral(a, IntType(a, 32, false), int64(v))
}
func Uint64Literal(a *Arena, v uint64) *Node {
	return IntLiteral(a, IntType(a, 64, false), int64(v))
}

// ExtractIntLiteralValue returns the literal's value (ir.h's
// extract_int_literal_value). When signExtend is set it sign-extends from
// the type's bit width regardless of the type's Signed flag; otherwise it
// returns the stored value unchanged.
func ExtractIntLiteralValue(n *Node, signExtend bool) int64 {
	p := n.Payload.(IntLiteralPayload)
	if !signExtend {
		return p.Value
	}
	width := p.Type.Payload.(IntTypePayload).Width
	if width >= 64 {
		return p.Value
	}
	shift := 64 - width
	return (p.Value << shift) >> shift
}

// ResolveToLiteral returns n if it is an IntLiteral, else nil (ir.h's
// resolve_to_literal, narrowed to the int-literal case this compiler
// actually folds on).
func ResolveToLiteral(n *Node) *Node {
	if n != nil && n.Tag == TagIntLiteral {
		return n
	}
	return nil
}

type FloatLiteralPayload struct {
	Type  *Node
	Value float64
}

func (p FloatLiteralPayload) hashKey() string {
	return idOf(p.Type) + "," + strconv.FormatFloat(p.Value, 'x', -1, 64)
}

func FloatLiteral(a *Arena, width int, value float64) *Node {
	return a.construct(TagFloatLiteral, FloatLiteralPayload{Type: FloatType(a, width), Value: value})
}

type StringLiteralPayload struct{ Value string }

func (p StringLiteralPayload) hashKey() string { return p.Value }

func StringLiteral(a *Arena, value string) *Node {
	return a.construct(TagStringLiteral, StringLiteralPayload{Value: a.InternString(value)})
}

// ExtractStringLiteral returns n's string value, or "" if n is not a
// StringLiteral (ir.h's extract_string_literal).
func ExtractStringLiteral(a *Arena, n *Node) string {
	if n == nil || n.Tag != TagStringLiteral {
		return ""
	}
	return n.Payload.(StringLiteralPayload).Value
}

// --- Composites ---

type TuplePayload struct{ Elements Nodes }

func (p TuplePayload) hashKey() string { return nodesKey(p.Elements.elems) }

// Tuple constructs a tuple value (ir.h's tuple()).
func Tuple(a *Arena, elements Nodes) *Node {
	return a.construct(TagTuple, TuplePayload{Elements: elements})
}

// Unit constructs the zero-arity tuple (ir.h's unit()), used anywhere a
// "nothing" value is needed (e.g. the result of a pure-effect instruction).
func Unit(a *Arena) *Node { return Tuple(a, a.Empty()) }

type PackValuePayload struct{ Elements Nodes }

func (p PackValuePayload) hashKey() string { return nodesKey(p.Elements.elems) }

func PackValue(a *Arena, elements Nodes) *Node {
	return a.construct(TagPack, PackValuePayload{Elements: elements})
}

type RecordValuePayload struct {
	Type   *Node
	Values Nodes
}

func (p RecordValuePayload) hashKey() string {
	return idOf(p.Type) + "|" + nodesKey(p.Values.elems)
}

func RecordValue(a *Arena, t *Node, values Nodes) *Node {
	return a.construct(TagRecordValue, RecordValuePayload{Type: t, Values: values})
}

// --- Variable references ---

// VariablePayload is a named reference to a let-binding or parameter.
// Variables are *not* hash-consed across distinct bindings — each call to
// Var allocates a fresh identity — but two references to the *same*
// binding share the single Node the binder produced, since only the
// binder (Let, function-parameter construction, basic-block parameter
// construction) ever calls Var for a given binding.
type VariablePayload struct {
	Type *Node
	Name string
	uniq uint64
}

func (p *VariablePayload) hashKey() string { return strconv.FormatUint(p.uniq, 36) }

var varUniqCounter uint64

// Var allocates a fresh variable node of the given type and name hint
// (ir.h's var()). Each call produces a distinct identity even if type and
// name match a prior call, since a Variable denotes one particular binding
// site, not a structural value.
func Var(a *Arena, t *Node, name string) *Node {
	varUniqCounter++
	n := &Node{id: a.allocID(), arena: a, Tag: TagVariable, Type: t}
	n.Payload = &VariablePayload{Type: t, Name: a.InternString(name), uniq: varUniqCounter}
	return n
}

// VariableName returns a Variable node's name hint.
func VariableName(n *Node) string { return n.Payload.(*VariablePayload).Name }

// --- Function address / FnAddr ---

type FnAddrPayload struct{ Fn *Node }

func (p FnAddrPayload) hashKey() string { return idOf(p.Fn) }

// FnAddr constructs a first-class reference to a function declaration,
// used e.g. by EntryPointArgs's back-reference annotation (spec §9).
func FnAddr(a *Arena, fn *Node) *Node {
	return a.construct(TagFnAddr, FnAddrPayload{Fn: fn})
}

// --- Unbound (pre-binding textual references) ---

type UnboundPayload struct{ Name string }

func (p UnboundPayload) hashKey() string { return p.Name }

// Unbound constructs a textual, not-yet-resolved reference (spec §6); only
// ever produced by a parser collaborator or test fixture, and must not
// survive past bind_program (I, binding soundness, spec §8).
func Unbound(a *Arena, name string) *Node {
	return a.construct(TagUnbound, UnboundPayload{Name: a.InternString(name)})
}
