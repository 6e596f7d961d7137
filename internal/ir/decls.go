package ir

import "shady/internal/diagnostics"

// Declarations (Function, Constant, GlobalVariable, NominalType) are
// mutable handles: pointer-unique even when structurally duplicated (I2),
// so a rewriter can allocate a stub and patch its body once cyclic
// references (functions calling functions, continuations referencing
// siblings) are resolvable (spec §4.4, §9).

// --- Function (also stands for a continuation/basic block — both share
// the "abstraction" getters get_abstraction_body/params/name) ---

type FunctionPayload struct {
	Name           string
	Annotations    Nodes
	Params         Nodes // Variable nodes
	ReturnTypes    Nodes
	IsContinuation bool
	IsLeaf         bool // set by mark_leaf_functions
	body           *Node
	module         *Module
}

func (p *FunctionPayload) hashKey() string { return p.Name }

// NewFunctionStub allocates a function (or continuation, when
// isContinuation is true) declaration with no body yet and registers it
// with m. The caller must Patch the body before the owning pass's output
// is frozen.
func NewFunctionStub(m *Module, params Nodes, name string, annotations, returnTypes Nodes, isContinuation bool) *Node {
	a := m.Arena()
	n := &Node{id: a.allocID(), arena: a, Tag: TagFunction}
	n.Payload = &FunctionPayload{
		Name: a.InternString(name), Annotations: annotations, Params: params,
		ReturnTypes: returnTypes, IsContinuation: isContinuation, module: m,
	}
	if !isContinuation {
		m.addDeclaration(n)
	}
	return n
}

// Patch sets a function's body. See Node.PatchBody's discipline note.
func (n *Node) Patch(body *Node) {
	switch p := n.Payload.(type) {
	case *FunctionPayload:
		p.body = body
	case *ConstantPayload:
		p.value = body
	case *GlobalVariablePayload:
		p.init = body
	default:
		diagnostics.Raise(diagnostics.CodeUnsupportedOperand, "Patch called on a non-declaration node")
	}
}

// MarkLeaf records that a function performs no calls (mark_leaf_functions).
func MarkLeaf(fn *Node) { fn.Payload.(*FunctionPayload).IsLeaf = true }

// IsLeaf reports the mark_leaf_functions annotation.
func IsLeaf(fn *Node) bool { return fn.Payload.(*FunctionPayload).IsLeaf }

// --- Constant ---

type ConstantPayload struct {
	Name        string
	Annotations Nodes
	TypeHint    *Node
	value       *Node
	module      *Module
}

func (p *ConstantPayload) hashKey() string { return p.Name }

func NewConstantStub(m *Module, name string, annotations Nodes, typeHint *Node) *Node {
	a := m.Arena()
	n := &Node{id: a.allocID(), arena: a, Tag: TagConstant}
	n.Payload = &ConstantPayload{Name: a.InternString(name), Annotations: annotations, TypeHint: typeHint, module: m}
	m.addDeclaration(n)
	return n
}

func ConstantValue(n *Node) *Node { return n.Payload.(*ConstantPayload).value }

// --- GlobalVariable ---

type GlobalVariablePayload struct {
	Name         string
	Annotations  Nodes
	Type         *Node
	AddressSpace AddressSpace
	init         *Node
	module       *Module
}

func (p *GlobalVariablePayload) hashKey() string { return p.Name }

func NewGlobalVariable(m *Module, annotations Nodes, t *Node, name string, as AddressSpace) *Node {
	a := m.Arena()
	n := &Node{id: a.allocID(), arena: a, Tag: TagGlobalVariable}
	n.Payload = &GlobalVariablePayload{Name: a.InternString(name), Annotations: annotations, Type: t, AddressSpace: as, module: m}
	m.addDeclaration(n)
	return n
}

func GlobalVariableInit(n *Node) *Node { return n.Payload.(*GlobalVariablePayload).init }

// --- Uniform declaration accessors (ir.h §4.5) ---

// GetDeclName returns the name out of a global variable, function, or
// constant (ir.h's get_decl_name).
func GetDeclName(n *Node) string {
	switch p := n.Payload.(type) {
	case *FunctionPayload:
		return p.Name
	case *ConstantPayload:
		return p.Name
	case *GlobalVariablePayload:
		return p.Name
	case *NominalTypePayload:
		return p.Name
	default:
		diagnostics.Raise(diagnostics.CodeUnsupportedOperand, "GetDeclName called on tag %s", n.Tag)
		return ""
	}
}

// GetAbstractionBody, GetAbstractionParams and GetAbstractionName treat
// Function nodes (both genuine functions and continuations) uniformly,
// per ir.h's abstraction getters.
func GetAbstractionBody(n *Node) *Node {
	if n == nil {
		return nil
	}
	return n.Payload.(*FunctionPayload).body
}

func GetAbstractionParams(n *Node) Nodes { return n.Payload.(*FunctionPayload).Params }

func GetAbstractionName(n *Node) string { return n.Payload.(*FunctionPayload).Name }

// GetAbstractionModule returns the module a function/continuation was
// declared in.
func GetAbstractionModule(n *Node) *Module { return n.Payload.(*FunctionPayload).module }

// IsContinuation reports whether a Function declaration stands for a
// continuation (nested basic block) rather than a top-level function.
func IsContinuation(n *Node) bool { return n.Payload.(*FunctionPayload).IsContinuation }
