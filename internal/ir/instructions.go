package ir

import "shady/internal/diagnostics"

// --- PrimOp ---

type PrimOpPayload struct {
	Op       PrimOpCode
	TypeArgs Nodes
	Operands Nodes
}

func (p PrimOpPayload) hashKey() string {
	return p.Op.String() + "|" + nodesKey(p.TypeArgs.elems) + "|" + nodesKey(p.Operands.elems)
}

// PrimOp constructs a primitive operation instruction.
func PrimOp(a *Arena, op PrimOpCode, typeArgs, operands Nodes) *Node {
	return a.construct(TagPrimOp, PrimOpPayload{Op: op, TypeArgs: typeArgs, Operands: operands})
}

// --- Call (non-tail, indirect-capable) ---

type CallPayload struct {
	Callee *Node
	Args   Nodes
}

func (p CallPayload) hashKey() string {
	return idOf(p.Callee) + "|" + nodesKey(p.Args.elems)
}

// Call constructs a (possibly indirect) function call instruction; this
// construct is what lower_callf rewrites into explicit continuation-passing
// form.
func Call(a *Arena, callee *Node, args Nodes) *Node {
	return a.construct(TagCall, CallPayload{Callee: callee, Args: args})
}

// --- Let: the spine of straight-line code (I5) ---

type LetPayload struct {
	Instruction *Node
	Outputs     Nodes // Variable nodes this Let binds, in result order
	Tail        *Node // another Let, a terminator, or an abstraction body
}

func (p LetPayload) hashKey() string {
	return idOf(p.Instruction) + "|" + nodesKey(p.Outputs.elems) + "|" + idOf(p.Tail)
}

// Let constructs Let(instruction, tail) with the given output bindings.
// Constructing a Let whose tail is a raw PrimOp violates I5 and is a
// compiler bug: the tail must itself be a Let, a terminator, or an
// abstraction body.
func Let(a *Arena, instruction *Node, outputs Nodes, tail *Node) *Node {
	if tail != nil && tail.Tag == TagPrimOp {
		diagnostics.Raise(diagnostics.CodeLetSpineViolation,
			"Let's tail is a raw PrimOp; it must be another Let, a terminator, or an abstraction")
	}
	return a.construct(TagLet, LetPayload{Instruction: instruction, Outputs: outputs, Tail: tail})
}

// LetInstruction and LetTail mirror ir.h's get_let_instruction/get_let_tail.
func LetInstruction(n *Node) *Node { return n.Payload.(LetPayload).Instruction }
func LetTail(n *Node) *Node        { return n.Payload.(LetPayload).Tail }
func LetOutputs(n *Node) Nodes     { return n.Payload.(LetPayload).Outputs }

// --- Block: a straight-line instruction sequence ending in a terminator ---

type BlockPayload struct {
	Instructions Nodes // Let chain entry point, or empty
	Terminator   *Node
}

func (p BlockPayload) hashKey() string {
	return nodesKey(p.Instructions.elems) + "|" + idOf(p.Terminator)
}

// Block constructs a body: zero or more leading Lets (Instructions, kept
// for BodyBuilder bookkeeping/printing even though the true spine lives in
// the Let chain) followed by a Terminator.
func Block(a *Arena, instructions Nodes, terminator *Node) *Node {
	return a.construct(TagBlock, BlockPayload{Instructions: instructions, Terminator: terminator})
}

// --- ParsedBlock: the parser→bind_program contract shape (spec §6) ---

type ParsedBlockPayload struct {
	Instructions      Nodes
	ContinuationsVars Nodes // Unbound-name placeholders naming each continuation
	Continuations     Nodes // Function declarations with IsContinuation=true
	Terminator        *Node
}

func (p ParsedBlockPayload) hashKey() string {
	return nodesKey(p.Instructions.elems) + "|" + nodesKey(p.ContinuationsVars.elems) +
		"|" + nodesKey(p.Continuations.elems) + "|" + idOf(p.Terminator)
}

// ParsedBlock constructs the pre-binding block shape a parser collaborator
// emits: siblings continuations are declared (as stubs, during binding)
// before any instruction or continuation body is resolved, so mutual
// reference among them is possible (spec §4.6 step 1).
func ParsedBlock(a *Arena, instructions, continuationsVars, continuations Nodes, terminator *Node) *Node {
	return a.construct(TagParsedBlock, ParsedBlockPayload{
		Instructions: instructions, ContinuationsVars: continuationsVars,
		Continuations: continuations, Terminator: terminator,
	})
}

// --- Structured control flow (eliminated by lower_cf_instrs) ---

type IfPayload struct {
	Condition  *Node
	ReturnTypes Nodes
	Then       *Node // Block
	Else       *Node // Block, may be nil
}

func (p IfPayload) hashKey() string {
	return idOf(p.Condition) + "|" + nodesKey(p.ReturnTypes.elems) + "|" + idOf(p.Then) + "|" + idOf(p.Else)
}

func If(a *Arena, condition *Node, returnTypes Nodes, thenBlock, elseBlock *Node) *Node {
	return a.construct(TagIf, IfPayload{Condition: condition, ReturnTypes: returnTypes, Then: thenBlock, Else: elseBlock})
}

type MatchCase struct {
	Value *Node // IntLiteral
	Body  *Node // Block
}

type MatchPayload struct {
	Inspectee   *Node
	ReturnTypes Nodes
	Cases       []MatchCase
	Default     *Node // Block
}

func (p MatchPayload) hashKey() string {
	key := idOf(p.Inspectee) + "|" + nodesKey(p.ReturnTypes.elems) + "|" + idOf(p.Default)
	for _, c := range p.Cases {
		key += "|" + idOf(c.Value) + ":" + idOf(c.Body)
	}
	return key
}

func Match(a *Arena, inspectee *Node, returnTypes Nodes, cases []MatchCase, def *Node) *Node {
	return a.construct(TagMatch, MatchPayload{Inspectee: inspectee, ReturnTypes: returnTypes, Cases: cases, Default: def})
}

type LoopPayload struct {
	Params      Nodes // Variable nodes: loop-carried values
	Initial     Nodes // initial values for Params, same arity
	ReturnTypes Nodes
	Body        *Node // Block; a Jump back into the loop re-enters it
}

func (p LoopPayload) hashKey() string {
	return nodesKey(p.Params.elems) + "|" + nodesKey(p.Initial.elems) + "|" +
		nodesKey(p.ReturnTypes.elems) + "|" + idOf(p.Body)
}

func Loop(a *Arena, params, initial, returnTypes Nodes, body *Node) *Node {
	return a.construct(TagLoop, LoopPayload{Params: params, Initial: initial, ReturnTypes: returnTypes, Body: body})
}
