package ir

import "shady/internal/diagnostics"

// MaskRepresentation selects how MaskType values are represented once
// lower_mask has run; before that pass it is irrelevant (spec §4.1).
type MaskRepresentation int

const (
	MaskAbstract MaskRepresentation = iota
	MaskInt64
	MaskPackedBallot
)

// ArenaConfig mirrors ir.h's ArenaConfig plus the is_simt flag spec §4.1
// adds. It is a per-invocation value — no process-wide singletons (spec
// §9 "Global mutable state: None required").
type ArenaConfig struct {
	// NameBound: false while names are still resolved textually (pre-bind),
	// true once all name references are pointer-resolved.
	NameBound bool
	// CheckTypes enables the type checker (C4) on construction.
	CheckTypes bool
	// AllowFold enables the local algebraic folder (C5) on construction.
	AllowFold bool
	// SubgroupMaskRepresentation selects the representation lower_mask
	// switches to; meaningless before that pass runs.
	SubgroupMaskRepresentation MaskRepresentation
	// IsSIMT: whether qualified-type machinery and subgroup ops are
	// meaningful for this arena's program (false past simt2d).
	IsSIMT bool
}

// DefaultArenaConfig matches the parser→core contract of spec §6: textual
// names, no typing, no folding.
func DefaultArenaConfig() ArenaConfig {
	return ArenaConfig{
		NameBound:  false,
		CheckTypes: false,
		AllowFold:  false,
		IsSIMT:     true,
	}
}

// Arena owns all nodes, strings and interned lists of one IR generation
// (C1). It bump-allocates node identities and holds the hash-cons table
// (C2). Once its successor arena (the next pass's output) is fully
// populated the driver drops its reference and leaves it to the garbage
// collector; the driver does not call Destroy. All operations on one arena occur
// sequentially from a single goroutine/thread (spec §5); independent arenas
// share no mutable state and may be driven from separate goroutines.
type Arena struct {
	Config ArenaConfig

	nextID    uint64
	consTable map[string]*Node
	destroyed bool

	strings map[string]string
	nodeSeq map[string]Nodes
}

// NewArena creates an empty arena with the given configuration (new_ir_arena).
func NewArena(cfg ArenaConfig) *Arena {
	return &Arena{
		Config:    cfg,
		consTable: make(map[string]*Node),
		strings:   make(map[string]string),
		nodeSeq:   make(map[string]Nodes),
	}
}

// Destroy releases the arena's bookkeeping structures (destroy_ir_arena).
// Go's GC reclaims node memory; Destroy's contract is the documentation
// one: no node belonging to this arena may be read again afterward.
func (a *Arena) Destroy() {
	a.destroyed = true
	a.consTable = nil
	a.strings = nil
	a.nodeSeq = nil
}

func (a *Arena) checkAlive() {
	if a.destroyed {
		diagnostics.Raise(diagnostics.CodeForeignArena, "use of a destroyed arena")
	}
}

// allocID hands out the next stable node identity in this arena.
func (a *Arena) allocID() uint64 {
	id := a.nextID
	a.nextID++
	return id
}

// construct implements the construct contract of spec §4.1:
//  1. typecheck (C4) if enabled and the variant has rules — may reject or
//     refine the derived type.
//  2. fold (C5) if enabled and the variant has rules — may short-circuit
//     by returning an already-existing node.
//  3. hash-cons lookup/insert on (tag, payload) for hash-consable variants;
//     declarations bypass the table entirely (I2).
func (a *Arena) construct(tag Tag, payload Payload) *Node {
	a.checkAlive()

	var derivedType *Node
	if a.Config.CheckTypes {
		derivedType = inferType(a, tag, payload)
	}

	if a.Config.AllowFold {
		if folded := tryFold(a, tag, payload); folded != nil {
			return folded
		}
	}

	if tag.isDeclTag() {
		// Declarations are pointer-unique even when structurally duplicated (I2).
		n := &Node{id: a.allocID(), arena: a, Tag: tag, Payload: payload, Type: derivedType}
		return n
	}

	key := tag.String() + "|" + payload.hashKey()
	if existing, ok := a.consTable[key]; ok {
		return existing
	}
	n := &Node{id: a.allocID(), arena: a, Tag: tag, Payload: payload, Type: derivedType}
	a.consTable[key] = n
	return n
}
