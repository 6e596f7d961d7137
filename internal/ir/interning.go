package ir

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
)

// Nodes is an interned, immutable, ordered sequence of node pointers
// (ir.h's Nodes). Two Nodes values built from the same elements in the
// same arena share storage.
type Nodes struct {
	elems []*Node
}

// Strings is an immutable sequence of strings (ir.h's Strings). Unlike
// Nodes it is not interned: equal sequences do not share storage.
type Strings struct {
	elems []string
}

func (ns Nodes) Len() int        { return len(ns.elems) }
func (ns Nodes) At(i int) *Node  { return ns.elems[i] }
func (ns Nodes) Slice() []*Node  { return ns.elems }
func (ss Strings) Len() int      { return len(ss.elems) }
func (ss Strings) At(i int) string { return ss.elems[i] }
func (ss Strings) Slice() []string { return ss.elems }

func nodesKey(ns []*Node) string {
	var b strings.Builder
	for i, n := range ns {
		if i > 0 {
			b.WriteByte(',')
		}
		if n == nil {
			b.WriteString("nil")
			continue
		}
		b.WriteString(strconv.FormatUint(n.id, 36))
	}
	return b.String()
}

// NewNodes interns a node sequence within the arena (ir.h's nodes()).
func (a *Arena) NewNodes(elems ...*Node) Nodes {
	key := nodesKey(elems)
	if existing, ok := a.nodeSeq[key]; ok {
		return existing
	}
	cp := make([]*Node, len(elems))
	copy(cp, elems)
	result := Nodes{elems: cp}
	a.nodeSeq[key] = result
	return result
}

// Empty returns the interned empty node sequence (ir.h's empty(arena)).
func (a *Arena) Empty() Nodes { return a.NewNodes() }

// Singleton returns a one-element node sequence.
func Singleton(n *Node) Nodes { return Nodes{elems: []*Node{n}} }

// First returns the first node of a sequence (ir.h's first()).
func First(ns Nodes) *Node {
	if len(ns.elems) == 0 {
		return nil
	}
	return ns.elems[0]
}

// AppendNodes returns a new interned sequence with n appended.
func (a *Arena) AppendNodes(ns Nodes, n *Node) Nodes {
	out := make([]*Node, 0, len(ns.elems)+1)
	out = append(out, ns.elems...)
	out = append(out, n)
	return a.NewNodes(out...)
}

// ConcatNodes returns a new interned sequence that is the concatenation of
// two sequences.
func (a *Arena) ConcatNodes(lhs, rhs Nodes) Nodes {
	out := make([]*Node, 0, len(lhs.elems)+len(rhs.elems))
	out = append(out, lhs.elems...)
	out = append(out, rhs.elems...)
	return a.NewNodes(out...)
}

// NewStrings returns a fresh copy of a string sequence. It does not intern:
// the arena keeps no table of string sequences.
func (a *Arena) NewStrings(elems ...string) Strings {
	cp := make([]string, len(elems))
	copy(cp, elems)
	return Strings{elems: cp}
}

// InternString returns the arena's canonical copy of s (ir.h's string()).
func (a *Arena) InternString(s string) string {
	if existing, ok := a.strings[s]; ok {
		return existing
	}
	a.strings[s] = s
	return s
}

// FormatString interns fmt.Sprintf(format, args...) (ir.h's format_string()).
func (a *Arena) FormatString(format string, args ...any) string {
	return a.InternString(fmt.Sprintf(format, args...))
}

var uniqueCounter uint64

// UniqueName produces an arena-interned name starting with prefix and
// guaranteed distinct from any other name produced by UniqueName in the
// process (ir.h's unique_name()). It does not need to be distinct from a
// name chosen by a parser collaborator; only from other generated names.
func (a *Arena) UniqueName(prefix string) string {
	id := atomic.AddUint64(&uniqueCounter, 1)
	return a.FormatString("%s_%d", prefix, id)
}

// NameTypeSafe produces a name derived from a type, suitable as a variable
// name hint (ir.h's name_type_safe()).
func NameTypeSafe(a *Arena, t *Node) string {
	if t == nil {
		return a.InternString("v")
	}
	return a.FormatString("%s_v", strings.ToLower(t.Tag.String()))
}
