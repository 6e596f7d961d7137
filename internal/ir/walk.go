package ir

// Children returns every *Node directly referenced by n's payload, used
// by the verifier's arena-isolation check (I3), the folder's dead-Let use
// check, and anywhere else a generic one-level walk is more useful than a
// tag-specific switch. Declaration bodies are included so a full module
// walk reaches everything live, but Children never recurses on its own —
// callers control traversal depth, which keeps this safe to call on a
// function whose body calls itself.
func Children(n *Node) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	add := func(ns ...*Node) {
		for _, c := range ns {
			if c != nil {
				out = append(out, c)
			}
		}
	}
	addSeq := func(ns Nodes) { out = append(out, ns.Slice()...) }

	switch p := n.Payload.(type) {
	case PackTypePayload:
		add(p.Element)
	case RecordTypePayload:
		addSeq(p.Members)
	case ArrayTypePayload:
		add(p.Element, p.Size)
	case PtrTypePayload:
		add(p.Pointed)
	case FnTypePayload:
		addSeq(p.Params)
		addSeq(p.Returns)
	case QualifiedTypePayload:
		add(p.Type)
	case *NominalTypePayload:
		addSeq(p.Annotations)
		add(p.body)
	case IntLiteralPayload:
		add(p.Type)
	case FloatLiteralPayload:
		add(p.Type)
	case TuplePayload:
		addSeq(p.Elements)
	case PackValuePayload:
		addSeq(p.Elements)
	case RecordValuePayload:
		add(p.Type)
		addSeq(p.Values)
	case *VariablePayload:
		add(p.Type)
	case FnAddrPayload:
		add(p.Fn)
	case PrimOpPayload:
		addSeq(p.TypeArgs)
		addSeq(p.Operands)
	case CallPayload:
		add(p.Callee)
		addSeq(p.Args)
	case LetPayload:
		add(p.Instruction)
		addSeq(p.Outputs)
		add(p.Tail)
	case BlockPayload:
		addSeq(p.Instructions)
		add(p.Terminator)
	case ParsedBlockPayload:
		addSeq(p.Instructions)
		addSeq(p.ContinuationsVars)
		addSeq(p.Continuations)
		add(p.Terminator)
	case IfPayload:
		add(p.Condition)
		addSeq(p.ReturnTypes)
		add(p.Then, p.Else)
	case MatchPayload:
		add(p.Inspectee)
		addSeq(p.ReturnTypes)
		add(p.Default)
		for _, c := range p.Cases {
			add(c.Value, c.Body)
		}
	case LoopPayload:
		addSeq(p.Params)
		addSeq(p.Initial)
		addSeq(p.ReturnTypes)
		add(p.Body)
	case ReturnPayload:
		addSeq(p.Values)
	case BranchPayload:
		add(p.Condition, p.TrueTgt, p.FalseTgt)
		addSeq(p.TrueArgs)
		addSeq(p.FalseArgs)
	case JumpPayload:
		add(p.Target)
		addSeq(p.Args)
	case JoinPayload:
		add(p.Target)
		addSeq(p.Args)
	case TailCallPayload:
		add(p.Callee)
		addSeq(p.Args)
	case *FunctionPayload:
		addSeq(p.Annotations)
		addSeq(p.Params)
		addSeq(p.ReturnTypes)
		add(p.body)
	case *ConstantPayload:
		addSeq(p.Annotations)
		add(p.TypeHint, p.value)
	case *GlobalVariablePayload:
		addSeq(p.Annotations)
		add(p.Type, p.init)
	case AnnotationPayload:
		add(p.Value)
		addSeq(p.Values)
	}
	if n.Type != nil {
		out = append(out, n.Type)
	}
	return out
}

// ContainsNode reports whether target is reachable from root by following
// Children, without descending into declaration bodies reached through a
// FnAddr/Call/Branch/Jump (only the direct structural subtree a single
// abstraction body owns is scanned) — sufficient for the folder's "tail
// ignores the bound variable" check (spec §4.2), since a variable can only
// be legally used within the lexical scope that bound it.
func ContainsNode(root, target *Node) bool {
	if root == nil || target == nil {
		return false
	}
	visited := make(map[uint64]bool)
	var walk func(*Node) bool
	walk = func(n *Node) bool {
		if n == nil {
			return false
		}
		if n == target {
			return true
		}
		if n.IsDeclaration() {
			return false // do not cross into a different declaration's body
		}
		if visited[n.id] {
			return false
		}
		visited[n.id] = true
		for _, c := range Children(n) {
			if walk(c) {
				return true
			}
		}
		return false
	}
	return walk(root)
}
