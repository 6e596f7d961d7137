package ir

// tryFold implements C5: on-construction constant folding and algebraic
// identity elimination, run when Arena.Config.AllowFold is set, before
// hash-consing. Returning non-nil short-circuits construction entirely —
// the caller never sees a new node for the folded-away shape. Folding is
// deliberately conservative: it only fires on exact literal operands or
// recognizable identities, never on anything that would require deciding
// overflow/rounding behavior beyond plain two's-complement wraparound.
func tryFold(a *Arena, tag Tag, payload Payload) *Node {
	switch tag {
	case TagPrimOp:
		return tryFoldPrimOp(a, payload.(PrimOpPayload))
	case TagLet:
		return tryFoldLet(a, payload.(LetPayload))
	default:
		return nil
	}
}

func tryFoldPrimOp(a *Arena, p PrimOpPayload) *Node {
	ops := p.Operands
	switch p.Op {
	case OpAdd, OpSub, OpMul, OpDiv:
		if folded := foldArith(a, p.Op, ops); folded != nil {
			return folded
		}
		return foldArithIdentity(a, p.Op, ops)
	case OpNot:
		if ops.Len() == 1 && ops.At(0).Tag == TagPrimOp {
			inner := ops.At(0).Payload.(PrimOpPayload)
			if inner.Op == OpNot && inner.Operands.Len() == 1 {
				return inner.Operands.At(0) // not(not(x)) = x
			}
		}
	case OpSExt, OpZExt, OpTrunc:
		if ops.Len() == 1 && ops.At(0).Tag == TagIntLiteral && p.TypeArgs.Len() == 1 {
			v := ExtractIntLiteralValue(ops.At(0), p.Op == OpSExt)
			return IntLiteral(a, p.TypeArgs.At(0), v)
		}
	}
	return nil
}

func foldArith(a *Arena, op PrimOpCode, ops Nodes) *Node {
	l, r, ok := bothIntLiterals(ops)
	if !ok {
		return nil
	}
	t := l.Payload.(IntLiteralPayload).Type
	lv, rv := extractSigned(l), extractSigned(r)
	var result int64
	switch op {
	case OpAdd:
		result = lv + rv
	case OpSub:
		result = lv - rv
	case OpMul:
		result = lv * rv
	case OpDiv:
		if rv == 0 {
			return nil // division by zero is not a constant; leave for runtime/verification
		}
		result = lv / rv
	}
	return IntLiteral(a, t, result)
}

// foldArithIdentity eliminates add-0/mul-1/mul-0/sub-0 shapes where one
// operand is a literal identity element, regardless of whether the other
// operand is itself constant.
func foldArithIdentity(a *Arena, op PrimOpCode, ops Nodes) *Node {
	if ops.Len() != 2 {
		return nil
	}
	l, r := ops.At(0), ops.At(1)
	switch op {
	case OpAdd:
		if isIntLiteralValue(l, 0) {
			return r
		}
		if isIntLiteralValue(r, 0) {
			return l
		}
	case OpSub:
		if isIntLiteralValue(r, 0) {
			return l
		}
	case OpMul:
		if isIntLiteralValue(l, 1) {
			return r
		}
		if isIntLiteralValue(r, 1) {
			return l
		}
		if isIntLiteralValue(l, 0) {
			return l
		}
		if isIntLiteralValue(r, 0) {
			return r
		}
	}
	return nil
}

// tryFoldLet elides a Let whose single output is never referenced by its
// tail and whose instruction is pure — the binding has no observable
// effect (spec §4.2's "dead-Let elision").
func tryFoldLet(a *Arena, p LetPayload) *Node {
	if p.Tail == nil || p.Instruction == nil {
		return nil
	}
	op, ok := p.Instruction.Payload.(PrimOpPayload)
	if !ok || !op.Op.IsPure() {
		return nil
	}
	for _, out := range p.Outputs.Slice() {
		if ContainsNode(p.Tail, out) {
			return nil
		}
	}
	return p.Tail
}

func bothIntLiterals(ops Nodes) (l, r *Node, ok bool) {
	if ops.Len() != 2 {
		return nil, nil, false
	}
	l, r = ops.At(0), ops.At(1)
	if l.Tag != TagIntLiteral || r.Tag != TagIntLiteral {
		return nil, nil, false
	}
	return l, r, true
}

func extractSigned(n *Node) int64 { return ExtractIntLiteralValue(n, true) }

func isIntLiteralValue(n *Node, v int64) bool {
	return n.Tag == TagIntLiteral && n.Payload.(IntLiteralPayload).Value == v
}
