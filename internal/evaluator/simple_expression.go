package evaluator

import (
	"github.com/cwbudde/go-cx/internal/lexer"
	"github.com/cwbudde/go-cx/internal/typesys"
)

// SimpleExpression evaluates the additive and logical-OR layer (spec.md
// §4.1.2): an optional leading unary `+`/`-`/`~`, one term, then repeated
// additive/shift/bitwise/logical-OR operators against further terms.
//
// Preserved probable bug (spec.md §9): the leading unary operator applies
// only to the first term, not to the full additive chain — this falls out
// naturally below because the unary is folded into the result immediately
// after the first Term() call, before the additive loop begins.
func (e *Evaluator) SimpleExpression() *typesys.Descriptor {
	var unary lexer.TokenType
	hasUnary := tokenIn(e.Cur.Token(), unaryOps)
	if hasUnary {
		unary = e.Cur.Token()
		e.Cur.Advance()
	}

	typ := e.Term()

	if hasUnary {
		typ = e.applyUnary(unary, typ)
	}

	for tokenIn(e.Cur.Token(), addOps) {
		op := e.Cur.Token()
		e.Cur.Advance()

		rightType := e.Term()
		typ = e.applyAdditive(op, typ, rightType)
	}

	return typ
}

// applyUnary implements unary +, -, ~ against the top-of-stack value,
// preserving float vs int for negation and requiring integer for ~.
func (e *Evaluator) applyUnary(op lexer.TokenType, typ *typesys.Descriptor) *typesys.Descriptor {
	switch op {
	case lexer.PLUS:
		return typ // no-op
	case lexer.MINUS:
		if typesys.IsFloat(typ) {
			v := e.Stack.PopFloat()
			e.Stack.PushFloat(-v)
			return typ
		}
		v := e.Stack.PopInt()
		e.Stack.PushInt(-v)
		return typ
	case lexer.TILDE:
		v := e.Stack.PopInt()
		e.Stack.PushInt(^v)
		return typesys.Int
	default:
		return typ
	}
}

// applyAdditive implements +, -, <<, >>, &, ^, |, || against two
// already-evaluated operands, per spec.md §4.1.2's per-operator rules.
func (e *Evaluator) applyAdditive(op lexer.TokenType, leftType, rightType *typesys.Descriptor) *typesys.Descriptor {
	switch op {
	case lexer.PLUS, lexer.MINUS:
		return e.applyAddSub(op, leftType, rightType)
	case lexer.PIPE_PIPE:
		r := e.popAsInt() != 0
		l := e.popAsInt() != 0
		e.Stack.PushBool(l || r)
		return typesys.Bool
	default: // <<, >>, &, ^, |
		r := e.popAsInt()
		l := e.popAsInt()
		var result int64
		switch op {
		case lexer.LESS_LESS:
			result = l << uint(r)
		case lexer.GREATER_GREATER:
			result = l >> uint(r)
		case lexer.AMP:
			result = l & r
		case lexer.CARET:
			result = l ^ r
		case lexer.PIPE:
			result = l | r
		}
		e.Stack.PushInt(result)
		return typesys.Int
	}
}

// applyAddSub implements `+`/`-` with the int/char/float promotion rules of
// spec.md §4.1.2: both-integer or integer/char mix produces integer (char
// when the left operand is char); float on either side produces float.
func (e *Evaluator) applyAddSub(op lexer.TokenType, leftType, rightType *typesys.Descriptor) *typesys.Descriptor {
	leftBase := typesys.BaseType(leftType)
	rightBase := typesys.BaseType(rightType)

	if typesys.IsFloat(leftBase) || typesys.IsFloat(rightBase) {
		r := e.popAsFloat()
		l := e.popAsFloat()
		var result float64
		if op == lexer.PLUS {
			result = l + r
		} else {
			result = l - r
		}
		e.Stack.PushFloat(result)
		return typesys.Float
	}

	r := e.popAsInt()
	l := e.popAsInt()
	var result int64
	if op == lexer.PLUS {
		result = l + r
	} else {
		result = l - r
	}

	if typesys.IsChar(leftBase) {
		e.Stack.PushChar(rune(result))
		return typesys.Char
	}
	e.Stack.PushInt(result)
	return typesys.Int
}
