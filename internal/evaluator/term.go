package evaluator

import (
	"github.com/cwbudde/go-cx/internal/lexer"
	"github.com/cwbudde/go-cx/internal/runtimeerr"
	"github.com/cwbudde/go-cx/internal/typesys"
)

// Term evaluates the multiplicative and logical-AND layer (spec.md §4.1.3):
// a factor, then repeated `*`, `/`, `%`, `&&` against further factors.
func (e *Evaluator) Term() *typesys.Descriptor {
	typ := e.Factor()

	for tokenIn(e.Cur.Token(), mulOps) {
		op := e.Cur.Token()
		pos := e.Cur.Pos()
		e.Cur.Advance()

		rightType := e.Factor()
		typ = e.applyMultiplicative(op, typ, rightType, pos)
	}

	return typ
}

func (e *Evaluator) applyMultiplicative(op lexer.TokenType, leftType, rightType *typesys.Descriptor, pos lexer.Position) *typesys.Descriptor {
	switch op {
	case lexer.ASTERISK:
		return e.applyMul(leftType, rightType)
	case lexer.SLASH:
		return e.applyDiv(leftType, rightType, pos)
	case lexer.PERCENT:
		return e.applyMod(pos)
	default: // &&
		r := e.popAsInt() != 0
		l := e.popAsInt() != 0
		e.Stack.PushBool(l && r)
		return typesys.Bool
	}
}

// applyMul implements `*`: integer×integer produces integer; any float
// operand produces float with integer promotion (spec.md §4.1.3).
func (e *Evaluator) applyMul(leftType, rightType *typesys.Descriptor) *typesys.Descriptor {
	if typesys.IsFloat(typesys.BaseType(leftType)) || typesys.IsFloat(typesys.BaseType(rightType)) {
		r := e.popAsFloat()
		l := e.popAsFloat()
		e.Stack.PushFloat(l * r)
		return typesys.Float
	}
	r := e.popAsInt()
	l := e.popAsInt()
	e.Stack.PushInt(l * r)
	return typesys.Int
}

// applyDiv implements `/`: integer/integer produces integer **truncation
// via direct integer division** (spec.md §9 — the source's cast-from-float
// truncation is equivalent but obscures intent; this is the one documented
// probable bug spec.md asks to reimplement rather than preserve verbatim).
// Any float operand produces float, with a zero check against the divisor
// either way (spec.md §4.1.3, §7).
func (e *Evaluator) applyDiv(leftType, rightType *typesys.Descriptor, pos lexer.Position) *typesys.Descriptor {
	isFloat := typesys.IsFloat(typesys.BaseType(leftType)) || typesys.IsFloat(typesys.BaseType(rightType))

	if isFloat {
		r := e.popAsFloat()
		l := e.popAsFloat()
		if r == 0 {
			e.raise(runtimeerr.DivisionByZero(pos.Line, pos.Column, "/"))
		}
		e.Stack.PushFloat(l / r)
		return typesys.Float
	}

	r := e.popAsInt()
	l := e.popAsInt()
	if r == 0 {
		e.raise(runtimeerr.DivisionByZero(pos.Line, pos.Column, "/"))
	}
	e.Stack.PushInt(l / r)
	return typesys.Int
}

// applyMod implements `%`: integer operands only (spec.md §4.1.3).
func (e *Evaluator) applyMod(pos lexer.Position) *typesys.Descriptor {
	r := e.popAsInt()
	l := e.popAsInt()
	if r == 0 {
		e.raise(runtimeerr.DivisionByZero(pos.Line, pos.Column, "%"))
	}
	e.Stack.PushInt(l % r)
	return typesys.Int
}
