package evaluator

import (
	"github.com/cwbudde/go-cx/internal/lexer"
	"github.com/cwbudde/go-cx/internal/runtimestack"
	"github.com/cwbudde/go-cx/internal/symtab"
	"github.com/cwbudde/go-cx/internal/typesys"
)

// assignOps is the token set recognized as an assignment operator
// immediately following an identifier in factor's variable/parameter case
// (spec.md §6 "assign_ops").
var assignOps = map[lexer.TokenType]bool{
	lexer.ASSIGN: true,
}

// Factor evaluates the primary layer (spec.md §4.1.4): identifiers (further
// dispatched by declaration kind), literals, `!`, parenthesized
// sub-expressions, array literals, and the empty-context no-op.
func (e *Evaluator) Factor() *typesys.Descriptor {
	switch e.Cur.Token() {
	case lexer.IDENT:
		return e.factorIdentifier()
	case lexer.INT:
		return e.factorIntLiteral()
	case lexer.FLOAT:
		return e.factorFloatLiteral()
	case lexer.STRING:
		return e.factorStringOrCharLiteral()
	case lexer.TRUE, lexer.FALSE:
		return e.factorBoolLiteral()
	case lexer.EXCLAMATION:
		return e.factorLogicalNot()
	case lexer.LPAREN:
		return e.factorParenthesized()
	case lexer.LBRACK:
		return e.ExecuteArrayLiteral()
	case lexer.SEMICOLON:
		return typesys.Dummy
	default:
		return typesys.Dummy
	}
}

func (e *Evaluator) factorIdentifier() *typesys.Descriptor {
	sym := e.Cur.Node()
	if sym == nil {
		e.Cur.Advance()
		return typesys.Dummy
	}

	switch sym.Kind {
	case symtab.KindFunction:
		return e.SubroutineCallHook(e, sym)
	case symtab.KindConstant:
		return e.ExecuteConstant(sym)
	case symtab.KindType:
		e.Cur.Advance()
		return sym.Type
	case symtab.KindStream:
		return e.factorStreamRead(sym)
	default: // variable, value-parameter, reference-parameter
		e.Cur.Advance()
		if assignOps[e.Cur.Token()] {
			return e.AssignmentHook(e, sym)
		}
		return e.ExecuteVariable(sym, false)
	}
}

func (e *Evaluator) factorStreamRead(sym *symtab.SymbolNode) *typesys.Descriptor {
	e.Cur.Advance()
	if e.Streams == nil {
		e.Stack.PushChar(0)
		return typesys.Char
	}
	ch, err := e.Streams.ReadChar(sym)
	if err != nil {
		e.Stack.PushChar(0)
		return typesys.Char
	}
	e.Stack.PushChar(ch)
	return typesys.Char
}

func (e *Evaluator) factorIntLiteral() *typesys.Descriptor {
	v := parseIntLiteral(e.Cur.Literal())
	e.Cur.Advance()
	e.Stack.PushInt(v)
	return typesys.Int
}

func (e *Evaluator) factorFloatLiteral() *typesys.Descriptor {
	v := parseFloatLiteral(e.Cur.Literal())
	e.Cur.Advance()
	e.Stack.PushFloat(v)
	return typesys.Float
}

func (e *Evaluator) factorBoolLiteral() *typesys.Descriptor {
	v := e.Cur.Token() == lexer.TRUE
	e.Cur.Advance()
	e.Stack.PushBool(v)
	return typesys.Bool
}

// factorStringOrCharLiteral implements spec.md §4.1.4's length rule: a
// literal of payload-length <= 1 character (after the lexer has already
// stripped surrounding quotes) pushes a char and yields char; otherwise it
// pushes the string's address and yields the literal's array type.
func (e *Evaluator) factorStringOrCharLiteral() *typesys.Descriptor {
	literal := e.Cur.Literal()
	e.Cur.Advance()

	runes := []rune(literal)
	if len(runes) <= 1 {
		var ch rune
		if len(runes) == 1 {
			ch = runes[0]
		}
		e.Stack.PushChar(ch)
		return typesys.Char
	}

	e.Stack.Push(runtimestack.BytesCell([]byte(literal)))
	return typesys.NewString(len(runes))
}

func (e *Evaluator) factorLogicalNot() *typesys.Descriptor {
	e.Cur.Advance()
	e.Factor()
	v := e.popAsInt()
	e.Stack.PushBool(v == 0)
	return typesys.Bool
}

func (e *Evaluator) factorParenthesized() *typesys.Descriptor {
	e.Cur.Advance() // consume '('
	typ := e.Expression()
	if e.Cur.Token() == lexer.RPAREN {
		e.Cur.Advance() // consume ')'
	}
	return typ
}
