// Package evaluator implements the Cx expression evaluation core: the four
// mutually recursive evaluators (expression, simple-expression, term,
// factor), the l-value navigator, and array-literal construction (spec.md
// §4).
package evaluator

import (
	"github.com/cwbudde/go-cx/internal/lexer"
	"github.com/cwbudde/go-cx/internal/symtab"
)

// Cursor is the token-stream interface consumed by the evaluator (spec.md
// §6 "Token cursor interface"). It is implemented by a thin wrapper around
// *lexer.Lexer plus whatever symbol resolution the parser/statement
// executor layer performs for identifier tokens.
type Cursor interface {
	// Token returns the current token's type.
	Token() lexer.TokenType
	// Literal returns the current token's literal text.
	Literal() string
	// Pos returns the current token's source position, for error reporting.
	Pos() lexer.Position
	// Node returns the symbol-table node associated with the current
	// token when it is an identifier that resolves in the active scope;
	// nil otherwise, including for literals (spec.md §6 "p_node").
	Node() *symtab.SymbolNode
	// Advance moves to the next token (spec.md §6 "get_token()").
	Advance()
}

// Operator-class membership sets (spec.md §6 "token_in(tok, set)"). These
// are plain Go maps rather than a method on Cursor: the set membership
// rules are evaluator-internal precedence data, not something the token
// stream itself needs to know, so they live here instead of being threaded
// through the Cursor interface.
var relationOps = map[lexer.TokenType]bool{
	lexer.EQ_EQ: true, lexer.EXCL_EQ: true,
	lexer.LESS: true, lexer.GREATER: true,
	lexer.LESS_EQ: true, lexer.GREATER_EQ: true,
}

var unaryOps = map[lexer.TokenType]bool{
	lexer.PLUS: true, lexer.MINUS: true, lexer.TILDE: true,
}

var addOps = map[lexer.TokenType]bool{
	lexer.PLUS: true, lexer.MINUS: true,
	lexer.LESS_LESS: true, lexer.GREATER_GREATER: true,
	lexer.AMP: true, lexer.CARET: true, lexer.PIPE: true, lexer.PIPE_PIPE: true,
}

var mulOps = map[lexer.TokenType]bool{
	lexer.ASTERISK: true, lexer.SLASH: true, lexer.PERCENT: true, lexer.AMP_AMP: true,
}

func tokenIn(tok lexer.TokenType, set map[lexer.TokenType]bool) bool {
	return set[tok]
}
