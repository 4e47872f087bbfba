package statement

import (
	"github.com/cwbudde/go-cx/internal/lexer"
	"github.com/cwbudde/go-cx/internal/symtab"
)

// execCursor adapts a *lexer.Lexer plus a *symtab.Table into the
// evaluator.Cursor interface (spec.md §6 "Token cursor interface"). It is
// the glue spec.md leaves external to the evaluation core: resolving an
// IDENT token's literal against the active scope chain so the evaluator
// receives a *symtab.SymbolNode without needing to know anything about
// scoping itself.
type execCursor struct {
	lex     *lexer.Lexer
	table   *symtab.Table
	cur     lexer.Token
	pending []lexer.Token // already-fetched tokens to drain before reading lex
}

// resumeExecCursor builds a cursor positioned at cur, with any tokens the
// caller already fetched past cur (e.g. the declaration parser's one-token
// lookahead) replayed before the shared lexer is read again. This lets
// internal/parser's declaration scan and the statement executor's cursor
// share one underlying token stream without either re-lexing or dropping a
// buffered token.
func resumeExecCursor(lex *lexer.Lexer, table *symtab.Table, cur lexer.Token, alreadyFetched ...lexer.Token) *execCursor {
	return &execCursor{lex: lex, table: table, cur: cur, pending: alreadyFetched}
}

func (c *execCursor) Token() lexer.TokenType { return c.cur.Type }
func (c *execCursor) Literal() string        { return c.cur.Literal }
func (c *execCursor) Pos() lexer.Position    { return c.cur.Pos }

func (c *execCursor) Node() *symtab.SymbolNode {
	if c.cur.Type != lexer.IDENT {
		return nil
	}
	sym, ok := c.table.Lookup(c.cur.Literal)
	if !ok {
		return nil
	}
	return sym
}

func (c *execCursor) Advance() {
	if len(c.pending) > 0 {
		c.cur = c.pending[0]
		c.pending = c.pending[1:]
		return
	}
	c.cur = c.lex.NextToken()
}

// setScope retargets symbol resolution at a different scope without
// disturbing the underlying token stream — used when entering and leaving a
// function call's local parameter scope.
func (c *execCursor) setScope(table *symtab.Table) *symtab.Table {
	prev := c.table
	c.table = table
	return prev
}

// cursorSnapshot captures enough of an execCursor's state to rewind token
// consumption back to a particular point — used by the while-loop executor
// to re-evaluate its condition and body on each iteration without a
// separate AST to re-walk.
type cursorSnapshot struct {
	lexState lexer.LexerState
	cur      lexer.Token
	pending  []lexer.Token
}

func (c *execCursor) snapshot() cursorSnapshot {
	pendingCopy := make([]lexer.Token, len(c.pending))
	copy(pendingCopy, c.pending)
	return cursorSnapshot{lexState: c.lex.SaveState(), cur: c.cur, pending: pendingCopy}
}

func (c *execCursor) restoreSnapshot(s cursorSnapshot) {
	c.lex.RestoreState(s.lexState)
	c.cur = s.cur
	c.pending = s.pending
}
