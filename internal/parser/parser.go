// Package parser builds symtab.SymbolNode entries for Cx's declaration
// forms — var, const, type (record/array), and func signatures (spec.md
// SPEC_FULL.md §4.6). It never builds an expression AST: expression bodies
// (const initializers, array bounds, default values) are walked directly by
// the token-cursor-driven evaluator, exactly as spec.md's architecture
// requires. Grounded on the teacher's internal/parser/declarations.go
// (mutable curToken/peekToken cursor, one parse<Kind>Declaration method per
// declaration form) generalized from DWScript/Pascal syntax to Cx's C-like
// declaration grammar.
package parser

import (
	"fmt"

	"github.com/cwbudde/go-cx/internal/lexer"
	"github.com/cwbudde/go-cx/internal/symtab"
	"github.com/cwbudde/go-cx/internal/typesys"
)

// Parser walks declaration forms from a lexer, registering symbols into a
// Table as it goes.
type Parser struct {
	lex   *lexer.Lexer
	table *symtab.Table

	curToken  lexer.Token
	peekToken lexer.Token

	errors []string
}

// New creates a Parser reading from lex and registering declarations into
// table (typically the program's global scope).
func New(lex *lexer.Lexer, table *symtab.Table) *Parser {
	p := &Parser{lex: lex, table: table}
	p.nextToken()
	p.nextToken()
	return p
}

// Table returns the symbol table this parser populates.
func (p *Parser) Table() *symtab.Table { return p.table }

// Errors returns accumulated parse errors, in encounter order.
func (p *Parser) Errors() []string { return p.errors }

// Lexer exposes the underlying lexer so a caller (the statement executor)
// can take over token consumption once declaration parsing reaches a
// construct it does not own (an executable statement or an expression).
func (p *Parser) Lexer() *lexer.Lexer { return p.lex }

// CurToken returns the token the parser is currently positioned on.
func (p *Parser) CurToken() lexer.Token { return p.curToken }

// PeekToken returns the parser's one-token lookahead, already fetched from
// the shared lexer. The statement executor replays it through
// resumeExecCursor so the handoff from declaration scanning to statement
// execution doesn't drop or double-consume a token.
func (p *Parser) PeekToken() lexer.Token { return p.peekToken }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lex.NextToken()
}

func (p *Parser) addError(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf("%s: %s", p.curToken.Pos, fmt.Sprintf(format, args...)))
}

func (p *Parser) expect(tt lexer.TokenType, what string) bool {
	if p.curToken.Type != tt {
		p.addError("expected %s, got %q", what, p.curToken.Literal)
		return false
	}
	return true
}

// ParseDeclaration dispatches on the current token's leading keyword and
// parses exactly one declaration, registering it into the table. It is the
// statement executor's job to call this in a loop whenever it finds VAR,
// CONST, TYPE, or FUNC at a statement boundary, and to handle every other
// leading token itself.
func (p *Parser) ParseDeclaration() {
	switch p.curToken.Type {
	case lexer.VAR:
		p.parseVarDecl()
	case lexer.CONST:
		p.parseConstDecl()
	case lexer.TYPE:
		p.parseTypeDecl()
	case lexer.FUNC:
		p.parseFuncDecl()
	default:
		p.addError("expected a declaration, got %q", p.curToken.Literal)
		p.nextToken()
	}
}

// IsDeclarationStart reports whether the current token begins one of the
// four declaration forms this parser handles.
func (p *Parser) IsDeclarationStart() bool {
	switch p.curToken.Type {
	case lexer.VAR, lexer.CONST, lexer.TYPE, lexer.FUNC:
		return true
	default:
		return false
	}
}

// parseVarDecl parses `var name: Type [= expr];`. The optional initializer
// expression is left in place for the statement executor to evaluate as an
// ordinary assignment immediately after the symbol is defined — this parser
// only records the declared type and advances past the name/type/semicolon
// skeleton, stopping right before `=` when present.
func (p *Parser) parseVarDecl() (*symtab.SymbolNode, bool) {
	p.nextToken() // consume 'var'

	if !p.expect(lexer.IDENT, "identifier") {
		return nil, false
	}
	name := p.curToken.Literal
	p.nextToken()

	if !p.expect(lexer.COLON, "':'") {
		return nil, false
	}
	p.nextToken()

	typ := p.parseTypeExpr()

	if p.curToken.Type == lexer.SEMICOLON {
		p.nextToken()
	}

	sym := &symtab.SymbolNode{Name: name, Kind: symtab.KindVariable, Type: typ}
	p.table.Define(sym)
	return sym, true
}

// parseConstDecl parses `const name: Type = literal;` or `const name = literal;`
// (the type is inferred from the literal token when omitted).
func (p *Parser) parseConstDecl() (*symtab.SymbolNode, bool) {
	p.nextToken() // consume 'const'

	if !p.expect(lexer.IDENT, "identifier") {
		return nil, false
	}
	name := p.curToken.Literal
	p.nextToken()

	var typ *typesys.Descriptor
	if p.curToken.Type == lexer.COLON {
		p.nextToken()
		typ = p.parseTypeExpr()
	}

	if !p.expect(lexer.ASSIGN, "'='") {
		return nil, false
	}
	p.nextToken()

	sym := &symtab.SymbolNode{Name: name, Kind: symtab.KindConstant}
	switch p.curToken.Type {
	case lexer.INT:
		sym.Const.Int = parseIntText(p.curToken.Literal)
		if typ == nil {
			typ = typesys.Int
		}
	case lexer.FLOAT:
		sym.Const.Float = parseFloatText(p.curToken.Literal)
		if typ == nil {
			typ = typesys.Float
		}
	case lexer.TRUE, lexer.FALSE:
		sym.Const.Int = 0
		if p.curToken.Type == lexer.TRUE {
			sym.Const.Int = 1
		}
		if typ == nil {
			typ = typesys.Bool
		}
	case lexer.STRING:
		runes := []rune(p.curToken.Literal)
		if len(runes) <= 1 {
			if len(runes) == 1 {
				sym.Const.Char = runes[0]
			}
			if typ == nil {
				typ = typesys.Char
			}
		} else {
			sym.Const.String = p.curToken.Literal
			if typ == nil {
				typ = typesys.NewString(len(runes))
			}
		}
	default:
		p.addError("expected a literal constant value, got %q", p.curToken.Literal)
	}
	sym.Type = typ
	p.nextToken()

	if p.curToken.Type == lexer.SEMICOLON {
		p.nextToken()
	}

	p.table.Define(sym)
	return sym, true
}

// parseTypeDecl parses `type Name record { field: Type; ... }` or
// `type Name array [n] of Type;`.
func (p *Parser) parseTypeDecl() (*symtab.SymbolNode, bool) {
	p.nextToken() // consume 'type'

	if !p.expect(lexer.IDENT, "identifier") {
		return nil, false
	}
	name := p.curToken.Literal
	p.nextToken()

	var typ *typesys.Descriptor
	switch p.curToken.Type {
	case lexer.RECORD:
		typ = p.parseRecordType(name)
	case lexer.ARRAY:
		typ = p.parseArrayType()
		typ.TypeName = name
	case lexer.ENUM:
		typ = p.parseEnumType(name)
	default:
		p.addError("expected 'record', 'array', or 'enum' after type name")
		return nil, false
	}

	if p.curToken.Type == lexer.SEMICOLON {
		p.nextToken()
	}

	sym := &symtab.SymbolNode{Name: name, Kind: symtab.KindType, Type: typ}
	p.table.Define(sym)
	return sym, true
}

func (p *Parser) parseRecordType(name string) *typesys.Descriptor {
	p.nextToken() // consume 'record'
	if !p.expect(lexer.LBRACE, "'{'") {
		return typesys.NewRecord(name, nil)
	}
	p.nextToken()

	var fields []typesys.FieldInfo
	for p.curToken.Type != lexer.RBRACE && p.curToken.Type != lexer.EOF {
		if !p.expect(lexer.IDENT, "field name") {
			p.nextToken()
			continue
		}
		fieldName := p.curToken.Literal
		p.nextToken()
		if !p.expect(lexer.COLON, "':'") {
			continue
		}
		p.nextToken()
		fieldType := p.parseTypeExpr()
		fields = append(fields, typesys.FieldInfo{Name: fieldName, Type: fieldType})
		if p.curToken.Type == lexer.SEMICOLON {
			p.nextToken()
		}
	}
	if p.curToken.Type == lexer.RBRACE {
		p.nextToken()
	}
	return typesys.NewRecord(name, fields)
}

func (p *Parser) parseArrayType() *typesys.Descriptor {
	p.nextToken() // consume 'array'
	if !p.expect(lexer.LBRACK, "'['") {
		return typesys.NewArray(typesys.Int, 0, -1)
	}
	p.nextToken()

	minIndex := 0
	maxIndex := -1
	if p.curToken.Type == lexer.INT {
		maxIndex = int(parseIntText(p.curToken.Literal)) - 1
		p.nextToken()
	}
	if !p.expect(lexer.RBRACK, "']'") {
		return typesys.NewArray(typesys.Int, minIndex, maxIndex)
	}
	p.nextToken()

	if p.curToken.Type == lexer.IDENT && p.curToken.Literal == "of" {
		p.nextToken()
	}
	elemType := p.parseTypeExpr()
	return typesys.NewArray(elemType, minIndex, maxIndex)
}

func (p *Parser) parseEnumType(name string) *typesys.Descriptor {
	p.nextToken() // consume 'enum'
	if !p.expect(lexer.LBRACE, "'{'") {
		return typesys.NewEnum(name, nil)
	}
	p.nextToken()

	var names []string
	for p.curToken.Type != lexer.RBRACE && p.curToken.Type != lexer.EOF {
		if p.curToken.Type == lexer.IDENT {
			names = append(names, p.curToken.Literal)
		}
		p.nextToken()
		if p.curToken.Type == lexer.COMMA {
			p.nextToken()
		}
	}
	if p.curToken.Type == lexer.RBRACE {
		p.nextToken()
	}
	return typesys.NewEnum(name, names)
}

// parseFuncDecl parses `func name(params) -> Type { ... }`'s signature,
// registering a KindFunction symbol whose FuncSig describes its parameters
// and return type, then captures the body's exact source text via
// captureBlock rather than interpreting it — the statement executor re-lexes
// that text fresh on every call (see internal/statement's callFunction).
func (p *Parser) parseFuncDecl() (*symtab.SymbolNode, bool) {
	p.nextToken() // consume 'func'

	if !p.expect(lexer.IDENT, "identifier") {
		return nil, false
	}
	name := p.curToken.Literal
	p.nextToken()

	if !p.expect(lexer.LPAREN, "'('") {
		return nil, false
	}
	p.nextToken()

	var params []symtab.Param
	for p.curToken.Type != lexer.RPAREN && p.curToken.Type != lexer.EOF {
		byRef := false
		if p.curToken.Type == lexer.REF {
			byRef = true
			p.nextToken()
		}
		if !p.expect(lexer.IDENT, "parameter name") {
			p.nextToken()
			continue
		}
		paramName := p.curToken.Literal
		p.nextToken()
		if !p.expect(lexer.COLON, "':'") {
			continue
		}
		p.nextToken()
		paramType := p.parseTypeExpr()
		params = append(params, symtab.Param{Name: paramName, Type: paramType, ByRef: byRef, Pointer: byRef})
		if p.curToken.Type == lexer.COMMA {
			p.nextToken()
		}
	}
	if p.curToken.Type == lexer.RPAREN {
		p.nextToken()
	}

	returnType := typesys.Void
	if p.curToken.Type == lexer.MINUS && p.peekToken.Type == lexer.GREATER {
		p.nextToken()
		p.nextToken()
		returnType = p.parseTypeExpr()
	}

	bodySource := p.captureBlock()

	sym := &symtab.SymbolNode{
		Name: name,
		Kind: symtab.KindFunction,
		Type: returnType,
		FuncSig: &symtab.FuncSignature{
			Params:     params,
			ReturnType: returnType,
			BodySource: bodySource,
		},
	}
	p.table.Define(sym)

	return sym, true
}

// captureBlock skips a balanced `{ ... }` block without interpreting it and
// returns its exact source text, brace included. The statement executor
// re-lexes this text from scratch each time the function is called, rather
// than rewinding the shared declaration lexer — simpler than saving and
// restoring raw lexer positions, at the cost of each call's error positions
// being reported relative to the function body rather than the whole file.
func (p *Parser) captureBlock() string {
	if p.curToken.Type != lexer.LBRACE {
		return ""
	}
	start := p.curToken.Pos.Offset
	depth := 0
	for {
		switch p.curToken.Type {
		case lexer.LBRACE:
			depth++
		case lexer.RBRACE:
			depth--
		case lexer.EOF:
			return p.lex.Input()[start:]
		}
		p.nextToken()
		if depth == 0 {
			break
		}
	}
	end := p.curToken.Pos.Offset
	if end <= start {
		end = len(p.lex.Input())
	}
	return p.lex.Input()[start:end]
}

// parseTypeExpr parses a type reference: a builtin scalar keyword, a
// previously declared type name, an inline `record { ... }`, an inline
// `array [n] of T`, or `stream`.
func (p *Parser) parseTypeExpr() *typesys.Descriptor {
	switch p.curToken.Type {
	case lexer.RECORD:
		t := p.parseRecordType("")
		return t
	case lexer.ARRAY:
		return p.parseArrayType()
	case lexer.STREAM:
		p.nextToken()
		return typesys.NewStream("", "r")
	case lexer.IDENT:
		name := p.curToken.Literal
		p.nextToken()
		if builtin := builtinType(name); builtin != nil {
			return builtin
		}
		if sym, ok := p.table.Lookup(name); ok && sym.Kind == symtab.KindType {
			return sym.Type
		}
		p.addError("unknown type %q", name)
		return typesys.Dummy
	default:
		p.addError("expected a type, got %q", p.curToken.Literal)
		p.nextToken()
		return typesys.Dummy
	}
}

func builtinType(name string) *typesys.Descriptor {
	switch name {
	case "int":
		return typesys.Int
	case "char":
		return typesys.Char
	case "wchar":
		return typesys.WChar
	case "float":
		return typesys.Float
	case "bool":
		return typesys.Bool
	case "uint8":
		return typesys.Uint8
	case "uint16":
		return typesys.Uint16
	case "uint32":
		return typesys.Uint32
	case "uint64":
		return typesys.Uint64
	case "void":
		return typesys.Void
	default:
		return nil
	}
}
