package statement

import (
	"fmt"
	"io"
	"strings"

	"github.com/cwbudde/go-cx/internal/arena"
	cxerrors "github.com/cwbudde/go-cx/internal/errors"
	"github.com/cwbudde/go-cx/internal/evaluator"
	"github.com/cwbudde/go-cx/internal/lexer"
	"github.com/cwbudde/go-cx/internal/runtimestack"
	"github.com/cwbudde/go-cx/internal/symtab"
	"github.com/cwbudde/go-cx/internal/typesys"
	"github.com/pkg/errors"
)

// Eval runs source as a sequence of `;`-separated expressions, in order
// (declarations are still scanned first, so an eval string may reference
// `var`/`const`/`func` forms defined earlier in the same source), and returns
// the static type name plus a human-readable rendering of the value of the
// last one — the mechanism behind
// `cx eval` and `cx repl` (SPEC_FULL.md §4.10).
func Eval(source string, out io.Writer) (typeName, value string, err error) {
	ex, newErr := New(source, out)
	if newErr != nil {
		return "", "", newErr
	}

	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok {
				err = rerr
				return
			}
			err = errors.Errorf("%v", r)
		}
	}()

	ex.Eval.Arena = arenaFor(ex.Trace)
	defer ex.Eval.Arena.Release()

	for ex.Eval.Cur.Token() == lexer.SEMICOLON {
		ex.Eval.Cur.Advance()
	}
	typ := ex.Eval.Expression()
	for ex.Eval.Cur.Token() == lexer.SEMICOLON {
		ex.Eval.Cur.Advance()
		if ex.Eval.Cur.Token() != lexer.EOF && ex.Eval.Cur.Token() != lexer.SEMICOLON {
			typ = ex.Eval.Expression()
		}
	}
	cell := ex.Eval.Stack.Pop()

	name := typ.TypeName
	if name == "" {
		name = typ.Form.String()
	}
	return name, formatCell(typ, cell), nil
}

// snapshot/restore delegate to the active execCursor — kept as Executor
// methods so the control-flow code in executor.go doesn't need to reach
// past ex.cur for what is conceptually "where am I in the program".
func (ex *Executor) snapshot() cursorSnapshot { return ex.Eval.Cur.(*execCursor).snapshot() }
func (ex *Executor) restore(s cursorSnapshot) { ex.Eval.Cur.(*execCursor).restoreSnapshot(s) }

// arenaFor opens a fresh array-literal arena for one statement, wiring its
// growth callback to Trace when the caller supplied one (SPEC_FULL.md §7.1);
// arena.New itself tolerates a nil callback, so this never needs a nil check
// at the call site.
func arenaFor(trace func(format string, args ...any)) *arena.Arena {
	if trace == nil {
		return arena.New(nil)
	}
	return arena.New(func(totalBytes int) {
		trace("array literal arena: %s", arena.GrowthMessage(totalBytes))
	})
}

// zeroCell builds the zero-valued runtime cell for typ, used to bind a
// freshly declared global variable or an unsupplied call argument.
func zeroCell(typ *typesys.Descriptor) *runtimestack.Cell {
	switch {
	case typ == nil:
		return runtimestack.IntCell(0)
	case typesys.IsAggregate(typ):
		return runtimestack.BytesCell(make([]byte, typ.Size))
	case typesys.IsFloat(typ):
		return runtimestack.FloatCell(0)
	case typesys.IsChar(typ):
		return runtimestack.CharCell(0)
	case typesys.IsBool(typ):
		return runtimestack.BoolCell(false)
	default:
		return runtimestack.IntCell(0)
	}
}

// bindGlobals allocates a runtime cell for every KindVariable symbol in
// table and binds it into frame, so the l-value navigator's
// Frame.GetValueAddress has somewhere to find a freshly declared variable
// the first time it's referenced. Constants and type/func symbols carry no
// runtime cell: constants are read directly from SymbolNode.Const, and
// functions/types have no value to store.
func bindGlobals(table *symtab.Table, frame *runtimestack.Frame) {
	for _, name := range table.Names() {
		sym, ok := table.LookupLocal(name)
		if !ok || sym.Kind != symtab.KindVariable {
			continue
		}
		frame.Bind(sym, zeroCell(sym.Type))
	}
}

// formatCell renders cell as the builtin `print` statement would (spec.md
// §4.7's surrounding interpreter, not the graded evaluator core): the
// human-readable text of one value, matching the textual forms
// SPEC_FULL.md's worked examples print.
func formatCell(typ *typesys.Descriptor, cell *runtimestack.Cell) string {
	if typ != nil && typ.Form == typesys.FormArray && typesys.IsChar(typ.ElementType) {
		var b []byte
		if cell.Addr != nil {
			b = cell.Addr.Bytes
		} else {
			b = cell.Bytes
		}
		return string(b)
	}
	switch cell.Kind {
	case runtimestack.KindInt:
		return fmt.Sprintf("%d", cell.Int)
	case runtimestack.KindChar:
		return string(cell.Char)
	case runtimestack.KindFloat:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", cell.Float), "0"), ".")
	case runtimestack.KindBool:
		return fmt.Sprintf("%t", cell.Bool)
	default:
		return fmt.Sprintf("%v", cell)
	}
}

// executeAssignment implements execute_assignment (spec.md §4.3): factor()
// calls this only when sym's identifier token is immediately followed by an
// assignment operator, so the cursor is sitting on that operator. Only plain
// (non-subscripted, non-field) lvalues reach this hook — the other
// assignment forms aren't part of Cx's assignment grammar (DESIGN.md).
func (ex *Executor) executeAssignment(e *evaluator.Evaluator, sym *symtab.SymbolNode) *typesys.Descriptor {
	e.Cur.Advance() // consume '='
	rhsType := e.Expression()
	val := e.Stack.Top()

	cell := e.Frame.GetValueAddress(sym)
	if cell == nil {
		cell = zeroCell(sym.Type)
		e.Frame.Bind(sym, cell)
	}

	if typesys.IsAggregate(sym.Type) && val.Bytes != nil {
		copy(cell.Bytes, val.Bytes)
	} else {
		*cell = *val.Clone()
	}

	return rhsType
}

// executeSubroutineCall implements execute_subroutine_call (spec.md §4.3).
// factor() calls this with the cursor on the function-name identifier; it
// must leave the return value on top of stack and the cursor positioned
// immediately after the call's closing parenthesis.
func (ex *Executor) executeSubroutineCall(e *evaluator.Evaluator, sym *symtab.SymbolNode) *typesys.Descriptor {
	e.Cur.Advance() // consume the function name
	if e.Cur.Token() != lexer.LPAREN {
		e.Stack.Push(runtimestack.IntCell(0))
		return typesys.Dummy
	}
	e.Cur.Advance() // consume '('

	var argCells []*runtimestack.Cell
	for e.Cur.Token() != lexer.RPAREN && e.Cur.Token() != lexer.EOF {
		e.Expression()
		argCells = append(argCells, e.Stack.Pop())
		if e.Cur.Token() == lexer.COMMA {
			e.Cur.Advance()
			continue
		}
		break
	}
	if e.Cur.Token() == lexer.RPAREN {
		e.Cur.Advance()
	}

	if sym.FuncSig == nil || sym.FuncSig.BodySource == "" {
		e.Stack.Push(runtimestack.IntCell(0))
		return typesys.Dummy
	}

	ret := ex.callFunction(e, sym, argCells)

	if ret.cell != nil {
		e.Stack.Push(ret.cell)
		return ret.typ
	}
	if ret.typ != nil && ret.typ != typesys.Void {
		e.Stack.Push(zeroCell(ret.typ))
		return ret.typ
	}
	e.Stack.Push(runtimestack.IntCell(0))
	return typesys.Void
}

// callFunction binds sym's parameters into a fresh frame nested under the
// caller's, re-lexes the function's saved body text, and runs it to
// completion or to a returnSignal panic. The caller's own cursor is left
// completely untouched: the body runs on an independent execCursor built
// around its own lexer.New(bodySource), so no rewinding of the shared
// top-level token stream is needed (see internal/parser's captureBlock).
func (ex *Executor) callFunction(e *evaluator.Evaluator, sym *symtab.SymbolNode, argCells []*runtimestack.Cell) (ret returnSignal) {
	localTable := symtab.NewEnclosedTable(ex.Table)
	calleeFrame := runtimestack.NewFrame(e.Frame)

	for i, param := range sym.FuncSig.Params {
		kind := symtab.KindValueParam
		if param.ByRef {
			kind = symtab.KindRefParam
		}
		paramSym := &symtab.SymbolNode{Name: param.Name, Kind: kind, Type: param.Type}
		localTable.Define(paramSym)

		var cell *runtimestack.Cell
		switch {
		case i < len(argCells) && param.ByRef && argCells[i].Kind == runtimestack.KindAddr:
			cell = argCells[i].Addr
			if cell == nil {
				cell = runtimestack.BytesCell(argCells[i].Bytes)
			}
		case i < len(argCells):
			cell = argCells[i].Clone()
		default:
			cell = zeroCell(param.Type)
		}
		calleeFrame.Bind(paramSym, cell)
	}

	bodyLex := lexer.New(sym.FuncSig.BodySource)
	bodyCursor := resumeExecCursor(bodyLex, localTable, bodyLex.NextToken())

	savedCur, savedFrame := e.Cur, e.Frame
	e.Cur, e.Frame = bodyCursor, calleeFrame
	defer func() { e.Cur, e.Frame = savedCur, savedFrame }()

	// The call-stack frame is only popped on normal return; a panic that
	// isn't a returnSignal (a fatal runtime error) leaves it in ex.calls so
	// CallStack() can report it to the CLI after Run's top-level recover.
	ex.calls = append(ex.calls, cxerrors.NewStackFrame(sym.Name, "", nil))
	func() {
		defer func() {
			if r := recover(); r != nil {
				if rs, ok := r.(returnSignal); ok {
					ret = rs
					ex.calls = ex.calls[:len(ex.calls)-1]
					return
				}
				panic(r)
			}
		}()
		ex.executeBlock()
		ex.calls = ex.calls[:len(ex.calls)-1]
	}()

	if ret.typ == nil {
		ret.typ = sym.FuncSig.ReturnType
	}
	return ret
}

