package evaluator

import (
	"github.com/cwbudde/go-cx/internal/arena"
	"github.com/cwbudde/go-cx/internal/runtimeerr"
	"github.com/cwbudde/go-cx/internal/runtimestack"
	"github.com/cwbudde/go-cx/internal/symtab"
	"github.com/cwbudde/go-cx/internal/typesys"
)

// StreamReader reads one character from a stream-typed symbol's underlying
// source — the terminal for the standard-input stream, or the stream's
// file handle otherwise (spec.md §4.1.4).
type StreamReader interface {
	ReadChar(sym *symtab.SymbolNode) (rune, error)
}

// Evaluator holds all state shared by the four mutually recursive
// evaluators and the l-value navigator: the token cursor, the runtime
// stack, the active activation record, and the two opaque collaborator
// hooks spec.md §4.3 leaves external (execute_assignment,
// execute_subroutine_call).
type Evaluator struct {
	Cur     Cursor
	Stack   *runtimestack.Stack
	Frame   *runtimestack.Frame
	Arena   *arena.Arena
	Streams StreamReader

	// OnFetch is invoked after every rvalue materialization, mirroring the
	// source's trace_data_fetch hook (spec.md §6); the core does not
	// interpret its return. Nil is a valid no-op default.
	OnFetch func(sym *symtab.SymbolNode, cell *runtimestack.Cell, typ *typesys.Descriptor)

	// AssignmentHook implements execute_assignment (spec.md §4.3): it must
	// evaluate the right-hand side, store into sym's lvalue, leave the
	// stored value on top of stack, and advance the cursor past the
	// assignment. Called by factor() when an identifier is immediately
	// followed by an assignment operator.
	AssignmentHook func(e *Evaluator, sym *symtab.SymbolNode) *typesys.Descriptor

	// SubroutineCallHook implements execute_subroutine_call (spec.md
	// §4.3): it must leave the function's return value on top of stack and
	// position the cursor immediately after the closing parenthesis.
	SubroutineCallHook func(e *Evaluator, sym *symtab.SymbolNode) *typesys.Descriptor

	// Raise reports a fatal runtime error (spec.md §7). The default panics
	// with the *runtimeerr.RuntimeError so a single recover() at the
	// statement-executor or CLI boundary can report it and exit — the
	// evaluator itself never calls os.Exit.
	Raise func(err *runtimeerr.RuntimeError)
}

// New creates an Evaluator wired to cur and stack, with a fresh top-level
// frame and arena, and the default panic-based Raise.
func New(cur Cursor, stack *runtimestack.Stack) *Evaluator {
	return &Evaluator{
		Cur:   cur,
		Stack: stack,
		Frame: runtimestack.NewFrame(nil),
		Arena: arena.New(nil),
		Raise: func(err *runtimeerr.RuntimeError) { panic(err) },
	}
}

func (e *Evaluator) raise(err *runtimeerr.RuntimeError) {
	if e.Raise != nil {
		e.Raise(err)
		return
	}
	panic(err)
}

func (e *Evaluator) fetch(sym *symtab.SymbolNode, cell *runtimestack.Cell, typ *typesys.Descriptor) {
	if e.OnFetch != nil {
		e.OnFetch(sym, cell, typ)
	}
}
