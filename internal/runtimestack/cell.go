// Package runtimestack implements the Cx evaluator's typed value stack: a
// tagged union of scalars or opaque addresses, with per-frame value-address
// lookup (spec.md §3 "Runtime stack frame").
package runtimestack

import "github.com/cwbudde/go-cx/internal/symtab"

// Cell is a single slot in the runtime stack. The source's C union keyed
// only by context (spec.md §9) is made explicit here as a sum type so tag
// checks can be asserted: exactly one of the typed fields is meaningful at a
// time, selected by the Kind that the evaluator that pushed it tracks via
// its own return value — the Cell itself stores its own Kind purely so
// the Stack's typed pops (PopInt, PopFloat, ...) can catch evaluator bugs
// early.
type Kind int

const (
	KindInt Kind = iota
	KindChar
	KindFloat
	KindBool
	KindAddr
)

// Cell holds one value on the runtime stack.
type Cell struct {
	Kind  Kind
	Int   int64
	Char  rune
	Float float64
	Bool  bool
	// Addr points at another Cell (for lvalues) or at a byte buffer
	// (for arrays/records/strings materialized by the evaluator or arena).
	Addr *Cell
	Bytes []byte
}

// IntCell constructs an integer-valued cell.
func IntCell(v int64) *Cell { return &Cell{Kind: KindInt, Int: v} }

// CharCell constructs a char-valued cell.
func CharCell(v rune) *Cell { return &Cell{Kind: KindChar, Char: v} }

// FloatCell constructs a float-valued cell.
func FloatCell(v float64) *Cell { return &Cell{Kind: KindFloat, Float: v} }

// BoolCell constructs a boolean-valued cell.
func BoolCell(v bool) *Cell { return &Cell{Kind: KindBool, Bool: v} }

// AddrCell constructs a cell holding the address of another cell (an lvalue).
func AddrCell(target *Cell) *Cell { return &Cell{Kind: KindAddr, Addr: target} }

// BytesCell constructs a cell holding the address of a raw byte buffer
// (an array/record/string materialized value).
func BytesCell(b []byte) *Cell { return &Cell{Kind: KindAddr, Bytes: b} }

// Clone returns a shallow copy of the cell, used when dereferencing an
// lvalue to produce an independent rvalue.
func (c *Cell) Clone() *Cell {
	cp := *c
	return &cp
}

// Frame is one activation record: the symbol-to-cell bindings active while
// executing a function body or the top-level program.
type Frame struct {
	values map[*symtab.SymbolNode]*Cell
	outer  *Frame
}

// NewFrame creates a fresh activation record, optionally nested inside outer
// (lookups that miss in this frame fall through to outer, which is how a
// function body reaches the global frame's cells).
func NewFrame(outer *Frame) *Frame {
	return &Frame{values: make(map[*symtab.SymbolNode]*Cell), outer: outer}
}

// Bind associates sym with cell in this frame.
func (f *Frame) Bind(sym *symtab.SymbolNode, cell *Cell) {
	f.values[sym] = cell
}

// GetValueAddress returns the cell holding sym's current value (spec.md §3,
// §6), searching this frame and then each outer frame in turn; it returns
// nil when no frame in the chain binds sym. Reference parameters are bound
// in the callee's frame by the statement executor at call time.
func (f *Frame) GetValueAddress(sym *symtab.SymbolNode) *Cell {
	if cell, ok := f.values[sym]; ok {
		return cell
	}
	if f.outer != nil {
		return f.outer.GetValueAddress(sym)
	}
	return nil
}
