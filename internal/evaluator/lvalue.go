package evaluator

import (
	"github.com/cwbudde/go-cx/internal/lexer"
	"github.com/cwbudde/go-cx/internal/runtimeerr"
	"github.com/cwbudde/go-cx/internal/runtimestack"
	"github.com/cwbudde/go-cx/internal/symtab"
	"github.com/cwbudde/go-cx/internal/typesys"
)

// ExecuteVariable implements the l-value navigator (spec.md §4.2): it
// pushes either sym's address or its value, after applying any subscripts
// and field designators found at the cursor.
//
// Go has no raw-pointer distinction between "the cell's address" and "the
// cell pointer itself" the way the original C does; both of spec.md step
// 2's cases are modeled uniformly here as wrapping the frame's cell in an
// address cell. Reference-parameter symbols satisfy invariant 4 (push the
// referent's address) because the statement executor binds a reference
// parameter directly to the caller's cell when the argument arrives as an
// address cell, and to a copy of the argument otherwise, when it sets up
// the callee's frame — not by any special case here.
func (e *Evaluator) ExecuteVariable(sym *symtab.SymbolNode, addressFlag bool) *typesys.Descriptor {
	if sym.Kind == symtab.KindStream {
		return sym.Type
	}

	cell := e.Frame.GetValueAddress(sym)
	e.Stack.PushAddr(cell)
	typ := sym.Type

	for {
		switch e.Cur.Token() {
		case lexer.LBRACK:
			typ = e.ExecuteSubscripts(typ)
		case lexer.DOT:
			typ = e.ExecuteField(typ)
		default:
			goto done
		}
	}
done:

	if !addressFlag && !typesys.IsAggregate(typ) {
		addr := e.Stack.PopAddr()
		val := scalarValueFromAddr(typ, addr)
		e.Stack.Push(val)
		e.fetch(sym, val, typ)
	}

	return typ
}

// scalarValueFromAddr dereferences an address cell down to its scalar
// value, handling both representations an address can take: a pointer to
// the variable's own typed Cell (plain scalar locals), or a byte-range
// within an array/record buffer (array elements).
func scalarValueFromAddr(typ *typesys.Descriptor, addr *runtimestack.Cell) *runtimestack.Cell {
	if addr.Addr != nil {
		if addr.Addr.Bytes != nil {
			return decodeScalar(typ, addr.Addr.Bytes)
		}
		return addr.Addr.Clone()
	}
	return decodeScalar(typ, addr.Bytes)
}

// ExecuteSubscripts consumes one or more comma-separated index expressions
// within a single `[ ... ]` group, transforming the address on top of stack
// in place at each step (spec.md §4.2 step 3, "Subscripts"). The working
// type descends to the element type between commas and between successive
// bracket groups, which is what makes row-major multi-dimensional indexing
// fall out of repeated single-index steps.
func (e *Evaluator) ExecuteSubscripts(typ *typesys.Descriptor) *typesys.Descriptor {
	pos := e.Cur.Pos()
	e.Cur.Advance() // consume '['

	for {
		e.Expression() // evaluate index expression, leaves index on stack
		idx := e.popAsInt()

		if typ.Form != typesys.FormArray {
			e.raise(runtimeerr.Internal("subscript applied to non-array type"))
			return typ
		}
		if int(idx) < typ.MinIndex || int(idx) > typ.MaxIndex {
			e.raise(runtimeerr.ValueOutOfRange(pos.Line, pos.Column, int(idx), typ.MinIndex, typ.MaxIndex))
		}

		base := e.Stack.PopAddr()
		elemSize := typ.ElementType.Size
		offset := elemSize * (int(idx) - typ.MinIndex)
		e.Stack.Push(addressAtOffset(base, offset, elemSize))

		typ = typ.ElementType

		if e.Cur.Token() == lexer.COMMA {
			e.Cur.Advance()
			continue
		}
		break
	}

	if e.Cur.Token() == lexer.RBRACK {
		e.Cur.Advance() // consume ']'
	}

	return typ
}

// addressAtOffset computes the address of a sub-element offset bytes into
// base's backing buffer, whether base points at a whole frame cell (a
// top-level array/record variable) or is itself already a byte-range
// address from a previous subscript/field step.
func addressAtOffset(base *runtimestack.Cell, offset, size int) *runtimestack.Cell {
	var backing []byte
	if base.Addr != nil {
		backing = base.Addr.Bytes
	} else {
		backing = base.Bytes
	}

	end := offset + size
	if end > len(backing) {
		end = len(backing)
	}
	if offset > end {
		offset = end
	}
	return runtimestack.BytesCell(backing[offset:end])
}

// ExecuteField consumes a `.name` field designator and reports the field's
// declared type.
//
// Preserved probable bug (spec.md §9): the original execute_field reads the
// field's type but never adjusts the working address (the offset addition
// is commented out in the source) — field access therefore returns the
// right type but the wrong value whenever the field's offset is nonzero.
// This is flagged as an open question, not silently fixed: the address on
// top of stack is left untouched here exactly as in the source.
func (e *Evaluator) ExecuteField(typ *typesys.Descriptor) *typesys.Descriptor {
	e.Cur.Advance() // consume '.'

	fieldName := e.Cur.Literal()
	e.Cur.Advance() // consume field name token

	field, ok := typesys.FieldByName(typ, fieldName)
	if !ok {
		return typ
	}
	// NOTE: field.Offset is intentionally not applied to the top-of-stack
	// address — see the doc comment above.
	return field.Type
}
