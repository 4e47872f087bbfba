package evaluator

import (
	"github.com/cwbudde/go-cx/internal/lexer"
	"github.com/cwbudde/go-cx/internal/runtimeerr"
	"github.com/cwbudde/go-cx/internal/runtimestack"
	"github.com/cwbudde/go-cx/internal/typesys"
)

// ExecuteArrayLiteral evaluates a `[ e1, e2, ... ]` array literal (spec.md
// §4.1.5): each element expression is evaluated in turn, its raw bytes
// copied into a growable buffer owned by the current statement's arena, and
// the resulting descriptor is a 0-based array of however many elements were
// written.
//
// Preserved probable bug (spec.md §9): the returned descriptor's element
// type is whichever element was evaluated LAST, not a type computed across
// every element. This falls out naturally here because elemType is
// reassigned, not widened, on each loop iteration — deliberately left that
// way rather than unified to the widest/common element type.
func (e *Evaluator) ExecuteArrayLiteral() *typesys.Descriptor {
	pos := e.Cur.Pos()
	e.Cur.Advance() // consume '['

	buf := e.Arena.Alloc(64)
	var elemType *typesys.Descriptor
	count := 0

	if e.Cur.Token() != lexer.RBRACK {
		for {
			elemType = e.Expression()
			buf = e.appendElementBytes(buf, elemType)
			count++

			if e.Cur.Token() == lexer.COMMA {
				e.Cur.Advance()
				continue
			}
			break
		}
	}

	if e.Cur.Token() == lexer.RBRACK {
		e.Cur.Advance() // consume ']'
	} else {
		e.raise(runtimeerr.Internal(pos.String() + ": unterminated array literal, expected ']'"))
	}

	if elemType == nil {
		elemType = typesys.Int
	}

	arrType := typesys.NewArray(elemType, 0, count-1)
	e.Stack.Push(runtimestack.BytesCell(buf))
	return arrType
}

// appendElementBytes copies one just-evaluated element's raw representation
// onto buf: aggregate elements (nested array/record literals) contribute
// their whole backing buffer, scalar elements their encoded bytes.
func (e *Evaluator) appendElementBytes(buf []byte, elemType *typesys.Descriptor) []byte {
	if typesys.IsAggregate(elemType) {
		addr := e.Stack.PopAddr()
		var src []byte
		switch {
		case addr.Bytes != nil:
			src = addr.Bytes
		case addr.Addr != nil:
			src = addr.Addr.Bytes
		}
		return e.Arena.AppendTo(buf, src)
	}

	cell := e.Stack.Pop()
	return e.Arena.AppendTo(buf, encodeScalar(elemType, cell))
}
