package evaluator

import (
	"github.com/cwbudde/go-cx/internal/lexer"
	"github.com/cwbudde/go-cx/internal/runtimestack"
	"github.com/cwbudde/go-cx/internal/typesys"
)

// Expression evaluates the relational layer (spec.md §4.1.1): a
// simple-expression, optionally followed by a single relational operator
// and a second simple-expression. Only one relational operator is
// permitted per expression — the grammar is non-associative at this level.
func (e *Evaluator) Expression() *typesys.Descriptor {
	leftType := e.SimpleExpression()

	if !tokenIn(e.Cur.Token(), relationOps) {
		return leftType
	}

	op := e.Cur.Token()
	e.Cur.Advance()

	rightType := e.SimpleExpression()

	right := e.Stack.Pop()
	left := e.Stack.Pop()

	result := e.compareOperands(left, leftType, right, rightType, op)
	e.Stack.PushBool(result)
	return typesys.Bool
}

// compareOperands implements the three comparison paths of spec.md §4.1.1:
// an aggregate operand (a string or other array/record) selects the string
// path; otherwise the base types of the two operands select the ordinal or
// float path.
func (e *Evaluator) compareOperands(left *runtimestack.Cell, leftType *typesys.Descriptor, right *runtimestack.Cell, rightType *typesys.Descriptor, op lexer.TokenType) bool {
	leftBase := typesys.BaseType(leftType)
	rightBase := typesys.BaseType(rightType)
	aggregate := typesys.IsAggregate(leftType) || typesys.IsAggregate(rightType)

	switch {
	case !aggregate && typesys.IsOrdinal(leftBase) && typesys.IsOrdinal(rightBase):
		return compareOrdinal(cellAsInt(left), cellAsInt(right), op)
	case !aggregate && (typesys.IsFloat(leftBase) || typesys.IsFloat(rightBase)):
		return compareFloat(cellAsFloat(left), cellAsFloat(right), op)
	default:
		// String path: lexicographic compare up to the FIRST operand's
		// declared size. This is one of spec.md §9's documented probable
		// bugs (it should arguably use the minimum of both sizes) —
		// preserved deliberately, not silently fixed. A variable operand
		// arrives as an address cell, so its bytes are read through Addr.
		lb, rb := left.Bytes, right.Bytes
		if left.Addr != nil {
			lb = left.Addr.Bytes
		}
		if right.Addr != nil {
			rb = right.Addr.Bytes
		}
		return compareBytes(lb, rb, leftType.Size, op)
	}
}

func compareOrdinal(a, b int64, op lexer.TokenType) bool {
	switch op {
	case lexer.EQ_EQ:
		return a == b
	case lexer.EXCL_EQ:
		return a != b
	case lexer.LESS:
		return a < b
	case lexer.GREATER:
		return a > b
	case lexer.LESS_EQ:
		return a <= b
	case lexer.GREATER_EQ:
		return a >= b
	default:
		return false
	}
}

func compareFloat(a, b float64, op lexer.TokenType) bool {
	switch op {
	case lexer.EQ_EQ:
		return a == b
	case lexer.EXCL_EQ:
		return a != b
	case lexer.LESS:
		return a < b
	case lexer.GREATER:
		return a > b
	case lexer.LESS_EQ:
		return a <= b
	case lexer.GREATER_EQ:
		return a >= b
	default:
		return false
	}
}

// compareBytes compares up to length bytes of a and b lexicographically.
// length is the FIRST operand's declared size per spec.md's documented
// behavior, which may read past the shorter operand's actual content when
// sizes differ.
func compareBytes(a, b []byte, length int, op lexer.TokenType) bool {
	n := length
	cmp := 0
	for i := 0; i < n; i++ {
		var av, bv byte
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if av != bv {
			if av < bv {
				cmp = -1
			} else {
				cmp = 1
			}
			break
		}
	}

	switch op {
	case lexer.EQ_EQ:
		return cmp == 0
	case lexer.EXCL_EQ:
		return cmp != 0
	case lexer.LESS:
		return cmp < 0
	case lexer.GREATER:
		return cmp > 0
	case lexer.LESS_EQ:
		return cmp <= 0
	case lexer.GREATER_EQ:
		return cmp >= 0
	default:
		return false
	}
}

// popAsInt pops the top cell and coerces it to an integer regardless of its
// exact stack representation (int, char, or bool), since the additive and
// multiplicative layers (§4.1.2, §4.1.3) operate on operands whose static
// type licenses integer arithmetic without requiring a uniform cell kind.
func (e *Evaluator) popAsInt() int64 {
	return cellAsInt(e.Stack.Pop())
}

// popAsFloat pops the top cell and coerces it to a float, promoting an
// integer or char cell by simple cast (spec.md §4.1.1 float path, §4.1.2,
// §4.1.3).
func (e *Evaluator) popAsFloat() float64 {
	return cellAsFloat(e.Stack.Pop())
}

func cellAsInt(c *runtimestack.Cell) int64 {
	switch c.Kind {
	case runtimestack.KindInt:
		return c.Int
	case runtimestack.KindChar:
		return int64(c.Char)
	case runtimestack.KindBool:
		if c.Bool {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func cellAsFloat(c *runtimestack.Cell) float64 {
	switch c.Kind {
	case runtimestack.KindFloat:
		return c.Float
	case runtimestack.KindInt:
		return float64(c.Int)
	case runtimestack.KindChar:
		return float64(c.Char)
	default:
		return 0
	}
}
