package evaluator

import (
	"math"

	"github.com/cwbudde/go-cx/internal/runtimestack"
	"github.com/cwbudde/go-cx/internal/typesys"
)

// encodeScalar renders a scalar cell's value as typ.Size raw bytes, little
// endian. This is the array-literal construction algorithm's "copy the
// scalar's raw bytes from the stack into the buffer" step (spec.md
// §4.1.5), and the l-value navigator's representation of an array or
// record's backing memory as a contiguous byte buffer (spec.md §3, §9).
func encodeScalar(typ *typesys.Descriptor, cell *runtimestack.Cell) []byte {
	buf := make([]byte, typ.Size)
	switch {
	case typesys.IsFloat(typ):
		bits := math.Float64bits(cellAsFloat(cell))
		putUint(buf, bits)
	case typesys.IsChar(typ):
		if len(buf) > 0 {
			buf[0] = byte(cellAsInt(cell))
		}
	case typesys.IsBool(typ):
		if len(buf) > 0 {
			if cell.Bool {
				buf[0] = 1
			}
		}
	default: // integer family
		putUint(buf, uint64(cellAsInt(cell)))
	}
	return buf
}

// decodeScalar reads typ.Size bytes from raw and reconstructs a stack cell
// of the appropriate kind. Used when dereferencing an array element or
// record field address down to an rvalue (spec.md §4.2 step 4).
func decodeScalar(typ *typesys.Descriptor, raw []byte) *runtimestack.Cell {
	switch {
	case typesys.IsFloat(typ):
		return runtimestack.FloatCell(math.Float64frombits(getUint(raw, typ.Size)))
	case typesys.IsChar(typ):
		if len(raw) == 0 {
			return runtimestack.CharCell(0)
		}
		return runtimestack.CharCell(rune(raw[0]))
	case typesys.IsBool(typ):
		return runtimestack.BoolCell(len(raw) > 0 && raw[0] != 0)
	default:
		return runtimestack.IntCell(int64(getUint(raw, typ.Size)))
	}
}

func putUint(buf []byte, v uint64) {
	for i := 0; i < len(buf); i++ {
		buf[i] = byte(v >> (8 * uint(i)))
	}
}

func getUint(raw []byte, size int) uint64 {
	var v uint64
	n := size
	if n > len(raw) {
		n = len(raw)
	}
	for i := 0; i < n; i++ {
		v |= uint64(raw[i]) << (8 * uint(i))
	}
	return v
}
