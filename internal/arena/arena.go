// Package arena gives array-literal buffers a well-defined owner, per the
// Design Notes in spec.md §9: "A reimplementation should give the buffer to
// a well-defined owner (e.g., an arena tied to the enclosing statement),
// freeing it once the statement completes; never leak, never double-free."
//
// Grounded on the teacher's sync.Pool-based runtime value pooling
// (internal/interp/runtime/pool.go in CWBudde-go-dws): a pool of reusable
// byte buffers avoids an allocation per array literal in the common case of
// repeatedly executing the same statement (e.g. inside a loop body).
package arena

import (
	"sync"

	"github.com/dustin/go-humanize"
)

// Arena owns the byte buffers backing array literals evaluated within one
// statement. Statement executor opens an Arena before evaluating a
// statement's expressions and calls Release after the statement completes.
type Arena struct {
	pool     *sync.Pool
	buffers  [][]byte
	onGrowth func(totalBytes int)
}

var bufferPool = &sync.Pool{
	New: func() any {
		b := make([]byte, 0, 64)
		return &b
	},
}

// New creates an arena. onGrowth, if non-nil, is invoked every time a
// buffer returned by this arena grows past its allocated capacity — the CLI
// wires this to a --trace log line reporting the new size via
// humanize.Bytes.
func New(onGrowth func(totalBytes int)) *Arena {
	return &Arena{pool: bufferPool, onGrowth: onGrowth}
}

// Alloc returns a growable byte buffer of the requested initial capacity,
// owned by this arena. The array-literal evaluator (§4.1.5) appends each
// element's raw bytes to the returned buffer via AppendTo.
func (a *Arena) Alloc(capacityHint int) []byte {
	bp := a.pool.Get().(*[]byte)
	buf := (*bp)[:0]
	if cap(buf) < capacityHint {
		buf = make([]byte, 0, capacityHint)
	}
	a.buffers = append(a.buffers, buf)
	return buf
}

// AppendTo appends src to buf, reporting growth through onGrowth when the
// buffer's backing array had to be reallocated to fit. Returns the
// (possibly reallocated) buffer; callers must use the returned slice.
func (a *Arena) AppendTo(buf []byte, src []byte) []byte {
	before := cap(buf)
	grown := append(buf, src...)
	if cap(grown) != before && a.onGrowth != nil {
		a.onGrowth(len(grown))
	}
	return grown
}

// GrowthMessage renders a human-readable size for --trace logging, grounded
// on dustin/go-humanize (seen in sentra-language-sentra's dependency graph).
func GrowthMessage(totalBytes int) string {
	return humanize.Bytes(uint64(totalBytes))
}

// Release returns every buffer this arena allocated back to the shared
// pool, and clears the arena's own bookkeeping. It is the statement
// executor's responsibility to call Release once the enclosing statement
// has finished consuming all array-literal results — this is the "freed
// once the statement completes" half of the ownership contract; the
// evaluator itself never frees a buffer it just constructed.
func (a *Arena) Release() {
	for _, buf := range a.buffers {
		reset := buf[:0]
		a.pool.Put(&reset)
	}
	a.buffers = nil
}
