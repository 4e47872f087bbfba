// Package streamio backs the `stream` factor case of the expression
// evaluator (spec.md §4.1.4): one buffered character read per stream-typed
// identifier reference. The implicit console stream and file-backed streams
// both read through a *bufio.Reader; the REPL's own line editing (a
// separate concern) is handled by chzyer/readline in cmd/cx, grounded on
// akashmaji946-go-mix's repl.go.
package streamio

import (
	"bufio"
	"io"
	"os"

	"github.com/cwbudde/go-cx/internal/symtab"
	"github.com/pkg/errors"
)

// Reader implements evaluator.StreamReader: it looks up sym's underlying
// source by name and returns the next character from it.
type Reader struct {
	stdin   *bufio.Reader
	streams map[string]*bufio.Reader
	files   map[string]*os.File
}

// New creates a Reader with no open file streams yet. Standard input is
// opened lazily on first use so that programs which never read from the
// implicit console stream never touch the terminal.
func New() *Reader {
	return &Reader{streams: make(map[string]*bufio.Reader), files: make(map[string]*os.File)}
}

// Open registers name as a file-backed stream, per the stream form's open
// mode payload (spec.md §3, SPEC_FULL.md §9). Only "r" (read) opens a file
// for ReadChar; for any other mode ("w"/"a") Open registers nothing and
// returns nil.
func (r *Reader) Open(name, path, mode string) error {
	if mode != "r" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "streamio: opening %q for stream %q", path, name)
	}
	r.files[name] = f
	r.streams[name] = bufio.NewReader(f)
	return nil
}

// Close releases every file handle this reader opened.
func (r *Reader) Close() error {
	var first error
	for name, f := range r.files {
		if err := f.Close(); err != nil && first == nil {
			first = errors.Wrapf(err, "streamio: closing stream %q", name)
		}
	}
	r.files = make(map[string]*os.File)
	return first
}

// ReadChar reads one character from sym's underlying stream (spec.md
// §4.1.4). A symbol with an empty StreamMode denotes the implicit
// standard-input console stream; otherwise sym.Name must have been
// registered via Open.
func (r *Reader) ReadChar(sym *symtab.SymbolNode) (rune, error) {
	if sym.StreamMode == "" {
		return r.readStdin()
	}

	br, ok := r.streams[sym.Name]
	if !ok {
		return 0, errors.Errorf("streamio: stream %q is not open", sym.Name)
	}
	ch, _, err := br.ReadRune()
	if err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, errors.Wrapf(err, "streamio: reading stream %q", sym.Name)
	}
	return ch, nil
}

func (r *Reader) readStdin() (rune, error) {
	if r.stdin == nil {
		r.stdin = bufio.NewReader(os.Stdin)
	}

	ch, _, err := r.stdin.ReadRune()
	if err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, errors.Wrap(err, "streamio: reading console stream")
	}
	return ch, nil
}
