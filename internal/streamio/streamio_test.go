package streamio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/go-cx/internal/symtab"
)

func TestOpenAndReadChar(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(path, []byte("hi"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r := New()
	if err := r.Open("f", path, "r"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	sym := &symtab.SymbolNode{Name: "f", StreamMode: "r"}

	ch, err := r.ReadChar(sym)
	if err != nil {
		t.Fatalf("ReadChar: %v", err)
	}
	if ch != 'h' {
		t.Errorf("got %q, want 'h'", ch)
	}

	ch, err = r.ReadChar(sym)
	if err != nil {
		t.Fatalf("ReadChar: %v", err)
	}
	if ch != 'i' {
		t.Errorf("got %q, want 'i'", ch)
	}
}

func TestReadChar_EOFReturnsZeroRuneNoError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r := New()
	if err := r.Open("f", path, "r"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	sym := &symtab.SymbolNode{Name: "f", StreamMode: "r"}
	ch, err := r.ReadChar(sym)
	if err != nil {
		t.Fatalf("ReadChar at EOF returned error: %v", err)
	}
	if ch != 0 {
		t.Errorf("got %q, want rune 0 at EOF", ch)
	}
}

func TestReadChar_UnopenedStreamErrors(t *testing.T) {
	r := New()
	sym := &symtab.SymbolNode{Name: "missing", StreamMode: "r"}
	if _, err := r.ReadChar(sym); err == nil {
		t.Fatal("expected an error reading from an unopened stream")
	}
}

func TestOpen_WriteModeIsNoop(t *testing.T) {
	r := New()
	if err := r.Open("out", filepath.Join(t.TempDir(), "does-not-exist.txt"), "w"); err != nil {
		t.Fatalf("Open in write mode should not touch the filesystem: %v", err)
	}
}

func TestOpen_MissingFileErrors(t *testing.T) {
	r := New()
	if err := r.Open("f", filepath.Join(t.TempDir(), "missing.txt"), "r"); err == nil {
		t.Fatal("expected an error opening a nonexistent file")
	}
}

func TestClose_ReleasesAllFileHandles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r := New()
	if err := r.Open("f", path, "r"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(r.files) != 0 {
		t.Errorf("files map not cleared after Close")
	}
}
