package arena

import "testing"

func TestAllocAndAppend(t *testing.T) {
	a := New(nil)
	buf := a.Alloc(4)
	buf = a.AppendTo(buf, []byte{1, 2, 3})

	if len(buf) != 3 {
		t.Fatalf("len(buf) = %d, want 3", len(buf))
	}
	a.Release()
}

func TestGrowthCallback(t *testing.T) {
	var reported bool
	a := New(func(total int) { reported = true })

	buf := a.Alloc(1)
	buf = a.AppendTo(buf, make([]byte, 256))
	_ = buf

	if !reported {
		t.Error("expected onGrowth callback to fire on buffer reallocation")
	}
}

func TestReleaseClearsBookkeeping(t *testing.T) {
	a := New(nil)
	a.Alloc(8)
	if len(a.buffers) != 1 {
		t.Fatalf("expected 1 tracked buffer before release, got %d", len(a.buffers))
	}
	a.Release()
	if len(a.buffers) != 0 {
		t.Errorf("expected 0 tracked buffers after release, got %d", len(a.buffers))
	}
}
