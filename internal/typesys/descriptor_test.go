package typesys

import "testing"

func TestBaseType(t *testing.T) {
	arr := NewArray(Int, 0, 9)

	tests := []struct {
		name string
		in   *Descriptor
		want *Descriptor
	}{
		{"scalar returns itself", Int, Int},
		{"array returns element type", arr, Int},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BaseType(tt.in); got != tt.want {
				t.Errorf("BaseType(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsOrdinal(t *testing.T) {
	enum := NewEnum("Color", []string{"Red", "Green", "Blue"})

	tests := []struct {
		name string
		in   *Descriptor
		want bool
	}{
		{"int is ordinal", Int, true},
		{"char is ordinal", Char, true},
		{"enum is ordinal", enum, true},
		{"float is not ordinal", Float, false},
		{"bool is not ordinal", Bool, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOrdinal(tt.in); got != tt.want {
				t.Errorf("IsOrdinal(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewArraySize(t *testing.T) {
	a := NewArray(Int, 0, 2)
	if a.ElementCnt != 3 {
		t.Errorf("ElementCnt = %d, want 3", a.ElementCnt)
	}
	if a.Size != 3*Int.Size {
		t.Errorf("Size = %d, want %d", a.Size, 3*Int.Size)
	}
	if BaseType(a) != Int {
		t.Errorf("BaseType = %v, want Int sentinel", BaseType(a))
	}
}

func TestNewStringIsCharArray(t *testing.T) {
	s := NewString(3)
	if s.Form != FormArray {
		t.Fatalf("string descriptor form = %v, want array", s.Form)
	}
	if s.ElementType != Char {
		t.Errorf("string element type = %v, want Char sentinel", s.ElementType)
	}
	if s.Size != 3 {
		t.Errorf("string size = %d, want 3", s.Size)
	}
}

func TestRecordFieldOffsets(t *testing.T) {
	rec := NewRecord("Point", []FieldInfo{
		{Name: "x", Type: Int},
		{Name: "y", Type: Int},
	})

	fx, ok := FieldByName(rec, "x")
	if !ok || fx.Offset != 0 {
		t.Fatalf("field x: ok=%v offset=%d, want ok=true offset=0", ok, fx.Offset)
	}
	fy, ok := FieldByName(rec, "y")
	if !ok || fy.Offset != Int.Size {
		t.Fatalf("field y: ok=%v offset=%d, want ok=true offset=%d", ok, fy.Offset, Int.Size)
	}
	if rec.Size != 2*Int.Size {
		t.Errorf("record size = %d, want %d", rec.Size, 2*Int.Size)
	}
}

func TestRetainReleaseBalance(t *testing.T) {
	d := NewArray(Int, 0, 0)
	d.Retain()
	d.Retain()
	d.Release()
	if got := d.RefCount(); got != 1 {
		t.Errorf("RefCount = %d, want 1", got)
	}
	d.Release()
	if got := d.RefCount(); got != 0 {
		t.Errorf("RefCount = %d, want 0", got)
	}
}
