// Package typesys implements the Cx type registry: canonical, reference-counted
// type descriptors with identity-based equality and form classification.
package typesys

import "sync/atomic"

// Form classifies the coarse shape of a type.
type Form int

const (
	FormScalar Form = iota
	FormEnum
	FormSubrange
	FormArray
	FormComplex // record
	FormStream
)

func (f Form) String() string {
	switch f {
	case FormScalar:
		return "scalar"
	case FormEnum:
		return "enum"
	case FormSubrange:
		return "subrange"
	case FormArray:
		return "array"
	case FormComplex:
		return "complex"
	case FormStream:
		return "stream"
	default:
		return "unknown"
	}
}

// Code identifies the primitive family of a scalar descriptor.
type Code int

const (
	CodeNone Code = iota
	CodeInt
	CodeChar
	CodeWChar
	CodeFloat
	CodeBool
	CodeUint8
	CodeUint16
	CodeUint32
	CodeUint64
	CodeVoid
	CodeComplex
	CodeFile
)

// FieldInfo describes one member of a record (complex) type.
// The scope of a complex type is represented as a flat slice rather than a
// full symbol table, so that this package does not need to import symtab.
type FieldInfo struct {
	Type   *Descriptor
	Name   string
	Offset int
}

// EnumConst is one named constant of an enum type.
type EnumConst struct {
	Name    string
	Ordinal int
}

// Descriptor is an immutable, reference-counted description of a Cx type.
// Descriptors form a DAG (arrays point at their element type); identity
// (pointer) equality is how the evaluator distinguishes sentinel types.
type Descriptor struct {
	// TypeName optionally back-links to the name this descriptor was bound
	// to in source (e.g. a `type Foo record {...}` declaration). It is a
	// plain string, not a symtab pointer, to avoid a typesys<->symtab
	// import cycle.
	TypeName string

	Form Form
	Code Code
	Size int

	// Array payload.
	ElementType *Descriptor
	IndexType   *Descriptor
	MinIndex    int
	MaxIndex    int
	ElementCnt  int

	// Enum payload.
	EnumConsts []EnumConst
	MaxOrdinal int

	// Complex (record) payload.
	Fields []FieldInfo

	// Stream payload.
	StreamName string
	OpenMode   string

	refs int32
}

// Retain increments the descriptor's reference count and returns it, so
// assignment of one descriptor variable from another can be written as
// `d := other.Retain()`.
func (d *Descriptor) Retain() *Descriptor {
	if d != nil {
		atomic.AddInt32(&d.refs, 1)
	}
	return d
}

// Release decrements the descriptor's reference count. Descriptors are
// never actually freed early (Go's GC reclaims them once unreferenced); the
// counter exists so debug builds can assert balanced retain/release per the
// Design Notes in spec.md §9.
func (d *Descriptor) Release() {
	if d != nil {
		atomic.AddInt32(&d.refs, -1)
	}
}

// RefCount reports the current reference count, for tests and debug assertions.
func (d *Descriptor) RefCount() int32 {
	if d == nil {
		return 0
	}
	return atomic.LoadInt32(&d.refs)
}

// BaseType returns the element type for arrays and the descriptor itself
// otherwise. Used to strip one level of array indirection when comparing
// operand types (spec.md §3).
func BaseType(d *Descriptor) *Descriptor {
	if d != nil && d.Form == FormArray && d.ElementType != nil {
		return d.ElementType
	}
	return d
}

// IsOrdinal reports whether d's base type is integer, char, or an enum —
// the three type families eligible for the Expression Evaluator's ordinal
// comparison path (spec.md §4.1.1).
func IsOrdinal(d *Descriptor) bool {
	b := BaseType(d)
	if b == nil {
		return false
	}
	if b.Form == FormEnum {
		return true
	}
	return b.Code == CodeInt || b.Code == CodeChar || b.Code == CodeWChar ||
		b.Code == CodeUint8 || b.Code == CodeUint16 || b.Code == CodeUint32 || b.Code == CodeUint64
}

// IsFloat reports whether d's base type is the float sentinel.
func IsFloat(d *Descriptor) bool {
	b := BaseType(d)
	return b != nil && b.Code == CodeFloat
}

// IsInteger reports whether d's base type is a plain signed integer
// (distinct from char, which is ordinal but not integer for arithmetic
// result-typing purposes in §4.1.2/§4.1.3).
func IsInteger(d *Descriptor) bool {
	b := BaseType(d)
	return b != nil && (b.Code == CodeInt || b.Code == CodeUint8 || b.Code == CodeUint16 ||
		b.Code == CodeUint32 || b.Code == CodeUint64)
}

// IsChar reports whether d's base type is char.
func IsChar(d *Descriptor) bool {
	b := BaseType(d)
	return b != nil && b.Code == CodeChar
}

// IsBool reports whether d's base type is boolean.
func IsBool(d *Descriptor) bool {
	b := BaseType(d)
	return b != nil && b.Code == CodeBool
}

// IsAggregate reports whether a value of this type is pushed to the runtime
// stack as an address rather than a direct scalar (spec.md §3 invariant 2):
// arrays, records, and strings.
func IsAggregate(d *Descriptor) bool {
	if d == nil {
		return false
	}
	return d.Form == FormArray || d.Form == FormComplex
}
