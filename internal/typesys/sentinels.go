package typesys

// Sentinel singleton descriptors, compared by identity throughout the
// evaluator (spec.md §6 "Type sentinels ... consulted by identity").
var (
	Int    = &Descriptor{Form: FormScalar, Code: CodeInt, Size: 8, TypeName: "int"}
	Char   = &Descriptor{Form: FormScalar, Code: CodeChar, Size: 1, TypeName: "char"}
	WChar  = &Descriptor{Form: FormScalar, Code: CodeWChar, Size: 2, TypeName: "wchar"}
	Float  = &Descriptor{Form: FormScalar, Code: CodeFloat, Size: 8, TypeName: "float"}
	Bool   = &Descriptor{Form: FormScalar, Code: CodeBool, Size: 1, TypeName: "bool"}
	Uint8  = &Descriptor{Form: FormScalar, Code: CodeUint8, Size: 1, TypeName: "uint8"}
	Uint16 = &Descriptor{Form: FormScalar, Code: CodeUint16, Size: 2, TypeName: "uint16"}
	Uint32 = &Descriptor{Form: FormScalar, Code: CodeUint32, Size: 4, TypeName: "uint32"}
	Uint64 = &Descriptor{Form: FormScalar, Code: CodeUint64, Size: 8, TypeName: "uint64"}
	Void   = &Descriptor{Form: FormScalar, Code: CodeVoid, Size: 0, TypeName: "void"}
	Complex = &Descriptor{Form: FormScalar, Code: CodeComplex, Size: 0, TypeName: "complex"}
	File   = &Descriptor{Form: FormScalar, Code: CodeFile, Size: 0, TypeName: "file"}

	// Dummy is returned by evaluator paths that must return a non-nil
	// descriptor but have no meaningful type to report (spec.md §4.1.4's
	// semicolon no-op case).
	Dummy = &Descriptor{Form: FormScalar, Code: CodeVoid, Size: 0, TypeName: "dummy"}
)

// NewArray constructs an array descriptor over elemType with the given
// index bounds. count = maxIndex-minIndex+1 is stored as ElementCnt; Size is
// the total byte size (elemType.Size * count).
func NewArray(elemType *Descriptor, minIndex, maxIndex int) *Descriptor {
	count := maxIndex - minIndex + 1
	if count < 0 {
		count = 0
	}
	return &Descriptor{
		Form:        FormArray,
		Code:        CodeNone,
		ElementType: elemType,
		IndexType:   Int,
		MinIndex:    minIndex,
		MaxIndex:    maxIndex,
		ElementCnt:  count,
		Size:        elemType.Size * count,
	}
}

// NewString constructs the array-of-char descriptor used for string
// literals and string-typed variables: a 0-based char array of the given
// length (spec.md §4.1.4's "the literal's array type").
func NewString(length int) *Descriptor {
	d := NewArray(Char, 0, length-1)
	d.TypeName = "string"
	return d
}

// NewRecord constructs a complex (record) descriptor with the given fields,
// computing Size as the sum of field sizes and assigning sequential byte
// offsets (any Offset already set on an incoming FieldInfo is overwritten).
func NewRecord(name string, fields []FieldInfo) *Descriptor {
	offset := 0
	sized := make([]FieldInfo, len(fields))
	for i, f := range fields {
		f.Offset = offset
		sized[i] = f
		offset += f.Type.Size
	}
	return &Descriptor{
		Form:     FormComplex,
		Code:     CodeComplex,
		TypeName: name,
		Fields:   sized,
		Size:     offset,
	}
}

// NewEnum constructs an enum descriptor from an ordered list of constant names.
func NewEnum(name string, names []string) *Descriptor {
	consts := make([]EnumConst, len(names))
	maxOrdinal := 0
	for i, n := range names {
		consts[i] = EnumConst{Name: n, Ordinal: i}
		if i > maxOrdinal {
			maxOrdinal = i
		}
	}
	return &Descriptor{
		Form:       FormEnum,
		Code:       CodeInt,
		TypeName:   name,
		Size:       Int.Size,
		EnumConsts: consts,
		MaxOrdinal: maxOrdinal,
	}
}

// NewStream constructs a stream (file) descriptor.
func NewStream(name, openMode string) *Descriptor {
	return &Descriptor{
		Form:       FormStream,
		Code:       CodeFile,
		TypeName:   name,
		StreamName: name,
		OpenMode:   openMode,
	}
}

// FieldByName looks up a field in a complex descriptor's payload.
func FieldByName(d *Descriptor, name string) (FieldInfo, bool) {
	if d == nil || d.Form != FormComplex {
		return FieldInfo{}, false
	}
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldInfo{}, false
}
