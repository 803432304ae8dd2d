package value

import (
	"fmt"
	"strings"
)

// Type is a wire type tag.
type Type uint8

const (
	U8   Type = 0x0
	U16  Type = 0x1
	Void Type = 0x2
	U32  Type = 0x3
	Bool Type = 0x5
	Ptr  Type = 0x6
	U64  Type = 0x7
	I8   Type = 0x8
	I16  Type = 0x9
	I32  Type = 0xB
	F32  Type = 0xC
	F64  Type = 0xE
	I64  Type = 0xF
)

// MaxType is the largest value a 4-bit tag can hold.
const MaxType Type = 0xF

// signedBit marks signed integer tags.
const signedBit Type = 1 << 3

// String returns the short type name.
func (t Type) String() string {
	switch t {
	case U8:
		return "u8"
	case U16:
		return "u16"
	case Void:
		return "void"
	case U32:
		return "u32"
	case Bool:
		return "bool"
	case Ptr:
		return "ptr"
	case U64:
		return "u64"
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case I64:
		return "i64"
	default:
		return fmt.Sprintf("invalid(0x%x)", uint8(t))
	}
}

// IsValid returns true if t is one of the defined tags.
func (t Type) IsValid() bool {
	switch t {
	case U8, U16, Void, U32, Bool, Ptr, U64, I8, I16, I32, F32, F64, I64:
		return true
	}
	return false
}

// Signed returns true for the signed integer tags.
func (t Type) Signed() bool {
	switch t {
	case I8, I16, I32, I64:
		return true
	}
	return false
}

// Float returns true for the floating-point tags.
func (t Type) Float() bool {
	return t == F32 || t == F64
}

// Size returns the encoded size of the type in bytes. Ptr reports the
// native pointer width of the host, which the boundary may narrow.
func (t Type) Size() int {
	switch t {
	case Void:
		return 0
	case U8, I8, Bool:
		return 1
	case U16, I16:
		return 2
	case U32, I32, F32:
		return 4
	case U64, I64, F64:
		return 8
	case Ptr:
		return ptrSize
	default:
		return 0
	}
}

// Bits returns the encoded size of the type in bits.
func (t Type) Bits() uint {
	return uint(t.Size()) * 8
}

// ptrSize is the host pointer size in bytes.
const ptrSize = 4 << (^uintptr(0) >> 63)

// typeNames maps accepted spellings to tags. Catalog files and the shell
// use these.
var typeNames = map[string]Type{
	"u8":      U8,
	"uint8":   U8,
	"byte":    U8,
	"u16":     U16,
	"uint16":  U16,
	"void":    Void,
	"":        Void,
	"u32":     U32,
	"uint32":  U32,
	"bool":    Bool,
	"boolean": Bool,
	"ptr":     Ptr,
	"pointer": Ptr,
	"u64":     U64,
	"uint64":  U64,
	"i8":      I8,
	"int8":    I8,
	"i16":     I16,
	"int16":   I16,
	"i32":     I32,
	"int32":   I32,
	"int":     I32,
	"f32":     F32,
	"float32": F32,
	"float":   F32,
	"f64":     F64,
	"float64": F64,
	"double":  F64,
	"i64":     I64,
	"int64":   I64,
}

// ParseType parses a type name such as "u8", "int16" or "void".
func ParseType(s string) (Type, error) {
	t, ok := typeNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown type %q", s)
	}
	return t, nil
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid type tag 0x%x", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
