package value

import (
	"fmt"
	"math"
)

// Value is a typed result decoded from a raw call result.
type Value struct {
	typ Type
	raw uint64
}

// Decode builds a Value from a raw result word and the tag the caller
// requested. Decoding never fails; an invalid tag decodes as Void.
func Decode(raw uint64, t Type) Value {
	if !t.IsValid() {
		return Value{typ: Void}
	}
	return decoders[t](raw)
}

// decoders holds one decode function per tag.
var decoders = [MaxType + 1]func(uint64) Value{
	U8:   func(raw uint64) Value { return Value{typ: U8, raw: raw & 0xFF} },
	U16:  func(raw uint64) Value { return Value{typ: U16, raw: raw & 0xFFFF} },
	Void: func(uint64) Value { return Value{typ: Void} },
	U32:  func(raw uint64) Value { return Value{typ: U32, raw: raw & 0xFFFFFFFF} },
	Bool: func(raw uint64) Value {
		if raw&0xFF != 0 {
			return Value{typ: Bool, raw: 1}
		}
		return Value{typ: Bool}
	},
	Ptr: func(raw uint64) Value { return Value{typ: Ptr, raw: truncate(raw, ptrSize*8)} },
	U64: func(raw uint64) Value { return Value{typ: U64, raw: raw} },
	I8:  func(raw uint64) Value { return Value{typ: I8, raw: uint64(int64(int8(raw)))} },
	I16: func(raw uint64) Value { return Value{typ: I16, raw: uint64(int64(int16(raw)))} },
	I32: func(raw uint64) Value { return Value{typ: I32, raw: uint64(int64(int32(raw)))} },
	F32: func(raw uint64) Value { return Value{typ: F32, raw: raw & 0xFFFFFFFF} },
	F64: func(raw uint64) Value { return Value{typ: F64, raw: raw} },
	I64: func(raw uint64) Value { return Value{typ: I64, raw: raw} },
}

func truncate(raw uint64, bits uint) uint64 {
	if bits >= 64 {
		return raw
	}
	return raw & (1<<bits - 1)
}

// Type returns the tag the value was decoded with.
func (v Value) Type() Type { return v.typ }

// Raw returns the normalized raw word: masked for unsigned types,
// sign-extended for signed types, the IEEE bit pattern for floats.
func (v Value) Raw() uint64 { return v.raw }

// IsVoid returns true if the value carries no data.
func (v Value) IsVoid() bool { return v.typ == Void }

// Bool returns the value as a boolean (non-zero is true).
func (v Value) Bool() bool {
	if v.typ.Float() {
		return v.Float64() != 0
	}
	return v.raw != 0
}

// Uint64 returns the value as an unsigned integer. Floats are converted.
func (v Value) Uint64() uint64 {
	if v.typ.Float() {
		return uint64(v.Float64())
	}
	return v.raw
}

// Int64 returns the value as a signed integer. Floats are converted.
func (v Value) Int64() int64 {
	if v.typ.Float() {
		return int64(v.Float64())
	}
	return int64(v.raw)
}

// Float64 returns the value as a float. Integers are converted.
func (v Value) Float64() float64 {
	switch v.typ {
	case F32:
		return float64(math.Float32frombits(uint32(v.raw)))
	case F64:
		return math.Float64frombits(v.raw)
	}
	if v.typ.Signed() {
		return float64(int64(v.raw))
	}
	return float64(v.raw)
}

// Interface returns the value as the natural Go type for its tag, or nil
// for Void.
func (v Value) Interface() any {
	switch v.typ {
	case Void:
		return nil
	case U8:
		return uint8(v.raw)
	case U16:
		return uint16(v.raw)
	case U32:
		return uint32(v.raw)
	case U64:
		return v.raw
	case Ptr:
		return uintptr(v.raw)
	case Bool:
		return v.raw != 0
	case I8:
		return int8(v.raw)
	case I16:
		return int16(v.raw)
	case I32:
		return int32(v.raw)
	case I64:
		return int64(v.raw)
	case F32:
		return math.Float32frombits(uint32(v.raw))
	case F64:
		return math.Float64frombits(v.raw)
	}
	return nil
}

// String formats the value with its type.
func (v Value) String() string {
	if v.typ == Void {
		return "void"
	}
	if v.typ == Ptr {
		return fmt.Sprintf("ptr(0x%x)", v.raw)
	}
	return fmt.Sprintf("%s(%v)", v.typ, v.Interface())
}
