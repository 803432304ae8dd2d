package arg

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/wastevensv/flipper/pkg/value"
)

// Arg is a single typed call argument. Bits holds the value's bit pattern:
// zero-extended for unsigned types, sign-extended for signed types and the
// IEEE representation for floats.
type Arg struct {
	Type value.Type
	Bits uint64
}

// String formats the argument with its type.
func (a Arg) String() string {
	return value.Decode(a.Bits, a.Type).String()
}

// U8 encodes an unsigned byte, zero-extended into Bits.
func U8(v uint8) Arg { return Arg{Type: value.U8, Bits: uint64(v)} }

// U16 encodes a 16-bit unsigned integer.
func U16(v uint16) Arg { return Arg{Type: value.U16, Bits: uint64(v)} }

// U32 encodes a 32-bit unsigned integer.
func U32(v uint32) Arg { return Arg{Type: value.U32, Bits: uint64(v)} }

// U64 encodes a 64-bit unsigned integer.
func U64(v uint64) Arg { return Arg{Type: value.U64, Bits: v} }

// I8 encodes a signed byte, sign-extended into Bits.
func I8(v int8) Arg { return Arg{Type: value.I8, Bits: uint64(int64(v))} }

// I16 encodes a 16-bit signed integer, sign-extended into Bits.
func I16(v int16) Arg { return Arg{Type: value.I16, Bits: uint64(int64(v))} }

// I32 encodes a 32-bit signed integer, sign-extended into Bits.
func I32(v int32) Arg { return Arg{Type: value.I32, Bits: uint64(int64(v))} }

// I64 encodes a 64-bit signed integer.
func I64(v int64) Arg { return Arg{Type: value.I64, Bits: uint64(v)} }

// F32 encodes the IEEE 754 bits of v in the low 32 bits.
func F32(v float32) Arg { return Arg{Type: value.F32, Bits: uint64(math.Float32bits(v))} }

// F64 encodes the IEEE 754 bits of v.
func F64(v float64) Arg { return Arg{Type: value.F64, Bits: math.Float64bits(v)} }

// Ptr is a device-side address.
func Ptr(v uintptr) Arg { return Arg{Type: value.Ptr, Bits: uint64(v)} }

// Bool encodes true as 1 and false as 0.
func Bool(v bool) Arg {
	if v {
		return Arg{Type: value.Bool, Bits: 1}
	}
	return Arg{Type: value.Bool}
}

// Of builds an Arg whose tag is derived from T.
func Of[T value.Scalar](v T) Arg {
	a, _ := Infer(v)
	return a
}

// Infer builds an Arg from a dynamically typed Go value. Plain int and uint
// map to i32 and u32, matching the device's int.
func Infer(v any) (Arg, error) {
	switch n := v.(type) {
	case Arg:
		return n, nil
	case bool:
		return Bool(n), nil
	case uint8:
		return U8(n), nil
	case uint16:
		return U16(n), nil
	case uint32:
		return U32(n), nil
	case uint64:
		return U64(n), nil
	case uint:
		return U32(uint32(n)), nil
	case uintptr:
		return Ptr(n), nil
	case int8:
		return I8(n), nil
	case int16:
		return I16(n), nil
	case int32:
		return I32(n), nil
	case int64:
		return I64(n), nil
	case int:
		return I32(int32(n)), nil
	case float32:
		return F32(n), nil
	case float64:
		return F64(n), nil
	default:
		return Arg{}, fmt.Errorf("cannot infer argument type for %T", v)
	}
}

// InferAll builds an argument list from dynamically typed values.
func InferAll(vs ...any) ([]Arg, error) {
	args := make([]Arg, len(vs))
	for i, v := range vs {
		a, err := Infer(v)
		if err != nil {
			return nil, fmt.Errorf("arg %d: %w", i, err)
		}
		args[i] = a
	}
	return args, nil
}

// Parse parses "type:value" (for example "u8:255", "i16:-3", "f32:1.5",
// "bool:true"). A bare number is taken as i32. Used by the shell.
func Parse(s string) (Arg, error) {
	typeName, lit, found := strings.Cut(s, ":")
	if !found {
		lit, typeName = s, "i32"
	}
	t, err := value.ParseType(typeName)
	if err != nil {
		return Arg{}, err
	}
	if t == value.Void {
		return Arg{}, fmt.Errorf("void is not an argument type")
	}
	return parseLiteral(t, lit)
}

func parseLiteral(t value.Type, lit string) (Arg, error) {
	switch {
	case t == value.Bool:
		b, err := strconv.ParseBool(lit)
		if err != nil {
			return Arg{}, fmt.Errorf("invalid bool %q: %w", lit, err)
		}
		return Bool(b), nil
	case t.Float():
		f, err := strconv.ParseFloat(lit, t.Size()*8)
		if err != nil {
			return Arg{}, fmt.Errorf("invalid %s %q: %w", t, lit, err)
		}
		if t == value.F32 {
			return F32(float32(f)), nil
		}
		return F64(f), nil
	case t.Signed():
		n, err := strconv.ParseInt(lit, 0, t.Size()*8)
		if err != nil {
			return Arg{}, fmt.Errorf("invalid %s %q: %w", t, lit, err)
		}
		return Arg{Type: t, Bits: uint64(n)}, nil
	default:
		n, err := strconv.ParseUint(lit, 0, t.Size()*8)
		if err != nil {
			return Arg{}, fmt.Errorf("invalid %s %q: %w", t, lit, err)
		}
		return Arg{Type: t, Bits: n}, nil
	}
}
