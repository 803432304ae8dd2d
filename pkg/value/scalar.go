package value

// Scalar is the set of Go types that map to a wire tag.
type Scalar interface {
	bool |
		uint8 | uint16 | uint32 | uint64 |
		int8 | int16 | int32 | int64 |
		float32 | float64
}

// TypeOf returns the wire tag for T.
func TypeOf[T Scalar]() Type {
	var zero T
	switch any(zero).(type) {
	case bool:
		return Bool
	case uint8:
		return U8
	case uint16:
		return U16
	case uint32:
		return U32
	case uint64:
		return U64
	case int8:
		return I8
	case int16:
		return I16
	case int32:
		return I32
	case int64:
		return I64
	case float32:
		return F32
	default:
		return F64
	}
}

// As converts v to T. The conversion follows Go conversion rules from the
// value's natural type, so a value decoded with the tag for T round-trips
// exactly.
func As[T Scalar](v Value) T {
	var out any
	var zero T
	switch any(zero).(type) {
	case bool:
		out = v.Bool()
	case uint8:
		out = uint8(v.Uint64())
	case uint16:
		out = uint16(v.Uint64())
	case uint32:
		out = uint32(v.Uint64())
	case uint64:
		out = v.Uint64()
	case int8:
		out = int8(v.Int64())
	case int16:
		out = int16(v.Int64())
	case int32:
		out = int32(v.Int64())
	case int64:
		out = v.Int64()
	case float32:
		out = float32(v.Float64())
	default:
		out = v.Float64()
	}
	return out.(T)
}
