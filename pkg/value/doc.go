// Package value defines the closed set of scalar types that cross the
// module call boundary and decodes raw call results into typed values.
//
// # Type Tags
//
// Every argument and return value carries a 4-bit type tag. The low three
// bits select the size class and bit 3 marks a signed integer:
//
//	0x0 u8    0x1 u16   0x2 void  0x3 u32
//	0x5 bool  0x6 ptr   0x7 u64
//	0x8 i8    0x9 i16   0xB i32   0xF i64
//	0xC f32   0xE f64
//
// # Decoding
//
// A raw result is always a 64-bit word. Decode reinterprets it according to
// the tag the caller asked for; it never fails. A tag that does not match
// the operation's declared return type yields wrong data, not an error.
// Callers that know the Go type statically should use TypeOf and As so the
// tag is derived from the type.
package value
