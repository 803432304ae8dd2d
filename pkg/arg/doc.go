// Package arg builds the argument chain handed to the call boundary.
//
// An Arg is a single typed scalar. Encode turns an ordered argument list
// into a Chain: a singly linked, nil-terminated list with one node per
// argument, in call order. Each node carries the argument's bit pattern
// reinterpreted as the boundary's native word.
//
// # Truncation
//
// The word width is a property of the boundary (see Width). Values wider
// than the width lose their high bits. This is silent: a u64 argument sent
// across a 32-bit boundary arrives as its low 32 bits. The default width is
// 64 bits, which never truncates.
//
// # Ownership
//
// A chain belongs to the call that consumes it. The consumer calls Release
// once the boundary primitive returns, on success and failure alike.
//
//	chain := arg.Encode(arg.Width64, arg.U8(r), arg.U8(g), arg.U8(b))
//	defer chain.Release()
package arg
