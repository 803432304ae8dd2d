package arg

import (
	"sync"

	"github.com/wastevensv/flipper/pkg/value"
)

// MaxArgs is the most arguments a call can carry. The packed type
// signature holds one 4-bit tag per argument in a 64-bit word.
const MaxArgs = 16

// Width is the boundary's native word width in bits.
type Width uint8

const (
	Width32 Width = 32
	Width64 Width = 64
)

// NativeWidth is the pointer width of the host.
const NativeWidth Width = 32 << (^uintptr(0) >> 63)

// Truncate reinterprets v as a word of this width, dropping high bits.
// A zero width is treated as 64 bits.
func (w Width) Truncate(v uint64) uint64 {
	if w == 0 || w >= 64 {
		return v
	}
	return v & (1<<uint(w) - 1)
}

// IsValid returns true for the supported widths.
func (w Width) IsValid() bool {
	return w == Width32 || w == Width64
}

// Node is one element of an argument chain.
type Node struct {
	Type value.Type
	Word uint64
	Next *Node
}

// Chain is the encoded argument list. A nil *Chain is the empty chain and
// every method is safe to call on it.
type Chain struct {
	head  *Node
	tail  *Node
	count int
}

var nodePool = sync.Pool{New: func() any { return new(Node) }}

var chainPool = sync.Pool{New: func() any { return new(Chain) }}

// Encode builds a chain from args in call order. An empty list yields nil.
func Encode(w Width, args ...Arg) *Chain {
	if len(args) == 0 {
		return nil
	}
	c := chainPool.Get().(*Chain)
	for _, a := range args {
		c.Append(a.Type, w.Truncate(a.Bits))
	}
	return c
}

// Append adds a word to the end of the chain.
func (c *Chain) Append(t value.Type, word uint64) {
	n := nodePool.Get().(*Node)
	n.Type, n.Word, n.Next = t, word, nil
	if c.tail == nil {
		c.head = n
	} else {
		c.tail.Next = n
	}
	c.tail = n
	c.count++
}

// Head returns the first node, or nil for an empty chain.
func (c *Chain) Head() *Node {
	if c == nil {
		return nil
	}
	return c.head
}

// Len returns the number of arguments.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return c.count
}

// Words returns the encoded words in order.
func (c *Chain) Words() []uint64 {
	if c.Len() == 0 {
		return nil
	}
	words := make([]uint64, 0, c.count)
	for n := c.head; n != nil; n = n.Next {
		words = append(words, n.Word)
	}
	return words
}

// Types returns the packed type signature: the tag of argument i sits in
// bits 4i..4i+3. Arguments past MaxArgs are not represented.
func (c *Chain) Types() uint64 {
	var sig uint64
	i := 0
	for n := c.Head(); n != nil && i < MaxArgs; n = n.Next {
		sig |= uint64(n.Type&value.MaxType) << (4 * i)
		i++
	}
	return sig
}

// Release returns the chain's nodes to the pool. The chain must not be used
// afterwards.
func (c *Chain) Release() {
	if c == nil {
		return
	}
	for n := c.head; n != nil; {
		next := n.Next
		*n = Node{}
		nodePool.Put(n)
		n = next
	}
	*c = Chain{}
	chainPool.Put(c)
}

// UnpackTypes splits a packed signature into argc tags.
func UnpackTypes(sig uint64, argc int) []value.Type {
	if argc > MaxArgs {
		argc = MaxArgs
	}
	types := make([]value.Type, argc)
	for i := range types {
		types[i] = value.Type(sig>>(4*i)) & value.MaxType
	}
	return types
}
