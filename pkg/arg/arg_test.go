package arg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastevensv/flipper/pkg/value"
)

func TestEncodePreservesOrderAndLength(t *testing.T) {
	tests := []struct {
		name  string
		width Width
		args  []Arg
		want  []uint64
	}{
		{
			name:  "empty",
			width: Width64,
			args:  nil,
			want:  nil,
		},
		{
			name:  "rgb",
			width: Width64,
			args:  []Arg{U8(10), U8(20), U8(30)},
			want:  []uint64{10, 20, 30},
		},
		{
			name:  "duplicates kept",
			width: Width32,
			args:  []Arg{U16(7), U16(7), U16(7)},
			want:  []uint64{7, 7, 7},
		},
		{
			name:  "wide value truncates at 32 bits",
			width: Width32,
			args:  []Arg{U64(0x1122334455667788), U32(1)},
			want:  []uint64{0x55667788, 1},
		},
		{
			name:  "negative value sign bits truncated at 32 bits",
			width: Width32,
			args:  []Arg{I8(-1)},
			want:  []uint64{0xFFFFFFFF},
		},
		{
			name:  "64-bit width keeps everything",
			width: Width64,
			args:  []Arg{I64(math.MinInt64), F64(1.0)},
			want:  []uint64{1 << 63, math.Float64bits(1.0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := Encode(tt.width, tt.args...)
			defer chain.Release()

			require.Equal(t, len(tt.args), chain.Len())
			assert.Equal(t, tt.want, chain.Words())

			i := 0
			for n := chain.Head(); n != nil; n = n.Next {
				assert.Equal(t, tt.args[i].Type, n.Type)
				assert.Equal(t, tt.width.Truncate(tt.args[i].Bits), n.Word)
				i++
			}
			assert.Equal(t, len(tt.args), i)
		})
	}
}

func TestEmptyChainIsNil(t *testing.T) {
	chain := Encode(Width64)
	assert.Nil(t, chain)
	assert.Equal(t, 0, chain.Len())
	assert.Nil(t, chain.Head())
	assert.Zero(t, chain.Types())
	chain.Release()
}

func TestChainTypes(t *testing.T) {
	chain := Encode(Width64, U8(1), I16(-2), F32(3), Bool(true))
	defer chain.Release()

	sig := chain.Types()
	assert.Equal(t, uint64(0x5C90), sig)
	assert.Equal(t,
		[]value.Type{value.U8, value.I16, value.F32, value.Bool},
		UnpackTypes(sig, chain.Len()))
}

func TestReleaseResetsChain(t *testing.T) {
	chain := Encode(Width64, U8(1), U8(2))
	chain.Release()

	fresh := Encode(Width64, U32(9))
	defer fresh.Release()
	assert.Equal(t, []uint64{9}, fresh.Words())
}

func TestWidth(t *testing.T) {
	assert.True(t, Width32.IsValid())
	assert.True(t, Width64.IsValid())
	assert.False(t, Width(16).IsValid())
	assert.True(t, NativeWidth.IsValid())
	assert.Equal(t, uint64(math.MaxUint64), Width(0).Truncate(math.MaxUint64))
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, Arg{Type: value.I16, Bits: 0xFFFFFFFFFFFFFFFE}, I16(-2))
	assert.Equal(t, Arg{Type: value.Bool, Bits: 0}, Bool(false))
	assert.Equal(t, Arg{Type: value.F32, Bits: uint64(math.Float32bits(2.5))}, F32(2.5))
	assert.Equal(t, Arg{Type: value.Ptr, Bits: 0x2000}, Ptr(0x2000))
	assert.Equal(t, "u8(200)", U8(200).String())
}

func TestOfUsesStaticType(t *testing.T) {
	assert.Equal(t, U16(5), Of(uint16(5)))
	assert.Equal(t, I64(-5), Of(int64(-5)))
	assert.Equal(t, Bool(true), Of(true))
}

func TestInfer(t *testing.T) {
	args, err := InferAll(uint8(1), int(-1), uint(2), 1.5, float32(0.25), false, uintptr(8))
	require.NoError(t, err)
	assert.Equal(t, []Arg{U8(1), I32(-1), U32(2), F64(1.5), F32(0.25), Bool(false), Ptr(8)}, args)

	_, err = InferAll(1, "nope")
	assert.ErrorContains(t, err, "arg 1")
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Arg
	}{
		{"u8:255", U8(255)},
		{"i16:-3", I16(-3)},
		{"u32:0x10", U32(16)},
		{"f32:1.5", F32(1.5)},
		{"bool:true", Bool(true)},
		{"42", I32(42)},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"u8:256", "void:1", "x:1", "bool:maybe", "i8:-129"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}
