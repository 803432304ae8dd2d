package dispatch

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wastevensv/flipper/pkg/arg"
	"github.com/wastevensv/flipper/pkg/boundary"
	"github.com/wastevensv/flipper/pkg/boundary/mocks"
	"github.com/wastevensv/flipper/pkg/catalog"
	"github.com/wastevensv/flipper/pkg/device"
	"github.com/wastevensv/flipper/pkg/firmware"
	"github.com/wastevensv/flipper/pkg/firmware/builtin"
	"github.com/wastevensv/flipper/pkg/log"
	"github.com/wastevensv/flipper/pkg/module"
	"github.com/wastevensv/flipper/pkg/value"
	"github.com/wastevensv/flipper/pkg/wire"
)

type recordingLogger struct {
	events []log.Event
}

func (r *recordingLogger) Log(e log.Event) { r.events = append(r.events, e) }

type fixture struct {
	link  *mocks.MockLink
	table *device.Table
	ref   device.Ref
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	link := mocks.NewMockLink(t)
	table := device.NewTable()
	ref, err := table.Attach("board", link)
	require.NoError(t, err)
	return &fixture{link: link, table: table, ref: ref}
}

// bindUser binds a user identity at the given index.
func (f *fixture) bindUser(t *testing.T, name string, index int32) *module.Identity {
	t.Helper()
	f.link.EXPECT().BindModule(mock.Anything, mock.MatchedBy(func(q *wire.Record) bool { return q.Name == name })).
		Return(wire.Record{Name: name, Version: 1, Identifier: 0x1234, Index: index}, nil).Once()
	id, err := module.Bind(context.Background(), module.UninitializedUser(name), f.ref)
	require.NoError(t, err)
	return id
}

// bindStandard binds a catalog module at the given index.
func (f *fixture) bindStandard(t *testing.T, name string, index int32) *module.Identity {
	t.Helper()
	entry, ok := catalog.Default().Lookup(name)
	require.True(t, ok)
	unbound := module.Standard(entry)

	f.link.EXPECT().BindModule(mock.Anything, mock.MatchedBy(func(q *wire.Record) bool { return q.Name == name })).
		Return(wire.Record{Name: name, Version: entry.Version, Identifier: entry.Identifier, Index: index}, nil).Once()
	id, err := module.Bind(context.Background(), unbound, f.ref)
	require.NoError(t, err)
	return id
}

func TestInvokeVoidWithoutArgs(t *testing.T) {
	f := newFixture(t)
	id := f.bindUser(t, "gpio", 2)
	d := New(DefaultConfig())

	f.link.EXPECT().InvokeOp(mock.Anything, mock.Anything, uint8(5), value.Void, mock.Anything).
		Run(func(_ context.Context, rec *wire.Record, _ uint8, _ value.Type, args *arg.Chain) {
			assert.Equal(t, int32(2), rec.Index)
			assert.Nil(t, args)
			assert.Zero(t, args.Len())
		}).
		Return(uint64(0xdeadbeef), nil).Once()

	v, err := d.Invoke(context.Background(), id, 5, value.Void)
	require.NoError(t, err)
	assert.True(t, v.IsVoid())
	assert.Zero(t, v.Raw())
}

func TestInvokeEncodesArgumentsInOrder(t *testing.T) {
	f := newFixture(t)
	id := f.bindUser(t, "led", 0)
	d := New(DefaultConfig())

	f.link.EXPECT().InvokeOp(mock.Anything, mock.Anything, uint8(1), value.Void, mock.Anything).
		Run(func(_ context.Context, _ *wire.Record, _ uint8, _ value.Type, args *arg.Chain) {
			assert.Equal(t, []uint64{10, 20, 30}, args.Words())
			assert.Equal(t, []value.Type{value.U8, value.U8, value.U8}, arg.UnpackTypes(args.Types(), args.Len()))
		}).
		Return(uint64(0), nil).Once()

	require.NoError(t, d.InvokeVoid(context.Background(), id, 1, arg.U8(10), arg.U8(20), arg.U8(30)))
}

func TestInvokeDecodesReturnType(t *testing.T) {
	tests := []struct {
		name string
		ret  value.Type
		raw  uint64
		want any
	}{
		{"u8 masks", value.U8, 0x1FF, uint8(0xFF)},
		{"i8 sign extends", value.I8, 0xF6, int8(-10)},
		{"i16", value.I16, 0xFFFF, int16(-1)},
		{"u32", value.U32, 0x1_0000_0002, uint32(2)},
		{"bool", value.Bool, 2, true},
		{"f32", value.F32, uint64(math.Float32bits(1.5)), float32(1.5)},
		{"f64", value.F64, math.Float64bits(-2.25), -2.25},
		{"i64", value.I64, math.MaxUint64, int64(-1)},
		{"void", value.Void, 42, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			id := f.bindUser(t, "adc", 1)
			d := New(DefaultConfig())

			f.link.EXPECT().InvokeOp(mock.Anything, mock.Anything, uint8(0), tt.ret, mock.Anything).
				Return(tt.raw, nil).Once()

			v, err := d.Invoke(context.Background(), id, 0, tt.ret)
			require.NoError(t, err)
			assert.Equal(t, tt.ret, v.Type())
			assert.Equal(t, tt.want, v.Interface())
		})
	}
}

func TestPushForwardsPayload(t *testing.T) {
	for _, payload := range [][]byte{{}, {1, 2, 3, 4}} {
		f := newFixture(t)
		id := f.bindUser(t, "uart0", 1)
		d := New(DefaultConfig())

		f.link.EXPECT().PushOp(mock.Anything, mock.Anything, uint8(6), mock.Anything, mock.Anything).
			Run(func(_ context.Context, _ *wire.Record, _ uint8, buf []byte, _ *arg.Chain) {
				assert.Len(t, buf, len(payload))
				assert.Equal(t, payload, buf)
			}).
			Return(uint64(0), nil).Once()

		require.NoError(t, d.PushVoid(context.Background(), id, 6, payload))
	}
}

func TestPullFillsBufferInPlace(t *testing.T) {
	f := newFixture(t)
	id := f.bindUser(t, "uart0", 1)
	d := New(DefaultConfig())
	buf := make([]byte, 16)

	f.link.EXPECT().PullOp(mock.Anything, mock.Anything, uint8(7), mock.Anything, mock.Anything).
		Run(func(_ context.Context, _ *wire.Record, _ uint8, b []byte, _ *arg.Chain) {
			assert.Len(t, b, 16)
			for i := range b {
				b[i] = byte(i)
			}
		}).
		Return(uint64(16), nil).Once()

	n, err := PullAs[uint32](context.Background(), d, id, 7, buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(16), n)
	assert.Len(t, buf, 16)
	assert.Equal(t, byte(15), buf[15])
}

func TestUnboundIdentityNeverCallsLink(t *testing.T) {
	f := newFixture(t)
	d := New(DefaultConfig())
	ctx := context.Background()

	unbound := []*module.Identity{nil, module.UninitializedUser("gpio")}
	for _, id := range unbound {
		_, err := d.Invoke(ctx, id, 0, value.Void)
		assert.ErrorIs(t, err, boundary.ErrNotBound)
		_, err = d.Push(ctx, id, 0, value.Void, []byte{1})
		assert.ErrorIs(t, err, boundary.ErrNotBound)
		_, err = d.Pull(ctx, id, 0, value.Void, make([]byte, 4))
		assert.ErrorIs(t, err, boundary.ErrNotBound)
	}

	f.link.AssertNotCalled(t, "InvokeOp", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.link.AssertNotCalled(t, "PushOp", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.link.AssertNotCalled(t, "PullOp", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLinkErrorsPropagateUnchanged(t *testing.T) {
	f := newFixture(t)
	id := f.bindUser(t, "gpio", 3)
	d := New(DefaultConfig())

	statusErr := &boundary.StatusError{Status: wire.StatusInvalidFunction}
	f.link.EXPECT().InvokeOp(mock.Anything, mock.Anything, uint8(9), value.U8, mock.Anything).
		Return(uint64(0), statusErr).Once()

	_, err := d.Invoke(context.Background(), id, 9, value.U8)
	assert.Same(t, statusErr, err)

	transportErr := &boundary.TransportError{Op: "send", Err: errors.New("broken pipe")}
	f.link.EXPECT().PullOp(mock.Anything, mock.Anything, uint8(1), mock.Anything, mock.Anything).
		Return(uint64(0), transportErr).Once()

	_, err = d.Pull(context.Background(), id, 1, value.Void, make([]byte, 2))
	assert.Same(t, transportErr, err)
	assert.ErrorIs(t, err, boundary.ErrTransport)
}

func TestDeviceRejectionIsTransportError(t *testing.T) {
	fw := firmware.NewTable()
	_, err := builtin.Install(fw)
	require.NoError(t, err)

	table := device.NewTable()
	ref, err := table.Attach("board", firmware.NewLocal(fw))
	require.NoError(t, err)

	ctx := context.Background()
	id, err := module.Bind(ctx, module.UninitializedUser("uart0"), ref)
	require.NoError(t, err)

	_, err = New(DefaultConfig()).Invoke(ctx, id, 99, value.Void)
	assert.ErrorIs(t, err, boundary.ErrTransport)
	assert.NotErrorIs(t, err, boundary.ErrModuleNotFound)

	var statusErr *boundary.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, wire.StatusInvalidFunction, statusErr.Status)
	assert.Contains(t, statusErr.Message, "uart0 has no function 99")
}

func TestDetachedDeviceIsTransportError(t *testing.T) {
	f := newFixture(t)
	id := f.bindUser(t, "gpio", 3)
	require.NoError(t, f.table.Detach(f.ref))

	_, err := New(DefaultConfig()).Invoke(context.Background(), id, 0, value.Void)
	assert.ErrorIs(t, err, boundary.ErrTransport)
	assert.ErrorIs(t, err, device.ErrDeviceGone)
}

func TestArgumentValidation(t *testing.T) {
	f := newFixture(t)
	id := f.bindUser(t, "gpio", 3)
	d := New(DefaultConfig())
	ctx := context.Background()

	tooMany := make([]arg.Arg, arg.MaxArgs+1)
	for i := range tooMany {
		tooMany[i] = arg.U8(uint8(i))
	}
	_, err := d.Invoke(ctx, id, 0, value.Void, tooMany...)
	assert.ErrorIs(t, err, ErrTooManyArgs)

	_, err = d.Invoke(ctx, id, 0, value.Type(0xA))
	assert.ErrorIs(t, err, ErrInvalidType)

	_, err = d.Invoke(ctx, id, 0, value.Void, arg.Arg{Type: value.Void})
	assert.ErrorIs(t, err, ErrInvalidType)

	_, err = d.Invoke(ctx, id, 0, value.Void, arg.Arg{Type: value.Type(0xD)})
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestSignatureChecks(t *testing.T) {
	f := newFixture(t)
	led := f.bindStandard(t, "led", 0)
	ctx := context.Background()

	tests := []struct {
		name string
		call func(d *Dispatcher) error
	}{
		{"wrong return type", func(d *Dispatcher) error {
			_, err := d.Invoke(ctx, led, 0, value.U8)
			return err
		}},
		{"wrong argument types", func(d *Dispatcher) error {
			return d.InvokeVoid(ctx, led, 1, arg.U16(1), arg.U8(2), arg.U8(3))
		}},
		{"wrong argument count", func(d *Dispatcher) error {
			return d.InvokeVoid(ctx, led, 1, arg.U8(1))
		}},
		{"wrong kind", func(d *Dispatcher) error {
			return d.PushVoid(ctx, led, 1, nil, arg.U8(1), arg.U8(2), arg.U8(3))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(New(DefaultConfig())), ErrSignatureMismatch)
		})
	}

	f.link.AssertNotCalled(t, "InvokeOp", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.link.AssertNotCalled(t, "PushOp", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStrictRejectsUnknownFunction(t *testing.T) {
	f := newFixture(t)
	led := f.bindStandard(t, "led", 0)
	ctx := context.Background()

	_, err := New(Config{Strict: true}).Invoke(ctx, led, 9, value.Void)
	assert.ErrorIs(t, err, ErrUnknownFunction)

	f.link.EXPECT().InvokeOp(mock.Anything, mock.Anything, uint8(9), value.Void, mock.Anything).
		Return(uint64(0), nil).Once()
	_, err = New(Config{}).Invoke(ctx, led, 9, value.Void)
	assert.NoError(t, err)
}

func TestTypedForms(t *testing.T) {
	f := newFixture(t)
	led := f.bindStandard(t, "led", 0)
	gpio := f.bindStandard(t, "gpio", 2)
	d := New(DefaultConfig())
	ctx := context.Background()

	f.link.EXPECT().InvokeOp(mock.Anything, mock.Anything, uint8(0), value.I32, mock.Anything).
		Return(uint64(math.MaxUint64), nil).Once()
	status, err := InvokeAs[int32](ctx, d, led, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), status)

	f.link.EXPECT().InvokeOp(mock.Anything, mock.Anything, uint8(2), value.U32, mock.Anything).
		Return(uint64(0x80), nil).Once()
	level, err := InvokeAs[uint32](ctx, d, gpio, 2, arg.Of(uint32(0x80)))
	require.NoError(t, err)
	assert.Equal(t, uint32(0x80), level)

	_, err = InvokeAs[uint8](ctx, d, gpio, 2, arg.Of(uint32(1)))
	assert.ErrorIs(t, err, ErrSignatureMismatch)

	_, err = PushAs[uint8](ctx, d, nil, 0, nil)
	assert.ErrorIs(t, err, boundary.ErrNotBound)
}

func TestWidthTruncatesArguments(t *testing.T) {
	f := newFixture(t)
	id := f.bindUser(t, "adc", 1)
	d := New(Config{Width: arg.Width32})
	assert.Equal(t, arg.Width32, d.Width())

	f.link.EXPECT().InvokeOp(mock.Anything, mock.Anything, uint8(0), value.Void, mock.Anything).
		Run(func(_ context.Context, _ *wire.Record, _ uint8, _ value.Type, args *arg.Chain) {
			assert.Equal(t, []uint64{0x55667788, 0xFFFFFFFF}, args.Words())
		}).
		Return(uint64(0), nil).Once()

	require.NoError(t, d.InvokeVoid(context.Background(), id, 0, arg.U64(0x1122334455667788), arg.I8(-1)))
	assert.Equal(t, arg.Width64, New(Config{}).Width())
	assert.PanicsWithValue(t, "dispatch: invalid word width 16", func() { New(Config{Width: 16}) })
}

func TestProtocolLoggerReceivesCalls(t *testing.T) {
	f := newFixture(t)
	id := f.bindUser(t, "uart0", 1)
	rec := &recordingLogger{}
	d := New(Config{ProtocolLogger: rec})

	f.link.EXPECT().PushOp(mock.Anything, mock.Anything, uint8(6), mock.Anything, mock.Anything).
		Return(uint64(3), nil).Once()
	f.link.EXPECT().InvokeOp(mock.Anything, mock.Anything, uint8(3), value.U8, mock.Anything).
		Return(uint64(0), &boundary.StatusError{Status: wire.StatusBusy}).Once()

	require.NoError(t, d.PushVoid(context.Background(), id, 6, []byte("abc"), arg.U32(3)))
	_, err := d.Invoke(context.Background(), id, 3, value.U8)
	require.Error(t, err)

	require.Len(t, rec.events, 2)
	push := rec.events[0].Call
	require.NotNil(t, push)
	assert.Equal(t, log.CategoryCall, rec.events[0].Category)
	assert.Equal(t, "uart0", push.Module)
	assert.Equal(t, int32(1), push.Index)
	assert.Equal(t, "push", push.Kind)
	assert.Equal(t, 3, push.Length)
	assert.Equal(t, []uint64{3}, push.Args)
	assert.Equal(t, uint64(value.U32), push.Types)
	assert.Equal(t, uint64(3), push.Result)
	assert.Empty(t, push.Error)

	failed := rec.events[1].Call
	require.NotNil(t, failed)
	assert.Equal(t, "invoke", failed.Kind)
	assert.Equal(t, "BUSY", failed.Error)
}
