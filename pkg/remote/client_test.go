package remote

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wastevensv/flipper/pkg/arg"
	"github.com/wastevensv/flipper/pkg/boundary"
	"github.com/wastevensv/flipper/pkg/log"
	"github.com/wastevensv/flipper/pkg/remote/mocks"
	"github.com/wastevensv/flipper/pkg/value"
	"github.com/wastevensv/flipper/pkg/wire"
)

// replyWith makes the mocked sender answer every request through
// HandleResponse, building the response from the decoded request.
func replyWith(t *testing.T, c *Client, sender *mocks.MockSender, reply func(*wire.Request) *wire.Response) {
	t.Helper()
	sender.EXPECT().Send(mock.Anything).RunAndReturn(func(data []byte) error {
		req, err := wire.DecodeRequest(data)
		require.NoError(t, err)
		resp := reply(req)
		resp.MessageID = req.MessageID
		go c.HandleResponse(resp)
		return nil
	})
}

func TestInvokeOpEncodesRequest(t *testing.T) {
	sender := mocks.NewMockSender(t)
	c := New(sender)

	var got *wire.Request
	replyWith(t, c, sender, func(req *wire.Request) *wire.Response {
		got = req
		return &wire.Response{Value: 0x2A}
	})

	chain := arg.Encode(arg.Width64, arg.U8(1), arg.U16(2))
	defer chain.Release()

	rec := &wire.Record{Name: "led", Index: 3}
	raw, err := c.InvokeOp(context.Background(), rec, 1, value.U32, chain)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x2A), raw)

	require.NotNil(t, got)
	assert.Equal(t, wire.ClassExecute, got.Class)
	assert.Equal(t, int32(3), got.Module)
	assert.Equal(t, uint8(1), got.Function)
	assert.Equal(t, value.U32, got.Return)
	assert.Equal(t, []uint64{1, 2}, got.Args)
	assert.Equal(t, chain.Types(), got.Types)
	assert.Zero(t, c.Pending())
}

func TestPushAndPullForwardLengths(t *testing.T) {
	sender := mocks.NewMockSender(t)
	c := New(sender)

	var lengths []uint32
	replyWith(t, c, sender, func(req *wire.Request) *wire.Response {
		lengths = append(lengths, req.Length)
		if req.Class == wire.ClassPull {
			data := make([]byte, req.Length+4)
			for i := range data {
				data[i] = byte(i + 1)
			}
			return &wire.Response{Data: data}
		}
		return &wire.Response{}
	})

	ctx := context.Background()
	rec := &wire.Record{Name: "uart0", Index: 1}

	_, err := c.PushOp(ctx, rec, 6, []byte{}, nil)
	require.NoError(t, err)

	buf := make([]byte, 16)
	_, err = c.PullOp(ctx, rec, 7, buf, nil)
	require.NoError(t, err)

	assert.Equal(t, []uint32{0, 16}, lengths)
	assert.Len(t, buf, 16)
	assert.Equal(t, byte(1), buf[0])
	assert.Equal(t, byte(16), buf[15])
}

func TestBindModule(t *testing.T) {
	sender := mocks.NewMockSender(t)
	c := New(sender)

	replyWith(t, c, sender, func(req *wire.Request) *wire.Response {
		if req.Record.Name != "gpio" {
			return &wire.Response{Status: wire.StatusModuleNotFound, Message: req.Record.Name}
		}
		rec := req.Record.Clone()
		rec.Index = 2
		rec.Version = 1
		return &wire.Response{Record: &rec}
	})

	got, err := c.BindModule(context.Background(), &wire.Record{Name: "gpio", Index: -1})
	require.NoError(t, err)
	assert.Equal(t, int32(2), got.Index)
	assert.Equal(t, uint32(1), got.Version)

	_, err = c.BindModule(context.Background(), &wire.Record{Name: "spi", Index: -1})
	assert.ErrorIs(t, err, boundary.ErrModuleNotFound)
	var statusErr *boundary.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "spi", statusErr.Message)
}

func TestStatusErrorsMapped(t *testing.T) {
	sender := mocks.NewMockSender(t)
	c := New(sender)
	replyWith(t, c, sender, func(*wire.Request) *wire.Response {
		return &wire.Response{Status: wire.StatusInvalidFunction}
	})

	_, err := c.InvokeOp(context.Background(), &wire.Record{}, 99, value.Void, nil)
	assert.Equal(t, wire.StatusInvalidFunction, boundary.StatusOf(err))
	assert.ErrorIs(t, err, boundary.ErrTransport)
}

func TestDispatchStatusIsNotBindFailure(t *testing.T) {
	sender := mocks.NewMockSender(t)
	c := New(sender)
	replyWith(t, c, sender, func(*wire.Request) *wire.Response {
		return &wire.Response{Status: wire.StatusModuleNotFound, Message: "index 9"}
	})

	_, err := c.PushOp(context.Background(), &wire.Record{Index: 9}, 0, []byte{1}, nil)
	assert.ErrorIs(t, err, boundary.ErrTransport)
	assert.NotErrorIs(t, err, boundary.ErrModuleNotFound)

	var statusErr *boundary.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, wire.StatusModuleNotFound, statusErr.Status)
	assert.Equal(t, "index 9", statusErr.Message)
}

func TestOversizedPayloadRejected(t *testing.T) {
	// No Send expectation: an oversized buffer must fail before sending.
	sender := mocks.NewMockSender(t)
	c := New(sender)
	ctx := context.Background()
	rec := &wire.Record{Name: "uart0", Index: 1}

	_, err := c.PullOp(ctx, rec, 2, make([]byte, wire.MaxPayload+1), nil)
	assert.ErrorIs(t, err, boundary.ErrTransport)
	assert.ErrorIs(t, err, ErrPayloadTooLarge)

	c.SetMaxPayload(16)
	_, err = c.PushOp(ctx, rec, 1, make([]byte, 17), nil)
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
	assert.Zero(t, c.Pending())
}

func TestTransportFailures(t *testing.T) {
	t.Run("send error", func(t *testing.T) {
		sender := mocks.NewMockSender(t)
		sender.EXPECT().Send(mock.Anything).Return(io.ErrClosedPipe)

		_, err := New(sender).InvokeOp(context.Background(), &wire.Record{}, 0, value.Void, nil)
		assert.ErrorIs(t, err, boundary.ErrTransport)
		assert.ErrorIs(t, err, io.ErrClosedPipe)
	})

	t.Run("timeout", func(t *testing.T) {
		sender := mocks.NewMockSender(t)
		sender.EXPECT().Send(mock.Anything).Return(nil)
		c := New(sender)
		c.SetTimeout(10 * time.Millisecond)

		_, err := c.InvokeOp(context.Background(), &wire.Record{}, 0, value.Void, nil)
		assert.ErrorIs(t, err, boundary.ErrTransport)
		assert.ErrorIs(t, err, ErrRequestTimeout)
		assert.Zero(t, c.Pending())
	})

	t.Run("context cancelled", func(t *testing.T) {
		sender := mocks.NewMockSender(t)
		sender.EXPECT().Send(mock.Anything).Return(nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := New(sender).PullOp(ctx, &wire.Record{}, 0, nil, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCloseFailsPending(t *testing.T) {
	sender := mocks.NewMockSender(t)
	sender.EXPECT().Send(mock.Anything).Return(nil)
	c := New(sender)

	errCh := make(chan error, 1)
	go func() {
		_, err := c.InvokeOp(context.Background(), &wire.Record{}, 0, value.Void, nil)
		errCh <- err
	}()

	require.Eventually(t, func() bool { return c.Pending() == 1 }, time.Second, time.Millisecond)
	require.NoError(t, c.Close())

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrClientClosed)
	case <-time.After(time.Second):
		t.Fatal("pending request not failed")
	}

	_, err := c.InvokeOp(context.Background(), &wire.Record{}, 0, value.Void, nil)
	assert.ErrorIs(t, err, ErrClientClosed)
	assert.NoError(t, c.Close())
}

func TestHandleResponseUnknownID(t *testing.T) {
	c := New(mocks.NewMockSender(t))
	assert.ErrorIs(t, c.HandleResponse(&wire.Response{MessageID: 77}), ErrUnexpectedReply)
}

type fakeReceiver struct {
	frames [][]byte
}

func (f *fakeReceiver) ReadLoop(_ context.Context, onMessage func([]byte)) error {
	for _, frame := range f.frames {
		onMessage(frame)
	}
	return errors.New("eof")
}

func TestRunClosesOnExit(t *testing.T) {
	garbage := []byte{0xff}
	stray, err := wire.EncodeResponse(&wire.Response{MessageID: 5})
	require.NoError(t, err)

	c := New(mocks.NewMockSender(t))
	err = c.Run(context.Background(), &fakeReceiver{frames: [][]byte{garbage, stray}})
	assert.EqualError(t, err, "eof")

	_, err = c.InvokeOp(context.Background(), &wire.Record{}, 0, value.Void, nil)
	assert.ErrorIs(t, err, ErrClientClosed)
}

type recordingLogger struct {
	events []log.Event
}

func (r *recordingLogger) Log(e log.Event) { r.events = append(r.events, e) }

func TestProtocolLogging(t *testing.T) {
	sender := mocks.NewMockSender(t)
	c := New(sender)
	rec := &recordingLogger{}
	c.SetProtocolLogger(rec, "board")

	sender.EXPECT().Send(mock.Anything).RunAndReturn(func(data []byte) error {
		req, err := wire.DecodeRequest(data)
		require.NoError(t, err)
		// Synchronous reply keeps the event order deterministic.
		return c.HandleResponse(&wire.Response{MessageID: req.MessageID})
	})

	_, err := c.InvokeOp(context.Background(), &wire.Record{Index: 1}, 2, value.Void, nil)
	require.NoError(t, err)

	require.Len(t, rec.events, 2)
	assert.Equal(t, log.DirectionOut, rec.events[0].Direction)
	assert.Equal(t, log.MessageTypeRequest, rec.events[0].Message.Type)
	assert.Equal(t, log.DirectionIn, rec.events[1].Direction)
	assert.Equal(t, log.MessageTypeResponse, rec.events[1].Message.Type)
	assert.Equal(t, "board", rec.events[1].Device)
	assert.Equal(t, log.LayerWire, rec.events[1].Layer)
}
