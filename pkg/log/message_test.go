package log

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastevensv/flipper/pkg/wire"
)

func TestRequestEvent(t *testing.T) {
	ev := RequestEvent(&wire.Request{
		MessageID: 4,
		Class:     wire.ClassPush,
		Module:    1,
		Function:  6,
		Types:     0x3,
		Args:      []uint64{9},
		Data:      []byte{1, 2},
		Length:    2,
	})

	assert.Equal(t, MessageTypeRequest, ev.Type)
	require.NotNil(t, ev.Class)
	assert.Equal(t, wire.ClassPush, *ev.Class)
	require.NotNil(t, ev.Module)
	assert.Equal(t, int32(1), *ev.Module)
	assert.Equal(t, uint8(6), *ev.Function)
	assert.Equal(t, []uint64{9}, ev.Args)
	assert.Equal(t, uint32(2), ev.Length)
	assert.Nil(t, ev.Record)
}

func TestRequestEventDyld(t *testing.T) {
	rec := &wire.Record{Name: "gpio", Index: -1}
	ev := RequestEvent(&wire.Request{MessageID: 1, Class: wire.ClassDyld, Record: rec})

	assert.Nil(t, ev.Module)
	assert.Nil(t, ev.Function)
	require.NotNil(t, ev.Record)
	assert.Equal(t, "gpio", ev.Record.Name)

	rec.Name = "changed"
	assert.Equal(t, "gpio", ev.Record.Name)
}

func TestResponseEvent(t *testing.T) {
	ev := ResponseEvent(&wire.Response{MessageID: 4, Status: wire.StatusBusy, Data: make([]byte, 16)}, 0)
	assert.Equal(t, MessageTypeResponse, ev.Type)
	require.NotNil(t, ev.Status)
	assert.Equal(t, wire.StatusBusy, *ev.Status)
	assert.Equal(t, uint32(16), ev.Length)
	assert.Nil(t, ev.ProcessingTime)

	ev = ResponseEvent(&wire.Response{MessageID: 5}, time.Millisecond)
	require.NotNil(t, ev.ProcessingTime)
	assert.Equal(t, time.Millisecond, *ev.ProcessingTime)
}
