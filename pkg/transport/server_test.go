package transport

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startEchoServer(t *testing.T, disconnects *atomic.Int32) *Server {
	t.Helper()
	srv := NewServer(ServerConfig{
		Address: "127.0.0.1:0",
		OnMessage: func(conn *Conn, msg []byte) {
			conn.Send(msg)
		},
		OnDisconnect: func(*Conn) {
			if disconnects != nil {
				disconnects.Add(1)
			}
		},
	})
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(func() { srv.Stop() })
	return srv
}

func TestServerEcho(t *testing.T) {
	var disconnects atomic.Int32
	srv := startEchoServer(t, &disconnects)

	conn, err := Dial(context.Background(), srv.Addr().String(), DialConfig{})
	require.NoError(t, err)

	require.NoError(t, conn.Send([]byte("echo me")))
	msg, err := conn.Receive(time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte("echo me"), msg)
	assert.Eventually(t, func() bool { return srv.ConnectionCount() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return srv.ConnectionCount() == 0 }, time.Second, time.Millisecond)
	assert.Eventually(t, func() bool { return disconnects.Load() == 1 }, time.Second, time.Millisecond)
}

func TestServerStartTwice(t *testing.T) {
	srv := startEchoServer(t, nil)
	assert.Error(t, srv.Start(context.Background()))
}

func TestServerStopClosesConnections(t *testing.T) {
	srv := NewServer(ServerConfig{Address: "127.0.0.1:0"})
	assert.Nil(t, srv.Addr())
	require.NoError(t, srv.Start(context.Background()))

	conn, err := Dial(context.Background(), srv.Addr().String(), DialConfig{})
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return srv.ConnectionCount() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, srv.Stop())
	assert.Zero(t, srv.ConnectionCount())
	require.NoError(t, srv.Stop())

	_, err = conn.Receive(time.Second)
	assert.Error(t, err)
}

func closedAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestDialRetriesThenFails(t *testing.T) {
	start := time.Now()
	_, err := Dial(context.Background(), closedAddr(t), DialConfig{
		Retries: 2,
		Backoff: BackoffConfig{Initial: 10 * time.Millisecond, Jitter: -1},
	})
	assert.Error(t, err)
	// Two waits: 10ms then 20ms.
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestDialStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := Dial(ctx, closedAddr(t), DialConfig{
		Retries: 100,
		Backoff: BackoffConfig{Initial: time.Hour},
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
