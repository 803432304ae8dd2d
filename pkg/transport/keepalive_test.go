package transport

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeepAliveConfigDefaults(t *testing.T) {
	cfg := KeepAliveConfig{}.withDefaults()
	assert.Equal(t, DefaultKeepAliveConfig(), cfg)
	assert.Equal(t, 50*time.Second, cfg.DetectionDelay())

	custom := KeepAliveConfig{PingInterval: time.Second, PongTimeout: 100 * time.Millisecond, MaxMissedPongs: 2}
	assert.Equal(t, 2100*time.Millisecond, custom.DetectionDelay())
}

func TestKeepAliveAnsweredPings(t *testing.T) {
	var ka *KeepAlive
	var pings atomic.Int32
	var timedOut atomic.Bool

	ka = NewKeepAlive(KeepAliveConfig{
		PingInterval:   10 * time.Millisecond,
		PongTimeout:    5 * time.Millisecond,
		MaxMissedPongs: 2,
	}, func(seq uint32) error {
		pings.Add(1)
		go ka.PongReceived(seq)
		return nil
	}, func() { timedOut.Store(true) })

	latencies := make(chan time.Duration, 16)
	ka.OnLatency(func(_ uint32, d time.Duration) {
		select {
		case latencies <- d:
		default:
		}
	})

	ka.Start(context.Background())
	defer ka.Stop()

	assert.Eventually(t, func() bool { return pings.Load() >= 4 }, time.Second, 5*time.Millisecond)
	assert.False(t, timedOut.Load())
	assert.True(t, ka.IsRunning())

	select {
	case <-latencies:
	case <-time.After(time.Second):
		t.Fatal("no latency reported")
	}
	assert.Zero(t, ka.Stats().MissedPongs)
}

func TestKeepAliveTimeout(t *testing.T) {
	done := make(chan struct{})
	ka := NewKeepAlive(KeepAliveConfig{
		PingInterval:   5 * time.Millisecond,
		PongTimeout:    time.Millisecond,
		MaxMissedPongs: 3,
	}, func(uint32) error { return nil }, func() { close(done) })

	ka.Start(context.Background())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("keep-alive never timed out")
	}
	assert.False(t, ka.IsRunning())
	stats := ka.Stats()
	assert.Equal(t, 3, stats.MissedPongs)
	assert.GreaterOrEqual(t, stats.CurrentSeq, uint32(3))
}

func TestKeepAliveIgnoresStalePong(t *testing.T) {
	sent := make(chan uint32, 8)
	ka := NewKeepAlive(KeepAliveConfig{PingInterval: time.Hour}, func(seq uint32) error {
		sent <- seq
		return nil
	}, nil)

	ka.Start(context.Background())
	defer ka.Stop()

	var seq uint32
	select {
	case seq = <-sent:
	case <-time.After(time.Second):
		t.Fatal("no initial ping")
	}

	ka.PongReceived(seq + 7)
	time.Sleep(10 * time.Millisecond)
	assert.True(t, ka.Stats().LastLatency == 0)

	ka.PongReceived(seq)
	require.Eventually(t, func() bool { return ka.Stats().LastLatency > 0 }, time.Second, time.Millisecond)
}

func TestKeepAliveStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var pings atomic.Int32
	ka := NewKeepAlive(KeepAliveConfig{PingInterval: time.Millisecond}, func(uint32) error {
		pings.Add(1)
		return nil
	}, nil)

	ka.Start(ctx)
	ka.Start(ctx)
	cancel()
	time.Sleep(20 * time.Millisecond)
	n := pings.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, n, pings.Load())
}
