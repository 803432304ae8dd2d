package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffSequence(t *testing.T) {
	b := NewBackoff(BackoffConfig{Initial: time.Second, Max: 5 * time.Second, Multiplier: 2, Jitter: -1})

	want := []time.Duration{1, 2, 4, 5, 5}
	for i, w := range want {
		assert.Equal(t, w*time.Second, b.Next(), "attempt %d", i)
	}
	assert.Equal(t, 5, b.Attempts())

	b.Reset()
	assert.Equal(t, time.Second, b.Current())
	assert.Zero(t, b.Attempts())
}

func TestBackoffJitterBounds(t *testing.T) {
	b := NewBackoff(BackoffConfig{Initial: 100 * time.Millisecond, Jitter: 0.5})
	for range 20 {
		b.Reset()
		d := b.Next()
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}
}

func TestBackoffDefaults(t *testing.T) {
	b := NewBackoff(BackoffConfig{})
	assert.Equal(t, DefaultInitialBackoff, b.Current())
	assert.Equal(t, DefaultBackoffConfig().Max, b.cfg.Max)
	assert.Equal(t, DefaultBackoffMultiplier, b.cfg.Multiplier)
}
