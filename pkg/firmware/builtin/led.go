package builtin

import (
	"context"
	"sync"

	"github.com/wastevensv/flipper/pkg/firmware"
)

// LED is the RGB status LED.
type LED struct {
	mu         sync.Mutex
	configured bool
	r, g, b    uint8
}

// Color returns the current color.
func (l *LED) Color() (r, g, b uint8) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r, l.g, l.b
}

// Configured reports whether configure has run.
func (l *LED) Configured() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.configured
}

func (l *LED) handlers() map[string]firmware.Handler {
	return map[string]firmware.Handler{
		"configure": func(context.Context, *firmware.Call) (uint64, error) {
			l.mu.Lock()
			l.configured = true
			l.r, l.g, l.b = 0, 0, 0
			l.mu.Unlock()
			return 0, nil
		},
		"set_rgb": func(_ context.Context, c *firmware.Call) (uint64, error) {
			l.mu.Lock()
			l.r, l.g, l.b = uint8(c.Arg(0)), uint8(c.Arg(1)), uint8(c.Arg(2))
			l.mu.Unlock()
			return 0, nil
		},
	}
}
