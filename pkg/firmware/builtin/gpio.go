package builtin

import (
	"context"
	"sync"

	"github.com/wastevensv/flipper/pkg/firmware"
)

// GPIO is a 32-pin IO bank. Writes only affect enabled pins.
type GPIO struct {
	mu      sync.Mutex
	enabled uint32
	level   uint32
}

// State returns the enabled pin mask and the pin levels.
func (g *GPIO) State() (enabled, level uint32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.enabled, g.level
}

func (g *GPIO) handlers() map[string]firmware.Handler {
	return map[string]firmware.Handler{
		"enable": func(_ context.Context, c *firmware.Call) (uint64, error) {
			g.mu.Lock()
			g.enabled = (g.enabled | uint32(c.Arg(0))) &^ uint32(c.Arg(1))
			g.level &= g.enabled
			g.mu.Unlock()
			return 0, nil
		},
		"write": func(_ context.Context, c *firmware.Call) (uint64, error) {
			g.mu.Lock()
			g.level = (g.level | uint32(c.Arg(0))&g.enabled) &^ uint32(c.Arg(1))
			g.mu.Unlock()
			return 0, nil
		},
		"read": func(_ context.Context, c *firmware.Call) (uint64, error) {
			g.mu.Lock()
			defer g.mu.Unlock()
			return uint64(g.level & uint32(c.Arg(0))), nil
		},
	}
}
