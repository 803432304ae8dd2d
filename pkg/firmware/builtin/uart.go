package builtin

import (
	"context"
	"sync"

	"github.com/wastevensv/flipper/pkg/boundary"
	"github.com/wastevensv/flipper/pkg/firmware"
	"github.com/wastevensv/flipper/pkg/wire"
)

// DefaultUARTBuffer is the loopback buffer size of a new UART.
const DefaultUARTBuffer = 1024

// UART is a loopback serial port: bytes written come back on read.
type UART struct {
	mu       sync.Mutex
	enabled  bool
	capacity int
	buf      []byte
}

// NewUART creates a disabled UART with a loopback buffer of capacity bytes.
func NewUART(capacity int) *UART {
	return &UART{capacity: capacity}
}

// Buffered returns the number of bytes waiting to be read.
func (u *UART) Buffered() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.buf)
}

var (
	errUARTDisabled = &boundary.StatusError{Status: wire.StatusFailed, Message: "uart0 disabled"}
	errUARTFull     = &boundary.StatusError{Status: wire.StatusBusy, Message: "uart0 buffer full"}
	errUARTEmpty    = &boundary.StatusError{Status: wire.StatusBusy, Message: "uart0 buffer empty"}
)

func (u *UART) write(p []byte) error {
	if !u.enabled {
		return errUARTDisabled
	}
	if len(u.buf)+len(p) > u.capacity {
		return errUARTFull
	}
	u.buf = append(u.buf, p...)
	return nil
}

func (u *UART) handlers() map[string]firmware.Handler {
	locked := func(fn func(c *firmware.Call) (uint64, error)) firmware.Handler {
		return func(_ context.Context, c *firmware.Call) (uint64, error) {
			u.mu.Lock()
			defer u.mu.Unlock()
			return fn(c)
		}
	}

	return map[string]firmware.Handler{
		"configure": locked(func(*firmware.Call) (uint64, error) {
			u.buf = u.buf[:0]
			return 0, nil
		}),
		"enable": locked(func(*firmware.Call) (uint64, error) {
			u.enabled = true
			return 0, nil
		}),
		"disable": locked(func(*firmware.Call) (uint64, error) {
			u.enabled = false
			return 0, nil
		}),
		"ready": locked(func(*firmware.Call) (uint64, error) {
			if u.enabled && len(u.buf) > 0 {
				return 1, nil
			}
			return 0, nil
		}),
		"put": locked(func(c *firmware.Call) (uint64, error) {
			return 0, u.write([]byte{byte(c.Arg(0))})
		}),
		"get": locked(func(*firmware.Call) (uint64, error) {
			if !u.enabled {
				return 0, errUARTDisabled
			}
			if len(u.buf) == 0 {
				return 0, errUARTEmpty
			}
			b := u.buf[0]
			u.buf = u.buf[1:]
			return uint64(b), nil
		}),
		"push": locked(func(c *firmware.Call) (uint64, error) {
			return 0, u.write(c.Data)
		}),
		"pull": locked(func(c *firmware.Call) (uint64, error) {
			if !u.enabled {
				return 0, errUARTDisabled
			}
			// Missing bytes are left zero.
			n := copy(c.Data, u.buf)
			u.buf = u.buf[n:]
			return 0, nil
		}),
	}
}
