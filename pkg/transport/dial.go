package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/wastevensv/flipper/pkg/log"
)

// DefaultDialTimeout bounds a single connection attempt.
const DefaultDialTimeout = 5 * time.Second

// DialConfig configures Dial.
type DialConfig struct {
	// Timeout bounds each attempt (default: DefaultDialTimeout).
	Timeout time.Duration `yaml:"timeout"`

	// Retries is how many more attempts follow a failed first one.
	Retries int `yaml:"retries"`

	// Backoff spaces the retries.
	Backoff BackoffConfig `yaml:"backoff"`

	// MaxMessageSize bounds frame payloads (default: 64KB).
	MaxMessageSize uint32 `yaml:"max_message_size"`

	// Logger for operational messages (default: slog.Default()).
	Logger *slog.Logger `yaml:"-"`

	// ProtocolLogger receives protocol events (optional).
	ProtocolLogger log.Logger `yaml:"-"`
}

// Dial connects to a device at addr, retrying with backoff. It gives up
// when the retries are spent or ctx is done.
func Dial(ctx context.Context, addr string, cfg DialConfig) (*Conn, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultDialTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dialer := net.Dialer{Timeout: cfg.Timeout}
	backoff := NewBackoff(cfg.Backoff)

	for attempt := 0; ; attempt++ {
		nc, err := dialer.DialContext(ctx, "tcp", addr)
		if err == nil {
			logger.Debug("connected", "addr", addr, "attempts", attempt+1)
			return NewConn(nc, ConnOptions{
				MaxMessageSize: cfg.MaxMessageSize,
				Logger:         cfg.ProtocolLogger,
				Role:           log.RoleHost,
			}), nil
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("dial %s: %w", addr, ctx.Err())
		}
		if attempt >= cfg.Retries {
			return nil, fmt.Errorf("dial %s: %w", addr, err)
		}

		delay := backoff.Next()
		logger.Warn("dial failed, retrying", "addr", addr, "error", err, "delay", delay)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("dial %s: %w", addr, ctx.Err())
		case <-timer.C:
		}
	}
}
