package log

import (
	"context"
	"log/slog"
)

// SlogAdapter echoes protocol events through an operational logger. Each
// event becomes one record whose payload fields sit in a group named after
// the payload: frame, message, state, control, call, bind or error.
type SlogAdapter struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogAdapter returns an adapter that logs at debug level.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger, level: slog.LevelDebug}
}

// WithLevel returns a copy of the adapter logging at level.
func (a *SlogAdapter) WithLevel(level slog.Level) *SlogAdapter {
	return &SlogAdapter{logger: a.logger, level: level}
}

// Log implements Logger.
func (a *SlogAdapter) Log(event Event) {
	ctx := context.Background()
	if !a.logger.Enabled(ctx, a.level) {
		return
	}

	attrs := make([]slog.Attr, 0, 8)
	attrs = append(attrs,
		slog.String("layer", event.Layer.String()),
		slog.String("direction", event.Direction.String()),
	)
	if event.ConnectionID != "" {
		attrs = append(attrs, slog.String("conn", event.ConnectionID))
	}
	if event.Device != "" {
		attrs = append(attrs, slog.String("device", event.Device))
	}
	if p, ok := payloadGroup(event); ok {
		attrs = append(attrs, p)
	}

	a.logger.LogAttrs(ctx, a.level, event.Category.String(), attrs...)
}

func payloadGroup(event Event) (slog.Attr, bool) {
	var (
		name string
		kv   []any
	)
	switch {
	case event.Call != nil:
		c := event.Call
		name = "call"
		kv = []any{
			"module", c.Module, "index", c.Index, "function", c.Function,
			"kind", c.Kind, "return", c.Return.String(), "argc", len(c.Args),
			"result", c.Result, "duration", c.Duration,
		}
		if c.Error != "" {
			kv = append(kv, "error", c.Error)
		}
	case event.Bind != nil:
		b := event.Bind
		name = "bind"
		kv = []any{"module", b.Module, "kind", b.Kind, "index", b.Index}
		if b.Identifier != 0 {
			kv = append(kv, "version", b.Version, "identifier", b.Identifier)
		}
		if b.Error != "" {
			kv = append(kv, "error", b.Error)
		}
	case event.Message != nil:
		m := event.Message
		name = "message"
		kv = []any{"type", m.Type.String(), "id", m.MessageID}
		if m.Class != nil {
			kv = append(kv, "class", m.Class.String())
		}
		if m.Module != nil {
			kv = append(kv, "module", *m.Module)
		}
		if m.Function != nil {
			kv = append(kv, "function", *m.Function)
		}
		if m.Record != nil {
			kv = append(kv, "record", m.Record.String())
		}
		if m.Status != nil {
			kv = append(kv, "status", m.Status.String())
		}
		if m.ProcessingTime != nil {
			kv = append(kv, "took", *m.ProcessingTime)
		}
	case event.Frame != nil:
		name = "frame"
		kv = []any{"size", event.Frame.Size, "truncated", event.Frame.Truncated}
	case event.ControlMsg != nil:
		name = "control"
		kv = []any{"type", event.ControlMsg.Type.String(), "seq", event.ControlMsg.Sequence}
	case event.StateChange != nil:
		s := event.StateChange
		name = "state"
		kv = []any{"entity", s.Entity.String(), "from", s.OldState, "to", s.NewState}
		if s.Reason != "" {
			kv = append(kv, "reason", s.Reason)
		}
	case event.Error != nil:
		e := event.Error
		name = "error"
		kv = []any{"layer", e.Layer.String(), "msg", e.Message}
		if e.Context != "" {
			kv = append(kv, "context", e.Context)
		}
		if e.Code != nil {
			kv = append(kv, "code", *e.Code)
		}
	default:
		return slog.Attr{}, false
	}
	return slog.Group(name, kv...), true
}

var _ Logger = (*SlogAdapter)(nil)
