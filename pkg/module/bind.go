package module

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wastevensv/flipper/pkg/boundary"
	"github.com/wastevensv/flipper/pkg/device"
	"github.com/wastevensv/flipper/pkg/log"
)

// Bind errors.
var (
	ErrNilIdentity  = errors.New("nil module identity")
	ErrAlreadyBound = errors.New("module already bound")
)

// Binder binds identities and reports each attempt to its loggers.
type Binder struct {
	// Logger receives debug messages. Nil uses slog.Default().
	Logger *slog.Logger

	// ProtocolLogger receives a BindEvent per attempt. Nil disables it.
	ProtocolLogger log.Logger
}

var defaultBinder Binder

// Bind binds id to the device behind ref using a Binder without a protocol
// logger.
func Bind(ctx context.Context, id *Identity, ref device.Ref) (*Identity, error) {
	return defaultBinder.Bind(ctx, id, ref)
}

// Bind asks the device for the module described by id and returns a bound
// copy of it. id itself is never modified, so a failed bind can be retried.
//
// The device looks the module up by name, or by identifier when the name is
// empty. A non-zero local version or identifier must match the device's;
// zero values adopt the device's.
func (b *Binder) Bind(ctx context.Context, id *Identity, ref device.Ref) (*Identity, error) {
	if id == nil {
		return nil, ErrNilIdentity
	}
	if id.bound {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyBound, id.record.Name)
	}

	start := time.Now()
	bound, err := b.bind(ctx, id, ref)
	b.report(id, ref, bound, err, time.Since(start))
	return bound, err
}

func (b *Binder) bind(ctx context.Context, id *Identity, ref device.Ref) (*Identity, error) {
	if id.invalid != nil {
		return nil, id.invalid
	}
	link, err := ref.Link()
	if err != nil {
		return nil, err
	}

	query := id.record.Clone()
	reported, err := link.BindModule(ctx, &query)
	if err != nil {
		return nil, err
	}

	if id.record.Version != 0 && id.record.Version != reported.Version {
		return nil, fmt.Errorf("%w: %s has version %d, device reports %d",
			boundary.ErrVersionMismatch, id.record.Name, id.record.Version, reported.Version)
	}
	if id.record.Identifier != 0 && id.record.Identifier != reported.Identifier {
		return nil, fmt.Errorf("%w: %s has identifier 0x%08x, device reports 0x%08x",
			boundary.ErrVersionMismatch, id.record.Name, id.record.Identifier, reported.Identifier)
	}
	return id.bindTo(reported, ref), nil
}

func (b *Binder) report(id *Identity, ref device.Ref, bound *Identity, err error, d time.Duration) {
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}

	event := &log.BindEvent{
		Module:     id.record.Name,
		Kind:       id.kind.String(),
		Version:    id.record.Version,
		Identifier: id.record.Identifier,
		Device:     ref.ID(),
		Index:      id.record.Index,
		Duration:   d,
	}
	if err != nil {
		event.Error = err.Error()
		logger.Debug("module bind failed", "module", id.record.Name, "device", ref, "error", err)
	} else {
		event.Index = bound.record.Index
		event.Version = bound.record.Version
		event.Identifier = bound.record.Identifier
		logger.Debug("module bound", "module", id.record.Name, "device", ref, "index", bound.record.Index)
	}

	if b.ProtocolLogger != nil {
		b.ProtocolLogger.Log(log.Event{
			Timestamp: time.Now(),
			Layer:     log.LayerCore,
			Category:  log.CategoryBind,
			Bind:      event,
		})
	}
}
