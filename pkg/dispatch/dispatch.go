package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wastevensv/flipper/pkg/arg"
	"github.com/wastevensv/flipper/pkg/boundary"
	"github.com/wastevensv/flipper/pkg/catalog"
	"github.com/wastevensv/flipper/pkg/log"
	"github.com/wastevensv/flipper/pkg/module"
	"github.com/wastevensv/flipper/pkg/value"
	"github.com/wastevensv/flipper/pkg/wire"
)

// Dispatch errors.
var (
	ErrTooManyArgs       = errors.New("too many arguments")
	ErrInvalidType       = errors.New("invalid type tag")
	ErrSignatureMismatch = errors.New("call does not match function signature")
	ErrUnknownFunction   = errors.New("function not in signature table")
)

// Config configures a Dispatcher.
type Config struct {
	// Width is the word width arguments are truncated to: arg.Width32 or
	// arg.Width64. Zero means 64; New panics on anything else.
	Width arg.Width

	// Logger receives debug messages. Nil uses slog.Default().
	Logger *slog.Logger

	// ProtocolLogger receives a CallEvent per call. Nil disables it.
	ProtocolLogger log.Logger

	// Strict rejects calls to functions missing from the identity's
	// signature table. Identities without a table are never checked.
	Strict bool
}

// DefaultConfig returns a configuration for 64-bit words without protocol
// logging.
func DefaultConfig() Config {
	return Config{Width: arg.Width64}
}

// Dispatcher performs calls on bound modules.
type Dispatcher struct {
	width  arg.Width
	logger *slog.Logger
	plog   log.Logger
	strict bool
}

// New creates a Dispatcher.
func New(cfg Config) *Dispatcher {
	d := &Dispatcher{
		width:  cfg.Width,
		logger: cfg.Logger,
		plog:   cfg.ProtocolLogger,
		strict: cfg.Strict,
	}
	if d.width == 0 {
		d.width = arg.Width64
	}
	if !d.width.IsValid() {
		panic(fmt.Sprintf("dispatch: invalid word width %d", d.width))
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// Width returns the word width arguments are truncated to.
func (d *Dispatcher) Width() arg.Width { return d.width }

// Invoke calls function op of id and decodes the result as ret.
func (d *Dispatcher) Invoke(ctx context.Context, id *module.Identity, op uint8, ret value.Type, args ...arg.Arg) (value.Value, error) {
	return d.call(ctx, catalog.KindInvoke, id, op, ret, nil, args)
}

// Push sends payload to function op of id and decodes the result as ret.
// The payload is not modified.
func (d *Dispatcher) Push(ctx context.Context, id *module.Identity, op uint8, ret value.Type, payload []byte, args ...arg.Arg) (value.Value, error) {
	return d.call(ctx, catalog.KindPush, id, op, ret, payload, args)
}

// Pull fills payload from function op of id and decodes the result as ret.
// The device writes into payload in place; its length is not changed.
func (d *Dispatcher) Pull(ctx context.Context, id *module.Identity, op uint8, ret value.Type, payload []byte, args ...arg.Arg) (value.Value, error) {
	return d.call(ctx, catalog.KindPull, id, op, ret, payload, args)
}

// InvokeVoid calls function op of id and discards the result.
func (d *Dispatcher) InvokeVoid(ctx context.Context, id *module.Identity, op uint8, args ...arg.Arg) error {
	_, err := d.Invoke(ctx, id, op, value.Void, args...)
	return err
}

// PushVoid sends payload to function op of id and discards the result.
func (d *Dispatcher) PushVoid(ctx context.Context, id *module.Identity, op uint8, payload []byte, args ...arg.Arg) error {
	_, err := d.Push(ctx, id, op, value.Void, payload, args...)
	return err
}

// PullVoid fills payload from function op of id and discards the result.
func (d *Dispatcher) PullVoid(ctx context.Context, id *module.Identity, op uint8, payload []byte, args ...arg.Arg) error {
	_, err := d.Pull(ctx, id, op, value.Void, payload, args...)
	return err
}

func (d *Dispatcher) call(ctx context.Context, kind catalog.Kind, id *module.Identity, op uint8, ret value.Type, payload []byte, args []arg.Arg) (value.Value, error) {
	if !id.IsBound() {
		return value.Value{}, boundary.ErrNotBound
	}
	if err := d.check(kind, id, op, ret, args); err != nil {
		return value.Value{}, err
	}

	link, err := id.Device().Link()
	if err != nil {
		return value.Value{}, err
	}

	chain := arg.Encode(d.width, args...)
	defer chain.Release()

	rec := id.Record()
	start := time.Now()

	var raw uint64
	switch kind {
	case catalog.KindPush:
		raw, err = link.PushOp(ctx, &rec, op, payload, chain)
	case catalog.KindPull:
		raw, err = link.PullOp(ctx, &rec, op, payload, chain)
	default:
		raw, err = link.InvokeOp(ctx, &rec, op, ret, chain)
	}

	d.report(kind, &rec, op, ret, chain, len(payload), raw, err, time.Since(start))
	if err != nil {
		return value.Value{}, err
	}
	return value.Decode(raw, ret), nil
}

// check validates the call against the tag set and, if the identity carries
// one, its signature table.
func (d *Dispatcher) check(kind catalog.Kind, id *module.Identity, op uint8, ret value.Type, args []arg.Arg) error {
	if len(args) > arg.MaxArgs {
		return fmt.Errorf("%w: %d > %d", ErrTooManyArgs, len(args), arg.MaxArgs)
	}
	if !ret.IsValid() {
		return fmt.Errorf("%w: return 0x%x", ErrInvalidType, uint8(ret))
	}
	for i, a := range args {
		if !a.Type.IsValid() || a.Type == value.Void {
			return fmt.Errorf("%w: arg %d has tag 0x%x", ErrInvalidType, i, uint8(a.Type))
		}
	}

	if id.Signatures() == nil {
		return nil
	}
	sig, ok := id.Signature(op)
	if !ok {
		if d.strict {
			return fmt.Errorf("%w: %s op %d", ErrUnknownFunction, id.Name(), op)
		}
		return nil
	}
	if sig.Kind != kind {
		return fmt.Errorf("%w: %s.%s is %s, called as %s", ErrSignatureMismatch, id.Name(), sig.Name, sig.Kind, kind)
	}
	if sig.Return != ret {
		return fmt.Errorf("%w: %s.%s returns %s, caller expects %s", ErrSignatureMismatch, id.Name(), sig.Name, sig.Return, ret)
	}
	types := make([]value.Type, len(args))
	for i, a := range args {
		types[i] = a.Type
	}
	if !sig.Accepts(types) {
		return fmt.Errorf("%w: %s.%s takes %v, got %v", ErrSignatureMismatch, id.Name(), sig.Name, sig.Params, types)
	}
	return nil
}

func (d *Dispatcher) report(kind catalog.Kind, rec *wire.Record, op uint8, ret value.Type, chain *arg.Chain, length int, raw uint64, err error, dur time.Duration) {
	if err != nil {
		d.logger.Debug("module call failed", "module", rec.Name, "op", op, "kind", kind, "error", err)
	} else {
		d.logger.Debug("module call", "module", rec.Name, "op", op, "kind", kind, "argc", chain.Len(), "duration", dur)
	}

	if d.plog == nil {
		return
	}
	event := &log.CallEvent{
		Module:   rec.Name,
		Index:    rec.Index,
		Function: op,
		Kind:     kind.String(),
		Return:   ret,
		Types:    chain.Types(),
		Args:     chain.Words(),
		Length:   length,
		Result:   raw,
		Duration: dur,
	}
	if err != nil {
		event.Error = err.Error()
	}
	d.plog.Log(log.Event{
		Timestamp: time.Now(),
		Layer:     log.LayerCore,
		Category:  log.CategoryCall,
		Call:      event,
	})
}
