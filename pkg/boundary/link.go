package boundary

import (
	"context"

	"github.com/wastevensv/flipper/pkg/arg"
	"github.com/wastevensv/flipper/pkg/value"
	"github.com/wastevensv/flipper/pkg/wire"
)

// Link is the device-side call boundary.
//
// Implementations report I/O failures as *TransportError and device status
// errors as *StatusError. Callers propagate both unchanged.
type Link interface {
	// BindModule looks up the module described by query on the device and
	// returns the device's live record for it, including its dispatch index.
	BindModule(ctx context.Context, query *wire.Record) (wire.Record, error)

	// InvokeOp calls function op of the module and returns the raw result
	// word. ret tells the device how wide the result is.
	InvokeOp(ctx context.Context, rec *wire.Record, op uint8, ret value.Type, args *arg.Chain) (uint64, error)

	// PushOp sends buf to function op of the module. buf is not modified.
	PushOp(ctx context.Context, rec *wire.Record, op uint8, buf []byte, args *arg.Chain) (uint64, error)

	// PullOp fills buf from function op of the module. The length of buf is
	// never changed.
	PullOp(ctx context.Context, rec *wire.Record, op uint8, buf []byte, args *arg.Chain) (uint64, error)
}
