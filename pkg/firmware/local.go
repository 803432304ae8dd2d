package firmware

import (
	"context"

	"github.com/wastevensv/flipper/pkg/arg"
	"github.com/wastevensv/flipper/pkg/boundary"
	"github.com/wastevensv/flipper/pkg/catalog"
	"github.com/wastevensv/flipper/pkg/value"
	"github.com/wastevensv/flipper/pkg/wire"
)

// Local is an in-process boundary.Link that calls a Table directly. Failures
// while running a function are reported the way a remote device reports them.
type Local struct {
	table *Table
}

var _ boundary.Link = (*Local)(nil)

// NewLocal creates a link to table.
func NewLocal(table *Table) *Local {
	return &Local{table: table}
}

// BindModule resolves query against the table.
func (l *Local) BindModule(_ context.Context, query *wire.Record) (wire.Record, error) {
	return l.table.Lookup(query)
}

// InvokeOp runs function op of the module rec.
func (l *Local) InvokeOp(ctx context.Context, rec *wire.Record, op uint8, ret value.Type, args *arg.Chain) (uint64, error) {
	v, err := l.table.Execute(ctx, rec.Index, localCall(catalog.KindInvoke, op, ret, args, nil))
	return v, boundary.NewCallError("invoke", err)
}

// PushOp runs function op with buf as its payload.
func (l *Local) PushOp(ctx context.Context, rec *wire.Record, op uint8, buf []byte, args *arg.Chain) (uint64, error) {
	v, err := l.table.Execute(ctx, rec.Index, localCall(catalog.KindPush, op, value.Void, args, buf))
	return v, boundary.NewCallError("push", err)
}

// PullOp runs function op, letting it fill buf in place.
func (l *Local) PullOp(ctx context.Context, rec *wire.Record, op uint8, buf []byte, args *arg.Chain) (uint64, error) {
	v, err := l.table.Execute(ctx, rec.Index, localCall(catalog.KindPull, op, value.Void, args, buf))
	return v, boundary.NewCallError("pull", err)
}

func localCall(kind catalog.Kind, op uint8, ret value.Type, args *arg.Chain, data []byte) *Call {
	return &Call{
		Function: op,
		Kind:     kind,
		Return:   ret,
		Types:    args.Types(),
		Args:     args.Words(),
		Data:     data,
	}
}
