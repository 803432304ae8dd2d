package dispatch

import (
	"context"

	"github.com/wastevensv/flipper/pkg/arg"
	"github.com/wastevensv/flipper/pkg/module"
	"github.com/wastevensv/flipper/pkg/value"
)

// InvokeAs calls function op of id and returns the result as T. The return
// type sent to the device is derived from T.
func InvokeAs[T value.Scalar](ctx context.Context, d *Dispatcher, id *module.Identity, op uint8, args ...arg.Arg) (T, error) {
	v, err := d.Invoke(ctx, id, op, value.TypeOf[T](), args...)
	if err != nil {
		var zero T
		return zero, err
	}
	return value.As[T](v), nil
}

// PushAs sends payload to function op of id and returns the result as T.
func PushAs[T value.Scalar](ctx context.Context, d *Dispatcher, id *module.Identity, op uint8, payload []byte, args ...arg.Arg) (T, error) {
	v, err := d.Push(ctx, id, op, value.TypeOf[T](), payload, args...)
	if err != nil {
		var zero T
		return zero, err
	}
	return value.As[T](v), nil
}

// PullAs fills payload from function op of id and returns the result as T.
func PullAs[T value.Scalar](ctx context.Context, d *Dispatcher, id *module.Identity, op uint8, payload []byte, args ...arg.Arg) (T, error) {
	v, err := d.Pull(ctx, id, op, value.TypeOf[T](), payload, args...)
	if err != nil {
		var zero T
		return zero, err
	}
	return value.As[T](v), nil
}
