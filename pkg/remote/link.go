package remote

import (
	"context"

	"github.com/wastevensv/flipper/pkg/arg"
	"github.com/wastevensv/flipper/pkg/boundary"
	"github.com/wastevensv/flipper/pkg/value"
	"github.com/wastevensv/flipper/pkg/wire"
)

var _ boundary.Link = (*Client)(nil)

// BindModule asks the device to resolve query.
func (c *Client) BindModule(ctx context.Context, query *wire.Record) (wire.Record, error) {
	q := query.Clone()
	resp, err := c.call(ctx, "dyld", &wire.Request{Class: wire.ClassDyld, Record: &q})
	if err != nil {
		return wire.Record{}, err
	}
	if resp.Record == nil {
		return wire.Record{}, boundary.NewTransportError("dyld", ErrUnexpectedReply)
	}
	return *resp.Record, nil
}

// InvokeOp runs function op of the module rec and returns the raw result word.
func (c *Client) InvokeOp(ctx context.Context, rec *wire.Record, op uint8, ret value.Type, args *arg.Chain) (uint64, error) {
	req := callRequest(wire.ClassExecute, rec, op, args)
	req.Return = ret
	resp, err := c.call(ctx, "invoke", req)
	if err != nil {
		return 0, boundary.NewCallError("invoke", err)
	}
	return resp.Value, nil
}

// PushOp runs function op with buf sent to the device.
func (c *Client) PushOp(ctx context.Context, rec *wire.Record, op uint8, buf []byte, args *arg.Chain) (uint64, error) {
	if err := c.checkPayload(len(buf)); err != nil {
		return 0, boundary.NewTransportError("push", err)
	}
	req := callRequest(wire.ClassPush, rec, op, args)
	req.Data = buf
	req.Length = uint32(len(buf))
	resp, err := c.call(ctx, "push", req)
	if err != nil {
		return 0, boundary.NewCallError("push", err)
	}
	return resp.Value, nil
}

// PullOp runs function op and copies the device's data into buf. buf is
// never resized; surplus returned bytes are dropped.
func (c *Client) PullOp(ctx context.Context, rec *wire.Record, op uint8, buf []byte, args *arg.Chain) (uint64, error) {
	if err := c.checkPayload(len(buf)); err != nil {
		return 0, boundary.NewTransportError("pull", err)
	}
	req := callRequest(wire.ClassPull, rec, op, args)
	req.Length = uint32(len(buf))
	resp, err := c.call(ctx, "pull", req)
	if err != nil {
		return 0, boundary.NewCallError("pull", err)
	}
	copy(buf, resp.Data)
	return resp.Value, nil
}

func callRequest(class wire.Class, rec *wire.Record, op uint8, args *arg.Chain) *wire.Request {
	return &wire.Request{
		Class:    class,
		Module:   rec.Index,
		Function: op,
		Types:    args.Types(),
		Args:     args.Words(),
	}
}

// call performs the round trip and maps failures onto the boundary errors.
// Device statuses come back as plain StatusErrors; the dispatch ops wrap
// them with boundary.NewCallError.
func (c *Client) call(ctx context.Context, op string, req *wire.Request) (*wire.Response, error) {
	resp, err := c.roundTrip(ctx, req)
	if err != nil {
		return nil, boundary.NewTransportError(op, err)
	}
	if !resp.IsSuccess() {
		return nil, &boundary.StatusError{Status: resp.Status, Message: resp.Message}
	}
	return resp, nil
}
