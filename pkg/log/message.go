package log

import (
	"time"

	"github.com/wastevensv/flipper/pkg/wire"
)

// RequestEvent builds the wire-layer event for a request.
func RequestEvent(req *wire.Request) *MessageEvent {
	class := req.Class
	ev := &MessageEvent{
		Type:      MessageTypeRequest,
		MessageID: req.MessageID,
		Class:     &class,
		Length:    req.Length,
	}
	if req.Class == wire.ClassDyld {
		if req.Record != nil {
			rec := req.Record.Clone()
			ev.Record = &rec
		}
		return ev
	}
	module, function := req.Module, req.Function
	ev.Module = &module
	ev.Function = &function
	ev.Types = req.Types
	ev.Args = append([]uint64(nil), req.Args...)
	return ev
}

// ResponseEvent builds the wire-layer event for a response. A zero
// processing time is left out.
func ResponseEvent(resp *wire.Response, processing time.Duration) *MessageEvent {
	status := resp.Status
	ev := &MessageEvent{
		Type:      MessageTypeResponse,
		MessageID: resp.MessageID,
		Status:    &status,
		Length:    uint32(len(resp.Data)),
	}
	if resp.Record != nil {
		rec := resp.Record.Clone()
		ev.Record = &rec
	}
	if processing > 0 {
		ev.ProcessingTime = &processing
	}
	return ev
}
