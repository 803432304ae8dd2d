package firmware

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wastevensv/flipper/pkg/boundary"
	"github.com/wastevensv/flipper/pkg/catalog"
	"github.com/wastevensv/flipper/pkg/log"
	"github.com/wastevensv/flipper/pkg/transport"
	"github.com/wastevensv/flipper/pkg/wire"
)

// ServerConfig configures a Server.
type ServerConfig struct {
	// Device names the device in log output.
	Device string

	// Logger for operational messages (default: slog.Default()).
	Logger *slog.Logger

	// ProtocolLogger receives request and response events (optional).
	ProtocolLogger log.Logger

	// MaxPayload bounds push and pull data (default: wire.MaxPayload).
	MaxPayload int
}

// Server answers wire requests against a Table.
type Server struct {
	table    *Table
	device   string
	logger   *slog.Logger
	protocol log.Logger
	payload  int
}

// Sender writes an encoded response.
type Sender interface {
	Send(data []byte) error
}

// NewServer creates a server for table.
func NewServer(table *Table, cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	payload := cfg.MaxPayload
	if payload <= 0 {
		payload = wire.MaxPayload
	}
	return &Server{
		table:    table,
		device:   cfg.Device,
		logger:   logger,
		protocol: cfg.ProtocolLogger,
		payload:  payload,
	}
}

// Table returns the module table the server answers from.
func (s *Server) Table() *Table { return s.table }

// HandleRequest executes req and builds its response.
func (s *Server) HandleRequest(ctx context.Context, req *wire.Request) *wire.Response {
	resp := &wire.Response{MessageID: req.MessageID}

	var err error
	switch req.Class {
	case wire.ClassDyld:
		if req.Record == nil {
			err = &boundary.StatusError{Status: wire.StatusInvalidArguments, Message: "dyld without record"}
			break
		}
		var rec wire.Record
		rec, err = s.table.Lookup(req.Record)
		if err == nil {
			resp.Record = &rec
		}
	case wire.ClassExecute, wire.ClassPush, wire.ClassPull:
		if err = s.checkPayload(req); err != nil {
			break
		}
		call := &Call{
			Function: req.Function,
			Kind:     kindOf(req.Class),
			Return:   req.Return,
			Types:    req.Types,
			Args:     req.Args,
		}
		switch req.Class {
		case wire.ClassPush:
			call.Data = req.Data
		case wire.ClassPull:
			call.Data = make([]byte, req.Length)
		}
		resp.Value, err = s.table.Execute(ctx, req.Module, call)
		if err == nil && req.Class == wire.ClassPull {
			resp.Data = call.Data
		}
	default:
		err = &boundary.StatusError{Status: wire.StatusUnsupported, Message: req.Class.String()}
	}

	if err != nil {
		resp.Status = boundary.StatusOf(err)
		resp.Message = err.Error()
		resp.Value = 0
		s.logger.Debug("request failed",
			"class", req.Class.String(), "module", req.Module, "function", req.Function, "error", err)
	}
	return resp
}

// HandleFrame decodes one request frame, executes it and sends the encoded
// response through out. Undecodable frames are dropped.
func (s *Server) HandleFrame(ctx context.Context, out Sender, data []byte) {
	start := time.Now()
	req, err := wire.DecodeRequest(data)
	if err != nil {
		s.logger.Warn("dropping undecodable frame", "error", err, "size", len(data))
		return
	}
	s.logMessage(log.DirectionIn, log.RequestEvent(req))

	resp := s.HandleRequest(ctx, req)
	if err := s.send(out, resp); err != nil {
		s.logger.Warn("failed to send response", "messageId", resp.MessageID, "error", err)
		// The host is still waiting; answer with the failure instead.
		resp = &wire.Response{MessageID: req.MessageID, Status: wire.StatusFailed, Message: err.Error()}
		if err := s.send(out, resp); err != nil {
			s.logger.Error("failed to send error response", "messageId", resp.MessageID, "error", err)
			return
		}
	}
	s.logMessage(log.DirectionOut, log.ResponseEvent(resp, time.Since(start)))
}

func (s *Server) send(out Sender, resp *wire.Response) error {
	encoded, err := wire.EncodeResponse(resp)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return out.Send(encoded)
}

// checkPayload rejects push and pull data that cannot fit one frame.
func (s *Server) checkPayload(req *wire.Request) error {
	n := len(req.Data)
	if req.Class == wire.ClassPull {
		n = int(req.Length)
	}
	if n > s.payload {
		return &boundary.StatusError{
			Status:  wire.StatusInvalidArguments,
			Message: fmt.Sprintf("%s of %d bytes exceeds %d", req.Class, n, s.payload),
		}
	}
	return nil
}

// ServeConn answers requests from conn until it closes or ctx is done.
func (s *Server) ServeConn(ctx context.Context, conn *transport.Conn) error {
	s.logger.Info("serving host", "conn", conn.ID(), "remote", conn.RemoteAddr().String())
	err := conn.ReadLoop(ctx, func(data []byte) {
		s.HandleFrame(ctx, conn, data)
	})
	if err != nil {
		return fmt.Errorf("serve %s: %w", conn.ID(), err)
	}
	return nil
}

func (s *Server) logMessage(dir log.Direction, ev *log.MessageEvent) {
	if s.protocol == nil {
		return
	}
	s.protocol.Log(log.Event{
		Timestamp: time.Now(),
		Direction: dir,
		Layer:     log.LayerWire,
		Category:  log.CategoryMessage,
		LocalRole: log.RoleDevice,
		Device:    s.device,
		Message:   ev,
	})
}

func kindOf(c wire.Class) catalog.Kind {
	switch c {
	case wire.ClassPush:
		return catalog.KindPush
	case wire.ClassPull:
		return catalog.KindPull
	default:
		return catalog.KindInvoke
	}
}
