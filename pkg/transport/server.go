package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/wastevensv/flipper/pkg/log"
)

// DefaultPort is the default device listen port.
const DefaultPort = 5470

// ServerConfig configures a device-side server.
type ServerConfig struct {
	// Address to listen on (e.g., ":5470" or "127.0.0.1:0").
	Address string

	// MaxMessageSize is the maximum message size (default: 64KB).
	MaxMessageSize uint32

	// KeepAlive, when set, pings every accepted host.
	KeepAlive *KeepAliveConfig

	// Logger for operational messages (default: slog.Default()).
	Logger *slog.Logger

	// ProtocolLogger receives protocol events (optional).
	ProtocolLogger log.Logger

	// OnConnect is called when a new connection is established.
	OnConnect func(conn *Conn)

	// OnDisconnect is called when a connection is closed.
	OnDisconnect func(conn *Conn)

	// OnMessage is called for every non-control frame. Frames from one
	// connection are delivered in order on that connection's goroutine.
	OnMessage func(conn *Conn, msg []byte)

	// OnError is called when an error occurs. conn is nil for accept errors.
	OnError func(conn *Conn, err error)
}

// Server accepts host connections over TCP.
type Server struct {
	config   ServerConfig
	logger   *slog.Logger
	listener net.Listener

	conns   map[*Conn]struct{}
	connsMu sync.RWMutex

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewServer creates a server. It does not listen until Start.
func NewServer(config ServerConfig) *Server {
	if config.Address == "" {
		config.Address = fmt.Sprintf(":%d", DefaultPort)
	}
	if config.MaxMessageSize == 0 {
		config.MaxMessageSize = DefaultMaxMessageSize
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config: config,
		logger: logger,
		conns:  make(map[*Conn]struct{}),
	}
}

// Start listens and begins accepting connections.
func (s *Server) Start(ctx context.Context) error {
	if s.running.Load() {
		return errors.New("server already running")
	}

	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.listener = listener
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.running.Store(true)

	s.logger.Info("listening", "addr", listener.Addr().String())

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Stop closes the listener and every connection, then waits for the
// connection goroutines to finish.
func (s *Server) Stop() error {
	if !s.running.Swap(false) {
		return nil
	}
	s.cancel()
	s.listener.Close()

	s.connsMu.RLock()
	for conn := range s.conns {
		conn.Close()
	}
	s.connsMu.RUnlock()

	s.wg.Wait()
	return nil
}

// Addr returns the listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// ConnectionCount returns the number of active connections.
func (s *Server) ConnectionCount() int {
	s.connsMu.RLock()
	defer s.connsMu.RUnlock()
	return len(s.conns)
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		nc, err := s.listener.Accept()
		if err != nil {
			if !s.running.Load() {
				return
			}
			s.reportError(nil, fmt.Errorf("accept: %w", err))
			if errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}

		s.wg.Add(1)
		go s.serve(nc)
	}
}

func (s *Server) serve(nc net.Conn) {
	defer s.wg.Done()

	conn := NewConn(nc, ConnOptions{
		MaxMessageSize: s.config.MaxMessageSize,
		Logger:         s.config.ProtocolLogger,
		Role:           log.RoleDevice,
	})

	s.connsMu.Lock()
	s.conns[conn] = struct{}{}
	s.connsMu.Unlock()

	s.logger.Info("host connected", "conn", conn.ID(), "remote", nc.RemoteAddr().String())
	if s.config.OnConnect != nil {
		s.config.OnConnect(conn)
	}
	if s.config.KeepAlive != nil {
		conn.StartKeepAlive(s.ctx, *s.config.KeepAlive, func() {
			s.logger.Warn("host stopped answering pings", "conn", conn.ID())
		})
	}

	err := conn.ReadLoop(s.ctx, func(msg []byte) {
		if s.config.OnMessage != nil {
			s.config.OnMessage(conn, msg)
		}
	})
	if err != nil && s.running.Load() {
		s.reportError(conn, err)
	}

	s.connsMu.Lock()
	delete(s.conns, conn)
	s.connsMu.Unlock()

	s.logger.Info("host disconnected", "conn", conn.ID())
	if s.config.OnDisconnect != nil {
		s.config.OnDisconnect(conn)
	}
}

func (s *Server) reportError(conn *Conn, err error) {
	attrs := []any{"error", err}
	if conn != nil {
		attrs = append(attrs, "conn", conn.ID())
	}
	s.logger.Warn("transport error", attrs...)
	if s.config.OnError != nil {
		s.config.OnError(conn, err)
	}
}
