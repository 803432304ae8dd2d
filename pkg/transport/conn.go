package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/wastevensv/flipper/pkg/log"
	"github.com/wastevensv/flipper/pkg/wire"
)

// ErrConnClosed is returned by operations on a closed connection.
var ErrConnClosed = errors.New("connection closed")

// ConnOptions configures a Conn.
type ConnOptions struct {
	// MaxMessageSize bounds frame payloads (default: 64KB).
	MaxMessageSize uint32

	// Logger receives transport protocol events (optional).
	Logger log.Logger

	// Role is recorded on every logged event.
	Role log.Role
}

// Conn is a framed message connection. Either ReadLoop or Receive may read
// from a Conn, never both.
type Conn struct {
	id     string
	nc     net.Conn
	framer *Framer
	opts   ConnOptions

	closing   atomic.Bool
	closeCh   chan struct{}
	closeOnce sync.Once

	kaMu sync.Mutex
	ka   *KeepAlive
}

// NewConn wraps nc and logs the connection as established.
func NewConn(nc net.Conn, opts ConnOptions) *Conn {
	c := &Conn{
		id:      uuid.New().String(),
		nc:      nc,
		framer:  NewFramer(nc, opts.MaxMessageSize),
		opts:    opts,
		closeCh: make(chan struct{}),
	}
	if opts.Logger != nil {
		c.framer.SetLogger(opts.Logger, c.id)
	}
	c.logState("", "CONNECTED", "")
	return c
}

// ID returns the unique connection identifier.
func (c *Conn) ID() string { return c.id }

// LocalAddr returns the local network address.
func (c *Conn) LocalAddr() net.Addr { return c.nc.LocalAddr() }

// RemoteAddr returns the remote network address.
func (c *Conn) RemoteAddr() net.Addr { return c.nc.RemoteAddr() }

// Done is closed once the connection is closed.
func (c *Conn) Done() <-chan struct{} { return c.closeCh }

// Send writes one message frame.
func (c *Conn) Send(data []byte) error {
	select {
	case <-c.closeCh:
		return ErrConnClosed
	default:
	}
	return c.framer.WriteFrame(data)
}

// Receive reads one message frame, waiting at most timeout. A zero timeout
// waits forever.
func (c *Conn) Receive(timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		if err := c.nc.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return nil, err
		}
		defer c.nc.SetReadDeadline(time.Time{})
	}
	data, err := c.framer.ReadFrame()
	if err != nil && c.isClosed() {
		return nil, ErrConnClosed
	}
	return data, err
}

// SendPing sends a ping control message.
func (c *Conn) SendPing(seq uint32) error {
	return c.sendControl(wire.ControlPing, seq)
}

// SendClose asks the peer to close the connection. The read loop closes
// the connection once the peer acknowledges.
func (c *Conn) SendClose() error {
	c.closing.Store(true)
	return c.sendControl(wire.ControlClose, 0)
}

// Close closes the connection and stops keep-alive monitoring.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closeCh)
		c.kaMu.Lock()
		if c.ka != nil {
			c.ka.Stop()
		}
		c.kaMu.Unlock()
		err = c.nc.Close()
		c.logState("CONNECTED", "DISCONNECTED", "")
	})
	return err
}

// StartKeepAlive pings the peer per cfg. When the peer stops answering the
// connection is closed and onTimeout, if set, runs.
func (c *Conn) StartKeepAlive(ctx context.Context, cfg KeepAliveConfig, onTimeout func()) *KeepAlive {
	ka := NewKeepAlive(cfg, c.SendPing, func() {
		c.logState("CONNECTED", "TIMEOUT", "keep-alive expired")
		c.Close()
		if onTimeout != nil {
			onTimeout()
		}
	})

	c.kaMu.Lock()
	if c.ka != nil {
		c.ka.Stop()
	}
	c.ka = ka
	c.kaMu.Unlock()

	ka.Start(ctx)
	return ka
}

// ReadLoop reads frames until the connection closes or ctx is done,
// answering control messages itself and passing every other frame to
// onMessage. It returns nil when the connection ends cleanly.
func (c *Conn) ReadLoop(ctx context.Context, onMessage func([]byte)) error {
	stop := context.AfterFunc(ctx, func() { c.Close() })
	defer stop()

	for {
		data, err := c.framer.ReadFrame()
		if err != nil {
			c.Close()
			if err == io.EOF || c.isClosed() {
				return nil
			}
			return fmt.Errorf("read frame: %w", err)
		}

		if typ, err := wire.PeekMessageType(data); err == nil && typ == wire.MessageTypeControl {
			if msg, err := wire.DecodeControlMessage(data); err == nil {
				c.handleControl(msg)
				continue
			}
		}

		if onMessage != nil {
			onMessage(data)
		}
	}
}

func (c *Conn) isClosed() bool {
	select {
	case <-c.closeCh:
		return true
	default:
		return false
	}
}

func (c *Conn) handleControl(msg *wire.ControlMessage) {
	c.logControl(msg.Type, msg.Sequence, log.DirectionIn)

	switch msg.Type {
	case wire.ControlPing:
		c.sendControl(wire.ControlPong, msg.Sequence)
	case wire.ControlPong:
		c.kaMu.Lock()
		ka := c.ka
		c.kaMu.Unlock()
		if ka != nil {
			ka.PongReceived(msg.Sequence)
		}
	case wire.ControlClose:
		// Acknowledge a peer-initiated close; an ack to our own close
		// needs no reply.
		if !c.closing.Load() {
			c.sendControl(wire.ControlClose, 0)
		}
		c.Close()
	}
}

func (c *Conn) sendControl(typ wire.ControlMessageType, seq uint32) error {
	data, err := wire.EncodeControlMessage(&wire.ControlMessage{Type: typ, Sequence: seq})
	if err != nil {
		return err
	}
	if err := c.Send(data); err != nil {
		return err
	}
	c.logControl(typ, seq, log.DirectionOut)
	return nil
}

func (c *Conn) logControl(typ wire.ControlMessageType, seq uint32, dir log.Direction) {
	if c.opts.Logger == nil {
		return
	}
	var t log.ControlMsgType
	switch typ {
	case wire.ControlPing:
		t = log.ControlMsgPing
	case wire.ControlPong:
		t = log.ControlMsgPong
	case wire.ControlClose:
		t = log.ControlMsgClose
	default:
		return
	}
	c.opts.Logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.id,
		Direction:    dir,
		Layer:        log.LayerTransport,
		Category:     log.CategoryControl,
		LocalRole:    c.opts.Role,
		RemoteAddr:   c.remoteString(),
		ControlMsg:   &log.ControlMsgEvent{Type: t, Sequence: seq},
	})
}

func (c *Conn) logState(from, to, reason string) {
	if c.opts.Logger == nil {
		return
	}
	c.opts.Logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.id,
		Layer:        log.LayerTransport,
		Category:     log.CategoryState,
		LocalRole:    c.opts.Role,
		RemoteAddr:   c.remoteString(),
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityConnection,
			OldState: from,
			NewState: to,
			Reason:   reason,
		},
	})
}

func (c *Conn) remoteString() string {
	if addr := c.nc.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}
