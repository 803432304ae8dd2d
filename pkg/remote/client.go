package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wastevensv/flipper/pkg/log"
	"github.com/wastevensv/flipper/pkg/wire"
)

// DefaultTimeout bounds how long a request waits for its response.
const DefaultTimeout = 30 * time.Second

// Client errors.
var (
	ErrRequestTimeout  = errors.New("request timed out")
	ErrClientClosed    = errors.New("client is closed")
	ErrUnexpectedReply = errors.New("unexpected reply")
	ErrPayloadTooLarge = errors.New("payload too large")
)

// Sender writes one encoded message to the device.
type Sender interface {
	Send(data []byte) error
}

// Receiver delivers incoming messages until the connection ends.
// transport.Conn implements it.
type Receiver interface {
	ReadLoop(ctx context.Context, onMessage func([]byte)) error
}

// Client correlates requests with responses by message ID.
type Client struct {
	mu      sync.RWMutex
	sender  Sender
	timeout time.Duration
	payload int
	closed  bool

	logger   *slog.Logger
	protocol log.Logger
	device   string

	nextMsgID atomic.Uint32

	pendingMu sync.Mutex
	pending   map[uint32]chan *wire.Response
}

// New creates a client that sends through sender.
func New(sender Sender) *Client {
	return &Client{
		sender:  sender,
		timeout: DefaultTimeout,
		payload: wire.MaxPayload,
		logger:  slog.Default(),
		pending: make(map[uint32]chan *wire.Response),
	}
}

// SetTimeout sets the per-request timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout = timeout
}

// SetMaxPayload caps the buffer of a push or pull. Larger buffers fail
// before anything is sent. Zero or less restores wire.MaxPayload.
func (c *Client) SetMaxPayload(n int) {
	if n <= 0 {
		n = wire.MaxPayload
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payload = n
}

// SetLogger sets the operational logger.
func (c *Client) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = logger
}

// SetProtocolLogger logs every request and response to logger, tagged with
// the device name.
func (c *Client) SetProtocolLogger(logger log.Logger, device string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.protocol = logger
	c.device = device
}

// Close fails every pending request with ErrClientClosed. Later requests
// fail the same way.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	c.pendingMu.Lock()
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	c.pendingMu.Unlock()
	return nil
}

// Run feeds responses from r to the client until r's read loop ends, then
// closes the client.
func (c *Client) Run(ctx context.Context, r Receiver) error {
	defer c.Close()
	return r.ReadLoop(ctx, func(data []byte) {
		resp, err := wire.DecodeResponse(data)
		if err != nil {
			c.slogger().Warn("dropping undecodable frame", "error", err, "size", len(data))
			return
		}
		if err := c.HandleResponse(resp); err != nil {
			c.slogger().Debug("dropping response", "messageId", resp.MessageID, "error", err)
		}
	})
}

// HandleResponse hands resp to the request waiting for it.
func (c *Client) HandleResponse(resp *wire.Response) error {
	c.pendingMu.Lock()
	ch, ok := c.pending[resp.MessageID]
	if ok {
		delete(c.pending, resp.MessageID)
	}
	c.pendingMu.Unlock()

	if !ok {
		return ErrUnexpectedReply
	}
	c.logMessage(log.DirectionIn, log.ResponseEvent(resp, 0))
	ch <- resp
	return nil
}

// Pending returns the number of requests awaiting a response.
func (c *Client) Pending() int {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	return len(c.pending)
}

func (c *Client) nextMessageID() uint32 {
	for {
		if id := c.nextMsgID.Add(1); id != wire.ReservedMessageID {
			return id
		}
	}
}

func (c *Client) checkPayload(n int) error {
	c.mu.RLock()
	limit := c.payload
	c.mu.RUnlock()
	if n > limit {
		return fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, n, limit)
	}
	return nil
}

// roundTrip sends req and waits for its response.
func (c *Client) roundTrip(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	req.MessageID = c.nextMessageID()
	data, err := wire.EncodeRequest(req)
	if err != nil {
		return nil, err
	}

	// Registering under the read lock keeps Close from missing the entry.
	respCh := make(chan *wire.Response, 1)
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return nil, ErrClientClosed
	}
	timeout := c.timeout
	c.pendingMu.Lock()
	c.pending[req.MessageID] = respCh
	c.pendingMu.Unlock()
	c.mu.RUnlock()
	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, req.MessageID)
		c.pendingMu.Unlock()
	}()

	c.logMessage(log.DirectionOut, log.RequestEvent(req))
	if err := c.sender.Send(data); err != nil {
		return nil, fmt.Errorf("send: %w", err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, ErrRequestTimeout
	case resp, ok := <-respCh:
		if !ok {
			return nil, ErrClientClosed
		}
		return resp, nil
	}
}

func (c *Client) slogger() *slog.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.logger
}

func (c *Client) logMessage(dir log.Direction, ev *log.MessageEvent) {
	c.mu.RLock()
	logger, device := c.protocol, c.device
	c.mu.RUnlock()
	if logger == nil {
		return
	}
	logger.Log(log.Event{
		Timestamp: time.Now(),
		Direction: dir,
		Layer:     log.LayerWire,
		Category:  log.CategoryMessage,
		LocalRole: log.RoleHost,
		Device:    device,
		Message:   ev,
	})
}
