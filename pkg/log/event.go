package log

import (
	"time"

	"github.com/wastevensv/flipper/pkg/value"
	"github.com/wastevensv/flipper/pkg/wire"
)

// Event represents a protocol log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID uniquely identifies the connection (UUID). Empty for
	// in-process calls.
	ConnectionID string `cbor:"2,keyasint,omitempty"`

	// Direction indicates message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// LocalRole indicates whether this is the device or the host.
	LocalRole Role `cbor:"6,keyasint,omitempty"`

	// RemoteAddr is the peer address (IP:port).
	RemoteAddr string `cbor:"7,keyasint,omitempty"`

	// Device is the name of the device the event concerns.
	Device string `cbor:"8,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame       *FrameEvent       `cbor:"10,keyasint,omitempty"` // Transport layer
	Message     *MessageEvent     `cbor:"11,keyasint,omitempty"` // Wire layer (decoded)
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"` // Connection/device state
	ControlMsg  *ControlMsgEvent  `cbor:"13,keyasint,omitempty"` // Ping/pong/close
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"` // Errors at any layer
	Call        *CallEvent        `cbor:"15,keyasint,omitempty"` // Dispatcher calls
	Bind        *BindEvent        `cbor:"16,keyasint,omitempty"` // Module binding
}

// enumName returns names[i], or "UNKNOWN" when i is out of range.
func enumName(names []string, i uint8) string {
	if int(i) < len(names) {
		return names[i]
	}
	return "UNKNOWN"
}

// Direction is the flow of a message relative to the local endpoint.
type Direction uint8

const (
	DirectionIn Direction = iota
	DirectionOut
)

var directionNames = []string{"IN", "OUT"}

func (d Direction) String() string { return enumName(directionNames, uint8(d)) }

// Layer is where an event was captured. Transport sees raw frames, wire
// sees decoded messages and core sees binds and dispatcher calls.
type Layer uint8

const (
	LayerTransport Layer = iota
	LayerWire
	LayerCore
)

var layerNames = []string{"TRANSPORT", "WIRE", "CORE"}

func (l Layer) String() string { return enumName(layerNames, uint8(l)) }

// Category says which payload an event carries.
type Category uint8

const (
	CategoryMessage Category = iota // Message or Frame
	CategoryControl                 // ControlMsg
	CategoryState                   // StateChange
	CategoryError                   // Error
	CategoryCall                    // Call
	CategoryBind                    // Bind
)

var categoryNames = []string{"MESSAGE", "CONTROL", "STATE", "ERROR", "CALL", "BIND"}

func (c Category) String() string { return enumName(categoryNames, uint8(c)) }

// Role is the local endpoint's side of the link.
type Role uint8

const (
	RoleDevice Role = iota
	RoleHost
)

var roleNames = []string{"DEVICE", "HOST"}

func (r Role) String() string { return enumName(roleNames, uint8(r)) }

// FrameEvent is one length-prefixed frame as seen on the socket.
type FrameEvent struct {
	// Size counts the length prefix too.
	Size int `cbor:"1,keyasint"`

	// Data holds at most transport.MaxLogFrameDataSize bytes.
	Data      []byte `cbor:"2,keyasint,omitempty"`
	Truncated bool   `cbor:"3,keyasint,omitempty"`
}

// MessageEvent is a decoded request or response. Class, Module, Function,
// Types, Args, Length and Record describe requests; Status and
// ProcessingTime describe responses. Dyld responses carry Record as well.
type MessageEvent struct {
	Type      MessageType `cbor:"1,keyasint"`
	MessageID uint32      `cbor:"2,keyasint"`

	Class    *wire.Class  `cbor:"3,keyasint,omitempty"`
	Module   *int32       `cbor:"4,keyasint,omitempty"`
	Function *uint8       `cbor:"5,keyasint,omitempty"`
	Status   *wire.Status `cbor:"6,keyasint,omitempty"`
	Types    uint64       `cbor:"7,keyasint,omitempty"`
	Args     []uint64     `cbor:"8,keyasint,omitempty"`
	Length   uint32       `cbor:"9,keyasint,omitempty"`
	Record   *wire.Record `cbor:"10,keyasint,omitempty"`

	// ProcessingTime runs from request receipt to response send.
	ProcessingTime *time.Duration `cbor:"11,keyasint,omitempty"`
}

// MessageType tells requests from responses.
type MessageType uint8

const (
	MessageTypeRequest MessageType = iota
	MessageTypeResponse
)

var messageTypeNames = []string{"REQUEST", "RESPONSE"}

func (m MessageType) String() string { return enumName(messageTypeNames, uint8(m)) }

// StateChangeEvent records a connection opening or closing, or a device
// being attached or detached.
type StateChangeEvent struct {
	Entity   StateEntity `cbor:"1,keyasint"`
	OldState string      `cbor:"2,keyasint,omitempty"`
	NewState string      `cbor:"3,keyasint"`
	Reason   string      `cbor:"4,keyasint,omitempty"`
}

// StateEntity is what changed state.
type StateEntity uint8

const (
	StateEntityConnection StateEntity = iota
	StateEntityDevice
)

var stateEntityNames = []string{"CONNECTION", "DEVICE"}

func (s StateEntity) String() string { return enumName(stateEntityNames, uint8(s)) }

// ControlMsgEvent is a keepalive or close message.
type ControlMsgEvent struct {
	Type     ControlMsgType `cbor:"1,keyasint"`
	Sequence uint32         `cbor:"2,keyasint,omitempty"`
}

// ControlMsgType mirrors wire.ControlMessageType.
type ControlMsgType uint8

const (
	ControlMsgPing ControlMsgType = iota
	ControlMsgPong
	ControlMsgClose
)

var controlMsgNames = []string{"PING", "PONG", "CLOSE"}

func (c ControlMsgType) String() string { return enumName(controlMsgNames, uint8(c)) }

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Code is the error code (if applicable).
	Code *int `cbor:"3,keyasint,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}

// CallEvent captures one dispatcher call.
type CallEvent struct {
	// Module is the module name and Index its dispatch index.
	Module string `cbor:"1,keyasint"`
	Index  int32  `cbor:"2,keyasint"`

	// Function is the function index.
	Function uint8 `cbor:"3,keyasint"`

	// Kind is "invoke", "push" or "pull".
	Kind string `cbor:"4,keyasint"`

	// Return is the requested return type.
	Return value.Type `cbor:"5,keyasint"`

	// Types and Args are the packed argument types and encoded words.
	Types uint64   `cbor:"6,keyasint,omitempty"`
	Args  []uint64 `cbor:"7,keyasint,omitempty"`

	// Length is the payload length of a push or pull.
	Length int `cbor:"8,keyasint,omitempty"`

	// Result is the raw result word.
	Result uint64 `cbor:"9,keyasint,omitempty"`

	// Duration of the boundary call.
	Duration time.Duration `cbor:"10,keyasint,omitempty"`

	// Error is the error message if the call failed.
	Error string `cbor:"11,keyasint,omitempty"`
}

// BindEvent captures one bind attempt.
type BindEvent struct {
	// Module is the module name and Kind its identity variant.
	Module string `cbor:"1,keyasint"`
	Kind   string `cbor:"2,keyasint"`

	// Version and Identifier after a successful bind, or as requested.
	Version    uint32 `cbor:"3,keyasint,omitempty"`
	Identifier uint32 `cbor:"4,keyasint,omitempty"`

	// Device is the device handle id.
	Device uint32 `cbor:"5,keyasint,omitempty"`

	// Index is the dispatch index reported by the device, or the
	// identity's sentinel if the bind failed.
	Index int32 `cbor:"6,keyasint"`

	// Duration of the bind.
	Duration time.Duration `cbor:"7,keyasint,omitempty"`

	// Error is the error message if the bind failed.
	Error string `cbor:"8,keyasint,omitempty"`
}
