package wire

import (
	"fmt"

	"github.com/wastevensv/flipper/pkg/value"
)

// CBOR map keys shared by every message.
const (
	KeyMessageID     = 1
	KeyClassOrStatus = 2  // Class (request) or Status (response)
	KeyMessageType   = 15 // MessageType, added by the Encode functions
)

// MaxArgs is the most argument words a request may carry.
const MaxArgs = 16

// HeaderReserve is the frame space kept for everything but Data.
const HeaderReserve = 1024

// MaxPayload bounds the Data of a push or pull inside a default 64KB frame.
const MaxPayload = 64*1024 - HeaderReserve

// PayloadLimit returns the largest Data that fits a frame of maxMessage
// bytes. Zero means the default frame size.
func PayloadLimit(maxMessage uint32) int {
	if maxMessage == 0 {
		return MaxPayload
	}
	if maxMessage <= HeaderReserve {
		return 0
	}
	return int(maxMessage - HeaderReserve)
}

// ReservedMessageID is never used by a request.
const ReservedMessageID uint32 = 0

// Request represents a call from host to device.
//
// CBOR encoding:
//
//	{
//	  1: messageId,  // uint32
//	  2: class,      // uint8: 0=exec, 1=push, 2=pull, 3=dyld
//	  3: module,     // int32 dispatch index
//	  4: function,   // uint8 function index
//	  5: return,     // uint8 return type tag (exec)
//	  6: types,      // uint64 packed argument type tags
//	  7: args,       // []uint64 argument words
//	  8: data,       // bytes (push)
//	  9: length,     // uint32 buffer length (push, pull)
//	  10: record     // Record (dyld)
//	}
type Request struct {
	MessageID uint32     `cbor:"1,keyasint"`
	Class     Class      `cbor:"2,keyasint"`
	Module    int32      `cbor:"3,keyasint,omitempty"`
	Function  uint8      `cbor:"4,keyasint,omitempty"`
	Return    value.Type `cbor:"5,keyasint,omitempty"`
	Types     uint64     `cbor:"6,keyasint,omitempty"`
	Args      []uint64   `cbor:"7,keyasint,omitempty"`
	Data      []byte     `cbor:"8,keyasint,omitempty"`
	Length    uint32     `cbor:"9,keyasint,omitempty"`
	Record    *Record    `cbor:"10,keyasint,omitempty"`
}

// Validate checks if the request is well formed.
func (r *Request) Validate() error {
	if r.MessageID == ReservedMessageID {
		return fmt.Errorf("messageId 0 is reserved")
	}
	if !r.Class.IsValid() {
		return fmt.Errorf("invalid class: %d", r.Class)
	}
	if len(r.Args) > MaxArgs {
		return fmt.Errorf("too many arguments: %d > %d", len(r.Args), MaxArgs)
	}
	switch r.Class {
	case ClassDyld:
		if r.Record == nil {
			return fmt.Errorf("dyld request without record")
		}
	case ClassExecute:
		if r.Return != value.Void && !r.Return.IsValid() {
			return fmt.Errorf("invalid return type: %d", r.Return)
		}
	case ClassPush:
		if uint32(len(r.Data)) != r.Length {
			return fmt.Errorf("push length %d does not match data length %d", r.Length, len(r.Data))
		}
	}
	return nil
}

// Response represents the device's answer to a Request.
//
// CBOR encoding:
//
//	{
//	  1: messageId,  // uint32: matches request
//	  2: status,     // uint8: 0=success, or error code
//	  3: value,      // uint64 raw return word
//	  4: data,       // bytes written by a pull
//	  5: record,     // Record resolved by dyld
//	  6: message     // string: human-readable error message
//	}
type Response struct {
	MessageID uint32  `cbor:"1,keyasint"`
	Status    Status  `cbor:"2,keyasint"`
	Value     uint64  `cbor:"3,keyasint,omitempty"`
	Data      []byte  `cbor:"4,keyasint,omitempty"`
	Record    *Record `cbor:"5,keyasint,omitempty"`
	Message   string  `cbor:"6,keyasint,omitempty"`
}

// IsSuccess returns true if the response indicates success.
func (r *Response) IsSuccess() bool {
	return r.Status.IsSuccess()
}

// ControlMessage represents a transport-level control message.
// These are separate from the request/response model.
type ControlMessage struct {
	Type     ControlMessageType `cbor:"1,keyasint"`
	Sequence uint32             `cbor:"2,keyasint,omitempty"`
}

// ControlMessageType represents the type of control message.
type ControlMessageType uint8

const (
	// ControlPing is sent to check connection liveness.
	ControlPing ControlMessageType = 1

	// ControlPong is the response to a ping.
	ControlPong ControlMessageType = 2

	// ControlClose initiates graceful connection close.
	ControlClose ControlMessageType = 3
)

// String returns the control message type name.
func (t ControlMessageType) String() string {
	switch t {
	case ControlPing:
		return "ping"
	case ControlPong:
		return "pong"
	case ControlClose:
		return "close"
	default:
		return "unknown"
	}
}
