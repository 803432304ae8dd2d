package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Wire messages use canonical CBOR with integer keys. Decoding tolerates
// indefinite lengths and duplicate keys from older hosts.
var (
	encMode = func() cbor.EncMode {
		em, err := cbor.EncOptions{
			Sort:          cbor.SortCanonical,
			IndefLength:   cbor.IndefLengthForbidden,
			NilContainers: cbor.NilContainerAsNull,
			Time:          cbor.TimeUnix,
		}.EncMode()
		if err != nil {
			panic("wire: " + err.Error())
		}
		return em
	}()
	decMode = func() cbor.DecMode {
		dm, err := cbor.DecOptions{
			DupMapKey:   cbor.DupMapKeyQuiet,
			IndefLength: cbor.IndefLengthAllowed,
		}.DecMode()
		if err != nil {
			panic("wire: " + err.Error())
		}
		return dm
	}()
)

// Marshal encodes v with the wire encoding options.
func Marshal(v any) ([]byte, error) { return encMode.Marshal(v) }

// Unmarshal decodes data into v with the wire decoding options.
func Unmarshal(data []byte, v any) error { return decMode.Unmarshal(data, v) }

// MessageType is the kind of a frame, carried under key 15 of every
// encoded message so receivers can route before a full decode.
type MessageType uint8

const (
	MessageTypeUnknown MessageType = iota
	MessageTypeRequest
	MessageTypeResponse
	MessageTypeControl
)

func (t MessageType) String() string {
	switch t {
	case MessageTypeRequest:
		return "request"
	case MessageTypeResponse:
		return "response"
	case MessageTypeControl:
		return "control"
	}
	return "unknown"
}

type kindKey struct {
	Kind MessageType `cbor:"15,keyasint"`
}

type requestFrame struct {
	Request
	Kind MessageType `cbor:"15,keyasint"`
}

type responseFrame struct {
	Response
	Kind MessageType `cbor:"15,keyasint"`
}

type controlFrame struct {
	ControlMessage
	Kind MessageType `cbor:"15,keyasint"`
}

// EncodeRequest validates and encodes req.
func EncodeRequest(req *Request) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return Marshal(requestFrame{*req, MessageTypeRequest})
}

// DecodeRequest decodes and validates a request frame.
func DecodeRequest(data []byte) (*Request, error) {
	req := new(Request)
	if err := decodeAs(data, MessageTypeRequest, req); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return req, nil
}

// EncodeResponse encodes resp.
func EncodeResponse(resp *Response) ([]byte, error) {
	return Marshal(responseFrame{*resp, MessageTypeResponse})
}

// DecodeResponse decodes a response frame.
func DecodeResponse(data []byte) (*Response, error) {
	resp := new(Response)
	if err := decodeAs(data, MessageTypeResponse, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// EncodeControlMessage encodes a ping, pong or close.
func EncodeControlMessage(msg *ControlMessage) ([]byte, error) {
	return Marshal(controlFrame{*msg, MessageTypeControl})
}

// DecodeControlMessage decodes a control frame.
func DecodeControlMessage(data []byte) (*ControlMessage, error) {
	msg := new(ControlMessage)
	if err := decodeAs(data, MessageTypeControl, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// decodeAs checks the frame kind and decodes the body into v. The kind key
// is unknown to the body types and skipped.
func decodeAs(data []byte, want MessageType, v any) error {
	got, err := PeekMessageType(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", want, err)
	}
	if got != want {
		return fmt.Errorf("decode %s: frame is a %s", want, got)
	}
	if err := Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", want, err)
	}
	return nil
}

// PeekMessageType reads only the kind key of an encoded message.
func PeekMessageType(data []byte) (MessageType, error) {
	var k kindKey
	if err := Unmarshal(data, &k); err != nil {
		return MessageTypeUnknown, err
	}
	switch k.Kind {
	case MessageTypeRequest, MessageTypeResponse, MessageTypeControl:
		return k.Kind, nil
	}
	return MessageTypeUnknown, fmt.Errorf("unknown message type %d", k.Kind)
}
