// Package transport carries flipper messages between a host and a device.
//
// The transport layer handles:
//   - Length-prefixed message framing
//   - Keep-alive ping/pong for connection liveness
//   - Dialing with exponential backoff
//   - Accepting device-side connections
//
// # Protocol Stack
//
//	┌────────────────────────────────┐
//	│      CBOR Messages             │
//	├────────────────────────────────┤
//	│   Length-Prefix Framing (4B)   │
//	├────────────────────────────────┤
//	│           TCP                  │
//	└────────────────────────────────┘
//
// Every frame is a 4-byte big-endian length followed by one CBOR message.
// Control messages (ping, pong, close) are answered by the connection's
// read loop and never reach the message handler.
package transport
