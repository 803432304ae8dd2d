// Package wire defines the CBOR wire format used between a host and a
// device's module runtime.
//
// Messages use CBOR (RFC 8949) with integer keys and travel as
// length-prefixed frames (see package transport).
//
// # Message Classes
//
// A request carries one of four classes:
//   - Execute: invoke a module function with arguments
//   - Push: invoke a function and hand it a host buffer
//   - Pull: invoke a function that fills a host buffer
//   - Dyld: look a module up in the device's module table (bind)
//
// Every request is answered by exactly one Response carrying a Status and,
// on success, the function's raw 64-bit return word. Control messages
// (ping/pong/close) sit beside the request/response model.
//
// # Identity Record
//
// Record is the module identity crossing the boundary. Its field order is
// fixed and mirrored by the integer keys 1..8.
package wire
