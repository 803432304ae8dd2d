// Package boundary defines the call boundary between the host and a device.
//
// A Link is the set of primitives a device connection offers: resolve a
// module identity, and invoke, push or pull one of its functions. The module
// and dispatch packages only talk to devices through this interface, so the
// same code runs against an in-process firmware table or a remote device
// reached over TCP.
//
// The package also holds the error taxonomy shared by every layer above the
// boundary.
package boundary
