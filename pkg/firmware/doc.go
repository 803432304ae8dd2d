// Package firmware is the device side of the call boundary.
//
// A Table holds the modules a device exposes, in registration order; a
// module's position is its dispatch index. Server answers wire requests
// against a Table, and Local exposes the same Table as an in-process
// boundary.Link for tests and simulation.
package firmware
