// Package dispatch calls functions on bound modules.
//
// A Dispatcher turns a bound module identity, a function index and a list
// of typed arguments into exactly one call on the device's boundary.Link,
// then decodes the raw result word with the return type the caller asked
// for. Three call kinds exist:
//
//   - Invoke calls a function with arguments only.
//   - Push additionally sends a payload to the device.
//   - Pull additionally fills a caller buffer from the device.
//
// Each has a Void form that discards the result and a generic form
// (InvokeAs, PushAs, PullAs) that derives the return type from its type
// parameter, so the requested tag and the Go type the caller reads always
// agree.
//
// The dispatcher holds no per-module state and takes no locks. Calls on
// different identities are independent; callers serialize calls on one
// module if the device requires it.
package dispatch
