package boundary

import (
	"errors"
	"fmt"

	"github.com/wastevensv/flipper/pkg/wire"
)

// Boundary errors.
var (
	ErrModuleNotFound  = errors.New("module not found")
	ErrVersionMismatch = errors.New("module version mismatch")
	ErrNotBound        = errors.New("module not bound")
	ErrTransport       = errors.New("transport failure")
)

// TransportError is a failure of the device connection itself.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("transport: %v", e.Err)
	}
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error { return e.Err }

// Is reports ErrTransport as a match.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// NewTransportError wraps err as a TransportError. A nil err yields nil and
// an existing TransportError is returned as is.
func NewTransportError(op string, err error) error {
	if err == nil {
		return nil
	}
	var te *TransportError
	if errors.As(err, &te) {
		return err
	}
	return &TransportError{Op: op, Err: err}
}

// NewCallError wraps a failure reported while running a function so that it
// matches ErrTransport. The device status stays reachable through
// errors.As. Connection failures are returned unchanged.
func NewCallError(op string, err error) error {
	if err == nil {
		return nil
	}
	var te *TransportError
	if errors.As(err, &te) {
		return err
	}
	se := &StatusError{Status: StatusOf(err), Message: err.Error(), Dispatch: true}
	var cause *StatusError
	if errors.As(err, &cause) {
		se.Message = cause.Message
	}
	return &TransportError{Op: op, Err: se}
}

// StatusError is a non-success status reported by the device.
type StatusError struct {
	Status  wire.Status
	Message string

	// Dispatch marks a status reported while running a function. It never
	// matches the bind-time sentinels.
	Dispatch bool
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Status, e.Message)
	}
	return e.Status.String()
}

// Is maps device statuses to the boundary sentinels.
func (e *StatusError) Is(target error) bool {
	if e.Dispatch {
		return false
	}
	switch target {
	case ErrModuleNotFound:
		return e.Status == wire.StatusModuleNotFound
	case ErrVersionMismatch:
		return e.Status == wire.StatusVersionMismatch
	}
	return false
}

// StatusOf returns the wire status that best describes err. Device handlers
// use it to answer a request that failed.
func StatusOf(err error) wire.Status {
	var se *StatusError
	switch {
	case err == nil:
		return wire.StatusSuccess
	case errors.As(err, &se):
		return se.Status
	case errors.Is(err, ErrModuleNotFound):
		return wire.StatusModuleNotFound
	case errors.Is(err, ErrVersionMismatch):
		return wire.StatusVersionMismatch
	default:
		return wire.StatusFailed
	}
}
