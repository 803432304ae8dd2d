package wire

// Status represents a response status code.
type Status uint8

const (
	// StatusSuccess indicates the call completed.
	StatusSuccess Status = 0

	// StatusModuleNotFound indicates the device has no module matching the
	// name or identifier, or no module at the dispatch index.
	StatusModuleNotFound Status = 1

	// StatusVersionMismatch indicates the module exists but its version or
	// identifier differs from the one requested.
	StatusVersionMismatch Status = 2

	// StatusInvalidFunction indicates the function index is not defined.
	StatusInvalidFunction Status = 3

	// StatusInvalidArguments indicates the argument count or types do not
	// match the function.
	StatusInvalidArguments Status = 4

	// StatusUnsupported indicates the request class is not supported.
	StatusUnsupported Status = 5

	// StatusFailed indicates the function ran and reported an error.
	StatusFailed Status = 6

	// StatusBusy indicates the device cannot take the call right now.
	StatusBusy Status = 7
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusModuleNotFound:
		return "MODULE_NOT_FOUND"
	case StatusVersionMismatch:
		return "VERSION_MISMATCH"
	case StatusInvalidFunction:
		return "INVALID_FUNCTION"
	case StatusInvalidArguments:
		return "INVALID_ARGUMENTS"
	case StatusUnsupported:
		return "UNSUPPORTED"
	case StatusFailed:
		return "FAILED"
	case StatusBusy:
		return "BUSY"
	default:
		return "UNKNOWN"
	}
}

// IsSuccess returns true if the status indicates success.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess
}

// IsError returns true if the status indicates an error.
func (s Status) IsError() bool {
	return s != StatusSuccess
}
