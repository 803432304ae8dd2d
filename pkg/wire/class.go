package wire

// Class selects the kind of call a request performs.
type Class uint8

const (
	// ClassExecute invokes a function with no payload.
	ClassExecute Class = 0

	// ClassPush invokes a function and sends it a host buffer.
	ClassPush Class = 1

	// ClassPull invokes a function that writes into a host buffer.
	ClassPull Class = 2

	// ClassDyld resolves a module in the device's module table.
	ClassDyld Class = 3
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassExecute:
		return "exec"
	case ClassPush:
		return "push"
	case ClassPull:
		return "pull"
	case ClassDyld:
		return "dyld"
	default:
		return "unknown"
	}
}

// IsValid returns true if the class is defined.
func (c Class) IsValid() bool {
	return c <= ClassDyld
}

// HasPayload returns true for the classes that move a data buffer.
func (c Class) HasPayload() bool {
	return c == ClassPush || c == ClassPull
}
