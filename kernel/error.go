package kernel

// Error describes a kernel error. Errors are declared as package-level
// pointers to Error values because the Go allocator is not yet available
// while the memory subsystem boots, so errors.New cannot be used.
type Error struct {
	// The module where the error occurred.
	Module string

	// The error message
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}
