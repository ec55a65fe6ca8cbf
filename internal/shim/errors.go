package shim

import "errors"

// ErrInvalidHandle covers every handle the registry does not know: zero,
// never-issued, or already released. The boundary maps it to the vendor
// "unexpected null" code, matching what the original runtime returned for
// a null handle.
var ErrInvalidHandle = errors.New("invalid runtime handle")

// backendError wraps a failure inside the active engine so the boundary
// can map it to "operation failed" while logs keep the cause.
type backendError struct {
	op  string
	err error
}

func (e *backendError) Error() string { return "backend " + e.op + ": " + e.err.Error() }
func (e *backendError) Unwrap() error { return e.err }

// IsBackendFailure reports whether err originated inside the active engine.
func IsBackendFailure(err error) bool {
	var be *backendError
	return errors.As(err, &be)
}
