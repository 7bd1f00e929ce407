package hostcall

import (
	"github.com/cockroachdb/errors"
)

// ErrUnknownOperation is matched by every error reporting a name outside the registry.
var ErrUnknownOperation = errors.New("unregistered hostcall")

// UnknownOperationError reports a hostcall name outside the registry.
// The registry is exhaustive, so this is a caller defect rather than a runtime condition.
type UnknownOperationError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownOperationError) Error() string {
	return ErrUnknownOperation.Error() + ": " + e.Name
}

// Unwrap lets errors.Is match ErrUnknownOperation.
func (*UnknownOperationError) Unwrap() error {
	return ErrUnknownOperation
}
