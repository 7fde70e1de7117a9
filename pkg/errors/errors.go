package errors

import (
	goErrors "errors"
	"fmt"
)

// New returns an error with the given message.
func New(message string) error {
	return goErrors.New(message)
}

// ContextError annotates an error with a short description of the operation
// that failed. Contexts stack as the error travels up the call chain, e.g.
// "parse user config: read file: permission denied".
type ContextError struct {
	Context string
	Err     error
}

func (err ContextError) Error() string {
	return fmt.Sprintf("%s: %s", err.Context, err.Err)
}

func (err ContextError) Unwrap() error {
	return err.Err
}

// WithContext wraps err with a description of the failed operation.
func WithContext(err error, context string) error {
	return ContextError{Context: context, Err: err}
}

// RootCause strips all ContextError annotations and returns the underlying
// error. Callers use it to make decisions based on the error's type.
func RootCause(err error) error {
	for {
		ctxErr, ok := err.(ContextError)
		if !ok {
			return err
		}
		err = ctxErr.Err
	}
}

// FriendlyError is an error whose message is meant to be shown to the user
// as-is, without any context chain or log formatting.
type FriendlyError struct {
	Message string
}

func (err FriendlyError) Error() string {
	return err.Message
}

// NewFriendlyError creates a user-facing error.
func NewFriendlyError(format string, args ...interface{}) error {
	return FriendlyError{Message: fmt.Sprintf(format, args...)}
}

// GetPrintableMessage returns the message that should be shown to the user
// for the given error. Friendly errors are printed verbatim.
func GetPrintableMessage(err error) string {
	if friendly, ok := RootCause(err).(FriendlyError); ok {
		return friendly.Message
	}
	return err.Error()
}
