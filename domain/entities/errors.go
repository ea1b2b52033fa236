package entities

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across stores and services. Handlers map these to
// HTTP status codes; everything unrecognized becomes a 500.
var (
	// ErrNotFound covers both unknown ids and ids outside the caller's
	// scope, so a scoped caller cannot probe for device existence.
	ErrNotFound = errors.New("device not found")

	// ErrTokenBound means the push token is already held by another device.
	ErrTokenBound = errors.New("push token already bound to another device")

	// ErrUnknownCommand means the command name is not in the vocabulary.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrNoPushToken means a command was sent to a device that never
	// registered a push token.
	ErrNoPushToken = errors.New("device has no push token registered")

	// ErrUnauthorized means the bearer credential is missing or invalid.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError reports a missing or malformed required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a field validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
