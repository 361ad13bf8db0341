// Package apperr defines the error kinds the message handler converts
// into user-facing replies. Engines wrap their failures with one of the
// kinds; the handler matches with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat marks malformed command arguments.
	ErrFormat = errors.New("invalid format")
	// ErrNotFound marks an unknown client, sheet, code or event.
	ErrNotFound = errors.New("not found")
	// ErrProvider marks a failure in an external data provider.
	ErrProvider = errors.New("provider error")
	// ErrPersistence marks a durable read/write failure.
	ErrPersistence = errors.New("persistence error")
)

func Format(format string, args ...interface{}) error {
	return wrap(ErrFormat, format, args...)
}

func NotFound(format string, args ...interface{}) error {
	return wrap(ErrNotFound, format, args...)
}

func Provider(format string, args ...interface{}) error {
	return wrap(ErrProvider, format, args...)
}

func Persistence(format string, args ...interface{}) error {
	return wrap(ErrPersistence, format, args...)
}

func wrap(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
