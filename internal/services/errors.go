package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bjl5029/WSD-3/internal/storage"
)

// Define common service errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict") // duplicate email, duplicate application
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTransient          = errors.New("temporarily unavailable")
)

// Error carries the message shown to the client next to the kind that selects the
// status code.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// MapRepoError maps storage errors to service errors
func MapRepoError(err error, operation string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", operation, err)
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, operation)
	case errors.Is(err, storage.ErrDuplicateEmail):
		return fmt.Errorf("%w: %s (duplicate email)", ErrConflict, operation)
	case errors.Is(err, storage.ErrConflict):
		return fmt.Errorf("%w: %s (%v)", ErrConflict, operation, err)
	case errors.Is(err, storage.ErrTransient):
		log.Printf("Transient repository error during %s: %v", operation, err)
		return fmt.Errorf("%w: %s: %w", ErrTransient, operation, err)
	}
	log.Printf("Unexpected repository error during %s: %v", operation, err)
	return fmt.Errorf("internal error during %s: %w", operation, err)
}
