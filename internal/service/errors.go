package service

import (
	"errors"
	"fmt"

	"github.com/whiteindia/selftrack-sub002/internal/repository"
)

// Timer command failures. Callers match them with errors.Is; none of them
// leave a partial write behind.
var (
	// ErrValidation reports bad input, such as an empty stop comment.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTransition reports a command that does not apply to the
	// session's current state, such as resuming a running timer.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrConflict reports a second open session for the same subject.
	ErrConflict = errors.New("open session already exists")

	// ErrNotFound reports an id that does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrStorage wraps any other failure of the underlying store.
	ErrStorage = errors.New("storage failure")
)

// storeError maps a repository error onto the service taxonomy. op names
// the failed step for the message.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%s: %w", op, ErrConflict)
	case errors.Is(err, repository.ErrSessionClosed):
		return fmt.Errorf("%s: session is stopped: %w", op, ErrInvalidTransition)
	default:
		return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
	}
}

// isServiceError reports whether err already carries a service sentinel.
func isServiceError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrStorage)
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
