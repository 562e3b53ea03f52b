package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a store has no record with the requested id.
// A failed lookup never mutates the store.
type ErrNotFound struct {
	Entity EntityType
	ID     int
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// IsNotFound reports whether err wraps an ErrNotFound.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}

// ValidationError lists the form-level problems found in an input payload,
// keyed by the payload attribute name.
type ValidationError struct {
	Entity   EntityType
	Problems map[string]string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s input: %d problem(s)", e.Entity, len(e.Problems))
}
