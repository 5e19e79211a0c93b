package prefs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a review does not exist.
	ErrNotFound = errors.New("review not found")
	// ErrForbidden is returned when a session modifies a review it did not write.
	ErrForbidden = errors.New("review belongs to another session")
	// ErrInvalidInput wraps request validation failures.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidRating is returned for ratings outside 1..5.
	ErrInvalidRating = fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
)
