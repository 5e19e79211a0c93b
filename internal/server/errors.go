package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/distro-catalog/internal/advisor"
	"github.com/jonathan/distro-catalog/internal/prefs"
	"github.com/jonathan/distro-catalog/internal/submissions"
)

// ErrDistroNotFound indicates the requested catalog record does not exist
type ErrDistroNotFound struct {
	ID string
}

func (e *ErrDistroNotFound) Error() string {
	return "Distribution not found"
}

// ErrGuideNotFound indicates the requested guide does not exist
type ErrGuideNotFound struct {
	ID string
}

func (e *ErrGuideNotFound) Error() string {
	return "Guide not found"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrDistroNotFound, *ErrGuideNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	}

	switch {
	case errors.Is(err, prefs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, prefs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, prefs.ErrInvalidInput), errors.Is(err, advisor.ErrInvalidRequest),
		errors.Is(err, submissions.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, submissions.ErrInCatalog):
		return http.StatusConflict
	case errors.Is(err, advisor.ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
