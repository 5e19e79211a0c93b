package advisor

import (
	"errors"
	"fmt"

	"github.com/jonathan/distro-catalog/internal/types"
)

var (
	// ErrProviderUnavailable is returned when no LLM provider can serve the request.
	ErrProviderUnavailable = errors.New("AI provider unavailable")
	// ErrInvalidRequest wraps request validation failures.
	ErrInvalidRequest = errors.New("invalid AI request")
	// ErrGenerationFailed is returned when the provider call itself fails.
	ErrGenerationFailed = errors.New("failed to get response from AI")
)

// UnavailableError carries the health report that made the provider unusable.
type UnavailableError struct {
	Health types.AIHealth
}

func (e *UnavailableError) Error() string {
	if e.Health.Error != "" {
		return fmt.Sprintf("%s: %s", ErrProviderUnavailable, e.Health.Error)
	}
	return ErrProviderUnavailable.Error()
}

// Is matches ErrProviderUnavailable.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrProviderUnavailable
}
