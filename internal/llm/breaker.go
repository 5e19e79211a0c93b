package llm

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/jonathan/distro-catalog/internal/logging"
	"github.com/jonathan/distro-catalog/internal/metrics"
	"github.com/jonathan/distro-catalog/internal/types"
)

// ErrUnavailable is returned while the breaker is open.
var ErrUnavailable = errors.New("LLM provider temporarily unavailable")

// BreakerSettings tunes the circuit breaker around a provider.
type BreakerSettings struct {
	// ConsecutiveFailures opens the breaker. Zero means 5.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open. Zero means 30s.
	OpenTimeout time.Duration
}

// BreakerClient wraps a Client with a circuit breaker and call metrics.
// Health checks bypass the breaker so recovery stays observable.
type BreakerClient struct {
	inner    Client
	provider string
	cb       *gobreaker.CircuitBreaker[string]
}

// NewBreakerClient wraps inner.
func NewBreakerClient(inner Client, provider string, s BreakerSettings) *BreakerClient {
	trips := s.ConsecutiveFailures
	if trips == 0 {
		trips = 5
	}
	timeout := s.OpenTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	metrics.SetBreakerState(provider, stateToInt(gobreaker.StateClosed))

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "llm-" + provider,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= trips
		},
		IsSuccessful: func(err error) bool {
			// Cancelled callers say nothing about provider health
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("LLM circuit breaker state change")
			metrics.SetBreakerState(provider, stateToInt(to))
		},
	})

	return &BreakerClient{inner: inner, provider: provider, cb: cb}
}

func (b *BreakerClient) execute(fn func() (string, error)) (string, error) {
	start := time.Now()
	out, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.RecordLLMRejected(b.provider)
		return "", ErrUnavailable
	}

	metrics.RecordLLMRequest(b.provider, time.Since(start), err)
	if err != nil {
		logging.Warn().Err(err).Str("provider", b.provider).Msg("LLM request failed")
	}
	return out, err
}

// GenerateContent generates text content through the breaker
func (b *BreakerClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return b.execute(func() (string, error) {
		return b.inner.GenerateContent(ctx, prompt, tier)
	})
}

// GenerateJSON generates JSON content through the breaker
func (b *BreakerClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return b.execute(func() (string, error) {
		return b.inner.GenerateJSON(ctx, prompt, tier)
	})
}

// GetModel returns the model name for a tier
func (b *BreakerClient) GetModel(tier ModelTier) string {
	return b.inner.GetModel(tier)
}

// Health reports the provider's health
func (b *BreakerClient) Health(ctx context.Context) types.AIHealth {
	return b.inner.Health(ctx)
}

// State returns the current breaker state.
func (b *BreakerClient) State() gobreaker.State {
	return b.cb.State()
}

// Close closes the wrapped client
func (b *BreakerClient) Close() error {
	return b.inner.Close()
}

func stateToInt(state gobreaker.State) int {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
