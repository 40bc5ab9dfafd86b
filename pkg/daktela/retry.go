package daktela

import (
	"fmt"
	"math"
	"net/http"
	"slices"
	"time"
)

// Retry policy defaults.
const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = 100 * time.Millisecond
	DefaultMaxDelay   = 10 * time.Second
	DefaultMultiplier = 2.0

	aggressiveMaxRetries = 5
	aggressiveBaseDelay  = 50 * time.Millisecond
	aggressiveMaxDelay   = 30 * time.Second
	aggressiveMultiplier = 2.5
)

// RetryPolicy configures how transient failures are retried. A nil policy
// disables retries entirely, including connection failures.
type RetryPolicy struct {
	// MaxRetries is the number of attempts made after the first one.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration `json:"base_delay" yaml:"base_delay"`
	// MaxDelay caps the delay between attempts.
	MaxDelay time.Duration `json:"max_delay" yaml:"max_delay"`
	// Multiplier grows the delay after each retry.
	Multiplier float64 `json:"multiplier" yaml:"multiplier"`
	// RetryableStatusCodes lists HTTP statuses that trigger a retry.
	RetryableStatusCodes []int `json:"retryable_status_codes" yaml:"retryable_status_codes"`
	// RetryOnConnectionError enables retries of connection-level failures.
	RetryOnConnectionError bool `json:"retry_on_connection_error" yaml:"retry_on_connection_error"`
}

// DefaultRetryableStatusCodes are the statuses retried by the default policy.
func DefaultRetryableStatusCodes() []int {
	return []int{
		http.StatusRequestTimeout,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
	}
}

// DefaultRetryPolicy returns the default retry policy.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxRetries:             DefaultMaxRetries,
		BaseDelay:              DefaultBaseDelay,
		MaxDelay:               DefaultMaxDelay,
		Multiplier:             DefaultMultiplier,
		RetryableStatusCodes:   DefaultRetryableStatusCodes(),
		RetryOnConnectionError: true,
	}
}

// DisabledRetryPolicy returns a policy that never retries.
func DisabledRetryPolicy() *RetryPolicy {
	policy := DefaultRetryPolicy()
	policy.MaxRetries = 0

	return policy
}

// AggressiveRetryPolicy returns a policy with more attempts and a faster
// growing delay.
func AggressiveRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxRetries:             aggressiveMaxRetries,
		BaseDelay:              aggressiveBaseDelay,
		MaxDelay:               aggressiveMaxDelay,
		Multiplier:             aggressiveMultiplier,
		RetryableStatusCodes:   DefaultRetryableStatusCodes(),
		RetryOnConnectionError: true,
	}
}

// Delay returns the wait before a retry. Attempt 0 is the first retry.
// The result is truncated to whole milliseconds and never exceeds MaxDelay.
func (p *RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(attempt))
	if math.IsInf(delay, 0) || math.IsNaN(delay) || delay > float64(p.MaxDelay) {
		return p.MaxDelay
	}

	return time.Duration(delay).Truncate(time.Millisecond)
}

// IsRetryableStatus reports whether statusCode triggers a retry.
func (p *RetryPolicy) IsRetryableStatus(statusCode int) bool {
	return slices.Contains(p.RetryableStatusCodes, statusCode)
}

// Validate checks the policy invariants.
func (p *RetryPolicy) Validate() error {
	switch {
	case p.MaxRetries < 0:
		return fmt.Errorf("%w: max retries %d must not be negative", ErrInvalidArgument, p.MaxRetries)
	case p.BaseDelay <= 0:
		return fmt.Errorf("%w: base delay %s must be positive", ErrInvalidArgument, p.BaseDelay)
	case p.MaxDelay < p.BaseDelay:
		return fmt.Errorf("%w: max delay %s is lower than base delay %s", ErrInvalidArgument, p.MaxDelay, p.BaseDelay)
	case p.Multiplier < 1:
		return fmt.Errorf("%w: multiplier %g must be at least 1", ErrInvalidArgument, p.Multiplier)
	}

	return nil
}
