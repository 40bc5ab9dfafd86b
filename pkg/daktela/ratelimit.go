package daktela

import (
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Rate limit policy defaults, in seconds.
const (
	DefaultRateLimitMaxWait = 60
	DefaultRateLimitWait    = 5
)

var numericPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// RateLimitPolicy configures how HTTP 429 responses are negotiated.
type RateLimitPolicy struct {
	// AutoRetry waits and retries when the server asks to slow down.
	AutoRetry bool `json:"auto_retry" yaml:"auto_retry"`
	// MaxWaitSeconds is the longest wait honoured automatically.
	MaxWaitSeconds int `json:"max_wait_seconds" yaml:"max_wait_seconds"`
	// DefaultWaitSeconds is used when Retry-After is missing or unparseable.
	DefaultWaitSeconds int `json:"default_wait_seconds" yaml:"default_wait_seconds"`
}

// DefaultRateLimitPolicy returns the default rate limit policy.
func DefaultRateLimitPolicy() *RateLimitPolicy {
	return &RateLimitPolicy{
		AutoRetry:          true,
		MaxWaitSeconds:     DefaultRateLimitMaxWait,
		DefaultWaitSeconds: DefaultRateLimitWait,
	}
}

// ParseRetryAfter converts a Retry-After header value into seconds.
func (p *RateLimitPolicy) ParseRetryAfter(header string) int {
	return ParseRetryAfter(header, p.DefaultWaitSeconds, time.Now())
}

// ShouldWait reports whether a wait of the given length is honoured.
func (p *RateLimitPolicy) ShouldWait(seconds int) bool {
	return p.AutoRetry && seconds <= p.MaxWaitSeconds
}

// ParseRetryAfter converts a Retry-After header value into seconds relative
// to now. Numeric values are truncated toward zero and returned as-is, even
// when negative. HTTP dates yield the remaining seconds, never below zero.
// Anything else yields fallback.
func ParseRetryAfter(header string, fallback int, now time.Time) int {
	value := strings.TrimSpace(header)
	if value == "" {
		return fallback
	}

	if numericPattern.MatchString(value) {
		seconds, err := strconv.ParseFloat(value, 64)
		if err != nil || math.Abs(seconds) > math.MaxInt32 {
			return fallback
		}

		return int(seconds)
	}

	date, err := http.ParseTime(value)
	if err != nil {
		return fallback
	}

	return int(max(0, date.Unix()-now.Unix()))
}
