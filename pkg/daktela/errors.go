package daktela

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for errors.Is checks.
var (
	ErrRequestFailed      = errors.New("request failed")
	ErrNotFound           = errors.New("not found")
	ErrRateLimited        = errors.New("rate limit exceeded")
	ErrUnknownRequestKind = errors.New("unknown request type")
	ErrConfigNotFound     = errors.New("configuration not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNoMoreItems        = errors.New("no more items")
	ErrConfigRequired     = errors.New("config is required")
)

// RequestError is returned when a call could not be completed: a transport
// failure, an exhausted retry budget or an undecodable response body.
// Code carries the HTTP status when one is known.
type RequestError struct {
	Message string `json:"message" yaml:"message"`
	Code    int    `json:"code"    yaml:"code"`
	Err     error  `json:"-"       yaml:"-"`
}

// NewRequestError creates a RequestError wrapping err.
func NewRequestError(message string, code int, err error) *RequestError {
	return &RequestError{Message: message, Code: code, Err: err}
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	switch {
	case e.Message == "" && e.Err != nil:
		return e.Err.Error()
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message == "":
		return ErrRequestFailed.Error()
	default:
		return e.Message
	}
}

// Unwrap returns the underlying cause.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrRequestFailed.
func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}

// NotFoundError is returned before any call is made when a required
// identifier is missing, and by Value.Field when a field does not exist.
type NotFoundError struct {
	RequestError
}

// NewNotFoundError creates a NotFoundError with code 404.
func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{RequestError{Message: message, Code: http.StatusNotFound}}
}

// Unwrap exposes the embedded RequestError to errors.As.
func (e *NotFoundError) Unwrap() error {
	return &e.RequestError
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// RateLimitError is returned for an HTTP 429 response that is not retried
// automatically.
type RateLimitError struct {
	RequestError

	RetryAfterSeconds int `json:"retry_after_seconds" yaml:"retry_after_seconds"`
}

// NewRateLimitError creates a RateLimitError with code 429.
func NewRateLimitError(retryAfterSeconds int) *RateLimitError {
	return &RateLimitError{
		RequestError: RequestError{
			Message: fmt.Sprintf("Rate limit exceeded. Retry after %d seconds.", retryAfterSeconds),
			Code:    http.StatusTooManyRequests,
		},
		RetryAfterSeconds: retryAfterSeconds,
	}
}

// Unwrap exposes the embedded RequestError to errors.As.
func (e *RateLimitError) Unwrap() error {
	return &e.RequestError
}

// Is reports whether target is ErrRateLimited.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// UnknownRequestKindError is returned when a Request does not match any
// dispatch rule.
type UnknownRequestKindError struct {
	RequestError
}

// NewUnknownRequestKindError creates an UnknownRequestKindError with code 500.
func NewUnknownRequestKindError() *UnknownRequestKindError {
	return &UnknownRequestKindError{RequestError{Message: "Unknown request type", Code: http.StatusInternalServerError}}
}

// Unwrap exposes the embedded RequestError to errors.As.
func (e *UnknownRequestKindError) Unwrap() error {
	return &e.RequestError
}

// Is reports whether target is ErrUnknownRequestKind.
func (e *UnknownRequestKindError) Is(target error) bool {
	return target == ErrUnknownRequestKind
}

// ConfigError reports a missing or invalid configuration value.
type ConfigError struct {
	Key    string
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("configuration %s: %s", e.Key, e.Reason)
	}

	return fmt.Sprintf("configuration not found: %s", e.Key)
}

// Is reports whether target is ErrConfigNotFound.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfigNotFound
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRateLimited checks if the error is a rate limit error.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsRequestError checks if the error belongs to the request error family.
func IsRequestError(err error) bool {
	var reqErr *RequestError

	return errors.As(err, &reqErr)
}

// RetryAfter returns the wait carried by a RateLimitError in err's chain.
func RetryAfter(err error) (int, bool) {
	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return rateErr.RetryAfterSeconds, true
	}

	return 0, false
}

// StatusCode returns the code of the first RequestError in err's chain, or 0.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Code
	}

	return 0
}
