package daktela_test

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/daktela/daktela-v6-go/pkg/daktela"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *daktela.RequestError
		expected string
	}{
		{"message and cause", daktela.NewRequestError("reading response body", 200, io.ErrUnexpectedEOF), "reading response body: unexpected EOF"},
		{"cause only", daktela.NewRequestError("", 0, io.EOF), "EOF"},
		{"message only", daktela.NewRequestError("Failed to decode response", 502, nil), "Failed to decode response"},
		{"nothing", &daktela.RequestError{}, "request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, tt.err.Error())
			assert.ErrorIs(t, tt.err, daktela.ErrRequestFailed)
			assert.True(t, daktela.IsRequestError(tt.err))
		})
	}

	err := daktela.NewRequestError("sending request", 0, io.ErrClosedPipe)
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestNotFoundError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("getting ticket: %w", daktela.NewNotFoundError("No object name specified"))

	assert.True(t, daktela.IsNotFound(err))
	assert.True(t, daktela.IsRequestError(err))
	assert.False(t, daktela.IsRateLimited(err))
	assert.Equal(t, http.StatusNotFound, daktela.StatusCode(err))
	assert.Contains(t, err.Error(), "No object name specified")

	var notFound *daktela.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "No object name specified", notFound.Message)
}

func TestRateLimitError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("listing tickets: %w", daktela.NewRateLimitError(30))

	assert.True(t, daktela.IsRateLimited(err))
	assert.True(t, daktela.IsRequestError(err))
	assert.ErrorIs(t, err, daktela.ErrRequestFailed)
	assert.Equal(t, http.StatusTooManyRequests, daktela.StatusCode(err))
	assert.Contains(t, err.Error(), "Retry after 30 seconds")

	seconds, ok := daktela.RetryAfter(err)
	assert.True(t, ok)
	assert.Equal(t, 30, seconds)

	_, ok = daktela.RetryAfter(errors.New("other"))
	assert.False(t, ok)
}

func TestUnknownRequestKindError(t *testing.T) {
	t.Parallel()

	err := daktela.NewUnknownRequestKindError()

	assert.ErrorIs(t, err, daktela.ErrUnknownRequestKind)
	assert.True(t, daktela.IsRequestError(err))
	assert.Equal(t, http.StatusInternalServerError, daktela.StatusCode(err))
	assert.Equal(t, "Unknown request type", err.Error())
}

func TestConfigError(t *testing.T) {
	t.Parallel()

	missing := &daktela.ConfigError{Key: "instance"}
	assert.Equal(t, "configuration not found: instance", missing.Error())
	assert.ErrorIs(t, missing, daktela.ErrConfigNotFound)
	assert.False(t, daktela.IsRequestError(missing))

	invalid := &daktela.ConfigError{Key: "timeout", Reason: "must be a non-negative number"}
	assert.Equal(t, "configuration timeout: must be a non-negative number", invalid.Error())
}

func TestStatusCodeWithoutRequestError(t *testing.T) {
	t.Parallel()

	assert.Zero(t, daktela.StatusCode(nil))
	assert.Zero(t, daktela.StatusCode(errors.New("plain")))
	assert.False(t, daktela.IsNotFound(nil))
}
