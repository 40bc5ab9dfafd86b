package daktela_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/daktela/daktela-v6-go/pkg/daktela"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRetryPolicy(t *testing.T) {
	t.Parallel()

	policy := daktela.DefaultRetryPolicy()
	require.NoError(t, policy.Validate())

	assert.Equal(t, 3, policy.MaxRetries)
	assert.True(t, policy.RetryOnConnectionError)

	expected := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		1600 * time.Millisecond,
	}

	for attempt, delay := range expected {
		assert.Equal(t, delay, policy.Delay(attempt), "attempt %d", attempt)
	}

	assert.Equal(t, 10*time.Second, policy.Delay(10))
	assert.Equal(t, 10*time.Second, policy.Delay(5000))
	assert.Equal(t, 100*time.Millisecond, policy.Delay(-1))
}

func TestAggressiveRetryPolicy(t *testing.T) {
	t.Parallel()

	policy := daktela.AggressiveRetryPolicy()
	require.NoError(t, policy.Validate())

	assert.Equal(t, 5, policy.MaxRetries)
	assert.Equal(t, 50*time.Millisecond, policy.Delay(0))
	assert.Equal(t, 125*time.Millisecond, policy.Delay(1))
	assert.Equal(t, 312*time.Millisecond, policy.Delay(2))
	assert.Equal(t, 781*time.Millisecond, policy.Delay(3))
	assert.Equal(t, 30*time.Second, policy.Delay(20))
}

func TestDisabledRetryPolicy(t *testing.T) {
	t.Parallel()

	policy := daktela.DisabledRetryPolicy()
	require.NoError(t, policy.Validate())
	assert.Zero(t, policy.MaxRetries)
}

func TestRetryPolicyIsRetryableStatus(t *testing.T) {
	t.Parallel()

	policy := daktela.DefaultRetryPolicy()

	for _, status := range []int{408, 500, 502, 503, 504} {
		assert.True(t, policy.IsRetryableStatus(status), "status %d", status)
	}

	for _, status := range []int{200, 400, 401, 404, 429, 501} {
		assert.False(t, policy.IsRetryableStatus(status), "status %d", status)
	}

	policy.RetryableStatusCodes = []int{http.StatusConflict}
	assert.True(t, policy.IsRetryableStatus(http.StatusConflict))
	assert.False(t, policy.IsRetryableStatus(http.StatusInternalServerError))
}

func TestRetryPolicyValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(p *daktela.RetryPolicy)
	}{
		{"negative retries", func(p *daktela.RetryPolicy) { p.MaxRetries = -1 }},
		{"zero base delay", func(p *daktela.RetryPolicy) { p.BaseDelay = 0 }},
		{"max below base", func(p *daktela.RetryPolicy) { p.MaxDelay = p.BaseDelay / 2 }},
		{"shrinking multiplier", func(p *daktela.RetryPolicy) { p.Multiplier = 0.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			policy := daktela.DefaultRetryPolicy()
			tt.modify(policy)

			require.ErrorIs(t, policy.Validate(), daktela.ErrInvalidArgument)
		})
	}
}

func TestParseRetryAfter(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		header   string
		expected int
	}{
		{"seconds", "30", 30},
		{"padded", "  15 ", 15},
		{"fraction truncated", "2.9", 2},
		{"negative kept", "-5", -5},
		{"exponent", "1e2", 100},
		{"empty", "", 7},
		{"garbage", "soon", 7},
		{"future date", now.Add(90 * time.Second).Format(http.TimeFormat), 90},
		{"past date", now.Add(-time.Hour).Format(http.TimeFormat), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, daktela.ParseRetryAfter(tt.header, 7, now))
		})
	}
}

func TestRateLimitPolicy(t *testing.T) {
	t.Parallel()

	policy := daktela.DefaultRateLimitPolicy()
	assert.True(t, policy.AutoRetry)
	assert.Equal(t, 60, policy.MaxWaitSeconds)
	assert.Equal(t, 5, policy.DefaultWaitSeconds)

	assert.Equal(t, 5, policy.ParseRetryAfter(""))
	assert.Equal(t, 12, policy.ParseRetryAfter("12"))

	assert.True(t, policy.ShouldWait(0))
	assert.True(t, policy.ShouldWait(60))
	assert.False(t, policy.ShouldWait(61))

	policy.AutoRetry = false
	assert.False(t, policy.ShouldWait(1))
}
