package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/daktela/daktela-v6-go/internal/auth"
	"github.com/daktela/daktela-v6-go/internal/constants"
	"github.com/daktela/daktela-v6-go/pkg/daktela"
	"github.com/hashicorp/go-retryablehttp"
)

// callState tracks one logical call across its physical attempts.
type callState struct {
	id            string
	method        string
	endpoint      string
	attempt       int
	rateLimitWait time.Duration
}

func (s *callState) fields() map[string]interface{} {
	return map[string]interface{}{
		"request_id": s.id,
		"method":     s.method,
		"endpoint":   s.endpoint,
		"attempt":    s.attempt,
	}
}

// retryClient builds the retrying client of one call. Retry decisions,
// delays and final errors are delegated to the hooks below.
func (c *Client) retryClient(call *callState) *retryablehttp.Client {
	retryMax := 0
	if c.retryPolicy != nil {
		retryMax = c.retryPolicy.MaxRetries
	}

	return &retryablehttp.Client{
		HTTPClient: c.attemptClient(call),
		RetryMax:   retryMax,
		RequestLogHook: func(_ retryablehttp.Logger, req *http.Request, attemptNum int) {
			call.attempt = attemptNum + 1
			if c.debug {
				fields := call.fields()
				fields["url"] = auth.RedactURL(req.URL)
				c.logger.Debug("HTTP Request", fields)
			}
		},
		ResponseLogHook: func(_ retryablehttp.Logger, resp *http.Response) {
			if c.debug {
				fields := call.fields()
				fields["status_code"] = resp.StatusCode
				c.logger.Debug("HTTP Response", fields)
			}
		},
		CheckRetry: func(ctx context.Context, resp *http.Response, err error) (bool, error) {
			return c.checkRetry(ctx, call, resp, err)
		},
		Backoff: func(_, _ time.Duration, attemptNum int, resp *http.Response) time.Duration {
			return c.backoff(call, attemptNum, resp)
		},
		ErrorHandler: func(resp *http.Response, err error, _ int) (*http.Response, error) {
			return c.handleExhausted(call, resp, err)
		},
	}
}

// checkRetry decides whether an attempt is repeated. Connection failures
// are retried only when the policy allows it; other transport failures
// stop immediately. A 429 is retried when the rate limit policy accepts
// the requested wait, otherwise it becomes a RateLimitError.
func (c *Client) checkRetry(ctx context.Context, call *callState, resp *http.Response, err error) (bool, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}

	if err != nil {
		if isConnectionError(err) {
			if c.retryPolicy != nil && c.retryPolicy.RetryOnConnectionError {
				fields := call.fields()
				fields["error"] = auth.Redact(err.Error())
				c.logger.Warn("Connection error", fields)

				return true, nil
			}
		}

		return false, daktela.NewRequestError(auth.Redact(err.Error()), 0, err)
	}

	if resp.StatusCode == constants.HTTPStatusTooManyRequests {
		return c.checkRateLimit(call, resp)
	}

	if c.retryPolicy != nil && c.retryPolicy.IsRetryableStatus(resp.StatusCode) {
		fields := call.fields()
		fields["status_code"] = resp.StatusCode
		c.logger.Warn("Retryable status received", fields)

		return true, nil
	}

	return false, nil
}

func (c *Client) checkRateLimit(call *callState, resp *http.Response) (bool, error) {
	fallback := constants.DefaultRateLimitWait
	if c.rateLimitPolicy != nil {
		fallback = c.rateLimitPolicy.DefaultWaitSeconds
	}

	wait := daktela.ParseRetryAfter(resp.Header.Get("Retry-After"), fallback, c.now())

	fields := call.fields()
	fields["retry_after"] = wait
	c.logger.Warn("Rate limit hit", fields)

	if c.rateLimitPolicy == nil || !c.rateLimitPolicy.ShouldWait(wait) {
		return false, daktela.NewRateLimitError(wait)
	}

	if wait < 0 {
		wait = 0
	}

	call.rateLimitWait = time.Duration(wait) * time.Second

	return true, nil
}

// backoff returns the policy delay plus the negotiated Retry-After wait
// when the previous attempt was rate limited.
func (c *Client) backoff(call *callState, attemptNum int, resp *http.Response) time.Duration {
	var delay time.Duration
	if c.retryPolicy != nil {
		delay = c.retryPolicy.Delay(attemptNum)
	}

	if resp != nil && resp.StatusCode == constants.HTTPStatusTooManyRequests {
		delay += call.rateLimitWait
	}

	fields := call.fields()
	fields["retry"] = attemptNum + 1
	fields["delay_ms"] = delay.Milliseconds()
	c.logger.Info("Retrying request", fields)

	return delay
}

// handleExhausted maps the final outcome of a call that did not succeed
// on its own. A retryable status left after the last attempt is returned
// unchanged so the caller can decode it.
func (c *Client) handleExhausted(call *callState, resp *http.Response, err error) (*http.Response, error) {
	var requestErr *daktela.RequestError
	if errors.As(err, &requestErr) {
		drain(resp)

		return nil, err
	}

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			drain(resp)

			return nil, err
		}

		fields := call.fields()
		fields["error"] = auth.Redact(err.Error())
		c.logger.Error("Max retries exceeded", fields)

		return nil, daktela.NewRequestError("Max retries exceeded", 0, err)
	}

	if resp != nil && resp.StatusCode == constants.HTTPStatusTooManyRequests {
		drain(resp)
		c.logger.Error("Max retries exceeded", call.fields())

		return nil, daktela.NewRequestError("Max retries exceeded: rate limited", constants.HTTPStatusTooManyRequests, nil)
	}

	return resp, nil
}

// finalError converts an error returned by the retrying client.
func (c *Client) finalError(ctx context.Context, err error) error {
	var requestErr *daktela.RequestError
	if errors.As(err, &requestErr) {
		return err
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return daktela.NewRequestError("request cancelled", 0, ctxErr)
	}

	return daktela.NewRequestError("", 0, err)
}

// attemptClient returns the HTTP client of one call, wrapping the
// transport with the interceptor chain when one is configured.
func (c *Client) attemptClient(call *callState) *http.Client {
	if c.interceptors == nil {
		return c.httpClient
	}

	client := *c.httpClient

	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	client.Transport = &interceptingTransport{
		base:  base,
		chain: c.interceptors,
		call:  call,
	}

	return &client
}

type interceptingTransport struct {
	base  http.RoundTripper
	chain *daktela.InterceptorChain
	call  *callState
}

func (t *interceptingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	req = req.Clone(ctx)

	var body []byte

	if req.Body != nil && req.Body != http.NoBody {
		read, err := io.ReadAll(req.Body)
		_ = req.Body.Close()

		if err != nil {
			return nil, err
		}

		body = read
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	intercepted := &daktela.HTTPRequest{
		Method:   req.Method,
		Endpoint: t.call.endpoint,
		URL:      auth.RedactURL(req.URL),
		Attempt:  t.call.attempt,
		Headers:  req.Header,
		Body:     body,
		Metadata: map[string]interface{}{"request_id": t.call.id},
	}

	if err := t.chain.ExecuteRequestInterceptors(ctx, intercepted); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := t.base.RoundTrip(req)

	outcome := &daktela.HTTPResponse{
		Duration: time.Since(start),
		Error:    err,
	}

	if resp != nil {
		outcome.StatusCode = resp.StatusCode
		outcome.Headers = resp.Header
	}

	if interceptErr := t.chain.ExecuteResponseInterceptors(ctx, intercepted, outcome); interceptErr != nil {
		drain(resp)

		return nil, interceptErr
	}

	return resp, err
}

// isConnectionError reports whether err happened below HTTP: DNS
// failures, refused or reset connections and attempt timeouts.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}

func drain(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
