package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/daktela/daktela-v6-go/internal/auth"
	"github.com/daktela/daktela-v6-go/internal/constants"
	"github.com/daktela/daktela-v6-go/pkg/daktela"
	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
)

// Client performs calls against the v6 REST API of one instance.
type Client struct {
	baseURL         string
	authenticator   *auth.Authenticator
	httpClient      *http.Client
	customClient    bool
	timeout         time.Duration
	skipTLSVerify   bool
	userAgentSuffix string
	retryPolicy     *daktela.RetryPolicy
	rateLimitPolicy *daktela.RateLimitPolicy
	interceptors    *daktela.InterceptorChain
	logger          daktela.Logger
	debug           bool
	now             func() time.Time
}

// Request represents one logical API call.
type Request struct {
	Method   string
	Endpoint string
	Query    url.Values
	Body     interface{}
	Headers  map[string]string
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger daktela.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgentSuffix appends suffix to the User-Agent header.
func WithUserAgentSuffix(suffix string) Option {
	return func(c *Client) {
		c.userAgentSuffix = suffix
	}
}

// WithRetryPolicy sets the retry policy. Nil disables retries.
func WithRetryPolicy(policy *daktela.RetryPolicy) Option {
	return func(c *Client) {
		c.retryPolicy = policy
	}
}

// WithRateLimitPolicy sets the rate limit policy. Nil turns every 429 into
// a RateLimitError.
func WithRateLimitPolicy(policy *daktela.RateLimitPolicy) Option {
	return func(c *Client) {
		c.rateLimitPolicy = policy
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
			c.customClient = true
		}
	}
}

// WithTimeout sets the timeout of one physical attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithSkipTLSVerify disables certificate verification.
func WithSkipTLSVerify(skip bool) Option {
	return func(c *Client) {
		c.skipTLSVerify = skip
	}
}

// WithInterceptors sets the interceptor chain run around every attempt.
func WithInterceptors(chain *daktela.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// WithClock overrides the clock used to evaluate Retry-After dates.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient creates a client for the instance at baseURL. A nil
// authenticator sends requests without credentials.
func NewClient(baseURL string, authenticator *auth.Authenticator, opts ...Option) *Client {
	client := &Client{
		baseURL:       NormalizeURL(baseURL),
		authenticator: authenticator,
		timeout:       constants.DefaultHTTPTimeout,
		logger:        daktela.NullLogger{},
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(client)
	}

	if !client.customClient {
		client.httpClient = cleanhttp.DefaultPooledClient()
		client.httpClient.Timeout = client.timeout

		if client.skipTLSVerify {
			if transport, ok := client.httpClient.Transport.(*http.Transport); ok {
				transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for local instances
			}
		}
	}

	return client
}

// BaseURL returns the normalised instance URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// NormalizeURL adds the https scheme when missing and trims trailing slashes.
func NormalizeURL(instance string) string {
	instance = strings.TrimSpace(instance)
	if instance == "" {
		return ""
	}

	lower := strings.ToLower(instance)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		instance = constants.DefaultScheme + instance
	}

	return strings.TrimRight(instance, "/")
}

// BuildURL returns the full URL of endpoint with the encoded query.
func (c *Client) BuildURL(endpoint string, query url.Values) string {
	var builder strings.Builder

	builder.WriteString(c.baseURL)
	builder.WriteString(constants.APINamespace)
	builder.WriteString(daktela.LowerFirst(strings.TrimLeft(endpoint, "/")))
	builder.WriteString(constants.APIFormatSuffix)

	if encoded := query.Encode(); encoded != "" {
		builder.WriteString("?")
		builder.WriteString(encoded)
	}

	return builder.String()
}

// Do executes req with retries and decodes the response envelope. Non-2xx
// statuses are not errors: they come back as an envelope carrying the
// status. Transport failures, exhausted retries and undecodable bodies
// yield a RequestError; refused 429 responses yield a RateLimitError.
func (c *Client) Do(ctx context.Context, req *Request) (*daktela.Envelope, error) {
	var rawBody interface{}

	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, daktela.NewRequestError("encoding request body", 0, err)
		}

		rawBody = encoded
	}

	retryReq, err := c.newRetryableRequest(ctx, req, rawBody)
	if err != nil {
		return nil, err
	}

	call := &callState{
		id:       uuid.NewString(),
		method:   retryReq.Method,
		endpoint: req.Endpoint,
	}

	resp, err := c.retryClient(call).Do(retryReq)
	if err != nil {
		return nil, c.finalError(ctx, err)
	}

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, daktela.NewRequestError("reading response body", resp.StatusCode, err)
	}

	envelope, err := ParseEnvelope(resp.StatusCode, body)
	if err != nil {
		c.logger.Error("Failed to decode response", map[string]interface{}{
			"request_id":  call.id,
			"endpoint":    req.Endpoint,
			"status_code": resp.StatusCode,
			"error":       err.Error(),
		})

		return nil, err
	}

	return envelope, nil
}

// Send is a shorthand for Do.
func (c *Client) Send(ctx context.Context, method, endpoint string, query url.Values, body interface{}) (*daktela.Envelope, error) {
	return c.Do(ctx, &Request{
		Method:   method,
		Endpoint: endpoint,
		Query:    query,
		Body:     body,
	})
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values) (*daktela.Envelope, error) {
	return c.Send(ctx, http.MethodGet, endpoint, query, nil)
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, endpoint string, query url.Values, body interface{}) (*daktela.Envelope, error) {
	return c.Send(ctx, http.MethodPost, endpoint, query, body)
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, endpoint string, query url.Values, body interface{}) (*daktela.Envelope, error) {
	return c.Send(ctx, http.MethodPut, endpoint, query, body)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string, query url.Values) (*daktela.Envelope, error) {
	return c.Send(ctx, http.MethodDelete, endpoint, query, nil)
}

// Ping reports whether the who-am-I endpoint answers with a 2xx status.
func (c *Client) Ping(ctx context.Context) bool {
	envelope, err := c.Get(ctx, constants.WhoAmIEndpoint, nil)
	if err != nil {
		c.logger.Debug("Ping failed", map[string]interface{}{"error": err.Error()})

		return false
	}

	return envelope.IsSuccess()
}

// HealthCheck calls the who-am-I endpoint and reports the latency in
// milliseconds rounded to two decimals.
func (c *Client) HealthCheck(ctx context.Context) daktela.HealthStatus {
	start := time.Now()
	envelope, err := c.Get(ctx, constants.WhoAmIEndpoint, nil)
	latency := roundMillis(time.Since(start))

	if err != nil {
		return daktela.HealthStatus{
			Healthy:    false,
			LatencyMs:  latency,
			StatusCode: daktela.StatusCode(err),
			Error:      err.Error(),
		}
	}

	status := daktela.HealthStatus{
		Healthy:    envelope.IsSuccess(),
		LatencyMs:  latency,
		StatusCode: envelope.HTTPStatus,
	}

	if !status.Healthy {
		status.Error = fmt.Sprintf("unexpected status %d", envelope.HTTPStatus)
	}

	return status
}

func (c *Client) newRetryableRequest(ctx context.Context, req *Request, rawBody interface{}) (*retryablehttp.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	retryReq, err := retryablehttp.NewRequestWithContext(ctx, method, c.BuildURL(req.Endpoint, req.Query), rawBody)
	if err != nil {
		return nil, daktela.NewRequestError("creating request", 0, err)
	}

	userAgent := constants.UserAgent
	if c.userAgentSuffix != "" {
		userAgent += " " + c.userAgentSuffix
	}

	retryReq.Header.Set("User-Agent", userAgent)
	retryReq.Header.Set("Content-Type", constants.ContentTypeJSON)
	retryReq.Header.Set("Accept", constants.ContentTypeJSON)

	for key, value := range req.Headers {
		retryReq.Header.Set(key, value)
	}

	if c.authenticator != nil {
		if err := c.authenticator.Apply(ctx, retryReq.Request); err != nil {
			return nil, daktela.NewRequestError("authenticating request", 0, err)
		}
	}

	return retryReq, nil
}

// ParseEnvelope decodes a response body. An empty body yields an empty
// envelope. A document without a non-null "result" yields an envelope with
// no data, no errors and a total of zero. Otherwise data is result.data when present,
// else result itself, and total is result.total, defaulting to one.
func ParseEnvelope(status int, body []byte) (*daktela.Envelope, error) {
	if len(body) == 0 {
		return daktela.NewEnvelope(nil, 0, nil, status), nil
	}

	var document interface{}

	decoder := json.NewDecoder(bytes.NewReader(body))
	if err := decoder.Decode(&document); err != nil {
		return nil, daktela.NewRequestError("Failed to decode response", status, err)
	}

	root, ok := document.(map[string]interface{})
	if !ok {
		return daktela.NewEnvelope(nil, 0, nil, status), nil
	}

	result, ok := root["result"]
	if !ok || result == nil {
		return daktela.NewEnvelope(nil, 0, nil, status), nil
	}

	errs := normalizeErrors(root["error"])

	data := result
	total := 1

	if resultObject, isObject := result.(map[string]interface{}); isObject {
		if inner, found := resultObject["data"]; found && inner != nil {
			data = inner
		}

		if rawTotal, found := resultObject["total"]; found && rawTotal != nil {
			total = toInt(rawTotal, total)
		}
	}

	return daktela.NewEnvelope(data, total, errs, status), nil
}

func normalizeErrors(raw interface{}) []interface{} {
	switch errs := raw.(type) {
	case nil:
		return []interface{}{}
	case []interface{}:
		return errs
	case map[string]interface{}:
		if len(errs) == 0 {
			return []interface{}{}
		}

		return []interface{}{errs}
	case string:
		if errs == "" {
			return []interface{}{}
		}

		return []interface{}{errs}
	default:
		return []interface{}{errs}
	}
}

func toInt(raw interface{}, fallback int) int {
	switch value := raw.(type) {
	case float64:
		return int(value)
	case json.Number:
		if n, err := value.Int64(); err == nil {
			return int(n)
		}
	case string:
		var n int
		if _, err := fmt.Sscan(strings.TrimSpace(value), &n); err == nil {
			return n
		}
	}

	return fallback
}

func roundMillis(d time.Duration) float64 {
	ms := float64(d) / float64(time.Millisecond)

	return math.Round(ms*100) / 100
}
