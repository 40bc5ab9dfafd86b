package daktela

import (
	"context"
	"net/http"
	"time"
)

// ResourceClient reads and writes one model of the API.
type ResourceClient interface {
	// Model returns the endpoint name, for example "tickets".
	Model() string
	// Get reads one object by name.
	Get(ctx context.Context, name string, fields ...string) (*Envelope, error)
	// List reads one page.
	List(ctx context.Context, params *ListParams) (*Envelope, error)
	// All reads every page and merges the data.
	All(ctx context.Context, params *ListParams) (*Envelope, error)
	// Iterate returns a lazy cursor over every page.
	Iterate(ctx context.Context, params *ListParams, opts ...PaginationOption) *PaginationIterator
	// Create posts a new object.
	Create(ctx context.Context, attributes map[string]any) (*Envelope, error)
	// Update puts new attribute values of an existing object.
	Update(ctx context.Context, name string, attributes map[string]any) (*Envelope, error)
	// Delete removes an object.
	Delete(ctx context.Context, name string) (*Envelope, error)
}

// ResourceClients provides access to model specific clients.
type ResourceClients interface {
	Resource(model string) ResourceClient
	Users() ResourceClient
	Tickets() ResourceClient
	Activities() ResourceClient
	CampaignsRecords() ResourceClient
}

// HealthClient checks connectivity to the instance.
type HealthClient interface {
	// Ping reports whether the who-am-I endpoint answers with a 2xx status.
	// Every failure, authentication included, yields false.
	Ping(ctx context.Context) bool
	// HealthCheck performs the same call and reports latency and the failure.
	HealthCheck(ctx context.Context) HealthStatus
}

// Client executes requests against one Daktela instance.
type Client interface {
	Executor
	ResourceClients
	HealthClient

	// Iterate returns a lazy cursor over the pages of a list read.
	Iterate(ctx context.Context, req *Request, opts ...PaginationOption) *PaginationIterator

	// Send performs a raw call against any endpoint. An empty method means GET.
	Send(ctx context.Context, method, endpoint string, query map[string]any, body any) (*Envelope, error)
}

// HealthStatus is the result of a health check.
type HealthStatus struct {
	Healthy    bool    `json:"healthy"               yaml:"healthy"`
	LatencyMs  float64 `json:"latency_ms"            yaml:"latency_ms"`
	StatusCode int     `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	Error      string  `json:"error,omitempty"       yaml:"error,omitempty"`
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// NullLogger discards every message.
type NullLogger struct{}

func (NullLogger) Debug(string, map[string]interface{}) {}
func (NullLogger) Info(string, map[string]interface{}) {}
func (NullLogger) Warn(string, map[string]interface{}) {}
func (NullLogger) Error(string, map[string]interface{}) {}

// AuthMethod selects where the access token travels.
type AuthMethod string

// Authentication methods.
const (
	AuthHeader AuthMethod = "header"
	AuthQuery  AuthMethod = "query"
)

// Config represents client configuration for building a daktela.Client.
//
// # Instance and token
//
// Instance and AccessToken are required; daktelaclient.New fails with a
// ConfigError wrapping ErrConfigNotFound when either is empty. Instance is
// normalised by adding "https://" when no scheme is present and trimming a
// trailing slash.
//
// # Retries and rate limiting
//
// A nil RetryPolicy disables retries, including retries of connection
// failures. A nil RateLimitPolicy turns every HTTP 429 into a RateLimitError
// carrying the Retry-After value, or five seconds when absent. Rate limit
// waits consume the same attempt budget as ordinary retries.
//
// # Timeouts and TLS
//
// HTTPTimeout bounds each physical attempt and defaults to two seconds.
// Waits between attempts end early when the context passed to a call is
// cancelled. SkipTLSVerify disables certificate verification and is meant
// for local instances only.
type Config struct {
	// Instance: base URL of the Daktela instance (e.g., "https://mycompany.daktela.com").
	Instance string `json:"instance" yaml:"instance"`
	// AccessToken: API access token of the connecting user.
	AccessToken string `json:"-" yaml:"-"`
	// AuthMethod: "header" (default) sends X-AUTH-TOKEN, "query" sends accessToken.
	AuthMethod AuthMethod `json:"auth_method" yaml:"auth_method"`
	// UserAgentSuffix: appended to the fixed User-Agent after a space.
	UserAgentSuffix string `json:"user_agent_suffix" yaml:"user_agent_suffix"`
	// HTTPTimeout: per attempt timeout.
	HTTPTimeout time.Duration `json:"http_timeout" yaml:"http_timeout"`
	// SkipTLSVerify: disables certificate verification.
	SkipTLSVerify bool `json:"skip_tls_verify" yaml:"skip_tls_verify"`
	// RetryPolicy: retry behaviour for transient failures.
	RetryPolicy *RetryPolicy `json:"retry_policy" yaml:"retry_policy"`
	// RateLimitPolicy: handling of HTTP 429 responses.
	RateLimitPolicy *RateLimitPolicy `json:"rate_limit_policy" yaml:"rate_limit_policy"`
	// HTTPClient: optional custom client. Its transport is reused; HTTPTimeout
	// and SkipTLSVerify are not applied to it.
	HTTPClient *http.Client `json:"-" yaml:"-"`
	// Interceptors: optional hooks run around every physical attempt.
	Interceptors *InterceptorChain `json:"-" yaml:"-"`
	// Debug: enables verbose HTTP request/response logging when a Logger is provided.
	Debug bool `json:"debug" yaml:"debug"`
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger `json:"-" yaml:"-"`
}
