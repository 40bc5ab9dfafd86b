package daktela

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HTTPRequest is one physical attempt as seen by interceptors. Headers may
// be modified by request interceptors.
type HTTPRequest struct {
	Method   string
	Endpoint string
	URL      string
	Attempt  int
	Headers  http.Header
	Body     []byte
	Metadata map[string]interface{}
}

// HTTPResponse is the outcome of one physical attempt.
type HTTPResponse struct {
	StatusCode int
	Headers    http.Header
	Duration   time.Duration
	Error      error
}

// RequestInterceptor is called before an attempt is sent. A returned error
// aborts the call.
type RequestInterceptor func(ctx context.Context, req *HTTPRequest) error

// ResponseInterceptor is called after an attempt completes.
type ResponseInterceptor func(ctx context.Context, req *HTTPRequest, resp *HTTPResponse) error

// InterceptorChain manages a chain of interceptors.
type InterceptorChain struct {
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewInterceptorChain creates a new interceptor chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{
		requestInterceptors:  make([]RequestInterceptor, 0),
		responseInterceptors: make([]ResponseInterceptor, 0),
	}
}

// AddRequestInterceptor adds a request interceptor to the chain.
func (c *InterceptorChain) AddRequestInterceptor(interceptor RequestInterceptor) *InterceptorChain {
	c.requestInterceptors = append(c.requestInterceptors, interceptor)

	return c
}

// AddResponseInterceptor adds a response interceptor to the chain.
func (c *InterceptorChain) AddResponseInterceptor(interceptor ResponseInterceptor) *InterceptorChain {
	c.responseInterceptors = append(c.responseInterceptors, interceptor)

	return c
}

// ExecuteRequestInterceptors runs all request interceptors.
func (c *InterceptorChain) ExecuteRequestInterceptors(ctx context.Context, req *HTTPRequest) error {
	for _, interceptor := range c.requestInterceptors {
		err := interceptor(ctx, req)
		if err != nil {
			return fmt.Errorf("request interceptor failed: %w", err)
		}
	}

	return nil
}

// ExecuteResponseInterceptors runs all response interceptors.
func (c *InterceptorChain) ExecuteResponseInterceptors(ctx context.Context, req *HTTPRequest, resp *HTTPResponse) error {
	for _, interceptor := range c.responseInterceptors {
		err := interceptor(ctx, req, resp)
		if err != nil {
			return fmt.Errorf("response interceptor failed: %w", err)
		}
	}

	return nil
}

// LoggingInterceptor logs every attempt.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(ctx context.Context, req *HTTPRequest) error {
		logger.Debug("API Request", map[string]interface{}{
			"method":   req.Method,
			"endpoint": req.Endpoint,
			"attempt":  req.Attempt,
		})

		return nil
	}
}

// LoggingResponseInterceptor logs the outcome of every attempt.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(ctx context.Context, req *HTTPRequest, resp *HTTPResponse) error {
		fields := map[string]interface{}{
			"method":      req.Method,
			"endpoint":    req.Endpoint,
			"attempt":     req.Attempt,
			"status_code": resp.StatusCode,
			"duration":    resp.Duration.String(),
		}

		if resp.Error != nil {
			fields["error"] = resp.Error.Error()
			logger.Error("API Response Error", fields)
		} else {
			logger.Debug("API Response", fields)
		}

		return nil
	}
}

// HeaderInterceptor sets fixed headers on every attempt.
func HeaderInterceptor(headers map[string]string) RequestInterceptor {
	return func(ctx context.Context, req *HTTPRequest) error {
		for key, value := range headers {
			req.Headers.Set(key, value)
		}

		return nil
	}
}

// ThrottleInterceptor limits attempts to requestsPerSecond with the given
// burst. It blocks until a slot is free or ctx is done.
func ThrottleInterceptor(requestsPerSecond float64, burst int) RequestInterceptor {
	if burst < 1 {
		burst = 1
	}

	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), burst)

	return func(ctx context.Context, req *HTTPRequest) error {
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("waiting for throttle: %w", err)
		}

		return nil
	}
}

// Metrics holds call statistics of one endpoint.
type Metrics struct {
	TotalRequests   int64         `json:"total_requests"    yaml:"total_requests"`
	TotalErrors     int64         `json:"total_errors"      yaml:"total_errors"`
	TotalLatency    time.Duration `json:"total_latency"     yaml:"total_latency"`
	AverageLatency  time.Duration `json:"average_latency"   yaml:"average_latency"`
	LastRequestTime time.Time     `json:"last_request_time" yaml:"last_request_time"`
}

// MetricsCollector collects API metrics keyed by "METHOD endpoint".
type MetricsCollector struct {
	mu       sync.Mutex
	metrics  map[string]*Metrics
	onChange func(endpoint string, metrics Metrics)
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		metrics: make(map[string]*Metrics),
	}
}

// SetOnChange sets a callback for when metrics change.
func (m *MetricsCollector) SetOnChange(fn func(endpoint string, metrics Metrics)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onChange = fn
}

// GetMetrics returns a snapshot of the metrics of an endpoint.
func (m *MetricsCollector) GetMetrics(endpoint string) (Metrics, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if metrics, ok := m.metrics[endpoint]; ok {
		return *metrics, true
	}

	return Metrics{}, false
}

// Snapshot returns a copy of every endpoint's metrics.
func (m *MetricsCollector) Snapshot() map[string]Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]Metrics, len(m.metrics))
	for endpoint, metrics := range m.metrics {
		out[endpoint] = *metrics
	}

	return out
}

func (m *MetricsCollector) record(endpoint string, resp *HTTPResponse) {
	m.mu.Lock()

	metrics, ok := m.metrics[endpoint]
	if !ok {
		metrics = &Metrics{}
		m.metrics[endpoint] = metrics
	}

	metrics.TotalRequests++
	metrics.LastRequestTime = time.Now()
	metrics.TotalLatency += resp.Duration
	metrics.AverageLatency = metrics.TotalLatency / time.Duration(metrics.TotalRequests)

	if resp.Error != nil || resp.StatusCode >= http.StatusBadRequest {
		metrics.TotalErrors++
	}

	snapshot := *metrics
	onChange := m.onChange

	m.mu.Unlock()

	if onChange != nil {
		onChange(endpoint, snapshot)
	}
}

// MetricsResponseInterceptor records the outcome of every attempt.
func MetricsResponseInterceptor(collector *MetricsCollector) ResponseInterceptor {
	return func(ctx context.Context, req *HTTPRequest, resp *HTTPResponse) error {
		collector.record(fmt.Sprintf("%s %s", req.Method, req.Endpoint), resp)

		return nil
	}
}
