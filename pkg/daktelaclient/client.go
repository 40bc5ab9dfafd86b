package daktelaclient

import (
	"fmt"
	"net/url"

	"github.com/daktela/daktela-v6-go/internal/auth"
	"github.com/daktela/daktela-v6-go/internal/client"
	"github.com/daktela/daktela-v6-go/internal/constants"
	internalhttp "github.com/daktela/daktela-v6-go/internal/http"
	"github.com/daktela/daktela-v6-go/pkg/daktela"
)

// New creates a client for the instance described by config.
//
// Instance and AccessToken are required. An unknown AuthMethod is accepted
// here and makes every call fail with a RequestError.
func New(config *daktela.Config) (daktela.Client, error) {
	if config == nil {
		return nil, daktela.ErrConfigRequired
	}

	instance := internalhttp.NormalizeURL(config.Instance)
	if instance == "" {
		return nil, &daktela.ConfigError{Key: "instance"}
	}

	if config.AccessToken == "" {
		return nil, &daktela.ConfigError{Key: "access_token"}
	}

	if config.RetryPolicy != nil {
		if err := config.RetryPolicy.Validate(); err != nil {
			return nil, fmt.Errorf("validating retry policy: %w", err)
		}
	}

	logger := config.Logger
	if logger == nil {
		logger = daktela.NullLogger{}
	}

	authenticator := auth.NewAuthenticator(config.AuthMethod, auth.NewStaticTokenManager(config.AccessToken))

	opts := []internalhttp.Option{
		internalhttp.WithLogger(logger),
		internalhttp.WithDebug(config.Debug),
		internalhttp.WithUserAgentSuffix(config.UserAgentSuffix),
		internalhttp.WithTimeout(config.HTTPTimeout),
		internalhttp.WithSkipTLSVerify(config.SkipTLSVerify),
		internalhttp.WithRetryPolicy(config.RetryPolicy),
		internalhttp.WithRateLimitPolicy(config.RateLimitPolicy),
		internalhttp.WithHTTPClient(config.HTTPClient),
		internalhttp.WithInterceptors(config.Interceptors),
	}

	return client.New(internalhttp.NewClient(instance, authenticator, opts...), logger), nil
}

// NewWithToken creates a client with the default retry and rate limit
// policies.
func NewWithToken(instance, token string) (daktela.Client, error) {
	return New(&daktela.Config{
		Instance:        instance,
		AccessToken:     token,
		RetryPolicy:     daktela.DefaultRetryPolicy(),
		RateLimitPolicy: daktela.DefaultRateLimitPolicy(),
	})
}

// NewFromEnv creates a client from DAKTELA_* environment variables and an
// optional .env file in the working directory.
func NewFromEnv(opts ...LoadOption) (daktela.Client, error) {
	config, err := LoadConfig(opts...)
	if err != nil {
		return nil, err
	}

	return New(config)
}

// TicketURL returns the link to a ticket in the web interface of instance.
func TicketURL(instance, ticketName string) string {
	return internalhttp.NormalizeURL(instance) + constants.TicketWebPath + url.PathEscape(ticketName)
}
