package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sync"

	"github.com/daktela/daktela-v6-go/internal/constants"
	"github.com/daktela/daktela-v6-go/pkg/daktela"
)

// Static errors for err113 compliance.
var (
	ErrNoToken = errors.New("no access token available")
)

var tokenParamPattern = regexp.MustCompile(`(?i)(` + constants.AuthQueryParam + `=)[^&\s"]*`)

// TokenManager supplies the access token attached to requests.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
}

// StaticTokenManager returns a fixed token.
type StaticTokenManager struct {
	mutex sync.RWMutex
	token string
}

// NewStaticTokenManager creates a token manager for a long-lived API token.
func NewStaticTokenManager(token string) *StaticTokenManager {
	return &StaticTokenManager{token: token}
}

// GetToken returns the token.
func (m *StaticTokenManager) GetToken(_ context.Context) (string, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.token == "" {
		return "", ErrNoToken
	}

	return m.token, nil
}

// SetToken replaces the token, for example after "daktela login".
func (m *StaticTokenManager) SetToken(token string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.token = token
}

// Authenticator attaches the access token to outgoing requests.
type Authenticator struct {
	method daktela.AuthMethod
	tokens TokenManager
}

// NewAuthenticator creates an authenticator. An empty method means header.
func NewAuthenticator(method daktela.AuthMethod, tokens TokenManager) *Authenticator {
	if method == "" {
		method = daktela.AuthHeader
	}

	return &Authenticator{method: method, tokens: tokens}
}

// Method returns the configured method.
func (a *Authenticator) Method() daktela.AuthMethod {
	return a.method
}

// Validate checks that the method is known.
func (a *Authenticator) Validate() error {
	switch a.method {
	case daktela.AuthHeader, daktela.AuthQuery:
		return nil
	default:
		return fmt.Errorf("%w: %q", constants.ErrInvalidAuthMethod, a.method)
	}
}

// Apply sets the X-AUTH-TOKEN header or the accessToken query parameter.
func (a *Authenticator) Apply(ctx context.Context, req *http.Request) error {
	if err := a.Validate(); err != nil {
		return err
	}

	token, err := a.tokens.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("getting access token: %w", err)
	}

	if a.method == daktela.AuthQuery {
		query := req.URL.Query()
		query.Set(constants.AuthQueryParam, token)
		req.URL.RawQuery = query.Encode()

		return nil
	}

	req.Header.Set(constants.AuthHeader, token)

	return nil
}

// RedactURL returns u as a string with the access token masked.
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	return Redact(u.String())
}

// Redact masks access token query parameters found in s.
func Redact(s string) string {
	return tokenParamPattern.ReplaceAllString(s, "${1}***")
}
