package daktelaclient

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/daktela/daktela-v6-go/internal/constants"
	"github.com/daktela/daktela-v6-go/pkg/daktela"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration keys. Environment variables use the same names upper-cased
// with the DAKTELA_ prefix, for example DAKTELA_ACCESS_TOKEN.
const (
	KeyInstance        = "instance"
	KeyAccessToken     = "access_token"
	KeyAuthMethod      = "auth_method"
	KeyTimeout         = "timeout"
	KeyUserAgentSuffix = "user_agent_suffix"
	KeyMaxRetries      = "max_retries"
	KeySkipTLSVerify   = "skip_tls_verify"
	KeyDebug           = "debug"
)

// legacyAccessTokenEnv is the spelling used by older deployments.
const legacyAccessTokenEnv = "DAKTELA_ACCESSTOKEN"

var errNotNonNegative = errors.New("must be a non-negative number")

// LoadOption configures LoadConfig.
type LoadOption func(*loadOptions)

type loadOptions struct {
	envFile    string
	configFile string
}

// WithEnvFile sets the .env file loaded before reading the environment.
// An empty path disables it.
func WithEnvFile(path string) LoadOption {
	return func(o *loadOptions) {
		o.envFile = path
	}
}

// WithConfigFile sets a YAML file read underneath the environment.
func WithConfigFile(path string) LoadOption {
	return func(o *loadOptions) {
		o.configFile = path
	}
}

// LoadConfig builds a Config from the environment. Variables already set
// win over the .env file, and both win over the config file. Missing files
// are skipped. The result carries the default retry and rate limit
// policies; DAKTELA_MAX_RETRIES overrides the retry count.
//
// LoadConfig does not require an instance or a token; New does.
func LoadConfig(opts ...LoadOption) (*daktela.Config, error) {
	options := loadOptions{envFile: constants.DefaultEnvFile}
	for _, opt := range opts {
		opt(&options)
	}

	if options.envFile != "" && fileExists(options.envFile) {
		if err := godotenv.Load(options.envFile); err != nil {
			return nil, fmt.Errorf("loading env file %s: %w", options.envFile, err)
		}
	}

	v := NewViper()

	if options.configFile != "" && fileExists(options.configFile) {
		v.SetConfigFile(options.configFile)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", options.configFile, err)
		}
	}

	return ConfigFromViper(v)
}

// NewViper returns a viper instance reading DAKTELA_* variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	BindEnv(v)

	return v
}

// BindEnv makes v read DAKTELA_* variables and sets the defaults.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(constants.EnvPrefix)
	v.AutomaticEnv()
	_ = v.BindEnv(KeyAccessToken, constants.EnvPrefix+"_ACCESS_TOKEN", legacyAccessTokenEnv)
	v.SetDefault(KeyAuthMethod, string(daktela.AuthHeader))
}

// ConfigFromViper converts the keys held by v into a Config.
func ConfigFromViper(v *viper.Viper) (*daktela.Config, error) {
	timeout, err := ParseTimeout(v.GetString(KeyTimeout))
	if err != nil {
		return nil, &daktela.ConfigError{Key: KeyTimeout, Reason: err.Error()}
	}

	retryPolicy := daktela.DefaultRetryPolicy()

	if raw := strings.TrimSpace(v.GetString(KeyMaxRetries)); raw != "" {
		maxRetries, convErr := strconv.Atoi(raw)
		if convErr != nil || maxRetries < 0 {
			return nil, &daktela.ConfigError{Key: KeyMaxRetries, Reason: errNotNonNegative.Error()}
		}

		retryPolicy.MaxRetries = maxRetries
	}

	return &daktela.Config{
		Instance:        strings.TrimSpace(v.GetString(KeyInstance)),
		AccessToken:     strings.TrimSpace(v.GetString(KeyAccessToken)),
		AuthMethod:      daktela.AuthMethod(strings.ToLower(strings.TrimSpace(v.GetString(KeyAuthMethod)))),
		UserAgentSuffix: v.GetString(KeyUserAgentSuffix),
		HTTPTimeout:     timeout,
		SkipTLSVerify:   v.GetBool(KeySkipTLSVerify),
		Debug:           v.GetBool(KeyDebug),
		RetryPolicy:     retryPolicy,
		RateLimitPolicy: daktela.DefaultRateLimitPolicy(),
	}, nil
}

// ParseTimeout accepts plain seconds ("5", "1.5") or a Go duration ("750ms").
// An empty value yields zero, which selects the client default.
func ParseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}

	var timeout time.Duration

	if seconds, err := strconv.ParseFloat(raw, 64); err == nil {
		timeout = time.Duration(seconds * float64(time.Second))
	} else {
		timeout, err = time.ParseDuration(raw)
		if err != nil {
			return 0, fmt.Errorf("parsing %q: %w", raw, err)
		}
	}

	if timeout < 0 {
		return 0, errNotNonNegative
	}

	return timeout, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}
