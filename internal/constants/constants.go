package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for a single HTTP attempt.
	DefaultHTTPTimeout = 2 * time.Second
)

// Retry defaults.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 3
)

// Rate limit defaults, in seconds.
const (
	// DefaultRateLimitWait is used when Retry-After is missing or unparseable.
	DefaultRateLimitWait = 5
)

// HTTP status codes commonly used.
const (
	// HTTPStatusTooManyRequests is the code carried by RateLimitError.
	HTTPStatusTooManyRequests = 429
)

// API wire constants.
const (
	// APINamespace prefixes every endpoint path.
	APINamespace = "/api/v6/"

	// APIFormatSuffix is appended to every endpoint path.
	APIFormatSuffix = ".json"

	// UserAgent identifies the connector in the User-Agent header.
	UserAgent = "daktela-v6-go-connector"

	// AuthHeader carries the access token in header mode.
	AuthHeader = "X-AUTH-TOKEN"

	// AuthQueryParam carries the access token in query mode.
	AuthQueryParam = "accessToken"

	// ContentTypeJSON is sent with every request.
	ContentTypeJSON = "application/json"

	// WhoAmIEndpoint is the lightweight endpoint used by ping and health checks.
	WhoAmIEndpoint = "whoim"

	// DefaultScheme is prepended to instance URLs given without one.
	DefaultScheme = "https://"

	// TicketWebPath prefixes the ticket detail page of the web interface.
	TicketWebPath = "/tickets/update/"
)

// Configuration loading.
const (
	// EnvPrefix prefixes every environment variable read by LoadConfig.
	EnvPrefix = "DAKTELA"

	// DefaultEnvFile is loaded from the working directory when present.
	DefaultEnvFile = ".env"

	// DefaultConfigDir is the CLI configuration directory under $HOME.
	DefaultConfigDir = ".daktela"

	// DefaultConfigFile is the CLI configuration file name.
	DefaultConfigFile = "config.yml"
)

// Pagination limits.
const (
	// DefaultTake is the default page size of list reads.
	DefaultTake = 100

	// ReadAllPageLimit bounds the number of pages fetched by a read-all request.
	ReadAllPageLimit = 999
)

// Output formatting.
const (
	// FormatTable renders tables with tablewriter.
	FormatTable = "table"

	// FormatJSON renders indented JSON.
	FormatJSON = "json"

	// FormatYAML renders YAML.
	FormatYAML = "yaml"

	// Masked replaces secrets in CLI output.
	Masked = "***"

	// DefaultJSONIndent is the indentation used by JSON CLI output.
	DefaultJSONIndent = 2

	// TableValueMaxWidth truncates long values in table output.
	TableValueMaxWidth = 60
)

// Miscellaneous.
const (
	// FilterFlagParts is the number of parts of a field:op:value flag.
	FilterFlagParts = 3
)
