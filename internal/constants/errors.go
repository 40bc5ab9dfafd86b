package constants

import "errors"

// Configuration errors.
var (
	ErrInvalidAuthMethod = errors.New("invalid authentication method")
)

// CLI errors.
var (
	ErrInvalidAttribute = errors.New("invalid attribute, expected key=value")
	ErrInvalidFilterArg = errors.New("invalid filter, expected field:operator:value")
	ErrInvalidSortArg   = errors.New("invalid sort, expected field[:asc|desc]")
	ErrNotHealthy       = errors.New("instance is not healthy")
	ErrAPIErrors        = errors.New("API reported errors")
	ErrInvalidData      = errors.New("invalid --data, expected a JSON object")
	ErrUnknownConfigKey = errors.New("unknown configuration key")
	ErrInvalidOutput    = errors.New("invalid output format, expected table, json or yaml")
)
