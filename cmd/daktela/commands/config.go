package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/daktela/daktela-v6-go/internal/constants"
	"github.com/daktela/daktela-v6-go/pkg/daktela"
	"github.com/daktela/daktela-v6-go/pkg/daktelaclient"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configurableKeys may be stored in the config file.
var configurableKeys = []string{
	daktelaclient.KeyInstance,
	daktelaclient.KeyAccessToken,
	daktelaclient.KeyAuthMethod,
	daktelaclient.KeyTimeout,
	daktelaclient.KeyUserAgentSuffix,
	daktelaclient.KeyMaxRetries,
	daktelaclient.KeySkipTLSVerify,
	daktelaclient.KeyDebug,
	keyOutput,
}

// ConfigView is the effective configuration shown by "config show".
type ConfigView struct {
	ConfigFile      string `json:"config_file"       yaml:"config_file"`
	Instance        string `json:"instance"          yaml:"instance"`
	AccessToken     string `json:"access_token"      yaml:"access_token"`
	AuthMethod      string `json:"auth_method"       yaml:"auth_method"`
	Timeout         string `json:"timeout"           yaml:"timeout"`
	UserAgentSuffix string `json:"user_agent_suffix" yaml:"user_agent_suffix"`
	MaxRetries      int    `json:"max_retries"       yaml:"max_retries"`
	SkipTLSVerify   bool   `json:"skip_tls_verify"   yaml:"skip_tls_verify"`
	Debug           bool   `json:"debug"             yaml:"debug"`
	Output          string `json:"output"            yaml:"output"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the settings stored in the CLI config file",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration from flags, environment and config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := effectiveConfig()
			if err != nil {
				return err
			}

			return renderData(cmd.OutOrStdout(), view, [][]string{
				{"Config File", view.ConfigFile},
				{"Instance", view.Instance},
				{"Access Token", view.AccessToken},
				{"Auth Method", view.AuthMethod},
				{"Timeout", view.Timeout},
				{"User Agent Suffix", view.UserAgentSuffix},
				{"Max Retries", strconv.Itoa(view.MaxRetries)},
				{"Skip TLS Verify", strconv.FormatBool(view.SkipTLSVerify)},
				{"Debug", strconv.FormatBool(view.Debug)},
				{"Output", view.Output},
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Store a value in the config file. Keys: " + fmt.Sprint(configurableKeys),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			value, err := convertConfigValue(key, args[1])
			if err != nil {
				return err
			}

			if err := updateConfigFile(func(values map[string]interface{}) {
				values[key] = value
			}); err != nil {
				return err
			}

			shown := args[1]
			if key == daktelaclient.KeyAccessToken {
				shown = constants.Masked
			}

			return outputConfigUpdateResult(cmd, "Set", key, shown)
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a value from the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !slices.Contains(configurableKeys, key) {
				return fmt.Errorf("%w: %q", constants.ErrUnknownConfigKey, key)
			}

			if err := updateConfigFile(func(values map[string]interface{}) {
				delete(values, key)
			}); err != nil {
				return err
			}

			return outputConfigUpdateResult(cmd, "Unset", key, "")
		},
	}
}

func effectiveConfig() (*ConfigView, error) {
	configFile, err := configFilePath()
	if err != nil {
		return nil, err
	}

	config, err := daktelaclient.ConfigFromViper(viper.GetViper())
	if err != nil {
		return nil, err
	}

	view := &ConfigView{
		ConfigFile:      configFile,
		Instance:        config.Instance,
		AuthMethod:      string(config.AuthMethod),
		UserAgentSuffix: config.UserAgentSuffix,
		MaxRetries:      config.RetryPolicy.MaxRetries,
		SkipTLSVerify:   config.SkipTLSVerify,
		Debug:           config.Debug,
		Output:          outputFormat(),
	}

	if config.AccessToken != "" {
		view.AccessToken = constants.Masked
	}

	if config.HTTPTimeout > 0 {
		view.Timeout = config.HTTPTimeout.String()
	} else {
		view.Timeout = constants.DefaultHTTPTimeout.String()
	}

	return view, nil
}

// convertConfigValue validates key and types value the way the loader
// reads it back.
func convertConfigValue(key, value string) (interface{}, error) {
	switch key {
	case daktelaclient.KeyMaxRetries:
		retries, err := strconv.Atoi(value)
		if err != nil || retries < 0 {
			return nil, &daktela.ConfigError{Key: key, Reason: "must be a non-negative integer"}
		}

		return retries, nil
	case daktelaclient.KeySkipTLSVerify, daktelaclient.KeyDebug:
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return nil, &daktela.ConfigError{Key: key, Reason: "must be true or false"}
		}

		return enabled, nil
	case daktelaclient.KeyTimeout:
		if _, err := daktelaclient.ParseTimeout(value); err != nil {
			return nil, &daktela.ConfigError{Key: key, Reason: err.Error()}
		}

		return value, nil
	case daktelaclient.KeyAuthMethod:
		if value != string(daktela.AuthHeader) && value != string(daktela.AuthQuery) {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidAuthMethod, value)
		}

		return value, nil
	case keyOutput:
		if value != constants.FormatTable && value != constants.FormatJSON && value != constants.FormatYAML {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidOutput, value)
		}

		return value, nil
	}

	if !slices.Contains(configurableKeys, key) {
		return nil, fmt.Errorf("%w: %q", constants.ErrUnknownConfigKey, key)
	}

	return value, nil
}

// updateConfigFile applies change to the stored values and writes them back.
func updateConfigFile(change func(values map[string]interface{})) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	values, err := readConfigFile(configFile)
	if err != nil {
		return err
	}

	change(values)

	return writeConfigFile(configFile, values)
}

func readConfigFile(configFile string) (map[string]interface{}, error) {
	values := map[string]interface{}{}

	// configFile comes from the --config flag or the user's home directory
	// #nosec G304
	data, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return values, nil
		}

		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if values == nil {
		values = map[string]interface{}{}
	}

	return values, nil
}

func writeConfigFile(configFile string, values map[string]interface{}) error {
	if err := os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(configFile, data, constants.ConfigFilePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func outputConfigUpdateResult(cmd *cobra.Command, action, key, value string) error {
	result := map[string]string{
		"action": action,
		"key":    key,
	}

	rows := [][]string{{"Action", action}, {"Key", key}}

	if value != "" {
		result["value"] = value
		rows = append(rows, []string{"Value", value})
	}

	return renderData(cmd.OutOrStdout(), result, rows)
}
