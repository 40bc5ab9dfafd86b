package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/daktela/daktela-v6-go/internal/constants"
	"github.com/daktela/daktela-v6-go/pkg/daktelaclient"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Viper keys of CLI-only settings.
const (
	keyConfig  = "config"
	keyOutput  = "output"
	keyVerbose = "verbose"
)

// NewRootCommand creates the daktela command tree.
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "daktela",
		Short: "Daktela V6 API CLI",
		Long: `A command-line interface for the Daktela V6 REST API.

Read, create, update and delete objects of any model, page through large
lists and check the health of an instance.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.daktela/config.yml)")
	flags.StringP("instance", "i", "", "instance URL, e.g. mycompany.daktela.com")
	flags.StringP("token", "t", "", "API access token")
	flags.String("auth-method", "", "token transport (header, query)")
	flags.StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	flags.BoolP("verbose", "v", false, "log HTTP traffic to stderr")
	flags.Int("max-retries", constants.DefaultRetryMax, "retries of failed calls")
	flags.String("timeout", "", "per attempt timeout in seconds or as a duration (e.g. 5s)")

	_ = viper.BindPFlag(keyConfig, flags.Lookup("config"))
	_ = viper.BindPFlag(daktelaclient.KeyInstance, flags.Lookup("instance"))
	_ = viper.BindPFlag(daktelaclient.KeyAccessToken, flags.Lookup("token"))
	_ = viper.BindPFlag(daktelaclient.KeyAuthMethod, flags.Lookup("auth-method"))
	_ = viper.BindPFlag(keyOutput, flags.Lookup("output"))
	_ = viper.BindPFlag(keyVerbose, flags.Lookup("verbose"))
	_ = viper.BindPFlag(daktelaclient.KeyMaxRetries, flags.Lookup("max-retries"))
	_ = viper.BindPFlag(daktelaclient.KeyTimeout, flags.Lookup("timeout"))

	rootCmd.AddCommand(NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(NewPingCommand())
	rootCmd.AddCommand(NewHealthCommand())
	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewGetCommand())
	rootCmd.AddCommand(NewCreateCommand())
	rootCmd.AddCommand(NewUpdateCommand())
	rootCmd.AddCommand(NewDeleteCommand())
	rootCmd.AddCommand(NewLoginCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

func initConfig() error {
	if _, err := os.Stat(constants.DefaultEnvFile); err == nil {
		_ = godotenv.Load(constants.DefaultEnvFile)
	}

	daktelaclient.BindEnv(viper.GetViper())

	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	viper.SetConfigFile(configFile)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	} else if viper.GetBool(keyVerbose) {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	switch viper.GetString(keyOutput) {
	case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
		return nil
	default:
		return fmt.Errorf("%w: %q", constants.ErrInvalidOutput, viper.GetString(keyOutput))
	}
}

// configFilePath returns the --config value or ~/.daktela/config.yml.
func configFilePath() (string, error) {
	if configFile := viper.GetString(keyConfig); configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, constants.DefaultConfigDir, constants.DefaultConfigFile), nil
}
