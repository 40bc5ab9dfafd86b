package commands

import (
	"fmt"

	"github.com/daktela/daktela-v6-go/pkg/daktela"
	"github.com/daktela/daktela-v6-go/pkg/daktelaclient"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadClientConfig resolves flags, environment and config file into a
// client configuration.
func loadClientConfig(cmd *cobra.Command) (*daktela.Config, error) {
	config, err := daktelaclient.ConfigFromViper(viper.GetViper())
	if err != nil {
		return nil, err
	}

	verbose := viper.GetBool(keyVerbose)
	config.Logger = NewZerologLogger(cmd.ErrOrStderr(), verbose)
	config.Debug = config.Debug || verbose

	return config, nil
}

// newClient creates an API client from the resolved configuration.
func newClient(cmd *cobra.Command) (daktela.Client, error) {
	config, err := loadClientConfig(cmd)
	if err != nil {
		return nil, err
	}

	client, err := daktelaclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}
