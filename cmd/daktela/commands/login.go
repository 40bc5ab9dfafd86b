package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/daktela/daktela-v6-go/internal/constants"
	"github.com/daktela/daktela-v6-go/pkg/daktelaclient"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Store instance and token",
		Long: `Verify an instance URL and access token against the who-am-I endpoint and
store both in the config file. Missing values are prompted for; the token is
read without echo.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(cmd.InOrStdin())

			instance := viper.GetString(daktelaclient.KeyInstance)
			if instance == "" {
				prompted, err := prompt(cmd.ErrOrStderr(), reader, "Instance: ")
				if err != nil {
					return err
				}

				instance = prompted
			}

			token := viper.GetString(daktelaclient.KeyAccessToken)
			if token == "" {
				read, err := readToken(cmd, reader)
				if err != nil {
					return err
				}

				token = read
			}

			config, err := loadClientConfig(cmd)
			if err != nil {
				return err
			}

			config.Instance = instance
			config.AccessToken = token

			client, err := daktelaclient.New(config)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			status := client.HealthCheck(cmd.Context())
			if !status.Healthy {
				return fmt.Errorf("%w: %s", constants.ErrNotHealthy, status.Error)
			}

			if err := updateConfigFile(func(values map[string]interface{}) {
				values[daktelaclient.KeyInstance] = instance
				values[daktelaclient.KeyAccessToken] = token
			}); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s\n", instance)

			return err
		},
	}
}

func prompt(out io.Writer, reader *bufio.Reader, label string) (string, error) {
	_, _ = fmt.Fprint(out, label)

	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimSpace(line), nil
}

// readToken reads the token without echo from a terminal, or as a plain
// line from any other input.
func readToken(cmd *cobra.Command, reader *bufio.Reader) (string, error) {
	if in, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(in.Fd())) {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Access token: ")

		secret, err := term.ReadPassword(int(in.Fd()))
		_, _ = fmt.Fprintln(cmd.ErrOrStderr())

		if err != nil {
			return "", fmt.Errorf("failed to read access token: %w", err)
		}

		return strings.TrimSpace(string(secret)), nil
	}

	return prompt(cmd.ErrOrStderr(), reader, "Access token: ")
}
