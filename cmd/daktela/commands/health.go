package commands

import (
	"fmt"
	"strconv"

	"github.com/daktela/daktela-v6-go/internal/constants"
	"github.com/spf13/cobra"
)

// NewPingCommand creates the ping command.
func NewPingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the instance answers",
		Long:  "Call the who-am-I endpoint and report whether it answered with a 2xx status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			if !client.Ping(cmd.Context()) {
				return constants.ErrNotHealthy
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "OK")

			return err
		},
	}
}

// NewHealthCommand creates the health command.
func NewHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Report instance health",
		Long:  "Call the who-am-I endpoint and report health, latency and status code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			status := client.HealthCheck(cmd.Context())

			rows := [][]string{
				{"Healthy", strconv.FormatBool(status.Healthy)},
				{"Latency (ms)", strconv.FormatFloat(status.LatencyMs, 'f', 2, 64)},
				{"Status Code", strconv.Itoa(status.StatusCode)},
			}

			if status.Error != "" {
				rows = append(rows, []string{"Error", status.Error})
			}

			if err := renderData(cmd.OutOrStdout(), status, rows); err != nil {
				return err
			}

			if !status.Healthy {
				return constants.ErrNotHealthy
			}

			return nil
		},
	}
}
