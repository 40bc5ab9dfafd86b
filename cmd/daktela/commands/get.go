package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewGetCommand creates the get command.
func NewGetCommand() *cobra.Command {
	var fields []string

	cmd := &cobra.Command{
		Use:     "get MODEL NAME",
		Short:   "Get one object",
		Long:    "Read a single object of a model by its name",
		Example: "  daktela get tickets 1024 --fields title,stage",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			env, err := client.Resource(args[0]).Get(cmd.Context(), args[1], fields...)
			if err != nil {
				return fmt.Errorf("failed to get %s %s: %w", args[0], args[1], err)
			}

			return renderEnvelope(cmd.OutOrStdout(), env)
		},
	}

	cmd.Flags().StringSliceVar(&fields, "fields", nil, "fields to return")

	return cmd
}
