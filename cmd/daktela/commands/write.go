package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

type writeOptions struct {
	attributes []string
	data       string
}

func addWriteFlags(cmd *cobra.Command, opts *writeOptions) {
	cmd.Flags().StringArrayVarP(&opts.attributes, "attr", "a", nil, "attribute as key=value (repeatable)")
	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "attributes as a JSON object")
}

// NewCreateCommand creates the create command.
func NewCreateCommand() *cobra.Command {
	opts := &writeOptions{}

	cmd := &cobra.Command{
		Use:     "create MODEL",
		Short:   "Create an object",
		Long:    "Create an object of a model from --attr pairs and a --data JSON object",
		Example: `  daktela create tickets --attr title="Printer on fire" --attr stage=OPEN`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			attributes, err := parseAttributes(opts.data, opts.attributes)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			env, err := client.Resource(args[0]).Create(cmd.Context(), attributes)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", args[0], err)
			}

			return renderEnvelope(cmd.OutOrStdout(), env)
		},
	}

	addWriteFlags(cmd, opts)

	return cmd
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand() *cobra.Command {
	opts := &writeOptions{}

	cmd := &cobra.Command{
		Use:     "update MODEL NAME",
		Short:   "Update an object",
		Long:    "Update attributes of an existing object",
		Example: `  daktela update tickets 1024 --data '{"stage":"CLOSE"}'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			attributes, err := parseAttributes(opts.data, opts.attributes)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			env, err := client.Resource(args[0]).Update(cmd.Context(), args[1], attributes)
			if err != nil {
				return fmt.Errorf("failed to update %s %s: %w", args[0], args[1], err)
			}

			return renderEnvelope(cmd.OutOrStdout(), env)
		},
	}

	addWriteFlags(cmd, opts)

	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete MODEL NAME",
		Short: "Delete an object",
		Long:  "Delete an existing object of a model",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			env, err := client.Resource(args[0]).Delete(cmd.Context(), args[1])
			if err != nil {
				return fmt.Errorf("failed to delete %s %s: %w", args[0], args[1], err)
			}

			if err := envelopeError(env); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", args[0], args[1])

			return err
		},
	}
}
