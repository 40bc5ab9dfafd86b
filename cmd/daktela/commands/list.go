package commands

import (
	"encoding/json"
	"fmt"

	"github.com/daktela/daktela-v6-go/internal/constants"
	"github.com/daktela/daktela-v6-go/pkg/daktela"
	"github.com/spf13/cobra"
)

type listOptions struct {
	filters    []string
	logic      string
	sorts      []string
	fields     []string
	skip       int
	take       int
	all        bool
	skipErrors bool
	object     string
	relation   string
	stream     bool
	maxItems   int
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list MODEL",
		Short: "List objects of a model",
		Long: `List objects of a model, for example users, tickets or campaignsRecords.

Use --object and --relation to list a relation of one object, e.g.
"list tickets --object 1024 --relation activities". --all reads every page
into one result; --stream pages lazily and prints one JSON document per line.`,
		Example: `  daktela list tickets --filter stage:eq:OPEN --sort edited:desc --take 20
  daktela list users --fields name,title --all`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := buildListRequest(args[0], opts)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			if opts.stream {
				return streamItems(cmd, client, req, opts)
			}

			env, err := client.Execute(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", args[0], err)
			}

			return renderEnvelope(cmd.OutOrStdout(), env)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&opts.filters, "filter", "f", nil, "filter as field:operator:value (repeatable)")
	flags.StringVar(&opts.logic, "logic", string(daktela.LogicAnd), "logic joining the filters (and, or)")
	flags.StringArrayVarP(&opts.sorts, "sort", "s", nil, "sort as field[:asc|desc] (repeatable)")
	flags.StringSliceVar(&opts.fields, "fields", nil, "fields to return")
	flags.IntVar(&opts.skip, "skip", 0, "number of objects to skip")
	flags.IntVar(&opts.take, "take", constants.DefaultTake, "page size")
	flags.BoolVar(&opts.all, "all", false, "read every page")
	flags.BoolVar(&opts.skipErrors, "skip-errors", false, "with --all, continue past pages reporting errors")
	flags.StringVar(&opts.object, "object", "", "object whose relation is listed")
	flags.StringVar(&opts.relation, "relation", "", "relation of --object to list")
	flags.BoolVar(&opts.stream, "stream", false, "page lazily and print one JSON document per object")
	flags.IntVar(&opts.maxItems, "max-items", 0, "with --stream, stop after this many objects (0 means no limit)")

	return cmd
}

func buildListRequest(model string, opts *listOptions) (*daktela.Request, error) {
	var req *daktela.Request

	if opts.relation != "" {
		req = daktela.NewReadRelationRequest(model, opts.object, opts.relation)
	} else {
		req = daktela.NewReadRequest(model)
	}

	req.WithFilterLogic(daktela.FilterLogic(opts.logic))

	for _, arg := range opts.filters {
		clause, err := parseFilter(arg)
		if err != nil {
			return nil, err
		}

		req.AddFilter(clause.Field, clause.Operator, clause.Value)
	}

	for _, arg := range opts.sorts {
		sort, err := parseSort(arg)
		if err != nil {
			return nil, err
		}

		req.AddSort(sort.Field, sort.Dir)
	}

	req.WithFields(opts.fields...).
		WithSkip(opts.skip).
		WithTake(opts.take).
		WithSkipErrorRequests(opts.skipErrors)

	if opts.all {
		req.WithReadMode(daktela.ReadAll)
	}

	if err := req.Err(); err != nil {
		return nil, err
	}

	return req, nil
}

func streamItems(cmd *cobra.Command, client daktela.Client, req *daktela.Request, opts *listOptions) error {
	iterator := client.Iterate(cmd.Context(), req,
		daktela.WithPageSize(opts.take),
		daktela.WithMaxItems(opts.maxItems))

	encoder := json.NewEncoder(cmd.OutOrStdout())
	items := iterator.Items()

	for items.HasNext() {
		item, err := items.Next()
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", req.Model, err)
		}

		if err := encoder.Encode(item); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
	}

	if err := items.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", req.Model, err)
	}

	return nil
}
