package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/daktela/daktela-v6-go/internal/constants"
	"github.com/daktela/daktela-v6-go/pkg/daktela"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// leadingColumns are shown first when present.
var leadingColumns = []string{"name", "title", "stage"}

func outputFormat() string {
	return viper.GetString(keyOutput)
}

// renderData writes data as JSON or YAML. For table output, rows are
// rendered as a Property/Value table.
func renderData(out io.Writer, data interface{}, rows [][]string) error {
	switch outputFormat() {
	case constants.FormatJSON:
		return renderJSON(out, data)
	case constants.FormatYAML:
		return renderYAML(out, data)
	default:
		return renderTable(out, []string{"Property", "Value"}, rows)
	}
}

func renderJSON(out io.Writer, data interface{}) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", strings.Repeat(" ", constants.DefaultJSONIndent))

	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

func renderYAML(out io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(out)
	defer func() { _ = encoder.Close() }()

	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}

func renderTable(out io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(out)

	header := make([]any, 0, len(headers))
	for _, h := range headers {
		header = append(header, h)
	}

	table.Header(header...)

	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to append table row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderEnvelope writes the payload of env. An envelope with a non-2xx
// status or reported errors is rendered and then returned as an error.
func renderEnvelope(out io.Writer, env *daktela.Envelope) error {
	var err error

	switch outputFormat() {
	case constants.FormatJSON:
		err = renderJSON(out, env)
	case constants.FormatYAML:
		err = renderYAML(out, env)
	default:
		err = renderEnvelopeTable(out, env)
	}

	if err != nil {
		return err
	}

	return envelopeError(env)
}

func envelopeError(env *daktela.Envelope) error {
	if env.IsSuccess() && !env.HasErrors() {
		return nil
	}

	messages := make([]string, 0, len(env.Errors))
	for _, e := range env.Errors {
		messages = append(messages, formatCell(e))
	}

	return fmt.Errorf("%w (status %d): %s", constants.ErrAPIErrors, env.HTTPStatus, strings.Join(messages, "; "))
}

func renderEnvelopeTable(out io.Writer, env *daktela.Envelope) error {
	switch data := env.Data.(type) {
	case []interface{}:
		if len(data) == 0 {
			_, err := fmt.Fprintln(out, "No objects found")

			return err
		}

		headers, rows := itemRows(data)
		if err := renderTable(out, headers, rows); err != nil {
			return err
		}

		_, err := fmt.Fprintf(out, "Total: %d\n", env.Total)

		return err
	case map[string]interface{}:
		return renderTable(out, []string{"Property", "Value"}, propertyRows(data))
	case nil:
		return nil
	default:
		_, err := fmt.Fprintln(out, formatCell(data))

		return err
	}
}

// itemRows builds one row per item over the union of their keys.
func itemRows(items []interface{}) ([]string, [][]string) {
	seen := map[string]bool{}

	var others []string

	for _, item := range items {
		object, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		for key := range object {
			if !seen[key] {
				seen[key] = true
				others = append(others, key)
			}
		}
	}

	slices.Sort(others)

	headers := make([]string, 0, len(others))

	for _, key := range leadingColumns {
		if seen[key] {
			headers = append(headers, key)
		}
	}

	for _, key := range others {
		if !slices.Contains(leadingColumns, key) {
			headers = append(headers, key)
		}
	}

	if len(headers) == 0 {
		headers = []string{"value"}
	}

	rows := make([][]string, 0, len(items))

	for _, item := range items {
		object, ok := item.(map[string]interface{})
		if !ok {
			rows = append(rows, []string{formatCell(item)})

			continue
		}

		row := make([]string, 0, len(headers))
		for _, key := range headers {
			row = append(row, formatCell(object[key]))
		}

		rows = append(rows, row)
	}

	return headers, rows
}

func propertyRows(object map[string]interface{}) [][]string {
	keys := make([]string, 0, len(object))
	for key := range object {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, []string{key, formatCell(object[key])})
	}

	return rows
}

// formatCell renders scalars as-is and nested values as compact JSON,
// truncated for table output.
func formatCell(value interface{}) string {
	var text string

	switch v := value.(type) {
	case nil:
		return ""
	case string:
		text = v
	case map[string]interface{}, []interface{}:
		encoded, err := json.Marshal(v)
		if err != nil {
			text = fmt.Sprint(v)
		} else {
			text = string(encoded)
		}
	default:
		text = fmt.Sprint(v)
	}

	runes := []rune(text)
	if len(runes) > constants.TableValueMaxWidth {
		return string(runes[:constants.TableValueMaxWidth-3]) + "..."
	}

	return text
}
