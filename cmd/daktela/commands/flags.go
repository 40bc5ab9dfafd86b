package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/daktela/daktela-v6-go/internal/constants"
	"github.com/daktela/daktela-v6-go/pkg/daktela"
)

// valueLessOperators take no value in a --filter flag.
var valueLessOperators = map[string]bool{
	daktela.OpIsNull:     true,
	daktela.OpIsNotNull:  true,
	daktela.OpIsEmpty:    true,
	daktela.OpIsNotEmpty: true,
}

// parseFilter parses field:operator:value. The value may contain colons.
// The in and notin operators take a comma separated list.
func parseFilter(arg string) (daktela.FilterClause, error) {
	parts := strings.SplitN(arg, ":", constants.FilterFlagParts)

	switch {
	case len(parts) == constants.FilterFlagParts && parts[0] != "" && parts[1] != "":
	case len(parts) == constants.FilterFlagParts-1 && parts[0] != "" && valueLessOperators[parts[1]]:
		return daktela.FilterClause{Field: parts[0], Operator: parts[1]}, nil
	default:
		return daktela.FilterClause{}, fmt.Errorf("%w: %q", constants.ErrInvalidFilterArg, arg)
	}

	var value any = parts[2]

	if parts[1] == daktela.OpIn || parts[1] == daktela.OpNotIn {
		list := []any{}
		for _, item := range strings.Split(parts[2], ",") {
			list = append(list, strings.TrimSpace(item))
		}

		value = list
	}

	return daktela.FilterClause{Field: parts[0], Operator: parts[1], Value: value}, nil
}

// parseSort parses field or field:dir.
func parseSort(arg string) (daktela.Sort, error) {
	field, dir, found := strings.Cut(arg, ":")
	if field == "" {
		return daktela.Sort{}, fmt.Errorf("%w: %q", constants.ErrInvalidSortArg, arg)
	}

	direction := daktela.SortAsc

	if found {
		direction = daktela.SortDirection(strings.ToLower(dir))
		if direction != daktela.SortAsc && direction != daktela.SortDesc {
			return daktela.Sort{}, fmt.Errorf("%w: %q", constants.ErrInvalidSortArg, arg)
		}
	}

	return daktela.Sort{Field: field, Dir: direction}, nil
}

// parseAttributes merges the --data JSON object with key=value pairs. Pairs
// win over keys of the object.
func parseAttributes(data string, pairs []string) (map[string]any, error) {
	attributes := map[string]any{}

	if strings.TrimSpace(data) != "" {
		if err := json.Unmarshal([]byte(data), &attributes); err != nil {
			return nil, fmt.Errorf("%w: %w", constants.ErrInvalidData, err)
		}

		if attributes == nil {
			attributes = map[string]any{}
		}
	}

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidAttribute, pair)
		}

		attributes[key] = value
	}

	return attributes, nil
}
