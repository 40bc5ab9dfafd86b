package daktela

import (
	"fmt"
	"strings"
)

// FilterLogic joins the clauses of a FilterTree.
type FilterLogic string

// Filter logic values.
const (
	LogicAnd FilterLogic = "and"
	LogicOr  FilterLogic = "or"
)

// Filter operators understood by the API.
const (
	OpEqual          = "eq"
	OpNotEqual       = "neq"
	OpLessThan       = "lt"
	OpLessOrEqual    = "lte"
	OpGreaterThan    = "gt"
	OpGreaterOrEqual = "gte"
	OpLike           = "like"
	OpIn             = "in"
	OpNotIn          = "notin"
	OpIsNull         = "isnull"
	OpIsNotNull      = "isnotnull"
	OpStartsWith     = "startswith"
	OpEndsWith       = "endswith"
	OpContains       = "contains"
	OpDoesNotContain = "doesnotcontain"
	OpIsEmpty        = "isempty"
	OpIsNotEmpty     = "isnotempty"
)

const shorthandClauseLen = 3

// FilterClause is a single field condition.
type FilterClause struct {
	Field    string `json:"field"    yaml:"field"`
	Operator string `json:"operator" yaml:"operator"`
	Value    any    `json:"value"    yaml:"value"`
}

// FilterTree is an ordered list of clauses joined by one logic operator.
type FilterTree struct {
	Logic   FilterLogic    `json:"logic"   yaml:"logic"`
	Filters []FilterClause `json:"filters" yaml:"filters"`
}

// NewFilterTree returns an empty tree with "and" logic.
func NewFilterTree() FilterTree {
	return FilterTree{Logic: LogicAnd, Filters: []FilterClause{}}
}

// IsEmpty reports a tree without clauses.
func (t *FilterTree) IsEmpty() bool {
	return len(t.Filters) == 0
}

// Add appends a clause.
func (t *FilterTree) Add(field, operator string, value any) {
	t.Filters = append(t.Filters, FilterClause{Field: field, Operator: operator, Value: value})
}

// SetLogic changes the logic operator.
func (t *FilterTree) SetLogic(logic FilterLogic) error {
	switch FilterLogic(strings.ToLower(string(logic))) {
	case LogicAnd:
		t.Logic = LogicAnd
	case LogicOr:
		t.Logic = LogicOr
	default:
		return fmt.Errorf("%w: filter logic %q", ErrInvalidArgument, logic)
	}

	return nil
}

// AddDefinition appends clauses described by loosely typed data. Accepted
// shapes are a list of clauses, each either {"field", "operator", "value"}
// or the shorthand [field, operator, value], and a group
// {"logic": ..., "filters": [...]} whose logic replaces the current one.
func (t *FilterTree) AddDefinition(definition any) error {
	switch def := definition.(type) {
	case map[string]any:
		if filters, ok := def["filters"]; ok {
			if logic, ok := def["logic"].(string); ok {
				if err := t.SetLogic(FilterLogic(logic)); err != nil {
					return err
				}
			}

			return t.AddDefinition(filters)
		}

		return t.addClause(def)
	case []map[string]any:
		for _, clause := range def {
			if err := t.addClause(clause); err != nil {
				return err
			}
		}
	case [][]any:
		for _, clause := range def {
			if err := t.addClause(clause); err != nil {
				return err
			}
		}
	case []any:
		for _, clause := range def {
			if err := t.addClause(clause); err != nil {
				return err
			}
		}
	case []FilterClause:
		t.Filters = append(t.Filters, def...)
	default:
		return fmt.Errorf("%w: unsupported filter definition %T", ErrInvalidArgument, definition)
	}

	return nil
}

func (t *FilterTree) addClause(clause any) error {
	switch c := clause.(type) {
	case map[string]any:
		field, ok := c["field"].(string)
		if !ok || field == "" {
			return fmt.Errorf("%w: filter clause without field", ErrInvalidArgument)
		}

		operator, _ := c["operator"].(string)
		if operator == "" {
			operator = OpEqual
		}

		t.Add(field, operator, c["value"])
	case []any:
		if len(c) != shorthandClauseLen {
			return fmt.Errorf("%w: shorthand filter needs %d elements, got %d", ErrInvalidArgument, shorthandClauseLen, len(c))
		}

		field, fieldOK := c[0].(string)
		operator, operatorOK := c[1].(string)

		if !fieldOK || !operatorOK {
			return fmt.Errorf("%w: shorthand filter field and operator must be strings", ErrInvalidArgument)
		}

		t.Add(field, operator, c[2])
	case FilterClause:
		t.Filters = append(t.Filters, c)
	default:
		return fmt.Errorf("%w: unsupported filter clause %T", ErrInvalidArgument, clause)
	}

	return nil
}

func (t *FilterTree) clone() FilterTree {
	filters := make([]FilterClause, len(t.Filters))
	copy(filters, t.Filters)

	return FilterTree{Logic: t.Logic, Filters: filters}
}

func (t *FilterTree) queryValue() map[string]any {
	filters := make([]any, 0, len(t.Filters))
	for _, clause := range t.Filters {
		filters = append(filters, map[string]any{
			"field":    clause.Field,
			"operator": clause.Operator,
			"value":    clause.Value,
		})
	}

	logic := t.Logic
	if logic == "" {
		logic = LogicAnd
	}

	return map[string]any{
		"logic":   string(logic),
		"filters": filters,
	}
}
