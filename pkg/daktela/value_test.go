package daktela_test

import (
	"encoding/json"
	"testing"

	"github.com/daktela/daktela-v6-go/pkg/daktela"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeValue(t *testing.T, document string) daktela.Value {
	t.Helper()

	var raw any
	require.NoError(t, json.Unmarshal([]byte(document), &raw))

	return daktela.NewValue(raw)
}

func TestValueFields(t *testing.T) {
	t.Parallel()

	value := decodeValue(t, `{
		"name": "1024",
		"parent_ticket": {"name": "1000", "user": {"name": "admin"}},
		"stage": null
	}`)

	name, err := value.Field("name")
	require.NoError(t, err)
	assert.Equal(t, "1024", name.String())

	parent, err := value.Field("parentTicket")
	require.NoError(t, err, "camelCase falls back to snake_case")
	assert.True(t, parent.Has("user"))

	user, err := value.Path("parentTicket", "user", "name")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.String())

	stage, err := value.Field("stage")
	require.NoError(t, err)
	assert.True(t, stage.IsNull())
	assert.True(t, value.Has("stage"))

	_, err = value.Field("missing")
	require.ErrorIs(t, err, daktela.ErrNotFound)
	assert.Contains(t, err.Error(), "field 'missing' not found")

	_, err = value.Path("parentTicket", "missing", "name")
	require.ErrorIs(t, err, daktela.ErrNotFound)

	_, err = daktela.NewValue("scalar").Field("name")
	require.ErrorIs(t, err, daktela.ErrNotFound)
}

func TestValueConversions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      any
		text     string
		number   float64
		numberOK bool
		boolean  bool
	}{
		{"nil", nil, "", 0, false, false},
		{"string number", " 42 ", " 42 ", 42, true, false},
		{"string word", "open", "open", 0, false, false},
		{"string true", "true", "true", 0, false, true},
		{"string one", "1", "1", 1, true, true},
		{"float", 3.75, "3.75", 3.75, true, true},
		{"zero", 0.0, "0", 0, true, false},
		{"json number", json.Number("12"), "12", 12, true, true},
		{"bool", true, "true", 1, true, true},
		{"object", map[string]any{"a": 1.0}, `{"a":1}`, 0, false, false},
		{"list", []any{"x"}, `["x"]`, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			value := daktela.NewValue(tt.raw)
			assert.Equal(t, tt.raw, value.Raw())
			assert.Equal(t, tt.text, value.String())
			assert.Equal(t, tt.boolean, value.Bool())

			number, err := value.Float()
			if !tt.numberOK {
				require.ErrorIs(t, err, daktela.ErrInvalidArgument)

				return
			}

			require.NoError(t, err)
			assert.InDelta(t, tt.number, number, 0.0001)
		})
	}
}

func TestValueInt(t *testing.T) {
	t.Parallel()

	n, err := daktela.NewValue(3.9).Int()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = daktela.NewValue("-7.5").Int()
	require.NoError(t, err)
	assert.Equal(t, -7, n)

	_, err = daktela.NewValue("seven").Int()
	require.ErrorIs(t, err, daktela.ErrInvalidArgument)
}

func TestValueCollections(t *testing.T) {
	t.Parallel()

	value := decodeValue(t, `{"tags": ["a", "b"], "meta": {"k": "v"}}`)

	tags, err := value.Field("tags")
	require.NoError(t, err)

	list, ok := tags.List()
	require.True(t, ok)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[1].String())

	_, ok = tags.Map()
	assert.False(t, ok)

	meta, err := value.Field("meta")
	require.NoError(t, err)

	object, ok := meta.Map()
	require.True(t, ok)
	assert.Equal(t, map[string]any{"k": "v"}, object)

	_, ok = meta.List()
	assert.False(t, ok)
}

func TestValueDecodeAndMarshal(t *testing.T) {
	t.Parallel()

	value := decodeValue(t, `{"name": "42", "title": "Printer on fire", "stage": "OPEN"}`)

	var ticket daktela.Ticket
	require.NoError(t, value.Decode(&ticket))
	assert.Equal(t, daktela.NumericID(42), ticket.Name)
	assert.Equal(t, daktela.TicketStageOpen, ticket.Stage)

	encoded, err := json.Marshal(map[string]any{"wrapped": value})
	require.NoError(t, err)
	assert.JSONEq(t, `{"wrapped":{"name":"42","title":"Printer on fire","stage":"OPEN"}}`, string(encoded))

	var target []string
	require.Error(t, value.Decode(&target))
}
