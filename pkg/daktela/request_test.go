package daktela_test

import (
	"testing"

	"github.com/daktela/daktela-v6-go/pkg/daktela"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestConstructors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		req      *daktela.Request
		kind     daktela.Kind
		mode     daktela.ReadMode
		endpoint string
	}{
		{"create", daktela.NewCreateRequest("tickets"), daktela.KindCreate, daktela.ReadMultiple, "tickets"},
		{"read", daktela.NewReadRequest("tickets"), daktela.KindRead, daktela.ReadMultiple, "tickets"},
		{"read single", daktela.NewReadSingleRequest("tickets", "1024"), daktela.KindRead, daktela.ReadSingle, "tickets/1024"},
		{"read all", daktela.NewReadAllRequest("users"), daktela.KindRead, daktela.ReadAll, "users"},
		{"relation", daktela.NewReadRelationRequest("tickets", "1024", "Activities"), daktela.KindRead, daktela.ReadMultiple, "tickets/1024/activities"},
		{"update", daktela.NewUpdateRequest("tickets", "1024"), daktela.KindUpdate, daktela.ReadMultiple, "tickets/1024"},
		{"delete", daktela.NewDeleteRequest("tickets", "1024"), daktela.KindDelete, daktela.ReadMultiple, "tickets/1024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.kind, tt.req.Kind)
			assert.Equal(t, tt.mode, tt.req.Mode)
			assert.Equal(t, tt.endpoint, tt.req.Endpoint())
			assert.Equal(t, daktela.DefaultTake, tt.req.Take)
			assert.False(t, tt.req.IsExecuted())
			assert.NoError(t, tt.req.Err())
		})
	}
}

func TestKindAndModeStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "create", daktela.KindCreate.String())
	assert.Equal(t, "read", daktela.KindRead.String())
	assert.Equal(t, "update", daktela.KindUpdate.String())
	assert.Equal(t, "delete", daktela.KindDelete.String())
	assert.Equal(t, "kind(9)", daktela.Kind(9).String())

	assert.Equal(t, "multiple", daktela.ReadMultiple.String())
	assert.Equal(t, "single", daktela.ReadSingle.String())
	assert.Equal(t, "all", daktela.ReadAll.String())
	assert.Equal(t, "mode(7)", daktela.ReadMode(7).String())
}

func TestRequestAttributes(t *testing.T) {
	t.Parallel()

	req := daktela.NewCreateRequest("tickets").
		AddStringAttribute("title", "Printer on fire").
		AddIntAttribute("priority_level", 2).
		AddFloatAttribute("score", 0.5).
		AddBoolAttribute("vip", true).
		AddArrayAttribute("tags", []any{"hardware"}).
		AddAttributes(map[string]any{"stage": "OPEN", "title": "Replaced"})

	assert.Equal(t, map[string]any{
		"title":          "Replaced",
		"priority_level": 2,
		"score":          0.5,
		"vip":            true,
		"tags":           []any{"hardware"},
		"stage":          "OPEN",
	}, req.Attributes)
}

func TestRequestBuilderMistakes(t *testing.T) {
	t.Parallel()

	req := daktela.NewReadRequest("tickets").
		AddSort("edited", "sideways").
		WithFilterLogic("xor")

	require.ErrorIs(t, req.Err(), daktela.ErrInvalidArgument)
	assert.Contains(t, req.Err().Error(), "sideways")
	assert.Empty(t, req.Sorts)

	req = daktela.NewReadRequest("tickets").AddSort("edited", "DESC").WithFilterLogic("OR")
	require.NoError(t, req.Err())
	assert.Equal(t, []daktela.Sort{{Field: "edited", Dir: daktela.SortDesc}}, req.Sorts)
	assert.Equal(t, daktela.LogicOr, req.Filter.Logic)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestRequestAddFilters(t *testing.T) {
	t.Parallel()

	t.Run("clause maps", func(t *testing.T) {
		t.Parallel()

		req := daktela.NewReadRequest("tickets").AddFilters([]map[string]any{
			{"field": "stage", "operator": "eq", "value": "OPEN"},
			{"field": "category", "value": "support"},
		})
		require.NoError(t, req.Err())
		assert.Equal(t, []daktela.FilterClause{
			{Field: "stage", Operator: "eq", Value: "OPEN"},
			{Field: "category", Operator: "eq", Value: "support"},
		}, req.Filter.Filters)
	})

	t.Run("shorthand", func(t *testing.T) {
		t.Parallel()

		req := daktela.NewReadRequest("tickets").AddFilters([]any{
			[]any{"stage", "in", []any{"OPEN", "WAIT"}},
			map[string]any{"field": "user", "operator": "isnull"},
		})
		require.NoError(t, req.Err())
		assert.Equal(t, []daktela.FilterClause{
			{Field: "stage", Operator: "in", Value: []any{"OPEN", "WAIT"}},
			{Field: "user", Operator: "isnull"},
		}, req.Filter.Filters)
	})

	t.Run("group replaces logic", func(t *testing.T) {
		t.Parallel()

		req := daktela.NewReadRequest("tickets").AddFilters(map[string]any{
			"logic":   "or",
			"filters": [][]any{{"stage", "eq", "OPEN"}, {"stage", "eq", "WAIT"}},
		})
		require.NoError(t, req.Err())
		assert.Equal(t, daktela.LogicOr, req.Filter.Logic)
		assert.Len(t, req.Filter.Filters, 2)
	})

	t.Run("single clause map", func(t *testing.T) {
		t.Parallel()

		req := daktela.NewReadRequest("tickets").AddFilters(map[string]any{"field": "stage", "operator": "neq", "value": "CLOSE"})
		require.NoError(t, req.Err())
		assert.Equal(t, []daktela.FilterClause{{Field: "stage", Operator: "neq", Value: "CLOSE"}}, req.Filter.Filters)
	})

	t.Run("typed clauses", func(t *testing.T) {
		t.Parallel()

		req := daktela.NewReadRequest("tickets").AddFilters([]daktela.FilterClause{{Field: "name", Operator: "gt", Value: 10}})
		require.NoError(t, req.Err())
		assert.Len(t, req.Filter.Filters, 1)
	})

	invalid := []struct {
		name       string
		definition any
	}{
		{"wrong type", "stage=OPEN"},
		{"short shorthand", []any{[]any{"stage", "eq"}}},
		{"non-string field", []any{[]any{1, "eq", "x"}}},
		{"clause without field", []map[string]any{{"operator": "eq", "value": "x"}}},
		{"bad group logic", map[string]any{"logic": "xor", "filters": []any{}}},
		{"unsupported clause", []any{42}},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := daktela.NewReadRequest("tickets").AddFilters(tt.definition)
			require.ErrorIs(t, req.Err(), daktela.ErrInvalidArgument)
		})
	}
}

func TestRequestQueries(t *testing.T) {
	t.Parallel()

	req := daktela.NewReadRequest("tickets").
		AddFilter("stage", daktela.OpEqual, "OPEN").
		AddSort("edited", daktela.SortDesc).
		WithFields("name", "title").
		AddQueryParam("lang", "cs").
		AddQueryParams(map[string]any{"_dc": 1})

	list := req.ListQuery(20, 10)
	assert.Equal(t, 20, list["skip"])
	assert.Equal(t, 10, list["take"])
	assert.Equal(t, "cs", list["lang"])
	assert.Equal(t, 1, list["_dc"])
	assert.Equal(t, []string{"name", "title"}, list["fields"])
	assert.Equal(t, []any{map[string]any{"field": "edited", "dir": "desc"}}, list["sort"])
	assert.Equal(t, map[string]any{
		"logic":   "and",
		"filters": []any{map[string]any{"field": "stage", "operator": "eq", "value": "OPEN"}},
	}, list["filter"])

	_, hasSkip := req.AdditionalQueryParams["skip"]
	assert.False(t, hasSkip, "list query must not leak into the request")

	single := req.SingleQuery()
	assert.Equal(t, map[string]any{"lang": "cs", "_dc": 1, "fields": []string{"name", "title"}}, single)

	bare := daktela.NewReadRequest("users").ListQuery(0, 100)
	assert.Equal(t, map[string]any{"skip": 0, "take": 100}, bare)
}

func TestRequestCloneAndExecution(t *testing.T) {
	t.Parallel()

	req := daktela.NewReadRequest("tickets").
		AddFilter("stage", daktela.OpEqual, "OPEN").
		AddQueryParam("lang", "cs").
		WithFields("name")

	env := daktela.NewEnvelope([]any{}, 0, nil, 200)
	req.Complete(env)

	assert.True(t, req.IsExecuted())
	assert.Same(t, env, req.Envelope())

	clone := req.Clone()
	assert.False(t, clone.IsExecuted())
	assert.Nil(t, clone.Envelope())

	clone.AddFilter("user", daktela.OpEqual, "admin").AddQueryParam("lang", "en").AddField("title")
	assert.Len(t, req.Filter.Filters, 1)
	assert.Equal(t, "cs", req.AdditionalQueryParams["lang"])
	assert.Equal(t, []string{"name"}, req.Fields)

	req.SetExecuted(false)
	assert.False(t, req.IsExecuted())
}

func TestListParamsApplyTo(t *testing.T) {
	t.Parallel()

	params := daktela.NewListParams().
		WithFilter("stage", daktela.OpEqual, "OPEN").
		WithSort("created", daktela.SortAsc)
	params.Logic = daktela.LogicOr
	params.Skip = 5
	params.Take = 25
	params.Fields = []string{"name"}
	params.Query = map[string]any{"lang": "cs"}
	params.SkipErrorRequests = true

	req := params.ApplyTo(daktela.NewReadRequest("tickets"))
	require.NoError(t, req.Err())

	assert.Equal(t, daktela.LogicOr, req.Filter.Logic)
	assert.Len(t, req.Filter.Filters, 1)
	assert.Equal(t, []daktela.Sort{{Field: "created", Dir: daktela.SortAsc}}, req.Sorts)
	assert.Equal(t, 5, req.Skip)
	assert.Equal(t, 25, req.Take)
	assert.Equal(t, []string{"name"}, req.Fields)
	assert.Equal(t, "cs", req.AdditionalQueryParams["lang"])
	assert.True(t, req.SkipErrorRequests)

	var nilParams *daktela.ListParams

	untouched := daktela.NewReadRequest("users")
	assert.Same(t, untouched, nilParams.ApplyTo(untouched))
}

func TestLowerFirst(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "activities", daktela.LowerFirst("Activities"))
	assert.Equal(t, "campaignsRecords", daktela.LowerFirst("CampaignsRecords"))
	assert.Empty(t, daktela.LowerFirst(""))
}
