package daktela

import (
	"fmt"
	"maps"
	"strings"
)

// Kind discriminates the operation a Request describes.
type Kind int

// Request kinds.
const (
	KindCreate Kind = iota + 1
	KindRead
	KindUpdate
	KindDelete
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindRead:
		return "read"
	case KindUpdate:
		return "update"
	case KindDelete:
		return "delete"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ReadMode selects how a read is performed.
type ReadMode int

// Read modes.
const (
	ReadMultiple ReadMode = iota
	ReadSingle
	ReadAll
)

// String returns the mode name.
func (m ReadMode) String() string {
	switch m {
	case ReadMultiple:
		return "multiple"
	case ReadSingle:
		return "single"
	case ReadAll:
		return "all"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// SortDirection orders a sorted field.
type SortDirection string

// Sort directions.
const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Sort orders results by one field.
type Sort struct {
	Field string        `json:"field" yaml:"field"`
	Dir   SortDirection `json:"dir"   yaml:"dir"`
}

// DefaultTake is the default page size of list reads.
const DefaultTake = 100

// Request describes one intended operation before execution. Kind selects
// which of the fields are used: attributes for create and update, the read
// parameters for reads, the object name for everything but create and list
// reads.
//
// Builder methods return the receiver so calls can be chained. Builder
// mistakes, such as an unknown sort direction, are recorded and reported by
// Err and by execution.
type Request struct {
	Kind                  Kind
	Mode                  ReadMode
	Model                 string
	ObjectName            string
	Relation              string
	Attributes            map[string]any
	Filter                FilterTree
	Sorts                 []Sort
	Skip                  int
	Take                  int
	Fields                []string
	AdditionalQueryParams map[string]any
	SkipErrorRequests     bool

	err      error
	executed bool
	envelope *Envelope
}

func newRequest(kind Kind, model string) *Request {
	return &Request{
		Kind:                  kind,
		Mode:                  ReadMultiple,
		Model:                 model,
		Attributes:            map[string]any{},
		Filter:                NewFilterTree(),
		Sorts:                 []Sort{},
		Take:                  DefaultTake,
		Fields:                []string{},
		AdditionalQueryParams: map[string]any{},
	}
}

// NewCreateRequest describes a POST of a new object.
func NewCreateRequest(model string) *Request {
	return newRequest(KindCreate, model)
}

// NewReadRequest describes a paged list read.
func NewReadRequest(model string) *Request {
	return newRequest(KindRead, model)
}

// NewReadSingleRequest describes a read of one named object.
func NewReadSingleRequest(model, objectName string) *Request {
	return newRequest(KindRead, model).WithReadMode(ReadSingle).WithObjectName(objectName)
}

// NewReadAllRequest describes a list read that follows every page.
func NewReadAllRequest(model string) *Request {
	return newRequest(KindRead, model).WithReadMode(ReadAll)
}

// NewReadRelationRequest describes a list read of a relation of one object,
// for example the activities of a ticket.
func NewReadRelationRequest(model, objectName, relation string) *Request {
	return newRequest(KindRead, model).WithObjectName(objectName).WithRelation(relation)
}

// NewUpdateRequest describes a PUT of an existing object.
func NewUpdateRequest(model, objectName string) *Request {
	return newRequest(KindUpdate, model).WithObjectName(objectName)
}

// NewDeleteRequest describes a DELETE of an existing object.
func NewDeleteRequest(model, objectName string) *Request {
	return newRequest(KindDelete, model).WithObjectName(objectName)
}

// Err returns the first builder mistake.
func (r *Request) Err() error {
	return r.err
}

func (r *Request) fail(err error) *Request {
	if r.err == nil {
		r.err = err
	}

	return r
}

// WithObjectName sets the object the request targets.
func (r *Request) WithObjectName(name string) *Request {
	r.ObjectName = name

	return r
}

// WithRelation sets the relation read from the named object. The first
// letter is lower-cased to match endpoint naming.
func (r *Request) WithRelation(relation string) *Request {
	r.Relation = LowerFirst(relation)

	return r
}

// WithReadMode selects single, multiple or all.
func (r *Request) WithReadMode(mode ReadMode) *Request {
	r.Mode = mode

	return r
}

// WithFields replaces the selected fields.
func (r *Request) WithFields(fields ...string) *Request {
	r.Fields = append([]string{}, fields...)

	return r
}

// AddField appends a selected field.
func (r *Request) AddField(field string) *Request {
	r.Fields = append(r.Fields, field)

	return r
}

// AddFilter appends a filter clause.
func (r *Request) AddFilter(field, operator string, value any) *Request {
	r.Filter.Add(field, operator, value)

	return r
}

// AddFilters appends clauses from loosely typed data, see FilterTree.AddDefinition.
func (r *Request) AddFilters(definition any) *Request {
	if err := r.Filter.AddDefinition(definition); err != nil {
		return r.fail(err)
	}

	return r
}

// WithFilterLogic sets how filter clauses are joined.
func (r *Request) WithFilterLogic(logic FilterLogic) *Request {
	if err := r.Filter.SetLogic(logic); err != nil {
		return r.fail(err)
	}

	return r
}

// AddSort appends a sort on field. dir is asc or desc, case-insensitive.
func (r *Request) AddSort(field string, dir SortDirection) *Request {
	normalized := SortDirection(strings.ToLower(string(dir)))
	if normalized != SortAsc && normalized != SortDesc {
		return r.fail(fmt.Errorf("%w: sort direction %q", ErrInvalidArgument, dir))
	}

	r.Sorts = append(r.Sorts, Sort{Field: field, Dir: normalized})

	return r
}

// WithSkip sets the list offset.
func (r *Request) WithSkip(skip int) *Request {
	r.Skip = skip

	return r
}

// WithTake sets the list page size.
func (r *Request) WithTake(take int) *Request {
	r.Take = take

	return r
}

// WithSkipErrorRequests makes read-all continue past pages reporting errors.
func (r *Request) WithSkipErrorRequests(skip bool) *Request {
	r.SkipErrorRequests = skip

	return r
}

// AddQueryParam adds a raw query parameter. Existing keys are overwritten.
func (r *Request) AddQueryParam(key string, value any) *Request {
	if r.AdditionalQueryParams == nil {
		r.AdditionalQueryParams = map[string]any{}
	}

	r.AdditionalQueryParams[key] = value

	return r
}

// AddQueryParams adds raw query parameters.
func (r *Request) AddQueryParams(params map[string]any) *Request {
	if r.AdditionalQueryParams == nil {
		r.AdditionalQueryParams = map[string]any{}
	}

	maps.Copy(r.AdditionalQueryParams, params)

	return r
}

// AddAttribute sets an attribute of the object being written.
func (r *Request) AddAttribute(key string, value any) *Request {
	if r.Attributes == nil {
		r.Attributes = map[string]any{}
	}

	r.Attributes[key] = value

	return r
}

// AddStringAttribute sets a string attribute.
func (r *Request) AddStringAttribute(key, value string) *Request {
	return r.AddAttribute(key, value)
}

// AddIntAttribute sets an integer attribute.
func (r *Request) AddIntAttribute(key string, value int) *Request {
	return r.AddAttribute(key, value)
}

// AddFloatAttribute sets a floating point attribute.
func (r *Request) AddFloatAttribute(key string, value float64) *Request {
	return r.AddAttribute(key, value)
}

// AddBoolAttribute sets a boolean attribute.
func (r *Request) AddBoolAttribute(key string, value bool) *Request {
	return r.AddAttribute(key, value)
}

// AddArrayAttribute sets a list attribute.
func (r *Request) AddArrayAttribute(key string, value []any) *Request {
	return r.AddAttribute(key, value)
}

// AddAttributes sets several attributes at once.
func (r *Request) AddAttributes(attributes map[string]any) *Request {
	if r.Attributes == nil {
		r.Attributes = map[string]any{}
	}

	maps.Copy(r.Attributes, attributes)

	return r
}

// IsExecuted reports whether the request already produced an envelope.
func (r *Request) IsExecuted() bool {
	return r.executed
}

// SetExecuted changes the executed flag. Clearing it forces the next
// execution to go to the network again.
func (r *Request) SetExecuted(executed bool) *Request {
	r.executed = executed

	return r
}

// Envelope returns the cached envelope of an executed request.
func (r *Request) Envelope() *Envelope {
	return r.envelope
}

// Complete caches env and marks the request executed.
func (r *Request) Complete(env *Envelope) {
	r.envelope = env
	r.executed = true
}

// Endpoint returns the model path, extended with object name and relation
// for relation reads.
func (r *Request) Endpoint() string {
	switch {
	case r.Kind == KindCreate:
		return r.Model
	case r.Kind == KindRead && r.Mode != ReadSingle:
		if r.Relation != "" && r.ObjectName != "" {
			return r.Model + "/" + r.ObjectName + "/" + r.Relation
		}

		return r.Model
	default:
		return r.Model + "/" + r.ObjectName
	}
}

// ListQuery returns the query of a list page starting at skip.
func (r *Request) ListQuery(skip, take int) map[string]any {
	query := maps.Clone(r.AdditionalQueryParams)
	if query == nil {
		query = map[string]any{}
	}

	query["skip"] = skip
	query["take"] = take

	if !r.Filter.IsEmpty() {
		query["filter"] = r.Filter.queryValue()
	}

	if len(r.Sorts) > 0 {
		sorts := make([]any, 0, len(r.Sorts))
		for _, s := range r.Sorts {
			sorts = append(sorts, map[string]any{"field": s.Field, "dir": string(s.Dir)})
		}

		query["sort"] = sorts
	}

	return r.withFields(query)
}

// SingleQuery returns the query of a single object read.
func (r *Request) SingleQuery() map[string]any {
	query := maps.Clone(r.AdditionalQueryParams)
	if query == nil {
		query = map[string]any{}
	}

	return r.withFields(query)
}

func (r *Request) withFields(query map[string]any) map[string]any {
	if len(r.Fields) > 0 {
		query["fields"] = append([]string{}, r.Fields...)
	}

	return query
}

// Clone returns a deep copy without the executed state.
func (r *Request) Clone() *Request {
	clone := *r
	clone.Attributes = maps.Clone(r.Attributes)
	clone.AdditionalQueryParams = maps.Clone(r.AdditionalQueryParams)
	clone.Filter = r.Filter.clone()
	clone.Sorts = append([]Sort{}, r.Sorts...)
	clone.Fields = append([]string{}, r.Fields...)
	clone.executed = false
	clone.envelope = nil

	if clone.Attributes == nil {
		clone.Attributes = map[string]any{}
	}

	if clone.AdditionalQueryParams == nil {
		clone.AdditionalQueryParams = map[string]any{}
	}

	return &clone
}
