package daktela

import (
	"net/http"
)

// Envelope is the parsed result of one HTTP exchange.
type Envelope struct {
	Data       any   `json:"data"        yaml:"data"`
	Total      int   `json:"total"       yaml:"total"`
	Errors     []any `json:"errors"      yaml:"errors"`
	HTTPStatus int   `json:"http_status" yaml:"http_status"`
}

// NewEnvelope creates an Envelope, normalising a nil error list to an empty one.
func NewEnvelope(data any, total int, errs []any, httpStatus int) *Envelope {
	if errs == nil {
		errs = []any{}
	}

	return &Envelope{
		Data:       data,
		Total:      total,
		Errors:     errs,
		HTTPStatus: httpStatus,
	}
}

// IsSuccess reports a 2xx status.
func (e *Envelope) IsSuccess() bool {
	return e.HTTPStatus >= http.StatusOK && e.HTTPStatus < http.StatusMultipleChoices
}

// HasErrors reports whether the server or transport reported errors.
func (e *Envelope) HasErrors() bool {
	return len(e.Errors) > 0
}

// FirstError returns the first reported error or nil.
func (e *Envelope) FirstError() any {
	if len(e.Errors) > 0 {
		return e.Errors[0]
	}

	return nil
}

// IsEmpty reports whether data is null, an empty list or an empty object.
// Scalars are never empty.
func (e *Envelope) IsEmpty() bool {
	switch data := e.Data.(type) {
	case nil:
		return true
	case []any:
		return len(data) == 0
	case map[string]any:
		return len(data) == 0
	default:
		return false
	}
}

// List returns data as a list when it is one.
func (e *Envelope) List() ([]any, bool) {
	list, ok := e.Data.([]any)

	return list, ok
}

// Value wraps data in an accessor.
func (e *Envelope) Value() Value {
	return NewValue(e.Data)
}

// Items returns every element of a list payload wrapped in an accessor.
// A non-list payload yields nil.
func (e *Envelope) Items() []Value {
	list, ok := e.List()
	if !ok {
		return nil
	}

	items := make([]Value, 0, len(list))
	for _, item := range list {
		items = append(items, NewValue(item))
	}

	return items
}

// Decode converts data into target, which must be a pointer.
func (e *Envelope) Decode(target any) error {
	return e.Value().Decode(target)
}
