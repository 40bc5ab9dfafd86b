package daktela

// ListParams are the list read options accepted by resource clients.
type ListParams struct {
	Filters []FilterClause
	Logic   FilterLogic
	Sorts   []Sort
	Skip    int
	Take    int
	Fields  []string
	Query   map[string]any
	// SkipErrorRequests makes All continue past pages reporting errors.
	SkipErrorRequests bool
}

// NewListParams returns params with the default page size.
func NewListParams() *ListParams {
	return &ListParams{Take: DefaultTake}
}

// WithFilter appends a filter clause.
func (p *ListParams) WithFilter(field, operator string, value any) *ListParams {
	p.Filters = append(p.Filters, FilterClause{Field: field, Operator: operator, Value: value})

	return p
}

// WithSort appends a sort.
func (p *ListParams) WithSort(field string, dir SortDirection) *ListParams {
	p.Sorts = append(p.Sorts, Sort{Field: field, Dir: dir})

	return p
}

// ApplyTo copies the params onto a read request.
func (p *ListParams) ApplyTo(req *Request) *Request {
	if p == nil {
		return req
	}

	if p.Logic != "" {
		req.WithFilterLogic(p.Logic)
	}

	for _, clause := range p.Filters {
		req.AddFilter(clause.Field, clause.Operator, clause.Value)
	}

	for _, s := range p.Sorts {
		req.AddSort(s.Field, s.Dir)
	}

	if p.Skip > 0 {
		req.WithSkip(p.Skip)
	}

	if p.Take > 0 {
		req.WithTake(p.Take)
	}

	if len(p.Fields) > 0 {
		req.WithFields(p.Fields...)
	}

	req.AddQueryParams(p.Query)
	req.WithSkipErrorRequests(p.SkipErrorRequests)

	return req
}
