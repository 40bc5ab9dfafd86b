package daktela

import (
	"context"
	"fmt"
)

// DefaultPageSize is the default number of items fetched per page.
const DefaultPageSize = 100

// Executor runs a Request and returns its envelope.
type Executor interface {
	Execute(ctx context.Context, req *Request) (*Envelope, error)
}

// PaginationOptions configures a PaginationIterator.
type PaginationOptions struct {
	// PageSize is the take of every page request.
	PageSize int
	// MaxItems stops item iteration after this many items. Zero means no limit.
	MaxItems int
	// StopOnError ends iteration at the first page reporting errors. When
	// false the failed page is skipped.
	StopOnError bool
}

// PaginationOption modifies PaginationOptions.
type PaginationOption func(*PaginationOptions)

// WithPageSize sets the page size.
func WithPageSize(size int) PaginationOption {
	return func(o *PaginationOptions) {
		o.PageSize = size
	}
}

// WithMaxItems limits the number of items produced.
func WithMaxItems(limit int) PaginationOption {
	return func(o *PaginationOptions) {
		o.MaxItems = limit
	}
}

// WithStopOnError sets whether a page reporting errors ends iteration.
func WithStopOnError(stop bool) PaginationOption {
	return func(o *PaginationOptions) {
		o.StopOnError = stop
	}
}

// PaginationIterator reads a list endpoint page by page. Every cursor it
// hands out, and every aggregate helper, starts again from offset zero and
// fetches its pages independently. Nothing is cached between calls.
type PaginationIterator struct {
	ctx      context.Context //nolint:containedctx // cursors pull lazily on behalf of the caller
	executor Executor
	base     *Request
	options  PaginationOptions
}

// NewPaginationIterator creates an iterator over req, which is cloned and
// forced into multiple read mode.
func NewPaginationIterator(ctx context.Context, executor Executor, req *Request, opts ...PaginationOption) *PaginationIterator {
	options := PaginationOptions{
		PageSize:    DefaultPageSize,
		StopOnError: true,
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.PageSize <= 0 {
		options.PageSize = DefaultPageSize
	}

	base := req.Clone()
	base.Kind = KindRead
	base.Mode = ReadMultiple

	return &PaginationIterator{
		ctx:      ctx,
		executor: executor,
		base:     base,
		options:  options,
	}
}

// Options returns the effective options.
func (p *PaginationIterator) Options() PaginationOptions {
	return p.options
}

func (p *PaginationIterator) fetch(offset int) (*Envelope, error) {
	req := p.base.Clone().WithSkip(offset).WithTake(p.options.PageSize)

	env, err := p.executor.Execute(p.ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetching page at offset %d: %w", offset, err)
	}

	return env, nil
}

// lastPage reports whether no page follows one holding n items whose
// successor would start at next. A total smaller than the page itself is
// not a list total and is ignored.
func (p *PaginationIterator) lastPage(env *Envelope, n, next int) bool {
	if n < p.options.PageSize {
		return true
	}

	return env.Total >= n && next >= env.Total
}

// Items returns a new cursor over individual items.
func (p *PaginationIterator) Items() *ItemCursor {
	src := &itemSource{iterator: p}

	return newItemCursor(src.next)
}

// Pages returns a new cursor over whole page envelopes, error pages included.
func (p *PaginationIterator) Pages() *PageCursor {
	return &PageCursor{iterator: p}
}

// ToSlice collects every item.
func (p *PaginationIterator) ToSlice() ([]any, error) {
	items := []any{}
	cursor := p.Items()

	for cursor.HasNext() {
		item, err := cursor.Next()
		if err != nil {
			return items, err
		}

		items = append(items, item)
	}

	return items, cursor.Err()
}

// Count returns the number of items.
func (p *PaginationIterator) Count() (int, error) {
	count := 0
	cursor := p.Items()

	for cursor.HasNext() {
		if _, err := cursor.Next(); err != nil {
			return count, err
		}

		count++
	}

	return count, cursor.Err()
}

// First returns the first item. The boolean is false when there is none.
func (p *PaginationIterator) First() (any, bool, error) {
	cursor := p.Items()
	if !cursor.HasNext() {
		return nil, false, cursor.Err()
	}

	item, err := cursor.Next()
	if err != nil {
		return nil, false, err
	}

	return item, true, nil
}

// IsEmpty reports whether there are no items.
func (p *PaginationIterator) IsEmpty() (bool, error) {
	_, found, err := p.First()

	return !found, err
}

// Each calls fn for every item with its zero-based index. Iteration stops
// at the first error returned by fn.
func (p *PaginationIterator) Each(fn func(item any, index int) error) error {
	cursor := p.Items()

	for index := 0; cursor.HasNext(); index++ {
		item, err := cursor.Next()
		if err != nil {
			return err
		}

		if err := fn(item, index); err != nil {
			return err
		}
	}

	return cursor.Err()
}

// Filter returns a cursor over the items accepted by keep.
func (p *PaginationIterator) Filter(keep func(item any) bool) *ItemCursor {
	inner := p.Items()

	return newItemCursor(func() (any, bool, error) {
		for inner.HasNext() {
			item, err := inner.Next()
			if err != nil {
				return nil, false, err
			}

			if keep(item) {
				return item, true, nil
			}
		}

		return nil, false, inner.Err()
	})
}

// Map returns a cursor over the items transformed by fn.
func (p *PaginationIterator) Map(fn func(item any) any) *ItemCursor {
	inner := p.Items()

	return newItemCursor(func() (any, bool, error) {
		if !inner.HasNext() {
			return nil, false, inner.Err()
		}

		item, err := inner.Next()
		if err != nil {
			return nil, false, err
		}

		return fn(item), true, nil
	})
}

// ItemCursor is a single-pass, pull-based cursor over items.
type ItemCursor struct {
	pull     func() (any, bool, error)
	pending  any
	buffered bool
	current  any
	index    int
	done     bool
	err      error
}

func newItemCursor(pull func() (any, bool, error)) *ItemCursor {
	return &ItemCursor{pull: pull, index: -1}
}

// HasNext reports whether Next will return an item, fetching the next page
// when needed. It returns false after a fetch error, see Err.
func (c *ItemCursor) HasNext() bool {
	if c.buffered {
		return true
	}

	if c.done {
		return false
	}

	item, ok, err := c.pull()
	if err != nil || !ok {
		c.err = err
		c.done = true

		return false
	}

	c.pending = item
	c.buffered = true

	return true
}

// Next advances to the next item and returns it.
func (c *ItemCursor) Next() (any, error) {
	if !c.HasNext() {
		if c.err != nil {
			return nil, c.err
		}

		return nil, ErrNoMoreItems
	}

	c.current = c.pending
	c.pending = nil
	c.buffered = false
	c.index++

	return c.current, nil
}

// Current returns the item returned by the last Next call.
func (c *ItemCursor) Current() any {
	return c.current
}

// Index returns the zero-based index of the current item, -1 before the first.
func (c *ItemCursor) Index() int {
	return c.index
}

// Err returns the error that ended iteration, if any.
func (c *ItemCursor) Err() error {
	return c.err
}

type itemSource struct {
	iterator *PaginationIterator
	offset   int
	page     []any
	position int
	yielded  int
	final    bool
	finished bool
}

func (s *itemSource) next() (any, bool, error) {
	opts := s.iterator.options

	for !s.finished {
		if opts.MaxItems > 0 && s.yielded >= opts.MaxItems {
			break
		}

		if s.position < len(s.page) {
			item := s.page[s.position]
			s.position++
			s.yielded++

			return item, true, nil
		}

		if s.final {
			break
		}

		env, err := s.iterator.fetch(s.offset)
		if err != nil {
			s.finished = true

			return nil, false, err
		}

		if env.HasErrors() {
			if opts.StopOnError {
				break
			}

			s.offset += opts.PageSize

			continue
		}

		list, ok := env.List()
		if !ok || len(list) == 0 {
			break
		}

		s.page = list
		s.position = 0
		s.offset += opts.PageSize
		s.final = s.iterator.lastPage(env, len(list), s.offset)
	}

	s.finished = true

	return nil, false, nil
}

// PageCursor is a single-pass, pull-based cursor over page envelopes.
type PageCursor struct {
	iterator *PaginationIterator
	offset   int
	pending  *Envelope
	current  *Envelope
	number   int
	done     bool
	err      error
}

// HasNext reports whether Next will return a page, fetching it when needed.
func (c *PageCursor) HasNext() bool {
	if c.pending != nil {
		return true
	}

	if c.done {
		return false
	}

	env, err := c.iterator.fetch(c.offset)
	if err != nil {
		c.err = err
		c.done = true

		return false
	}

	c.pending = env
	c.advance(env)

	return true
}

// advance applies the stop conditions of a page that has just been fetched.
func (c *PageCursor) advance(env *Envelope) {
	pageSize := c.iterator.options.PageSize

	if env.HasErrors() {
		if c.iterator.options.StopOnError {
			c.done = true
		} else {
			c.offset += pageSize
		}

		return
	}

	list, ok := env.List()
	if !ok {
		c.done = true

		return
	}

	c.offset += pageSize
	if c.iterator.lastPage(env, len(list), c.offset) {
		c.done = true
	}
}

// Next advances to the next page and returns it.
func (c *PageCursor) Next() (*Envelope, error) {
	if !c.HasNext() {
		if c.err != nil {
			return nil, c.err
		}

		return nil, ErrNoMoreItems
	}

	c.current = c.pending
	c.pending = nil
	c.number++

	return c.current, nil
}

// Current returns the page returned by the last Next call.
func (c *PageCursor) Current() *Envelope {
	return c.current
}

// Number returns how many pages Next has returned.
func (c *PageCursor) Number() int {
	return c.number
}

// Err returns the error that ended iteration, if any.
func (c *PageCursor) Err() error {
	return c.err
}
