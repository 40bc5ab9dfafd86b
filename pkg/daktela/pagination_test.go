package daktela_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/daktela/daktela-v6-go/pkg/daktela"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackendDown = errors.New("backend down")

// pagedExecutor serves items as list pages and records every request.
type pagedExecutor struct {
	mu         sync.Mutex
	items      []any
	errorSkips map[int]bool
	failSkip   int
	requests   []*daktela.Request
}

func newPagedExecutor(count int) *pagedExecutor {
	items := make([]any, 0, count)
	for i := range count {
		items = append(items, map[string]any{"name": fmt.Sprintf("item-%d", i)})
	}

	return &pagedExecutor{items: items, failSkip: -1, errorSkips: map[int]bool{}}
}

func (e *pagedExecutor) Execute(ctx context.Context, req *daktela.Request) (*daktela.Envelope, error) {
	e.mu.Lock()
	e.requests = append(e.requests, req)
	e.mu.Unlock()

	if req.Skip == e.failSkip {
		return nil, errBackendDown
	}

	if e.errorSkips[req.Skip] {
		return daktela.NewEnvelope(nil, 0, []any{"page failed"}, 500), nil
	}

	start := min(req.Skip, len(e.items))
	end := min(req.Skip+req.Take, len(e.items))
	page := append([]any{}, e.items[start:end]...)

	return daktela.NewEnvelope(page, len(e.items), nil, 200), nil
}

func (e *pagedExecutor) calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.requests)
}

func names(t *testing.T, items []any) []string {
	t.Helper()

	out := make([]string, 0, len(items))
	for _, item := range items {
		name, err := daktela.NewValue(item).Field("name")
		require.NoError(t, err)

		out = append(out, name.String())
	}

	return out
}

func TestPaginationIteratorOptions(t *testing.T) {
	t.Parallel()

	executor := newPagedExecutor(0)
	req := daktela.NewReadAllRequest("users")

	iterator := daktela.NewPaginationIterator(context.Background(), executor, req, daktela.WithPageSize(0))
	assert.Equal(t, daktela.DefaultPageSize, iterator.Options().PageSize)
	assert.True(t, iterator.Options().StopOnError)

	_, err := iterator.Count()
	require.NoError(t, err)
	require.Equal(t, 1, executor.calls())

	sent := executor.requests[0]
	assert.Equal(t, daktela.ReadMultiple, sent.Mode)
	assert.NotSame(t, req, sent)
	assert.Equal(t, daktela.ReadAll, req.Mode, "the caller's request is not modified")
}

func TestPaginationIteratorItems(t *testing.T) {
	t.Parallel()

	executor := newPagedExecutor(5)
	iterator := daktela.NewPaginationIterator(context.Background(), executor,
		daktela.NewReadRequest("tickets"), daktela.WithPageSize(2))

	cursor := iterator.Items()
	assert.Equal(t, -1, cursor.Index())

	var collected []any

	for cursor.HasNext() {
		item, err := cursor.Next()
		require.NoError(t, err)

		collected = append(collected, item)
		assert.Equal(t, item, cursor.Current())
	}

	require.NoError(t, cursor.Err())
	assert.Equal(t, []string{"item-0", "item-1", "item-2", "item-3", "item-4"}, names(t, collected))
	assert.Equal(t, 4, cursor.Index())
	assert.Equal(t, 3, executor.calls())

	_, err := cursor.Next()
	require.ErrorIs(t, err, daktela.ErrNoMoreItems)
}

func TestPaginationIteratorUsesTotal(t *testing.T) {
	t.Parallel()

	executor := newPagedExecutor(4)
	iterator := daktela.NewPaginationIterator(context.Background(), executor,
		daktela.NewReadRequest("tickets"), daktela.WithPageSize(2))

	count, err := iterator.Count()
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.Equal(t, 2, executor.calls(), "a full last page matching the total needs no extra call")
}

func TestPaginationIteratorMaxItems(t *testing.T) {
	t.Parallel()

	executor := newPagedExecutor(10)
	iterator := daktela.NewPaginationIterator(context.Background(), executor,
		daktela.NewReadRequest("tickets"), daktela.WithPageSize(2), daktela.WithMaxItems(3))

	items, err := iterator.ToSlice()
	require.NoError(t, err)
	assert.Equal(t, []string{"item-0", "item-1", "item-2"}, names(t, items))
	assert.Equal(t, 2, executor.calls())
}

func TestPaginationIteratorRestartsPerCursor(t *testing.T) {
	t.Parallel()

	executor := newPagedExecutor(3)
	iterator := daktela.NewPaginationIterator(context.Background(), executor,
		daktela.NewReadRequest("tickets"), daktela.WithPageSize(2))

	first, err := iterator.Count()
	require.NoError(t, err)

	second, err := iterator.Count()
	require.NoError(t, err)

	assert.Equal(t, 3, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 4, executor.calls())
}

func TestPaginationIteratorEmpty(t *testing.T) {
	t.Parallel()

	iterator := daktela.NewPaginationIterator(context.Background(), newPagedExecutor(0), daktela.NewReadRequest("tickets"))

	empty, err := iterator.IsEmpty()
	require.NoError(t, err)
	assert.True(t, empty)

	_, found, err := iterator.First()
	require.NoError(t, err)
	assert.False(t, found)

	items, err := iterator.ToSlice()
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestPaginationIteratorErrorPages(t *testing.T) {
	t.Parallel()

	t.Run("stop on error", func(t *testing.T) {
		t.Parallel()

		executor := newPagedExecutor(5)
		executor.errorSkips[2] = true

		iterator := daktela.NewPaginationIterator(context.Background(), executor,
			daktela.NewReadRequest("tickets"), daktela.WithPageSize(2))

		items, err := iterator.ToSlice()
		require.NoError(t, err)
		assert.Equal(t, []string{"item-0", "item-1"}, names(t, items))
	})

	t.Run("skip error pages", func(t *testing.T) {
		t.Parallel()

		executor := newPagedExecutor(5)
		executor.errorSkips[2] = true

		iterator := daktela.NewPaginationIterator(context.Background(), executor,
			daktela.NewReadRequest("tickets"), daktela.WithPageSize(2), daktela.WithStopOnError(false))

		items, err := iterator.ToSlice()
		require.NoError(t, err)
		assert.Equal(t, []string{"item-0", "item-1", "item-4"}, names(t, items))
	})

	t.Run("execution failure", func(t *testing.T) {
		t.Parallel()

		executor := newPagedExecutor(5)
		executor.failSkip = 2

		iterator := daktela.NewPaginationIterator(context.Background(), executor,
			daktela.NewReadRequest("tickets"), daktela.WithPageSize(2))

		cursor := iterator.Items()
		count := 0

		for cursor.HasNext() {
			_, err := cursor.Next()
			require.NoError(t, err)

			count++
		}

		assert.Equal(t, 2, count)
		require.ErrorIs(t, cursor.Err(), errBackendDown)

		_, err := cursor.Next()
		require.ErrorIs(t, err, errBackendDown)

		_, err = iterator.Count()
		require.ErrorIs(t, err, errBackendDown)
	})
}

func TestPaginationIteratorPages(t *testing.T) {
	t.Parallel()

	executor := newPagedExecutor(5)
	iterator := daktela.NewPaginationIterator(context.Background(), executor,
		daktela.NewReadRequest("tickets"), daktela.WithPageSize(2))

	pages := iterator.Pages()
	sizes := []int{}

	for pages.HasNext() {
		page, err := pages.Next()
		require.NoError(t, err)
		assert.Same(t, page, pages.Current())

		list, ok := page.List()
		require.True(t, ok)

		sizes = append(sizes, len(list))
	}

	require.NoError(t, pages.Err())
	assert.Equal(t, []int{2, 2, 1}, sizes)
	assert.Equal(t, 3, pages.Number())

	_, err := pages.Next()
	require.ErrorIs(t, err, daktela.ErrNoMoreItems)
}

func TestPaginationIteratorHelpers(t *testing.T) {
	t.Parallel()

	iterator := daktela.NewPaginationIterator(context.Background(), newPagedExecutor(5),
		daktela.NewReadRequest("tickets"), daktela.WithPageSize(2))

	first, found, err := iterator.First()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"item-0"}, names(t, []any{first}))

	var indexes []int

	err = iterator.Each(func(item any, index int) error {
		indexes = append(indexes, index)

		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, indexes)

	errStop := errors.New("stop")
	visited := 0

	err = iterator.Each(func(item any, index int) error {
		visited++
		if index == 1 {
			return errStop
		}

		return nil
	})
	require.ErrorIs(t, err, errStop)
	assert.Equal(t, 2, visited)

	odd := iterator.Filter(func(item any) bool {
		name, _ := daktela.NewValue(item).Field("name")

		return name.String() == "item-1" || name.String() == "item-3"
	})

	var kept []any
	for odd.HasNext() {
		item, err := odd.Next()
		require.NoError(t, err)

		kept = append(kept, item)
	}

	assert.Equal(t, []string{"item-1", "item-3"}, names(t, kept))

	mapped := iterator.Map(func(item any) any {
		name, _ := daktela.NewValue(item).Field("name")

		return name.String()
	})

	var mappedNames []any
	for mapped.HasNext() {
		item, err := mapped.Next()
		require.NoError(t, err)

		mappedNames = append(mappedNames, item)
	}

	assert.Equal(t, []any{"item-0", "item-1", "item-2", "item-3", "item-4"}, mappedNames)
}
