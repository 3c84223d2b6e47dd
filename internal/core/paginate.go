package core

import "strings"

// DefaultPageSize is used when a caller passes a non-positive page size.
const DefaultPageSize = 10

// Page is one filtered slice of a collection plus the pager metadata needed
// to render pagination controls. PageNumbers is the dense sequence
// [1..PagesCount]; collapsing it into an ellipsis form is a presentation
// concern left to the consumer.
type Page[T any] struct {
	Items       []T
	PagesCount  int
	PageNumbers []int
}

// FilterAndPaginate filters items by a free-text query and optional extra
// predicates, then returns the slice for the requested 1-based page.
//
// An item matches the query when at least one of its searchable fields,
// as selected by the fields func, contains the query as a case-sensitive
// substring. An empty query (or a nil fields func) retains everything.
// Extra predicates narrow the text-filtered set conjunctively.
//
// Out-of-range pages yield an empty Items slice; callers that keep a current
// page across filter changes are expected to clamp it back to 1 themselves.
// The function never fails: empty input produces a zero-count page.
func FilterAndPaginate[T any](items []T, query string, page, pageSize int, fields func(T) []string, preds ...func(T) bool) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	filtered := make([]T, 0, len(items))
outer:
	for _, it := range items {
		if query != "" && fields != nil && !matchesQuery(fields(it), query) {
			continue
		}
		for _, pred := range preds {
			if !pred(it) {
				continue outer
			}
		}
		filtered = append(filtered, it)
	}

	pagesCount := (len(filtered) + pageSize - 1) / pageSize
	numbers := make([]int, 0, pagesCount)
	for n := 1; n <= pagesCount; n++ {
		numbers = append(numbers, n)
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	var slice []T
	if start >= 0 && start < len(filtered) {
		if end > len(filtered) {
			end = len(filtered)
		}
		slice = filtered[start:end]
	} else {
		slice = []T{}
	}

	return Page[T]{Items: slice, PagesCount: pagesCount, PageNumbers: numbers}
}

func matchesQuery(fields []string, query string) bool {
	for _, f := range fields {
		if strings.Contains(f, query) {
			return true
		}
	}
	return false
}
