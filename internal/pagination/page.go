package pagination

import "github.com/VitaminP8/qupp/internal/apperr"

// DefaultPageSize is used when configuration does not set one.
const DefaultPageSize = 10

// Page is one slice of an ordered result set plus the size of the whole set.
type Page[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}

// TotalPages is the number of non-empty pages.
func (p Page[T]) TotalPages() int {
	if p.PageSize <= 0 || p.Total <= 0 {
		return 0
	}
	return (p.Total-1)/p.PageSize + 1
}

// Slice cuts page number page (zero-based) out of an already ordered, fully materialized list.
// A page past the end is empty, not an error.
func Slice[T any](items []T, page, pageSize int) (Page[T], error) {
	if page < 0 {
		return Page[T]{}, apperr.Validation("page must not be negative, got %d", page)
	}
	if pageSize <= 0 {
		return Page[T]{}, apperr.Validation("page size must be positive, got %d", pageSize)
	}

	result := Page[T]{
		Items:    []T{},
		Page:     page,
		PageSize: pageSize,
		Total:    len(items),
	}

	// Compare page indexes rather than offsets so page*pageSize cannot overflow.
	if len(items) == 0 || page > (len(items)-1)/pageSize {
		return result, nil
	}

	start := page * pageSize
	end := len(items)
	if pageSize < end-start {
		end = start + pageSize
	}
	result.Items = items[start:end]

	return result, nil
}
