package domain

import "math"

// MaxPageSize bounds the number of items a single page may carry.
const MaxPageSize = 100

// DefaultPageSize is used when the caller does not ask for a page size.
const DefaultPageSize = 20

// MaxPage is the highest page number accepted. Larger requests are clamped to
// it, which lands past the last page, so Offset never overflows.
const MaxPage = math.MaxInt / MaxPageSize

// PaginationParams carries page/limit values from the HTTP layer to the repo layer.
// Page is 1-indexed. Limit is capped at MaxPageSize by NewPaginationParams.
type PaginationParams struct {
	// Page is the current page number, starting at 1.
	Page int
	// Limit is the maximum number of items to return.
	Limit int
}

// NewPaginationParams builds a PaginationParams from optional query params.
// Nil pointers and values below 1 fall back to sane defaults (page=1, limit=20).
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: DefaultPageSize}
	if page != nil && *page >= 1 {
		p.Page = min(*page, MaxPage)
	}
	if limit != nil && *limit >= 1 {
		p.Limit = min(*limit, MaxPageSize)
	}
	return p
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// HasMore reports whether rows exist beyond the current page given the total
// number of matching rows.
func (p PaginationParams) HasMore(total int64) bool {
	return int64(p.Page)*int64(p.Limit) < total
}
