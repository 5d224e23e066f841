package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// SortKey selects the ordering of search results.
// Every ordering is tie-broken by camp ID so pages never overlap.
type SortKey string

const (
	// SortRandom orders by a hash of the camp ID and a caller-visible seed.
	// The same seed always yields the same order, which keeps paged browsing
	// free of repeats and gaps.
	SortRandom     SortKey = "random"
	SortNameAsc    SortKey = "name_asc"
	SortPriceAsc   SortKey = "price_asc"
	SortPriceDesc  SortKey = "price_desc"
	SortRatingDesc SortKey = "rating_desc"
	SortNewest     SortKey = "newest"
)

// ParseSortKey maps a sort name (and a few legacy aliases) to a SortKey.
// Unknown or empty names fall back to SortRandom.
func ParseSortKey(s string) SortKey {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name_asc", "name":
		return SortNameAsc
	case "price_asc", "price_low":
		return SortPriceAsc
	case "price_desc", "price_high":
		return SortPriceDesc
	case "rating_desc", "rating":
		return SortRatingDesc
	case "newest", "date":
		return SortNewest
	default:
		return SortRandom
	}
}

// SearchQuery is a fully parsed set of search facets.
// Nil pointers and empty slices mean "facet absent".
type SearchQuery struct {
	Term       string
	State      string
	DateFrom   *time.Time
	DateTo     *time.Time
	PriceMin   *float64
	PriceMax   *float64
	Types      []string
	Weeks      []string
	Activities []string
	Sort       SortKey
	Seed       string
	Page       int
	PageSize   int
}

// Pagination returns the bounded page parameters for q.
func (q SearchQuery) Pagination() PaginationParams {
	return NewPaginationParams(&q.Page, &q.PageSize)
}

// HasPriceFilter reports whether any price bound is set.
func (q SearchQuery) HasPriceFilter() bool {
	return q.PriceMin != nil || q.PriceMax != nil
}

// RawSearch carries search facets exactly as they arrive from a transport
// (query string, CLI flags). NewSearchQuery turns it into a SearchQuery.
type RawSearch struct {
	Term       string
	State      string
	DateFrom   string
	DateTo     string
	PriceMin   string
	PriceMax   string
	Types      []string
	Weeks      []string
	Activities []string
	Sort       string
	Seed       string
	Page       string
	PageSize   string
}

// NewSearchQuery parses raw facet values. It never fails: a value that cannot
// be parsed is dropped and the facet is treated as absent.
func NewSearchQuery(r RawSearch) SearchQuery {
	q := SearchQuery{
		Term:       strings.TrimSpace(r.Term),
		State:      normalizeState(r.State),
		DateFrom:   ParseDate(r.DateFrom),
		DateTo:     ParseDate(r.DateTo),
		PriceMin:   nonNegative(ParsePrice(r.PriceMin)),
		PriceMax:   nonNegative(ParsePrice(r.PriceMax)),
		Types:      splitAll(r.Types),
		Weeks:      splitAll(r.Weeks),
		Activities: splitAll(r.Activities),
		Sort:       ParseSortKey(r.Sort),
		Seed:       strings.TrimSpace(r.Seed),
		Page:       atoiOrZero(r.Page),
		PageSize:   atoiOrZero(r.PageSize),
	}
	if q.DateFrom != nil && q.DateTo != nil && q.DateFrom.After(*q.DateTo) {
		q.DateFrom, q.DateTo = q.DateTo, q.DateFrom
	}
	if q.PriceMin != nil && q.PriceMax != nil && *q.PriceMin > *q.PriceMax {
		q.PriceMin, q.PriceMax = q.PriceMax, q.PriceMin
	}
	p := q.Pagination()
	q.Page, q.PageSize = p.Page, p.Limit
	return q
}

// SearchResult is one page of search results.
type SearchResult struct {
	Camps    []CampSummary
	Total    int64
	HasMore  bool
	Page     int
	PageSize int
	// Seed is the seed used for SortRandom; empty for other sorts.
	Seed string
}

func normalizeState(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "ALL" || s == "ANY" {
		return ""
	}
	return s
}

func nonNegative(f *float64) *float64 {
	if f == nil || *f < 0 {
		return nil
	}
	return f
}

func splitAll(values []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, v := range values {
		for _, name := range SplitTerms(v) {
			slug := Slugify(name)
			if seen[slug] {
				continue
			}
			seen[slug] = true
			out = append(out, name)
		}
	}
	return out
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	// Out-of-range input comes back saturated at the int bounds.
	return n
}
