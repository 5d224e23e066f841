package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/camp-directory/internal/domain"
	"github.com/pkordes/camp-directory/internal/repo"
)

// Search tests scope every query with a name token so rows committed by
// other suites cannot leak into the counts.
const token = "zqx"

func searchFixture(key string, minPrice, maxPrice *float64) domain.Camp {
	c := campFixture(key)
	c.Name = token + " " + key
	c.MinPrice, c.MaxPrice = minPrice, maxPrice
	return c
}

func search(t *testing.T, r repo.CampRepo, q domain.SearchQuery) ([]domain.CampSummary, int64) {
	t.Helper()
	q.Term = token
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = 100
	}
	got, total, err := r.Search(context.Background(), q)
	require.NoError(t, err)
	return got, total
}

func keys(camps []domain.CampSummary) []string {
	out := make([]string, 0, len(camps))
	for _, c := range camps {
		out = append(out, c.UniqueKey)
	}
	return out
}

func TestCampRepo_Search_OnlyApproved(t *testing.T) {
	r := newTestRepos(t)
	mustCreate(t, r.camps, searchFixture("a", nil, nil))
	hidden := searchFixture("b", nil, nil)
	hidden.Approved = false
	mustCreate(t, r.camps, hidden)

	got, total := search(t, r.camps, domain.SearchQuery{Sort: domain.SortNameAsc})

	assert.EqualValues(t, 1, total)
	assert.Equal(t, []string{"a"}, keys(got))
}

func TestCampRepo_Search_TermEscapesWildcards(t *testing.T) {
	r := newTestRepos(t)
	mustCreate(t, r.camps, searchFixture("100%-fun", nil, nil))
	mustCreate(t, r.camps, searchFixture("100x-fun", nil, nil))

	got, _, err := r.camps.Search(context.Background(), domain.SearchQuery{
		Term: "100%", Sort: domain.SortNameAsc, Page: 1, PageSize: 10,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"100%-fun"}, keys(got))
}

// Five NY camps; price_asc page 1 of size 2 must return the two cheapest.
func TestCampRepo_Search_PriceAscFirstPage(t *testing.T) {
	r := newTestRepos(t)
	for key, price := range map[string]float64{"e": 900, "b": 200, "d": 700, "a": 100, "c": 400} {
		mustCreate(t, r.camps, searchFixture(key, ptr(price), ptr(price+50)))
	}
	other := searchFixture("vt", ptr(1.0), ptr(1.0))
	other.State = "VT"
	mustCreate(t, r.camps, other)

	got, total := search(t, r.camps, domain.SearchQuery{
		State: "NY", Sort: domain.SortPriceAsc, Page: 1, PageSize: 2,
	})

	assert.EqualValues(t, 5, total)
	assert.Equal(t, []string{"a", "b"}, keys(got))
	assert.True(t, domain.PaginationParams{Page: 1, Limit: 2}.HasMore(total))
}

func TestCampRepo_Search_PriceOverlap(t *testing.T) {
	r := newTestRepos(t)
	mustCreate(t, r.camps, searchFixture("cheap", ptr(100.0), ptr(200.0)))
	mustCreate(t, r.camps, searchFixture("mid", ptr(250.0), ptr(400.0)))
	mustCreate(t, r.camps, searchFixture("dear", ptr(800.0), ptr(900.0)))
	mustCreate(t, r.camps, searchFixture("minonly", ptr(300.0), nil))
	mustCreate(t, r.camps, searchFixture("unpriced", nil, nil))

	tests := []struct {
		name     string
		min, max *float64
		want     []string
	}{
		{"no bounds keeps unpriced", nil, nil, []string{"cheap", "dear", "mid", "minonly", "unpriced"}},
		{"inner range", ptr(200.0), ptr(300.0), []string{"cheap", "mid", "minonly"}},
		{"lower bound only", ptr(500.0), nil, []string{"dear"}},
		{"upper bound only", nil, ptr(100.0), []string{"cheap"}},
		{"gap", ptr(450.0), ptr(700.0), []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, total := search(t, r.camps, domain.SearchQuery{
				PriceMin: tc.min, PriceMax: tc.max, Sort: domain.SortNameAsc,
			})
			assert.Equal(t, tc.want, keys(got))
			assert.EqualValues(t, len(tc.want), total)
		})
	}
}

func TestCampRepo_Search_DateIntersection(t *testing.T) {
	r := newTestRepos(t)
	june := searchFixture("june", nil, nil)
	june.OpenDate, june.CloseDate = day(2026, time.June, 1), day(2026, time.June, 30)
	mustCreate(t, r.camps, june)
	aug := searchFixture("aug", nil, nil)
	aug.OpenDate, aug.CloseDate = day(2026, time.August, 1), day(2026, time.August, 31)
	mustCreate(t, r.camps, aug)
	undated := searchFixture("undated", nil, nil)
	undated.OpenDate, undated.CloseDate = nil, nil
	mustCreate(t, r.camps, undated)

	got, _ := search(t, r.camps, domain.SearchQuery{
		DateFrom: day(2026, time.June, 20), DateTo: day(2026, time.July, 10), Sort: domain.SortNameAsc,
	})
	assert.Equal(t, []string{"june"}, keys(got))

	got, _ = search(t, r.camps, domain.SearchQuery{
		DateFrom: day(2026, time.July, 15), Sort: domain.SortNameAsc,
	})
	assert.Equal(t, []string{"aug"}, keys(got))
}

func TestCampRepo_Search_Facets(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	link := func(c domain.Camp, v domain.Vocabulary, name string) {
		term, _, err := r.terms.Upsert(ctx, v, name, domain.Slugify(name))
		require.NoError(t, err)
		_, err = r.terms.Link(ctx, v, c.ID, term.ID)
		require.NoError(t, err)
	}

	day1 := mustCreate(t, r.camps, searchFixture("day-swim", nil, nil))
	link(day1, domain.VocabType, "Day")
	link(day1, domain.VocabActivity, "Swimming")
	over := mustCreate(t, r.camps, searchFixture("overnight-arts", nil, nil))
	link(over, domain.VocabType, "Overnight")
	link(over, domain.VocabActivity, "Arts")
	mustCreate(t, r.camps, searchFixture("untagged", nil, nil))

	got, _ := search(t, r.camps, domain.SearchQuery{Types: []string{"day", "Overnight"}, Sort: domain.SortNameAsc})
	assert.Equal(t, []string{"day-swim", "overnight-arts"}, keys(got), "OR within a vocabulary")

	got, _ = search(t, r.camps, domain.SearchQuery{
		Types: []string{"Overnight"}, Activities: []string{"Swimming"}, Sort: domain.SortNameAsc,
	})
	assert.Empty(t, got, "AND across vocabularies")

	got, _ = search(t, r.camps, domain.SearchQuery{Activities: []string{"SWIMMING"}, Sort: domain.SortNameAsc})
	require.Len(t, got, 1)
	assert.Equal(t, []string{"Day"}, got[0].Types)
	assert.Equal(t, []string{"Swimming"}, got[0].Activities)
}

func TestCampRepo_Search_PagesPartition(t *testing.T) {
	r := newTestRepos(t)
	for _, k := range []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7"} {
		mustCreate(t, r.camps, searchFixture(k, nil, nil))
	}

	for _, sort := range []domain.SortKey{domain.SortRandom, domain.SortPriceAsc, domain.SortNewest} {
		t.Run(string(sort), func(t *testing.T) {
			seen := map[string]bool{}
			for page := 1; page <= 3; page++ {
				got, total := search(t, r.camps, domain.SearchQuery{
					Sort: sort, Seed: "fixed", Page: page, PageSize: 3,
				})
				assert.EqualValues(t, 7, total)
				for _, k := range keys(got) {
					assert.False(t, seen[k], "camp %s repeated on page %d", k, page)
					seen[k] = true
				}
			}
			assert.Len(t, seen, 7)
		})
	}
}

func TestCampRepo_Search_RandomIsSeeded(t *testing.T) {
	r := newTestRepos(t)
	for _, k := range []string{"r1", "r2", "r3", "r4", "r5", "r6"} {
		mustCreate(t, r.camps, searchFixture(k, nil, nil))
	}

	first, _ := search(t, r.camps, domain.SearchQuery{Sort: domain.SortRandom, Seed: "abc"})
	again, _ := search(t, r.camps, domain.SearchQuery{Sort: domain.SortRandom, Seed: "abc"})

	assert.Equal(t, keys(first), keys(again))
}

func TestCampRepo_Search_PastLastPage(t *testing.T) {
	r := newTestRepos(t)
	mustCreate(t, r.camps, searchFixture("only", nil, nil))

	got, total := search(t, r.camps, domain.SearchQuery{Sort: domain.SortNameAsc, Page: 5, PageSize: 10})

	assert.EqualValues(t, 1, total)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
