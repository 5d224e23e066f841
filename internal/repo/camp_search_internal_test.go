package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/camp-directory/internal/domain"
)

func TestBuildSearch_NoFacets(t *testing.T) {
	stmt := buildSearch(domain.SearchQuery{Sort: domain.SortNameAsc})

	assert.Equal(t, "c.approved", stmt.where)
	assert.Equal(t, "lower(c.name) ASC, c.id ASC", stmt.orderBy)
	assert.Empty(t, stmt.args)
}

func TestBuildSearch_RandomUsesSeed(t *testing.T) {
	stmt := buildSearch(domain.SearchQuery{Sort: domain.SortRandom, Seed: "s1"})

	assert.Contains(t, stmt.orderBy, "md5(c.id::text || @seed)")
	assert.Equal(t, "s1", stmt.args["seed"])
}

func TestBuildSearch_EveryOrderEndsWithID(t *testing.T) {
	for _, s := range []domain.SortKey{
		domain.SortRandom, domain.SortNameAsc, domain.SortPriceAsc,
		domain.SortPriceDesc, domain.SortRatingDesc, domain.SortNewest,
	} {
		assert.Regexp(t, `c\.id ASC$`, buildSearch(domain.SearchQuery{Sort: s}).orderBy, s)
	}
}

func TestBuildSearch_FacetsBindSlugs(t *testing.T) {
	stmt := buildSearch(domain.SearchQuery{
		Types:      []string{"Day Camp", "Overnight"},
		Activities: []string{"Rock Climbing"},
	})

	assert.Equal(t, []string{"day-camp", "overnight"}, stmt.args["type_slugs"])
	assert.Equal(t, []string{"rock-climbing"}, stmt.args["activity_slugs"])
	assert.NotContains(t, stmt.args, "week_slugs")
	assert.Contains(t, stmt.where, "FROM camp_types j JOIN types t")
	assert.Contains(t, stmt.where, "FROM camp_activities j JOIN activities t")
}

func TestBuildSearch_PriceAndDates(t *testing.T) {
	lo, hi := 100.0, 200.0
	stmt := buildSearch(domain.SearchQuery{PriceMin: &lo, PriceMax: &hi})

	assert.Contains(t, stmt.where, "COALESCE(c.min_price, c.max_price) <= @price_max")
	assert.Contains(t, stmt.where, "COALESCE(c.max_price, c.min_price) >= @price_min")
	assert.Equal(t, 100.0, stmt.args["price_min"])
	assert.NotContains(t, stmt.where, "open_date")
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now\\`, escapeLike(`50% off_now\`))
}
