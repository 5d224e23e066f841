package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/camp-directory/internal/domain"
)

// searchStatement is the SQL for one search: a WHERE clause shared by the
// count and page queries, the ORDER BY for the page query, and named args.
type searchStatement struct {
	where   string
	orderBy string
	args    pgx.NamedArgs
}

// buildSearch composes the filter and ordering for q.
// Facets combine with AND; the selected terms of one vocabulary combine with OR.
// Every ordering ends with c.id so that pages partition the result set.
func buildSearch(q domain.SearchQuery) searchStatement {
	conds := []string{"c.approved"}
	args := pgx.NamedArgs{}

	if q.Term != "" {
		conds = append(conds, `c.name ILIKE '%' || @term || '%' ESCAPE '\'`)
		args["term"] = escapeLike(q.Term)
	}
	if q.State != "" {
		conds = append(conds, "c.state = @state")
		args["state"] = q.State
	}

	// Date ranges intersect when each starts before the other ends.
	if q.DateTo != nil {
		conds = append(conds, "c.open_date <= @date_to")
		args["date_to"] = *q.DateTo
	}
	if q.DateFrom != nil {
		conds = append(conds, "c.close_date >= @date_from")
		args["date_from"] = *q.DateFrom
	}

	// A camp with only one price bound is treated as a single-point interval.
	// A camp with no price fails both comparisons.
	if q.PriceMax != nil {
		conds = append(conds, "COALESCE(c.min_price, c.max_price) <= @price_max")
		args["price_max"] = *q.PriceMax
	}
	if q.PriceMin != nil {
		conds = append(conds, "COALESCE(c.max_price, c.min_price) >= @price_min")
		args["price_min"] = *q.PriceMin
	}

	for _, f := range []struct {
		vocab domain.Vocabulary
		names []string
	}{
		{domain.VocabType, q.Types},
		{domain.VocabWeek, q.Weeks},
		{domain.VocabActivity, q.Activities},
	} {
		if len(f.names) == 0 {
			continue
		}
		terms, junction, _ := vocabularyTables(f.vocab)
		param := string(f.vocab) + "_slugs"
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM %s j JOIN %s t ON t.id = j.term_id WHERE j.camp_id = c.id AND t.slug = ANY(@%s))",
			junction, terms, param))
		args[param] = slugs(f.names)
	}

	var orderBy string
	switch q.Sort {
	case domain.SortNameAsc:
		orderBy = "lower(c.name) ASC, c.id ASC"
	case domain.SortPriceAsc:
		orderBy = "COALESCE(c.min_price, c.max_price) ASC NULLS LAST, c.id ASC"
	case domain.SortPriceDesc:
		orderBy = "COALESCE(c.max_price, c.min_price) DESC NULLS LAST, c.id ASC"
	case domain.SortRatingDesc:
		orderBy = "c.rating DESC NULLS LAST, c.id ASC"
	case domain.SortNewest:
		orderBy = "c.created_at DESC, c.id ASC"
	default:
		orderBy = "md5(c.id::text || @seed) ASC, c.id ASC"
		args["seed"] = q.Seed
	}

	return searchStatement{
		where:   strings.Join(conds, "\n\t\t  AND "),
		orderBy: orderBy,
		args:    args,
	}
}

// Search returns one page of approved camps and the total match count.
func (r *pgCampRepo) Search(ctx context.Context, q domain.SearchQuery) ([]domain.CampSummary, int64, error) {
	stmt := buildSearch(q)
	page := q.Pagination()

	var total int64
	countSQL := "SELECT count(*) FROM camps c WHERE " + stmt.where
	if err := r.db.QueryRow(ctx, countSQL, stmt.args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.CampRepo.Search: count: %w", mapError(err))
	}
	if total == 0 || int64(page.Offset()) >= total {
		return []domain.CampSummary{}, total, nil
	}

	pageSQL := `
		SELECT c.id, c.unique_key, c.name, c.city, c.state, c.zip,
		       c.open_date, c.close_date, c.min_price, c.max_price, c.rating,
		       c.logo_url, c.website, c.created_at, ` + termNamesColumns + `
		FROM camps c
		WHERE ` + stmt.where + `
		ORDER BY ` + stmt.orderBy + `
		LIMIT @limit OFFSET @offset`

	args := pgx.NamedArgs{"limit": page.Limit, "offset": page.Offset()}
	for k, v := range stmt.args {
		args[k] = v
	}

	rows, err := r.db.Query(ctx, pageSQL, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.CampRepo.Search: %w", mapError(err))
	}
	defer rows.Close()

	camps := make([]domain.CampSummary, 0, page.Limit)
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.CampRepo.Search: scan: %w", err)
		}
		camps = append(camps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.CampRepo.Search: rows: %w", mapError(err))
	}
	return camps, total, nil
}

// scanSummary maps a search row into a domain.CampSummary.
func scanSummary(s scanner) (domain.CampSummary, error) {
	var (
		c                   domain.CampSummary
		openDate, closeDate pgtype.Date
		minPrice, maxPrice  pgtype.Float8
		rating              pgtype.Float8
	)
	err := s.Scan(
		&c.ID, &c.UniqueKey, &c.Name, &c.City, &c.State, &c.Zip,
		&openDate, &closeDate, &minPrice, &maxPrice, &rating,
		&c.LogoURL, &c.Website, &c.CreatedAt, &c.Types, &c.Weeks, &c.Activities,
	)
	if err != nil {
		return domain.CampSummary{}, mapError(err)
	}
	c.OpenDate = dateOrNil(openDate)
	c.CloseDate = dateOrNil(closeDate)
	c.MinPrice = floatOrNil(minPrice)
	c.MaxPrice = floatOrNil(maxPrice)
	c.Rating = floatOrNil(rating)
	return c, nil
}

// escapeLike escapes the LIKE metacharacters in s so it matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// slugs maps term names to their identity slugs, dropping names with no slug.
func slugs(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if s := domain.Slugify(n); s != "" {
			out = append(out, s)
		}
	}
	return out
}
