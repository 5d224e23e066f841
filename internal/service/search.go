// Package service contains the business logic for the camp directory.
// Services enforce business rules and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/pkordes/camp-directory/internal/domain"
	"github.com/pkordes/camp-directory/internal/repo"
)

var tracer = otel.Tracer("github.com/pkordes/camp-directory/internal/service")

// SearchService answers the public read side of the directory: faceted
// search, single camps and curated lists. Unapproved camps are never returned.
type SearchService struct {
	camps   repo.CampRepo
	terms   repo.TermRepo
	newSeed func() string
}

// NewSearchService constructs a SearchService backed by the provided repos.
func NewSearchService(camps repo.CampRepo, terms repo.TermRepo) *SearchService {
	return &SearchService{camps: camps, terms: terms, newSeed: randomSeed}
}

// randomSeed returns a short opaque seed for the random ordering.
func randomSeed() string {
	return uuid.NewString()[:8]
}

// Search returns one page of camps matching q.
// A random-order query without a seed gets a fresh one, returned in the
// result so the caller can request further pages in the same order.
func (s *SearchService) Search(ctx context.Context, q domain.SearchQuery) (domain.SearchResult, error) {
	ctx, span := tracer.Start(ctx, "SearchService.Search")
	defer span.End()

	if q.Sort == "" {
		q.Sort = domain.SortRandom
	}
	if q.Sort == domain.SortRandom {
		if q.Seed == "" {
			q.Seed = s.newSeed()
		}
	} else {
		q.Seed = ""
	}
	page := q.Pagination()
	q.Page, q.PageSize = page.Page, page.Limit

	camps, total, err := s.camps.Search(ctx, q)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return domain.SearchResult{}, fmt.Errorf("service.SearchService.Search: %w", err)
	}

	span.SetAttributes(
		attribute.String("search.sort", string(q.Sort)),
		attribute.Int("search.page", page.Page),
		attribute.Int64("search.total", total),
	)
	return domain.SearchResult{
		Camps:    camps,
		Total:    total,
		HasMore:  page.HasMore(total),
		Page:     page.Page,
		PageSize: page.Limit,
		Seed:     q.Seed,
	}, nil
}

// GetCamp returns an approved camp with its term names.
// Unapproved camps are reported as domain.ErrNotFound.
func (s *SearchService) GetCamp(ctx context.Context, id int64) (domain.CampDetail, error) {
	camp, err := s.camps.GetByID(ctx, id)
	if err != nil {
		return domain.CampDetail{}, fmt.Errorf("service.SearchService.GetCamp: %w", err)
	}
	if !camp.Approved {
		return domain.CampDetail{}, fmt.Errorf("service.SearchService.GetCamp: %w", domain.ErrNotFound)
	}

	detail := domain.CampDetail{Camp: camp}
	for _, v := range domain.Vocabularies {
		terms, err := s.terms.ListByCamp(ctx, v, id)
		if err != nil {
			return domain.CampDetail{}, fmt.Errorf("service.SearchService.GetCamp: %w", err)
		}
		names := make([]string, 0, len(terms))
		for _, t := range terms {
			names = append(names, t.Name)
		}
		switch v {
		case domain.VocabType:
			detail.Types = names
		case domain.VocabWeek:
			detail.Weeks = names
		case domain.VocabActivity:
			detail.Activities = names
		}
	}
	return detail, nil
}

// ListFeatured returns up to limit camps from one curated list.
// A limit below 1 means the default page size; limits are capped like pages.
func (s *SearchService) ListFeatured(ctx context.Context, category domain.FeaturedCategory, limit int) ([]domain.Camp, error) {
	if _, ok := domain.ParseFeaturedCategory(string(category)); !ok {
		return nil, fmt.Errorf("service.SearchService.ListFeatured: unknown list %q: %w", category, domain.ErrValidation)
	}
	p := domain.NewPaginationParams(nil, &limit)

	camps, err := s.camps.ListFeatured(ctx, category, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("service.SearchService.ListFeatured: %w", err)
	}
	return camps, nil
}
