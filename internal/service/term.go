package service

import (
	"context"
	"fmt"

	"github.com/pkordes/camp-directory/internal/domain"
	"github.com/pkordes/camp-directory/internal/repo"
)

// TermService exposes the taxonomy vocabularies as facet options.
type TermService struct {
	terms repo.TermRepo
}

// NewTermService constructs a TermService backed by the provided TermRepo.
func NewTermService(terms repo.TermRepo) *TermService {
	return &TermService{terms: terms}
}

// List returns the active terms of v whose slug starts with the slug form of
// prefix. A blank prefix lists the whole vocabulary.
func (s *TermService) List(ctx context.Context, v domain.Vocabulary, prefix string) ([]domain.Term, error) {
	terms, err := s.terms.List(ctx, v, domain.Slugify(prefix))
	if err != nil {
		return nil, fmt.Errorf("service.TermService.List: %w", err)
	}
	return terms, nil
}
