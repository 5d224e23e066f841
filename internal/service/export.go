package service

import (
	"context"
	"fmt"

	"github.com/pkordes/camp-directory/internal/domain"
	"github.com/pkordes/camp-directory/internal/repo"
)

// ExportService assembles a full flat export of every camp with its terms.
type ExportService struct {
	camps repo.CampRepo
}

// NewExportService constructs an ExportService backed by the provided repo.
func NewExportService(camps repo.CampRepo) *ExportService {
	return &ExportService{camps: camps}
}

// Export returns one CampDetail per camp, approved or not, ordered by id.
func (s *ExportService) Export(ctx context.Context) ([]domain.CampDetail, error) {
	rows, err := s.camps.ListForExport(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	return rows, nil
}
