package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/camp-directory/internal/domain"
	"github.com/pkordes/camp-directory/internal/service"
)

// ---- Search ----------------------------------------------------------------

func TestSearchService_Search_GeneratesSeedForRandom(t *testing.T) {
	var got domain.SearchQuery
	svc := service.NewSearchService(&mockCampRepo{
		search: func(_ context.Context, q domain.SearchQuery) ([]domain.CampSummary, int64, error) {
			got = q
			return []domain.CampSummary{}, 0, nil
		},
	}, &mockTermRepo{})

	res, err := svc.Search(context.Background(), domain.SearchQuery{})

	require.NoError(t, err)
	assert.Equal(t, domain.SortRandom, got.Sort)
	assert.NotEmpty(t, got.Seed)
	assert.Equal(t, got.Seed, res.Seed, "the seed used must be handed back")
}

func TestSearchService_Search_KeepsCallerSeed(t *testing.T) {
	svc := service.NewSearchService(&mockCampRepo{
		search: func(_ context.Context, q domain.SearchQuery) ([]domain.CampSummary, int64, error) {
			assert.Equal(t, "abc", q.Seed)
			return nil, 0, nil
		},
	}, &mockTermRepo{})

	res, err := svc.Search(context.Background(), domain.SearchQuery{Sort: domain.SortRandom, Seed: "abc"})

	require.NoError(t, err)
	assert.Equal(t, "abc", res.Seed)
}

func TestSearchService_Search_DropsSeedForFixedSorts(t *testing.T) {
	svc := service.NewSearchService(&mockCampRepo{
		search: func(_ context.Context, q domain.SearchQuery) ([]domain.CampSummary, int64, error) {
			assert.Empty(t, q.Seed)
			return nil, 0, nil
		},
	}, &mockTermRepo{})

	res, err := svc.Search(context.Background(), domain.SearchQuery{Sort: domain.SortNameAsc, Seed: "abc"})

	require.NoError(t, err)
	assert.Empty(t, res.Seed)
}

func TestSearchService_Search_Pagination(t *testing.T) {
	tests := []struct {
		name        string
		page, size  int
		total       int64
		wantPage    int
		wantSize    int
		wantHasMore bool
	}{
		{"defaults", 0, 0, 45, 1, 20, true},
		{"last page", 3, 20, 45, 3, 20, false},
		{"capped size", 1, 500, 150, 1, 100, true},
		{"exact fit", 2, 10, 20, 2, 10, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := service.NewSearchService(&mockCampRepo{
				search: func(_ context.Context, q domain.SearchQuery) ([]domain.CampSummary, int64, error) {
					assert.Equal(t, tc.wantPage, q.Page)
					assert.Equal(t, tc.wantSize, q.PageSize)
					return nil, tc.total, nil
				},
			}, &mockTermRepo{})

			res, err := svc.Search(context.Background(), domain.SearchQuery{
				Sort: domain.SortNewest, Page: tc.page, PageSize: tc.size,
			})

			require.NoError(t, err)
			assert.Equal(t, tc.wantPage, res.Page)
			assert.Equal(t, tc.wantSize, res.PageSize)
			assert.Equal(t, tc.total, res.Total)
			assert.Equal(t, tc.wantHasMore, res.HasMore)
		})
	}
}

func TestSearchService_Search_RepoError(t *testing.T) {
	svc := service.NewSearchService(&mockCampRepo{
		search: func(context.Context, domain.SearchQuery) ([]domain.CampSummary, int64, error) {
			return nil, 0, domain.ErrStoreUnavailable
		},
	}, &mockTermRepo{})

	_, err := svc.Search(context.Background(), domain.SearchQuery{})

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

// ---- GetCamp ---------------------------------------------------------------

func TestSearchService_GetCamp_WithTerms(t *testing.T) {
	svc := service.NewSearchService(
		&mockCampRepo{
			getByID: func(_ context.Context, id int64) (domain.Camp, error) {
				return domain.Camp{ID: id, Name: "Camp Alpha", Approved: true}, nil
			},
		},
		&mockTermRepo{
			listByCamp: func(_ context.Context, v domain.Vocabulary, _ int64) ([]domain.Term, error) {
				if v == domain.VocabWeek {
					return []domain.Term{{Name: "Week 1"}, {Name: "Week 2"}}, nil
				}
				return []domain.Term{}, nil
			},
		},
	)

	got, err := svc.GetCamp(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Camp.ID)
	assert.Equal(t, []string{"Week 1", "Week 2"}, got.Weeks)
	assert.Empty(t, got.Types)
}

func TestSearchService_GetCamp_UnapprovedIsHidden(t *testing.T) {
	svc := service.NewSearchService(&mockCampRepo{
		getByID: func(_ context.Context, id int64) (domain.Camp, error) {
			return domain.Camp{ID: id, Approved: false}, nil
		},
	}, &mockTermRepo{})

	_, err := svc.GetCamp(context.Background(), 7)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSearchService_GetCamp_NotFound(t *testing.T) {
	svc := service.NewSearchService(&mockCampRepo{
		getByID: func(context.Context, int64) (domain.Camp, error) {
			return domain.Camp{}, domain.ErrNotFound
		},
	}, &mockTermRepo{})

	_, err := svc.GetCamp(context.Background(), 7)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- ListFeatured ----------------------------------------------------------

func TestSearchService_ListFeatured(t *testing.T) {
	var gotLimit int
	svc := service.NewSearchService(&mockCampRepo{
		listFeatured: func(_ context.Context, c domain.FeaturedCategory, limit int) ([]domain.Camp, error) {
			assert.Equal(t, domain.FeaturedBestGirls, c)
			gotLimit = limit
			return []domain.Camp{{ID: 1}}, nil
		},
	}, &mockTermRepo{})

	got, err := svc.ListFeatured(context.Background(), domain.FeaturedBestGirls, 0)

	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, domain.DefaultPageSize, gotLimit)
}

func TestSearchService_ListFeatured_UnknownCategory(t *testing.T) {
	svc := service.NewSearchService(&mockCampRepo{}, &mockTermRepo{})

	_, err := svc.ListFeatured(context.Background(), "best_ever", 5)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- TermService -----------------------------------------------------------

func TestTermService_List_SlugifiesPrefix(t *testing.T) {
	svc := service.NewTermService(&mockTermRepo{
		list: func(_ context.Context, v domain.Vocabulary, prefix string) ([]domain.Term, error) {
			assert.Equal(t, domain.VocabActivity, v)
			assert.Equal(t, "rock-cl", prefix)
			return []domain.Term{{Name: "Rock Climbing", Slug: "rock-climbing"}}, nil
		},
	})

	got, err := svc.List(context.Background(), domain.VocabActivity, "Rock Cl")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Rock Climbing", got[0].Name)
}

func TestTermService_List_RepoError(t *testing.T) {
	svc := service.NewTermService(&mockTermRepo{
		list: func(context.Context, domain.Vocabulary, string) ([]domain.Term, error) {
			return nil, errors.New("boom")
		},
	})

	_, err := svc.List(context.Background(), domain.VocabType, "")

	assert.Error(t, err)
}
