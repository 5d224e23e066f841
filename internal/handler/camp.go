package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/camp-directory/internal/domain"
)

// SearchCamps handles GET /camps/search.
// Facet values never cause an error: unparseable ones are ignored. Facet
// parameters may be repeated or comma-separated.
func (s *Server) SearchCamps(w http.ResponseWriter, r *http.Request) {
	raw, err := bindSearch(r.URL.Query())
	if err != nil {
		requestError(w, err.Error())
		return
	}

	res, err := s.search.Search(r.Context(), domain.NewSearchQuery(raw))
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, NewSearchResponse(res))
}

// bindSearch copies the search query parameters into a RawSearch.
func bindSearch(q url.Values) (domain.RawSearch, error) {
	var raw domain.RawSearch
	params := []struct {
		name string
		dest any
	}{
		{"q", &raw.Term},
		{"state", &raw.State},
		{"date_from", &raw.DateFrom},
		{"date_to", &raw.DateTo},
		{"price_min", &raw.PriceMin},
		{"price_max", &raw.PriceMax},
		{"type", &raw.Types},
		{"week", &raw.Weeks},
		{"activity", &raw.Activities},
		{"sort", &raw.Sort},
		{"seed", &raw.Seed},
		{"page", &raw.Page},
		{"page_size", &raw.PageSize},
	}
	for _, p := range params {
		if err := runtime.BindQueryParameter("form", true, false, p.name, q, p.dest); err != nil {
			return domain.RawSearch{}, err
		}
	}
	return raw, nil
}

// GetCamp handles GET /camps/{id}.
func (s *Server) GetCamp(w http.ResponseWriter, r *http.Request) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil || id < 1 {
		notFound(w, "camp not found")
		return
	}

	detail, err := s.search.GetCamp(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "camp not found")
			return
		}
		s.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, detailToResponse(detail))
}

// ListFeatured handles GET /camps/featured/{category}.
// Supports ?limit= (default 20, max 100).
func (s *Server) ListFeatured(w http.ResponseWriter, r *http.Request) {
	category, ok := domain.ParseFeaturedCategory(chi.URLParam(r, "category"))
	if !ok {
		requestError(w, "unknown featured category")
		return
	}

	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		requestError(w, err.Error())
		return
	}
	n := 0
	if limit != nil {
		n = *limit
	}

	camps, err := s.search.ListFeatured(r.Context(), category, n)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			validationError(w, err)
			return
		}
		s.serverError(w, r, err)
		return
	}

	data := make([]Camp, len(camps))
	for i, c := range camps {
		data[i] = campToResponse(c)
	}
	writeJSON(w, http.StatusOK, data)
}
