package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/camp-directory/internal/domain"
)

// ListTerms handles GET /terms/{vocabulary}.
// Returns the active terms of one vocabulary, optionally narrowed by
// ?prefix= for autocomplete.
func (s *Server) ListTerms(w http.ResponseWriter, r *http.Request) {
	v, ok := domain.ParseVocabulary(chi.URLParam(r, "vocabulary"))
	if !ok {
		notFound(w, "vocabulary not found")
		return
	}

	var prefix string
	if err := runtime.BindQueryParameter("form", true, false, "prefix", r.URL.Query(), &prefix); err != nil {
		requestError(w, err.Error())
		return
	}

	terms, err := s.terms.List(r.Context(), v, prefix)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	data := make([]Term, len(terms))
	for i, t := range terms {
		data[i] = termToResponse(t)
	}
	writeJSON(w, http.StatusOK, data)
}
