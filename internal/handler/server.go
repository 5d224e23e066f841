// Package handler implements the HTTP API of the camp directory.
// All handlers are methods on Server. Methods are split into resource files
// (camp.go, term.go, import.go, ...) but share the same Server struct so
// they can reach its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/camp-directory/internal/domain"
	"github.com/pkordes/camp-directory/internal/service"
)

// SearchServicer defines the read operations the camp handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type SearchServicer interface {
	Search(ctx context.Context, q domain.SearchQuery) (domain.SearchResult, error)
	GetCamp(ctx context.Context, id int64) (domain.CampDetail, error)
	ListFeatured(ctx context.Context, category domain.FeaturedCategory, limit int) ([]domain.Camp, error)
}

// TermServicer lists vocabulary terms for autocomplete.
type TermServicer interface {
	List(ctx context.Context, v domain.Vocabulary, prefix string) ([]domain.Term, error)
}

// ImportServicer reconciles an uploaded batch against the store.
type ImportServicer interface {
	Reconcile(ctx context.Context, rows service.RowReader, opts domain.ImportOptions, onRow func(domain.RowResult)) (domain.ImportSummary, error)
}

// ExportServicer returns every camp in import-compatible form.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.CampDetail, error)
}

// Server serves every API endpoint. Wire it in main.go via Routes.
type Server struct {
	search  SearchServicer
	terms   TermServicer
	imports ImportServicer
	exports ExportServicer
	log     *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default.
func NewServer(search SearchServicer, terms TermServicer, imports ImportServicer, exports ExportServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		search:  search,
		terms:   terms,
		imports: imports,
		exports: exports,
		log:     log,
	}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil, nil)
}

// Routes returns a router with every endpoint registered.
// Middleware is the caller's concern.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/camps", func(r chi.Router) {
		r.Get("/search", s.SearchCamps)
		r.Get("/featured/{category}", s.ListFeatured)
		r.Get("/{id}", s.GetCamp)
	})
	r.Get("/terms/{vocabulary}", s.ListTerms)

	r.Post("/imports", s.CreateImport)
	r.Get("/export", s.GetExport)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		notFound(w, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	return r
}
