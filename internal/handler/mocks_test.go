package handler_test

import (
	"context"
	"net/http"

	"github.com/pkordes/camp-directory/internal/domain"
	"github.com/pkordes/camp-directory/internal/handler"
	"github.com/pkordes/camp-directory/internal/service"
)

// Test doubles for the handler's consumer interfaces.
// Set only the method fields your test needs.

type mockSearchServicer struct {
	search       func(ctx context.Context, q domain.SearchQuery) (domain.SearchResult, error)
	getCamp      func(ctx context.Context, id int64) (domain.CampDetail, error)
	listFeatured func(ctx context.Context, category domain.FeaturedCategory, limit int) ([]domain.Camp, error)
}

func (m *mockSearchServicer) Search(ctx context.Context, q domain.SearchQuery) (domain.SearchResult, error) {
	return m.search(ctx, q)
}
func (m *mockSearchServicer) GetCamp(ctx context.Context, id int64) (domain.CampDetail, error) {
	return m.getCamp(ctx, id)
}
func (m *mockSearchServicer) ListFeatured(ctx context.Context, category domain.FeaturedCategory, limit int) ([]domain.Camp, error) {
	return m.listFeatured(ctx, category, limit)
}

type mockTermServicer struct {
	list func(ctx context.Context, v domain.Vocabulary, prefix string) ([]domain.Term, error)
}

func (m *mockTermServicer) List(ctx context.Context, v domain.Vocabulary, prefix string) ([]domain.Term, error) {
	return m.list(ctx, v, prefix)
}

type mockImportServicer struct {
	reconcile func(ctx context.Context, rows service.RowReader, opts domain.ImportOptions, onRow func(domain.RowResult)) (domain.ImportSummary, error)
}

func (m *mockImportServicer) Reconcile(ctx context.Context, rows service.RowReader, opts domain.ImportOptions, onRow func(domain.RowResult)) (domain.ImportSummary, error) {
	return m.reconcile(ctx, rows, opts, onRow)
}

type mockExportServicer struct {
	export func(ctx context.Context) ([]domain.CampDetail, error)
}

func (m *mockExportServicer) Export(ctx context.Context) ([]domain.CampDetail, error) {
	return m.export(ctx)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.SearchServicer = (*mockSearchServicer)(nil)
	_ handler.TermServicer   = (*mockTermServicer)(nil)
	_ handler.ImportServicer = (*mockImportServicer)(nil)
	_ handler.ExportServicer = (*mockExportServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// services groups the mocks a test wires into the router. Nil fields stay nil.
type services struct {
	search  handler.SearchServicer
	terms   handler.TermServicer
	imports handler.ImportServicer
	exports handler.ExportServicer
}

// newHTTPHandler wires a Server with the given mocks into the chi router,
// the same way main.go wires it in production.
func newHTTPHandler(s services) http.Handler {
	return handler.NewServer(s.search, s.terms, s.imports, s.exports, nil).Routes()
}
