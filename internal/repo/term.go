package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/camp-directory/internal/domain"
)

// TermRepo defines the persistence operations for taxonomy terms and the
// per-vocabulary camp junction tables.
type TermRepo interface {
	// FindByNameOrSlug returns the term whose name equals name or whose slug
	// equals slug. An exact name match wins over a slug match.
	// Returns domain.ErrNotFound if neither matches.
	FindByNameOrSlug(ctx context.Context, v domain.Vocabulary, name, slug string) (domain.Term, error)

	// Upsert inserts a term by slug, or returns the existing term if the slug
	// already exists. created reports whether this call inserted the row.
	Upsert(ctx context.Context, v domain.Vocabulary, name, slug string) (t domain.Term, created bool, err error)

	// Link attaches a term to a camp. Linking twice is not an error;
	// linked reports whether a new row was written.
	Link(ctx context.Context, v domain.Vocabulary, campID, termID int64) (linked bool, err error)

	// List returns the active terms whose slug starts with prefix,
	// ordered by sort order then name. An empty prefix returns all of them.
	List(ctx context.Context, v domain.Vocabulary, prefix string) ([]domain.Term, error)

	// ListByCamp returns the terms linked to a camp, ordered by name.
	ListByCamp(ctx context.Context, v domain.Vocabulary, campID int64) ([]domain.Term, error)
}

// pgTermRepo is the Postgres implementation of TermRepo.
type pgTermRepo struct {
	db db
}

// NewTermRepo constructs a TermRepo backed by the provided db connection.
func NewTermRepo(db db) TermRepo {
	return &pgTermRepo{db: db}
}

func (r *pgTermRepo) FindByNameOrSlug(ctx context.Context, v domain.Vocabulary, name, slug string) (domain.Term, error) {
	table, _, err := vocabularyTables(v)
	if err != nil {
		return domain.Term{}, fmt.Errorf("repo.TermRepo.FindByNameOrSlug: %w", err)
	}
	q := `
		SELECT id, name, slug, active, sort_order, created_at
		FROM ` + table + `
		WHERE name = @name OR slug = @slug
		ORDER BY (name = @name) DESC, id
		LIMIT 1`

	t, err := scanTerm(r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": name, "slug": slug}), v)
	if err != nil {
		return domain.Term{}, fmt.Errorf("repo.TermRepo.FindByNameOrSlug: %w", err)
	}
	return t, nil
}

// Upsert inserts a term or returns the existing row on slug conflict.
// DO UPDATE rather than DO NOTHING so that RETURNING fires on conflict too;
// xmax is zero only for a freshly inserted tuple.
func (r *pgTermRepo) Upsert(ctx context.Context, v domain.Vocabulary, name, slug string) (domain.Term, bool, error) {
	table, _, err := vocabularyTables(v)
	if err != nil {
		return domain.Term{}, false, fmt.Errorf("repo.TermRepo.Upsert: %w", err)
	}
	q := `
		INSERT INTO ` + table + ` (name, slug)
		VALUES (@name, @slug)
		ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
		RETURNING id, name, slug, active, sort_order, created_at, (xmax = 0) AS inserted`

	var created bool
	t, err := scanTerm(r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": name, "slug": slug}), v, &created)
	if err != nil {
		return domain.Term{}, false, fmt.Errorf("repo.TermRepo.Upsert: %w", err)
	}
	return t, created, nil
}

func (r *pgTermRepo) Link(ctx context.Context, v domain.Vocabulary, campID, termID int64) (bool, error) {
	_, junction, err := vocabularyTables(v)
	if err != nil {
		return false, fmt.Errorf("repo.TermRepo.Link: %w", err)
	}
	q := `
		INSERT INTO ` + junction + ` (camp_id, term_id)
		VALUES (@camp_id, @term_id)
		ON CONFLICT (camp_id, term_id) DO NOTHING`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"camp_id": campID, "term_id": termID})
	if err != nil {
		return false, fmt.Errorf("repo.TermRepo.Link: %w", mapError(err))
	}
	return tag.RowsAffected() == 1, nil
}

func (r *pgTermRepo) List(ctx context.Context, v domain.Vocabulary, prefix string) ([]domain.Term, error) {
	table, _, err := vocabularyTables(v)
	if err != nil {
		return nil, fmt.Errorf("repo.TermRepo.List: %w", err)
	}
	q := `
		SELECT id, name, slug, active, sort_order, created_at
		FROM ` + table + `
		WHERE active AND slug LIKE @prefix || '%' ESCAPE '\'
		ORDER BY sort_order, name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"prefix": escapeLike(prefix)})
	if err != nil {
		return nil, fmt.Errorf("repo.TermRepo.List: %w", mapError(err))
	}
	return collectTerms(rows, v, "repo.TermRepo.List")
}

func (r *pgTermRepo) ListByCamp(ctx context.Context, v domain.Vocabulary, campID int64) ([]domain.Term, error) {
	table, junction, err := vocabularyTables(v)
	if err != nil {
		return nil, fmt.Errorf("repo.TermRepo.ListByCamp: %w", err)
	}
	q := `
		SELECT t.id, t.name, t.slug, t.active, t.sort_order, t.created_at
		FROM ` + table + ` t
		JOIN ` + junction + ` j ON j.term_id = t.id
		WHERE j.camp_id = @camp_id
		ORDER BY t.name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"camp_id": campID})
	if err != nil {
		return nil, fmt.Errorf("repo.TermRepo.ListByCamp: %w", mapError(err))
	}
	return collectTerms(rows, v, "repo.TermRepo.ListByCamp")
}

func collectTerms(rows pgx.Rows, v domain.Vocabulary, op string) ([]domain.Term, error) {
	defer rows.Close()

	terms := []domain.Term{}
	for rows.Next() {
		t, err := scanTerm(rows, v)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		terms = append(terms, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, mapError(err))
	}
	return terms, nil
}

// scanTerm maps a single database row into a domain.Term.
// Any extra destinations are scanned after the term columns.
func scanTerm(s scanner, v domain.Vocabulary, extra ...any) (domain.Term, error) {
	t := domain.Term{Vocabulary: v}
	dest := append([]any{&t.ID, &t.Name, &t.Slug, &t.Active, &t.SortOrder, &t.CreatedAt}, extra...)
	if err := s.Scan(dest...); err != nil {
		return domain.Term{}, mapError(err)
	}
	return t, nil
}
