package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/camp-directory/internal/domain"
)

// CampRepo defines the persistence operations for Camps.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the services to be unit-tested with fakes.
type CampRepo interface {
	// GetByID retrieves a single camp by its primary key, approved or not.
	// Returns domain.ErrNotFound if no camp with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Camp, error)

	// GetByUniqueKey retrieves a single camp by its import key.
	// Returns domain.ErrNotFound if no camp carries that key.
	GetByUniqueKey(ctx context.Context, key string) (domain.Camp, error)

	// Search returns one page of approved camps matching q and the total
	// number of matches across all pages.
	Search(ctx context.Context, q domain.SearchQuery) ([]domain.CampSummary, int64, error)

	// Create inserts a new camp and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	// Returns domain.ErrDuplicateKey if the unique key is already taken.
	Create(ctx context.Context, camp domain.Camp) (domain.Camp, error)

	// Update overwrites the mutable fields of an existing camp and returns the
	// updated record. id, unique_key, created_at, owner and the featured
	// slots are left untouched. Returns domain.ErrNotFound if no camp with
	// that ID exists.
	Update(ctx context.Context, camp domain.Camp) (domain.Camp, error)

	// SetOwner links a camp to the account that manages it.
	SetOwner(ctx context.Context, campID, accountID int64) error

	// ListFeatured returns approved camps in the given curated list ordered
	// by their position in that list, then name.
	ListFeatured(ctx context.Context, category domain.FeaturedCategory, limit int) ([]domain.Camp, error)

	// ListForExport returns every camp, approved or not, with its term names,
	// ordered by id.
	ListForExport(ctx context.Context) ([]domain.CampDetail, error)
}

// pgCampRepo is the Postgres implementation of CampRepo.
type pgCampRepo struct {
	db db
}

// NewCampRepo constructs a CampRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewCampRepo(db db) CampRepo {
	return &pgCampRepo{db: db}
}

const campColumns = `
	c.id, c.unique_key, c.name, c.open_date, c.close_date, c.min_price, c.max_price,
	c.activities, c.director_name, c.email, c.phone, c.website, c.address, c.city, c.state, c.zip,
	c.description, c.photos, c.logo_url, c.rating, c.approved, c.owner_account_id,
	c.featured, c.featured_order, c.best_day, c.best_day_order,
	c.best_overnight, c.best_overnight_order, c.best_girls, c.best_girls_order,
	c.best_boys, c.best_boys_order, c.created_at, c.updated_at`

// termNamesColumns selects the linked term names of camp c for each vocabulary.
const termNamesColumns = `
	ARRAY(SELECT t.name FROM camp_types j JOIN types t ON t.id = j.term_id
	      WHERE j.camp_id = c.id ORDER BY t.sort_order, t.name) AS type_names,
	ARRAY(SELECT t.name FROM camp_weeks j JOIN weeks t ON t.id = j.term_id
	      WHERE j.camp_id = c.id ORDER BY t.sort_order, t.name) AS week_names,
	ARRAY(SELECT t.name FROM camp_activities j JOIN activities t ON t.id = j.term_id
	      WHERE j.camp_id = c.id ORDER BY t.sort_order, t.name) AS activity_names`

// GetByID retrieves a camp by primary key.
func (r *pgCampRepo) GetByID(ctx context.Context, id int64) (domain.Camp, error) {
	q := `SELECT ` + campColumns + ` FROM camps c WHERE c.id = @id`

	result, err := scanCamp(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Camp{}, fmt.Errorf("repo.CampRepo.GetByID: %w", err)
	}
	return result, nil
}

// GetByUniqueKey retrieves a camp by its import key.
func (r *pgCampRepo) GetByUniqueKey(ctx context.Context, key string) (domain.Camp, error) {
	q := `SELECT ` + campColumns + ` FROM camps c WHERE c.unique_key = @key`

	result, err := scanCamp(r.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key}))
	if err != nil {
		return domain.Camp{}, fmt.Errorf("repo.CampRepo.GetByUniqueKey: %w", err)
	}
	return result, nil
}

// Create inserts a new camp row and returns the full persisted record.
func (r *pgCampRepo) Create(ctx context.Context, camp domain.Camp) (domain.Camp, error) {
	q := `
		INSERT INTO camps AS c (
			unique_key, name, open_date, close_date, min_price, max_price,
			activities, director_name, email, phone, website, address, city, state, zip,
			description, photos, logo_url, approved, owner_account_id)
		VALUES (
			@unique_key, @name, @open_date, @close_date, @min_price, @max_price,
			@activities, @director_name, @email, @phone, @website, @address, @city, @state, @zip,
			@description, @photos, @logo_url, @approved, @owner_account_id)
		RETURNING ` + campColumns

	args := campArgs(camp)
	args["unique_key"] = camp.UniqueKey
	args["owner_account_id"] = camp.OwnerAccountID // nil becomes NULL

	result, err := scanCamp(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Camp{}, fmt.Errorf("repo.CampRepo.Create: %w", err)
	}
	return result, nil
}

// Update overwrites the mutable fields of a camp and returns the updated record.
func (r *pgCampRepo) Update(ctx context.Context, camp domain.Camp) (domain.Camp, error) {
	q := `
		UPDATE camps AS c
		SET name          = @name,
		    open_date     = @open_date,
		    close_date    = @close_date,
		    min_price     = @min_price,
		    max_price     = @max_price,
		    activities    = @activities,
		    director_name = @director_name,
		    email         = @email,
		    phone         = @phone,
		    website       = @website,
		    address       = @address,
		    city          = @city,
		    state         = @state,
		    zip           = @zip,
		    description   = @description,
		    photos        = @photos,
		    logo_url      = @logo_url,
		    approved      = @approved,
		    updated_at    = now()
		WHERE c.id = @id
		RETURNING ` + campColumns

	args := campArgs(camp)
	args["id"] = camp.ID

	result, err := scanCamp(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Camp{}, fmt.Errorf("repo.CampRepo.Update: %w", err)
	}
	return result, nil
}

// SetOwner sets owner_account_id on a camp.
func (r *pgCampRepo) SetOwner(ctx context.Context, campID, accountID int64) error {
	const q = `UPDATE camps SET owner_account_id = @account_id, updated_at = now() WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": campID, "account_id": accountID})
	if err != nil {
		return fmt.Errorf("repo.CampRepo.SetOwner: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.CampRepo.SetOwner: %w", domain.ErrNotFound)
	}
	return nil
}

// featuredColumns maps each curated list to its flag and order columns.
var featuredColumns = map[domain.FeaturedCategory][2]string{
	domain.FeaturedAll:           {"featured", "featured_order"},
	domain.FeaturedBestDay:       {"best_day", "best_day_order"},
	domain.FeaturedBestOvernight: {"best_overnight", "best_overnight_order"},
	domain.FeaturedBestGirls:     {"best_girls", "best_girls_order"},
	domain.FeaturedBestBoys:      {"best_boys", "best_boys_order"},
}

// ListFeatured returns the approved camps in one curated list.
func (r *pgCampRepo) ListFeatured(ctx context.Context, category domain.FeaturedCategory, limit int) ([]domain.Camp, error) {
	cols, ok := featuredColumns[category]
	if !ok {
		return nil, fmt.Errorf("repo.CampRepo.ListFeatured: unknown category %q: %w", category, domain.ErrValidation)
	}

	q := `SELECT ` + campColumns + `
		FROM camps c
		WHERE c.approved AND c.` + cols[0] + `
		ORDER BY c.` + cols[1] + `, lower(c.name), c.id
		LIMIT @limit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.CampRepo.ListFeatured: %w", mapError(err))
	}
	defer rows.Close()

	camps := []domain.Camp{}
	for rows.Next() {
		c, err := scanCamp(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.CampRepo.ListFeatured: scan: %w", err)
		}
		camps = append(camps, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CampRepo.ListFeatured: rows: %w", mapError(err))
	}
	return camps, nil
}

// ListForExport returns all camps with their term names, ordered by id.
func (r *pgCampRepo) ListForExport(ctx context.Context) ([]domain.CampDetail, error) {
	q := `SELECT ` + campColumns + `, ` + termNamesColumns + ` FROM camps c ORDER BY c.id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.CampRepo.ListForExport: %w", mapError(err))
	}
	defer rows.Close()

	out := []domain.CampDetail{}
	for rows.Next() {
		var row domain.CampDetail
		c, err := scanCamp(rows, &row.Types, &row.Weeks, &row.Activities)
		if err != nil {
			return nil, fmt.Errorf("repo.CampRepo.ListForExport: scan: %w", err)
		}
		row.Camp = c
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CampRepo.ListForExport: rows: %w", mapError(err))
	}
	return out, nil
}

// campArgs returns the named arguments shared by Create and Update.
func campArgs(camp domain.Camp) pgx.NamedArgs {
	photos := camp.Photos
	if photos == nil {
		photos = []string{} // column is NOT NULL; a nil slice would encode as NULL
	}
	return pgx.NamedArgs{
		"name":          camp.Name,
		"open_date":     camp.OpenDate,
		"close_date":    camp.CloseDate,
		"min_price":     camp.MinPrice,
		"max_price":     camp.MaxPrice,
		"activities":    camp.Activities,
		"director_name": camp.DirectorName,
		"email":         camp.Email,
		"phone":         camp.Phone,
		"website":       camp.Website,
		"address":       camp.Address,
		"city":          camp.City,
		"state":         camp.State,
		"zip":           camp.Zip,
		"description":   camp.Description,
		"photos":        photos,
		"logo_url":      camp.LogoURL,
		"approved":      camp.Approved,
	}
}

// scanCamp maps a row selected with campColumns into a domain.Camp.
// Any extra destinations are scanned after the camp columns.
func scanCamp(s scanner, extra ...any) (domain.Camp, error) {
	var (
		c                   domain.Camp
		openDate, closeDate pgtype.Date
		minPrice, maxPrice  pgtype.Float8
		rating              pgtype.Float8
		owner               pgtype.Int8
		f                   = &c.Featured
	)

	dest := []any{
		&c.ID, &c.UniqueKey, &c.Name, &openDate, &closeDate, &minPrice, &maxPrice,
		&c.Activities, &c.DirectorName, &c.Email, &c.Phone, &c.Website, &c.Address, &c.City, &c.State, &c.Zip,
		&c.Description, &c.Photos, &c.LogoURL, &rating, &c.Approved, &owner,
		&f.Featured.On, &f.Featured.Order, &f.BestDay.On, &f.BestDay.Order,
		&f.BestOvernight.On, &f.BestOvernight.Order, &f.BestGirls.On, &f.BestGirls.Order,
		&f.BestBoys.On, &f.BestBoys.Order, &c.CreatedAt, &c.UpdatedAt,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return domain.Camp{}, mapError(err)
	}

	c.OpenDate = dateOrNil(openDate)
	c.CloseDate = dateOrNil(closeDate)
	c.MinPrice = floatOrNil(minPrice)
	c.MaxPrice = floatOrNil(maxPrice)
	c.Rating = floatOrNil(rating)
	if owner.Valid {
		id := owner.Int64
		c.OwnerAccountID = &id
	}
	return c, nil
}

func dateOrNil(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

func floatOrNil(f pgtype.Float8) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
