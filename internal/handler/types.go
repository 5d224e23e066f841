package handler

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/camp-directory/internal/domain"
)

// Response bodies. JSON field names match openapi.yaml.

type HealthResponse struct {
	Status string `json:"status"`
}

type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
	HasMore  bool  `json:"has_more"`
}

type CampSummary struct {
	ID         int64               `json:"id"`
	UniqueKey  string              `json:"unique_key"`
	Name       string              `json:"name"`
	City       string              `json:"city,omitempty"`
	State      string              `json:"state,omitempty"`
	Zip        string              `json:"zip,omitempty"`
	OpenDate   *openapi_types.Date `json:"open_date,omitempty"`
	CloseDate  *openapi_types.Date `json:"close_date,omitempty"`
	MinPrice   *float64            `json:"min_price,omitempty"`
	MaxPrice   *float64            `json:"max_price,omitempty"`
	Rating     *float64            `json:"rating,omitempty"`
	LogoURL    string              `json:"logo_url,omitempty"`
	Website    string              `json:"website,omitempty"`
	Types      []string            `json:"types"`
	Weeks      []string            `json:"weeks"`
	Activities []string            `json:"activities"`
}

// SearchResponse is one page of search results. Seed is set for random
// ordering; pass it back to page through the same order.
type SearchResponse struct {
	Data       []CampSummary `json:"data"`
	Pagination Pagination    `json:"pagination"`
	Seed       string        `json:"seed,omitempty"`
}

// Camp is the public view of one camp. ActivityTerms holds the activity
// vocabulary; Activities is the free-text blurb.
type Camp struct {
	ID            int64               `json:"id"`
	UniqueKey     string              `json:"unique_key"`
	Name          string              `json:"name"`
	DirectorName  string              `json:"director_name,omitempty"`
	Email         string              `json:"email,omitempty"`
	Phone         string              `json:"phone,omitempty"`
	Website       string              `json:"website,omitempty"`
	Address       string              `json:"address,omitempty"`
	City          string              `json:"city,omitempty"`
	State         string              `json:"state,omitempty"`
	Zip           string              `json:"zip,omitempty"`
	OpenDate      *openapi_types.Date `json:"open_date,omitempty"`
	CloseDate     *openapi_types.Date `json:"close_date,omitempty"`
	MinPrice      *float64            `json:"min_price,omitempty"`
	MaxPrice      *float64            `json:"max_price,omitempty"`
	Rating        *float64            `json:"rating,omitempty"`
	Activities    string              `json:"activities,omitempty"`
	Description   string              `json:"description,omitempty"`
	Photos        []string            `json:"photos"`
	LogoURL       string              `json:"logo_url,omitempty"`
	Featured      []string            `json:"featured"`
	Types         []string            `json:"types,omitempty"`
	Weeks         []string            `json:"weeks,omitempty"`
	ActivityTerms []string            `json:"activity_terms,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type Term struct {
	ID         int64  `json:"id"`
	Vocabulary string `json:"vocabulary"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
}

// ExportRow mirrors the import columns so an export can be re-imported.
type ExportRow struct {
	UniqueKey     string              `json:"unique_key"`
	CampName      string              `json:"camp_name"`
	DirectorName  string              `json:"director_name"`
	Email         string              `json:"email"`
	Phone         string              `json:"phone"`
	Website       string              `json:"website"`
	Address       string              `json:"address"`
	City          string              `json:"city"`
	State         string              `json:"state"`
	Zip           string              `json:"zip"`
	OpenDate      *openapi_types.Date `json:"open_date"`
	CloseDate     *openapi_types.Date `json:"close_date"`
	MinPrice      *float64            `json:"min_price"`
	MaxPrice      *float64            `json:"max_price"`
	Activities    string              `json:"activities"`
	Description   string              `json:"description"`
	Photos        []string            `json:"photos"`
	LogoURL       string              `json:"logo_url"`
	Approved      bool                `json:"approved"`
	Types         []string            `json:"types"`
	Weeks         []string            `json:"weeks"`
	ActivityTerms []string            `json:"activity_terms"`
}

// ---- mapping helpers -------------------------------------------------------

func toDate(t *time.Time) *openapi_types.Date {
	if t == nil {
		return nil
	}
	return &openapi_types.Date{Time: *t}
}

// nonNil keeps empty lists as [] rather than null in JSON.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func summaryToResponse(c domain.CampSummary) CampSummary {
	return CampSummary{
		ID:         c.ID,
		UniqueKey:  c.UniqueKey,
		Name:       c.Name,
		City:       c.City,
		State:      c.State,
		Zip:        c.Zip,
		OpenDate:   toDate(c.OpenDate),
		CloseDate:  toDate(c.CloseDate),
		MinPrice:   c.MinPrice,
		MaxPrice:   c.MaxPrice,
		Rating:     c.Rating,
		LogoURL:    c.LogoURL,
		Website:    c.Website,
		Types:      nonNil(c.Types),
		Weeks:      nonNil(c.Weeks),
		Activities: nonNil(c.Activities),
	}
}

// NewSearchResponse converts a result page to its JSON form.
func NewSearchResponse(res domain.SearchResult) SearchResponse {
	data := make([]CampSummary, len(res.Camps))
	for i, c := range res.Camps {
		data[i] = summaryToResponse(c)
	}
	return SearchResponse{
		Data: data,
		Pagination: Pagination{
			Page:     res.Page,
			PageSize: res.PageSize,
			Total:    res.Total,
			HasMore:  res.HasMore,
		},
		Seed: res.Seed,
	}
}

func campToResponse(c domain.Camp) Camp {
	return Camp{
		ID:           c.ID,
		UniqueKey:    c.UniqueKey,
		Name:         c.Name,
		DirectorName: c.DirectorName,
		Email:        c.Email,
		Phone:        c.Phone,
		Website:      c.Website,
		Address:      c.Address,
		City:         c.City,
		State:        c.State,
		Zip:          c.Zip,
		OpenDate:     toDate(c.OpenDate),
		CloseDate:    toDate(c.CloseDate),
		MinPrice:     c.MinPrice,
		MaxPrice:     c.MaxPrice,
		Rating:       c.Rating,
		Activities:   c.Activities,
		Description:  c.Description,
		Photos:       nonNil(c.Photos),
		LogoURL:      c.LogoURL,
		Featured:     featuredNames(c.Featured),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func detailToResponse(d domain.CampDetail) Camp {
	out := campToResponse(d.Camp)
	out.Types = d.Types
	out.Weeks = d.Weeks
	out.ActivityTerms = d.Activities
	return out
}

// featuredNames lists the curated lists a camp belongs to.
func featuredNames(f domain.FeaturedSlots) []string {
	out := []string{}
	for _, slot := range []struct {
		category domain.FeaturedCategory
		slot     domain.FeatureSlot
	}{
		{domain.FeaturedAll, f.Featured},
		{domain.FeaturedBestDay, f.BestDay},
		{domain.FeaturedBestOvernight, f.BestOvernight},
		{domain.FeaturedBestGirls, f.BestGirls},
		{domain.FeaturedBestBoys, f.BestBoys},
	} {
		if slot.slot.On {
			out = append(out, string(slot.category))
		}
	}
	return out
}

func termToResponse(t domain.Term) Term {
	return Term{
		ID:         t.ID,
		Vocabulary: string(t.Vocabulary),
		Name:       t.Name,
		Slug:       t.Slug,
	}
}

func detailToExportRow(d domain.CampDetail) ExportRow {
	c := d.Camp
	return ExportRow{
		UniqueKey:     c.UniqueKey,
		CampName:      c.Name,
		DirectorName:  c.DirectorName,
		Email:         c.Email,
		Phone:         c.Phone,
		Website:       c.Website,
		Address:       c.Address,
		City:          c.City,
		State:         c.State,
		Zip:           c.Zip,
		OpenDate:      toDate(c.OpenDate),
		CloseDate:     toDate(c.CloseDate),
		MinPrice:      c.MinPrice,
		MaxPrice:      c.MaxPrice,
		Activities:    c.Activities,
		Description:   c.Description,
		Photos:        nonNil(c.Photos),
		LogoURL:       c.LogoURL,
		Approved:      c.Approved,
		Types:         nonNil(d.Types),
		Weeks:         nonNil(d.Weeks),
		ActivityTerms: nonNil(d.Activities),
	}
}
