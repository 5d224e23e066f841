// Package domain contains the core data types for the camp directory.
// It is imported by every other internal package (repo, service, handler,
// csvimport) and has no database or transport dependencies.
package domain

import "time"

// Camp is one camp/program listing.
// UniqueKey is the caller-assigned identity used by imports; ID is assigned
// by the store. Camps with Approved=false never appear in public reads.
type Camp struct {
	ID        int64
	UniqueKey string
	Name      string

	OpenDate  *time.Time
	CloseDate *time.Time
	MinPrice  *float64
	MaxPrice  *float64

	// Activities is the free-text activity blurb, independent of the
	// activity vocabulary.
	Activities   string
	DirectorName string
	Email        string
	Phone        string
	Website      string
	Address      string
	City         string
	State        string
	Zip          string
	Description  string
	Photos       []string
	LogoURL      string

	// Rating is the average review rating; nil when the camp has no reviews.
	Rating *float64

	Approved       bool
	OwnerAccountID *int64
	Featured       FeaturedSlots

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FeatureSlot is one curated-list membership: whether the camp is in the list
// and its position.
type FeatureSlot struct {
	On    bool
	Order int
}

// FeaturedSlots holds the five independent curated lists a camp can belong to.
type FeaturedSlots struct {
	Featured      FeatureSlot
	BestDay       FeatureSlot
	BestOvernight FeatureSlot
	BestGirls     FeatureSlot
	BestBoys      FeatureSlot
}

// FeaturedCategory names one curated list.
type FeaturedCategory string

const (
	FeaturedAll           FeaturedCategory = "featured"
	FeaturedBestDay       FeaturedCategory = "best_day"
	FeaturedBestOvernight FeaturedCategory = "best_overnight"
	FeaturedBestGirls     FeaturedCategory = "best_girls"
	FeaturedBestBoys      FeaturedCategory = "best_boys"
)

// ParseFeaturedCategory returns the category named by s.
// The second return value is false for unknown names.
func ParseFeaturedCategory(s string) (FeaturedCategory, bool) {
	switch c := FeaturedCategory(s); c {
	case FeaturedAll, FeaturedBestDay, FeaturedBestOvernight, FeaturedBestGirls, FeaturedBestBoys:
		return c, true
	}
	return "", false
}

// CampSummary is the projection of a camp returned by search.
type CampSummary struct {
	ID         int64
	UniqueKey  string
	Name       string
	City       string
	State      string
	Zip        string
	OpenDate   *time.Time
	CloseDate  *time.Time
	MinPrice   *float64
	MaxPrice   *float64
	Rating     *float64
	LogoURL    string
	Website    string
	Types      []string
	Weeks      []string
	Activities []string
	CreatedAt  time.Time
}

// CampDetail is a camp together with the names of its linked terms.
// Its term columns mirror the import format, so an exported detail can be
// edited and re-imported in update mode.
type CampDetail struct {
	Camp       Camp
	Types      []string
	Weeks      []string
	Activities []string
}
