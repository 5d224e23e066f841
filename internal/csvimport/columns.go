// Package csvimport decodes camp import files into domain.RawRow values and
// encodes camps and generated credentials back to CSV.
//
// The export writes the same canonical columns the reader accepts, so an
// export can be edited and re-imported in update mode.
package csvimport

import (
	"strings"
	"unicode"

	"github.com/pkordes/camp-directory/internal/domain"
)

// Canonical column names, in export order.
const (
	ColUniqueKey     = "unique_key"
	ColCampName      = "camp_name"
	ColDirectorName  = "director_name"
	ColEmail         = "email"
	ColPhone         = "phone"
	ColWebsite       = "website"
	ColAddress       = "address"
	ColCity          = "city"
	ColState         = "state"
	ColZip           = "zip"
	ColOpenDate      = "open_date"
	ColCloseDate     = "close_date"
	ColMinPrice      = "min_price"
	ColMaxPrice      = "max_price"
	ColActivities    = "activities"
	ColDescription   = "description"
	ColPhotos        = "photos"
	ColLogoURL       = "logo_url"
	ColApproved      = "approved"
	ColTypes         = "types"
	ColWeeks         = "weeks"
	ColActivityTerms = "activity_terms"
)

// Columns lists every canonical column in export order.
var Columns = []string{
	ColUniqueKey, ColCampName, ColDirectorName, ColEmail, ColPhone, ColWebsite,
	ColAddress, ColCity, ColState, ColZip, ColOpenDate, ColCloseDate,
	ColMinPrice, ColMaxPrice, ColActivities, ColDescription, ColPhotos,
	ColLogoURL, ColApproved, ColTypes, ColWeeks, ColActivityTerms,
}

// aliases maps alternative header spellings to canonical columns.
// Keys are in headerKey form.
var aliases = map[string]string{
	"id":               ColUniqueKey,
	"key":              ColUniqueKey,
	"uniquekey":        ColUniqueKey,
	"camp_id":          ColUniqueKey,
	"name":             ColCampName,
	"camp":             ColCampName,
	"title":            ColCampName,
	"director":         ColDirectorName,
	"camp_director":    ColDirectorName,
	"contact_name":     ColDirectorName,
	"e_mail":           ColEmail,
	"email_address":    ColEmail,
	"contact_email":    ColEmail,
	"phone_number":     ColPhone,
	"telephone":        ColPhone,
	"url":              ColWebsite,
	"web_site":         ColWebsite,
	"street":           ColAddress,
	"street_address":   ColAddress,
	"zipcode":          ColZip,
	"zip_code":         ColZip,
	"postal_code":      ColZip,
	"start_date":       ColOpenDate,
	"opening_date":     ColOpenDate,
	"end_date":         ColCloseDate,
	"closing_date":     ColCloseDate,
	"price_min":        ColMinPrice,
	"price_from":       ColMinPrice,
	"price_max":        ColMaxPrice,
	"price_to":         ColMaxPrice,
	"activity_text":    ColActivities,
	"about":            ColDescription,
	"photo_urls":       ColPhotos,
	"gallery":          ColPhotos,
	"logo":             ColLogoURL,
	"published":        ColApproved,
	"camp_types":       ColTypes,
	"type":             ColTypes,
	"camp_weeks":       ColWeeks,
	"week":             ColWeeks,
	"sessions":         ColWeeks,
	"activity_tags":    ColActivityTerms,
	"camp_activities":  ColActivityTerms,
	"activity_list":    ColActivityTerms,
	"activities_terms": ColActivityTerms,
}

// headerKey normalizes a header cell: cleaned, lowercased, and every run of
// other characters collapsed to "_". "Camp Name", "camp-name" and
// " CAMP_NAME " all become "camp_name".
func headerKey(s string) string {
	s = strings.ToLower(CleanCell(s))
	var b strings.Builder
	pending := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

// canonical returns the canonical column for a header cell, or "" when the
// header is not recognized.
func canonical(header string) string {
	k := headerKey(header)
	if c, ok := aliases[k]; ok {
		return c
	}
	for _, c := range Columns {
		if c == k {
			return c
		}
	}
	return ""
}

// CleanCell removes common spreadsheet artifacts from a cell: surrounding
// whitespace, an Excel ="..." formula wrapper and stray surrounding quotes.
// Invalid UTF-8 is replaced rather than rejected.
func CleanCell(s string) string {
	s = strings.ToValidUTF8(strings.TrimSpace(s), "\uFFFD")
	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}
	return strings.TrimSpace(strings.Trim(s, `"`))
}

// setField stores value in the RawRow field for column col.
func setField(r *domain.RawRow, col, value string) {
	switch col {
	case ColUniqueKey:
		r.UniqueKey = value
	case ColCampName:
		r.CampName = value
	case ColDirectorName:
		r.DirectorName = value
	case ColEmail:
		r.Email = value
	case ColPhone:
		r.Phone = value
	case ColWebsite:
		r.Website = value
	case ColAddress:
		r.Address = value
	case ColCity:
		r.City = value
	case ColState:
		r.State = value
	case ColZip:
		r.Zip = value
	case ColOpenDate:
		r.OpenDate = value
	case ColCloseDate:
		r.CloseDate = value
	case ColMinPrice:
		r.MinPrice = value
	case ColMaxPrice:
		r.MaxPrice = value
	case ColActivities:
		r.Activities = value
	case ColDescription:
		r.Description = value
	case ColPhotos:
		r.Photos = value
	case ColLogoURL:
		r.LogoURL = value
	case ColApproved:
		r.Approved = value
	case ColTypes:
		r.Types = value
	case ColWeeks:
		r.Weeks = value
	case ColActivityTerms:
		r.ActivityTerms = value
	}
}
