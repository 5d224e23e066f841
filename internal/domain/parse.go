package domain

// parse.go holds the explicit parsers for the loosely formatted values that
// arrive in import files and query strings. Each returns nil for empty or
// unparseable input; none of them returns an error.

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// numericPattern matches a plain decimal number after cleanup.
var numericPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// TwoDigitYearPivot controls how two-digit years are read: a year that would
// land more than this many years in the future goes to the previous century.
var TwoDigitYearPivot = 20

var (
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"Jan 2, 2006", "January 2, 2006", "2 Jan 2006",
		"20060102",
		time.RFC3339,
	}
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
)

// MaxPrice is the largest absolute price the camps table can store
// (NUMERIC(10,2)).
const MaxPrice = 99_999_999.99

// ParsePrice parses a price such as "$1,250.00", "€ 300" or "(12.50)".
// Currency symbols, spaces and thousands separators are stripped first.
// Prices beyond MaxPrice are treated as unparseable.
func ParsePrice(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = strings.NewReplacer(
		"$", "",
		"\u20ac", "", // euro
		"\u00a3", "", // pound
		"\u00a0", "",
		",", "",
		" ", "",
	).Replace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "USD"), "USD")

	if !numericPattern.MatchString(s) {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f > MaxPrice {
		return nil
	}
	if negative {
		f = -f
	}
	return &f
}

// ParseDate parses a calendar date in one of the common spreadsheet layouts.
// The result is midnight UTC on that date.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := truncateDate(t)
			return &d
		}
	}

	pivot := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivot {
				t = t.AddDate(-100, 0, 0)
			}
			d := truncateDate(t)
			return &d
		}
	}
	return nil
}

// ParseBool accepts true/false, yes/no, y/n, t/f and 1/0 in any case.
func ParseBool(s string) *bool {
	var v bool
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1":
		v = true
	case "false", "f", "no", "n", "0":
		v = false
	default:
		return nil
	}
	return &v
}

// termDelimiters are the separators accepted between names in a term list.
const termDelimiters = ",;|/\n\r"

// SplitTerms splits a delimited list of term names. Names are trimmed, empty
// entries dropped, and names that share a slug keep only the first spelling.
func SplitTerms(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(termDelimiters, r)
	})
	var out []string
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		name := strings.Join(strings.Fields(f), " ")
		slug := Slugify(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		out = append(out, name)
	}
	return out
}

// SplitList splits a comma, semicolon, pipe or newline separated list of
// plain values (photo URLs) without slug de-duplication.
func SplitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(",;|\n\r", r)
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
