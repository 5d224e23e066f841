package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/camp-directory/internal/domain"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{"250", ptr(250.0)},
		{" $1,250.00 ", ptr(1250.0)},
		{"€ 300", ptr(300.0)},
		{"USD 40", ptr(40.0)},
		{"(12.50)", ptr(-12.5)},
		{".5", ptr(0.5)},
		{"", nil},
		{"free", nil},
		{"12.5.3", nil},
		{"1e3", nil},
		{"$99,999,999.99", ptr(99_999_999.99)},
		{"$125,000,000", nil},
		{"(125000000)", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := domain.ParsePrice(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-07-04", "2025-07-04"},
		{"2025/07/04", "2025-07-04"},
		{"7/4/2025", "2025-07-04"},
		{"07/04/2025", "2025-07-04"},
		{"July 4, 2025", "2025-07-04"},
		{"20250704", "2025-07-04"},
		{"2025-07-04T23:30:00-05:00", "2025-07-04"},
		{"7/4/25", "2025-07-04"},
		{"7/4/99", "1999-07-04"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := domain.ParseDate(tt.in)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
			assert.Equal(t, time.UTC, got.Location())
			assert.Zero(t, got.Hour())
		})
	}

	for _, bad := range []string{"", "  ", "someday", "2025-13-01", "31/31/2025"} {
		assert.Nil(t, domain.ParseDate(bad), bad)
	}
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "TRUE", "t", "Yes", "y", "1", " yes "} {
		got := domain.ParseBool(s)
		require.NotNil(t, got, s)
		assert.True(t, *got, s)
	}
	for _, s := range []string{"false", "F", "no", "N", "0"} {
		got := domain.ParseBool(s)
		require.NotNil(t, got, s)
		assert.False(t, *got, s)
	}
	for _, s := range []string{"", "maybe", "2"} {
		assert.Nil(t, domain.ParseBool(s), s)
	}
}

func TestSplitTerms(t *testing.T) {
	got := domain.SplitTerms(" Day, day ;Sports|/ Arts &  Crafts\nARTS-CRAFTS ")
	assert.Equal(t, []string{"Day", "Sports", "Arts & Crafts"}, got)

	assert.Empty(t, domain.SplitTerms(""))
	assert.Empty(t, domain.SplitTerms(" , ; | "))
}

func TestSplitList(t *testing.T) {
	got := domain.SplitList("https://a/1.jpg, https://a/2.jpg;https://a/2.jpg\n")
	assert.Equal(t, []string{"https://a/1.jpg", "https://a/2.jpg", "https://a/2.jpg"}, got)
	assert.Empty(t, domain.SplitList(""))
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Arts & Crafts":       "arts-crafts",
		"arts-crafts":         "arts-crafts",
		" ARTS/CRAFTS ":       "arts-crafts",
		"Équitation":          "equitation",
		"Week 1 (June 9-13)":  "week-1-june-9-13",
		"---":                 "",
		"Rock   Climbing 101": "rock-climbing-101",
	}
	for in, want := range tests {
		assert.Equal(t, want, domain.Slugify(in), in)
	}
}

func ptr[T any](v T) *T { return &v }
