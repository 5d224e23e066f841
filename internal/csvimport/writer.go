package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/camp-directory/internal/domain"
)

// termSeparator joins term names within one CSV cell.
const termSeparator = "|"

// WriteCamps writes camps as CSV in the import column layout.
func WriteCamps(w io.Writer, rows []domain.CampDetail) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("csvimport.WriteCamps: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(campRecord(r)); err != nil {
			return fmt.Errorf("csvimport.WriteCamps: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csvimport.WriteCamps: %w", err)
	}
	return nil
}

// campRecord encodes one camp in Columns order.
func campRecord(r domain.CampDetail) []string {
	c := r.Camp
	return []string{
		c.UniqueKey,
		c.Name,
		c.DirectorName,
		c.Email,
		c.Phone,
		c.Website,
		c.Address,
		c.City,
		c.State,
		c.Zip,
		formatDate(c.OpenDate),
		formatDate(c.CloseDate),
		formatPrice(c.MinPrice),
		formatPrice(c.MaxPrice),
		c.Activities,
		c.Description,
		strings.Join(c.Photos, ","),
		c.LogoURL,
		strconv.FormatBool(c.Approved),
		strings.Join(r.Types, termSeparator),
		strings.Join(r.Weeks, termSeparator),
		strings.Join(r.Activities, termSeparator),
	}
}

// WriteCredentials writes generated logins as CSV. The output holds clear
// text passwords; callers must restrict who can read it.
func WriteCredentials(w io.Writer, creds []domain.Credential) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"camp_name", "username", "email", "password"}); err != nil {
		return fmt.Errorf("csvimport.WriteCredentials: %w", err)
	}
	for _, c := range creds {
		if err := cw.Write([]string{c.CampName, c.Username, c.Email, c.Password}); err != nil {
			return fmt.Errorf("csvimport.WriteCredentials: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csvimport.WriteCredentials: %w", err)
	}
	return nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}

func formatPrice(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
