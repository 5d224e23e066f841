package csvimport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pkordes/camp-directory/internal/domain"
)

// ErrNoHeader is returned by NewReader when the input has no usable header row.
var ErrNoHeader = errors.New("csvimport: missing header row")

// Reader streams RawRows from a delimited import file. Only the current
// record is held in memory.
type Reader struct {
	csv *csv.Reader
	// cols maps record positions to canonical columns; "" for ignored columns.
	cols []string
	// row counts data records read so far, blank ones included.
	row int
}

// NewReader reads the header row from r and returns a Reader positioned at
// the first data row. A leading UTF-8 byte order mark is skipped. The header
// must name a camp name column; unrecognized columns are ignored.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && string(bom) == "\xEF\xBB\xBF" {
		_, _ = br.Discard(3)
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("csvimport.NewReader: header: %w", err)
	}

	cols := make([]string, len(header))
	seen := map[string]bool{}
	for i, h := range header {
		c := canonical(h)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		cols[i] = c
	}
	if !seen[ColCampName] {
		return nil, fmt.Errorf("%w: no %s column in %q", ErrNoHeader, ColCampName, strings.Join(header, ","))
	}
	return &Reader{csv: cr, cols: cols}, nil
}

// Read returns the next non-blank row. Row numbers count data rows from 1,
// so the first row after the header is row 1. Read returns io.EOF after the
// last row.
func (r *Reader) Read() (domain.RawRow, error) {
	for {
		record, err := r.csv.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return domain.RawRow{}, io.EOF
			}
			return domain.RawRow{}, fmt.Errorf("csvimport.Reader.Read: row %d: %w", r.row+1, err)
		}
		r.row++
		if isBlank(record) {
			continue
		}

		raw := domain.RawRow{Row: r.row}
		for i, cell := range record {
			if i >= len(r.cols) || r.cols[i] == "" {
				continue
			}
			setField(&raw, r.cols[i], CleanCell(cell))
		}
		return raw, nil
	}
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
