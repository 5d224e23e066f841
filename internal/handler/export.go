package handler

import (
	"bytes"
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/camp-directory/internal/csvimport"
)

// GetExport handles GET /export.
// It returns every camp in the import column layout, including unapproved
// ones. Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	var format string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		requestError(w, err.Error())
		return
	}
	if format != "" && format != "csv" && format != "json" {
		requestError(w, `format must be "csv" or "json"`)
		return
	}

	rows, err := s.exports.Export(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	if format == "csv" {
		// Buffer the whole file so an encoding failure can still become a 500.
		var buf bytes.Buffer
		if err := csvimport.WriteCamps(&buf, rows); err != nil {
			s.serverError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="camps.csv"`)
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
		return
	}

	out := make([]ExportRow, 0, len(rows))
	for _, d := range rows {
		out = append(out, detailToExportRow(d))
	}
	writeJSON(w, http.StatusOK, out)
}
