package handler

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/pkordes/camp-directory/internal/csvimport"
	"github.com/pkordes/camp-directory/internal/domain"
	"github.com/pkordes/camp-directory/internal/logging"
)

// multipartMemory is how much of an upload ParseMultipartForm keeps in
// memory before spilling to a temporary file.
const multipartMemory = 8 << 20

// ndjsonType is the media type of the streamed import response.
const ndjsonType = "application/x-ndjson"

// ImportEnd is the last line of a streamed import. Error is set when the
// batch was aborted; Summary then covers the rows finished before that.
type ImportEnd struct {
	Summary domain.ImportSummary `json:"summary"`
	Error   *ErrorDetail         `json:"error,omitempty"`
}

// CreateImport handles POST /imports.
//
// The request is multipart/form-data with a CSV "file" part and optional
// "mode" (skip|update), "dry_run" and "create_accounts" fields. The response
// is the import summary, or with Accept: application/x-ndjson one row result
// per line followed by an ImportEnd line. An aborted batch answers with an
// error status and an ImportEnd body carrying the partial summary.
func (s *Server) CreateImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			tooLarge(w)
			return
		}
		requestError(w, "expected a multipart/form-data body")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	opts, err := importOptions(r)
	if err != nil {
		requestError(w, err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		requestError(w, "file is required")
		return
	}
	defer file.Close()

	rows, err := csvimport.NewReader(file)
	if err != nil {
		requestError(w, err.Error())
		return
	}

	if wantsNDJSON(r) {
		s.streamImport(w, r, rows, opts)
		return
	}

	summary, err := s.imports.Reconcile(r.Context(), rows, opts, nil)
	if err != nil {
		s.importAborted(w, r, summary, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// importAborted reports a batch that stopped early. The body is an ImportEnd
// so rows already committed, and credentials already generated, still reach
// the caller.
func (s *Server) importAborted(w http.ResponseWriter, r *http.Request, summary domain.ImportSummary, err error) {
	log := logging.FromContext(r.Context(), s.log)
	if errors.Is(err, context.Canceled) {
		log.WarnContext(r.Context(), "import cancelled", "processed", summary.Processed())
		return
	}

	status := http.StatusInternalServerError
	detail := ErrorDetail{Code: "import_aborted", Message: "import aborted"}
	switch {
	case isInputError(err):
		status = http.StatusUnprocessableEntity
		detail = ErrorDetail{Code: "validation_error", Message: unwrapMessage(err)}
	case errors.Is(err, domain.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
		detail = ErrorDetail{Code: "unavailable", Message: "service temporarily unavailable"}
	}
	log.ErrorContext(r.Context(), "import aborted",
		"processed", summary.Processed(),
		"error", err,
	)
	writeJSON(w, status, ImportEnd{Summary: summary, Error: &detail})
}

// streamImport writes each row result as soon as it is finished.
// The status is committed before the first row, so an aborted batch is
// reported in the final line rather than by status code.
func (s *Server) streamImport(w http.ResponseWriter, r *http.Request, rows *csvimport.Reader, opts domain.ImportOptions) {
	w.Header().Set("Content-Type", ndjsonType)
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	enc := json.NewEncoder(w)
	emit := func(v any) {
		_ = enc.Encode(v)
		_ = rc.Flush()
	}

	summary, err := s.imports.Reconcile(r.Context(), rows, opts, func(res domain.RowResult) {
		emit(res)
	})

	end := ImportEnd{Summary: summary}
	if err != nil {
		logging.FromContext(r.Context(), s.log).ErrorContext(r.Context(), "streamed import aborted", "error", err)
		code := "import_aborted"
		if isInputError(err) {
			code = "validation_error"
		}
		end.Error = &ErrorDetail{Code: code, Message: unwrapMessage(err)}
	}
	emit(end)
}

// importOptions reads the form fields that control an import run.
func importOptions(r *http.Request) (domain.ImportOptions, error) {
	mode, ok := domain.ParseImportMode(r.PostFormValue("mode"))
	if !ok {
		return domain.ImportOptions{}, errors.New(`mode must be "skip" or "update"`)
	}
	dryRun, err := formBool(r, "dry_run", false)
	if err != nil {
		return domain.ImportOptions{}, err
	}
	accounts, err := formBool(r, "create_accounts", true)
	if err != nil {
		return domain.ImportOptions{}, err
	}
	return domain.ImportOptions{Mode: mode, DryRun: dryRun, CreateAccounts: accounts}, nil
}

func formBool(r *http.Request, field string, fallback bool) (bool, error) {
	v := strings.TrimSpace(r.PostFormValue(field))
	if v == "" {
		return fallback, nil
	}
	b := domain.ParseBool(v)
	if b == nil {
		return false, errors.New(field + " must be a boolean")
	}
	return *b, nil
}

// wantsNDJSON reports whether the client asked for a streamed response.
func wantsNDJSON(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && mt == ndjsonType {
			return true
		}
	}
	return false
}

// isInputError reports whether an aborted import failed on malformed CSV.
func isInputError(err error) bool {
	var parseErr *csv.ParseError
	return errors.As(err, &parseErr)
}
