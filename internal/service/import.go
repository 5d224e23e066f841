package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/pkordes/camp-directory/internal/domain"
	"github.com/pkordes/camp-directory/internal/repo"
)

// RowReader yields decoded import rows one at a time.
// Read returns io.EOF once every row has been returned.
type RowReader interface {
	Read() (domain.RawRow, error)
}

// SliceReader is a RowReader over rows already held in memory.
type SliceReader struct {
	rows []domain.RawRow
}

// NewSliceReader returns a RowReader that yields rows in order.
func NewSliceReader(rows ...domain.RawRow) *SliceReader {
	return &SliceReader{rows: rows}
}

func (r *SliceReader) Read() (domain.RawRow, error) {
	if len(r.rows) == 0 {
		return domain.RawRow{}, io.EOF
	}
	row := r.rows[0]
	r.rows = r.rows[1:]
	return row, nil
}

// ImportService reconciles batches of import rows against the camp store.
type ImportService struct {
	camps       repo.CampRepo
	terms       repo.TermRepo
	provisioner *Provisioner
	log         *slog.Logger
}

// NewImportService constructs an ImportService.
func NewImportService(camps repo.CampRepo, terms repo.TermRepo, provisioner *Provisioner, log *slog.Logger) *ImportService {
	return &ImportService{camps: camps, terms: terms, provisioner: provisioner, log: log}
}

// importRun is the state carried between rows of one Reconcile call.
type importRun struct {
	opts    domain.ImportOptions
	summary domain.ImportSummary
	// keys holds every unique key inserted (or, in a dry run, that would have
	// been inserted) so far, so repeated keys within one file are duplicates.
	keys map[string]bool
	// usernames claimed so far in this run.
	usernames map[string]bool
	// newTerms tracks terms a dry run would have created, by vocabulary and slug.
	newTerms map[string]bool
}

// rowOutcome is the result of one row plus the problems worth reporting.
type rowOutcome struct {
	result domain.RowResult
	diags  []string
}

func (o *rowOutcome) diag(format string, args ...any) {
	o.diags = append(o.diags, fmt.Sprintf("row %d: ", o.result.Row)+fmt.Sprintf(format, args...))
}

// Reconcile reads every row from rows and applies it to the store according
// to opts. Rows are processed strictly in order; onRow, when non-nil, is
// called once per row as soon as the row is finished.
//
// Problems with a single row are reported in the summary and never stop the
// batch. Reconcile returns an error, along with the summary so far, only when
// the input cannot be read, the store is unavailable, or ctx is done.
func (s *ImportService) Reconcile(ctx context.Context, rows RowReader, opts domain.ImportOptions, onRow func(domain.RowResult)) (domain.ImportSummary, error) {
	ctx, span := tracer.Start(ctx, "ImportService.Reconcile")
	defer span.End()

	if opts.Mode == "" {
		opts.Mode = domain.ImportSkip
	}
	run := &importRun{
		opts:      opts,
		summary:   domain.ImportSummary{DryRun: opts.DryRun, Messages: []string{}},
		keys:      map[string]bool{},
		usernames: map[string]bool{},
		newTerms:  map[string]bool{},
	}

	fail := func(err error) (domain.ImportSummary, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "import aborted")
		s.log.ErrorContext(ctx, "import aborted",
			"processed", run.summary.Processed(),
			"error", err,
		)
		return run.summary, fmt.Errorf("service.ImportService.Reconcile: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		raw, err := rows.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fail(fmt.Errorf("read: %w", err))
		}

		out, err := s.reconcileRow(ctx, run, raw)
		if err != nil {
			return fail(err)
		}
		run.record(&out)
		if onRow != nil {
			onRow(out.result)
		}
	}

	sum := run.summary
	span.SetAttributes(
		attribute.Int("import.inserted", sum.Inserted),
		attribute.Int("import.updated", sum.Updated),
		attribute.Int("import.skipped", sum.Skipped),
		attribute.Int("import.errors", sum.Errors),
		attribute.Bool("import.dry_run", sum.DryRun),
	)
	s.log.InfoContext(ctx, "import finished",
		"mode", string(opts.Mode),
		"dry_run", sum.DryRun,
		"inserted", sum.Inserted,
		"updated", sum.Updated,
		"skipped", sum.Skipped,
		"errors", sum.Errors,
		"accounts_created", sum.AccountsCreated,
		"terms_created", sum.TermsCreated,
	)
	return sum, nil
}

// record folds one finished row into the running summary.
func (r *importRun) record(out *rowOutcome) {
	switch out.result.Outcome {
	case domain.OutcomeInserted:
		r.summary.Inserted++
	case domain.OutcomeUpdated:
		r.summary.Updated++
	case domain.OutcomeSkipped:
		r.summary.Skipped++
	case domain.OutcomeValidationError, domain.OutcomeStoreError:
		r.summary.Errors++
	}
	if out.result.AccountCreated {
		r.summary.AccountsCreated++
	}
	r.summary.Messages = append(r.summary.Messages, out.diags...)
	if len(out.diags) > 0 && out.result.Message == "" {
		out.result.Message = strings.Join(out.diags, "; ")
	}
}

// fatal reports whether err must stop the whole batch.
func fatal(err error) bool {
	return errors.Is(err, domain.ErrStoreUnavailable) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// reconcileRow takes one row through validate, identify, write, link and
// provision. Only fatal errors are returned; everything else lands in the
// outcome.
func (s *ImportService) reconcileRow(ctx context.Context, run *importRun, raw domain.RawRow) (rowOutcome, error) {
	out := rowOutcome{result: domain.RowResult{Row: raw.Row, UniqueKey: strings.TrimSpace(raw.UniqueKey)}}

	if err := validateRow(raw); err != nil {
		out.result.Outcome = domain.OutcomeValidationError
		out.diag("%s", err)
		out.result.Message = out.diags[0]
		return out, nil
	}

	key := out.result.UniqueKey
	if key == "" {
		key = "camp-" + uuid.NewString()
		out.result.UniqueKey = key
	}

	existing, found, err := s.lookup(ctx, run, key)
	if err != nil {
		if fatal(err) {
			return out, err
		}
		out.result.Outcome = domain.OutcomeStoreError
		out.diag("lookup %q: %v", key, err)
		out.result.Message = out.diags[0]
		return out, nil
	}

	incoming := campFromRow(raw, key)

	var campID int64
	switch {
	case found && run.opts.Mode == domain.ImportSkip:
		out.result.Outcome = domain.OutcomeSkipped
		out.result.CampID = existing.ID
		out.result.Message = fmt.Sprintf("row %d: unique key %q already exists", raw.Row, key)
		return out, nil

	case found:
		merged := mergeCamp(existing, incoming, raw)
		if !run.opts.DryRun && existing.ID != 0 {
			if _, err := s.camps.Update(ctx, merged); err != nil {
				if fatal(err) {
					return out, err
				}
				out.result.Outcome = domain.OutcomeStoreError
				out.diag("update %q: %v", key, err)
				out.result.Message = out.diags[0]
				return out, nil
			}
		}
		campID = existing.ID
		out.result.Outcome = domain.OutcomeUpdated

	default:
		if !run.opts.DryRun {
			created, err := s.camps.Create(ctx, incoming)
			if err != nil {
				if fatal(err) {
					return out, err
				}
				if errors.Is(err, domain.ErrDuplicateKey) {
					// Another importer inserted the key after our lookup.
					out.result.Outcome = domain.OutcomeSkipped
					out.diag("unique key %q was inserted concurrently; row skipped", key)
					return out, nil
				}
				out.result.Outcome = domain.OutcomeStoreError
				out.diag("insert %q: %v", key, err)
				out.result.Message = out.diags[0]
				return out, nil
			}
			campID = created.ID
		}
		run.keys[key] = true
		out.result.Outcome = domain.OutcomeInserted
	}
	out.result.CampID = campID

	if err := s.linkTerms(ctx, run, &out, campID, raw); err != nil {
		return out, err
	}

	if out.result.Outcome == domain.OutcomeInserted && run.opts.CreateAccounts && strings.TrimSpace(raw.DirectorName) != "" {
		if err := s.provision(ctx, run, &out, campID, raw); err != nil {
			return out, err
		}
	}
	return out, nil
}

// lookup resolves key against the store and, for keys this run has already
// handled, against the run itself.
func (s *ImportService) lookup(ctx context.Context, run *importRun, key string) (domain.Camp, bool, error) {
	existing, err := s.camps.GetByUniqueKey(ctx, key)
	switch {
	case err == nil:
		return existing, true, nil
	case errors.Is(err, domain.ErrNotFound):
		// A dry run never writes, so earlier rows with the same key are only
		// known to the run.
		return domain.Camp{UniqueKey: key}, run.keys[key], nil
	default:
		return domain.Camp{}, false, err
	}
}

// linkTerms resolves every term named by raw and links it to the camp.
// Term problems are diagnostics; the camp is kept either way.
func (s *ImportService) linkTerms(ctx context.Context, run *importRun, out *rowOutcome, campID int64, raw domain.RawRow) error {
	for _, v := range domain.Vocabularies {
		for _, name := range raw.TermNames(v) {
			slug := domain.Slugify(name)
			if slug == "" {
				continue
			}

			term, err := s.terms.FindByNameOrSlug(ctx, v, name, slug)
			switch {
			case err == nil:
			case errors.Is(err, domain.ErrNotFound):
				if run.opts.DryRun {
					if k := string(v) + "/" + slug; !run.newTerms[k] {
						run.newTerms[k] = true
						run.summary.TermsCreated++
					}
					out.result.TermsLinked++
					continue
				}
				var created bool
				term, created, err = s.terms.Upsert(ctx, v, name, slug)
				if err != nil {
					if fatal(err) {
						return err
					}
					out.diag("%s %q not created: %v", v, name, err)
					continue
				}
				if created {
					run.summary.TermsCreated++
				}
			default:
				if fatal(err) {
					return err
				}
				out.diag("%s %q not resolved: %v", v, name, err)
				continue
			}

			if run.opts.DryRun {
				out.result.TermsLinked++
				continue
			}
			linked, err := s.terms.Link(ctx, v, campID, term.ID)
			if err != nil {
				if fatal(err) {
					return err
				}
				out.diag("%s %q not linked: %v", v, name, err)
				continue
			}
			if linked {
				out.result.TermsLinked++
			}
		}
	}
	return nil
}

// provision creates the owner account for a freshly inserted camp.
// A dry run only reserves the username it would have used.
func (s *ImportService) provision(ctx context.Context, run *importRun, out *rowOutcome, campID int64, raw domain.RawRow) error {
	if run.opts.DryRun {
		if _, err := s.provisioner.Plan(ctx, raw.CampName, run.usernames); err != nil {
			if fatal(err) {
				return err
			}
			out.diag("account not created: %v", err)
			return nil
		}
		out.result.AccountCreated = true
		return nil
	}

	cred, err := s.provisioner.Provision(ctx, campID, raw, run.usernames)
	if cred.Username != "" {
		out.result.AccountCreated = true
		run.summary.Credentials = append(run.summary.Credentials, cred)
	}
	if err != nil {
		if fatal(err) {
			return err
		}
		if out.result.AccountCreated {
			out.diag("account %s created but setup incomplete: %v", cred.Username, err)
			return nil
		}
		out.diag("account not created: %v", err)
	}
	return nil
}

// validateRow checks the fields every row must carry.
func validateRow(raw domain.RawRow) error {
	if strings.TrimSpace(raw.CampName) == "" {
		return fmt.Errorf("camp name is required: %w", domain.ErrValidation)
	}
	email := strings.TrimSpace(raw.Email)
	if email == "" {
		return fmt.Errorf("email is required: %w", domain.ErrValidation)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return fmt.Errorf("invalid email %q: %w", email, domain.ErrValidation)
	}
	if strings.TrimSpace(raw.DirectorName) == "" {
		return fmt.Errorf("director name is required: %w", domain.ErrValidation)
	}
	return nil
}

// campFromRow builds the camp a row describes. Unparseable prices and dates
// become NULL; a blank approval flag means approved.
func campFromRow(raw domain.RawRow, key string) domain.Camp {
	c := domain.Camp{
		UniqueKey:    key,
		Name:         strings.TrimSpace(raw.CampName),
		OpenDate:     domain.ParseDate(raw.OpenDate),
		CloseDate:    domain.ParseDate(raw.CloseDate),
		MinPrice:     domain.ParsePrice(raw.MinPrice),
		MaxPrice:     domain.ParsePrice(raw.MaxPrice),
		Activities:   strings.TrimSpace(raw.Activities),
		DirectorName: strings.TrimSpace(raw.DirectorName),
		Email:        strings.TrimSpace(raw.Email),
		Phone:        strings.TrimSpace(raw.Phone),
		Website:      strings.TrimSpace(raw.Website),
		Address:      strings.TrimSpace(raw.Address),
		City:         strings.TrimSpace(raw.City),
		State:        strings.ToUpper(strings.TrimSpace(raw.State)),
		Zip:          strings.TrimSpace(raw.Zip),
		Description:  strings.TrimSpace(raw.Description),
		Photos:       domain.SplitList(raw.Photos),
		LogoURL:      strings.TrimSpace(raw.LogoURL),
		Approved:     true,
	}
	if c.MinPrice != nil && c.MaxPrice != nil && *c.MinPrice > *c.MaxPrice {
		c.MinPrice, c.MaxPrice = c.MaxPrice, c.MinPrice
	}
	if b := domain.ParseBool(raw.Approved); b != nil {
		c.Approved = *b
	}
	return c
}

// mergeCamp overwrites the mutable fields of existing with incoming.
// Identity, ownership, curation and timestamps stay with existing, and a row
// that leaves the approval flag blank keeps the stored flag.
func mergeCamp(existing, incoming domain.Camp, raw domain.RawRow) domain.Camp {
	merged := incoming
	merged.ID = existing.ID
	merged.UniqueKey = existing.UniqueKey
	merged.Rating = existing.Rating
	merged.OwnerAccountID = existing.OwnerAccountID
	merged.Featured = existing.Featured
	merged.CreatedAt = existing.CreatedAt
	merged.UpdatedAt = existing.UpdatedAt
	if domain.ParseBool(raw.Approved) == nil && existing.ID != 0 {
		merged.Approved = existing.Approved
	}
	return merged
}
