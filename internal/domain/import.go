package domain

import "strings"

// ImportMode decides what happens to a row whose unique key already exists.
type ImportMode string

const (
	// ImportSkip leaves existing camps untouched.
	ImportSkip ImportMode = "skip"
	// ImportUpdate overwrites the mutable fields of existing camps.
	ImportUpdate ImportMode = "update"
)

// ParseImportMode returns the mode named by s. Empty input means ImportSkip.
func ParseImportMode(s string) (ImportMode, bool) {
	switch ImportMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ImportSkip:
		return ImportSkip, true
	case ImportUpdate:
		return ImportUpdate, true
	}
	return "", false
}

// ImportOptions controls one import run.
type ImportOptions struct {
	Mode ImportMode
	// DryRun computes every decision without writing anything.
	DryRun bool
	// CreateAccounts provisions an owner account for each newly inserted camp
	// that names a director.
	CreateAccounts bool
}

// RawRow is one decoded import row. Row is the 1-based data row number
// (the header row is not counted); every other field is the trimmed cell text.
type RawRow struct {
	Row int

	UniqueKey    string
	CampName     string
	DirectorName string
	Email        string
	Phone        string
	Website      string
	Address      string
	City         string
	State        string
	Zip          string
	OpenDate     string
	CloseDate    string
	MinPrice     string
	MaxPrice     string
	Activities   string
	Description  string
	Photos       string
	LogoURL      string
	Approved     string

	// Term lists, delimited by any of , ; | /
	Types         string
	Weeks         string
	ActivityTerms string
}

// TermNames returns the delimited term list for vocabulary v.
func (r RawRow) TermNames(v Vocabulary) []string {
	switch v {
	case VocabType:
		return SplitTerms(r.Types)
	case VocabWeek:
		return SplitTerms(r.Weeks)
	case VocabActivity:
		return SplitTerms(r.ActivityTerms)
	}
	return nil
}

// RowOutcome is the terminal state of one import row.
type RowOutcome string

const (
	OutcomeInserted        RowOutcome = "inserted"
	OutcomeUpdated         RowOutcome = "updated"
	OutcomeSkipped         RowOutcome = "skipped"
	OutcomeValidationError RowOutcome = "validation_error"
	OutcomeStoreError      RowOutcome = "store_error"
)

// RowResult reports what happened to one import row.
// It is emitted as soon as the row is finished so callers can stream progress.
type RowResult struct {
	Row            int        `json:"row"`
	Outcome        RowOutcome `json:"outcome"`
	CampID         int64      `json:"camp_id,omitempty"`
	UniqueKey      string     `json:"unique_key,omitempty"`
	Message        string     `json:"message,omitempty"`
	TermsLinked    int        `json:"terms_linked,omitempty"`
	AccountCreated bool       `json:"account_created,omitempty"`
}

// Credential is a generated login for a newly provisioned camp owner.
// It is handed to the caller once and never persisted in clear text.
type Credential struct {
	CampName string `json:"camp_name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ImportSummary aggregates an import run.
type ImportSummary struct {
	Inserted        int  `json:"inserted"`
	Updated         int  `json:"updated"`
	Skipped         int  `json:"skipped"`
	Errors          int  `json:"errors"`
	AccountsCreated int  `json:"accounts_created"`
	TermsCreated    int  `json:"terms_created"`
	DryRun          bool `json:"dry_run"`
	// Messages holds one human-readable line per problem, in row order,
	// each prefixed with "row N:".
	Messages    []string     `json:"messages"`
	Credentials []Credential `json:"credentials,omitempty"`
}

// Processed returns the number of rows that reached a terminal state.
func (s ImportSummary) Processed() int {
	return s.Inserted + s.Updated + s.Skipped + s.Errors
}
