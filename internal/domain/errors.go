package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, malformed email).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrDuplicateKey is returned by repo functions when an insert or update
// violates a unique constraint (camps.unique_key, accounts.username, ...).
// The store's constraints are the final authority on uniqueness; callers
// that pre-check may still see this when another writer wins the race.
var ErrDuplicateKey = errors.New("duplicate key")

// ErrProvisioning is returned when an owner account could not be created for
// an imported camp. The camp itself is kept.
var ErrProvisioning = errors.New("account provisioning failed")

// ErrStoreUnavailable is returned by repo functions when the database cannot
// be reached at all. Batch operations stop on this error instead of recording
// it against a single row.
var ErrStoreUnavailable = errors.New("store unavailable")
