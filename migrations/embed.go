// Package migrations embeds the schema migrations so campctl and the
// integration tests can apply them through goose without a checkout on disk.
package migrations

import "embed"

// FS holds the goose migration files, applied in filename order.
//
//go:embed *.sql
var FS embed.FS
