// Package migrations bundles the SQL schema migrations of the local console database.
package migrations

import "embed"

// FS holds the migration files.
//
//go:embed *.sql
var FS embed.FS
