package migrations

import "embed"

// FS contains embedded SQLite migrations for atlas storage.
//
//go:embed *.sql
var FS embed.FS
