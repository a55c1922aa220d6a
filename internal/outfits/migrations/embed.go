package migrations

import "embed"

// FS contains embedded SQLite migrations for outfit storage.
//
//go:embed *.sql
var FS embed.FS
