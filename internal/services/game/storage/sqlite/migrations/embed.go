package migrations

import "embed"

// FS holds the game store schema.
//
//go:embed *.sql
var FS embed.FS
