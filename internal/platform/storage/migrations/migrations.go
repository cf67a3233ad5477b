package migrations

import "embed"

// FS holds SQL migrations applied by goose.
//
//go:embed *.sql
var FS embed.FS
