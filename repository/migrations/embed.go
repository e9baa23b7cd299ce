package migrations

import "embed"

// FS contains the embedded schema files, applied in name order at startup.
//
//go:embed *.sql
var FS embed.FS
