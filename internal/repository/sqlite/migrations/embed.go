// Package migrations holds the SQL schema migrations embedded into the
// binary and the runner that applies them.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
