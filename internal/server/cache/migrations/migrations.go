// Package migrations embeds the goose migrations of the SQLite cache backend.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
