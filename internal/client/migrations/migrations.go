// Package migrations embeds the goose migrations of the local store.
//
// Schema evolution is additive only: every step creates tables and indexes
// guarded by IF NOT EXISTS and no step drops or rewrites existing data, so
// re-running any step against a database that already has it is a no-op.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
