// Package store is the SongBook local store: a versioned SQLite database with
// collections for songs, sync metadata, favorites, the offline outbox and
// merge conflicts.
//
// # Lifecycle
//
// A Store is constructed explicitly with New and initialised lazily: every
// operation calls Init first, which opens the database and applies the
// embedded goose migrations. A failed Init returns an error wrapping
// common.ErrStoreUnavailable and is retried on the next call.
//
// # Schema
//
// Migrations are additive only. Each step creates tables and indexes guarded
// by IF NOT EXISTS; existing data is never dropped or rewritten.
//
// # Batches
//
// SaveSongs writes records one by one and stops at the first rejected record.
// Records written before the failure stay written: batches have no
// cross-record atomicity. ReplaceFavoritesForUser and MergeServerAndLocal run
// inside a single transaction.
//
// # Concurrency
//
// A Store is safe for concurrent use. Read-modify-write operations for the
// same user assume a single writer; concurrent calls for one user may lose
// updates.
package store
