// Package songs provides the local persistence layer for song records.
//
// # Overview
//
// Repository describes the CRUD and index queries the local store needs;
// SQLiteRepository implements it over a dbx.DBTX, so the same code runs on a
// *sql.DB or inside a *sql.Tx.
//
// # Data Model
//
// Songs are keyed by id and indexed by title and language. Writes are
// wholesale upserts: the last write for an id wins, no field-level merge.
//
// # Reads
//
// Reads never treat absence as an error: GetAll returns an empty slice,
// GetByID returns (nil, nil) and Count returns 0 on an empty table.
//
// Typical Usage
//
//	repo := songs.NewSQLiteRepository(db)
//	_ = repo.Upsert(ctx, song)
//	all, _ := repo.GetAll(ctx)
//	one, _ := repo.GetByID(ctx, id)
//	n, _ := repo.Count(ctx)
package songs
