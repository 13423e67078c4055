package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/songbook/internal/dbx"
	"github.com/dmitrijs2005/songbook/internal/server/cache/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens the database at dsn and brings its schema up to date.
func OpenSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// a single connection keeps ":memory:" databases coherent
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.Migrations)
	if err != nil {
		return err
	}
	_, err = provider.Up(ctx)
	return err
}

func (s *SQLite) Open(ctx context.Context, generation string) error {
	if err := validGeneration(generation); err != nil {
		return err
	}
	return openGeneration(ctx, s.db, generation)
}

func openGeneration(ctx context.Context, db dbx.DBTX, generation string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO cache_generations (name, created_at) VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING
	`, generation, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to open generation %s: %w", generation, err)
	}
	return nil
}

func (s *SQLite) Generations(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM cache_generations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLite) Delete(ctx context.Context, generation string) (bool, error) {
	var existed bool

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM cache_entries WHERE generation = ?`, generation); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM cache_generations WHERE name = ?`, generation)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		existed = n > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete generation %s: %w", generation, err)
	}
	return existed, nil
}

func (s *SQLite) Put(ctx context.Context, generation string, e Entry) error {
	if err := validGeneration(generation); err != nil {
		return err
	}

	header, err := json.Marshal(e.Header)
	if err != nil {
		return err
	}
	body := e.Body
	if body == nil {
		body = []byte{}
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := openGeneration(ctx, tx, generation); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cache_entries (generation, key, method, url, status, header, body, digest, stored_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(generation, key) DO UPDATE SET
				status = excluded.status,
				header = excluded.header,
				body = excluded.body,
				digest = excluded.digest,
				stored_at = excluded.stored_at
		`, generation, Key(e.Method, e.URL), e.Method, e.URL, e.Status, string(header), body, e.Digest, e.StoredAt.UnixMilli())
		if err != nil {
			return fmt.Errorf("failed to put %s %s: %w", e.Method, e.URL, err)
		}
		return nil
	})
}

func (s *SQLite) Match(ctx context.Context, generation, method, url string) (*Entry, error) {
	var (
		e        Entry
		header   string
		storedAt int64
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT method, url, status, header, body, digest, stored_at
		FROM cache_entries WHERE generation = ? AND key = ?
	`, generation, Key(method, url)).Scan(&e.Method, &e.URL, &e.Status, &header, &e.Body, &e.Digest, &storedAt)
	if dbx.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	e.Header = http.Header{}
	if err := json.Unmarshal([]byte(header), &e.Header); err != nil {
		return nil, fmt.Errorf("malformed header for %s %s: %w", method, url, err)
	}
	e.StoredAt = time.UnixMilli(storedAt).UTC()
	return &e, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
