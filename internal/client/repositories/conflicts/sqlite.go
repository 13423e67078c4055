package conflicts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/songbook/internal/client/models"
	"github.com/dmitrijs2005/songbook/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, c models.Conflict) error {
	local, err := json.Marshal(c.Local)
	if err != nil {
		return fmt.Errorf("failed to encode local version of %s: %w", c.SongID, err)
	}
	server, err := json.Marshal(c.Server)
	if err != nil {
		return fmt.Errorf("failed to encode server version of %s: %w", c.SongID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO conflicts (song_id, local, server, resolved, timestamp) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(song_id) DO UPDATE SET local = excluded.local,
			server = excluded.server,
			resolved = excluded.resolved,
			timestamp = excluded.timestamp
	`, c.SongID, local, server, dbx.BoolToInt(c.Resolved), c.Timestamp.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save conflict %s: %w", c.SongID, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, songID string) (*models.Conflict, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT song_id, local, server, resolved, timestamp FROM conflicts WHERE song_id = ?`, songID)

	c, err := scanConflict(row)
	if dbx.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *SQLiteRepository) List(ctx context.Context, unresolvedOnly bool) ([]models.Conflict, error) {
	query := `SELECT song_id, local, server, resolved, timestamp FROM conflicts ORDER BY timestamp, song_id`
	if unresolvedOnly {
		query = `SELECT song_id, local, server, resolved, timestamp FROM conflicts WHERE resolved = 0 ORDER BY timestamp, song_id`
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select conflicts: %w", err)
	}
	defer rows.Close()

	result := make([]models.Conflict, 0)
	for rows.Next() {
		c, err := scanConflict(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conflict rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Resolve(ctx context.Context, songID string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE conflicts SET resolved = 1 WHERE song_id = ?`, songID); err != nil {
		return fmt.Errorf("failed to resolve conflict %s: %w", songID, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConflict(row scanner) (models.Conflict, error) {
	var (
		c             models.Conflict
		local, server []byte
		ts            int64
	)
	if err := row.Scan(&c.SongID, &local, &server, &c.Resolved, &ts); err != nil {
		return c, fmt.Errorf("failed to scan conflict row: %w", err)
	}
	if err := json.Unmarshal(local, &c.Local); err != nil {
		return c, fmt.Errorf("failed to decode local version of %s: %w", c.SongID, err)
	}
	if err := json.Unmarshal(server, &c.Server); err != nil {
		return c, fmt.Errorf("failed to decode server version of %s: %w", c.SongID, err)
	}
	c.Timestamp = time.UnixMilli(ts).UTC()
	return c, nil
}
