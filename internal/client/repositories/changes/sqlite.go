package changes

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/songbook/internal/client/models"
	"github.com/dmitrijs2005/songbook/internal/dbx"
)

const changeColumns = `id, type, user_id, song_id, is_favorite, payload, synced, timestamp`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Add(ctx context.Context, c models.Change) (int64, error) {
	var payload []byte
	if c.Song != nil {
		b, err := json.Marshal(c.Song)
		if err != nil {
			return 0, fmt.Errorf("failed to encode change payload: %w", err)
		}
		payload = b
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO pending_changes (type, user_id, song_id, is_favorite, payload, synced, timestamp)
		VALUES (?, ?, ?, ?, ?, 0, ?)
	`, string(c.Type), c.UserID, c.SongID, dbx.BoolToInt(c.IsFavorite), payload, c.Timestamp.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to enqueue %s change: %w", c.Type, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get change id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Change, error) {
	return r.query(ctx, `SELECT `+changeColumns+` FROM pending_changes ORDER BY id`)
}

func (r *SQLiteRepository) ListByType(ctx context.Context, typ models.ChangeType) ([]models.Change, error) {
	return r.query(ctx, `SELECT `+changeColumns+` FROM pending_changes WHERE type = ? ORDER BY id`, string(typ))
}

func (r *SQLiteRepository) ListUnsynced(ctx context.Context) ([]models.Change, error) {
	return r.query(ctx, `SELECT `+changeColumns+` FROM pending_changes WHERE synced = 0 ORDER BY id`)
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE pending_changes SET synced = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to mark change %d synced: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteSynced(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pending_changes WHERE synced = 1`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete synced changes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pending_changes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete change %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]models.Change, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select changes: %w", err)
	}
	defer rows.Close()

	result := make([]models.Change, 0)
	for rows.Next() {
		var (
			c       models.Change
			typ     string
			payload []byte
			ts      int64
		)
		if err := rows.Scan(&c.ID, &typ, &c.UserID, &c.SongID, &c.IsFavorite, &payload, &c.Synced, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan change row: %w", err)
		}
		c.Type = models.ChangeType(typ)
		c.Timestamp = time.UnixMilli(ts).UTC()
		if len(payload) > 0 {
			var s models.Song
			if err := json.Unmarshal(payload, &s); err != nil {
				return nil, fmt.Errorf("failed to decode payload of change %d: %w", c.ID, err)
			}
			c.Song = &s
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate change rows: %w", err)
	}
	return result, nil
}
