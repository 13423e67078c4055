package favorites

import (
	"context"
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

func (r *SQLiteRepository) Set(ctx context.Context, f models.Favorite) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO favorites (user_id, song_id, is_favorite, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, song_id) DO UPDATE SET is_favorite = excluded.is_favorite,
			updated_at = excluded.updated_at
	`, f.UserID, f.SongID, dbx.BoolToInt(f.IsFavorite), f.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to set favorite %s: %w", f.Key(), err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, userID, songID string) (*models.Favorite, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT user_id, song_id, is_favorite, updated_at FROM favorites WHERE user_id = ? AND song_id = ?`,
		userID, songID)

	var (
		f       models.Favorite
		updated int64
	)
	err := row.Scan(&f.UserID, &f.SongID, &f.IsFavorite, &updated)
	if dbx.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get favorite %s::%s: %w", userID, songID, err)
	}
	f.UpdatedAt = time.UnixMilli(updated).UTC()
	return &f, nil
}

// SongIDs scans idx_favorites_user_state instead of filtering all of the
// user's rows.
func (r *SQLiteRepository) SongIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT song_id FROM favorites WHERE user_id = ? AND is_favorite = 1 ORDER BY song_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select favorites of %s: %w", userID, err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate favorite rows: %w", err)
	}
	return ids, nil
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string) ([]models.Favorite, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, song_id, is_favorite, updated_at FROM favorites WHERE user_id = ? ORDER BY song_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites of %s: %w", userID, err)
	}
	defer rows.Close()

	result := make([]models.Favorite, 0)
	for rows.Next() {
		var (
			f       models.Favorite
			updated int64
		)
		if err := rows.Scan(&f.UserID, &f.SongID, &f.IsFavorite, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan favorite row: %w", err)
		}
		f.UpdatedAt = time.UnixMilli(updated).UTC()
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate favorite rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM favorites`); err != nil {
		return fmt.Errorf("failed to clear favorites: %w", err)
	}
	return nil
}
