package songs

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/songbook/internal/client/models"
	"github.com/dmitrijs2005/songbook/internal/dbx"
)

const songColumns = `id, title, language, content, source, last_modified`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Upsert writes the whole record; on id conflict every column is replaced.
func (r *SQLiteRepository) Upsert(ctx context.Context, s models.Song) error {
	query := `INSERT INTO songs (id, title, language, content, source, last_modified)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET title = excluded.title,
				language = excluded.language,
				content = excluded.content,
				source = excluded.source,
				last_modified = excluded.last_modified
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Title, s.Language, s.Content, string(s.Source), s.LastModified)
	if err != nil {
		return fmt.Errorf("failed to upsert song %s: %w", s.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Song, error) {
	return r.query(ctx, `SELECT `+songColumns+` FROM songs ORDER BY id`)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Song, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+songColumns+` FROM songs WHERE id = ?`, id)

	s, err := scanSong(row)
	if dbx.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get song %s: %w", id, err)
	}
	return &s, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM songs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count songs: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM songs`); err != nil {
		return fmt.Errorf("failed to clear songs: %w", err)
	}
	return nil
}

// FindByTitlePrefix uses a half-open range instead of LIKE so SQLite can
// walk idx_songs_title.
func (r *SQLiteRepository) FindByTitlePrefix(ctx context.Context, prefix string) ([]models.Song, error) {
	if prefix == "" {
		return r.query(ctx, `SELECT `+songColumns+` FROM songs ORDER BY title, id`)
	}
	return r.query(ctx,
		`SELECT `+songColumns+` FROM songs WHERE title >= ? AND title < ? ORDER BY title, id`,
		prefix, prefix+"\U0010FFFF")
}

func (r *SQLiteRepository) FindByLanguage(ctx context.Context, language string) ([]models.Song, error) {
	return r.query(ctx,
		`SELECT `+songColumns+` FROM songs WHERE language = ? ORDER BY title, id`, language)
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]models.Song, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select songs: %w", err)
	}
	defer rows.Close()

	result := make([]models.Song, 0)
	for rows.Next() {
		s, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song row: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate song rows: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSong(sc scanner) (models.Song, error) {
	var (
		s      models.Song
		source string
	)
	err := sc.Scan(&s.ID, &s.Title, &s.Language, &s.Content, &source, &s.LastModified)
	s.Source = models.Source(source)
	return s, err
}

var _ Repository = (*SQLiteRepository)(nil)
