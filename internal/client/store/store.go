package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/songbook/internal/client/migrations"
	"github.com/dmitrijs2005/songbook/internal/client/repositories/changes"
	"github.com/dmitrijs2005/songbook/internal/client/repositories/conflicts"
	"github.com/dmitrijs2005/songbook/internal/client/repositories/favorites"
	"github.com/dmitrijs2005/songbook/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/songbook/internal/client/repositories/songs"
	"github.com/dmitrijs2005/songbook/internal/common"
	"github.com/dmitrijs2005/songbook/internal/dbx"
	"github.com/dmitrijs2005/songbook/internal/logging"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Repositories groups the per-collection repositories bound to one DBTX.
type Repositories struct {
	Songs     songs.Repository
	Metadata  metadata.Repository
	Favorites favorites.Repository
	Changes   changes.Repository
	Conflicts conflicts.Repository
}

func newRepositories(db dbx.DBTX) *Repositories {
	return &Repositories{
		Songs:     songs.NewSQLiteRepository(db),
		Metadata:  metadata.NewSQLiteRepository(db),
		Favorites: favorites.NewSQLiteRepository(db),
		Changes:   changes.NewSQLiteRepository(db),
		Conflicts: conflicts.NewSQLiteRepository(db),
	}
}

// Store is the local data layer used by the application shell and the sync
// agent.
type Store struct {
	dsn    string
	logger logging.Logger
	now    func() time.Time

	mu    sync.Mutex
	db    *sql.DB
	repos *Repositories
}

// New returns a Store for the SQLite database at dsn. Nothing is opened until
// the first operation or an explicit Init.
func New(dsn string, logger logging.Logger) *Store {
	return &Store{
		dsn:    dsn,
		logger: logger.With("module", "store"),
		now:    time.Now,
	}
}

// goose keeps its base FS and dialect in package globals.
var migrateMu sync.Mutex

// RunMigrations applies the embedded migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// SchemaVersion reports the highest applied migration.
func (s *Store) SchemaVersion(ctx context.Context) (int64, error) {
	if err := s.Init(ctx); err != nil {
		return 0, err
	}
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db == nil {
		return 0, fmt.Errorf("%w: store closed", common.ErrStoreUnavailable)
	}

	migrateMu.Lock()
	defer migrateMu.Unlock()
	return goose.GetDBVersionContext(ctx, db)
}

// Init opens the database and migrates it to the latest schema version.
// It is idempotent; after a failure the next call tries again.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.dsn)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", common.ErrStoreUnavailable, s.dsn, err)
	}
	// a single connection keeps ":memory:" databases coherent and
	// serialises writers the way SQLite wants anyway
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return fmt.Errorf("%w: migrate: %v", common.ErrStoreUnavailable, err)
	}

	s.db = db
	s.repos = newRepositories(db)
	s.logger.Debug(ctx, "local store ready", "dsn", s.dsn)
	return nil
}

// Close releases the database. A later operation reopens it.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.repos = nil
	return err
}

// repositories returns the repositories, initialising the store on first use.
func (s *Store) repositories(ctx context.Context) (*Repositories, error) {
	if err := s.Init(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.repos == nil {
		return nil, fmt.Errorf("%w: store closed", common.ErrStoreUnavailable)
	}
	return s.repos, nil
}

// withTx runs fn with repositories bound to a single transaction.
func (s *Store) withTx(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error {
	if err := s.Init(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db == nil {
		return fmt.Errorf("%w: store closed", common.ErrStoreUnavailable)
	}

	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, newRepositories(tx))
	})
}
