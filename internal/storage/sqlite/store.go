package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/trackit/internal/errors"
	"github.com/julianstephens/trackit/internal/logger"
	"github.com/julianstephens/trackit/internal/migration"
	"github.com/julianstephens/trackit/internal/models"
	"github.com/julianstephens/trackit/internal/storage"
	"github.com/julianstephens/trackit/migrations"
)

type Store struct {
	path string
	db   *sql.DB
	hub  *storage.Hub

	locMu sync.RWMutex
	loc   *time.Location
}

var _ storage.Provider = (*Store)(nil)

func NewStore(path string) *Store {
	return &Store{
		path: path,
		hub:  storage.NewHub(),
		loc:  time.Local,
	}
}

// dsn enables foreign keys on every pooled connection and waits on a
// locked database instead of failing immediately.
func (s *Store) dsn() string {
	return "file:" + s.path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func (s *Store) open() error {
	db, err := sql.Open("sqlite", s.dsn())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// a single writer connection keeps transactions from racing on SQLITE_BUSY
	db.SetMaxOpenConns(1)
	s.db = db
	return nil
}

func (s *Store) Init(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if s.db == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	if err := s.runMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if _, err := s.GetSettings(ctx); err != nil {
		if err := s.SaveSettings(ctx, models.DefaultSettings()); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *Store) Load(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'trackit init' first")
	}

	if err := s.open(); err != nil {
		return err
	}

	return s.validateSchemaVersion(ctx)
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *Store) migrationRunner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS), nil
}

func (s *Store) runMigrations(ctx context.Context) error {
	runner, err := s.migrationRunner()
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(ctx, func(msg string) {
		logger.Debug(msg)
	})
	return err
}

func (s *Store) validateSchemaVersion(ctx context.Context) error {
	runner, err := s.migrationRunner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion(ctx)
}

// Migrate applies pending migrations, reporting progress to logFn.
func (s *Store) Migrate(ctx context.Context, logFn func(string)) (int, error) {
	runner, err := s.migrationRunner()
	if err != nil {
		return 0, err
	}
	return runner.ApplyMigrations(ctx, logFn)
}

func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	runner, err := s.migrationRunner()
	if err != nil {
		return 0, err
	}
	return runner.GetCurrentVersion(ctx)
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection, or nil before Init/Load.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

func (s *Store) SetLocation(loc *time.Location) {
	if loc == nil {
		loc = time.Local
	}
	s.locMu.Lock()
	s.loc = loc
	s.locMu.Unlock()
}

func (s *Store) Location() *time.Location {
	s.locMu.RLock()
	defer s.locMu.RUnlock()
	return s.loc
}

func (s *Store) Update(ctx context.Context, fn func(storage.Tx) error) error {
	var changes storage.ChangeLog
	err := storage.WithTx(ctx, s.db, func(sqlTx *sql.Tx) error {
		return fn(&tx{ctx: ctx, tx: sqlTx, loc: s.Location(), changes: &changes})
	})
	if err != nil {
		return err
	}
	s.hub.Publish(changes.Changes())
	return nil
}

func (s *Store) View(ctx context.Context, fn func(storage.Tx) error) error {
	return storage.WithTx(ctx, s.db, func(sqlTx *sql.Tx) error {
		return fn(&tx{ctx: ctx, tx: sqlTx, loc: s.Location(), changes: &storage.ChangeLog{}})
	})
}

func (s *Store) Observe(kind models.EntityKind, fn func([]models.Change)) func() {
	return s.hub.Observe(kind, fn)
}

// tx implements storage.Tx on top of a *sql.Tx.
type tx struct {
	ctx     context.Context
	tx      *sql.Tx
	loc     *time.Location
	changes *storage.ChangeLog
}

func (t *tx) affected(op string, res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Storage(op, err)
	}
	return n > 0, nil
}
