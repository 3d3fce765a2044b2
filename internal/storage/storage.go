// Package storage defines the persistence contract shared by the SQLite
// and PostgreSQL stores.
package storage

import (
	"context"
	"database/sql"

	"github.com/julianstephens/trackit/internal/errors"
)

// WithTx runs fn inside a database transaction, committing on success and
// rolling back on any error. Driver failures come back as *errors.StorageError;
// errors returned by fn are passed through as they are.
func WithTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	if db == nil {
		return errors.Storage("begin", sql.ErrConnDone)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Storage("begin", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Storage("commit", err)
	}
	return nil
}
