package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/trackit/internal/config"
	"github.com/julianstephens/trackit/internal/keyring"
	"github.com/julianstephens/trackit/internal/logger"
	"github.com/julianstephens/trackit/internal/storage"
	"github.com/julianstephens/trackit/internal/storage/postgres"
	"github.com/julianstephens/trackit/internal/storage/sqlite"
)

// IsPostgresTarget reports whether target names a PostgreSQL database, either
// as a URL or as a key=value DSN.
func IsPostgresTarget(target string) bool {
	return config.IsPostgres(target) || strings.Contains(target, "host=")
}

// NewStore picks the storage backend for target. PostgreSQL connection
// strings must not embed a password.
func NewStore(target string) (storage.Provider, error) {
	if !IsPostgresTarget(target) {
		return sqlite.NewStore(config.ExpandHome(target)), nil
	}
	if _, err := postgres.ValidateConnString(target); err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, fmt.Errorf("%w; store the password in ~/.pgpass, PGPASSWORD, or keep the whole string in the OS keyring with 'trackit keyring set'", err)
		}
		return nil, err
	}
	return postgres.New(target), nil
}

// OpenStore resolves the database in order of precedence: the --db flag,
// TRACKIT_DB_CONNECTION, the OS keyring (when enabled in the config), then
// the configured path. Secrets from the environment or the keyring may
// carry a password; the flag and the config file may not.
func OpenStore(cfg *config.Config, flagDB string) (storage.Provider, error) {
	if flagDB != "" {
		return NewStore(flagDB)
	}

	connStr, source, err := keyring.ResolveConnectionString("", cfg.Database.UseKeyring)
	if err != nil {
		return nil, err
	}
	if connStr != "" {
		logger.Debug("Using PostgreSQL connection string", "source", source)
		if _, err := postgres.ValidateConnString(connStr); err != nil && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, err
		}
		return postgres.New(connStr), nil
	}

	return NewStore(cfg.Database.Path)
}
