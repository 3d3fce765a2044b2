package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/trackit/internal/constants"
	trackerrors "github.com/julianstephens/trackit/internal/errors"
	"github.com/julianstephens/trackit/internal/models"
	"github.com/julianstephens/trackit/internal/storage"
)

func (s *Store) GetSettings(ctx context.Context) (models.Settings, error) {
	values := make(map[string]string)
	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, "SELECT key, value FROM settings")
		if err != nil {
			return trackerrors.Storage("get settings", err)
		}
		defer rows.Close()
		for rows.Next() {
			var key, value string
			if err := rows.Scan(&key, &value); err != nil {
				return trackerrors.Storage("get settings", err)
			}
			values[key] = value
		}
		return rows.Err()
	})
	if err != nil {
		return models.Settings{}, err
	}
	if len(values) == 0 {
		return models.Settings{}, fmt.Errorf("settings not found")
	}
	return models.SettingsFromMap(values)
}

func (s *Store) SaveSettings(ctx context.Context, settings models.Settings) error {
	return storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO settings (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`)
		if err != nil {
			return trackerrors.Storage("save settings", err)
		}
		defer stmt.Close()

		values := settings.Map()
		for _, key := range []string{constants.SettingTimezone, constants.SettingFilter, constants.SettingNotificationsEnabled} {
			if _, err := stmt.ExecContext(ctx, key, values[key]); err != nil {
				return trackerrors.Storage("save settings", err)
			}
		}
		return nil
	})
}
