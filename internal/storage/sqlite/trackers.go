package sqlite

import (
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/julianstephens/trackit/internal/errors"
	"github.com/julianstephens/trackit/internal/models"
)

const trackerColumns = "id, name, color, emoji, schedule, category_id, kind, pinned, created_at"

func scanTracker(row interface{ Scan(...any) error }) (models.Tracker, error) {
	var tr models.Tracker
	var schedule, pinned int
	var kind, createdAt string
	if err := row.Scan(&tr.ID, &tr.Name, &tr.Color, &tr.Emoji, &schedule, &tr.CategoryID, &kind, &pinned, &createdAt); err != nil {
		return models.Tracker{}, err
	}
	tr.Schedule = models.Schedule(schedule)
	tr.Kind = models.TrackerKind(kind)
	tr.Pinned = pinned != 0

	ts, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Tracker{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	tr.CreatedAt = ts
	return tr, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (t *tx) GetTracker(id string) (models.Tracker, bool, error) {
	row := t.tx.QueryRowContext(t.ctx, "SELECT "+trackerColumns+" FROM trackers WHERE id = ?", id)
	tr, err := scanTracker(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return models.Tracker{}, false, nil
	}
	if err != nil {
		return models.Tracker{}, false, errors.Storage("get tracker", err)
	}
	return tr, true, nil
}

func (t *tx) ListTrackers() ([]models.Tracker, error) {
	rows, err := t.tx.QueryContext(t.ctx, "SELECT "+trackerColumns+" FROM trackers ORDER BY name")
	if err != nil {
		return nil, errors.Storage("list trackers", err)
	}
	defer rows.Close()

	var trackers []models.Tracker
	for rows.Next() {
		tr, err := scanTracker(rows)
		if err != nil {
			return nil, errors.Storage("list trackers", err)
		}
		trackers = append(trackers, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Storage("list trackers", err)
	}
	return trackers, nil
}

func (t *tx) InsertTracker(tr models.Tracker) error {
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO trackers (id, name, color, emoji, schedule, category_id, kind, pinned, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tr.ID, tr.Name, tr.Color, tr.Emoji, int(tr.Schedule), tr.CategoryID, string(tr.Kind),
		boolToInt(tr.Pinned), tr.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return errors.Storage("insert tracker", err)
	}
	t.changes.Record(models.EntityTracker, models.OpCreate, tr.ID)
	return nil
}

func (t *tx) UpdateTracker(tr models.Tracker) (bool, error) {
	res, err := t.tx.ExecContext(t.ctx, `
		UPDATE trackers
		SET name = ?, color = ?, emoji = ?, schedule = ?, category_id = ?, kind = ?, pinned = ?
		WHERE id = ?`,
		tr.Name, tr.Color, tr.Emoji, int(tr.Schedule), tr.CategoryID, string(tr.Kind),
		boolToInt(tr.Pinned), tr.ID)
	if err != nil {
		return false, errors.Storage("update tracker", err)
	}
	ok, err := t.affected("update tracker", res)
	if ok {
		t.changes.Record(models.EntityTracker, models.OpUpdate, tr.ID)
	}
	return ok, err
}

func (t *tx) DeleteTracker(id string) (bool, error) {
	res, err := t.tx.ExecContext(t.ctx, "DELETE FROM trackers WHERE id = ?", id)
	if err != nil {
		return false, errors.Storage("delete tracker", err)
	}
	ok, err := t.affected("delete tracker", res)
	if ok {
		t.changes.Record(models.EntityTracker, models.OpDelete, id)
	}
	return ok, err
}
