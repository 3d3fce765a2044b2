package postgres

import (
	"database/sql"
	"errors"

	trackerrors "github.com/julianstephens/trackit/internal/errors"
	"github.com/julianstephens/trackit/internal/models"
)

const trackerColumns = "id, name, color, emoji, schedule, category_id, kind, pinned, created_at"

func scanTracker(row interface{ Scan(...any) error }) (models.Tracker, error) {
	var tr models.Tracker
	var schedule int
	var kind string
	if err := row.Scan(&tr.ID, &tr.Name, &tr.Color, &tr.Emoji, &schedule, &tr.CategoryID, &kind, &tr.Pinned, &tr.CreatedAt); err != nil {
		return models.Tracker{}, err
	}
	tr.Schedule = models.Schedule(schedule)
	tr.Kind = models.TrackerKind(kind)
	return tr, nil
}

func (t *tx) GetTracker(id string) (models.Tracker, bool, error) {
	row := t.tx.QueryRowContext(t.ctx, "SELECT "+trackerColumns+" FROM trackers WHERE id = $1", id)
	tr, err := scanTracker(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Tracker{}, false, nil
	}
	if err != nil {
		return models.Tracker{}, false, trackerrors.Storage("get tracker", err)
	}
	return tr, true, nil
}

func (t *tx) ListTrackers() ([]models.Tracker, error) {
	rows, err := t.tx.QueryContext(t.ctx, "SELECT "+trackerColumns+" FROM trackers ORDER BY name")
	if err != nil {
		return nil, trackerrors.Storage("list trackers", err)
	}
	defer rows.Close()

	var trackers []models.Tracker
	for rows.Next() {
		tr, err := scanTracker(rows)
		if err != nil {
			return nil, trackerrors.Storage("list trackers", err)
		}
		trackers = append(trackers, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, trackerrors.Storage("list trackers", err)
	}
	return trackers, nil
}

func (t *tx) InsertTracker(tr models.Tracker) error {
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO trackers (id, name, color, emoji, schedule, category_id, kind, pinned, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		tr.ID, tr.Name, tr.Color, tr.Emoji, int(tr.Schedule), tr.CategoryID, string(tr.Kind), tr.Pinned, tr.CreatedAt)
	if err != nil {
		return trackerrors.Storage("insert tracker", err)
	}
	t.changes.Record(models.EntityTracker, models.OpCreate, tr.ID)
	return nil
}

func (t *tx) UpdateTracker(tr models.Tracker) (bool, error) {
	res, err := t.tx.ExecContext(t.ctx, `
		UPDATE trackers
		SET name = $1, color = $2, emoji = $3, schedule = $4, category_id = $5, kind = $6, pinned = $7
		WHERE id = $8`,
		tr.Name, tr.Color, tr.Emoji, int(tr.Schedule), tr.CategoryID, string(tr.Kind), tr.Pinned, tr.ID)
	if err != nil {
		return false, trackerrors.Storage("update tracker", err)
	}
	ok, err := t.affected("update tracker", res)
	if ok {
		t.changes.Record(models.EntityTracker, models.OpUpdate, tr.ID)
	}
	return ok, err
}

func (t *tx) DeleteTracker(id string) (bool, error) {
	res, err := t.tx.ExecContext(t.ctx, "DELETE FROM trackers WHERE id = $1", id)
	if err != nil {
		return false, trackerrors.Storage("delete tracker", err)
	}
	ok, err := t.affected("delete tracker", res)
	if ok {
		t.changes.Record(models.EntityTracker, models.OpDelete, id)
	}
	return ok, err
}
