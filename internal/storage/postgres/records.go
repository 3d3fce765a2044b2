package postgres

import (
	"fmt"
	"strings"
	"time"

	trackerrors "github.com/julianstephens/trackit/internal/errors"
	"github.com/julianstephens/trackit/internal/models"
	"github.com/julianstephens/trackit/internal/storage"
	"github.com/julianstephens/trackit/internal/utils"
)

func recordID(trackerID string, day time.Time) string {
	return trackerID + "@" + utils.DayKey(day)
}

// Days travel as YYYY-MM-DD text so the session time zone never shifts them.
func (t *tx) ListRecords(filter storage.RecordFilter) ([]models.CompletionRecord, error) {
	var where []string
	var args []any
	if filter.TrackerID != "" {
		args = append(args, filter.TrackerID)
		where = append(where, fmt.Sprintf("tracker_id = $%d", len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, utils.DayKey(filter.From))
		where = append(where, fmt.Sprintf("day >= $%d::date", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, utils.DayKey(filter.To))
		where = append(where, fmt.Sprintf("day <= $%d::date", len(args)))
	}

	query := "SELECT tracker_id, to_char(day, 'YYYY-MM-DD') FROM completion_records"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY day, tracker_id"

	rows, err := t.tx.QueryContext(t.ctx, query, args...)
	if err != nil {
		return nil, trackerrors.Storage("list records", err)
	}
	defer rows.Close()

	var records []models.CompletionRecord
	for rows.Next() {
		var r models.CompletionRecord
		var day string
		if err := rows.Scan(&r.TrackerID, &day); err != nil {
			return nil, trackerrors.Storage("list records", err)
		}
		r.Day, err = utils.ParseDateInLocation(day, t.loc)
		if err != nil {
			return nil, trackerrors.Storage("list records", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, trackerrors.Storage("list records", err)
	}
	return records, nil
}

func (t *tx) HasRecord(trackerID string, day time.Time) (bool, error) {
	var exists bool
	err := t.tx.QueryRowContext(t.ctx,
		"SELECT EXISTS (SELECT 1 FROM completion_records WHERE tracker_id = $1 AND day = $2::date)",
		trackerID, utils.DayKey(day)).Scan(&exists)
	if err != nil {
		return false, trackerrors.Storage("get record", err)
	}
	return exists, nil
}

func (t *tx) AddRecord(r models.CompletionRecord) (bool, error) {
	res, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO completion_records (tracker_id, day, created_at)
		VALUES ($1, $2::date, $3)
		ON CONFLICT (tracker_id, day) DO NOTHING`,
		r.TrackerID, utils.DayKey(r.Day), time.Now().UTC())
	if err != nil {
		return false, trackerrors.Storage("add record", err)
	}
	ok, err := t.affected("add record", res)
	if ok {
		t.changes.Record(models.EntityRecord, models.OpCreate, recordID(r.TrackerID, r.Day))
	}
	return ok, err
}

func (t *tx) DeleteRecord(trackerID string, day time.Time) (bool, error) {
	res, err := t.tx.ExecContext(t.ctx,
		"DELETE FROM completion_records WHERE tracker_id = $1 AND day = $2::date",
		trackerID, utils.DayKey(day))
	if err != nil {
		return false, trackerrors.Storage("delete record", err)
	}
	ok, err := t.affected("delete record", res)
	if ok {
		t.changes.Record(models.EntityRecord, models.OpDelete, recordID(trackerID, day))
	}
	return ok, err
}

func (t *tx) DeleteRecordsForTracker(trackerID string) (int, error) {
	res, err := t.tx.ExecContext(t.ctx, "DELETE FROM completion_records WHERE tracker_id = $1", trackerID)
	if err != nil {
		return 0, trackerrors.Storage("delete records", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, trackerrors.Storage("delete records", err)
	}
	if n > 0 {
		t.changes.Record(models.EntityRecord, models.OpDelete, trackerID)
	}
	return int(n), nil
}
