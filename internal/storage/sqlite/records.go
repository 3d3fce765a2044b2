package sqlite

import (
	"strings"
	"time"

	"github.com/julianstephens/trackit/internal/errors"
	"github.com/julianstephens/trackit/internal/models"
	"github.com/julianstephens/trackit/internal/storage"
	"github.com/julianstephens/trackit/internal/utils"
)

func recordID(trackerID string, day time.Time) string {
	return trackerID + "@" + utils.DayKey(day)
}

func (t *tx) ListRecords(filter storage.RecordFilter) ([]models.CompletionRecord, error) {
	var where []string
	var args []any
	if filter.TrackerID != "" {
		where = append(where, "tracker_id = ?")
		args = append(args, filter.TrackerID)
	}
	if !filter.From.IsZero() {
		where = append(where, "day >= ?")
		args = append(args, utils.DayKey(filter.From))
	}
	if !filter.To.IsZero() {
		where = append(where, "day <= ?")
		args = append(args, utils.DayKey(filter.To))
	}

	query := "SELECT tracker_id, day FROM completion_records"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY day, tracker_id"

	rows, err := t.tx.QueryContext(t.ctx, query, args...)
	if err != nil {
		return nil, errors.Storage("list records", err)
	}
	defer rows.Close()

	var records []models.CompletionRecord
	for rows.Next() {
		var r models.CompletionRecord
		var day string
		if err := rows.Scan(&r.TrackerID, &day); err != nil {
			return nil, errors.Storage("list records", err)
		}
		r.Day, err = utils.ParseDateInLocation(day, t.loc)
		if err != nil {
			return nil, errors.Storage("list records", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Storage("list records", err)
	}
	return records, nil
}

func (t *tx) HasRecord(trackerID string, day time.Time) (bool, error) {
	var n int
	err := t.tx.QueryRowContext(t.ctx,
		"SELECT count(*) FROM completion_records WHERE tracker_id = ? AND day = ?",
		trackerID, utils.DayKey(day)).Scan(&n)
	if err != nil {
		return false, errors.Storage("get record", err)
	}
	return n > 0, nil
}

// AddRecord inserts the record unless it already exists; it reports whether a row was written.
func (t *tx) AddRecord(r models.CompletionRecord) (bool, error) {
	res, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO completion_records (tracker_id, day, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(tracker_id, day) DO NOTHING`,
		r.TrackerID, utils.DayKey(r.Day), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return false, errors.Storage("add record", err)
	}
	ok, err := t.affected("add record", res)
	if ok {
		t.changes.Record(models.EntityRecord, models.OpCreate, recordID(r.TrackerID, r.Day))
	}
	return ok, err
}

func (t *tx) DeleteRecord(trackerID string, day time.Time) (bool, error) {
	res, err := t.tx.ExecContext(t.ctx,
		"DELETE FROM completion_records WHERE tracker_id = ? AND day = ?",
		trackerID, utils.DayKey(day))
	if err != nil {
		return false, errors.Storage("delete record", err)
	}
	ok, err := t.affected("delete record", res)
	if ok {
		t.changes.Record(models.EntityRecord, models.OpDelete, recordID(trackerID, day))
	}
	return ok, err
}

func (t *tx) DeleteRecordsForTracker(trackerID string) (int, error) {
	res, err := t.tx.ExecContext(t.ctx, "DELETE FROM completion_records WHERE tracker_id = ?", trackerID)
	if err != nil {
		return 0, errors.Storage("delete records", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Storage("delete records", err)
	}
	if n > 0 {
		t.changes.Record(models.EntityRecord, models.OpDelete, trackerID)
	}
	return int(n), nil
}
