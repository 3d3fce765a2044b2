package repository

import (
	"context"
	"sync"
	"time"

	"github.com/julianstephens/trackit/internal/logger"
	"github.com/julianstephens/trackit/internal/models"
	"github.com/julianstephens/trackit/internal/storage"
	"github.com/julianstephens/trackit/internal/utils"
)

// RecordRepository owns the set of completion records.
type RecordRepository struct {
	store  storage.Provider
	mu     sync.Mutex
	cache  snapshot[models.CompletionRecord]
	broker *Broker
	cancel func()
}

func NewRecordRepository(ctx context.Context, store storage.Provider) (*RecordRepository, error) {
	r := &RecordRepository{
		store:  store,
		broker: newBroker(),
	}
	if err := r.Refresh(ctx); err != nil {
		return nil, err
	}
	r.cancel = store.Observe(models.EntityRecord, r.onChange)
	return r, nil
}

func (r *RecordRepository) onChange(changes []models.Change) {
	if err := r.Refresh(context.Background()); err != nil {
		logger.Error("Failed to reload completion records", "error", err)
	}
	r.broker.publish(Event{Kind: models.EntityRecord, Changes: changes})
}

// Refresh reloads the snapshot from the store.
func (r *RecordRepository) Refresh(ctx context.Context) error {
	return r.cache.reload(func() ([]models.CompletionRecord, error) {
		var records []models.CompletionRecord
		err := r.store.View(ctx, func(tx storage.Tx) error {
			var err error
			records, err = tx.ListRecords(storage.RecordFilter{})
			return err
		})
		if err != nil {
			return nil, err
		}
		return records, nil
	})
}

// List returns every completion record.
func (r *RecordRepository) List() []models.CompletionRecord {
	return r.cache.get()
}

// Contains reports whether trackerID is marked done on day.
func (r *RecordRepository) Contains(trackerID string, day time.Time) bool {
	key := utils.DayKey(r.normalize(day))
	for _, rec := range r.cache.get() {
		if rec.TrackerID == trackerID && rec.DayKey() == key {
			return true
		}
	}
	return false
}

func (r *RecordRepository) Subscribe(fn func(Event)) func() {
	return r.broker.Subscribe(fn)
}

func (r *RecordRepository) normalize(day time.Time) time.Time {
	return utils.StartOfDay(day, r.store.Location())
}

// Toggle marks trackerID done on day, or clears the mark if it is already
// set, and reports the resulting state. The check and the write happen in
// one transaction while the repository lock is held, so concurrent toggles
// of the same pair alternate cleanly.
func (r *RecordRepository) Toggle(ctx context.Context, trackerID string, day time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	day = r.normalize(day)
	var done bool
	err := r.store.Update(ctx, func(tx storage.Tx) error {
		exists, err := tx.HasRecord(trackerID, day)
		if err != nil {
			return err
		}
		if exists {
			_, err = tx.DeleteRecord(trackerID, day)
			done = false
			return err
		}
		_, err = tx.AddRecord(models.CompletionRecord{TrackerID: trackerID, Day: day})
		done = true
		return err
	})
	if err != nil {
		logger.Error("Failed to toggle completion", "tracker", trackerID, "day", utils.DayKey(day), "error", err)
		return false, err
	}
	logger.Debug("Completion toggled", "tracker", trackerID, "day", utils.DayKey(day), "done", done)
	return done, nil
}

// Add marks trackerID done on day. Adding an existing record is a no-op.
func (r *RecordRepository) Add(ctx context.Context, trackerID string, day time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	day = r.normalize(day)
	err := r.store.Update(ctx, func(tx storage.Tx) error {
		_, err := tx.AddRecord(models.CompletionRecord{TrackerID: trackerID, Day: day})
		return err
	})
	if err != nil {
		logger.Error("Failed to add completion", "tracker", trackerID, "error", err)
	}
	return err
}

// Remove clears the mark for trackerID on day. Missing records are ignored.
func (r *RecordRepository) Remove(ctx context.Context, trackerID string, day time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	day = r.normalize(day)
	err := r.store.Update(ctx, func(tx storage.Tx) error {
		_, err := tx.DeleteRecord(trackerID, day)
		return err
	})
	if err != nil {
		logger.Error("Failed to remove completion", "tracker", trackerID, "error", err)
	}
	return err
}

// DeleteAllForTracker removes every record of trackerID and returns how many were removed.
func (r *RecordRepository) DeleteAllForTracker(ctx context.Context, trackerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	err := r.store.Update(ctx, func(tx storage.Tx) error {
		var err error
		n, err = tx.DeleteRecordsForTracker(trackerID)
		return err
	})
	if err != nil {
		logger.Error("Failed to delete completions", "tracker", trackerID, "error", err)
		return 0, err
	}
	return n, nil
}

// Close stops listening for store changes.
func (r *RecordRepository) Close() {
	if r.cancel != nil {
		r.cancel()
	}
}
