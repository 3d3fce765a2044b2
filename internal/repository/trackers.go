package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/trackit/internal/logger"
	"github.com/julianstephens/trackit/internal/models"
	"github.com/julianstephens/trackit/internal/storage"
)

// TrackerRepository owns the canonical list of trackers.
type TrackerRepository struct {
	store  storage.Provider
	mu     sync.Mutex
	cache  snapshot[models.Tracker]
	broker *Broker
	cancel func()
	now    func() time.Time
}

func NewTrackerRepository(ctx context.Context, store storage.Provider) (*TrackerRepository, error) {
	r := &TrackerRepository{
		store:  store,
		broker: newBroker(),
		now:    time.Now,
	}
	if err := r.Refresh(ctx); err != nil {
		return nil, err
	}
	r.cancel = store.Observe(models.EntityTracker, r.onChange)
	return r, nil
}

func (r *TrackerRepository) onChange(changes []models.Change) {
	if err := r.Refresh(context.Background()); err != nil {
		logger.Error("Failed to reload trackers", "error", err)
	}
	r.broker.publish(Event{Kind: models.EntityTracker, Changes: changes})
}

// Refresh reloads the snapshot from the store.
func (r *TrackerRepository) Refresh(ctx context.Context) error {
	return r.cache.reload(func() ([]models.Tracker, error) {
		var trackers []models.Tracker
		err := r.store.View(ctx, func(tx storage.Tx) error {
			var err error
			trackers, err = tx.ListTrackers()
			return err
		})
		if err != nil {
			return nil, err
		}
		sort.SliceStable(trackers, func(i, j int) bool { return trackers[i].Name < trackers[j].Name })
		return trackers, nil
	})
}

// List returns the trackers sorted by name.
func (r *TrackerRepository) List() []models.Tracker {
	return r.cache.get()
}

func (r *TrackerRepository) Get(id string) (models.Tracker, bool) {
	for _, t := range r.cache.get() {
		if t.ID == id {
			return t, true
		}
	}
	return models.Tracker{}, false
}

// FindByName prefers an exact match and falls back to a case-insensitive one.
func (r *TrackerRepository) FindByName(name string) (models.Tracker, bool) {
	trackers := r.cache.get()
	for _, t := range trackers {
		if t.Name == name {
			return t, true
		}
	}
	for _, t := range trackers {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return models.Tracker{}, false
}

func (r *TrackerRepository) Subscribe(fn func(Event)) func() {
	return r.broker.Subscribe(fn)
}

// Add stores a new tracker in categoryID and returns it with its id and
// creation time filled in. An unknown category surfaces as a StorageError.
func (r *TrackerRepository) Add(ctx context.Context, tracker models.Tracker, categoryID string) (models.Tracker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tracker.ID == "" {
		tracker.ID = uuid.NewString()
	}
	if tracker.CreatedAt.IsZero() {
		tracker.CreatedAt = r.now().UTC().Truncate(time.Second)
	}
	tracker.CategoryID = categoryID

	err := r.store.Update(ctx, func(tx storage.Tx) error {
		return tx.InsertTracker(tracker)
	})
	if err != nil {
		logger.Error("Failed to add tracker", "name", tracker.Name, "error", err)
		return models.Tracker{}, err
	}
	logger.Debug("Tracker added", "id", tracker.ID, "name", tracker.Name)
	return tracker, nil
}

// Update overwrites every mutable field of an existing tracker, pin state
// included, and moves it to categoryID. Creation time is kept; unknown ids
// are ignored.
func (r *TrackerRepository) Update(ctx context.Context, tracker models.Tracker, categoryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.store.Update(ctx, func(tx storage.Tx) error {
		current, found, err := tx.GetTracker(tracker.ID)
		if err != nil || !found {
			return err
		}
		tracker.CategoryID = categoryID
		tracker.CreatedAt = current.CreatedAt
		_, err = tx.UpdateTracker(tracker)
		return err
	})
	if err != nil {
		logger.Error("Failed to update tracker", "id", tracker.ID, "error", err)
		return err
	}
	return nil
}

// TogglePin flips the pinned flag. Unknown ids are ignored.
func (r *TrackerRepository) TogglePin(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.store.Update(ctx, func(tx storage.Tx) error {
		current, found, err := tx.GetTracker(id)
		if err != nil || !found {
			return err
		}
		current.Pinned = !current.Pinned
		_, err = tx.UpdateTracker(current)
		return err
	})
	if err != nil {
		logger.Error("Failed to toggle pin", "id", id, "error", err)
		return err
	}
	return nil
}

// Delete removes a tracker together with all of its completion records in
// one transaction. Unknown ids are ignored.
func (r *TrackerRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int
	err := r.store.Update(ctx, func(tx storage.Tx) error {
		_, found, err := tx.GetTracker(id)
		if err != nil || !found {
			return err
		}
		if removed, err = tx.DeleteRecordsForTracker(id); err != nil {
			return err
		}
		_, err = tx.DeleteTracker(id)
		return err
	})
	if err != nil {
		logger.Error("Failed to delete tracker", "id", id, "error", err)
		return err
	}
	logger.Debug("Tracker deleted", "id", id, "records", removed)
	return nil
}

// Close stops listening for store changes.
func (r *TrackerRepository) Close() {
	if r.cancel != nil {
		r.cancel()
	}
}
