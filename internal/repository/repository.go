// Package repository keeps in-memory snapshots of trackers, categories and
// completion records in sync with the store and notifies subscribers after
// every committed change.
package repository

import (
	"context"

	"github.com/julianstephens/trackit/internal/storage"
)

// Repositories bundles the three repositories over one store.
type Repositories struct {
	Categories *CategoryRepository
	Trackers   *TrackerRepository
	Records    *RecordRepository
}

func New(ctx context.Context, store storage.Provider) (*Repositories, error) {
	categories, err := NewCategoryRepository(ctx, store)
	if err != nil {
		return nil, err
	}
	trackers, err := NewTrackerRepository(ctx, store)
	if err != nil {
		categories.Close()
		return nil, err
	}
	records, err := NewRecordRepository(ctx, store)
	if err != nil {
		categories.Close()
		trackers.Close()
		return nil, err
	}
	return &Repositories{Categories: categories, Trackers: trackers, Records: records}, nil
}

// Refresh reloads every snapshot, e.g. after a backup restore.
func (r *Repositories) Refresh(ctx context.Context) error {
	if err := r.Categories.Refresh(ctx); err != nil {
		return err
	}
	if err := r.Trackers.Refresh(ctx); err != nil {
		return err
	}
	return r.Records.Refresh(ctx)
}

func (r *Repositories) Close() {
	r.Categories.Close()
	r.Trackers.Close()
	r.Records.Close()
}
