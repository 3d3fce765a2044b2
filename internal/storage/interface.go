package storage

import (
	"context"
	"time"

	"github.com/julianstephens/trackit/internal/models"
)

// RecordFilter narrows ListRecords. Zero values mean "no constraint";
// From and To are inclusive calendar days.
type RecordFilter struct {
	TrackerID string
	From      time.Time
	To        time.Time
}

// Tx is a unit of work against the store. Every mutating method that
// changes a row queues a models.Change; the changes are published to
// observers only after the surrounding transaction commits.
//
// Methods that address a row by key report whether a row was affected
// instead of returning a not-found error.
type Tx interface {
	// Categories
	GetCategory(id string) (models.Category, bool, error)
	FindCategoryByTitle(title string) (models.Category, bool, error)
	ListCategories() ([]models.Category, error)
	InsertCategory(models.Category) error
	UpdateCategory(models.Category) (bool, error)
	DeleteCategory(id string) (bool, error)
	CountTrackersInCategory(id string) (int, error)

	// Trackers
	GetTracker(id string) (models.Tracker, bool, error)
	ListTrackers() ([]models.Tracker, error)
	InsertTracker(models.Tracker) error
	UpdateTracker(models.Tracker) (bool, error)
	DeleteTracker(id string) (bool, error)

	// Completion records
	ListRecords(RecordFilter) ([]models.CompletionRecord, error)
	HasRecord(trackerID string, day time.Time) (bool, error)
	AddRecord(models.CompletionRecord) (bool, error)
	DeleteRecord(trackerID string, day time.Time) (bool, error)
	DeleteRecordsForTracker(trackerID string) (int, error)
}

// Provider is implemented by the SQLite and PostgreSQL stores.
type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error
	GetConfigPath() string
	SchemaVersion(ctx context.Context) (int, error)

	// Location sets the zone in which record days are interpreted.
	SetLocation(loc *time.Location)
	Location() *time.Location

	// Transactions. Update commits fn's writes atomically and then
	// delivers the queued changes to observers before returning.
	Update(ctx context.Context, fn func(Tx) error) error
	View(ctx context.Context, fn func(Tx) error) error

	// Observe registers fn for committed changes of one entity kind.
	Observe(kind models.EntityKind, fn func([]models.Change)) (cancel func())

	// Settings
	GetSettings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, settings models.Settings) error
}
