package sqlite

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/trackit/internal/errors"
	"github.com/julianstephens/trackit/internal/models"
	"github.com/julianstephens/trackit/internal/storage"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	store.SetLocation(time.UTC)
	t.Cleanup(func() { store.Close() })
	return store
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedTracker(t *testing.T, store *Store) models.Tracker {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	cat := models.Category{ID: "cat-1", Title: "Health", CreatedAt: now}
	tr := models.Tracker{
		ID: "tr-1", Name: "Run", Color: "FD4C49", Emoji: "🙂",
		Schedule: models.EveryDay, CategoryID: cat.ID, Kind: models.KindHabit, CreatedAt: now,
	}
	err := store.Update(context.Background(), func(tx storage.Tx) error {
		if err := tx.InsertCategory(cat); err != nil {
			return err
		}
		return tx.InsertTracker(tr)
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return tr
}

func TestInitCreatesDefaultSettings(t *testing.T) {
	store := setupTestStore(t)

	settings, err := store.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if settings != models.DefaultSettings() {
		t.Errorf("GetSettings() = %+v, want defaults", settings)
	}

	settings.Filter = models.FilterIncomplete
	settings.NotificationsEnabled = false
	if err := store.SaveSettings(context.Background(), settings); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}
	got, err := store.GetSettings(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != settings {
		t.Errorf("GetSettings() = %+v, want %+v", got, settings)
	}
}

func TestLoadRequiresInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(context.Background()); err == nil {
		t.Error("expected error loading uninitialized store")
	}
}

func TestSchemaVersion(t *testing.T) {
	store := setupTestStore(t)
	v, err := store.SchemaVersion(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if v < 1 {
		t.Errorf("SchemaVersion() = %d, want >= 1", v)
	}
}

func TestTrackerRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	want := seedTracker(t, store)
	want.Pinned = true
	want.Schedule = models.NewSchedule(models.Monday, models.Thursday)

	ctx := context.Background()
	err := store.Update(ctx, func(tx storage.Tx) error {
		ok, err := tx.UpdateTracker(want)
		if !ok {
			t.Error("UpdateTracker() affected no rows")
		}
		return err
	})
	if err != nil {
		t.Fatal(err)
	}

	var got models.Tracker
	var found bool
	err = store.View(ctx, func(tx storage.Tx) error {
		var err error
		got, found, err = tx.GetTracker(want.ID)
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("tracker not found")
	}
	if got.Schedule != want.Schedule || !got.Pinned || got.Name != want.Name || !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("GetTracker() = %+v, want %+v", got, want)
	}
}

func TestUnknownIDsReportNotAffected(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	err := store.Update(ctx, func(tx storage.Tx) error {
		if ok, err := tx.DeleteTracker("nope"); err != nil || ok {
			t.Errorf("DeleteTracker(nope) = %v, %v", ok, err)
		}
		if ok, err := tx.UpdateCategory(models.Category{ID: "nope", Title: "x"}); err != nil || ok {
			t.Errorf("UpdateCategory(nope) = %v, %v", ok, err)
		}
		if _, found, err := tx.GetCategory("nope"); err != nil || found {
			t.Errorf("GetCategory(nope) = %v, %v", found, err)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestInsertTrackerUnknownCategoryIsStorageError(t *testing.T) {
	store := setupTestStore(t)

	err := store.Update(context.Background(), func(tx storage.Tx) error {
		return tx.InsertTracker(models.Tracker{
			ID: "t", Name: "Orphan", Color: "FD4C49", Emoji: "🙂",
			CategoryID: "missing", Kind: models.KindEvent, CreatedAt: time.Now(),
		})
	})
	if !errors.IsStorage(err) {
		t.Fatalf("InsertTracker() error = %v, want StorageError", err)
	}
}

func TestRecordsUniqueAndFiltered(t *testing.T) {
	store := setupTestStore(t)
	tr := seedTracker(t, store)
	ctx := context.Background()

	err := store.Update(ctx, func(tx storage.Tx) error {
		for _, d := range []time.Time{day(2026, 1, 1), day(2026, 1, 2), day(2026, 1, 3)} {
			if _, err := tx.AddRecord(models.CompletionRecord{TrackerID: tr.ID, Day: d}); err != nil {
				return err
			}
		}
		ok, err := tx.AddRecord(models.CompletionRecord{TrackerID: tr.ID, Day: day(2026, 1, 2)})
		if ok {
			t.Error("duplicate AddRecord() reported a write")
		}
		return err
	})
	if err != nil {
		t.Fatal(err)
	}

	var records []models.CompletionRecord
	err = store.View(ctx, func(tx storage.Tx) error {
		var err error
		records, err = tx.ListRecords(storage.RecordFilter{From: day(2026, 1, 2)})
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("ListRecords(from Jan 2) = %d records, want 2", len(records))
	}
	if !records[0].Day.Equal(day(2026, 1, 2)) || records[0].Day.Location() != time.UTC {
		t.Errorf("first record day = %v", records[0].Day)
	}
}

func TestRecordDaysUseStoreLocation(t *testing.T) {
	store := setupTestStore(t)
	tr := seedTracker(t, store)
	ctx := context.Background()

	tokyo := time.FixedZone("JST", 9*60*60)
	store.SetLocation(tokyo)

	err := store.Update(ctx, func(tx storage.Tx) error {
		_, err := tx.AddRecord(models.CompletionRecord{TrackerID: tr.ID, Day: time.Date(2026, 2, 1, 0, 0, 0, 0, tokyo)})
		return err
	})
	if err != nil {
		t.Fatal(err)
	}

	err = store.View(ctx, func(tx storage.Tx) error {
		records, err := tx.ListRecords(storage.RecordFilter{TrackerID: tr.ID})
		if err != nil {
			return err
		}
		if len(records) != 1 {
			t.Fatalf("got %d records", len(records))
		}
		if records[0].DayKey() != "2026-02-01" || records[0].Day.Location() != tokyo {
			t.Errorf("record day = %v", records[0].Day)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestUpdatePublishesAfterCommit(t *testing.T) {
	store := setupTestStore(t)
	tr := seedTracker(t, store)
	ctx := context.Background()

	var seen []models.Change
	cancel := store.Observe(models.EntityRecord, func(changes []models.Change) {
		// the committed row must be visible from inside the callback
		err := store.View(ctx, func(tx storage.Tx) error {
			ok, err := tx.HasRecord(tr.ID, day(2026, 3, 1))
			if !ok {
				t.Error("record not visible to observer")
			}
			return err
		})
		if err != nil {
			t.Error(err)
		}
		seen = append(seen, changes...)
	})
	defer cancel()

	err := store.Update(ctx, func(tx storage.Tx) error {
		_, err := tx.AddRecord(models.CompletionRecord{TrackerID: tr.ID, Day: day(2026, 3, 1)})
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(seen) != 1 || seen[0].Op != models.OpCreate {
		t.Errorf("observed %v, want one create", seen)
	}
}

func TestUpdateRollsBackAndSuppressesChanges(t *testing.T) {
	store := setupTestStore(t)
	tr := seedTracker(t, store)
	ctx := context.Background()

	called := false
	store.Observe(models.EntityRecord, func([]models.Change) { called = true })

	boom := stderrors.New("boom")
	err := store.Update(ctx, func(tx storage.Tx) error {
		if _, err := tx.AddRecord(models.CompletionRecord{TrackerID: tr.ID, Day: day(2026, 4, 1)}); err != nil {
			return err
		}
		return boom
	})
	if !stderrors.Is(err, boom) {
		t.Fatalf("Update() error = %v, want boom", err)
	}
	if errors.IsStorage(err) {
		t.Error("callback error must not be wrapped as StorageError")
	}
	if called {
		t.Error("observer called for rolled back transaction")
	}

	err = store.View(ctx, func(tx storage.Tx) error {
		ok, err := tx.HasRecord(tr.ID, day(2026, 4, 1))
		if ok {
			t.Error("record persisted despite rollback")
		}
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestCategoryTitleUnique(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	now := time.Now()

	err := store.Update(ctx, func(tx storage.Tx) error {
		if err := tx.InsertCategory(models.Category{ID: "a", Title: "Work", CreatedAt: now}); err != nil {
			return err
		}
		return tx.InsertCategory(models.Category{ID: "b", Title: "Work", CreatedAt: now})
	})
	if !errors.IsStorage(err) {
		t.Fatalf("duplicate title error = %v, want StorageError", err)
	}
}
