package system

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/julianstephens/trackit/internal/cli"
	"github.com/julianstephens/trackit/internal/migration"
	"github.com/julianstephens/trackit/internal/models"
	"github.com/julianstephens/trackit/internal/storage"
	"github.com/julianstephens/trackit/internal/storage/postgres"
	"github.com/julianstephens/trackit/internal/validation"
	"github.com/julianstephens/trackit/migrations"
)

type DoctorCmd struct{}

type check struct {
	name string
	// needsDB checks are skipped when the database is unreachable.
	needsDB bool
	// warnOnly failures are reported without failing the command.
	warnOnly bool
	run      func(*cli.Context, *dataset) error
}

// dataset is read once and shared by the data checks.
type dataset struct {
	categories []models.Category
	trackers   []models.Tracker
	records    []models.CompletionRecord
}

var checks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Settings", needsDB: true, run: checkSettings},
	{name: "Data validation", needsDB: true, run: checkValidation},
	{name: "Duplicate records", needsDB: true, run: checkDuplicateRecords},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	data, err := loadDataset(ctx)
	if err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && data == nil {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx, data)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func loadDataset(ctx *cli.Context) (*dataset, error) {
	if err := ctx.Store.Load(ctx.Context()); err != nil {
		return nil, fmt.Errorf("failed to load database: %w", err)
	}
	data := &dataset{}
	err := ctx.Store.View(ctx.Context(), func(tx storage.Tx) error {
		var err error
		if data.categories, err = tx.ListCategories(); err != nil {
			return err
		}
		if data.trackers, err = tx.ListTrackers(); err != nil {
			return err
		}
		data.records, err = tx.ListRecords(storage.RecordFilter{})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query database: %w", err)
	}
	return data, nil
}

// latestVersion reads the newest embedded migration for the store's dialect.
func latestVersion(store storage.Provider) (int, error) {
	dir := "sqlite"
	if _, ok := store.(*postgres.Store); ok {
		dir = "postgres"
	}
	sub, err := fs.Sub(migrations.FS, dir)
	if err != nil {
		return 0, err
	}
	return migration.NewRunner(nil, sub).GetLatestVersion()
}

func checkSchemaVersion(ctx *cli.Context, _ *dataset) error {
	current, err := ctx.Store.SchemaVersion(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	latest, err := latestVersion(ctx.Store)
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}
	switch {
	case current > latest:
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	case current < latest:
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'trackit migrate')", current, latest)
	}
	return nil
}

func checkSettings(ctx *cli.Context, _ *dataset) error {
	if _, err := ctx.Store.GetSettings(ctx.Context()); err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return nil
}

func checkValidation(_ *cli.Context, data *dataset) error {
	result := validation.New().Validate(data.categories, data.trackers, data.records)
	if result.HasConflicts() {
		return errors.New(result.FormatReport())
	}
	return nil
}

func checkDuplicateRecords(_ *cli.Context, data *dataset) error {
	seen := make(map[string]bool, len(data.records))
	for _, r := range data.records {
		key := r.TrackerID + "/" + r.DayKey()
		if seen[key] {
			return fmt.Errorf("duplicate completion record for tracker %s on %s", r.TrackerID, r.DayKey())
		}
		seen[key] = true
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context, _ *dataset) error {
	now := time.Now()
	if ctx.Now != nil {
		now = ctx.Now()
	}
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if ctx.Store.Location() == nil {
		return errors.New("no timezone configured")
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context, _ *dataset) error {
	mgr := ctx.BackupManager()
	if mgr == nil {
		return errors.New("automatic backups are not available for PostgreSQL; use pg_dump")
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found - consider creating one with 'trackit backup create'")
	}
	return nil
}
