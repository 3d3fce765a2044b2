package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/trackit/internal/cli"
	"github.com/julianstephens/trackit/internal/models"
	"github.com/julianstephens/trackit/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Delete the existing SQLite database before initializing."`
	Source string `help:"Database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(ctx.Context()); err != nil {
		return err
	}
	ctx.Printf("Initialized trackit storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyFrom(ctx); err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		ctx.Println("Copy completed successfully!")
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	dbPath := ctx.Store.GetConfigPath()
	if cli.IsPostgresTarget(dbPath) {
		return fmt.Errorf("--force only applies to SQLite databases")
	}
	if c.Source != "" {
		absDB, errDB := filepath.Abs(dbPath)
		absSrc, errSrc := filepath.Abs(c.Source)
		if errDB == nil && errSrc == nil && absDB == absSrc {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	if err := ctx.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("failed to delete existing database: %w", err)
	}
	ctx.Printf("Deleted existing database at: %s\n", dbPath)
	return nil
}

// copyFrom reads every entity from the source and writes it to the
// destination in one transaction, preserving ids.
func (c *InitCmd) copyFrom(ctx *cli.Context) error {
	source, err := cli.NewStore(c.Source)
	if err != nil {
		return err
	}
	if err := source.Load(ctx.Context()); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()
	source.SetLocation(ctx.Store.Location())

	settings, err := source.GetSettings(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}

	var (
		categories []models.Category
		trackers   []models.Tracker
		records    []models.CompletionRecord
	)
	err = source.View(ctx.Context(), func(tx storage.Tx) error {
		var err error
		if categories, err = tx.ListCategories(); err != nil {
			return err
		}
		if trackers, err = tx.ListTrackers(); err != nil {
			return err
		}
		records, err = tx.ListRecords(storage.RecordFilter{})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to read source database: %w", err)
	}

	err = ctx.Store.Update(ctx.Context(), func(tx storage.Tx) error {
		for _, cat := range categories {
			if err := tx.InsertCategory(cat); err != nil {
				return fmt.Errorf("category %q: %w", cat.Title, err)
			}
		}
		for _, t := range trackers {
			if err := tx.InsertTracker(t); err != nil {
				return fmt.Errorf("tracker %q: %w", t.Name, err)
			}
		}
		for _, r := range records {
			if _, err := tx.AddRecord(r); err != nil {
				return fmt.Errorf("record %s/%s: %w", r.TrackerID, r.DayKey(), err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := ctx.Store.SaveSettings(ctx.Context(), settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	ctx.Printf("  Copied %d categories, %d trackers, %d completion records\n", len(categories), len(trackers), len(records))
	return nil
}
