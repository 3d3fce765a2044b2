package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/trackit/internal/backup"
	"github.com/julianstephens/trackit/internal/config"
	"github.com/julianstephens/trackit/internal/logger"
	"github.com/julianstephens/trackit/internal/models"
	"github.com/julianstephens/trackit/internal/repository"
	"github.com/julianstephens/trackit/internal/storage"
	"github.com/julianstephens/trackit/internal/utils"
)

// Context is shared by every command. Repositories are opened on first use
// so commands that only touch the store (init, migrate, backup) never load
// the snapshots.
type Context struct {
	Store  storage.Provider
	Config *config.Config
	Out    io.Writer
	In     io.Reader
	// Now is overridden in tests.
	Now func() time.Time

	base  context.Context
	repos *repository.Repositories
}

func NewContext(base context.Context, store storage.Provider, cfg *config.Config) *Context {
	return &Context{
		Store:  store,
		Config: cfg,
		Out:    os.Stdout,
		In:     os.Stdin,
		Now:    time.Now,
		base:   base,
	}
}

// Context returns the context blocking operations should run under.
func (c *Context) Context() context.Context {
	if c.base == nil {
		return context.Background()
	}
	return c.base
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.writer(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.writer(), args...)
}

// Confirm asks a yes/no question and reports whether the answer was yes.
func (c *Context) Confirm(prompt string) (bool, error) {
	c.Printf("%s [y/N]: ", prompt)
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

func (c *Context) writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Repos opens the repositories over the loaded store.
func (c *Context) Repos() (*repository.Repositories, error) {
	if c.repos != nil {
		return c.repos, nil
	}
	repos, err := repository.New(c.Context(), c.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to load trackers: %w", err)
	}
	c.repos = repos
	return repos, nil
}

// Close releases the repositories and the store.
func (c *Context) Close() error {
	if c.repos != nil {
		c.repos.Close()
		c.repos = nil
	}
	return c.Store.Close()
}

// Today is the start of the current day in the store's location.
func (c *Context) Today() time.Time {
	return utils.StartOfDay(c.now(), c.Store.Location())
}

// ResolveDay parses a --date flag value relative to Today.
func (c *Context) ResolveDay(dateStr string) (time.Time, error) {
	return utils.ResolveDay(strings.TrimSpace(dateStr), c.now(), c.Store.Location())
}

func (c *Context) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// ApplySettings points the store at the configured timezone. The persisted
// setting wins over the config file unless it is still "Local".
func (c *Context) ApplySettings() (models.Settings, error) {
	settings, err := c.Store.GetSettings(c.Context())
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	tz := settings.Timezone
	if (tz == "" || tz == "Local") && c.Config != nil && c.Config.Timezone != "" {
		tz = c.Config.Timezone
	}
	loc, err := utils.LoadLocation(tz)
	if err != nil {
		logger.Warn("Falling back to local timezone", "timezone", tz, "error", err)
		loc = time.Local
	}
	c.Store.SetLocation(loc)
	return settings, nil
}

// BackupManager returns nil for stores that are not backed by a local file.
func (c *Context) BackupManager() *backup.Manager {
	path := c.Store.GetConfigPath()
	if IsPostgresTarget(path) {
		return nil
	}
	dir := ""
	if c.Config != nil {
		dir = c.Config.Backup.Dir
	}
	return backup.NewManager(path, dir)
}

// PerformAutomaticBackup takes at most one backup per day and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if c.Config != nil && !c.Config.Backup.Enabled {
		return
	}
	mgr := c.BackupManager()
	if mgr == nil {
		return
	}
	path, err := mgr.EnsureDailyBackup(c.Context())
	if err != nil {
		logger.Warn("Automatic backup failed", "error", err)
		return
	}
	if path != "" {
		logger.Info("Automatic backup created", "path", path)
	}
}

// PinnedTitle is the configured label of the pinned group.
func (c *Context) PinnedTitle() string {
	if c.Config == nil {
		return ""
	}
	return c.Config.View.PinnedTitle
}

// FindTracker resolves a tracker by exact id or case-insensitive name.
func (c *Context) FindTracker(nameOrID string) (models.Tracker, error) {
	repos, err := c.Repos()
	if err != nil {
		return models.Tracker{}, err
	}
	if t, ok := repos.Trackers.Get(nameOrID); ok {
		return t, nil
	}
	if t, ok := repos.Trackers.FindByName(nameOrID); ok {
		return t, nil
	}
	return models.Tracker{}, fmt.Errorf("tracker %q not found", nameOrID)
}

// FindCategory resolves a category by exact id or title.
func (c *Context) FindCategory(titleOrID string) (models.Category, error) {
	repos, err := c.Repos()
	if err != nil {
		return models.Category{}, err
	}
	if cat, ok := repos.Categories.Get(titleOrID); ok {
		return cat, nil
	}
	if cat, ok := repos.Categories.FindByTitle(titleOrID); ok {
		return cat, nil
	}
	return models.Category{}, fmt.Errorf("category %q not found", titleOrID)
}
