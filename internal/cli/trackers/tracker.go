package trackers

import (
	"errors"
	"fmt"

	"github.com/julianstephens/trackit/internal/cli"
	"github.com/julianstephens/trackit/internal/models"
	"github.com/julianstephens/trackit/internal/tui/handlers"
	"github.com/julianstephens/trackit/internal/tui/state"
	"github.com/julianstephens/trackit/internal/validation"
)

type TrackerCmd struct {
	Add    TrackerAddCmd    `cmd:"" help:"Add a new habit or irregular event."`
	Edit   TrackerEditCmd   `cmd:"" help:"Edit an existing tracker."`
	Delete TrackerDeleteCmd `cmd:"" help:"Delete a tracker and its completion history."`
	Pin    TrackerPinCmd    `cmd:"" help:"Pin or unpin a tracker."`
	List   TrackerListCmd   `cmd:"" help:"List all trackers."`
}

type TrackerAddCmd struct {
	Name        string `arg:"" optional:"" help:"Tracker name."`
	Category    string `short:"c" help:"Category title. Created when it does not exist."`
	Schedule    string `short:"s" help:"Days for a habit: mon,wed,fri, weekdays or daily." default:"daily"`
	Event       bool   `help:"Create an irregular event (no schedule)."`
	Emoji       string `help:"Emoji from the palette." default:"🙂"`
	Color       string `help:"Color from the palette as hex." default:"FD4C49"`
	Pin         bool   `help:"Pin the tracker."`
	Interactive bool   `short:"i" help:"Fill in the tracker with an interactive form."`
}

func (c *TrackerAddCmd) Run(ctx *cli.Context) error {
	repos, err := ctx.Repos()
	if err != nil {
		return err
	}

	fm, err := c.formModel(ctx)
	if err != nil {
		return err
	}
	tracker, title, err := fm.Tracker()
	if err != nil {
		return err
	}

	if _, exists := repos.Trackers.FindByName(tracker.Name); exists {
		return fmt.Errorf("tracker %q already exists", tracker.Name)
	}

	category, err := repos.Categories.GetOrCreate(ctx.Context(), title)
	if err != nil {
		return err
	}
	created, err := repos.Trackers.Add(ctx.Context(), tracker, category.ID)
	if err != nil {
		return err
	}

	ctx.Printf("Added %s %s %q to %s (%s)\n", kindLabel(created.Kind), created.Emoji, created.Name, category.Title, validation.FormatSchedule(created.Schedule))
	return nil
}

func (c *TrackerAddCmd) formModel(ctx *cli.Context) (*state.TrackerFormModel, error) {
	kind := models.KindHabit
	if c.Event {
		kind = models.KindEvent
	}

	if c.Interactive || c.Name == "" {
		fm := state.NewTrackerFormModel(kind)
		fm.Name = c.Name
		fm.Category = c.Category
		fm.Pinned = c.Pin
		if err := runForm(ctx, fm); err != nil {
			return nil, err
		}
		return fm, nil
	}

	if c.Category == "" {
		return nil, errors.New("--category is required (or use --interactive)")
	}

	fm := state.NewTrackerFormModel(kind)
	fm.Name = c.Name
	fm.Category = c.Category
	fm.Emoji = c.Emoji
	fm.Color = c.Color
	fm.Pinned = c.Pin
	if kind == models.KindHabit {
		schedule, err := models.ParseSchedule(c.Schedule)
		if err != nil {
			return nil, err
		}
		fm.Days = schedule.Days()
	}
	return fm, nil
}

type TrackerEditCmd struct {
	Tracker     string  `arg:"" help:"Tracker name or id."`
	Name        *string `help:"New name."`
	Category    *string `short:"c" help:"Move to this category. Created when it does not exist."`
	Schedule    *string `short:"s" help:"New schedule for a habit."`
	Emoji       *string `help:"New emoji."`
	Color       *string `help:"New color."`
	Interactive bool    `short:"i" help:"Edit the tracker with an interactive form."`
}

func (c *TrackerEditCmd) Run(ctx *cli.Context) error {
	repos, err := ctx.Repos()
	if err != nil {
		return err
	}
	existing, err := ctx.FindTracker(c.Tracker)
	if err != nil {
		return err
	}

	categoryTitle := ""
	if cat, ok := repos.Categories.Get(existing.CategoryID); ok {
		categoryTitle = cat.Title
	}
	fm := state.TrackerFormModelFrom(existing, categoryTitle)

	if c.Interactive {
		if err := runForm(ctx, fm); err != nil {
			return err
		}
	} else {
		changed := false
		if c.Name != nil {
			fm.Name = *c.Name
			changed = true
		}
		if c.Category != nil {
			fm.Category = *c.Category
			changed = true
		}
		if c.Schedule != nil {
			if existing.Kind == models.KindEvent {
				return errors.New("an irregular event cannot have a schedule")
			}
			schedule, err := models.ParseSchedule(*c.Schedule)
			if err != nil {
				return err
			}
			fm.Days = schedule.Days()
			changed = true
		}
		if c.Emoji != nil {
			fm.Emoji = *c.Emoji
			changed = true
		}
		if c.Color != nil {
			fm.Color = *c.Color
			changed = true
		}
		if !changed {
			ctx.Println("No changes specified. Use flags or --interactive to edit the tracker.")
			return nil
		}
	}

	tracker, title, err := fm.Tracker()
	if err != nil {
		return err
	}
	if other, exists := repos.Trackers.FindByName(tracker.Name); exists && other.ID != existing.ID {
		return fmt.Errorf("tracker %q already exists", tracker.Name)
	}

	category, err := repos.Categories.GetOrCreate(ctx.Context(), title)
	if err != nil {
		return err
	}
	if err := repos.Trackers.Update(ctx.Context(), tracker, category.ID); err != nil {
		return err
	}

	ctx.Printf("Updated %q\n", tracker.Name)
	return nil
}

type TrackerDeleteCmd struct {
	Tracker string `arg:"" help:"Tracker name or id."`
}

func (c *TrackerDeleteCmd) Run(ctx *cli.Context) error {
	repos, err := ctx.Repos()
	if err != nil {
		return err
	}
	tracker, err := ctx.FindTracker(c.Tracker)
	if err != nil {
		return err
	}

	records := 0
	for _, r := range repos.Records.List() {
		if r.TrackerID == tracker.ID {
			records++
		}
	}

	if err := repos.Trackers.Delete(ctx.Context(), tracker.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted %q and %d completion record(s)\n", tracker.Name, records)
	return nil
}

type TrackerPinCmd struct {
	Tracker string `arg:"" help:"Tracker name or id."`
}

func (c *TrackerPinCmd) Run(ctx *cli.Context) error {
	repos, err := ctx.Repos()
	if err != nil {
		return err
	}
	tracker, err := ctx.FindTracker(c.Tracker)
	if err != nil {
		return err
	}
	if err := repos.Trackers.TogglePin(ctx.Context(), tracker.ID); err != nil {
		return err
	}
	if tracker.Pinned {
		ctx.Printf("Unpinned %q\n", tracker.Name)
	} else {
		ctx.Printf("Pinned %q\n", tracker.Name)
	}
	return nil
}

type TrackerListCmd struct {
	Category string `short:"c" help:"Only list trackers in this category."`
}

func (c *TrackerListCmd) Run(ctx *cli.Context) error {
	repos, err := ctx.Repos()
	if err != nil {
		return err
	}

	categoryID := ""
	if c.Category != "" {
		cat, err := ctx.FindCategory(c.Category)
		if err != nil {
			return err
		}
		categoryID = cat.ID
	}

	counts := make(map[string]int)
	for _, r := range repos.Records.List() {
		counts[r.TrackerID]++
	}

	listed := 0
	for _, t := range repos.Trackers.List() {
		if categoryID != "" && t.CategoryID != categoryID {
			continue
		}
		title := "?"
		if cat, ok := repos.Categories.Get(t.CategoryID); ok {
			title = cat.Title
		}
		pin := " "
		if t.Pinned {
			pin = "*"
		}
		ctx.Printf("%s %s %-38s  %-6s  %-28s  %-20s  %s\n", pin, t.Emoji, t.Name, t.Kind, validation.FormatSchedule(t.Schedule), title, pluralDays(counts[t.ID]))
		listed++
	}

	if listed == 0 {
		ctx.Println("No trackers found.")
	}
	return nil
}

// runForm shows the interactive tracker form with existing categories as suggestions.
func runForm(ctx *cli.Context, fm *state.TrackerFormModel) error {
	repos, err := ctx.Repos()
	if err != nil {
		return err
	}
	var titles []string
	for _, cat := range repos.Categories.List() {
		titles = append(titles, cat.Title)
	}
	if err := handlers.NewTrackerForm(fm, titles).Run(); err != nil {
		return fmt.Errorf("form cancelled: %w", err)
	}
	return nil
}

func kindLabel(k models.TrackerKind) string {
	if k == models.KindEvent {
		return "event"
	}
	return "habit"
}

// pluralDays renders a completion count the way the day view shows it.
func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
