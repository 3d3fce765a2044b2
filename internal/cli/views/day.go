package views

import (
	"fmt"

	"github.com/julianstephens/trackit/internal/cli"
	"github.com/julianstephens/trackit/internal/models"
	"github.com/julianstephens/trackit/internal/validation"
	"github.com/julianstephens/trackit/internal/view"
)

// DayCmd prints the grouped tracker list for one day.
type DayCmd struct {
	Date   string `help:"Date in YYYY-MM-DD format, or today/yesterday/tomorrow (default: today)." default:""`
	Search string `short:"s" help:"Only show trackers whose name contains this text."`
	Filter string `short:"f" help:"Completion filter: all, today, completed or incomplete (default: saved setting)."`
	Save   bool   `help:"Remember --filter for later sessions."`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	repos, err := ctx.Repos()
	if err != nil {
		return err
	}

	filter, err := c.resolveFilter(ctx)
	if err != nil {
		return err
	}

	day, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}
	if filter == models.FilterToday {
		day = ctx.Today()
	}

	groups := view.Compute(view.Snapshot{
		Categories: repos.Categories.List(),
		Trackers:   repos.Trackers.List(),
		Records:    repos.Records.List(),
	}, view.Query{
		Date:        day,
		Search:      c.Search,
		Filter:      filter,
		PinnedTitle: ctx.PinnedTitle(),
	})

	ctx.Printf("%s  (filter: %s)\n", day.Format("Monday, January 2 2006"), filter)
	if len(groups) == 0 {
		ctx.Println()
		if c.Search != "" {
			ctx.Println("Nothing found.")
		} else {
			ctx.Println("What are we tracking? Add one with 'trackit tracker add'.")
		}
		return nil
	}

	index := view.NewRecordIndex(repos.Records.List())
	future := day.After(ctx.Today())
	for _, g := range groups {
		ctx.Println()
		ctx.Println(g.Title)
		for _, t := range g.Trackers {
			ctx.Printf("  %s %s %-38s  %-8s  %s\n", checkbox(index.Done(t.ID, day), future), t.Emoji, t.Name, daysLabel(index.Count(t.ID)), scheduleLabel(t))
		}
	}
	return nil
}

func (c *DayCmd) resolveFilter(ctx *cli.Context) (models.TrackerFilter, error) {
	settings, err := ctx.Store.GetSettings(ctx.Context())
	if err != nil {
		return "", fmt.Errorf("failed to get settings: %w", err)
	}
	if c.Filter == "" {
		return settings.Filter, nil
	}

	filter, err := models.ParseTrackerFilter(c.Filter)
	if err != nil {
		return "", err
	}
	if c.Save && filter != settings.Filter {
		settings.Filter = filter
		if err := ctx.Store.SaveSettings(ctx.Context(), settings); err != nil {
			return "", fmt.Errorf("failed to save settings: %w", err)
		}
	}
	return filter, nil
}

func checkbox(done, future bool) string {
	switch {
	case future:
		return "[-]"
	case done:
		return "[x]"
	default:
		return "[ ]"
	}
}

func daysLabel(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func scheduleLabel(t models.Tracker) string {
	if t.IsIrregular() {
		return "irregular"
	}
	return validation.FormatSchedule(t.Schedule)
}
