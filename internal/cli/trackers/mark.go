package trackers

import (
	"github.com/julianstephens/trackit/internal/cli"
	"github.com/julianstephens/trackit/internal/constants"
	"github.com/julianstephens/trackit/internal/errors"
)

// MarkCmd toggles completion of a tracker for one day.
type MarkCmd struct {
	Name string `arg:"" help:"Tracker name or id."`
	Date string `help:"Date in YYYY-MM-DD format, or today/yesterday (default: today)." default:""`
}

func (c *MarkCmd) Run(ctx *cli.Context) error {
	repos, err := ctx.Repos()
	if err != nil {
		return err
	}
	tracker, err := ctx.FindTracker(c.Name)
	if err != nil {
		return err
	}

	day, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}
	if day.After(ctx.Today()) {
		return errors.ErrFutureDay
	}

	done, err := repos.Records.Toggle(ctx.Context(), tracker.ID, day)
	if err != nil {
		return err
	}

	if done {
		ctx.Printf("Marked %s %q for %s\n", tracker.Emoji, tracker.Name, day.Format(constants.DateFormat))
	} else {
		ctx.Printf("Unmarked %s %q for %s\n", tracker.Emoji, tracker.Name, day.Format(constants.DateFormat))
	}
	return nil
}
