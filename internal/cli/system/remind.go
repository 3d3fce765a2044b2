package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/trackit/internal/cli"
	"github.com/julianstephens/trackit/internal/constants"
	"github.com/julianstephens/trackit/internal/logger"
	"github.com/julianstephens/trackit/internal/models"
	"github.com/julianstephens/trackit/internal/notifier"
	"github.com/julianstephens/trackit/internal/view"
)

// RemindCmd sends a desktop reminder listing today's open trackers.
type RemindCmd struct {
	DryRun bool `help:"Print the reminder instead of sending it."`
}

// notify is replaced in tests.
var notify = func(ctx *cli.Context, text string) error {
	return notifier.New().Notify(ctx.Context(), constants.AppName, text)
}

func (c *RemindCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !settings.NotificationsEnabled {
		if c.DryRun {
			ctx.Println("Notifications are disabled in settings.")
		}
		return nil
	}

	repos, err := ctx.Repos()
	if err != nil {
		return err
	}
	groups := view.Compute(view.Snapshot{
		Categories: repos.Categories.List(),
		Trackers:   repos.Trackers.List(),
		Records:    repos.Records.List(),
	}, view.Query{Date: ctx.Today(), Filter: models.FilterIncomplete})

	msg := reminderText(groups)
	if msg == "" {
		if c.DryRun {
			ctx.Println("Nothing left to do today.")
		}
		return nil
	}

	if c.DryRun {
		ctx.Println("[DryRun] " + msg)
		return nil
	}
	if err := notify(ctx, msg); err != nil {
		if errors.Is(err, notifier.ErrTrayNotRunning) {
			logger.Debug("Skipping reminder", "reason", err)
			return nil
		}
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	return nil
}

// reminderText lists habits due today that are still open. Irregular
// events are left out; they are not due on any particular day.
func reminderText(groups []view.Group) string {
	var names []string
	seen := make(map[string]bool)
	for _, g := range groups {
		for _, t := range g.Trackers {
			if t.IsIrregular() || seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			names = append(names, t.Emoji+" "+t.Name)
		}
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return "1 tracker left today: " + names[0]
	default:
		return fmt.Sprintf("%d trackers left today: %s", len(names), strings.Join(names, ", "))
	}
}
