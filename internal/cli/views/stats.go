package views

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/trackit/internal/cli"
	"github.com/julianstephens/trackit/internal/constants"
	"github.com/julianstephens/trackit/internal/stats"
	"github.com/julianstephens/trackit/internal/utils"
)

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	repos, err := ctx.Repos()
	if err != nil {
		return err
	}

	summary := stats.Compute(repos.Trackers.List(), repos.Records.List())
	if summary.TotalCompletions == 0 {
		ctx.Println("Nothing to analyze yet. Mark a tracker done to start collecting statistics.")
		return nil
	}

	ctx.Printf("%-24s %s\n", "Best streak:", pluralize(summary.BestStreakDays, "day"))
	ctx.Printf("%-24s %s\n", "Perfect days:", humanize.Comma(int64(summary.PerfectDays)))
	ctx.Printf("%-24s %s\n", "Trackers completed:", humanize.Comma(int64(summary.TotalCompletions)))
	ctx.Printf("%-24s %s\n", "Average per active day:", humanize.FtoaWithDigits(summary.AveragePerActiveDay, 2))

	last := summary.LastActiveDay
	ctx.Printf("%-24s %s (%s)\n", "Last active:", last.Format(constants.DateFormat), relativeDay(ctx.Today(), last))
	return nil
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return humanize.Comma(int64(n)) + " " + unit + "s"
}

// relativeDay phrases a calendar day relative to today.
func relativeDay(today, day time.Time) string {
	switch {
	case utils.SameDay(day, today):
		return "today"
	case utils.SameDay(day, utils.AddDays(today, -1)):
		return "yesterday"
	}
	return humanize.RelTime(day, today, "ago", "from now")
}
