package trackers

import (
	"bytes"
	"context"
	stderrors "errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/trackit/internal/cli"
	"github.com/julianstephens/trackit/internal/errors"
	"github.com/julianstephens/trackit/internal/models"
	"github.com/julianstephens/trackit/internal/storage/sqlite"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	store.SetLocation(time.UTC)

	ctx := cli.NewContext(context.Background(), store, nil)
	out := &bytes.Buffer{}
	ctx.Out = out
	ctx.Now = func() time.Time { return time.Date(2024, 3, 13, 9, 30, 0, 0, time.UTC) }
	t.Cleanup(func() {
		if err := ctx.Close(); err != nil {
			t.Errorf("failed to close context: %v", err)
		}
	})
	return ctx, out
}

func TestTrackerAddCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	cmd := &TrackerAddCmd{Name: "  Read  ", Category: "Mind", Schedule: "mon,wed", Emoji: "🙂", Color: "#fd4c49"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	repos, err := ctx.Repos()
	if err != nil {
		t.Fatal(err)
	}
	tracker, ok := repos.Trackers.FindByName("Read")
	if !ok {
		t.Fatal("tracker not found after add")
	}
	if tracker.Color != "FD4C49" {
		t.Errorf("Color = %q, want normalised FD4C49", tracker.Color)
	}
	if want := models.NewSchedule(models.Monday, models.Wednesday); tracker.Schedule != want {
		t.Errorf("Schedule = %v, want %v", tracker.Schedule, want)
	}
	cat, ok := repos.Categories.Get(tracker.CategoryID)
	if !ok || cat.Title != "Mind" {
		t.Errorf("category = %+v, want Mind", cat)
	}
	if !strings.Contains(out.String(), "Mon, Wed") {
		t.Errorf("output %q does not mention the schedule", out.String())
	}

	if err := cmd.Run(ctx); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second add error = %v, want duplicate error", err)
	}
}

func TestTrackerAddCmdValidation(t *testing.T) {
	tests := []struct {
		name string
		cmd  TrackerAddCmd
	}{
		{name: "missing category", cmd: TrackerAddCmd{Name: "Run", Schedule: "daily", Emoji: "🙂", Color: "FD4C49"}},
		{name: "name too long", cmd: TrackerAddCmd{Name: strings.Repeat("x", 39), Category: "A", Schedule: "daily", Emoji: "🙂", Color: "FD4C49"}},
		{name: "emoji not in palette", cmd: TrackerAddCmd{Name: "Run", Category: "A", Schedule: "daily", Emoji: "🚀", Color: "FD4C49"}},
		{name: "color not in palette", cmd: TrackerAddCmd{Name: "Run", Category: "A", Schedule: "daily", Emoji: "🙂", Color: "000000"}},
		{name: "habit without days", cmd: TrackerAddCmd{Name: "Run", Category: "A", Schedule: "", Emoji: "🙂", Color: "FD4C49"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := setupTestContext(t)
			if err := tt.cmd.Run(ctx); err == nil {
				t.Fatal("expected an error")
			}
			repos, _ := ctx.Repos()
			if n := len(repos.Trackers.List()); n != 0 {
				t.Errorf("%d trackers stored after a rejected add", n)
			}
		})
	}
}

func TestTrackerAddEvent(t *testing.T) {
	ctx, _ := setupTestContext(t)

	cmd := &TrackerAddCmd{Name: "Dentist", Category: "Health", Schedule: "daily", Event: true, Emoji: "😱", Color: "FF881E"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	tracker, err := ctx.FindTracker("dentist")
	if err != nil {
		t.Fatal(err)
	}
	if tracker.Kind != models.KindEvent || !tracker.IsIrregular() {
		t.Errorf("tracker = %+v, want an irregular event", tracker)
	}
}

func TestTrackerEditPreservesPin(t *testing.T) {
	ctx, _ := setupTestContext(t)

	add := &TrackerAddCmd{Name: "Run", Category: "Health", Schedule: "daily", Emoji: "🙂", Color: "FD4C49", Pin: true}
	if err := add.Run(ctx); err != nil {
		t.Fatal(err)
	}

	newName := "Morning run"
	newCategory := "Sport"
	edit := &TrackerEditCmd{Tracker: "Run", Name: &newName, Category: &newCategory}
	if err := edit.Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	tracker, err := ctx.FindTracker("Morning run")
	if err != nil {
		t.Fatal(err)
	}
	if !tracker.Pinned {
		t.Error("edit dropped the pin")
	}
	cat, err := ctx.FindCategory("Sport")
	if err != nil {
		t.Fatal(err)
	}
	if tracker.CategoryID != cat.ID {
		t.Errorf("CategoryID = %q, want %q", tracker.CategoryID, cat.ID)
	}
}

func TestTrackerEditRejectsScheduleOnEvent(t *testing.T) {
	ctx, _ := setupTestContext(t)

	add := &TrackerAddCmd{Name: "Trip", Category: "Fun", Event: true, Emoji: "🏝", Color: "007BFA"}
	if err := add.Run(ctx); err != nil {
		t.Fatal(err)
	}
	schedule := "mon"
	if err := (&TrackerEditCmd{Tracker: "Trip", Schedule: &schedule}).Run(ctx); err == nil {
		t.Error("expected an error when scheduling an event")
	}
}

func TestTrackerEditRenameIgnoresCase(t *testing.T) {
	ctx, _ := setupTestContext(t)

	for _, name := range []string{"Run", "Swim"} {
		add := &TrackerAddCmd{Name: name, Category: "Health", Schedule: "daily", Emoji: "🙂", Color: "FD4C49"}
		if err := add.Run(ctx); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name    string
		rename  string
		wantErr bool
	}{
		{"clashes with another tracker", "run", true},
		{"exact clash", "Run", true},
		{"recasing itself", "SWIM", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker, err := ctx.FindTracker("swim")
			if err != nil {
				t.Fatal(err)
			}
			newName := tt.rename
			err = (&TrackerEditCmd{Tracker: tracker.ID, Name: &newName}).Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("rename to %q error = %v, wantErr %v", tt.rename, err, tt.wantErr)
			}
		})
	}

	run, err := ctx.FindTracker("Run")
	if err != nil {
		t.Fatal(err)
	}
	if run.Name != "Run" {
		t.Errorf("Run tracker renamed to %q", run.Name)
	}
}

func TestTrackerPinAndDelete(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&TrackerAddCmd{Name: "Run", Category: "Health", Schedule: "daily", Emoji: "🙂", Color: "FD4C49"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&TrackerPinCmd{Tracker: "Run"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	tracker, _ := ctx.FindTracker("Run")
	if !tracker.Pinned {
		t.Error("tracker not pinned")
	}

	for _, date := range []string{"2024-03-12", "2024-03-13"} {
		if err := (&MarkCmd{Name: "Run", Date: date}).Run(ctx); err != nil {
			t.Fatal(err)
		}
	}

	out.Reset()
	if err := (&TrackerDeleteCmd{Tracker: "Run"}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !strings.Contains(out.String(), "2 completion record(s)") {
		t.Errorf("output = %q, want record count", out.String())
	}

	repos, _ := ctx.Repos()
	if len(repos.Trackers.List()) != 0 || len(repos.Records.List()) != 0 {
		t.Error("delete left trackers or records behind")
	}
}

func TestMarkCmdToggles(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&TrackerAddCmd{Name: "Run", Category: "Health", Schedule: "daily", Emoji: "🙂", Color: "FD4C49"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	mark := &MarkCmd{Name: "Run"}
	if err := mark.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Marked") || !strings.Contains(out.String(), "2024-03-13") {
		t.Errorf("output = %q, want Marked for today", out.String())
	}

	out.Reset()
	if err := mark.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Unmarked") {
		t.Errorf("output = %q, want Unmarked", out.String())
	}

	repos, _ := ctx.Repos()
	if n := len(repos.Records.List()); n != 0 {
		t.Errorf("%d records after toggling twice, want 0", n)
	}
}

func TestMarkCmdRejectsFuture(t *testing.T) {
	ctx, _ := setupTestContext(t)

	if err := (&TrackerAddCmd{Name: "Run", Category: "Health", Schedule: "daily", Emoji: "🙂", Color: "FD4C49"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	err := (&MarkCmd{Name: "Run", Date: "tomorrow"}).Run(ctx)
	if !stderrors.Is(err, errors.ErrFutureDay) {
		t.Errorf("mark tomorrow error = %v, want ErrFutureDay", err)
	}
}

func TestMarkCmdUnknownTracker(t *testing.T) {
	ctx, _ := setupTestContext(t)
	if err := (&MarkCmd{Name: "nope"}).Run(ctx); err == nil {
		t.Error("expected not found error")
	}
}
