package state

import (
	"testing"

	"github.com/julianstephens/trackit/internal/models"
)

func TestTrackerFormModel_Tracker(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(fm *TrackerFormModel)
		wantErr bool
		check   func(t *testing.T, tr models.Tracker, title string)
	}{
		{
			name: "habit",
			mutate: func(fm *TrackerFormModel) {
				fm.Name = "  Read  "
				fm.Category = " Mind "
				fm.Days = []models.WeekDay{models.Wednesday, models.Monday}
				fm.Color = "fd4c49"
			},
			check: func(t *testing.T, tr models.Tracker, title string) {
				if tr.Name != "Read" || title != "Mind" {
					t.Errorf("name=%q title=%q", tr.Name, title)
				}
				if tr.Schedule != models.NewSchedule(models.Monday, models.Wednesday) {
					t.Errorf("schedule = %v", tr.Schedule.Days())
				}
				if tr.Color != "FD4C49" {
					t.Errorf("color = %q", tr.Color)
				}
				if tr.CategoryID != "" {
					t.Errorf("category id should be left to the caller, got %q", tr.CategoryID)
				}
			},
		},
		{
			name: "event ignores selected days",
			mutate: func(fm *TrackerFormModel) {
				fm.Kind = models.KindEvent
				fm.Name = "Dentist"
				fm.Category = "Errands"
				fm.Days = []models.WeekDay{models.Monday}
			},
			check: func(t *testing.T, tr models.Tracker, _ string) {
				if !tr.Schedule.IsEmpty() || !tr.IsIrregular() {
					t.Errorf("event schedule = %v", tr.Schedule.Days())
				}
			},
		},
		{
			name: "habit without days",
			mutate: func(fm *TrackerFormModel) {
				fm.Name = "Read"
				fm.Category = "Mind"
			},
			wantErr: true,
		},
		{
			name: "missing category",
			mutate: func(fm *TrackerFormModel) {
				fm.Name = "Read"
				fm.Days = []models.WeekDay{models.Monday}
			},
			wantErr: true,
		},
		{
			name: "blank name",
			mutate: func(fm *TrackerFormModel) {
				fm.Name = "   "
				fm.Category = "Mind"
				fm.Days = []models.WeekDay{models.Monday}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm := NewTrackerFormModel(models.KindHabit)
			tt.mutate(fm)
			tr, title, err := fm.Tracker()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, tr, title)
			}
		})
	}
}

func TestTrackerFormModelFrom(t *testing.T) {
	tr := models.Tracker{
		ID: "t1", Name: "Run", Kind: models.KindHabit, Emoji: "🙂", Color: "FD4C49",
		Schedule: models.NewSchedule(models.Tuesday), Pinned: true,
	}
	fm := TrackerFormModelFrom(tr, "Health")
	got, title, err := fm.Tracker()
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "t1" || !got.Pinned || title != "Health" || got.Schedule != tr.Schedule {
		t.Errorf("round trip = %+v, %q", got, title)
	}
}
