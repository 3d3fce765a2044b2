package storage

import (
	"testing"

	"github.com/julianstephens/trackit/internal/models"
)

func TestHubPublishGroupsByKind(t *testing.T) {
	hub := NewHub()

	var order []string
	hub.Observe(models.EntityRecord, func(changes []models.Change) {
		order = append(order, "records")
		if len(changes) != 2 {
			t.Errorf("record batch size = %d, want 2", len(changes))
		}
	})
	hub.Observe(models.EntityTracker, func(changes []models.Change) {
		order = append(order, "trackers")
		if changes[0].Op != models.OpDelete {
			t.Errorf("tracker op = %s, want delete", changes[0].Op)
		}
	})

	var log ChangeLog
	log.Record(models.EntityRecord, models.OpDelete, "a")
	log.Record(models.EntityRecord, models.OpDelete, "b")
	log.Record(models.EntityTracker, models.OpDelete, "t")
	hub.Publish(log.Changes())

	if len(order) != 2 || order[0] != "trackers" || order[1] != "records" {
		t.Errorf("delivery order = %v, want [trackers records]", order)
	}
}

func TestHubRegistrationOrderAndCancel(t *testing.T) {
	hub := NewHub()

	var got []int
	for i := 0; i < 5; i++ {
		i := i
		cancel := hub.Observe(models.EntityCategory, func([]models.Change) { got = append(got, i) })
		if i == 2 {
			cancel()
			cancel() // idempotent
		}
	}

	hub.Publish([]models.Change{{Kind: models.EntityCategory, Op: models.OpCreate, ID: "c"}})

	want := []int{0, 1, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestHubPublishEmpty(t *testing.T) {
	hub := NewHub()
	called := false
	hub.Observe(models.EntityTracker, func([]models.Change) { called = true })
	hub.Publish(nil)
	if called {
		t.Error("observer called for empty publish")
	}
}
