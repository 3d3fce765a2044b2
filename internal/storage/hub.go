package storage

import (
	"sync"

	"github.com/julianstephens/trackit/internal/models"
)

// Hub fans committed changes out to observers of each entity kind.
// Delivery is synchronous; observers must not call Observe from inside
// a callback.
type Hub struct {
	mu        sync.RWMutex
	nextID    int
	observers map[models.EntityKind]map[int]func([]models.Change)
}

func NewHub() *Hub {
	return &Hub{observers: make(map[models.EntityKind]map[int]func([]models.Change))}
}

// Observe registers fn and returns a function that removes it.
func (h *Hub) Observe(kind models.EntityKind, fn func([]models.Change)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	if h.observers[kind] == nil {
		h.observers[kind] = make(map[int]func([]models.Change))
	}
	h.observers[kind][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.observers[kind], id)
			h.mu.Unlock()
		})
	}
}

// Publish groups changes by kind, keeping their order, and calls each
// kind's observers once in registration order. Kinds are delivered
// categories first, then trackers, then records.
func (h *Hub) Publish(changes []models.Change) {
	if len(changes) == 0 {
		return
	}

	byKind := make(map[models.EntityKind][]models.Change)
	for _, c := range changes {
		byKind[c.Kind] = append(byKind[c.Kind], c)
	}

	for _, kind := range []models.EntityKind{models.EntityCategory, models.EntityTracker, models.EntityRecord} {
		batch := byKind[kind]
		if len(batch) == 0 {
			continue
		}
		for _, fn := range h.snapshot(kind) {
			fn(batch)
		}
	}
}

func (h *Hub) snapshot(kind models.EntityKind) []func([]models.Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	subs := h.observers[kind]
	ids := make([]int, 0, len(subs))
	for id := range subs {
		ids = append(ids, id)
	}
	// map iteration is random; keep registration order
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}

	fns := make([]func([]models.Change), len(ids))
	for i, id := range ids {
		fns[i] = subs[id]
	}
	return fns
}

// ChangeLog collects the changes made inside one transaction.
type ChangeLog struct {
	changes []models.Change
}

func (l *ChangeLog) Record(kind models.EntityKind, op models.ChangeOp, id string) {
	l.changes = append(l.changes, models.Change{Kind: kind, Op: op, ID: id})
}

func (l *ChangeLog) Changes() []models.Change {
	return l.changes
}
