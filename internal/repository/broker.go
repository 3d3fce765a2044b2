package repository

import (
	"sort"
	"sync"

	"github.com/julianstephens/trackit/internal/models"
)

// Event tells subscribers that a repository's snapshot changed. By the
// time it is delivered, List already returns the new contents.
type Event struct {
	Kind    models.EntityKind
	Changes []models.Change
}

// Broker delivers events synchronously to subscribers in registration
// order. A subscriber must not mutate the repository that notified it
// from inside the callback.
type Broker struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
}

func newBroker() *Broker {
	return &Broker{subs: make(map[int]func(Event))}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Broker) Subscribe(fn func(Event)) (cancel func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

func (b *Broker) publish(ev Event) {
	// snapshot under the lock, dispatch after releasing it
	b.mu.RLock()
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Event), len(ids))
	for i, id := range ids {
		fns[i] = b.subs[id]
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// snapshot is an RWMutex-guarded copy of one collection. Reloads are
// serialised by loadMu so a slow reader cannot overwrite a newer copy.
type snapshot[T any] struct {
	mu     sync.RWMutex
	loadMu sync.Mutex
	items  []T
}

// reload runs load and stores its result while holding loadMu across both
// steps.
func (s *snapshot[T]) reload(load func() ([]T, error)) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	items, err := load()
	if err != nil {
		return err
	}
	s.set(items)
	return nil
}

func (s *snapshot[T]) get() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

func (s *snapshot[T]) set(items []T) {
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}
