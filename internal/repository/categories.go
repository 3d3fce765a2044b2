package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/trackit/internal/errors"
	"github.com/julianstephens/trackit/internal/logger"
	"github.com/julianstephens/trackit/internal/models"
	"github.com/julianstephens/trackit/internal/storage"
)

// CategoryRepository owns the canonical list of categories.
type CategoryRepository struct {
	store  storage.Provider
	mu     sync.Mutex
	cache  snapshot[models.Category]
	broker *Broker
	cancel func()
	now    func() time.Time
}

func NewCategoryRepository(ctx context.Context, store storage.Provider) (*CategoryRepository, error) {
	r := &CategoryRepository{
		store:  store,
		broker: newBroker(),
		now:    time.Now,
	}
	if err := r.Refresh(ctx); err != nil {
		return nil, err
	}
	r.cancel = store.Observe(models.EntityCategory, r.onChange)
	return r, nil
}

func (r *CategoryRepository) onChange(changes []models.Change) {
	if err := r.Refresh(context.Background()); err != nil {
		logger.Error("Failed to reload categories", "error", err)
	}
	r.broker.publish(Event{Kind: models.EntityCategory, Changes: changes})
}

// Refresh reloads the snapshot from the store.
func (r *CategoryRepository) Refresh(ctx context.Context) error {
	return r.cache.reload(func() ([]models.Category, error) {
		var categories []models.Category
		err := r.store.View(ctx, func(tx storage.Tx) error {
			var err error
			categories, err = tx.ListCategories()
			return err
		})
		if err != nil {
			return nil, err
		}
		sort.SliceStable(categories, func(i, j int) bool { return categories[i].Title < categories[j].Title })
		return categories, nil
	})
}

// List returns the categories sorted by title.
func (r *CategoryRepository) List() []models.Category {
	return r.cache.get()
}

func (r *CategoryRepository) Get(id string) (models.Category, bool) {
	for _, c := range r.cache.get() {
		if c.ID == id {
			return c, true
		}
	}
	return models.Category{}, false
}

func (r *CategoryRepository) FindByTitle(title string) (models.Category, bool) {
	for _, c := range r.cache.get() {
		if c.Title == title {
			return c, true
		}
	}
	return models.Category{}, false
}

func (r *CategoryRepository) Subscribe(fn func(Event)) func() {
	return r.broker.Subscribe(fn)
}

// GetOrCreate returns the category titled title, creating it first when
// none exists. Calling it twice with the same title yields the same id.
func (r *CategoryRepository) GetOrCreate(ctx context.Context, title string) (models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result models.Category
	err := r.store.Update(ctx, func(tx storage.Tx) error {
		existing, found, err := tx.FindCategoryByTitle(title)
		if err != nil {
			return err
		}
		if found {
			result = existing
			return nil
		}
		result = models.Category{ID: uuid.NewString(), Title: title, CreatedAt: r.now().UTC().Truncate(time.Second)}
		return tx.InsertCategory(result)
	})
	if err != nil {
		logger.Error("Failed to get or create category", "title", title, "error", err)
		return models.Category{}, errors.Storage("get or create category", err)
	}
	logger.Debug("Category resolved", "id", result.ID, "title", title)
	return result, nil
}

// Rename changes a category's title. Unknown ids are ignored; a title
// already used by another category yields errors.ErrCategoryExists.
func (r *CategoryRepository) Rename(ctx context.Context, id, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.store.Update(ctx, func(tx storage.Tx) error {
		c, found, err := tx.GetCategory(id)
		if err != nil || !found {
			return err
		}
		if c.Title == title {
			return nil
		}
		other, taken, err := tx.FindCategoryByTitle(title)
		if err != nil {
			return err
		}
		if taken && other.ID != id {
			return errors.ErrCategoryExists
		}
		c.Title = title
		_, err = tx.UpdateCategory(c)
		return err
	})
	if err != nil {
		logger.Error("Failed to rename category", "id", id, "error", err)
		return err
	}
	return nil
}

// Delete removes an empty category. Unknown ids are ignored; a category
// that trackers still reference yields errors.ErrCategoryNotEmpty.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.store.Update(ctx, func(tx storage.Tx) error {
		n, err := tx.CountTrackersInCategory(id)
		if err != nil {
			return err
		}
		if n > 0 {
			return errors.ErrCategoryNotEmpty
		}
		_, err = tx.DeleteCategory(id)
		return err
	})
	if err != nil {
		logger.Error("Failed to delete category", "id", id, "error", err)
		return err
	}
	return nil
}

// Close stops listening for store changes.
func (r *CategoryRepository) Close() {
	if r.cancel != nil {
		r.cancel()
	}
}
