package postgres

import (
	"database/sql"
	"errors"

	trackerrors "github.com/julianstephens/trackit/internal/errors"
	"github.com/julianstephens/trackit/internal/models"
)

const categoryColumns = "id, title, created_at"

func scanCategory(row interface{ Scan(...any) error }) (models.Category, error) {
	var c models.Category
	if err := row.Scan(&c.ID, &c.Title, &c.CreatedAt); err != nil {
		return models.Category{}, err
	}
	return c, nil
}

func (t *tx) getCategoryWhere(op, where string, arg any) (models.Category, bool, error) {
	row := t.tx.QueryRowContext(t.ctx, "SELECT "+categoryColumns+" FROM categories WHERE "+where, arg)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Category{}, false, nil
	}
	if err != nil {
		return models.Category{}, false, trackerrors.Storage(op, err)
	}
	return c, true, nil
}

func (t *tx) GetCategory(id string) (models.Category, bool, error) {
	return t.getCategoryWhere("get category", "id = $1", id)
}

func (t *tx) FindCategoryByTitle(title string) (models.Category, bool, error) {
	return t.getCategoryWhere("find category", "title = $1", title)
}

func (t *tx) ListCategories() ([]models.Category, error) {
	rows, err := t.tx.QueryContext(t.ctx, "SELECT "+categoryColumns+" FROM categories ORDER BY title")
	if err != nil {
		return nil, trackerrors.Storage("list categories", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, trackerrors.Storage("list categories", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, trackerrors.Storage("list categories", err)
	}
	return categories, nil
}

func (t *tx) InsertCategory(c models.Category) error {
	_, err := t.tx.ExecContext(t.ctx,
		"INSERT INTO categories (id, title, created_at) VALUES ($1, $2, $3)",
		c.ID, c.Title, c.CreatedAt)
	if err != nil {
		return trackerrors.Storage("insert category", err)
	}
	t.changes.Record(models.EntityCategory, models.OpCreate, c.ID)
	return nil
}

func (t *tx) UpdateCategory(c models.Category) (bool, error) {
	res, err := t.tx.ExecContext(t.ctx, "UPDATE categories SET title = $1 WHERE id = $2", c.Title, c.ID)
	if err != nil {
		return false, trackerrors.Storage("update category", err)
	}
	ok, err := t.affected("update category", res)
	if ok {
		t.changes.Record(models.EntityCategory, models.OpUpdate, c.ID)
	}
	return ok, err
}

func (t *tx) DeleteCategory(id string) (bool, error) {
	res, err := t.tx.ExecContext(t.ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return false, trackerrors.Storage("delete category", err)
	}
	ok, err := t.affected("delete category", res)
	if ok {
		t.changes.Record(models.EntityCategory, models.OpDelete, id)
	}
	return ok, err
}

func (t *tx) CountTrackersInCategory(id string) (int, error) {
	var n int
	if err := t.tx.QueryRowContext(t.ctx, "SELECT count(*) FROM trackers WHERE category_id = $1", id).Scan(&n); err != nil {
		return 0, trackerrors.Storage("count trackers", err)
	}
	return n, nil
}
