package category

import (
	"context"
	"database/sql"
	"errors"

	"github.com/irsalhamdi/course-studio/database"
	"github.com/jmoiron/sqlx"
)

type Category struct {
	ID   string `json:"id" db:"category_id"`
	Name string `json:"name" db:"name"`
}

// Defaults mirrors the rows seeded by the categories migration.
var Defaults = []Category{
	{ID: "8a3c1f4e-2b6d-4f1a-9c5e-0d7b3e2a1f01", Name: "Computer Science"},
	{ID: "8a3c1f4e-2b6d-4f1a-9c5e-0d7b3e2a1f02", Name: "Music"},
	{ID: "8a3c1f4e-2b6d-4f1a-9c5e-0d7b3e2a1f03", Name: "Photography"},
	{ID: "8a3c1f4e-2b6d-4f1a-9c5e-0d7b3e2a1f04", Name: "Engineering"},
	{ID: "8a3c1f4e-2b6d-4f1a-9c5e-0d7b3e2a1f05", Name: "Filming"},
}

func Fetch(ctx context.Context, db sqlx.QueryerContext, id string) (Category, error) {
	var c Category
	err := sqlx.GetContext(ctx, db, &c, `SELECT category_id, name FROM categories WHERE category_id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Category{}, database.ErrDBNotFound
		}
		return Category{}, err
	}
	return c, nil
}

func Query(ctx context.Context, db sqlx.QueryerContext) ([]Category, error) {
	cats := []Category{}
	if err := sqlx.SelectContext(ctx, db, &cats, `SELECT category_id, name FROM categories ORDER BY name`); err != nil {
		return nil, err
	}
	return cats, nil
}
