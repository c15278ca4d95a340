package course

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/irsalhamdi/course-studio/database"
	"github.com/jmoiron/sqlx"
)

const columns = `course_id, owner_id, title, description, image_url, price, category_id, is_published, created_at, updated_at`

func Fetch(ctx context.Context, db sqlx.QueryerContext, id string) (Course, error) {
	q := `SELECT ` + columns + ` FROM courses WHERE course_id = $1`

	var c Course
	if err := sqlx.GetContext(ctx, db, &c, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Course{}, database.ErrDBNotFound
		}
		return Course{}, err
	}
	return c, nil
}

func QueryByOwner(ctx context.Context, db sqlx.QueryerContext, ownerID string) ([]Course, error) {
	q := `SELECT ` + columns + ` FROM courses WHERE owner_id = $1 ORDER BY created_at DESC, course_id`

	courses := []Course{}
	if err := sqlx.SelectContext(ctx, db, &courses, q, ownerID); err != nil {
		return nil, err
	}
	return courses, nil
}

func Create(ctx context.Context, db sqlx.ExtContext, c Course) error {
	q := `
	INSERT INTO courses (` + columns + `)
	VALUES (:course_id, :owner_id, :title, :description, :image_url, :price, :category_id, :is_published, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, c); err != nil {
		return fmt.Errorf("inserting course: %w", err)
	}
	return nil
}

// Update writes only the fields set in up.
func Update(ctx context.Context, db sqlx.ExtContext, id string, up CourseUp, now time.Time) error {
	q := `
	UPDATE courses SET
		title = COALESCE(:title, title),
		description = COALESCE(:description, description),
		image_url = COALESCE(:image_url, image_url),
		price = COALESCE(:price, price),
		category_id = COALESCE(:category_id, category_id),
		updated_at = :updated_at
	WHERE course_id = :course_id`

	data := struct {
		ID          string    `db:"course_id"`
		Title       *string   `db:"title"`
		Description *string   `db:"description"`
		ImageURL    *string   `db:"image_url"`
		Price       *float64  `db:"price"`
		CategoryID  *string   `db:"category_id"`
		UpdatedAt   time.Time `db:"updated_at"`
	}{
		ID:          id,
		Title:       up.Title,
		Description: up.Description,
		ImageURL:    up.ImageURL,
		Price:       up.Price,
		CategoryID:  up.CategoryID,
		UpdatedAt:   now,
	}

	return exec(ctx, db, q, data)
}

func UpdatePublished(ctx context.Context, db sqlx.ExtContext, id string, published bool, now time.Time) error {
	q := `UPDATE courses SET is_published = :is_published, updated_at = :updated_at WHERE course_id = :course_id`

	data := struct {
		ID          string    `db:"course_id"`
		IsPublished bool      `db:"is_published"`
		UpdatedAt   time.Time `db:"updated_at"`
	}{id, published, now}

	return exec(ctx, db, q, data)
}

// Delete removes the course together with its chapters and attachments.
func Delete(ctx context.Context, db sqlx.ExtContext, id string) error {
	stmts := []string{
		`DELETE FROM attachments WHERE course_id = $1`,
		`DELETE FROM chapters WHERE course_id = $1`,
		`DELETE FROM courses WHERE course_id = $1`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("deleting course[%s]: %w", id, err)
		}
	}
	return nil
}

func exec(ctx context.Context, db sqlx.ExtContext, q string, arg any) error {
	res, err := sqlx.NamedExecContext(ctx, db, q, arg)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return database.ErrDBNotFound
	}
	return nil
}
