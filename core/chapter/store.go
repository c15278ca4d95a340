package chapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/irsalhamdi/course-studio/database"
	"github.com/jmoiron/sqlx"
)

const columns = `chapter_id, course_id, title, description, video_url, position, is_free, is_published, created_at, updated_at`

// Fetch returns the chapter only when it belongs to courseID.
func Fetch(ctx context.Context, db sqlx.QueryerContext, courseID string, id string) (Chapter, error) {
	q := `SELECT ` + columns + ` FROM chapters WHERE chapter_id = $1 AND course_id = $2`

	var ch Chapter
	if err := sqlx.GetContext(ctx, db, &ch, q, id, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Chapter{}, database.ErrDBNotFound
		}
		return Chapter{}, err
	}
	return ch, nil
}

func QueryByCourse(ctx context.Context, db sqlx.QueryerContext, courseID string) ([]Chapter, error) {
	q := `SELECT ` + columns + ` FROM chapters WHERE course_id = $1 ORDER BY position`

	chapters := []Chapter{}
	if err := sqlx.SelectContext(ctx, db, &chapters, q, courseID); err != nil {
		return nil, err
	}
	return chapters, nil
}

func Create(ctx context.Context, db sqlx.ExtContext, ch Chapter) error {
	q := `
	INSERT INTO chapters (` + columns + `)
	VALUES (:chapter_id, :course_id, :title, :description, :video_url, :position, :is_free, :is_published, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, ch); err != nil {
		return fmt.Errorf("inserting chapter: %w", err)
	}
	return nil
}

// Update writes only the fields set in up.
func Update(ctx context.Context, db sqlx.ExtContext, id string, up ChapterUp, now time.Time) error {
	q := `
	UPDATE chapters SET
		title = COALESCE(:title, title),
		description = COALESCE(:description, description),
		video_url = COALESCE(:video_url, video_url),
		is_free = COALESCE(:is_free, is_free),
		updated_at = :updated_at
	WHERE chapter_id = :chapter_id`

	data := struct {
		ID          string    `db:"chapter_id"`
		Title       *string   `db:"title"`
		Description *string   `db:"description"`
		VideoURL    *string   `db:"video_url"`
		IsFree      *bool     `db:"is_free"`
		UpdatedAt   time.Time `db:"updated_at"`
	}{
		ID:          id,
		Title:       up.Title,
		Description: up.Description,
		VideoURL:    up.VideoURL,
		IsFree:      up.IsFree,
		UpdatedAt:   now,
	}

	return exec(ctx, db, q, data)
}

func UpdatePublished(ctx context.Context, db sqlx.ExtContext, id string, published bool, now time.Time) error {
	q := `UPDATE chapters SET is_published = :is_published, updated_at = :updated_at WHERE chapter_id = :chapter_id`

	data := struct {
		ID          string    `db:"chapter_id"`
		IsPublished bool      `db:"is_published"`
		UpdatedAt   time.Time `db:"updated_at"`
	}{id, published, now}

	return exec(ctx, db, q, data)
}

// UpdatePosition relies on the (course_id, position) constraint being deferred
// so that a whole reorder can pass through transient duplicates.
func UpdatePosition(ctx context.Context, db sqlx.ExtContext, id string, position int, now time.Time) error {
	q := `UPDATE chapters SET position = :position, updated_at = :updated_at WHERE chapter_id = :chapter_id`

	data := struct {
		ID        string    `db:"chapter_id"`
		Position  int       `db:"position"`
		UpdatedAt time.Time `db:"updated_at"`
	}{id, position, now}

	return exec(ctx, db, q, data)
}

func Delete(ctx context.Context, db sqlx.ExtContext, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM chapters WHERE chapter_id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting chapter[%s]: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return database.ErrDBNotFound
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
