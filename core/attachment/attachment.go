package attachment

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Attachment is a course-level file. Attachments are only ever appended.
type Attachment struct {
	ID        string    `json:"id" db:"attachment_id"`
	CourseID  string    `json:"courseId" db:"course_id"`
	Name      string    `json:"name" db:"name"`
	URL       string    `json:"url" db:"url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

func Create(ctx context.Context, db sqlx.ExtContext, a Attachment) error {
	q := `
	INSERT INTO attachments (attachment_id, course_id, name, url, created_at)
	VALUES (:attachment_id, :course_id, :name, :url, :created_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, a); err != nil {
		return fmt.Errorf("inserting attachment: %w", err)
	}
	return nil
}

func QueryByCourse(ctx context.Context, db sqlx.QueryerContext, courseID string) ([]Attachment, error) {
	q := `
	SELECT attachment_id, course_id, name, url, created_at
	FROM attachments WHERE course_id = $1 ORDER BY created_at, attachment_id`

	atts := []Attachment{}
	if err := sqlx.SelectContext(ctx, db, &atts, q, courseID); err != nil {
		return nil, err
	}
	return atts, nil
}
