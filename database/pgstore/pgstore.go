// Package pgstore is the Postgres backed authoring.Store.
package pgstore

import (
	"context"
	"time"

	"github.com/irsalhamdi/course-studio/core/attachment"
	"github.com/irsalhamdi/course-studio/core/authoring"
	"github.com/irsalhamdi/course-studio/core/category"
	"github.com/irsalhamdi/course-studio/core/chapter"
	"github.com/irsalhamdi/course-studio/core/course"
	"github.com/irsalhamdi/course-studio/database"
	"github.com/jmoiron/sqlx"
)

var _ authoring.Store = (*Store)(nil)

type Store struct {
	db  *sqlx.DB
	ext sqlx.ExtContext
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db, ext: db}
}

// WithinTx runs fn in a database transaction. Called on a Store that is
// already bound to a transaction, fn simply joins it.
func (s *Store) WithinTx(ctx context.Context, fn func(tx authoring.Store) error) error {
	if s.db == nil {
		return fn(s)
	}
	return database.Transaction(ctx, s.db, func(tx sqlx.ExtContext) error {
		return fn(&Store{ext: tx})
	})
}

func (s *Store) StatusCheck(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return database.StatusCheck(ctx, s.db)
}

func (s *Store) QueryCourse(ctx context.Context, courseID string) (course.Course, error) {
	return course.Fetch(ctx, s.ext, courseID)
}

func (s *Store) QueryCoursesByOwner(ctx context.Context, ownerID string) ([]course.Course, error) {
	return course.QueryByOwner(ctx, s.ext, ownerID)
}

func (s *Store) CreateCourse(ctx context.Context, c course.Course) error {
	return course.Create(ctx, s.ext, c)
}

func (s *Store) UpdateCourse(ctx context.Context, courseID string, up course.CourseUp, now time.Time) error {
	return course.Update(ctx, s.ext, courseID, up, now)
}

func (s *Store) UpdateCoursePublished(ctx context.Context, courseID string, published bool, now time.Time) error {
	return course.UpdatePublished(ctx, s.ext, courseID, published, now)
}

func (s *Store) DeleteCourse(ctx context.Context, courseID string) error {
	return course.Delete(ctx, s.ext, courseID)
}

func (s *Store) QueryChapters(ctx context.Context, courseID string) ([]chapter.Chapter, error) {
	return chapter.QueryByCourse(ctx, s.ext, courseID)
}

func (s *Store) QueryChapter(ctx context.Context, courseID string, chapterID string) (chapter.Chapter, error) {
	return chapter.Fetch(ctx, s.ext, courseID, chapterID)
}

func (s *Store) CreateChapter(ctx context.Context, ch chapter.Chapter) error {
	return chapter.Create(ctx, s.ext, ch)
}

func (s *Store) UpdateChapter(ctx context.Context, chapterID string, up chapter.ChapterUp, now time.Time) error {
	return chapter.Update(ctx, s.ext, chapterID, up, now)
}

func (s *Store) UpdateChapterPublished(ctx context.Context, chapterID string, published bool, now time.Time) error {
	return chapter.UpdatePublished(ctx, s.ext, chapterID, published, now)
}

func (s *Store) UpdateChapterPosition(ctx context.Context, chapterID string, position int, now time.Time) error {
	return chapter.UpdatePosition(ctx, s.ext, chapterID, position, now)
}

func (s *Store) DeleteChapter(ctx context.Context, chapterID string) error {
	return chapter.Delete(ctx, s.ext, chapterID)
}

func (s *Store) QueryCategory(ctx context.Context, categoryID string) (category.Category, error) {
	return category.Fetch(ctx, s.ext, categoryID)
}

func (s *Store) QueryCategories(ctx context.Context) ([]category.Category, error) {
	return category.Query(ctx, s.ext)
}

func (s *Store) QueryAttachments(ctx context.Context, courseID string) ([]attachment.Attachment, error) {
	return attachment.QueryByCourse(ctx, s.ext, courseID)
}

func (s *Store) CreateAttachment(ctx context.Context, a attachment.Attachment) error {
	return attachment.Create(ctx, s.ext, a)
}
