package authoring

import (
	"context"
	"time"

	"github.com/irsalhamdi/course-studio/core/attachment"
	"github.com/irsalhamdi/course-studio/core/category"
	"github.com/irsalhamdi/course-studio/core/chapter"
	"github.com/irsalhamdi/course-studio/core/course"
)

// Store is the record store behind the authoring workflow. Lookups of
// missing records return database.ErrDBNotFound. Every method of the Store
// handed to a WithinTx callback is part of that one atomic unit.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx Store) error) error
	StatusCheck(ctx context.Context) error

	QueryCourse(ctx context.Context, courseID string) (course.Course, error)
	QueryCoursesByOwner(ctx context.Context, ownerID string) ([]course.Course, error)
	CreateCourse(ctx context.Context, c course.Course) error
	UpdateCourse(ctx context.Context, courseID string, up course.CourseUp, now time.Time) error
	UpdateCoursePublished(ctx context.Context, courseID string, published bool, now time.Time) error
	DeleteCourse(ctx context.Context, courseID string) error

	QueryChapters(ctx context.Context, courseID string) ([]chapter.Chapter, error)
	QueryChapter(ctx context.Context, courseID string, chapterID string) (chapter.Chapter, error)
	CreateChapter(ctx context.Context, ch chapter.Chapter) error
	UpdateChapter(ctx context.Context, chapterID string, up chapter.ChapterUp, now time.Time) error
	UpdateChapterPublished(ctx context.Context, chapterID string, published bool, now time.Time) error
	UpdateChapterPosition(ctx context.Context, chapterID string, position int, now time.Time) error
	DeleteChapter(ctx context.Context, chapterID string) error

	QueryCategory(ctx context.Context, categoryID string) (category.Category, error)
	QueryCategories(ctx context.Context) ([]category.Category, error)

	QueryAttachments(ctx context.Context, courseID string) ([]attachment.Attachment, error)
	CreateAttachment(ctx context.Context, a attachment.Attachment) error
}
