// Package memstore is an in-process authoring.Store. It keeps everything in
// maps guarded by one mutex and implements transactions by running the
// callback on a private copy that replaces the live data on success.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/irsalhamdi/course-studio/core/attachment"
	"github.com/irsalhamdi/course-studio/core/authoring"
	"github.com/irsalhamdi/course-studio/core/category"
	"github.com/irsalhamdi/course-studio/core/chapter"
	"github.com/irsalhamdi/course-studio/core/course"
	"github.com/irsalhamdi/course-studio/database"
)

type data struct {
	courses     map[string]course.Course
	chapters    map[string]chapter.Chapter
	categories  map[string]category.Category
	attachments map[string]attachment.Attachment
}

func (d *data) clone() *data {
	c := &data{
		courses:     make(map[string]course.Course, len(d.courses)),
		chapters:    make(map[string]chapter.Chapter, len(d.chapters)),
		categories:  make(map[string]category.Category, len(d.categories)),
		attachments: make(map[string]attachment.Attachment, len(d.attachments)),
	}
	for k, v := range d.courses {
		c.courses[k] = v
	}
	for k, v := range d.chapters {
		c.chapters[k] = v
	}
	for k, v := range d.categories {
		c.categories[k] = v
	}
	for k, v := range d.attachments {
		c.attachments[k] = v
	}
	return c
}

var _ authoring.Store = (*Store)(nil)

type Store struct {
	mu   *sync.Mutex
	data *data
	inTx bool
}

// New returns an empty store holding the given categories.
func New(categories ...category.Category) *Store {
	d := &data{
		courses:     make(map[string]course.Course),
		chapters:    make(map[string]chapter.Chapter),
		categories:  make(map[string]category.Category),
		attachments: make(map[string]attachment.Attachment),
	}
	for _, c := range categories {
		d.categories[c.ID] = c
	}
	return &Store{mu: &sync.Mutex{}, data: d}
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx authoring.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Store{mu: s.mu, data: s.data.clone(), inTx: true}
	if err := fn(tx); err != nil {
		return err
	}
	s.data = tx.data
	return nil
}

func (s *Store) StatusCheck(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) QueryCourse(ctx context.Context, courseID string) (course.Course, error) {
	defer s.lock()()

	c, ok := s.data.courses[courseID]
	if !ok {
		return course.Course{}, database.ErrDBNotFound
	}
	return c, nil
}

func (s *Store) QueryCoursesByOwner(ctx context.Context, ownerID string) ([]course.Course, error) {
	defer s.lock()()

	courses := []course.Course{}
	for _, c := range s.data.courses {
		if c.OwnerID == ownerID {
			courses = append(courses, c)
		}
	}
	sort.Slice(courses, func(i, j int) bool {
		if courses[i].CreatedAt.Equal(courses[j].CreatedAt) {
			return courses[i].ID < courses[j].ID
		}
		return courses[i].CreatedAt.After(courses[j].CreatedAt)
	})
	return courses, nil
}

func (s *Store) CreateCourse(ctx context.Context, c course.Course) error {
	defer s.lock()()

	s.data.courses[c.ID] = c
	return nil
}

func (s *Store) UpdateCourse(ctx context.Context, courseID string, up course.CourseUp, now time.Time) error {
	defer s.lock()()

	c, ok := s.data.courses[courseID]
	if !ok {
		return database.ErrDBNotFound
	}
	if up.Title != nil {
		c.Title = *up.Title
	}
	if up.Description != nil {
		c.Description = up.Description
	}
	if up.ImageURL != nil {
		c.ImageURL = up.ImageURL
	}
	if up.Price != nil {
		c.Price = up.Price
	}
	if up.CategoryID != nil {
		c.CategoryID = up.CategoryID
	}
	c.UpdatedAt = now
	s.data.courses[courseID] = c
	return nil
}

func (s *Store) UpdateCoursePublished(ctx context.Context, courseID string, published bool, now time.Time) error {
	defer s.lock()()

	c, ok := s.data.courses[courseID]
	if !ok {
		return database.ErrDBNotFound
	}
	c.IsPublished = published
	c.UpdatedAt = now
	s.data.courses[courseID] = c
	return nil
}

func (s *Store) DeleteCourse(ctx context.Context, courseID string) error {
	defer s.lock()()

	for id, ch := range s.data.chapters {
		if ch.CourseID == courseID {
			delete(s.data.chapters, id)
		}
	}
	for id, a := range s.data.attachments {
		if a.CourseID == courseID {
			delete(s.data.attachments, id)
		}
	}
	delete(s.data.courses, courseID)
	return nil
}

func (s *Store) QueryChapters(ctx context.Context, courseID string) ([]chapter.Chapter, error) {
	defer s.lock()()

	chs := []chapter.Chapter{}
	for _, ch := range s.data.chapters {
		if ch.CourseID == courseID {
			chs = append(chs, ch)
		}
	}
	sort.Slice(chs, func(i, j int) bool { return chs[i].Position < chs[j].Position })
	return chs, nil
}

func (s *Store) QueryChapter(ctx context.Context, courseID string, chapterID string) (chapter.Chapter, error) {
	defer s.lock()()

	ch, ok := s.data.chapters[chapterID]
	if !ok || ch.CourseID != courseID {
		return chapter.Chapter{}, database.ErrDBNotFound
	}
	return ch, nil
}

func (s *Store) CreateChapter(ctx context.Context, ch chapter.Chapter) error {
	defer s.lock()()

	s.data.chapters[ch.ID] = ch
	return nil
}

func (s *Store) UpdateChapter(ctx context.Context, chapterID string, up chapter.ChapterUp, now time.Time) error {
	defer s.lock()()

	ch, ok := s.data.chapters[chapterID]
	if !ok {
		return database.ErrDBNotFound
	}
	if up.Title != nil {
		ch.Title = *up.Title
	}
	if up.Description != nil {
		ch.Description = up.Description
	}
	if up.VideoURL != nil {
		ch.VideoURL = up.VideoURL
	}
	if up.IsFree != nil {
		ch.IsFree = *up.IsFree
	}
	ch.UpdatedAt = now
	s.data.chapters[chapterID] = ch
	return nil
}

func (s *Store) UpdateChapterPublished(ctx context.Context, chapterID string, published bool, now time.Time) error {
	return s.updateChapter(chapterID, func(ch *chapter.Chapter) {
		ch.IsPublished = published
		ch.UpdatedAt = now
	})
}

func (s *Store) UpdateChapterPosition(ctx context.Context, chapterID string, position int, now time.Time) error {
	return s.updateChapter(chapterID, func(ch *chapter.Chapter) {
		ch.Position = position
		ch.UpdatedAt = now
	})
}

func (s *Store) updateChapter(chapterID string, f func(ch *chapter.Chapter)) error {
	defer s.lock()()

	ch, ok := s.data.chapters[chapterID]
	if !ok {
		return database.ErrDBNotFound
	}
	f(&ch)
	s.data.chapters[chapterID] = ch
	return nil
}

func (s *Store) DeleteChapter(ctx context.Context, chapterID string) error {
	defer s.lock()()

	if _, ok := s.data.chapters[chapterID]; !ok {
		return database.ErrDBNotFound
	}
	delete(s.data.chapters, chapterID)
	return nil
}

func (s *Store) QueryCategory(ctx context.Context, categoryID string) (category.Category, error) {
	defer s.lock()()

	c, ok := s.data.categories[categoryID]
	if !ok {
		return category.Category{}, database.ErrDBNotFound
	}
	return c, nil
}

func (s *Store) QueryCategories(ctx context.Context) ([]category.Category, error) {
	defer s.lock()()

	cats := make([]category.Category, 0, len(s.data.categories))
	for _, c := range s.data.categories {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].Name < cats[j].Name })
	return cats, nil
}

func (s *Store) QueryAttachments(ctx context.Context, courseID string) ([]attachment.Attachment, error) {
	defer s.lock()()

	atts := []attachment.Attachment{}
	for _, a := range s.data.attachments {
		if a.CourseID == courseID {
			atts = append(atts, a)
		}
	}
	sort.Slice(atts, func(i, j int) bool {
		if atts[i].CreatedAt.Equal(atts[j].CreatedAt) {
			return atts[i].ID < atts[j].ID
		}
		return atts[i].CreatedAt.Before(atts[j].CreatedAt)
	})
	return atts, nil
}

func (s *Store) CreateAttachment(ctx context.Context, a attachment.Attachment) error {
	defer s.lock()()

	s.data.attachments[a.ID] = a
	return nil
}
