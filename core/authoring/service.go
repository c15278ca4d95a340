// Package authoring implements the instructor-facing workflow: ownership checked
// edits of courses and chapters, and the publish state machine that keeps
// unfinished content from becoming visible.
//
// Concurrent edits of the same record are last-writer-wins. Each operation
// runs in one store transaction, so it applies fully or not at all, but no
// version check guards against a racing request.
package authoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/irsalhamdi/course-studio/core/attachment"
	"github.com/irsalhamdi/course-studio/core/category"
	"github.com/irsalhamdi/course-studio/core/chapter"
	"github.com/irsalhamdi/course-studio/core/course"
	"github.com/irsalhamdi/course-studio/database"
	"github.com/irsalhamdi/course-studio/validate"
	"github.com/sirupsen/logrus"
)

type Service struct {
	log   logrus.FieldLogger
	store Store
	now   func() time.Time
}

func NewService(log logrus.FieldLogger, store Store) *Service {
	return &Service{
		log:   log,
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// CourseDetail is the owner's view of a course.
type CourseDetail struct {
	course.Course
	Chapters    []chapter.Chapter       `json:"chapters"`
	Attachments []attachment.Attachment `json:"attachments"`
}

// authorize returns the course when principalID owns it. A course that does
// not exist is reported exactly like a foreign one.
func (s *Service) authorize(ctx context.Context, tx Store, principalID string, courseID string) (course.Course, error) {
	if principalID == "" || validate.CheckID(courseID) != nil {
		return course.Course{}, ErrUnauthorized
	}

	c, err := tx.QueryCourse(ctx, courseID)
	if err != nil {
		if errors.Is(err, database.ErrDBNotFound) {
			return course.Course{}, ErrUnauthorized
		}
		return course.Course{}, fmt.Errorf("fetching course[%s]: %w", courseID, err)
	}

	if c.OwnerID != principalID {
		return course.Course{}, ErrUnauthorized
	}
	return c, nil
}

func (s *Service) StatusCheck(ctx context.Context) error {
	return s.store.StatusCheck(ctx)
}

func (s *Service) QueryCategories(ctx context.Context) ([]category.Category, error) {
	return s.store.QueryCategories(ctx)
}

func (s *Service) CreateCourse(ctx context.Context, principalID string, nc course.CourseNew) (course.Course, error) {
	if principalID == "" {
		return course.Course{}, ErrUnauthorized
	}
	if err := check(nc); err != nil {
		return course.Course{}, err
	}

	now := s.now()
	c := course.Course{
		ID:        validate.GenerateID(),
		OwnerID:   principalID,
		Title:     nc.Title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateCourse(ctx, c); err != nil {
		return course.Course{}, fmt.Errorf("creating course: %w", err)
	}

	s.log.WithFields(logrus.Fields{"course_id": c.ID, "owner_id": principalID}).Info("course created")
	return c, nil
}

func (s *Service) QueryOwnedCourses(ctx context.Context, principalID string) ([]course.Course, error) {
	if principalID == "" {
		return nil, ErrUnauthorized
	}

	courses, err := s.store.QueryCoursesByOwner(ctx, principalID)
	if err != nil {
		return nil, fmt.Errorf("querying courses of owner[%s]: %w", principalID, err)
	}
	return courses, nil
}

func (s *Service) QueryCourse(ctx context.Context, principalID string, courseID string) (CourseDetail, error) {
	var cd CourseDetail
	err := s.store.WithinTx(ctx, func(tx Store) error {
		c, err := s.authorize(ctx, tx, principalID, courseID)
		if err != nil {
			return err
		}

		chs, err := tx.QueryChapters(ctx, courseID)
		if err != nil {
			return fmt.Errorf("querying chapters: %w", err)
		}

		atts, err := tx.QueryAttachments(ctx, courseID)
		if err != nil {
			return fmt.Errorf("querying attachments: %w", err)
		}

		cd = CourseDetail{Course: c, Chapters: chs, Attachments: atts}
		return nil
	})
	return cd, err
}

// UpdateCourse applies the supplied fields of up. Fields are checked only
// after ownership.
func (s *Service) UpdateCourse(ctx context.Context, principalID string, courseID string, up course.CourseUp) (course.Course, error) {
	var c course.Course
	err := s.store.WithinTx(ctx, func(tx Store) error {
		if _, err := s.authorize(ctx, tx, principalID, courseID); err != nil {
			return err
		}

		if err := check(up); err != nil {
			return err
		}

		if up.CategoryID != nil {
			if _, err := tx.QueryCategory(ctx, *up.CategoryID); err != nil {
				if errors.Is(err, database.ErrDBNotFound) {
					return fmt.Errorf("category[%s]: %w", *up.CategoryID, ErrNotFound)
				}
				return fmt.Errorf("fetching category[%s]: %w", *up.CategoryID, err)
			}
		}

		if err := tx.UpdateCourse(ctx, courseID, up, s.now()); err != nil {
			return fmt.Errorf("updating course[%s]: %w", courseID, err)
		}

		if err := s.reconcile(ctx, tx, courseID); err != nil {
			return err
		}

		var err error
		c, err = tx.QueryCourse(ctx, courseID)
		return err
	})
	return c, err
}

// ReorderChapters sets position = index for every id in ids. ids must name
// each chapter of the course exactly once.
func (s *Service) ReorderChapters(ctx context.Context, principalID string, courseID string, ids []string) ([]chapter.Chapter, error) {
	var chs []chapter.Chapter
	err := s.store.WithinTx(ctx, func(tx Store) error {
		if _, err := s.authorize(ctx, tx, principalID, courseID); err != nil {
			return err
		}

		current, err := tx.QueryChapters(ctx, courseID)
		if err != nil {
			return fmt.Errorf("querying chapters: %w", err)
		}

		if !isPermutation(ids, current) {
			return invalid("list", "must list every chapter of the course exactly once")
		}

		positions := make(map[string]int, len(current))
		for _, ch := range current {
			positions[ch.ID] = ch.Position
		}

		now := s.now()
		for i, id := range ids {
			if positions[id] == i {
				continue
			}
			if err := tx.UpdateChapterPosition(ctx, id, i, now); err != nil {
				return fmt.Errorf("moving chapter[%s] to %d: %w", id, i, err)
			}
		}

		chs, err = tx.QueryChapters(ctx, courseID)
		return err
	})
	return chs, err
}

func (s *Service) DeleteCourse(ctx context.Context, principalID string, courseID string) error {
	err := s.store.WithinTx(ctx, func(tx Store) error {
		if _, err := s.authorize(ctx, tx, principalID, courseID); err != nil {
			return err
		}

		if err := tx.DeleteCourse(ctx, courseID); err != nil {
			return fmt.Errorf("deleting course[%s]: %w", courseID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithField("course_id", courseID).Info("course deleted")
	return nil
}

func isPermutation(ids []string, chs []chapter.Chapter) bool {
	if len(ids) != len(chs) {
		return false
	}

	seen := make(map[string]bool, len(chs))
	for _, ch := range chs {
		seen[ch.ID] = false
	}

	for _, id := range ids {
		used, ok := seen[id]
		if !ok || used {
			return false
		}
		seen[id] = true
	}
	return true
}
