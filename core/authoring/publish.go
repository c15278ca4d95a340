package authoring

import (
	"context"
	"fmt"

	"github.com/irsalhamdi/course-studio/core/chapter"
	"github.com/irsalhamdi/course-studio/core/course"
	"github.com/sirupsen/logrus"
)

func (s *Service) PublishChapter(ctx context.Context, principalID string, courseID string, chapterID string) (chapter.Chapter, error) {
	var ch chapter.Chapter
	err := s.store.WithinTx(ctx, func(tx Store) error {
		if _, err := s.authorize(ctx, tx, principalID, courseID); err != nil {
			return err
		}

		cur, err := member(ctx, tx, courseID, chapterID)
		if err != nil {
			return err
		}

		if missing := chapter.Missing(cur); len(missing) > 0 {
			return &PreconditionError{Missing: missing}
		}

		if err := tx.UpdateChapterPublished(ctx, chapterID, true, s.now()); err != nil {
			return fmt.Errorf("publishing chapter[%s]: %w", chapterID, err)
		}

		ch, err = tx.QueryChapter(ctx, courseID, chapterID)
		return err
	})
	if err != nil {
		return chapter.Chapter{}, err
	}

	s.log.WithFields(logrus.Fields{"course_id": courseID, "chapter_id": chapterID}).Info("chapter published")
	return ch, nil
}

// UnpublishChapter always succeeds for the owner. When the chapter was the
// last published one, the course is unpublished in the same transaction.
func (s *Service) UnpublishChapter(ctx context.Context, principalID string, courseID string, chapterID string) (chapter.Chapter, error) {
	var ch chapter.Chapter
	err := s.store.WithinTx(ctx, func(tx Store) error {
		if _, err := s.authorize(ctx, tx, principalID, courseID); err != nil {
			return err
		}

		if _, err := member(ctx, tx, courseID, chapterID); err != nil {
			return err
		}

		if err := tx.UpdateChapterPublished(ctx, chapterID, false, s.now()); err != nil {
			return fmt.Errorf("unpublishing chapter[%s]: %w", chapterID, err)
		}

		if err := s.reconcile(ctx, tx, courseID); err != nil {
			return err
		}

		var err error
		ch, err = tx.QueryChapter(ctx, courseID, chapterID)
		return err
	})
	if err != nil {
		return chapter.Chapter{}, err
	}

	s.log.WithFields(logrus.Fields{"course_id": courseID, "chapter_id": chapterID}).Info("chapter unpublished")
	return ch, nil
}

// PublishCourse re-reads every chapter and fails with all unmet requirements.
func (s *Service) PublishCourse(ctx context.Context, principalID string, courseID string) (course.Course, error) {
	var c course.Course
	err := s.store.WithinTx(ctx, func(tx Store) error {
		cur, err := s.authorize(ctx, tx, principalID, courseID)
		if err != nil {
			return err
		}

		chs, err := tx.QueryChapters(ctx, courseID)
		if err != nil {
			return fmt.Errorf("querying chapters: %w", err)
		}

		if missing := course.Missing(cur, countPublished(chs)); len(missing) > 0 {
			return &PreconditionError{Missing: missing}
		}

		if err := tx.UpdateCoursePublished(ctx, courseID, true, s.now()); err != nil {
			return fmt.Errorf("publishing course[%s]: %w", courseID, err)
		}

		c, err = tx.QueryCourse(ctx, courseID)
		return err
	})
	if err != nil {
		return course.Course{}, err
	}

	s.log.WithField("course_id", courseID).Info("course published")
	return c, nil
}

func (s *Service) UnpublishCourse(ctx context.Context, principalID string, courseID string) (course.Course, error) {
	var c course.Course
	err := s.store.WithinTx(ctx, func(tx Store) error {
		if _, err := s.authorize(ctx, tx, principalID, courseID); err != nil {
			return err
		}

		if err := tx.UpdateCoursePublished(ctx, courseID, false, s.now()); err != nil {
			return fmt.Errorf("unpublishing course[%s]: %w", courseID, err)
		}

		var err error
		c, err = tx.QueryCourse(ctx, courseID)
		return err
	})
	if err != nil {
		return course.Course{}, err
	}

	s.log.WithField("course_id", courseID).Info("course unpublished")
	return c, nil
}

// reconcile restores the publish invariants of a course after any change
// that could break them: published chapters missing a required field are
// unpublished first, then the course is unpublished if it no longer
// qualifies. It only reads until it finds something to revert, so running it
// on a consistent course writes nothing.
func (s *Service) reconcile(ctx context.Context, tx Store, courseID string) error {
	c, err := tx.QueryCourse(ctx, courseID)
	if err != nil {
		return fmt.Errorf("fetching course[%s]: %w", courseID, err)
	}

	chs, err := tx.QueryChapters(ctx, courseID)
	if err != nil {
		return fmt.Errorf("querying chapters: %w", err)
	}

	now := s.now()
	published := 0
	for _, ch := range chs {
		if !ch.IsPublished {
			continue
		}

		missing := chapter.Missing(ch)
		if len(missing) == 0 {
			published++
			continue
		}

		if err := tx.UpdateChapterPublished(ctx, ch.ID, false, now); err != nil {
			return fmt.Errorf("unpublishing chapter[%s]: %w", ch.ID, err)
		}
		s.log.WithFields(logrus.Fields{
			"course_id":  courseID,
			"chapter_id": ch.ID,
			"missing":    missing,
		}).Warn("chapter no longer publishable, unpublished")
	}

	if !c.IsPublished {
		return nil
	}

	missing := course.Missing(c, published)
	if len(missing) == 0 {
		return nil
	}

	if err := tx.UpdateCoursePublished(ctx, courseID, false, now); err != nil {
		return fmt.Errorf("unpublishing course[%s]: %w", courseID, err)
	}
	s.log.WithFields(logrus.Fields{
		"course_id": courseID,
		"missing":   missing,
	}).Warn("course no longer publishable, unpublished")

	return nil
}

func countPublished(chs []chapter.Chapter) int {
	n := 0
	for _, ch := range chs {
		if ch.IsPublished {
			n++
		}
	}
	return n
}
