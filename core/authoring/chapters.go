package authoring

import (
	"context"
	"errors"
	"fmt"

	"github.com/irsalhamdi/course-studio/core/chapter"
	"github.com/irsalhamdi/course-studio/database"
	"github.com/irsalhamdi/course-studio/validate"
	"github.com/sirupsen/logrus"
)

// member returns the chapter when it belongs to courseID.
func member(ctx context.Context, tx Store, courseID string, chapterID string) (chapter.Chapter, error) {
	if validate.CheckID(chapterID) != nil {
		return chapter.Chapter{}, fmt.Errorf("chapter[%s]: %w", chapterID, ErrNotFound)
	}

	ch, err := tx.QueryChapter(ctx, courseID, chapterID)
	if err != nil {
		if errors.Is(err, database.ErrDBNotFound) {
			return chapter.Chapter{}, fmt.Errorf("chapter[%s] of course[%s]: %w", chapterID, courseID, ErrNotFound)
		}
		return chapter.Chapter{}, fmt.Errorf("fetching chapter[%s]: %w", chapterID, err)
	}
	return ch, nil
}

// CreateChapter appends an unpublished chapter to the end of the course.
func (s *Service) CreateChapter(ctx context.Context, principalID string, courseID string, nc chapter.ChapterNew) (chapter.Chapter, error) {
	var ch chapter.Chapter
	err := s.store.WithinTx(ctx, func(tx Store) error {
		if _, err := s.authorize(ctx, tx, principalID, courseID); err != nil {
			return err
		}

		if err := check(nc); err != nil {
			return err
		}

		current, err := tx.QueryChapters(ctx, courseID)
		if err != nil {
			return fmt.Errorf("querying chapters: %w", err)
		}

		now := s.now()
		ch = chapter.Chapter{
			ID:        validate.GenerateID(),
			CourseID:  courseID,
			Title:     nc.Title,
			Position:  len(current),
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := tx.CreateChapter(ctx, ch); err != nil {
			return fmt.Errorf("creating chapter: %w", err)
		}
		return nil
	})
	return ch, err
}

func (s *Service) UpdateChapter(ctx context.Context, principalID string, courseID string, chapterID string, up chapter.ChapterUp) (chapter.Chapter, error) {
	var ch chapter.Chapter
	err := s.store.WithinTx(ctx, func(tx Store) error {
		if _, err := s.authorize(ctx, tx, principalID, courseID); err != nil {
			return err
		}

		if _, err := member(ctx, tx, courseID, chapterID); err != nil {
			return err
		}

		if err := check(up); err != nil {
			return err
		}

		if err := tx.UpdateChapter(ctx, chapterID, up, s.now()); err != nil {
			return fmt.Errorf("updating chapter[%s]: %w", chapterID, err)
		}

		if err := s.reconcile(ctx, tx, courseID); err != nil {
			return err
		}

		var err error
		ch, err = tx.QueryChapter(ctx, courseID, chapterID)
		return err
	})
	return ch, err
}

// DeleteChapter removes the chapter, closes the gap it leaves in the
// positions and unpublishes the course if it no longer qualifies.
func (s *Service) DeleteChapter(ctx context.Context, principalID string, courseID string, chapterID string) (chapter.Chapter, error) {
	var deleted chapter.Chapter
	err := s.store.WithinTx(ctx, func(tx Store) error {
		if _, err := s.authorize(ctx, tx, principalID, courseID); err != nil {
			return err
		}

		ch, err := member(ctx, tx, courseID, chapterID)
		if err != nil {
			return err
		}

		if err := tx.DeleteChapter(ctx, chapterID); err != nil {
			return fmt.Errorf("deleting chapter[%s]: %w", chapterID, err)
		}

		rest, err := tx.QueryChapters(ctx, courseID)
		if err != nil {
			return fmt.Errorf("querying chapters: %w", err)
		}

		now := s.now()
		for i, c := range rest {
			if c.Position == i {
				continue
			}
			if err := tx.UpdateChapterPosition(ctx, c.ID, i, now); err != nil {
				return fmt.Errorf("moving chapter[%s] to %d: %w", c.ID, i, err)
			}
		}

		if err := s.reconcile(ctx, tx, courseID); err != nil {
			return err
		}

		deleted = ch
		return nil
	})
	if err != nil {
		return chapter.Chapter{}, err
	}

	s.log.WithFields(logrus.Fields{"course_id": courseID, "chapter_id": chapterID}).Info("chapter deleted")
	return deleted, nil
}
