package authoring

import (
	"context"
	"fmt"
	"net/url"
	"path"

	"github.com/irsalhamdi/course-studio/core/attachment"
	"github.com/irsalhamdi/course-studio/core/chapter"
	"github.com/irsalhamdi/course-studio/core/course"
	"github.com/irsalhamdi/course-studio/validate"
	"github.com/sirupsen/logrus"
)

// Upload targets, named after the storage provider's upload routes.
const (
	TargetCourseImage      = "courseImage"
	TargetChapterVideo     = "chapterVideo"
	TargetCourseAttachment = "courseAttachment"
)

// Upload is the completion notice sent once the storage provider holds the
// file at AssetURL.
type Upload struct {
	TargetKind string `json:"targetKind" validate:"required,oneof=courseImage chapterVideo courseAttachment"`
	CourseID   string `json:"courseId" validate:"required"`
	ChapterID  string `json:"chapterId,omitempty" validate:"required_if=TargetKind chapterVideo"`
	AssetURL   string `json:"assetUrl" validate:"required,url"`
}

// UploadResult holds whichever record the upload changed.
type UploadResult struct {
	Course     *course.Course         `json:"course,omitempty"`
	Chapter    *chapter.Chapter       `json:"chapter,omitempty"`
	Attachment *attachment.Attachment `json:"attachment,omitempty"`
}

// CompleteUpload attaches a stored asset to the course or chapter field that
// the upload targeted.
func (s *Service) CompleteUpload(ctx context.Context, principalID string, up Upload) (UploadResult, error) {
	var res UploadResult
	err := s.store.WithinTx(ctx, func(tx Store) error {
		if _, err := s.authorize(ctx, tx, principalID, up.CourseID); err != nil {
			return err
		}

		if err := check(up); err != nil {
			return err
		}

		now := s.now()

		switch up.TargetKind {
		case TargetCourseImage:
			if err := tx.UpdateCourse(ctx, up.CourseID, course.CourseUp{ImageURL: &up.AssetURL}, now); err != nil {
				return fmt.Errorf("setting image of course[%s]: %w", up.CourseID, err)
			}
			c, err := tx.QueryCourse(ctx, up.CourseID)
			if err != nil {
				return err
			}
			res.Course = &c

		case TargetChapterVideo:
			if _, err := member(ctx, tx, up.CourseID, up.ChapterID); err != nil {
				return err
			}
			if err := tx.UpdateChapter(ctx, up.ChapterID, chapter.ChapterUp{VideoURL: &up.AssetURL}, now); err != nil {
				return fmt.Errorf("setting video of chapter[%s]: %w", up.ChapterID, err)
			}
			ch, err := tx.QueryChapter(ctx, up.CourseID, up.ChapterID)
			if err != nil {
				return err
			}
			res.Chapter = &ch

		case TargetCourseAttachment:
			a := attachment.Attachment{
				ID:        validate.GenerateID(),
				CourseID:  up.CourseID,
				Name:      assetName(up.AssetURL),
				URL:       up.AssetURL,
				CreatedAt: now,
			}
			if err := tx.CreateAttachment(ctx, a); err != nil {
				return fmt.Errorf("adding attachment to course[%s]: %w", up.CourseID, err)
			}
			res.Attachment = &a
		}

		return nil
	})
	if err != nil {
		return UploadResult{}, err
	}

	s.log.WithFields(logrus.Fields{
		"course_id": up.CourseID,
		"target":    up.TargetKind,
	}).Info("upload attached")
	return res, nil
}

func assetName(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" || u.Path == "/" {
		return raw
	}
	return path.Base(u.Path)
}
