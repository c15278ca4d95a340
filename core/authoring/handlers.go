package authoring

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/course-studio/api/web"
	"github.com/irsalhamdi/course-studio/api/weberr"
	"github.com/irsalhamdi/course-studio/core/chapter"
	"github.com/irsalhamdi/course-studio/core/claims"
	"github.com/irsalhamdi/course-studio/core/course"
)

// webErr translates service failures into responses. Anything unknown is
// returned as-is and ends up as a logged internal error.
func webErr(err error) error {
	var verr *ValidationError
	var perr *PreconditionError

	switch {
	case errors.Is(err, ErrUnauthorized):
		return weberr.NotAuthorized(err)
	case errors.Is(err, ErrNotFound):
		return weberr.NotFound(err)
	case errors.As(err, &verr):
		return weberr.Invalid(err, verr.Fields)
	case errors.As(err, &perr):
		return weberr.PreconditionFailed(err, perr.Missing)
	default:
		return err
	}
}

func principal(ctx context.Context) (string, error) {
	clm, err := claims.Get(ctx)
	if err != nil {
		return "", weberr.NotAuthorized(errors.New("user not authenticated"))
	}
	return clm.UserID, nil
}

func decode(w http.ResponseWriter, r *http.Request, val any) error {
	if err := web.Decode(w, r, val); err != nil {
		return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
	}
	return nil
}

type deleted struct {
	ID string `json:"id"`
}

func HandleListCategories(svc *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cats, err := svc.QueryCategories(ctx)
		if err != nil {
			return fmt.Errorf("querying categories: %w", err)
		}
		return web.Respond(ctx, w, cats, http.StatusOK)
	}
}

func HandleHealth(svc *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if err := svc.StatusCheck(ctx); err != nil {
			return fmt.Errorf("store status check: %w", err)
		}
		status := struct {
			Status string `json:"status"`
		}{"ok"}
		return web.Respond(ctx, w, status, http.StatusOK)
	}
}

func HandleCreateCourse(svc *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		uid, err := principal(ctx)
		if err != nil {
			return err
		}

		var nc course.CourseNew
		if err := decode(w, r, &nc); err != nil {
			return err
		}

		c, err := svc.CreateCourse(ctx, uid, nc)
		if err != nil {
			return webErr(err)
		}
		return web.Respond(ctx, w, c, http.StatusCreated)
	}
}

func HandleListOwned(svc *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		uid, err := principal(ctx)
		if err != nil {
			return err
		}

		courses, err := svc.QueryOwnedCourses(ctx, uid)
		if err != nil {
			return webErr(err)
		}
		return web.Respond(ctx, w, courses, http.StatusOK)
	}
}

func HandleShowCourse(svc *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		uid, err := principal(ctx)
		if err != nil {
			return err
		}

		cd, err := svc.QueryCourse(ctx, uid, web.Param(r, "course_id"))
		if err != nil {
			return webErr(err)
		}
		return web.Respond(ctx, w, cd, http.StatusOK)
	}
}

func HandleUpdateCourse(svc *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		uid, err := principal(ctx)
		if err != nil {
			return err
		}

		var up course.CourseUp
		if err := decode(w, r, &up); err != nil {
			return err
		}

		c, err := svc.UpdateCourse(ctx, uid, web.Param(r, "course_id"), up)
		if err != nil {
			return webErr(err)
		}
		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleDeleteCourse(svc *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		uid, err := principal(ctx)
		if err != nil {
			return err
		}

		id := web.Param(r, "course_id")
		if err := svc.DeleteCourse(ctx, uid, id); err != nil {
			return webErr(err)
		}
		return web.Respond(ctx, w, deleted{ID: id}, http.StatusOK)
	}
}

func HandleReorderChapters(svc *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		uid, err := principal(ctx)
		if err != nil {
			return err
		}

		var ro chapter.Reorder
		if err := decode(w, r, &ro); err != nil {
			return err
		}

		chs, err := svc.ReorderChapters(ctx, uid, web.Param(r, "course_id"), ro.List)
		if err != nil {
			return webErr(err)
		}
		return web.Respond(ctx, w, chs, http.StatusOK)
	}
}

func HandleCreateChapter(svc *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		uid, err := principal(ctx)
		if err != nil {
			return err
		}

		var nc chapter.ChapterNew
		if err := decode(w, r, &nc); err != nil {
			return err
		}

		ch, err := svc.CreateChapter(ctx, uid, web.Param(r, "course_id"), nc)
		if err != nil {
			return webErr(err)
		}
		return web.Respond(ctx, w, ch, http.StatusCreated)
	}
}

func HandleUpdateChapter(svc *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		uid, err := principal(ctx)
		if err != nil {
			return err
		}

		var up chapter.ChapterUp
		if err := decode(w, r, &up); err != nil {
			return err
		}

		ch, err := svc.UpdateChapter(ctx, uid, web.Param(r, "course_id"), web.Param(r, "chapter_id"), up)
		if err != nil {
			return webErr(err)
		}
		return web.Respond(ctx, w, ch, http.StatusOK)
	}
}

func HandleDeleteChapter(svc *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		uid, err := principal(ctx)
		if err != nil {
			return err
		}

		ch, err := svc.DeleteChapter(ctx, uid, web.Param(r, "course_id"), web.Param(r, "chapter_id"))
		if err != nil {
			return webErr(err)
		}
		return web.Respond(ctx, w, deleted{ID: ch.ID}, http.StatusOK)
	}
}

func HandlePublishChapter(svc *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		uid, err := principal(ctx)
		if err != nil {
			return err
		}

		ch, err := svc.PublishChapter(ctx, uid, web.Param(r, "course_id"), web.Param(r, "chapter_id"))
		if err != nil {
			return webErr(err)
		}
		return web.Respond(ctx, w, ch, http.StatusOK)
	}
}

func HandleUnpublishChapter(svc *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		uid, err := principal(ctx)
		if err != nil {
			return err
		}

		ch, err := svc.UnpublishChapter(ctx, uid, web.Param(r, "course_id"), web.Param(r, "chapter_id"))
		if err != nil {
			return webErr(err)
		}
		return web.Respond(ctx, w, ch, http.StatusOK)
	}
}

func HandlePublishCourse(svc *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		uid, err := principal(ctx)
		if err != nil {
			return err
		}

		c, err := svc.PublishCourse(ctx, uid, web.Param(r, "course_id"))
		if err != nil {
			return webErr(err)
		}
		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleUnpublishCourse(svc *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		uid, err := principal(ctx)
		if err != nil {
			return err
		}

		c, err := svc.UnpublishCourse(ctx, uid, web.Param(r, "course_id"))
		if err != nil {
			return webErr(err)
		}
		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleUploadComplete(svc *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		uid, err := principal(ctx)
		if err != nil {
			return err
		}

		var up Upload
		if err := decode(w, r, &up); err != nil {
			return err
		}

		res, err := svc.CompleteUpload(ctx, uid, up)
		if err != nil {
			return webErr(err)
		}
		return web.Respond(ctx, w, res, http.StatusOK)
	}
}
