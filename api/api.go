package api

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/irsalhamdi/course-studio/api/middleware"
	"github.com/irsalhamdi/course-studio/api/web"
	"github.com/irsalhamdi/course-studio/core/auth"
	"github.com/irsalhamdi/course-studio/core/authoring"
	"github.com/irsalhamdi/course-studio/rate"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	CorsOrigin string
	Log        logrus.FieldLogger
	Store      authoring.Store
	Session    *scs.SessionManager
	Verifier   auth.Verifier
	Limiter    *rate.Limiter
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, auth.LoadSession(cfg.Session))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.Limiter != nil {
		a.mw = append(a.mw, middleware.RateLimit(cfg.Limiter))
	}

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	authen := auth.Authenticate(cfg.Session, cfg.Verifier)
	svc := authoring.NewService(cfg.Log, cfg.Store)

	a.Handle(http.MethodGet, "/health", authoring.HandleHealth(svc))

	a.Handle(http.MethodPost, "/auth/session", auth.HandleLogin(cfg.Session, cfg.Verifier))
	a.Handle(http.MethodDelete, "/auth/session", auth.HandleLogout(cfg.Session))

	a.Handle(http.MethodGet, "/categories", authoring.HandleListCategories(svc))

	a.Handle(http.MethodGet, "/courses", authoring.HandleListOwned(svc), authen)
	a.Handle(http.MethodPost, "/courses", authoring.HandleCreateCourse(svc), authen)
	a.Handle(http.MethodGet, "/courses/{course_id}", authoring.HandleShowCourse(svc), authen)
	a.Handle(http.MethodPatch, "/courses/{course_id}", authoring.HandleUpdateCourse(svc), authen)
	a.Handle(http.MethodDelete, "/courses/{course_id}", authoring.HandleDeleteCourse(svc), authen)
	a.Handle(http.MethodPatch, "/courses/{course_id}/publish", authoring.HandlePublishCourse(svc), authen)
	a.Handle(http.MethodPatch, "/courses/{course_id}/unpublish", authoring.HandleUnpublishCourse(svc), authen)

	a.Handle(http.MethodPost, "/courses/{course_id}/chapters", authoring.HandleCreateChapter(svc), authen)
	a.Handle(http.MethodPut, "/courses/{course_id}/chapters/reorder", authoring.HandleReorderChapters(svc), authen)
	a.Handle(http.MethodPatch, "/courses/{course_id}/chapters/{chapter_id}", authoring.HandleUpdateChapter(svc), authen)
	a.Handle(http.MethodDelete, "/courses/{course_id}/chapters/{chapter_id}", authoring.HandleDeleteChapter(svc), authen)
	a.Handle(http.MethodPatch, "/courses/{course_id}/chapters/{chapter_id}/publish", authoring.HandlePublishChapter(svc), authen)
	a.Handle(http.MethodPatch, "/courses/{course_id}/chapters/{chapter_id}/unpublish", authoring.HandleUnpublishChapter(svc), authen)

	a.Handle(http.MethodPost, "/uploads/complete", authoring.HandleUploadComplete(svc), authen)

	return a.Router
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
