package middleware

import (
	"context"
	"net/http"

	"github.com/irsalhamdi/course-studio/api/web"
	"github.com/irsalhamdi/course-studio/api/weberr"
	"github.com/sirupsen/logrus"
)

// Errors logs every handler error and writes the response it carries.
// Errors without a response become a 500 with a generic body.
func Errors(log logrus.FieldLogger) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			err := handler(ctx, w, r)
			if err == nil {
				return nil
			}

			fields := logrus.Fields{
				"req_id":  ContextRequestID(ctx),
				"message": err,
			}
			if f, ok := weberr.Fields(err); ok {
				for k, v := range f {
					fields[k] = v
				}
			}

			body, code, ok := weberr.Response(err)
			if !ok {
				log.WithFields(fields).Error("ERROR")
				return web.Respond(ctx, w, weberr.ErrorResponse{Error: http.StatusText(http.StatusInternalServerError)}, http.StatusInternalServerError)
			}

			fields["status"] = code
			if code >= http.StatusInternalServerError {
				log.WithFields(fields).Error("ERROR")
			} else {
				log.WithFields(fields).Warn("request rejected")
			}
			return web.Respond(ctx, w, body, code)
		}
		return h
	}
	return m
}
