package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/irsalhamdi/course-studio/api/web"
	"github.com/irsalhamdi/course-studio/random"
)

const RequestIDHeader = "X-Request-Id"

const maxRequestIDLen = 128

type ctxKey int

const reqIDKey ctxKey = 1

var (
	reqPrefix = random.String(10)
	reqSeq    int64
)

// RequestID tags the context with the caller's X-Request-Id, or with a
// process-unique id when the caller sent none, and echoes it back.
func RequestID() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			id := r.Header.Get(RequestIDHeader)
			switch {
			case id == "":
				id = fmt.Sprintf("%s-%06d", reqPrefix, atomic.AddInt64(&reqSeq, 1))
			case len(id) > maxRequestIDLen:
				id = id[:maxRequestIDLen]
			}

			w.Header().Set(RequestIDHeader, id)
			return handler(context.WithValue(ctx, reqIDKey, id), w, r)
		}
		return h
	}
	return m
}

func ContextRequestID(ctx context.Context) string {
	id, _ := ctx.Value(reqIDKey).(string)
	return id
}
