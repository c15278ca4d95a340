package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/irsalhamdi/course-studio/api/middleware"
	"github.com/irsalhamdi/course-studio/api/web"
	"github.com/irsalhamdi/course-studio/api/weberr"
	"github.com/irsalhamdi/course-studio/rate"
	"github.com/sirupsen/logrus"
)

func serve(t *testing.T, handler web.Handler, mw ...web.Middleware) *httptest.ResponseRecorder {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	mw = append([]web.Middleware{middleware.RequestID(), middleware.Errors(log), middleware.Panics()}, mw...)
	h := web.WrapMiddleware(mw, handler)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	if err := h(r.Context(), w, r); err != nil {
		t.Fatalf("unhandled error: %v", err)
	}
	return w
}

func body(t *testing.T, w *httptest.ResponseRecorder) weberr.ErrorResponse {
	t.Helper()

	var er weberr.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&er); err != nil {
		t.Fatal(err)
	}
	return er
}

func TestErrors(t *testing.T) {
	w := serve(t, func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return weberr.PreconditionFailed(errors.New("incomplete"), []string{"title"})
	})

	if w.Code != http.StatusPreconditionFailed {
		t.Fatalf("expected 412, got %d", w.Code)
	}
	if er := body(t, w); len(er.Missing) != 1 || er.Missing[0] != "title" {
		t.Fatalf("unexpected body %+v", er)
	}

	w = serve(t, func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return errors.New("connection reset")
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if er := body(t, w); er.Error != http.StatusText(http.StatusInternalServerError) {
		t.Fatalf("internal errors must not leak, got %q", er.Error)
	}
}

func TestPanics(t *testing.T) {
	w := serve(t, func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		panic("boom")
	})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected a request id header")
	}
}

func TestRateLimit(t *testing.T) {
	lim := rate.NewLimiter(2, time.Hour, time.Hour)
	defer lim.Stop()

	ok := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	for i := 0; i < 2; i++ {
		if w := serve(t, ok, middleware.RateLimit(lim)); w.Code != http.StatusNoContent {
			t.Fatalf("request %d: expected 204, got %d", i, w.Code)
		}
	}

	if w := serve(t, ok, middleware.RateLimit(lim)); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once the burst is spent, got %d", w.Code)
	}
}
