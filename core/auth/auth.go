package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/course-studio/api/web"
	"github.com/irsalhamdi/course-studio/api/weberr"
	"github.com/irsalhamdi/course-studio/core/claims"
)

const userIDKey = "userID"

// LoadSession makes the caller's session, if any, available to every
// handler down the chain. Handlers that change the session write the cookie
// themselves.
func LoadSession(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			var token string
			if c, err := r.Cookie(session.Cookie.Name); err == nil {
				token = c.Value
			}

			ctx, err := session.Load(ctx, token)
			if err != nil {
				return fmt.Errorf("loading session: %w", err)
			}

			return handler(ctx, w, r.WithContext(ctx))
		}
		return h
	}
	return m
}

// Authenticate accepts either a bearer token signed by the identity provider
// or a session created through HandleLogin. The principal is stored in the
// request claims.
func Authenticate(session *scs.SessionManager, verifier Verifier) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			var userID string

			if raw, ok := bearer(r); ok {
				sub, err := verifier.Verify(ctx, raw)
				if err != nil {
					return weberr.NotAuthorized(fmt.Errorf("verifying bearer token: %w", err))
				}
				userID = sub
			} else {
				userID = session.GetString(ctx, userIDKey)
			}

			if userID == "" {
				return weberr.NotAuthorized(errors.New("user not authenticated"))
			}

			ctx = claims.Set(ctx, claims.Claims{UserID: userID})
			return handler(ctx, w, r.WithContext(ctx))
		}
		return h
	}
	return m
}

// HandleLogin trades a verified bearer token for a session cookie.
func HandleLogin(session *scs.SessionManager, verifier Verifier) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		raw, ok := bearer(r)
		if !ok {
			return weberr.NotAuthorized(errors.New("missing bearer token"))
		}

		sub, err := verifier.Verify(ctx, raw)
		if err != nil {
			return weberr.NotAuthorized(fmt.Errorf("verifying bearer token: %w", err))
		}

		if err := session.RenewToken(ctx); err != nil {
			return fmt.Errorf("renewing session token: %w", err)
		}
		session.Put(ctx, userIDKey, sub)

		token, expiry, err := session.Commit(ctx)
		if err != nil {
			return fmt.Errorf("committing session: %w", err)
		}
		writeCookie(w, session, token, expiry)

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleLogout(session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if err := session.Destroy(ctx); err != nil {
			return fmt.Errorf("destroying session: %w", err)
		}
		writeCookie(w, session, "", time.Time{})

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func bearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	return raw, raw != ""
}

// writeCookie sets the session cookie; a zero expiry clears it.
func writeCookie(w http.ResponseWriter, session *scs.SessionManager, token string, expiry time.Time) {
	c := &http.Cookie{
		Name:     session.Cookie.Name,
		Value:    token,
		Path:     session.Cookie.Path,
		Domain:   session.Cookie.Domain,
		Secure:   session.Cookie.Secure,
		HttpOnly: session.Cookie.HttpOnly,
		SameSite: session.Cookie.SameSite,
	}

	if expiry.IsZero() {
		c.Expires = time.Unix(1, 0)
		c.MaxAge = -1
	} else if session.Cookie.Persist {
		c.Expires = time.Unix(expiry.Unix()+1, 0)
		c.MaxAge = int(time.Until(expiry).Seconds() + 1)
	}

	w.Header().Add("Set-Cookie", c.String())
	w.Header().Add("Cache-Control", `no-cache="Set-Cookie"`)
}
