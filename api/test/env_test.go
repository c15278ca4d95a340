package test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/course-studio/api"
	"github.com/irsalhamdi/course-studio/config"
	"github.com/irsalhamdi/course-studio/core/authoring"
	"github.com/irsalhamdi/course-studio/core/category"
	"github.com/irsalhamdi/course-studio/database"
	"github.com/irsalhamdi/course-studio/database/memstore"
	"github.com/irsalhamdi/course-studio/database/pgstore"
	"github.com/jmoiron/sqlx"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/sirupsen/logrus"
)

const (
	ownerToken    = "token-owner"
	strangerToken = "token-stranger"
)

// tokens stands in for the identity provider.
type tokens map[string]string

func (tk tokens) Verify(ctx context.Context, raw string) (string, error) {
	sub, ok := tk[raw]
	if !ok {
		return "", errors.New("token not issued by this provider")
	}
	return sub, nil
}

type TestEnv struct {
	*httptest.Server
	Store authoring.Store
}

// NewTestEnv serves the api over an in-memory store.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	return newEnv(t, memstore.New(category.Defaults...))
}

// NewPostgresEnv serves the api over a migrated Postgres running in docker.
// The test is skipped when docker is not reachable.
func NewPostgresEnv(t *testing.T) *TestEnv {
	t.Helper()

	if testing.Short() {
		t.Skip("postgres tests disabled in short mode")
	}

	db := startPostgres(t)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrating database: %v", err)
	}
	return newEnv(t, pgstore.New(db))
}

func newEnv(t *testing.T, store authoring.Store) *TestEnv {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	session := scs.New()
	session.Lifetime = time.Hour

	h := api.APIMux(api.APIConfig{
		Log:     log,
		Store:   store,
		Session: session,
		Verifier: tokens{
			ownerToken:    "user_owner",
			strangerToken: "user_stranger",
		},
	})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	srv.Client().Jar = jar

	return &TestEnv{Server: srv, Store: store}
}

func startPostgres(t *testing.T) *sqlx.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	pool.MaxWait = time.Minute

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "14-alpine",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=postgres",
			"POSTGRES_DB=studio",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("starting postgres: %v", err)
	}
	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("purging postgres: %v", err)
		}
	})
	_ = resource.Expire(120)

	cfg := config.DB{
		User:       "postgres",
		Password:   "postgres",
		Host:       resource.GetHostPort("5432/tcp"),
		Name:       "studio",
		DisableTLS: true,
	}

	var db *sqlx.DB
	err = pool.Retry(func() error {
		var err error
		db, err = database.Open(cfg)
		if err != nil {
			return err
		}
		return database.StatusCheck(context.Background(), db)
	})
	if err != nil {
		t.Fatalf("connecting to postgres: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

// Login trades token for a session cookie kept by the server's client.
func Login(server *httptest.Server, token string) error {
	r, err := http.NewRequest(http.MethodPost, server.URL+"/auth/session", nil)
	if err != nil {
		return err
	}
	r.Header.Set("Authorization", "Bearer "+token)

	w, err := server.Client().Do(r)
	if err != nil {
		return err
	}
	defer w.Body.Close()

	if w.StatusCode != http.StatusNoContent {
		return fmt.Errorf("login: status code %s", w.Status)
	}
	return nil
}

func Logout(server *httptest.Server) error {
	r, err := http.NewRequest(http.MethodDelete, server.URL+"/auth/session", nil)
	if err != nil {
		return err
	}

	w, err := server.Client().Do(r)
	if err != nil {
		return err
	}
	defer w.Body.Close()

	if w.StatusCode != http.StatusNoContent {
		return fmt.Errorf("logout: status code %s", w.Status)
	}
	return nil
}

// call sends body as JSON and decodes the response into out when out is not
// nil. token, when set, is sent as a bearer token instead of the session.
func (env *TestEnv) call(t *testing.T, method string, path string, token string, body any, out any) int {
	t.Helper()

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewBuffer(raw)
	}

	r, err := http.NewRequest(method, env.URL+path, rd)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	w, err := env.Client().Do(r)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Body.Close()

	if out != nil {
		if err := json.NewDecoder(w.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decoding response: %v", method, path, err)
		}
	}
	return w.StatusCode
}

// expect fails the test when the call does not answer with status.
func (env *TestEnv) expect(t *testing.T, status int, method string, path string, token string, body any, out any) {
	t.Helper()

	if got := env.call(t, method, path, token, body, out); got != status {
		t.Fatalf("%s %s: expected status %d, got %d", method, path, status, got)
	}
}

// forEachStore runs fn against every store backend that is available.
func forEachStore(t *testing.T, fn func(t *testing.T, env *TestEnv)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewTestEnv(t))
	})
	t.Run("postgres", func(t *testing.T) {
		fn(t, NewPostgresEnv(t))
	})
}
