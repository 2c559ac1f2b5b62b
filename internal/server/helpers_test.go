package server

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/minigames/internal/database"
	"github.com/playperu/minigames/internal/migrations"
	"github.com/playperu/minigames/internal/minigame"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "changeme"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	return db
}

type testEnv struct {
	router  chi.Router
	store   *SQLiteStore
	plays   *Plays
	broker  *Broker
	sink    *Sink
	tickets *Tickets
	clock   *fakeClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	logger := discardLogger()

	store := NewSQLiteStore(setupTestDB(t))
	if _, err := store.EnsureAdmin(ctx, testAdminEmail, testAdminPassword); err != nil {
		t.Fatalf("creating admin: %v", err)
	}
	if err := SeedDemo(ctx, logger, store); err != nil {
		t.Fatalf("seeding demo games: %v", err)
	}

	clock := newFakeClock()
	broker := NewBroker()
	sink := NewSink(logger, store, nil)
	plays := NewPlays(logger, minigame.NewDispatcher(minigame.WithClock(clock.Now)), broker, sink, 30*time.Minute)
	plays.now = clock.Now
	tickets := NewTickets("test-secret", time.Hour)
	tickets.now = clock.Now

	deps := Deps{
		Admin:       store,
		Games:       store,
		Results:     store,
		Plays:       plays,
		Broker:      broker,
		Tickets:     tickets,
		CORSOrigins: []string{"http://localhost:5173"},
	}
	return &testEnv{
		router:  newRouter(logger, deps, nil),
		store:   store,
		plays:   plays,
		broker:  broker,
		sink:    sink,
		tickets: tickets,
		clock:   clock,
	}
}

type reqOption func(*http.Request)

func withCookies(cookies []*http.Cookie) reqOption {
	return func(r *http.Request) {
		for _, c := range cookies {
			r.AddCookie(c)
		}
	}
}

func withBearer(token string) reqOption {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func (e *testEnv) do(t *testing.T, method, path string, body any, opts ...reqOption) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encoding body: %v", err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	for _, opt := range opts {
		opt(req)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T) []*http.Cookie {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/admin/login",
		AdminLoginRequest{Email: testAdminEmail, Password: testAdminPassword})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	return w.Result().Cookies()
}

func (e *testEnv) start(t *testing.T, req StartPlayRequest) StartPlayResponse {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/plays", req)
	if w.Code != http.StatusCreated {
		t.Fatalf("start play: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp StartPlayResponse
	decode(t, w, &resp)
	return resp
}

func (e *testEnv) act(t *testing.T, play StartPlayResponse, a minigame.Action) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, http.MethodPost, "/api/plays/"+play.PlayID+"/actions", a, withBearer(play.Token))
}

func (e *testEnv) queued() []ResultRecord {
	var out []ResultRecord
	for {
		select {
		case rec := <-e.sink.queue:
			out = append(out, rec)
		default:
			return out
		}
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decoding response: %v (body %q)", err, w.Body.String())
	}
}
