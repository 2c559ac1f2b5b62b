package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/playperu/minigames/internal/handler/health"
)

type mockChecker struct{ err error }

func (m mockChecker) Check(_ context.Context) error { return m.err }

func TestHandler(t *testing.T) {
	tests := []struct {
		name        string
		checks      map[string]health.Checker
		wantStatus  int
		wantOverall string
		wantChecks  map[string]string
	}{
		{
			name: "all healthy",
			checks: map[string]health.Checker{
				"database": mockChecker{},
				"redis":    mockChecker{},
			},
			wantStatus:  http.StatusOK,
			wantOverall: "ok",
			wantChecks:  map[string]string{"database": "ok", "redis": "ok"},
		},
		{
			name: "database down",
			checks: map[string]health.Checker{
				"database": mockChecker{err: errors.New("locked")},
				"redis":    mockChecker{},
			},
			wantStatus:  http.StatusServiceUnavailable,
			wantOverall: "degraded",
			wantChecks:  map[string]string{"database": "error", "redis": "ok"},
		},
		{
			name: "redis down",
			checks: map[string]health.Checker{
				"database": mockChecker{},
				"redis":    mockChecker{err: errors.New("refused")},
			},
			wantStatus:  http.StatusServiceUnavailable,
			wantOverall: "degraded",
			wantChecks:  map[string]string{"database": "ok", "redis": "error"},
		},
		{
			name: "database only",
			checks: map[string]health.Checker{
				"database": health.CheckerFunc(func(context.Context) error { return nil }),
			},
			wantStatus:  http.StatusOK,
			wantOverall: "ok",
			wantChecks:  map[string]string{"database": "ok"},
		},
		{
			name:        "no checks",
			checks:      map[string]health.Checker{},
			wantStatus:  http.StatusOK,
			wantOverall: "ok",
			wantChecks:  map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := health.NewHandler(slog.Default(), tt.checks)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			h.Routes().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body health.Response
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if body.Status != tt.wantOverall {
				t.Errorf("overall status = %q, want %q", body.Status, tt.wantOverall)
			}
			if len(body.Checks) != len(tt.wantChecks) {
				t.Errorf("got %d checks, want %d", len(body.Checks), len(tt.wantChecks))
			}
			for name, want := range tt.wantChecks {
				if got := body.Checks[name].Status; got != want {
					t.Errorf("%s status = %q, want %q", name, got, want)
				}
			}
		})
	}
}

func TestHandlerReportsError(t *testing.T) {
	h := health.NewHandler(slog.Default(), map[string]health.Checker{
		"redis": mockChecker{err: errors.New("connection refused")},
	})

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var body health.Response
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got := body.Checks["redis"].Error; got != "connection refused" {
		t.Errorf("error = %q, want %q", got, "connection refused")
	}
}

func TestHandlerCancelsSlowCheck(t *testing.T) {
	slow := health.CheckerFunc(func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(10 * time.Second):
			return nil
		}
	})
	h := health.NewHandler(slog.Default(), map[string]health.Checker{"slow": slow})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}
