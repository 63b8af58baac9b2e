package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/egresswatch/egresswatch/internal/api/dto"
	"github.com/egresswatch/egresswatch/internal/domain/run"
	"github.com/egresswatch/egresswatch/internal/pkg/errors"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
	"github.com/egresswatch/egresswatch/internal/services"
	"github.com/egresswatch/egresswatch/internal/testutil"
)

// envelope mirrors the response wrapper for decoding in tests
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func testLog() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return env
}

func seededRun(id string, startedAt time.Time) *run.Run {
	return &run.Run{
		ID:          id,
		Trigger:     run.TriggerScheduled,
		Status:      run.StatusCompleted,
		StartedAt:   startedAt,
		SeriesTotal: 4,
	}
}

func newRunRouter(repo *testutil.MockRunRepository) http.Handler {
	log := testLog()
	h := NewRunHandler(services.NewRunService(repo, nil, log), log)
	r := chi.NewRouter()
	r.Get("/api/v1/runs", h.List)
	r.Get("/api/v1/runs/latest", h.Latest)
	r.Get("/api/v1/runs/{id}", h.Get)
	return r
}

func TestRunHandler_ListPaginates(t *testing.T) {
	repo := testutil.NewMockRunRepository()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		_ = repo.Create(context.Background(), seededRun(id, now.Add(time.Duration(i)*time.Hour)))
	}
	router := newRunRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs?page=1&page_size=2", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("List status = %d, body %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("List success = false: %s", rec.Body.String())
	}

	var page struct {
		Data       []dto.RunDTO `json:"data"`
		Page       int          `json:"page"`
		PageSize   int          `json:"page_size"`
		TotalItems int64        `json:"total_items"`
		TotalPages int          `json:"total_pages"`
	}
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("decoding page: %v", err)
	}
	if page.TotalItems != 3 || page.TotalPages != 2 || len(page.Data) != 2 {
		t.Errorf("List page = %d items of %d total in %d pages, want 2 of 3 in 2",
			len(page.Data), page.TotalItems, page.TotalPages)
	}
	// Newest first
	if page.Data[0].ID != "run-c" {
		t.Errorf("List first entry = %q, want the newest run-c", page.Data[0].ID)
	}
}

func TestRunHandler_GetNotFound(t *testing.T) {
	repo := testutil.NewMockRunRepository()
	repo.GetError = errors.NotFound("run")
	router := newRunRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Get status = %d, want 404", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success || env.Error == nil || env.Error.Code != errors.ErrCodeNotFound {
		t.Errorf("Get error envelope = %s", rec.Body.String())
	}
}

func TestRunHandler_LatestEmpty(t *testing.T) {
	router := newRunRouter(testutil.NewMockRunRepository())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/latest", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Latest status = %d, want 200 before any run exists", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Errorf("Latest success = false: %s", rec.Body.String())
	}
	if string(env.Data) != "null" && len(env.Data) != 0 {
		t.Errorf("Latest data = %s, want null", env.Data)
	}
}
