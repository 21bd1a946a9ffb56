package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/Halcyonic/VoidTrader/internal/services"
	"github.com/Halcyonic/VoidTrader/internal/storage"
	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fs, err := storage.NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("storage: %v", err)
	}
	archive, err := storage.NewHistoryStore(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	t.Cleanup(func() { archive.Close() })

	eventService := services.NewEventService(fs, archive, 42, 0)
	handler := NewHandler(eventService, NewWebSocketManager())

	r := gin.New()
	registerRoutes(r, handler)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope from %s %s: %v\nbody: %s", method, path, err, w.Body.String())
	}
	return w, envelope
}

func createSession(t *testing.T, r *gin.Engine) string {
	t.Helper()

	w, envelope := doJSON(t, r, http.MethodPost, "/api/sessions", map[string]any{"seed": 42})
	if w.Code != http.StatusCreated {
		t.Fatalf("create session: status %d", w.Code)
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected data %v", envelope.Data)
	}
	id, _ := data["session_id"].(string)
	if id == "" {
		t.Fatal("missing session_id")
	}
	return id
}

func TestSessionLifecycle(t *testing.T) {
	r := newTestRouter(t)
	id := createSession(t, r)

	w, envelope := doJSON(t, r, http.MethodGet, "/api/sessions/"+id, nil)
	if w.Code != http.StatusOK || !envelope.Success {
		t.Fatalf("get session: status %d, envelope %+v", w.Code, envelope)
	}

	w, _ = doJSON(t, r, http.MethodDelete, "/api/sessions/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete session: status %d", w.Code)
	}

	w, envelope = doJSON(t, r, http.MethodGet, "/api/sessions/"+id, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != ErrCodeSessionNotFound {
		t.Fatalf("expected %s, got %+v", ErrCodeSessionNotFound, envelope.Error)
	}
}

func TestCheckEndpoint(t *testing.T) {
	r := newTestRouter(t)
	id := createSession(t, r)

	w, envelope := doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/events/check", map[string]any{
		"context": "in_space",
	})
	if w.Code != http.StatusOK || !envelope.Success {
		t.Fatalf("check: status %d, envelope %+v", w.Code, envelope)
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected data %v", envelope.Data)
	}
	if _, present := data["triggered"]; !present {
		t.Fatal("response missing triggered flag")
	}

	// Missing context fails binding.
	w, _ = doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/events/check", map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing context, got %d", w.Code)
	}
}

func TestResolveEndpoint(t *testing.T) {
	r := newTestRouter(t)
	id := createSession(t, r)

	w, envelope := doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/events/resolve", map[string]any{
		"event_id": "pirate_ambush",
	})
	if w.Code != http.StatusOK || !envelope.Success {
		t.Fatalf("resolve: status %d, envelope %+v", w.Code, envelope)
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected data %v", envelope.Data)
	}
	if success, _ := data["success"].(bool); !success {
		t.Fatalf("pirate presentation should succeed, got %v", data)
	}
	choices, _ := data["choices"].([]any)
	if len(choices) != 3 {
		t.Fatalf("expected 3 pirate choices, got %v", choices)
	}

	w, envelope = doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/events/resolve", map[string]any{
		"event_id": "no_such_event",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown event, got %d", w.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != ErrCodeEventNotFound {
		t.Fatalf("expected %s, got %+v", ErrCodeEventNotFound, envelope.Error)
	}
}

func TestCatalogEndpoints(t *testing.T) {
	r := newTestRouter(t)
	id := createSession(t, r)

	w, envelope := doJSON(t, r, http.MethodGet, "/api/sessions/"+id+"/events", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get events: status %d", w.Code)
	}
	data := envelope.Data.(map[string]any)
	events, _ := data["events"].([]any)
	if len(events) != 10 {
		t.Fatalf("expected 10 stock events, got %d", len(events))
	}

	w, _ = doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/events", map[string]any{
		"id":               "solar_flare",
		"name":             "Solar Flare",
		"event_type":       "storm",
		"context":          "during_travel",
		"base_probability": 0.2,
		"min_level":        1,
		"max_level":        100,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register event: status %d", w.Code)
	}

	w, envelope = doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/events", map[string]any{
		"id":               "broken",
		"base_probability": 3.0,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad probability, got %d", w.Code)
	}
	_ = envelope

	w, _ = doJSON(t, r, http.MethodDelete, "/api/sessions/"+id+"/events/solar_flare", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unregister event: status %d", w.Code)
	}

	_, envelope = doJSON(t, r, http.MethodGet, "/api/sessions/"+id+"/events", nil)
	data = envelope.Data.(map[string]any)
	events, _ = data["events"].([]any)
	if len(events) != 10 {
		t.Fatalf("expected 10 events after unregister, got %d", len(events))
	}
}

func TestHistoryAndStatisticsEndpoints(t *testing.T) {
	r := newTestRouter(t)
	id := createSession(t, r)

	for i := 0; i < 3; i++ {
		doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/events/resolve", map[string]any{
			"event_id": "space_storm",
		})
	}

	w, envelope := doJSON(t, r, http.MethodGet, "/api/sessions/"+id+"/events/history?limit=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("history: status %d", w.Code)
	}
	data := envelope.Data.(map[string]any)
	history, _ := data["history"].([]any)
	if len(history) != 2 {
		t.Fatalf("expected 2 history records, got %d", len(history))
	}

	w, _ = doJSON(t, r, http.MethodGet, "/api/sessions/"+id+"/events/history?limit=bogus", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", w.Code)
	}

	w, envelope = doJSON(t, r, http.MethodGet, "/api/sessions/"+id+"/events/statistics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("statistics: status %d", w.Code)
	}
	stats := envelope.Data.(map[string]any)
	if total, _ := stats["total_events"].(float64); total != 3 {
		t.Fatalf("expected total_events 3, got %v", stats["total_events"])
	}
}

func TestSaveLoadEndpoints(t *testing.T) {
	r := newTestRouter(t)
	id := createSession(t, r)

	doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/events/resolve", map[string]any{
		"event_id": "space_storm",
	})

	w, _ := doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/save", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("save: status %d", w.Code)
	}

	w, _ = doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/load", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("load: status %d", w.Code)
	}

	other := createSession(t, r)
	w, envelope := doJSON(t, r, http.MethodPost, "/api/sessions/"+other+"/load", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 loading unsaved session, got %d", w.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != ErrCodeSaveNotFound {
		t.Fatalf("expected %s, got %+v", ErrCodeSaveNotFound, envelope.Error)
	}
}

func TestArchiveStatisticsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	createSession(t, r)

	w, envelope := doJSON(t, r, http.MethodGet, "/api/archive/statistics", nil)
	if w.Code != http.StatusOK || !envelope.Success {
		t.Fatalf("archive statistics: status %d, envelope %+v", w.Code, envelope)
	}
	data := envelope.Data.(map[string]any)
	if _, present := data["total_events"]; !present {
		t.Fatalf("missing total_events in %v", data)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": c.GetString("request_id")})
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "fixed-id" {
		t.Fatalf("expected header echo, got %q", got)
	}
}

func TestRateLimiterWindow(t *testing.T) {
	rl := NewRateLimiter()

	for i := 0; i < 3; i++ {
		if !rl.Allow("client", 3, time.Minute) {
			t.Fatalf("request %d should pass", i)
		}
	}
	if rl.Allow("client", 3, time.Minute) {
		t.Fatal("fourth request should be limited")
	}
	if !rl.Allow("other", 3, time.Minute) {
		t.Fatal("other clients are independent")
	}
}
