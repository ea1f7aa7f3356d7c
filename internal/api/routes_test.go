package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/billiards/internal/admin"
	"github.com/playmatatu/billiards/internal/auth"
	"github.com/playmatatu/billiards/internal/config"
	"github.com/playmatatu/billiards/internal/tables"
	"github.com/playmatatu/billiards/internal/ws"
)

const adminToken = "test-admin-token"

func newTestRouter(t *testing.T, maxTables int) (*gin.Engine, *tables.Manager, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := admin.HashToken(adminToken)
	if err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{
		Environment:          "production",
		FrontendURL:          "https://pool.example.com",
		JWTSecret:            "test-secret",
		TableTokenTTLMinutes: 10,
		AdminTokenHash:       hash,
	}

	hub := ws.NewHub()
	go hub.Run()
	ctx, cancel := context.WithCancel(context.Background())
	manager := tables.NewManager(ctx, nil, nil, hub, tables.Options{MaxTables: maxTables})
	t.Cleanup(func() {
		manager.Shutdown()
		cancel()
	})

	router := gin.New()
	SetupRoutes(router, nil, nil, manager, hub, cfg)
	return router, manager, cfg
}

func do(router *gin.Engine, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return body
}

func TestHealth(t *testing.T) {
	router, _, _ := newTestRouter(t, 0)
	w := do(router, http.MethodGet, "/api/v1/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	body := decode(t, w)
	if body["status"] != "ok" || body["database"] != "disabled" || body["redis"] != "disabled" {
		t.Errorf("health = %v", body)
	}
}

func TestCreateAndGetTable(t *testing.T) {
	router, _, cfg := newTestRouter(t, 0)

	w := do(router, http.MethodPost, "/api/v1/tables", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status %d: %s", w.Code, w.Body.String())
	}
	created := decode(t, w)
	id, _ := created["id"].(string)
	token, _ := created["token"].(string)
	if id == "" || token == "" {
		t.Fatalf("create response = %v", created)
	}
	if granted, err := auth.ParseTableToken(cfg.JWTSecret, token); err != nil || granted != id {
		t.Errorf("token grants %q (%v), want %q", granted, err, id)
	}

	w = do(router, http.MethodGet, "/api/v1/tables/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status %d", w.Code)
	}
	state := decode(t, w)
	if state["id"] != id || state["live"] != true {
		t.Errorf("state = %v", state)
	}
	snap := state["snapshot"].(map[string]interface{})
	if balls := snap["balls"].([]interface{}); len(balls) != 7 {
		t.Errorf("snapshot has %d balls", len(balls))
	}

	w = do(router, http.MethodGet, "/api/v1/tables/"+id+"/shots", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("shots status %d", w.Code)
	}
	if shots := decode(t, w)["shots"].([]interface{}); len(shots) != 0 {
		t.Errorf("shots = %v", shots)
	}
}

func TestGetUnknownTable(t *testing.T) {
	router, _, _ := newTestRouter(t, 0)
	if w := do(router, http.MethodGet, "/api/v1/tables/t_nope", nil); w.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404", w.Code)
	}
}

func TestCreateTableLimit(t *testing.T) {
	router, _, _ := newTestRouter(t, 1)
	if w := do(router, http.MethodPost, "/api/v1/tables", nil); w.Code != http.StatusCreated {
		t.Fatalf("first create status %d", w.Code)
	}
	if w := do(router, http.MethodPost, "/api/v1/tables", nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("second create status %d, want 503", w.Code)
	}
}

func TestAdminTables(t *testing.T) {
	router, manager, _ := newTestRouter(t, 0)
	s, err := manager.CreateTable()
	if err != nil {
		t.Fatal(err)
	}
	hdr := map[string]string{"X-Admin-Token": adminToken}

	if w := do(router, http.MethodGet, "/api/v1/admin/tables", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated list status %d", w.Code)
	}

	w := do(router, http.MethodGet, "/api/v1/admin/tables", hdr)
	if w.Code != http.StatusOK {
		t.Fatalf("list status %d", w.Code)
	}
	if n := decode(t, w)["count"]; n != float64(1) {
		t.Errorf("count = %v", n)
	}

	w = do(router, http.MethodGet, "/api/v1/admin/tables/history?limit=500", hdr)
	if w.Code != http.StatusOK {
		t.Fatalf("history status %d", w.Code)
	}
	if limit := decode(t, w)["limit"]; limit != float64(25) {
		t.Errorf("history limit = %v, want clamped 25", limit)
	}

	if w := do(router, http.MethodDelete, "/api/v1/admin/tables/"+s.ID, hdr); w.Code != http.StatusOK {
		t.Fatalf("close status %d", w.Code)
	}
	if manager.Count() != 0 {
		t.Error("table still running after close")
	}
	if w := do(router, http.MethodDelete, "/api/v1/admin/tables/"+s.ID, hdr); w.Code != http.StatusNotFound {
		t.Errorf("second close status %d, want 404", w.Code)
	}
}
