package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/billiards/internal/admin"
	"github.com/playmatatu/billiards/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ok(c *gin.Context) { c.Status(http.StatusOK) }

func TestAdminTokenMiddleware(t *testing.T) {
	hash, err := admin.HashToken("an-admin-token-123")
	if err != nil {
		t.Fatal(err)
	}
	router := gin.New()
	router.GET("/admin", AdminTokenMiddleware(&config.Config{AdminTokenHash: hash}), ok)

	cases := []struct {
		token string
		want  int
	}{
		{"", http.StatusUnauthorized},
		{"wrong-token-123456", http.StatusUnauthorized},
		{"an-admin-token-123", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if tc.token != "" {
			req.Header.Set("X-Admin-Token", tc.token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Errorf("token %q: status %d, want %d", tc.token, w.Code, tc.want)
		}
	}
}

func TestAdminTokenMiddlewareWithoutHash(t *testing.T) {
	router := gin.New()
	router.GET("/admin", AdminTokenMiddleware(&config.Config{}), ok)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("X-Admin-Token", "anything-at-all")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status %d, want 401", w.Code)
	}
}

func TestWebSocketCORSCheck(t *testing.T) {
	cfg := &config.Config{Environment: "production", FrontendURL: "https://pool.example.com"}
	router := gin.New()
	router.GET("/ws", WebSocketCORSCheck(cfg), ok)

	cases := []struct {
		name    string
		upgrade bool
		origin  string
		want    int
	}{
		{"plain request", false, "https://evil.example.com", http.StatusOK},
		{"allowed origin", true, "https://pool.example.com", http.StatusOK},
		{"no origin", true, "", http.StatusOK},
		{"other origin", true, "https://evil.example.com", http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if tc.upgrade {
			req.Header.Set("Connection", "Upgrade")
			req.Header.Set("Upgrade", "websocket")
		}
		if tc.origin != "" {
			req.Header.Set("Origin", tc.origin)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Errorf("%s: status %d, want %d", tc.name, w.Code, tc.want)
		}
	}
}

func TestCORSMiddlewareAllowsFrontend(t *testing.T) {
	cfg := &config.Config{Environment: "production", FrontendURL: "https://pool.example.com"}
	router := gin.New()
	router.Use(CORSMiddleware(cfg))
	router.GET("/x", ok)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://pool.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://pool.example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}
}
