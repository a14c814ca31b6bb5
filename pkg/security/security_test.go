package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	r := newRouter(RateLimiter(2, time.Hour))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}
}

func TestSecureHeaders(t *testing.T) {
	r := newRouter(Secure())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if rec.Header().Get("X-Content-Type-Options") != "nosniff" || rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Fatalf("missing security headers: %v", rec.Header())
	}
}

func TestCORSFollowsReplacedOrigins(t *testing.T) {
	origins := NewOriginList([]string{"http://a.example"})
	r := newRouter(CORS(origins))

	get := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	if rec := get("http://a.example"); rec.Header().Get("Access-Control-Allow-Origin") != "http://a.example" {
		t.Fatalf("allowed origin rejected: %v", rec.Header())
	}
	if rec := get("http://b.example"); rec.Code != http.StatusForbidden {
		t.Fatalf("expected unknown origin to be refused, got %d", rec.Code)
	}

	origins.Replace([]string{"http://b.example"})
	if rec := get("http://b.example"); rec.Header().Get("Access-Control-Allow-Origin") != "http://b.example" {
		t.Fatalf("replaced origin list not applied: %v", rec.Header())
	}
}
