// ratelimit_test.go — Unit tests for the token bucket rate limiter.
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/payroll-extractor-api/internal/models"
)

// withAPIKey returns middleware that plants an authenticated key in the
// context, standing in for the auth middleware.
func withAPIKey(key *models.APIKey) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(string(apiKeyContextKey), key)
		c.Next()
	}
}

func TestRateLimitEnforcesPerKeyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter()
	key := &models.APIKey{ID: "key-1", RateLimit: 2}

	r := gin.New()
	r.GET("/x", withAPIKey(key), rl.RateLimit(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// The bucket holds 2 tokens, so the first two requests pass.
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want %d", i+1, w.Code, http.StatusOK)
		}
		if w.Header().Get("X-RateLimit-Limit") != "2" {
			t.Errorf("X-RateLimit-Limit = %q, want 2", w.Header().Get("X-RateLimit-Limit"))
		}
	}

	// Third request finds an empty bucket.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("request 3 status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
	if w.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("X-RateLimit-Remaining = %q, want 0", w.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestRateLimitPassesRequestsWithoutAPIKey(t *testing.T) {
	// Requests authenticated by other means (download tokens) carry no API
	// key in the context. The limiter must not block them — rejection is
	// the auth middleware's job.
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter()
	r := gin.New()
	r.GET("/x", rl.RateLimit(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want %d", i+1, w.Code, http.StatusOK)
		}
	}
}

func TestRateLimitIsolatesKeys(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter()
	keyA := &models.APIKey{ID: "key-a", RateLimit: 1}
	keyB := &models.APIKey{ID: "key-b", RateLimit: 1}

	r := gin.New()
	r.GET("/a", withAPIKey(keyA), rl.RateLimit(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/b", withAPIKey(keyB), rl.RateLimit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	// Drain key A's bucket.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/a", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("key A first request status = %d", w.Code)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/a", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("key A second request status = %d, want 429", w.Code)
	}

	// Key B still has its own token.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/b", nil))
	if w.Code != http.StatusOK {
		t.Errorf("key B request status = %d, want %d", w.Code, http.StatusOK)
	}
}
