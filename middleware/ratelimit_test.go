package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func limiterRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimiter())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return r
}

func hit(r *gin.Engine, ip string) int {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":1234"
	r.ServeHTTP(rec, req)
	return rec.Code
}

func swapLimiter(t *testing.T, limit int) {
	t.Helper()
	old := limiter
	limiter = &rateLimiter{
		windows: make(map[string]*clientWindow),
		limit:   limit,
		window:  time.Minute,
	}
	t.Cleanup(func() { limiter = old })
}

func TestRateLimiterCapsPerIP(t *testing.T) {
	swapLimiter(t, 3)
	r := limiterRouter()

	for i := 0; i < 3; i++ {
		if code := hit(r, "10.0.0.9"); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, code)
		}
	}
	if code := hit(r, "10.0.0.9"); code != http.StatusTooManyRequests {
		t.Fatalf("over-limit request: status = %d, want 429", code)
	}
	// Another client keeps its own window.
	if code := hit(r, "10.0.0.10"); code != http.StatusOK {
		t.Fatalf("other IP: status = %d, want 200", code)
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	swapLimiter(t, 1)
	r := limiterRouter()

	if code := hit(r, "10.0.0.9"); code != http.StatusOK {
		t.Fatalf("first request: status = %d", code)
	}
	if code := hit(r, "10.0.0.9"); code != http.StatusTooManyRequests {
		t.Fatalf("second request: status = %d, want 429", code)
	}

	limiter.mu.Lock()
	limiter.windows["10.0.0.9"].resetTime = time.Now().Add(-time.Second)
	limiter.mu.Unlock()

	if code := hit(r, "10.0.0.9"); code != http.StatusOK {
		t.Fatalf("after window reset: status = %d, want 200", code)
	}
}

// The counter lock must not be held while the request handler runs.
func TestRateLimiterReleasesLockDuringHandler(t *testing.T) {
	swapLimiter(t, 10)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimiter())

	free := false
	r.GET("/ping", func(c *gin.Context) {
		if limiter.mu.TryLock() {
			limiter.mu.Unlock()
			free = true
		}
		c.Status(http.StatusOK)
	})

	if code := hit(r, "10.0.0.9"); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if !free {
		t.Fatal("limiter mutex still held while the handler ran")
	}
}
