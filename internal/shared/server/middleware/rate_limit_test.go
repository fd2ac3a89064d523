package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimitThrottlesOnlySummarizeRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	groupFor := func(c *gin.Context) string {
		if strings.HasSuffix(c.Request.URL.Path, "/summarize") {
			return "LLM"
		}
		return ""
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "guest:test-guest")
		c.Next()
	})
	r.Use(RateLimit(RateLimitConfig{
		GroupFor: groupFor,
		Limiter:  limiter,
		Rules: map[string]RateLimitRule{
			"LLM": {Rate: 0.5, Burst: 2},
		},
	}))

	r.POST("/api/v1/documents/:id/summarize", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/api/v1/documents", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/doc-1/summarize", nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("summarize request %d expected 200, got %d", i+1, resp.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/doc-1/summarize", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("summarize request 3 expected 429, got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on 429")
	}

	// Routes without a rule are never throttled.
	for i := 0; i < 10; i++ {
		reqList := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
		respList := httptest.NewRecorder()
		r.ServeHTTP(respList, reqList)
		if respList.Code != http.StatusOK {
			t.Fatalf("list request %d expected 200, got %d", i+1, respList.Code)
		}
	}
}

func TestRateLimitRefillsOverTime(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	if ok, _ := limiter.Allow("user|LLM", rule); !ok {
		t.Fatal("first request should pass")
	}
	if ok, retryAfter := limiter.Allow("user|LLM", rule); ok {
		t.Fatal("second request should be throttled")
	} else if retryAfter <= 0 {
		t.Fatalf("retryAfter = %v", retryAfter)
	}

	now = now.Add(2 * time.Second)
	if ok, _ := limiter.Allow("user|LLM", rule); !ok {
		t.Fatal("request after refill should pass")
	}
}

func TestRateLimitSeparatesPrincipals(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 0.5, Burst: 1}

	if ok, _ := limiter.Allow("alice|LLM", rule); !ok {
		t.Fatal("alice's first request should pass")
	}
	if ok, _ := limiter.Allow("alice|LLM", rule); ok {
		t.Fatal("alice's second request should be throttled")
	}
	if ok, _ := limiter.Allow("bob|LLM", rule); !ok {
		t.Fatal("bob's bucket is independent of alice's")
	}
}
