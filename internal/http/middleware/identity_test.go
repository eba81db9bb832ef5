package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestIdentity_StashesHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Identity())

	var got string
	var present bool
	r.GET("/x", func(c *gin.Context) {
		if v, ok := c.Get(userIDKey); ok {
			present = true
			got, _ = v.(string)
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderUserID, "  alice  ")
	r.ServeHTTP(httptest.NewRecorder(), req)

	if !present || got != "alice" {
		t.Fatalf("expected trimmed identity in context, got present=%v value=%q", present, got)
	}
}

func TestIdentity_AnonymousLeavesKeyUnset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Identity())

	var present bool
	r.GET("/x", func(c *gin.Context) {
		_, present = c.Get(userIDKey)
		c.Status(http.StatusOK)
	})

	for _, hdr := range []string{"", "   "} {
		present = false
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if hdr != "" {
			req.Header.Set(HeaderUserID, hdr)
		}
		r.ServeHTTP(httptest.NewRecorder(), req)
		if present {
			t.Fatalf("expected no identity for header %q", hdr)
		}
	}
}

// The limiter must see the header identity, not just the client IP, so
// voters behind one NAT get separate buckets.
func TestIdentity_FeedsRateLimiterBuckets(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Identity())
	rl := NewRateLimiter(0, 1, KeyByUserOrIP())
	r.Use(rl.Handler())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(user string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(HeaderUserID, user)
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := hit("alice"); code != http.StatusOK {
		t.Fatalf("first alice request: expected 200, got %d", code)
	}
	if code := hit("alice"); code != http.StatusTooManyRequests {
		t.Fatalf("second alice request: expected 429, got %d", code)
	}
	// Same IP, different identity: fresh bucket.
	if code := hit("bob"); code != http.StatusOK {
		t.Fatalf("first bob request: expected 200, got %d", code)
	}
}
