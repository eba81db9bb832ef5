package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestIdempotencyValidator_NoHeaderIsNoop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(IdempotencyValidator(IdempotencyOptions{}, nil))
	r.POST("/polls/:id/votes", func(c *gin.Context) {
		if _, ok := GetIdempotencyKey(c); ok {
			t.Fatalf("key should not be set without header")
		}
		if IsReplay(c) {
			t.Fatalf("replay should not be set without header")
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/polls/p1/votes", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestIdempotencyValidator_RejectsBadKeys(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(IdempotencyValidator(IdempotencyOptions{MaxLen: 10}, nil))
	r.POST("/polls/:id/votes", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name string
		key  string
	}{
		{"too_long", strings.Repeat("a", 11)},
		{"bad_chars", "no spaces!"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/polls/p1/votes", nil)
			req.Header.Set(HeaderIdempotencyKey, tc.key)
			r.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 for %q, got %d", tc.key, w.Code)
			}
		})
	}
}

func TestIdempotencyValidator_MarksReplay(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var gotPollID, gotKey string
	lookup := func(_ context.Context, pollID, key string, _ time.Time) (bool, error) {
		gotPollID, gotKey = pollID, key
		return true, nil
	}

	r := gin.New()
	r.Use(IdempotencyValidator(IdempotencyOptions{}, lookup))
	r.POST("/polls/:id/votes", func(c *gin.Context) {
		if !IsReplay(c) {
			t.Fatalf("expected replay flag")
		}
		if !IsRateBypass(c) {
			t.Fatalf("replay should bypass rate limiting")
		}
		key, ok := GetIdempotencyKey(c)
		if !ok || key != "k-1" {
			t.Fatalf("key not stashed: %q %v", key, ok)
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/polls/p1/votes", nil)
	req.Header.Set(HeaderIdempotencyKey, "k-1")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotPollID != "p1" || gotKey != "k-1" {
		t.Fatalf("lookup saw (%q, %q)", gotPollID, gotKey)
	}
}

func TestIdempotencyValidator_FreshKeyNotReplay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	lookup := func(context.Context, string, string, time.Time) (bool, error) { return false, nil }

	r := gin.New()
	r.Use(IdempotencyValidator(IdempotencyOptions{}, lookup))
	r.POST("/polls/:id/votes", func(c *gin.Context) {
		if IsReplay(c) {
			t.Fatalf("fresh key must not be marked replay")
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/polls/p1/votes", nil)
	req.Header.Set(HeaderIdempotencyKey, "fresh")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
