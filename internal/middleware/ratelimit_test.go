package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/finbeam/guarantor-intake/internal/config"
)

func newLimiterContext(t *testing.T) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest("GET", "/v1/submissions/list", nil)
	req.Header.Set("X-Real-Ip", "203.0.113.9")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/submissions/list")
	return c
}

// User-keyed strategies must pick up the id JWTAuth stored in context.
// JWT numeric claims arrive as float64.
func TestBuildRateKeyUsesAuthenticatedUser(t *testing.T) {
	c := newLimiterContext(t)
	c.Set("user_id", float64(42))

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}
	if got, want := buildRateKey(cfg, c), "rl:user:42"; got != want {
		t.Fatalf("key = %q, want %q", got, want)
	}

	cfg.KeyStrategy = "ip_user"
	if got, want := buildRateKey(cfg, c), "rl:ip:203.0.113.9:user:42"; got != want {
		t.Fatalf("key = %q, want %q", got, want)
	}
}

// Requests without an authenticated user share the anon bucket.
func TestBuildRateKeyAnonymous(t *testing.T) {
	c := newLimiterContext(t)

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}
	if got, want := buildRateKey(cfg, c), "rl:user:anon"; got != want {
		t.Fatalf("key = %q, want %q", got, want)
	}
}

// A disabled limiter (or missing Redis) must pass requests through.
func TestTokenBucketDisabledPassesThrough(t *testing.T) {
	c := newLimiterContext(t)
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)

	called := false
	h := mw(func(echo.Context) error {
		called = true
		return nil
	})
	if err := h(c); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Fatal("disabled limiter must invoke the next handler")
	}
}
