package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/weekbook/resource-booking-api/internal/config"
)

func serveOnce(t *testing.T, mw echo.MiddlewareFunc) bool {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return called
}

func TestNewRateLimitPassThrough(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: false, Limit: 1, Window: time.Minute, Prefix: "t"}
	if !serveOnce(t, NewRateLimit(cfg, nil)) {
		t.Error("disabled limiter must call the next handler")
	}
	cfg.Enabled = true
	if !serveOnce(t, NewRateLimit(cfg, nil)) {
		t.Error("limiter without a Redis client must call the next handler")
	}
}

// A window shorter than the one-second bucket granularity must not
// bring the request path down; the limiter clamps it instead.
func TestNewRateLimitSubSecondWindow(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
	})
	defer rdb.Close()

	cfg := config.RateLimitConfig{
		Enabled: true,
		Limit:   10,
		Window:  500 * time.Millisecond,
		Prefix:  "t",
	}
	if !serveOnce(t, NewRateLimit(cfg, rdb)) {
		t.Error("unreachable Redis must fail open, not drop the request")
	}
}

func TestClientKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:4567"
	c := e.NewContext(req, httptest.NewRecorder())
	if got := clientKey(c); got != "ip10.1.2.3" {
		t.Errorf("anonymous clientKey = %q, want ip10.1.2.3", got)
	}
	c.Set("user_id", uint64(7))
	if got := clientKey(c); got != "m7" {
		t.Errorf("member clientKey = %q, want m7", got)
	}
}
