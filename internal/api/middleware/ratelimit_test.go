package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/coursin/marketing-api/internal/core/ratelimit"
)

func doLimitedRequest(t *testing.T, mw echo.MiddlewareFunc) (*httptest.ResponseRecorder, int) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
	req.RemoteAddr = "1.2.3.4:5678"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := 0
	h := mw(func(c echo.Context) error {
		called++
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestRateLimitMiddleware_AllowsThenDenies(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(2, 20*time.Minute)
	mw := RateLimit(limiter, 2, zerolog.Nop())

	for i := 0; i < 2; i++ {
		rec, called := doLimitedRequest(t, mw)
		if rec.Code != http.StatusOK || called != 1 {
			t.Fatalf("request %d: expected 200 with handler run, got %d (called=%d)", i, rec.Code, called)
		}
	}

	rec, called := doLimitedRequest(t, mw)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if called != 0 {
		t.Fatalf("handler must not run on denial")
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}

	var body struct {
		Success    bool `json:"success"`
		RetryAfter int  `json:"retryAfter"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Success {
		t.Fatalf("expected success=false")
	}
	if body.RetryAfter <= 0 || body.RetryAfter > 1200 {
		t.Fatalf("unexpected retryAfter: %d", body.RetryAfter)
	}
}

func TestRateLimitMiddleware_SetsQuotaHeaders(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(2, 20*time.Minute)
	mw := RateLimit(limiter, 2, zerolog.Nop())

	rec, _ := doLimitedRequest(t, mw)
	if got := rec.Header().Get("X-RateLimit-Limit"); got != "2" {
		t.Fatalf("expected limit header 2, got %q", got)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "1" {
		t.Fatalf("expected remaining header 1, got %q", got)
	}
}

type failingLimiter struct{}

func (failingLimiter) Admit(context.Context, string) (ratelimit.Result, error) {
	return ratelimit.Result{}, errors.New("store down")
}

func (failingLimiter) Status(context.Context, string) (ratelimit.Status, error) {
	return ratelimit.Status{}, errors.New("store down")
}

func TestRateLimitMiddleware_FailsOpen(t *testing.T) {
	mw := RateLimit(failingLimiter{}, 2, zerolog.Nop())

	rec, called := doLimitedRequest(t, mw)
	if rec.Code != http.StatusOK || called != 1 {
		t.Fatalf("expected request to be admitted on limiter failure, got %d (called=%d)", rec.Code, called)
	}
}
