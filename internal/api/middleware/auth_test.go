package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/coursin/marketing-api/internal/core/domain"
	"github.com/coursin/marketing-api/internal/core/token"
)

type stubUserResolver struct {
	user *domain.User
	err  error
}

func (r *stubUserResolver) UserByID(_ context.Context, id string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.user == nil || r.user.ID != id {
		return nil, domain.ErrUserNotFound
	}
	return r.user, nil
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	tokens := token.NewService("secret", time.Hour)
	signed, err := tokens.Issue("user-1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	user := &domain.User{ID: "user-1", Name: "Ada", Email: "ada@example.com", Role: domain.RoleStudent}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := 0
	mw := Auth(tokens, &stubUserResolver{user: user})
	h := mw(func(c echo.Context) error {
		called++
		got, err := CurrentUser(c)
		if err != nil {
			t.Fatalf("current user: %v", err)
		}
		if got.ID != "user-1" || got.Email != "ada@example.com" {
			t.Fatalf("unexpected principal: %+v", got)
		}
		if c.Get(ContextKeyToken) != signed {
			t.Fatalf("raw token not attached")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if called != 1 {
		t.Fatalf("expected handler to run exactly once, ran %d times", called)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func rejectedRequest(t *testing.T, header string, resolver UserResolver) int {
	t.Helper()
	e := echo.New()
	tokens := token.NewService("secret", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth(tokens, resolver)
	h := mw(func(c echo.Context) error {
		t.Fatalf("handler must not run")
		return nil
	})

	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec.Code
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	if code := rejectedRequest(t, "", &stubUserResolver{}); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	for _, header := range []string{"Token abc", "Bearer", "Bearer "} {
		if code := rejectedRequest(t, header, &stubUserResolver{}); code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, code)
		}
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	if code := rejectedRequest(t, "Bearer not-a-token", &stubUserResolver{}); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	expired := token.NewService("secret", time.Hour, token.WithClock(func() time.Time { return past }))
	signed, err := expired.Issue("user-1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if code := rejectedRequest(t, "Bearer "+signed, &stubUserResolver{}); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestAuthMiddleware_UserNotFound(t *testing.T) {
	tokens := token.NewService("secret", time.Hour)
	signed, err := tokens.Issue("ghost")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if code := rejectedRequest(t, "Bearer "+signed, &stubUserResolver{}); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}
