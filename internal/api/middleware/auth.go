package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/coursin/marketing-api/internal/api/metrics"
	"github.com/coursin/marketing-api/internal/core/domain"
)

// Context keys set by Auth on successful admission.
const (
	ContextKeyUser  = "user"
	ContextKeyToken = "token"
)

// TokenVerifier checks a bearer token and returns its subject id.
type TokenVerifier interface {
	Verify(tokenString string) (string, error)
}

// UserResolver loads the user record for a verified subject id.
type UserResolver interface {
	UserByID(ctx context.Context, id string) (*domain.User, error)
}

// Auth admits requests carrying a valid bearer token for an existing user,
// attaching the resolved user and the raw token to the request context.
// Every rejection is a 401 emitted before the downstream handler runs:
// missing header, malformed header, invalid/expired token, and unknown
// subject all short-circuit here.
func Auth(tokens TokenVerifier, users UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			subjectID, err := tokens.Verify(parts[1])
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues("rejected").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}
			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()

			user, err := users.UserByID(c.Request().Context(), subjectID)
			if err != nil {
				// A valid token for a deleted account is still a 401.
				return echo.NewHTTPError(http.StatusUnauthorized, "user not found")
			}

			c.Set(ContextKeyUser, user)
			c.Set(ContextKeyToken, parts[1])

			return next(c)
		}
	}
}

// CurrentUser extracts the user injected by Auth. A missing user means the
// route was wired without the middleware; fail closed with a 401.
func CurrentUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get(ContextKeyUser).(*domain.User)
	if !ok || user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return user, nil
}
