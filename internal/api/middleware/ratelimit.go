package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/coursin/marketing-api/internal/api/metrics"
	"github.com/coursin/marketing-api/internal/core/ratelimit"
)

// rateLimitedResponse is the 429 body, mirroring the Retry-After header so
// browser clients without header access can still back off.
type rateLimitedResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retryAfter"`
}

// RateLimit gates a route on the given limiter, keyed by client IP. Denied
// requests get a 429 with a Retry-After header before the handler runs.
//
// A limiter store failure fails open with a logged warning: admission
// control protects the mail pipeline, it must not take the route down.
func RateLimit(limiter ratelimit.Limiter, limit int, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()

			res, err := limiter.Admit(c.Request().Context(), key)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable, admitting request")
				return next(c)
			}

			retryAfter := int(res.ResetAfter.Seconds() + 0.5)
			header := c.Response().Header()
			header.Set("X-RateLimit-Limit", strconv.Itoa(limit))
			header.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			header.Set("X-RateLimit-Reset", strconv.Itoa(retryAfter))

			if !res.Allowed {
				metrics.RateLimitDecisionsTotal.WithLabelValues("denied").Inc()
				header.Set("Retry-After", strconv.Itoa(retryAfter))
				return c.JSON(http.StatusTooManyRequests, rateLimitedResponse{
					Message:    "Too many requests. Please try again later.",
					RetryAfter: retryAfter,
				})
			}

			metrics.RateLimitDecisionsTotal.WithLabelValues("allowed").Inc()
			return next(c)
		}
	}
}
