package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/coursin/marketing-api/internal/api/metrics"
	"github.com/coursin/marketing-api/internal/core/domain"
	"github.com/coursin/marketing-api/internal/core/ports"
	"github.com/coursin/marketing-api/internal/core/ratelimit"
)

type ContactHandler struct {
	contactService ports.ContactService
	limiter        ratelimit.Limiter
	window         time.Duration
}

func NewContactHandler(contactService ports.ContactService, limiter ratelimit.Limiter, window time.Duration) *ContactHandler {
	return &ContactHandler{contactService: contactService, limiter: limiter, window: window}
}

// Submit handles an admitted contact-form submission. Rate limiting already
// happened in the route middleware; this validates and queues the emails.
//
// @Summary      Submit the contact form
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        body  body      contactRequest  true  "Contact form fields"
// @Success      200   {object}  contactResponse
// @Failure      400   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/contact [post]
func (h *ContactHandler) Submit(c echo.Context) error {
	var req contactRequest
	if err := c.Bind(&req); err != nil {
		metrics.ContactSubmissionsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.ContactSubmissionsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	msg := domain.ContactMessage{
		Name:           req.Name,
		Email:          domain.NormalizeEmail(req.Email),
		Phone:          req.Phone,
		CourseInterest: req.CourseInterest,
		Message:        req.Message,
		Subscribe:      req.Subscribe,
		ClientIP:       c.RealIP(),
	}

	if err := h.contactService.Submit(c.Request().Context(), msg); err != nil {
		return err
	}
	metrics.ContactSubmissionsTotal.WithLabelValues("ok").Inc()

	return c.JSON(http.StatusOK, contactResponse{
		Success: true,
		Message: "Message sent successfully! We will get back to you within 24 hours.",
	})
}

// RateLimitStatus reports the caller's current contact-form quota without
// consuming an admission slot.
//
// @Summary      Read the caller's contact rate-limit status
// @Tags         contact
// @Produce      json
// @Success      200  {object}  rateLimitStatusResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/contact/rate-limit [get]
func (h *ContactHandler) RateLimitStatus(c echo.Context) error {
	status, err := h.limiter.Status(c.Request().Context(), c.RealIP())
	if err != nil {
		return fmt.Errorf("rate limit status: %w", err)
	}

	return c.JSON(http.StatusOK, rateLimitStatusResponse{
		Success: true,
		Data: rateLimitData{
			Remaining:  status.Remaining,
			Limit:      status.Limit,
			ResetAfter: int(status.ResetAfter.Seconds() + 0.5),
			IsLimited:  status.IsLimited,
			Window:     h.window.String(),
		},
	})
}
