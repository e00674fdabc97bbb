package ports

import (
	"context"

	"github.com/coursin/marketing-api/internal/core/domain"
)

type ContactService interface {
	Submit(ctx context.Context, msg domain.ContactMessage) error
}
