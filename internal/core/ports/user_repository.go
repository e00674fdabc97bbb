package ports

import (
	"context"
	"time"

	"github.com/coursin/marketing-api/internal/core/domain"
)

// UserRepository defines the persistence contract for user accounts.
// Implementations must enforce email uniqueness on Create and Update.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}
