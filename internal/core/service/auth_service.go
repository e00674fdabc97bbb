package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/coursin/marketing-api/internal/core/domain"
	"github.com/coursin/marketing-api/internal/core/ports"
)

// TokenIssuer is the slice of the token service the auth service needs.
type TokenIssuer interface {
	Issue(subjectID string) (string, error)
}

// AuthService implements registration, login, and profile management.
type AuthService struct {
	repo       ports.UserRepository
	tokens     TokenIssuer
	bcryptCost int
	log        zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
		log:        log,
	}
}

// Register creates an account and returns a fresh token alongside the user.
// Duplicate emails surface as domain.ErrEmailExists from the repository.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, *domain.User, error) {
	if name == "" || email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        domain.NormalizeEmail(email),
		PasswordHash: string(hash),
		Role:         domain.RoleStudent,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return "", nil, err
	}

	tok, err := s.tokens.Issue(created.ID)
	if err != nil {
		return "", nil, err
	}
	return tok, created, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password both return domain.ErrInvalidCredentials so callers cannot probe
// which emails are registered.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if err == domain.ErrUserNotFound {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		// Login still succeeds; the timestamp is informational.
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login")
	} else {
		user.LastLoginAt = &now
	}

	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}
	return tok, user, nil
}

// UserByID resolves a user record for the auth middleware and profile reads.
func (s *AuthService) UserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateProfile changes the user's name and/or email. Empty fields are left
// untouched; an email change is re-checked for uniqueness by the repository.
func (s *AuthService) UpdateProfile(ctx context.Context, id, name, email string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if email != "" {
		user.Email = domain.NormalizeEmail(email)
	}

	return s.repo.Update(ctx, user)
}
