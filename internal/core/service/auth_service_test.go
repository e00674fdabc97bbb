package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/coursin/marketing-api/internal/core/domain"
	"github.com/coursin/marketing-api/internal/core/token"
)

type stubUserRepo struct {
	byID    map[string]*domain.User
	byEmail map[string]string
	nextID  int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.byEmail[user.Email]; exists {
		return nil, domain.ErrEmailExists
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = string(rune('a' + r.nextID))
	r.byID[stored.ID] = stored
	r.byEmail[stored.Email] = stored.ID
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(r.byID[id]), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	stored, ok := r.byID[user.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if user.Email != stored.Email {
		if _, taken := r.byEmail[user.Email]; taken {
			return nil, domain.ErrEmailExists
		}
		delete(r.byEmail, stored.Email)
		r.byEmail[user.Email] = stored.ID
	}
	stored.Name = user.Name
	stored.Email = user.Email
	return cloneUser(stored), nil
}

func (r *stubUserRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastLoginAt = &at
	return nil
}

func newTestAuthService(repo *stubUserRepo) (*AuthService, *token.Service) {
	tokens := token.NewService("secret", time.Hour)
	return NewAuthService(repo, tokens, zerolog.Nop()), tokens
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newTestAuthService(repo)

	tok, user, err := svc.Register(context.Background(), "Ada", "Ada@Example.COM", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.Role != domain.RoleStudent {
		t.Fatalf("expected student role, got %q", user.Role)
	}
	if user.PasswordHash == "secret1" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	subject, err := tokens.Verify(tok)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if subject != user.ID {
		t.Fatalf("token subject %q does not match user id %q", subject, user.ID)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	if _, _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "secret1"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, _, err := svc.Register(context.Background(), "Ada 2", "ADA@example.com", "secret2"); err != domain.ErrEmailExists {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestAuthService_Register_EmptyFields(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	if _, _, err := svc.Register(context.Background(), "", "ada@example.com", "secret1"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newTestAuthService(repo)

	_, registered, err := svc.Register(context.Background(), "Ada", "ada@example.com", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	tok, user, err := svc.Login(context.Background(), "ada@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("expected user %q, got %q", registered.ID, user.ID)
	}
	if user.LastLoginAt == nil {
		t.Fatalf("expected last login to be set")
	}
	if stored := repo.byID[user.ID]; stored.LastLoginAt == nil {
		t.Fatalf("expected last login to be persisted")
	}

	subject, err := tokens.Verify(tok)
	if err != nil || subject != user.ID {
		t.Fatalf("login token invalid: (%q, %v)", subject, err)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	if _, _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "ada@example.com", "wrong"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	// Unknown email must be indistinguishable from a wrong password.
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "secret1"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_UpdateProfile(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	_, ada, err := svc.Register(context.Background(), "Ada", "ada@example.com", "secret1")
	if err != nil {
		t.Fatalf("register ada: %v", err)
	}
	if _, _, err := svc.Register(context.Background(), "Bob", "bob@example.com", "secret2"); err != nil {
		t.Fatalf("register bob: %v", err)
	}

	updated, err := svc.UpdateProfile(context.Background(), ada.ID, "Ada Lovelace", "")
	if err != nil {
		t.Fatalf("update name: %v", err)
	}
	if updated.Name != "Ada Lovelace" || updated.Email != "ada@example.com" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	if _, err := svc.UpdateProfile(context.Background(), ada.ID, "", "BOB@example.com"); err != domain.ErrEmailExists {
		t.Fatalf("expected ErrEmailExists on taken email, got %v", err)
	}
}
