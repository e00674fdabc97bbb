// Package token issues and verifies the bearer credentials used across the
// API. A single HMAC-SHA256 scheme is the only one accepted: tokens are
// three dot-separated base64url segments carrying registered JWT claims
// with the user id as subject.
package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/coursin/marketing-api/internal/core/domain"
)

const defaultTTL = 24 * time.Hour

// Service issues and verifies signed, time-limited bearer tokens.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option customises a Service at construction time.
type Option func(*Service)

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service signing with secret. A non-positive ttl
// falls back to 24 hours.
func NewService(secret string, ttl time.Duration, opts ...Option) *Service {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	s := &Service{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs a token whose subject is subjectID, valid from now until
// now+ttl.
func (s *Service) Issue(subjectID string) (string, error) {
	now := s.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   subjectID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify checks the signature and expiry of tokenString and returns the
// embedded subject id. Every failure mode — wrong segment count, malformed
// encoding, bad signature, expiry — collapses to domain.ErrInvalidToken so
// callers cannot tell them apart.
//
// The signature is checked before any claim is trusted; the HMAC comparison
// inside the jwt library is constant-time.
func (s *Service) Verify(tokenString string) (string, error) {
	if strings.Count(tokenString, ".") != 2 {
		return "", domain.ErrInvalidToken
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return "", domain.ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}
