package admin

import (
	"time"

	"github.com/studiobook/studiobook-api/internal/pkg/jwt"
	"github.com/studiobook/studiobook-api/internal/pkg/password"
)

// Service handles admin authentication. There is a single admin
// account; its password hash comes from configuration.
type Service struct {
	passwordHash string
	tokens       *jwt.Service
	tokenTTL     time.Duration
}

// NewService creates the admin service
func NewService(passwordHash string, tokens *jwt.Service, tokenTTL time.Duration) *Service {
	return &Service{passwordHash: passwordHash, tokens: tokens, tokenTTL: tokenTTL}
}

// Login verifies the admin password and issues a session token.
func (s *Service) Login(pass string) (*LoginResponse, error) {
	if s.passwordHash == "" || !password.Verify(pass, s.passwordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken()
	if err != nil {
		return nil, err
	}
	return &LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
	}, nil
}
