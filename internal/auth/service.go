package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookshelf/internal/platform/crypto"
	"bookshelf/internal/user"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
)

// DefaultTokenTTL is how long an access token stays valid.
const DefaultTokenTTL = 24 * time.Hour

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type Service struct {
	secret      string
	ttl         time.Duration
	userService *user.Service
}

func NewService(secret string, ttl time.Duration, userService *user.Service) *Service {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Service{
		secret:      secret,
		ttl:         ttl,
		userService: userService,
	}
}

// Login checks the credentials and issues an access token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (Token, error) {
	u, err := s.userService.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Token{}, ErrUnauthorized
		}
		return Token{}, err
	}
	if !crypto.VerifyPassword(u.PasswordHash, password) {
		return Token{}, ErrUnauthorized
	}

	accessToken, err := crypto.GenerateToken(s.secret, u.ID, s.ttl)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}

	return Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.ttl.Seconds()),
	}, nil
}

// ResetPassword replaces the password of the account registered under email.
func (s *Service) ResetPassword(ctx context.Context, email, password, confirm string) error {
	if err := crypto.ValidateNewPassword(password, confirm); err != nil {
		return err
	}

	u, err := s.userService.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}
	return s.userService.UpdatePassword(ctx, u.ID, hash)
}
