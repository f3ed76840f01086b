package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookshelf/library-system/internal/core/domain"
	"github.com/bookshelf/library-system/internal/core/ports"
)

// AuthService implements login and logout on top of the token store.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenStore
	log    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenStore, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log}
}

// Login verifies the credentials and binds a fresh access token to the user.
// Unknown emails and wrong passwords are both reported as
// domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.AccessToken, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	if user == nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token := newAccessToken()
	if err := s.tokens.Bind(ctx, token, user.ID); err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return token, user, nil
}

// Logout revokes the token the principal presented.
func (s *AuthService) Logout(ctx context.Context, principal domain.AuthorizedUser) error {
	if err := s.tokens.Revoke(ctx, principal.AccessToken); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info().Str("user_id", principal.ID()).Msg("user logged out")
	return nil
}

// newAccessToken returns a random uuid v4 in its 32-character hex form.
func newAccessToken() domain.AccessToken {
	return domain.AccessToken(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
