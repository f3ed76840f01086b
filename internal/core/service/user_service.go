package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookshelf/library-system/internal/core/domain"
	"github.com/bookshelf/library-system/internal/core/ports"
)

// UserService implements member administration and self-service operations.
type UserService struct {
	repo ports.UserRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewUserService(repo ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// requireAdmin is the authorization gate. Call it before any admin-only
// mutation touches storage.
func requireAdmin(principal domain.AuthorizedUser) error {
	if !principal.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.FindAll(ctx)
}

// Create registers a member on behalf of an admin.
func (s *UserService) Create(ctx context.Context, principal domain.AuthorizedUser, event domain.CreateUser) (*domain.User, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	user, err := s.register(ctx, event)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", user.ID).Str("created_by", principal.ID()).Msg("user registered")
	return user, nil
}

// Bootstrap registers a user without an authenticated principal. It backs
// the create-admin command and must not be exposed over HTTP.
func (s *UserService) Bootstrap(ctx context.Context, event domain.CreateUser) (*domain.User, error) {
	user, err := s.register(ctx, event)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user bootstrapped")
	return user, nil
}

func (s *UserService) register(ctx context.Context, event domain.CreateUser) (*domain.User, error) {
	name := strings.TrimSpace(event.Name)
	email := strings.TrimSpace(event.Email)
	if name == "" || email == "" || event.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", domain.ErrValidation)
	}

	role := event.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}

	hash, err := hashPassword(event.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return s.repo.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// UpdatePassword changes the principal's own password after checking the
// current one.
func (s *UserService) UpdatePassword(ctx context.Context, principal domain.AuthorizedUser, event domain.UpdateUserPassword) error {
	if event.CurrentPassword == "" || event.NewPassword == "" {
		return fmt.Errorf("%w: current and new password are required", domain.ErrValidation)
	}

	// The principal's copy may be stale if the password changed mid-session.
	user, err := s.repo.FindByID(ctx, principal.ID())
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUnauthenticated
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(event.CurrentPassword)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := hashPassword(event.NewPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return err
	}

	s.log.Info().Str("user_id", user.ID).Msg("password changed")
	return nil
}

func (s *UserService) UpdateRole(ctx context.Context, principal domain.AuthorizedUser, event domain.UpdateUserRole) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	if !event.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", domain.ErrValidation, event.Role)
	}
	if err := s.repo.UpdateRole(ctx, event); err != nil {
		return err
	}

	s.log.Info().
		Str("user_id", event.UserID).
		Str("role", string(event.Role)).
		Str("changed_by", principal.ID()).
		Msg("role changed")
	return nil
}

func (s *UserService) Delete(ctx context.Context, principal domain.AuthorizedUser, event domain.DeleteUser) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, event); err != nil {
		return err
	}

	s.log.Info().Str("user_id", event.UserID).Str("deleted_by", principal.ID()).Msg("user deleted")
	return nil
}
