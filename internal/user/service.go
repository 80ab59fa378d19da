package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"character-api/internal/store"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrInvalidInput = errors.New("email and password are required")
)

type Service struct {
	users store.Store[string, User]
	ids   *store.IDSource
	cost  int
}

func NewService(users store.Store[string, User], cost int) *Service {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		users: users,
		ids:   store.NewIDSource(),
		cost:  cost,
	}
}

// CreateUser hashes the password and stores a new user with the default
// role. An existing entry for the same email is replaced.
func (s *Service) CreateUser(ctx context.Context, email, password string) (User, error) {
	return s.create(ctx, email, password, RoleUser)
}

func (s *Service) create(ctx context.Context, email, password string, role Role) (User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return User{}, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return User{}, fmt.Errorf("%w: password exceeds 72 bytes", ErrInvalidInput)
	}
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	u := User{
		ID:       s.ids.Next(),
		Email:    email,
		Password: string(hash),
		Role:     role,
	}
	if err := s.users.Set(ctx, email, u); err != nil {
		return User{}, fmt.Errorf("store user: %w", err)
	}

	return u, nil
}

func (s *Service) FindUserByEmail(ctx context.Context, email string) (User, bool, error) {
	u, ok, err := s.users.Get(ctx, normalizeEmail(email))
	if err != nil {
		return User{}, false, fmt.Errorf("query user by email: %w", err)
	}
	return u, ok, nil
}

func (s *Service) ValidatePassword(u User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// RevokeUserToken clears the stored refresh token. It reports false when no
// user is registered under email.
func (s *Service) RevokeUserToken(ctx context.Context, email string) (bool, error) {
	return s.updateRefreshToken(ctx, email, "")
}

func (s *Service) SetRefreshToken(ctx context.Context, email, refreshToken string) (bool, error) {
	return s.updateRefreshToken(ctx, email, refreshToken)
}

func (s *Service) updateRefreshToken(ctx context.Context, email, refreshToken string) (bool, error) {
	email = normalizeEmail(email)

	u, ok, err := s.users.Get(ctx, email)
	if err != nil {
		return false, fmt.Errorf("query user by email: %w", err)
	}
	if !ok {
		return false, nil
	}

	u.RefreshToken = refreshToken
	if err := s.users.Set(ctx, email, u); err != nil {
		return false, fmt.Errorf("update refresh token: %w", err)
	}
	return true, nil
}

// BootstrapAdmin seeds an admin account at startup. Both values empty is a
// no-op.
func (s *Service) BootstrapAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	password = strings.TrimSpace(password)

	if email == "" && password == "" {
		return nil
	}
	if email == "" || password == "" {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD are required together")
	}

	_, err := s.create(ctx, email, password, RoleAdmin)
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
