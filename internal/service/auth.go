package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"renovatrack/internal/auth"
	"renovatrack/internal/model"
	"renovatrack/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	users     repository.UserRepository
	jwtSecret string
	logger    *zap.Logger
}

func NewAuthService(users repository.UserRepository, jwtSecret string, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// SeedAdmin ensures the configured admin account exists. Called once at
// startup; an existing account is left untouched.
func (s *AuthService) SeedAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	u := &model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         "admin",
	}
	if err := s.users.Insert(ctx, u); err != nil {
		return err
	}
	s.logger.Info("Admin account seeded", zap.String("username", username))
	return nil
}

// Login verifies credentials and issues a JWT.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !auth.CheckPassword(password, u.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	return auth.GenerateJWT(u.ID, s.jwtSecret)
}
