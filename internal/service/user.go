package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pedrolvck/vendrix/internal/domain/models"
	"github.com/pedrolvck/vendrix/internal/storage"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidRole  = errors.New("invalid user role")
)

// UserService exposes the profile and the admin-only role management.
type UserService interface {
	Profile(ctx context.Context, userID string) (*models.User, error)
	UpdateRole(ctx context.Context, userID, role string) (*models.User, error)
}

type userService struct {
	log      *slog.Logger
	userRepo storage.UserStorage
}

func NewUserService(log *slog.Logger, userRepo storage.UserStorage) UserService {
	return &userService{log: log, userRepo: userRepo}
}

func (s *userService) Profile(ctx context.Context, userID string) (*models.User, error) {
	const op = "service.UserService.Profile"

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		s.log.Error("failed to get user", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func (s *userService) UpdateRole(ctx context.Context, userID, role string) (*models.User, error) {
	const op = "service.UserService.UpdateRole"
	logger := s.log.With(slog.String("op", op), slog.String("userID", userID), slog.String("role", role))

	if !models.ValidRole(role) {
		logger.Warn("rejected unknown role")
		return nil, ErrInvalidRole
	}

	user, err := s.userRepo.UpdateUserRole(ctx, userID, role)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("failed to update role", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("role updated")
	return user, nil
}
