package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gqlbench/internal/apperrors"
	"gqlbench/internal/domain/models"
	"gqlbench/internal/lib/logger/sl"
)

type UserService struct {
	log          *slog.Logger
	userProvider UserProvider
}

type UserProvider interface {
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, name, level string) (models.User, error)
	Update(ctx context.Context, id int64, name, level *string) (models.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

func NewUserService(
	log *slog.Logger,
	userProvider UserProvider) *UserService {
	return &UserService{
		log:          log,
		userProvider: userProvider,
	}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	const op = "service.user.List"

	users, err := s.userProvider.List(ctx)
	if err != nil {
		s.log.Error("failed to list users", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, nil
}

func (s *UserService) CreateUser(ctx context.Context, name, level string) (models.User, error) {
	const op = "service.user.CreateUser"

	log := s.log.With(
		slog.String("op", op),
		slog.String("name", name),
	)

	if strings.TrimSpace(name) == "" {
		log.Warn("user name is required")
		return models.User{}, fmt.Errorf("%s: %w", op, apperrors.ErrNameRequired)
	}
	if level == "" {
		level = models.DefaultUserLevel
	}

	user, err := s.userProvider.Create(ctx, name, level)
	if err != nil {
		log.Error("failed to create user", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user created", slog.Int64("id", user.ID))

	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id int64, name, level *string) (models.User, error) {
	const op = "service.user.UpdateUser"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("id", id),
	)

	if name != nil && strings.TrimSpace(*name) == "" {
		log.Warn("user name must not be blank")
		return models.User{}, fmt.Errorf("%s: %w", op, apperrors.ErrNameRequired)
	}

	user, err := s.userProvider.Update(ctx, id, name, level)
	if err != nil {
		log.Error("failed to update user", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user updated")

	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) (bool, error) {
	const op = "service.user.DeleteUser"

	deleted, err := s.userProvider.Delete(ctx, id)
	if err != nil {
		s.log.Error("failed to delete user", slog.String("op", op), slog.Int64("id", id), sl.Err(err))
		return false, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user delete processed", slog.String("op", op), slog.Int64("id", id), slog.Bool("deleted", deleted))

	return deleted, nil
}
