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

type StoryService struct {
	log       *slog.Logger
	storyRepo StoryProvider
	taskRepo  TaskProvider
}

type StoryProvider interface {
	List(ctx context.Context) ([]models.Story, error)
	Create(ctx context.Context, sprintID int64, name string, ownerID int64) (models.Story, error)
	Update(ctx context.Context, id int64, name *string, ownerID *int64) (models.Story, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type TaskProvider interface {
	List(ctx context.Context) ([]models.Task, error)
	Create(ctx context.Context, storyID int64, name string, ownerID, estimate int64) (models.Task, error)
	Update(ctx context.Context, id int64, name *string, ownerID, estimate *int64) (models.Task, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

func NewStoryService(
	log *slog.Logger,
	storyRepo StoryProvider,
	taskRepo TaskProvider) *StoryService {
	return &StoryService{
		log:       log,
		storyRepo: storyRepo,
		taskRepo:  taskRepo,
	}
}

func (s *StoryService) CreateStory(ctx context.Context, sprintID int64, name string, ownerID int64) (models.Story, error) {
	const op = "service.story.CreateStory"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("sprint_id", sprintID),
	)

	if strings.TrimSpace(name) == "" {
		log.Warn("story name is required")
		return models.Story{}, fmt.Errorf("%s: %w", op, apperrors.ErrNameRequired)
	}

	story, err := s.storyRepo.Create(ctx, sprintID, name, ownerID)
	if err != nil {
		log.Error("failed to create story", sl.Err(err))
		return models.Story{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("story created", slog.Int64("id", story.ID))

	return story, nil
}

func (s *StoryService) UpdateStory(ctx context.Context, id int64, name *string, ownerID *int64) (models.Story, error) {
	const op = "service.story.UpdateStory"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("id", id),
	)

	if name != nil && strings.TrimSpace(*name) == "" {
		log.Warn("story name must not be blank")
		return models.Story{}, fmt.Errorf("%s: %w", op, apperrors.ErrNameRequired)
	}

	story, err := s.storyRepo.Update(ctx, id, name, ownerID)
	if err != nil {
		log.Error("failed to update story", sl.Err(err))
		return models.Story{}, fmt.Errorf("%s: %w", op, err)
	}

	return story, nil
}

func (s *StoryService) DeleteStory(ctx context.Context, id int64) (bool, error) {
	const op = "service.story.DeleteStory"

	deleted, err := s.storyRepo.Delete(ctx, id)
	if err != nil {
		s.log.Error("failed to delete story", slog.String("op", op), slog.Int64("id", id), sl.Err(err))
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return deleted, nil
}

func (s *StoryService) CreateTask(ctx context.Context, storyID int64, name string, ownerID, estimate int64) (models.Task, error) {
	const op = "service.story.CreateTask"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("story_id", storyID),
	)

	if strings.TrimSpace(name) == "" {
		log.Warn("task name is required")
		return models.Task{}, fmt.Errorf("%s: %w", op, apperrors.ErrNameRequired)
	}
	if estimate < 0 {
		log.Warn("negative estimate", slog.Int64("estimate", estimate))
		return models.Task{}, fmt.Errorf("%s: %w", op, apperrors.ErrInvalidEstimate)
	}

	task, err := s.taskRepo.Create(ctx, storyID, name, ownerID, estimate)
	if err != nil {
		log.Error("failed to create task", sl.Err(err))
		return models.Task{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("task created", slog.Int64("id", task.ID))

	return task, nil
}

func (s *StoryService) UpdateTask(ctx context.Context, id int64, name *string, ownerID, estimate *int64) (models.Task, error) {
	const op = "service.story.UpdateTask"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("id", id),
	)

	if name != nil && strings.TrimSpace(*name) == "" {
		log.Warn("task name must not be blank")
		return models.Task{}, fmt.Errorf("%s: %w", op, apperrors.ErrNameRequired)
	}
	if estimate != nil && *estimate < 0 {
		log.Warn("negative estimate", slog.Int64("estimate", *estimate))
		return models.Task{}, fmt.Errorf("%s: %w", op, apperrors.ErrInvalidEstimate)
	}

	task, err := s.taskRepo.Update(ctx, id, name, ownerID, estimate)
	if err != nil {
		log.Error("failed to update task", sl.Err(err))
		return models.Task{}, fmt.Errorf("%s: %w", op, err)
	}

	return task, nil
}

func (s *StoryService) DeleteTask(ctx context.Context, id int64) (bool, error) {
	const op = "service.story.DeleteTask"

	deleted, err := s.taskRepo.Delete(ctx, id)
	if err != nil {
		s.log.Error("failed to delete task", slog.String("op", op), slog.Int64("id", id), sl.Err(err))
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return deleted, nil
}
