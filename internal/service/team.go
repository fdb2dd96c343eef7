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

// TeamService manages teams together with the sprints and members they own.
type TeamService struct {
	log        *slog.Logger
	teamRepo   TeamProvider
	sprintRepo SprintProvider
}

type SprintProvider interface {
	List(ctx context.Context) ([]models.Sprint, error)
	Create(ctx context.Context, teamID int64, name, status string) (models.Sprint, error)
	Update(ctx context.Context, id int64, name, status *string) (models.Sprint, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type TeamProvider interface {
	List(ctx context.Context) ([]models.Team, error)
	Create(ctx context.Context, name string) (models.Team, error)
	Update(ctx context.Context, id int64, name *string) (models.Team, error)
	Delete(ctx context.Context, id int64) (bool, error)
	AddMember(ctx context.Context, teamID, userID int64) (bool, error)
	RemoveMember(ctx context.Context, teamID, userID int64) (bool, error)
}

func NewTeamService(
	log *slog.Logger,
	teamRepo TeamProvider,
	sprintRepo SprintProvider) *TeamService {
	return &TeamService{
		log:        log,
		teamRepo:   teamRepo,
		sprintRepo: sprintRepo,
	}
}

func (s *TeamService) List(ctx context.Context) ([]models.Team, error) {
	const op = "service.team.List"

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		s.log.Error("failed to list teams", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return teams, nil
}

func (s *TeamService) CreateTeam(ctx context.Context, name string) (models.Team, error) {
	const op = "service.team.CreateTeam"

	log := s.log.With(
		slog.String("op", op),
		slog.String("team_name", name),
	)

	if strings.TrimSpace(name) == "" {
		log.Warn("team name is required")
		return models.Team{}, fmt.Errorf("%s: %w", op, apperrors.ErrNameRequired)
	}

	team, err := s.teamRepo.Create(ctx, name)
	if err != nil {
		log.Error("failed to create team", sl.Err(err))
		return models.Team{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("team created", slog.Int64("id", team.ID))

	return team, nil
}

func (s *TeamService) UpdateTeam(ctx context.Context, id int64, name *string) (models.Team, error) {
	const op = "service.team.UpdateTeam"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("id", id),
	)

	if name != nil && strings.TrimSpace(*name) == "" {
		log.Warn("team name must not be blank")
		return models.Team{}, fmt.Errorf("%s: %w", op, apperrors.ErrNameRequired)
	}

	team, err := s.teamRepo.Update(ctx, id, name)
	if err != nil {
		log.Error("failed to update team", sl.Err(err))
		return models.Team{}, fmt.Errorf("%s: %w", op, err)
	}

	return team, nil
}

func (s *TeamService) DeleteTeam(ctx context.Context, id int64) (bool, error) {
	const op = "service.team.DeleteTeam"

	deleted, err := s.teamRepo.Delete(ctx, id)
	if err != nil {
		s.log.Error("failed to delete team", slog.String("op", op), slog.Int64("id", id), sl.Err(err))
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return deleted, nil
}

func (s *TeamService) CreateSprint(ctx context.Context, teamID int64, name, status string) (models.Sprint, error) {
	const op = "service.team.CreateSprint"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("team_id", teamID),
	)

	if strings.TrimSpace(name) == "" {
		log.Warn("sprint name is required")
		return models.Sprint{}, fmt.Errorf("%s: %w", op, apperrors.ErrNameRequired)
	}
	if status == "" {
		status = models.DefaultSprintStatus
	}

	sprint, err := s.sprintRepo.Create(ctx, teamID, name, status)
	if err != nil {
		log.Error("failed to create sprint", sl.Err(err))
		return models.Sprint{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("sprint created", slog.Int64("id", sprint.ID))

	return sprint, nil
}

func (s *TeamService) UpdateSprint(ctx context.Context, id int64, name, status *string) (models.Sprint, error) {
	const op = "service.team.UpdateSprint"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("id", id),
	)

	if name != nil && strings.TrimSpace(*name) == "" {
		log.Warn("sprint name must not be blank")
		return models.Sprint{}, fmt.Errorf("%s: %w", op, apperrors.ErrNameRequired)
	}

	sprint, err := s.sprintRepo.Update(ctx, id, name, status)
	if err != nil {
		log.Error("failed to update sprint", sl.Err(err))
		return models.Sprint{}, fmt.Errorf("%s: %w", op, err)
	}

	return sprint, nil
}

func (s *TeamService) DeleteSprint(ctx context.Context, id int64) (bool, error) {
	const op = "service.team.DeleteSprint"

	deleted, err := s.sprintRepo.Delete(ctx, id)
	if err != nil {
		s.log.Error("failed to delete sprint", slog.String("op", op), slog.Int64("id", id), sl.Err(err))
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return deleted, nil
}

func (s *TeamService) AddMember(ctx context.Context, teamID, userID int64) (bool, error) {
	const op = "service.team.AddMember"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("team_id", teamID),
		slog.Int64("user_id", userID),
	)

	added, err := s.teamRepo.AddMember(ctx, teamID, userID)
	if err != nil {
		log.Error("failed to add team member", sl.Err(err))
		return false, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("team member added")

	return added, nil
}

func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID int64) (bool, error) {
	const op = "service.team.RemoveMember"

	removed, err := s.teamRepo.RemoveMember(ctx, teamID, userID)
	if err != nil {
		s.log.Error("failed to remove team member", slog.String("op", op), sl.Err(err))
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return removed, nil
}
