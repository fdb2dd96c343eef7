package repo

import (
	"context"
	"fmt"

	"gqlbench/internal/apperrors"
	"gqlbench/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

const sprintColumns = `id, name, status, team_id`

type SprintRepo struct {
	storage *sqlx.DB
}

func NewSprintRepo(storage *sqlx.DB) *SprintRepo {
	return &SprintRepo{storage: storage}
}

func (r *SprintRepo) List(ctx context.Context) ([]models.Sprint, error) {
	const op = "repo.sprint.List"

	sprints := []models.Sprint{}
	if err := selectAll(ctx, r.storage, op, &sprints, `SELECT `+sprintColumns+` FROM sprints ORDER BY id`); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sprints, nil
}

func (r *SprintRepo) Get(ctx context.Context, id int64) (models.Sprint, error) {
	const op = "repo.sprint.Get"

	var sprint models.Sprint
	if err := getOne(ctx, r.storage, op, &sprint, `SELECT `+sprintColumns+` FROM sprints WHERE id = ?`, id); err != nil {
		if isNoRows(err) {
			return models.Sprint{}, fmt.Errorf("%s: %w", op, apperrors.ErrSprintNotFound)
		}
		return models.Sprint{}, fmt.Errorf("%s: %w", op, err)
	}

	return sprint, nil
}

func (r *SprintRepo) Create(ctx context.Context, teamID int64, name, status string) (models.Sprint, error) {
	const op = "repo.sprint.Create"

	query := `INSERT INTO sprints (team_id, name, status) VALUES (?, ?, ?) RETURNING ` + sprintColumns

	var sprint models.Sprint
	if err := getOne(ctx, r.storage, op, &sprint, query, teamID, name, status); err != nil {
		if isForeignKeyViolation(err) {
			return models.Sprint{}, fmt.Errorf("%s: %w", op, apperrors.ErrTeamNotFound)
		}
		return models.Sprint{}, fmt.Errorf("%s: %w", op, err)
	}

	return sprint, nil
}

func (r *SprintRepo) Update(ctx context.Context, id int64, name, status *string) (models.Sprint, error) {
	const op = "repo.sprint.Update"

	query := `UPDATE sprints SET name = COALESCE(?, name), status = COALESCE(?, status)
		WHERE id = ? RETURNING ` + sprintColumns

	var sprint models.Sprint
	if err := getOne(ctx, r.storage, op, &sprint, query, name, status, id); err != nil {
		if isNoRows(err) {
			return models.Sprint{}, fmt.Errorf("%s: %w", op, apperrors.ErrSprintNotFound)
		}
		return models.Sprint{}, fmt.Errorf("%s: %w", op, err)
	}

	return sprint, nil
}

func (r *SprintRepo) Delete(ctx context.Context, id int64) (bool, error) {
	const op = "repo.sprint.Delete"

	n, err := exec(ctx, r.storage, op, `DELETE FROM sprints WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return n > 0, nil
}

func (r *SprintRepo) SprintsByTeamIDs(ctx context.Context, teamIDs []int64) (map[int64][]models.Sprint, error) {
	const op = "repo.sprint.SprintsByTeamIDs"

	out := make(map[int64][]models.Sprint, len(teamIDs))
	if len(teamIDs) == 0 {
		return out, nil
	}

	var sprints []models.Sprint
	query := `SELECT ` + sprintColumns + ` FROM sprints WHERE team_id IN (?) ORDER BY id`
	if err := selectIn(ctx, r.storage, op, &sprints, query, uniqueKeys(teamIDs)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, s := range sprints {
		out[s.TeamID] = append(out[s.TeamID], s)
	}

	return out, nil
}
