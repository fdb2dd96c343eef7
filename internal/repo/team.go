package repo

import (
	"context"
	"fmt"

	"gqlbench/internal/apperrors"
	"gqlbench/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

type TeamRepo struct {
	storage *sqlx.DB
}

func NewTeamRepo(storage *sqlx.DB) *TeamRepo {
	return &TeamRepo{storage: storage}
}

func (r *TeamRepo) List(ctx context.Context) ([]models.Team, error) {
	const op = "repo.team.List"

	teams := []models.Team{}
	if err := selectAll(ctx, r.storage, op, &teams, `SELECT id, name FROM teams ORDER BY id`); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return teams, nil
}

func (r *TeamRepo) Get(ctx context.Context, id int64) (models.Team, error) {
	const op = "repo.team.Get"

	var team models.Team
	if err := getOne(ctx, r.storage, op, &team, `SELECT id, name FROM teams WHERE id = ?`, id); err != nil {
		if isNoRows(err) {
			return models.Team{}, fmt.Errorf("%s: %w", op, apperrors.ErrTeamNotFound)
		}
		return models.Team{}, fmt.Errorf("%s: %w", op, err)
	}

	return team, nil
}

func (r *TeamRepo) Create(ctx context.Context, name string) (models.Team, error) {
	const op = "repo.team.Create"

	var team models.Team
	if err := getOne(ctx, r.storage, op, &team, `INSERT INTO teams (name) VALUES (?) RETURNING id, name`, name); err != nil {
		return models.Team{}, fmt.Errorf("%s: %w", op, err)
	}

	return team, nil
}

func (r *TeamRepo) Update(ctx context.Context, id int64, name *string) (models.Team, error) {
	const op = "repo.team.Update"

	query := `UPDATE teams SET name = COALESCE(?, name) WHERE id = ? RETURNING id, name`

	var team models.Team
	if err := getOne(ctx, r.storage, op, &team, query, name, id); err != nil {
		if isNoRows(err) {
			return models.Team{}, fmt.Errorf("%s: %w", op, apperrors.ErrTeamNotFound)
		}
		return models.Team{}, fmt.Errorf("%s: %w", op, err)
	}

	return team, nil
}

func (r *TeamRepo) Delete(ctx context.Context, id int64) (bool, error) {
	const op = "repo.team.Delete"

	n, err := exec(ctx, r.storage, op, `DELETE FROM teams WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return n > 0, nil
}

func (r *TeamRepo) AddMember(ctx context.Context, teamID, userID int64) (bool, error) {
	const op = "repo.team.AddMember"

	_, err := exec(ctx, r.storage, op, `INSERT INTO team_users (team_id, user_id) VALUES (?, ?)`, teamID, userID)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return false, fmt.Errorf("%s: %w", op, apperrors.ErrMemberExists)
		case isForeignKeyViolation(err):
			return false, fmt.Errorf("%s: %w", op, apperrors.ErrReferenceNotFound)
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return true, nil
}

func (r *TeamRepo) RemoveMember(ctx context.Context, teamID, userID int64) (bool, error) {
	const op = "repo.team.RemoveMember"

	n, err := exec(ctx, r.storage, op, `DELETE FROM team_users WHERE team_id = ? AND user_id = ?`, teamID, userID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return n > 0, nil
}
