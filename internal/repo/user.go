package repo

import (
	"context"
	"fmt"

	"gqlbench/internal/apperrors"
	"gqlbench/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, name, level`

type UserRepo struct {
	storage *sqlx.DB
}

func NewUserRepo(storage *sqlx.DB) *UserRepo {
	return &UserRepo{storage: storage}
}

func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	const op = "repo.user.List"

	users := []models.User{}
	if err := selectAll(ctx, r.storage, op, &users, `SELECT `+userColumns+` FROM users ORDER BY id`); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, nil
}

func (r *UserRepo) Get(ctx context.Context, id int64) (models.User, error) {
	const op = "repo.user.Get"

	var user models.User
	err := getOne(ctx, r.storage, op, &user, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if err != nil {
		if isNoRows(err) {
			return models.User{}, fmt.Errorf("%s: %w", op, apperrors.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (r *UserRepo) Create(ctx context.Context, name, level string) (models.User, error) {
	const op = "repo.user.Create"

	query := `INSERT INTO users (name, level) VALUES (?, ?) RETURNING ` + userColumns

	var user models.User
	if err := getOne(ctx, r.storage, op, &user, query, name, level); err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// Update changes only the non-nil fields.
func (r *UserRepo) Update(ctx context.Context, id int64, name, level *string) (models.User, error) {
	const op = "repo.user.Update"

	query := `UPDATE users SET name = COALESCE(?, name), level = COALESCE(?, level)
		WHERE id = ? RETURNING ` + userColumns

	var user models.User
	err := getOne(ctx, r.storage, op, &user, query, name, level, id)
	if err != nil {
		if isNoRows(err) {
			return models.User{}, fmt.Errorf("%s: %w", op, apperrors.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (r *UserRepo) Delete(ctx context.Context, id int64) (bool, error) {
	const op = "repo.user.Delete"

	n, err := exec(ctx, r.storage, op, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return n > 0, nil
}

// UsersByIDs loads the users with the given ids in a single query.
func (r *UserRepo) UsersByIDs(ctx context.Context, ids []int64) (map[int64]models.User, error) {
	const op = "repo.user.UsersByIDs"

	out := make(map[int64]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var users []models.User
	err := selectIn(ctx, r.storage, op, &users, `SELECT `+userColumns+` FROM users WHERE id IN (?)`, uniqueKeys(ids))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, u := range users {
		out[u.ID] = u
	}

	return out, nil
}

// UsersByTeamIDs loads the members of the given teams through the junction table.
func (r *UserRepo) UsersByTeamIDs(ctx context.Context, teamIDs []int64) (map[int64][]models.User, error) {
	const op = "repo.user.UsersByTeamIDs"

	out := make(map[int64][]models.User, len(teamIDs))
	if len(teamIDs) == 0 {
		return out, nil
	}

	query := `
		SELECT tu.team_id, u.id, u.name, u.level
		FROM users u
		JOIN team_users tu ON tu.user_id = u.id
		WHERE tu.team_id IN (?)
		ORDER BY tu.team_id, u.id`

	var rows []models.TeamMember
	if err := selectIn(ctx, r.storage, op, &rows, query, uniqueKeys(teamIDs)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, row := range rows {
		out[row.TeamID] = append(out[row.TeamID], row.User)
	}

	return out, nil
}
