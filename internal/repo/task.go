package repo

import (
	"context"
	"fmt"

	"gqlbench/internal/apperrors"
	"gqlbench/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

const taskColumns = `id, name, owner_id, story_id, estimate`

type TaskRepo struct {
	storage *sqlx.DB
}

func NewTaskRepo(storage *sqlx.DB) *TaskRepo {
	return &TaskRepo{storage: storage}
}

func (r *TaskRepo) List(ctx context.Context) ([]models.Task, error) {
	const op = "repo.task.List"

	tasks := []models.Task{}
	if err := selectAll(ctx, r.storage, op, &tasks, `SELECT `+taskColumns+` FROM tasks ORDER BY id`); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tasks, nil
}

func (r *TaskRepo) Get(ctx context.Context, id int64) (models.Task, error) {
	const op = "repo.task.Get"

	var task models.Task
	if err := getOne(ctx, r.storage, op, &task, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id); err != nil {
		if isNoRows(err) {
			return models.Task{}, fmt.Errorf("%s: %w", op, apperrors.ErrTaskNotFound)
		}
		return models.Task{}, fmt.Errorf("%s: %w", op, err)
	}

	return task, nil
}

func (r *TaskRepo) Create(ctx context.Context, storyID int64, name string, ownerID, estimate int64) (models.Task, error) {
	const op = "repo.task.Create"

	query := `INSERT INTO tasks (story_id, name, owner_id, estimate) VALUES (?, ?, ?, ?) RETURNING ` + taskColumns

	var task models.Task
	if err := getOne(ctx, r.storage, op, &task, query, storyID, name, ownerID, estimate); err != nil {
		if isForeignKeyViolation(err) {
			return models.Task{}, fmt.Errorf("%s: %w", op, apperrors.ErrReferenceNotFound)
		}
		return models.Task{}, fmt.Errorf("%s: %w", op, err)
	}

	return task, nil
}

func (r *TaskRepo) Update(ctx context.Context, id int64, name *string, ownerID, estimate *int64) (models.Task, error) {
	const op = "repo.task.Update"

	query := `UPDATE tasks SET name = COALESCE(?, name), owner_id = COALESCE(?, owner_id),
		estimate = COALESCE(?, estimate) WHERE id = ? RETURNING ` + taskColumns

	var task models.Task
	if err := getOne(ctx, r.storage, op, &task, query, name, ownerID, estimate, id); err != nil {
		switch {
		case isNoRows(err):
			return models.Task{}, fmt.Errorf("%s: %w", op, apperrors.ErrTaskNotFound)
		case isForeignKeyViolation(err):
			return models.Task{}, fmt.Errorf("%s: %w", op, apperrors.ErrOwnerNotFound)
		}
		return models.Task{}, fmt.Errorf("%s: %w", op, err)
	}

	return task, nil
}

func (r *TaskRepo) Delete(ctx context.Context, id int64) (bool, error) {
	const op = "repo.task.Delete"

	n, err := exec(ctx, r.storage, op, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return n > 0, nil
}

func (r *TaskRepo) TasksByStoryIDs(ctx context.Context, storyIDs []int64) (map[int64][]models.Task, error) {
	const op = "repo.task.TasksByStoryIDs"

	out := make(map[int64][]models.Task, len(storyIDs))
	if len(storyIDs) == 0 {
		return out, nil
	}

	var tasks []models.Task
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE story_id IN (?) ORDER BY id`
	if err := selectIn(ctx, r.storage, op, &tasks, query, uniqueKeys(storyIDs)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, t := range tasks {
		out[t.StoryID] = append(out[t.StoryID], t)
	}

	return out, nil
}
