package repo

import (
	"context"
	"fmt"

	"gqlbench/internal/apperrors"
	"gqlbench/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

const storyColumns = `id, name, owner_id, sprint_id`

type StoryRepo struct {
	storage *sqlx.DB
}

func NewStoryRepo(storage *sqlx.DB) *StoryRepo {
	return &StoryRepo{storage: storage}
}

func (r *StoryRepo) List(ctx context.Context) ([]models.Story, error) {
	const op = "repo.story.List"

	stories := []models.Story{}
	if err := selectAll(ctx, r.storage, op, &stories, `SELECT `+storyColumns+` FROM stories ORDER BY id`); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return stories, nil
}

func (r *StoryRepo) Get(ctx context.Context, id int64) (models.Story, error) {
	const op = "repo.story.Get"

	var story models.Story
	if err := getOne(ctx, r.storage, op, &story, `SELECT `+storyColumns+` FROM stories WHERE id = ?`, id); err != nil {
		if isNoRows(err) {
			return models.Story{}, fmt.Errorf("%s: %w", op, apperrors.ErrStoryNotFound)
		}
		return models.Story{}, fmt.Errorf("%s: %w", op, err)
	}

	return story, nil
}

func (r *StoryRepo) Create(ctx context.Context, sprintID int64, name string, ownerID int64) (models.Story, error) {
	const op = "repo.story.Create"

	query := `INSERT INTO stories (sprint_id, name, owner_id) VALUES (?, ?, ?) RETURNING ` + storyColumns

	var story models.Story
	if err := getOne(ctx, r.storage, op, &story, query, sprintID, name, ownerID); err != nil {
		if isForeignKeyViolation(err) {
			return models.Story{}, fmt.Errorf("%s: %w", op, apperrors.ErrReferenceNotFound)
		}
		return models.Story{}, fmt.Errorf("%s: %w", op, err)
	}

	return story, nil
}

func (r *StoryRepo) Update(ctx context.Context, id int64, name *string, ownerID *int64) (models.Story, error) {
	const op = "repo.story.Update"

	query := `UPDATE stories SET name = COALESCE(?, name), owner_id = COALESCE(?, owner_id)
		WHERE id = ? RETURNING ` + storyColumns

	var story models.Story
	if err := getOne(ctx, r.storage, op, &story, query, name, ownerID, id); err != nil {
		switch {
		case isNoRows(err):
			return models.Story{}, fmt.Errorf("%s: %w", op, apperrors.ErrStoryNotFound)
		case isForeignKeyViolation(err):
			return models.Story{}, fmt.Errorf("%s: %w", op, apperrors.ErrOwnerNotFound)
		}
		return models.Story{}, fmt.Errorf("%s: %w", op, err)
	}

	return story, nil
}

func (r *StoryRepo) Delete(ctx context.Context, id int64) (bool, error) {
	const op = "repo.story.Delete"

	n, err := exec(ctx, r.storage, op, `DELETE FROM stories WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return n > 0, nil
}

func (r *StoryRepo) StoriesBySprintIDs(ctx context.Context, sprintIDs []int64) (map[int64][]models.Story, error) {
	const op = "repo.story.StoriesBySprintIDs"

	out := make(map[int64][]models.Story, len(sprintIDs))
	if len(sprintIDs) == 0 {
		return out, nil
	}

	var stories []models.Story
	query := `SELECT ` + storyColumns + ` FROM stories WHERE sprint_id IN (?) ORDER BY id`
	if err := selectIn(ctx, r.storage, op, &stories, query, uniqueKeys(sprintIDs)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, s := range stories {
		out[s.SprintID] = append(out[s.SprintID], s)
	}

	return out, nil
}
