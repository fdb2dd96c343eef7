package composition

import (
	"context"

	"gqlbench/internal/resolve"
)

func (s *Schema) declareLoaders() {
	d := s.diagram

	d.Loader(UserBatch, func(ctx context.Context, keys []resolve.Key) (map[resolve.Key][]any, error) {
		users, err := s.deps.Users.UsersByIDs(ctx, keys)
		if err != nil {
			return nil, err
		}
		return resolve.Index(users), nil
	})

	d.Loader(TeamToUser, func(ctx context.Context, keys []resolve.Key) (map[resolve.Key][]any, error) {
		users, err := s.deps.Users.UsersByTeamIDs(ctx, keys)
		if err != nil {
			return nil, err
		}
		return resolve.Group(users), nil
	})

	d.Loader(TeamToSprint, func(ctx context.Context, keys []resolve.Key) (map[resolve.Key][]any, error) {
		sprints, err := s.deps.Sprints.SprintsByTeamIDs(ctx, keys)
		if err != nil {
			return nil, err
		}
		return resolve.Group(sprints), nil
	})

	d.Loader(SprintToStory, func(ctx context.Context, keys []resolve.Key) (map[resolve.Key][]any, error) {
		stories, err := s.deps.Stories.StoriesBySprintIDs(ctx, keys)
		if err != nil {
			return nil, err
		}
		return resolve.Group(stories), nil
	})

	d.Loader(StoryToTask, func(ctx context.Context, keys []resolve.Key) (map[resolve.Key][]any, error) {
		tasks, err := s.deps.Tasks.TasksByStoryIDs(ctx, keys)
		if err != nil {
			return nil, err
		}
		return resolve.Group(tasks), nil
	})
}
