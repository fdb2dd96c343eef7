package composition

import (
	"context"

	"gqlbench/internal/resolve"
)

func (s *Schema) declareQueries() {
	d := s.diagram

	d.Query(resolve.RootField{
		Name:   "get_users",
		Target: "User",
		List:   true,
		Resolve: func(ctx context.Context, _ map[string]any) (any, error) {
			users, err := s.deps.Users.List(ctx)
			if err != nil {
				return nil, err
			}
			return resolve.Rows(users), nil
		},
	})

	d.Query(resolve.RootField{
		Name:   "get_teams",
		Target: "Team",
		List:   true,
		Resolve: func(ctx context.Context, _ map[string]any) (any, error) {
			teams, err := s.deps.Teams.List(ctx)
			if err != nil {
				return nil, err
			}
			return resolve.Rows(teams), nil
		},
	})

	d.Query(resolve.RootField{
		Name:   "get_sprints",
		Target: "Sprint",
		List:   true,
		Resolve: func(ctx context.Context, _ map[string]any) (any, error) {
			sprints, err := s.deps.Sprints.List(ctx)
			if err != nil {
				return nil, err
			}
			return resolve.Rows(sprints), nil
		},
	})

	d.Query(resolve.RootField{
		Name:   "get_stories",
		Target: "Story",
		List:   true,
		Resolve: func(ctx context.Context, _ map[string]any) (any, error) {
			stories, err := s.deps.Stories.List(ctx)
			if err != nil {
				return nil, err
			}
			return resolve.Rows(stories), nil
		},
	})

	d.Query(resolve.RootField{
		Name:   "get_tasks",
		Target: "Task",
		List:   true,
		Resolve: func(ctx context.Context, _ map[string]any) (any, error) {
			tasks, err := s.deps.Tasks.List(ctx)
			if err != nil {
				return nil, err
			}
			return resolve.Rows(tasks), nil
		},
	})
}
