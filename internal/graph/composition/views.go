package composition

import (
	"context"
	"fmt"

	"gqlbench/internal/resolve"
)

// Demo selects one of the story views served under /demo.
type Demo int

const (
	StoriesDetail Demo = iota
	StoriesRelatedUsers
	StoriesTotalEstimate
	StoriesTaskFullname
)

const (
	userSelection = `{ id name level }`
	taskSelection = `id name owner_id story_id estimate user: owner ` + userSelection
)

var viewSelections = map[Demo]string{
	StoriesDetail:        `{ id name owner_id sprint_id tasks { ` + taskSelection + ` } assignee: owner ` + userSelection + ` }`,
	StoriesRelatedUsers:  `{ id name owner_id tasks { ` + taskSelection + ` } assignee: owner ` + userSelection + ` }`,
	StoriesTotalEstimate: `{ id name owner_id tasks { ` + taskSelection + ` } assignee: owner ` + userSelection + ` }`,
	StoriesTaskFullname:  `{ id name owner_id tasks { ` + taskSelection + ` } assignee: owner ` + userSelection + ` }`,
}

func (s *Schema) compileViews() (map[Demo]*resolve.View, error) {
	views := make(map[Demo]*resolve.View, len(viewSelections))
	for demo, selection := range viewSelections {
		v, err := s.diagram.View("Story", selection)
		if err != nil {
			return nil, err
		}
		views[demo] = v
	}

	views[StoriesRelatedUsers].Post("", "related_users", relatedUsers)
	views[StoriesTotalEstimate].Post("", "total_estimate", totalEstimate)
	views[StoriesTaskFullname].Post("tasks", "fullname", taskFullname)

	return views, nil
}

// relatedUsers collects the distinct users of a story's tasks.
func relatedUsers(story *resolve.Object, _ []*resolve.Object) any {
	seen := make(map[any]bool)
	users := make([]any, 0)
	for _, task := range story.Objects("tasks") {
		for _, user := range task.Objects("user") {
			id, _ := user.Get("id")
			if seen[id] {
				continue
			}
			seen[id] = true
			users = append(users, user)
		}
	}
	return users
}

func totalEstimate(story *resolve.Object, _ []*resolve.Object) any {
	var total int64
	for _, task := range story.Objects("tasks") {
		if estimate, ok := task.Get("estimate"); ok {
			n, _ := estimate.(int64)
			total += n
		}
	}
	return total
}

func taskFullname(task *resolve.Object, ancestors []*resolve.Object) any {
	story := ancestors[len(ancestors)-1]
	storyName, _ := story.Get("name")
	taskName, _ := task.Get("name")
	return fmt.Sprintf("%v / %v", storyName, taskName)
}

// Stories resolves every story through the requested demo view.
func (s *Schema) Stories(ctx context.Context, demo Demo) ([]*resolve.Object, error) {
	const op = "graph.composition.Stories"

	view, ok := s.views[demo]
	if !ok {
		return nil, fmt.Errorf("%s: unknown demo %d", op, demo)
	}

	stories, err := s.deps.Stories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	objs, err := s.executor.ResolveView(ctx, view, resolve.Rows(stories))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return objs, nil
}
