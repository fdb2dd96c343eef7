package fieldresolver

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gqlbench/internal/domain/models"
)

var (
	errNoLoaders = errors.New("request has no loaders")
	errIntRange  = errors.New("Int cannot represent non 32-bit signed integer value")
)

// int32Of converts a column value for an Int field, which GraphQL limits to 32 bits.
func int32Of(n int64) (int32, error) {
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %d", errIntRange, n)
	}
	return int32(n), nil
}

// Resolver is the query root.
type Resolver struct {
	src Sources
}

func (r *Resolver) GetUsers(ctx context.Context) ([]*userResolver, error) {
	users, err := r.src.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	return wrap(users, newUser), nil
}

func (r *Resolver) GetTeams(ctx context.Context) ([]*teamResolver, error) {
	teams, err := r.src.Teams.List(ctx)
	if err != nil {
		return nil, err
	}
	return wrap(teams, newTeam), nil
}

func (r *Resolver) GetSprints(ctx context.Context) ([]*sprintResolver, error) {
	sprints, err := r.src.Sprints.List(ctx)
	if err != nil {
		return nil, err
	}
	return wrap(sprints, newSprint), nil
}

func (r *Resolver) GetStories(ctx context.Context) ([]*storyResolver, error) {
	stories, err := r.src.Stories.List(ctx)
	if err != nil {
		return nil, err
	}
	return wrap(stories, newStory), nil
}

func (r *Resolver) GetTasks(ctx context.Context) ([]*taskResolver, error) {
	tasks, err := r.src.Tasks.List(ctx)
	if err != nil {
		return nil, err
	}
	return wrap(tasks, newTask), nil
}

func wrap[M any, R any](rows []M, fn func(M) *R) []*R {
	out := make([]*R, len(rows))
	for i := range rows {
		out[i] = fn(rows[i])
	}
	return out
}

func loaders(ctx context.Context) (*Loaders, error) {
	l := loadersFrom(ctx)
	if l == nil {
		return nil, errNoLoaders
	}
	return l, nil
}

func loadOwner(ctx context.Context, ownerID int64) (*userResolver, error) {
	l, err := loaders(ctx)
	if err != nil {
		return nil, err
	}
	user, err := l.User.Load(ctx, ownerID)()
	if err != nil || user == nil {
		return nil, err
	}
	return newUser(*user), nil
}

type userResolver struct {
	user models.User
}

func newUser(u models.User) *userResolver { return &userResolver{user: u} }

func (r *userResolver) ID() (int32, error) { return int32Of(r.user.ID) }
func (r *userResolver) Name() string       { return r.user.Name }
func (r *userResolver) Level() string      { return r.user.Level }

type teamResolver struct {
	team models.Team
}

func newTeam(t models.Team) *teamResolver { return &teamResolver{team: t} }

func (r *teamResolver) ID() (int32, error) { return int32Of(r.team.ID) }
func (r *teamResolver) Name() string       { return r.team.Name }

func (r *teamResolver) Sprints(ctx context.Context) ([]*sprintResolver, error) {
	l, err := loaders(ctx)
	if err != nil {
		return nil, err
	}
	sprints, err := l.TeamToSprint.Load(ctx, r.team.ID)()
	if err != nil {
		return nil, err
	}
	return wrap(sprints, newSprint), nil
}

func (r *teamResolver) Users(ctx context.Context) ([]*userResolver, error) {
	l, err := loaders(ctx)
	if err != nil {
		return nil, err
	}
	users, err := l.TeamToUser.Load(ctx, r.team.ID)()
	if err != nil {
		return nil, err
	}
	return wrap(users, newUser), nil
}

type sprintResolver struct {
	sprint models.Sprint
}

func newSprint(s models.Sprint) *sprintResolver { return &sprintResolver{sprint: s} }

func (r *sprintResolver) ID() (int32, error)     { return int32Of(r.sprint.ID) }
func (r *sprintResolver) Name() string           { return r.sprint.Name }
func (r *sprintResolver) Status() string         { return r.sprint.Status }
func (r *sprintResolver) TeamID() (int32, error) { return int32Of(r.sprint.TeamID) }

func (r *sprintResolver) Stories(ctx context.Context) ([]*storyResolver, error) {
	l, err := loaders(ctx)
	if err != nil {
		return nil, err
	}
	stories, err := l.SprintToStory.Load(ctx, r.sprint.ID)()
	if err != nil {
		return nil, err
	}
	return wrap(stories, newStory), nil
}

type storyResolver struct {
	story models.Story
}

func newStory(s models.Story) *storyResolver { return &storyResolver{story: s} }

func (r *storyResolver) ID() (int32, error)       { return int32Of(r.story.ID) }
func (r *storyResolver) Name() string             { return r.story.Name }
func (r *storyResolver) OwnerID() (int32, error)  { return int32Of(r.story.OwnerID) }
func (r *storyResolver) SprintID() (int32, error) { return int32Of(r.story.SprintID) }

func (r *storyResolver) Tasks(ctx context.Context) ([]*taskResolver, error) {
	l, err := loaders(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := l.StoryToTask.Load(ctx, r.story.ID)()
	if err != nil {
		return nil, err
	}
	return wrap(tasks, newTask), nil
}

func (r *storyResolver) Owner(ctx context.Context) (*userResolver, error) {
	return loadOwner(ctx, r.story.OwnerID)
}

type taskResolver struct {
	task models.Task
}

func newTask(t models.Task) *taskResolver { return &taskResolver{task: t} }

func (r *taskResolver) ID() (int32, error)       { return int32Of(r.task.ID) }
func (r *taskResolver) Name() string             { return r.task.Name }
func (r *taskResolver) OwnerID() (int32, error)  { return int32Of(r.task.OwnerID) }
func (r *taskResolver) StoryID() (int32, error)  { return int32Of(r.task.StoryID) }
func (r *taskResolver) Estimate() (int32, error) { return int32Of(r.task.Estimate) }

func (r *taskResolver) Owner(ctx context.Context) (*userResolver, error) {
	return loadOwner(ctx, r.task.OwnerID)
}
