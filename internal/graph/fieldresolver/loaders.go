package fieldresolver

import (
	"context"
	"time"

	"gqlbench/internal/domain/models"
	"gqlbench/internal/metrics"

	"github.com/graph-gophers/dataloader/v7"
)

// Loader names.
const (
	UserLoader          = "user"
	TeamToSprintLoader  = "team_to_sprint"
	TeamToUserLoader    = "team_to_user"
	SprintToStoryLoader = "sprint_to_story"
	StoryToTaskLoader   = "story_to_task"
)

// Loaders are created for every request so that nothing is cached across requests.
type Loaders struct {
	User          *dataloader.Loader[int64, *models.User]
	TeamToSprint  *dataloader.Loader[int64, []models.Sprint]
	TeamToUser    *dataloader.Loader[int64, []models.User]
	SprintToStory *dataloader.Loader[int64, []models.Story]
	StoryToTask   *dataloader.Loader[int64, []models.Task]
}

type LoaderOptions struct {
	Wait     time.Duration
	MaxBatch int
}

type loadersKey struct{}

func NewLoaders(src Sources, opts LoaderOptions) *Loaders {
	return &Loaders{
		User:          dataloader.NewBatchedLoader(usersByID(src.Users), loaderOptions[*models.User](opts)...),
		TeamToSprint:  dataloader.NewBatchedLoader(grouped(TeamToSprintLoader, src.Sprints.SprintsByTeamIDs), loaderOptions[[]models.Sprint](opts)...),
		TeamToUser:    dataloader.NewBatchedLoader(grouped(TeamToUserLoader, src.Users.UsersByTeamIDs), loaderOptions[[]models.User](opts)...),
		SprintToStory: dataloader.NewBatchedLoader(grouped(SprintToStoryLoader, src.Stories.StoriesBySprintIDs), loaderOptions[[]models.Story](opts)...),
		StoryToTask:   dataloader.NewBatchedLoader(grouped(StoryToTaskLoader, src.Tasks.TasksByStoryIDs), loaderOptions[[]models.Task](opts)...),
	}
}

// loaderOptions keeps the library's default wait when opts.Wait is not set;
// a zero wait would dispatch every Load on its own.
func loaderOptions[V any](opts LoaderOptions) []dataloader.Option[int64, V] {
	var out []dataloader.Option[int64, V]
	if opts.Wait > 0 {
		out = append(out, dataloader.WithWait[int64, V](opts.Wait))
	}
	if opts.MaxBatch > 0 {
		out = append(out, dataloader.WithBatchCapacity[int64, V](opts.MaxBatch))
	}
	return out
}

func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey{}, l)
}

func loadersFrom(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey{}).(*Loaders)
	return l
}

func observeBatch(loader string, keys int) {
	metrics.LoaderBatches.WithLabelValues(Engine, loader).Observe(float64(keys))
}

func usersByID(users UserSource) dataloader.BatchFunc[int64, *models.User] {
	return func(ctx context.Context, keys []int64) []*dataloader.Result[*models.User] {
		observeBatch(UserLoader, len(keys))

		results := make([]*dataloader.Result[*models.User], len(keys))
		found, err := users.UsersByIDs(ctx, keys)
		for i, k := range keys {
			if err != nil {
				results[i] = &dataloader.Result[*models.User]{Error: err}
				continue
			}
			var user *models.User
			if u, ok := found[k]; ok {
				user = &u
			}
			results[i] = &dataloader.Result[*models.User]{Data: user}
		}
		return results
	}
}

// grouped adapts a one-to-many batch query to a loader returning one slice per key.
func grouped[V any](name string, fetch func(ctx context.Context, keys []int64) (map[int64][]V, error)) dataloader.BatchFunc[int64, []V] {
	return func(ctx context.Context, keys []int64) []*dataloader.Result[[]V] {
		observeBatch(name, len(keys))

		results := make([]*dataloader.Result[[]V], len(keys))
		rows, err := fetch(ctx, keys)
		for i, k := range keys {
			if err != nil {
				results[i] = &dataloader.Result[[]V]{Error: err}
				continue
			}
			results[i] = &dataloader.Result[[]V]{Data: rows[k]}
		}
		return results
	}
}
