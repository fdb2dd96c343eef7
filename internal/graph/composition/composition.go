// Package composition declares the project entity graph on the resolve engine:
// every relationship names the batch loader that feeds it, and the engine does
// the rest.
package composition

import (
	"context"
	"fmt"
	"log/slog"

	"gqlbench/internal/domain/models"
	"gqlbench/internal/metrics"
	"gqlbench/internal/resolve"
	"gqlbench/internal/service"
)

const Engine = "composition"

// Loader names.
const (
	UserBatch     = "user_batch"
	TeamToSprint  = "team_to_sprint"
	TeamToUser    = "team_to_user"
	SprintToStory = "sprint_to_story"
	StoryToTask   = "story_to_task"
)

type UserReader interface {
	List(ctx context.Context) ([]models.User, error)
	UsersByIDs(ctx context.Context, ids []int64) (map[int64]models.User, error)
	UsersByTeamIDs(ctx context.Context, teamIDs []int64) (map[int64][]models.User, error)
}

type TeamReader interface {
	List(ctx context.Context) ([]models.Team, error)
}

type SprintReader interface {
	List(ctx context.Context) ([]models.Sprint, error)
	SprintsByTeamIDs(ctx context.Context, teamIDs []int64) (map[int64][]models.Sprint, error)
}

type StoryReader interface {
	List(ctx context.Context) ([]models.Story, error)
	StoriesBySprintIDs(ctx context.Context, sprintIDs []int64) (map[int64][]models.Story, error)
}

type TaskReader interface {
	List(ctx context.Context) ([]models.Task, error)
	TasksByStoryIDs(ctx context.Context, storyIDs []int64) (map[int64][]models.Task, error)
}

type Deps struct {
	Users   UserReader
	Teams   TeamReader
	Sprints SprintReader
	Stories StoryReader
	Tasks   TaskReader

	UserService  *service.UserService
	TeamService  *service.TeamService
	StoryService *service.StoryService
}

type Schema struct {
	log      *slog.Logger
	deps     Deps
	diagram  *resolve.Diagram
	executor *resolve.Executor
	views    map[Demo]*resolve.View
}

func New(log *slog.Logger, deps Deps) (*Schema, error) {
	const op = "graph.composition.New"

	s := &Schema{
		log:     log,
		deps:    deps,
		diagram: resolve.NewDiagram(),
	}

	s.declareEntities()
	s.declareLoaders()
	s.declareQueries()
	s.declareMutations()

	executor, err := resolve.NewExecutor(s.diagram,
		resolve.WithLogger(log),
		resolve.WithBatchHook(func(loader string, keys int) {
			metrics.LoaderBatches.WithLabelValues(Engine, loader).Observe(float64(keys))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.executor = executor

	views, err := s.compileViews()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.views = views

	return s, nil
}

func (s *Schema) Execute(ctx context.Context, req resolve.Request) *resolve.Response {
	resp := s.executor.Execute(ctx, req)
	metrics.GraphQLOperations.WithLabelValues(Engine, metrics.OperationStatus(len(resp.Errors) > 0)).Inc()
	return resp
}

// SDL returns the schema as formatted by gqlparser.
func (s *Schema) SDL() string {
	return resolve.FormatSchema(s.executor.Schema())
}

func (s *Schema) ER() resolve.ERGraph {
	return s.diagram.ER()
}

func (s *Schema) Diagram() *resolve.Diagram {
	return s.diagram
}
