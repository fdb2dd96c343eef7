// Package fieldresolver is the conventional GraphQL implementation: every
// relationship field has its own resolver method that asks a per-request
// DataLoader for its rows.
package fieldresolver

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"gqlbench/internal/config"
	"gqlbench/internal/domain/models"
	"gqlbench/internal/metrics"

	"github.com/graph-gophers/graphql-go"
)

const Engine = "field-resolver"

//go:embed schema.graphql
var sdl string

type UserSource interface {
	List(ctx context.Context) ([]models.User, error)
	UsersByIDs(ctx context.Context, ids []int64) (map[int64]models.User, error)
	UsersByTeamIDs(ctx context.Context, teamIDs []int64) (map[int64][]models.User, error)
}

type TeamSource interface {
	List(ctx context.Context) ([]models.Team, error)
}

type SprintSource interface {
	List(ctx context.Context) ([]models.Sprint, error)
	SprintsByTeamIDs(ctx context.Context, teamIDs []int64) (map[int64][]models.Sprint, error)
}

type StorySource interface {
	List(ctx context.Context) ([]models.Story, error)
	StoriesBySprintIDs(ctx context.Context, sprintIDs []int64) (map[int64][]models.Story, error)
}

type TaskSource interface {
	List(ctx context.Context) ([]models.Task, error)
	TasksByStoryIDs(ctx context.Context, storyIDs []int64) (map[int64][]models.Task, error)
}

type Sources struct {
	Users   UserSource
	Teams   TeamSource
	Sprints SprintSource
	Stories StorySource
	Tasks   TaskSource
}

type Schema struct {
	log    *slog.Logger
	schema *graphql.Schema
	src    Sources
	opts   LoaderOptions
}

func New(log *slog.Logger, src Sources, cfg config.GraphQLConfig) (*Schema, error) {
	const op = "graph.fieldresolver.New"

	opts := []graphql.SchemaOpt{graphql.UseFieldResolvers()}
	if cfg.MaxParallelism > 0 {
		opts = append(opts, graphql.MaxParallelism(cfg.MaxParallelism))
	}

	schema, err := graphql.ParseSchema(sdl, &Resolver{src: src}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Schema{
		log:    log,
		schema: schema,
		src:    src,
		opts: LoaderOptions{
			Wait:     cfg.LoaderWait,
			MaxBatch: cfg.MaxBatch,
		},
	}, nil
}

// Execute runs a query with a fresh set of loaders.
func (s *Schema) Execute(ctx context.Context, query, operationName string, variables map[string]any) *graphql.Response {
	const op = "graph.fieldresolver.Execute"

	ctx = WithLoaders(ctx, NewLoaders(s.src, s.opts))
	resp := s.schema.Exec(ctx, query, operationName, variables)

	if len(resp.Errors) > 0 {
		s.log.Debug("request finished with errors", slog.String("op", op), slog.Int("errors", len(resp.Errors)))
	}
	metrics.GraphQLOperations.WithLabelValues(Engine, metrics.OperationStatus(len(resp.Errors) > 0)).Inc()

	return resp
}

func (s *Schema) SDL() string {
	return sdl
}
