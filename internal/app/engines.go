package app

import (
	"fmt"
	"log/slog"

	"gqlbench/internal/config"
	"gqlbench/internal/graph/composition"
	"gqlbench/internal/graph/fieldresolver"
	"gqlbench/internal/repo"
	"gqlbench/internal/service"

	"github.com/jmoiron/sqlx"
)

// Engines holds both GraphQL implementations built over the same database.
type Engines struct {
	Composition   *composition.Schema
	FieldResolver *fieldresolver.Schema
}

func NewEngines(log *slog.Logger, db *sqlx.DB, cfg config.GraphQLConfig) (*Engines, error) {
	const op = "app.NewEngines"

	userRepo := repo.NewUserRepo(db)
	teamRepo := repo.NewTeamRepo(db)
	sprintRepo := repo.NewSprintRepo(db)
	storyRepo := repo.NewStoryRepo(db)
	taskRepo := repo.NewTaskRepo(db)

	userService := service.NewUserService(log, userRepo)
	teamService := service.NewTeamService(log, teamRepo, sprintRepo)
	storyService := service.NewStoryService(log, storyRepo, taskRepo)

	compositionSchema, err := composition.New(log, composition.Deps{
		Users:        userRepo,
		Teams:        teamRepo,
		Sprints:      sprintRepo,
		Stories:      storyRepo,
		Tasks:        taskRepo,
		UserService:  userService,
		TeamService:  teamService,
		StoryService: storyService,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	fieldSchema, err := fieldresolver.New(log, fieldresolver.Sources{
		Users:   userRepo,
		Teams:   teamRepo,
		Sprints: sprintRepo,
		Stories: storyRepo,
		Tasks:   taskRepo,
	}, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Engines{
		Composition:   compositionSchema,
		FieldResolver: fieldSchema,
	}, nil
}

// SeedSize maps the seed section of the config onto the seeder's shape.
func SeedSize(cfg config.SeedConfig) repo.SeedSize {
	return repo.SeedSize{
		Users:            cfg.Users,
		Teams:            cfg.Teams,
		MembersPerTeam:   cfg.MembersPerTeam,
		SprintsPerTeam:   cfg.SprintsPerTeam,
		StoriesPerSprint: cfg.StoriesPerSprint,
		TasksPerStory:    cfg.TasksPerStory,
	}
}
