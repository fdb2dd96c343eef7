package repo

import (
	"context"
	"fmt"

	"gqlbench/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

var (
	seedLevels   = []string{"user", "manager", "admin"}
	seedStatuses = []string{"planning", "active", "closed"}
	// children first so that deletes never trip a foreign key
	seedTables = []string{"tasks", "stories", "sprints", "team_users", "teams", "users"}
)

const seedChunk = 200

// SeedSize controls the shape of the generated dataset.
type SeedSize struct {
	Users            int
	Teams            int
	MembersPerTeam   int
	SprintsPerTeam   int
	StoriesPerSprint int
	TasksPerStory    int
}

// Dataset is the deterministic content written by Seeder.Seed.
type Dataset struct {
	Users     []models.User
	Teams     []models.Team
	TeamUsers []models.TeamUser
	Sprints   []models.Sprint
	Stories   []models.Story
	Tasks     []models.Task
}

type Seeder struct {
	storage *sqlx.DB
}

func NewSeeder(storage *sqlx.DB) *Seeder {
	return &Seeder{storage: storage}
}

// BuildDataset generates rows with explicit, dense ids starting at 1.
func BuildDataset(size SeedSize) Dataset {
	var ds Dataset
	if size.Users <= 0 {
		return ds
	}

	for i := 1; i <= size.Users; i++ {
		ds.Users = append(ds.Users, models.User{
			ID:    int64(i),
			Name:  fmt.Sprintf("user-%d", i),
			Level: seedLevels[(i-1)%len(seedLevels)],
		})
	}

	userAt := func(n int) int64 { return int64(n%size.Users + 1) }

	var sprintID, storyID, taskID int64
	for t := 1; t <= size.Teams; t++ {
		team := models.Team{ID: int64(t), Name: fmt.Sprintf("team-%d", t)}
		ds.Teams = append(ds.Teams, team)

		members := map[int64]bool{}
		for m := 0; m < size.MembersPerTeam && m < size.Users; m++ {
			uid := userAt((t-1)*size.MembersPerTeam + m)
			if members[uid] {
				continue
			}
			members[uid] = true
			ds.TeamUsers = append(ds.TeamUsers, models.TeamUser{TeamID: team.ID, UserID: uid})
		}

		for s := 1; s <= size.SprintsPerTeam; s++ {
			sprintID++
			ds.Sprints = append(ds.Sprints, models.Sprint{
				ID:     sprintID,
				Name:   fmt.Sprintf("%s sprint-%d", team.Name, s),
				Status: seedStatuses[int(sprintID-1)%len(seedStatuses)],
				TeamID: team.ID,
			})

			for st := 1; st <= size.StoriesPerSprint; st++ {
				storyID++
				ds.Stories = append(ds.Stories, models.Story{
					ID:       storyID,
					Name:     fmt.Sprintf("story-%d", storyID),
					OwnerID:  userAt(int(storyID - 1)),
					SprintID: sprintID,
				})

				for tk := 1; tk <= size.TasksPerStory; tk++ {
					taskID++
					ds.Tasks = append(ds.Tasks, models.Task{
						ID:       taskID,
						Name:     fmt.Sprintf("task-%d", taskID),
						OwnerID:  userAt(int(taskID * 7)),
						StoryID:  storyID,
						Estimate: taskID%8 + 1,
					})
				}
			}
		}
	}

	return ds
}

// Seed replaces the content of every table with BuildDataset(size).
func (s *Seeder) Seed(ctx context.Context, size SeedSize) (Dataset, error) {
	const op = "repo.seed.Seed"

	ds := BuildDataset(size)

	tx, err := s.storage.BeginTxx(ctx, nil)
	if err != nil {
		return Dataset{}, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	for _, table := range seedTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return Dataset{}, fmt.Errorf("%s: failed to clear %s: %w", op, table, err)
		}
	}

	inserts := []struct {
		query string
		rows  func(lo, hi int) any
		n     int
	}{
		{`INSERT INTO users (id, name, level) VALUES (:id, :name, :level)`,
			func(lo, hi int) any { return ds.Users[lo:hi] }, len(ds.Users)},
		{`INSERT INTO teams (id, name) VALUES (:id, :name)`,
			func(lo, hi int) any { return ds.Teams[lo:hi] }, len(ds.Teams)},
		{`INSERT INTO team_users (team_id, user_id) VALUES (:team_id, :user_id)`,
			func(lo, hi int) any { return ds.TeamUsers[lo:hi] }, len(ds.TeamUsers)},
		{`INSERT INTO sprints (id, name, status, team_id) VALUES (:id, :name, :status, :team_id)`,
			func(lo, hi int) any { return ds.Sprints[lo:hi] }, len(ds.Sprints)},
		{`INSERT INTO stories (id, name, owner_id, sprint_id) VALUES (:id, :name, :owner_id, :sprint_id)`,
			func(lo, hi int) any { return ds.Stories[lo:hi] }, len(ds.Stories)},
		{`INSERT INTO tasks (id, name, owner_id, story_id, estimate) VALUES (:id, :name, :owner_id, :story_id, :estimate)`,
			func(lo, hi int) any { return ds.Tasks[lo:hi] }, len(ds.Tasks)},
	}

	for _, ins := range inserts {
		for lo := 0; lo < ins.n; lo += seedChunk {
			hi := min(lo+seedChunk, ins.n)
			if _, err := tx.NamedExecContext(ctx, ins.query, ins.rows(lo, hi)); err != nil {
				return Dataset{}, fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	if tx.DriverName() == "postgres" {
		for _, table := range []string{"users", "teams", "sprints", "stories", "tasks"} {
			query := fmt.Sprintf(`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE(MAX(id), 0) + 1, false) FROM %[1]s`, table)
			if _, err := tx.ExecContext(ctx, query); err != nil {
				return Dataset{}, fmt.Errorf("%s: failed to reset sequence of %s: %w", op, table, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Dataset{}, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	return ds, nil
}
