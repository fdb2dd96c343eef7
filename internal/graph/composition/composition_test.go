package composition_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"gqlbench/internal/apperrors"
	"gqlbench/internal/graph/composition"
	"gqlbench/internal/lib/querycount"
	"gqlbench/internal/lib/testdb"
	"gqlbench/internal/repo"
	"gqlbench/internal/resolve"
	"gqlbench/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
)

func newSchema(t *testing.T) (*composition.Schema, repo.Dataset) {
	t.Helper()

	db, ds := testdb.Seeded(t, testdb.Small)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := repo.NewUserRepo(db)
	teams := repo.NewTeamRepo(db)
	sprints := repo.NewSprintRepo(db)
	stories := repo.NewStoryRepo(db)
	tasks := repo.NewTaskRepo(db)

	schema, err := composition.New(log, composition.Deps{
		Users:        users,
		Teams:        teams,
		Sprints:      sprints,
		Stories:      stories,
		Tasks:        tasks,
		UserService:  service.NewUserService(log, users),
		TeamService:  service.NewTeamService(log, teams, sprints),
		StoryService: service.NewStoryService(log, stories, tasks),
	})
	require.NoError(t, err)

	return schema, ds
}

func run(t *testing.T, s *composition.Schema, query string, vars map[string]any) (map[string]any, *resolve.Response) {
	t.Helper()

	resp := s.Execute(context.Background(), resolve.Request{Query: query, Variables: vars})

	body, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &decoded))

	return decoded.Data, resp
}

const nestedThreeLayers = `{
	get_teams {
		id
		name
		sprints {
			id
			name
			stories {
				id
				name
				tasks { id name estimate }
			}
		}
	}
}`

func TestNestedQueryIssuesOneStatementPerLevel(t *testing.T) {
	s, ds := newSchema(t)

	ctx, counter := querycount.WithCounter(context.Background())
	resp := s.Execute(ctx, resolve.Request{Query: nestedThreeLayers})
	require.Empty(t, resp.Errors)

	// teams, sprints, stories, tasks
	assert.Equal(t, int64(4), counter.Load())

	teams := resp.Data.Map()["get_teams"].([]any)
	require.Len(t, teams, len(ds.Teams))

	var sprints, stories, tasks int
	for _, team := range teams {
		for _, sprint := range team.(map[string]any)["sprints"].([]any) {
			sprints++
			for _, story := range sprint.(map[string]any)["stories"].([]any) {
				stories++
				tasks += len(story.(map[string]any)["tasks"].([]any))
			}
		}
	}
	assert.Equal(t, len(ds.Sprints), sprints)
	assert.Equal(t, len(ds.Stories), stories)
	assert.Equal(t, len(ds.Tasks), tasks)
}

func TestOwnersShareTheUserLoader(t *testing.T) {
	s, _ := newSchema(t)

	ctx, counter := querycount.WithCounter(context.Background())
	resp := s.Execute(ctx, resolve.Request{Query: `{
		get_sprints {
			id
			stories {
				owner { id name }
				tasks { estimate owner { id name } }
			}
		}
	}`})
	require.Empty(t, resp.Errors)

	// sprints, stories, story owners + tasks, task owners not yet cached
	assert.LessOrEqual(t, counter.Load(), int64(5))

	first := resp.Data.Map()["get_sprints"].([]any)[0].(map[string]any)
	story := first["stories"].([]any)[0].(map[string]any)
	assert.Equal(t, map[string]any{"id": int64(1), "name": "user-1"}, story["owner"])
	task := story["tasks"].([]any)[0].(map[string]any)
	assert.Equal(t, map[string]any{"id": int64(2), "name": "user-2"}, task["owner"])
}

func TestTeamUsers(t *testing.T) {
	s, _ := newSchema(t)

	data, resp := run(t, s, `{ get_teams { id users { id level } } }`, nil)
	require.Empty(t, resp.Errors)

	teams := data["get_teams"].([]any)
	require.Len(t, teams, 2)
	assert.Equal(t, []any{
		map[string]any{"id": float64(1), "level": "user"},
		map[string]any{"id": float64(2), "level": "manager"},
		map[string]any{"id": float64(3), "level": "admin"},
	}, teams[0].(map[string]any)["users"])
}

func TestUserMutations(t *testing.T) {
	s, ds := newSchema(t)

	data, resp := run(t, s, `mutation { create_user(name: "zoe") { id name level } }`, nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, map[string]any{
		"id":    float64(len(ds.Users) + 1),
		"name":  "zoe",
		"level": "user",
	}, data["create_user"])

	data, resp = run(t, s, `mutation($id: Int!) { update_user(id: $id, level: "admin") { name level } }`,
		map[string]any{"id": 1})
	require.Empty(t, resp.Errors)
	assert.Equal(t, map[string]any{"name": "user-1", "level": "admin"}, data["update_user"])

	data, resp = run(t, s, `mutation { update_user(id: 999, name: "x") { id } }`, nil)
	require.Empty(t, resp.Errors)
	assert.Nil(t, data["update_user"])

	data, resp = run(t, s, `mutation { a: delete_user(id: 1) { success } b: delete_user(id: 1) { success } }`, nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, map[string]any{"success": true}, data["a"])
	assert.Equal(t, map[string]any{"success": false}, data["b"])

	data, resp = run(t, s, `mutation { create_user(name: "  ") { id } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, apperrors.ErrNameRequired.Error(), resp.Errors[0].Message)
	assert.Equal(t, ast.Path{ast.PathName("create_user")}, resp.Errors[0].Path)
	assert.Nil(t, resp.Data)
	assert.Nil(t, data)
}

func TestTeamMutations(t *testing.T) {
	s, _ := newSchema(t)

	data, resp := run(t, s, `mutation {
		team: create_team(name: "ops") { id name }
		sprint: create_sprint(team_id: 1, name: "hardening") { id status team_id }
		member: add_team_member(team_id: 1, user_id: 6) { success }
	}`, nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, map[string]any{"id": float64(3), "name": "ops"}, data["team"])
	assert.Equal(t, map[string]any{"id": float64(5), "status": "planning", "team_id": float64(1)}, data["sprint"])
	assert.Equal(t, map[string]any{"success": true}, data["member"])

	data, resp = run(t, s, `mutation { a: add_team_member(team_id: 1, user_id: 6) { success } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, apperrors.ErrMemberExists.Error(), resp.Errors[0].Message)
	assert.Nil(t, resp.Data)
	assert.Nil(t, data)

	data, resp = run(t, s, `mutation {
		removed: remove_team_member(team_id: 1, user_id: 6) { success }
		again: remove_team_member(team_id: 1, user_id: 6) { success }
		renamed: update_team(id: 2, name: "frontend") { name }
		sprint: update_sprint(id: 5, status: "active") { name status }
		gone: delete_sprint(id: 5) { success }
		team: delete_team(id: 3) { success }
	}`, nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, map[string]any{"success": true}, data["removed"])
	assert.Equal(t, map[string]any{"success": false}, data["again"])
	assert.Equal(t, map[string]any{"name": "frontend"}, data["renamed"])
	assert.Equal(t, map[string]any{"name": "hardening", "status": "active"}, data["sprint"])
	assert.Equal(t, map[string]any{"success": true}, data["gone"])
	assert.Equal(t, map[string]any{"success": true}, data["team"])
}

func TestStoryAndTaskMutations(t *testing.T) {
	s, ds := newSchema(t)

	data, resp := run(t, s, `mutation {
		story: create_story(sprint_id: 1, name: "checkout", owner_id: 2) { id owner { id } }
		task: create_task(story_id: 1, name: "wire", owner_id: 3) { id estimate story_id }
	}`, nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, map[string]any{
		"id":    float64(len(ds.Stories) + 1),
		"owner": map[string]any{"id": float64(2)},
	}, data["story"])
	assert.Equal(t, map[string]any{
		"id":       float64(len(ds.Tasks) + 1),
		"estimate": float64(0),
		"story_id": float64(1),
	}, data["task"])

	data, resp = run(t, s, `mutation {
		story: update_story(id: 1, owner_id: 4) { owner_id }
		task: update_task(id: 1, estimate: 13) { estimate name }
		missing: update_task(id: 999, estimate: 1) { id }
		deleted: delete_story(id: 2) { success }
		deletedTask: delete_task(id: 1) { success }
	}`, nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, map[string]any{"owner_id": float64(4)}, data["story"])
	assert.Equal(t, map[string]any{"estimate": float64(13), "name": "task-1"}, data["task"])
	assert.Nil(t, data["missing"])
	assert.Equal(t, map[string]any{"success": true}, data["deleted"])
	assert.Equal(t, map[string]any{"success": true}, data["deletedTask"])

	_, resp = run(t, s, `mutation { create_task(story_id: 1, name: "x", owner_id: 1, estimate: -1) { id } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, apperrors.ErrInvalidEstimate.Error(), resp.Errors[0].Message)
}

func TestSDLListsQueriesAndMutations(t *testing.T) {
	s, _ := newSchema(t)

	sdl := s.SDL()
	for _, name := range []string{
		"get_users", "get_teams", "get_sprints", "get_stories", "get_tasks",
		"create_user", "update_user", "delete_user",
		"create_team", "update_team", "delete_team", "add_team_member", "remove_team_member",
		"create_sprint", "update_sprint", "delete_sprint",
		"create_story", "update_story", "delete_story",
		"create_task", "update_task", "delete_task",
	} {
		assert.Contains(t, sdl, name)
	}
	assert.Contains(t, sdl, "type BoolResponse")
}

func TestER(t *testing.T) {
	s, _ := newSchema(t)

	g := s.ER()
	assert.Len(t, g.Entities, 6)
	assert.Contains(t, g.Edges, resolve.EREdge{From: "Story", To: "User", Field: "owner", Loader: composition.UserBatch})
	assert.Contains(t, g.Edges, resolve.EREdge{From: "Team", To: "User", Field: "users", Loader: composition.TeamToUser, List: true})
}
