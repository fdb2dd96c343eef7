package repo_test

import (
	"context"
	"testing"

	"gqlbench/internal/apperrors"
	"gqlbench/internal/domain/models"
	"gqlbench/internal/lib/querycount"
	"gqlbench/internal/lib/testdb"
	"gqlbench/internal/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestBuildDataset(t *testing.T) {
	ds := repo.BuildDataset(testdb.Small)

	assert.Len(t, ds.Users, 6)
	assert.Len(t, ds.Teams, 2)
	assert.Len(t, ds.TeamUsers, 6)
	assert.Len(t, ds.Sprints, 4)
	assert.Len(t, ds.Stories, 8)
	assert.Len(t, ds.Tasks, 16)

	assert.Equal(t, repo.BuildDataset(testdb.Small), ds, "dataset must be deterministic")

	for _, task := range ds.Tasks {
		assert.True(t, task.OwnerID >= 1 && task.OwnerID <= 6)
	}
}

func TestBuildDatasetEmpty(t *testing.T) {
	assert.Empty(t, repo.BuildDataset(repo.SeedSize{}).Teams)
}

func TestSeedIsRepeatable(t *testing.T) {
	db, ds := testdb.Seeded(t, testdb.Small)
	ctx := context.Background()

	_, err := repo.NewSeeder(db).Seed(ctx, testdb.Small)
	require.NoError(t, err)

	tasks, err := repo.NewTaskRepo(db).List(ctx)
	require.NoError(t, err)
	assert.Equal(t, ds.Tasks, tasks)
}

func TestUserCRUD(t *testing.T) {
	db := testdb.New(t)
	users := repo.NewUserRepo(db)
	ctx := context.Background()

	created, err := users.Create(ctx, "alice", models.DefaultUserLevel)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "user", created.Level)

	updated, err := users.Update(ctx, created.ID, nil, ptr("admin"))
	require.NoError(t, err)
	assert.Equal(t, "alice", updated.Name)
	assert.Equal(t, "admin", updated.Level)

	_, err = users.Update(ctx, 999, ptr("ghost"), nil)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = users.Get(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	ok, err := users.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = users.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTeamMembers(t *testing.T) {
	db, _ := testdb.Seeded(t, testdb.Small)
	teams := repo.NewTeamRepo(db)
	users := repo.NewUserRepo(db)
	ctx := context.Background()

	ok, err := teams.AddMember(ctx, 1, 6)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = teams.AddMember(ctx, 1, 6)
	assert.ErrorIs(t, err, apperrors.ErrMemberExists)

	_, err = teams.AddMember(ctx, 1, 999)
	assert.ErrorIs(t, err, apperrors.ErrReferenceNotFound)

	members, err := users.UsersByTeamIDs(ctx, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Len(t, members[1], 4)
	assert.Len(t, members[2], 3)
	assert.Empty(t, members[3])

	ok, err = teams.RemoveMember(ctx, 1, 6)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = teams.RemoveMember(ctx, 1, 6)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteTeamCascades(t *testing.T) {
	db, _ := testdb.Seeded(t, testdb.Small)
	ctx := context.Background()

	ok, err := repo.NewTeamRepo(db).Delete(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	sprints, err := repo.NewSprintRepo(db).List(ctx)
	require.NoError(t, err)
	for _, s := range sprints {
		assert.Equal(t, int64(2), s.TeamID)
	}

	tasks, err := repo.NewTaskRepo(db).List(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 8)
}

func TestOwnedChildren(t *testing.T) {
	db, _ := testdb.Seeded(t, testdb.Small)
	ctx := context.Background()

	sprint, err := repo.NewSprintRepo(db).Create(ctx, 1, "extra", models.DefaultSprintStatus)
	require.NoError(t, err)
	assert.Equal(t, int64(5), sprint.ID, "ids continue after seeded rows")

	_, err = repo.NewSprintRepo(db).Create(ctx, 42, "orphan", models.DefaultSprintStatus)
	assert.ErrorIs(t, err, apperrors.ErrTeamNotFound)

	story, err := repo.NewStoryRepo(db).Create(ctx, sprint.ID, "s", 1)
	require.NoError(t, err)

	task, err := repo.NewTaskRepo(db).Create(ctx, story.ID, "t", 2, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), task.Estimate)

	task, err = repo.NewTaskRepo(db).Update(ctx, task.ID, nil, nil, ptr(int64(8)))
	require.NoError(t, err)
	assert.Equal(t, "t", task.Name)
	assert.Equal(t, int64(8), task.Estimate)

	_, err = repo.NewStoryRepo(db).Update(ctx, story.ID, nil, ptr(int64(999)))
	assert.ErrorIs(t, err, apperrors.ErrOwnerNotFound)
}

func TestBatchQueriesIssueOneStatement(t *testing.T) {
	db, ds := testdb.Seeded(t, testdb.Small)
	ctx, counter := querycount.WithCounter(context.Background())

	tasks, err := repo.NewTaskRepo(db).TasksByStoryIDs(ctx, []int64{1, 2, 2, 1, 99})
	require.NoError(t, err)
	assert.Len(t, tasks[1], 2)
	assert.Len(t, tasks[2], 2)
	assert.Empty(t, tasks[99])
	assert.EqualValues(t, 1, counter.Load())

	users, err := repo.NewUserRepo(db).UsersByIDs(ctx, []int64{1, 3})
	require.NoError(t, err)
	assert.Equal(t, ds.Users[2], users[3])
	assert.EqualValues(t, 2, counter.Load())

	empty, err := repo.NewStoryRepo(db).StoriesBySprintIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.EqualValues(t, 2, counter.Load(), "empty key list must not hit the database")

	sprints, err := repo.NewSprintRepo(db).SprintsByTeamIDs(ctx, []int64{2})
	require.NoError(t, err)
	assert.Equal(t, []models.Sprint{ds.Sprints[2], ds.Sprints[3]}, sprints[2])
}
