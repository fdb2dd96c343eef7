package benchmark_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"gqlbench/internal/app"
	"gqlbench/internal/benchmark"
	"gqlbench/internal/config"
	"gqlbench/internal/graph/composition"
	"gqlbench/internal/graph/fieldresolver"
	"gqlbench/internal/lib/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngines(t *testing.T) (benchmark.Engine, benchmark.Engine) {
	t.Helper()

	db, _ := testdb.Seeded(t, testdb.Small)
	engines, err := app.NewEngines(slog.New(slog.NewTextHandler(io.Discard, nil)), db, config.GraphQLConfig{MaxParallelism: 10})
	require.NoError(t, err)

	return benchmark.CompositionEngine(engines.Composition), benchmark.FieldResolverEngine(engines.FieldResolver)
}

func TestVerify(t *testing.T) {
	a, b := newEngines(t)

	v, err := benchmark.Verify(context.Background(), a, b, benchmark.Queries[benchmark.Nested3Layers])
	require.NoError(t, err)

	want := benchmark.Counts{Teams: 2, Sprints: 4, Stories: 8, Tasks: 16}
	assert.Equal(t, want, v.Counts[composition.Engine])
	assert.Equal(t, want, v.Counts[fieldresolver.Engine])
	assert.True(t, v.Match)
}

func TestVerifyReportsEngineErrors(t *testing.T) {
	a, b := newEngines(t)

	_, err := benchmark.Verify(context.Background(), a, b, `{ get_teams { missing } }`)
	assert.ErrorContains(t, err, composition.Engine)
}

func TestEveryScenarioRunsOnBothEngines(t *testing.T) {
	a, b := newEngines(t)

	for _, scenario := range benchmark.Scenarios {
		for _, engine := range []benchmark.Engine{a, b} {
			_, err := engine.Execute(context.Background(), benchmark.Queries[scenario])
			assert.NoError(t, err, "%s on %s", scenario, engine.Name())
		}
	}
}
