package resolve_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gqlbench/internal/resolve"
)

type team struct {
	ID   int64
	Name string
}

type sprint struct {
	ID     int64
	Name   string
	TeamID int64
}

type member struct {
	ID   int64
	Name string
}

// batchCounter records every batch call made per loader.
type batchCounter struct {
	mu    sync.Mutex
	calls map[string][][]resolve.Key
}

func (c *batchCounter) record(loader string, keys []resolve.Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls == nil {
		c.calls = make(map[string][][]resolve.Key)
	}
	c.calls[loader] = append(c.calls[loader], append([]resolve.Key(nil), keys...))
}

func (c *batchCounter) count(loader string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls[loader])
}

var errLoaderDown = errors.New("loader down")

type fixture struct {
	teams   []team
	sprints []sprint
	members map[int64][]member
	calls   *batchCounter
	failing map[string]bool
	created []string
}

func newFixture() *fixture {
	return &fixture{
		teams: []team{{ID: 1, Name: "core"}, {ID: 2, Name: "web"}},
		sprints: []sprint{
			{ID: 10, Name: "s10", TeamID: 1},
			{ID: 11, Name: "s11", TeamID: 1},
			{ID: 20, Name: "s20", TeamID: 2},
		},
		members: map[int64][]member{
			1: {{ID: 100, Name: "ann"}, {ID: 101, Name: "bob"}},
		},
		calls:   &batchCounter{},
		failing: map[string]bool{},
	}
}

func (f *fixture) diagram() *resolve.Diagram {
	d := resolve.NewDiagram()

	resolve.Define[team](d, "Team", "A team").
		Field("id", "Int!", func(t team) any { return t.ID }).
		Field("name", "String!", func(t team) any { return t.Name }).
		Many("sprints", "Sprint", "team_to_sprint", func(t team) resolve.Key { return t.ID }).
		Many("members", "Member", "team_to_member", func(t team) resolve.Key { return t.ID })

	resolve.Define[sprint](d, "Sprint").
		Field("id", "Int!", func(s sprint) any { return s.ID }).
		Field("name", "String!", func(s sprint) any { return s.Name }).
		Field("team_id", "Int!", func(s sprint) any { return s.TeamID }).
		One("team", "Team", "team", func(s sprint) resolve.Key { return s.TeamID })

	resolve.Define[member](d, "Member").
		Field("id", "Int!", func(m member) any { return m.ID }).
		Field("name", "String!", func(m member) any { return m.Name })

	d.Loader("team_to_sprint", func(ctx context.Context, keys []resolve.Key) (map[resolve.Key][]any, error) {
		f.calls.record("team_to_sprint", keys)
		if f.failing["team_to_sprint"] {
			return nil, errLoaderDown
		}
		out := make(map[resolve.Key][]any)
		for _, s := range f.sprints {
			for _, k := range keys {
				if s.TeamID == k {
					out[k] = append(out[k], s)
				}
			}
		}
		return out, nil
	})
	d.Loader("team_to_member", func(ctx context.Context, keys []resolve.Key) (map[resolve.Key][]any, error) {
		f.calls.record("team_to_member", keys)
		out := make(map[resolve.Key][]any)
		for _, k := range keys {
			out[k] = resolve.Rows(f.members[k])
		}
		return out, nil
	})
	d.Loader("team", func(ctx context.Context, keys []resolve.Key) (map[resolve.Key][]any, error) {
		f.calls.record("team", keys)
		byID := make(map[resolve.Key]team)
		for _, t := range f.teams {
			byID[t.ID] = t
		}
		out := make(map[resolve.Key]team)
		for _, k := range keys {
			if t, ok := byID[k]; ok {
				out[k] = t
			}
		}
		return resolve.Index(out), nil
	})

	d.Query(resolve.RootField{
		Name:   "get_teams",
		Target: "Team",
		List:   true,
		Resolve: func(ctx context.Context, args map[string]any) (any, error) {
			if f.failing["typed_rows"] {
				return f.teams, nil
			}
			return resolve.Rows(f.teams), nil
		},
	})
	d.Query(resolve.RootField{
		Name:   "get_sprints",
		Target: "Sprint",
		List:   true,
		Resolve: func(ctx context.Context, args map[string]any) (any, error) {
			if f.failing["get_sprints"] {
				return nil, errLoaderDown
			}
			return resolve.Rows(f.sprints), nil
		},
	})
	d.Mutation(resolve.RootField{
		Name:    "create_team",
		Target:  "Team",
		NonNull: true,
		Args: []resolve.Arg{
			{Name: "name", Type: "String!"},
			{Name: "size", Type: "Int", Default: "3"},
		},
		Resolve: func(ctx context.Context, args map[string]any) (any, error) {
			if f.failing["create_team"] {
				return nil, errLoaderDown
			}
			name, _ := resolve.ArgString(args, "name")
			size, _, err := resolve.ArgInt(args, "size")
			if err != nil {
				return nil, err
			}
			f.created = append(f.created, fmt.Sprintf("%s:%d", name, size))
			t := team{ID: int64(len(f.teams) + 1), Name: name}
			f.teams = append(f.teams, t)
			return t, nil
		},
	})
	d.Mutation(resolve.RootField{
		Name:   "rename_team",
		Target: "Team",
		Args: []resolve.Arg{
			{Name: "id", Type: "Int!"},
			{Name: "name", Type: "String"},
		},
		Resolve: func(ctx context.Context, args map[string]any) (any, error) {
			if f.failing["rename_team"] {
				return nil, errLoaderDown
			}
			id, _, err := resolve.ArgInt(args, "id")
			if err != nil {
				return nil, err
			}
			for i := range f.teams {
				if f.teams[i].ID == id {
					if name := resolve.OptString(args, "name"); name != nil {
						f.teams[i].Name = *name
					}
					return f.teams[i], nil
				}
			}
			return nil, nil
		},
	})

	return d
}

func (f *fixture) executor() (*resolve.Executor, error) {
	return resolve.NewExecutor(f.diagram())
}
