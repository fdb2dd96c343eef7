package benchmark

import (
	"context"
	"fmt"
	"reflect"
)

// Counts tallies the nodes of a get_teams response.
type Counts struct {
	Teams   int `json:"teams"`
	Sprints int `json:"sprints"`
	Stories int `json:"stories"`
	Tasks   int `json:"tasks"`
}

type Verification struct {
	Query  string            `json:"query"`
	Counts map[string]Counts `json:"counts"`
	Match  bool              `json:"match"`
}

// Verify runs a get_teams query on both engines and checks they return the
// same data.
func Verify(ctx context.Context, a, b Engine, query string) (*Verification, error) {
	const op = "benchmark.Verify"

	v := &Verification{Query: query, Counts: make(map[string]Counts, 2)}

	var teams [2][]any
	for i, engine := range []Engine{a, b} {
		resp, err := engine.Execute(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", op, engine.Name(), err)
		}

		d, err := data(resp)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", op, engine.Name(), err)
		}

		teams[i], _ = d["get_teams"].([]any)
		v.Counts[engine.Name()] = count(teams[i])
	}

	v.Match = reflect.DeepEqual(teams[0], teams[1])

	return v, nil
}

func count(teams []any) Counts {
	c := Counts{Teams: len(teams)}
	for _, team := range teams {
		for _, sprint := range children(team, "sprints") {
			c.Sprints++
			for _, story := range children(sprint, "stories") {
				c.Stories++
				c.Tasks += len(children(story, "tasks"))
			}
		}
	}
	return c
}

func children(node any, key string) []any {
	m, ok := node.(map[string]any)
	if !ok {
		return nil
	}
	list, _ := m[key].([]any)
	return list
}
