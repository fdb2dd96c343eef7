package benchmark

import (
	"context"
	"encoding/json"
	"errors"

	"gqlbench/internal/graph/composition"
	"gqlbench/internal/graph/fieldresolver"
	"gqlbench/internal/resolve"
)

// Engine is one GraphQL implementation under test.
type Engine interface {
	Name() string
	// Execute runs query and returns the full response. GraphQL errors in the
	// response are returned as the error.
	Execute(ctx context.Context, query string) (any, error)
}

type compositionEngine struct {
	schema *composition.Schema
}

func CompositionEngine(schema *composition.Schema) Engine {
	return compositionEngine{schema: schema}
}

func (e compositionEngine) Name() string {
	return composition.Engine
}

func (e compositionEngine) Execute(ctx context.Context, query string) (any, error) {
	resp := e.schema.Execute(ctx, resolve.Request{Query: query})
	if len(resp.Errors) > 0 {
		return resp, resp.Errors
	}
	return resp, nil
}

type fieldResolverEngine struct {
	schema *fieldresolver.Schema
}

func FieldResolverEngine(schema *fieldresolver.Schema) Engine {
	return fieldResolverEngine{schema: schema}
}

func (e fieldResolverEngine) Name() string {
	return fieldresolver.Engine
}

func (e fieldResolverEngine) Execute(ctx context.Context, query string) (any, error) {
	resp := e.schema.Execute(ctx, query, "", nil)
	if len(resp.Errors) > 0 {
		errs := make([]error, len(resp.Errors))
		for i, qe := range resp.Errors {
			errs[i] = qe
		}
		return resp, errors.Join(errs...)
	}
	return resp, nil
}

// data extracts the "data" member of a response in plain JSON form.
func data(resp any) (map[string]any, error) {
	body, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}

	var out struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}

	return out.Data, nil
}
