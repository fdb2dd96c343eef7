package resolve_test

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"gqlbench/internal/resolve"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, f *fixture, req resolve.Request) (*resolve.Response, string) {
	t.Helper()

	exec, err := f.executor()
	require.NoError(t, err)

	resp := exec.Execute(context.Background(), req)
	require.NotNil(t, resp)

	body, err := json.Marshal(resp)
	require.NoError(t, err)

	return resp, string(body)
}

func TestExecuteNestedBatchesPerLevel(t *testing.T) {
	f := newFixture()

	resp, body := execute(t, f, resolve.Request{Query: `{
		get_teams {
			id
			name
			sprints { id name team { name } }
			members { name }
		}
	}`})

	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"data":{"get_teams":[
		{"id":1,"name":"core",
		 "sprints":[{"id":10,"name":"s10","team":{"name":"core"}},{"id":11,"name":"s11","team":{"name":"core"}}],
		 "members":[{"name":"ann"},{"name":"bob"}]},
		{"id":2,"name":"web",
		 "sprints":[{"id":20,"name":"s20","team":{"name":"web"}}],
		 "members":[]}
	]}}`, body)

	assert.Equal(t, 1, f.calls.count("team_to_sprint"))
	assert.Equal(t, 1, f.calls.count("team_to_member"))
	require.Equal(t, 1, f.calls.count("team"))
	assert.ElementsMatch(t, []resolve.Key{1, 2}, f.calls.calls["team"][0])
}

func TestExecuteKeepsSelectionOrder(t *testing.T) {
	f := newFixture()

	_, body := execute(t, f, resolve.Request{Query: `{ get_sprints { name id team_id } get_teams { name } }`})

	assert.Equal(t,
		`{"data":{"get_sprints":[{"name":"s10","id":10,"team_id":1},{"name":"s11","id":11,"team_id":1},{"name":"s20","id":20,"team_id":2}],"get_teams":[{"name":"core"},{"name":"web"}]}}`,
		body)
}

func TestExecuteAliasesFragmentsAndDirectives(t *testing.T) {
	f := newFixture()

	resp, body := execute(t, f, resolve.Request{
		Query: `
			query Q($withSprints: Boolean!) {
				first: get_teams { ...teamFields sprints @include(if: $withSprints) { id } }
				second: get_teams { __typename name @skip(if: true) ... on Team { id } }
			}
			fragment teamFields on Team { id name }`,
		Variables: map[string]any{"withSprints": false},
	})

	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"data":{
		"first":[{"id":1,"name":"core"},{"id":2,"name":"web"}],
		"second":[{"__typename":"Team","id":1},{"__typename":"Team","id":2}]
	}}`, body)
	assert.Zero(t, f.calls.count("team_to_sprint"))
}

func TestExecuteLoaderErrorNullsData(t *testing.T) {
	f := newFixture()
	f.failing["team_to_sprint"] = true

	resp, body := execute(t, f, resolve.Request{Query: `{ get_teams { id sprints { id } } get_sprints { id } }`})

	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0].Message, errLoaderDown.Error())
	assert.Nil(t, resp.Data)

	var decoded struct {
		Data   map[string]any   `json:"data"`
		Errors []map[string]any `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &decoded))
	assert.Contains(t, body, `"data":null`)
	assert.Nil(t, decoded.Data)
	assert.Equal(t, []any{"get_teams", "sprints"}, decoded.Errors[0]["path"])
}

func TestExecuteRootResolverError(t *testing.T) {
	f := newFixture()
	f.failing["get_sprints"] = true

	resp, body := execute(t, f, resolve.Request{Query: `{ get_sprints { id } }`})

	require.Len(t, resp.Errors, 1)
	assert.JSONEq(t, `{"data":null,"errors":[{"message":"loader down","path":["get_sprints"]}]}`, body)
}

func TestExecuteTypedListRowsAreRejected(t *testing.T) {
	f := newFixture()
	f.failing["typed_rows"] = true

	resp, body := execute(t, f, resolve.Request{Query: `{ get_teams { id } }`})

	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0].Message, "Query.get_teams resolved to []resolve_test.team")
	assert.Contains(t, body, `"data":null`)
}

func TestExecuteIntOutOfRange(t *testing.T) {
	f := newFixture()
	f.sprints[0].ID = math.MaxInt32 + 1

	resp, body := execute(t, f, resolve.Request{Query: `{ get_teams { name sprints { id } } }`})

	require.Len(t, resp.Errors, 1)
	assert.ErrorIs(t, resp.Errors[0], resolve.ErrIntRange)
	assert.JSONEq(t, `{"data":null,"errors":[{
		"message":"Int cannot represent non 32-bit signed integer value: 2147483648",
		"path":["get_teams","sprints","id"]
	}]}`, body)
}

func TestExecuteValidationError(t *testing.T) {
	f := newFixture()

	resp, body := execute(t, f, resolve.Request{Query: `{ get_teams { nope } }`})

	require.NotEmpty(t, resp.Errors)
	assert.Nil(t, resp.Data)
	assert.NotContains(t, body, `"data"`)
}

func TestExecuteMutationsRunInOrder(t *testing.T) {
	f := newFixture()

	resp, body := execute(t, f, resolve.Request{Query: `mutation {
		a: create_team(name: "x") { id name }
		b: create_team(name: "y", size: 5) { id }
		c: rename_team(id: 99, name: "z") { id }
	}`})

	require.Empty(t, resp.Errors)
	assert.Equal(t, []string{"x:3", "y:5"}, f.created)
	assert.JSONEq(t, `{"data":{"a":{"id":3,"name":"x"},"b":{"id":4},"c":null}}`, body)
}

func TestExecuteNonNullMutationFailureNullsData(t *testing.T) {
	f := newFixture()
	f.failing["create_team"] = true

	resp, body := execute(t, f, resolve.Request{Query: `mutation {
		a: rename_team(id: 1, name: "z") { name }
		b: create_team(name: "x") { id }
		c: rename_team(id: 2, name: "w") { name }
	}`})

	require.Len(t, resp.Errors, 1)
	assert.JSONEq(t, `{"data":null,"errors":[{"message":"loader down","path":["b"]}]}`, body)
	assert.Equal(t, "z", f.teams[0].Name)
	assert.Equal(t, "web", f.teams[1].Name)
}

func TestExecuteNullableMutationFailureKeepsData(t *testing.T) {
	f := newFixture()
	f.failing["rename_team"] = true

	resp, body := execute(t, f, resolve.Request{Query: `mutation {
		a: create_team(name: "x") { id }
		b: rename_team(id: 1, name: "z") { id }
	}`})

	require.Len(t, resp.Errors, 1)
	assert.JSONEq(t, `{"data":{"a":{"id":3},"b":null},"errors":[{"message":"loader down","path":["b"]}]}`, body)
}

func TestExecuteMutationWithVariables(t *testing.T) {
	f := newFixture()

	var req resolve.Request
	require.NoError(t, json.Unmarshal([]byte(`{
		"query": "mutation Rename($id: Int!, $name: String) { rename_team(id: $id, name: $name) { id name } }",
		"variables": {"id": 1, "name": "platform"},
		"operation_name": "Rename"
	}`), &req))
	assert.Equal(t, "Rename", req.OperationName)

	resp, body := execute(t, f, req)

	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"data":{"rename_team":{"id":1,"name":"platform"}}}`, body)
}

func TestExecuteSelectsOperationByName(t *testing.T) {
	f := newFixture()
	doc := `query A { get_teams { id } } query B { get_sprints { id } }`

	resp, body := execute(t, f, resolve.Request{Query: doc, OperationName: "B"})
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"data":{"get_sprints":[{"id":10},{"id":11},{"id":20}]}}`, body)

	resp, _ = execute(t, f, resolve.Request{Query: doc})
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0].Message, "operation name is required")

	resp, _ = execute(t, f, resolve.Request{Query: doc, OperationName: "C"})
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0].Message, "operation not found")
}

func TestExecuteIntrospection(t *testing.T) {
	f := newFixture()

	resp, _ := execute(t, f, resolve.Request{Query: `{
		__typename
		__schema { queryType { name } mutationType { name } subscriptionType { name } }
		__type(name: "Team") {
			kind
			name
			description
			fields { name type { kind ofType { kind ofType { kind ofType { name } } } } }
		}
		missing: __type(name: "Nope") { name }
	}`})
	require.Empty(t, resp.Errors)

	data := resp.Data.Map()
	assert.Equal(t, "Query", data["__typename"])
	assert.Equal(t, map[string]any{
		"queryType":        map[string]any{"name": "Query"},
		"mutationType":     map[string]any{"name": "Mutation"},
		"subscriptionType": nil,
	}, data["__schema"])
	assert.Nil(t, data["missing"])

	typ := data["__type"].(map[string]any)
	assert.Equal(t, "OBJECT", typ["kind"])
	assert.Equal(t, "Team", typ["name"])
	assert.Equal(t, "A team", typ["description"])

	fields := typ["fields"].([]any)
	names := make([]string, 0, len(fields))
	for _, fd := range fields {
		names = append(names, fd.(map[string]any)["name"].(string))
	}
	assert.Equal(t, []string{"id", "name", "sprints", "members"}, names)

	sprints := fields[2].(map[string]any)["type"].(map[string]any)
	assert.Equal(t, "NON_NULL", sprints["kind"])
	list := sprints["ofType"].(map[string]any)
	assert.Equal(t, "LIST", list["kind"])
	item := list["ofType"].(map[string]any)
	assert.Equal(t, "NON_NULL", item["kind"])
	assert.Equal(t, map[string]any{"name": "Sprint"}, item["ofType"])
}

func TestExecuteIntrospectionTypesIncludeBuiltins(t *testing.T) {
	f := newFixture()

	resp, _ := execute(t, f, resolve.Request{Query: `{ __schema { types { name } directives { name } } }`})
	require.Empty(t, resp.Errors)

	schema := resp.Data.Map()["__schema"].(map[string]any)
	var types []string
	for _, typ := range schema["types"].([]any) {
		types = append(types, typ.(map[string]any)["name"].(string))
	}
	assert.Contains(t, types, "Team")
	assert.Contains(t, types, "String")
	assert.Contains(t, types, "__Type")

	var directives []string
	for _, d := range schema["directives"].([]any) {
		directives = append(directives, d.(map[string]any)["name"].(string))
	}
	assert.Contains(t, directives, "skip")
	assert.Contains(t, directives, "include")
}
