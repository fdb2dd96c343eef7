package resolve_test

import (
	"encoding/json"
	"testing"

	"gqlbench/internal/resolve"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKeepsInsertionOrder(t *testing.T) {
	child := resolve.NewObject(1)
	child.Set("id", 7)

	obj := resolve.NewObject(4)
	obj.Set("zeta", 1)
	obj.Set("alpha", "a")
	obj.Set("owner", child)
	obj.Set("tasks", []any{child})
	obj.Set("zeta", 2)

	body, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":2,"alpha":"a","owner":{"id":7},"tasks":[{"id":7}]}`, string(body))
	assert.Equal(t, []string{"zeta", "alpha", "owner", "tasks"}, obj.Keys())

	obj.Delete("alpha")
	obj.Delete("missing")
	assert.Equal(t, 3, obj.Len())
	_, ok := obj.Get("alpha")
	assert.False(t, ok)

	assert.Len(t, obj.Objects("owner"), 1)
	assert.Len(t, obj.Objects("tasks"), 1)
	assert.Empty(t, obj.Objects("zeta"))
	assert.Equal(t, map[string]any{
		"zeta":  2,
		"owner": map[string]any{"id": 7},
		"tasks": []any{map[string]any{"id": 7}},
	}, obj.Map())
}

func TestNilObjectMarshalsAsNull(t *testing.T) {
	var obj *resolve.Object

	body, err := json.Marshal(struct {
		Data *resolve.Object `json:"data"`
	}{Data: obj})
	require.NoError(t, err)
	assert.Equal(t, `{"data":null}`, string(body))
}
