package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClonePayload_CopiesNestedValues(t *testing.T) {
	orig := map[string]any{
		"value": 1.5,
		"range": map[string]any{"min": 0.0, "max": []any{1.0, 2.0}},
		"tags":  []string{"a"},
	}

	cp := ClonePayload(orig)
	assert.Equal(t, orig, cp)

	cp["range"].(map[string]any)["min"] = 9.0
	cp["range"].(map[string]any)["max"].([]any)[0] = 9.0
	cp["tags"].([]string)[0] = "z"

	assert.Equal(t, 0.0, orig["range"].(map[string]any)["min"])
	assert.Equal(t, 1.0, orig["range"].(map[string]any)["max"].([]any)[0])
	assert.Equal(t, "a", orig["tags"].([]string)[0])
	assert.Nil(t, ClonePayload(nil))
}

func TestNodeClone_DetachesNestedPayload(t *testing.T) {
	g := newTestGraph()
	src := mustAdd(t, g, "source")
	src.Payload["curve"] = []any{map[string]any{"x": 0.0}}

	dup := src.Clone()
	dup.Payload["curve"].([]any)[0].(map[string]any)["x"] = 5.0

	assert.Equal(t, 0.0, src.Payload["curve"].([]any)[0].(map[string]any)["x"])
}
