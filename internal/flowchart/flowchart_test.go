package flowchart

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"codescope/internal/analyzer"
)

func TestCallTree(t *testing.T) {
	tree := &analyzer.CallTreeNode{
		Name: "main",
		File: "cmd/app/main.go",
		Line: 10,
		Calls: []*analyzer.CallTreeNode{
			{Name: "run", File: "internal/run.go", Line: 5, Calls: []*analyzer.CallTreeNode{}},
			{Name: "shutdown", File: "internal/run.go", Line: 40, Calls: []*analyzer.CallTreeNode{}},
		},
	}

	out := NewGenerator().CallTree(tree, "TD")

	assert.True(t, strings.HasPrefix(out, "graph TD"))
	assert.Contains(t, out, `node1["main\n[main.go:10]"]`)
	assert.Contains(t, out, "style node1")
	assert.Contains(t, out, "node1 --> node2")
	assert.Contains(t, out, "node1 --> node3")
}

func TestCallTree_SanitizesLabels(t *testing.T) {
	tree := &analyzer.CallTreeNode{Name: `do"thing(x)`, File: "", Line: 1}
	out := NewGenerator().CallTree(tree, "")

	assert.NotContains(t, out, `do"thing`)
	assert.Contains(t, out, "do'thing[x]")
}

func TestCallPaths(t *testing.T) {
	t.Run("single path has no subgraph", func(t *testing.T) {
		out := NewGenerator().CallPaths([][]string{{"f", "g", "h"}}, "LR")
		assert.True(t, strings.HasPrefix(out, "graph LR"))
		assert.NotContains(t, out, "subgraph")
		assert.Contains(t, out, "node1 --> node2")
		assert.Contains(t, out, "node2 --> node3")
	})

	t.Run("multiple paths get subgraphs", func(t *testing.T) {
		out := NewGenerator().CallPaths([][]string{{"a", "b"}, {"a", "c", "b"}}, "")
		assert.Contains(t, out, "subgraph Path1")
		assert.Contains(t, out, "subgraph Path2")
	})

	t.Run("no paths", func(t *testing.T) {
		out := NewGenerator().CallPaths(nil, "LR")
		assert.Contains(t, out, "no path found")
	})
}

func TestDependencies(t *testing.T) {
	imports := map[string][]string{
		"src/app.c":  {"util.h", "net/socket.h"},
		"src/util.c": {"util.h"},
	}

	out := NewGenerator().Dependencies(imports, "LR")

	assert.True(t, strings.HasPrefix(out, "graph LR"))
	assert.Contains(t, out, `["app.c"]`)
	assert.Contains(t, out, `["socket.h"]`)
	// Both .c files point at the shared header node.
	assert.Equal(t, 1, strings.Count(out, `["util.h"]`))

	t.Run("empty input", func(t *testing.T) {
		assert.Contains(t, NewGenerator().Dependencies(nil, ""), "no dependencies")
	})

	t.Run("stable output", func(t *testing.T) {
		assert.Equal(t, out, NewGenerator().Dependencies(imports, "LR"))
	})
}
