package index

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codescope/internal/extractor"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "app/main.py", "def main():\n    run()\n\ndef run():\n    pass\n")
	writeFile(t, root, "lib/util.c", "#include \"util.h\"\n\nint add(int a, int b) {\n    return a + b;\n}\n")
	writeFile(t, root, "web/page.js", "function render(data) { return data; }\n")
	writeFile(t, root, "notes.txt", "not source\n")
	writeFile(t, root, "node_modules/dep/index.js", "function hidden() {}\n")
	writeFile(t, root, ".git/hooks/sample.py", "def hook():\n    pass\n")
	return root
}

func TestScan(t *testing.T) {
	root := newTestRepo(t)
	ri := New(root, nil)

	result, err := ri.Scan(nil)
	require.NoError(t, err)

	t.Run("counts by extension", func(t *testing.T) {
		assert.Equal(t, 3, result.TotalFiles)
		assert.Equal(t, 1, result.Extensions[".py"])
		assert.Equal(t, 1, result.Extensions[".c"])
		assert.Equal(t, 1, result.Extensions[".js"])
	})

	t.Run("excluded directories are transitive", func(t *testing.T) {
		for _, f := range ri.Files() {
			assert.False(t, strings.HasPrefix(f, "node_modules/"))
			assert.False(t, strings.HasPrefix(f, ".git/"))
		}
	})

	t.Run("keys are slash separated and relative", func(t *testing.T) {
		assert.Contains(t, ri.Files(), "app/main.py")
		assert.Contains(t, ri.Files(), "lib/util.c")
	})

	t.Run("extension filter applies", func(t *testing.T) {
		onlyPy := New(root, nil)
		r, err := onlyPy.Scan([]string{".py"})
		require.NoError(t, err)
		assert.Equal(t, 1, r.TotalFiles)
	})
}

func TestScan_RepositoryNotFound(t *testing.T) {
	ri := New(filepath.Join(t.TempDir(), "does-not-exist"), nil)
	_, err := ri.Scan(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRepositoryNotFound)
}

func TestScan_IgnorePatternGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.py", "def keep():\n    pass\n")
	writeFile(t, root, "junk.pyc.py", "def junk():\n    pass\n")

	ri := New(root, []string{"junk*"})
	result, err := ri.Scan(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalFiles)
	assert.Equal(t, []string{"keep.py"}, ri.Files())
}

func TestIndexAll(t *testing.T) {
	root := newTestRepo(t)
	ri := New(root, nil)
	_, err := ri.Scan(nil)
	require.NoError(t, err)

	result := ri.IndexAll()
	assert.Equal(t, 3, result.Indexed)
	assert.Equal(t, 0, result.Errors)
	assert.GreaterOrEqual(t, result.TotalFunctions, 4) // main, run, add, render
}

func TestIndexAll_OneBadFileNeverAbortsTheBatch(t *testing.T) {
	root := newTestRepo(t)
	ri := New(root, nil)
	_, err := ri.Scan(nil)
	require.NoError(t, err)

	// Delete a scanned file before indexing to force a read failure.
	require.NoError(t, os.Remove(filepath.Join(root, "web", "page.js")))

	result := ri.IndexAll()
	assert.Equal(t, 1, result.Errors)
	assert.Equal(t, 2, result.Indexed)
	assert.GreaterOrEqual(t, result.TotalFunctions, 3)
}

func TestSearchFunction(t *testing.T) {
	root := newTestRepo(t)
	ri := New(root, nil)
	_, err := ri.Scan(nil)
	require.NoError(t, err)
	ri.IndexAll()

	t.Run("case insensitive substring", func(t *testing.T) {
		matches := ri.SearchFunction("RUN")
		require.Len(t, matches, 1)
		assert.Equal(t, "run", matches[0].Name)
		assert.Equal(t, "app/main.py", matches[0].File)
	})

	t.Run("superset safe", func(t *testing.T) {
		for _, fn := range ri.SearchFunction("r") {
			assert.Contains(t, strings.ToLower(fn.Name), "r")
		}
	})

	t.Run("no match yields empty", func(t *testing.T) {
		assert.Empty(t, ri.SearchFunction("nonexistent_zz"))
	})
}

func TestSearchType(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "shapes.c", "struct circle { int r; };\n\nint area(struct circle c) {\n    return c.r;\n}\n")

	ri := New(root, nil)
	_, err := ri.Scan(nil)
	require.NoError(t, err)
	ri.IndexAll()

	matches := ri.SearchType("circ")
	require.Len(t, matches, 1)
	assert.Equal(t, "circle", matches[0].Name)
}

func TestIndexFile_ReplacesListsAtomically(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "def one():\n    pass\n")

	ri := New(root, nil)
	_, err := ri.Scan(nil)
	require.NoError(t, err)
	require.NoError(t, ri.IndexFile("a.py"))

	writeFile(t, root, "a.py", "def two():\n    pass\n")
	require.NoError(t, ri.IndexFile("a.py"))

	syms, ok := ri.Symbols("a.py")
	require.True(t, ok)
	require.Len(t, syms.Functions, 1)
	assert.Equal(t, "two", syms.Functions[0].Name)
}

func TestIndexFile_Deterministic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "def one():\n    pass\n\ndef two():\n    one()\n")

	ri := New(root, nil)
	_, err := ri.Scan(nil)
	require.NoError(t, err)

	require.NoError(t, ri.IndexFile("a.py"))
	first, _ := ri.Symbols("a.py")
	firstFns := append([]string(nil), names(first.Functions)...)

	require.NoError(t, ri.IndexFile("a.py"))
	second, _ := ri.Symbols("a.py")

	assert.Equal(t, firstFns, names(second.Functions))
	assert.Equal(t, first.Functions, second.Functions)
}

func TestFileContent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "lines.py", "l1\nl2\nl3\nl4\n")

	ri := New(root, nil)

	t.Run("full file", func(t *testing.T) {
		content, err := ri.FileContent("lines.py", 0, 0)
		require.NoError(t, err)
		assert.Equal(t, "l1\nl2\nl3\nl4\n", content)
	})

	t.Run("line range is inclusive", func(t *testing.T) {
		content, err := ri.FileContent("lines.py", 2, 3)
		require.NoError(t, err)
		assert.Equal(t, "l2\nl3", content)
	})

	t.Run("out of range is clamped not fatal", func(t *testing.T) {
		content, err := ri.FileContent("lines.py", 3, 99)
		require.NoError(t, err)
		assert.Equal(t, "l3\nl4\n", content)
	})

	t.Run("start beyond file yields empty", func(t *testing.T) {
		content, err := ri.FileContent("lines.py", 50, 60)
		require.NoError(t, err)
		assert.Equal(t, "", content)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := ri.FileContent("gone.py", 1, 2)
		assert.Error(t, err)
	})
}

func names(fns []extractor.FunctionRecord) []string {
	out := make([]string, 0, len(fns))
	for _, fn := range fns {
		out = append(out, fn.Name)
	}
	return out
}
