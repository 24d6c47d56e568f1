package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codescope/internal/extractor"
	"codescope/internal/index"
)

func populatedIndex(root string) *index.RepositoryIndex {
	idx := index.New(root, nil)
	idx.SetSymbols("app/main.py", &extractor.FileSymbols{
		Functions: []extractor.FunctionRecord{
			{Name: "main", Parameters: "()", File: "app/main.py", Line: 3, EndLine: 6},
			{Name: "run", Parameters: "(cfg)", File: "app/main.py", Line: 8, EndLine: 12},
		},
		Types:   []extractor.TypeRecord{{Name: "App", File: "app/main.py", Line: 1}},
		Imports: []string{"import os"},
	})
	idx.SetSymbols("lib/util.c", &extractor.FileSymbols{
		Functions: []extractor.FunctionRecord{
			{Name: "add", Parameters: "(int a, int b)", ReturnType: "int", File: "lib/util.c", Line: 2, EndLine: 4},
		},
		Imports: []string{"util.h"},
	})
	return idx
}

func TestSaveAndLoadIndex(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	original := populatedIndex("/repo")
	require.NoError(t, store.SaveIndex(ctx, original))

	loaded, err := store.LoadIndex(ctx, "/repo", nil)
	require.NoError(t, err)

	t.Run("file keys survive in order", func(t *testing.T) {
		assert.Equal(t, original.Files(), loaded.Files())
	})

	t.Run("function records round trip", func(t *testing.T) {
		want, _ := original.Symbols("app/main.py")
		got, ok := loaded.Symbols("app/main.py")
		require.True(t, ok)
		assert.Equal(t, want.Functions, got.Functions)
		assert.Equal(t, want.Types, got.Types)
		assert.Equal(t, want.Imports, got.Imports)
	})

	t.Run("search works on the loaded index", func(t *testing.T) {
		matches := loaded.SearchFunction("add")
		require.Len(t, matches, 1)
		assert.Equal(t, "int", matches[0].ReturnType)
	})
}

func TestSaveIndex_ReplacesPreviousRows(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SaveIndex(ctx, populatedIndex("/repo")))

	smaller := index.New("/repo", nil)
	smaller.SetSymbols("only.py", &extractor.FileSymbols{
		Functions: []extractor.FunctionRecord{{Name: "solo", File: "only.py", Line: 1}},
	})
	require.NoError(t, store.SaveIndex(ctx, smaller))

	loaded, err := store.LoadIndex(ctx, "/repo", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"only.py"}, loaded.Files())
	assert.Empty(t, loaded.SearchFunction("main"))
}
