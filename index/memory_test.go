package index

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIndex_Search(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex(Manifest{Model: "test", Dimension: 2})

	require.NoError(t, idx.Add(ctx,
		Document{Text: "a", Answer: "A", Vector: []float32{1, 0}, SourceIndex: 0},
		Document{Text: "b", Answer: "B", Vector: []float32{0, 1}, SourceIndex: 1},
		Document{Text: "c", Answer: "C", Vector: []float32{0.6, 0.8}, SourceIndex: 2},
	))

	matches, err := idx.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].Document.Text)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
	assert.Equal(t, "c", matches[1].Document.Text)
	assert.InDelta(t, 0.6, matches[1].Score, 1e-6)
}

func TestMemoryIndex_Search_TiesKeepCorpusOrder(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex(Manifest{Model: "test", Dimension: 2})

	// Identical vectors score identically; corpus order must decide.
	require.NoError(t, idx.Add(ctx,
		Document{Text: "first", Vector: []float32{1, 0}, SourceIndex: 0},
		Document{Text: "second", Vector: []float32{1, 0}, SourceIndex: 1},
	))

	matches, err := idx.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	assert.Equal(t, "first", matches[0].Document.Text)
	assert.Equal(t, "second", matches[1].Document.Text)
}

func TestMemoryIndex_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex(Manifest{Model: "test", Dimension: 2})
	require.NoError(t, idx.Add(ctx, Document{Vector: []float32{1, 0}}))

	err := idx.Add(ctx, Document{Vector: []float32{1, 0, 0}})
	assert.Error(t, err)

	_, err = idx.Search(ctx, []float32{1, 0, 0}, 1)
	assert.Error(t, err)
}

func TestMemoryIndex_SaveLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "index.gob")

	idx := NewMemoryIndex(Manifest{Model: "test-model", CorpusHash: "abc123"})
	require.NoError(t, idx.Add(ctx,
		Document{Text: "q", Answer: "a", Vector: []float32{0.6, 0.8}, SourceIndex: 0},
	))
	require.NoError(t, idx.Save(path))

	loaded, err := LoadMemoryIndex(path)
	require.NoError(t, err)

	m := loaded.Manifest()
	assert.Equal(t, "test-model", m.Model)
	assert.Equal(t, "abc123", m.CorpusHash)
	assert.Equal(t, 2, m.Dimension)

	n, err := loaded.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	matches, err := loaded.Search(ctx, []float32{0.6, 0.8}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].Document.Answer)
}

func TestLoadMemoryIndex_Missing(t *testing.T) {
	_, err := LoadMemoryIndex(filepath.Join(t.TempDir(), "nope.gob"))
	assert.Error(t, err)
}

func TestManifest_Matches(t *testing.T) {
	a := Manifest{Model: "m", Dimension: 4, CorpusHash: "h"}
	assert.True(t, a.Matches(Manifest{Model: "m", Dimension: 4, CorpusHash: "h"}))
	assert.False(t, a.Matches(Manifest{Model: "other", Dimension: 4, CorpusHash: "h"}))
	assert.False(t, a.Matches(Manifest{Model: "m", Dimension: 4, CorpusHash: "x"}))
}
