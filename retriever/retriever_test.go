package retriever

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"faqbot/index"
	"faqbot/types"
)

// stubEmbedder maps known strings to fixed unit vectors and everything else
// to a default direction.
type stubEmbedder struct {
	model   string
	vectors map[string][]float32
	calls   int
	fail    bool
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	s.calls++
	if s.fail {
		return nil, fmt.Errorf("embedder down")
	}
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return []float32{0, 0, 1}, nil
}

func (s *stubEmbedder) Model() string { return s.model }

func testCorpus() []types.FaqEntry {
	return []types.FaqEntry{
		{Question: "What is your refund policy?", Answer: "refund answer"},
		{Question: "Do you offer camps?", Answer: "camps answer"},
	}
}

func testEmbedder() *stubEmbedder {
	return &stubEmbedder{
		model: "stub",
		vectors: map[string][]float32{
			"What is your refund policy?": {1, 0, 0},
			"Do you offer camps?":         {0, 1, 0},
			"can I get my money back":     {0.9, 0.43589, 0},
			"unrelated":                   {0, 0, 1},
		},
	}
}

func buildRetriever(t *testing.T, threshold float64) (*Retriever, *stubEmbedder) {
	t.Helper()
	ctx := context.Background()
	emb := testEmbedder()

	idx := index.NewMemoryIndex(index.Manifest{Model: emb.Model()})
	for i, e := range testCorpus() {
		vec, err := emb.Embed(ctx, e.Question)
		require.NoError(t, err)
		require.NoError(t, idx.Add(ctx, index.Document{
			Text: e.Question, Answer: e.Answer, Vector: vec, SourceIndex: i,
		}))
	}
	return New(emb, idx, testCorpus(), threshold, zap.NewNop()), emb
}

func TestCorpusHash(t *testing.T) {
	a := CorpusHash(testCorpus())
	b := CorpusHash(testCorpus())
	assert.Equal(t, a, b)

	changed := testCorpus()
	changed[0].Answer = "different"
	assert.NotEqual(t, a, CorpusHash(changed))
}

func TestRetriever_Query(t *testing.T) {
	r, _ := buildRetriever(t, 0.5)

	res, err := r.Query(context.Background(), "can I get my money back")
	require.NoError(t, err)
	assert.Equal(t, "refund answer", res.Entry.Answer)
	assert.InDelta(t, 0.9, res.Score, 1e-4)
}

func TestRetriever_Query_BelowThresholdStillReturns(t *testing.T) {
	// Query always reports the best match; threshold enforcement belongs
	// to the caller.
	r, _ := buildRetriever(t, 0.95)

	res, err := r.Query(context.Background(), "can I get my money back")
	require.NoError(t, err)
	assert.Less(t, res.Score, r.Threshold())
	assert.Equal(t, "refund answer", res.Entry.Answer)
}

func TestRetriever_Query_EmbedFailure(t *testing.T) {
	r, emb := buildRetriever(t, 0.5)
	emb.fail = true

	_, err := r.Query(context.Background(), "anything")
	require.Error(t, err)
	var retErr *types.RetrievalError
	assert.ErrorAs(t, err, &retErr)
	assert.Equal(t, "embed", retErr.Op)
}

func TestRetriever_QueryWithExtras(t *testing.T) {
	r, emb := buildRetriever(t, 0.5)
	emb.vectors["Where is the Frisco center?"] = []float32{0, 0, 1}
	emb.vectors["where are you located in Frisco"] = []float32{0, 0, 1}

	extras := []types.FaqEntry{
		{Question: "Where is the Frisco center?", Answer: "frisco address"},
	}

	res, err := r.QueryWithExtras(context.Background(),
		"where are you located in Frisco", extras)
	require.NoError(t, err)
	assert.Equal(t, "frisco address", res.Entry.Answer)
	assert.InDelta(t, 1.0, res.Score, 1e-6)
}

func TestRetriever_QueryWithExtras_BaseWinsTies(t *testing.T) {
	r, emb := buildRetriever(t, 0.5)
	emb.vectors["Do you have camps here?"] = []float32{0, 1, 0}

	extras := []types.FaqEntry{
		{Question: "Do you offer camps?", Answer: "extra camps answer"},
	}

	res, err := r.QueryWithExtras(context.Background(), "Do you offer camps?", extras)
	require.NoError(t, err)
	assert.Equal(t, "camps answer", res.Entry.Answer)
}

func TestBuildOrLoadMemory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.gob")
	entries := testCorpus()

	emb := testEmbedder()
	idx, err := BuildOrLoadMemory(ctx, emb, entries, path, zap.NewNop())
	require.NoError(t, err)
	n, _ := idx.Len(ctx)
	assert.Equal(t, len(entries), n)
	buildCalls := emb.calls

	// Second call loads from disk: no new embeddings.
	emb2 := testEmbedder()
	idx2, err := BuildOrLoadMemory(ctx, emb2, entries, path, zap.NewNop())
	require.NoError(t, err)
	n2, _ := idx2.Len(ctx)
	assert.Equal(t, len(entries), n2)
	assert.Zero(t, emb2.calls)
	assert.Equal(t, len(entries), buildCalls)
}

func TestBuildOrLoadMemory_RebuildsOnCorpusChange(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.gob")

	emb := testEmbedder()
	_, err := BuildOrLoadMemory(ctx, emb, testCorpus(), path, zap.NewNop())
	require.NoError(t, err)

	changed := append(testCorpus(), types.FaqEntry{
		Question: "unrelated", Answer: "new entry",
	})
	emb2 := testEmbedder()
	idx, err := BuildOrLoadMemory(ctx, emb2, changed, path, zap.NewNop())
	require.NoError(t, err)
	n, _ := idx.Len(ctx)
	assert.Equal(t, len(changed), n)
	assert.Equal(t, len(changed), emb2.calls)
}

func TestBuildOrLoadMemory_RebuildsOnModelChange(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.gob")

	emb := testEmbedder()
	_, err := BuildOrLoadMemory(ctx, emb, testCorpus(), path, zap.NewNop())
	require.NoError(t, err)

	other := testEmbedder()
	other.model = "different-model"
	_, err = BuildOrLoadMemory(ctx, other, testCorpus(), path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, len(testCorpus()), other.calls)
}
