// Package retriever builds the semantic FAQ index and answers similarity
// queries against it.
package retriever

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"faqbot/index"
	"faqbot/model"
	"faqbot/types"
)

// Retriever answers questions by nearest-neighbor search over an embedded
// FAQ corpus.
type Retriever struct {
	embedder  model.Embedder
	idx       index.Index
	corpus    []types.FaqEntry
	threshold float64
	log       *zap.Logger
}

// Result is the best corpus entry for a query, with its similarity score.
type Result struct {
	Entry types.FaqEntry
	Score float64
}

func New(embedder model.Embedder, idx index.Index, corpus []types.FaqEntry, threshold float64, log *zap.Logger) *Retriever {
	return &Retriever{
		embedder:  embedder,
		idx:       idx,
		corpus:    corpus,
		threshold: threshold,
		log:       log,
	}
}

func (r *Retriever) Threshold() float64 { return r.threshold }

// CorpusHash fingerprints the corpus. Questions and answers both count:
// an answer edit must invalidate a persisted index too.
func CorpusHash(entries []types.FaqEntry) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, e := range entries {
		enc.Encode(e)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// BuildOrLoadMemory returns a ready memory index for the corpus. A persisted
// index is reused only when its manifest matches the current model and
// corpus; otherwise everything is re-embedded and the file rewritten.
func BuildOrLoadMemory(ctx context.Context, embedder model.Embedder, entries []types.FaqEntry, path string, log *zap.Logger) (*index.MemoryIndex, error) {
	hash := CorpusHash(entries)

	if loaded, err := index.LoadMemoryIndex(path); err == nil {
		m := loaded.Manifest()
		if m.Model == embedder.Model() && m.CorpusHash == hash {
			n, _ := loaded.Len(ctx)
			log.Info("loaded persisted index",
				zap.String("path", path), zap.Int("documents", n))
			return loaded, nil
		}
		log.Info("persisted index is stale, rebuilding",
			zap.String("index_model", m.Model),
			zap.String("current_model", embedder.Model()))
	}

	idx := index.NewMemoryIndex(index.Manifest{
		Model:      embedder.Model(),
		CorpusHash: hash,
	})
	if err := embedAll(ctx, embedder, entries, idx); err != nil {
		return nil, err
	}

	if err := idx.Save(path); err != nil {
		log.Warn("could not persist index", zap.Error(err))
	} else {
		log.Info("built and persisted index",
			zap.String("path", path), zap.Int("documents", len(entries)))
	}
	return idx, nil
}

// BuildOrLoadPg mirrors BuildOrLoadMemory for the pgvector backend.
func BuildOrLoadPg(ctx context.Context, embedder model.Embedder, entries []types.FaqEntry, pg *index.PgIndex, log *zap.Logger) error {
	hash := CorpusHash(entries)

	m, err := pg.Manifest(ctx)
	if err == nil && m.Model == embedder.Model() && m.CorpusHash == hash {
		n, _ := pg.Len(ctx)
		if n == len(entries) {
			log.Info("pgvector index is current", zap.Int("documents", n))
			return nil
		}
	}

	if err := pg.Reset(ctx, index.Manifest{
		Model:      embedder.Model(),
		Dimension:  pg.Dimension(),
		CorpusHash: hash,
	}); err != nil {
		return err
	}
	if err := embedAll(ctx, embedder, entries, pg); err != nil {
		return err
	}
	log.Info("rebuilt pgvector index", zap.Int("documents", len(entries)))
	return nil
}

func embedAll(ctx context.Context, embedder model.Embedder, entries []types.FaqEntry, idx index.Index) error {
	for i, e := range entries {
		vec, err := embedder.Embed(ctx, e.Question)
		if err != nil {
			return fmt.Errorf("embed corpus entry %d: %w", i, err)
		}
		err = idx.Add(ctx, index.Document{
			Text:        e.Question,
			Answer:      e.Answer,
			Vector:      vec,
			SourceIndex: i,
		})
		if err != nil {
			return fmt.Errorf("index corpus entry %d: %w", i, err)
		}
	}
	return nil
}

// Query returns the best match for the question regardless of threshold.
// The caller decides whether the score clears the bar.
func (r *Retriever) Query(ctx context.Context, question string) (*Result, error) {
	vec, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, types.NewRetrievalError("embed", err)
	}

	matches, err := r.idx.Search(ctx, vec, 1)
	if err != nil {
		return nil, types.NewRetrievalError("search", err)
	}
	if len(matches) == 0 {
		return nil, types.NewRetrievalError("search", fmt.Errorf("index is empty"))
	}

	best := matches[0]
	return &Result{
		Entry: types.FaqEntry{Question: best.Document.Text, Answer: best.Document.Answer},
		Score: best.Score,
	}, nil
}

// QueryWithExtras searches the base index and a throwaway index built over
// request-scoped entries (facility data for a detected location), returning
// the overall best. Extras never touch the persisted corpus.
func (r *Retriever) QueryWithExtras(ctx context.Context, question string, extras []types.FaqEntry) (*Result, error) {
	base, err := r.Query(ctx, question)
	if err != nil {
		return nil, err
	}
	if len(extras) == 0 {
		return base, nil
	}

	vec, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, types.NewRetrievalError("embed", err)
	}

	tmp := index.NewMemoryIndex(index.Manifest{Model: r.embedder.Model()})
	if err := embedAll(ctx, r.embedder, extras, tmp); err != nil {
		// Extras are best-effort; the base answer still stands.
		r.log.Warn("could not index location extras", zap.Error(err))
		return base, nil
	}

	matches, err := tmp.Search(ctx, vec, 1)
	if err != nil || len(matches) == 0 {
		return base, nil
	}

	// Base wins ties so behavior without extras is unchanged.
	if matches[0].Score > base.Score {
		return &Result{
			Entry: types.FaqEntry{
				Question: matches[0].Document.Text,
				Answer:   matches[0].Document.Answer,
			},
			Score: matches[0].Score,
		}, nil
	}
	return base, nil
}
