package index

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// MemoryIndex is a brute-force in-memory index. Fine for corpora of a few
// thousand entries, which is the expected scale here.
type MemoryIndex struct {
	mu       sync.RWMutex
	docs     []Document
	dim      int
	manifest Manifest
}

func NewMemoryIndex(manifest Manifest) *MemoryIndex {
	return &MemoryIndex{manifest: manifest, dim: manifest.Dimension}
}

func (m *MemoryIndex) Manifest() Manifest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.manifest
}

func (m *MemoryIndex) Dimension() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dim
}

func (m *MemoryIndex) Len(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs), nil
}

func (m *MemoryIndex) Add(_ context.Context, docs ...Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range docs {
		if m.dim == 0 {
			m.dim = len(d.Vector)
			m.manifest.Dimension = m.dim
		}
		if len(d.Vector) != m.dim {
			return fmt.Errorf("vector dimension %d does not match index dimension %d",
				len(d.Vector), m.dim)
		}
		m.docs = append(m.docs, d)
	}
	return nil
}

func (m *MemoryIndex) Search(_ context.Context, vector []float32, topK int) ([]Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(vector) != m.dim {
		return nil, fmt.Errorf("query dimension %d does not match index dimension %d",
			len(vector), m.dim)
	}

	matches := make([]Match, 0, len(m.docs))
	for _, d := range m.docs {
		matches = append(matches, Match{Document: d, Score: dot(vector, d.Vector)})
	}

	// Stable sort keeps corpus order among equal scores.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if topK > 0 && topK < len(matches) {
		matches = matches[:topK]
	}
	return matches, nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

type indexBlob struct {
	Manifest Manifest
	Docs     []Document
}

// Save persists the index and its manifest as one gob blob.
func (m *MemoryIndex) Save(path string) error {
	m.mu.RLock()
	blob := indexBlob{Manifest: m.manifest, Docs: m.docs}
	m.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	if err := gob.NewEncoder(f).Encode(blob); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode index: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close index file: %w", err)
	}
	return os.Rename(tmp, path)
}

// LoadMemoryIndex reads a persisted index. The caller compares the returned
// manifest against the current one to decide whether a rebuild is due.
func LoadMemoryIndex(path string) (*MemoryIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index file: %w", err)
	}
	defer f.Close()

	var blob indexBlob
	if err := gob.NewDecoder(f).Decode(&blob); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}

	return &MemoryIndex{
		docs:     blob.Docs,
		dim:      blob.Manifest.Dimension,
		manifest: blob.Manifest,
	}, nil
}
