package index

import "context"

// Document is an indexed FAQ entry with its embedding.
type Document struct {
	Text        string
	Answer      string
	Vector      []float32
	SourceIndex int
}

// Match couples a document with its similarity score.
type Match struct {
	Document Document
	Score    float64
}

// Index stores embedded documents and finds the closest ones by cosine
// similarity. Vectors are expected to be L2-normalized by the embedder.
type Index interface {
	Add(ctx context.Context, docs ...Document) error
	Search(ctx context.Context, vector []float32, topK int) ([]Match, error)
	Len(ctx context.Context) (int, error)
	Dimension() int
}

// Manifest records what an index was built from. A mismatch on load means
// the index must be rebuilt.
type Manifest struct {
	Model      string
	Dimension  int
	CorpusHash string
}

func (m Manifest) Matches(other Manifest) bool {
	return m.Model == other.Model &&
		m.Dimension == other.Dimension &&
		m.CorpusHash == other.CorpusHash
}
