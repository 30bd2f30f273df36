package index

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// PgIndex keeps documents in Postgres with pgvector. Survives restarts
// without a file blob and lets several instances share one corpus.
type PgIndex struct {
	pool *pgxpool.Pool
	dim  int
}

func NewPgIndex(ctx context.Context, pool *pgxpool.Pool, dimension int) (*PgIndex, error) {
	p := &PgIndex{pool: pool, dim: dimension}
	if err := p.init(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *PgIndex) init(ctx context.Context) error {
	queries := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS faq_documents (
			id SERIAL PRIMARY KEY,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			source_index INT NOT NULL,
			embedding VECTOR(%d)
		)`, p.dim),
		`CREATE TABLE IF NOT EXISTS faq_index_meta (
			id INT PRIMARY KEY DEFAULT 1,
			model TEXT NOT NULL,
			dimension INT NOT NULL,
			corpus_hash TEXT NOT NULL
		)`,
	}
	for _, q := range queries {
		if _, err := p.pool.Exec(ctx, q); err != nil {
			return fmt.Errorf("init pg index: %w", err)
		}
	}
	return nil
}

func (p *PgIndex) Dimension() int { return p.dim }

func (p *PgIndex) Len(ctx context.Context) (int, error) {
	var n int
	err := p.pool.QueryRow(ctx, `SELECT count(*) FROM faq_documents`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

func (p *PgIndex) Add(ctx context.Context, docs ...Document) error {
	for _, d := range docs {
		if len(d.Vector) != p.dim {
			return fmt.Errorf("vector dimension %d does not match index dimension %d",
				len(d.Vector), p.dim)
		}
		_, err := p.pool.Exec(ctx,
			`INSERT INTO faq_documents (question, answer, source_index, embedding)
			 VALUES ($1, $2, $3, $4)`,
			d.Text, d.Answer, d.SourceIndex, pgvector.NewVector(d.Vector))
		if err != nil {
			return fmt.Errorf("insert document: %w", err)
		}
	}
	return nil
}

func (p *PgIndex) Search(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	if topK <= 0 {
		topK = 5
	}
	rows, err := p.pool.Query(ctx,
		`SELECT question, answer, source_index, 1 - (embedding <=> $1) AS score
		 FROM faq_documents
		 ORDER BY score DESC, source_index ASC
		 LIMIT $2`,
		pgvector.NewVector(vector), topK)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.Document.Text, &m.Document.Answer,
			&m.Document.SourceIndex, &m.Score); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// Manifest reads the stored build metadata. Empty when no index exists yet.
func (p *PgIndex) Manifest(ctx context.Context) (Manifest, error) {
	var m Manifest
	err := p.pool.QueryRow(ctx,
		`SELECT model, dimension, corpus_hash FROM faq_index_meta WHERE id = 1`).
		Scan(&m.Model, &m.Dimension, &m.CorpusHash)
	if err != nil {
		return Manifest{}, nil
	}
	return m, nil
}

// Reset clears documents and stores a fresh manifest before a rebuild.
func (p *PgIndex) Reset(ctx context.Context, m Manifest) error {
	if _, err := p.pool.Exec(ctx, `TRUNCATE faq_documents`); err != nil {
		return fmt.Errorf("truncate documents: %w", err)
	}
	_, err := p.pool.Exec(ctx,
		`INSERT INTO faq_index_meta (id, model, dimension, corpus_hash)
		 VALUES (1, $1, $2, $3)
		 ON CONFLICT (id) DO UPDATE
		 SET model = $1, dimension = $2, corpus_hash = $3`,
		m.Model, m.Dimension, m.CorpusHash)
	if err != nil {
		return fmt.Errorf("store manifest: %w", err)
	}
	return nil
}
