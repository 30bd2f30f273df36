package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"faqbot/types"
)

// CenterStorer persists the roster of centers batch runs operate on.
type CenterStorer interface {
	UpsertCenter(context.Context, types.CenterInfo) error
	ListActiveCenters(context.Context) ([]types.CenterInfo, error)
}

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{
		pool: pool,
	}, nil
}

// Pool exposes the connection pool so the pgvector index can share it.
func (p *PostgresStore) Pool() *pgxpool.Pool {
	return p.pool
}

func (p *PostgresStore) Init(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS centers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		zip_code TEXT,
		city TEXT,
		state TEXT,
		country TEXT,
		radius INT DEFAULT 5,
		owner_email TEXT,
		active BOOLEAN DEFAULT TRUE,
		synced_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_centers_active ON centers(active);
	`
	_, err := p.pool.Exec(ctx, query)
	return err
}

func (p *PostgresStore) UpsertCenter(ctx context.Context, c types.CenterInfo) error {
	query := `INSERT INTO centers (id, name, zip_code, city, state, country, radius, owner_email, active, synced_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			zip_code = EXCLUDED.zip_code,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			country = EXCLUDED.country,
			radius = EXCLUDED.radius,
			owner_email = EXCLUDED.owner_email,
			active = TRUE,
			synced_at = now()
			`
	_, err := p.pool.Exec(
		ctx,
		query,
		c.CenterID,
		c.CenterName,
		c.ZipCode,
		c.City,
		c.State,
		c.Country,
		c.Radius,
		c.OwnerEmail,
	)

	return err
}

func (p *PostgresStore) ListActiveCenters(ctx context.Context) ([]types.CenterInfo, error) {
	query := `
		SELECT id, name, zip_code, city, state, country, radius, owner_email
		FROM centers
		WHERE active
		ORDER BY id
	`
	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var centers []types.CenterInfo
	for rows.Next() {
		var c types.CenterInfo
		if err := rows.Scan(
			&c.CenterID,
			&c.CenterName,
			&c.ZipCode,
			&c.City,
			&c.State,
			&c.Country,
			&c.Radius,
			&c.OwnerEmail); err != nil {
			return nil, err
		}
		centers = append(centers, c)
	}
	return centers, rows.Err()
}

func (p *PostgresStore) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
