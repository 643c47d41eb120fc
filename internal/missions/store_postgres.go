package missions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// collectionKey is the single storage key the whole mission collection
// lives under. The storage format is opaque to everything but this store.
const collectionKey = "missions"

// PostgresStore persists the mission collection as one JSONB document in
// a single keyed row.
// ⭐ SSOT: 미션 컬렉션의 DB 접근은 여기서만
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a postgres-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Init creates the backing table if it does not exist yet.
func (s *PostgresStore) Init(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS mission_collections (
			key        text PRIMARY KEY,
			data       jsonb NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("create mission_collections table: %w", err)
	}
	return nil
}

// Load reads the whole collection. A missing row is an empty collection.
func (s *PostgresStore) Load(ctx context.Context) ([]Mission, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `
		SELECT data FROM mission_collections WHERE key = $1
	`, collectionKey).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []Mission{}, nil
		}
		return nil, fmt.Errorf("load mission collection: %w", err)
	}

	var missions []Mission
	if err := json.Unmarshal(data, &missions); err != nil {
		return nil, fmt.Errorf("parse mission collection: %w", err)
	}
	return missions, nil
}

// Save writes the whole collection back in one upsert.
func (s *PostgresStore) Save(ctx context.Context, missions []Mission) error {
	data, err := json.Marshal(missions)
	if err != nil {
		return fmt.Errorf("marshal mission collection: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO mission_collections (key, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`, collectionKey, data)
	if err != nil {
		return fmt.Errorf("save mission collection: %w", err)
	}
	return nil
}
