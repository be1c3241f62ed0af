package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/restotrack-io/backend-go/internal/store"
)

// Store persists whole collections as jsonb payloads, one row per
// collection name. Writes replace the payload atomically via upsert, which
// matches the engine's read-whole/write-whole contract.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the collections table if it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const ddl = `
        CREATE TABLE IF NOT EXISTS collections (
            name       TEXT PRIMARY KEY,
            payload    JSONB NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )
    `
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure collections schema: %w", err)
	}
	return nil
}

func (s *Store) Read(ctx context.Context, collection string, dest any) error {
	const query = `SELECT payload FROM collections WHERE name = $1`

	var payload []byte
	err := s.db.GetContext(ctx, &payload, query, collection)
	if err == sql.ErrNoRows {
		return store.ErrNotFound{Collection: collection}
	}
	if err != nil {
		return fmt.Errorf("error reading collection %s: %w", collection, err)
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("decode collection %s: %w", collection, err)
	}
	return nil
}

func (s *Store) Write(ctx context.Context, collection string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", collection, err)
	}

	const query = `
        INSERT INTO collections (name, payload, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (name) DO UPDATE
        SET payload = EXCLUDED.payload, updated_at = now()
    `
	if _, err := s.db.ExecContext(ctx, query, collection, payload); err != nil {
		return fmt.Errorf("error writing collection %s: %w", collection, err)
	}
	return nil
}

var _ store.RecordStore = (*Store)(nil)
