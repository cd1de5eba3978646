package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/marcelsud/webhook-dispatch/webhook"
)

/*
PostgreSQL implementation of webhook.Persister

The state blob lives in one row of webhook_state keyed by name, so several
deployments can share a database by using different keys.
*/

// DefaultKey is the row key used when none is configured
const DefaultKey = "webhook-dispatch"

const schema = `CREATE TABLE IF NOT EXISTS webhook_state (
	key        TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

type Persister struct {
	DB  *sql.DB
	key string
}

// NewPersister opens a small pool (5, 2, 5 min); one row is all this table holds
func NewPersister(connectionString, key string) (*Persister, error) {
	return NewPersisterWithPoolConfig(connectionString, key, 5, 2, 5)
}

// NewPersisterWithPoolConfig opens the pool with custom limits; zero leaves the driver default
func NewPersisterWithPoolConfig(connectionString, key string, maxOpenConns, maxIdleConns, maxLifeMinutes int) (*Persister, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
	if maxLifeMinutes > 0 {
		db.SetConnMaxLifetime(time.Duration(maxLifeMinutes) * time.Minute)
	}

	return NewPersisterWithDB(db, key), nil
}

// NewPersisterWithDB wraps an existing pool
func NewPersisterWithDB(db *sql.DB, key string) *Persister {
	if key == "" {
		key = DefaultKey
	}
	return &Persister{DB: db, key: key}
}

// EnsureSchema creates the state table if needed
func (p *Persister) EnsureSchema(ctx context.Context) error {
	if _, err := p.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating webhook_state table: %w", err)
	}
	return nil
}

// Load reads the state row; no row is an empty state
func (p *Persister) Load(ctx context.Context) (webhook.State, error) {
	var data []byte
	err := p.DB.QueryRowContext(ctx, "SELECT data FROM webhook_state WHERE key = $1", p.key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return webhook.State{}, nil
	}
	if err != nil {
		return webhook.State{}, fmt.Errorf("selecting state: %w", err)
	}
	return webhook.DecodeState(data)
}

// Save upserts the state row
func (p *Persister) Save(ctx context.Context, state webhook.State) error {
	data, err := state.Encode()
	if err != nil {
		return err
	}

	query := `INSERT INTO webhook_state (key, data, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
	if _, err := p.DB.ExecContext(ctx, query, p.key, data, time.Now().UTC()); err != nil {
		return fmt.Errorf("upserting state: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (p *Persister) Close(ctx context.Context) error {
	return p.DB.Close()
}
