package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marcelsud/webhook-dispatch/webhook"
	"github.com/redis/go-redis/v9"
)

/* Redis implementation of webhook.Persister
 * The whole state is one JSON string under a single key, rewritten after every mutation
 */

// DefaultKey is the well-known key holding the state blob
const DefaultKey = "webhook-dispatch:state"

type Persister struct {
	client *redis.Client
	key    string
}

// NewPersister connects to Redis and checks the connection
func NewPersister(addr, password string, db int, key string) (*Persister, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return NewPersisterWithClient(client, key), nil
}

// NewPersisterWithClient wraps an existing client
func NewPersisterWithClient(client *redis.Client, key string) *Persister {
	if key == "" {
		key = DefaultKey
	}
	return &Persister{
		client: client,
		key:    key,
	}
}

// Load reads the state blob; a missing key is an empty state
func (p *Persister) Load(ctx context.Context) (webhook.State, error) {
	data, err := p.client.Get(ctx, p.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return webhook.State{}, nil
	}
	if err != nil {
		return webhook.State{}, fmt.Errorf("getting state: %w", err)
	}
	return webhook.DecodeState(data)
}

// Save overwrites the state blob
func (p *Persister) Save(ctx context.Context, state webhook.State) error {
	data, err := state.Encode()
	if err != nil {
		return err
	}
	if err := p.client.Set(ctx, p.key, data, 0).Err(); err != nil {
		return fmt.Errorf("setting state: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (p *Persister) Close(ctx context.Context) error {
	return p.client.Close()
}

// GetClient returns the underlying Redis client for advanced operations
func (p *Persister) GetClient() *redis.Client {
	return p.client
}
