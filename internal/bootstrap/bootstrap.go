package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/marcelsud/webhook-dispatch/config"
	"github.com/marcelsud/webhook-dispatch/webhook"
	"github.com/marcelsud/webhook-dispatch/webhook/deliver"
	"github.com/marcelsud/webhook-dispatch/webhook/file"
	"github.com/marcelsud/webhook-dispatch/webhook/postgres"
	"github.com/marcelsud/webhook-dispatch/webhook/redis"
	"github.com/rs/zerolog"
)

/* Wiring shared by the api and cli commands
 * Imports only point down: commands import bootstrap, bootstrap imports the storage and delivery layers
 */

// Engine is a ready to use delivery engine and the store behind it
type Engine struct {
	Service *webhook.Service
	Store   *webhook.Store
	close   func(context.Context) error
}

// Close releases the persister connection, if any
func (e *Engine) Close(ctx context.Context) error {
	if e.close == nil {
		return nil
	}
	return e.close(ctx)
}

// OpenPersister builds the persister selected by STORE_BACKEND
func OpenPersister(ctx context.Context, cfg *config.Config) (webhook.Persister, func(context.Context) error, error) {
	switch cfg.GetStoreBackend() {
	case config.BackendFile:
		return file.NewPersister(cfg.GetStateFile()), nil, nil
	case config.BackendRedis:
		p, err := redis.NewPersister(cfg.GetRedisAddr(), cfg.RedisPassword, cfg.RedisDB, cfg.RedisKey)
		if err != nil {
			return nil, nil, fmt.Errorf("opening redis persister: %w", err)
		}
		return p, p.Close, nil
	case config.BackendPostgres:
		p, err := postgres.NewPersister(cfg.PostgresURL, postgres.DefaultKey)
		if err != nil {
			return nil, nil, fmt.Errorf("opening postgres persister: %w", err)
		}
		if err := p.EnsureSchema(ctx); err != nil {
			p.Close(ctx)
			return nil, nil, err
		}
		return p, p.Close, nil
	default:
		return webhook.NewMemoryPersister(), nil, nil
	}
}

// NewDeliverer builds the deliverer selected by DELIVERY_MODE
func NewDeliverer(cfg *config.Config) webhook.Deliverer {
	if cfg.GetDeliveryMode() == config.DeliverySimulated {
		return deliver.NewSimulated(deliver.DefaultMaxLatency, cfg.GetSimulatedSuccessRate(), time.Now().UnixNano())
	}
	return deliver.NewHTTP(cfg.GetDeliveryTimeout())
}

/* OpenStore opens the persister and restores the store from it
 * A state that cannot be loaded is an error: starting empty would overwrite it on the next save
 */
func OpenStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*webhook.Store, func(context.Context) error, error) {
	persister, closeFn, err := OpenPersister(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	store := webhook.NewStore(persister, cfg.GetEventLogLimit())
	if err := store.Load(ctx); err != nil {
		logger.Error().Err(err).Str("backend", cfg.GetStoreBackend()).Msg("restoring state")
		if closeFn != nil {
			closeFn(ctx)
		}
		return nil, nil, fmt.Errorf("restoring %s state: %w", cfg.GetStoreBackend(), err)
	}
	return store, closeFn, nil
}

// NewService builds the delivery engine over an opened store
func NewService(cfg *config.Config, store *webhook.Store, logger zerolog.Logger, observer webhook.DeliveryObserver) *webhook.Service {
	return webhook.NewService(store, NewDeliverer(cfg), logger, webhook.Options{
		Timeout:        cfg.GetDeliveryTimeout(),
		MaxConcurrency: cfg.DeliveryMaxConcurrency,
		Observer:       observer,
	})
}

// NewEngine is OpenStore followed by NewService
func NewEngine(ctx context.Context, cfg *config.Config, logger zerolog.Logger, observer webhook.DeliveryObserver) (*Engine, error) {
	store, closeFn, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Engine{Service: NewService(cfg, store, logger, observer), Store: store, close: closeFn}, nil
}
