package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/marcelsud/webhook-dispatch/webhook"
	"gopkg.in/yaml.v3"
)

/* Loader reads seed subscriptions from subscriptions.yaml
 * Keeps the declaration order of the file
 */

// Config represents the structure of subscriptions.yaml
type Config struct {
	Subscriptions []SubscriptionConfig `yaml:"subscriptions"`
}

// SubscriptionConfig represents a single subscription in the YAML file
type SubscriptionConfig struct {
	webhook.Spec `yaml:",inline"`
	Status       string `yaml:"status"` // Default: active
}

type Loader struct {
	seeds []*Seed
	names map[string]bool
}

func NewLoader() *Loader {
	return &Loader{
		names: make(map[string]bool),
	}
}

// Load reads, parses and validates the file
func (l *Loader) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading subscriptions file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("parsing subscriptions YAML: %w", err)
	}

	for _, sc := range config.Subscriptions {
		status := webhook.Active
		if sc.Status != "" {
			status = webhook.NewStatus(sc.Status)
		}
		seed := &Seed{Spec: sc.Spec, Status: status}
		if err := seed.Validate(); err != nil {
			return fmt.Errorf("validating subscription: %w", err)
		}
		if l.names[seed.Spec.Name] {
			return fmt.Errorf("duplicate subscription name: %s", seed.Spec.Name)
		}
		l.names[seed.Spec.Name] = true
		l.seeds = append(l.seeds, seed)
	}
	return nil
}

// List returns the loaded seeds in file order
func (l *Loader) List() []*Seed {
	return append([]*Seed(nil), l.seeds...)
}

func (l *Loader) Exists(name string) bool {
	return l.names[name]
}

/* Apply registers every seed whose name is not taken yet
 * Returns how many were registered; a PersistenceError does not stop seeding
 */
func (l *Loader) Apply(ctx context.Context, uc webhook.UseCase) (int, error) {
	existing, err := uc.ListWebhooks(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing existing webhooks: %w", err)
	}
	taken := make(map[string]bool, len(existing))
	for _, sub := range existing {
		taken[sub.Name] = true
	}

	var persistErr error
	registered := 0
	for _, seed := range l.seeds {
		if taken[seed.Spec.Name] {
			continue
		}
		sub, err := uc.RegisterWebhook(ctx, seed.Spec)
		if err != nil && !errors.Is(err, webhook.ErrPersistence) {
			return registered, fmt.Errorf("registering %s: %w", seed.Spec.Name, err)
		}
		if err != nil {
			persistErr = err
		}
		registered++

		if seed.Status != webhook.Active {
			status := seed.Status
			if _, err := uc.UpdateWebhook(ctx, sub.ID, webhook.Patch{Status: &status}); err != nil {
				if !errors.Is(err, webhook.ErrPersistence) {
					return registered, fmt.Errorf("setting status of %s: %w", seed.Spec.Name, err)
				}
				persistErr = err
			}
		}
	}
	return registered, persistErr
}
