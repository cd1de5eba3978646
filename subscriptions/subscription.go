package subscriptions

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/marcelsud/webhook-dispatch/webhook"
	"github.com/marcelsud/webhook-dispatch/webhook/signature"
)

/* Seed is a subscription declared in subscriptions.yaml
 * Seeds are registered at startup unless a subscription with the same name exists
 */
type Seed struct {
	Spec   webhook.Spec
	Status webhook.Status
}

// Validate checks the seed before it reaches the store
func (s *Seed) Validate() error {
	if strings.TrimSpace(s.Spec.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if s.Spec.URL == "" {
		return fmt.Errorf("url cannot be empty for subscription %s", s.Spec.Name)
	}
	u, err := url.Parse(s.Spec.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("url must be an absolute http(s) URL for subscription %s", s.Spec.Name)
	}
	if len(s.Spec.Events) == 0 {
		return fmt.Errorf("events cannot be empty for subscription %s", s.Spec.Name)
	}
	for _, e := range s.Spec.Events {
		if strings.TrimSpace(e) == "" {
			return fmt.Errorf("blank event type for subscription %s", s.Spec.Name)
		}
	}
	if err := s.Status.Validate(); err != nil {
		return fmt.Errorf("invalid status for subscription %s: %w", s.Spec.Name, err)
	}
	// whsec_ secrets must decode; anything else is used as raw key bytes
	if strings.HasPrefix(s.Spec.Secret, signature.SecretPrefix) {
		if _, err := signature.NewSecret(s.Spec.Secret); err != nil {
			return fmt.Errorf("invalid secret for subscription %s: %w", s.Spec.Name, err)
		}
	}
	return nil
}
