package webhook

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

/* Store is the in-memory owner of subscriptions and the event log
 * Every mutation happens in memory first and is then written through the Persister
 * Durability is best-effort: a failed save is reported but the mutation is kept
 */
type Store struct {
	persister Persister
	logLimit  int
	now       func() time.Time

	mu      sync.RWMutex
	subs    map[string]*Subscription
	order   []string
	log     []LogEntry
	version uint64

	// saveMu orders writes so an older snapshot never overwrites a newer one
	saveMu sync.Mutex
	saved  uint64
}

// NewStore creates an empty store backed by the persister; call Load to restore saved state
func NewStore(persister Persister, logLimit int) *Store {
	if logLimit <= 0 {
		logLimit = DefaultLogLimit
	}
	if persister == nil {
		persister = NewMemoryPersister()
	}
	return &Store{
		persister: persister,
		logLimit:  logLimit,
		now:       time.Now,
		subs:      make(map[string]*Subscription),
	}
}

// Load replaces the in-memory state with the persisted one
func (s *Store) Load(ctx context.Context) error {
	state, err := s.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.subs = make(map[string]*Subscription, len(state.Webhooks))
	s.order = s.order[:0]
	for _, sub := range state.Webhooks {
		if sub.ID == "" {
			continue
		}
		if _, dup := s.subs[sub.ID]; dup {
			continue
		}
		c := sub.clone()
		s.subs[sub.ID] = &c
		s.order = append(s.order, sub.ID)
	}

	s.log = make([]LogEntry, 0, len(state.EventLog))
	for _, e := range state.EventLog {
		s.log = append(s.log, e.clone())
	}
	s.trimLogLocked()
	return nil
}

// Register validates the spec and stores a new active subscription
func (s *Store) Register(ctx context.Context, spec Spec) (Subscription, error) {
	if problems := validateFields(spec.Name, spec.URL, spec.Events, Active); len(problems) > 0 {
		return Subscription{}, &ValidationError{Problems: problems}
	}

	sub := Subscription{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(spec.Name),
		URL:       strings.TrimSpace(spec.URL),
		Events:    spec.Events,
		Headers:   spec.Headers,
		Secret:    spec.Secret,
		Status:    Active,
		CreatedAt: s.now(),
	}
	stored := sub.clone()

	s.mu.Lock()
	s.subs[sub.ID] = &stored
	s.order = append(s.order, sub.ID)
	out := stored.clone()
	snap, v := s.snapshotLocked()
	s.mu.Unlock()

	return out, s.persist(ctx, snap, v)
}

// Unregister removes the subscription and reports whether anything was removed
func (s *Store) Unregister(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	if _, ok := s.subs[id]; !ok {
		s.mu.Unlock()
		return false, nil
	}
	delete(s.subs, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	snap, v := s.snapshotLocked()
	s.mu.Unlock()

	return true, s.persist(ctx, snap, v)
}

// Update merges the patch into the subscription and revalidates the result
func (s *Store) Update(ctx context.Context, id string, patch Patch) (Subscription, error) {
	s.mu.Lock()
	current, ok := s.subs[id]
	if !ok {
		s.mu.Unlock()
		return Subscription{}, &NotFoundError{ID: id}
	}

	merged := current.clone()
	if patch.Name != nil {
		merged.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.URL != nil {
		merged.URL = strings.TrimSpace(*patch.URL)
	}
	if patch.Events != nil {
		merged.Events = append([]string(nil), (*patch.Events)...)
	}
	if patch.Headers != nil {
		merged.Headers = make(map[string]string, len(*patch.Headers))
		for k, v := range *patch.Headers {
			merged.Headers[k] = v
		}
	}
	if patch.Secret != nil {
		merged.Secret = *patch.Secret
	}
	if patch.Status != nil {
		merged.Status = *patch.Status
	}

	if problems := validateFields(merged.Name, merged.URL, merged.Events, merged.Status); len(problems) > 0 {
		s.mu.Unlock()
		return Subscription{}, &ValidationError{Problems: problems}
	}

	*current = merged
	out := merged.clone()
	snap, v := s.snapshotLocked()
	s.mu.Unlock()

	return out, s.persist(ctx, snap, v)
}

// RecordDelivery counts an attempt and keeps the newest attempt as LastDelivery
func (s *Store) RecordDelivery(ctx context.Context, id string, attempt Delivery) error {
	s.mu.Lock()
	sub, ok := s.subs[id]
	if !ok {
		s.mu.Unlock()
		return &NotFoundError{ID: id}
	}

	sub.DeliveryCount++
	// attempts can finish out of order; never move LastDelivery back in time
	if sub.LastDelivery == nil || !attempt.Timestamp.Before(sub.LastDelivery.Timestamp) {
		d := attempt
		d.Payload = cloneRaw(attempt.Payload)
		sub.LastDelivery = &d
	}
	snap, v := s.snapshotLocked()
	s.mu.Unlock()

	return s.persist(ctx, snap, v)
}

// Get returns a copy of one subscription
func (s *Store) Get(ctx context.Context, id string) (Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subs[id]
	if !ok {
		return Subscription{}, &NotFoundError{ID: id}
	}
	return sub.clone(), nil
}

// List returns a snapshot of every subscription in registration order
func (s *Store) List(ctx context.Context) ([]Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Subscription, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.subs[id].clone())
	}
	return out, nil
}

// ListByEvent returns active subscriptions listening for the event, in registration order
func (s *Store) ListByEvent(ctx context.Context, event string) ([]Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Subscription, 0)
	for _, id := range s.order {
		sub := s.subs[id]
		if sub.Status.IsEligible() && sub.Listens(event) {
			out = append(out, sub.clone())
		}
	}
	return out, nil
}

// AppendLogEntry appends to the event log and evicts the oldest entries beyond the limit
func (s *Store) AppendLogEntry(ctx context.Context, entry LogEntry) error {
	s.mu.Lock()
	s.log = append(s.log, entry.clone())
	s.trimLogLocked()
	snap, v := s.snapshotLocked()
	s.mu.Unlock()

	return s.persist(ctx, snap, v)
}

// GetLog returns a snapshot of the event log, oldest first
func (s *Store) GetLog(ctx context.Context) ([]LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]LogEntry, 0, len(s.log))
	for _, e := range s.log {
		out = append(out, e.clone())
	}
	return out, nil
}

func (s *Store) trimLogLocked() {
	if over := len(s.log) - s.logLimit; over > 0 {
		s.log = append([]LogEntry(nil), s.log[over:]...)
	}
}

// snapshotLocked bumps the version and copies the state; caller holds mu
func (s *Store) snapshotLocked() (State, uint64) {
	s.version++
	state := State{
		Webhooks: make([]Subscription, 0, len(s.order)),
		EventLog: make([]LogEntry, 0, len(s.log)),
	}
	for _, id := range s.order {
		state.Webhooks = append(state.Webhooks, s.subs[id].clone())
	}
	for _, e := range s.log {
		state.EventLog = append(state.EventLog, e.clone())
	}
	return state, s.version
}

func (s *Store) persist(ctx context.Context, state State, version uint64) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if version <= s.saved {
		return nil
	}
	if err := s.persister.Save(ctx, state); err != nil {
		return &PersistenceError{Err: err}
	}
	s.saved = version
	return nil
}

func validateFields(name, rawURL string, events []string, status Status) []string {
	var problems []string
	if strings.TrimSpace(name) == "" {
		problems = append(problems, "name is required")
	}
	if strings.TrimSpace(rawURL) == "" {
		problems = append(problems, "url is required")
	} else if u, err := url.Parse(strings.TrimSpace(rawURL)); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		problems = append(problems, fmt.Sprintf("url must be an absolute http(s) URL: %s", rawURL))
	}
	if len(events) == 0 {
		problems = append(problems, "at least one event is required")
	}
	for _, e := range events {
		if strings.TrimSpace(e) == "" {
			problems = append(problems, "event types cannot be blank")
			break
		}
	}
	if err := status.Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	return problems
}
