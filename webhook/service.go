package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marcelsud/webhook-dispatch/webhook/payload"
	"github.com/marcelsud/webhook-dispatch/webhook/signature"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

/* Service is the delivery engine and the entry point for collaborators
 * Uses pointer semantics as it's an API, not data
 */

// DefaultTimeout bounds a single delivery attempt
const DefaultTimeout = 5 * time.Second

const testMessage = "This is a test webhook delivery"

// UseCase defines the operations offered to the surrounding application
type UseCase interface {
	RegisterWebhook(ctx context.Context, spec Spec) (Subscription, error)
	UnregisterWebhook(ctx context.Context, id string) (bool, error)
	UpdateWebhook(ctx context.Context, id string, patch Patch) (Subscription, error)
	TestWebhook(ctx context.Context, id string) (DeliveryResult, error)
	TriggerEvent(ctx context.Context, event string, data json.RawMessage) ([]DeliveryResult, error)
	ListWebhooks(ctx context.Context) ([]Subscription, error)
	GetEventLog(ctx context.Context) ([]LogEntry, error)
}

// Options tunes the engine; zero values pick the defaults
type Options struct {
	// Timeout is the upper bound of one attempt
	Timeout time.Duration
	// MaxConcurrency caps parallel attempts per trigger, 0 means one goroutine per subscription
	MaxConcurrency int
	Now            func() time.Time
	Observer       DeliveryObserver
}

type Service struct {
	Repo Repository

	deliverer      Deliverer
	logger         zerolog.Logger
	timeout        time.Duration
	maxConcurrency int
	now            func() time.Time
	observer       DeliveryObserver
}

// NewService creates a new delivery engine with dependency injection
func NewService(repo Repository, deliverer Deliverer, logger zerolog.Logger, opts Options) *Service {
	s := &Service{
		Repo:           repo,
		deliverer:      deliverer,
		logger:         logger,
		timeout:        opts.Timeout,
		maxConcurrency: opts.MaxConcurrency,
		now:            opts.Now,
		observer:       opts.Observer,
	}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.observer == nil {
		s.observer = nopObserver{}
	}
	return s
}

// RegisterWebhook validates and stores a new subscription
func (s *Service) RegisterWebhook(ctx context.Context, spec Spec) (Subscription, error) {
	sub, err := s.Repo.Register(ctx, spec)
	if err != nil && !errors.Is(err, ErrPersistence) {
		return Subscription{}, fmt.Errorf("registering webhook: %w", err)
	}
	s.logger.Info().Str("webhook_id", sub.ID).Strs("events", sub.Events).Msg("webhook registered")
	if err != nil {
		return sub, fmt.Errorf("registering webhook: %w", err)
	}
	return sub, nil
}

// UnregisterWebhook removes a subscription; removing an unknown id is not an error
func (s *Service) UnregisterWebhook(ctx context.Context, id string) (bool, error) {
	removed, err := s.Repo.Unregister(ctx, id)
	if removed {
		s.logger.Info().Str("webhook_id", id).Msg("webhook unregistered")
	}
	if err != nil {
		return removed, fmt.Errorf("unregistering webhook: %w", err)
	}
	return removed, nil
}

// UpdateWebhook merges the patch into an existing subscription
func (s *Service) UpdateWebhook(ctx context.Context, id string, patch Patch) (Subscription, error) {
	sub, err := s.Repo.Update(ctx, id, patch)
	if err != nil && !errors.Is(err, ErrPersistence) {
		return Subscription{}, fmt.Errorf("updating webhook: %w", err)
	}
	s.logger.Info().Str("webhook_id", id).Str("status", sub.Status.String()).Msg("webhook updated")
	if err != nil {
		return sub, fmt.Errorf("updating webhook: %w", err)
	}
	return sub, nil
}

// ListWebhooks returns every subscription
func (s *Service) ListWebhooks(ctx context.Context) ([]Subscription, error) {
	subs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing webhooks: %w", err)
	}
	return subs, nil
}

// GetEventLog returns the retained log entries, oldest first
func (s *Service) GetEventLog(ctx context.Context) ([]LogEntry, error) {
	entries, err := s.Repo.GetLog(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading event log: %w", err)
	}
	return entries, nil
}

/* TriggerEvent delivers the event to every active subscriber concurrently
 * Results follow the ListByEvent order; failed deliveries are results, not errors
 * The only error after fan-out is a PersistenceError from writing the log entry
 */
func (s *Service) TriggerEvent(ctx context.Context, event string, data json.RawMessage) ([]DeliveryResult, error) {
	if strings.TrimSpace(event) == "" {
		return nil, &ValidationError{Problems: []string{"event is required"}}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		data = nil
	}
	if data != nil && !json.Valid(data) {
		return nil, &ValidationError{Problems: []string{"payload must be valid JSON"}}
	}

	triggeredAt := s.now()
	subs, err := s.Repo.ListByEvent(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("listing subscriptions for %s: %w", event, err)
	}

	results := make([]DeliveryResult, len(subs))
	var g errgroup.Group
	if s.maxConcurrency > 0 {
		g.SetLimit(s.maxConcurrency)
	}
	for i, sub := range subs {
		g.Go(func() error {
			results[i] = s.deliverOne(ctx, sub, event, data)
			return nil
		})
	}
	_ = g.Wait()

	entry := LogEntry{
		ID:                uuid.New().String(),
		Event:             event,
		Payload:           cloneRaw(data),
		Timestamp:         triggeredAt,
		WebhooksTriggered: len(subs),
		Results:           results,
	}
	if err := s.Repo.AppendLogEntry(ctx, entry); err != nil {
		s.logger.Error().Err(err).Str("event", event).Msg("event log entry not persisted")
		return results, fmt.Errorf("appending event log entry: %w", err)
	}

	s.logger.Debug().Str("event", event).Int("webhooks_triggered", len(subs)).Msg("event triggered")
	return results, nil
}

/* TestWebhook sends a synthetic payload to one subscription regardless of its status
 * The attempt updates the subscription stats but is not added to the event log
 */
func (s *Service) TestWebhook(ctx context.Context, id string) (DeliveryResult, error) {
	sub, err := s.Repo.Get(ctx, id)
	if err != nil {
		return DeliveryResult{}, fmt.Errorf("testing webhook: %w", err)
	}

	data, err := json.Marshal(map[string]any{
		"test":      true,
		"timestamp": s.now().UTC().Format(time.RFC3339),
		"message":   testMessage,
	})
	if err != nil {
		return DeliveryResult{}, fmt.Errorf("marshaling test payload: %w", err)
	}

	return s.deliverOne(ctx, sub, EventTest, data), nil
}

// deliverOne makes one attempt, records it on the subscription and never returns an error
func (s *Service) deliverOne(ctx context.Context, sub Subscription, event string, data json.RawMessage) DeliveryResult {
	start := s.now()
	code, derr := s.send(ctx, sub, event, data, start)
	elapsed := s.now().Sub(start).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}

	result := DeliveryResult{
		WebhookID:      sub.ID,
		Success:        derr == nil,
		StatusCode:     code,
		ResponseTimeMs: elapsed,
	}
	if derr != nil {
		result.Error = derr.Error()
	}

	attempt := Delivery{
		Timestamp:      start,
		Event:          event,
		Payload:        cloneRaw(data),
		Success:        result.Success,
		StatusCode:     code,
		ResponseTimeMs: elapsed,
	}
	if err := s.Repo.RecordDelivery(ctx, sub.ID, attempt); err != nil {
		s.logger.Warn().Err(err).Str("webhook_id", sub.ID).Msg("recording delivery")
	}
	s.observer.DeliveryAttempted(ctx, event, result.Success, elapsed)

	if derr != nil {
		s.logger.Warn().
			Str("webhook_id", sub.ID).
			Str("event", event).
			Str("kind", derr.Kind.String()).
			Int("status_code", code).
			Int64("response_time_ms", elapsed).
			Msg(derr.Error())
	} else {
		s.logger.Debug().
			Str("webhook_id", sub.ID).
			Str("event", event).
			Int("status_code", code).
			Int64("response_time_ms", elapsed).
			Msg("delivered")
	}
	return result
}

type outcome struct {
	code int
	err  error
}

func (s *Service) send(ctx context.Context, sub Subscription, event string, data json.RawMessage, at time.Time) (int, *DeliveryError) {
	body, err := payload.Encode(event, data, at)
	if err != nil {
		return 0, &DeliveryError{Kind: KindEncoding, Err: err}
	}

	headers, err := s.headers(sub, body, at)
	if err != nil {
		return 0, &DeliveryError{Kind: KindEncoding, Err: err}
	}

	actx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// the deliverer runs aside so one that ignores its context cannot hold the trigger
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("deliverer panicked: %v", r)}
			}
		}()
		code, err := s.deliverer.Deliver(actx, sub.URL, headers, body)
		done <- outcome{code: code, err: err}
	}()

	var o outcome
	select {
	case o = <-done:
	case <-actx.Done():
		select {
		case o = <-done:
		default:
			o = outcome{err: actx.Err()}
		}
	}

	if o.err != nil {
		if errors.Is(o.err, context.DeadlineExceeded) {
			return o.code, &DeliveryError{Kind: KindTimeout, Err: fmt.Errorf("no response within %s", s.timeout)}
		}
		return o.code, &DeliveryError{Kind: KindTransport, Err: o.err}
	}
	if o.code < 200 || o.code > 299 {
		return o.code, &DeliveryError{Kind: KindStatus, StatusCode: o.code}
	}
	return o.code, nil
}

func (s *Service) headers(sub Subscription, body []byte, at time.Time) (map[string]string, error) {
	var secret *signature.Secret
	if sub.Secret != "" {
		sec, err := signature.NewSecret(sub.Secret)
		if err != nil {
			return nil, fmt.Errorf("reading secret: %w", err)
		}
		secret = &sec
	}

	msgID := "msg_" + strings.ReplaceAll(uuid.New().String(), "-", "")
	signed, err := signature.Headers(secret, msgID, at, body)
	if err != nil {
		return nil, err
	}

	headers := make(map[string]string, len(sub.Headers)+len(signed)+1)
	hasContentType := false
	for k, v := range sub.Headers {
		headers[k] = v
		if http.CanonicalHeaderKey(k) == "Content-Type" {
			hasContentType = true
		}
	}
	if !hasContentType {
		headers["Content-Type"] = "application/json"
	}
	for k, v := range signed {
		headers[k] = v
	}
	return headers, nil
}
