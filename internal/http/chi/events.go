package chi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/marcelsud/webhook-dispatch/webhook"
)

type triggerResponse struct {
	Event             string           `json:"event"`
	WebhooksTriggered int              `json:"webhooks_triggered"`
	Results           []resultResponse `json:"results"`
	PersistenceError  string           `json:"persistence_error,omitempty"`
}

type logEntryResponse struct {
	ID                string           `json:"id"`
	Event             string           `json:"event"`
	Payload           json.RawMessage  `json:"payload,omitempty"`
	Timestamp         time.Time        `json:"timestamp"`
	WebhooksTriggered int              `json:"webhooks_triggered"`
	Results           []resultResponse `json:"results"`
}

// getEvents handles GET /v1/events
func getEvents() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, webhook.DefaultEvents)
	})
}

// postEvent handles POST /v1/events/{event}; the request body is the event payload
func postEvent(webhookService webhook.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		event := chi.URLParam(r, "event")

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		// a client hanging up must not cut the fan-out short
		results, err := webhookService.TriggerEvent(context.WithoutCancel(r.Context()), event, body)
		warning, degraded := persistenceWarning(err)
		if err != nil && !degraded {
			writeError(w, err)
			return
		}

		resp := triggerResponse{
			Event:             event,
			WebhooksTriggered: len(results),
			Results:           make([]resultResponse, 0, len(results)),
			PersistenceError:  warning,
		}
		for _, res := range results {
			resp.Results = append(resp.Results, toResultResponse(res))
		}
		writeJSON(w, http.StatusOK, resp)
	})
}

// getEventLog handles GET /v1/events/log, most recent first
func getEventLog(webhookService webhook.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entries, err := webhookService.GetEventLog(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		resp := make([]logEntryResponse, 0, len(entries))
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			item := logEntryResponse{
				ID:                e.ID,
				Event:             e.Event,
				Payload:           e.Payload,
				Timestamp:         e.Timestamp,
				WebhooksTriggered: e.WebhooksTriggered,
				Results:           make([]resultResponse, 0, len(e.Results)),
			}
			for _, res := range e.Results {
				item.Results = append(item.Results, toResultResponse(res))
			}
			resp = append(resp, item)
		}
		writeJSON(w, http.StatusOK, resp)
	})
}
