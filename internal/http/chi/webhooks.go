package chi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/marcelsud/webhook-dispatch/webhook"
)

/* HTTP layer DTOs for the subscription API
 * Separate from domain entities so secrets never leave the process
 */

type webhookRequest struct {
	Name    string            `json:"name"`
	URL     string            `json:"url"`
	Events  []string          `json:"events"`
	Headers map[string]string `json:"headers"`
	Secret  string            `json:"secret"`
}

// patchRequest uses pointers so absent fields are left unchanged
type patchRequest struct {
	Name    *string            `json:"name"`
	URL     *string            `json:"url"`
	Events  *[]string          `json:"events"`
	Headers *map[string]string `json:"headers"`
	Secret  *string            `json:"secret"`
	Status  *string            `json:"status"`
}

type deliveryResponse struct {
	Timestamp      time.Time       `json:"timestamp"`
	Event          string          `json:"event"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	Success        bool            `json:"success"`
	StatusCode     int             `json:"status_code,omitempty"`
	ResponseTimeMs int64           `json:"response_time_ms"`
}

type webhookResponse struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	URL              string            `json:"url"`
	Events           []string          `json:"events"`
	Headers          map[string]string `json:"headers,omitempty"`
	HasSecret        bool              `json:"has_secret"`
	Status           string            `json:"status"`
	DeliveryCount    int64             `json:"delivery_count"`
	LastDelivery     *deliveryResponse `json:"last_delivery"`
	CreatedAt        time.Time         `json:"created_at"`
	PersistenceError string            `json:"persistence_error,omitempty"`
}

type resultResponse struct {
	WebhookID      string `json:"webhook_id"`
	Success        bool   `json:"success"`
	StatusCode     int    `json:"status_code,omitempty"`
	Error          string `json:"error,omitempty"`
	ResponseTimeMs int64  `json:"response_time_ms"`
}

func toWebhookResponse(s webhook.Subscription) webhookResponse {
	resp := webhookResponse{
		ID:            s.ID,
		Name:          s.Name,
		URL:           s.URL,
		Events:        s.Events,
		Headers:       s.Headers,
		HasSecret:     s.Secret != "",
		Status:        s.Status.String(),
		DeliveryCount: s.DeliveryCount,
		CreatedAt:     s.CreatedAt,
	}
	if d := s.LastDelivery; d != nil {
		resp.LastDelivery = &deliveryResponse{
			Timestamp:      d.Timestamp,
			Event:          d.Event,
			Payload:        d.Payload,
			Success:        d.Success,
			StatusCode:     d.StatusCode,
			ResponseTimeMs: d.ResponseTimeMs,
		}
	}
	return resp
}

func toResultResponse(r webhook.DeliveryResult) resultResponse {
	return resultResponse{
		WebhookID:      r.WebhookID,
		Success:        r.Success,
		StatusCode:     r.StatusCode,
		Error:          r.Error,
		ResponseTimeMs: r.ResponseTimeMs,
	}
}

// getWebhooks handles GET /v1/webhooks
func getWebhooks(webhookService webhook.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		all, err := webhookService.ListWebhooks(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		result := make([]webhookResponse, 0, len(all))
		for _, s := range all {
			result = append(result, toWebhookResponse(s))
		}
		writeJSON(w, http.StatusOK, result)
	})
}

// postWebhook handles POST /v1/webhooks
func postWebhook(webhookService webhook.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req webhookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		sub, err := webhookService.RegisterWebhook(r.Context(), webhook.Spec{
			Name:    req.Name,
			URL:     req.URL,
			Events:  req.Events,
			Headers: req.Headers,
			Secret:  req.Secret,
		})
		warning, degraded := persistenceWarning(err)
		if err != nil && !degraded {
			writeError(w, err)
			return
		}

		resp := toWebhookResponse(sub)
		resp.PersistenceError = warning
		writeJSON(w, http.StatusCreated, resp)
	})
}

// patchWebhook handles PATCH /v1/webhooks/{id}
func patchWebhook(webhookService webhook.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req patchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		patch := webhook.Patch{
			Name:    req.Name,
			URL:     req.URL,
			Events:  req.Events,
			Headers: req.Headers,
			Secret:  req.Secret,
		}
		if req.Status != nil {
			status := webhook.NewStatus(*req.Status)
			patch.Status = &status
		}

		sub, err := webhookService.UpdateWebhook(r.Context(), id, patch)
		warning, degraded := persistenceWarning(err)
		if err != nil && !degraded {
			writeError(w, err)
			return
		}

		resp := toWebhookResponse(sub)
		resp.PersistenceError = warning
		writeJSON(w, http.StatusOK, resp)
	})
}

// deleteWebhook handles DELETE /v1/webhooks/{id}
func deleteWebhook(webhookService webhook.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		removed, err := webhookService.UnregisterWebhook(r.Context(), id)
		warning, degraded := persistenceWarning(err)
		if err != nil && !degraded {
			writeError(w, err)
			return
		}
		if !removed {
			writeError(w, &webhook.NotFoundError{ID: id})
			return
		}
		if degraded {
			writeJSON(w, http.StatusOK, map[string]string{"persistence_error": warning})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

// postTestWebhook handles POST /v1/webhooks/{id}/test
func postTestWebhook(webhookService webhook.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result, err := webhookService.TestWebhook(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResultResponse(result))
	})
}
