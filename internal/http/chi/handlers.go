package chi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/webhook-dispatch/webhook"
	"github.com/rs/zerolog"
)

// Handlers sets up the dispatch API; metricsHandler is mounted on /metrics when not nil
func Handlers(ctx context.Context, webhookService webhook.UseCase, logger zerolog.Logger, metricsHandler http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger, []string{"/health", "/metrics"}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Method(http.MethodGet, "/webhooks", getWebhooks(webhookService))
		r.Method(http.MethodPost, "/webhooks", postWebhook(webhookService))
		r.Method(http.MethodPatch, "/webhooks/{id}", patchWebhook(webhookService))
		r.Method(http.MethodDelete, "/webhooks/{id}", deleteWebhook(webhookService))
		r.Method(http.MethodPost, "/webhooks/{id}/test", postTestWebhook(webhookService))

		r.Method(http.MethodGet, "/events", getEvents())
		r.Method(http.MethodGet, "/events/log", getEventLog(webhookService))
		r.Method(http.MethodPost, "/events/{event}", postEvent(webhookService))
	})

	return r
}
