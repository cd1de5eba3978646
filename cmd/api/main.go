package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog"
	"github.com/marcelsud/webhook-dispatch/config"
	"github.com/marcelsud/webhook-dispatch/internal/bootstrap"
	"github.com/marcelsud/webhook-dispatch/internal/http/chi"
	"github.com/marcelsud/webhook-dispatch/metrics"
	"github.com/marcelsud/webhook-dispatch/subscriptions"
)

const TIMEOUT = 30 * time.Second

/* Entry point of the dispatch API
 * Loads config, restores the store, seeds subscriptions and serves HTTP until a signal arrives
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	logger := httplog.NewLogger("webhook-dispatch", httplog.Options{
		JSON: cfg.LogJSON,
	})

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		fmt.Println(err)
		return
	}
	if closeStore != nil {
		defer closeStore(context.Background())
	}

	exporter, err := metrics.NewOTelExporter(metrics.NewStoreCollector(store))
	if err != nil {
		fmt.Println(err)
		return
	}
	defer exporter.Shutdown(context.Background())

	service := bootstrap.NewService(cfg, store, logger, exporter)

	if cfg.SubscriptionsFile != "" {
		loader := subscriptions.NewLoader()
		if err := loader.Load(cfg.SubscriptionsFile); err != nil {
			fmt.Println(err)
			return
		}
		n, err := loader.Apply(ctx, service)
		if err != nil {
			logger.Error().Err(err).Msg("seeding subscriptions")
		}
		logger.Info().Int("registered", n).Str("file", cfg.SubscriptionsFile).Msg("subscriptions seeded")
	}

	r := chi.Handlers(ctx, service, logger, exporter.ServeHTTP())
	http.Handle("/", r)
	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.GetPort(),
		Handler:      http.DefaultServeMux,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	fmt.Printf("Listening on port %s\n", cfg.GetPort())
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		fmt.Println(err)
		return
	}
	err = <-errShutdown
	if err != nil {
		fmt.Println(err)
		return
	}
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		fmt.Printf("\nShutting down server...\n")
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("forcing closing the server: %w", err)
	}
}
