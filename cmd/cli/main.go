package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-chi/httplog"
	"github.com/marcelsud/webhook-dispatch/config"
	"github.com/marcelsud/webhook-dispatch/internal/bootstrap"
	"github.com/marcelsud/webhook-dispatch/webhook"
	"github.com/marcelsud/webhook-dispatch/webhook/signature"
)

/* cli - command-line collaborator of the delivery engine
 * State is loaded once at start and saved whole after each change. Do not run it
 * against the backend of a live API: the API's next save overwrites what the cli wrote
 */

const usage = `usage: cli <command> [args]

commands:
  list                                 list subscriptions
  log                                  show the event log, most recent first
  events                               show the default event types
  trigger <event> [json]               deliver an event to its subscribers
  test <id>                            send a test delivery to one subscription
  register <name> <url> <event,...> [secret|generate]
                                       register a subscription, optionally signed
  unregister <id>                      remove a subscription
  status <id> <active|inactive|error>  change a subscription status`

const generatedSecretBytes = 32

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(2)
	}

	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	ctx := context.Background()

	logger := httplog.NewLogger("webhook-dispatch-cli", httplog.Options{
		JSON: cfg.LogJSON,
	})
	engine, err := bootstrap.NewEngine(ctx, cfg, logger, nil)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer engine.Close(ctx)

	if err := run(ctx, engine.Service, os.Args[1], os.Args[2:]); err != nil {
		fmt.Println(err)
		engine.Close(ctx)
		os.Exit(1)
	}
}

func run(ctx context.Context, s webhook.UseCase, cmd string, args []string) error {
	switch cmd {
	case "list":
		subs, err := s.ListWebhooks(ctx)
		if err != nil {
			return err
		}
		for _, sub := range subs {
			last := "never"
			if sub.LastDelivery != nil {
				last = fmt.Sprintf("%s ok=%t", sub.LastDelivery.Timestamp.Format("2006-01-02 15:04:05"), sub.LastDelivery.Success)
			}
			fmt.Printf("%s  %-20s %-8s %s [%s] deliveries=%d last=%s\n",
				sub.ID, sub.Name, sub.Status, sub.URL, strings.Join(sub.Events, ","), sub.DeliveryCount, last)
		}
		return nil

	case "log":
		entries, err := s.GetEventLog(ctx)
		if err != nil {
			return err
		}
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			ok := 0
			for _, r := range e.Results {
				if r.Success {
					ok++
				}
			}
			fmt.Printf("%s  %-22s triggered=%d succeeded=%d\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.Event, e.WebhooksTriggered, ok)
		}
		return nil

	case "events":
		for _, e := range webhook.DefaultEvents {
			fmt.Println(e)
		}
		return nil

	case "trigger":
		if len(args) < 1 {
			return errors.New(usage)
		}
		var data json.RawMessage
		if len(args) > 1 {
			data = json.RawMessage(args[1])
		}
		results, err := s.TriggerEvent(ctx, args[0], data)
		if err != nil && !errors.Is(err, webhook.ErrPersistence) {
			return err
		}
		for _, r := range results {
			printResult(r)
		}
		return err

	case "test":
		if len(args) != 1 {
			return errors.New(usage)
		}
		result, err := s.TestWebhook(ctx, args[0])
		if err != nil {
			return err
		}
		printResult(result)
		return nil

	case "register":
		if len(args) < 3 || len(args) > 4 {
			return errors.New(usage)
		}
		spec := webhook.Spec{
			Name:   args[0],
			URL:    args[1],
			Events: strings.Split(args[2], ","),
		}
		if len(args) == 4 {
			spec.Secret = args[3]
			if args[3] == "generate" {
				secret, err := signature.GenerateSecret(generatedSecretBytes)
				if err != nil {
					return err
				}
				spec.Secret = secret
			}
		}
		sub, err := s.RegisterWebhook(ctx, spec)
		if sub.ID != "" {
			fmt.Println(sub.ID)
			if len(args) == 4 && args[3] == "generate" {
				fmt.Println(spec.Secret)
			}
		}
		return err

	case "unregister":
		if len(args) != 1 {
			return errors.New(usage)
		}
		removed, err := s.UnregisterWebhook(ctx, args[0])
		if err != nil {
			return err
		}
		if !removed {
			return &webhook.NotFoundError{ID: args[0]}
		}
		return nil

	case "status":
		if len(args) != 2 {
			return errors.New(usage)
		}
		status := webhook.NewStatus(args[1])
		_, err := s.UpdateWebhook(ctx, args[0], webhook.Patch{Status: &status})
		return err

	default:
		return errors.New(usage)
	}
}

func printResult(r webhook.DeliveryResult) {
	if r.Success {
		fmt.Printf("✓ %s  %d  %dms\n", r.WebhookID, r.StatusCode, r.ResponseTimeMs)
		return
	}
	fmt.Printf("✗ %s  %s  %dms\n", r.WebhookID, r.Error, r.ResponseTimeMs)
}
