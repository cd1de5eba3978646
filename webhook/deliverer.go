package webhook

import "context"

/* Deliverer sends one signed body to one destination
 * The context carries the per-attempt deadline; implementations must honour it
 */
type Deliverer interface {
	Deliver(ctx context.Context, url string, headers map[string]string, body []byte) (int, error)
}

// DelivererFunc adapts an ordinary function to the Deliverer interface
type DelivererFunc func(ctx context.Context, url string, headers map[string]string, body []byte) (int, error)

// Deliver calls f(ctx, url, headers, body)
func (f DelivererFunc) Deliver(ctx context.Context, url string, headers map[string]string, body []byte) (int, error) {
	return f(ctx, url, headers, body)
}

// DeliveryObserver is notified about every attempt, used for metrics
type DeliveryObserver interface {
	DeliveryAttempted(ctx context.Context, event string, success bool, responseTimeMs int64)
}

type nopObserver struct{}

func (nopObserver) DeliveryAttempted(context.Context, string, bool, int64) {}
