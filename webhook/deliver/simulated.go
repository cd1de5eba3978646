package deliver

import (
	"context"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

const (
	// DefaultMaxLatency is the upper bound of the simulated response time
	DefaultMaxLatency = time.Second
	// DefaultSuccessRate is the share of simulated attempts that succeed
	DefaultSuccessRate = 0.9
)

/* Simulated pretends to deliver without touching the network
 * Each attempt waits a random latency in [0, MaxLatency) and succeeds with SuccessRate probability
 */
type Simulated struct {
	maxLatency  time.Duration
	successRate float64

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSimulated creates a simulated deliverer; seed makes the outcomes reproducible
func NewSimulated(maxLatency time.Duration, successRate float64, seed int64) *Simulated {
	if maxLatency < 0 {
		maxLatency = DefaultMaxLatency
	}
	if successRate < 0 || successRate > 1 {
		successRate = DefaultSuccessRate
	}
	return &Simulated{
		maxLatency:  maxLatency,
		successRate: successRate,
		rnd:         rand.New(rand.NewSource(seed)),
	}
}

// Deliver waits the simulated latency and answers 200 or 500
func (s *Simulated) Deliver(ctx context.Context, url string, headers map[string]string, body []byte) (int, error) {
	s.mu.Lock()
	var latency time.Duration
	if s.maxLatency > 0 {
		latency = time.Duration(s.rnd.Int63n(int64(s.maxLatency)))
	}
	ok := s.rnd.Float64() < s.successRate
	s.mu.Unlock()

	timer := time.NewTimer(latency)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return 0, ctx.Err()
	}

	// a failure is an answer, not a transport error, so the engine classifies it by status
	if !ok {
		return http.StatusInternalServerError, nil
	}
	return http.StatusOK, nil
}
