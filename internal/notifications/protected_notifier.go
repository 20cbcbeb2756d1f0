package notifications

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker open")

type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

type ProtectedNotifierConfig struct {
	Timeout          time.Duration // hard timeout per send
	FailureThreshold int           // consecutive failures to open circuit
	Cooldown         time.Duration // how long to stay open before half-open
	HalfOpenMaxCalls int           // trial sends allowed while half-open
}

func (cfg *ProtectedNotifierConfig) applyDefaults() {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 15 * time.Second
	}
	if cfg.HalfOpenMaxCalls <= 0 {
		cfg.HalfOpenMaxCalls = 1
	}
}

// ProtectedNotifier wraps a Notifier with a per-send timeout and a circuit
// breaker, so a dead SMTP provider fails fast instead of pinning the
// delivery goroutines spawned by the registration pipeline.
type ProtectedNotifier struct {
	inner Notifier
	cfg   ProtectedNotifierConfig

	mu       sync.Mutex
	state    breakerState
	failures int       // consecutive, reset on success
	openedAt time.Time // when the circuit last opened
	trials   int       // half-open sends in flight
}

func NewProtectedNotifier(inner Notifier, cfg ProtectedNotifierConfig) *ProtectedNotifier {
	cfg.applyDefaults()

	return &ProtectedNotifier{inner: inner, cfg: cfg}
}

func (n *ProtectedNotifier) SendTicket(ctx context.Context, input SendTicketInput) error {
	if !n.admit() {
		return ErrCircuitOpen
	}

	sendCtx, cancel := context.WithTimeout(ctx, n.cfg.Timeout)
	defer cancel()

	err := n.inner.SendTicket(sendCtx, input)

	n.record(err)

	return err
}

// admit decides whether a send may proceed, transitioning open -> half-open
// once the cooldown has elapsed.
func (n *ProtectedNotifier) admit() bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch n.state {
	case stateOpen:
		if time.Since(n.openedAt) < n.cfg.Cooldown {
			return false
		}
		n.state = stateHalfOpen
		n.trials = 0
		fallthrough
	case stateHalfOpen:
		if n.trials >= n.cfg.HalfOpenMaxCalls {
			return false
		}
		n.trials++
		return true
	default:
		return true
	}
}

func (n *ProtectedNotifier) record(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state == stateHalfOpen && n.trials > 0 {
		n.trials--
	}

	if err == nil {
		n.failures = 0
		n.state = stateClosed
		return
	}

	n.failures++

	// a failed trial reopens immediately; otherwise open on the threshold
	if n.state == stateHalfOpen || n.failures >= n.cfg.FailureThreshold {
		n.state = stateOpen
		n.openedAt = time.Now()
	}
}
