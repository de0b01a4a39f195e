package infra

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// CircuitBreaker guards SMTP delivery. While the mail server is down, email
// jobs fail fast and land in the DLQ instead of each one waiting out its own
// dial timeout.
//
//	closed ──(FailureThreshold consecutive failures)──▶ open
//	open ──(OpenTimeout elapsed)──▶ half-open
//	half-open ──(SuccessThreshold successes)──▶ closed
//	half-open ──(any failure)──▶ open
type CircuitBreaker struct {
	name string
	cfg  CircuitBreakerConfig

	mu        sync.Mutex
	state     CBState
	failures  int // consecutive, reset on success
	successes int // half-open probes that went through
	openedAt  time.Time
}

type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// ErrCircuitOpen is returned by Execute without calling fn.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitBreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	OpenTimeout      time.Duration
}

// DefaultCBConfig: 5 failures open the circuit for a minute, 2 probes close it.
func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{FailureThreshold: 5, SuccessThreshold: 2, OpenTimeout: time.Minute}
}

// NewCircuitBreaker returns a closed breaker. Zero config fields take the
// DefaultCBConfig values; name only appears in logs.
func NewCircuitBreaker(name string, cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCBConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	return &CircuitBreaker{name: name, cfg: cfg}
}

// State reports the current state, moving open to half-open once the open
// timeout has elapsed.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.current(time.Now())
}

// Failures returns the current run of consecutive failures.
func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}

// Execute runs fn unless the circuit is open. fn runs without the lock held,
// so a slow SMTP dial does not block State readers.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	if cb.current(time.Now()) == CBOpen {
		cb.mu.Unlock()
		return ErrCircuitOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.recordFailure(time.Now())
		return err
	}
	cb.recordSuccess()
	return nil
}

// current must be called with mu held.
func (cb *CircuitBreaker) current(now time.Time) CBState {
	if cb.state == CBOpen && now.Sub(cb.openedAt) >= cb.cfg.OpenTimeout {
		cb.transition(CBHalfOpen)
	}
	return cb.state
}

func (cb *CircuitBreaker) recordFailure(now time.Time) {
	cb.failures++
	if cb.state == CBHalfOpen || cb.failures >= cb.cfg.FailureThreshold {
		cb.openedAt = now
		cb.transition(CBOpen)
	}
}

func (cb *CircuitBreaker) recordSuccess() {
	cb.failures = 0
	if cb.state != CBHalfOpen {
		return
	}
	cb.successes++
	if cb.successes >= cb.cfg.SuccessThreshold {
		cb.transition(CBClosed)
	}
}

func (cb *CircuitBreaker) transition(to CBState) {
	if cb.state == to {
		return
	}
	from := cb.state
	cb.state = to
	cb.successes = 0
	ev := log.Info()
	if to == CBOpen {
		ev = log.Warn()
	}
	ev.Str("breaker", cb.name).
		Str("from", from.String()).
		Str("to", to.String()).
		Int("failures", cb.failures).
		Msg("circuit breaker state change")
}
