package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as a definitive answer from a healthy dependency, such
// as a rejected request. Execute returns the inner error without counting it
// as a failure.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeFailure
	outcomeAbandoned
)

// CircuitBreaker guards an outbound dependency such as the job queue. A nil
// *CircuitBreaker admits every call.
type CircuitBreaker struct {
	mu sync.Mutex

	threshold    int
	cooldown     time.Duration
	probeLimit   int
	now          func() time.Time
	state        CircuitState
	failures     int
	openedAt     time.Time
	probesActive int
	probesPassed int
}

func NewCircuitBreaker(failureThreshold int, openTimeout time.Duration, halfOpenMaxReq int) *CircuitBreaker {
	cfg := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{
		FailureThreshold: failureThreshold,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   halfOpenMaxReq,
	})
	return &CircuitBreaker{
		threshold:  cfg.FailureThreshold,
		cooldown:   cfg.OpenTimeout,
		probeLimit: cfg.HalfOpenMaxReq,
		now:        time.Now,
		state:      CircuitStateClosed,
	}
}

// NewCircuitBreakerFromConfig returns nil when the breaker is disabled.
func NewCircuitBreakerFromConfig(cfg CircuitBreakerConfig) *CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	return NewCircuitBreaker(cfg.FailureThreshold, cfg.OpenTimeout, cfg.HalfOpenMaxReq)
}

// Execute runs fn when the breaker admits it and records the outcome.
// Cancellation by the caller and errors wrapped with Permanent do not count
// as dependency failures.
func (b *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if b == nil {
		return unwrapPermanent(fn(ctx))
	}
	if err := b.Allow(); err != nil {
		return err
	}

	err := fn(ctx)
	var perm *permanentError
	switch {
	case err == nil:
		b.settle(outcomeSuccess)
	case errors.As(err, &perm):
		b.settle(outcomeSuccess)
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		b.settle(outcomeAbandoned)
	default:
		b.settle(outcomeFailure)
	}
	return unwrapPermanent(err)
}

func unwrapPermanent(err error) error {
	if perm, ok := err.(*permanentError); ok {
		return perm.err
	}
	return err
}

// Allow reserves a slot for one call. Every admitted call must be followed
// by RecordSuccess or RecordFailure.
func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen {
		if b.now().Sub(b.openedAt) < b.cooldown {
			return ErrCircuitOpen
		}
		b.enter(CircuitStateHalfOpen)
	}
	if b.state == CircuitStateHalfOpen {
		if b.probesActive >= b.probeLimit {
			return ErrCircuitOpen
		}
		b.probesActive++
	}
	return nil
}

func (b *CircuitBreaker) RecordSuccess() { b.settle(outcomeSuccess) }
func (b *CircuitBreaker) RecordFailure() { b.settle(outcomeFailure) }

// State reports open breakers past their cooldown as half-open.
func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.now().Sub(b.openedAt) >= b.cooldown {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) settle(o outcome) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateHalfOpen && b.probesActive > 0 {
		b.probesActive--
	}

	switch b.state {
	case CircuitStateClosed:
		switch o {
		case outcomeSuccess:
			b.failures = 0
		case outcomeFailure:
			b.failures++
			if b.failures >= b.threshold {
				b.enter(CircuitStateOpen)
			}
		}
	case CircuitStateHalfOpen:
		switch o {
		case outcomeSuccess:
			b.probesPassed++
			if b.probesPassed >= b.probeLimit && b.probesActive == 0 {
				b.enter(CircuitStateClosed)
			}
		case outcomeFailure:
			b.enter(CircuitStateOpen)
		}
	case CircuitStateOpen:
		if o == outcomeFailure {
			b.openedAt = b.now()
		}
	}
}

func (b *CircuitBreaker) enter(state CircuitState) {
	b.state = state
	b.failures = 0
	b.probesActive = 0
	b.probesPassed = 0
	b.openedAt = time.Time{}
	if state == CircuitStateOpen {
		b.openedAt = b.now()
	}
}
