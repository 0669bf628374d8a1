// Package resilience holds the cross-service reliability primitives: the
// circuit breaker, the consistency validator, the retry-until-consistent
// loop and the peer-service communicator. Every instance is constructed
// explicitly and injected where needed; there is no package-level state.
package resilience

import (
	"errors"
	"sync"
	"time"

	"github.com/prepforge/mocktest/internal/clock"
	"github.com/rs/zerolog/log"
)

// ErrCircuitOpen is returned without invoking the operation while the
// breaker is cooling down. Callers should back off.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type BreakerState string

const (
	StateClosed   BreakerState = "closed"
	StateOpen     BreakerState = "open"
	StateHalfOpen BreakerState = "half-open"
)

// Breaker gates calls to one remote dependency. State lives in memory only
// and resets on process restart. Threshold counts total failures since the
// last success; window is recorded for observability but not enforced as a
// sliding window.
type Breaker struct {
	name         string
	threshold    int
	window       time.Duration
	resetTimeout time.Duration
	clock        clock.Clock

	mu            sync.Mutex
	state         BreakerState
	failures      int
	lastFailure   time.Time
	trialInFlight bool
}

func NewBreaker(name string, threshold int, window, resetTimeout time.Duration, clk clock.Clock) *Breaker {
	return &Breaker{
		name:         name,
		threshold:    threshold,
		window:       window,
		resetTimeout: resetTimeout,
		clock:        clk,
		state:        StateClosed,
	}
}

// Do runs op through the breaker. In the open state the call is rejected
// immediately unless the reset timeout has elapsed, in which case exactly
// one trial call proceeds half-open: success closes the breaker and resets
// the failure count, failure re-opens it.
func (b *Breaker) Do(op func() error) error {
	if err := b.admit(); err != nil {
		return err
	}

	err := op()
	b.record(err)
	return err
}

func (b *Breaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.clock.Now().Sub(b.lastFailure) <= b.resetTimeout {
			return ErrCircuitOpen
		}
		b.state = StateHalfOpen
		b.trialInFlight = true
		log.Info().Str("breaker", b.name).Msg("Circuit breaker half-open, attempting trial call")
		return nil
	case StateHalfOpen:
		if b.trialInFlight {
			return ErrCircuitOpen
		}
		b.trialInFlight = true
		return nil
	default:
		return nil
	}
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.trialInFlight = false

	if err == nil {
		if b.state != StateClosed {
			log.Info().Str("breaker", b.name).Msg("Circuit breaker closed")
		}
		b.state = StateClosed
		b.failures = 0
		return
	}

	b.failures++
	b.lastFailure = b.clock.Now()
	if b.state == StateHalfOpen || b.failures >= b.threshold {
		if b.state != StateOpen {
			log.Warn().
				Str("breaker", b.name).
				Int("failures", b.failures).
				Dur("resetTimeout", b.resetTimeout).
				Msg("Circuit breaker opened")
		}
		b.state = StateOpen
	}
}

func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}
