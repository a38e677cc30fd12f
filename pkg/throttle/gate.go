package throttle

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

type State int

const (
	StateReady State = iota
	StateCooling
)

func (s State) String() string {
	if s == StateCooling {
		return "cooling"
	}
	return "ready"
}

// Gate enforces a minimum interval between dispatches. The first caller
// passes immediately; every later caller blocks in Wait until the interval
// since the previous dispatch has elapsed, so no two dispatches are ever
// issued closer together than the interval, regardless of concurrency.
type Gate struct {
	limiter  *rate.Limiter
	interval time.Duration
}

func NewGate(minInterval time.Duration) *Gate {
	if minInterval <= 0 {
		return &Gate{
			limiter:  rate.NewLimiter(rate.Inf, 1),
			interval: 0,
		}
	}
	return &Gate{
		limiter:  rate.NewLimiter(rate.Every(minInterval), 1),
		interval: minInterval,
	}
}

// Wait blocks until the gate opens, then records the dispatch. Returns early
// with the context's error if it is cancelled while cooling.
func (g *Gate) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}

// State reports Cooling while a dispatch is still inside the minimum
// interval.
func (g *Gate) State() State {
	if g.interval == 0 {
		return StateReady
	}
	if g.limiter.Tokens() >= 1 {
		return StateReady
	}
	return StateCooling
}

func (g *Gate) Interval() time.Duration {
	return g.interval
}
