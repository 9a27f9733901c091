package pricing

import (
	"context"
	"math/rand"
	"time"
)

// jitterFraction is the +/-5% the repricing tick applies to its interval
// to avoid herd effects (§4.6). Documented rather than omitted.
const jitterFraction = 0.05

// Scheduler runs Engine.Tick on a jittered timer. Unlike the engine's
// single per-item fan-out, the schedule itself is a single cooperating
// periodic task (§5): only one tick runs at a time, and a cancellation
// lets the in-flight tick finish its current item before exiting.
type Scheduler struct {
	engine *Engine
	onErr  func(error)
}

// NewScheduler builds a scheduler around engine. onErr is invoked with any
// error a tick returns; a nil onErr silently drops tick errors.
func NewScheduler(engine *Engine, onErr func(error)) *Scheduler {
	if onErr == nil {
		onErr = func(error) {}
	}
	return &Scheduler{engine: engine, onErr: onErr}
}

// Run blocks, firing a tick every interval +/- 5% jitter until ctx is
// canceled. The in-flight tick is allowed to finish; Run then returns.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	timer := time.NewTimer(jittered(interval))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			if err := s.engine.Tick(ctx); err != nil {
				s.onErr(err)
			}
			timer.Reset(jittered(interval))
		}
	}
}

func jittered(interval time.Duration) time.Duration {
	spread := float64(interval) * jitterFraction
	offset := (rand.Float64()*2 - 1) * spread
	return interval + time.Duration(offset)
}
