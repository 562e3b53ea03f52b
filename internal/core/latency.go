package core

import (
	"context"
	"math/rand/v2"
	"time"
)

// Latency simulates the round trip of a remote call. Each call waits a
// uniformly drawn duration in [Min, Max]. The zero value waits nothing.
type Latency struct {
	Min time.Duration
	Max time.Duration
}

// DefaultLatency matches the 200-500ms delay the dashboard expects.
var DefaultLatency = Latency{Min: 200 * time.Millisecond, Max: 500 * time.Millisecond}

// FixedLatency waits exactly d on every call.
func FixedLatency(d time.Duration) Latency { return Latency{Min: d, Max: d} }

func (l Latency) draw() time.Duration {
	lo, hi := l.Min, l.Max
	if hi < lo {
		lo, hi = hi, lo
	}
	if lo < 0 {
		lo = 0
	}
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rand.Int64N(int64(hi-lo)+1))
}

// Wait blocks for one drawn delay. It returns ctx.Err() if the context ends
// first; callers must not mutate state in that case.
func (l Latency) Wait(ctx context.Context) error {
	d := l.draw()
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
