// Package poller refreshes a value on a fixed interval.
package poller

import (
	"context"
	"time"
)

// DefaultInterval is used when Poller.Interval is not set.
const DefaultInterval = 30 * time.Second

// Result is the outcome of one fetch.
type Result[T any] struct {
	Value T
	Err   error
	At    time.Time
}

// Poller calls Fetch immediately and then once per Interval.
// Fetches never overlap: a slow fetch delays the next tick.
type Poller[T any] struct {
	Interval time.Duration
	Fetch    func(ctx context.Context) (T, error)
}

// Run polls until ctx is done, passing every result to emit, and returns
// ctx.Err(). emit runs on the polling goroutine.
func (p *Poller[T]) Run(ctx context.Context, emit func(Result[T])) error {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		value, err := p.Fetch(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		emit(Result[T]{Value: value, Err: err, At: time.Now()})

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
