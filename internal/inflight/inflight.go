// Package inflight discards responses to requests that have been superseded.
//
// Each Begin issues a new ticket and cancels the previous request. A
// response is only applied if its ticket is still current, so the last
// request issued wins regardless of the order responses arrive in.
package inflight

import (
	"context"
	"sync"
)

// Ticket identifies one issued request.
type Ticket uint64

// Tracker hands out tickets. The zero value is ready to use.
type Tracker struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// Begin cancels the previous request and starts a new one.
// The returned context is cancelled by the next Begin or by Cancel.
func (t *Tracker) Begin(parent context.Context) (context.Context, Ticket) {
	ctx, cancel := context.WithCancel(parent)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	t.seq++
	t.cancel = cancel
	return ctx, Ticket(t.seq)
}

// Current reports whether ticket belongs to the most recent request.
func (t *Tracker) Current(ticket Ticket) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ticket != 0 && uint64(ticket) == t.seq
}

// Cancel aborts the outstanding request and invalidates its ticket.
func (t *Tracker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.seq++
}
