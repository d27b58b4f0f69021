package dataservice

import (
	"context"
	"sync"
)

// Latest lets a caller keep only the newest of overlapping queries, e.g. a
// list refetched on every filter change. Beginning a query cancels the one
// before it.
type Latest struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// Ticket identifies one query started by Latest.Begin.
type Ticket struct {
	l   *Latest
	gen uint64
}

func (l *Latest) Begin(parent context.Context) (context.Context, Ticket) {
	ctx, cancel := context.WithCancel(parent)
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	l.cancel = cancel
	t := Ticket{l: l, gen: l.gen}
	l.mu.Unlock()
	return ctx, t
}

// Current reports whether no newer query has begun since t.
func (t Ticket) Current() bool {
	t.l.mu.Lock()
	defer t.l.mu.Unlock()
	return t.l.gen == t.gen
}

// Done releases the query's context if it is still the newest one.
func (t Ticket) Done() {
	t.l.mu.Lock()
	defer t.l.mu.Unlock()
	if t.l.gen == t.gen && t.l.cancel != nil {
		t.l.cancel()
		t.l.cancel = nil
	}
}

// Run executes fn as the newest query. current is false when a later query
// superseded this one; its result must then be discarded.
func Run[T any](parent context.Context, l *Latest, fn func(ctx context.Context) Result[T]) (res Result[T], current bool) {
	ctx, t := l.Begin(parent)
	defer t.Done()
	res = fn(ctx)
	return res, t.Current()
}
