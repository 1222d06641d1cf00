package geocoding

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrSuperseded = errors.New("search superseded by a newer query")

// Debouncer delays work per key and lets a newer call for the same key
// cancel the pending or in-flight older one.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*pendingCall
}

type pendingCall struct {
	cancel context.CancelCauseFunc
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay, pending: make(map[string]*pendingCall)}
}

// Do waits for the delay and runs fn, unless a newer Do with the same key
// arrives first, in which case it returns ErrSuperseded without calling fn.
func (d *Debouncer) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	cctx, cancel := context.WithCancelCause(ctx)
	me := &pendingCall{cancel: cancel}

	d.mu.Lock()
	if prev, ok := d.pending[key]; ok {
		prev.cancel(ErrSuperseded)
	}
	d.pending[key] = me
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		if d.pending[key] == me {
			delete(d.pending, key)
		}
		d.mu.Unlock()
		cancel(nil)
	}()

	timer := time.NewTimer(d.delay)
	defer timer.Stop()
	select {
	case <-cctx.Done():
		return context.Cause(cctx)
	case <-timer.C:
	}

	err := fn(cctx)
	if cause := context.Cause(cctx); errors.Is(cause, ErrSuperseded) {
		return ErrSuperseded
	}
	return err
}

// Pending reports how many keys have a call waiting or running.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
