// Package regionlock provides a keyed mutual-exclusion primitive that
// serializes batch-mutating operations per delivery region. Operations on
// different region keys proceed fully in parallel; operations on the same
// key are strictly serialized. Acquisition blocks (no spinning) and is
// bounded by the caller's context, so a stuck holder surfaces as a
// retryable timeout instead of a wedged worker.
package regionlock

import (
	"context"
	"errors"
	"sync"
)

// ErrLockTimeout is returned when a region lock could not be acquired
// before the caller's context expired. It is a retryable failure: the
// caller should report the batching attempt as failed and retry later.
var ErrLockTimeout = errors.New("region lock acquisition timed out")

// Keyed is a set of per-key mutexes created on demand and discarded once
// no goroutine holds or waits for them. The zero value is not usable;
// create instances via NewKeyed.
type Keyed struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// entry is a semaphore with a waiter refcount. The refcount keeps the
// entry alive while goroutines are queued on it and lets Keyed discard
// entries for idle keys.
type entry struct {
	sem  chan struct{}
	refs int
}

// NewKeyed creates an empty keyed lock set.
func NewKeyed() *Keyed {
	return &Keyed{
		entries: make(map[string]*entry),
	}
}

// Acquire obtains the exclusive lock for key, blocking until the lock is
// free or ctx expires. On success it returns a release function that must
// be called exactly once; releasing is safe on every exit path via defer.
// On context expiry it returns ErrLockTimeout joined with the context
// error.
func (k *Keyed) Acquire(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
		return func() {
			<-e.sem
			k.unref(key, e)
		}, nil
	case <-ctx.Done():
		k.unref(key, e)
		return nil, errors.Join(ErrLockTimeout, ctx.Err())
	}
}

// Do runs fn while holding the lock for key. The lock is released when fn
// returns, including on error.
func (k *Keyed) Do(ctx context.Context, key string, fn func() error) error {
	release, err := k.Acquire(ctx, key)
	if err != nil {
		return err
	}
	defer release()

	return fn()
}

func (k *Keyed) unref(key string, e *entry) {
	k.mu.Lock()
	defer k.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
}
