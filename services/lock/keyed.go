package lock

import (
	"context"
	"sync"
	"time"
)

// KeyedMutex is an in-process Locker. Each key maps to a one-slot channel so
// that waiting can be abandoned when the context ends.
type KeyedMutex struct {
	mu    sync.Mutex
	slots map[string]*slot
	wait  time.Duration
}

type slot struct {
	ch   chan struct{}
	refs int
}

// NewKeyedMutex returns a KeyedMutex that gives up after wait (0 waits until
// the caller's context is done).
func NewKeyedMutex(wait time.Duration) *KeyedMutex {
	return &KeyedMutex{slots: make(map[string]*slot), wait: wait}
}

func (k *KeyedMutex) Acquire(ctx context.Context, keys ...string) (func(), error) {
	ordered := orderKeys(keys)
	wctx, cancel := waitContext(ctx, k.wait)
	defer cancel()

	held := make([]string, 0, len(ordered))
	for _, key := range ordered {
		s := k.ref(key)
		select {
		case s.ch <- struct{}{}:
			held = append(held, key)
		case <-wctx.Done():
			k.unref(key)
			k.release(held)
			return nil, timeoutErr(ctx, wctx.Err())
		}
	}

	var once sync.Once
	return func() { once.Do(func() { k.release(held) }) }, nil
}

func (k *KeyedMutex) ref(key string) *slot {
	k.mu.Lock()
	defer k.mu.Unlock()
	s, ok := k.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		k.slots[key] = s
	}
	s.refs++
	return s
}

func (k *KeyedMutex) unref(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	s := k.slots[key]
	s.refs--
	if s.refs == 0 {
		delete(k.slots, key)
	}
}

// release frees keys in reverse acquisition order.
func (k *KeyedMutex) release(held []string) {
	for i := len(held) - 1; i >= 0; i-- {
		k.mu.Lock()
		s := k.slots[held[i]]
		k.mu.Unlock()
		<-s.ch
		k.unref(held[i])
	}
}
