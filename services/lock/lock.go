package lock

import (
	"context"
	"errors"
	"sort"
	"time"

	"bookfair/models"
)

// Locker serialises work on a set of keys. The returned release func must be
// called exactly once.
type Locker interface {
	Acquire(ctx context.Context, keys ...string) (release func(), err error)
}

// ErrLockTimeout is returned when the keys could not be taken before the wait
// deadline. It carries CodeConflict so callers can retry.
var ErrLockTimeout = models.NewError(models.CodeConflict, "timed out waiting for lock")

// StallKey and VendorKey name the two lock scopes used by the allocation engine.
func StallKey(stallID string) string   { return "stall:" + stallID }
func VendorKey(vendorID string) string { return "vendor:" + vendorID }

// orderKeys sorts and deduplicates keys so that every caller acquires them in
// the same order.
func orderKeys(keys []string) []string {
	out := append([]string(nil), keys...)
	sort.Strings(out)
	n := 0
	for i, k := range out {
		if i > 0 && k == out[n-1] {
			continue
		}
		out[n] = k
		n++
	}
	return out[:n]
}

// waitContext bounds ctx by the locker's wait timeout when one is set.
func waitContext(ctx context.Context, wait time.Duration) (context.Context, context.CancelFunc) {
	if wait <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, wait)
}

// timeoutErr maps a context failure during acquisition to a lock error.
func timeoutErr(parent context.Context, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrLockTimeout
	}
	return err
}
