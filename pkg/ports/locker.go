package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a scan lock.
type UnlockFunc func(ctx context.Context) error

// ScanLocker is implemented by result stores whose backend is shared
// between processes. Two sweeps recording under the same scan ID would
// interleave their frames; the lock serializes them.
type ScanLocker interface {
	// Lock blocks until the lock on the scan ID is acquired or the context
	// is canceled. The returned UnlockFunc MUST be called to release it;
	// the TTL bounds how long a crashed holder can keep the lock.
	Lock(ctx context.Context, scanID string, ttl time.Duration) (UnlockFunc, error)
}
