package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwright/grewgg/pkg/ports"
)

// releaseScript deletes the lock key only while it still holds our token,
// so a lock that expired and was re-acquired by someone else survives.
const releaseScript = `
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`

func (s *Store) lockKey(scanID string) string {
	return s.prefix + "lock:" + scanID
}

// Lock acquires the scan lock using Redis SET NX PX, retrying with a short
// backoff until the context is canceled.
func (s *Store) Lock(ctx context.Context, scanID string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := s.lockKey(scanID)
	token := fmt.Sprintf("%d", time.Now().UnixNano())

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		acquired, err := s.client.SetNX(ctx, lockKey, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis error acquiring lock: %w", err)
		}
		if acquired {
			return func(ctx context.Context) error {
				return s.client.Eval(ctx, releaseScript, []string{lockKey}, token).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
