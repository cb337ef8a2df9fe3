// Package redis provides a ResultStore on Redis, for sweeps whose results
// must outlive the process or be shared between services.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/jonwright/grewgg/pkg/ports"
	"github.com/jonwright/grewgg/pkg/scan"
)

// Store implements ports.ResultStore using Redis. Each frame lives under
// <prefix><scanID>:<frame> as JSON; a per-scan sorted set indexes the stored
// frame numbers.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for stored scans. The per-scan index is
// refreshed on every save, so a scan disappears as a whole once idle longer
// than the TTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for scans.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "grewgg:scan:",
		ttl:    0, // no expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(scanID string, frame int) string {
	return fmt.Sprintf("%s%s:%d", s.prefix, scanID, frame)
}

func (s *Store) indexKey(scanID string) string {
	return s.prefix + scanID + ":frames"
}

// Save persists one frame to Redis.
func (s *Store) Save(ctx context.Context, scanID string, r scan.Result) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(scanID, r.Frame), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(scanID), backend.Z{
		Score:  float64(r.Frame),
		Member: strconv.Itoa(r.Frame),
	})
	if s.ttl > 0 {
		pipe.Expire(ctx, s.indexKey(scanID), s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves one frame from Redis.
func (s *Store) Load(ctx context.Context, scanID string, frame int) (*scan.Result, error) {
	val, err := s.client.Get(ctx, s.key(scanID, frame)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, ports.ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var r scan.Result
	if err := json.Unmarshal([]byte(val), &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &r, nil
}

// Frames lists stored frame numbers in ascending order. The sorted set is
// scored by frame number, so ZRange already yields them sorted.
func (s *Store) Frames(ctx context.Context, scanID string) ([]int, error) {
	members, err := s.client.ZRange(ctx, s.indexKey(scanID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list frames: %w", err)
	}

	frames := make([]int, 0, len(members))
	for _, m := range members {
		f, err := strconv.Atoi(m)
		if err != nil {
			return nil, fmt.Errorf("corrupt frame index entry %q: %w", m, err)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// Delete removes every frame of a scan.
func (s *Store) Delete(ctx context.Context, scanID string) error {
	frames, err := s.Frames(ctx, scanID)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	for _, f := range frames {
		pipe.Del(ctx, s.key(scanID, f))
	}
	pipe.Del(ctx, s.indexKey(scanID))

	_, err = pipe.Exec(ctx)
	return err
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
