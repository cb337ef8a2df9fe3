package cli

import (
	"fmt"
	"time"

	"github.com/jonwright/grewgg/internal/adapters/file"
	"github.com/jonwright/grewgg/internal/adapters/redis"
	"github.com/jonwright/grewgg/pkg/adapters/memory"
	"github.com/jonwright/grewgg/pkg/ports"
)

// StoreOptions selects where sweep results land.
type StoreOptions struct {
	// Kind is memory, file or redis. Empty means memory.
	Kind string
	// Path is the base directory for the file store.
	Path string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// TTL expires idle scans in redis; zero keeps them forever.
	TTL time.Duration
}

// NewResultStore builds the result store for a sweep. The returned closer
// releases any connection the store holds.
func NewResultStore(opts StoreOptions) (ports.ResultStore, func() error, error) {
	noop := func() error { return nil }

	switch opts.Kind {
	case "", "memory":
		return memory.NewStore(), noop, nil

	case "file":
		return file.New(opts.Path), noop, nil

	case "redis":
		var redisOpts []redis.Option
		if opts.TTL > 0 {
			redisOpts = append(redisOpts, redis.WithTTL(opts.TTL))
		}
		store := redis.New(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, redisOpts...)
		return store, store.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown store kind %q (expected memory, file or redis)", opts.Kind)
}
