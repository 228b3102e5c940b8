package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// releaseScript deletes the key only if it still carries our token, so a
// holder whose lease expired cannot release someone else's lock.
var releaseScript = redis.NewScript(`
    if redis.call('GET', KEYS[1]) == ARGV[1] then
        return redis.call('DEL', KEYS[1])
    end
    return 0
`)

// RedisConfig controls the distributed locker.
type RedisConfig struct {
	Prefix string        // key namespace, e.g. "lock"
	TTL    time.Duration // lease length; must exceed the longest critical section
	Retry  time.Duration // initial poll interval while waiting
}

// Redis is a lease-based lock shared by every instance talking to the
// same Redis.  The lease bounds how long a crashed holder can block a key.
type Redis struct {
	rdb *redis.Client
	cfg RedisConfig
	log logrus.FieldLogger
}

// NewRedis builds a Redis locker.  Zero config fields fall back to
// defaults.
func NewRedis(rdb *redis.Client, cfg RedisConfig, log logrus.FieldLogger) *Redis {
	if cfg.Prefix == "" {
		cfg.Prefix = "lock"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	if cfg.Retry <= 0 {
		cfg.Retry = 10 * time.Millisecond
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Redis{rdb: rdb, cfg: cfg, log: log}
}

// Lock polls SET NX with backoff until it wins or ctx is done.
func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	full := r.cfg.Prefix + ":" + key
	token := uuid.NewString()
	wait := r.cfg.Retry
	const maxWait = 200 * time.Millisecond

	for {
		ok, err := r.rdb.SetNX(ctx, full, token, r.cfg.TTL).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, timeoutError(key, ctxErr)
			}
			return nil, err
		}
		if ok {
			break
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, timeoutError(key, ctx.Err())
		case <-t.C:
		}
		if wait *= 2; wait > maxWait {
			wait = maxWait
		}
	}

	return func() {
		// The caller's context may already be cancelled by now.
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		n, err := releaseScript.Run(rctx, r.rdb, []string{full}, token).Int()
		if err != nil && !errors.Is(err, redis.Nil) {
			r.log.WithError(err).WithField("key", full).Warn("lock release failed")
			return
		}
		if n == 0 {
			r.log.WithField("key", full).Warn("lock lease expired before release")
		}
	}, nil
}
