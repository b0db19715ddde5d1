// Package lock serializes work on a key across goroutines or, with Redis,
// across instances.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"expenseai/pkg/platform/sentinel"
)

// Release frees a held lock.
type Release func(ctx context.Context) error

// Locker acquires exclusive ownership of a key. Acquire waits until the key
// is free, ctx is done, or the locker gives up with sentinel.ErrLockHeld.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error)
}

// Local is an in-process keyed mutex.
type Local struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch      chan struct{}
	waiters int
}

func NewLocal() *Local {
	return &Local{slots: make(map[string]*slot)}
}

// Acquire blocks until key is free or ctx is done. ttl is ignored.
func (l *Local) Acquire(ctx context.Context, key string, _ time.Duration) (Release, error) {
	l.mu.Lock()
	sl, ok := l.slots[key]
	if !ok {
		sl = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = sl
	}
	sl.waiters++
	l.mu.Unlock()

	select {
	case sl.ch <- struct{}{}:
	case <-ctx.Done():
		l.leave(key, sl)
		return nil, fmt.Errorf("acquire %s: %w", key, ctx.Err())
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			<-sl.ch
			l.leave(key, sl)
		})
		return nil
	}, nil
}

func (l *Local) leave(key string, sl *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	sl.waiters--
	if sl.waiters == 0 {
		delete(l.slots, key)
	}
}

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis implements Locker with SET NX PX and token-checked release.
type Redis struct {
	client   redis.UniversalClient
	prefix   string
	maxWait  time.Duration
	interval time.Duration
}

// RedisOption configures a Redis locker.
type RedisOption func(*Redis)

// WithMaxWait bounds how long Acquire polls a held key.
func WithMaxWait(d time.Duration) RedisOption {
	return func(r *Redis) {
		r.maxWait = d
	}
}

func NewRedis(client redis.UniversalClient, prefix string, opts ...RedisOption) *Redis {
	r := &Redis{client: client, prefix: prefix, maxWait: 3 * time.Second, interval: 25 * time.Millisecond}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Acquire polls until the key is set by this caller, failing with
// sentinel.ErrLockHeld after maxWait.
func (r *Redis) Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error) {
	fullKey := r.prefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(r.maxWait)

	for {
		ok, err := r.client.SetNX(ctx, fullKey, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire %s: %w", fullKey, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, sentinel.ErrLockHeld
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquire %s: %w", fullKey, ctx.Err())
		case <-time.After(r.interval):
		}
	}

	return func(ctx context.Context) error {
		err := releaseScript.Run(ctx, r.client, []string{fullKey}, token).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("release %s: %w", fullKey, err)
		}
		return nil
	}, nil
}
