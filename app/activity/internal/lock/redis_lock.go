// Package lock provides the Redis-backed per-(activity, user) lock used when
// several API instances serve registrations.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Wepsel/Ouderenapp/app/activity/registration"
	"github.com/Wepsel/Ouderenapp/common/cache"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"
)

// ==================== Redis pair lock ====================
//
// SET key token NX EX ttl. Only the holder (token match) may release.
// The TTL bounds how long a crashed holder blocks the pair.

const (
	unlockScript = `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`

	defaultRetryInterval = 20 * time.Millisecond
)

// RedisPairLocker implements registration.PairLocker.
type RedisPairLocker struct {
	rds           *redis.Redis
	ttl           time.Duration
	retryInterval time.Duration
}

var _ registration.PairLocker = (*RedisPairLocker)(nil)

// NewRedisPairLocker creates a locker. ttl is rounded up to whole seconds.
func NewRedisPairLocker(rds *redis.Redis, ttl time.Duration) *RedisPairLocker {
	if ttl < time.Second {
		ttl = time.Second
	}
	return &RedisPairLocker{
		rds:           rds,
		ttl:           ttl,
		retryInterval: defaultRetryInterval,
	}
}

// Lock polls until the key is free or ctx is done.
func (l *RedisPairLocker) Lock(ctx context.Context, pair string) (func(), error) {
	key := cache.RegistrationLockKey(pair)
	token := uuid.NewString()
	seconds := int((l.ttl + time.Second - 1) / time.Second)

	for {
		ok, err := l.rds.SetnxExCtx(ctx, key, token, seconds)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, registration.Transient("lock pair", err)
			}
			return nil, registration.Transient("lock pair", fmt.Errorf("setnx %s: %w", key, err))
		}
		if ok {
			break
		}

		timer := time.NewTimer(l.retryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, registration.Transient("lock pair", ctx.Err())
		case <-timer.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.unlock(ctx, key, token)
		})
	}, nil
}

func (l *RedisPairLocker) unlock(ctx context.Context, key, token string) {
	uctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()

	result, err := l.rds.EvalCtx(uctx, unlockScript, []string{key}, token)
	if err != nil {
		logx.WithContext(ctx).Errorf("[RedisPairLocker] unlock failed: key=%s, err=%v", key, err)
		return
	}
	if n, _ := result.(int64); n == 0 {
		logx.WithContext(ctx).Infof("[RedisPairLocker] lock expired before unlock: key=%s", key)
	}
}
