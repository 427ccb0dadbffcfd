// Package stock implements the Redis capacity guard: one counter key per
// activity, checked and incremented by a single Lua script.
package stock

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Wepsel/Ouderenapp/app/activity/registration"
	"github.com/Wepsel/Ouderenapp/common/cache"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"
)

const (
	// -1 unseeded, 0 full, 1 admitted
	admitScript = `
		local v = redis.call("GET", KEYS[1])
		if not v then
			return -1
		end
		if tonumber(v) >= tonumber(ARGV[1]) then
			return 0
		end
		redis.call("INCR", KEYS[1])
		return 1
	`

	releaseScript = `
		local v = redis.call("GET", KEYS[1])
		if v and tonumber(v) > 0 then
			return redis.call("DECR", KEYS[1])
		end
		return 0
	`

	// 1 when the counter still held ARGV[1] and was lowered by ARGV[2]
	shrinkScript = `
		local v = redis.call("GET", KEYS[1])
		if not v or tonumber(v) ~= tonumber(ARGV[1]) then
			return 0
		end
		local by = tonumber(ARGV[2])
		if by <= 0 or by > tonumber(v) then
			return 0
		end
		redis.call("DECRBY", KEYS[1], by)
		return 1
	`

	admitUnseeded int64 = -1
	admitFull     int64 = 0
	admitOK       int64 = 1
)

// RedisGuard implements registration.CapacityGuard on Redis. Counters are
// seeded lazily from the ledger's active count.
type RedisGuard struct {
	rds  *redis.Redis
	seed registration.SeedFunc
}

var _ registration.CapacityGuard = (*RedisGuard)(nil)

func NewRedisGuard(rds *redis.Redis, seed registration.SeedFunc) *RedisGuard {
	return &RedisGuard{rds: rds, seed: seed}
}

func (g *RedisGuard) TryAdmit(ctx context.Context, activityID uint64, capacity int) error {
	if capacity < 0 {
		return registration.ErrActivityNotFound
	}
	key := cache.StockKey(activityID)

	for attempt := 0; attempt < 2; attempt++ {
		result, err := g.rds.EvalCtx(ctx, admitScript, []string{key}, capacity)
		if err != nil {
			return registration.Transient("admit", err)
		}
		switch toInt64(result) {
		case admitOK:
			return nil
		case admitFull:
			return registration.ErrCapacityExceeded
		case admitUnseeded:
			if err := g.Seed(ctx, activityID); err != nil {
				return err
			}
		}
	}
	return registration.Transient("admit", fmt.Errorf("stock key %s vanished after seeding", key))
}

func (g *RedisGuard) Release(ctx context.Context, activityID uint64) error {
	if _, err := g.rds.EvalCtx(ctx, releaseScript, []string{cache.StockKey(activityID)}); err != nil {
		return registration.Transient("release", err)
	}
	return nil
}

func (g *RedisGuard) Count(ctx context.Context, activityID uint64) (int, error) {
	key := cache.StockKey(activityID)
	val, err := g.rds.GetCtx(ctx, key)
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, registration.Transient("count", err)
	}
	if val == "" {
		if err := g.Seed(ctx, activityID); err != nil {
			return 0, err
		}
		if val, err = g.rds.GetCtx(ctx, key); err != nil && !errors.Is(err, redis.Nil) {
			return 0, registration.Transient("count", err)
		}
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, registration.Permanent("count", fmt.Errorf("stock key %s holds %q", key, val))
	}
	return n, nil
}

// Seed initializes the counter when absent. An existing counter is kept, so
// concurrent seeders agree on the first value written.
func (g *RedisGuard) Seed(ctx context.Context, activityID uint64) error {
	n := 0
	if g.seed != nil {
		var err error
		if n, err = g.seed(ctx, activityID); err != nil {
			return err
		}
	}
	key := cache.StockKey(activityID)
	ok, err := g.rds.SetnxCtx(ctx, key, strconv.Itoa(n))
	if err != nil {
		return registration.Transient("seed", err)
	}
	if ok {
		logx.WithContext(ctx).Infof("[RedisGuard] seeded %s=%d", key, n)
	}
	return nil
}

// Shrink lowers the counter by excess, but only while it still holds
// observed. It reports false when the counter moved in between.
func (g *RedisGuard) Shrink(ctx context.Context, activityID uint64, observed, excess int) (bool, error) {
	if excess <= 0 {
		return false, nil
	}
	result, err := g.rds.EvalCtx(ctx, shrinkScript, []string{cache.StockKey(activityID)}, observed, excess)
	if err != nil {
		return false, registration.Transient("shrink", err)
	}
	return toInt64(result) == 1, nil
}

// Reset drops the counter; the next call reseeds from the ledger.
func (g *RedisGuard) Reset(ctx context.Context, activityID uint64) error {
	if _, err := g.rds.DelCtx(ctx, cache.StockKey(activityID)); err != nil {
		return registration.Transient("reset", err)
	}
	return nil
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return admitUnseeded
	}
}
