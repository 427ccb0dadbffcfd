// Package cache is the Redis read cache of the activity service.
//
// Design:
//   - singleflight collapses concurrent misses for one key
//   - a null placeholder stops lookups of missing ids from reaching MySQL
//   - jittered TTLs keep keys written together from expiring together
//   - Redis errors degrade to the loader; the cache never fails a read
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Wepsel/Ouderenapp/app/activity/registration"
	commonCache "github.com/Wepsel/Ouderenapp/common/cache"
	"github.com/Wepsel/Ouderenapp/common/constants"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"golang.org/x/sync/singleflight"
)

// nullValuePlaceholder marks an id that does not exist.
const nullValuePlaceholder = "{\"null\":true}"

// ActivityCache caches activity details and availability counts.
//
//	activity:detail:{id}        5min ± 10%
//	activity:availability:{id}  10s ± 10%
type ActivityCache struct {
	rds        *redis.Redis
	activities registration.ActivityRepository
	sfGroup    singleflight.Group
}

var _ registration.AvailabilityCache = (*ActivityCache)(nil)

func NewActivityCache(rds *redis.Redis, activities registration.ActivityRepository) *ActivityCache {
	return &ActivityCache{
		rds:        rds,
		activities: activities,
	}
}

// activityCacheData is the cached shape, decoupled from the domain struct.
type activityCacheData struct {
	ID              uint64 `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Location        string `json:"location"`
	Date            int64  `json:"date"`
	Capacity        int    `json:"capacity"`
	RegisteredCount int    `json:"registered_count"`
	CreatedAt       int64  `json:"created_at"`
	UpdatedAt       int64  `json:"updated_at"`
}

// GetByID returns the activity, served from Redis when possible.
func (c *ActivityCache) GetByID(ctx context.Context, id uint64) (*registration.Activity, error) {
	key := commonCache.ActivityDetailKey(id)

	val, err := c.rds.GetCtx(ctx, key)
	if err != nil && !errors.Is(err, redis.Nil) {
		logx.WithContext(ctx).Errorf("[ActivityCache] redis error, falling back to db: key=%s, err=%v", key, err)
		return c.activities.Get(ctx, id)
	}

	if val != "" {
		if val == nullValuePlaceholder {
			return nil, registration.ErrActivityNotFound
		}
		var data activityCacheData
		if err := json.Unmarshal([]byte(val), &data); err != nil {
			logx.WithContext(ctx).Errorf("[ActivityCache] corrupt entry dropped: key=%s, err=%v", key, err)
			_, _ = c.rds.DelCtx(ctx, key)
			return c.activities.Get(ctx, id)
		}
		return data.toActivity(), nil
	}

	result, err, _ := c.sfGroup.Do(key, func() (interface{}, error) {
		return c.loadDetail(ctx, id, key)
	})
	if err != nil {
		return nil, err
	}
	a := *result.(*registration.Activity)
	return &a, nil
}

func (c *ActivityCache) loadDetail(ctx context.Context, id uint64, key string) (*registration.Activity, error) {
	activity, err := c.activities.Get(ctx, id)
	if err != nil {
		if errors.Is(err, registration.ErrActivityNotFound) {
			_ = c.rds.SetexCtx(ctx, key, nullValuePlaceholder, int(constants.CacheExpireNull.Seconds()))
		}
		return nil, err
	}

	data, err := json.Marshal(toCacheData(activity))
	if err != nil {
		logx.WithContext(ctx).Errorf("[ActivityCache] marshal failed: id=%d, err=%v", id, err)
		return activity, nil
	}
	ttl := commonCache.RandomTTLSeconds(constants.CacheExpireDefault)
	if err := c.rds.SetexCtx(ctx, key, string(data), ttl); err != nil {
		logx.WithContext(ctx).Errorf("[ActivityCache] write failed: key=%s, err=%v", key, err)
	}
	return activity, nil
}

// Availability serves the display count, loading it through load on a miss.
func (c *ActivityCache) Availability(ctx context.Context, activityID uint64,
	load func(context.Context) (registration.Availability, error)) (registration.Availability, error) {
	key := commonCache.AvailabilityKey(activityID)

	val, err := c.rds.GetCtx(ctx, key)
	if err != nil && !errors.Is(err, redis.Nil) {
		logx.WithContext(ctx).Errorf("[ActivityCache] redis error, loading availability directly: key=%s, err=%v", key, err)
		return load(ctx)
	}
	if val != "" {
		var avail registration.Availability
		if err := json.Unmarshal([]byte(val), &avail); err == nil {
			return avail, nil
		}
		_, _ = c.rds.DelCtx(ctx, key)
	}

	result, err, _ := c.sfGroup.Do(key, func() (interface{}, error) {
		avail, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(avail); err == nil {
			ttl := commonCache.RandomTTLSeconds(constants.CacheExpireShort)
			if err := c.rds.SetexCtx(ctx, key, string(data), ttl); err != nil {
				logx.WithContext(ctx).Errorf("[ActivityCache] write failed: key=%s, err=%v", key, err)
			}
		}
		return avail, nil
	})
	if err != nil {
		return registration.Availability{}, err
	}
	return result.(registration.Availability), nil
}

// Invalidate drops the detail and availability entries of the activity.
func (c *ActivityCache) Invalidate(ctx context.Context, activityID uint64) {
	keys := []string{
		commonCache.ActivityDetailKey(activityID),
		commonCache.AvailabilityKey(activityID),
	}
	if _, err := c.rds.DelCtx(ctx, keys...); err != nil {
		logx.WithContext(ctx).Errorf("[ActivityCache] invalidate failed: keys=%v, err=%v", keys, err)
	}
}

// Set writes the detail entry, e.g. right after creating an activity.
func (c *ActivityCache) Set(ctx context.Context, activity *registration.Activity) error {
	data, err := json.Marshal(toCacheData(activity))
	if err != nil {
		return err
	}
	ttl := commonCache.RandomTTLSeconds(constants.CacheExpireDefault)
	return c.rds.SetexCtx(ctx, commonCache.ActivityDetailKey(activity.ID), string(data), ttl)
}

// ==================== conversion ====================

func toCacheData(a *registration.Activity) *activityCacheData {
	return &activityCacheData{
		ID:              a.ID,
		Name:            a.Name,
		Description:     a.Description,
		Location:        a.Location,
		Date:            a.Date.Unix(),
		Capacity:        a.Capacity,
		RegisteredCount: a.RegisteredCount,
		CreatedAt:       a.CreatedAt.Unix(),
		UpdatedAt:       a.UpdatedAt.Unix(),
	}
}

func (d *activityCacheData) toActivity() *registration.Activity {
	return &registration.Activity{
		ID:              d.ID,
		Name:            d.Name,
		Description:     d.Description,
		Location:        d.Location,
		Date:            time.Unix(d.Date, 0),
		Capacity:        d.Capacity,
		RegisteredCount: d.RegisteredCount,
		CreatedAt:       time.Unix(d.CreatedAt, 0),
		UpdatedAt:       time.Unix(d.UpdatedAt, 0),
	}
}
