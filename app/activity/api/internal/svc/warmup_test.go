package svc

import (
	"context"
	"testing"
	"time"

	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/config"
	"github.com/Wepsel/Ouderenapp/app/activity/internal/cache"
	"github.com/Wepsel/Ouderenapp/app/activity/internal/stock"
	"github.com/Wepsel/Ouderenapp/app/activity/registration"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/stores/redis"
)

func TestWarmup(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rds := redis.MustNewRedis(redis.RedisConf{Host: mr.Addr(), Type: redis.NodeType})

	activities := registration.NewMemoryActivities()
	ledger := registration.NewMemoryLedger()
	activities.Put(registration.Activity{ID: 1, Name: "Sjoelen", Date: time.Now().Add(24 * time.Hour), Capacity: 8})
	activities.Put(registration.Activity{ID: 2, Name: "Rikken", Date: time.Now().Add(-24 * time.Hour), Capacity: 8})
	require.NoError(t, ledger.Insert(ctx, &registration.Record{
		ActivityID:   1,
		UserID:       7,
		Status:       registration.StatusActive,
		RegisteredAt: time.Now(),
	}))

	var c config.Config
	c.Registration.WarmupLimit = 10
	s := &ServiceContext{
		Config:        c,
		Redis:         rds,
		Activities:    activities,
		ActivityCache: cache.NewActivityCache(rds, activities),
		guard:         stock.NewRedisGuard(rds, ledger.CountActive),
	}

	s.Warmup(ctx)

	assert.True(t, mr.Exists("activity:detail:1"))
	assert.False(t, mr.Exists("activity:detail:2"))
	got, err := mr.Get("activity:stock:1")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
	assert.False(t, mr.Exists("activity:stock:2"))
}

func TestWarmup_Disabled(t *testing.T) {
	mr := miniredis.RunT(t)
	rds := redis.MustNewRedis(redis.RedisConf{Host: mr.Addr(), Type: redis.NodeType})
	activities := registration.NewMemoryActivities()
	activities.Put(registration.Activity{ID: 1, Name: "Sjoelen", Date: time.Now().Add(time.Hour), Capacity: 8})

	s := &ServiceContext{
		Activities:    activities,
		ActivityCache: cache.NewActivityCache(rds, activities),
	}
	s.Warmup(context.Background())

	assert.Empty(t, mr.Keys())
}
