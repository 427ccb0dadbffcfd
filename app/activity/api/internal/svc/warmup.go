package svc

import (
	"context"
	"time"

	"github.com/Wepsel/Ouderenapp/app/activity/internal/stock"

	"github.com/zeromicro/go-zero/core/logx"
)

const warmupTimeout = 30 * time.Second

// Warmup loads upcoming activities into the detail cache and seeds the Redis
// capacity counters so the first registrations skip the ledger count.
//
// Failures are only logged; every warmed entry is also loaded lazily.
func (s *ServiceContext) Warmup(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, warmupTimeout)
	defer cancel()

	from := time.Now()
	limit := s.Config.Registration.WarmupLimit
	if limit <= 0 {
		return
	}

	upcoming, err := s.Activities.ListUpcoming(ctx, from, limit)
	if err != nil {
		logx.Errorf("[Warmup] list upcoming activities: %v", err)
		return
	}

	redisGuard, _ := s.guard.(*stock.RedisGuard)
	seeded, cached := 0, 0
	for i := range upcoming {
		a := &upcoming[i]
		if s.ActivityCache != nil {
			if err := s.ActivityCache.Set(ctx, a); err != nil {
				logx.Errorf("[Warmup] cache activity %d: %v", a.ID, err)
			} else {
				cached++
			}
		}
		if redisGuard != nil {
			if err := redisGuard.Seed(ctx, a.ID); err != nil {
				logx.Errorf("[Warmup] seed counter %d: %v", a.ID, err)
			} else {
				seeded++
			}
		}
	}
	logx.Infof("[Warmup] done: activities=%d, cached=%d, seeded=%d", len(upcoming), cached, seeded)
}

func (s *ServiceContext) WarmupAsync() {
	go s.Warmup(context.Background())
}
