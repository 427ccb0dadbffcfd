package cron

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Wepsel/Ouderenapp/app/activity/registration"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"
)

// ==================== constants ====================

const (
	lockKey           = "activity:cron:reconcile"
	lockExpireSeconds = 60

	batchSize = 100

	defaultIntervalSeconds = 300
)

// IDLister returns ids of activities starting at or after from.
type IDLister func(ctx context.Context, from time.Time, limit int) ([]uint64, error)

// CounterRepair lowers the guard's counter of one activity by excess, only
// while it still holds observed. It reports whether the counter was changed.
type CounterRepair func(ctx context.Context, activityID uint64, observed, excess int) (bool, error)

// ==================== ReconcileCron ====================

// ReconcileCron brings capacity guard counters back in line with the
// ledger's active count for upcoming activities.
//
// A counter can drift upward when a process dies between admission and the
// ledger write. In-flight registrations cause the same difference for a
// moment, so an activity is repaired only when the same drift is seen on
// two consecutive runs, and both counts must be stable across a re-read.
// The repair subtracts the excess with a compare-and-set on the counter value
// that was read; it never writes an absolute count, so an admission that
// lands during the pass makes the repair a no-op.
//
// A counter below the ledger count is only logged.
//
// With a Redis client, runs are serialized across instances by an owner
// tagged lock.
type ReconcileCron struct {
	redis   *redis.Redis
	listIDs IDLister
	ledger  registration.Ledger
	guard   registration.CapacityGuard
	repair  CounterRepair
	cache   registration.AvailabilityCache
	now     func() time.Time

	mu       sync.Mutex
	suspects map[uint64]drift

	intervalSeconds int
	stopChan        chan struct{}
	running         atomic.Bool
	stopOnce        sync.Once
	ownerID         string
}

type drift struct {
	guard  int
	ledger int
}

func NewReconcileCron(
	rds *redis.Redis,
	listIDs IDLister,
	ledger registration.Ledger,
	guard registration.CapacityGuard,
	repair CounterRepair,
	cache registration.AvailabilityCache,
) *ReconcileCron {
	return &ReconcileCron{
		redis:           rds,
		listIDs:         listIDs,
		ledger:          ledger,
		guard:           guard,
		repair:          repair,
		cache:           cache,
		now:             time.Now,
		suspects:        make(map[uint64]drift),
		intervalSeconds: defaultIntervalSeconds,
		stopChan:        make(chan struct{}),
		ownerID:         uuid.New().String(),
	}
}

func (c *ReconcileCron) SetInterval(seconds int) {
	if seconds > 0 {
		c.intervalSeconds = seconds
	}
}

func (c *ReconcileCron) Start() {
	if !c.running.CompareAndSwap(false, true) {
		logx.Info("[ReconcileCron] already running")
		return
	}

	logx.Infof("[ReconcileCron] started: interval=%ds, owner=%s", c.intervalSeconds, c.ownerID)

	go func() {
		ticker := time.NewTicker(time.Duration(c.intervalSeconds) * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.RunOnce(context.Background())
			case <-c.stopChan:
				logx.Info("[ReconcileCron] stopped")
				return
			}
		}
	}()
}

func (c *ReconcileCron) Stop() {
	if !c.running.Load() {
		return
	}
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
	c.running.Store(false)
}

// RunOnce performs one pass and returns the number of repaired activities.
func (c *ReconcileCron) RunOnce(ctx context.Context) int {
	if c.redis != nil {
		locked, err := c.tryLock(ctx)
		if err != nil {
			logx.Errorf("[ReconcileCron] lock failed: key=%s, err=%v", lockKey, err)
			return 0
		}
		if !locked {
			return 0
		}
		defer c.unlock(ctx)
	}

	ids, err := c.listIDs(ctx, c.now(), batchSize)
	if err != nil {
		logx.Errorf("[ReconcileCron] list activities failed: %v", err)
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[uint64]drift, len(c.suspects))
	repaired := 0
	for _, id := range ids {
		fixed, err := c.reconcileOne(ctx, id, seen)
		if err != nil {
			logx.Errorf("[ReconcileCron] activity %d: %v", id, err)
			continue
		}
		if fixed {
			repaired++
		}
	}
	c.suspects = seen

	if repaired > 0 {
		logx.Infof("[ReconcileCron] repaired %d counters", repaired)
	}
	return repaired
}

func (c *ReconcileCron) reconcileOne(ctx context.Context, id uint64, seen map[uint64]drift) (bool, error) {
	current, stable, err := c.observe(ctx, id)
	if err != nil || !stable {
		return false, err
	}
	if current.guard == current.ledger {
		return false, nil
	}
	if current.guard < current.ledger {
		logx.Errorf("[ReconcileCron] counter below ledger: activityId=%d, guard=%d, ledger=%d",
			id, current.guard, current.ledger)
		return false, nil
	}

	if prev, ok := c.suspects[id]; !ok || prev != current {
		seen[id] = current
		return false, nil
	}

	excess := current.guard - current.ledger
	fixed, err := c.repair(ctx, id, current.guard, excess)
	if err != nil {
		seen[id] = current
		return false, err
	}
	if !fixed {
		logx.Infof("[ReconcileCron] counter moved, repair skipped: activityId=%d, observed=%d", id, current.guard)
		return false, nil
	}
	logx.Infof("[ReconcileCron] counter repaired: activityId=%d, guard=%d, ledger=%d, released=%d",
		id, current.guard, current.ledger, excess)
	if c.cache != nil {
		c.cache.Invalidate(ctx, id)
	}
	return true, nil
}

// observe reads the guard and the ledger twice. stable is false when either
// count changed in between.
func (c *ReconcileCron) observe(ctx context.Context, id uint64) (drift, bool, error) {
	var reads [2]drift
	for i := range reads {
		g, err := c.guard.Count(ctx, id)
		if err != nil {
			return drift{}, false, err
		}
		l, err := c.ledger.CountActive(ctx, id)
		if err != nil {
			return drift{}, false, err
		}
		reads[i] = drift{guard: g, ledger: l}
	}
	return reads[0], reads[0] == reads[1], nil
}

// ==================== lock ====================

const unlockScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
    return redis.call("del", KEYS[1])
else
    return 0
end
`

func (c *ReconcileCron) tryLock(ctx context.Context) (bool, error) {
	return c.redis.SetnxExCtx(ctx, lockKey, c.ownerID, lockExpireSeconds)
}

func (c *ReconcileCron) unlock(ctx context.Context) {
	if _, err := c.redis.EvalCtx(ctx, unlockScript, []string{lockKey}, c.ownerID); err != nil {
		logx.Errorf("[ReconcileCron] unlock failed: key=%s, err=%v", lockKey, err)
	}
}
