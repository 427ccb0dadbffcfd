package registration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryActivities(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryActivities()

	t.Run("save rejects negative capacity", func(t *testing.T) {
		err := repo.Save(ctx, &Activity{Name: "Bingo", Date: time.Now(), Capacity: -1})
		assert.ErrorIs(t, err, ErrInvalidActivity)
	})

	t.Run("create then update keeps the counter", func(t *testing.T) {
		a := &Activity{Name: "Bingo", Date: time.Now().Add(time.Hour), Capacity: 20}
		require.NoError(t, repo.Save(ctx, a))
		require.NotZero(t, a.ID)

		stored := *a
		stored.RegisteredCount = 4
		repo.Put(stored)

		a.Capacity = 25
		a.RegisteredCount = 0
		require.NoError(t, repo.Save(ctx, a))

		got, err := repo.Get(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, 25, got.Capacity)
		assert.Equal(t, 4, got.RegisteredCount)
	})

	t.Run("update of unknown id", func(t *testing.T) {
		err := repo.Save(ctx, &Activity{ID: 999, Name: "x", Date: time.Now()})
		assert.ErrorIs(t, err, ErrActivityNotFound)
	})

	t.Run("upcoming is ordered and limited", func(t *testing.T) {
		r := NewMemoryActivities()
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		r.Put(Activity{ID: 1, Name: "past", Date: base.Add(-time.Hour)})
		r.Put(Activity{ID: 2, Name: "third", Date: base.Add(3 * time.Hour)})
		r.Put(Activity{ID: 3, Name: "first", Date: base.Add(time.Hour)})
		r.Put(Activity{ID: 4, Name: "second", Date: base.Add(2 * time.Hour)})

		list, err := r.ListUpcoming(ctx, base, 2)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "first", list[0].Name)
		assert.Equal(t, "second", list[1].Name)
	})
}

func TestMemoryLedger(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, l.Insert(ctx, &Record{ActivityID: 1, UserID: 2, RegisteredAt: at}))
	assert.ErrorIs(t, l.Insert(ctx, &Record{ActivityID: 1, UserID: 2, RegisteredAt: at}), ErrDuplicate)

	_, err := l.Find(ctx, 1, 3)
	assert.ErrorIs(t, err, ErrNotRegistered)

	require.NoError(t, l.Cancel(ctx, 1, 2, at.Add(time.Minute)))
	assert.ErrorIs(t, l.Cancel(ctx, 1, 2, at), ErrNotRegistered)

	rec, err := l.Find(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, rec.Status)
	assert.False(t, rec.Active())

	n, err := l.CountActive(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, l.Insert(ctx, &Record{ActivityID: 1, UserID: 2, RegisteredAt: at.Add(time.Hour)}))
	rec, err = l.Find(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, rec.Active())
	assert.True(t, rec.CancelledAt.IsZero())
}

func TestLocalGuard(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds from the ledger count", func(t *testing.T) {
		g := NewLocalGuard(func(context.Context, uint64) (int, error) { return 2, nil })
		assert.ErrorIs(t, g.TryAdmit(ctx, 1, 2), ErrCapacityExceeded)
		require.NoError(t, g.TryAdmit(ctx, 1, 3))
	})

	t.Run("seed failure is retried on next call", func(t *testing.T) {
		calls := 0
		g := NewLocalGuard(func(context.Context, uint64) (int, error) {
			calls++
			if calls == 1 {
				return 0, errors.New("db down")
			}
			return 0, nil
		})
		assert.Error(t, g.TryAdmit(ctx, 1, 1))
		assert.NoError(t, g.TryAdmit(ctx, 1, 1))
	})

	t.Run("release never goes below zero", func(t *testing.T) {
		g := NewLocalGuard(nil)
		require.NoError(t, g.Release(ctx, 1))
		n, err := g.Count(ctx, 1)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("unknown capacity", func(t *testing.T) {
		g := NewLocalGuard(nil)
		assert.ErrorIs(t, g.TryAdmit(ctx, 1, -1), ErrActivityNotFound)
	})
}

func TestLocalGuard_DropsIdleShards(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	g := NewLocalGuard(ledger.CountActive)
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return clock }
	g.lastSweep = clock

	for id := uint64(1); id <= 50; id++ {
		require.NoError(t, g.TryAdmit(ctx, id, 5))
		require.NoError(t, ledger.Insert(ctx, &Record{
			ActivityID: id, UserID: 1, Status: StatusActive, RegisteredAt: clock,
		}))
	}
	assert.Equal(t, 50, g.shardCount())

	clock = clock.Add(DefaultShardIdleTTL)
	require.NoError(t, g.TryAdmit(ctx, 100, 5))
	assert.Equal(t, 1, g.shardCount())

	// a dropped shard comes back with the ledger's count
	n, err := g.Count(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLocalGuard_KeepsShardsInUse(t *testing.T) {
	ctx := context.Background()
	g := NewLocalGuard(nil)
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return clock }
	g.lastSweep = clock
	g.SetIdleTTL(time.Minute)

	require.NoError(t, g.TryAdmit(ctx, 1, 5))
	held, err := g.acquire(ctx, 1)
	require.NoError(t, err)

	clock = clock.Add(time.Hour)
	require.NoError(t, g.TryAdmit(ctx, 2, 5))
	assert.Equal(t, 2, g.shardCount())

	g.release(held)
	n, err := g.Count(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLocalPairLocker(t *testing.T) {
	ctx := context.Background()
	l := NewLocalPairLocker()

	t.Run("serializes the same key", func(t *testing.T) {
		var mu sync.Mutex
		inside, maxInside := 0, 0
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock, err := l.Lock(ctx, "1:1")
				if !assert.NoError(t, err) {
					return
				}
				defer unlock()

				mu.Lock()
				inside++
				if inside > maxInside {
					maxInside = inside
				}
				mu.Unlock()
				time.Sleep(time.Millisecond)
				mu.Lock()
				inside--
				mu.Unlock()
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, maxInside)
	})

	t.Run("gives up when the context ends", func(t *testing.T) {
		unlock, err := l.Lock(ctx, "2:2")
		require.NoError(t, err)

		tctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()
		_, err = l.Lock(tctx, "2:2")
		assert.True(t, IsTransient(err))

		unlock()
		unlock()

		l.mu.Lock()
		assert.Empty(t, l.locks)
		l.mu.Unlock()
	})
}
