package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Wepsel/Ouderenapp/app/activity/registration"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/stores/redis"
)

func newTestLocker(t *testing.T) (*RedisPairLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rds := redis.MustNewRedis(redis.RedisConf{Host: mr.Addr(), Type: redis.NodeType})
	return NewRedisPairLocker(rds, 5*time.Second), mr
}

func TestRedisPairLocker_Exclusive(t *testing.T) {
	l, mr := newTestLocker(t)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "1:2")
	require.NoError(t, err)
	assert.True(t, mr.Exists("activity:lock:register:1:2"))

	tctx, cancel := context.WithTimeout(ctx, 60*time.Millisecond)
	defer cancel()
	_, err = l.Lock(tctx, "1:2")
	assert.True(t, registration.IsTransient(err))

	other, err := l.Lock(ctx, "1:3")
	require.NoError(t, err)
	other()

	unlock()
	unlock()
	assert.False(t, mr.Exists("activity:lock:register:1:2"))
}

func TestRedisPairLocker_WaitsForRelease(t *testing.T) {
	l, _ := newTestLocker(t)
	ctx := context.Background()

	var mu sync.Mutex
	var order []int
	unlock, err := l.Lock(ctx, "9:9")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		u, err := l.Lock(ctx, "9:9")
		if !assert.NoError(t, err) {
			return
		}
		mu.Lock()
		order = append(order, 2)
		mu.Unlock()
		u()
	}()

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	order = append(order, 1)
	mu.Unlock()
	unlock()
	<-done

	assert.Equal(t, []int{1, 2}, order)
}

func TestRedisPairLocker_DoesNotReleaseForeignLock(t *testing.T) {
	l, mr := newTestLocker(t)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "5:5")
	require.NoError(t, err)

	// The lock expired and another holder took it.
	mr.FastForward(10 * time.Second)
	require.NoError(t, mr.Set("activity:lock:register:5:5", "someone-else"))

	unlock()
	got, err := mr.Get("activity:lock:register:5:5")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}
