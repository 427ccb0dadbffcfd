package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRandomTTL(t *testing.T) {
	base := 5 * time.Minute
	for i := 0; i < 100; i++ {
		ttl := RandomTTL(base)
		assert.GreaterOrEqual(t, ttl, 4*time.Minute+30*time.Second)
		assert.LessOrEqual(t, ttl, 5*time.Minute+30*time.Second)
	}
	assert.Equal(t, 1, RandomTTLSeconds(100*time.Millisecond))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "activity:detail:12", ActivityDetailKey(12))
	assert.Equal(t, "activity:availability:12", AvailabilityKey(12))
	assert.Equal(t, "activity:stock:12", StockKey(12))
	assert.Equal(t, "activity:lock:register:12:34", RegistrationLockKey("12:34"))
}
