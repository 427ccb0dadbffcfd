// Package cache holds shared cache helpers.
//
// Keys follow {service}:{module}:{id}, e.g. activity:detail:123.
// TTLs carry a random jitter so keys written together do not expire together.
package cache

import (
	"fmt"
	"time"

	"github.com/Wepsel/Ouderenapp/common/constants"

	"github.com/zeromicro/go-zero/core/mathx"
)

// DefaultJitter spreads TTLs by ±10%.
const DefaultJitter = 0.1

var unstable = mathx.NewUnstable(DefaultJitter)

// RandomTTL returns base ±10%.
//
//	RandomTTL(5 * time.Minute) => 4.5min ~ 5.5min
func RandomTTL(base time.Duration) time.Duration {
	return time.Duration(unstable.AroundDuration(base))
}

// RandomTTLSeconds is RandomTTL in whole seconds for SETEX, at least 1.
func RandomTTLSeconds(base time.Duration) int {
	s := int(RandomTTL(base).Seconds())
	if s < 1 {
		s = 1
	}
	return s
}

// ActivityDetailKey activity:detail:{id}
func ActivityDetailKey(id uint64) string {
	return fmt.Sprintf("%s%d", constants.CacheActivityPrefix, id)
}

// AvailabilityKey activity:availability:{id}
func AvailabilityKey(id uint64) string {
	return fmt.Sprintf("%s%d", constants.CacheAvailabilityPrefix, id)
}

// StockKey activity:stock:{id}
func StockKey(id uint64) string {
	return fmt.Sprintf("%s%d", constants.CacheStockPrefix, id)
}

// RegistrationLockKey activity:lock:register:{pair}
func RegistrationLockKey(pair string) string {
	return constants.LockRegistrationPrefix + pair
}
