package constants

import "time"

// Redis key prefixes.
// Format: {service}:{module}:{id}
// e.g. activity:detail:12, activity:lock:register:12:34

const (
	// ============ activity service ============

	// CacheActivityPrefix activity detail cache
	CacheActivityPrefix = "activity:detail:"
	// CacheAvailabilityPrefix "n of C spots filled" display cache
	CacheAvailabilityPrefix = "activity:availability:"
	// CacheStockPrefix admission counter of the Redis capacity guard
	CacheStockPrefix = "activity:stock:"
	// LockRegistrationPrefix per (activity, user) registration lock
	LockRegistrationPrefix = "activity:lock:register:"
	// LimitRegistrationKey token bucket of the register endpoint
	LimitRegistrationKey = "activity:limit:register"
)

// ============ expirations ============

const (
	// CacheExpireDefault detail cache
	CacheExpireDefault = 5 * time.Minute
	// CacheExpireShort availability cache; may lag admissions by this much
	CacheExpireShort = 10 * time.Second
	// CacheExpireNull placeholder for ids that do not exist
	CacheExpireNull = time.Minute
	// LockExpireDefault registration lock
	LockExpireDefault = 10 * time.Second
)
