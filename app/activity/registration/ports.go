package registration

import (
	"context"
	"time"
)

// ActivityRepository is the durable store of activities.
type ActivityRepository interface {
	// Get returns ErrActivityNotFound when the activity does not exist.
	Get(ctx context.Context, id uint64) (*Activity, error)
	// Save creates the activity when ID is zero and updates it otherwise.
	// It never writes RegisteredCount.
	Save(ctx context.Context, activity *Activity) error
	// GetMany silently skips ids that do not exist.
	GetMany(ctx context.Context, ids []uint64) ([]Activity, error)
	// ListUpcoming returns activities dated at or after from, soonest first.
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]Activity, error)
}

// Ledger is the durable store of registration facts.
type Ledger interface {
	// Find returns the record for the pair in any status, or ErrNotRegistered.
	Find(ctx context.Context, activityID uint64, userID int64) (*Record, error)
	// Insert persists an Active record. A Cancelled record for the same pair is
	// reactivated; an Active one yields ErrDuplicate.
	Insert(ctx context.Context, record *Record) error
	// Cancel moves the Active record for the pair to Cancelled, or returns
	// ErrNotRegistered.
	Cancel(ctx context.Context, activityID uint64, userID int64, at time.Time) error
	// ListByActivity returns Active records ordered by RegisteredAt ascending.
	ListByActivity(ctx context.Context, activityID uint64) ([]Record, error)
	// ListByUser returns the user's Active records.
	ListByUser(ctx context.Context, userID int64) ([]Record, error)
	// CountActive returns the number of Active records for the activity.
	CountActive(ctx context.Context, activityID uint64) (int, error)
}

// UserDirectory is the identity/profile collaborator.
type UserDirectory interface {
	// Get returns ErrUserNotFound when the user does not exist.
	Get(ctx context.Context, id int64) (*User, error)
	// GetMany returns the users that exist, keyed by id.
	GetMany(ctx context.Context, ids []int64) (map[int64]*User, error)
}

// CapacityGuard owns the per-activity admission counter.
//
// TryAdmit must check and increment in one atomic step with respect to every
// other caller for the same activity, and must not serialize unrelated
// activities.
type CapacityGuard interface {
	// TryAdmit reserves one slot or returns ErrCapacityExceeded. A negative
	// capacity means the capacity is unknown and yields ErrActivityNotFound.
	TryAdmit(ctx context.Context, activityID uint64, capacity int) error
	// Release gives one reserved slot back. The counter never drops below zero.
	Release(ctx context.Context, activityID uint64) error
	// Count returns the authoritative number of reserved slots.
	Count(ctx context.Context, activityID uint64) (int, error)
}

// PairLocker serializes requests for the same (activity, user) pair.
type PairLocker interface {
	// Lock blocks until the key is held or ctx is done. The returned unlock
	// func is safe to call more than once.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// EventPublisher announces registration changes. Implementations must not
// block the caller and must never fail the business operation.
type EventPublisher interface {
	MemberJoined(ctx context.Context, activityID uint64, userID int64)
	MemberLeft(ctx context.Context, activityID uint64, userID int64)
}

// AvailabilityCache serves display counts that may lag behind admissions.
type AvailabilityCache interface {
	Availability(ctx context.Context, activityID uint64, load func(context.Context) (Availability, error)) (Availability, error)
	Invalidate(ctx context.Context, activityID uint64)
}

// Outcome labels a finished register/unregister call for metrics.
type Outcome string

const (
	OutcomeAdmitted          Outcome = "admitted"
	OutcomeAlreadyRegistered Outcome = "already_registered"
	OutcomeCapacityExceeded  Outcome = "capacity_exceeded"
	OutcomeRolledBack        Outcome = "rolled_back"
	OutcomeRollbackFailed    Outcome = "rollback_failed"
	OutcomeCancelled         Outcome = "cancelled"
	OutcomeFailed            Outcome = "failed"
)

// Metrics records registration outcomes.
type Metrics interface {
	ObserveOutcome(outcome Outcome)
	ObserveDuration(operation string, d time.Duration)
}

type noopPublisher struct{}

func (noopPublisher) MemberJoined(context.Context, uint64, int64) {}
func (noopPublisher) MemberLeft(context.Context, uint64, int64)   {}

type noopMetrics struct{}

func (noopMetrics) ObserveOutcome(Outcome)                {}
func (noopMetrics) ObserveDuration(string, time.Duration) {}
