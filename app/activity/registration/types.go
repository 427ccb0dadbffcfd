// Package registration implements activity registration under a fixed capacity
// and the privacy-respecting attendee views built on top of it.
//
// The package only talks to ports (ActivityRepository, Ledger, UserDirectory,
// CapacityGuard); MySQL and Redis adapters live in app/activity/model and
// app/activity/internal, in-memory adapters live in memory.go.
package registration

import (
	"fmt"
	"strings"
	"time"
)

// ==================== Registration status ====================

// Status is the lifecycle state of a registration record.
type Status int8

const (
	StatusActive    Status = 1 // slot claimed
	StatusCancelled Status = 2 // slot given back by the user
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ==================== Activity ====================

// Activity is a scheduled neighborhood event. It is created and edited by the
// activity management workflow; the registration core only reads it.
type Activity struct {
	ID          uint64
	Name        string
	Description string
	Location    string
	Date        time.Time
	Capacity    int

	// RegisteredCount is the denormalized admission counter. Only a
	// CapacityGuard writes it; display code should prefer Availability.
	RegisteredCount int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the fields the management workflow must supply.
func (a *Activity) Validate() error {
	if a == nil {
		return fmt.Errorf("%w: activity is nil", ErrInvalidActivity)
	}
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidActivity)
	}
	if a.Capacity < 0 {
		return fmt.Errorf("%w: capacity must be >= 0, got %d", ErrInvalidActivity, a.Capacity)
	}
	if a.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidActivity)
	}
	return nil
}

// ==================== User ====================

// User is the profile owned by the identity collaborator. The core never
// caches it: AnonymousParticipation is read fresh on every projection.
type User struct {
	ID                     int64
	DisplayName            string
	Phone                  string
	Village                string
	Neighborhood           string
	AnonymousParticipation bool
}

// ==================== Registration record ====================

// Record is the durable fact that a user claimed a slot in an activity.
type Record struct {
	ActivityID   uint64
	UserID       int64
	Status       Status
	RegisteredAt time.Time
	CancelledAt  time.Time
}

// Active reports whether the record currently holds a slot.
func (r *Record) Active() bool {
	return r != nil && r.Status == StatusActive
}

// ==================== Read models ====================

// AttendeeView is the only shape in which another user's registration leaves
// the core. Anonymous attendees carry location only.
type AttendeeView struct {
	Anonymous    bool      `json:"anonymous"`
	DisplayName  string    `json:"display_name,omitempty"`
	Village      string    `json:"village"`
	Neighborhood string    `json:"neighborhood"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Availability is the weakly-consistent "n of C spots filled" display value.
type Availability struct {
	ActivityID uint64 `json:"activity_id"`
	Capacity   int    `json:"capacity"`
	Registered int    `json:"registered"`
	Remaining  int    `json:"remaining"`
}

// NewAvailability clamps Remaining at zero; capacity can be lowered below the
// number of existing registrations by an administrator.
func NewAvailability(activityID uint64, capacity, registered int) Availability {
	remaining := capacity - registered
	if remaining < 0 {
		remaining = 0
	}
	return Availability{
		ActivityID: activityID,
		Capacity:   capacity,
		Registered: registered,
		Remaining:  remaining,
	}
}

// PairKey identifies the (activity, user) pair for locking and idempotency.
func PairKey(activityID uint64, userID int64) string {
	return fmt.Sprintf("%d:%d", activityID, userID)
}
