package registration

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
)

// Option configures a Service.
type Option func(*Service)

// WithPairLocker replaces the in-process pair locker, e.g. with a Redis lock
// when several API instances share one ledger.
func WithPairLocker(l PairLocker) Option {
	return func(s *Service) {
		if l != nil {
			s.locker = l
		}
	}
}

func WithPublisher(p EventPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

func WithAvailabilityCache(c AvailabilityCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithCancellation enables Unregister.
func WithCancellation(allow bool) Option {
	return func(s *Service) {
		s.allowCancel = allow
	}
}

// WithClock overrides time.Now, used by tests that assert ordering.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service is the registration engine. It is safe for concurrent use; all
// shared state lives behind its ports.
type Service struct {
	activities ActivityRepository
	ledger     Ledger
	users      UserDirectory
	guard      CapacityGuard

	locker    PairLocker
	publisher EventPublisher
	metrics   Metrics
	cache     AvailabilityCache

	allowCancel bool
	now         func() time.Time
}

func NewService(activities ActivityRepository, ledger Ledger, users UserDirectory, guard CapacityGuard, opts ...Option) *Service {
	s := &Service{
		activities: activities,
		ledger:     ledger,
		users:      users,
		guard:      guard,
		locker:     NewLocalPairLocker(),
		publisher:  noopPublisher{},
		metrics:    noopMetrics{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CancellationEnabled reports whether Unregister is allowed.
func (s *Service) CancellationEnabled() bool {
	return s.allowCancel
}

// Register claims one slot of the activity for the user.
//
// A second call for the same pair returns the existing record together with
// ErrAlreadyRegistered. On any error other than that, no registration exists
// and no slot is held.
func (s *Service) Register(ctx context.Context, userID int64, activityID uint64) (*Record, error) {
	start := s.now()
	defer func() {
		s.metrics.ObserveDuration("register", time.Since(start))
	}()

	activity, err := s.activities.Get(ctx, activityID)
	if err != nil {
		return nil, s.fail(asStoreError("get activity", err))
	}
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, s.fail(asStoreError("get user", err))
	}

	unlock, err := s.locker.Lock(ctx, PairKey(activityID, userID))
	if err != nil {
		return nil, s.fail(asStoreError("lock pair", err))
	}
	defer unlock()

	existing, err := s.ledger.Find(ctx, activityID, userID)
	switch {
	case err == nil && existing.Active():
		s.metrics.ObserveOutcome(OutcomeAlreadyRegistered)
		return existing, ErrAlreadyRegistered
	case err != nil && !errors.Is(err, ErrNotRegistered):
		return nil, s.fail(asStoreError("find registration", err))
	}

	if err := s.guard.TryAdmit(ctx, activityID, activity.Capacity); err != nil {
		if errors.Is(err, ErrCapacityExceeded) {
			s.metrics.ObserveOutcome(OutcomeCapacityExceeded)
			return nil, err
		}
		return nil, s.fail(asStoreError("admit", err))
	}

	record := &Record{
		ActivityID:   activityID,
		UserID:       userID,
		Status:       StatusActive,
		RegisteredAt: s.now(),
	}
	if err := s.ledger.Insert(ctx, record); err != nil {
		s.rollback(ctx, activityID, err)
		if errors.Is(err, ErrDuplicate) {
			s.metrics.ObserveOutcome(OutcomeAlreadyRegistered)
			if current, findErr := s.ledger.Find(context.WithoutCancel(ctx), activityID, userID); findErr == nil {
				return current, ErrAlreadyRegistered
			}
			return nil, ErrAlreadyRegistered
		}
		if IsPermanent(err) {
			return nil, err
		}
		return nil, Transient("insert registration", err)
	}

	s.invalidate(ctx, activityID)
	s.publisher.MemberJoined(ctx, activityID, userID)
	s.metrics.ObserveOutcome(OutcomeAdmitted)
	logx.WithContext(ctx).Infof("[Registration] user %d registered for activity %d", userID, activityID)
	return record, nil
}

// rollback gives back the slot reserved for a registration that could not be
// written. It runs detached from ctx so a cancelled request still releases.
func (s *Service) rollback(ctx context.Context, activityID uint64, cause error) {
	rctx := context.WithoutCancel(ctx)
	if err := s.guard.Release(rctx, activityID); err != nil {
		s.metrics.ObserveOutcome(OutcomeRollbackFailed)
		logx.WithContext(rctx).Errorf("[Registration] release slot for activity %d after %v failed: %v",
			activityID, cause, err)
		return
	}
	s.metrics.ObserveOutcome(OutcomeRolledBack)
}

// IsRegistered reports whether the user holds an Active registration.
func (s *Service) IsRegistered(ctx context.Context, userID int64, activityID uint64) (bool, error) {
	rec, err := s.ledger.Find(ctx, activityID, userID)
	if errors.Is(err, ErrNotRegistered) {
		return false, nil
	}
	if err != nil {
		return false, asStoreError("find registration", err)
	}
	return rec.Active(), nil
}

// ListRegistrants returns the raw Active records, oldest first. The result
// contains user ids and must not be rendered to other users directly; use
// ListAttendees for that.
func (s *Service) ListRegistrants(ctx context.Context, activityID uint64) ([]Record, error) {
	if _, err := s.activities.Get(ctx, activityID); err != nil {
		return nil, asStoreError("get activity", err)
	}
	records, err := s.ledger.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, asStoreError("list registrations", err)
	}
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].RegisteredAt.Equal(records[j].RegisteredAt) {
			return records[i].RegisteredAt.Before(records[j].RegisteredAt)
		}
		return records[i].UserID < records[j].UserID
	})
	return records, nil
}

// ListAttendees returns the projected view of every Active registration.
// Profiles are looked up fresh so privacy changes apply immediately.
func (s *Service) ListAttendees(ctx context.Context, activityID uint64) ([]AttendeeView, error) {
	records, err := s.ListRegistrants(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []AttendeeView{}, nil
	}

	ids := make([]int64, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.UserID)
	}
	users, err := s.users.GetMany(ctx, ids)
	if err != nil {
		return nil, asStoreError("get users", err)
	}
	if missing := len(records) - len(users); missing > 0 {
		logx.WithContext(ctx).Infof("[Registration] activity %d: %d registrant profiles not found, skipped",
			activityID, missing)
	}
	return ProjectAll(records, users), nil
}

// ListUserActivities returns the activities the user is actively registered
// for, ordered by date.
func (s *Service) ListUserActivities(ctx context.Context, userID int64) ([]Activity, error) {
	records, err := s.ledger.ListByUser(ctx, userID)
	if err != nil {
		return nil, asStoreError("list user registrations", err)
	}
	if len(records) == 0 {
		return []Activity{}, nil
	}

	ids := make([]uint64, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ActivityID)
	}
	activities, err := s.activities.GetMany(ctx, ids)
	if err != nil {
		return nil, asStoreError("get activities", err)
	}
	sort.SliceStable(activities, func(i, j int) bool {
		if !activities[i].Date.Equal(activities[j].Date) {
			return activities[i].Date.Before(activities[j].Date)
		}
		return activities[i].ID < activities[j].ID
	})
	return activities, nil
}

// Unregister cancels the user's Active registration and releases the slot.
func (s *Service) Unregister(ctx context.Context, userID int64, activityID uint64) error {
	if !s.allowCancel {
		return ErrCancelDisabled
	}
	start := s.now()
	defer func() {
		s.metrics.ObserveDuration("unregister", time.Since(start))
	}()

	if _, err := s.activities.Get(ctx, activityID); err != nil {
		return s.fail(asStoreError("get activity", err))
	}

	unlock, err := s.locker.Lock(ctx, PairKey(activityID, userID))
	if err != nil {
		return s.fail(asStoreError("lock pair", err))
	}
	defer unlock()

	if err := s.ledger.Cancel(ctx, activityID, userID, s.now()); err != nil {
		if errors.Is(err, ErrNotRegistered) {
			return err
		}
		return s.fail(asStoreError("cancel registration", err))
	}

	// The ledger no longer holds the record; a failed release only leaves the
	// counter high, which blocks admissions but never over-admits.
	if err := s.guard.Release(context.WithoutCancel(ctx), activityID); err != nil {
		s.metrics.ObserveOutcome(OutcomeRollbackFailed)
		logx.WithContext(ctx).Errorf("[Registration] release slot for activity %d after cancel failed: %v",
			activityID, err)
	}

	s.invalidate(ctx, activityID)
	s.publisher.MemberLeft(ctx, activityID, userID)
	s.metrics.ObserveOutcome(OutcomeCancelled)
	logx.WithContext(ctx).Infof("[Registration] user %d cancelled activity %d", userID, activityID)
	return nil
}

// Availability returns the display count for the activity. It may lag behind
// admissions by the cache TTL.
func (s *Service) Availability(ctx context.Context, activityID uint64) (Availability, error) {
	load := func(ctx context.Context) (Availability, error) {
		activity, err := s.activities.Get(ctx, activityID)
		if err != nil {
			return Availability{}, asStoreError("get activity", err)
		}
		count, err := s.ledger.CountActive(ctx, activityID)
		if err != nil {
			return Availability{}, asStoreError("count registrations", err)
		}
		return NewAvailability(activityID, activity.Capacity, count), nil
	}
	if s.cache == nil {
		return load(ctx)
	}
	return s.cache.Availability(ctx, activityID, load)
}

func (s *Service) invalidate(ctx context.Context, activityID uint64) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, activityID)
	}
}

func (s *Service) fail(err error) error {
	if !IsBusiness(err) {
		s.metrics.ObserveOutcome(OutcomeFailed)
	}
	return err
}
