package registration

import (
	"context"
	"sort"
	"sync"
	"time"
)

// ==================== Activities ====================

// MemoryActivities is an in-process ActivityRepository.
type MemoryActivities struct {
	mu     sync.RWMutex
	nextID uint64
	items  map[uint64]Activity
}

func NewMemoryActivities() *MemoryActivities {
	return &MemoryActivities{items: make(map[uint64]Activity)}
}

func (m *MemoryActivities) Get(_ context.Context, id uint64) (*Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.items[id]
	if !ok {
		return nil, ErrActivityNotFound
	}
	return &a, nil
}

func (m *MemoryActivities) Save(_ context.Context, activity *Activity) error {
	if err := activity.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if activity.ID == 0 {
		m.nextID++
		activity.ID = m.nextID
		activity.RegisteredCount = 0
		activity.CreatedAt = now
		activity.UpdatedAt = now
		m.items[activity.ID] = *activity
		return nil
	}

	old, ok := m.items[activity.ID]
	if !ok {
		return ErrActivityNotFound
	}
	activity.RegisteredCount = old.RegisteredCount
	activity.CreatedAt = old.CreatedAt
	activity.UpdatedAt = now
	m.items[activity.ID] = *activity
	if activity.ID > m.nextID {
		m.nextID = activity.ID
	}
	return nil
}

// Put stores the activity as given, keeping its id. Tests use it to seed
// fixtures with known ids.
func (m *MemoryActivities) Put(activity Activity) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[activity.ID] = activity
	if activity.ID > m.nextID {
		m.nextID = activity.ID
	}
}

func (m *MemoryActivities) GetMany(_ context.Context, ids []uint64) ([]Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Activity, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if a, ok := m.items[id]; ok {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *MemoryActivities) ListUpcoming(_ context.Context, from time.Time, limit int) ([]Activity, error) {
	m.mu.RLock()
	result := make([]Activity, 0, len(m.items))
	for _, a := range m.items {
		if !a.Date.Before(from) {
			result = append(result, a)
		}
	}
	m.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].ID < result[j].ID
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ==================== Ledger ====================

type pair struct {
	activityID uint64
	userID     int64
}

// MemoryLedger is an in-process Ledger. Every pair has at most one record.
type MemoryLedger struct {
	mu      sync.RWMutex
	records map[pair]Record
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{records: make(map[pair]Record)}
}

func (l *MemoryLedger) Find(_ context.Context, activityID uint64, userID int64) (*Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, ok := l.records[pair{activityID, userID}]
	if !ok {
		return nil, ErrNotRegistered
	}
	return &rec, nil
}

func (l *MemoryLedger) Insert(_ context.Context, record *Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := pair{record.ActivityID, record.UserID}
	if old, ok := l.records[key]; ok && old.Status == StatusActive {
		return ErrDuplicate
	}
	rec := *record
	rec.Status = StatusActive
	rec.CancelledAt = time.Time{}
	l.records[key] = rec
	return nil
}

func (l *MemoryLedger) Cancel(_ context.Context, activityID uint64, userID int64, at time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := pair{activityID, userID}
	rec, ok := l.records[key]
	if !ok || rec.Status != StatusActive {
		return ErrNotRegistered
	}
	rec.Status = StatusCancelled
	rec.CancelledAt = at
	l.records[key] = rec
	return nil
}

func (l *MemoryLedger) ListByActivity(_ context.Context, activityID uint64) ([]Record, error) {
	l.mu.RLock()
	result := make([]Record, 0)
	for key, rec := range l.records {
		if key.activityID == activityID && rec.Status == StatusActive {
			result = append(result, rec)
		}
	}
	l.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].RegisteredAt.Equal(result[j].RegisteredAt) {
			return result[i].RegisteredAt.Before(result[j].RegisteredAt)
		}
		return result[i].UserID < result[j].UserID
	})
	return result, nil
}

func (l *MemoryLedger) ListByUser(_ context.Context, userID int64) ([]Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]Record, 0)
	for key, rec := range l.records {
		if key.userID == userID && rec.Status == StatusActive {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (l *MemoryLedger) CountActive(_ context.Context, activityID uint64) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := 0
	for key, rec := range l.records {
		if key.activityID == activityID && rec.Status == StatusActive {
			n++
		}
	}
	return n, nil
}

// ==================== Users ====================

// MemoryUsers is an in-process UserDirectory.
type MemoryUsers struct {
	mu    sync.RWMutex
	users map[int64]User
}

func NewMemoryUsers(users ...User) *MemoryUsers {
	m := &MemoryUsers{users: make(map[int64]User, len(users))}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *MemoryUsers) Put(u User) {
	m.mu.Lock()
	m.users[u.ID] = u
	m.mu.Unlock()
}

func (m *MemoryUsers) Delete(id int64) {
	m.mu.Lock()
	delete(m.users, id)
	m.mu.Unlock()
}

// SetAnonymous flips the user's participation preference.
func (m *MemoryUsers) SetAnonymous(id int64, anonymous bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.AnonymousParticipation = anonymous
	m.users[id] = u
	return nil
}

func (m *MemoryUsers) Get(_ context.Context, id int64) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (m *MemoryUsers) GetMany(_ context.Context, ids []int64) (map[int64]*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[int64]*User, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			u := u
			result[id] = &u
		}
	}
	return result, nil
}

// ==================== Local capacity guard ====================

// SeedFunc loads the starting count of an activity the guard has not seen yet.
type SeedFunc func(ctx context.Context, activityID uint64) (int, error)

// DefaultShardIdleTTL is how long an unused LocalGuard shard is kept.
const DefaultShardIdleTTL = time.Hour

// LocalGuard is an in-process CapacityGuard. Each activity has its own
// one-slot semaphore, so admissions to different activities never wait on
// each other. Only valid when a single process admits registrations.
//
// Shards nobody holds or waits for are dropped after the idle TTL and
// reseeded from the ledger on next use, so the map only holds activities
// touched within the last TTL. The TTL must exceed the longest time between
// an admission and its ledger write or rollback.
type LocalGuard struct {
	mu        sync.Mutex
	shards    map[uint64]*guardShard
	seed      SeedFunc
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type guardShard struct {
	sem chan struct{}

	// guarded by LocalGuard.mu
	refs     int
	lastUsed time.Time

	// guarded by sem
	seeded bool
	count  int
}

// NewLocalGuard returns a guard whose counters start at seed(activityID), or
// zero when seed is nil.
func NewLocalGuard(seed SeedFunc) *LocalGuard {
	return &LocalGuard{
		shards:    make(map[uint64]*guardShard),
		seed:      seed,
		idleTTL:   DefaultShardIdleTTL,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// SetIdleTTL changes how long unused shards are kept.
func (g *LocalGuard) SetIdleTTL(d time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if d > 0 {
		g.idleTTL = d
	}
}

// shard pins the activity's shard; the caller must call unpin.
func (g *LocalGuard) shard(activityID uint64) *guardShard {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if now.Sub(g.lastSweep) >= g.idleTTL {
		g.sweepLocked(now)
	}

	s, ok := g.shards[activityID]
	if !ok {
		s = &guardShard{sem: make(chan struct{}, 1)}
		g.shards[activityID] = s
	}
	s.refs++
	return s
}

func (g *LocalGuard) unpin(s *guardShard) {
	g.mu.Lock()
	s.refs--
	s.lastUsed = g.now()
	g.mu.Unlock()
}

func (g *LocalGuard) sweepLocked(now time.Time) {
	for id, s := range g.shards {
		if s.refs == 0 && now.Sub(s.lastUsed) >= g.idleTTL {
			delete(g.shards, id)
		}
	}
	g.lastSweep = now
}

// acquire pins the activity's shard, waits for its semaphore and seeds the
// counter on first use. The caller must call release when err is nil.
func (g *LocalGuard) acquire(ctx context.Context, activityID uint64) (*guardShard, error) {
	s := g.shard(activityID)
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		g.unpin(s)
		return nil, Transient("acquire capacity guard", ctx.Err())
	}

	if !s.seeded {
		if g.seed != nil {
			n, err := g.seed(ctx, activityID)
			if err != nil {
				g.release(s)
				return nil, asStoreError("seed capacity guard", err)
			}
			s.count = n
		}
		s.seeded = true
	}
	return s, nil
}

func (g *LocalGuard) release(s *guardShard) {
	<-s.sem
	g.unpin(s)
}

func (g *LocalGuard) TryAdmit(ctx context.Context, activityID uint64, capacity int) error {
	if capacity < 0 {
		return ErrActivityNotFound
	}
	s, err := g.acquire(ctx, activityID)
	if err != nil {
		return err
	}
	defer g.release(s)

	if s.count >= capacity {
		return ErrCapacityExceeded
	}
	s.count++
	return nil
}

func (g *LocalGuard) Release(ctx context.Context, activityID uint64) error {
	s, err := g.acquire(ctx, activityID)
	if err != nil {
		return err
	}
	defer g.release(s)

	if s.count > 0 {
		s.count--
	}
	return nil
}

func (g *LocalGuard) Count(ctx context.Context, activityID uint64) (int, error) {
	s, err := g.acquire(ctx, activityID)
	if err != nil {
		return 0, err
	}
	defer g.release(s)
	return s.count, nil
}

func (g *LocalGuard) shardCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.shards)
}

// ==================== Local pair locker ====================

// LocalPairLocker is an in-process keyed lock. Entries are reference counted
// and removed when the last holder or waiter leaves.
type LocalPairLocker struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	ch   chan struct{}
	refs int
}

func NewLocalPairLocker() *LocalPairLocker {
	return &LocalPairLocker{locks: make(map[string]*keyedLock)}
}

func (l *LocalPairLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyedLock{ch: make(chan struct{}, 1)}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	select {
	case kl.ch <- struct{}{}:
	case <-ctx.Done():
		l.leave(key, kl)
		return nil, Transient("lock pair", ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-kl.ch
			l.leave(key, kl)
		})
	}, nil
}

func (l *LocalPairLocker) leave(key string, kl *keyedLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
}
