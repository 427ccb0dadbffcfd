// Package svctest builds ServiceContexts on in-memory stores for logic and
// handler tests.
package svctest

import (
	"context"
	"time"

	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/config"
	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/svc"
	"github.com/Wepsel/Ouderenapp/app/activity/registration"
	"github.com/Wepsel/Ouderenapp/common/middleware"

	"github.com/zeromicro/go-zero/core/breaker"
)

// Profiles adapts MemoryUsers to svc.ProfileStore.
type Profiles struct {
	*registration.MemoryUsers
}

func (p Profiles) SetAnonymous(_ context.Context, userID int64, anonymous bool) error {
	return p.MemoryUsers.SetAnonymous(userID, anonymous)
}

func (p Profiles) IsActive(ctx context.Context, userID int64) (bool, error) {
	_, err := p.Get(ctx, userID)
	if err != nil {
		return false, nil
	}
	return true, nil
}

type Fixture struct {
	Svc        *svc.ServiceContext
	Activities *registration.MemoryActivities
	Ledger     *registration.MemoryLedger
	Users      *registration.MemoryUsers
}

// New returns a context without Redis: local guard, local pair lock, no
// limiter, no cache.
func New(allowCancel bool) *Fixture {
	activities := registration.NewMemoryActivities()
	ledger := registration.NewMemoryLedger()
	users := registration.NewMemoryUsers()
	profiles := Profiles{MemoryUsers: users}

	var c config.Config
	c.Registration.AllowCancel = allowCancel
	c.Registration.Guard = config.GuardLocal
	c.Registration.PairLock = config.LockLocal

	service := registration.NewService(activities, ledger, profiles, registration.NewLocalGuard(ledger.CountActive),
		registration.WithCancellation(allowCancel))

	return &Fixture{
		Svc: &svc.ServiceContext{
			Config:              c,
			RegistrationBreaker: breaker.NewBreaker(),
			Activities:          activities,
			Profiles:            profiles,
			Registration:        service,
			AdminAuth:           middleware.NewAdminRoleMiddleware(profiles).Handle,
		},
		Activities: activities,
		Ledger:     ledger,
		Users:      users,
	}
}

// Activity stores a fixture activity starting tomorrow.
func (f *Fixture) Activity(id uint64, name string, capacity int) {
	f.Activities.Put(registration.Activity{
		ID:       id,
		Name:     name,
		Location: "Dorpshuis",
		Date:     time.Now().Add(24 * time.Hour).Truncate(time.Second),
		Capacity: capacity,
	})
}

func (f *Fixture) User(id int64, name string, anonymous bool) {
	f.Users.Put(registration.User{
		ID:                     id,
		DisplayName:            name,
		Village:                "Zuidwolde",
		Neighborhood:           "Centrum",
		AnonymousParticipation: anonymous,
	})
}
