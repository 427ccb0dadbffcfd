package user

import (
	"context"
	"testing"
	"time"

	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/svc/svctest"
	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/types"
	"github.com/Wepsel/Ouderenapp/app/activity/registration"
	"github.com/Wepsel/Ouderenapp/common/ctxdata"
	"github.com/Wepsel/Ouderenapp/common/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMyActivitiesLogic(t *testing.T) {
	f := svctest.New(false)
	later := time.Now().Add(72 * time.Hour)
	sooner := time.Now().Add(24 * time.Hour)
	f.Activities.Put(registration.Activity{ID: 1, Name: "Bingo", Date: later, Capacity: 5})
	f.Activities.Put(registration.Activity{ID: 2, Name: "Wandelen", Date: sooner, Capacity: 5})
	f.Activities.Put(registration.Activity{ID: 3, Name: "Sjoelen", Date: sooner, Capacity: 5})
	f.User(10, "Jans", false)

	ctx := ctxdata.WithUserID(context.Background(), 10)
	for _, id := range []uint64{1, 2} {
		_, err := f.Svc.Registration.Register(ctx, 10, id)
		require.NoError(t, err)
	}

	resp, err := NewMyActivitiesLogic(ctx, f.Svc).MyActivities()
	require.NoError(t, err)
	require.Len(t, resp.List, 2)
	assert.Equal(t, "Wandelen", resp.List[0].Name)
	assert.Equal(t, "Bingo", resp.List[1].Name)

	_, err = NewMyActivitiesLogic(context.Background(), f.Svc).MyActivities()
	assert.True(t, errorx.Is(err, errorx.CodeUnauthorized))
}

func TestUpdatePrivacyLogic(t *testing.T) {
	f := svctest.New(false)
	f.Activity(1, "Koersbal", 8)
	f.User(10, "Jans", false)
	ctx := ctxdata.WithUserID(context.Background(), 10)
	_, err := f.Svc.Registration.Register(ctx, 10, 1)
	require.NoError(t, err)

	resp, err := NewUpdatePrivacyLogic(ctx, f.Svc).UpdatePrivacy(&types.UpdatePrivacyReq{AnonymousParticipation: true})
	require.NoError(t, err)
	assert.True(t, resp.AnonymousParticipation)

	// existing registrations pick up the new setting on the next read
	views, err := f.Svc.Registration.ListAttendees(ctx, 1)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].Anonymous)
	assert.Empty(t, views[0].DisplayName)

	_, err = NewUpdatePrivacyLogic(ctxdata.WithUserID(context.Background(), 99), f.Svc).
		UpdatePrivacy(&types.UpdatePrivacyReq{AnonymousParticipation: true})
	assert.True(t, errorx.Is(err, errorx.CodeUserNotFound))
}
