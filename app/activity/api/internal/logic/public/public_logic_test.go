package public

import (
	"context"
	"testing"
	"time"

	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/svc/svctest"
	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/types"
	"github.com/Wepsel/Ouderenapp/app/activity/registration"
	"github.com/Wepsel/Ouderenapp/common/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetActivityLogic(t *testing.T) {
	f := svctest.New(false)
	f.Activity(1, "Handwerkcafé", 12)
	for _, uid := range []int64{10, 11} {
		f.User(uid, "Bewoner", false)
		_, err := f.Svc.Registration.Register(context.Background(), uid, 1)
		require.NoError(t, err)
	}

	resp, err := NewGetActivityLogic(context.Background(), f.Svc).GetActivity(&types.ActivityIdReq{ActivityId: 1})
	require.NoError(t, err)
	assert.Equal(t, "Handwerkcafé", resp.Name)
	assert.Equal(t, 12, resp.Capacity)
	assert.Equal(t, 2, resp.Registered)
	assert.Equal(t, 10, resp.Remaining)

	_, err = NewGetActivityLogic(context.Background(), f.Svc).GetActivity(&types.ActivityIdReq{ActivityId: 7})
	assert.True(t, errorx.Is(err, errorx.CodeActivityNotFound))
}

func TestListActivitiesLogic(t *testing.T) {
	f := svctest.New(false)
	now := time.Now()
	f.Activities.Put(registration.Activity{ID: 1, Name: "Voorbij", Date: now.Add(-time.Hour), Capacity: 1})
	f.Activities.Put(registration.Activity{ID: 2, Name: "Later", Date: now.Add(48 * time.Hour), Capacity: 1})
	f.Activities.Put(registration.Activity{ID: 3, Name: "Morgen", Date: now.Add(24 * time.Hour), Capacity: 1})

	resp, err := NewListActivitiesLogic(context.Background(), f.Svc).ListActivities(&types.ListActivitiesReq{})
	require.NoError(t, err)
	require.Len(t, resp.List, 2)
	assert.Equal(t, "Morgen", resp.List[0].Name)
	assert.Equal(t, "Later", resp.List[1].Name)
}
