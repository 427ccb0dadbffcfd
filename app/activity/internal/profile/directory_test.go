package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/Wepsel/Ouderenapp/app/activity/registration"
	usermodel "github.com/Wepsel/Ouderenapp/app/user/model"

	mysqlerr "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserModel struct {
	users map[int64]*usermodel.User
	err   error
}

func (f *fakeUserModel) Create(_ context.Context, u *usermodel.User) error {
	f.users[u.UserID] = u
	return nil
}

func (f *fakeUserModel) FindByUserID(_ context.Context, id int64) (*usermodel.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, usermodel.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserModel) FindByIDs(_ context.Context, ids []int64) ([]*usermodel.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*usermodel.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeUserModel) UpdatePrivacy(_ context.Context, id int64, anonymous bool) error {
	u, ok := f.users[id]
	if !ok {
		return usermodel.ErrUserNotFound
	}
	u.AnonymousParticipation = anonymous
	return nil
}

func TestDirectory(t *testing.T) {
	ctx := context.Background()
	fake := &fakeUserModel{users: map[int64]*usermodel.User{
		1: {UserID: 1, DisplayName: "Mien", Village: "Rolde", Neighborhood: "Brink", Phone: "0591", Status: usermodel.UserStatusNormal},
		3: {UserID: 3, DisplayName: "Geert", Status: usermodel.UserStatusDisabled},
	}}
	d := NewDirectory(fake)

	u, err := d.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Mien", u.DisplayName)
	assert.False(t, u.AnonymousParticipation)

	_, err = d.Get(ctx, 2)
	assert.ErrorIs(t, err, registration.ErrUserNotFound)

	require.NoError(t, d.SetAnonymous(ctx, 1, true))
	u, err = d.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, u.AnonymousParticipation)
	assert.ErrorIs(t, d.SetAnonymous(ctx, 9, true), registration.ErrUserNotFound)

	active, err := d.IsActive(ctx, 1)
	require.NoError(t, err)
	assert.True(t, active)
	active, err = d.IsActive(ctx, 3)
	require.NoError(t, err)
	assert.False(t, active)
	active, err = d.IsActive(ctx, 2)
	require.NoError(t, err)
	assert.False(t, active)

	many, err := d.GetMany(ctx, []int64{1, 2})
	require.NoError(t, err)
	assert.Len(t, many, 1)

}

func TestDirectory_ErrorClasses(t *testing.T) {
	ctx := context.Background()
	fake := &fakeUserModel{users: map[int64]*usermodel.User{}}
	d := NewDirectory(fake)

	fake.err = mysqlerr.ErrInvalidConn
	_, err := d.Get(ctx, 1)
	assert.True(t, registration.IsTransient(err))
	_, err = d.GetMany(ctx, []int64{1})
	assert.True(t, registration.IsTransient(err))

	fake.err = &mysqlerr.MySQLError{Number: 1146, Message: "Table 'users' doesn't exist"}
	_, err = d.Get(ctx, 1)
	assert.True(t, registration.IsPermanent(err))
	_, err = d.GetMany(ctx, []int64{1})
	assert.True(t, registration.IsPermanent(err))
	_, err = d.IsActive(ctx, 1)
	assert.True(t, registration.IsPermanent(err))

	fake.err = errors.New("corrupt row")
	_, err = d.Get(ctx, 1)
	assert.True(t, registration.IsPermanent(err))
}
