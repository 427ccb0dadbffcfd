// Package profile adapts the user model to the registration core's
// UserDirectory.
package profile

import (
	"context"
	"errors"

	"github.com/Wepsel/Ouderenapp/app/activity/model"
	"github.com/Wepsel/Ouderenapp/app/activity/registration"
	usermodel "github.com/Wepsel/Ouderenapp/app/user/model"
)

// Directory reads profiles on every call; the privacy flag is never cached.
type Directory struct {
	users usermodel.IUserModel
}

var _ registration.UserDirectory = (*Directory)(nil)

func NewDirectory(users usermodel.IUserModel) *Directory {
	return &Directory{users: users}
}

func (d *Directory) Get(ctx context.Context, id int64) (*registration.User, error) {
	u, err := d.users.FindByUserID(ctx, id)
	if err != nil {
		if errors.Is(err, usermodel.ErrUserNotFound) {
			return nil, registration.ErrUserNotFound
		}
		return nil, model.Classify("get user", err)
	}
	out := toUser(u)
	return &out, nil
}

func (d *Directory) GetMany(ctx context.Context, ids []int64) (map[int64]*registration.User, error) {
	rows, err := d.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, model.Classify("get users", err)
	}
	result := make(map[int64]*registration.User, len(rows))
	for _, row := range rows {
		u := toUser(row)
		result[u.ID] = &u
	}
	return result, nil
}

// SetAnonymous updates the privacy preference.
func (d *Directory) SetAnonymous(ctx context.Context, id int64, anonymous bool) error {
	err := d.users.UpdatePrivacy(ctx, id, anonymous)
	if errors.Is(err, usermodel.ErrUserNotFound) {
		return registration.ErrUserNotFound
	}
	return model.Classify("update privacy", err)
}

// IsActive reports whether the account exists and is not disabled.
func (d *Directory) IsActive(ctx context.Context, id int64) (bool, error) {
	u, err := d.users.FindByUserID(ctx, id)
	if errors.Is(err, usermodel.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, model.Classify("check account", err)
	}
	return u.Status == usermodel.UserStatusNormal, nil
}

func toUser(u *usermodel.User) registration.User {
	return registration.User{
		ID:                     u.UserID,
		DisplayName:            u.DisplayName,
		Phone:                  u.Phone,
		Village:                u.Village,
		Neighborhood:           u.Neighborhood,
		AnonymousParticipation: u.AnonymousParticipation,
	}
}
