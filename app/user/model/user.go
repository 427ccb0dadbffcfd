package model

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// UserStatus values
const (
	// UserStatusDisabled disabled by an administrator
	UserStatusDisabled int64 = 0
	// UserStatusNormal normal
	UserStatusNormal int64 = 1
	// UserStatusDeleted account removed
	UserStatusDeleted int64 = 2
)

// ErrUserNotFound is returned when no usable user row exists.
var ErrUserNotFound = errors.New("user not found")

// User is a resident's profile.
type User struct {
	// primary key
	UserID int64 `gorm:"primaryKey;autoIncrement;column:user_id" json:"user_id"`
	// name shown to other residents unless anonymous
	DisplayName string `gorm:"column:display_name;size:100;not null" json:"display_name"`
	// contact phone, never shown in attendee lists
	Phone string `gorm:"column:phone;size:20;default:''" json:"phone"`
	// village and neighborhood are the coarse location shown for anonymous participants
	Village      string `gorm:"column:village;size:100;default:''" json:"village"`
	Neighborhood string `gorm:"column:neighborhood;size:100;default:''" json:"neighborhood"`
	// hide the display name in attendee lists
	AnonymousParticipation bool `gorm:"column:anonymous_participation;not null;default:false" json:"anonymous_participation"`
	// 0 disabled, 1 normal, 2 deleted
	Status int64 `gorm:"column:status;not null;default:1" json:"status"`
	// created
	CreateTime time.Time `gorm:"column:create_time;autoCreateTime" json:"create_time"`
	// last profile update
	UpdateTime time.Time `gorm:"column:update_time;autoUpdateTime" json:"update_time"`
}

// TableName of the users table
func (User) TableName() string {
	return "users"
}

// IUserModel is the user data access interface.
type IUserModel interface {
	// Create inserts a user
	Create(ctx context.Context, user *User) error
	// FindByUserID returns ErrUserNotFound for missing or deleted users
	FindByUserID(ctx context.Context, userID int64) (*User, error)
	// FindByIDs skips missing and deleted users
	FindByIDs(ctx context.Context, ids []int64) ([]*User, error)
	// UpdatePrivacy sets anonymous_participation
	UpdatePrivacy(ctx context.Context, userID int64, anonymous bool) error
}

var _ IUserModel = (*UserModel)(nil)

// UserModel is the MySQL IUserModel.
type UserModel struct {
	db *gorm.DB
}

// NewUserModel creates a UserModel.
func NewUserModel(db *gorm.DB) IUserModel {
	return &UserModel{db: db}
}

// Create inserts a user.
func (m *UserModel) Create(ctx context.Context, user *User) error {
	return m.db.WithContext(ctx).Create(user).Error
}

// FindByUserID loads a user that is not deleted.
func (m *UserModel) FindByUserID(ctx context.Context, userID int64) (*User, error) {
	var user User
	err := m.db.WithContext(ctx).
		Where("user_id = ? AND status <> ?", userID, UserStatusDeleted).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByIDs loads users by id.
func (m *UserModel) FindByIDs(ctx context.Context, ids []int64) ([]*User, error) {
	if len(ids) == 0 {
		return []*User{}, nil
	}
	var users []*User
	err := m.db.WithContext(ctx).
		Where("user_id IN ? AND status <> ?", ids, UserStatusDeleted).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// UpdatePrivacy sets the anonymous participation preference.
func (m *UserModel) UpdatePrivacy(ctx context.Context, userID int64, anonymous bool) error {
	result := m.db.WithContext(ctx).
		Model(&User{}).
		Where("user_id = ? AND status <> ?", userID, UserStatusDeleted).
		Update("anonymous_participation", anonymous)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// MySQL reports 0 affected rows when the value did not change.
		if _, err := m.FindByUserID(ctx, userID); err != nil {
			return err
		}
	}
	return nil
}
