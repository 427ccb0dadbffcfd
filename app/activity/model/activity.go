package model

import (
	"context"
	"errors"
	"time"

	"github.com/Wepsel/Ouderenapp/app/activity/registration"

	"gorm.io/gorm"
)

// ==================== Activity model ====================

type Activity struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	Name        string `gorm:"type:varchar(100);not null;comment:activity name" json:"name"`
	Description string `gorm:"type:text;comment:activity description" json:"description"`
	Location    string `gorm:"type:varchar(200);not null;default:'';comment:display location" json:"location"`

	ActivityTime int64 `gorm:"index:idx_activity_time;not null;comment:start time (unix seconds)" json:"activity_time"`

	// Capacity and admission counter. current_participants is only written
	// by the capacity guard methods below.
	Capacity            uint32 `gorm:"not null;default:0;comment:max participants" json:"capacity"`
	CurrentParticipants uint32 `gorm:"not null;default:0;comment:admitted participants" json:"current_participants"`

	Version uint32 `gorm:"default:0;comment:row version" json:"version"`

	CreatedAt int64          `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt int64          `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Activity) TableName() string {
	return "activities"
}

// ToDomain converts the row to the registration core's Activity.
func (a *Activity) ToDomain() registration.Activity {
	return registration.Activity{
		ID:              a.ID,
		Name:            a.Name,
		Description:     a.Description,
		Location:        a.Location,
		Date:            time.Unix(a.ActivityTime, 0),
		Capacity:        int(a.Capacity),
		RegisteredCount: int(a.CurrentParticipants),
		CreatedAt:       time.Unix(a.CreatedAt, 0),
		UpdatedAt:       time.Unix(a.UpdatedAt, 0),
	}
}

// ==================== ActivityModel data access ====================

// ActivityModel is the MySQL ActivityRepository. It is also a CapacityGuard
// whose counter is the current_participants column.
type ActivityModel struct {
	db *gorm.DB
}

func NewActivityModel(db *gorm.DB) *ActivityModel {
	return &ActivityModel{db: db}
}

var (
	_ registration.ActivityRepository = (*ActivityModel)(nil)
	_ registration.CapacityGuard      = (*ActivityModel)(nil)
)

// FindByID returns the raw row.
func (m *ActivityModel) FindByID(ctx context.Context, id uint64) (*Activity, error) {
	var activity Activity
	err := m.db.WithContext(ctx).
		Where("id = ?", id).
		First(&activity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, registration.ErrActivityNotFound
		}
		return nil, Classify("find activity", err)
	}
	return &activity, nil
}

func (m *ActivityModel) Get(ctx context.Context, id uint64) (*registration.Activity, error) {
	row, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a := row.ToDomain()
	return &a, nil
}

// Save creates the activity when ID is zero and updates it otherwise.
// current_participants is never part of the write.
func (m *ActivityModel) Save(ctx context.Context, activity *registration.Activity) error {
	if err := activity.Validate(); err != nil {
		return err
	}

	if activity.ID == 0 {
		row := Activity{
			Name:         activity.Name,
			Description:  activity.Description,
			Location:     activity.Location,
			ActivityTime: activity.Date.Unix(),
			Capacity:     uint32(activity.Capacity),
		}
		if err := m.db.WithContext(ctx).Omit("current_participants").Create(&row).Error; err != nil {
			return Classify("create activity", err)
		}
		*activity = row.ToDomain()
		return nil
	}

	result := m.db.WithContext(ctx).
		Model(&Activity{}).
		Where("id = ?", activity.ID).
		Updates(map[string]interface{}{
			"name":          activity.Name,
			"description":   activity.Description,
			"location":      activity.Location,
			"activity_time": activity.Date.Unix(),
			"capacity":      uint32(activity.Capacity),
			"version":       gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return Classify("update activity", result.Error)
	}
	if result.RowsAffected == 0 {
		return registration.ErrActivityNotFound
	}

	saved, err := m.Get(ctx, activity.ID)
	if err != nil {
		return err
	}
	*activity = *saved
	return nil
}

// GetMany loads activities by id, skipping missing ones.
func (m *ActivityModel) GetMany(ctx context.Context, ids []uint64) ([]registration.Activity, error) {
	if len(ids) == 0 {
		return []registration.Activity{}, nil
	}
	var rows []Activity
	if err := m.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, Classify("find activities", err)
	}
	return toDomainList(rows), nil
}

// ListUpcoming returns activities starting at or after from, soonest first.
func (m *ActivityModel) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]registration.Activity, error) {
	if limit <= 0 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	var rows []Activity
	err := m.db.WithContext(ctx).
		Where("activity_time >= ?", from.Unix()).
		Order("activity_time ASC, id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, Classify("list upcoming activities", err)
	}
	return toDomainList(rows), nil
}

// ListIDsFrom returns the ids of activities starting at or after from, for
// counter reconciliation.
func (m *ActivityModel) ListIDsFrom(ctx context.Context, from time.Time, limit int) ([]uint64, error) {
	var ids []uint64
	err := m.db.WithContext(ctx).
		Model(&Activity{}).
		Where("activity_time >= ?", from.Unix()).
		Order("activity_time ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, Classify("list activity ids", err)
	}
	return ids, nil
}

func toDomainList(rows []Activity) []registration.Activity {
	result := make([]registration.Activity, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].ToDomain())
	}
	return result
}

// ==================== Capacity guard ====================

// TryAdmit increments current_participants in a single conditional UPDATE.
// The stored capacity column is authoritative, so an administrator lowering
// it takes effect immediately; the capacity argument only signals an unknown
// activity when negative.
func (m *ActivityModel) TryAdmit(ctx context.Context, activityID uint64, capacity int) error {
	if capacity < 0 {
		return registration.ErrActivityNotFound
	}
	result := m.db.WithContext(ctx).
		Model(&Activity{}).
		Where("id = ? AND current_participants < capacity", activityID).
		UpdateColumn("current_participants", gorm.Expr("current_participants + 1"))
	if result.Error != nil {
		return Classify("admit", result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	exists, err := m.exists(ctx, activityID)
	if err != nil {
		return err
	}
	if !exists {
		return registration.ErrActivityNotFound
	}
	return registration.ErrCapacityExceeded
}

// Release decrements current_participants, never below zero.
func (m *ActivityModel) Release(ctx context.Context, activityID uint64) error {
	result := m.db.WithContext(ctx).
		Model(&Activity{}).
		Where("id = ? AND current_participants > 0", activityID).
		UpdateColumn("current_participants", gorm.Expr("current_participants - 1"))
	if result.Error != nil {
		return Classify("release", result.Error)
	}
	return nil
}

func (m *ActivityModel) Count(ctx context.Context, activityID uint64) (int, error) {
	row, err := m.FindByID(ctx, activityID)
	if err != nil {
		return 0, err
	}
	return int(row.CurrentParticipants), nil
}

// ShrinkParticipantCount lowers current_participants by excess, but only
// while the column still holds observed. It reports false when the counter
// moved in between.
func (m *ActivityModel) ShrinkParticipantCount(ctx context.Context, activityID uint64, observed, excess int) (bool, error) {
	if excess <= 0 || excess > observed {
		return false, nil
	}
	result := m.db.WithContext(ctx).
		Model(&Activity{}).
		Where("id = ? AND current_participants = ?", activityID, observed).
		UpdateColumn("current_participants", gorm.Expr("current_participants - ?", excess))
	if result.Error != nil {
		return false, Classify("shrink participant count", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (m *ActivityModel) exists(ctx context.Context, activityID uint64) (bool, error) {
	var count int64
	err := m.db.WithContext(ctx).
		Model(&Activity{}).
		Where("id = ?", activityID).
		Count(&count).Error
	if err != nil {
		return false, Classify("check activity", err)
	}
	return count > 0, nil
}
