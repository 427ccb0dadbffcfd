package model

import (
	"context"
	"errors"
	"time"

	"github.com/Wepsel/Ouderenapp/app/activity/registration"

	"gorm.io/gorm"
)

// ==================== Registration status ====================

const (
	RegistrationStatusActive    int8 = 1
	RegistrationStatusCancelled int8 = 2
)

// ==================== ActivityRegistration model ====================

// ActivityRegistration is the single durable row of an (activity, user) pair.
// Re-registering after a cancellation reactivates the same row.
type ActivityRegistration struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	ActivityID uint64 `gorm:"uniqueIndex:uk_activity_user,priority:1;index:idx_activity_status,priority:1;not null;comment:activity id" json:"activity_id"`
	UserID     int64  `gorm:"uniqueIndex:uk_activity_user,priority:2;index:idx_user_status,priority:1;not null;comment:user id" json:"user_id"`

	Status       int8  `gorm:"default:1;index:idx_activity_status,priority:2;index:idx_user_status,priority:2;comment:1 active 2 cancelled" json:"status"`
	RegisteredAt int64 `gorm:"not null;comment:registered at (unix ms)" json:"registered_at"`
	CancelTime   int64 `gorm:"default:0;comment:cancelled at (unix ms)" json:"cancel_time"`

	CreatedAt int64 `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt int64 `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ActivityRegistration) TableName() string {
	return "activity_registrations"
}

func (r *ActivityRegistration) ToDomain() registration.Record {
	rec := registration.Record{
		ActivityID:   r.ActivityID,
		UserID:       r.UserID,
		Status:       registration.Status(r.Status),
		RegisteredAt: time.UnixMilli(r.RegisteredAt),
	}
	if r.CancelTime > 0 {
		rec.CancelledAt = time.UnixMilli(r.CancelTime)
	}
	return rec
}

// ==================== ActivityRegistrationModel data access ====================

// ActivityRegistrationModel is the MySQL registration Ledger.
type ActivityRegistrationModel struct {
	db *gorm.DB
}

func NewActivityRegistrationModel(db *gorm.DB) *ActivityRegistrationModel {
	return &ActivityRegistrationModel{db: db}
}

var _ registration.Ledger = (*ActivityRegistrationModel)(nil)

// FindByActivityUser returns the raw row for the pair.
func (m *ActivityRegistrationModel) FindByActivityUser(ctx context.Context, activityID uint64, userID int64) (*ActivityRegistration, error) {
	var reg ActivityRegistration
	err := m.db.WithContext(ctx).
		Where("activity_id = ? AND user_id = ?", activityID, userID).
		First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, registration.ErrNotRegistered
		}
		return nil, Classify("find registration", err)
	}
	return &reg, nil
}

func (m *ActivityRegistrationModel) Find(ctx context.Context, activityID uint64, userID int64) (*registration.Record, error) {
	reg, err := m.FindByActivityUser(ctx, activityID, userID)
	if err != nil {
		return nil, err
	}
	rec := reg.ToDomain()
	return &rec, nil
}

// Insert creates the pair's row, or reactivates it when it was cancelled.
// The unique index uk_activity_user turns a concurrent insert into
// ErrDuplicate.
func (m *ActivityRegistrationModel) Insert(ctx context.Context, record *registration.Record) error {
	registeredAt := record.RegisteredAt.UnixMilli()
	reg := ActivityRegistration{
		ActivityID:   record.ActivityID,
		UserID:       record.UserID,
		Status:       RegistrationStatusActive,
		RegisteredAt: registeredAt,
	}
	err := m.db.WithContext(ctx).Create(&reg).Error
	if err == nil {
		return nil
	}
	if !isDuplicateKeyErr(err) {
		return Classify("insert registration", err)
	}

	result := m.db.WithContext(ctx).
		Model(&ActivityRegistration{}).
		Where("activity_id = ? AND user_id = ? AND status <> ?",
			record.ActivityID, record.UserID, RegistrationStatusActive).
		Updates(map[string]interface{}{
			"status":        RegistrationStatusActive,
			"registered_at": registeredAt,
			"cancel_time":   0,
		})
	if result.Error != nil {
		return Classify("reactivate registration", result.Error)
	}
	if result.RowsAffected == 0 {
		return registration.ErrDuplicate
	}
	return nil
}

// Cancel moves the pair's Active row to Cancelled.
func (m *ActivityRegistrationModel) Cancel(ctx context.Context, activityID uint64, userID int64, at time.Time) error {
	result := m.db.WithContext(ctx).
		Model(&ActivityRegistration{}).
		Where("activity_id = ? AND user_id = ? AND status = ?", activityID, userID, RegistrationStatusActive).
		Updates(map[string]interface{}{
			"status":      RegistrationStatusCancelled,
			"cancel_time": at.UnixMilli(),
		})
	if result.Error != nil {
		return Classify("cancel registration", result.Error)
	}
	if result.RowsAffected == 0 {
		return registration.ErrNotRegistered
	}
	return nil
}

// ListByActivity returns the Active rows, oldest registration first.
func (m *ActivityRegistrationModel) ListByActivity(ctx context.Context, activityID uint64) ([]registration.Record, error) {
	var regs []ActivityRegistration
	err := m.db.WithContext(ctx).
		Where("activity_id = ? AND status = ?", activityID, RegistrationStatusActive).
		Order("registered_at ASC, user_id ASC").
		Find(&regs).Error
	if err != nil {
		return nil, Classify("list registrations", err)
	}
	return toRecords(regs), nil
}

func (m *ActivityRegistrationModel) ListByUser(ctx context.Context, userID int64) ([]registration.Record, error) {
	var regs []ActivityRegistration
	err := m.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, RegistrationStatusActive).
		Order("registered_at DESC").
		Find(&regs).Error
	if err != nil {
		return nil, Classify("list user registrations", err)
	}
	return toRecords(regs), nil
}

func (m *ActivityRegistrationModel) CountActive(ctx context.Context, activityID uint64) (int, error) {
	var count int64
	err := m.db.WithContext(ctx).
		Model(&ActivityRegistration{}).
		Where("activity_id = ? AND status = ?", activityID, RegistrationStatusActive).
		Count(&count).Error
	if err != nil {
		return 0, Classify("count registrations", err)
	}
	return int(count), nil
}

func toRecords(regs []ActivityRegistration) []registration.Record {
	result := make([]registration.Record, 0, len(regs))
	for i := range regs {
		result = append(result, regs[i].ToDomain())
	}
	return result
}
