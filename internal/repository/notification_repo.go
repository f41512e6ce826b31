package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"scm_dev_v1_202608/internal/model"
)

// ErrNotificationNotFound 目标公告不存在
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepository 公告仓储接口
type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	List(ctx context.Context, limit int) ([]model.Notification, error)
	Update(ctx context.Context, notification *model.Notification) error
	GetByID(ctx context.Context, id int64) (*model.Notification, error)
	Delete(ctx context.Context, id int64) error
}

type notificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepository 创建公告仓储
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, notification *model.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepo) List(ctx context.Context, limit int) ([]model.Notification, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var notifications []model.Notification
	err := r.db.WithContext(ctx).
		Order("is_pinned DESC, created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepo) GetByID(ctx context.Context, id int64) (*model.Notification, error) {
	var notification model.Notification
	err := r.db.WithContext(ctx).First(&notification, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepo) Update(ctx context.Context, notification *model.Notification) error {
	return r.db.WithContext(ctx).Save(notification).Error
}

func (r *notificationRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Notification{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
