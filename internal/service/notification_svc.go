package service

import (
	"context"
	"encoding/json"

	"scm_dev_v1_202608/internal/api/dto"
	"scm_dev_v1_202608/internal/model"
	"scm_dev_v1_202608/internal/repository"
)

// NotificationService 公告服务
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService 创建公告服务
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// List 公告列表，置顶优先
func (s *NotificationService) List(ctx context.Context, limit int) ([]model.Notification, error) {
	return s.notificationRepo.List(ctx, limit)
}

// Create 发布公告
func (s *NotificationService) Create(ctx context.Context, req *dto.NotificationReq) (*model.Notification, error) {
	notification := &model.Notification{
		Title:    req.Title,
		Content:  req.Content,
		IsPinned: req.IsPinned,
	}
	if req.Meta != nil {
		meta, err := json.Marshal(req.Meta)
		if err != nil {
			return nil, err
		}
		notification.Meta = meta
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// Update 更新公告
func (s *NotificationService) Update(ctx context.Context, id int64, req *dto.NotificationReq) (*model.Notification, error) {
	notification, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	notification.Title = req.Title
	notification.Content = req.Content
	notification.IsPinned = req.IsPinned
	if req.Meta != nil {
		meta, err := json.Marshal(req.Meta)
		if err != nil {
			return nil, err
		}
		notification.Meta = meta
	}
	if err := s.notificationRepo.Update(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// Delete 删除公告
func (s *NotificationService) Delete(ctx context.Context, id int64) error {
	return s.notificationRepo.Delete(ctx, id)
}
