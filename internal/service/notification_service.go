package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-complaints/backend/internal/dto"
	"campus-complaints/backend/internal/repository"
	pkgerrors "campus-complaints/backend/pkg/errors"
)

// NotificationService 站内通知业务接口
// 通知归属接收者本人，所有操作都以调用者自身为范围
type NotificationService interface {
	List(ctx context.Context, req *dto.NotificationListRequest, callerID string) ([]dto.NotificationResponse, int64, error)
	MarkRead(ctx context.Context, notificationID, callerID string) error
	MarkAllRead(ctx context.Context, callerID string) error
	UnreadCount(ctx context.Context, callerID string) (*dto.UnreadCountResponse, error)
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) List(ctx context.Context, req *dto.NotificationListRequest, callerID string) ([]dto.NotificationResponse, int64, error) {
	notifications, total, err := s.repo.Notification.ListByUser(ctx, callerID, req.UnreadOnly, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询通知列表失败", zap.String("user_id", callerID), zap.Error(err))
		return nil, 0, err
	}

	items := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, dto.NotificationResponse{
			ID:          n.NotificationID,
			Message:     n.Message,
			IsRead:      n.IsRead,
			ComplaintNo: n.ComplaintNo,
			CreatedAt:   formatTime(n.CreatedAt),
		})
	}
	return items, total, nil
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID, callerID string) error {
	// user_id 条件保证只能标记自己的通知
	if err := s.repo.Notification.MarkRead(ctx, callerID, notificationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.NewNotFound("通知", notificationID)
		}
		s.logger.Error("标记通知已读失败", zap.String("notification_id", notificationID), zap.Error(err))
		return err
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, callerID string) error {
	if err := s.repo.Notification.MarkAllRead(ctx, callerID); err != nil {
		s.logger.Error("全部标记已读失败", zap.String("user_id", callerID), zap.Error(err))
		return err
	}
	return nil
}

func (s *notificationService) UnreadCount(ctx context.Context, callerID string) (*dto.UnreadCountResponse, error) {
	count, err := s.repo.Notification.CountUnread(ctx, callerID)
	if err != nil {
		s.logger.Error("查询未读数量失败", zap.String("user_id", callerID), zap.Error(err))
		return nil, err
	}
	return &dto.UnreadCountResponse{Count: count}, nil
}
