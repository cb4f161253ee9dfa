package service

import (
	"go.uber.org/zap"

	"campus-complaints/backend/config"
	"campus-complaints/backend/internal/repository"
	"campus-complaints/backend/pkg/jwt"
	"campus-complaints/backend/pkg/mailer"
	"campus-complaints/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	User         UserService
	Category     CategoryService
	Complaint    ComplaintService
	Feedback     FeedbackService
	Notification NotificationService
	Export       ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	m *mailer.Mailer,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		User:         NewUserService(repo, logger),
		Category:     NewCategoryService(repo, logger),
		Complaint:    NewComplaintService(cfg, repo, m, logger),
		Feedback:     NewFeedbackService(repo, logger),
		Notification: NewNotificationService(repo, logger),
		Export:       NewExportService(repo, logger),
	}
}
