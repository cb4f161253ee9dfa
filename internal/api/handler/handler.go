package handler

import (
	"campus-complaints/backend/config"
	"campus-complaints/backend/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Category     *CategoryHandler
	Complaint    *ComplaintHandler
	Notification *NotificationHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User),
		Category:     NewCategoryHandler(svc.Category),
		Complaint:    NewComplaintHandler(cfg, svc.Complaint, svc.Feedback),
		Notification: NewNotificationHandler(svc.Notification),
		Export:       NewExportHandler(svc.Export),
	}
}
