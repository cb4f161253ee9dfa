package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User         UserRepository
	Category     CategoryRepository
	Complaint    ComplaintRepository
	Feedback     FeedbackRepository
	Notification NotificationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:         NewUserRepo(db),
		Category:     NewCategoryRepo(db),
		Complaint:    NewComplaintRepo(db),
		Feedback:     NewFeedbackRepo(db),
		Notification: NewNotificationRepo(db),
	}
}
