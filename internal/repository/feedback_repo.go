package repository

import (
	"context"

	"gorm.io/gorm"

	"campus-complaints/backend/internal/model"
)

// FeedbackRepository 评价数据访问接口
// complaint_id 上的唯一约束保证每条投诉最多一条评价，
// 重复插入由 GORM 翻译为 gorm.ErrDuplicatedKey，由服务层转为冲突错误
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *model.Feedback) error
	GetByComplaintID(ctx context.Context, complaintID string) (*model.Feedback, error)
}

// feedbackRepo FeedbackRepository 的 GORM 实现
type feedbackRepo struct {
	db *gorm.DB
}

// NewFeedbackRepo 创建 FeedbackRepository 实例
func NewFeedbackRepo(db *gorm.DB) FeedbackRepository {
	return &feedbackRepo{db: db}
}

func (r *feedbackRepo) Create(ctx context.Context, feedback *model.Feedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

func (r *feedbackRepo) GetByComplaintID(ctx context.Context, complaintID string) (*model.Feedback, error) {
	var feedback model.Feedback
	err := r.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		First(&feedback).Error
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}
