package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-complaints/backend/internal/dto"
	"campus-complaints/backend/internal/model"
	"campus-complaints/backend/internal/repository"
	pkgerrors "campus-complaints/backend/pkg/errors"
)

// FeedbackService 投诉评价业务接口
// 每条投诉最多一条评价，仅创建者在已解决/已关闭状态下可提交
type FeedbackService interface {
	Create(ctx context.Context, complaintNo string, req *dto.CreateFeedbackRequest, callerID, callerRole string) (*dto.FeedbackResponse, error)
	Get(ctx context.Context, complaintNo, callerID, callerRole string) (*dto.FeedbackResponse, error)
}

type feedbackService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewFeedbackService 创建 FeedbackService 实例
func NewFeedbackService(repo *repository.Repository, logger *zap.Logger) FeedbackService {
	return &feedbackService{repo: repo, logger: logger}
}

func (s *feedbackService) Create(ctx context.Context, complaintNo string, req *dto.CreateFeedbackRequest, callerID, callerRole string) (*dto.FeedbackResponse, error) {
	complaint, err := s.repo.Complaint.GetByNo(ctx, complaintNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NewNotFound("投诉", complaintNo)
		}
		s.logger.Error("查询投诉失败", zap.String("complaint_no", complaintNo), zap.Error(err))
		return nil, err
	}

	// 1. 仅创建者可评价
	if err := authorize(callerRole, OpSubmitFeedback, callerID, complaint); err != nil {
		return nil, err
	}

	// 2. 仅已解决/已关闭可评价
	if complaint.Status != model.StatusResolved && complaint.Status != model.StatusClosed {
		return nil, pkgerrors.NewStateOp(complaint.Status, OpSubmitFeedback)
	}

	// 3. 依赖 complaint_id 唯一约束拦截重复提交
	feedback := &model.Feedback{
		ComplaintID: complaint.ComplaintID,
		UserID:      callerID,
		Rating:      req.Rating,
		Comments:    req.Comments,
	}
	if err := s.repo.Feedback.Create(ctx, feedback); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.NewConflict("该投诉已提交过评价")
		}
		s.logger.Error("创建评价失败", zap.String("complaint_no", complaintNo), zap.Error(err))
		return nil, err
	}

	s.logger.Info("评价已提交",
		zap.String("complaint_no", complaintNo),
		zap.Int("rating", req.Rating),
	)

	// 4. 通知受理人（尽力而为）
	if complaint.AssigneeID != nil {
		notification := &model.Notification{
			UserID:      *complaint.AssigneeID,
			Message:     fmt.Sprintf("投诉 %s 收到评价：%d 分", complaint.ComplaintNo, req.Rating),
			ComplaintNo: complaint.ComplaintNo,
		}
		if err := s.repo.Notification.Create(ctx, notification); err != nil {
			s.logger.Warn("写入评价通知失败", zap.Error(err))
		}
	}

	return &dto.FeedbackResponse{
		ComplaintNo: complaint.ComplaintNo,
		Rating:      feedback.Rating,
		Comments:    feedback.Comments,
		CreatedAt:   formatTime(feedback.CreatedAt),
	}, nil
}

func (s *feedbackService) Get(ctx context.Context, complaintNo, callerID, callerRole string) (*dto.FeedbackResponse, error) {
	complaint, err := s.repo.Complaint.GetByNo(ctx, complaintNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NewNotFound("投诉", complaintNo)
		}
		s.logger.Error("查询投诉失败", zap.String("complaint_no", complaintNo), zap.Error(err))
		return nil, err
	}

	if err := authorize(callerRole, OpViewComplaint, callerID, complaint); err != nil {
		return nil, err
	}

	feedback, err := s.repo.Feedback.GetByComplaintID(ctx, complaint.ComplaintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NewNotFound("评价", complaintNo)
		}
		s.logger.Error("查询评价失败", zap.String("complaint_no", complaintNo), zap.Error(err))
		return nil, err
	}

	return &dto.FeedbackResponse{
		ComplaintNo: complaint.ComplaintNo,
		Rating:      feedback.Rating,
		Comments:    feedback.Comments,
		CreatedAt:   formatTime(feedback.CreatedAt),
	}, nil
}
