package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-complaints/backend/config"
	"campus-complaints/backend/internal/dto"
	"campus-complaints/backend/internal/model"
	"campus-complaints/backend/internal/repository"
	pkgerrors "campus-complaints/backend/pkg/errors"
	"campus-complaints/backend/pkg/mailer"
)

// AttachmentMeta 已落盘附件的引用信息，由上传边界校验并填写
type AttachmentMeta struct {
	Path string
	Size int64
	Mime string
}

// ComplaintService 投诉生命周期业务接口
type ComplaintService interface {
	// 创建投诉（仅学生），编号分配与首条历史在同一事务
	Create(ctx context.Context, req *dto.CreateComplaintRequest, attachment *AttachmentMeta, callerID, callerRole string) (*dto.ComplaintDetailResponse, error)
	// 按编号查看详情（角色与关系裁剪）
	Get(ctx context.Context, complaintNo, callerID, callerRole string) (*dto.ComplaintDetailResponse, error)
	// 列表查询（学生只看自己创建的，教职工只看指派给自己的）
	List(ctx context.Context, req *dto.ComplaintListRequest, callerID, callerRole string) ([]dto.ComplaintListItemResponse, int64, error)
	// 指派处理人（仅管理员），待处理投诉同时推进为处理中
	Assign(ctx context.Context, complaintNo string, req *dto.AssignComplaintRequest, callerID, callerRole string) (*dto.ComplaintDetailResponse, error)
	// 按状态机推进状态，乐观锁校验版本
	UpdateStatus(ctx context.Context, complaintNo string, req *dto.UpdateStatusRequest, callerID, callerRole string) (*dto.ComplaintDetailResponse, error)
	// 重新打开（功能开关控制），回退到待处理并记录独立历史条目
	Reopen(ctx context.Context, complaintNo string, req *dto.ReopenComplaintRequest, callerID, callerRole string) (*dto.ComplaintDetailResponse, error)
	// 审计轨迹（时间升序）
	History(ctx context.Context, complaintNo, callerID, callerRole string) ([]dto.HistoryEntryResponse, error)
	// 仪表盘统计（统计范围与列表一致）
	Stats(ctx context.Context, callerID, callerRole string) (*dto.StatsResponse, error)
}

type complaintService struct {
	cfg    *config.Config
	repo   *repository.Repository
	mailer *mailer.Mailer
	logger *zap.Logger
}

// NewComplaintService 创建 ComplaintService 实例
func NewComplaintService(
	cfg *config.Config,
	repo *repository.Repository,
	m *mailer.Mailer,
	logger *zap.Logger,
) ComplaintService {
	return &complaintService{cfg: cfg, repo: repo, mailer: m, logger: logger}
}

// getByNo 按编号查询，不存在时返回资源不存在错误
func (s *complaintService) getByNo(ctx context.Context, complaintNo string) (*model.Complaint, error) {
	complaint, err := s.repo.Complaint.GetByNo(ctx, complaintNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NewNotFound("投诉", complaintNo)
		}
		s.logger.Error("查询投诉失败", zap.String("complaint_no", complaintNo), zap.Error(err))
		return nil, err
	}
	return complaint, nil
}

// ════════════════════════════════════════════════════════════
// Create — 创建投诉
// ════════════════════════════════════════════════════════════

func (s *complaintService) Create(ctx context.Context, req *dto.CreateComplaintRequest, attachment *AttachmentMeta, callerID, callerRole string) (*dto.ComplaintDetailResponse, error) {
	// 1. 鉴权：只有学生可创建
	if err := authorize(callerRole, OpCreateComplaint, callerID, nil); err != nil {
		return nil, err
	}

	// 2. 校验分类引用
	category, err := s.repo.Category.GetByID(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NewValidation("category_id", "分类不存在")
		}
		s.logger.Error("查询分类失败", zap.Error(err))
		return nil, err
	}

	var subcategoryID *string
	if req.SubcategoryID != "" {
		sub, err := s.repo.Category.GetSubcategoryByID(ctx, req.SubcategoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.NewValidation("subcategory_id", "子分类不存在")
			}
			s.logger.Error("查询子分类失败", zap.Error(err))
			return nil, err
		}
		if sub.CategoryID != category.CategoryID {
			return nil, pkgerrors.NewValidation("subcategory_id", "子分类不属于所选分类")
		}
		subcategoryID = &sub.SubcategoryID
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	// 3. 组装实体，编号在仓储事务内分配
	complaint := &model.Complaint{
		Title:         req.Title,
		Description:   req.Description,
		CategoryID:    category.CategoryID,
		SubcategoryID: subcategoryID,
		CreatorID:     callerID,
		Status:        model.StatusPending,
		Priority:      priority,
	}
	complaint.CreatedBy = &callerID
	complaint.UpdatedBy = &callerID
	if attachment != nil {
		complaint.AttachmentPath = &attachment.Path
		complaint.AttachmentSize = &attachment.Size
		complaint.AttachmentMime = &attachment.Mime
	}

	history := &model.ComplaintHistory{
		ChangedBy: callerID,
		Kind:      model.HistoryKindCreated,
		ToStatus:  model.StatusPending,
	}

	if err := s.repo.Complaint.Create(ctx, complaint, history); err != nil {
		s.logger.Error("创建投诉失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("投诉已创建",
		zap.String("complaint_no", complaint.ComplaintNo),
		zap.String("creator_id", callerID),
	)

	// 4. 通知管理员（尽力而为，失败不影响创建结果）
	s.notifyAdmins(ctx, complaint, fmt.Sprintf("新投诉 %s：%s", complaint.ComplaintNo, complaint.Title))

	return s.toDetail(ctx, complaint.ComplaintNo)
}

// ════════════════════════════════════════════════════════════
// Assign — 指派处理人
// ════════════════════════════════════════════════════════════

func (s *complaintService) Assign(ctx context.Context, complaintNo string, req *dto.AssignComplaintRequest, callerID, callerRole string) (*dto.ComplaintDetailResponse, error) {
	complaint, err := s.getByNo(ctx, complaintNo)
	if err != nil {
		return nil, err
	}

	if err := authorize(callerRole, OpAssignComplaint, callerID, complaint); err != nil {
		return nil, err
	}

	// 已关闭的投诉不可再指派
	if complaint.Status == model.StatusClosed {
		return nil, pkgerrors.NewState(complaint.Status, model.StatusInProgress)
	}

	// 受理人必须是教职工
	assignee, err := s.repo.User.GetByID(ctx, req.AssigneeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NewValidation("assignee_id", "受理人不存在")
		}
		s.logger.Error("查询受理人失败", zap.Error(err))
		return nil, err
	}
	if assignee.Role != model.RoleFaculty {
		return nil, pkgerrors.NewValidation("assignee_id", "受理人必须是教职工")
	}

	fromStatus := complaint.Status
	complaint.AssigneeID = &assignee.UserID
	// 待处理的投诉指派后进入处理中
	if complaint.Status == model.StatusPending {
		complaint.Status = model.StatusInProgress
	}
	complaint.UpdatedBy = &callerID

	history := &model.ComplaintHistory{
		ChangedBy:  callerID,
		Kind:       model.HistoryKindAssigned,
		FromStatus: fromStatus,
		ToStatus:   complaint.Status,
		Remarks:    req.Remarks,
	}

	if err := s.repo.Complaint.UpdateWithHistory(ctx, complaint, history); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, pkgerrors.WrapConflict("投诉已被其他操作修改", err)
		}
		s.logger.Error("指派投诉失败", zap.String("complaint_no", complaintNo), zap.Error(err))
		return nil, err
	}

	s.logger.Info("投诉已指派",
		zap.String("complaint_no", complaintNo),
		zap.String("assignee_id", assignee.UserID),
	)

	s.notify(ctx, assignee.UserID, complaint.ComplaintNo,
		fmt.Sprintf("您被指派处理投诉 %s：%s", complaint.ComplaintNo, complaint.Title))
	s.notify(ctx, complaint.CreatorID, complaint.ComplaintNo,
		fmt.Sprintf("您的投诉 %s 已受理", complaint.ComplaintNo))
	s.mailer.Send(assignee.Email,
		fmt.Sprintf("投诉指派通知 - %s", complaint.ComplaintNo),
		fmt.Sprintf("您被指派处理投诉 %s：%s", complaint.ComplaintNo, complaint.Title))

	return s.toDetail(ctx, complaint.ComplaintNo)
}

// ════════════════════════════════════════════════════════════
// UpdateStatus — 状态机推进
// ════════════════════════════════════════════════════════════

func (s *complaintService) UpdateStatus(ctx context.Context, complaintNo string, req *dto.UpdateStatusRequest, callerID, callerRole string) (*dto.ComplaintDetailResponse, error) {
	complaint, err := s.getByNo(ctx, complaintNo)
	if err != nil {
		return nil, err
	}

	// 1. 角色/关系鉴权，先于状态机校验
	if err := authorize(callerRole, OpUpdateStatus, callerID, complaint); err != nil {
		return nil, err
	}
	// 关闭只允许管理员，对教职工是权限错误而非状态错误
	if req.Status == model.StatusClosed && callerRole != model.RoleAdmin {
		return nil, pkgerrors.NewPermission(callerRole, OpUpdateStatus)
	}

	// 2. 状态机校验
	if err := checkTransition(complaint.Status, req.Status); err != nil {
		return nil, err
	}

	// 标记已解决必须附备注
	if req.Status == model.StatusResolved && req.Remarks == "" {
		return nil, pkgerrors.NewValidation("remarks", "标记已解决需填写处理说明")
	}

	// 3. 乐观锁：以调用方读到的版本为条件提交
	fromStatus := complaint.Status
	complaint.Version = req.Version
	complaint.Status = req.Status
	complaint.UpdatedBy = &callerID
	if req.Status == model.StatusResolved {
		now := nowUTC()
		complaint.ResolvedAt = &now
	}
	if callerRole == model.RoleAdmin && req.Remarks != "" {
		complaint.AdminRemarks = req.Remarks
	} else if req.Remarks != "" {
		complaint.Remarks = req.Remarks
	}

	history := &model.ComplaintHistory{
		ChangedBy:  callerID,
		Kind:       model.HistoryKindStatusChanged,
		FromStatus: fromStatus,
		ToStatus:   req.Status,
		Remarks:    req.Remarks,
	}

	if err := s.repo.Complaint.UpdateWithHistory(ctx, complaint, history); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, pkgerrors.WrapConflict("投诉已被其他操作修改，请刷新后重试", err)
		}
		s.logger.Error("更新投诉状态失败", zap.String("complaint_no", complaintNo), zap.Error(err))
		return nil, err
	}

	s.logger.Info("投诉状态已更新",
		zap.String("complaint_no", complaintNo),
		zap.String("from", fromStatus),
		zap.String("to", req.Status),
	)

	// 4. 通知创建者
	message := fmt.Sprintf("您的投诉 %s 状态更新为%s", complaint.ComplaintNo, statusLabel(req.Status))
	if req.Status == model.StatusResolved {
		message += "，可对处理结果进行评价"
	}
	s.notify(ctx, complaint.CreatorID, complaint.ComplaintNo, message)
	if complaint.Creator != nil {
		s.mailer.Send(complaint.Creator.Email,
			fmt.Sprintf("投诉状态更新 - %s", complaint.ComplaintNo), message)
	}

	return s.toDetail(ctx, complaint.ComplaintNo)
}

// ════════════════════════════════════════════════════════════
// Reopen — 重新打开（配置开关）
// ════════════════════════════════════════════════════════════

func (s *complaintService) Reopen(ctx context.Context, complaintNo string, req *dto.ReopenComplaintRequest, callerID, callerRole string) (*dto.ComplaintDetailResponse, error) {
	complaint, err := s.getByNo(ctx, complaintNo)
	if err != nil {
		return nil, err
	}

	if err := authorize(callerRole, OpReopenComplaint, callerID, complaint); err != nil {
		return nil, err
	}

	// 功能关闭时，重开不属于合法迁移
	if !s.cfg.Feature.ReopenEnabled {
		return nil, pkgerrors.NewState(complaint.Status, model.StatusPending)
	}
	if complaint.Status != model.StatusResolved && complaint.Status != model.StatusClosed {
		return nil, pkgerrors.NewState(complaint.Status, model.StatusPending)
	}

	fromStatus := complaint.Status
	complaint.Version = req.Version
	complaint.Status = model.StatusPending
	complaint.ResolvedAt = nil
	complaint.UpdatedBy = &callerID

	history := &model.ComplaintHistory{
		ChangedBy:  callerID,
		Kind:       model.HistoryKindReopened,
		FromStatus: fromStatus,
		ToStatus:   model.StatusPending,
		Remarks:    req.Remarks,
	}

	if err := s.repo.Complaint.UpdateWithHistory(ctx, complaint, history); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, pkgerrors.WrapConflict("投诉已被其他操作修改，请刷新后重试", err)
		}
		s.logger.Error("重新打开投诉失败", zap.String("complaint_no", complaintNo), zap.Error(err))
		return nil, err
	}

	s.logger.Info("投诉已重新打开",
		zap.String("complaint_no", complaintNo),
		zap.String("actor_id", callerID),
	)

	if complaint.AssigneeID != nil {
		s.notify(ctx, *complaint.AssigneeID, complaint.ComplaintNo,
			fmt.Sprintf("投诉 %s 已被重新打开", complaint.ComplaintNo))
	}
	s.notifyAdmins(ctx, complaint, fmt.Sprintf("投诉 %s 已被重新打开", complaint.ComplaintNo))

	return s.toDetail(ctx, complaint.ComplaintNo)
}

// ════════════════════════════════════════════════════════════
// 查询
// ════════════════════════════════════════════════════════════

func (s *complaintService) Get(ctx context.Context, complaintNo, callerID, callerRole string) (*dto.ComplaintDetailResponse, error) {
	complaint, err := s.getByNo(ctx, complaintNo)
	if err != nil {
		return nil, err
	}
	if err := authorize(callerRole, OpViewComplaint, callerID, complaint); err != nil {
		return nil, err
	}
	return buildDetail(complaint), nil
}

// scopeFilters 把调用者角色折算进查询过滤条件
func scopeFilters(req *dto.ComplaintListRequest, callerID, callerRole string) *repository.ComplaintListFilters {
	filters := &repository.ComplaintListFilters{}
	if req != nil {
		filters.Status = req.Status
		filters.Priority = req.Priority
		filters.CategoryID = req.CategoryID
		filters.AssigneeID = req.AssigneeID
		filters.CreatorID = req.CreatorID
		filters.Search = req.Search
	}
	switch callerRole {
	case model.RoleStudent:
		filters.CreatorID = callerID
	case model.RoleFaculty:
		filters.AssigneeID = callerID
	}
	return filters
}

func (s *complaintService) List(ctx context.Context, req *dto.ComplaintListRequest, callerID, callerRole string) ([]dto.ComplaintListItemResponse, int64, error) {
	filters := scopeFilters(req, callerID, callerRole)

	complaints, total, err := s.repo.Complaint.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询投诉列表失败", zap.Error(err))
		return nil, 0, err
	}

	items := make([]dto.ComplaintListItemResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, buildListItem(&complaints[i]))
	}
	return items, total, nil
}

func (s *complaintService) History(ctx context.Context, complaintNo, callerID, callerRole string) ([]dto.HistoryEntryResponse, error) {
	complaint, err := s.getByNo(ctx, complaintNo)
	if err != nil {
		return nil, err
	}
	if err := authorize(callerRole, OpViewComplaint, callerID, complaint); err != nil {
		return nil, err
	}

	entries, err := s.repo.Complaint.ListHistory(ctx, complaint.ComplaintID)
	if err != nil {
		s.logger.Error("查询审计轨迹失败", zap.String("complaint_no", complaintNo), zap.Error(err))
		return nil, err
	}

	result := make([]dto.HistoryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		item := dto.HistoryEntryResponse{
			Kind:       entry.Kind,
			FromStatus: entry.FromStatus,
			ToStatus:   entry.ToStatus,
			Remarks:    entry.Remarks,
			Timestamp:  formatTime(entry.CreatedAt),
		}
		if entry.Actor != nil {
			item.ActorName = entry.Actor.Name
		}
		result = append(result, item)
	}
	return result, nil
}

func (s *complaintService) Stats(ctx context.Context, callerID, callerRole string) (*dto.StatsResponse, error) {
	// 统计范围与列表一致：学生/教职工只统计自己可见的投诉
	filters := scopeFilters(nil, callerID, callerRole)

	byStatus, err := s.repo.Complaint.CountByStatus(ctx, filters)
	if err != nil {
		s.logger.Error("统计状态分布失败", zap.Error(err))
		return nil, err
	}
	byPriority, err := s.repo.Complaint.CountByPriority(ctx, filters)
	if err != nil {
		s.logger.Error("统计优先级分布失败", zap.Error(err))
		return nil, err
	}
	byCategory, err := s.repo.Complaint.CountByCategory(ctx, filters)
	if err != nil {
		s.logger.Error("统计分类分布失败", zap.Error(err))
		return nil, err
	}
	avgSeconds, err := s.repo.Complaint.AvgResolutionSeconds(ctx, filters)
	if err != nil {
		s.logger.Error("统计平均处理时长失败", zap.Error(err))
		return nil, err
	}

	var total int64
	for _, count := range byStatus {
		total += count
	}

	return &dto.StatsResponse{
		Total:                total,
		ByStatus:             byStatus,
		ByPriority:           byPriority,
		ByCategory:           byCategory,
		AvgResolutionSeconds: avgSeconds,
	}, nil
}

// ── 通知辅助 ──

// notify 写入站内通知，失败只记日志
func (s *complaintService) notify(ctx context.Context, userID, complaintNo, message string) {
	notification := &model.Notification{
		UserID:      userID,
		Message:     message,
		ComplaintNo: complaintNo,
	}
	if err := s.repo.Notification.Create(ctx, notification); err != nil {
		s.logger.Warn("写入通知失败",
			zap.String("user_id", userID),
			zap.String("complaint_no", complaintNo),
			zap.Error(err),
		)
	}
}

// notifyAdmins 向全体管理员广播通知
func (s *complaintService) notifyAdmins(ctx context.Context, complaint *model.Complaint, message string) {
	admins, err := s.repo.User.ListByRole(ctx, model.RoleAdmin)
	if err != nil {
		s.logger.Warn("查询管理员列表失败", zap.Error(err))
		return
	}
	notifications := make([]model.Notification, 0, len(admins))
	for _, admin := range admins {
		notifications = append(notifications, model.Notification{
			UserID:      admin.UserID,
			Message:     message,
			ComplaintNo: complaint.ComplaintNo,
		})
	}
	if err := s.repo.Notification.CreateBatch(ctx, notifications); err != nil {
		s.logger.Warn("批量写入通知失败", zap.Error(err))
	}
}

// toDetail 提交后重新读取完整详情（带最新版本号与关联）
func (s *complaintService) toDetail(ctx context.Context, complaintNo string) (*dto.ComplaintDetailResponse, error) {
	complaint, err := s.getByNo(ctx, complaintNo)
	if err != nil {
		return nil, err
	}
	return buildDetail(complaint), nil
}
