package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"campus-complaints/backend/internal/model"
	pkgerrors "campus-complaints/backend/pkg/errors"
)

// ComplaintListFilters 投诉列表过滤条件
// CreatorID / AssigneeID 同时承担角色范围裁剪（学生只看自己的，教职工只看指派给自己的）
type ComplaintListFilters struct {
	Status     string
	Priority   string
	CategoryID string
	AssigneeID string
	CreatorID  string
	Search     string // 按标题/描述/编号模糊匹配
	FromDate   *time.Time
	ToDate     *time.Time
}

// ComplaintRepository 投诉数据访问接口
//
// 原子性约定：
//   - Create 在单事务内完成编号分配、投诉插入和首条历史记录
//   - UpdateWithHistory 在单事务内完成乐观锁更新和历史追加，
//     版本不匹配返回 pkg/errors.ErrOptimisticLock，事务整体回滚
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *model.Complaint, history *model.ComplaintHistory) error
	GetByNo(ctx context.Context, complaintNo string) (*model.Complaint, error)
	List(ctx context.Context, filters *ComplaintListFilters, offset, limit int) ([]model.Complaint, int64, error)
	ListAll(ctx context.Context, filters *ComplaintListFilters) ([]model.Complaint, error)
	UpdateWithHistory(ctx context.Context, complaint *model.Complaint, history *model.ComplaintHistory) error
	ListHistory(ctx context.Context, complaintID string) ([]model.ComplaintHistory, error)
	CountByStatus(ctx context.Context, filters *ComplaintListFilters) (map[string]int64, error)
	CountByPriority(ctx context.Context, filters *ComplaintListFilters) (map[string]int64, error)
	CountByCategory(ctx context.Context, filters *ComplaintListFilters) (map[string]int64, error)
	AvgResolutionSeconds(ctx context.Context, filters *ComplaintListFilters) (*float64, error)
}

// complaintRepo ComplaintRepository 的 GORM 实现
type complaintRepo struct {
	db *gorm.DB
}

// NewComplaintRepo 创建 ComplaintRepository 实例
func NewComplaintRepo(db *gorm.DB) ComplaintRepository {
	return &complaintRepo{db: db}
}

// maxSeqRetries 编号唯一约束冲突时的最大重试次数
// 序列分配走行级锁，正常情况下不会冲突；重试只兜底异常路径
const maxSeqRetries = 3

func (r *complaintRepo) Create(ctx context.Context, complaint *model.Complaint, history *model.ComplaintHistory) error {
	var lastErr error

	for attempt := 0; attempt < maxSeqRetries; attempt++ {
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			now := time.Now().UTC()

			// 按日期 upsert 自增序列，RETURNING 拿到本次分配值
			// ON CONFLICT DO UPDATE 在行上持锁，并发创建串行通过
			var seq int
			if err := tx.Raw(`
				INSERT INTO complaint_sequences (seq_date, last_seq)
				VALUES (?, 1)
				ON CONFLICT (seq_date)
				DO UPDATE SET last_seq = complaint_sequences.last_seq + 1
				RETURNING last_seq`,
				now.Format("2006-01-02"),
			).Scan(&seq).Error; err != nil {
				return err
			}

			complaint.ComplaintNo = model.FormatComplaintNo(now, seq)

			if err := tx.Create(complaint).Error; err != nil {
				return err
			}

			history.ComplaintID = complaint.ComplaintID
			return tx.Create(history).Error
		})
		if err == nil {
			return nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			lastErr = err
			complaint.ComplaintID = ""
			continue
		}
		return err
	}

	return pkgerrors.WrapConflict("投诉编号分配冲突", lastErr)
}

func (r *complaintRepo) GetByNo(ctx context.Context, complaintNo string) (*model.Complaint, error) {
	var complaint model.Complaint
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Subcategory").
		Preload("Creator").
		Preload("Assignee").
		Where("complaint_no = ?", complaintNo).
		First(&complaint).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

// applyFilters 组装列表/统计共用的过滤条件
func applyFilters(db *gorm.DB, filters *ComplaintListFilters) *gorm.DB {
	if filters == nil {
		return db
	}
	if filters.Status != "" {
		db = db.Where("complaints.status = ?", filters.Status)
	}
	if filters.Priority != "" {
		db = db.Where("complaints.priority = ?", filters.Priority)
	}
	if filters.CategoryID != "" {
		db = db.Where("complaints.category_id = ?", filters.CategoryID)
	}
	if filters.AssigneeID != "" {
		db = db.Where("complaints.assignee_id = ?", filters.AssigneeID)
	}
	if filters.CreatorID != "" {
		db = db.Where("complaints.creator_id = ?", filters.CreatorID)
	}
	if filters.Search != "" {
		kw := "%" + filters.Search + "%"
		db = db.Where("complaints.title ILIKE ? OR complaints.description ILIKE ? OR complaints.complaint_no ILIKE ?", kw, kw, kw)
	}
	if filters.FromDate != nil {
		db = db.Where("complaints.created_at >= ?", *filters.FromDate)
	}
	if filters.ToDate != nil {
		db = db.Where("complaints.created_at < ?", filters.ToDate.AddDate(0, 0, 1))
	}
	return db
}

func (r *complaintRepo) List(ctx context.Context, filters *ComplaintListFilters, offset, limit int) ([]model.Complaint, int64, error) {
	var complaints []model.Complaint
	var total int64

	db := applyFilters(r.db.WithContext(ctx).Model(&model.Complaint{}), filters)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.
		Preload("Category").
		Preload("Creator").
		Preload("Assignee").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&complaints).Error; err != nil {
		return nil, 0, err
	}

	return complaints, total, nil
}

func (r *complaintRepo) ListAll(ctx context.Context, filters *ComplaintListFilters) ([]model.Complaint, error) {
	var complaints []model.Complaint
	db := applyFilters(r.db.WithContext(ctx).Model(&model.Complaint{}), filters)
	err := db.
		Preload("Category").
		Preload("Creator").
		Preload("Assignee").
		Order("created_at").
		Find(&complaints).Error
	if err != nil {
		return nil, err
	}
	return complaints, nil
}

func (r *complaintRepo) UpdateWithHistory(ctx context.Context, complaint *model.Complaint, history *model.ComplaintHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		oldVersion := complaint.Version

		// 编号与创建者不在更新列中：均为生成后不可变
		result := tx.Model(&model.Complaint{}).
			Where("complaint_id = ? AND version = ?", complaint.ComplaintID, oldVersion).
			Updates(map[string]interface{}{
				"status":          complaint.Status,
				"priority":        complaint.Priority,
				"assignee_id":     complaint.AssigneeID,
				"remarks":         complaint.Remarks,
				"admin_remarks":   complaint.AdminRemarks,
				"attachment_path": complaint.AttachmentPath,
				"attachment_size": complaint.AttachmentSize,
				"attachment_mime": complaint.AttachmentMime,
				"resolved_at":     complaint.ResolvedAt,
				"updated_at":      time.Now(),
				"updated_by":      complaint.UpdatedBy,
				"version":         oldVersion + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return pkgerrors.ErrOptimisticLock
		}
		complaint.Version = oldVersion + 1

		history.ComplaintID = complaint.ComplaintID
		return tx.Create(history).Error
	})
}

func (r *complaintRepo) ListHistory(ctx context.Context, complaintID string) ([]model.ComplaintHistory, error) {
	var entries []model.ComplaintHistory
	err := r.db.WithContext(ctx).
		Preload("Actor").
		Where("complaint_id = ?", complaintID).
		Order("created_at").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// statusCountRow GROUP BY 查询结果行
type statusCountRow struct {
	Key   string
	Count int64
}

func (r *complaintRepo) countGrouped(ctx context.Context, filters *ComplaintListFilters, column string) (map[string]int64, error) {
	var rows []statusCountRow
	db := applyFilters(r.db.WithContext(ctx).Model(&model.Complaint{}), filters)
	err := db.
		Select(column + " AS key, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Key] = row.Count
	}
	return result, nil
}

func (r *complaintRepo) CountByStatus(ctx context.Context, filters *ComplaintListFilters) (map[string]int64, error) {
	return r.countGrouped(ctx, filters, "complaints.status")
}

func (r *complaintRepo) CountByPriority(ctx context.Context, filters *ComplaintListFilters) (map[string]int64, error) {
	return r.countGrouped(ctx, filters, "complaints.priority")
}

func (r *complaintRepo) CountByCategory(ctx context.Context, filters *ComplaintListFilters) (map[string]int64, error) {
	var rows []statusCountRow
	db := applyFilters(r.db.WithContext(ctx).Model(&model.Complaint{}), filters)
	err := db.
		Joins("JOIN categories ON categories.category_id = complaints.category_id").
		Select("categories.name AS key, COUNT(*) AS count").
		Group("categories.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Key] = row.Count
	}
	return result, nil
}

func (r *complaintRepo) AvgResolutionSeconds(ctx context.Context, filters *ComplaintListFilters) (*float64, error) {
	var avg *float64
	db := applyFilters(r.db.WithContext(ctx).Model(&model.Complaint{}), filters)
	err := db.
		Where("complaints.resolved_at IS NOT NULL").
		Select("AVG(EXTRACT(EPOCH FROM (complaints.resolved_at - complaints.created_at)))").
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	return avg, nil
}
