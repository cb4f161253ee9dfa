package service

import (
	"time"

	"campus-complaints/backend/internal/dto"
	"campus-complaints/backend/internal/model"
)

// timeLayout 对外输出的统一时间格式
const timeLayout = "2006-01-02 15:04:05"

func nowUTC() time.Time {
	return time.Now().UTC()
}

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

// buildListItem 组装投诉列表项
func buildListItem(c *model.Complaint) dto.ComplaintListItemResponse {
	item := dto.ComplaintListItemResponse{
		ComplaintNo: c.ComplaintNo,
		Title:       c.Title,
		Status:      c.Status,
		Priority:    c.Priority,
		CreatedAt:   formatTime(c.CreatedAt),
		UpdatedAt:   formatTime(c.UpdatedAt),
	}
	if c.Category != nil {
		item.CategoryName = c.Category.Name
	}
	if c.Creator != nil {
		item.CreatorName = c.Creator.Name
	}
	if c.Assignee != nil {
		item.AssigneeName = c.Assignee.Name
	}
	return item
}

// buildDetail 组装投诉详情
func buildDetail(c *model.Complaint) *dto.ComplaintDetailResponse {
	detail := &dto.ComplaintDetailResponse{
		ComplaintNo:  c.ComplaintNo,
		Title:        c.Title,
		Description:  c.Description,
		Status:       c.Status,
		Priority:     c.Priority,
		Remarks:      c.Remarks,
		AdminRemarks: c.AdminRemarks,
		CreatedAt:    formatTime(c.CreatedAt),
		UpdatedAt:    formatTime(c.UpdatedAt),
		Version:      c.Version,
	}
	if c.Category != nil {
		detail.CategoryName = c.Category.Name
	}
	if c.Subcategory != nil {
		detail.SubcategoryName = c.Subcategory.Name
	}
	if c.Creator != nil {
		detail.CreatorName = c.Creator.Name
	}
	if c.Assignee != nil {
		detail.AssigneeName = c.Assignee.Name
	}
	if c.AttachmentPath != nil {
		attachment := &dto.AttachmentResponse{Path: *c.AttachmentPath}
		if c.AttachmentSize != nil {
			attachment.Size = *c.AttachmentSize
		}
		if c.AttachmentMime != nil {
			attachment.Mime = *c.AttachmentMime
		}
		detail.Attachment = attachment
	}
	if c.ResolvedAt != nil {
		detail.ResolvedAt = formatTime(*c.ResolvedAt)
	}
	return detail
}
