package dto

// ── 投诉模块 DTO ──

// CreateComplaintRequest 创建投诉请求（仅学生）
// 附件走 multipart 表单，同时保留 JSON 提交（无附件场景）
type CreateComplaintRequest struct {
	Title         string `json:"title"          form:"title"          binding:"required,min=5,max=200"`
	Description   string `json:"description"    form:"description"    binding:"required,min=10"`
	CategoryID    string `json:"category_id"    form:"category_id"    binding:"required,uuid"`
	SubcategoryID string `json:"subcategory_id" form:"subcategory_id" binding:"omitempty,uuid"`
	Priority      string `json:"priority"       form:"priority"       binding:"omitempty,oneof=LOW MEDIUM HIGH"`
}

// AssignComplaintRequest 指派投诉请求（仅管理员）
type AssignComplaintRequest struct {
	AssigneeID string `json:"assignee_id" binding:"required,uuid"`
	Remarks    string `json:"remarks"     binding:"omitempty,max=500"`
}

// UpdateStatusRequest 更新状态请求
// Version 为调用方最后读到的版本号，用于乐观并发控制
type UpdateStatusRequest struct {
	Status  string `json:"status"  binding:"required,oneof=IN_PROGRESS RESOLVED CLOSED"`
	Remarks string `json:"remarks" binding:"omitempty,max=2000"`
	Version int    `json:"version" binding:"required,min=1"`
}

// ReopenComplaintRequest 重新打开请求（功能开关控制）
type ReopenComplaintRequest struct {
	Remarks string `json:"remarks" binding:"omitempty,max=2000"`
	Version int    `json:"version" binding:"required,min=1"`
}

// ComplaintListRequest 投诉列表查询参数
type ComplaintListRequest struct {
	PaginationRequest
	Status     string `form:"status"      binding:"omitempty,oneof=PENDING IN_PROGRESS RESOLVED CLOSED"`
	Priority   string `form:"priority"    binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	AssigneeID string `form:"assignee_id" binding:"omitempty,uuid"`
	CreatorID  string `form:"creator_id"  binding:"omitempty,uuid"`
	Search     string `form:"search"      binding:"omitempty,max=100"`
}

// ComplaintListItemResponse 投诉列表项
type ComplaintListItemResponse struct {
	ComplaintNo  string `json:"complaint_no"`
	Title        string `json:"title"`
	Status       string `json:"status"`
	Priority     string `json:"priority"`
	CategoryName string `json:"category_name,omitempty"`
	CreatorName  string `json:"creator_name,omitempty"`
	AssigneeName string `json:"assignee_name,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// AttachmentResponse 附件引用信息
type AttachmentResponse struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
	Mime string `json:"mime"`
}

// ComplaintDetailResponse 投诉详情
type ComplaintDetailResponse struct {
	ComplaintNo     string              `json:"complaint_no"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	Status          string              `json:"status"`
	Priority        string              `json:"priority"`
	CategoryName    string              `json:"category_name,omitempty"`
	SubcategoryName string              `json:"subcategory_name,omitempty"`
	CreatorName     string              `json:"creator_name,omitempty"`
	AssigneeName    string              `json:"assignee_name,omitempty"`
	Remarks         string              `json:"remarks,omitempty"`
	AdminRemarks    string              `json:"admin_remarks,omitempty"`
	Attachment      *AttachmentResponse `json:"attachment,omitempty"`
	ResolvedAt      string              `json:"resolved_at,omitempty"`
	CreatedAt       string              `json:"created_at"`
	UpdatedAt       string              `json:"updated_at"`
	Version         int                 `json:"version"`
}

// HistoryEntryResponse 审计轨迹条目
type HistoryEntryResponse struct {
	Kind       string `json:"kind"`
	FromStatus string `json:"from_status,omitempty"`
	ToStatus   string `json:"to_status,omitempty"`
	ActorName  string `json:"actor_name,omitempty"`
	Remarks    string `json:"remarks,omitempty"`
	Timestamp  string `json:"timestamp"`
}
