package model

import (
	"fmt"
	"time"
)

// ── 状态常量 ──
// 状态只能沿 PENDING → IN_PROGRESS → RESOLVED → CLOSED 单向推进
// 重新打开（配置开关）是唯一允许的回退，且必须记录独立的历史条目

const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusResolved   = "RESOLVED"
	StatusClosed     = "CLOSED"
)

// ── 优先级常量 ──

const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

// ── 历史条目类型 ──

const (
	HistoryKindCreated       = "created"
	HistoryKindAssigned      = "assigned"
	HistoryKindStatusChanged = "status_changed"
	HistoryKindReopened      = "reopened"
)

// FormatComplaintNo 生成投诉编号：CMP-YYYYMMDD-XXXXXX
// 编号格式是对外契约，外部消费者按固定格式解析
func FormatComplaintNo(date time.Time, seq int) string {
	return fmt.Sprintf("CMP-%s-%06d", date.Format("20060102"), seq)
}

// Complaint 投诉主表 — 对应 complaints
type Complaint struct {
	ComplaintID   string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"complaint_id"`
	ComplaintNo   string  `gorm:"type:varchar(20);not null;uniqueIndex"          json:"complaint_no"`
	Title         string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Description   string  `gorm:"type:text;not null"                             json:"description"`
	CategoryID    string  `gorm:"type:uuid;not null;index"                       json:"category_id"`
	SubcategoryID *string `gorm:"type:uuid"                                      json:"subcategory_id,omitempty"`
	CreatorID     string  `gorm:"type:uuid;not null;index"                       json:"creator_id"`
	AssigneeID    *string `gorm:"type:uuid;index"                                json:"assignee_id,omitempty"`
	Status        string  `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Priority      string  `gorm:"type:varchar(10);not null;default:'MEDIUM'"     json:"priority"`
	Remarks       string  `gorm:"type:text;not null;default:''"                  json:"remarks,omitempty"`
	AdminRemarks  string  `gorm:"type:text;not null;default:''"                  json:"admin_remarks,omitempty"`

	// 附件只存引用，文件校验在上传边界完成
	AttachmentPath *string `gorm:"type:varchar(500)"  json:"attachment_path,omitempty"`
	AttachmentSize *int64  `json:"attachment_size,omitempty"`
	AttachmentMime *string `gorm:"type:varchar(100)"  json:"attachment_mime,omitempty"`

	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	VersionedModel

	// 关联
	Category    *Category    `gorm:"foreignKey:CategoryID;references:CategoryID"          json:"category,omitempty"`
	Subcategory *Subcategory `gorm:"foreignKey:SubcategoryID;references:SubcategoryID"    json:"subcategory,omitempty"`
	Creator     *User        `gorm:"foreignKey:CreatorID;references:UserID"               json:"creator,omitempty"`
	Assignee    *User        `gorm:"foreignKey:AssigneeID;references:UserID"              json:"assignee,omitempty"`
}

// TableName 指定表名
func (Complaint) TableName() string { return "complaints" }

// ComplaintHistory 投诉审计轨迹表 — 对应 complaint_histories
// 只增不改：每次变更追加一条，永不更新或删除
type ComplaintHistory struct {
	HistoryID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"history_id"`
	ComplaintID string    `gorm:"type:uuid;not null;index"                       json:"complaint_id"`
	ChangedBy   string    `gorm:"type:uuid;not null"                             json:"changed_by"`
	Kind        string    `gorm:"type:varchar(20);not null"                      json:"kind"` // created | assigned | status_changed | reopened
	FromStatus  string    `gorm:"type:varchar(20);not null;default:''"           json:"from_status"`
	ToStatus    string    `gorm:"type:varchar(20);not null;default:''"           json:"to_status"`
	Remarks     string    `gorm:"type:text;not null;default:''"                  json:"remarks,omitempty"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Actor *User `gorm:"foreignKey:ChangedBy;references:UserID" json:"actor,omitempty"`
}

// TableName 指定表名
func (ComplaintHistory) TableName() string { return "complaint_histories" }

// ComplaintSequence 投诉编号序列表 — 对应 complaint_sequences
// 每个日期一行，upsert 自增保证同日并发创建编号不重复
type ComplaintSequence struct {
	SeqDate time.Time `gorm:"type:date;primaryKey" json:"seq_date"`
	LastSeq int       `gorm:"not null;default:0"   json:"last_seq"`
}

// TableName 指定表名
func (ComplaintSequence) TableName() string { return "complaint_sequences" }
