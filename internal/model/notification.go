package model

import "time"

// Notification 通知消息表 — 对应 notifications
// 由生命周期转换产生（创建/指派/状态变更/重开），归属接收者
type Notification struct {
	NotificationID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	UserID         string    `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Message        string    `gorm:"type:text;not null"                             json:"message"`
	IsRead         bool      `gorm:"not null;default:false"                         json:"is_read"`
	ComplaintNo    string    `gorm:"type:varchar(20);not null;default:''"           json:"complaint_no,omitempty"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }
