package model

import "time"

// Feedback 投诉反馈表 — 对应 feedbacks（与 complaints 1:1）
// 仅投诉创建者在 RESOLVED/CLOSED 状态下可提交，且最多一条
type Feedback struct {
	FeedbackID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"feedback_id"`
	ComplaintID string    `gorm:"type:uuid;not null;uniqueIndex"                 json:"complaint_id"`
	UserID      string    `gorm:"type:uuid;not null"                             json:"user_id"`
	Rating      int       `gorm:"not null"                                       json:"rating"` // 1-5
	Comments    string    `gorm:"type:text;not null;default:''"                  json:"comments,omitempty"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (Feedback) TableName() string { return "feedbacks" }
