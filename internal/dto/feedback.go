package dto

// ── 反馈模块 DTO ──

// CreateFeedbackRequest 提交反馈请求（仅投诉创建者）
type CreateFeedbackRequest struct {
	Rating   int    `json:"rating"   binding:"required,min=1,max=5"`
	Comments string `json:"comments" binding:"omitempty,max=2000"`
}

// FeedbackResponse 反馈响应
type FeedbackResponse struct {
	ComplaintNo string `json:"complaint_no"`
	Rating      int    `json:"rating"`
	Comments    string `json:"comments,omitempty"`
	CreatedAt   string `json:"created_at"`
}
