package dto

// ── 统计与导出 DTO ──

// StatsResponse 仪表盘统计响应
// 统计范围与列表一致：按调用者角色裁剪
type StatsResponse struct {
	Total                int64            `json:"total"`
	ByStatus             map[string]int64 `json:"by_status"`
	ByPriority           map[string]int64 `json:"by_priority"`
	ByCategory           map[string]int64 `json:"by_category"`
	AvgResolutionSeconds *float64         `json:"avg_resolution_seconds,omitempty"`
}

// ExportRequest 导出请求参数（仅管理员）
type ExportRequest struct {
	Format         string `form:"format"      binding:"omitempty,oneof=xlsx csv"`
	Status         string `form:"status"      binding:"omitempty,oneof=PENDING IN_PROGRESS RESOLVED CLOSED"`
	CategoryID     string `form:"category_id" binding:"omitempty,uuid"`
	FromDate       string `form:"from_date"   binding:"omitempty,datetime=2006-01-02"`
	ToDate         string `form:"to_date"     binding:"omitempty,datetime=2006-01-02"`
	IncludeHistory bool   `form:"include_history"`
}
