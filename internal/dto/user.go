package dto

// ── 用户模块 DTO ──

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
	Role    string `form:"role"    binding:"omitempty,oneof=student faculty admin"`
	Keyword string `form:"keyword" binding:"omitempty,max=50"`
}

// UpdateUserRequest 更新用户信息请求
type UpdateUserRequest struct {
	Name       *string `json:"name"       binding:"omitempty,min=2,max=100"`
	Email      *string `json:"email"      binding:"omitempty,email"`
	Phone      *string `json:"phone"      binding:"omitempty,len=10,numeric"`
	Department *string `json:"department" binding:"omitempty,max=100"`
}

// AssignRoleRequest 分配角色请求（仅管理员）
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=student faculty admin"`
}
