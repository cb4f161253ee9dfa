package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest 注册请求
// 角色只允许 student / faculty，管理员账号由运维预置
type RegisterRequest struct {
	Name       string `json:"name"       binding:"required,min=2,max=100"`
	Username   string `json:"username"   binding:"required,min=3,max=150"`
	Email      string `json:"email"      binding:"required,email"`
	Password   string `json:"password"   binding:"required,min=8,max=64"`
	Role       string `json:"role"       binding:"required,oneof=student faculty"`
	Phone      string `json:"phone"      binding:"omitempty,len=10,numeric"`
	Department string `json:"department" binding:"omitempty,max=100"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=64"`
}
