package dto

// ── 分类注册表 DTO ──

// CreateCategoryRequest 创建分类请求（仅管理员）
type CreateCategoryRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// UpdateCategoryRequest 更新分类请求（仅管理员）
type UpdateCategoryRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// CreateSubcategoryRequest 创建子分类请求（仅管理员）
type CreateSubcategoryRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// SubcategoryResponse 子分类响应
type SubcategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CategoryResponse 分类响应（含子分类）
type CategoryResponse struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Description   string                `json:"description,omitempty"`
	Subcategories []SubcategoryResponse `json:"subcategories,omitempty"`
}
