package handler

import (
	"github.com/gin-gonic/gin"

	"campus-complaints/backend/internal/dto"
	"campus-complaints/backend/internal/service"
	"campus-complaints/backend/pkg/response"
)

// CategoryHandler 分类注册表 HTTP 处理器
type CategoryHandler struct {
	categorySvc service.CategoryService
}

// NewCategoryHandler 创建 CategoryHandler
func NewCategoryHandler(categorySvc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categorySvc: categorySvc}
}

// List 分类列表（含子分类，所有角色可读）
// GET /api/v1/categories
func (h *CategoryHandler) List(c *gin.Context) {
	result, err := h.categorySvc.List(c.Request.Context())
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	response.OK(c, result)
}

// Get 分类详情
// GET /api/v1/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	result, err := h.categorySvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	response.OK(c, result)
}

// Create 创建分类（仅管理员）
// POST /api/v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	userID, role, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.categorySvc.Create(c.Request.Context(), &req, userID, role)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	response.Created(c, result)
}

// Update 更新分类（仅管理员）
// PATCH /api/v1/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	userID, role, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.categorySvc.Update(c.Request.Context(), c.Param("id"), &req, userID, role)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	response.OK(c, result)
}

// CreateSubcategory 创建子分类（仅管理员）
// POST /api/v1/categories/:id/subcategories
func (h *CategoryHandler) CreateSubcategory(c *gin.Context) {
	userID, role, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateSubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.categorySvc.CreateSubcategory(c.Request.Context(), c.Param("id"), &req, userID, role)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	response.Created(c, result)
}
