package handler

import (
	"github.com/gin-gonic/gin"

	"campus-complaints/backend/internal/dto"
	"campus-complaints/backend/internal/service"
	"campus-complaints/backend/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// List 用户列表（仅管理员）
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	userID, role, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	items, total, err := h.userSvc.List(c.Request.Context(), &req, userID, role)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	response.OKPage(c, items, total, req.GetPage(), req.GetPageSize())
}

// Get 查看用户（本人或管理员）
// GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	userID, role, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.userSvc.Get(c.Request.Context(), c.Param("id"), userID, role)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	response.OK(c, result)
}

// Update 更新用户资料（本人或管理员）
// PATCH /api/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	userID, role, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.userSvc.Update(c.Request.Context(), c.Param("id"), &req, userID, role)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	response.OK(c, result)
}

// AssignRole 重新指派角色（仅管理员）
// PUT /api/v1/users/:id/role
func (h *UserHandler) AssignRole(c *gin.Context) {
	userID, role, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.userSvc.AssignRole(c.Request.Context(), c.Param("id"), &req, userID, role)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	response.OK(c, result)
}

// ListFaculty 教职工列表（指派候选，仅管理员）
// GET /api/v1/users/faculty
func (h *UserHandler) ListFaculty(c *gin.Context) {
	userID, role, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.userSvc.ListFaculty(c.Request.Context(), userID, role)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	response.OK(c, result)
}
