package handler

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"campus-complaints/backend/config"
	"campus-complaints/backend/internal/dto"
	"campus-complaints/backend/internal/service"
	"campus-complaints/backend/pkg/response"
)

// ComplaintHandler 投诉模块 HTTP 处理器（含评价子资源）
type ComplaintHandler struct {
	cfg          *config.Config
	complaintSvc service.ComplaintService
	feedbackSvc  service.FeedbackService
}

// NewComplaintHandler 创建 ComplaintHandler
func NewComplaintHandler(cfg *config.Config, complaintSvc service.ComplaintService, feedbackSvc service.FeedbackService) *ComplaintHandler {
	return &ComplaintHandler{cfg: cfg, complaintSvc: complaintSvc, feedbackSvc: feedbackSvc}
}

// saveAttachment 校验并落盘上传附件，返回引用信息
// 文件校验（大小 ≤ 上限、扩展名白名单）在此边界完成，生命周期引擎只存引用
func (h *ComplaintHandler) saveAttachment(c *gin.Context, file *multipart.FileHeader) (*service.AttachmentMeta, string) {
	if file.Size > h.cfg.Upload.MaxSizeBytes {
		return nil, fmt.Sprintf("附件大小超出限制（最大 %d MB）", h.cfg.Upload.MaxSizeBytes/(1<<20))
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), ".")
	allowed := false
	for _, e := range h.cfg.Upload.AllowedExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Sprintf("不支持的附件类型 .%s，允许：%s", ext, strings.Join(h.cfg.Upload.AllowedExtensions, ", "))
	}

	// 存储名用 UUID，避免路径穿越与重名覆盖
	storedName := fmt.Sprintf("%s.%s", uuid.New().String(), ext)
	dst := filepath.Join(h.cfg.Upload.Dir, storedName)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return nil, "附件保存失败"
	}

	mime := file.Header.Get("Content-Type")
	return &service.AttachmentMeta{Path: dst, Size: file.Size, Mime: mime}, ""
}

// Create 创建投诉（支持 multipart 附件上传）
// POST /api/v1/complaints
func (h *ComplaintHandler) Create(c *gin.Context) {
	userID, role, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateComplaintRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	var attachment *service.AttachmentMeta
	if file, err := c.FormFile("attachment"); err == nil && file != nil {
		meta, errMsg := h.saveAttachment(c, file)
		if errMsg != "" {
			response.BadRequest(c, codeValidation, errMsg)
			return
		}
		attachment = meta
	}

	result, err := h.complaintSvc.Create(c.Request.Context(), &req, attachment, userID, role)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	response.Created(c, result)
}

// List 投诉列表（按角色裁剪范围）
// GET /api/v1/complaints
func (h *ComplaintHandler) List(c *gin.Context) {
	userID, role, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.ComplaintListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	items, total, err := h.complaintSvc.List(c.Request.Context(), &req, userID, role)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	response.OKPage(c, items, total, req.GetPage(), req.GetPageSize())
}

// Get 投诉详情
// GET /api/v1/complaints/:no
func (h *ComplaintHandler) Get(c *gin.Context) {
	userID, role, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.complaintSvc.Get(c.Request.Context(), c.Param("no"), userID, role)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	response.OK(c, result)
}

// Assign 指派处理人（仅管理员）
// POST /api/v1/complaints/:no/assign
func (h *ComplaintHandler) Assign(c *gin.Context) {
	userID, role, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.AssignComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.complaintSvc.Assign(c.Request.Context(), c.Param("no"), &req, userID, role)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	response.OK(c, result)
}

// UpdateStatus 推进状态（乐观锁）
// PATCH /api/v1/complaints/:no/status
func (h *ComplaintHandler) UpdateStatus(c *gin.Context) {
	userID, role, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.complaintSvc.UpdateStatus(c.Request.Context(), c.Param("no"), &req, userID, role)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	response.OK(c, result)
}

// Reopen 重新打开投诉（功能开关）
// POST /api/v1/complaints/:no/reopen
func (h *ComplaintHandler) Reopen(c *gin.Context) {
	userID, role, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.ReopenComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.complaintSvc.Reopen(c.Request.Context(), c.Param("no"), &req, userID, role)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	response.OK(c, result)
}

// History 审计轨迹
// GET /api/v1/complaints/:no/history
func (h *ComplaintHandler) History(c *gin.Context) {
	userID, role, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.complaintSvc.History(c.Request.Context(), c.Param("no"), userID, role)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	response.OK(c, result)
}

// Stats 仪表盘统计
// GET /api/v1/complaints/stats
func (h *ComplaintHandler) Stats(c *gin.Context) {
	userID, role, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.complaintSvc.Stats(c.Request.Context(), userID, role)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	response.OK(c, result)
}

// CreateFeedback 提交评价（仅创建者，已解决/已关闭）
// POST /api/v1/complaints/:no/feedback
func (h *ComplaintHandler) CreateFeedback(c *gin.Context) {
	userID, role, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.feedbackSvc.Create(c.Request.Context(), c.Param("no"), &req, userID, role)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	response.Created(c, result)
}

// GetFeedback 查看评价
// GET /api/v1/complaints/:no/feedback
func (h *ComplaintHandler) GetFeedback(c *gin.Context) {
	userID, role, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.feedbackSvc.Get(c.Request.Context(), c.Param("no"), userID, role)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	response.OK(c, result)
}
