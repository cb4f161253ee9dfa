package handler

import (
	"github.com/gin-gonic/gin"

	pkgerrors "campus-complaints/backend/pkg/errors"
	"campus-complaints/backend/pkg/response"
)

// 业务错误类别码
const (
	codeValidation = 20001
	codePermission = 20002
	codeState      = 20003
	codeConflict   = 20004
	codeNotFound   = 20005
)

// writeBusinessError 按业务错误类别映射 HTTP 状态码：
// 校验 400 / 权限 403 / 状态机 422 / 冲突 409 / 不存在 404，其余 500
func writeBusinessError(c *gin.Context, err error) {
	switch {
	case pkgerrors.IsValidation(err):
		response.BadRequest(c, codeValidation, err.Error())
	case pkgerrors.IsPermission(err):
		response.Forbidden(c, codePermission, err.Error())
	case pkgerrors.IsState(err):
		response.UnprocessableEntity(c, codeState, err.Error())
	case pkgerrors.IsConflict(err):
		response.Conflict(c, codeConflict, err.Error())
	case pkgerrors.IsNotFound(err):
		response.NotFound(c, codeNotFound, err.Error())
	default:
		response.InternalError(c)
	}
}
