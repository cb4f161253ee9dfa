package service

import (
	"fmt"

	"campus-complaints/backend/internal/model"
	pkgerrors "campus-complaints/backend/pkg/errors"
)

// ── 状态机 ──

// allowedTransitions 投诉状态机的合法迁移表
// 重新打开（RESOLVED/CLOSED → PENDING）不在此表，由 Reopen 单独受功能开关控制
var allowedTransitions = map[string][]string{
	model.StatusPending:    {model.StatusInProgress},
	model.StatusInProgress: {model.StatusResolved},
	model.StatusResolved:   {model.StatusClosed},
	model.StatusClosed:     {},
}

// checkTransition 校验状态迁移是否合法，非法迁移返回状态错误
func checkTransition(current, requested string) error {
	for _, next := range allowedTransitions[current] {
		if next == requested {
			return nil
		}
	}
	return pkgerrors.NewState(current, requested)
}

// ── 授权表 ──

// 操作名，同时用于权限错误信息
const (
	OpCreateComplaint  = "创建投诉"
	OpViewComplaint    = "查看投诉"
	OpAssignComplaint  = "指派投诉"
	OpUpdateStatus     = "更新投诉状态"
	OpReopenComplaint  = "重新打开投诉"
	OpSubmitFeedback   = "提交评价"
	OpViewStats        = "查看统计"
	OpExportComplaints = "导出投诉"
	OpManageCategories = "管理分类"
	OpManageUsers      = "管理用户"
)

// relationship 操作主体与投诉的关系
type relationship int

const (
	relNone     relationship = iota // 与该投诉无关
	relCreator                      // 投诉创建者
	relAssignee                     // 投诉受理人
)

// authzRule (角色, 操作) → 允许的关系集合
type authzRule struct {
	role string
	op   string
}

// authzTable 显式授权表：未列出的 (角色, 操作) 组合一律拒绝
//
//	学生：创建；查看/评价/重开仅限自己创建的投诉
//	教职工：查看/更新状态仅限指派给自己的投诉（不可关闭）
//	管理员：全量查看、指派、更新状态、重开、统计、导出、分类与用户管理
var authzTable = map[authzRule][]relationship{
	{model.RoleStudent, OpCreateComplaint}: {relNone, relCreator, relAssignee},
	{model.RoleStudent, OpViewComplaint}:   {relCreator},
	{model.RoleStudent, OpSubmitFeedback}:  {relCreator},
	{model.RoleStudent, OpReopenComplaint}: {relCreator},

	{model.RoleFaculty, OpViewComplaint}: {relAssignee},
	{model.RoleFaculty, OpUpdateStatus}:  {relAssignee},

	{model.RoleAdmin, OpViewComplaint}:    {relNone, relCreator, relAssignee},
	{model.RoleAdmin, OpAssignComplaint}:  {relNone, relCreator, relAssignee},
	{model.RoleAdmin, OpUpdateStatus}:     {relNone, relCreator, relAssignee},
	{model.RoleAdmin, OpReopenComplaint}:  {relNone, relCreator, relAssignee},
	{model.RoleAdmin, OpViewStats}:        {relNone, relCreator, relAssignee},
	{model.RoleAdmin, OpExportComplaints}: {relNone, relCreator, relAssignee},
	{model.RoleAdmin, OpManageCategories}: {relNone, relCreator, relAssignee},
	{model.RoleAdmin, OpManageUsers}:      {relNone, relCreator, relAssignee},
}

// relationTo 计算用户与投诉的关系
func relationTo(userID string, complaint *model.Complaint) relationship {
	if complaint == nil {
		return relNone
	}
	if complaint.CreatorID == userID {
		return relCreator
	}
	if complaint.AssigneeID != nil && *complaint.AssigneeID == userID {
		return relAssignee
	}
	return relNone
}

// authorize 按 (角色, 操作, 关系) 查授权表，拒绝返回权限错误
func authorize(role, op, userID string, complaint *model.Complaint) error {
	allowed, ok := authzTable[authzRule{role: role, op: op}]
	if !ok {
		return pkgerrors.NewPermission(role, op)
	}
	rel := relationTo(userID, complaint)
	for _, r := range allowed {
		if r == rel {
			return nil
		}
	}
	return pkgerrors.NewPermission(role, op)
}

// statusLabel 状态的通知用中文描述
func statusLabel(status string) string {
	switch status {
	case model.StatusPending:
		return "待处理"
	case model.StatusInProgress:
		return "处理中"
	case model.StatusResolved:
		return "已解决"
	case model.StatusClosed:
		return "已关闭"
	default:
		return status
	}
}

// historyMessage 生成历史记录的可读描述
func historyMessage(kind, fromStatus, toStatus string) string {
	switch kind {
	case model.HistoryKindCreated:
		return "投诉已创建"
	case model.HistoryKindAssigned:
		return "投诉已指派"
	case model.HistoryKindReopened:
		return "投诉已重新打开"
	default:
		return fmt.Sprintf("状态由 %s 变更为 %s", statusLabel(fromStatus), statusLabel(toStatus))
	}
}
