package errors

import (
	"errors"
	"fmt"
)

// 业务错误分为五类，Handler 层通过 errors.As 区分后映射 HTTP 状态码：
// 校验失败 / 权限不足 / 状态机不允许 / 并发或唯一性冲突 / 资源不存在。
// 权限错误与状态错误必须可区分——调用方需要知道是"角色不允许"还是"当前状态不允许"。

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ── ValidationError 输入校验失败 ──

// ValidationError 带字段级详情的校验错误
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidation 创建校验错误
func NewValidation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ── PermissionError 角色/关系鉴权失败 ──

// PermissionError 角色或实体关系不满足操作要求
type PermissionError struct {
	Role      string // 发起者角色
	Operation string // 被拒绝的操作
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("角色 %s 无权执行 %s", e.Role, e.Operation)
}

// NewPermission 创建权限错误
func NewPermission(role, operation string) error {
	return &PermissionError{Role: role, Operation: operation}
}

// ── StateError 状态机转换不允许 ──

// StateError 请求的转换在当前状态下不合法，携带当前状态供调用方决策
type StateError struct {
	Current   string
	Requested string // 目标状态（状态机场景）
	Operation string // 被拒绝的操作（非转换场景，如评价提交）
}

func (e *StateError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("当前状态 %s 不允许%s", e.Current, e.Operation)
	}
	return fmt.Sprintf("当前状态 %s 不允许转换到 %s", e.Current, e.Requested)
}

// NewState 创建状态机转换错误
func NewState(current, requested string) error {
	return &StateError{Current: current, Requested: requested}
}

// NewStateOp 创建非转换类状态错误（操作在当前状态下不可用）
func NewStateOp(current, operation string) error {
	return &StateError{Current: current, Operation: operation}
}

// ── ConflictError 并发冲突或唯一性冲突 ──

// ConflictError 乐观并发或唯一约束冲突，调用方应重新读取后重试
type ConflictError struct {
	Message string
	Err     error
}

func (e *ConflictError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ConflictError) Unwrap() error { return e.Err }

// NewConflict 创建冲突错误
func NewConflict(message string) error {
	return &ConflictError{Message: message}
}

// WrapConflict 包装底层冲突原因（如 ErrOptimisticLock）
func WrapConflict(message string, err error) error {
	return &ConflictError{Message: message, Err: err}
}

// ── NotFoundError 资源不存在 ──

// NotFoundError 被引用的投诉/用户/分类不存在
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s不存在", e.Resource)
	}
	return fmt.Sprintf("%s不存在: %s", e.Resource, e.Key)
}

// NewNotFound 创建资源不存在错误
func NewNotFound(resource, key string) error {
	return &NotFoundError{Resource: resource, Key: key}
}

// ── 分类判断辅助 ──

// IsValidation 判断是否为校验错误
func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// IsPermission 判断是否为权限错误
func IsPermission(err error) bool {
	var e *PermissionError
	return errors.As(err, &e)
}

// IsState 判断是否为状态错误
func IsState(err error) bool {
	var e *StateError
	return errors.As(err, &e)
}

// IsConflict 判断是否为冲突错误（含乐观锁）
func IsConflict(err error) bool {
	if errors.Is(err, ErrOptimisticLock) {
		return true
	}
	var e *ConflictError
	return errors.As(err, &e)
}

// IsNotFound 判断是否为资源不存在错误
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}
