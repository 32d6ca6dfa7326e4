package engine

import (
	"errors"
	"fmt"
)

// 引擎错误分类。所有外部调用边界（数据源、存储、规则求值）的失败
// 都收敛为下列错误之一，以显式结果返回，不抛出 panic。
var (
	// ErrInvalidStateTransition 审批申请已被处理，非 pending 状态不可再变更
	ErrInvalidStateTransition = errors.New("approval request is no longer pending")

	// ErrUnknownActionType 按钮配置了未知的动作类型（配置缺陷，需上报）
	ErrUnknownActionType = errors.New("unknown button action type")

	// ErrMissingSubmission approve/reject 动作缺少可解析的提交ID
	ErrMissingSubmission = errors.New("no resolvable submission id for approval action")

	// ErrReasonRequired 按钮要求填写原因但原因为空
	ErrReasonRequired = errors.New("a non-empty reason is required")
)

// ActionValidationError 按钮级校验规则未通过
type ActionValidationError struct {
	ButtonID string
	Message  string
}

func (e *ActionValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("validation rules failed for button %s", e.ButtonID)
}

// ProviderError 外部数据源不可达或返回异常
type ProviderError struct {
	SourceID string
	Op       string // fetch / update
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("datasource %s %s failed: %v", e.SourceID, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
