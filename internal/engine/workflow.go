package engine

// ApprovalStatus 审批申请状态
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"  // 初始态
	ApprovalApproved ApprovalStatus = "approved" // 终态
	ApprovalRejected ApprovalStatus = "rejected" // 终态
)

// IsTerminal 是否为终态
func (s ApprovalStatus) IsTerminal() bool {
	return s == ApprovalApproved || s == ApprovalRejected
}

// CanTransitionTo 判断状态迁移是否合法
// 仅允许 pending→approved 和 pending→rejected
func (s ApprovalStatus) CanTransitionTo(target ApprovalStatus) bool {
	return s == ApprovalPending && target.IsTerminal()
}

// Transition 校验状态迁移，非法迁移返回 ErrInvalidStateTransition
// 注意：引擎不持有权威状态，真正的并发串行化由存储层对 status=pending 做
// compare-and-swap 完成；存储层竞争失败时同样返回 ErrInvalidStateTransition，
// 调用方需重新拉取最新状态
func Transition(current, target ApprovalStatus) error {
	if !current.CanTransitionTo(target) {
		return ErrInvalidStateTransition
	}
	return nil
}
