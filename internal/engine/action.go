package engine

import (
	"context"
	"fmt"
	"sync"
)

// ActionType 按钮动作类型（封闭集合）
type ActionType string

const (
	ActionSubmitForm      ActionType = "submit-form"
	ActionRequestApproval ActionType = "request-approval"
	ActionApprove         ActionType = "approve"
	ActionReject          ActionType = "reject"
	ActionCustom          ActionType = "custom"
)

// Hook 动作完成后的声明式回调（替代自由文本回调代码）
// 引擎只发出事件，消息投递由外部完成
type Hook struct {
	Message     string   `json:"message,omitempty"`
	NotifyUsers []string `json:"notify_users,omitempty"`
	Webhook     string   `json:"webhook,omitempty"`
}

// ButtonAction 按钮动作配置
type ButtonAction struct {
	Type                ActionType `json:"type"`
	RequireConfirmation bool       `json:"require_confirmation,omitempty"`
	RequireReason       bool       `json:"require_reason,omitempty"`
	ConfirmationMessage string     `json:"confirmation_message,omitempty"`
	ValidationRules     *Rule      `json:"validation_rules,omitempty"`
	OnSuccess           *Hook      `json:"on_success,omitempty"`
	OnError             *Hook      `json:"on_error,omitempty"`
	NavigateTo          string     `json:"navigate_to,omitempty"`
}

// DispatchState 单次点击的分发状态
type DispatchState string

const (
	StateIdle       DispatchState = "idle"
	StateValidating DispatchState = "validating"
	StateConfirming DispatchState = "confirming"
	StateExecuting  DispatchState = "executing"
	StateSuccess    DispatchState = "success"
	StateFailed     DispatchState = "failed"
)

// Actor 当前操作者（id 与角色由外部认证协作者提供，
// 引擎不做权限推导，只记录 approvedById）
type Actor struct {
	ID   string
	Role string
}

// SubmissionStore 提交存储协作者
type SubmissionStore interface {
	CreateSubmission(ctx context.Context, formID string, data map[string]interface{}, actorID string) (string, error)
}

// ApprovalStore 审批存储协作者
// Resolve 在存储层对 status=pending 做条件更新，申请已被处理时返回
// ErrInvalidStateTransition
type ApprovalStore interface {
	CreateRequest(ctx context.Context, submissionID, requesterID string) (string, error)
	FindPendingRequest(ctx context.Context, submissionID string) (string, error)
	Resolve(ctx context.Context, requestID string, status ApprovalStatus, approverID, reason string) error
}

// EventType 引擎发出的工作流事件类型
type EventType string

const (
	EventSubmissionCreated EventType = "submission.created"
	EventApprovalRequested EventType = "approval.requested"
	EventApprovalResolved  EventType = "approval.resolved"
	EventHookTriggered     EventType = "hook.triggered"
)

// Event 工作流事件，投递由外部订阅者负责
type Event struct {
	Type         EventType              `json:"type"`
	FormID       string                 `json:"form_id,omitempty"`
	SubmissionID string                 `json:"submission_id,omitempty"`
	RequestID    string                 `json:"request_id,omitempty"`
	ActorID      string                 `json:"actor_id,omitempty"`
	Hook         *Hook                  `json:"hook,omitempty"`
	Payload      map[string]interface{} `json:"payload,omitempty"`
}

// DispatchRequest 一次按钮点击
type DispatchRequest struct {
	FormID    string
	ButtonID  string
	Action    *ButtonAction
	FormData  map[string]interface{}
	Confirmed bool   // 用户已确认（RequireConfirmation 为 true 时的第二次调用）
	Reason    string // RequireReason 为 true 时必填
}

// DispatchResult 分发结果
// State 为 Confirming 时调用方需展示 ConfirmationMessage 并在确认后重新分发
type DispatchResult struct {
	State               DispatchState `json:"state"`
	ConfirmationMessage string        `json:"confirmation_message,omitempty"`
	RequireReason       bool          `json:"require_reason,omitempty"`
	SubmissionID        string        `json:"submission_id,omitempty"`
	RequestID           string        `json:"request_id,omitempty"`
	NavigateTo          string        `json:"navigate_to,omitempty"`
	Events              []Event       `json:"-"`
	Err                 error         `json:"-"`
}

// Dispatcher 按钮动作分发器
// 每个 (formID, buttonID) 持有一个 in-flight 标记，Executing 期间的重复点击
// 作为幂等空操作忽略，防止阻塞IO窗口内的重复提交
type Dispatcher struct {
	submissions SubmissionStore
	approvals   ApprovalStore

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewDispatcher 创建分发器
func NewDispatcher(submissions SubmissionStore, approvals ApprovalStore) *Dispatcher {
	return &Dispatcher{
		submissions: submissions,
		approvals:   approvals,
		inFlight:    make(map[string]bool),
	}
}

// Dispatch 处理一次按钮点击
// 状态机：Idle → Validating → {Confirming} → Executing → {Success | Failed}
// 任何外部调用失败都转换为 Failed 结果，不向上抛出异常
func (d *Dispatcher) Dispatch(ctx context.Context, actor Actor, req DispatchRequest) DispatchResult {
	if req.Action == nil {
		return DispatchResult{State: StateFailed, Err: ErrUnknownActionType}
	}

	// Validating：按钮级规则对 formData 只读求值，求值异常按失败处理（fail-closed）
	if req.Action.ValidationRules != nil {
		ok, err := req.Action.ValidationRules.Evaluate(req.FormData)
		if err != nil || !ok {
			result := DispatchResult{
				State: StateFailed,
				Err:   &ActionValidationError{ButtonID: req.ButtonID},
			}
			result.Events = d.errorEvents(req, actor, result.Err)
			return result
		}
	}

	// Confirming：需要确认且尚未确认时，把控制权交还调用方
	if req.Action.RequireConfirmation && !req.Confirmed {
		return DispatchResult{
			State:               StateConfirming,
			ConfirmationMessage: req.Action.ConfirmationMessage,
			RequireReason:       req.Action.RequireReason,
		}
	}

	// 要求原因时阻止空原因进入 Executing
	if req.Action.RequireReason && req.Reason == "" {
		return DispatchResult{
			State:               StateConfirming,
			ConfirmationMessage: req.Action.ConfirmationMessage,
			RequireReason:       true,
			Err:                 ErrReasonRequired,
		}
	}

	// Executing：同一操作者对同一按钮同一时刻只允许一次在途执行
	// key 必须含操作者，否则一个用户的在途执行会吞掉其他用户的点击
	key := actor.ID + "/" + req.FormID + "/" + req.ButtonID
	d.mu.Lock()
	if d.inFlight[key] {
		d.mu.Unlock()
		// 重复点击：幂等空操作
		return DispatchResult{State: StateExecuting}
	}
	d.inFlight[key] = true
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		delete(d.inFlight, key)
		d.mu.Unlock()
	}()

	result := d.execute(ctx, actor, req)

	if result.Err != nil {
		result.State = StateFailed
		result.Events = append(result.Events, d.errorEvents(req, actor, result.Err)...)
		return result
	}

	result.State = StateSuccess
	result.NavigateTo = req.Action.NavigateTo
	if req.Action.OnSuccess != nil {
		result.Events = append(result.Events, Event{
			Type:         EventHookTriggered,
			FormID:       req.FormID,
			SubmissionID: result.SubmissionID,
			ActorID:      actor.ID,
			Hook:         req.Action.OnSuccess,
		})
	}
	return result
}

// execute 按动作类型执行存储调用
func (d *Dispatcher) execute(ctx context.Context, actor Actor, req DispatchRequest) DispatchResult {
	switch req.Action.Type {
	case ActionSubmitForm:
		id, err := d.submissions.CreateSubmission(ctx, req.FormID, req.FormData, actor.ID)
		if err != nil {
			return DispatchResult{Err: err}
		}
		return DispatchResult{
			SubmissionID: id,
			Events: []Event{{
				Type:         EventSubmissionCreated,
				FormID:       req.FormID,
				SubmissionID: id,
				ActorID:      actor.ID,
			}},
		}

	case ActionRequestApproval:
		// 已有提交则直接引用，否则先创建提交再发起审批
		submissionID := stringField(req.FormData, "submissionId")
		var events []Event
		if submissionID == "" {
			id, err := d.submissions.CreateSubmission(ctx, req.FormID, req.FormData, actor.ID)
			if err != nil {
				return DispatchResult{Err: err}
			}
			submissionID = id
			events = append(events, Event{
				Type:         EventSubmissionCreated,
				FormID:       req.FormID,
				SubmissionID: id,
				ActorID:      actor.ID,
			})
		}
		requestID, err := d.approvals.CreateRequest(ctx, submissionID, actor.ID)
		if err != nil {
			return DispatchResult{SubmissionID: submissionID, Err: err}
		}
		events = append(events, Event{
			Type:         EventApprovalRequested,
			FormID:       req.FormID,
			SubmissionID: submissionID,
			RequestID:    requestID,
			ActorID:      actor.ID,
		})
		return DispatchResult{SubmissionID: submissionID, RequestID: requestID, Events: events}

	case ActionApprove, ActionReject:
		submissionID := stringField(req.FormData, "submissionId")
		if submissionID == "" {
			// 可上报的配置/数据错误，不是崩溃
			return DispatchResult{Err: ErrMissingSubmission}
		}
		requestID, err := d.approvals.FindPendingRequest(ctx, submissionID)
		if err != nil {
			return DispatchResult{SubmissionID: submissionID, Err: err}
		}
		status := ApprovalApproved
		if req.Action.Type == ActionReject {
			status = ApprovalRejected
		}
		if err := d.approvals.Resolve(ctx, requestID, status, actor.ID, req.Reason); err != nil {
			return DispatchResult{SubmissionID: submissionID, RequestID: requestID, Err: err}
		}
		return DispatchResult{
			SubmissionID: submissionID,
			RequestID:    requestID,
			Events: []Event{{
				Type:         EventApprovalResolved,
				FormID:       req.FormID,
				SubmissionID: submissionID,
				RequestID:    requestID,
				ActorID:      actor.ID,
				Payload:      map[string]interface{}{"status": string(status), "reason": req.Reason},
			}},
		}

	case ActionCustom:
		// 无内置存储调用，完全交给 OnSuccess/OnError 回调
		return DispatchResult{}

	default:
		return DispatchResult{Err: fmt.Errorf("%w: %s", ErrUnknownActionType, req.Action.Type)}
	}
}

// errorEvents 失败路径的 OnError 回调事件
func (d *Dispatcher) errorEvents(req DispatchRequest, actor Actor, dispatchErr error) []Event {
	if req.Action == nil || req.Action.OnError == nil {
		return nil
	}
	return []Event{{
		Type:    EventHookTriggered,
		FormID:  req.FormID,
		ActorID: actor.ID,
		Hook:    req.Action.OnError,
		Payload: map[string]interface{}{"error": dispatchErr.Error()},
	}}
}

// stringField 从 formData 中读取字符串字段
func stringField(data map[string]interface{}, key string) string {
	if data == nil {
		return ""
	}
	if s, ok := data[key].(string); ok {
		return s
	}
	return ""
}
