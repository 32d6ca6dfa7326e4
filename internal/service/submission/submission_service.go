package submission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fisker/formflow-backend/internal/engine"
	"github.com/fisker/formflow-backend/internal/events"
	"github.com/fisker/formflow-backend/internal/model"
	"github.com/fisker/formflow-backend/internal/repository"
	formService "github.com/fisker/formflow-backend/internal/service/form"
	"github.com/fisker/formflow-backend/pkg/logger"
	"github.com/fisker/formflow-backend/pkg/metrics"
	"github.com/google/uuid"
)

var (
	// ErrFormNotPublished 表单未发布时普通用户不可提交
	ErrFormNotPublished = errors.New("表单未发布")

	// ErrButtonNotFound 按钮不在表单元素树中
	ErrButtonNotFound = errors.New("按钮不存在")
)

// SubmissionService 表单提交与工作流服务
// 同时实现 engine.SubmissionStore 和 engine.ApprovalStore
type SubmissionService struct {
	repo         *repository.SubmissionRepository
	approvalRepo *repository.ApprovalRepository
	formRepo     *repository.FormRepository
	dispatcher   *engine.Dispatcher
	hub          *events.Hub
}

// NewSubmissionService 创建提交服务
func NewSubmissionService(repo *repository.SubmissionRepository, approvalRepo *repository.ApprovalRepository, formRepo *repository.FormRepository, hub *events.Hub) *SubmissionService {
	s := &SubmissionService{
		repo:         repo,
		approvalRepo: approvalRepo,
		formRepo:     formRepo,
		hub:          hub,
	}
	s.dispatcher = engine.NewDispatcher(s, s)
	return s
}

// CreateSubmission 落库一条表单提交（engine.SubmissionStore）
func (s *SubmissionService) CreateSubmission(ctx context.Context, formID string, data map[string]interface{}, actorID string) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("提交数据序列化失败: %w", err)
	}

	sub := &model.FormSubmission{
		ID:          uuid.New().String(),
		FormID:      formID,
		Data:        payload,
		SubmittedBy: actorID,
	}
	if err := s.repo.Create(sub); err != nil {
		return "", err
	}

	metrics.FormSubmissionsTotal.WithLabelValues(formID).Inc()
	return sub.ID, nil
}

// CreateRequest 创建审批申请（engine.ApprovalStore）
func (s *SubmissionService) CreateRequest(ctx context.Context, submissionID, requesterID string) (string, error) {
	request := &model.ApprovalRequest{
		ID:               uuid.New().String(),
		FormSubmissionID: submissionID,
		RequesterID:      requesterID,
		Status:           string(engine.ApprovalPending),
	}
	if err := s.approvalRepo.Create(request); err != nil {
		return "", err
	}
	return request.ID, nil
}

// FindPendingRequest 查找提交的活跃审批申请（engine.ApprovalStore）
func (s *SubmissionService) FindPendingRequest(ctx context.Context, submissionID string) (string, error) {
	request, err := s.approvalRepo.FindPendingBySubmission(submissionID)
	if err != nil {
		if repository.IsNotFound(err) {
			return "", engine.ErrInvalidStateTransition
		}
		return "", err
	}
	return request.ID, nil
}

// Resolve 处理审批申请（engine.ApprovalStore），存储层做CAS
func (s *SubmissionService) Resolve(ctx context.Context, requestID string, status engine.ApprovalStatus, approverID, reason string) error {
	if err := s.approvalRepo.Resolve(requestID, status, approverID, reason); err != nil {
		return err
	}
	metrics.ApprovalResolutionsTotal.WithLabelValues(string(status)).Inc()
	return nil
}

// DispatchInput 一次按钮点击的外部输入
type DispatchInput struct {
	FormID    string                 `json:"formId"` // 可省略，以路由中的表单ID为准
	ButtonID  string                 `json:"buttonId" binding:"required"`
	FormData  map[string]interface{} `json:"formData"`
	Confirmed bool                   `json:"confirmed"`
	Reason    string                 `json:"reason"`
}

// DispatchOutput 按钮分发的对外结果
type DispatchOutput struct {
	Result           engine.DispatchResult `json:"result"`
	ValidationErrors map[string]string     `json:"validationErrors,omitempty"`
}

// Dispatch 处理一次按钮点击
// 提交类动作先跑整表字段校验，任何字段不通过时不触发动作；
// 随后交给分发器执行，产生的工作流事件广播到事件总线
func (s *SubmissionService) Dispatch(ctx context.Context, actor engine.Actor, input DispatchInput) (*DispatchOutput, error) {
	form, err := s.formRepo.FindByID(input.FormID)
	if err != nil {
		return nil, err
	}
	if !form.IsPublished && actor.Role != "admin" {
		return nil, ErrFormNotPublished
	}

	tree, err := formService.ParseElements(form.Elements)
	if err != nil {
		return nil, err
	}

	button := engine.FindByID(tree, input.ButtonID)
	if button == nil || button.Type != engine.FieldTypeButton || button.ButtonAction == nil {
		return nil, ErrButtonNotFound
	}
	action := button.ButtonAction

	// 提交类动作先校验字段，校验失败不进入分发器
	if action.Type == engine.ActionSubmitForm || action.Type == engine.ActionRequestApproval {
		if fieldErrors := engine.ValidateForm(tree, input.FormData); len(fieldErrors) > 0 {
			return &DispatchOutput{
				Result:           engine.DispatchResult{State: engine.StateFailed},
				ValidationErrors: fieldErrors,
			}, nil
		}
	}

	result := s.dispatcher.Dispatch(ctx, actor, engine.DispatchRequest{
		FormID:    input.FormID,
		ButtonID:  input.ButtonID,
		Action:    action,
		FormData:  input.FormData,
		Confirmed: input.Confirmed,
		Reason:    input.Reason,
	})

	metrics.ButtonDispatchTotal.WithLabelValues(string(action.Type), string(result.State)).Inc()

	for _, event := range result.Events {
		s.hub.Publish(event)
	}
	if result.Err != nil {
		logger.Warnf("按钮分发失败: form=%s button=%s state=%s err=%v",
			input.FormID, input.ButtonID, result.State, result.Err)
	}

	return &DispatchOutput{Result: result}, nil
}

// GetByID 按ID获取提交
func (s *SubmissionService) GetByID(id string) (*model.FormSubmission, error) {
	return s.repo.FindByID(id)
}

// ListByForm 分页查询表单的提交
func (s *SubmissionService) ListByForm(formID string, page, pageSize int) ([]model.FormSubmission, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.repo.ListByForm(formID, page, pageSize)
}

// ListByUser 分页查询用户自己的提交
func (s *SubmissionService) ListByUser(userID string, page, pageSize int) ([]model.FormSubmission, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.repo.ListByUser(userID, page, pageSize)
}

// ListApprovals 分页查询审批申请
func (s *SubmissionService) ListApprovals(status, requesterID string, page, pageSize int) ([]model.ApprovalRequest, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.approvalRepo.List(status, requesterID, page, pageSize)
}

// GetApproval 按ID获取审批申请
func (s *SubmissionService) GetApproval(id string) (*model.ApprovalRequest, error) {
	return s.approvalRepo.FindByID(id)
}

// PendingDuration 计算审批申请的等待时长，用于列表展示
func PendingDuration(request *model.ApprovalRequest) time.Duration {
	if request.ResolvedAt != nil {
		return request.ResolvedAt.Sub(request.CreatedAt)
	}
	return time.Since(request.CreatedAt)
}
