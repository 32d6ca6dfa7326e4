package form

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fisker/formflow-backend/internal/engine"
	"github.com/fisker/formflow-backend/internal/model"
	"github.com/fisker/formflow-backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// FormService 表单定义服务
type FormService struct {
	repo     *repository.FormRepository
	appRepo  *repository.ApplicationRepository
	provider engine.DataProvider
}

// NewFormService 创建表单服务
func NewFormService(repo *repository.FormRepository, appRepo *repository.ApplicationRepository, provider engine.DataProvider) *FormService {
	return &FormService{
		repo:     repo,
		appRepo:  appRepo,
		provider: provider,
	}
}

// ParseElements 解析并校验元素树 JSON
// 树内所有元素（含容器）ID 必须唯一，叶子字段的 name 必须唯一
func ParseElements(raw datatypes.JSON) ([]engine.FormElement, error) {
	if len(raw) == 0 {
		return []engine.FormElement{}, nil
	}

	var elements []engine.FormElement
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, fmt.Errorf("元素树JSON无效: %w", err)
	}
	if err := engine.ValidateTree(elements); err != nil {
		return nil, fmt.Errorf("元素树无效: %w", err)
	}
	return elements, nil
}

// Create 创建表单
func (s *FormService) Create(name, description, applicationID string, elements datatypes.JSON, dataSourceID, createdBy string) (*model.Form, error) {
	if applicationID != "" {
		if _, err := s.appRepo.FindByID(applicationID); err != nil {
			return nil, fmt.Errorf("应用 %s 不存在: %w", applicationID, err)
		}
	}
	if _, err := ParseElements(elements); err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		elements = datatypes.JSON("[]")
	}

	form := &model.Form{
		ID:            uuid.New().String(),
		Name:          name,
		Description:   description,
		ApplicationID: applicationID,
		Elements:      elements,
		DataSourceID:  dataSourceID,
		IsPublished:   false,
		CreatedBy:     createdBy,
	}
	if err := s.repo.Create(form); err != nil {
		return nil, err
	}
	return form, nil
}

// GetByID 按ID获取表单
func (s *FormService) GetByID(id string) (*model.Form, error) {
	return s.repo.FindByID(id)
}

// List 分页查询表单
func (s *FormService) List(applicationID string, includeUnpublished bool, page, pageSize int) ([]model.Form, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.repo.List(applicationID, includeUnpublished, page, pageSize)
}

// Update 更新表单定义
func (s *FormService) Update(form *model.Form) error {
	if _, err := ParseElements(form.Elements); err != nil {
		return err
	}
	return s.repo.Update(form)
}

// UpdateElement 替换树中指定元素，整树重建后落库
func (s *FormService) UpdateElement(formID, elementID string, element engine.FormElement) (*model.Form, error) {
	form, err := s.repo.FindByID(formID)
	if err != nil {
		return nil, err
	}

	tree, err := ParseElements(form.Elements)
	if err != nil {
		return nil, err
	}

	updated, ok := engine.Replace(tree, elementID, element)
	if !ok {
		return nil, fmt.Errorf("元素 %s 不存在", elementID)
	}

	data, err := json.Marshal(updated)
	if err != nil {
		return nil, err
	}
	form.Elements = data
	if err := s.repo.Update(form); err != nil {
		return nil, err
	}
	return form, nil
}

// SetPublished 发布或下线表单
func (s *FormService) SetPublished(id string, published bool) error {
	if _, err := s.repo.FindByID(id); err != nil {
		return err
	}
	return s.repo.SetPublished(id, published)
}

// Delete 删除表单
func (s *FormService) Delete(id string) error {
	return s.repo.Delete(id)
}

// RenderResult 渲染投影结果
type RenderResult struct {
	Form     *model.Form          `json:"form"`
	Elements []engine.FormElement `json:"elements"`
	Issues   []engine.RenderIssue `json:"issues,omitempty"`
}

// Render 渲染表单：求值可见性规则、填充数据绑定选项
// formData 为当前已填写的值，用于 visible_when 求值
func (s *FormService) Render(ctx context.Context, formID string, formData map[string]interface{}) (*RenderResult, error) {
	form, err := s.repo.FindByID(formID)
	if err != nil {
		return nil, err
	}

	tree, err := ParseElements(form.Elements)
	if err != nil {
		return nil, err
	}

	rendered, issues := engine.RenderForm(ctx, s.provider, tree, formData)
	return &RenderResult{
		Form:     form,
		Elements: rendered,
		Issues:   issues,
	}, nil
}
