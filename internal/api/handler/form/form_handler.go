package form

import (
	"net/http"
	"strconv"

	"github.com/fisker/formflow-backend/internal/engine"
	"github.com/fisker/formflow-backend/internal/model"
	formService "github.com/fisker/formflow-backend/internal/service/form"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type FormHandler struct {
	service *formService.FormService
}

func NewFormHandler(service *formService.FormService) *FormHandler {
	return &FormHandler{service: service}
}

type formRequest struct {
	Name          string         `json:"name" binding:"required,max=100"`
	Description   string         `json:"description"`
	ApplicationID string         `json:"applicationId"`
	Elements      datatypes.JSON `json:"elements"`
	DataSourceID  string         `json:"dataSourceId"`
}

// Create 创建表单
func (h *FormHandler) Create(c *gin.Context) {
	var req formRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	userID, _ := c.Get("user_id")
	form, err := h.service.Create(req.Name, req.Description, req.ApplicationID, req.Elements, req.DataSourceID, userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.Success(form))
}

// Get 获取表单详情
// 未发布的表单仅管理员可见
func (h *FormHandler) Get(c *gin.Context) {
	form, err := h.service.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, model.Error(404, "表单不存在"))
		return
	}

	role, _ := c.Get("role")
	if !form.IsPublished && role != "admin" {
		c.JSON(http.StatusForbidden, model.Error(403, "表单未发布"))
		return
	}

	c.JSON(http.StatusOK, model.Success(form))
}

// List 分页查询表单
func (h *FormHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	applicationID := c.Query("applicationId")

	// 普通用户只能看到已发布的表单
	role, _ := c.Get("role")
	includeUnpublished := role == "admin"

	forms, total, err := h.service.List(applicationID, includeUnpublished, page, pageSize)
	if err != nil {
		model.HandleError(c, 500, err, "查询表单列表失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(model.NewPaginated(forms, total, page, pageSize)))
}

// Update 更新表单定义
func (h *FormHandler) Update(c *gin.Context) {
	form, err := h.service.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, model.Error(404, "表单不存在"))
		return
	}

	var req formRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	form.Name = req.Name
	form.Description = req.Description
	form.ApplicationID = req.ApplicationID
	form.DataSourceID = req.DataSourceID
	if req.Elements != nil {
		form.Elements = req.Elements
	}
	if err := h.service.Update(form); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.Success(form))
}

type updateElementRequest struct {
	Element engine.FormElement `json:"element" binding:"required"`
}

// UpdateElement 替换元素树中的一个元素
func (h *FormHandler) UpdateElement(c *gin.Context) {
	var req updateElementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	form, err := h.service.UpdateElement(c.Param("id"), c.Param("elementId"), req.Element)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.Success(form))
}

// Publish 发布表单
func (h *FormHandler) Publish(c *gin.Context) {
	if err := h.service.SetPublished(c.Param("id"), true); err != nil {
		c.JSON(http.StatusNotFound, model.Error(404, "表单不存在"))
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// Unpublish 下线表单
func (h *FormHandler) Unpublish(c *gin.Context) {
	if err := h.service.SetPublished(c.Param("id"), false); err != nil {
		c.JSON(http.StatusNotFound, model.Error(404, "表单不存在"))
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// Delete 删除表单
func (h *FormHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("id")); err != nil {
		model.HandleError(c, 500, err, "删除表单失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

type renderRequest struct {
	FormData map[string]interface{} `json:"formData"`
}

// Render 渲染表单：求值可见性、填充数据绑定选项
func (h *FormHandler) Render(c *gin.Context) {
	var req renderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	form, err := h.service.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, model.Error(404, "表单不存在"))
		return
	}
	role, _ := c.Get("role")
	if !form.IsPublished && role != "admin" {
		c.JSON(http.StatusForbidden, model.Error(403, "表单未发布"))
		return
	}

	result, err := h.service.Render(c.Request.Context(), form.ID, req.FormData)
	if err != nil {
		model.HandleError(c, 500, err, "渲染表单失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(result))
}
