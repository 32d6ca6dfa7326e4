package form

import (
	"net/http"

	"github.com/fisker/formflow-backend/internal/model"
	"github.com/fisker/formflow-backend/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ApplicationHandler struct {
	repo *repository.ApplicationRepository
}

func NewApplicationHandler(repo *repository.ApplicationRepository) *ApplicationHandler {
	return &ApplicationHandler{repo: repo}
}

type applicationRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Create 创建应用
func (h *ApplicationHandler) Create(c *gin.Context) {
	var req applicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	userID, _ := c.Get("user_id")
	app := &model.Application{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		CreatedBy:   userID.(string),
	}
	if err := h.repo.Create(app); err != nil {
		model.HandleError(c, 500, err, "创建应用失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(app))
}

// Get 获取应用详情
func (h *ApplicationHandler) Get(c *gin.Context) {
	app, err := h.repo.FindByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, model.Error(404, "应用不存在"))
		return
	}
	c.JSON(http.StatusOK, model.Success(app))
}

// List 获取应用列表
func (h *ApplicationHandler) List(c *gin.Context) {
	apps, err := h.repo.FindAll()
	if err != nil {
		model.HandleError(c, 500, err, "查询应用列表失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(apps))
}

// Update 更新应用
func (h *ApplicationHandler) Update(c *gin.Context) {
	app, err := h.repo.FindByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, model.Error(404, "应用不存在"))
		return
	}

	var req applicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	app.Name = req.Name
	app.Description = req.Description
	app.Icon = req.Icon
	if err := h.repo.Update(app); err != nil {
		model.HandleError(c, 500, err, "更新应用失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(app))
}

// Delete 删除应用
func (h *ApplicationHandler) Delete(c *gin.Context) {
	if err := h.repo.Delete(c.Param("id")); err != nil {
		model.HandleError(c, 500, err, "删除应用失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}
