package form

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/fisker/formflow-backend/internal/engine"
	"github.com/fisker/formflow-backend/internal/model"
	datasourceService "github.com/fisker/formflow-backend/internal/service/datasource"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type DataSourceHandler struct {
	service *datasourceService.DataSourceService
}

func NewDataSourceHandler(service *datasourceService.DataSourceService) *DataSourceHandler {
	return &DataSourceHandler{service: service}
}

type dataSourceRequest struct {
	Name        string               `json:"name" binding:"required,max=100"`
	Type        model.DataSourceType `json:"type" binding:"required"`
	Description string               `json:"description"`
	Config      datatypes.JSON       `json:"config" binding:"required"`
	Editable    bool                 `json:"editable"`
}

// Create 创建数据源
func (h *DataSourceHandler) Create(c *gin.Context) {
	var req dataSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	userID, _ := c.Get("user_id")
	source, err := h.service.Create(req.Name, req.Type, req.Description, req.Config, req.Editable, userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.Success(source))
}

// Get 获取数据源详情
func (h *DataSourceHandler) Get(c *gin.Context) {
	source, err := h.service.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, model.Error(404, "数据源不存在"))
		return
	}
	c.JSON(http.StatusOK, model.Success(source))
}

// List 获取数据源列表
func (h *DataSourceHandler) List(c *gin.Context) {
	sources, err := h.service.List()
	if err != nil {
		model.HandleError(c, 500, err, "查询数据源列表失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(sources))
}

// Update 更新数据源定义
func (h *DataSourceHandler) Update(c *gin.Context) {
	source, err := h.service.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, model.Error(404, "数据源不存在"))
		return
	}

	var req dataSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	source.Name = req.Name
	source.Type = req.Type
	source.Description = req.Description
	source.Config = req.Config
	source.Editable = req.Editable
	if err := h.service.UpdateDefinition(c.Request.Context(), source); err != nil {
		model.HandleError(c, 500, err, "更新数据源失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(source))
}

// Delete 删除数据源
func (h *DataSourceHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		model.HandleError(c, 500, err, "删除数据源失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// Rows 查询数据源的行，支持搜索、排序与可见列投影
// query参数: search, sort, direction(asc/desc), columns(逗号分隔)
func (h *DataSourceHandler) Rows(c *gin.Context) {
	sourceID := c.Param("id")

	var visibleColumns []string
	if columns := c.Query("columns"); columns != "" {
		visibleColumns = strings.Split(columns, ",")
	}

	direction := engine.SortAsc
	if c.Query("direction") == "desc" {
		direction = engine.SortDesc
	}

	rows, err := engine.ResolveTableRows(
		c.Request.Context(), h.service,
		&engine.DataBinding{SourceID: sourceID},
		visibleColumns,
		c.Query("search"),
		c.Query("sort"),
		direction,
	)
	if err != nil {
		model.HandleError(c, 500, err, "查询数据源行失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(rows))
}

type updateCellRequest struct {
	Patch map[string]interface{} `json:"patch" binding:"required"`
}

// UpdateRow 回写数据源中的一行
func (h *DataSourceHandler) UpdateRow(c *gin.Context) {
	rowIndex, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, "行号无效"))
		return
	}

	var req updateCellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	err = engine.UpdateCell(c.Request.Context(), h.service, c.Param("id"), rowIndex, req.Patch)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.Success(nil))
}
