package submission

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fisker/formflow-backend/internal/engine"
	"github.com/fisker/formflow-backend/internal/model"
	submissionService "github.com/fisker/formflow-backend/internal/service/submission"
	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	service *submissionService.SubmissionService
}

func NewSubmissionHandler(service *submissionService.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{service: service}
}

// Dispatch 处理按钮点击
// 返回的 state 为 confirming 时前端需要展示确认框并带 confirmed=true 重发
func (h *SubmissionHandler) Dispatch(c *gin.Context) {
	var input submissionService.DispatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}
	// 路由中的表单ID优先
	if formID := c.Param("id"); formID != "" {
		input.FormID = formID
	}

	userID, _ := c.Get("user_id")
	role, _ := c.Get("role")
	actor := engine.Actor{ID: userID.(string), Role: role.(string)}

	output, err := h.service.Dispatch(c.Request.Context(), actor, input)
	if err != nil {
		switch {
		case errors.Is(err, submissionService.ErrFormNotPublished):
			c.JSON(http.StatusForbidden, model.Error(403, err.Error()))
		case errors.Is(err, submissionService.ErrButtonNotFound):
			c.JSON(http.StatusNotFound, model.Error(404, err.Error()))
		default:
			model.HandleError(c, 500, err, "按钮分发失败")
		}
		return
	}

	// 分发器内部失败以 state=failed 返回，HTTP层面仍是200
	resp := gin.H{
		"state":  output.Result.State,
		"result": output.Result,
	}
	if output.ValidationErrors != nil {
		resp["validationErrors"] = output.ValidationErrors
	}
	if output.Result.Err != nil {
		resp["error"] = output.Result.Err.Error()
	}

	c.JSON(http.StatusOK, model.Success(resp))
}

// Get 获取提交详情
func (h *SubmissionHandler) Get(c *gin.Context) {
	sub, err := h.service.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, model.Error(404, "提交不存在"))
		return
	}

	// 普通用户只能查看自己的提交
	userID, _ := c.Get("user_id")
	role, _ := c.Get("role")
	if role != "admin" && sub.SubmittedBy != userID.(string) {
		c.JSON(http.StatusForbidden, model.Error(403, "无权查看该提交"))
		return
	}

	c.JSON(http.StatusOK, model.Success(sub))
}

// ListByForm 分页查询表单的提交（管理员）
func (h *SubmissionHandler) ListByForm(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	subs, total, err := h.service.ListByForm(c.Param("id"), page, pageSize)
	if err != nil {
		model.HandleError(c, 500, err, "查询提交列表失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(model.NewPaginated(subs, total, page, pageSize)))
}

// ListMine 分页查询当前用户的提交
func (h *SubmissionHandler) ListMine(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	userID, _ := c.Get("user_id")
	subs, total, err := h.service.ListByUser(userID.(string), page, pageSize)
	if err != nil {
		model.HandleError(c, 500, err, "查询提交列表失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(model.NewPaginated(subs, total, page, pageSize)))
}
