package submission

import (
	"net/http"
	"strconv"

	"github.com/fisker/formflow-backend/internal/model"
	submissionService "github.com/fisker/formflow-backend/internal/service/submission"
	"github.com/gin-gonic/gin"
)

type ApprovalHandler struct {
	service *submissionService.SubmissionService
}

func NewApprovalHandler(service *submissionService.SubmissionService) *ApprovalHandler {
	return &ApprovalHandler{service: service}
}

// List 分页查询审批申请
// 管理员可以查看全部申请，普通用户只能查看自己发起的
func (h *ApprovalHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	status := c.Query("status")

	requesterID := ""
	role, _ := c.Get("role")
	if role != "admin" {
		userID, _ := c.Get("user_id")
		requesterID = userID.(string)
	}

	requests, total, err := h.service.ListApprovals(status, requesterID, page, pageSize)
	if err != nil {
		model.HandleError(c, 500, err, "查询审批列表失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(model.NewPaginated(requests, total, page, pageSize)))
}

// Get 获取审批申请详情
func (h *ApprovalHandler) Get(c *gin.Context) {
	request, err := h.service.GetApproval(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, model.Error(404, "审批申请不存在"))
		return
	}

	userID, _ := c.Get("user_id")
	role, _ := c.Get("role")
	if role != "admin" && request.RequesterID != userID.(string) {
		c.JSON(http.StatusForbidden, model.Error(403, "无权查看该审批申请"))
		return
	}

	c.JSON(http.StatusOK, model.Success(request))
}
