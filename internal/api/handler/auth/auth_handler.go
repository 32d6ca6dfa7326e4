package auth

import (
	"net/http"

	"github.com/fisker/formflow-backend/internal/model"
	authService "github.com/fisker/formflow-backend/internal/service/auth"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service *authService.AuthService
}

func NewAuthHandler(service *authService.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register 用户注册
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	user, err := h.service.Register(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.Success(user))
}

// Login 用户登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	resp, err := h.service.Login(&req, c.ClientIP())
	if err != nil {
		c.JSON(http.StatusUnauthorized, model.Error(401, err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.Success(resp))
}

// GetCurrentUser 获取当前登录用户信息
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, model.Error(401, "未登录"))
		return
	}

	user, err := h.service.GetUserByID(userID.(string))
	if err != nil {
		c.JSON(http.StatusNotFound, model.Error(404, "用户不存在"))
		return
	}

	c.JSON(http.StatusOK, model.Success(user))
}

// ListUsers 获取全部用户（管理员）
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.service.GetAllUsers()
	if err != nil {
		model.HandleError(c, 500, err, "查询用户列表失败")
		return
	}

	c.JSON(http.StatusOK, model.Success(users))
}
