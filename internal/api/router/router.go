package router

import (
	"github.com/fisker/formflow-backend/internal/api/handler"
	"github.com/fisker/formflow-backend/internal/api/middleware"
	"github.com/fisker/formflow-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Setup(
	authHandler *handler.AuthHandler,
	applicationHandler *handler.ApplicationHandler,
	formHandler *handler.FormHandler,
	dataSourceHandler *handler.DataSourceHandler,
	submissionHandler *handler.SubmissionHandler,
	approvalHandler *handler.ApprovalHandler,
	eventsHandler *handler.EventsHandler,
	authService *service.AuthService,
	mode string,
) *gin.Engine {
	gin.SetMode(mode)
	r := gin.New()

	// 使用自定义的 recovery 中间件（打印详细错误信息）
	r.Use(middleware.RecoveryMiddleware())
	r.Use(gin.Logger())
	r.Use(middleware.CORS())
	r.Use(middleware.MetricsMiddleware())

	// Prometheus 指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// WebSocket 事件流（token 经 query 参数）
	r.GET("/ws/events", middleware.AuthMiddleware(authService), eventsHandler.Stream)

	// 公开API（不需要认证）
	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}
	}

	// 需要认证的API
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(authService))
	{
		authed.GET("/auth/me", authHandler.GetCurrentUser)

		// 应用与表单（读取）
		authed.GET("/applications", applicationHandler.List)
		authed.GET("/applications/:id", applicationHandler.Get)
		authed.GET("/forms", formHandler.List)
		authed.GET("/forms/:id", formHandler.Get)
		authed.POST("/forms/:id/render", formHandler.Render)

		// 按钮分发与提交
		authed.POST("/forms/:id/dispatch", submissionHandler.Dispatch)
		authed.GET("/submissions/mine", submissionHandler.ListMine)
		authed.GET("/submissions/:id", submissionHandler.Get)

		// 审批
		authed.GET("/approvals", approvalHandler.List)
		authed.GET("/approvals/:id", approvalHandler.Get)

		// 数据表字段的行查询与回写
		authed.GET("/datasources/:id/rows", dataSourceHandler.Rows)
		authed.PUT("/datasources/:id/rows/:index", dataSourceHandler.UpdateRow)
	}

	// 管理员API（表单设计器）
	admin := api.Group("")
	admin.Use(middleware.AuthMiddleware(authService), middleware.AdminMiddleware())
	{
		admin.GET("/users", authHandler.ListUsers)

		admin.POST("/applications", applicationHandler.Create)
		admin.PUT("/applications/:id", applicationHandler.Update)
		admin.DELETE("/applications/:id", applicationHandler.Delete)

		admin.POST("/forms", formHandler.Create)
		admin.PUT("/forms/:id", formHandler.Update)
		admin.PUT("/forms/:id/elements/:elementId", formHandler.UpdateElement)
		admin.POST("/forms/:id/publish", formHandler.Publish)
		admin.POST("/forms/:id/unpublish", formHandler.Unpublish)
		admin.DELETE("/forms/:id", formHandler.Delete)
		admin.GET("/forms/:id/submissions", submissionHandler.ListByForm)

		admin.GET("/datasources", dataSourceHandler.List)
		admin.GET("/datasources/:id", dataSourceHandler.Get)
		admin.POST("/datasources", dataSourceHandler.Create)
		admin.PUT("/datasources/:id", dataSourceHandler.Update)
		admin.DELETE("/datasources/:id", dataSourceHandler.Delete)
	}

	return r
}
