package app

import (
	"github.com/fisker/formflow-backend/internal/events"
	"github.com/fisker/formflow-backend/internal/service"
	"github.com/fisker/formflow-backend/pkg/config"
	"github.com/fisker/formflow-backend/pkg/database"
)

// Services 包含所有 Service 实例
type Services struct {
	Auth       *service.AuthService
	Form       *service.FormService
	Submission *service.SubmissionService
	DataSource *service.DataSourceService
}

// InitializeServices 初始化所有 Service
// 数据源服务同时充当表单渲染的数据提供方
func InitializeServices(repos *Repositories, cfg *config.Config, hub *events.Hub) *Services {
	dataSourceService := service.NewDataSourceService(repos.DataSource, database.DB, &cfg.DataSource)

	return &Services{
		Auth:       service.NewAuthService(repos.User, cfg.Security.JWTSecret, cfg.Security.TokenExpireHours),
		Form:       service.NewFormService(repos.Form, repos.Application, dataSourceService),
		Submission: service.NewSubmissionService(repos.Submission, repos.Approval, repos.Form, hub),
		DataSource: dataSourceService,
	}
}
