package app

import (
	"github.com/fisker/formflow-backend/internal/api/handler"
	"github.com/fisker/formflow-backend/internal/events"
)

// Handlers 包含所有 Handler 实例
type Handlers struct {
	Auth        *handler.AuthHandler
	Application *handler.ApplicationHandler
	Form        *handler.FormHandler
	DataSource  *handler.DataSourceHandler
	Submission  *handler.SubmissionHandler
	Approval    *handler.ApprovalHandler
	Events      *handler.EventsHandler
}

// InitializeHandlers 初始化所有 Handler
func InitializeHandlers(repos *Repositories, services *Services, hub *events.Hub) *Handlers {
	return &Handlers{
		Auth:        handler.NewAuthHandler(services.Auth),
		Application: handler.NewApplicationHandler(repos.Application),
		Form:        handler.NewFormHandler(services.Form),
		DataSource:  handler.NewDataSourceHandler(services.DataSource),
		Submission:  handler.NewSubmissionHandler(services.Submission),
		Approval:    handler.NewApprovalHandler(services.Submission),
		Events:      handler.NewEventsHandler(hub),
	}
}
