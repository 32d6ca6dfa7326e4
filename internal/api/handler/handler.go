// Package handler 提供统一的 handler 导出
// 所有 handler 按功能模块分类到子目录中
package handler

// 重新导出所有 handler 类型，保持向后兼容
import (
	// Auth handlers
	authHandler "github.com/fisker/formflow-backend/internal/api/handler/auth"
	// Events handlers
	eventsHandler "github.com/fisker/formflow-backend/internal/api/handler/events"
	// Form handlers
	formHandler "github.com/fisker/formflow-backend/internal/api/handler/form"
	// Submission handlers
	submissionHandler "github.com/fisker/formflow-backend/internal/api/handler/submission"
)

// Auth handlers
type AuthHandler = authHandler.AuthHandler

var NewAuthHandler = authHandler.NewAuthHandler

// Form handlers
type ApplicationHandler = formHandler.ApplicationHandler
type FormHandler = formHandler.FormHandler
type DataSourceHandler = formHandler.DataSourceHandler

var NewApplicationHandler = formHandler.NewApplicationHandler
var NewFormHandler = formHandler.NewFormHandler
var NewDataSourceHandler = formHandler.NewDataSourceHandler

// Submission handlers
type SubmissionHandler = submissionHandler.SubmissionHandler
type ApprovalHandler = submissionHandler.ApprovalHandler

var NewSubmissionHandler = submissionHandler.NewSubmissionHandler
var NewApprovalHandler = submissionHandler.NewApprovalHandler

// Events handlers
type EventsHandler = eventsHandler.EventsHandler

var NewEventsHandler = eventsHandler.NewEventsHandler
