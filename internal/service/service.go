// Package service 提供统一的 service 导出
// 所有 service 按功能模块分类到子目录中
package service

// 重新导出所有 service 类型，保持向后兼容
import (
	// Auth services
	authService "github.com/fisker/formflow-backend/internal/service/auth"
	// DataSource services
	datasourceService "github.com/fisker/formflow-backend/internal/service/datasource"
	// Form services
	formService "github.com/fisker/formflow-backend/internal/service/form"
	// Submission services
	submissionService "github.com/fisker/formflow-backend/internal/service/submission"
)

// Auth services
type AuthService = authService.AuthService
type Claims = authService.Claims

var NewAuthService = authService.NewAuthService

// Form services
type FormService = formService.FormService
type RenderResult = formService.RenderResult

var NewFormService = formService.NewFormService

// Submission services
type SubmissionService = submissionService.SubmissionService
type DispatchInput = submissionService.DispatchInput
type DispatchOutput = submissionService.DispatchOutput

var NewSubmissionService = submissionService.NewSubmissionService

// DataSource services
type DataSourceService = datasourceService.DataSourceService

var NewDataSourceService = datasourceService.NewDataSourceService
