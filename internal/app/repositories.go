package app

import (
	"github.com/fisker/formflow-backend/internal/repository"
	"github.com/fisker/formflow-backend/pkg/database"
)

// Repositories 包含所有 Repository 实例
type Repositories struct {
	User        *repository.UserRepository
	Application *repository.ApplicationRepository
	Form        *repository.FormRepository
	Submission  *repository.SubmissionRepository
	Approval    *repository.ApprovalRepository
	DataSource  *repository.DataSourceRepository
}

// InitializeRepositories 初始化所有 Repository
func InitializeRepositories() *Repositories {
	return &Repositories{
		User:        repository.NewUserRepository(database.DB),
		Application: repository.NewApplicationRepository(database.DB),
		Form:        repository.NewFormRepository(database.DB),
		Submission:  repository.NewSubmissionRepository(database.DB),
		Approval:    repository.NewApprovalRepository(database.DB),
		DataSource:  repository.NewDataSourceRepository(database.DB),
	}
}
