package datasource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fisker/formflow-backend/internal/engine"
	"github.com/fisker/formflow-backend/internal/model"
	"github.com/fisker/formflow-backend/internal/repository"
	"github.com/fisker/formflow-backend/pkg/config"
	"github.com/fisker/formflow-backend/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// dataSourceStore 回写路径用到的仓储子集
type dataSourceStore interface {
	Update(source *model.DataSource) error
}

// DataSourceService 数据源服务，同时实现 engine.DataProvider
type DataSourceService struct {
	repo         *repository.DataSourceRepository
	db           *gorm.DB
	httpClient   *http.Client
	fetchTimeout time.Duration
	cacheTTL     time.Duration
}

// NewDataSourceService 创建数据源服务
func NewDataSourceService(repo *repository.DataSourceRepository, db *gorm.DB, cfg *config.DataSourceConfig) *DataSourceService {
	fetchTimeout := 10 * time.Second
	cacheTTL := 60 * time.Second
	if cfg != nil {
		fetchTimeout = time.Duration(cfg.FetchTimeout) * time.Second
		cacheTTL = time.Duration(cfg.CacheTTL) * time.Second
	}

	return &DataSourceService{
		repo:         repo,
		db:           db,
		httpClient:   &http.Client{Timeout: fetchTimeout},
		fetchTimeout: fetchTimeout,
		cacheTTL:     cacheTTL,
	}
}

// Fetch 按数据源ID拉取全部行，优先读 Redis 缓存
func (s *DataSourceService) Fetch(ctx context.Context, sourceID string) ([]engine.Row, error) {
	if rows := cachedRows(ctx, sourceID); rows != nil {
		return rows, nil
	}

	source, err := s.repo.FindByID(sourceID)
	if err != nil {
		metrics.DataSourceFetchErrors.WithLabelValues("unknown").Inc()
		return nil, fmt.Errorf("数据源 %s 不存在: %w", sourceID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	start := time.Now()
	var rows []engine.Row
	switch source.Type {
	case model.DataSourceTypeStatic:
		rows, err = fetchStatic(source)
	case model.DataSourceTypeHTTP:
		rows, err = fetchHTTP(ctx, s.httpClient, source)
	case model.DataSourceTypeDatabase:
		rows, err = fetchDatabase(ctx, s.db, source)
	default:
		err = fmt.Errorf("未知的数据源类型: %s", source.Type)
	}
	metrics.DataSourceFetchDuration.WithLabelValues(string(source.Type)).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.DataSourceFetchErrors.WithLabelValues(string(source.Type)).Inc()
		return nil, err
	}

	storeRows(ctx, sourceID, rows, s.cacheTTL)
	return rows, nil
}

// Update 回写数据源中的一行
// HTTP 数据源是只读的；static/database 仅在数据源标记为可编辑时允许回写
func (s *DataSourceService) Update(ctx context.Context, sourceID string, rowIndex int, patch map[string]interface{}) error {
	source, err := s.repo.FindByID(sourceID)
	if err != nil {
		return fmt.Errorf("数据源 %s 不存在: %w", sourceID, err)
	}
	if !source.Editable {
		return fmt.Errorf("数据源 %s 不允许编辑", sourceID)
	}

	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	switch source.Type {
	case model.DataSourceTypeStatic:
		err = updateStatic(s.repo, source, rowIndex, patch)
	case model.DataSourceTypeDatabase:
		err = updateDatabase(ctx, s.db, source, rowIndex, patch)
	case model.DataSourceTypeHTTP:
		err = errors.New("HTTP数据源是只读的")
	default:
		err = fmt.Errorf("未知的数据源类型: %s", source.Type)
	}
	if err != nil {
		return err
	}

	invalidateRows(ctx, sourceID)
	return nil
}

// Create 创建数据源
func (s *DataSourceService) Create(name string, sourceType model.DataSourceType, description string, cfg datatypes.JSON, editable bool, createdBy string) (*model.DataSource, error) {
	switch sourceType {
	case model.DataSourceTypeStatic, model.DataSourceTypeHTTP, model.DataSourceTypeDatabase:
	default:
		return nil, fmt.Errorf("未知的数据源类型: %s", sourceType)
	}

	source := &model.DataSource{
		ID:          uuid.New().String(),
		Name:        name,
		Type:        sourceType,
		Description: description,
		Config:      cfg,
		Editable:    editable,
		CreatedBy:   createdBy,
	}
	if err := s.repo.Create(source); err != nil {
		return nil, err
	}
	return source, nil
}

// GetByID 按ID获取数据源
func (s *DataSourceService) GetByID(id string) (*model.DataSource, error) {
	return s.repo.FindByID(id)
}

// List 获取全部数据源
func (s *DataSourceService) List() ([]model.DataSource, error) {
	return s.repo.FindAll()
}

// UpdateDefinition 更新数据源定义并清理行缓存
func (s *DataSourceService) UpdateDefinition(ctx context.Context, source *model.DataSource) error {
	if err := s.repo.Update(source); err != nil {
		return err
	}
	invalidateRows(ctx, source.ID)
	return nil
}

// Delete 删除数据源
func (s *DataSourceService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	invalidateRows(ctx, id)
	return nil
}
