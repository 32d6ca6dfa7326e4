package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fisker/formflow-backend/internal/engine"
	"github.com/fisker/formflow-backend/internal/model"
	"github.com/fisker/formflow-backend/pkg/logger"
	"github.com/fisker/formflow-backend/pkg/metrics"
	"github.com/fisker/formflow-backend/pkg/redis"
	"gorm.io/gorm"
)

// staticConfig 静态数据源配置
type staticConfig struct {
	Rows []engine.Row `json:"rows"`
}

// httpConfig HTTP 数据源配置
type httpConfig struct {
	URL      string            `json:"url"`
	Method   string            `json:"method"`
	Headers  map[string]string `json:"headers"`
	RowsPath string            `json:"rows_path"` // 响应体中行数组的字段路径，空表示响应体本身是数组
}

// databaseConfig 数据库数据源配置
type databaseConfig struct {
	Table    string   `json:"table"`
	Columns  []string `json:"columns"`
	IDColumn string   `json:"id_column"` // 回写时定位行的列，默认 id
}

// fetchStatic 读取静态数据源的行
func fetchStatic(source *model.DataSource) ([]engine.Row, error) {
	var cfg staticConfig
	if err := json.Unmarshal(source.Config, &cfg); err != nil {
		return nil, fmt.Errorf("静态数据源配置无效: %w", err)
	}
	if cfg.Rows == nil {
		return []engine.Row{}, nil
	}
	return cfg.Rows, nil
}

// fetchHTTP 请求 HTTP 数据源并解析行数组
func fetchHTTP(ctx context.Context, client *http.Client, source *model.DataSource) ([]engine.Row, error) {
	var cfg httpConfig
	if err := json.Unmarshal(source.Config, &cfg); err != nil {
		return nil, fmt.Errorf("HTTP数据源配置无效: %w", err)
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("HTTP数据源缺少url配置")
	}

	method := cfg.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, cfg.URL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range cfg.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP数据源返回状态码 %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, err
	}

	return extractRows(body, cfg.RowsPath)
}

// extractRows 从响应体中按路径提取行数组
func extractRows(body []byte, rowsPath string) ([]engine.Row, error) {
	if rowsPath == "" {
		var rows []engine.Row
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, fmt.Errorf("响应体不是行数组: %w", err)
		}
		return rows, nil
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("响应体不是JSON对象: %w", err)
	}

	// 支持 a.b.c 形式的嵌套路径
	var current interface{} = doc
	for _, part := range strings.Split(rowsPath, ".") {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("响应体中不存在路径 %s", rowsPath)
		}
		current = obj[part]
	}

	rawRows, ok := current.([]interface{})
	if !ok {
		return nil, fmt.Errorf("路径 %s 不是行数组", rowsPath)
	}

	rows := make([]engine.Row, 0, len(rawRows))
	for _, raw := range rawRows {
		if row, ok := raw.(map[string]interface{}); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// fetchDatabase 读取数据库表数据源
func fetchDatabase(ctx context.Context, db *gorm.DB, source *model.DataSource) ([]engine.Row, error) {
	var cfg databaseConfig
	if err := json.Unmarshal(source.Config, &cfg); err != nil {
		return nil, fmt.Errorf("数据库数据源配置无效: %w", err)
	}
	if cfg.Table == "" {
		return nil, fmt.Errorf("数据库数据源缺少table配置")
	}

	query := db.WithContext(ctx).Table(cfg.Table)
	if len(cfg.Columns) > 0 {
		query = query.Select(cfg.Columns)
	}

	var rows []map[string]interface{}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]engine.Row, len(rows))
	for i, row := range rows {
		result[i] = row
	}
	return result, nil
}

// updateStatic 回写静态数据源的一行，整体重写 Config.rows
func updateStatic(repo dataSourceStore, source *model.DataSource, rowIndex int, patch map[string]interface{}) error {
	var cfg staticConfig
	if err := json.Unmarshal(source.Config, &cfg); err != nil {
		return fmt.Errorf("静态数据源配置无效: %w", err)
	}
	if rowIndex < 0 || rowIndex >= len(cfg.Rows) {
		return fmt.Errorf("行号 %d 超出范围", rowIndex)
	}

	for k, v := range patch {
		cfg.Rows[rowIndex][k] = v
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	source.Config = data
	return repo.Update(source)
}

// updateDatabase 回写数据库表数据源的一行
// 行号来自上一次 fetch 的顺序，先取该行再按 ID 列更新
func updateDatabase(ctx context.Context, db *gorm.DB, source *model.DataSource, rowIndex int, patch map[string]interface{}) error {
	var cfg databaseConfig
	if err := json.Unmarshal(source.Config, &cfg); err != nil {
		return fmt.Errorf("数据库数据源配置无效: %w", err)
	}
	idColumn := cfg.IDColumn
	if idColumn == "" {
		idColumn = "id"
	}

	rows, err := fetchDatabase(ctx, db, source)
	if err != nil {
		return err
	}
	if rowIndex < 0 || rowIndex >= len(rows) {
		return fmt.Errorf("行号 %d 超出范围", rowIndex)
	}

	id, ok := rows[rowIndex][idColumn]
	if !ok {
		return fmt.Errorf("行中不存在ID列 %s", idColumn)
	}

	return db.WithContext(ctx).Table(cfg.Table).
		Where(fmt.Sprintf("%s = ?", idColumn), id).
		Updates(patch).Error
}

// ---- Redis 行缓存 ----

func cacheKey(sourceID string) string {
	return "formflow:ds:rows:" + sourceID
}

// cachedRows 从 Redis 读取缓存的行，未命中或 Redis 不可用返回 nil
func cachedRows(ctx context.Context, sourceID string) []engine.Row {
	if !redis.IsEnabled() {
		return nil
	}

	data, err := redis.Client.Get(ctx, cacheKey(sourceID)).Bytes()
	if err != nil {
		return nil
	}

	var rows []engine.Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil
	}

	metrics.DataSourceCacheHits.Inc()
	return rows
}

// storeRows 把行写入 Redis 缓存，失败仅记录日志
func storeRows(ctx context.Context, sourceID string, rows []engine.Row, ttl time.Duration) {
	if !redis.IsEnabled() {
		return
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := redis.Client.Set(ctx, cacheKey(sourceID), data, ttl).Err(); err != nil {
		logger.Warnf("写入数据源缓存失败: source=%s err=%v", sourceID, err)
	}
}

// invalidateRows 删除数据源的行缓存
func invalidateRows(ctx context.Context, sourceID string) {
	if !redis.IsEnabled() {
		return
	}
	if err := redis.Client.Del(ctx, cacheKey(sourceID)).Err(); err != nil {
		logger.Warnf("清理数据源缓存失败: source=%s err=%v", sourceID, err)
	}
}
