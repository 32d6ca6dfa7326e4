package app

import (
	"log"
	"os"

	"github.com/fisker/formflow-backend/pkg/config"
	"github.com/fisker/formflow-backend/pkg/database"
	"github.com/fisker/formflow-backend/pkg/logger"
	pkgredis "github.com/fisker/formflow-backend/pkg/redis"
)

// Bootstrap 初始化基础设施（logger, database, redis）
func Bootstrap(cfgPath string) (*config.Config, error) {
	// 支持通过环境变量指定配置文件路径
	if cfgPath == "" {
		cfgPath = os.Getenv("FORMFLOW_CONFIG")
		if cfgPath == "" {
			cfgPath = "config/config.yaml"
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	// Initialize logger
	if err := logger.Init(&cfg.Logging); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Initialize database
	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	logger.Infof("Database initialized successfully")

	// Initialize Redis (optional, for data source row caching)
	if err := pkgredis.Init(&cfg.Redis); err != nil {
		logger.Warnf("Redis initialization failed: %v", err)
		logger.Info("   → Data source rows will be fetched without caching")
	} else if cfg.Redis.Enabled {
		logger.Infof("Redis initialized successfully - data source caching enabled")
	} else {
		logger.Info("Redis is disabled in config - data source caching disabled")
	}

	return cfg, nil
}
