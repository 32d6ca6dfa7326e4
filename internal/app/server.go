package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fisker/formflow-backend/internal/api/router"
	"github.com/fisker/formflow-backend/pkg/config"
	"github.com/fisker/formflow-backend/pkg/database"
	"github.com/fisker/formflow-backend/pkg/logger"
	pkgredis "github.com/fisker/formflow-backend/pkg/redis"
)

// StartServer 启动 HTTP 服务器并阻塞到收到退出信号
func StartServer(application *App) {
	cfg := application.Config
	handlers := application.Handlers

	r := router.Setup(
		handlers.Auth,
		handlers.Application,
		handlers.Form,
		handlers.DataSource,
		handlers.Submission,
		handlers.Approval,
		handlers.Events,
		application.Services.Auth,
		cfg.Server.Mode,
	)

	addr := fmt.Sprintf(":%d", cfg.Server.APIPort)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	printStartupBanner(cfg)

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Infof("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// 1. Shutdown HTTP server
	logger.Infof("  → Stopping HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Infof("  Warning: HTTP server shutdown error: %v", err)
	} else {
		logger.Infof("  ✓ HTTP server stopped")
	}

	// 2. Close event hub (disconnects websocket subscribers)
	logger.Infof("  → Closing event hub...")
	application.EventHub.Close()
	logger.Infof("  ✓ Event hub closed")

	// 3. Close Redis
	if err := pkgredis.Close(); err != nil {
		logger.Infof("  Warning: Redis close error: %v", err)
	}

	// 4. Close database
	logger.Infof("  → Closing database...")
	if err := database.Close(); err != nil {
		logger.Infof("  Warning: database close error: %v", err)
	} else {
		logger.Infof("  ✓ Database closed")
	}

	// Flush logs
	logger.Sync()
	logger.Infof("Shutdown complete")
}

// printStartupBanner 打印启动信息
func printStartupBanner(cfg *config.Config) {
	logger.Infof("==========================================")
	logger.Infof("  FormFlow API Server")
	logger.Infof("  Listen: :%d (mode: %s)", cfg.Server.APIPort, cfg.Server.Mode)
	logger.Infof("  Database: %s@%s:%d/%s", cfg.Database.Driver, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	logger.Infof("==========================================")
}
