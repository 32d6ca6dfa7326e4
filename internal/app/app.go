package app

import (
	"github.com/fisker/formflow-backend/internal/events"
	"github.com/fisker/formflow-backend/internal/notification"
	"github.com/fisker/formflow-backend/pkg/config"
	"github.com/fisker/formflow-backend/pkg/database"
	"github.com/fisker/formflow-backend/pkg/logger"
)

// App 应用程序上下文
type App struct {
	Config              *config.Config
	Repos               *Repositories
	Services            *Services
	Handlers            *Handlers
	EventHub            *events.Hub
	NotificationManager *notification.Manager
}

// Initialize 初始化应用程序
func Initialize(cfgPath string) (*App, error) {
	// 1. Bootstrap (logger, database, redis)
	cfg, err := Bootstrap(cfgPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			database.Close()
		}
	}()

	// 2. Event hub
	hub := events.NewHub()

	// 3. Initialize repositories
	repos := InitializeRepositories()
	logger.Infof("Repositories initialized")

	// 4. Initialize services
	services := InitializeServices(repos, cfg, hub)
	logger.Infof("Services initialized")

	// 5. Notification manager consumes workflow events
	notificationMgr := notification.NewManager(&cfg.Notification)
	hub.AddHandler(notificationMgr.HandleEvent)
	logger.Infof("Notification Manager initialized")

	// 6. Initialize handlers
	handlers := InitializeHandlers(repos, services, hub)
	logger.Infof("Handlers initialized")

	return &App{
		Config:              cfg,
		Repos:               repos,
		Services:            services,
		Handlers:            handlers,
		EventHub:            hub,
		NotificationManager: notificationMgr,
	}, nil
}
