package di

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"taskmanager/application/serviceimpl"
	"taskmanager/domain/ports"
	"taskmanager/domain/repositories"
	"taskmanager/domain/services"
	"taskmanager/infrastructure/messaging"
	natspkg "taskmanager/infrastructure/nats"
	"taskmanager/infrastructure/postgres"
	redispkg "taskmanager/infrastructure/redis"
	"taskmanager/infrastructure/storage"
	"taskmanager/infrastructure/telegram"
	"taskmanager/infrastructure/websocket"
	"taskmanager/interfaces/api/handlers"
	"taskmanager/pkg/config"
	"taskmanager/pkg/logger"
	"taskmanager/pkg/scheduler"
)

type Container struct {
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB
	RedisClient    *redispkg.Client // optional, feed cache
	NATSClient     *natspkg.Client  // optional, event stream
	NATSSubscriber *natspkg.Subscriber
	Storage        ports.StoragePort
	EventScheduler scheduler.EventScheduler
	Hub            *websocket.Hub
	Events         ports.EventPublisherPort
	Notifier       ports.ReminderNotifierPort // optional

	// Repositories
	TaskRepository         repositories.TaskRepository
	SubtaskRepository      repositories.SubtaskRepository
	NotificationRepository repositories.NotificationRepository
	AttachmentRepository   repositories.AttachmentRepository
	UserRepository         repositories.UserRepository

	// Services
	TaskService         services.TaskService
	SubtaskService      services.SubtaskService
	NotificationService *serviceimpl.NotificationServiceImpl
	ReminderService     services.ReminderService
	AttachmentService   services.AttachmentService
	UserService         services.UserService
	StorageService      services.StorageService // local storage only
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initLogger(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	c.initEvents()
	c.initRepositories()
	c.initServices()

	if err := c.initScheduler(); err != nil {
		return err
	}

	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

func (c *Container) initLogger() error {
	logConfig := logger.Config{
		Level:      c.Config.Log.Level,
		Format:     c.Config.Log.Format,
		Output:     c.Config.Log.Output,
		FilePath:   c.Config.Log.FilePath,
		MaxSize:    c.Config.Log.MaxSize,
		MaxBackups: c.Config.Log.MaxBackups,
		MaxAge:     c.Config.Log.MaxAge,
		Compress:   c.Config.Log.Compress,
	}

	if err := logger.Init(logConfig); err != nil {
		return err
	}

	logger.Info("Logger initialized",
		"level", c.Config.Log.Level,
		"format", c.Config.Log.Format,
		"output", c.Config.Log.Output,
	)
	return nil
}

func (c *Container) initInfrastructure() error {
	dbConfig := postgres.DatabaseConfig{
		Driver:     c.Config.Database.Driver,
		Host:       c.Config.Database.Host,
		Port:       c.Config.Database.Port,
		User:       c.Config.Database.User,
		Password:   c.Config.Database.Password,
		DBName:     c.Config.Database.DBName,
		SSLMode:    c.Config.Database.SSLMode,
		SQLitePath: c.Config.Database.SQLitePath,
		LogLevel:   c.Config.Log.Level,
	}

	db, err := postgres.NewDatabase(dbConfig)
	if err != nil {
		return err
	}
	c.DB = db
	logger.Info("Database connected", "driver", dbConfig.Driver, "db", c.Config.Database.DBName)

	if err := postgres.Migrate(db); err != nil {
		return err
	}
	logger.Info("Database migrated")

	// Redis and NATS are optional; the API keeps working without them
	if c.Config.Redis.URL != "" {
		redisClient, err := redispkg.NewClient(&c.Config.Redis)
		if err != nil {
			logger.Warn("Redis client initialization failed (feed cache disabled)", "error", err)
		} else {
			c.RedisClient = redisClient
			logger.Info("Redis client initialized")
		}
	}

	if c.Config.NATS.URL != "" {
		natsClient, err := natspkg.NewClient(natspkg.ClientConfig{
			URL:  c.Config.NATS.URL,
			Name: c.Config.App.Name,
		})
		if err != nil {
			logger.Warn("NATS client initialization failed (event stream disabled)", "error", err)
		} else {
			c.NATSClient = natsClient
			logger.Info("NATS client initialized", "url", c.Config.NATS.URL)
		}
	}

	if err := c.initStorage(); err != nil {
		return err
	}

	if c.Config.Reminder.TelegramToken != "" {
		notifier, err := telegram.NewTelegramNotifier(c.Config.Reminder.TelegramToken, c.Config.Reminder.TelegramChatID)
		if err != nil {
			logger.Warn("Telegram notifier disabled", "error", err)
		} else {
			c.Notifier = notifier
			logger.Info("Telegram notifier initialized")
		}
	}

	return nil
}

func (c *Container) initStorage() error {
	switch c.Config.Storage.Type {
	case "s3":
		s3Storage, err := storage.NewS3Storage(storage.S3StorageConfig{
			Endpoint:  c.Config.Storage.S3.Endpoint,
			AccessKey: c.Config.Storage.S3.AccessKey,
			SecretKey: c.Config.Storage.S3.SecretKey,
			Bucket:    c.Config.Storage.S3.Bucket,
			UseSSL:    c.Config.Storage.S3.UseSSL,
			Region:    c.Config.Storage.S3.Region,
			PublicURL: c.Config.Storage.S3.PublicURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		c.Storage = s3Storage
		logger.Info("S3 storage initialized",
			"endpoint", c.Config.Storage.S3.Endpoint,
			"bucket", c.Config.Storage.S3.Bucket,
		)

	default:
		localStorage, err := storage.NewLocalStorage(storage.LocalStorageConfig{
			BasePath: c.Config.Storage.BasePath,
			BaseURL:  c.Config.Storage.BaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize local storage: %w", err)
		}
		c.Storage = localStorage
		logger.Info("Local storage initialized", "path", c.Config.Storage.BasePath)
	}

	return nil
}

// initEvents wires event fan-out. With NATS the hub is fed from the stream
// subscription, so every API instance pushes every event to its own clients.
func (c *Container) initEvents() {
	c.Hub = websocket.NewHub()
	go c.Hub.Run()
	broadcaster := websocket.NewEventBroadcaster(c.Hub)

	if c.NATSClient == nil {
		c.Events = messaging.NewMultiPublisher(broadcaster)
		logger.Info("Events delivered to websocket clients only")
		return
	}

	c.Events = messaging.NewMultiPublisher(messaging.NewNATSEventPublisher(c.NATSClient))

	subscriber := natspkg.NewSubscriber(c.NATSClient.Conn())
	subscriber.OnMessage(broadcaster.HandleNATSMessage)
	if err := subscriber.Start(); err != nil {
		logger.Warn("NATS subscriber failed, publishing to websocket directly", "error", err)
		c.Events = messaging.NewMultiPublisher(messaging.NewNATSEventPublisher(c.NATSClient), broadcaster)
		return
	}
	c.NATSSubscriber = subscriber
	logger.Info("Events published to NATS and relayed to websocket clients")
}

func (c *Container) initRepositories() {
	c.TaskRepository = postgres.NewTaskRepository(c.DB)
	c.SubtaskRepository = postgres.NewSubtaskRepository(c.DB)
	c.NotificationRepository = postgres.NewNotificationRepository(c.DB)
	c.AttachmentRepository = postgres.NewAttachmentRepository(c.DB)
	c.UserRepository = postgres.NewUserRepository(c.DB)
	logger.Info("Repositories initialized")
}

func (c *Container) initServices() {
	c.EventScheduler = scheduler.NewEventScheduler()

	c.NotificationService = serviceimpl.NewNotificationService(
		c.TaskRepository,
		c.NotificationRepository,
		c.RedisClient,
		c.Config.Feed.CacheWindow,
		c.Events,
	)

	attachmentConfig := serviceimpl.AttachmentConfig{
		MaxUploadSize: c.Config.Storage.MaxUploadSize,
	}
	if c.Config.Storage.Type != "s3" {
		attachmentConfig.LocalBasePath = c.Config.Storage.BasePath
		c.StorageService = serviceimpl.NewStorageCleanupService(
			serviceimpl.StorageCleanupConfig{BasePath: c.Config.Storage.BasePath},
			c.TaskRepository,
			c.AttachmentRepository,
			c.EventScheduler,
		)
	}
	c.AttachmentService = serviceimpl.NewAttachmentService(attachmentConfig, c.AttachmentRepository, c.TaskRepository, c.Storage)

	c.TaskService = serviceimpl.NewTaskService(
		c.TaskRepository,
		c.NotificationRepository,
		c.AttachmentService,
		c.NotificationService,
		c.Events,
	)
	c.SubtaskService = serviceimpl.NewSubtaskService(
		c.SubtaskRepository,
		c.TaskRepository,
		c.NotificationService,
		c.Events,
	)
	c.ReminderService = serviceimpl.NewDueReminderService(
		serviceimpl.DueReminderConfig{Cron: c.Config.Reminder.Cron},
		c.NotificationService,
		c.NotificationRepository,
		c.Notifier,
		c.Events,
		c.EventScheduler,
	)
	c.UserService = serviceimpl.NewUserService(c.UserRepository, c.Config.JWT.Secret, c.Config.JWT.TTL)

	logger.Info("Services initialized")
}

func (c *Container) initScheduler() error {
	if c.Config.Reminder.Enabled {
		if err := c.ReminderService.RegisterReminderJob(); err != nil {
			return fmt.Errorf("failed to register reminder job: %w", err)
		}
		logger.Info("Due reminder job registered", "cron", c.Config.Reminder.Cron)
	}

	if c.StorageService != nil {
		if err := c.StorageService.RegisterCleanupJob(); err != nil {
			return fmt.Errorf("failed to register storage cleanup job: %w", err)
		}
	}

	c.EventScheduler.Start()
	logger.Info("Event scheduler started")
	return nil
}

func (c *Container) Cleanup() error {
	logger.Info("Starting cleanup...")

	if c.EventScheduler != nil && c.EventScheduler.IsRunning() {
		c.EventScheduler.Stop()
		logger.Info("Event scheduler stopped")
	}

	if c.NATSSubscriber != nil {
		if err := c.NATSSubscriber.Stop(); err != nil {
			logger.Warn("Failed to stop NATS subscriber", "error", err)
		}
	}

	if c.Hub != nil {
		c.Hub.Stop()
	}

	if c.NATSClient != nil {
		c.NATSClient.Close()
		logger.Info("NATS connection closed")
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Warn("Failed to close Redis connection", "error", err)
		}
	}

	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Warn("Failed to close database connection", "error", err)
			} else {
				logger.Info("Database connection closed")
			}
		}
	}

	logger.Info("Cleanup completed")
	return nil
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

func (c *Container) GetHandlerServices() *handlers.Services {
	checks := []handlers.HealthCheck{{
		Name: "database",
		Check: func(ctx context.Context) error {
			sqlDB, err := c.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}}
	if c.RedisClient != nil {
		checks = append(checks, handlers.HealthCheck{Name: "redis", Check: c.RedisClient.Ping})
	}
	if c.NATSClient != nil {
		checks = append(checks, handlers.HealthCheck{
			Name: "nats",
			Check: func(ctx context.Context) error {
				_, err := c.NATSClient.GetStatus(ctx)
				return err
			},
		})
	}

	return &handlers.Services{
		TaskService:         c.TaskService,
		SubtaskService:      c.SubtaskService,
		NotificationService: c.NotificationService,
		AttachmentService:   c.AttachmentService,
		UserService:         c.UserService,
		StorageService:      c.StorageService,
		Scheduler:           c.EventScheduler,
		Health:              checks,
		AppName:             c.Config.App.Name,
	}
}
