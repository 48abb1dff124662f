package app

import (
	"context"
	"fmt"
	"time"

	"bookfair/config"
	"bookfair/cron"
	"bookfair/database"
	"bookfair/database/repository"
	"bookfair/handlers"
	"bookfair/middleware"
	"bookfair/routes"
	"bookfair/services/account"
	"bookfair/services/allocation"
	"bookfair/services/analytics"
	"bookfair/services/credential"
	"bookfair/services/inventory"
	"bookfair/services/lock"
	"bookfair/services/notification"
	"bookfair/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// App holds the wired services of one running process.
type App struct {
	Config config.Config
	Logger *zap.Logger

	Repos      *repository.Repositories
	Tokens     *utils.TokenManager
	Issuer     *credential.Issuer
	Engine     *allocation.Engine
	Inventory  *inventory.Service
	Analytics  *analytics.Aggregator
	Accounts   *account.DefaultAccountService
	Sender     notification.Sender
	Dispatcher *notification.Dispatcher
	Health     *utils.HealthMonitor

	mongo   *mongo.Client
	redis   *redis.Client
	queue   *asynq.Client
	stopper []func()
}

// New connects the configured backends and wires every service.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger}
	checks := map[string]utils.HealthCheck{}

	if cfg.StorageDriver == "mongo" {
		client, err := database.InitDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.mongo = client
		checks["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
	}
	repos, err := repository.Open(ctx, cfg.StorageDriver, a.mongo, cfg.DatabaseName)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Repos = repos

	locker, err := a.locker(cfg, checks)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Tokens = utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	a.Issuer = credential.NewIssuer(cfg.CredentialSecret, repos.Ledger)
	a.Engine = allocation.NewEngine(repos.Ledger, repos.Stalls, repos.Vendors, a.Issuer, locker, logger,
		allocation.Options{MaxConfirmedPerVendor: cfg.MaxConfirmedPerVendor})
	a.Inventory = inventory.NewService(repos.Stalls, repos.Ledger, logger)
	a.Analytics = analytics.NewAggregator(repos.Stalls, repos.Ledger, repos.Vendors)
	a.Accounts = account.NewDefaultAccountService(repos, a.Tokens, cfg.StaffRegistrationKey, logger)

	if a.Sender, err = a.sender(ctx, cfg); err != nil {
		a.Close()
		return nil, err
	}
	publisher, err := a.publisher(cfg, checks)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Dispatcher = notification.NewDispatcher(repos.Ledger, publisher, logger)
	a.Health = utils.NewHealthMonitor(checks)
	return a, nil
}

func (a *App) locker(cfg config.Config, checks map[string]utils.HealthCheck) (lock.Locker, error) {
	switch cfg.LockDriver {
	case "", "local":
		return lock.NewKeyedMutex(cfg.LockWaitTimeout), nil
	case "redis":
		client, err := utils.NewRedisClient(cfg, cfg.RedisLockDB)
		if err != nil {
			return nil, err
		}
		a.redis = client
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		return lock.NewRedisLocker(client, cfg.LockTTL, cfg.LockWaitTimeout, a.Logger), nil
	default:
		return nil, fmt.Errorf("unknown lock driver %q", cfg.LockDriver)
	}
}

func (a *App) sender(ctx context.Context, cfg config.Config) (notification.Sender, error) {
	switch cfg.NotifyDriver {
	case "", "log":
		return notification.LogSender{Logger: a.Logger}, nil
	case "fcm":
		client, err := notification.NewFCMClient(ctx, cfg.FirebaseCredentialsFile)
		if err != nil {
			return nil, err
		}
		return notification.NewFCMSender(client, a.Repos.Vendors, a.Logger), nil
	default:
		return nil, fmt.Errorf("unknown notify driver %q", cfg.NotifyDriver)
	}
}

func (a *App) publisher(cfg config.Config, checks map[string]utils.HealthCheck) (notification.Publisher, error) {
	switch cfg.DispatchMode {
	case "", "direct":
		return notification.DirectPublisher{Sender: a.Sender}, nil
	case "queue":
		client := asynq.NewClient(cron.RedisQueueOpt(cfg))
		a.queue = client
		checks["queue"] = func(context.Context) error { return client.Ping() }
		return notification.NewQueuePublisher(client, "default"), nil
	default:
		return nil, fmt.Errorf("unknown dispatch mode %q", cfg.DispatchMode)
	}
}

// Handlers assembles the HTTP handler bundle.
func (a *App) Handlers() *handlers.HandlerBundle {
	return &handlers.HandlerBundle{
		Tokens:       a.Tokens,
		Accounts:     handlers.NewAccountHandler(a.Accounts),
		Stalls:       handlers.NewStallHandler(a.Inventory),
		Reservations: handlers.NewReservationHandler(a.Engine),
		Analytics:    handlers.NewAnalyticsHandler(a.Analytics),
		Credentials:  handlers.NewCredentialHandler(a.Issuer, a.Engine, a.Inventory),
		Vendors:      handlers.NewVendorDirectoryHandler(a.Accounts, a.Engine),
		Health:       &handlers.HealthHandler{Monitor: a.Health},
	}
}

// Router builds the gin engine with the shared middleware chain.
func (a *App) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(a.Config.MaxRequestsPerMin))
	routes.RegisterRoutes(router, a.Handlers())
	return router
}

// Start launches the background loops: the outbox relay, the health
// monitor and, in queue mode, the event worker. They stop with ctx or Close.
func (a *App) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	a.stopper = append(a.stopper, cancel)

	if a.queue != nil {
		a.stopper = append(a.stopper, cron.InitEventWorker(a.Config, a.Sender, a.Logger))
	}
	interval := a.Config.DispatchInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	cron.StartRelay(ctx, a.Dispatcher, interval, a.Logger)
	a.Health.Start(ctx, 30*time.Second)
}

// Close stops background loops and releases connections.
func (a *App) Close() {
	for i := len(a.stopper) - 1; i >= 0; i-- {
		a.stopper[i]()
	}
	a.stopper = nil
	if a.queue != nil {
		if err := a.queue.Close(); err != nil {
			a.Logger.Warn("Failed to close queue client", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
	if a.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.mongo.Disconnect(ctx); err != nil {
			a.Logger.Warn("Failed to disconnect MongoDB", zap.Error(err))
		}
	}
}
