package app

import (
	"context"
	"strconv"

	goredis "github.com/go-redis/redis/v8"

	"webhook-consumer/internal/auth"
	"webhook-consumer/internal/common/logging"
	"webhook-consumer/internal/config"
	"webhook-consumer/internal/events"
	"webhook-consumer/internal/producer"
	"webhook-consumer/internal/redis"
	"webhook-consumer/internal/secrets"
	"webhook-consumer/internal/signature"
	"webhook-consumer/internal/status"
	"webhook-consumer/internal/subscriptions"
)

// App holds all the application dependencies
type App struct {
	Config        *config.Config
	Secrets       secrets.Store
	Status        status.Store
	Producer      producer.Client
	Verifier      *signature.Verifier
	Dispatcher    *events.Dispatcher
	Subscriptions *subscriptions.Manager
	Auth          *auth.Auth
	RedisClient   *goredis.Client
	Logger        logging.Logger
	shutdownCh    chan struct{}
}

// New creates a new application instance with all dependencies
func New(cfg *config.Config) (*App, error) {
	app := &App{
		Config:     cfg,
		Logger:     logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "app"}),
		shutdownCh: make(chan struct{}),
	}

	if err := app.initializeStores(); err != nil {
		return nil, err
	}

	app.Producer = producer.NewHTTPClient(cfg.ProducerBaseURL)
	app.Verifier = signature.NewVerifier(cfg.SignatureTolerance)
	app.Dispatcher = events.NewDispatcher(DefaultEventHandlers(app.Logger), app.Logger)
	app.Subscriptions = subscriptions.NewManager(app.Producer, app.Secrets, cfg.PublicBaseURL, app.Logger)
	app.Auth = auth.New(cfg.JWTSecret)

	return app, nil
}

// initializeStores wires the secret and consumer status stores. Both share
// one backend: in-process maps by default, Redis when SECRET_STORE=redis.
func (app *App) initializeStores() error {
	if app.Config.SecretStore != "redis" {
		app.Secrets = secrets.NewMemoryStore()
		app.Status = status.NewMemoryStore()
		app.Logger.Info("Using in-memory secret and status stores")
		return nil
	}

	db, _ := strconv.Atoi(app.Config.RedisDB)
	poolSize, _ := strconv.Atoi(app.Config.RedisPoolSize)

	client, err := redis.NewClient(&redis.Config{
		Address:  app.Config.RedisAddress,
		Password: app.Config.RedisPassword,
		DB:       db,
		PoolSize: poolSize,
	})
	if err != nil {
		return err
	}

	app.RedisClient = client
	app.Secrets = secrets.NewRedisStore(client)
	app.Status = status.NewRedisStore(client)
	app.Logger.Info("Using Redis-backed secret and status stores",
		logging.Field{Key: "address", Value: app.Config.RedisAddress},
	)
	return nil
}

// Shutdown gracefully shuts down the application
func (app *App) Shutdown(ctx context.Context) error {
	close(app.shutdownCh)

	if err := app.Secrets.Close(); err != nil {
		app.Logger.Warn("Error closing secret store", logging.Err(err))
	}
	return nil
}
