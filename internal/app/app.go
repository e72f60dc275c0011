package app

import (
	"context"
	"database/sql"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ybenkirane/autopart_inventory_system/internal/adapter/dynamodb"
	"github.com/ybenkirane/autopart_inventory_system/internal/adapter/handler/http"
	"github.com/ybenkirane/autopart_inventory_system/internal/adapter/logger"
	"github.com/ybenkirane/autopart_inventory_system/internal/adapter/postgres"
	"github.com/ybenkirane/autopart_inventory_system/internal/adapter/prometheus"
	"github.com/ybenkirane/autopart_inventory_system/internal/adapter/redis"
	"github.com/ybenkirane/autopart_inventory_system/internal/adapter/s3"
	"github.com/ybenkirane/autopart_inventory_system/internal/config"
	"github.com/ybenkirane/autopart_inventory_system/internal/core/ports"
	"github.com/ybenkirane/autopart_inventory_system/internal/core/services"

	"github.com/go-playground/validator/v10"
	"github.com/pressly/goose"
	redisClient "github.com/redis/go-redis/v9"
)

type App struct {
	Config       *config.Container
	Logger       ports.LoggerPort
	DB           *sql.DB
	RedisClient  *redisClient.Client
	RedisAdapter ports.CachePort
	HTTPRouter   *http.Router
}

func New(ctx context.Context, cfg *config.Container) (*App, error) {
	// Set logger
	loggerAdapter := logger.NewLoggerAdapter(cfg.App.Env)
	loggerAdapter.Info("Starting the application", map[string]interface{}{
		"app": cfg.App.Name,
		"env": cfg.App.Env,
	})

	// Set redis
	redisConn := redisClient.NewClient(&redisClient.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if _, err := redisConn.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	cacheAdapter := redis.NewRedisAdapter(redisConn)

	// Connect DB
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("Failed to connect to database:%w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("Failed to ping database:%w", err)
	}

	// Migrate DB
	if err := goose.Up(db, "./internal/adapter/postgres/migrations"); err != nil {
		return nil, fmt.Errorf("Failed to run migrations:%w", err)
	}

	// AWS clients for blob storage and the audit log table
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	storageAdapter := s3.NewS3Adapter(awss3.NewFromConfig(awsCfg))
	auditLog := dynamodb.NewAuditLogRepository(awsdynamodb.NewFromConfig(awsCfg), cfg.AWS.LogsTable)

	// Validate
	validate := validator.New()

	// Observability
	metrics := prometheus.NewPrometheusAdapter()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	brandRepo := postgres.NewBrandRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	autoPartRepo := postgres.NewAutoPartRepository(db)
	vehicleRepo := postgres.NewVehicleRepository(db)

	// Auth primitives
	hasher := services.NewPBKDF2Hasher()
	tokenService := http.NewJWTTokenService(cfg.Token.Secret, cfg.Token.Issuer, cfg.Token.DurationOrDefault(), loggerAdapter)

	// Services
	userService := services.NewUserService(userRepo, roleRepo, hasher, tokenService, auditLog, loggerAdapter, validate)
	autoPartService := services.NewAutoPartService(autoPartRepo, categoryRepo, brandRepo, vehicleRepo,
		storageAdapter, auditLog, cacheAdapter, loggerAdapter, validate, cfg.AWS.BucketName, cfg.AWS.StorageHost)
	brandService := services.NewBrandService(brandRepo, storageAdapter, auditLog, loggerAdapter, validate,
		cfg.AWS.BucketName, cfg.AWS.StorageHost)
	categoryService := services.NewCategoryService(categoryRepo, storageAdapter, auditLog, loggerAdapter, validate,
		cfg.AWS.BucketName, cfg.AWS.StorageHost)

	// HTTP Handlers
	userHandler := http.NewUserHandler(userService, loggerAdapter, metrics)
	autoPartHandler := http.NewAutoPartHandler(autoPartService, loggerAdapter, metrics)
	brandHandler := http.NewBrandHandler(brandService, loggerAdapter, metrics)
	categoryHandler := http.NewCategoryHandler(categoryService, loggerAdapter, metrics)
	auditHandler := http.NewAuditHandler(auditLog, loggerAdapter, metrics)

	// Init HTTP router
	router, err := http.NewRouter(
		cfg.HTTP,
		tokenService,
		userHandler,
		autoPartHandler,
		brandHandler,
		categoryHandler,
		auditHandler,
	)
	if err != nil {
		db.Close()
		redisConn.Close()
		return nil, fmt.Errorf("failed to initialize router: %w", err)
	}

	return &App{
		Config:       cfg,
		Logger:       loggerAdapter,
		DB:           db,
		RedisClient:  redisConn,
		RedisAdapter: cacheAdapter,
		HTTPRouter:   router,
	}, nil
}

// Runs all services
func (a *App) Run() error {
	listenAddr := fmt.Sprintf("%s:%s", a.Config.HTTP.URL, a.Config.HTTP.Port)
	a.Logger.Info("Starting HTTP server", map[string]interface{}{
		"addr": listenAddr,
	})

	if err := a.HTTPRouter.Serve(listenAddr); err != nil {
		a.Logger.Error("HTTP server error", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	return nil
}

// Stops all services
func (a *App) Stop(ctx context.Context) error {
	a.Logger.Info("Shutting down gracefully...", nil)

	// Close database
	if err := a.DB.Close(); err != nil {
		a.Logger.Error("Database close error", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Close Redis
	if err := a.RedisClient.Close(); err != nil {
		a.Logger.Error("Redis close error", map[string]interface{}{
			"error": err.Error(),
		})
	}

	a.Logger.Info("Application stopped successfully", nil)
	return nil
}
