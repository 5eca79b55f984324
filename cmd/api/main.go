package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fservio/projeto-do-povo/internal/config"
	"github.com/fservio/projeto-do-povo/internal/handler"
	"github.com/fservio/projeto-do-povo/internal/invalidator"
	"github.com/fservio/projeto-do-povo/internal/middleware"
	"github.com/fservio/projeto-do-povo/internal/migration"
	"github.com/fservio/projeto-do-povo/internal/publisher"
	"github.com/fservio/projeto-do-povo/internal/repository"
	"github.com/fservio/projeto-do-povo/internal/routes"
	"github.com/fservio/projeto-do-povo/internal/service"
	pkgcache "github.com/fservio/projeto-do-povo/pkg/cache"
	"github.com/fservio/projeto-do-povo/pkg/jwt"
	pkglogger "github.com/fservio/projeto-do-povo/pkg/logger"
	pkgredis "github.com/fservio/projeto-do-povo/pkg/redis"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath(env string) string {
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	// 로거 초기화
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	// 설정 로드
	configPath := getConfigPath(env)
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	pkglogger.SetLevel(cfg.LogLevel)
	config.LogResolved(cfg)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// MySQL 연결 (required: the lifecycle engine has no degraded mode)
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pkglogger.Info("Connected to MySQL")
	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Redis 연결
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.Warn("Failed to connect to Redis: %v (continuing without cache)", err)
		redisClient = nil
	} else {
		pkglogger.Info("Connected to Redis")
	}
	cacheService := pkgcache.NewService(redisClient)

	// Cache invalidation worker
	inv := invalidator.New(cacheService, invalidator.Config{
		QueueSize:     cfg.Invalidation.QueueSize,
		MaxAttempts:   cfg.Invalidation.MaxAttempts,
		RetryInterval: cfg.Invalidation.RetryIntervalDuration(),
		Timeout:       cfg.Invalidation.TimeoutDuration(),
	}, *pkglogger.GetLogger())

	opts := []service.Option{
		service.WithInvalidator(inv),
		service.WithLogger(pkglogger.GetLogger().With().Str("component", "article_service").Logger()),
	}

	// RabbitMQ lifecycle events
	var pub *publisher.RabbitMQ
	if cfg.RabbitMQ.Enabled {
		pub, err = publisher.NewRabbitMQ(publisher.Config{
			URL:       cfg.RabbitMQ.URL,
			Exchange:  cfg.RabbitMQ.Exchange,
			QueueName: cfg.RabbitMQ.Queue,
		}, pkglogger.GetLogger().With().Str("component", "publisher").Logger())
		if err != nil {
			pkglogger.Warn("Failed to connect to RabbitMQ: %v (continuing without events)", err)
			pub = nil
		} else {
			opts = append(opts, service.WithPublisher(pub))
		}
	}

	articleService := service.NewArticleService(
		repository.NewTransactionManager(db),
		repository.NewArticleRepository(db),
		repository.NewVersionRepository(db),
		repository.NewAuditRepository(db),
		repository.NewChecklistRepository(db),
		opts...,
	)
	articleHandler := handler.NewArticleHandler(articleService, cacheService)

	// JWT Manager
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiresIn,
		cfg.JWT.RefreshIn,
	)

	// Gin 라우터 생성
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.CORS.AllowOrigins)))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health Check
	router.GET("/health", healthHandler(db, redisClient))

	routes.SetupArticles(router, articleHandler, jwtManager,
		middleware.NewRolePolicy(cfg.Permissions),
		middleware.RateLimit(redisClient, middleware.ViewRateLimitConfig(cfg.RateLimit.ViewsPerMinute)),
	)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	// 서버 시작
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sampleDBStats(ctx, db)

	go func() {
		pkglogger.Info("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	pkglogger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		pkglogger.Error("HTTP server shutdown: %v", err)
	}

	// In-flight requests are done; flush pending invalidations before the cache goes away.
	inv.Close()
	if pub != nil {
		if err := pub.Close(); err != nil {
			pkglogger.Warn("RabbitMQ close: %v", err)
		}
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	pkglogger.Info("Server stopped")
}

func corsConfig(allowOrigins string) cors.Config {
	origins := []string{}
	for _, origin := range strings.Split(allowOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	return cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-Cache"},
		MaxAge:           12 * time.Hour,
	}
}

func healthHandler(db *gorm.DB, redisClient *goredis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := gin.H{"database": "ok", "redis": "disabled"}

		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			checks["database"] = "down"
			status = http.StatusServiceUnavailable
		}
		if redisClient != nil {
			checks["redis"] = "ok"
			if err := redisClient.Ping(ctx).Err(); err != nil {
				// cache is optional
				checks["redis"] = "down"
			}
		}

		c.JSON(status, gin.H{
			"status":  http.StatusText(status),
			"service": "cms-api",
			"checks":  checks,
			"time":    time.Now().Unix(),
		})
	}
}

// sampleDBStats feeds the open-connections gauge until ctx ends.
func sampleDBStats(ctx context.Context, db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			middleware.SetDBConnectionsOpen(float64(sqlDB.Stats().OpenConnections))
		}
	}
}

// initDB MySQL 연결 초기화
func initDB(cfg *config.Config) (*gorm.DB, error) {
	mysqlCfg, err := mysqldriver.ParseDSN(cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("DSN 파싱 실패: %w", err)
	}
	if mysqlCfg.Params == nil {
		mysqlCfg.Params = map[string]string{}
	}
	mysqlCfg.Params["time_zone"] = "'+00:00'"

	logLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(mysqlCfg.FormatDSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	return db, nil
}
