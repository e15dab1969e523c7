package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AhsanHasan/Chatteree-BE/internal/api"
	"github.com/AhsanHasan/Chatteree-BE/internal/auth"
	"github.com/AhsanHasan/Chatteree-BE/internal/config"
	"github.com/AhsanHasan/Chatteree-BE/internal/domain"
	"github.com/AhsanHasan/Chatteree-BE/internal/mail"
	"github.com/AhsanHasan/Chatteree-BE/internal/presence"
	"github.com/AhsanHasan/Chatteree-BE/internal/push"
	"github.com/AhsanHasan/Chatteree-BE/internal/repository"
	"github.com/AhsanHasan/Chatteree-BE/internal/storage"
)

func main() {
	// Load .env file if exists
	_ = godotenv.Load()

	// Initialize logger
	logger, err := initLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Starting Chatteree API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	// Initialize database
	ctx := context.Background()
	db, err := initDatabase(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Connected to database")

	repo := repository.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Fatal("Failed to apply schema", zap.Error(err))
	}

	// Initialize redis (OTP store)
	redisClient, err := initRedis(ctx, cfg.Redis.URL)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	logger.Info("Connected to redis")

	// Initialize dependencies
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Expiry)
	googleVerifier := auth.NewGoogleVerifier(cfg.Google.ClientIDs)
	otpStore := auth.NewRedisOTPStore(redisClient)
	mailer := mail.NewSMTPMailer(mail.Config{
		Host:        cfg.Mail.Host,
		Port:        cfg.Mail.Port,
		Username:    cfg.Mail.Username,
		Password:    cfg.Mail.Password,
		FromName:    cfg.Mail.FromName,
		FromAddress: cfg.Mail.FromAddress,
	})

	if googleVerifier.IsConfigured() {
		logger.Info("Google sign-in is configured")
	} else {
		logger.Warn("Google sign-in is NOT configured - set GOOGLE_CLIENT_ID to enable")
	}

	// Initialize push relay
	notifier := push.NewClient(push.Config{
		AppID:   cfg.Pusher.AppID,
		Key:     cfg.Pusher.Key,
		Secret:  cfg.Pusher.Secret,
		Cluster: cfg.Pusher.Cluster,
	}, logger)
	if !notifier.IsConfigured() {
		logger.Warn("Push relay is NOT configured - realtime events will be dropped")
	}

	// Initialize storage
	fileStorage, err := initStorage(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize file storage", zap.Error(err))
	}

	// Initialize services
	authService := domain.NewAuthService(repo, jwtManager, googleVerifier, otpStore, mailer, logger)
	userService := domain.NewUserService(repo)
	chatService := domain.NewChatService(repo, repo, repo)
	messageService := domain.NewMessageService(repo, repo, notifier, logger)
	favoriteService := domain.NewFavoriteService(repo, repo)
	statusService := domain.NewStatusService(repo, repo, notifier, logger)

	// Initialize presence hub
	hubCtx, hubCancel := context.WithCancel(ctx)
	hub := presence.NewHub(repo, notifier, logger)
	go hub.Run(hubCtx)

	// Start status expiry worker
	statusService.StartExpiryWorker(hubCtx, 15*time.Minute)

	// Initialize handlers
	authHandler := api.NewAuthHandler(authService, logger)
	userHandler := api.NewUserHandler(userService, logger)
	chatHandler := api.NewChatHandler(chatService, messageService, logger)
	messageHandler := api.NewMessageHandler(messageService, logger)
	favoriteHandler := api.NewFavoriteHandler(favoriteService, logger)
	statusHandler := api.NewStatusHandler(statusService, logger)
	uploadHandler := api.NewUploadHandler(fileStorage, logger)
	healthHandler := api.NewHealthHandler(db)

	// Initialize router
	router := api.NewRouter(
		authHandler,
		userHandler,
		chatHandler,
		messageHandler,
		favoriteHandler,
		statusHandler,
		uploadHandler,
		healthHandler,
		hub,
		jwtManager,
		logger,
	)
	r := router.Setup()

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Stop background workers
	hubCancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func initLogger() (*zap.Logger, error) {
	env := os.Getenv("ENV")
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func initDatabase(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 1 * time.Hour
	config.MaxConnIdleTime = 30 * time.Minute
	config.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

func initRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func initStorage(ctx context.Context, cfg *config.Config) (storage.FileStorage, error) {
	if cfg.Storage.Type == "s3" {
		return storage.NewS3Storage(ctx, cfg.Storage)
	}

	uploadDir := "./uploads"
	baseURL := fmt.Sprintf("http://localhost:%s/uploads", cfg.Server.Port)
	if cfg.Storage.PublicURL != "" {
		baseURL = cfg.Storage.PublicURL
	}
	return storage.NewLocalFileStorage(uploadDir, baseURL)
}
