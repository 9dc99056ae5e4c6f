package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/waste3d/coursehub/config"
	"github.com/waste3d/coursehub/internal/application/usecase"
	"github.com/waste3d/coursehub/internal/domain"
	"github.com/waste3d/coursehub/internal/infrastructure/billing"
	"github.com/waste3d/coursehub/internal/infrastructure/cache"
	"github.com/waste3d/coursehub/internal/infrastructure/repository"
	"github.com/waste3d/coursehub/internal/infrastructure/security"
	"github.com/waste3d/coursehub/internal/infrastructure/video"
	"github.com/waste3d/coursehub/internal/middleware"
	grpc_handler "github.com/waste3d/coursehub/internal/transport/grpc"
	handlers "github.com/waste3d/coursehub/internal/transport/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		fatal(logger, "failed to connect to DB", err)
	}
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		fatal(logger, "failed to migrate DB", err)
	}

	categoryRepo := repository.NewCategoryRepository(db)
	seeded, err := categoryRepo.Seed(context.Background(), domain.DefaultCategories)
	if err != nil {
		fatal(logger, "failed to seed categories", err)
	}
	if seeded > 0 {
		logger.Info("categories seeded", "count", seeded)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		fatal(logger, "failed to connect to Redis", err)
	}
	logger.Info("connected to redis", "addr", cfg.RedisAddr)

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	chapterRepo := repository.NewChapterRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	customerRepo := repository.NewCustomerRepository(db)

	tokenCache := cache.NewTokenCache(rdb)
	courseCache := cache.NewCourseCache(rdb)
	hasher := security.NewPasswordHasher()
	tokenManager := security.NewTokenManager(cfg.AccessSecret, cfg.RefreshSecret)

	stripe := billing.NewStripeClient(cfg.StripeAPIURL, cfg.StripeAPIKey, logger.With("component", "stripe"))
	mux := video.NewMuxClient(cfg.MuxAPIURL, cfg.MuxTokenID, cfg.MuxTokenSecret, logger.With("component", "mux"))

	guard := usecase.NewGuard(userRepo, courseRepo)
	authUseCase := usecase.NewAuthUseCase(userRepo, tokenCache, hasher, tokenManager)
	courseUseCase := usecase.NewCourseUseCase(guard, courseRepo, chapterRepo, categoryRepo, attachmentRepo, mux, courseCache, logger)
	chapterUseCase := usecase.NewChapterUseCase(guard, courseRepo, chapterRepo, mux, courseCache, logger)
	catalogUseCase := usecase.NewCatalogUseCase(guard, categoryRepo, courseRepo, chapterRepo, attachmentRepo, purchaseRepo, progressRepo, courseCache, logger)
	checkoutUseCase := usecase.NewCheckoutUseCase(guard, courseRepo, purchaseRepo, customerRepo, stripe, strings.TrimRight(cfg.AppURL, "/"), logger)
	progressUseCase := usecase.NewProgressUseCase(guard, progressRepo, chapterRepo)
	webhookUseCase := usecase.NewWebhookUseCase(billing.NewWebhookVerifier(cfg.StripeWebhookSecret), purchaseRepo, logger)

	secureCookies := strings.HasPrefix(cfg.AppURL, "https://")
	router, err := handlers.NewRouter(handlers.Handlers{
		Auth:    handlers.NewAuthHandler(authUseCase, "", secureCookies, logger),
		Teacher: handlers.NewTeacherHandler(courseUseCase, chapterUseCase, logger),
		Catalog: handlers.NewCatalogHandler(catalogUseCase, progressUseCase, logger),
		Payment: handlers.NewPaymentHandler(checkoutUseCase, webhookUseCase, logger),
	}, authUseCase, middleware.NewRateLimiter(rdb, logger), cfg.Origins(), cfg.Proxies())
	if err != nil {
		fatal(logger, "invalid TRUSTED_PROXIES", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(logger, "http server failed", err)
		}
	}()

	lis, err := net.Listen("tcp", cfg.GRPCPort)
	if err != nil {
		fatal(logger, "failed to listen", err)
	}
	grpcServer := grpc_handler.NewServer(logger)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			fatal(logger, "grpc server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("shutting down")
	grpcServer.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	if err := rdb.Close(); err != nil {
		logger.Error("redis close", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
