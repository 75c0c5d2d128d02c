package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/gigwork-backend/internal/config"
	"github.com/ignatzorin/gigwork-backend/internal/db"
	"github.com/ignatzorin/gigwork-backend/internal/events"
	httpHandlers "github.com/ignatzorin/gigwork-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/gigwork-backend/internal/http/router"
	"github.com/ignatzorin/gigwork-backend/internal/logger"
	"github.com/ignatzorin/gigwork-backend/internal/metrics"
	"github.com/ignatzorin/gigwork-backend/internal/repository"
	"github.com/ignatzorin/gigwork-backend/internal/service"
	"github.com/ignatzorin/gigwork-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	dealRepo := repository.NewDealRepository(dbConn)
	moderationRepo := repository.NewModerationRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)

	// Шина событий сделок: уведомления и метрики подписываются ниже.
	bus := events.NewBus()

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)
	moderationService := service.NewModerationService(moderationRepo, dealRepo)
	dealService := service.NewDealService(dealRepo, userRepo, moderationService, bus)
	reviewService := service.NewReviewService(dealRepo, bus)
	analyticsService := service.NewAnalyticsService(dealRepo)
	notificationService := service.NewNotificationService(notificationRepo)

	dealMetrics := metrics.NewDealMetrics()
	bus.Subscribe(notificationService)
	bus.Subscribe(dealMetrics)

	// Вебсокеты.
	hub := ws.NewHub()
	go hub.Run()
	notificationService.SetHub(hub)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	dealHandler := httpHandlers.NewDealHandler(dealService, reviewService, dealMetrics)
	workerHandler := httpHandlers.NewWorkerHandler(reviewService, analyticsService)
	reportHandler := httpHandlers.NewReportHandler(moderationService)
	adminHandler := httpHandlers.NewAdminHandler(moderationService)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, authHandler, dealHandler, workerHandler, reportHandler, adminHandler, notificationHandler, wsHandler, healthHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
