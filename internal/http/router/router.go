package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ignatzorin/gigwork-backend/internal/config"
	"github.com/ignatzorin/gigwork-backend/internal/http/handlers"
	"github.com/ignatzorin/gigwork-backend/internal/http/middleware"
	"github.com/ignatzorin/gigwork-backend/internal/models"
	"github.com/ignatzorin/gigwork-backend/internal/service"
)

// SetupRouter собирает все маршруты приложения.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	dealHandler *handlers.DealHandler,
	workerHandler *handlers.WorkerHandler,
	reportHandler *handlers.ReportHandler,
	adminHandler *handlers.AdminHandler,
	notificationHandler *handlers.NotificationHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	// Публичные маршруты
	api.GET("/ws", wsHandler.Handle)
	api.GET("/workers/:id/rating", middleware.UUIDValidator("id"), workerHandler.GetRating)
	api.GET("/workers/:id/reviews", middleware.UUIDValidator("id"), workerHandler.ListReviews)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.POST("/deals", dealHandler.CreateDeal)
		protected.GET("/deals/my", dealHandler.ListMyDeals)
		protected.GET("/deals/:id", middleware.UUIDValidator("id"), dealHandler.GetDeal)
		protected.PUT("/deals/:id/status", middleware.UUIDValidator("id"), dealHandler.SetStatus)
		protected.PUT("/deals/:id/work-status", middleware.UUIDValidator("id"), dealHandler.AdvanceWorkStatus)
		protected.GET("/deals/:id/can-review", middleware.UUIDValidator("id"), dealHandler.CanReview)
		protected.POST("/deals/:id/review", middleware.UUIDValidator("id"), dealHandler.SubmitReview)

		protected.GET("/stats", workerHandler.GetMyStats)

		protected.GET("/notifications", notificationHandler.ListNotifications)
		protected.GET("/notifications/unread/count", notificationHandler.CountUnread)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)

		protected.POST("/reports", reportHandler.CreateReport)
	}

	// Админские маршруты
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireRole(models.RoleAdmin))
	{
		admin.POST("/users/:id/suspend", middleware.UUIDValidator("id"), adminHandler.SuspendUser)
		admin.DELETE("/users/:id/suspend", middleware.UUIDValidator("id"), adminHandler.UnsuspendUser)
		admin.GET("/users/suspended", adminHandler.ListSuspended)
		admin.GET("/reports", adminHandler.ListReports)
		admin.PUT("/reports/:id/resolve", middleware.UUIDValidator("id"), adminHandler.ResolveReport)
		admin.POST("/deals/:id/review/flag", middleware.UUIDValidator("id"), adminHandler.FlagReview)
		admin.PUT("/flags/:id/unflag", middleware.UUIDValidator("id"), adminHandler.UnflagReview)
		admin.GET("/actions", adminHandler.ListActions)
	}

	return r
}
