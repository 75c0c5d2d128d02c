package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gigwork-backend/internal/http/handlers/common"
	"github.com/ignatzorin/gigwork-backend/internal/service"
)

// WorkerHandler обслуживает публичный профиль исполнителя и его аналитику.
type WorkerHandler struct {
	reviews   *service.ReviewService
	analytics *service.AnalyticsService
}

// NewWorkerHandler создаёт новый хэндлер.
func NewWorkerHandler(reviews *service.ReviewService, analytics *service.AnalyticsService) *WorkerHandler {
	return &WorkerHandler{reviews: reviews, analytics: analytics}
}

// GetRating обрабатывает GET /workers/:id/rating.
func (h *WorkerHandler) GetRating(c *gin.Context) {
	workerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	rating, err := h.reviews.WorkerRating(c.Request.Context(), workerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rating)
}

// ListReviews обрабатывает GET /workers/:id/reviews.
// Скрытые модерацией отзывы в выдачу не попадают.
func (h *WorkerHandler) ListReviews(c *gin.Context) {
	workerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)
	reviews, err := h.reviews.ListWorkerReviews(c.Request.Context(), workerID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// GetMyStats обрабатывает GET /stats — метрики текущего исполнителя.
func (h *WorkerHandler) GetMyStats(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	stats, err := h.analytics.WorkerStats(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}
