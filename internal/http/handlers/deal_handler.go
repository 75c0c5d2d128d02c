package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/gigwork-backend/internal/http/handlers/common"
	"github.com/ignatzorin/gigwork-backend/internal/metrics"
	"github.com/ignatzorin/gigwork-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigwork-backend/internal/service"
)

// DealHandler обслуживает маршруты жизненного цикла сделок.
type DealHandler struct {
	deals   *service.DealService
	reviews *service.ReviewService
	metrics *metrics.DealMetrics
}

// NewDealHandler создаёт новый хэндлер.
func NewDealHandler(deals *service.DealService, reviews *service.ReviewService, m *metrics.DealMetrics) *DealHandler {
	return &DealHandler{deals: deals, reviews: reviews, metrics: m}
}

// respondMutationError отвечает ошибкой и учитывает отклонённую мутацию.
func (h *DealHandler) respondMutationError(c *gin.Context, err error) {
	code := common.RespondAppError(c, err)
	if h.metrics != nil && code != apperror.ErrCodeInternal {
		h.metrics.RecordRejectedMutation(string(code))
	}
}

// CreateDeal обрабатывает POST /deals.
func (h *DealHandler) CreateDeal(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		WorkerID      string  `json:"worker_id" binding:"required,uuid"`
		Description   string  `json:"description" binding:"required"`
		Location      string  `json:"location"`
		PreferredTime *string `json:"preferred_time"`
		Budget        *string `json:"budget"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	workerID, err := uuid.Parse(req.WorkerID)
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор исполнителя")
		return
	}

	deal, err := h.deals.CreateRequest(c.Request.Context(), service.CreateDealInput{
		CustomerID:    userID,
		WorkerID:      workerID,
		Description:   req.Description,
		Location:      req.Location,
		PreferredTime: req.PreferredTime,
		Budget:        req.Budget,
	})
	if err != nil {
		h.respondMutationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, deal)
}

// ListMyDeals обрабатывает GET /deals/my.
func (h *DealHandler) ListMyDeals(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	deals, err := h.deals.ListMyDeals(c.Request.Context(), userID, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, deals)
}

// GetDeal обрабатывает GET /deals/:id.
func (h *DealHandler) GetDeal(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	dealID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	deal, err := h.deals.GetDeal(c.Request.Context(), dealID, userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, deal)
}

// SetStatus обрабатывает PUT /deals/:id/status.
// Переход new -> accepted | waitlisted | rejected от имени исполнителя.
func (h *DealHandler) SetStatus(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	dealID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	deal, err := h.deals.SetStatus(c.Request.Context(), dealID, userID, req.Status)
	if err != nil {
		h.respondMutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, deal)
}

// AdvanceWorkStatus обрабатывает PUT /deals/:id/work-status.
// Переход accepted -> ongoing -> completed строго по одному шагу.
func (h *DealHandler) AdvanceWorkStatus(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	dealID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		WorkStatus string `json:"work_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	deal, err := h.deals.AdvanceWorkStatus(c.Request.Context(), dealID, userID, req.WorkStatus)
	if err != nil {
		h.respondMutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, deal)
}

// CanReview обрабатывает GET /deals/:id/can-review.
func (h *DealHandler) CanReview(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	dealID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	canReview, err := h.reviews.CanReview(c.Request.Context(), dealID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"can_review": canReview})
}

// SubmitReview обрабатывает POST /deals/:id/review.
func (h *DealHandler) SubmitReview(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	dealID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Rating  int     `json:"rating" binding:"required"`
		Comment *string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	review, err := h.reviews.SubmitReview(c.Request.Context(), dealID, userID, req.Rating, req.Comment)
	if err != nil {
		h.respondMutationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}
