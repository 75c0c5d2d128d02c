package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gigwork-backend/internal/http/handlers/common"
	"github.com/ignatzorin/gigwork-backend/internal/service"
	"github.com/ignatzorin/gigwork-backend/internal/validation"
)

// AdminHandler обслуживает маршруты модерации: блокировки, очередь жалоб,
// скрытие отзывов и журнал действий.
type AdminHandler struct {
	moderation *service.ModerationService
}

// NewAdminHandler создаёт новый хэндлер.
func NewAdminHandler(moderation *service.ModerationService) *AdminHandler {
	return &AdminHandler{moderation: moderation}
}

// SuspendUser обрабатывает POST /admin/users/:id/suspend.
func (h *AdminHandler) SuspendUser(c *gin.Context) {
	adminID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Reason string  `json:"reason" binding:"required"`
		Notes  *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := validation.ValidateReason(req.Reason); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	suspension, err := h.moderation.Suspend(c.Request.Context(), adminID, userID, req.Reason, req.Notes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, suspension)
}

// UnsuspendUser обрабатывает DELETE /admin/users/:id/suspend.
func (h *AdminHandler) UnsuspendUser(c *gin.Context) {
	adminID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.moderation.Unsuspend(c.Request.Context(), adminID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "блокировка снята"})
}

// ListSuspended обрабатывает GET /admin/users/suspended.
func (h *AdminHandler) ListSuspended(c *gin.Context) {
	suspended, err := h.moderation.ListSuspended(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, suspended)
}

// ListReports обрабатывает GET /admin/reports — очередь жалоб,
// нерассмотренные первыми.
func (h *AdminHandler) ListReports(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	reports, err := h.moderation.ListReports(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, reports)
}

// ResolveReport обрабатывает PUT /admin/reports/:id/resolve.
func (h *AdminHandler) ResolveReport(c *gin.Context) {
	adminID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	reportID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		ActionTaken *string `json:"action_taken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		common.RespondBadRequest(c, err.Error())
		return
	}

	report, err := h.moderation.ResolveReport(c.Request.Context(), adminID, reportID, req.ActionTaken)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// FlagReview обрабатывает POST /admin/deals/:id/review/flag —
// скрывает отзыв по сделке с сохранением снимка.
func (h *AdminHandler) FlagReview(c *gin.Context) {
	adminID, err := common.CurrentUserID(c)
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
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := validation.ValidateReason(req.Reason); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	flag, err := h.moderation.FlagReview(c.Request.Context(), adminID, dealID, req.Reason)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, flag)
}

// UnflagReview обрабатывает PUT /admin/flags/:id/unflag.
func (h *AdminHandler) UnflagReview(c *gin.Context) {
	adminID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	flagID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.moderation.UnflagReview(c.Request.Context(), adminID, flagID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "отзыв снова виден"})
}

// ListActions обрабатывает GET /admin/actions — журнал административных
// действий, новые первыми.
func (h *AdminHandler) ListActions(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	actions, err := h.moderation.ListAdminActions(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, actions)
}
