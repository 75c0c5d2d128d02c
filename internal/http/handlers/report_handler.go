package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/gigwork-backend/internal/http/handlers/common"
	"github.com/ignatzorin/gigwork-backend/internal/service"
	"github.com/ignatzorin/gigwork-backend/internal/validation"
)

// ReportHandler обслуживает жалобы пользователей.
type ReportHandler struct {
	moderation *service.ModerationService
}

// NewReportHandler создаёт новый хэндлер.
func NewReportHandler(moderation *service.ModerationService) *ReportHandler {
	return &ReportHandler{moderation: moderation}
}

// CreateReport обрабатывает POST /reports.
func (h *ReportHandler) CreateReport(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		ReportedUserID string  `json:"reported_user_id" binding:"required,uuid"`
		Reason         string  `json:"reason" binding:"required"`
		RelatedDealID  *string `json:"related_deal_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := validation.ValidateReason(req.Reason); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	reportedUserID, err := uuid.Parse(req.ReportedUserID)
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор пользователя")
		return
	}

	var relatedDealID *uuid.UUID
	if req.RelatedDealID != nil {
		parsed, err := uuid.Parse(*req.RelatedDealID)
		if err != nil {
			common.RespondBadRequest(c, "неверный идентификатор сделки")
			return
		}
		relatedDealID = &parsed
	}

	report, err := h.moderation.FileReport(c.Request.Context(), userID, reportedUserID, req.Reason, relatedDealID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, report)
}
