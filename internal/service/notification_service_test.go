package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/gigwork-backend/internal/models"
)

func notificationFixtureDeal() *models.DealRequest {
	return &models.DealRequest{
		ID:           uuid.New(),
		CustomerID:   uuid.New(),
		CustomerName: "Анна",
		WorkerID:     uuid.New(),
		WorkerName:   "Борис",
	}
}

func TestBuildNotification_Routing(t *testing.T) {
	deal := notificationFixtureDeal()

	tests := []struct {
		name       string
		event      string
		workStatus string
		wantUser   uuid.UUID
		wantTitle  string
	}{
		{"новый запрос адресуется исполнителю", models.EventNewRequest, "", deal.WorkerID, "Новый запрос"},
		{"принятие адресуется заказчику", models.EventRequestAccepted, "", deal.CustomerID, "Запрос принят"},
		{"лист ожидания адресуется заказчику", models.EventRequestWaitlisted, "", deal.CustomerID, "Запрос в листе ожидания"},
		{"отклонение адресуется заказчику", models.EventRequestRejected, "", deal.CustomerID, "Запрос отклонён"},
		{"начало работы адресуется заказчику", models.EventStatusUpdate, models.WorkStatusOngoing, deal.CustomerID, "Работа начата"},
		{"завершение работы адресуется заказчику", models.EventStatusUpdate, models.WorkStatusCompleted, deal.CustomerID, "Работа завершена"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := *deal
			if tt.workStatus != "" {
				ws := tt.workStatus
				d.WorkStatus = &ws
			}

			item, ok := buildNotification(tt.event, &d)
			assert.True(t, ok)
			assert.Equal(t, tt.wantUser, item.UserID)
			assert.Equal(t, tt.wantTitle, item.Title)
			assert.Equal(t, tt.event, item.Type)
			if assert.NotNil(t, item.RelatedDealID) {
				assert.Equal(t, d.ID, *item.RelatedDealID)
			}
		})
	}
}

func TestBuildNotification_ReviewReceived(t *testing.T) {
	deal := notificationFixtureDeal()
	deal.Review = &models.Review{DealID: deal.ID, Rating: 4}

	item, ok := buildNotification(models.EventReviewReceived, deal)
	assert.True(t, ok)
	assert.Equal(t, deal.WorkerID, item.UserID)
	assert.Equal(t, "Анна поставил вам оценку 4 из 5", item.Message)
}

func TestBuildNotification_Skipped(t *testing.T) {
	deal := notificationFixtureDeal()

	// Неизвестное событие.
	_, ok := buildNotification("UNKNOWN_EVENT", deal)
	assert.False(t, ok)

	// STATUS_UPDATE без статуса выполнения.
	_, ok = buildNotification(models.EventStatusUpdate, deal)
	assert.False(t, ok)

	// REVIEW_RECEIVED без отзыва.
	_, ok = buildNotification(models.EventReviewReceived, deal)
	assert.False(t, ok)
}
