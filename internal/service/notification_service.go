package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/gigwork-backend/internal/goroutine"
	"github.com/ignatzorin/gigwork-backend/internal/logger"
	"github.com/ignatzorin/gigwork-backend/internal/models"
)

// NotificationRepository описывает взаимодействие сервиса с хранилищем уведомлений.
type NotificationRepository interface {
	Create(ctx context.Context, item *models.NotificationItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.NotificationItem, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.NotificationItem, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

// WSNotifier интерфейс для push-доставки уведомлений подключённым клиентам.
type WSNotifier interface {
	BroadcastToUser(userID uuid.UUID, event string, data interface{}) error
}

// NotificationService превращает события сделок в уведомления контрагента
// и обслуживает ленту уведомлений. Доставка best-effort: сбой создания
// уведомления логируется и никогда не влияет на вызвавший переход.
type NotificationService struct {
	repo NotificationRepository
	hub  WSNotifier
}

// NewNotificationService создаёт новый сервис уведомлений.
func NewNotificationService(repo NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// SetHub устанавливает WebSocket hub для push-доставки.
func (s *NotificationService) SetHub(hub WSNotifier) {
	s.hub = hub
}

// HandleDealEvent реализует подписчика шины событий. Уведомление
// адресуется контрагенту, а не инициатору события, и сохраняется
// асинхронно, чтобы не задерживать ответ на переход.
func (s *NotificationService) HandleDealEvent(eventType string, deal *models.DealRequest) {
	item, ok := buildNotification(eventType, deal)
	if !ok {
		return
	}

	goroutine.SafeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.repo.Create(ctx, item); err != nil {
			logger.Log.WithField("event", eventType).Errorf("notification service: не удалось сохранить уведомление: %v", err)
			return
		}

		if s.hub != nil {
			if err := s.hub.BroadcastToUser(item.UserID, eventType, item); err != nil {
				logger.Log.Debugf("notification service: push не доставлен: %v", err)
			}
		}
	})
}

// buildNotification строит уведомление по событию. Возвращает false для
// неизвестных событий и для STATUS_UPDATE без статуса выполнения.
func buildNotification(eventType string, deal *models.DealRequest) (*models.NotificationItem, bool) {
	item := &models.NotificationItem{
		Type:          eventType,
		RelatedDealID: &deal.ID,
	}

	switch eventType {
	case models.EventNewRequest:
		item.UserID = deal.WorkerID
		item.Title = "Новый запрос"
		item.Message = fmt.Sprintf("%s отправил вам запрос на работу", deal.CustomerName)

	case models.EventRequestAccepted:
		item.UserID = deal.CustomerID
		item.Title = "Запрос принят"
		item.Message = fmt.Sprintf("%s принял ваш запрос", deal.WorkerName)

	case models.EventRequestWaitlisted:
		item.UserID = deal.CustomerID
		item.Title = "Запрос в листе ожидания"
		item.Message = fmt.Sprintf("%s добавил ваш запрос в лист ожидания", deal.WorkerName)

	case models.EventRequestRejected:
		item.UserID = deal.CustomerID
		item.Title = "Запрос отклонён"
		item.Message = fmt.Sprintf("%s отклонил ваш запрос", deal.WorkerName)

	case models.EventStatusUpdate:
		if deal.WorkStatus == nil {
			return nil, false
		}
		item.UserID = deal.CustomerID
		switch *deal.WorkStatus {
		case models.WorkStatusOngoing:
			item.Title = "Работа начата"
			item.Message = fmt.Sprintf("%s приступил к работе", deal.WorkerName)
		case models.WorkStatusCompleted:
			item.Title = "Работа завершена"
			item.Message = fmt.Sprintf("%s завершил работу", deal.WorkerName)
		default:
			return nil, false
		}

	case models.EventReviewReceived:
		if deal.Review == nil {
			return nil, false
		}
		item.UserID = deal.WorkerID
		item.Title = "Новый отзыв"
		item.Message = fmt.Sprintf("%s поставил вам оценку %d из 5", deal.CustomerName, deal.Review.Rating)

	default:
		return nil, false
	}

	return item, true
}

// ListNotifications возвращает ленту уведомлений пользователя.
func (s *NotificationService) ListNotifications(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.NotificationItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.List(ctx, userID, limit, offset, unreadOnly)
}

// MarkAsRead отмечает уведомление как прочитанное.
func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if item.UserID != userID {
		return fmt.Errorf("notification service: у вас нет прав на это уведомление")
	}

	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead отмечает все уведомления пользователя как прочитанные.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// CountUnread возвращает количество непрочитанных уведомлений.
func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
