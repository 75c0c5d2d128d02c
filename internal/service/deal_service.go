package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/gigwork-backend/internal/logger"
	"github.com/ignatzorin/gigwork-backend/internal/models"
	"github.com/ignatzorin/gigwork-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigwork-backend/internal/validation"
)

// DealRepository описывает взаимодействие сервиса с хранилищем сделок.
type DealRepository interface {
	Create(ctx context.Context, deal *models.DealRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.DealRequest, error)
	HasActiveBetween(ctx context.Context, customerID, workerID uuid.UUID) (bool, error)
	Accept(ctx context.Context, id uuid.UUID) (bool, error)
	Close(ctx context.Context, id uuid.UUID, status string) (bool, error)
	AdvanceWork(ctx context.Context, id uuid.UUID, from, to string) (bool, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.DealRequest, error)
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]models.DealRequest, error)
}

// UserGetter описывает минимальный контракт получения пользователей.
type UserGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// SuspensionChecker отвечает на вопрос, заблокирован ли действующий пользователь.
// Сервис сделок не знает, как хранится блокировка — предикат внедряется извне.
type SuspensionChecker interface {
	IsSuspended(ctx context.Context, userID uuid.UUID) (bool, error)
}

// EventPublisher публикует события жизненного цикла сделки.
type EventPublisher interface {
	Publish(eventType string, deal *models.DealRequest)
}

// DealService содержит бизнес-логику жизненного цикла сделок: машину
// состояний, проверку блокировок и публикацию событий переходов.
type DealService struct {
	repo        DealRepository
	users       UserGetter
	suspensions SuspensionChecker
	events      EventPublisher
}

// NewDealService создаёт новый сервис сделок.
func NewDealService(repo DealRepository, users UserGetter, suspensions SuspensionChecker, events EventPublisher) *DealService {
	return &DealService{
		repo:        repo,
		users:       users,
		suspensions: suspensions,
		events:      events,
	}
}

// CreateDealInput описывает входные данные нового запроса.
type CreateDealInput struct {
	CustomerID    uuid.UUID
	WorkerID      uuid.UUID
	Description   string
	Location      string
	PreferredTime *string
	Budget        *string
}

// CreateRequest создаёт запрос на работу от заказчика к исполнителю.
// Отклоняет запрос, если заказчик заблокирован либо между парой уже есть
// активная сделка.
func (s *DealService) CreateRequest(ctx context.Context, in CreateDealInput) (*models.DealRequest, error) {
	if err := validation.ValidateDealDescription(in.Description); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	suspended, err := s.suspensions.IsSuspended(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if suspended {
		return nil, apperror.ErrSuspendedActor
	}

	hasActive, err := s.repo.HasActiveBetween(ctx, in.CustomerID, in.WorkerID)
	if err != nil {
		return nil, err
	}
	if hasActive {
		return nil, apperror.ErrDuplicateActiveRequest
	}

	customer, err := s.users.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, apperror.ErrUserNotFound
	}
	worker, err := s.users.GetByID(ctx, in.WorkerID)
	if err != nil {
		return nil, apperror.ErrUserNotFound
	}

	deal := &models.DealRequest{
		CustomerID:    in.CustomerID,
		CustomerName:  customer.Name,
		WorkerID:      in.WorkerID,
		WorkerName:    worker.Name,
		Description:   in.Description,
		Location:      in.Location,
		PreferredTime: in.PreferredTime,
		Budget:        in.Budget,
		Status:        models.DealStatusNew,
	}

	if err := s.repo.Create(ctx, deal); err != nil {
		return nil, err
	}

	s.events.Publish(models.EventNewRequest, deal)

	return deal, nil
}

// SetStatus переводит сделку из new в accepted, waitlisted или rejected.
// Вызывается от имени исполнителя; принятие сделки заблокированным
// исполнителем запрещено. Терминальные статусы не допускают дальнейших
// переходов.
func (s *DealService) SetStatus(ctx context.Context, dealID, workerID uuid.UUID, newStatus string) (*models.DealRequest, error) {
	deal, err := s.repo.GetByID(ctx, dealID)
	if err != nil {
		return nil, apperror.ErrDealNotFound
	}

	if deal.WorkerID != workerID {
		return nil, apperror.ErrForbidden
	}

	if deal.IsTerminal() {
		return nil, apperror.ErrTerminalStateLocked
	}
	if deal.Status != models.DealStatusNew {
		return nil, apperror.ErrInvalidTransition
	}

	var event string
	var updated bool

	switch newStatus {
	case models.DealStatusAccepted:
		suspended, err := s.suspensions.IsSuspended(ctx, workerID)
		if err != nil {
			return nil, err
		}
		if suspended {
			return nil, apperror.ErrSuspendedActor
		}

		updated, err = s.repo.Accept(ctx, dealID)
		if err != nil {
			return nil, err
		}
		event = models.EventRequestAccepted

	case models.DealStatusWaitlisted, models.DealStatusRejected:
		updated, err = s.repo.Close(ctx, dealID, newStatus)
		if err != nil {
			return nil, err
		}
		if newStatus == models.DealStatusWaitlisted {
			event = models.EventRequestWaitlisted
		} else {
			event = models.EventRequestRejected
		}

	default:
		return nil, apperror.ErrInvalidTransition
	}

	// Нулевое число затронутых строк означает проигранную гонку:
	// между чтением и UPDATE сделку успели перевести в другой статус.
	if !updated {
		return nil, apperror.ErrInvalidTransition
	}

	deal, err = s.repo.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("deal_id", dealID).WithField("status", newStatus).Info("deal status changed")
	s.events.Publish(event, deal)

	return deal, nil
}

// AdvanceWorkStatus продвигает статус выполнения принятой сделки:
// accepted -> ongoing -> completed, строго по одному шагу вперёд.
func (s *DealService) AdvanceWorkStatus(ctx context.Context, dealID, workerID uuid.UUID, newWorkStatus string) (*models.DealRequest, error) {
	deal, err := s.repo.GetByID(ctx, dealID)
	if err != nil {
		return nil, apperror.ErrDealNotFound
	}

	if deal.WorkerID != workerID {
		return nil, apperror.ErrForbidden
	}

	if deal.IsTerminal() {
		return nil, apperror.ErrTerminalStateLocked
	}
	if deal.Status != models.DealStatusAccepted || deal.WorkStatus == nil {
		return nil, apperror.ErrInvalidTransition
	}

	if _, ok := models.ValidWorkStatuses[newWorkStatus]; !ok {
		return nil, apperror.ErrInvalidTransition
	}

	from := *deal.WorkStatus
	if !workTransitionAllowed(from, newWorkStatus) {
		return nil, apperror.ErrInvalidTransition
	}

	updated, err := s.repo.AdvanceWork(ctx, dealID, from, newWorkStatus)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, apperror.ErrInvalidTransition
	}

	deal, err = s.repo.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("deal_id", dealID).WithField("work_status", newWorkStatus).Info("deal work status advanced")
	s.events.Publish(models.EventStatusUpdate, deal)

	return deal, nil
}

// GetDeal возвращает сделку, доступную одному из её участников.
func (s *DealService) GetDeal(ctx context.Context, dealID, userID uuid.UUID) (*models.DealRequest, error) {
	deal, err := s.repo.GetByID(ctx, dealID)
	if err != nil {
		return nil, apperror.ErrDealNotFound
	}

	if deal.CustomerID != userID && deal.WorkerID != userID {
		return nil, apperror.ErrForbidden
	}

	return deal, nil
}

// ListMyDeals возвращает сделки пользователя со стороны его роли.
func (s *DealService) ListMyDeals(ctx context.Context, userID uuid.UUID, role string) ([]models.DealRequest, error) {
	if role == models.RoleWorker {
		return s.repo.ListByWorker(ctx, userID)
	}
	return s.repo.ListByCustomer(ctx, userID)
}

func workTransitionAllowed(from, to string) bool {
	for _, next := range models.WorkStatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
