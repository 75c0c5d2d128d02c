package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/gigwork-backend/internal/models"
	"github.com/ignatzorin/gigwork-backend/internal/pkg/apperror"
)

// mockDealRepository повторяет семантику защищённых UPDATE'ов: переход
// срабатывает только если сделка всё ещё в ожидаемом статусе.
type mockDealRepository struct {
	deals map[uuid.UUID]*models.DealRequest
}

func newMockDealRepository() *mockDealRepository {
	return &mockDealRepository{deals: make(map[uuid.UUID]*models.DealRequest)}
}

func (m *mockDealRepository) Create(ctx context.Context, deal *models.DealRequest) error {
	deal.ID = uuid.New()
	deal.CreatedAt = time.Now()
	stored := *deal
	m.deals[deal.ID] = &stored
	return nil
}

func (m *mockDealRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.DealRequest, error) {
	deal, ok := m.deals[id]
	if !ok {
		return nil, errors.New("сделка не найдена")
	}
	copied := *deal
	return &copied, nil
}

func (m *mockDealRepository) HasActiveBetween(ctx context.Context, customerID, workerID uuid.UUID) (bool, error) {
	for _, deal := range m.deals {
		if deal.CustomerID != customerID || deal.WorkerID != workerID {
			continue
		}
		if deal.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockDealRepository) Accept(ctx context.Context, id uuid.UUID) (bool, error) {
	deal, ok := m.deals[id]
	if !ok || deal.Status != models.DealStatusNew {
		return false, nil
	}
	now := time.Now()
	ws := models.WorkStatusAccepted
	deal.Status = models.DealStatusAccepted
	deal.WorkStatus = &ws
	deal.AcceptedAt = &now
	return true, nil
}

func (m *mockDealRepository) Close(ctx context.Context, id uuid.UUID, status string) (bool, error) {
	deal, ok := m.deals[id]
	if !ok || deal.Status != models.DealStatusNew {
		return false, nil
	}
	deal.Status = status
	return true, nil
}

func (m *mockDealRepository) AdvanceWork(ctx context.Context, id uuid.UUID, from, to string) (bool, error) {
	deal, ok := m.deals[id]
	if !ok || deal.Status != models.DealStatusAccepted {
		return false, nil
	}
	if deal.WorkStatus == nil || *deal.WorkStatus != from {
		return false, nil
	}
	now := time.Now()
	deal.WorkStatus = &to
	switch to {
	case models.WorkStatusOngoing:
		deal.StartedAt = &now
	case models.WorkStatusCompleted:
		deal.CompletedAt = &now
	}
	return true, nil
}

func (m *mockDealRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.DealRequest, error) {
	var out []models.DealRequest
	for _, deal := range m.deals {
		if deal.CustomerID == customerID {
			out = append(out, *deal)
		}
	}
	return out, nil
}

func (m *mockDealRepository) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]models.DealRequest, error) {
	var out []models.DealRequest
	for _, deal := range m.deals {
		if deal.WorkerID == workerID {
			out = append(out, *deal)
		}
	}
	return out, nil
}

// mockUserGetter отдаёт пользователей из карты.
type mockUserGetter struct {
	users map[uuid.UUID]*models.User
}

func (m *mockUserGetter) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, errors.New("пользователь не найден")
}

// mockSuspensions предикат блокировки по множеству.
type mockSuspensions struct {
	suspended map[uuid.UUID]bool
}

func (m *mockSuspensions) IsSuspended(ctx context.Context, userID uuid.UUID) (bool, error) {
	return m.suspended[userID], nil
}

// recordingPublisher запоминает опубликованные события по порядку.
type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Publish(eventType string, deal *models.DealRequest) {
	p.events = append(p.events, eventType)
}

func newDealFixture() (*DealService, *mockDealRepository, *mockSuspensions, *recordingPublisher, uuid.UUID, uuid.UUID) {
	repo := newMockDealRepository()
	customerID := uuid.New()
	workerID := uuid.New()
	users := &mockUserGetter{users: map[uuid.UUID]*models.User{
		customerID: {ID: customerID, Name: "Анна", Role: models.RoleCustomer},
		workerID:   {ID: workerID, Name: "Борис", Role: models.RoleWorker},
	}}
	suspensions := &mockSuspensions{suspended: make(map[uuid.UUID]bool)}
	publisher := &recordingPublisher{}
	svc := NewDealService(repo, users, suspensions, publisher)
	return svc, repo, suspensions, publisher, customerID, workerID
}

func TestDealService_FullLifecycle(t *testing.T) {
	svc, _, _, publisher, customerID, workerID := newDealFixture()
	ctx := context.Background()

	deal, err := svc.CreateRequest(ctx, CreateDealInput{
		CustomerID:  customerID,
		WorkerID:    workerID,
		Description: "Собрать шкаф в спальне",
	})
	assert.NoError(t, err)
	assert.Equal(t, models.DealStatusNew, deal.Status)
	assert.Equal(t, "Анна", deal.CustomerName)

	deal, err = svc.SetStatus(ctx, deal.ID, workerID, models.DealStatusAccepted)
	assert.NoError(t, err)
	assert.Equal(t, models.DealStatusAccepted, deal.Status)
	if assert.NotNil(t, deal.WorkStatus) {
		assert.Equal(t, models.WorkStatusAccepted, *deal.WorkStatus)
	}
	assert.NotNil(t, deal.AcceptedAt)

	deal, err = svc.AdvanceWorkStatus(ctx, deal.ID, workerID, models.WorkStatusOngoing)
	assert.NoError(t, err)
	assert.Equal(t, models.WorkStatusOngoing, *deal.WorkStatus)
	assert.NotNil(t, deal.StartedAt)

	deal, err = svc.AdvanceWorkStatus(ctx, deal.ID, workerID, models.WorkStatusCompleted)
	assert.NoError(t, err)
	assert.Equal(t, models.WorkStatusCompleted, *deal.WorkStatus)
	assert.NotNil(t, deal.CompletedAt)

	assert.Equal(t, []string{
		models.EventNewRequest,
		models.EventRequestAccepted,
		models.EventStatusUpdate,
		models.EventStatusUpdate,
	}, publisher.events)
}

func TestDealService_DuplicateActiveRequest(t *testing.T) {
	svc, _, _, _, customerID, workerID := newDealFixture()
	ctx := context.Background()

	_, err := svc.CreateRequest(ctx, CreateDealInput{
		CustomerID:  customerID,
		WorkerID:    workerID,
		Description: "Покрасить забор",
	})
	assert.NoError(t, err)

	_, err = svc.CreateRequest(ctx, CreateDealInput{
		CustomerID:  customerID,
		WorkerID:    workerID,
		Description: "Покрасить забор ещё раз",
	})
	assert.ErrorIs(t, err, apperror.ErrDuplicateActiveRequest)
}

// racingDealRepository имитирует гонку двух одновременных запросов: проверка
// активной пары ещё не видит конкурента, а вставка уже упирается в
// уникальный индекс.
type racingDealRepository struct {
	*mockDealRepository
}

func (m *racingDealRepository) HasActiveBetween(ctx context.Context, customerID, workerID uuid.UUID) (bool, error) {
	return false, nil
}

func (m *racingDealRepository) Create(ctx context.Context, deal *models.DealRequest) error {
	return apperror.ErrDuplicateActiveRequest
}

func TestDealService_DuplicateActiveRequest_LostRace(t *testing.T) {
	customerID := uuid.New()
	workerID := uuid.New()
	users := &mockUserGetter{users: map[uuid.UUID]*models.User{
		customerID: {ID: customerID, Name: "Анна", Role: models.RoleCustomer},
		workerID:   {ID: workerID, Name: "Борис", Role: models.RoleWorker},
	}}
	suspensions := &mockSuspensions{suspended: make(map[uuid.UUID]bool)}
	publisher := &recordingPublisher{}
	repo := &racingDealRepository{mockDealRepository: newMockDealRepository()}
	svc := NewDealService(repo, users, suspensions, publisher)

	_, err := svc.CreateRequest(context.Background(), CreateDealInput{
		CustomerID:  customerID,
		WorkerID:    workerID,
		Description: "Повесить полку",
	})
	assert.ErrorIs(t, err, apperror.ErrDuplicateActiveRequest)
	assert.Empty(t, publisher.events)
}

func TestDealService_NewRequestAfterCompletion(t *testing.T) {
	svc, _, _, _, customerID, workerID := newDealFixture()
	ctx := context.Background()

	deal, err := svc.CreateRequest(ctx, CreateDealInput{
		CustomerID:  customerID,
		WorkerID:    workerID,
		Description: "Настроить роутер",
	})
	assert.NoError(t, err)

	_, err = svc.SetStatus(ctx, deal.ID, workerID, models.DealStatusAccepted)
	assert.NoError(t, err)
	_, err = svc.AdvanceWorkStatus(ctx, deal.ID, workerID, models.WorkStatusOngoing)
	assert.NoError(t, err)
	_, err = svc.AdvanceWorkStatus(ctx, deal.ID, workerID, models.WorkStatusCompleted)
	assert.NoError(t, err)

	// Завершённая сделка освобождает пару для нового запроса.
	_, err = svc.CreateRequest(ctx, CreateDealInput{
		CustomerID:  customerID,
		WorkerID:    workerID,
		Description: "Настроить роутер у соседа",
	})
	assert.NoError(t, err)
}

func TestDealService_TerminalStatusLocked(t *testing.T) {
	svc, _, _, _, customerID, workerID := newDealFixture()
	ctx := context.Background()

	deal, err := svc.CreateRequest(ctx, CreateDealInput{
		CustomerID:  customerID,
		WorkerID:    workerID,
		Description: "Повесить полку",
	})
	assert.NoError(t, err)

	_, err = svc.SetStatus(ctx, deal.ID, workerID, models.DealStatusRejected)
	assert.NoError(t, err)

	_, err = svc.SetStatus(ctx, deal.ID, workerID, models.DealStatusAccepted)
	assert.ErrorIs(t, err, apperror.ErrTerminalStateLocked)
}

func TestDealService_CannotSkipWorkStep(t *testing.T) {
	svc, _, _, _, customerID, workerID := newDealFixture()
	ctx := context.Background()

	deal, err := svc.CreateRequest(ctx, CreateDealInput{
		CustomerID:  customerID,
		WorkerID:    workerID,
		Description: "Заменить смеситель",
	})
	assert.NoError(t, err)

	_, err = svc.SetStatus(ctx, deal.ID, workerID, models.DealStatusAccepted)
	assert.NoError(t, err)

	// accepted -> completed без ongoing запрещён.
	_, err = svc.AdvanceWorkStatus(ctx, deal.ID, workerID, models.WorkStatusCompleted)
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)

	// Обратный переход тоже.
	_, err = svc.AdvanceWorkStatus(ctx, deal.ID, workerID, models.WorkStatusAccepted)
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
}

func TestDealService_SuspendedCustomerCannotCreate(t *testing.T) {
	svc, _, suspensions, _, customerID, workerID := newDealFixture()
	ctx := context.Background()

	suspensions.suspended[customerID] = true

	_, err := svc.CreateRequest(ctx, CreateDealInput{
		CustomerID:  customerID,
		WorkerID:    workerID,
		Description: "Починить кран",
	})
	assert.ErrorIs(t, err, apperror.ErrSuspendedActor)
}

func TestDealService_SuspendedWorkerCannotAccept(t *testing.T) {
	svc, repo, suspensions, _, customerID, workerID := newDealFixture()
	ctx := context.Background()

	deal, err := svc.CreateRequest(ctx, CreateDealInput{
		CustomerID:  customerID,
		WorkerID:    workerID,
		Description: "Выгулять собаку",
	})
	assert.NoError(t, err)

	suspensions.suspended[workerID] = true

	_, err = svc.SetStatus(ctx, deal.ID, workerID, models.DealStatusAccepted)
	assert.ErrorIs(t, err, apperror.ErrSuspendedActor)

	// Сделка осталась в new, блокировка не съела запрос.
	stored, err := repo.GetByID(ctx, deal.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.DealStatusNew, stored.Status)

	// Отклонить или отложить заблокированный исполнитель может.
	_, err = svc.SetStatus(ctx, deal.ID, workerID, models.DealStatusWaitlisted)
	assert.NoError(t, err)
}

func TestDealService_OnlyAssignedWorkerMutates(t *testing.T) {
	svc, _, _, _, customerID, workerID := newDealFixture()
	ctx := context.Background()

	deal, err := svc.CreateRequest(ctx, CreateDealInput{
		CustomerID:  customerID,
		WorkerID:    workerID,
		Description: "Помыть окна",
	})
	assert.NoError(t, err)

	_, err = svc.SetStatus(ctx, deal.ID, uuid.New(), models.DealStatusAccepted)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestDealService_GetDealParticipantsOnly(t *testing.T) {
	svc, _, _, _, customerID, workerID := newDealFixture()
	ctx := context.Background()

	deal, err := svc.CreateRequest(ctx, CreateDealInput{
		CustomerID:  customerID,
		WorkerID:    workerID,
		Description: "Перевезти диван",
	})
	assert.NoError(t, err)

	_, err = svc.GetDeal(ctx, deal.ID, customerID)
	assert.NoError(t, err)

	_, err = svc.GetDeal(ctx, deal.ID, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}
