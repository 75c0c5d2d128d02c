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
	"github.com/ignatzorin/gigwork-backend/internal/repository"
)

// mockModerationRepository хранит блокировки, жалобы и журнал в памяти.
type mockModerationRepository struct {
	suspensions map[uuid.UUID]*models.SuspendedUser
	reports     map[uuid.UUID]*models.UserReport
	flags       map[uuid.UUID]*models.FlaggedReview
	actions     []models.AdminActionRecord
}

func newMockModerationRepository() *mockModerationRepository {
	return &mockModerationRepository{
		suspensions: make(map[uuid.UUID]*models.SuspendedUser),
		reports:     make(map[uuid.UUID]*models.UserReport),
		flags:       make(map[uuid.UUID]*models.FlaggedReview),
	}
}

func (m *mockModerationRepository) IsSuspended(ctx context.Context, userID uuid.UUID) (bool, error) {
	_, ok := m.suspensions[userID]
	return ok, nil
}

func (m *mockModerationRepository) UpsertSuspension(ctx context.Context, s *models.SuspendedUser) error {
	s.SuspendedAt = time.Now()
	stored := *s
	m.suspensions[s.UserID] = &stored
	return nil
}

func (m *mockModerationRepository) DeleteSuspension(ctx context.Context, userID uuid.UUID) error {
	delete(m.suspensions, userID)
	return nil
}

func (m *mockModerationRepository) ListSuspended(ctx context.Context) ([]models.SuspendedUser, error) {
	var out []models.SuspendedUser
	for _, s := range m.suspensions {
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockModerationRepository) CreateReport(ctx context.Context, report *models.UserReport) error {
	report.ID = uuid.New()
	report.CreatedAt = time.Now()
	stored := *report
	m.reports[report.ID] = &stored
	return nil
}

func (m *mockModerationRepository) GetReportByID(ctx context.Context, id uuid.UUID) (*models.UserReport, error) {
	report, ok := m.reports[id]
	if !ok {
		return nil, errors.New("жалоба не найдена")
	}
	copied := *report
	return &copied, nil
}

func (m *mockModerationRepository) ResolveReport(ctx context.Context, id, adminID uuid.UUID, actionTaken *string) (bool, error) {
	report, ok := m.reports[id]
	if !ok || report.Reviewed {
		return false, nil
	}
	now := time.Now()
	report.Reviewed = true
	report.ReviewedBy = &adminID
	report.ReviewedAt = &now
	report.ActionTaken = actionTaken
	return true, nil
}

func (m *mockModerationRepository) ListReports(ctx context.Context, limit, offset int) ([]models.UserReport, error) {
	var out []models.UserReport
	for _, r := range m.reports {
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockModerationRepository) CreateFlag(ctx context.Context, flag *models.FlaggedReview) error {
	flag.ID = uuid.New()
	flag.CreatedAt = time.Now()
	stored := *flag
	m.flags[flag.ID] = &stored
	return nil
}

func (m *mockModerationRepository) SetFlagHidden(ctx context.Context, flagID uuid.UUID, hidden bool) error {
	flag, ok := m.flags[flagID]
	if !ok {
		return repository.ErrFlagNotFound
	}
	flag.Hidden = hidden
	return nil
}

func (m *mockModerationRepository) GetFlagByID(ctx context.Context, id uuid.UUID) (*models.FlaggedReview, error) {
	flag, ok := m.flags[id]
	if !ok {
		return nil, repository.ErrFlagNotFound
	}
	copied := *flag
	return &copied, nil
}

func (m *mockModerationRepository) AppendAdminAction(ctx context.Context, action *models.AdminActionRecord) error {
	action.ID = uuid.New()
	action.CreatedAt = time.Now()
	m.actions = append(m.actions, *action)
	return nil
}

func (m *mockModerationRepository) ListAdminActions(ctx context.Context, limit, offset int) ([]models.AdminActionRecord, error) {
	return m.actions, nil
}

// mockReviewSnapshots отдаёт отзывы для снимков при скрытии.
type mockReviewSnapshots struct {
	reviews map[uuid.UUID]*models.Review
}

func (m *mockReviewSnapshots) GetReviewByDealID(ctx context.Context, dealID uuid.UUID) (*models.Review, error) {
	if review, ok := m.reviews[dealID]; ok {
		return review, nil
	}
	return nil, nil
}

func newModerationFixture() (*ModerationService, *mockModerationRepository, *mockReviewSnapshots) {
	repo := newMockModerationRepository()
	reviews := &mockReviewSnapshots{reviews: make(map[uuid.UUID]*models.Review)}
	return NewModerationService(repo, reviews), repo, reviews
}

func TestModerationService_SuspendUnsuspend(t *testing.T) {
	svc, repo, _ := newModerationFixture()
	ctx := context.Background()

	adminID := uuid.New()
	userID := uuid.New()

	_, err := svc.Suspend(ctx, adminID, userID, "спам в запросах", nil)
	assert.NoError(t, err)

	suspended, err := svc.IsSuspended(ctx, userID)
	assert.NoError(t, err)
	assert.True(t, suspended)

	// Повторная блокировка заменяет запись, но не дублирует её.
	_, err = svc.Suspend(ctx, adminID, userID, "повторный спам", nil)
	assert.NoError(t, err)
	assert.Len(t, repo.suspensions, 1)

	assert.NoError(t, svc.Unsuspend(ctx, adminID, userID))

	suspended, err = svc.IsSuspended(ctx, userID)
	assert.NoError(t, err)
	assert.False(t, suspended)

	// Журнал: две блокировки и одно снятие.
	assert.Len(t, repo.actions, 3)
	assert.Equal(t, models.AdminActionSuspendUser, repo.actions[0].Action)
	assert.Equal(t, models.AdminActionUnsuspendUser, repo.actions[2].Action)
}

func TestModerationService_UnsuspendNotSuspendedStillAudited(t *testing.T) {
	svc, repo, _ := newModerationFixture()
	ctx := context.Background()

	assert.NoError(t, svc.Unsuspend(ctx, uuid.New(), uuid.New()))
	assert.Len(t, repo.actions, 1)
}

func TestModerationService_ResolveReportTwice(t *testing.T) {
	svc, _, _ := newModerationFixture()
	ctx := context.Background()

	adminID := uuid.New()
	report, err := svc.FileReport(ctx, uuid.New(), uuid.New(), "грубость в переписке", nil)
	assert.NoError(t, err)
	assert.False(t, report.Reviewed)

	action := "предупреждение"
	resolved, err := svc.ResolveReport(ctx, adminID, report.ID, &action)
	assert.NoError(t, err)
	assert.True(t, resolved.Reviewed)
	assert.Equal(t, &action, resolved.ActionTaken)

	_, err = svc.ResolveReport(ctx, adminID, report.ID, &action)
	assert.ErrorIs(t, err, apperror.ErrAlreadyResolved)
}

func TestModerationService_ResolveMissingReport(t *testing.T) {
	svc, _, _ := newModerationFixture()
	ctx := context.Background()

	_, err := svc.ResolveReport(ctx, uuid.New(), uuid.New(), nil)
	assert.ErrorIs(t, err, apperror.ErrReportNotFound)
}

func TestModerationService_FlagReviewSnapshot(t *testing.T) {
	svc, repo, reviews := newModerationFixture()
	ctx := context.Background()

	dealID := uuid.New()
	comment := "ужасный сервис"
	reviews.reviews[dealID] = &models.Review{DealID: dealID, Rating: 1, Comment: &comment}

	flag, err := svc.FlagReview(ctx, uuid.New(), dealID, "оскорбления")
	assert.NoError(t, err)
	assert.True(t, flag.Hidden)
	assert.Equal(t, 1, flag.Rating)
	assert.Equal(t, &comment, flag.Comment)

	assert.NoError(t, svc.UnflagReview(ctx, uuid.New(), flag.ID))

	stored, err := repo.GetFlagByID(ctx, flag.ID)
	assert.NoError(t, err)
	assert.False(t, stored.Hidden)

	// Запись о скрытии не удаляется, в журнале оба действия.
	assert.Len(t, repo.actions, 2)
}

func TestModerationService_UnflagMissingFlag(t *testing.T) {
	svc, repo, _ := newModerationFixture()
	ctx := context.Background()

	err := svc.UnflagReview(ctx, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrFlagNotFound)

	// Несостоявшееся действие в журнал не попадает.
	assert.Empty(t, repo.actions)
}

func TestModerationService_FlagMissingReview(t *testing.T) {
	svc, _, _ := newModerationFixture()
	ctx := context.Background()

	// Отзыва нет — флаг всё равно создаётся с пустым снимком.
	flag, err := svc.FlagReview(ctx, uuid.New(), uuid.New(), "жалоба на отзыв")
	assert.NoError(t, err)
	assert.True(t, flag.Hidden)
	assert.Equal(t, 0, flag.Rating)
	assert.Nil(t, flag.Comment)
}
