package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ignatzorin/gigwork-backend/internal/models"
	"github.com/ignatzorin/gigwork-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigwork-backend/internal/repository"
)

// ModerationRepository описывает взаимодействие сервиса модерации с хранилищем.
type ModerationRepository interface {
	IsSuspended(ctx context.Context, userID uuid.UUID) (bool, error)
	UpsertSuspension(ctx context.Context, s *models.SuspendedUser) error
	DeleteSuspension(ctx context.Context, userID uuid.UUID) error
	ListSuspended(ctx context.Context) ([]models.SuspendedUser, error)
	CreateReport(ctx context.Context, report *models.UserReport) error
	GetReportByID(ctx context.Context, id uuid.UUID) (*models.UserReport, error)
	ResolveReport(ctx context.Context, id, adminID uuid.UUID, actionTaken *string) (bool, error)
	ListReports(ctx context.Context, limit, offset int) ([]models.UserReport, error)
	CreateFlag(ctx context.Context, flag *models.FlaggedReview) error
	SetFlagHidden(ctx context.Context, flagID uuid.UUID, hidden bool) error
	AppendAdminAction(ctx context.Context, action *models.AdminActionRecord) error
	ListAdminActions(ctx context.Context, limit, offset int) ([]models.AdminActionRecord, error)
}

// ReviewSnapshotGetter достаёт отзыв для снимка при его скрытии.
type ReviewSnapshotGetter interface {
	GetReviewByDealID(ctx context.Context, dealID uuid.UUID) (*models.Review, error)
}

// ModerationService содержит бизнес-логику блокировок, жалоб и скрытия
// отзывов. Каждое административное действие фиксируется в append-only
// журнале, включая снятие блокировки с незаблокированного пользователя.
type ModerationService struct {
	repo    ModerationRepository
	reviews ReviewSnapshotGetter
}

// NewModerationService создаёт новый сервис модерации.
func NewModerationService(repo ModerationRepository, reviews ReviewSnapshotGetter) *ModerationService {
	return &ModerationService{repo: repo, reviews: reviews}
}

// IsSuspended проверяет, заблокирован ли пользователь.
// Реализует предикат SuspensionChecker для сервиса сделок.
func (s *ModerationService) IsSuspended(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.repo.IsSuspended(ctx, userID)
}

// Suspend блокирует пользователя. Повторная блокировка заменяет прежнюю
// запись; журнал при этом пополняется в любом случае.
func (s *ModerationService) Suspend(ctx context.Context, adminID, userID uuid.UUID, reason string, notes *string) (*models.SuspendedUser, error) {
	suspension := &models.SuspendedUser{
		UserID:  userID,
		AdminID: adminID,
		Reason:  reason,
		Notes:   notes,
	}

	if err := s.repo.UpsertSuspension(ctx, suspension); err != nil {
		return nil, err
	}

	action := &models.AdminActionRecord{
		AdminID:    adminID,
		Action:     models.AdminActionSuspendUser,
		TargetType: models.AdminTargetUser,
		TargetID:   userID,
		Reason:     &reason,
		Notes:      notes,
	}
	if err := s.repo.AppendAdminAction(ctx, action); err != nil {
		return nil, err
	}

	return suspension, nil
}

// Unsuspend снимает блокировку. Попытка снять блокировку с
// незаблокированного пользователя тоже попадает в журнал.
func (s *ModerationService) Unsuspend(ctx context.Context, adminID, userID uuid.UUID) error {
	if err := s.repo.DeleteSuspension(ctx, userID); err != nil {
		return err
	}

	action := &models.AdminActionRecord{
		AdminID:    adminID,
		Action:     models.AdminActionUnsuspendUser,
		TargetType: models.AdminTargetUser,
		TargetID:   userID,
	}
	return s.repo.AppendAdminAction(ctx, action)
}

// ListSuspended возвращает всех заблокированных пользователей.
func (s *ModerationService) ListSuspended(ctx context.Context) ([]models.SuspendedUser, error) {
	return s.repo.ListSuspended(ctx)
}

// FileReport регистрирует жалобу пользователя. Жалоба всегда принимается
// и стартует нерассмотренной.
func (s *ModerationService) FileReport(ctx context.Context, reporterID, reportedUserID uuid.UUID, reason string, relatedDealID *uuid.UUID) (*models.UserReport, error) {
	report := &models.UserReport{
		ReporterID:     reporterID,
		ReportedUserID: reportedUserID,
		Reason:         reason,
		RelatedDealID:  relatedDealID,
	}

	if err := s.repo.CreateReport(ctx, report); err != nil {
		return nil, err
	}

	return report, nil
}

// ResolveReport помечает жалобу рассмотренной. Повторное рассмотрение
// отклоняется.
func (s *ModerationService) ResolveReport(ctx context.Context, adminID, reportID uuid.UUID, actionTaken *string) (*models.UserReport, error) {
	resolved, err := s.repo.ResolveReport(ctx, reportID, adminID, actionTaken)
	if err != nil {
		return nil, err
	}

	if !resolved {
		// Различаем отсутствующую жалобу и уже рассмотренную.
		if _, err := s.repo.GetReportByID(ctx, reportID); err != nil {
			return nil, apperror.ErrReportNotFound
		}
		return nil, apperror.ErrAlreadyResolved
	}

	action := &models.AdminActionRecord{
		AdminID:    adminID,
		Action:     models.AdminActionResolveReport,
		TargetType: models.AdminTargetReport,
		TargetID:   reportID,
		Notes:      actionTaken,
	}
	if err := s.repo.AppendAdminAction(ctx, action); err != nil {
		return nil, err
	}

	return s.repo.GetReportByID(ctx, reportID)
}

// ListReports возвращает жалобы для админской очереди.
func (s *ModerationService) ListReports(ctx context.Context, limit, offset int) ([]models.UserReport, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListReports(ctx, limit, offset)
}

// FlagReview скрывает отзыв по сделке, сохраняя его снимок. Скрытие
// допускается даже если отзыв уже не существует: снимок тогда пуст,
// а сам факт скрытия остаётся в истории.
func (s *ModerationService) FlagReview(ctx context.Context, adminID, dealID uuid.UUID, reason string) (*models.FlaggedReview, error) {
	flag := &models.FlaggedReview{
		DealID:  dealID,
		Reason:  reason,
		Hidden:  true,
		AdminID: adminID,
	}

	if review, err := s.reviews.GetReviewByDealID(ctx, dealID); err == nil && review != nil {
		flag.Rating = review.Rating
		flag.Comment = review.Comment
	}

	if err := s.repo.CreateFlag(ctx, flag); err != nil {
		return nil, err
	}

	action := &models.AdminActionRecord{
		AdminID:    adminID,
		Action:     models.AdminActionFlagReview,
		TargetType: models.AdminTargetReview,
		TargetID:   dealID,
		Reason:     &reason,
	}
	if err := s.repo.AppendAdminAction(ctx, action); err != nil {
		return nil, err
	}

	return flag, nil
}

// UnflagReview возвращает отзыву видимость. Запись о скрытии остаётся.
func (s *ModerationService) UnflagReview(ctx context.Context, adminID, flagID uuid.UUID) error {
	if err := s.repo.SetFlagHidden(ctx, flagID, false); err != nil {
		if errors.Is(err, repository.ErrFlagNotFound) {
			return apperror.ErrFlagNotFound
		}
		return err
	}

	action := &models.AdminActionRecord{
		AdminID:    adminID,
		Action:     models.AdminActionUnflagReview,
		TargetType: models.AdminTargetReview,
		TargetID:   flagID,
	}
	return s.repo.AppendAdminAction(ctx, action)
}

// ListAdminActions возвращает журнал административных действий.
func (s *ModerationService) ListAdminActions(ctx context.Context, limit, offset int) ([]models.AdminActionRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListAdminActions(ctx, limit, offset)
}
