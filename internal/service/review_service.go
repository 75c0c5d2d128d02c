package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/gigwork-backend/internal/models"
	"github.com/ignatzorin/gigwork-backend/internal/pkg/apperror"
)

// DealRepoForReview описывает минимальный контракт сервиса отзывов к хранилищу сделок.
type DealRepoForReview interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.DealRequest, error)
	GetReviewByDealID(ctx context.Context, dealID uuid.UUID) (*models.Review, error)
	CreateReview(ctx context.Context, review *models.Review) error
	GetWorkerRating(ctx context.Context, workerID uuid.UUID) (float64, int, error)
	ListWorkerReviews(ctx context.Context, workerID uuid.UUID, limit, offset int) ([]models.Review, error)
}

// ReviewService содержит бизнес-логику отзывов о завершённых сделках.
type ReviewService struct {
	repo   DealRepoForReview
	events EventPublisher
}

// NewReviewService создаёт новый сервис отзывов.
func NewReviewService(repo DealRepoForReview, events EventPublisher) *ReviewService {
	return &ReviewService{repo: repo, events: events}
}

// CanReview проверяет, может ли заказчик оставить отзыв по сделке:
// сделка принадлежит ему, работа завершена и отзыва ещё нет.
func (s *ReviewService) CanReview(ctx context.Context, dealID, customerID uuid.UUID) (bool, error) {
	deal, err := s.repo.GetByID(ctx, dealID)
	if err != nil {
		return false, nil
	}
	if !reviewEligible(deal, customerID) {
		return false, nil
	}

	existing, err := s.repo.GetReviewByDealID(ctx, dealID)
	if err != nil {
		return false, err
	}
	return existing == nil, nil
}

// SubmitReview прикрепляет отзыв к завершённой сделке. Предусловия
// перепроверяются целиком: прежний ответ CanReview мог устареть.
func (s *ReviewService) SubmitReview(ctx context.Context, dealID, customerID uuid.UUID, rating int, comment *string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperror.ErrInvalidRating
	}

	deal, err := s.repo.GetByID(ctx, dealID)
	if err != nil {
		return nil, apperror.ErrDealNotFound
	}

	if !reviewEligible(deal, customerID) {
		return nil, apperror.ErrNotEligibleForReview
	}

	existing, err := s.repo.GetReviewByDealID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.ErrAlreadyReviewed
	}

	review := &models.Review{
		DealID:  dealID,
		Rating:  rating,
		Comment: comment,
	}

	if err := s.repo.CreateReview(ctx, review); err != nil {
		return nil, err
	}

	deal.Review = review
	s.events.Publish(models.EventReviewReceived, deal)

	return review, nil
}

// WorkerRating возвращает средний рейтинг исполнителя и количество отзывов.
func (s *ReviewService) WorkerRating(ctx context.Context, workerID uuid.UUID) (*models.WorkerRating, error) {
	average, count, err := s.repo.GetWorkerRating(ctx, workerID)
	if err != nil {
		return nil, err
	}

	return &models.WorkerRating{Average: average, Count: count}, nil
}

// ListWorkerReviews возвращает видимые отзывы об исполнителе.
func (s *ReviewService) ListWorkerReviews(ctx context.Context, workerID uuid.UUID, limit, offset int) ([]models.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListWorkerReviews(ctx, workerID, limit, offset)
}

// reviewEligible проверяет предикат допустимости отзыва без учёта его наличия.
func reviewEligible(deal *models.DealRequest, customerID uuid.UUID) bool {
	if deal.CustomerID != customerID {
		return false
	}
	if deal.Status != models.DealStatusAccepted {
		return false
	}
	return deal.WorkStatus != nil && *deal.WorkStatus == models.WorkStatusCompleted
}
