package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/gigwork-backend/internal/models"
	"github.com/ignatzorin/gigwork-backend/internal/pkg/apperror"
)

// activePairIndex уникальный частичный индекс, запрещающий вторую
// активную сделку для пары заказчик/исполнитель.
const activePairIndex = "idx_deal_requests_pair_active"

// ErrDealNotFound возвращается, когда сделка не найдена.
var ErrDealNotFound = errors.New("deal not found")

// DealRepository отвечает за работу с таблицами deal_requests и reviews.
//
// Все переходы статусов выполняются одним UPDATE с условием на текущий
// статус, а создание опирается на уникальный частичный индекс по активной
// паре: проверка и мутация атомарны на уровне базы, поэтому параллельные
// вызовы не могут нарушить таблицу переходов или создать вторую активную
// сделку для пары.
type DealRepository struct {
	db *sqlx.DB
}

// NewDealRepository создаёт экземпляр репозитория.
func NewDealRepository(db *sqlx.DB) *DealRepository {
	return &DealRepository{db: db}
}

// Create сохраняет новую сделку. Гонку двух одновременных запросов для
// одной пары проигравшему разрешает уникальный индекс, а не проверка
// HasActiveBetween перед вставкой.
func (r *DealRepository) Create(ctx context.Context, deal *models.DealRequest) error {
	query := `
		INSERT INTO deal_requests (customer_id, customer_name, worker_id, worker_name, description, location, preferred_time, budget, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		deal.CustomerID, deal.CustomerName, deal.WorkerID, deal.WorkerName,
		deal.Description, deal.Location, deal.PreferredTime, deal.Budget, deal.Status,
	).Scan(&deal.ID, &deal.CreatedAt); err != nil {
		return mapCreateError(err)
	}

	return nil
}

// mapCreateError превращает нарушение уникального индекса активной пары
// в доменную ошибку дубликата, остальные ошибки оборачивает как есть.
func mapCreateError(err error) error {
	if isActivePairViolation(err) {
		return apperror.ErrDuplicateActiveRequest
	}
	return fmt.Errorf("deal repository: create %w", err)
}

func isActivePairViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) &&
		pqErr.Code == "23505" &&
		pqErr.Constraint == activePairIndex
}

// GetByID возвращает сделку по идентификатору.
func (r *DealRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.DealRequest, error) {
	var deal models.DealRequest
	query := `
		SELECT id, customer_id, customer_name, worker_id, worker_name, description, location,
		       preferred_time, budget, status, work_status, accepted_at, started_at, completed_at, created_at
		FROM deal_requests
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &deal, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDealNotFound
		}
		return nil, fmt.Errorf("deal repository: get by id %w", err)
	}

	return &deal, nil
}

// HasActiveBetween сообщает, есть ли активная сделка между заказчиком и исполнителем.
// Активной считается сделка в статусе new либо accepted с незавершённой работой.
func (r *DealRepository) HasActiveBetween(ctx context.Context, customerID, workerID uuid.UUID) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM deal_requests
			WHERE customer_id = $1 AND worker_id = $2
			  AND (status = 'new' OR (status = 'accepted' AND work_status <> 'completed'))
		)
	`
	if err := r.db.GetContext(ctx, &exists, query, customerID, workerID); err != nil {
		return false, fmt.Errorf("deal repository: has active between %w", err)
	}

	return exists, nil
}

// Accept переводит сделку из new в accepted, открывая статус выполнения.
// Возвращает false, если сделка уже не в статусе new.
func (r *DealRepository) Accept(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE deal_requests
		SET status = 'accepted', work_status = 'accepted', accepted_at = NOW()
		WHERE id = $1 AND status = 'new'
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("deal repository: accept %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deal repository: accept rows affected %w", err)
	}

	return rowsAffected > 0, nil
}

// Close переводит сделку из new в терминальный статус waitlisted или rejected.
func (r *DealRepository) Close(ctx context.Context, id uuid.UUID, status string) (bool, error) {
	if status != models.DealStatusWaitlisted && status != models.DealStatusRejected {
		return false, fmt.Errorf("deal repository: close: недопустимый статус %q", status)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE deal_requests SET status = $2 WHERE id = $1 AND status = 'new'`, id, status)
	if err != nil {
		return false, fmt.Errorf("deal repository: close %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deal repository: close rows affected %w", err)
	}

	return rowsAffected > 0, nil
}

// AdvanceWork продвигает статус выполнения принятой сделки на один шаг вперёд.
// Условие WHERE фиксирует ожидаемый исходный статус, поэтому пропуск шага
// или откат назад невозможны даже при гонке.
func (r *DealRepository) AdvanceWork(ctx context.Context, id uuid.UUID, from, to string) (bool, error) {
	query := `
		UPDATE deal_requests
		SET work_status = $3,
		    started_at   = CASE WHEN $3 = 'ongoing'   THEN NOW() ELSE started_at END,
		    completed_at = CASE WHEN $3 = 'completed' THEN NOW() ELSE completed_at END
		WHERE id = $1 AND status = 'accepted' AND work_status = $2
	`
	result, err := r.db.ExecContext(ctx, query, id, from, to)
	if err != nil {
		return false, fmt.Errorf("deal repository: advance work %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deal repository: advance work rows affected %w", err)
	}

	return rowsAffected > 0, nil
}

// ListByCustomer возвращает сделки заказчика, новые сверху.
func (r *DealRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.DealRequest, error) {
	var deals []models.DealRequest
	query := `
		SELECT id, customer_id, customer_name, worker_id, worker_name, description, location,
		       preferred_time, budget, status, work_status, accepted_at, started_at, completed_at, created_at
		FROM deal_requests
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &deals, query, customerID); err != nil {
		return nil, fmt.Errorf("deal repository: list by customer %w", err)
	}

	return deals, nil
}

// ListByWorker возвращает сделки исполнителя, новые сверху.
func (r *DealRepository) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]models.DealRequest, error) {
	var deals []models.DealRequest
	query := `
		SELECT id, customer_id, customer_name, worker_id, worker_name, description, location,
		       preferred_time, budget, status, work_status, accepted_at, started_at, completed_at, created_at
		FROM deal_requests
		WHERE worker_id = $1
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &deals, query, workerID); err != nil {
		return nil, fmt.Errorf("deal repository: list by worker %w", err)
	}

	return deals, nil
}

// CreateReview сохраняет отзыв по сделке. Уникальный индекс по deal_id
// гарантирует не более одного отзыва на сделку.
func (r *DealRepository) CreateReview(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (deal_id, rating, comment)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(ctx, query, review.DealID, review.Rating, review.Comment).
		Scan(&review.ID, &review.CreatedAt); err != nil {
		return fmt.Errorf("deal repository: create review %w", err)
	}

	return nil
}

// GetReviewByDealID возвращает отзыв по сделке или nil, если отзыва нет.
func (r *DealRepository) GetReviewByDealID(ctx context.Context, dealID uuid.UUID) (*models.Review, error) {
	var review models.Review
	query := `SELECT id, deal_id, rating, comment, created_at FROM reviews WHERE deal_id = $1`
	if err := r.db.GetContext(ctx, &review, query, dealID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("deal repository: get review by deal id %w", err)
	}

	return &review, nil
}

// GetWorkerRating возвращает средний рейтинг исполнителя (округлённый до
// одного знака) и количество отзывов по его завершённым сделкам.
func (r *DealRepository) GetWorkerRating(ctx context.Context, workerID uuid.UUID) (float64, int, error) {
	var row struct {
		Average float64 `db:"average"`
		Count   int     `db:"count"`
	}
	query := `
		SELECT COALESCE(ROUND(AVG(r.rating)::numeric, 1), 0) AS average, COUNT(r.id) AS count
		FROM reviews r
		JOIN deal_requests d ON d.id = r.deal_id
		WHERE d.worker_id = $1 AND d.work_status = 'completed'
	`
	if err := r.db.GetContext(ctx, &row, query, workerID); err != nil {
		return 0, 0, fmt.Errorf("deal repository: get worker rating %w", err)
	}

	return row.Average, row.Count, nil
}

// ListWorkerReviews возвращает видимые отзывы об исполнителе.
// Отзывы, скрытые модерацией, исключаются из выдачи.
func (r *DealRepository) ListWorkerReviews(ctx context.Context, workerID uuid.UUID, limit, offset int) ([]models.Review, error) {
	var reviews []models.Review
	query := `
		SELECT r.id, r.deal_id, r.rating, r.comment, r.created_at
		FROM reviews r
		JOIN deal_requests d ON d.id = r.deal_id
		WHERE d.worker_id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM flagged_reviews f WHERE f.deal_id = r.deal_id AND f.hidden
		  )
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &reviews, query, workerID, limit, offset); err != nil {
		return nil, fmt.Errorf("deal repository: list worker reviews %w", err)
	}

	return reviews, nil
}
