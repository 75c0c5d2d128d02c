package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/gigwork-backend/internal/models"
)

// ErrReportNotFound возвращается, когда жалоба не найдена.
var ErrReportNotFound = errors.New("report not found")

// ErrFlagNotFound возвращается, когда запись о скрытом отзыве не найдена.
var ErrFlagNotFound = errors.New("review flag not found")

// ModerationRepository отвечает за таблицы suspended_users, user_reports,
// flagged_reviews и admin_actions.
type ModerationRepository struct {
	db *sqlx.DB
}

// NewModerationRepository создаёт экземпляр репозитория.
func NewModerationRepository(db *sqlx.DB) *ModerationRepository {
	return &ModerationRepository{db: db}
}

// IsSuspended проверяет наличие пользователя в множестве заблокированных.
func (r *ModerationRepository) IsSuspended(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM suspended_users WHERE user_id = $1)`, userID); err != nil {
		return false, fmt.Errorf("moderation repository: is suspended %w", err)
	}

	return exists, nil
}

// UpsertSuspension блокирует пользователя. Повторная блокировка заменяет
// прежнюю запись, а не дублирует её.
func (r *ModerationRepository) UpsertSuspension(ctx context.Context, s *models.SuspendedUser) error {
	query := `
		INSERT INTO suspended_users (user_id, admin_id, reason, notes, suspended_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET admin_id = EXCLUDED.admin_id,
			reason = EXCLUDED.reason,
			notes = EXCLUDED.notes,
			suspended_at = EXCLUDED.suspended_at
		RETURNING suspended_at
	`

	if err := r.db.QueryRowxContext(ctx, query, s.UserID, s.AdminID, s.Reason, s.Notes).
		Scan(&s.SuspendedAt); err != nil {
		return fmt.Errorf("moderation repository: upsert suspension %w", err)
	}

	return nil
}

// DeleteSuspension снимает блокировку. Отсутствие записи не считается ошибкой.
func (r *ModerationRepository) DeleteSuspension(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM suspended_users WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("moderation repository: delete suspension %w", err)
	}

	return nil
}

// ListSuspended возвращает всех заблокированных пользователей.
func (r *ModerationRepository) ListSuspended(ctx context.Context) ([]models.SuspendedUser, error) {
	var suspended []models.SuspendedUser
	query := `
		SELECT user_id, admin_id, reason, notes, suspended_at
		FROM suspended_users
		ORDER BY suspended_at DESC
	`
	if err := r.db.SelectContext(ctx, &suspended, query); err != nil {
		return nil, fmt.Errorf("moderation repository: list suspended %w", err)
	}

	return suspended, nil
}

// CreateReport сохраняет жалобу пользователя.
func (r *ModerationRepository) CreateReport(ctx context.Context, report *models.UserReport) error {
	query := `
		INSERT INTO user_reports (reporter_id, reported_user_id, reason, related_deal_id, reviewed)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		report.ReporterID, report.ReportedUserID, report.Reason, report.RelatedDealID,
	).Scan(&report.ID, &report.CreatedAt); err != nil {
		return fmt.Errorf("moderation repository: create report %w", err)
	}

	return nil
}

// GetReportByID возвращает жалобу по идентификатору.
func (r *ModerationRepository) GetReportByID(ctx context.Context, id uuid.UUID) (*models.UserReport, error) {
	var report models.UserReport
	query := `
		SELECT id, reporter_id, reported_user_id, reason, related_deal_id,
		       reviewed, reviewed_by, reviewed_at, action_taken, created_at
		FROM user_reports
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("moderation repository: get report by id %w", err)
	}

	return &report, nil
}

// ResolveReport помечает жалобу рассмотренной. Условие reviewed = FALSE
// делает повторное рассмотрение невозможным: для уже закрытой жалобы
// запрос не затронет ни одной строки.
func (r *ModerationRepository) ResolveReport(ctx context.Context, id, adminID uuid.UUID, actionTaken *string) (bool, error) {
	query := `
		UPDATE user_reports
		SET reviewed = TRUE, reviewed_by = $2, reviewed_at = NOW(), action_taken = $3
		WHERE id = $1 AND reviewed = FALSE
	`
	result, err := r.db.ExecContext(ctx, query, id, adminID, actionTaken)
	if err != nil {
		return false, fmt.Errorf("moderation repository: resolve report %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("moderation repository: resolve report rows affected %w", err)
	}

	return rowsAffected > 0, nil
}

// ListReports возвращает жалобы, нерассмотренные сверху.
func (r *ModerationRepository) ListReports(ctx context.Context, limit, offset int) ([]models.UserReport, error) {
	var reports []models.UserReport
	query := `
		SELECT id, reporter_id, reported_user_id, reason, related_deal_id,
		       reviewed, reviewed_by, reviewed_at, action_taken, created_at
		FROM user_reports
		ORDER BY reviewed ASC, created_at DESC
		LIMIT $1 OFFSET $2
	`
	if err := r.db.SelectContext(ctx, &reports, query, limit, offset); err != nil {
		return nil, fmt.Errorf("moderation repository: list reports %w", err)
	}

	return reports, nil
}

// CreateFlag сохраняет снимок скрываемого отзыва.
func (r *ModerationRepository) CreateFlag(ctx context.Context, flag *models.FlaggedReview) error {
	query := `
		INSERT INTO flagged_reviews (deal_id, rating, comment, reason, hidden, admin_id)
		VALUES ($1, $2, $3, $4, TRUE, $5)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		flag.DealID, flag.Rating, flag.Comment, flag.Reason, flag.AdminID,
	).Scan(&flag.ID, &flag.CreatedAt); err != nil {
		return fmt.Errorf("moderation repository: create flag %w", err)
	}

	return nil
}

// SetFlagHidden переключает видимость скрытого отзыва. Сама запись
// сохраняется навсегда как часть истории модерации.
func (r *ModerationRepository) SetFlagHidden(ctx context.Context, flagID uuid.UUID, hidden bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE flagged_reviews SET hidden = $2 WHERE id = $1`, flagID, hidden)
	if err != nil {
		return fmt.Errorf("moderation repository: set flag hidden %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("moderation repository: set flag hidden rows affected %w", err)
	}

	if rowsAffected == 0 {
		return ErrFlagNotFound
	}

	return nil
}

// GetFlagByID возвращает запись о скрытом отзыве.
func (r *ModerationRepository) GetFlagByID(ctx context.Context, id uuid.UUID) (*models.FlaggedReview, error) {
	var flag models.FlaggedReview
	query := `SELECT id, deal_id, rating, comment, reason, hidden, admin_id, created_at FROM flagged_reviews WHERE id = $1`
	if err := r.db.GetContext(ctx, &flag, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFlagNotFound
		}
		return nil, fmt.Errorf("moderation repository: get flag by id %w", err)
	}

	return &flag, nil
}

// AppendAdminAction добавляет запись в журнал административных действий.
// Журнал append-only: методов изменения и удаления у него нет.
func (r *ModerationRepository) AppendAdminAction(ctx context.Context, action *models.AdminActionRecord) error {
	query := `
		INSERT INTO admin_actions (admin_id, action, target_type, target_id, reason, notes, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		action.AdminID, action.Action, action.TargetType, action.TargetID,
		action.Reason, action.Notes, action.Metadata,
	).Scan(&action.ID, &action.CreatedAt); err != nil {
		return fmt.Errorf("moderation repository: append admin action %w", err)
	}

	return nil
}

// ListAdminActions возвращает журнал административных действий, новые сверху.
func (r *ModerationRepository) ListAdminActions(ctx context.Context, limit, offset int) ([]models.AdminActionRecord, error) {
	var actions []models.AdminActionRecord
	query := `
		SELECT id, admin_id, action, target_type, target_id, reason, notes, metadata, created_at
		FROM admin_actions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	if err := r.db.SelectContext(ctx, &actions, query, limit, offset); err != nil {
		return nil, fmt.Errorf("moderation repository: list admin actions %w", err)
	}

	return actions, nil
}
