package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SuspendedUser описывает активную блокировку пользователя.
// Наличие записи в таблице и есть предикат блокировки: снятие блокировки
// удаляет запись, история остаётся в журнале AdminActionRecord.
type SuspendedUser struct {
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	AdminID     uuid.UUID `db:"admin_id" json:"admin_id"`
	Reason      string    `db:"reason" json:"reason"`
	Notes       *string   `db:"notes" json:"notes,omitempty"`
	SuspendedAt time.Time `db:"suspended_at" json:"suspended_at"`
}

// UserReport описывает жалобу одного пользователя на другого.
type UserReport struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	ReporterID     uuid.UUID  `db:"reporter_id" json:"reporter_id"`
	ReportedUserID uuid.UUID  `db:"reported_user_id" json:"reported_user_id"`
	Reason         string     `db:"reason" json:"reason"`
	RelatedDealID  *uuid.UUID `db:"related_deal_id" json:"related_deal_id,omitempty"`
	Reviewed       bool       `db:"reviewed" json:"reviewed"`
	ReviewedBy     *uuid.UUID `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time `db:"reviewed_at" json:"reviewed_at,omitempty"`
	ActionTaken    *string    `db:"action_taken" json:"action_taken,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// FlaggedReview хранит снимок отзыва, скрытого администратором.
// Запись никогда не удаляется: снятие флага лишь сбрасывает Hidden.
type FlaggedReview struct {
	ID        uuid.UUID `db:"id" json:"id"`
	DealID    uuid.UUID `db:"deal_id" json:"deal_id"`
	Rating    int       `db:"rating" json:"rating"`
	Comment   *string   `db:"comment" json:"comment,omitempty"`
	Reason    string    `db:"reason" json:"reason"`
	Hidden    bool      `db:"hidden" json:"hidden"`
	AdminID   uuid.UUID `db:"admin_id" json:"admin_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AdminActionRecord запись append-only журнала административных действий.
// После создания записи не изменяются и не удаляются.
type AdminActionRecord struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	AdminID    uuid.UUID       `db:"admin_id" json:"admin_id"`
	Action     string          `db:"action" json:"action"`
	TargetType string          `db:"target_type" json:"target_type"`
	TargetID   uuid.UUID       `db:"target_id" json:"target_id"`
	Reason     *string         `db:"reason" json:"reason,omitempty"`
	Notes      *string         `db:"notes" json:"notes,omitempty"`
	Metadata   json.RawMessage `db:"metadata" json:"metadata,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// AdminActionTarget константы типов целей административных действий.
const (
	AdminTargetUser   = "user"
	AdminTargetReport = "report"
	AdminTargetReview = "review"
)
