package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationItem описывает уведомление пользователя о событии сделки.
// Type повторяет тип события, породившего уведомление.
type NotificationItem struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	UserID        uuid.UUID  `db:"user_id" json:"user_id"`
	Title         string     `db:"title" json:"title"`
	Message       string     `db:"message" json:"message"`
	Type          string     `db:"type" json:"type"`
	RelatedDealID *uuid.UUID `db:"related_deal_id" json:"related_deal_id,omitempty"`
	IsRead        bool       `db:"is_read" json:"is_read"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}
