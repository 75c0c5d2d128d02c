package models

import (
	"time"

	"github.com/google/uuid"
)

// DealRequest описывает запрос на работу между заказчиком и исполнителем.
// Status отражает итог переговоров, WorkStatus — прогресс выполнения уже
// принятой сделки. WorkStatus заполнен тогда и только тогда, когда
// Status = accepted.
type DealRequest struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	CustomerID    uuid.UUID  `db:"customer_id" json:"customer_id"`
	CustomerName  string     `db:"customer_name" json:"customer_name"`
	WorkerID      uuid.UUID  `db:"worker_id" json:"worker_id"`
	WorkerName    string     `db:"worker_name" json:"worker_name"`
	Description   string     `db:"description" json:"description"`
	Location      string     `db:"location" json:"location"`
	PreferredTime *string    `db:"preferred_time" json:"preferred_time,omitempty"`
	Budget        *string    `db:"budget" json:"budget,omitempty"`
	Status        string     `db:"status" json:"status"`
	WorkStatus    *string    `db:"work_status" json:"work_status,omitempty"`
	AcceptedAt    *time.Time `db:"accepted_at" json:"accepted_at,omitempty"`
	StartedAt     *time.Time `db:"started_at" json:"started_at,omitempty"`
	CompletedAt   *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	Review        *Review    `json:"review,omitempty"`
}

// IsTerminal сообщает, находится ли сделка в терминальном статусе.
func (d *DealRequest) IsTerminal() bool {
	return d.Status == DealStatusWaitlisted || d.Status == DealStatusRejected
}

// IsActive сообщает, считается ли сделка активной для пары заказчик/исполнитель.
// Активна сделка в статусе new либо accepted, работа по которой ещё не завершена.
func (d *DealRequest) IsActive() bool {
	switch d.Status {
	case DealStatusNew:
		return true
	case DealStatusAccepted:
		return d.WorkStatus == nil || *d.WorkStatus != WorkStatusCompleted
	default:
		return false
	}
}

// Review описывает отзыв заказчика о завершённой сделке.
// На сделку допускается не более одного отзыва.
type Review struct {
	ID        uuid.UUID `db:"id" json:"id"`
	DealID    uuid.UUID `db:"deal_id" json:"deal_id"`
	Rating    int       `db:"rating" json:"rating"`
	Comment   *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// WorkerRating агрегированный рейтинг исполнителя.
type WorkerRating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
