package models

import (
	"time"

	"github.com/google/uuid"
)

// User описывает пользователя платформы: заказчика, исполнителя или администратора.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Phone        string    `db:"phone" json:"phone"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
