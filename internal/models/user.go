package models

import (
	"time"

	"github.com/google/uuid"
)

// User — модель пользователя в системе.
//
// PasswordHash никогда не сериализуется в HTTP-ответы (json:"-");
// хранилище отдаёт его только сервисному слою для проверки пароля.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
