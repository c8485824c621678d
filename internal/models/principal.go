package models

import "github.com/google/uuid"

// Principal — проекция пользователя, извлечённая из валидного access-токена.
//
// Живёт ровно в рамках одного запроса: Auth-мидлвар кладёт её в контекст,
// хендлеры и Role-мидлвар читают. Не является доменной сущностью и не
// сохраняется в хранилище.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}
