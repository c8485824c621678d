// apierrors стандартизирует ответы об ошибках HTTP-слоя.
// На вход он принимает ошибку сервисного слоя, на выход даёт:
//   - корректный HTTP-статус;
//   - фиксированное безопасное message без утечки деталей.
//
// Формат тела — {"error": "<message>"}; клиентская логика повторов
// различает сообщения дословно, поэтому их тексты стабильны и меняться
// не должны.
package apierrors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/go-task-manager/internal/service"
)

// ErrorResponse — корневой объект в ответе с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Фиксированные сообщения auth-таксономии. Auth-мидлвар и клиент
// различают именно эти строки.
const (
	MsgNoToken            = "Unauthorized: No token provided"
	MsgTokenBlacklisted   = "Token is blacklisted"
	MsgTokenExpired       = "Token expired"
	MsgInvalidToken       = "Invalid token"
	MsgForbiddenRole      = "Forbidden: Insufficient role"
	MsgInvalidCredentials = "Invalid credentials"
	MsgNoRefreshToken     = "No refresh token provided"
	MsgBadRefreshToken    = "Invalid or expired refresh token"
	MsgUserNotFound       = "User not found"
	MsgInternal           = "internal error"
)

// Write пишет ответ с ошибкой в едином формате.
func Write(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// WriteError — хелпер для хендлеров: маппит ошибку сервисного слоя
// на статус/сообщение по умолчанию.
func WriteError(w http.ResponseWriter, err error) {
	status, msg := FromService(err)
	Write(w, status, msg)
}

// FromService — базовый маппинг ошибок сервисного слоя.
// Контексты с собственной таксономией (refresh-flow) маппят сентинели сами.
func FromService(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidEmail):
		return http.StatusBadRequest, "Invalid email format"
	case errors.Is(err, service.ErrWeakPassword):
		return http.StatusBadRequest, "Password must be at least 6 characters"
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusBadRequest, "Email already taken"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, MsgInvalidCredentials
	case errors.Is(err, service.ErrTokenRevoked):
		return http.StatusUnauthorized, MsgTokenBlacklisted
	case errors.Is(err, service.ErrTokenExpired):
		return http.StatusUnauthorized, MsgTokenExpired
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, MsgInvalidToken
	case errors.Is(err, service.ErrInvalidRole):
		return http.StatusBadRequest, "Invalid role"
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, MsgUserNotFound
	case errors.Is(err, service.ErrTaskNotFound):
		return http.StatusNotFound, "Task not found"
	case errors.Is(err, service.ErrEmptyTitle):
		return http.StatusBadRequest, "Title is required"
	default:
		return http.StatusInternalServerError, MsgInternal
	}
}
