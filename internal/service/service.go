// service содержит бизнес-логику task-manager'а:
// регистрацию/аутентификацию пользователей, выпуск/проверку/отзыв токенов,
// управление ролями и операции над задачами. Работа с хранилищем идёт
// через интерфейсы пакета storage, с чёрным списком — через blacklist.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданные хранилище и чёрный список потокобезопасны.
//   - Ошибки возвращаются и далее маппятся HTTP-слоем на статусы и
//     фиксированные сообщения (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"

	"github.com/pribylovaa/go-task-manager/internal/blacklist"
	"github.com/pribylovaa/go-task-manager/internal/config"
	"github.com/pribylovaa/go-task-manager/internal/storage"
)

var (
	// ErrInvalidCredentials — пара логин/пароль неверна или пользователь не найден.
	// Сообщение едино для обоих случаев, чтобы не допускать перечисления
	// пользователей. HTTP 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken — токен (access/refresh) некорректен по формату/подписи
	// или подписан не тем секретом. HTTP 401 (access) / 403 (refresh).
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена истёк. HTTP 401 (access) / 403 (refresh).
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenRevoked — токен в чёрном списке (logout/rotation) и недействителен
	// независимо от подписи и срока. HTTP 401 (access) / 403 (refresh).
	ErrTokenRevoked = errors.New("token revoked")

	// ErrEmailTaken — e-mail уже занят другим пользователем. HTTP 400.
	ErrEmailTaken = errors.New("email already taken")

	// ErrInvalidEmail — e-mail имеет некорректный формат. HTTP 400.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrWeakPassword — пароль короче минимальной длины. HTTP 400.
	ErrWeakPassword = errors.New("password is too weak")

	// ErrInvalidRole — строка роли вне перечисления owner/collaborator. HTTP 400.
	ErrInvalidRole = errors.New("invalid role")

	// ErrUserNotFound — пользователь не найден (в т.ч. удалён между выпуском
	// refresh-токена и его предъявлением). HTTP 404.
	ErrUserNotFound = errors.New("user not found")

	// ErrTaskNotFound — задача не найдена или принадлежит другому пользователю.
	// HTTP 404.
	ErrTaskNotFound = errors.New("task not found")

	// ErrEmptyTitle — заголовок задачи пуст. HTTP 400.
	ErrEmptyTitle = errors.New("task title is empty")
)

// Service описывает бизнес-логику task-manager'а.
type Service struct {
	storage storage.Storage
	bl      blacklist.Blacklist
	cfg     config.AuthConfig
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, bl blacklist.Blacklist, cfg config.AuthConfig) *Service {
	return &Service{
		storage: storage,
		bl:      bl,
		cfg:     cfg,
	}
}
