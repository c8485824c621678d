package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pribylovaa/go-task-manager/internal/models"
	"github.com/pribylovaa/go-task-manager/internal/pkg/log"
	"github.com/pribylovaa/go-task-manager/internal/storage"
)

// minPasswordLen — минимальная длина пароля при регистрации.
const minPasswordLen = 6

// RegisterUser регистрирует нового пользователя с ролью collaborator
// и выпускает первую пару токенов.
func (s *Service) RegisterUser(ctx context.Context, email, password string) (*models.User, *models.TokenPair, error) {
	const op = "service.auth.RegisterUser"

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if err := validatePassword(password); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Email:        normEmail,
		PasswordHash: hashedPassword,
		Role:         models.RoleCollaborator,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}

		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, pair, nil
}

// LoginUser выполняет вход по email+пароль.
// «Нет такого пользователя» и «неверный пароль» неразличимы снаружи.
func (s *Service) LoginUser(ctx context.Context, email, password string) (*models.User, *models.TokenPair, error) {
	const op = "service.auth.LoginUser"

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if len(password) == 0 {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := s.storage.UserByEmail(ctx, normEmail)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		// Недоступность хранилища учётных данных — fail closed.
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if !checkPassword(user.PasswordHash, password) {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, pair, nil
}

// Authenticate проверяет access-токен и возвращает данные пользователя.
// Чёрный список проверяется по сырой строке токена до проверки подписи,
// поэтому отозванный токен отвергается как отозванный даже после истечения.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*models.Principal, error) {
	const op = "service.auth.Authenticate"

	if s.isRevoked(ctx, accessToken) {
		return nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
	}

	principal, err := s.validateToken(accessToken, kindAccess)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return principal, nil
}

// RefreshTokens обменивает валидный refresh-токен на новую пару.
// Старый refresh-токен отзывается на остаток своей жизни; старый
// access-токен не отзывается и истекает естественно — это ограничивает
// ущерб от украденного refresh-токена одной ротацией, не требуя
// учёта всех выданных access-токенов.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	const op = "service.auth.RefreshTokens"

	lg := log.From(ctx)

	if s.isRevoked(ctx, refreshToken) {
		return nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
	}

	principal, err := s.validateToken(refreshToken, kindRefresh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.storage.UserByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Пара выпускается от текущего состояния пользователя:
	// смена роли подхватывается при первой же ротации.
	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ttl := s.remainingTTL(refreshToken, kindRefresh, time.Now().UTC())
	if err := s.bl.Revoke(ctx, refreshToken, ttl); err != nil {
		// Ротация уже состоялась; потерю записи фиксируем, но пару отдаём.
		lg.Warn("refresh_revoke_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
	}

	return pair, nil
}

// Logout отзывает оба предъявленных токена. Идемпотентна: повторный выход
// и выход с уже отозванными/просроченными токенами не являются ошибкой.
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	const op = "service.auth.Logout"

	now := time.Now().UTC()

	if accessToken != "" {
		ttl := s.remainingTTL(accessToken, kindAccess, now)
		if err := s.bl.Revoke(ctx, accessToken, ttl); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if refreshToken != "" {
		ttl := s.remainingTTL(refreshToken, kindRefresh, now)
		if err := s.bl.Revoke(ctx, refreshToken, ttl); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

// isRevoked — проверка чёрного списка с деградацией fail-open:
// при недоступности хранилища токен считается не отозванным, факт
// деградации пишется в лог. Учётные данные, в отличие от отзыва,
// всегда fail closed.
func (s *Service) isRevoked(ctx context.Context, token string) bool {
	const op = "service.auth.isRevoked"

	revoked, err := s.bl.IsRevoked(ctx, token)
	if err != nil {
		log.From(ctx).Warn("blacklist_check_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return false
	}

	return revoked
}

// hashPassword хэширует пароль с помощью bcrypt.
func hashPassword(password string) (string, error) {
	const op = "service.auth.hashPassword"

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkPassword сравнивает пароль с хэшем. Сырые строки не сравниваются
// никогда — только через примитив bcrypt.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// validateEmail проверяет базовый формат email и нормализует регистр.
func validateEmail(raw string) (string, error) {
	const op = "service.auth.validateEmail"

	email := strings.TrimSpace(raw)
	if email == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	return strings.ToLower(email), nil
}

// validatePassword проверяет минимальные требования к паролю.
func validatePassword(pw string) error {
	const op = "service.auth.validatePassword"

	if len([]rune(pw)) < minPasswordLen {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	return nil
}
