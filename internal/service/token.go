package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pribylovaa/go-task-manager/internal/models"
	"github.com/pribylovaa/go-task-manager/internal/pkg/log"
)

// tokenKind — вид токена. Определяет секрет подписи и TTL;
// других различий между access и refresh в кодеке нет.
type tokenKind int

const (
	kindAccess tokenKind = iota
	kindRefresh
)

func (k tokenKind) String() string {
	if k == kindRefresh {
		return "refresh"
	}

	return "access"
}

// secret возвращает секрет подписи для вида токена.
func (s *Service) secret(kind tokenKind) []byte {
	if kind == kindRefresh {
		return []byte(s.cfg.RefreshSecret)
	}

	return []byte(s.cfg.AccessSecret)
}

// tokenTTL возвращает политику времени жизни для вида токена.
func (s *Service) tokenTTL(kind tokenKind) time.Duration {
	if kind == kindRefresh {
		return s.cfg.RefreshTokenTTL
	}

	return s.cfg.AccessTokenTTL
}

type tokenClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// generateToken подписывает токен заданного вида с клеймами пользователя.
func (s *Service) generateToken(ctx context.Context, user *models.User, kind tokenKind, now time.Time) (string, time.Time, error) {
	const op = "service.token.generateToken"

	lg := log.From(ctx)

	expiresAt := now.Add(s.tokenTTL(kind))
	claims := tokenClaims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   user.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
			Subject:   user.ID.String(),
			// jti делает каждый выпуск уникальным: клеймы имеют секундное
			// разрешение, и без него две подряд выпущенные пары совпали бы
			// байт в байт, а отзыв одной отозвал бы обе.
			ID: uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret(kind))
	if err != nil {
		lg.Error("token_sign_failed",
			slog.String("op", op),
			slog.String("kind", kind.String()),
			slog.String("err", err.Error()),
		)
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	return signed, expiresAt, nil
}

// validateToken проверяет подпись/срок токена заданного вида и возвращает
// извлечённые данные пользователя. Истёкший срок и некорректная подпись
// различаются (ErrTokenExpired против ErrInvalidToken), поскольку транспорт
// сообщает о них по-разному.
func (s *Service) validateToken(tokenStr string, kind tokenKind) (*models.Principal, error) {
	const op = "service.token.validateToken"

	token, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return s.secret(kind), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(s.cfg.Issuer),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	role, ok := models.ParseRole(claims.Role)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return &models.Principal{
		UserID: uid,
		Email:  claims.Email,
		Role:   role,
	}, nil
}

// issueTokenPair выпускает новую пару access+refresh токенов.
func (s *Service) issueTokenPair(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	const op = "service.token.issueTokenPair"

	now := time.Now().UTC()

	accessToken, accessExp, err := s.generateToken(ctx, user, kindAccess, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refreshToken, refreshExp, err := s.generateToken(ctx, user, kindRefresh, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// remainingTTL вычисляет остаточное время жизни токена по его exp-клейму.
// Срок валидации клеймов здесь не проверяется: отзыв уже истекающего токена
// безвреден, а запись в чёрном списке обязана жить не меньше самого токена.
// Если exp извлечь не удалось (битый токен, чужая подпись) — возвращается
// полное окно политики вида: консервативно, но корректно.
func (s *Service) remainingTTL(tokenStr string, kind tokenKind, now time.Time) time.Duration {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	claims := &tokenClaims{}
	_, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret(kind), nil
	})
	if err != nil || claims.ExpiresAt == nil {
		return s.tokenTTL(kind)
	}

	return claims.ExpiresAt.Time.Sub(now)
}
