// blacklist — серверный чёрный список токенов.
//
// Хранит строки отозванных токенов до их естественного истечения:
// TTL записи всегда >= остаточного времени жизни токена, поэтому отозванный
// токен не может пережить свою запись. Просроченные записи можно удалять
// без потери корректности — просроченный токен и так отбрасывается проверкой
// подписи/срока.
package blacklist

import (
	"context"
	"time"
)

// Blacklist — минимальный контракт чёрного списка токенов.
//
// Проверка IsRevoked выполняется на каждом запросе через Auth-мидлвар,
// поэтому реализация обязана быть потокобезопасной.
type Blacklist interface {
	// Revoke помечает токен отозванным на срок ttl. Идемпотентна.
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	// IsRevoked возвращает true, если токен в чёрном списке.
	IsRevoked(ctx context.Context, token string) (bool, error)
	// Close закрывает соединение с хранилищем.
	Close() error
}
