package blacklist

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Интеграционные тесты Redis-бэкенда чёрного списка: поднимают реальный
// Redis через testcontainers-go (redis:7-alpine) и проверяют отзыв,
// истечение TTL и поведение при неположительном TTL.
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/blacklist -v -race -count=1

// startRedis — временный Redis; без GO_TEST_INTEGRATION тест пропускается.
func startRedis(t *testing.T) (Blacklist, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "6379/tcp")

	bl, err := NewRedis(fmt.Sprintf("redis://%s:%s/0", host, port.Port()), "")
	require.NoError(t, err)

	cleanup := func() {
		_ = bl.Close()
		_ = c.Terminate(context.Background())
	}
	return bl, cleanup
}

// TestIntegration_Redis_RevokeAndCheck — happy-path: отозванный токен виден,
// посторонний — нет, повторный отзыв идемпотентен.
func TestIntegration_Redis_RevokeAndCheck(t *testing.T) {
	bl, cleanup := startRedis(t)
	defer cleanup()

	ctx := context.Background()

	revoked, err := bl.IsRevoked(ctx, "unknown")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, bl.Revoke(ctx, "token-a", time.Minute))
	require.NoError(t, bl.Revoke(ctx, "token-a", time.Minute))

	revoked, err = bl.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	require.True(t, revoked)

	revoked, err = bl.IsRevoked(ctx, "token-b")
	require.NoError(t, err)
	require.False(t, revoked)
}

// TestIntegration_Redis_EntryExpires — запись исчезает вместе с TTL.
func TestIntegration_Redis_EntryExpires(t *testing.T) {
	bl, cleanup := startRedis(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, bl.Revoke(ctx, "short", time.Second))

	revoked, err := bl.IsRevoked(ctx, "short")
	require.NoError(t, err)
	require.True(t, revoked)

	time.Sleep(1500 * time.Millisecond)

	revoked, err = bl.IsRevoked(ctx, "short")
	require.NoError(t, err)
	require.False(t, revoked)
}

// TestIntegration_Redis_NonPositiveTTLIsNoop — истёкший токен не пишется.
func TestIntegration_Redis_NonPositiveTTLIsNoop(t *testing.T) {
	bl, cleanup := startRedis(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, bl.Revoke(ctx, "expired", 0))
	require.NoError(t, bl.Revoke(ctx, "expired", -time.Minute))

	revoked, err := bl.IsRevoked(ctx, "expired")
	require.NoError(t, err)
	require.False(t, revoked)
}

// TestIntegration_Redis_BadURL — некорректный URL отклоняется на старте.
func TestIntegration_Redis_BadURL(t *testing.T) {
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	_, err := NewRedis("not-a-url", "")
	require.Error(t, err)
}
