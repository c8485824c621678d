package blacklist

import (
	"context"
	"sync"
	"time"
)

type memoryBlacklist struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

// NewMemory создаёт чёрный список в памяти процесса.
// Используется в тестах и в деградированном режиме без Redis;
// не переживает рестарт и не разделяется между инстансами.
func NewMemory() Blacklist {
	return &memoryBlacklist{entries: make(map[string]time.Time)}
}

func (b *memoryBlacklist) Revoke(_ context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[token] = time.Now().Add(ttl)

	return nil
}

func (b *memoryBlacklist) IsRevoked(_ context.Context, token string) (bool, error) {
	b.mu.RLock()
	deadline, ok := b.entries[token]
	b.mu.RUnlock()

	if !ok {
		return false, nil
	}

	if time.Now().After(deadline) {
		// Ленивая очистка просроченной записи.
		b.mu.Lock()
		if d, still := b.entries[token]; still && time.Now().After(d) {
			delete(b.entries, token)
		}
		b.mu.Unlock()

		return false, nil
	}

	return true, nil
}

func (b *memoryBlacklist) Close() error { return nil }
