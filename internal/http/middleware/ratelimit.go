package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/pribylovaa/go-task-manager/internal/http/apierrors"
)

// RateLimit — per-IP token bucket. Вешается точечно (сейчас — только на
// login), поэтому бакеты дешёвые и чистятся лениво по TTL.
// Сервис потребляет лимитер как непрозрачный шлюз: превышение — 429,
// остальная логика лимита его не касается.
func RateLimit(perSecond float64, burst int, message string) Middleware {
	type bucket struct {
		lim *rate.Limiter
		ts  time.Time
	}

	var (
		mu      sync.Mutex
		buckets = make(map[string]*bucket)
		ttl     = 30 * time.Minute
		swept   = time.Now()
	)

	return func(next http.Handler) http.Handler {
		if perSecond <= 0 || burst <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if ip == "" {
				ip = "unknown"
			}

			mu.Lock()
			if time.Since(swept) > ttl {
				now := time.Now()
				for k, b := range buckets {
					if now.Sub(b.ts) > ttl {
						delete(buckets, k)
					}
				}
				swept = now
			}

			b, ok := buckets[ip]
			if !ok {
				b = &bucket{lim: rate.NewLimiter(rate.Limit(perSecond), burst)}
				buckets[ip] = b
			}
			b.ts = time.Now()
			allowed := b.lim.Allow()
			mu.Unlock()

			if !allowed {
				apierrors.Write(w, http.StatusTooManyRequests, message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
