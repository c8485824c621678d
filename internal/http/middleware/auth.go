package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pribylovaa/go-task-manager/internal/http/apierrors"
	"github.com/pribylovaa/go-task-manager/internal/models"
	"github.com/pribylovaa/go-task-manager/internal/service"
)

// AccessTokenCookie — имя cookie с access-токеном.
const AccessTokenCookie = "accessToken"

type principalKey struct{}

// PrincipalFrom достаёт из контекста пользователя, положенного Auth-мидлваром.
func PrincipalFrom(ctx context.Context) (*models.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*models.Principal)
	return p, ok
}

// withPrincipal кладёт пользователя в контекст. Единственный писатель —
// мидлвар Authenticate.
func withPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// TokenFromRequest извлекает bearer-токен из запроса:
// сначала cookie accessToken, затем заголовок Authorization: Bearer.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if strings.HasPrefix(auth, prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}

	return ""
}

// Authenticate — Auth-мидлвар: извлекает токен, проверяет чёрный список,
// подпись и срок, кладёт Principal в контекст запроса.
//
// Таксономия отказов (все — 401):
//   - токена нет            -> "Unauthorized: No token provided";
//   - токен в чёрном списке -> "Token is blacklisted";
//   - срок истёк            -> "Token expired";
//   - прочее                -> "Invalid token".
//
// Запрос не проходит дальше, пока не завершатся и проверка чёрного списка,
// и проверка подписи.
func Authenticate(svc *service.Service) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				apierrors.Write(w, http.StatusUnauthorized, apierrors.MsgNoToken)
				return
			}

			principal, err := svc.Authenticate(r.Context(), token)
			if err != nil {
				apierrors.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), principal)))
		})
	}
}
