package middleware

import (
	"net/http"

	"github.com/pribylovaa/go-task-manager/internal/http/apierrors"
	"github.com/pribylovaa/go-task-manager/internal/models"
)

// RequireRoles — Role-мидлвар: пропускает запрос дальше, только если роль
// пользователя из контекста входит в allow-list. Список фиксируется при
// регистрации маршрута, не на запросе; состояния за пределами замыкания нет.
//
// Отсутствие Principal в контексте (маршрут без Auth-мидлвара) и роль вне
// списка неразличимы: оба дают 403.
func RequireRoles(allowed ...models.Role) Middleware {
	allowSet := make(map[models.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFrom(r.Context())
			if !ok {
				apierrors.Write(w, http.StatusForbidden, apierrors.MsgForbiddenRole)
				return
			}

			if _, ok := allowSet[principal.Role]; !ok {
				apierrors.Write(w, http.StatusForbidden, apierrors.MsgForbiddenRole)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
