package middleware

import (
	"log/slog"
	"net/http"

	"github.com/pribylovaa/go-task-manager/internal/http/apierrors"
	logctx "github.com/pribylovaa/go-task-manager/internal/pkg/log"
)

// Recover перехватывает panic и конвертирует в 500 с унифицированным телом.
// Детали паники не утекают на клиент.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logctx.From(r.Context()).
						LogAttrs(r.Context(), slog.LevelError, "panic",
							slog.String("path", r.URL.Path),
							slog.Any("reason", rec),
						)
					apierrors.Write(w, http.StatusInternalServerError, apierrors.MsgInternal)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
