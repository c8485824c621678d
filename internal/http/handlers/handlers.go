package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pribylovaa/go-task-manager/internal/config"
	"github.com/pribylovaa/go-task-manager/internal/service"
)

// Handlers агрегирует зависимости HTTP-слоя.
type Handlers struct {
	Svc     *service.Service
	Cookies config.CookieConfig
}

func New(svc *service.Service, cookies config.CookieConfig) *Handlers {
	return &Handlers{Svc: svc, Cookies: cookies}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}
