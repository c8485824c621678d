package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-task-manager/internal/config"
	"github.com/pribylovaa/go-task-manager/internal/http/handlers"
	"github.com/pribylovaa/go-task-manager/internal/http/middleware"
	"github.com/pribylovaa/go-task-manager/internal/models"
	"github.com/pribylovaa/go-task-manager/internal/service"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger    *slog.Logger
	Timeout   time.Duration
	Cookies   config.CookieConfig
	RateLimit config.RateLimitConfig
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	h := handlers.New(svc, opts.Cookies)
	registerRoutes(root, h, svc, opts)

	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
// Allow-list ролей фиксируется здесь, при регистрации маршрута.
func registerRoutes(r chi.Router, h *handlers.Handlers, svc *service.Service, opts Options) {
	authGate := middleware.Authenticate(svc)
	ownerOnly := middleware.RequireRoles(models.RoleOwner)
	anyRole := middleware.RequireRoles(models.RoleOwner, models.RoleCollaborator)
	loginLimiter := middleware.RateLimit(
		opts.RateLimit.LoginRPS,
		opts.RateLimit.LoginBurst,
		"Too many login attempts. Please try again after 10 minutes.",
	)

	r.Route("/users", func(r chi.Router) {
		// Сессионные операции: токены не требуются (logout толерантен).
		r.Post("/register", h.Register)
		r.With(loginLimiter).Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Post("/refresh-token", h.Refresh)

		// Роль-гейтед операции.
		r.Group(func(r chi.Router) {
			r.Use(authGate, ownerOnly)
			r.Get("/owner-dashboard", h.OwnerDashboard)
			r.Get("/roles", h.RolesOverview)
			r.Put("/{id}/role", h.AssignRole)
		})

		r.With(authGate, anyRole).Get("/shared-dashboard", h.SharedDashboard)
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Use(authGate)
		r.Post("/create", h.CreateTask)
		r.Get("/get-my-tasks", h.ListTasks)
		r.Put("/update/{id}", h.UpdateTask)
		r.Put("/reorder", h.ReorderTasks)
		r.Delete("/delete/{id}", h.DeleteTask)
		r.Post("/share/{taskId}", h.ShareTask)
	})
}
