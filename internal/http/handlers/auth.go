package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/pribylovaa/go-task-manager/internal/http/apierrors"
	"github.com/pribylovaa/go-task-manager/internal/http/middleware"
	"github.com/pribylovaa/go-task-manager/internal/models"
	"github.com/pribylovaa/go-task-manager/internal/service"
)

// refreshTokenCookie — имя cookie с refresh-токеном.
// Имя access-cookie принадлежит Auth-мидлвару (middleware.AccessTokenCookie).
const refreshTokenCookie = "refreshToken"

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	User *models.User `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register — POST /users/register.
// 201 + пользователь (без хэша пароля) + обе cookie.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var in credentialsRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.Write(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, pair, err := h.Svc.RegisterUser(r.Context(), in.Email, in.Password)
	if err != nil {
		apierrors.WriteError(w, err)
		return
	}

	h.setAuthCookies(w, pair)
	writeJSON(w, http.StatusCreated, userResponse{User: user})
}

// Login — POST /users/login.
// 200 + пользователь + обе cookie; единое 401 для неверной пары логин/пароль.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in credentialsRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.Write(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, pair, err := h.Svc.LoginUser(r.Context(), in.Email, in.Password)
	if err != nil {
		apierrors.WriteError(w, err)
		return
	}

	h.setAuthCookies(w, pair)
	writeJSON(w, http.StatusOK, userResponse{User: user})
}

// Logout — POST /users/logout.
// Отзывает оба предъявленных токена и чистит cookie. Идемпотентна:
// отсутствие токенов и повторный выход не являются ошибкой.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	accessToken := middleware.TokenFromRequest(r)

	var refreshToken string
	if c, err := r.Cookie(refreshTokenCookie); err == nil {
		refreshToken = c.Value
	}

	if err := h.Svc.Logout(r.Context(), accessToken, refreshToken); err != nil {
		apierrors.Write(w, http.StatusInternalServerError, apierrors.MsgInternal)
		return
	}

	h.clearAuthCookies(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

// Refresh — POST /users/refresh-token.
// Читает refresh-токен только из cookie. Таксономия отказов своя,
// отличная от Auth-мидлвара:
//   - нет cookie           -> 401 "No refresh token provided";
//   - токен в чёрном списке -> 403 "Token is blacklisted";
//   - битый/просроченный   -> 403 "Invalid or expired refresh token";
//   - пользователь удалён  -> 404 "User not found".
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(refreshTokenCookie)
	if err != nil || c.Value == "" {
		apierrors.Write(w, http.StatusUnauthorized, apierrors.MsgNoRefreshToken)
		return
	}

	pair, err := h.Svc.RefreshTokens(r.Context(), c.Value)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenRevoked):
			apierrors.Write(w, http.StatusForbidden, apierrors.MsgTokenBlacklisted)
		case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrTokenExpired):
			apierrors.Write(w, http.StatusForbidden, apierrors.MsgBadRefreshToken)
		case errors.Is(err, service.ErrUserNotFound):
			apierrors.Write(w, http.StatusNotFound, apierrors.MsgUserNotFound)
		default:
			apierrors.Write(w, http.StatusInternalServerError, apierrors.MsgInternal)
		}
		return
	}

	h.setAuthCookies(w, pair)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Token refreshed"})
}

// setAuthCookies выставляет http-only cookie с токенами; max-age каждой
// равен остатку жизни соответствующего токена.
func (h *Handlers) setAuthCookies(w http.ResponseWriter, pair *models.TokenPair) {
	now := time.Now()
	http.SetCookie(w, h.authCookie(middleware.AccessTokenCookie, pair.AccessToken, pair.AccessExpiresAt.Sub(now)))
	http.SetCookie(w, h.authCookie(refreshTokenCookie, pair.RefreshToken, pair.RefreshExpiresAt.Sub(now)))
}

// clearAuthCookies сбрасывает обе cookie с токенами.
func (h *Handlers) clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, h.authCookie(middleware.AccessTokenCookie, "", -time.Second))
	http.SetCookie(w, h.authCookie(refreshTokenCookie, "", -time.Second))
}

func (h *Handlers) authCookie(name, value string, maxAge time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.Cookies.Secure,
		SameSite: sameSiteFromConfig(h.Cookies.SameSite),
	}

	if maxAge < 0 {
		c.MaxAge = -1
	} else {
		c.MaxAge = int(maxAge / time.Second)
	}

	return c
}

func sameSiteFromConfig(s string) http.SameSite {
	switch s {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	case "lax":
		return http.SameSiteLaxMode
	default:
		return http.SameSiteDefaultMode
	}
}
