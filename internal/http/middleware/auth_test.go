package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-task-manager/internal/blacklist"
	"github.com/pribylovaa/go-task-manager/internal/config"
	"github.com/pribylovaa/go-task-manager/internal/http/apierrors"
	"github.com/pribylovaa/go-task-manager/internal/models"
	"github.com/pribylovaa/go-task-manager/internal/service"
	"github.com/pribylovaa/go-task-manager/mocks"
)

const (
	testAccessSecret  = "mw-access-secret"
	testRefreshSecret = "mw-refresh-secret"
	testIssuer        = "task-manager"
)

func newAuthSvc(t *testing.T) (*service.Service, *mocks.MockStorage) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	st := mocks.NewMockStorage(ctrl)
	svc := service.New(st, blacklist.NewMemory(), config.AuthConfig{
		AccessSecret:    testAccessSecret,
		RefreshSecret:   testRefreshSecret,
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Issuer:          testIssuer,
	})

	return svc, st
}

// registerUser выпускает валидную пару токенов через обычный путь регистрации.
func registerUser(t *testing.T, svc *service.Service, st *mocks.MockStorage) (*models.User, *models.TokenPair) {
	t.Helper()

	st.EXPECT().SaveUser(gomock.Any(), gomock.Any()).Return(nil)

	user, pair, err := svc.RegisterUser(context.Background(), "mw@example.com", "secret1")
	require.NoError(t, err)

	return user, pair
}

// expiredToken подписывает токен c exp в прошлом тем же секретом и клеймами,
// что использует кодек сервиса.
func expiredToken(t *testing.T) string {
	t.Helper()

	now := time.Now().Add(-time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    uuid.New().String(),
		"email": "mw@example.com",
		"role":  models.RoleCollaborator.String(),
		"iss":   testIssuer,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Minute).Unix(),
	})

	signed, err := token.SignedString([]byte(testAccessSecret))
	require.NoError(t, err)

	return signed
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body.Error
}

func principalProbe(got **models.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := PrincipalFrom(r.Context()); ok {
			*got = p
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_NoToken(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthSvc(t)

	var principal *models.Principal
	h := Authenticate(svc)(principalProbe(&principal))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, apierrors.MsgNoToken, decodeError(t, rec))
	require.Nil(t, principal)
}

func TestAuthenticate_CookieToken(t *testing.T) {
	t.Parallel()

	svc, st := newAuthSvc(t)
	user, pair := registerUser(t, svc, st)

	var principal *models.Principal
	h := Authenticate(svc)(principalProbe(&principal))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: pair.AccessToken})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, principal)
	require.Equal(t, user.ID, principal.UserID)
	require.Equal(t, user.Email, principal.Email)
	require.Equal(t, models.RoleCollaborator, principal.Role)
}

func TestAuthenticate_BearerToken(t *testing.T) {
	t.Parallel()

	svc, st := newAuthSvc(t)
	_, pair := registerUser(t, svc, st)

	var principal *models.Principal
	h := Authenticate(svc)(principalProbe(&principal))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, principal)
}

func TestAuthenticate_BlacklistedToken(t *testing.T) {
	t.Parallel()

	svc, st := newAuthSvc(t)
	_, pair := registerUser(t, svc, st)

	require.NoError(t, svc.Logout(context.Background(), pair.AccessToken, pair.RefreshToken))

	h := Authenticate(svc)(principalProbe(new(*models.Principal)))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: pair.AccessToken})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, apierrors.MsgTokenBlacklisted, decodeError(t, rec))
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthSvc(t)

	h := Authenticate(svc)(principalProbe(new(*models.Principal)))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+expiredToken(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, apierrors.MsgTokenExpired, decodeError(t, rec))
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthSvc(t)

	h := Authenticate(svc)(principalProbe(new(*models.Principal)))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, apierrors.MsgInvalidToken, decodeError(t, rec))
}

func TestTokenFromRequest_CookieBeatsHeader(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "from-cookie"})
	req.Header.Set("Authorization", "Bearer from-header")

	require.Equal(t, "from-cookie", TokenFromRequest(req))
}

func TestTokenFromRequest_HeaderOnly(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer from-header")

	require.Equal(t, "from-header", TokenFromRequest(req))
}

func TestTokenFromRequest_Empty(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Empty(t, TokenFromRequest(req))

	req.Header.Set("Authorization", "Basic abc")
	require.Empty(t, TokenFromRequest(req))
}
