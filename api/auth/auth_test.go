package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"foodorder_server/api/middleware"
	"foodorder_server/lib"
	"foodorder_server/structs"
	"foodorder_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "auth-secret"

type fakeAuth struct {
	user *tables.User
	err  error
}

func (fa *fakeAuth) Login(_ context.Context, req *structs.LoginRequest) (*tables.User, error) {
	if fa.err != nil {
		return nil, fa.err
	}
	return fa.user, nil
}

func (fa *fakeAuth) IssueAccessToken(user *tables.User) (string, time.Time, error) {
	now := time.Now()
	token, err := lib.SignAccessToken(&structs.AuthClaims{
		Sub: user.Id, Phone: user.Phone, Role: string(user.Role),
		Iat: now, Exp: now.Add(time.Hour), Jti: uuid.New(),
	}, testSecret)
	return token, now.Add(time.Hour), err
}

func newRouter(auth Authenticator) chi.Router {
	cfg := &structs.Config{
		Auth:      &structs.AuthConfig{AccessTokenSecret: testSecret, AccessTokenExpiry: time.Hour},
		RateLimit: &structs.RateLimitConfig{},
	}
	logger := gecho.NewDefaultLogger()
	r := chi.NewRouter()
	NewAuthRoutesManager(logger, auth, middleware.NewMiddleware(cfg, logger, nil)).RegisterRoutes(r)
	return r
}

func login(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestLogin_SetsCookieAndMe(t *testing.T) {
	owner := &tables.User{Id: 1, Name: "Ravi", Phone: "9000000001", Role: tables.RoleRestaurantOwner}
	r := newRouter(&fakeAuth{user: owner})

	rec := login(r, `{"phone":"9000000001","password":"password123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "access_token")
	assert.Contains(t, rec.Body.String(), "Ravi")

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == lib.AccessCookieName {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(session)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "restaurant_owner")
}

func TestLogin_Failures(t *testing.T) {
	rec := login(newRouter(&fakeAuth{}), `{"phone":"9000000001"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = login(newRouter(&fakeAuth{err: lib.ErrInvalidCredentials}), `{"phone":"9000000001","password":"wrong-one"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
}

func TestLogout_ClearsCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&fakeAuth{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Result().Cookies())
	assert.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)
}
