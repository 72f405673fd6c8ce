package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodorder_server/api/health"
	"foodorder_server/lib"
	"foodorder_server/structs"
	"foodorder_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-secret"

type countingLimiter struct {
	counts map[string]int
	err    error
}

func (cl *countingLimiter) IncrementRateLimit(_ context.Context, ip, endpoint string, _ time.Duration) (int, error) {
	if cl.err != nil {
		return 0, cl.err
	}
	cl.counts[ip+":"+endpoint]++
	return cl.counts[ip+":"+endpoint], nil
}

func testMiddleware(limiter RateLimiter) *Middleware {
	cfg := &structs.Config{
		Auth: &structs.AuthConfig{AccessTokenSecret: testSecret, AccessTokenExpiry: time.Hour},
		RateLimit: &structs.RateLimitConfig{
			Enabled:       true,
			GeneralLimit:  5,
			GeneralWindow: time.Minute,
			WebhookLimit:  2,
			WebhookWindow: time.Minute,
			AuthLimit:     1,
			AuthWindow:    time.Minute,
		},
	}
	return NewMiddleware(cfg, gecho.NewDefaultLogger(), limiter)
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func token(t *testing.T, role tables.Role) string {
	t.Helper()
	now := time.Now()
	tok, err := lib.SignAccessToken(&structs.AuthClaims{
		Sub:   7,
		Phone: "9000000001",
		Role:  string(role),
		Iat:   now,
		Exp:   now.Add(time.Hour),
		Jti:   uuid.New(),
	}, testSecret)
	require.NoError(t, err)
	return tok
}

func TestRateLimit_WebhookWindowIsStricter(t *testing.T) {
	limiter := &countingLimiter{counts: map[string]int{}}
	handler := testMiddleware(limiter).RateLimitMiddleware()(okHandler)

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/whatsapp/webhook", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
		if rec.Code == http.StatusTooManyRequests {
			assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
			assert.Equal(t, "60", rec.Header().Get("Retry-After"))
		}
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 3, limiter.counts["10.0.0.1:/whatsapp/webhook"])
}

func TestRateLimit_FailsOpen(t *testing.T) {
	handler := testMiddleware(&countingLimiter{err: errors.New("redis down")}).RateLimitMiddleware()(okHandler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_SkipsHealth(t *testing.T) {
	limiter := &countingLimiter{counts: map[string]int{}}
	handler := testMiddleware(limiter).RateLimitMiddleware()(okHandler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/server", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, limiter.counts)
}

func TestNormalizeEndpoint(t *testing.T) {
	assert.Equal(t, "/restaurant/orders/:id/status", normalizeEndpoint("/restaurant/orders/12/status"))
	assert.Equal(t, "/restaurant/orders", normalizeEndpoint("/restaurant/orders/"))
	assert.Equal(t, "/whatsapp/webhook", normalizeEndpoint("/whatsapp/webhook"))
}

func TestUserAuthMiddleware(t *testing.T) {
	mw := testMiddleware(nil)
	var got *structs.AuthClaims
	handler := mw.UserAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetClaimsFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/restaurant/orders", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/restaurant/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, tables.RoleRestaurantOwner))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.Sub)
}

func TestRequireRoles(t *testing.T) {
	mw := testMiddleware(nil)
	handler := mw.UserAuthMiddleware(mw.RequireRoles(tables.RoleRestaurantOwner, tables.RoleSuperAdmin)(okHandler))

	tests := []struct {
		role tables.Role
		code int
	}{
		{tables.RoleRestaurantOwner, http.StatusOK},
		{tables.RoleSuperAdmin, http.StatusOK},
		{tables.RoleCustomer, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/whatsapp/send-message", nil)
			req.AddCookie(&http.Cookie{Name: lib.AccessCookieName, Value: token(t, tt.role)})
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	testMiddleware(nil).SecurityHeaders()(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestLoggerMiddleware_SkipsMonitoring(t *testing.T) {
	var buf bytes.Buffer
	logger := gecho.NewLogger(gecho.NewConfig(gecho.WithOutput(&buf), gecho.WithErrorOutput(&buf)))
	mw := NewMiddleware(&structs.Config{}, logger, nil)
	handler := mw.SetupLoggerMiddleware()(okHandler)

	for _, path := range []string{"/", "/metrics", "/health/database"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Empty(t, buf.String())

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/whatsapp/webhook", nil))
	assert.Contains(t, buf.String(), "/whatsapp/webhook")
}

func TestMetricsMiddleware_LabelsByRoutePattern(t *testing.T) {
	router := chi.NewRouter()
	router.Use(MetricsMiddleware)
	router.Put("/restaurant/orders/{id}/status", func(w http.ResponseWriter, _ *http.Request) {
		assert.Equal(t, float64(1), testutil.ToFloat64(health.HttpInFlight))
		w.WriteHeader(http.StatusOK)
	})
	labels := prometheus.Labels{"method": http.MethodPut, "route": "/restaurant/orders/{id}/status", "status": "200"}
	before := testutil.ToFloat64(health.HttpRequests.With(labels))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/restaurant/orders/42/status", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(health.HttpRequests.With(labels)))
	assert.Zero(t, testutil.ToFloat64(health.HttpInFlight))
}
