package restaurant

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"foodorder_server/api/middleware"
	"foodorder_server/lib"
	"foodorder_server/services"
	"foodorder_server/structs"
	"foodorder_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "restaurant-secret"

type fakeOrders struct {
	ownerID  int64
	orderID  int64
	statuses []tables.OrderStatus
	status   tables.OrderStatus
	payment  tables.PaymentStatus
	err      error
}

func (fo *fakeOrders) ListRestaurantOrders(_ context.Context, ownerID int64, statuses []tables.OrderStatus) ([]services.OrderWithItems, error) {
	fo.ownerID, fo.statuses = ownerID, statuses
	if fo.err != nil {
		return nil, fo.err
	}
	return []services.OrderWithItems{{}}, nil
}

func (fo *fakeOrders) UpdateOrderStatus(_ context.Context, ownerID, orderID int64, status tables.OrderStatus) (*tables.OrderListing, error) {
	fo.ownerID, fo.orderID, fo.status = ownerID, orderID, status
	if fo.err != nil {
		return nil, fo.err
	}
	return &tables.OrderListing{}, nil
}

func (fo *fakeOrders) UpdatePaymentStatus(_ context.Context, ownerID, orderID int64, paymentStatus tables.PaymentStatus) (*tables.OrderListing, error) {
	fo.ownerID, fo.orderID, fo.payment = ownerID, orderID, paymentStatus
	if fo.err != nil {
		return nil, fo.err
	}
	return &tables.OrderListing{}, nil
}

func newRouter(orders Orders) chi.Router {
	cfg := &structs.Config{
		Auth:      &structs.AuthConfig{AccessTokenSecret: testSecret, AccessTokenExpiry: time.Hour},
		RateLimit: &structs.RateLimitConfig{},
	}
	logger := gecho.NewDefaultLogger()
	r := chi.NewRouter()
	NewRestaurantRoutesManager(logger, orders, middleware.NewMiddleware(cfg, logger, nil)).RegisterRoutes(r)
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string, role tables.Role) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	now := time.Now()
	tok, err := lib.SignAccessToken(&structs.AuthClaims{
		Sub: 1, Phone: "9000000001", Role: string(role),
		Iat: now, Exp: now.Add(time.Hour), Jti: uuid.New(),
	}, testSecret)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestListOrders(t *testing.T) {
	orders := &fakeOrders{}
	r := newRouter(orders)

	rec := do(t, r, http.MethodGet, "/restaurant/orders?status=pending,ready", "", tables.RoleRestaurantOwner)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), orders.ownerID)
	assert.Equal(t, []tables.OrderStatus{tables.OrderStatusPending, tables.OrderStatusReady}, orders.statuses)

	rec = do(t, r, http.MethodGet, "/restaurant/orders?status=lost", "", tables.RoleRestaurantOwner)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodGet, "/restaurant/orders", "", tables.RoleCustomer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListOrders_NoRestaurant(t *testing.T) {
	rec := do(t, newRouter(&fakeOrders{err: services.ErrNoRestaurant}), http.MethodGet, "/restaurant/orders", "", tables.RoleRestaurantOwner)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateStatus(t *testing.T) {
	orders := &fakeOrders{}
	rec := do(t, newRouter(orders), http.MethodPut, "/restaurant/orders/17/status", `{"status":"preparing"}`, tables.RoleRestaurantOwner)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Order status updated successfully")
	assert.Equal(t, int64(17), orders.orderID)
	assert.Equal(t, tables.OrderStatusPreparing, orders.status)
}

func TestUpdatePayment(t *testing.T) {
	orders := &fakeOrders{}
	rec := do(t, newRouter(orders), http.MethodPut, "/restaurant/orders/17/payment", `{"payment_status":"paid"}`, tables.RoleRestaurantOwner)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, tables.PaymentStatusPaid, orders.payment)

	rec = do(t, newRouter(orders), http.MethodPut, "/restaurant/orders/17/payment", `{"payment_status":"lost"}`, tables.RoleRestaurantOwner)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Payment status is required")
}

func TestUpdateStatus_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		body    string
		err     error
		code    int
		message string
	}{
		{"missing status", "/restaurant/orders/1/status", `{}`, nil, http.StatusBadRequest, "Status is required"},
		{"bad id", "/restaurant/orders/abc/status", `{"status":"ready"}`, nil, http.StatusBadRequest, "Invalid order id"},
		{"not found", "/restaurant/orders/1/status", `{"status":"ready"}`, services.ErrOrderNotFound, http.StatusNotFound, "Order not found"},
		{"other owner", "/restaurant/orders/1/status", `{"status":"ready"}`, services.ErrNotOrderOwner, http.StatusForbidden, "Access denied"},
		{
			"unpaid delivery", "/restaurant/orders/1/status", `{"status":"delivered"}`,
			&services.TransitionError{OrderID: 1, Reason: services.ReasonPaymentRequired},
			http.StatusBadRequest, "Payment must be confirmed first",
		},
		{
			"refused transition", "/restaurant/orders/1/payment", `{"payment_status":"paid"}`,
			&services.TransitionError{OrderID: 1, Reason: services.ReasonAlreadyPaid},
			http.StatusConflict, "already_paid",
		},
		{"store failure", "/restaurant/orders/1/status", `{"status":"ready"}`, fmt.Errorf("boom"), http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newRouter(&fakeOrders{err: tt.err}), http.MethodPut, tt.path, tt.body, tables.RoleRestaurantOwner)
			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
		})
	}
}
