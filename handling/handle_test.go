package handling

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"foodorder_server/lib"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "missing row", err: fmt.Errorf("load order: %w", lib.ErrNotFound), want: http.StatusNotFound},
		{name: "duplicate", err: lib.ErrConflict, want: http.StatusConflict},
		{name: "timeout", err: fmt.Errorf("send: %w", context.DeadlineExceeded), want: http.StatusServiceUnavailable},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPut, "/restaurant/orders/7/status", nil)

			HandleError(w, r, gecho.NewDefaultLogger(), tt.err, "failed to update order")

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRouteOfPrefersPattern(t *testing.T) {
	var route string
	router := chi.NewRouter()
	router.Put("/restaurant/orders/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		route = routeOf(r)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/restaurant/orders/7/status", nil))

	assert.Equal(t, "/restaurant/orders/{id}/status", route)
	assert.Equal(t, "/health/server", routeOf(httptest.NewRequest(http.MethodGet, "/health/server", nil)))
}
