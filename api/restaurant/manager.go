package restaurant

import (
	"context"

	"foodorder_server/api/middleware"
	"foodorder_server/services"
	"foodorder_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// Orders is the dashboard side of the order service.
type Orders interface {
	ListRestaurantOrders(ctx context.Context, ownerID int64, statuses []tables.OrderStatus) ([]services.OrderWithItems, error)
	UpdateOrderStatus(ctx context.Context, ownerID, orderID int64, status tables.OrderStatus) (*tables.OrderListing, error)
	UpdatePaymentStatus(ctx context.Context, ownerID, orderID int64, paymentStatus tables.PaymentStatus) (*tables.OrderListing, error)
}

type RestaurantRoutesManager struct {
	logger *gecho.Logger
	orders Orders
	mw     *middleware.Middleware
}

func NewRestaurantRoutesManager(logger *gecho.Logger, orders Orders, mw *middleware.Middleware) *RestaurantRoutesManager {
	return &RestaurantRoutesManager{
		logger: logger,
		orders: orders,
		mw:     mw,
	}
}

func (rrm *RestaurantRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/restaurant", func(r chi.Router) {
		r.Use(rrm.mw.UserAuthMiddleware)
		r.Use(rrm.mw.RequireRoles(tables.RoleRestaurantOwner))

		r.Get("/orders", rrm.HandleListOrders)
		r.Put("/orders/{id}/status", rrm.HandleUpdateStatus)
		r.Put("/orders/{id}/payment", rrm.HandleUpdatePayment)
	})
}
