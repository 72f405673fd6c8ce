package restaurant

import (
	"errors"
	"net/http"

	"foodorder_server/api/middleware"
	"foodorder_server/handling"
	"foodorder_server/lib"
	"foodorder_server/services"
	"foodorder_server/structs"
	"foodorder_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

func (rrm *RestaurantRoutesManager) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.WithMessage("Unauthorized"), gecho.Send())
		return
	}

	statuses, err := handling.ParseStatusFilter(r)
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage(err.Error()), gecho.Send())
		return
	}

	orders, err := rrm.orders.ListRestaurantOrders(r.Context(), claims.Sub, statuses)
	if err != nil {
		if errors.Is(err, services.ErrNoRestaurant) {
			gecho.NotFound(w, gecho.WithMessage("No restaurant found for this owner"), gecho.Send())
			return
		}
		handling.HandleError(w, r, rrm.logger, err, "failed to list restaurant orders")
		return
	}

	gecho.Success(w,
		gecho.WithData(orders),
		gecho.Send(),
	)
}

func (rrm *RestaurantRoutesManager) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims, orderID, ok := rrm.target(w, r)
	if !ok {
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateOrderStatusRequest](r)
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Status is required"), gecho.Send())
		return
	}

	order, err := rrm.orders.UpdateOrderStatus(r.Context(), claims.Sub, orderID, tables.OrderStatus(body.Status))
	if err != nil {
		rrm.writeLifecycleError(w, r, err)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Order status updated successfully"),
		gecho.WithData(order),
		gecho.Send(),
	)
}

func (rrm *RestaurantRoutesManager) HandleUpdatePayment(w http.ResponseWriter, r *http.Request) {
	claims, orderID, ok := rrm.target(w, r)
	if !ok {
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdatePaymentStatusRequest](r)
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Payment status is required"), gecho.Send())
		return
	}

	order, err := rrm.orders.UpdatePaymentStatus(r.Context(), claims.Sub, orderID, tables.PaymentStatus(body.PaymentStatus))
	if err != nil {
		rrm.writeLifecycleError(w, r, err)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Payment status updated successfully"),
		gecho.WithData(order),
		gecho.Send(),
	)
}

// target resolves the caller and the order id from the path.
func (rrm *RestaurantRoutesManager) target(w http.ResponseWriter, r *http.Request) (*structs.AuthClaims, int64, bool) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.WithMessage("Unauthorized"), gecho.Send())
		return nil, 0, false
	}

	orderID, err := handling.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid order id"), gecho.Send())
		return nil, 0, false
	}
	return claims, orderID, true
}

func (rrm *RestaurantRoutesManager) writeLifecycleError(w http.ResponseWriter, r *http.Request, err error) {
	var transitionErr *services.TransitionError
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		gecho.NotFound(w, gecho.WithMessage("Order not found"), gecho.Send())
	case errors.Is(err, services.ErrNotOrderOwner):
		gecho.Forbidden(w, gecho.WithMessage("Access denied"), gecho.Send())
	case errors.As(err, &transitionErr) && transitionErr.Reason == services.ReasonPaymentRequired:
		gecho.BadRequest(w,
			gecho.WithMessage("Cannot mark order as delivered. Payment must be confirmed first."),
			gecho.Send(),
		)
	case errors.As(err, &transitionErr):
		gecho.Conflict(w, gecho.WithMessage(transitionErr.Error()), gecho.Send())
	default:
		handling.HandleError(w, r, rrm.logger, err, "failed to update order")
	}
}
