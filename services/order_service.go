package services

import (
	"context"
	"errors"
	"fmt"
	"foodorder_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

var ErrNoRestaurant = errors.New("no restaurant found for this account")

// OrderService backs the restaurant dashboard. Status changes go through the
// lifecycle engine so the dashboard and the owner commands share one set of rules.
type OrderService struct {
	logger      *gecho.Logger
	restaurants RestaurantStore
	orders      OrderStore
	lifecycle   *LifecycleService
	notifier    *NotificationService
}

func NewOrderService(
	logger *gecho.Logger,
	restaurants RestaurantStore,
	orders OrderStore,
	lifecycle *LifecycleService,
	notifier *NotificationService,
) *OrderService {
	return &OrderService{
		logger:      logger,
		restaurants: restaurants,
		orders:      orders,
		lifecycle:   lifecycle,
		notifier:    notifier,
	}
}

// OrderWithItems is a dashboard row.
type OrderWithItems struct {
	tables.OrderListing
	Items []tables.OrderItem `json:"items"`
}

// ListRestaurantOrders returns the orders of every restaurant the owner runs,
// filtered by status. An empty filter means pending, confirmed and ready.
func (os *OrderService) ListRestaurantOrders(ctx context.Context, ownerID int64, statuses []tables.OrderStatus) ([]OrderWithItems, error) {
	restaurants, err := os.restaurants.FindRestaurantsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load restaurants: %w", err)
	}
	if len(restaurants) == 0 {
		return nil, ErrNoRestaurant
	}
	if len(statuses) == 0 {
		statuses = activeStatuses
	}

	result := make([]OrderWithItems, 0)
	for _, restaurant := range restaurants {
		listings, err := os.orders.ListOrdersByRestaurant(ctx, restaurant.Id, statuses)
		if err != nil {
			return nil, fmt.Errorf("failed to list orders for restaurant %d: %w", restaurant.Id, err)
		}
		for _, listing := range listings {
			items, err := os.orders.ListOrderItems(ctx, listing.Id)
			if err != nil {
				return nil, fmt.Errorf("failed to load items of order %d: %w", listing.Id, err)
			}
			result = append(result, OrderWithItems{OrderListing: listing, Items: items})
		}
	}

	os.logger.Debug("Listed restaurant orders",
		gecho.Field("owner_id", ownerID),
		gecho.Field("count", len(result)),
	)
	return result, nil
}

// UpdateOrderStatus sets a status from the dashboard and tells the customer.
func (os *OrderService) UpdateOrderStatus(ctx context.Context, ownerID, orderID int64, status tables.OrderStatus) (*tables.OrderListing, error) {
	outcome, err := os.lifecycle.SetStatus(ctx, ownerID, orderID, status)
	if err != nil {
		return nil, err
	}
	os.notifier.TransitionApplied(ctx, outcome)
	return &outcome.Order, nil
}

// UpdatePaymentStatus sets a payment status from the dashboard and tells the customer.
func (os *OrderService) UpdatePaymentStatus(ctx context.Context, ownerID, orderID int64, paymentStatus tables.PaymentStatus) (*tables.OrderListing, error) {
	outcome, err := os.lifecycle.SetPaymentStatus(ctx, ownerID, orderID, paymentStatus)
	if err != nil {
		return nil, err
	}
	os.notifier.TransitionApplied(ctx, outcome)
	return &outcome.Order, nil
}
