package services

import (
	"context"
	"foodorder_server/structs/tables"
)

// Lookups return (nil, nil) when the record does not exist.

type UserStore interface {
	FindUserByPhone(ctx context.Context, phone string) (*tables.User, error)
	FindUserByID(ctx context.Context, id int64) (*tables.User, error)
	CreateUser(ctx context.Context, user *tables.User) (*tables.User, error)
}

type RestaurantStore interface {
	// ListRestaurants returns every restaurant, newest first.
	ListRestaurants(ctx context.Context) ([]tables.Restaurant, error)
	FindRestaurantsByOwner(ctx context.Context, ownerID int64) ([]tables.Restaurant, error)
	// ListMenuItems returns available items ordered by category, then name.
	ListMenuItems(ctx context.Context, restaurantID int64) ([]tables.MenuItem, error)
}

// OrderUpdate carries the columns to change; nil fields are left alone.
type OrderUpdate struct {
	Status        *tables.OrderStatus
	PaymentStatus *tables.PaymentStatus
}

type OrderStore interface {
	// PlaceOrder inserts the order and its items atomically and returns the
	// order with its id set.
	PlaceOrder(ctx context.Context, order *tables.Order, items []tables.OrderItem) (*tables.Order, error)
	FindOrderListing(ctx context.Context, id int64) (*tables.OrderListing, error)
	ListOrderItems(ctx context.Context, orderID int64) ([]tables.OrderItem, error)
	UpdateOrder(ctx context.Context, id int64, update OrderUpdate) error
	// ListOrdersByRestaurant returns orders in the given statuses, newest first.
	ListOrdersByRestaurant(ctx context.Context, restaurantID int64, statuses []tables.OrderStatus) ([]tables.OrderListing, error)
}

type MessageLog interface {
	LogMessage(ctx context.Context, msg *tables.Message) error
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, n *tables.Notification) error
}

// Store is the data-access layer the conversation and lifecycle code depend on.
type Store interface {
	UserStore
	RestaurantStore
	OrderStore
	MessageLog
	NotificationStore
}
