package tables

import "time"

type Order struct {
	tableName    struct{} `bun:"table:orders,alias:o"`
	Id           int64    `bun:"id,pk,autoincrement" json:"id"`
	UserId       int64    `bun:"user_id,notnull" json:"user_id"`
	RestaurantId int64    `bun:"restaurant_id,notnull" json:"restaurant_id"`

	TotalPaise      int64  `bun:"total_paise,notnull" json:"total_paise" validate:"gte=0"`
	DeliveryAddress string `bun:"delivery_address" json:"delivery_address,omitempty"`
	Notes           string `bun:"notes" json:"notes,omitempty"`

	// Fulfilment and payment are independent axes.
	Status        OrderStatus   `bun:"status,notnull,default:'pending'" json:"status" validate:"required,oneof=pending confirmed preparing ready delivered rejected cancelled"`
	PaymentStatus PaymentStatus `bun:"payment_status,notnull,default:'pending'" json:"payment_status" validate:"required,oneof=pending paid refunded"`
	PaymentMethod PaymentMethod `bun:"payment_method,notnull" json:"payment_method" validate:"required,oneof=COD UPI"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

type OrderItem struct {
	tableName  struct{} `bun:"table:order_items,alias:oi"`
	Id         int64    `bun:"id,pk,autoincrement" json:"id"`
	OrderId    int64    `bun:"order_id,notnull" json:"order_id"`
	MenuItemId int64    `bun:"menu_item_id,notnull" json:"menu_item_id"`
	Quantity   int      `bun:"quantity,notnull" json:"quantity" validate:"required,min=1"`

	// Snapshot of the menu item when ordered
	ItemName   string `bun:"item_name,notnull" json:"item_name"`
	PricePaise int64  `bun:"price_paise,notnull" json:"price_paise" validate:"gte=0"`
}

// OrderListing is an order joined with the names the dashboard and the
// owner commands display.
type OrderListing struct {
	Order `bun:",extend"`

	CustomerName    string `bun:"customer_name" json:"customer_name"`
	CustomerPhone   string `bun:"customer_phone" json:"customer_phone"`
	RestaurantName  string `bun:"restaurant_name" json:"restaurant_name"`
	RestaurantAddr  string `bun:"restaurant_address" json:"restaurant_address"`
	RestaurantPhone string `bun:"restaurant_phone" json:"restaurant_phone"`
	OwnerId         int64  `bun:"owner_id" json:"owner_id"`
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusRejected  OrderStatus = "rejected"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodCOD PaymentMethod = "COD"
	PaymentMethodUPI PaymentMethod = "UPI"
)
