package tables

import "time"

type NotificationType string

const (
	NotificationOrderPlaced      NotificationType = "order_placed"
	NotificationOrderConfirmed   NotificationType = "order_confirmed"
	NotificationOrderRejected    NotificationType = "order_rejected"
	NotificationOrderReady       NotificationType = "order_ready"
	NotificationPaymentConfirmed NotificationType = "payment_confirmed"
	NotificationOrderDelivered   NotificationType = "order_delivered"
	NotificationOrderStatus      NotificationType = "order_status"
)

type Notification struct {
	tableName struct{}         `bun:"table:notifications,alias:n"`
	Id        int64            `bun:"id,pk,autoincrement" json:"id"`
	Type      NotificationType `bun:"type,notnull" json:"type"`
	Title     string           `bun:"title,notnull" json:"title"`
	Message   string           `bun:"message,notnull" json:"message"`
	UserId    int64            `bun:"user_id,notnull" json:"user_id"`
	OrderId   *int64           `bun:"order_id" json:"order_id,omitempty"`
	Status    string           `bun:"status,notnull,default:'pending'" json:"status"`
	CreatedAt time.Time        `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
