package services

import (
	"context"
	"fmt"
	"foodorder_server/lib"
	"foodorder_server/structs"
	"foodorder_server/structs/tables"
	"sync"

	"github.com/MonkyMars/gecho"
	"golang.org/x/sync/errgroup"
)

// PlacedOrder is everything the owner alert needs about a new order.
type PlacedOrder struct {
	Order         tables.Order
	Items         []tables.OrderItem
	Restaurant    structs.RestaurantSnapshot
	CustomerName  string
	CustomerPhone string
}

// NotificationService fans order events out to dashboard notifications,
// WhatsApp messages and email. Every failure is logged and swallowed; the
// order change that caused the event is never rolled back.
type NotificationService struct {
	logger        *gecho.Logger
	notifications NotificationStore
	users         UserStore
	messenger     Messenger
	mailer        Mailer
	async         bool
	metrics       *DomainMetrics

	wg sync.WaitGroup
}

func NewNotificationService(
	logger *gecho.Logger,
	notifications NotificationStore,
	users UserStore,
	messenger Messenger,
	mailer Mailer,
	async bool,
	metrics *DomainMetrics,
) *NotificationService {
	return &NotificationService{
		logger:        logger,
		notifications: notifications,
		users:         users,
		messenger:     messenger,
		mailer:        mailer,
		async:         async,
		metrics:       metrics,
	}
}

// Wait blocks until background deliveries have finished.
func (ns *NotificationService) Wait() {
	ns.wg.Wait()
}

func (ns *NotificationService) dispatch(ctx context.Context, fn func(ctx context.Context)) {
	if !ns.async {
		fn(ctx)
		return
	}
	bg := context.WithoutCancel(ctx)
	ns.wg.Add(1)
	go func() {
		defer ns.wg.Done()
		fn(bg)
	}()
}

func (ns *NotificationService) fail(channel string, err error, orderID int64) {
	ns.metrics.ObserveNotificationFailure(channel)
	ns.logger.Error(fmt.Sprintf("Failed to deliver %s notification", channel),
		gecho.Field("error", err),
		gecho.Field("order_id", orderID),
	)
}

// TransitionApplied records a customer notification and messages the customer
// about the new order state.
func (ns *NotificationService) TransitionApplied(ctx context.Context, outcome *TransitionOutcome) {
	notification := customerNotification(outcome)
	body := customerUpdateText(outcome)
	orderID := outcome.Order.Id
	phone := outcome.Order.CustomerPhone

	ns.dispatch(ctx, func(ctx context.Context) {
		var g errgroup.Group
		g.Go(func() error {
			if err := ns.notifications.CreateNotification(ctx, notification); err != nil {
				ns.fail("dashboard", err, orderID)
			}
			return nil
		})
		g.Go(func() error {
			if phone == "" {
				return nil
			}
			if _, err := ns.messenger.Send(ctx, phone, body); err != nil {
				ns.fail("whatsapp", err, orderID)
			}
			return nil
		})
		_ = g.Wait()
	})
}

// OrderPlaced notifies the restaurant owner about a new order.
func (ns *NotificationService) OrderPlaced(ctx context.Context, placed *PlacedOrder) {
	ns.dispatch(ctx, func(ctx context.Context) {
		owner, err := ns.users.FindUserByID(ctx, placed.Restaurant.OwnerId)
		if err != nil {
			ns.fail("dashboard", err, placed.Order.Id)
			return
		}
		if owner == nil {
			ns.logger.Warn("Restaurant has no owner account, skipping order alert",
				gecho.Field("restaurant_id", placed.Restaurant.Id),
				gecho.Field("order_id", placed.Order.Id),
			)
			return
		}

		orderID := placed.Order.Id
		notification := &tables.Notification{
			Type:    tables.NotificationOrderPlaced,
			Title:   "New Order Placed",
			Message: fmt.Sprintf("Order #%d has been placed by %s (%s)", orderID, placed.CustomerName, lib.FormatRupees(placed.Order.TotalPaise)),
			UserId:  owner.Id,
			OrderId: &orderID,
			Status:  "pending",
		}

		var g errgroup.Group
		g.Go(func() error {
			if err := ns.notifications.CreateNotification(ctx, notification); err != nil {
				ns.fail("dashboard", err, orderID)
			}
			return nil
		})
		if owner.Phone != "" {
			g.Go(func() error {
				if _, err := ns.messenger.Send(ctx, owner.Phone, newOrderAlertText(placed)); err != nil {
					ns.fail("whatsapp", err, orderID)
				}
				return nil
			})
		}
		if owner.Email != nil && *owner.Email != "" && ns.mailer != nil && ns.mailer.Enabled() {
			g.Go(func() error {
				if err := ns.mailer.SendNewOrderEmail(*owner.Email, placed); err != nil {
					ns.fail("email", err, orderID)
				}
				return nil
			})
		}
		_ = g.Wait()
	})
}
