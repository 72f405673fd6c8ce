package services

import (
	"context"
	"errors"
	"fmt"
	"foodorder_server/structs/tables"
	"slices"

	"github.com/MonkyMars/gecho"
)

type OrderAction string

const (
	ActionAccept    OrderAction = "accept"
	ActionReject    OrderAction = "reject"
	ActionReady     OrderAction = "ready"
	ActionPaid      OrderAction = "paid"
	ActionDelivered OrderAction = "delivered"

	// Dashboard overrides
	ActionSetStatus  OrderAction = "set_status"
	ActionSetPayment OrderAction = "set_payment"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrNotOrderOwner = errors.New("order belongs to another restaurant")
)

type TransitionReason string

const (
	ReasonAlreadyDecided  TransitionReason = "already_decided"
	ReasonNotConfirmed    TransitionReason = "not_confirmed"
	ReasonNotReady        TransitionReason = "not_ready"
	ReasonAlreadyPaid     TransitionReason = "already_paid"
	ReasonPaymentRequired TransitionReason = "payment_required"
)

// TransitionError is a refused transition. The order is left untouched.
type TransitionError struct {
	OrderID       int64
	Action        OrderAction
	Status        tables.OrderStatus
	PaymentStatus tables.PaymentStatus
	Reason        TransitionReason
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("order %d: cannot %s while %s/%s (%s)", e.OrderID, e.Action, e.Status, e.PaymentStatus, e.Reason)
}

// TransitionOutcome describes an applied transition. Order holds the state
// after the update.
type TransitionOutcome struct {
	Action                OrderAction
	Order                 tables.OrderListing
	PreviousStatus        tables.OrderStatus
	PreviousPaymentStatus tables.PaymentStatus
}

// requiredStatus lists the statuses each operator action may start from.
var requiredStatus = map[OrderAction][]tables.OrderStatus{
	ActionAccept:    {tables.OrderStatusPending},
	ActionReject:    {tables.OrderStatusPending},
	ActionReady:     {tables.OrderStatusConfirmed},
	ActionPaid:      {tables.OrderStatusReady},
	ActionDelivered: {tables.OrderStatusReady},
}

var refusalReason = map[OrderAction]TransitionReason{
	ActionAccept:    ReasonAlreadyDecided,
	ActionReject:    ReasonAlreadyDecided,
	ActionReady:     ReasonNotConfirmed,
	ActionPaid:      ReasonNotReady,
	ActionDelivered: ReasonNotReady,
}

func statusPtr(s tables.OrderStatus) *tables.OrderStatus {
	return &s
}

func paymentPtr(p tables.PaymentStatus) *tables.PaymentStatus {
	return &p
}

// decide validates an operator action against the order's current state and
// returns the columns to write. It has no side effects.
func decide(order *tables.Order, action OrderAction) (OrderUpdate, error) {
	allowed, ok := requiredStatus[action]
	if !ok {
		return OrderUpdate{}, fmt.Errorf("unknown order action %q", action)
	}

	refuse := func(reason TransitionReason) (OrderUpdate, error) {
		return OrderUpdate{}, &TransitionError{
			OrderID:       order.Id,
			Action:        action,
			Status:        order.Status,
			PaymentStatus: order.PaymentStatus,
			Reason:        reason,
		}
	}

	if !slices.Contains(allowed, order.Status) {
		return refuse(refusalReason[action])
	}

	switch action {
	case ActionAccept:
		return OrderUpdate{Status: statusPtr(tables.OrderStatusConfirmed)}, nil
	case ActionReject:
		return OrderUpdate{Status: statusPtr(tables.OrderStatusRejected)}, nil
	case ActionReady:
		return OrderUpdate{Status: statusPtr(tables.OrderStatusReady)}, nil
	case ActionPaid:
		if order.PaymentStatus == tables.PaymentStatusPaid {
			return refuse(ReasonAlreadyPaid)
		}
		return OrderUpdate{PaymentStatus: paymentPtr(tables.PaymentStatusPaid)}, nil
	default: // ActionDelivered
		update := OrderUpdate{Status: statusPtr(tables.OrderStatusDelivered)}
		if order.PaymentStatus != tables.PaymentStatusPaid {
			if order.PaymentMethod != tables.PaymentMethodCOD {
				return refuse(ReasonPaymentRequired)
			}
			// cash is collected at handoff
			update.PaymentStatus = paymentPtr(tables.PaymentStatusPaid)
		}
		return update, nil
	}
}

// LifecycleService enforces order status and payment transitions for both
// operator commands and the dashboard.
type LifecycleService struct {
	logger  *gecho.Logger
	orders  OrderStore
	metrics *DomainMetrics
}

func NewLifecycleService(logger *gecho.Logger, orders OrderStore, metrics *DomainMetrics) *LifecycleService {
	return &LifecycleService{logger: logger, orders: orders, metrics: metrics}
}

// loadOwned fetches the order and checks it belongs to a restaurant owned by ownerID.
func (ls *LifecycleService) loadOwned(ctx context.Context, ownerID, orderID int64) (*tables.OrderListing, error) {
	listing, err := ls.orders.FindOrderListing(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order %d: %w", orderID, err)
	}
	if listing == nil {
		return nil, ErrOrderNotFound
	}
	if listing.OwnerId != ownerID {
		ls.logger.Warn("Order action by non-owner refused",
			gecho.Field("order_id", orderID),
			gecho.Field("owner_id", ownerID),
		)
		return nil, ErrNotOrderOwner
	}
	return listing, nil
}

// Apply runs an operator action on an order owned by ownerID.
func (ls *LifecycleService) Apply(ctx context.Context, ownerID, orderID int64, action OrderAction) (*TransitionOutcome, error) {
	listing, err := ls.loadOwned(ctx, ownerID, orderID)
	if err != nil {
		return nil, err
	}

	update, err := decide(&listing.Order, action)
	if err != nil {
		ls.metrics.ObserveTransition(action, "refused")
		return nil, err
	}

	return ls.write(ctx, listing, action, update)
}

// SetStatus is the dashboard status override. Any status may be chosen, but
// delivered still requires a paid order.
func (ls *LifecycleService) SetStatus(ctx context.Context, ownerID, orderID int64, status tables.OrderStatus) (*TransitionOutcome, error) {
	listing, err := ls.loadOwned(ctx, ownerID, orderID)
	if err != nil {
		return nil, err
	}

	if status == tables.OrderStatusDelivered && listing.PaymentStatus != tables.PaymentStatusPaid {
		ls.metrics.ObserveTransition(ActionSetStatus, "refused")
		return nil, &TransitionError{
			OrderID:       orderID,
			Action:        ActionSetStatus,
			Status:        listing.Status,
			PaymentStatus: listing.PaymentStatus,
			Reason:        ReasonPaymentRequired,
		}
	}

	return ls.write(ctx, listing, ActionSetStatus, OrderUpdate{Status: &status})
}

// SetPaymentStatus is the dashboard payment override.
func (ls *LifecycleService) SetPaymentStatus(ctx context.Context, ownerID, orderID int64, paymentStatus tables.PaymentStatus) (*TransitionOutcome, error) {
	listing, err := ls.loadOwned(ctx, ownerID, orderID)
	if err != nil {
		return nil, err
	}

	return ls.write(ctx, listing, ActionSetPayment, OrderUpdate{PaymentStatus: &paymentStatus})
}

func (ls *LifecycleService) write(ctx context.Context, listing *tables.OrderListing, action OrderAction, update OrderUpdate) (*TransitionOutcome, error) {
	outcome := &TransitionOutcome{
		Action:                action,
		Order:                 *listing,
		PreviousStatus:        listing.Status,
		PreviousPaymentStatus: listing.PaymentStatus,
	}

	if err := ls.orders.UpdateOrder(ctx, listing.Id, update); err != nil {
		ls.metrics.ObserveTransition(action, "error")
		return nil, fmt.Errorf("failed to update order %d: %w", listing.Id, err)
	}

	if update.Status != nil {
		outcome.Order.Status = *update.Status
	}
	if update.PaymentStatus != nil {
		outcome.Order.PaymentStatus = *update.PaymentStatus
	}

	ls.metrics.ObserveTransition(action, "applied")
	ls.logger.Info("Order transition applied",
		gecho.Field("order_id", listing.Id),
		gecho.Field("action", string(action)),
		gecho.Field("from_status", string(outcome.PreviousStatus)),
		gecho.Field("to_status", string(outcome.Order.Status)),
		gecho.Field("payment_status", string(outcome.Order.PaymentStatus)),
	)
	return outcome, nil
}
