package services

import (
	"context"
	"errors"
	"foodorder_server/structs/tables"
	"strconv"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
)

type CommandName string

const (
	CommandOrders    CommandName = "ORDERS"
	CommandAccept    CommandName = "ACCEPT"
	CommandReject    CommandName = "REJECT"
	CommandReady     CommandName = "READY"
	CommandPaid      CommandName = "PAID"
	CommandDelivered CommandName = "DELIVERED"
)

// OwnerCommand is a parsed operator message. OrderID is zero for ORDERS.
type OwnerCommand struct {
	Name    CommandName
	OrderID int64
}

// commandActions maps the order commands onto lifecycle actions.
var commandActions = map[CommandName]OrderAction{
	CommandAccept:    ActionAccept,
	CommandReject:    ActionReject,
	CommandReady:     ActionReady,
	CommandPaid:      ActionPaid,
	CommandDelivered: ActionDelivered,
}

// ParseOwnerCommand recognises "ORDERS" and "<VERB> <id>", case-insensitive.
func ParseOwnerCommand(text string) (OwnerCommand, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return OwnerCommand{}, false
	}
	name := CommandName(strings.ToUpper(fields[0]))

	if name == CommandOrders {
		return OwnerCommand{Name: name}, len(fields) == 1
	}

	if _, ok := commandActions[name]; !ok || len(fields) != 2 {
		return OwnerCommand{}, false
	}
	for _, r := range fields[1] {
		if r < '0' || r > '9' {
			return OwnerCommand{}, false
		}
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return OwnerCommand{}, false
	}
	return OwnerCommand{Name: name, OrderID: id}, true
}

// activeStatuses are the orders ORDERS lists.
var activeStatuses = []tables.OrderStatus{
	tables.OrderStatusPending,
	tables.OrderStatusConfirmed,
	tables.OrderStatusReady,
}

type commandHandler func(ctx context.Context, owner *tables.User, cmd OwnerCommand) string

// CommandService interprets messages from restaurant owners.
type CommandService struct {
	logger      *gecho.Logger
	restaurants RestaurantStore
	orders      OrderStore
	lifecycle   *LifecycleService
	notifier    *NotificationService
	messenger   Messenger
	metrics     *DomainMetrics
	location    *time.Location

	handlers map[CommandName]commandHandler
}

func NewCommandService(
	logger *gecho.Logger,
	restaurants RestaurantStore,
	orders OrderStore,
	lifecycle *LifecycleService,
	notifier *NotificationService,
	messenger Messenger,
	metrics *DomainMetrics,
) *CommandService {
	cs := &CommandService{
		logger:      logger,
		restaurants: restaurants,
		orders:      orders,
		lifecycle:   lifecycle,
		notifier:    notifier,
		messenger:   messenger,
		metrics:     metrics,
		location:    time.Local,
	}
	cs.handlers = map[CommandName]commandHandler{CommandOrders: cs.listOrders}
	for name := range commandActions {
		cs.handlers[name] = cs.applyAction
	}
	return cs
}

// Handle answers an operator message. It reports whether the message was
// consumed, which is always the case for operators: anything that is not a
// command gets the help text.
func (cs *CommandService) Handle(ctx context.Context, owner *tables.User, text string) bool {
	if !owner.IsOperator() {
		return false
	}

	reply := msgOwnerHelp
	label := "help"
	if cmd, ok := ParseOwnerCommand(text); ok {
		label = string(cmd.Name)
		reply = cs.run(ctx, owner, cmd)
	} else {
		cs.metrics.ObserveCommand(label, "help")
	}

	if _, err := cs.messenger.Send(ctx, owner.Phone, reply); err != nil {
		cs.logger.Error("Failed to reply to owner command",
			gecho.Field("error", err),
			gecho.Field("command", label),
			gecho.Field("owner_id", owner.Id),
		)
	}
	return true
}

func (cs *CommandService) run(ctx context.Context, owner *tables.User, cmd OwnerCommand) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			cs.logger.Error("Owner command panicked",
				gecho.Field("panic", r),
				gecho.Field("command", string(cmd.Name)),
			)
			cs.metrics.ObserveCommand(string(cmd.Name), "error")
			reply = msgCommandError
		}
	}()
	return cs.handlers[cmd.Name](ctx, owner, cmd)
}

func (cs *CommandService) applyAction(ctx context.Context, owner *tables.User, cmd OwnerCommand) string {
	action := commandActions[cmd.Name]
	outcome, err := cs.lifecycle.Apply(ctx, owner.Id, cmd.OrderID, action)
	if err != nil {
		var te *TransitionError
		switch {
		case errors.As(err, &te), errors.Is(err, ErrOrderNotFound), errors.Is(err, ErrNotOrderOwner):
			cs.metrics.ObserveCommand(string(cmd.Name), "refused")
			cs.logger.Debug("Owner command refused",
				gecho.Field("command", string(cmd.Name)),
				gecho.Field("order_id", cmd.OrderID),
				gecho.Field("reason", err.Error()),
			)
		default:
			cs.metrics.ObserveCommand(string(cmd.Name), "error")
			cs.logger.Error("Owner command failed",
				gecho.Field("error", err),
				gecho.Field("command", string(cmd.Name)),
				gecho.Field("order_id", cmd.OrderID),
			)
		}
		return refusalText(err, cmd.OrderID, action)
	}

	cs.metrics.ObserveCommand(string(cmd.Name), "applied")
	cs.notifier.TransitionApplied(ctx, outcome)
	return operatorReplyText(outcome)
}

// listOrders shows active orders of the owner's first restaurant.
func (cs *CommandService) listOrders(ctx context.Context, owner *tables.User, _ OwnerCommand) string {
	restaurants, err := cs.restaurants.FindRestaurantsByOwner(ctx, owner.Id)
	if err != nil {
		cs.metrics.ObserveCommand(string(CommandOrders), "error")
		cs.logger.Error("Failed to load owner restaurants", gecho.Field("error", err), gecho.Field("owner_id", owner.Id))
		return msgOrdersError
	}
	if len(restaurants) == 0 {
		cs.metrics.ObserveCommand(string(CommandOrders), "refused")
		return msgNoOwnedRest
	}

	restaurant := restaurants[0]
	orders, err := cs.orders.ListOrdersByRestaurant(ctx, restaurant.Id, activeStatuses)
	if err != nil {
		cs.metrics.ObserveCommand(string(CommandOrders), "error")
		cs.logger.Error("Failed to list restaurant orders", gecho.Field("error", err), gecho.Field("restaurant_id", restaurant.Id))
		return msgOrdersError
	}

	cs.metrics.ObserveCommand(string(CommandOrders), "applied")
	return ordersListText(restaurant.Name, orders, cs.location)
}
