package services

import "github.com/prometheus/client_golang/prometheus"

// DomainMetrics counts conversation and order events. A nil *DomainMetrics
// is valid and records nothing.
type DomainMetrics struct {
	InboundMessages  *prometheus.CounterVec
	OwnerCommands    *prometheus.CounterVec
	Transitions      *prometheus.CounterVec
	OrdersPlaced     *prometheus.CounterVec
	NotificationErrs *prometheus.CounterVec
}

func NewDomainMetrics() *DomainMetrics {
	return &DomainMetrics{
		InboundMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "foodorder",
				Subsystem: "conversation",
				Name:      "inbound_messages_total",
				Help:      "Inbound messages by the conversation state that handled them",
			},
			[]string{"state"},
		),
		OwnerCommands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "foodorder",
				Subsystem: "owner",
				Name:      "commands_total",
				Help:      "Owner commands by command and result",
			},
			[]string{"command", "result"},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "foodorder",
				Subsystem: "orders",
				Name:      "transitions_total",
				Help:      "Order lifecycle transitions by action and result",
			},
			[]string{"action", "result"},
		),
		OrdersPlaced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "foodorder",
				Subsystem: "orders",
				Name:      "placed_total",
				Help:      "Orders placed over the messaging channel by payment method",
			},
			[]string{"payment_method"},
		),
		NotificationErrs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "foodorder",
				Subsystem: "notifications",
				Name:      "failures_total",
				Help:      "Swallowed notification failures by channel",
			},
			[]string{"channel"},
		),
	}
}

// Register adds every collector to reg.
func (dm *DomainMetrics) Register(reg prometheus.Registerer) {
	reg.MustRegister(dm.InboundMessages, dm.OwnerCommands, dm.Transitions, dm.OrdersPlaced, dm.NotificationErrs)
}

func (dm *DomainMetrics) ObserveInbound(state string) {
	if dm == nil {
		return
	}
	dm.InboundMessages.WithLabelValues(state).Inc()
}

func (dm *DomainMetrics) ObserveCommand(command, result string) {
	if dm == nil {
		return
	}
	dm.OwnerCommands.WithLabelValues(command, result).Inc()
}

func (dm *DomainMetrics) ObserveTransition(action OrderAction, result string) {
	if dm == nil {
		return
	}
	dm.Transitions.WithLabelValues(string(action), result).Inc()
}

func (dm *DomainMetrics) ObserveOrderPlaced(method string) {
	if dm == nil {
		return
	}
	dm.OrdersPlaced.WithLabelValues(method).Inc()
}

func (dm *DomainMetrics) ObserveNotificationFailure(channel string) {
	if dm == nil {
		return
	}
	dm.NotificationErrs.WithLabelValues(channel).Inc()
}
