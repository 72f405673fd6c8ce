package services

import (
	"errors"
	"fmt"
	"foodorder_server/lib"
	"foodorder_server/structs"
	"foodorder_server/structs/tables"
	"strings"
	"time"
)

// Customer dialogue texts.
const (
	msgHello             = "👋 Hello! Welcome to Food Ordering!\n\nPlease tell me your name to get started:"
	msgGreetingReprompt  = "👋 Welcome! Please tell me your full name to get started:"
	msgNoRestaurants     = "😔 Sorry, no restaurants are available at the moment. Please try again later."
	msgListError         = "Sorry, there was an error. Please try again."
	msgInvalidRestaurant = "❌ Invalid restaurant number. Please choose a valid option (1, 2, 3...)"
	msgMenuOptions       = "❌ Please reply with 1, 2, or 3"
	msgNoMenuItems       = "😔 Sorry, this restaurant doesn't have any menu items available right now."
	msgMenuLoadError     = "Sorry, there was an error loading the menu. Please try selecting the restaurant again."
	msgInvalidCategory   = "❌ Invalid category number. Please choose a valid option."
	msgInvalidItem       = "❌ Invalid item number. Please choose a valid option."
	msgCartOptions       = "❌ Please reply with 1, 2, 3, or 4"
	msgCartEmpty         = "🛒 Your cart is empty! Reply with '1' to browse menu."
	msgCartCleared       = "🗑️ Cart cleared! Reply with '1' to browse menu and add items."
	msgInvalidDelete     = "❌ Invalid item number. Please choose a valid option from the list above."
	msgCheckoutEmpty     = "🛒 Your cart is empty! Add some items first."
	msgMissingDetails    = "❌ Missing user details. Please start over."
	msgInvalidPayment    = "❌ Invalid option. Please reply with 1 for COD or 2 for UPI payment."
	msgPaymentError      = "❌ Sorry, there was an error processing your payment. Please try again."
	msgGenericError      = "❌ Sorry, something went wrong. Please try again."
)

// Operator texts.
const (
	msgCommandError = "❌ Sorry, there was an error processing your command. Please try again."
	msgOrdersError  = "❌ Sorry, there was an error retrieving orders. Please try again."
	msgNoOwnedRest  = "❌ No restaurant found for your account."

	msgOwnerHelp = "🏪 RESTAURANT OWNER COMMANDS\n\n" +
		"📋 Order Management:\n" +
		"• ORDERS - View pending orders\n" +
		"• ACCEPT [order_id] - Accept order\n" +
		"• REJECT [order_id] - Reject order\n" +
		"• READY [order_id] - Mark as ready\n" +
		"• PAID [order_id] - Confirm payment\n" +
		"• DELIVERED [order_id] - Mark as delivered\n\n" +
		"📊 Order Flow:\n" +
		"pending → ACCEPT → confirmed → READY → ready → PAID → DELIVERED → delivered\n\n" +
		"💡 Examples:\n" +
		"• Type \"ORDERS\" to see all pending orders\n" +
		"• Type \"ACCEPT 123\" to accept order #123\n" +
		"• Type \"READY 123\" to mark order #123 as ready\n\n" +
		"❓ Need help? Contact support."
)

var greetings = map[string]struct{}{
	"hi": {}, "hello": {}, "hey": {}, "hii": {}, "hai": {},
	"yo": {}, "hola": {}, "namaste": {}, "greetings": {},
}

func isGreeting(text string) bool {
	_, ok := greetings[strings.ToLower(strings.TrimSpace(text))]
	return ok
}

var categoryIcons = map[string]string{
	"Biryanis":     "🍛",
	"Starters":     "🔥",
	"Main Course":  "🍽️",
	"Beverages":    "🥤",
	"Cool Drinks":  "🥤",
	"Desserts":     "🍮",
	"Pizza":        "🍕",
	"Burgers":      "🍔",
	"Hot Starters": "🔥",
	"Veg Starters": "🥗",
	"Breads":       "🍞",
}

func categoryIcon(category string) string {
	if icon, ok := categoryIcons[category]; ok {
		return icon
	}
	return "🍴"
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func askLocationText(name string) string {
	return fmt.Sprintf("Thanks %s! Please share your current location to help us find restaurants near you:", name)
}

func chooseRestaurantText(location string) string {
	return fmt.Sprintf("Great! Now please choose a restaurant near %s:", location)
}

func restaurantListText(restaurants []structs.RestaurantSnapshot) string {
	var b strings.Builder
	b.WriteString("🍽️ Welcome to Food Ordering! 🛍️\n\nAvailable Restaurants:\n\n")
	for i, r := range restaurants {
		fmt.Fprintf(&b, "%d. 🏪 %s\n", i+1, r.Name)
		fmt.Fprintf(&b, "   📍 %s\n", orDefault(r.Address, "Address not available"))
		fmt.Fprintf(&b, "   📞 %s\n\n", orDefault(r.Phone, "Phone not available"))
	}
	b.WriteString("Reply with restaurant number (1, 2, 3...) to start ordering! 🛒")
	return b.String()
}

func restaurantOptionsText(r *structs.RestaurantSnapshot, cartLines int) string {
	var b strings.Builder
	b.WriteString("✅ Great choice! You selected:\n\n")
	fmt.Fprintf(&b, "🏪 %s\n", r.Name)
	fmt.Fprintf(&b, "📍 %s\n\n", r.Address)
	b.WriteString("What would you like to do?\n\n")
	b.WriteString("1. 📋 View Menu\n")
	fmt.Fprintf(&b, "2. 🛒 View Cart (%d items)\n", cartLines)
	b.WriteString("3. 🏪 Change Restaurant\n\n")
	b.WriteString("Reply with option number:")
	return b.String()
}

func categoriesText(restaurant string, categories []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 %s Menu Categories:\n\n", restaurant)
	for i, c := range categories {
		fmt.Fprintf(&b, "%d. %s %s\n", i+1, categoryIcon(c), c)
	}
	b.WriteString("\n0. ⬅️ Back to Restaurant Options\n\n")
	b.WriteString("Reply with category number:")
	return b.String()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func categoryItemsText(category string, items []structs.MenuItemSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s Menu:\n\n", categoryIcon(category), category)
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.Name)
		fmt.Fprintf(&b, "   💰 %s\n", lib.FormatRupees(item.PricePaise))
		if item.Description != "" {
			fmt.Fprintf(&b, "   📝 %s...\n", truncateRunes(item.Description, 50))
		}
		b.WriteString("\n")
	}
	b.WriteString("0. ⬅️ Back to Categories\n\n")
	b.WriteString("Reply with item number to add to cart:")
	return b.String()
}

func itemAddedText(item structs.MenuItemSnapshot, s *structs.Session) string {
	var b strings.Builder
	b.WriteString("✅ Added to cart!\n\n")
	fmt.Fprintf(&b, "🍽️ %s\n", item.Name)
	fmt.Fprintf(&b, "💰 %s\n\n", lib.FormatRupees(item.PricePaise))
	fmt.Fprintf(&b, "🛒 Current Cart: %d items\n", s.CartItemCount())
	fmt.Fprintf(&b, "💵 Total: %s\n\n", lib.FormatRupees(s.CartTotal()))
	b.WriteString("What's next?\n")
	b.WriteString("1. ➕ Add more items\n")
	b.WriteString("2. 🛒 View Cart\n")
	b.WriteString("3. 🗑️ Delete Item\n")
	b.WriteString("4. ✅ Checkout\n\n")
	b.WriteString("Reply with option number:")
	return b.String()
}

func writeCartLines(b *strings.Builder, cart []structs.CartLine) {
	for i, line := range cart {
		fmt.Fprintf(b, "%d. %s\n", i+1, line.Name)
		fmt.Fprintf(b, "   💰 %s x %d = %s\n\n",
			lib.FormatRupees(line.PricePaise), line.Quantity, lib.FormatRupees(line.LineTotal()))
	}
}

func cartText(s *structs.Session) string {
	var b strings.Builder
	b.WriteString("🛒 Your Cart:\n\n")
	writeCartLines(&b, s.Cart)
	fmt.Fprintf(&b, "💵 Total: %s\n\n", lib.FormatRupees(s.CartTotal()))
	b.WriteString("Options:\n")
	b.WriteString("1. ➕ Add more items\n")
	b.WriteString("2. ✅ Checkout\n")
	b.WriteString("3. 🗑️ Delete item\n")
	b.WriteString("4. 🗑️ Clear cart\n\n")
	b.WriteString("Reply with option number:")
	return b.String()
}

func deleteListText(s *structs.Session) string {
	var b strings.Builder
	b.WriteString("🗑️ Delete Item from Cart:\n\n")
	writeCartLines(&b, s.Cart)
	b.WriteString("Reply with the item number to delete (1, 2, 3...):\n")
	b.WriteString("Or reply '0' to go back to cart options.")
	return b.String()
}

func itemRemovedText(removed structs.CartLine, s *structs.Session) string {
	var b strings.Builder
	b.WriteString("🗑️ Item removed from cart!\n\n")
	fmt.Fprintf(&b, "❌ %s (%s x %d)\n\n", removed.Name, lib.FormatRupees(removed.PricePaise), removed.Quantity)
	if len(s.Cart) == 0 {
		b.WriteString("🛒 Your cart is now empty!\n\n")
		b.WriteString("Reply with '1' to browse menu and add items.")
		return b.String()
	}
	fmt.Fprintf(&b, "🛒 Remaining items: %d\n", s.CartItemCount())
	fmt.Fprintf(&b, "💵 New total: %s\n\n", lib.FormatRupees(s.CartTotal()))
	b.WriteString("What would you like to do?\n")
	b.WriteString("1. ➕ Add more items\n")
	b.WriteString("2. 🛒 View Cart\n")
	b.WriteString("3. 🗑️ Delete another item\n")
	b.WriteString("4. ✅ Checkout\n\n")
	b.WriteString("Reply with option number:")
	return b.String()
}

func orderSummaryText(s *structs.Session) string {
	var b strings.Builder
	b.WriteString("🧾 Order Summary:\n\n")
	fmt.Fprintf(&b, "🏪 Restaurant: %s\n", s.SelectedRestaurant.Name)
	fmt.Fprintf(&b, "📍 Address: %s\n\n", s.SelectedRestaurant.Address)
	b.WriteString("🛒 Your Items:\n")
	for _, line := range s.Cart {
		fmt.Fprintf(&b, "• %s x%d - %s\n", line.Name, line.Quantity, lib.FormatRupees(line.LineTotal()))
	}
	fmt.Fprintf(&b, "\n💰 Total Amount: %s\n\n", lib.FormatRupees(s.TotalPaise))
	b.WriteString("Please choose payment method:\n\n")
	b.WriteString("1. 💵 Cash on Delivery (COD)\n")
	b.WriteString("2. 📱 UPI Payment\n\n")
	b.WriteString("Reply with option number (1 or 2):")
	return b.String()
}

func orderPlacedText(method tables.PaymentMethod, totalPaise int64, location, upiID string) string {
	var b strings.Builder
	b.WriteString("✅ Order placed successfully!\n\n")
	fmt.Fprintf(&b, "💰 Total Amount: %s\n", lib.FormatRupees(totalPaise))
	if method == tables.PaymentMethodCOD {
		b.WriteString("💵 Payment Method: Cash on Delivery\n\n")
		fmt.Fprintf(&b, "🏠 Delivery Address: %s\n\n", location)
		b.WriteString("Thank you for ordering with us. 🙏\n")
		b.WriteString("Your order will be delivered soon.")
		return b.String()
	}
	b.WriteString("📱 Payment Method: UPI\n\n")
	b.WriteString("Please pay using this UPI ID:\n")
	fmt.Fprintf(&b, "%s 📱\n\n", upiID)
	fmt.Fprintf(&b, "🏠 Delivery Address: %s\n\n", location)
	b.WriteString("Once payment is confirmed, your order will be processed.")
	return b.String()
}

func orderNotes(name, phone string) string {
	return fmt.Sprintf("Order placed via WhatsApp by %s (%s)", name, phone)
}

func newOrderAlertText(placed *PlacedOrder) string {
	var b strings.Builder
	b.WriteString("🚨 NEW ORDER ALERT! 🚨\n\n")
	fmt.Fprintf(&b, "📋 Order #%d\n", placed.Order.Id)
	fmt.Fprintf(&b, "🏪 %s\n", placed.Restaurant.Name)
	fmt.Fprintf(&b, "👤 Customer: %s\n", placed.CustomerName)
	fmt.Fprintf(&b, "📞 Phone: %s\n\n", placed.CustomerPhone)
	b.WriteString("🛒 Items:\n")
	for _, item := range placed.Items {
		fmt.Fprintf(&b, "• %s x%d\n", item.ItemName, item.Quantity)
	}
	fmt.Fprintf(&b, "\n💵 Total: %s\n\n", lib.FormatRupees(placed.Order.TotalPaise))
	b.WriteString("⏰ Order Management Commands:\n")
	fmt.Fprintf(&b, "• Reply 'ACCEPT %d' to accept\n", placed.Order.Id)
	fmt.Fprintf(&b, "• Reply 'REJECT %d' to reject\n", placed.Order.Id)
	b.WriteString("• Reply 'ORDERS' to see all pending orders\n\n")
	b.WriteString("💡 After accepting: READY → PAID → DELIVERED")
	return b.String()
}

// refusalText explains a refused lifecycle command to the operator.
func refusalText(err error, orderID int64, action OrderAction) string {
	var te *TransitionError
	if !errors.As(err, &te) {
		switch {
		case errors.Is(err, ErrOrderNotFound):
			return fmt.Sprintf("❌ Order #%d not found.", orderID)
		case errors.Is(err, ErrNotOrderOwner):
			return fmt.Sprintf("❌ You are not authorized to manage Order #%d.", orderID)
		}
		return fmt.Sprintf("❌ Sorry, there was an error %s Order #%d. Please try again.", actionVerb(action), orderID)
	}

	switch te.Reason {
	case ReasonAlreadyDecided:
		return fmt.Sprintf("❌ Order #%d has already been %s.", orderID, te.Status)
	case ReasonNotConfirmed:
		return fmt.Sprintf("❌ Order #%d must be confirmed before marking as ready. Current status: %s", orderID, te.Status)
	case ReasonNotReady:
		if action == ActionPaid {
			return fmt.Sprintf("❌ Order #%d must be ready before marking as paid. Current status: %s", orderID, te.Status)
		}
		return fmt.Sprintf("❌ Order #%d must be ready before marking as delivered. Current status: %s", orderID, te.Status)
	case ReasonAlreadyPaid:
		return fmt.Sprintf("❌ Order #%d is already marked as paid.", orderID)
	case ReasonPaymentRequired:
		return fmt.Sprintf("❌ Order #%d payment must be confirmed before delivery. Reply 'PAID %d' to confirm payment first.", orderID, orderID)
	}
	return fmt.Sprintf("❌ Sorry, there was an error %s Order #%d. Please try again.", actionVerb(action), orderID)
}

func actionVerb(action OrderAction) string {
	switch action {
	case ActionAccept:
		return "accepting"
	case ActionReject:
		return "rejecting"
	case ActionReady:
		return "marking as ready"
	case ActionPaid:
		return "confirming payment for"
	case ActionDelivered:
		return "marking as delivered"
	}
	return "updating"
}

// operatorReplyText confirms an applied transition to the operator.
func operatorReplyText(o *TransitionOutcome) string {
	order := o.Order
	total := lib.FormatRupees(order.TotalPaise)
	var b strings.Builder
	switch o.Action {
	case ActionAccept:
		b.WriteString("✅ ORDER ACCEPTED!\n\n")
		fmt.Fprintf(&b, "📋 Order #%d has been confirmed\n", order.Id)
		fmt.Fprintf(&b, "🏪 Restaurant: %s\n", order.RestaurantName)
		fmt.Fprintf(&b, "💰 Total: %s\n\n", total)
		b.WriteString("📱 The customer will be notified about the confirmation.\n\n")
		b.WriteString("Next steps:\n")
		b.WriteString("• Start preparing the order\n")
		fmt.Fprintf(&b, "• Reply 'READY %d' when order is ready for pickup/delivery", order.Id)
	case ActionReject:
		b.WriteString("❌ ORDER REJECTED\n\n")
		fmt.Fprintf(&b, "📋 Order #%d has been rejected\n", order.Id)
		fmt.Fprintf(&b, "🏪 Restaurant: %s\n", order.RestaurantName)
		fmt.Fprintf(&b, "💰 Total: %s\n\n", total)
		b.WriteString("📱 The customer will be notified about the rejection.")
	case ActionReady:
		b.WriteString("🍽️ ORDER READY!\n\n")
		fmt.Fprintf(&b, "📋 Order #%d is ready for pickup/delivery\n", order.Id)
		fmt.Fprintf(&b, "🏪 Restaurant: %s\n", order.RestaurantName)
		fmt.Fprintf(&b, "💰 Total: %s\n\n", total)
		b.WriteString("📱 The customer has been notified.\n\n")
		b.WriteString("Next steps:\n")
		b.WriteString("• Wait for customer pickup/delivery\n")
		if order.PaymentMethod == tables.PaymentMethodCOD {
			fmt.Fprintf(&b, "• Collect %s cash payment\n", total)
			fmt.Fprintf(&b, "• Reply 'DELIVERED %d' when delivered (COD - no PAID command needed)", order.Id)
		} else {
			fmt.Fprintf(&b, "• Reply 'PAID %d' when payment is received\n", order.Id)
			fmt.Fprintf(&b, "• Then reply 'DELIVERED %d' when delivered", order.Id)
		}
	case ActionPaid:
		b.WriteString("💳 PAYMENT CONFIRMED!\n\n")
		fmt.Fprintf(&b, "📋 Order #%d - Payment received\n", order.Id)
		fmt.Fprintf(&b, "🏪 Restaurant: %s\n", order.RestaurantName)
		fmt.Fprintf(&b, "💰 Total: %s\n", total)
		fmt.Fprintf(&b, "💵 Payment Method: %s\n\n", order.PaymentMethod)
		b.WriteString("📱 The customer has been notified.\n\n")
		b.WriteString("✅ Order is now ready for delivery!\n")
		fmt.Fprintf(&b, "Reply 'DELIVERED %d' when order is delivered", order.Id)
	case ActionDelivered:
		b.WriteString("✅ ORDER DELIVERED!\n\n")
		fmt.Fprintf(&b, "📋 Order #%d has been successfully delivered\n", order.Id)
		fmt.Fprintf(&b, "🏪 Restaurant: %s\n", order.RestaurantName)
		fmt.Fprintf(&b, "💰 Total: %s\n\n", total)
		b.WriteString("📱 The customer has been notified.\n")
		b.WriteString("🎉 Thank you for completing this order!")
	}
	return b.String()
}

// customerUpdateText is the message the customer receives after a transition.
func customerUpdateText(o *TransitionOutcome) string {
	order := o.Order
	total := lib.FormatRupees(order.TotalPaise)
	var b strings.Builder
	switch o.Action {
	case ActionAccept:
		b.WriteString("🎉 Great news! Your order has been confirmed!\n\n")
		fmt.Fprintf(&b, "📋 Order #%d\n", order.Id)
		fmt.Fprintf(&b, "🏪 %s\n", order.RestaurantName)
		fmt.Fprintf(&b, "💰 Total: %s\n\n", total)
		b.WriteString("⏱️ Your order is being prepared.\n")
		b.WriteString("We'll notify you when it's ready!")
	case ActionReject:
		b.WriteString("😔 Sorry, your order has been rejected.\n\n")
		fmt.Fprintf(&b, "📋 Order #%d\n", order.Id)
		fmt.Fprintf(&b, "🏪 %s\n", order.RestaurantName)
		fmt.Fprintf(&b, "💰 Total: %s\n\n", total)
		b.WriteString("Possible reasons:\n")
		b.WriteString("• Restaurant is too busy\n")
		b.WriteString("• Some items are unavailable\n")
		b.WriteString("• Delivery area issue\n\n")
		b.WriteString("Please try ordering again or contact the restaurant directly.")
	case ActionReady:
		b.WriteString("🍽️ Your order is ready!\n\n")
		fmt.Fprintf(&b, "📋 Order #%d\n", order.Id)
		fmt.Fprintf(&b, "🏪 %s\n", order.RestaurantName)
		fmt.Fprintf(&b, "📍 %s\n", order.RestaurantAddr)
		fmt.Fprintf(&b, "💰 Total: %s\n\n", total)
		if order.PaymentMethod == tables.PaymentMethodCOD {
			b.WriteString("💵 Payment: Cash on Delivery\n")
			fmt.Fprintf(&b, "Please have %s ready.\n\n", total)
		} else {
			fmt.Fprintf(&b, "💳 Payment: %s\n\n", order.PaymentMethod)
		}
		fmt.Fprintf(&b, "📞 Restaurant Contact: %s\n", orDefault(order.RestaurantPhone, "Not available"))
		b.WriteString("⏰ Please collect your order soon!")
	case ActionPaid:
		b.WriteString("💳 Payment confirmed!\n\n")
		fmt.Fprintf(&b, "📋 Order #%d\n", order.Id)
		fmt.Fprintf(&b, "🏪 %s\n", order.RestaurantName)
		fmt.Fprintf(&b, "💰 Total: %s\n", total)
		fmt.Fprintf(&b, "💵 Payment Method: %s\n\n", order.PaymentMethod)
		b.WriteString("✅ Your payment has been received and confirmed.\n")
		b.WriteString("Your order will be delivered shortly!")
	case ActionDelivered:
		b.WriteString("🎉 Order delivered successfully!\n\n")
		fmt.Fprintf(&b, "📋 Order #%d\n", order.Id)
		fmt.Fprintf(&b, "🏪 %s\n", order.RestaurantName)
		fmt.Fprintf(&b, "💰 Total: %s\n\n", total)
		b.WriteString("Thank you for ordering with us! 🙏\n")
		b.WriteString("We hope you enjoyed your meal.\n\n")
		b.WriteString("Please rate your experience and order again soon!")
	case ActionSetStatus:
		return dashboardStatusText(&order)
	case ActionSetPayment:
		return dashboardPaymentText(&order)
	}
	return b.String()
}

var statusUpdates = map[tables.OrderStatus]struct{ emoji, text string }{
	tables.OrderStatusConfirmed: {"✅", "Your order has been confirmed by the restaurant. It will be prepared shortly."},
	tables.OrderStatusPreparing: {"👨‍🍳", "Your order is now being prepared in the kitchen."},
	tables.OrderStatusReady:     {"📦", "Your order is ready! Please come to the restaurant to pick up your order/parcel."},
	tables.OrderStatusDelivered: {"🎉", "Your order has been picked up. Thank you for visiting us!"},
	tables.OrderStatusCancelled: {"❌", "Your order has been cancelled."},
}

var paymentUpdates = map[tables.PaymentStatus]struct{ emoji, text string }{
	tables.PaymentStatusPaid:     {"💰", "Your payment has been received. Thank you!"},
	tables.PaymentStatusRefunded: {"💸", "Your payment has been refunded."},
}

func dashboardFrame(emoji, title, body string, order *tables.OrderListing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Order #%d %s %s\n\n", emoji, order.Id, title, emoji)
	b.WriteString(body)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "🏪 Restaurant: %s\n", order.RestaurantName)
	fmt.Fprintf(&b, "💰 Total Amount: %s\n\n", lib.FormatRupees(order.TotalPaise))
	b.WriteString("Thank you for your order!")
	return b.String()
}

func dashboardStatusText(order *tables.OrderListing) string {
	update, ok := statusUpdates[order.Status]
	if !ok {
		update.emoji = "ℹ️"
		update.text = fmt.Sprintf("Your order status has been updated to: %s", order.Status)
	}
	return dashboardFrame(update.emoji, "Update", update.text, order)
}

func dashboardPaymentText(order *tables.OrderListing) string {
	update, ok := paymentUpdates[order.PaymentStatus]
	if !ok {
		update.emoji = "💱"
		update.text = fmt.Sprintf("Your payment status has been updated to: %s", order.PaymentStatus)
	}
	return dashboardFrame(update.emoji, "Payment Update", update.text, order)
}

// customerNotification builds the dashboard notification row for a transition.
func customerNotification(o *TransitionOutcome) *tables.Notification {
	order := o.Order
	n := &tables.Notification{UserId: order.UserId, OrderId: &o.Order.Id, Status: "pending"}
	switch o.Action {
	case ActionAccept:
		n.Type, n.Title = tables.NotificationOrderConfirmed, "Order Confirmed"
		n.Message = fmt.Sprintf("Your order #%d has been confirmed by %s", order.Id, order.RestaurantName)
	case ActionReject:
		n.Type, n.Title = tables.NotificationOrderRejected, "Order Rejected"
		n.Message = fmt.Sprintf("Your order #%d has been rejected by %s", order.Id, order.RestaurantName)
	case ActionReady:
		n.Type, n.Title = tables.NotificationOrderReady, "Order Ready"
		n.Message = fmt.Sprintf("Your order #%d is ready for pickup/delivery", order.Id)
	case ActionPaid:
		n.Type, n.Title = tables.NotificationPaymentConfirmed, "Payment Confirmed"
		n.Message = fmt.Sprintf("Payment for order #%d has been confirmed", order.Id)
	case ActionDelivered:
		n.Type, n.Title = tables.NotificationOrderDelivered, "Order Delivered"
		n.Message = fmt.Sprintf("Your order #%d has been delivered successfully", order.Id)
	case ActionSetPayment:
		n.Type = tables.NotificationOrderStatus
		n.Title = fmt.Sprintf("Order #%d Payment Updated", order.Id)
		n.Message = fmt.Sprintf("Order #%d payment status changed to '%s' by restaurant.", order.Id, order.PaymentStatus)
	default:
		n.Type = tables.NotificationOrderStatus
		n.Title = fmt.Sprintf("Order #%d Status Updated", order.Id)
		n.Message = fmt.Sprintf("Order #%d status changed to '%s' by restaurant.", order.Id, order.Status)
	}
	return n
}

func ordersListText(restaurant string, orders []tables.OrderListing, loc *time.Location) string {
	var b strings.Builder
	if len(orders) == 0 {
		b.WriteString("📋 No pending orders\n\n")
		fmt.Fprintf(&b, "🏪 %s\n", restaurant)
		b.WriteString("✅ All caught up! No orders waiting for action.\n\n")
		b.WriteString("Available commands:\n")
		b.WriteString("• ORDERS - Check pending orders\n")
		b.WriteString("• ACCEPT [id] - Accept order\n")
		b.WriteString("• REJECT [id] - Reject order\n")
		b.WriteString("• READY [id] - Mark as ready\n")
		b.WriteString("• PAID [id] - Confirm payment\n")
		b.WriteString("• DELIVERED [id] - Mark as delivered")
		return b.String()
	}

	fmt.Fprintf(&b, "📋 PENDING ORDERS (%d)\n\n", len(orders))
	fmt.Fprintf(&b, "🏪 %s\n\n", restaurant)
	for i, o := range orders {
		fmt.Fprintf(&b, "%d. Order #%d\n", i+1, o.Id)
		fmt.Fprintf(&b, "   👤 %s\n", orDefault(o.CustomerName, "Customer"))
		fmt.Fprintf(&b, "   📞 %s\n", orDefault(o.CustomerPhone, "N/A"))
		fmt.Fprintf(&b, "   💰 %s\n", lib.FormatRupees(o.TotalPaise))
		fmt.Fprintf(&b, "   📱 Status: %s\n", o.Status)
		fmt.Fprintf(&b, "   💳 Payment: %s (%s)\n", o.PaymentStatus, o.PaymentMethod)
		fmt.Fprintf(&b, "   ⏰ %s\n\n", o.CreatedAt.In(loc).Format("02/01/2006, 15:04:05"))
	}
	b.WriteString("Commands:\n")
	b.WriteString("• ACCEPT [id] - Accept pending order\n")
	b.WriteString("• REJECT [id] - Reject pending order\n")
	b.WriteString("• READY [id] - Mark confirmed order as ready\n")
	b.WriteString("• PAID [id] - Confirm payment received\n")
	b.WriteString("• DELIVERED [id] - Mark ready+paid order as delivered")
	return b.String()
}
