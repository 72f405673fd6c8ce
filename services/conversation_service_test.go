package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"foodorder_server/lib"
	"foodorder_server/structs"
	"foodorder_server/structs/tables"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customerAddress = "whatsapp:+919876543210"

func (h *testHarness) say(t *testing.T, text string) {
	t.Helper()
	err := h.conversation.HandleInbound(context.Background(), structs.InboundMessage{From: customerAddress, Body: text})
	require.NoError(t, err)
}

func (h *testHarness) session(t *testing.T) *structs.Session {
	t.Helper()
	s, err := h.sessions.Get(context.Background(), customerPhone)
	require.NoError(t, err)
	require.NotNil(t, s)
	return s
}

// toMenu walks a new customer up to the restaurant options of Spice Hub.
func (h *testHarness) toMenu(t *testing.T) {
	t.Helper()
	for _, text := range []string{"Hello", "Asha", "Pune", "1"} {
		h.say(t, text)
	}
	require.Equal(t, structs.StateMenuBrowsing, h.session(t).State)
}

func TestConversation_FullOrderCOD(t *testing.T) {
	h := newHarness()

	h.say(t, "Hello")
	assert.Equal(t, structs.StateAskName, h.session(t).State)
	assert.Equal(t, []string{msgHello, msgGreetingReprompt}, h.messenger.to(customerPhone))

	h.say(t, "Asha")
	s := h.session(t)
	assert.Equal(t, structs.StateAskLocation, s.State)
	assert.Equal(t, "Asha", s.Name)
	assert.Equal(t, askLocationText("Asha"), h.messenger.last(customerPhone))

	h.say(t, "Pune")
	s = h.session(t)
	assert.Equal(t, structs.StateRestaurantSelection, s.State)
	assert.Equal(t, "Pune", s.Location)
	require.Len(t, s.Restaurants, 2)
	replies := h.messenger.to(customerPhone)
	assert.Equal(t, chooseRestaurantText("Pune"), replies[len(replies)-2])
	assert.Contains(t, replies[len(replies)-1], "1. 🏪 Spice Hub")

	h.say(t, "1")
	s = h.session(t)
	assert.Equal(t, structs.StateMenuBrowsing, s.State)
	require.NotNil(t, s.SelectedRestaurant)
	assert.Equal(t, spiceHubID, s.SelectedRestaurant.Id)

	h.say(t, "2")
	assert.Equal(t, msgCartEmpty, h.messenger.last(customerPhone))
	assert.Equal(t, structs.StateMenuBrowsing, h.session(t).State)

	h.say(t, "1")
	s = h.session(t)
	assert.Equal(t, structs.StateCategorySelection, s.State)
	assert.Equal(t, []string{"Biryanis", "Starters", "Beverages"}, s.Categories)

	h.say(t, "1")
	s = h.session(t)
	assert.Equal(t, structs.StateItemSelection, s.State)
	require.Len(t, s.CurrentCategoryItems, 2)
	assert.Contains(t, h.messenger.last(customerPhone), "1. Chicken Biryani\n   💰 ₹250")

	h.say(t, "1")
	s = h.session(t)
	assert.Equal(t, structs.StateCartManagement, s.State)
	require.Len(t, s.Cart, 1)
	assert.Equal(t, int64(25000), s.CartTotal())

	h.say(t, "4")
	s = h.session(t)
	assert.Equal(t, structs.StatePaymentSelection, s.State)
	assert.Equal(t, int64(25000), s.TotalPaise)
	assert.Contains(t, h.messenger.last(customerPhone), "💰 Total Amount: ₹250")

	h.say(t, "1")
	s = h.session(t)
	assert.Equal(t, structs.StateWelcome, s.State)
	assert.Empty(t, s.Cart)
	assert.Zero(t, s.TotalPaise)

	require.Len(t, h.store.orders, 1)
	order := h.store.orders[0]
	assert.Equal(t, tables.OrderStatusPending, order.Status)
	assert.Equal(t, tables.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, tables.PaymentMethodCOD, order.PaymentMethod)
	assert.Equal(t, int64(25000), order.TotalPaise)
	assert.Equal(t, spiceHubID, order.RestaurantId)
	assert.Equal(t, "Pune", order.DeliveryAddress)
	assert.Equal(t, "Order placed via WhatsApp by Asha (9876543210)", order.Notes)

	require.Len(t, h.store.orderItems, 1)
	assert.Equal(t, "Chicken Biryani", h.store.orderItems[0].ItemName)
	assert.Equal(t, int64(25000), h.store.orderItems[0].PricePaise)

	customer, err := h.store.FindUserByPhone(context.Background(), customerPhone)
	require.NoError(t, err)
	require.NotNil(t, customer)
	assert.Equal(t, "Asha", customer.Name)
	assert.Equal(t, tables.RoleCustomer, customer.Role)
	assert.Nil(t, customer.PasswordHash)
	assert.Equal(t, customer.Id, order.UserId)

	assert.Equal(t, orderPlacedText(tables.PaymentMethodCOD, 25000, "Pune", "7032107890-2@ibl"), h.messenger.last(customerPhone))

	alert := h.messenger.last(ownerPhone)
	assert.Contains(t, alert, "🚨 NEW ORDER ALERT! 🚨")
	assert.Contains(t, alert, "• Chicken Biryani x1")
	notes := h.store.notificationsFor(ownerID)
	require.Len(t, notes, 1)
	assert.Equal(t, tables.NotificationOrderPlaced, notes[0].Type)
	assert.Equal(t, fmt.Sprintf("Order #%d has been placed by Asha (₹250)", order.Id), notes[0].Message)
	assert.Equal(t, order.Id, *notes[0].OrderId)
}

func TestConversation_UPIConfirmationCarriesPaymentID(t *testing.T) {
	h := newHarness()
	h.toMenu(t)
	for _, text := range []string{"1", "1", "1", "4", "2"} {
		h.say(t, text)
	}

	require.Len(t, h.store.orders, 1)
	assert.Equal(t, tables.PaymentMethodUPI, h.store.orders[0].PaymentMethod)
	reply := h.messenger.last(customerPhone)
	assert.Contains(t, reply, "📱 Payment Method: UPI")
	assert.Contains(t, reply, "7032107890-2@ibl")
}

func TestConversation_FirstMessageIsHandledAsName(t *testing.T) {
	h := newHarness()

	h.say(t, "Asha")
	s := h.session(t)
	assert.Equal(t, structs.StateAskLocation, s.State)
	assert.Equal(t, "Asha", s.Name)
	assert.Equal(t, []string{msgHello, askLocationText("Asha")}, h.messenger.to(customerPhone))
}

func TestConversation_FirstEmptyMessageOnlyGreets(t *testing.T) {
	h := newHarness()

	err := h.conversation.HandleInbound(context.Background(), structs.InboundMessage{From: customerAddress})
	require.NoError(t, err)
	assert.Equal(t, structs.StateAskName, h.session(t).State)
	assert.Equal(t, []string{msgHello}, h.messenger.to(customerPhone))
}

func TestConversation_GreetingAtNamePrompt(t *testing.T) {
	h := newHarness()
	h.say(t, "Hi")
	h.say(t, "hey")

	s := h.session(t)
	assert.Equal(t, structs.StateAskName, s.State)
	assert.Empty(t, s.Name)
	assert.Equal(t, msgGreetingReprompt, h.messenger.last(customerPhone))
}

func TestConversation_InvalidSelectionsKeepState(t *testing.T) {
	tests := []struct {
		name  string
		setup []string
		input string
		state structs.ConversationState
		reply string
	}{
		{"restaurant out of range", []string{"Hello", "Asha", "Pune"}, "9", structs.StateRestaurantSelection, msgInvalidRestaurant},
		{"restaurant not a number", []string{"Hello", "Asha", "Pune"}, "abc", structs.StateRestaurantSelection, msgInvalidRestaurant},
		{"menu option", []string{"Hello", "Asha", "Pune", "1"}, "7", structs.StateMenuBrowsing, msgMenuOptions},
		{"category", []string{"Hello", "Asha", "Pune", "1", "1"}, "4", structs.StateCategorySelection, msgInvalidCategory},
		{"item", []string{"Hello", "Asha", "Pune", "1", "1", "1"}, "3", structs.StateItemSelection, msgInvalidItem},
		{"cart option", []string{"Hello", "Asha", "Pune", "1", "1", "1", "1"}, "5", structs.StateCartManagement, msgCartOptions},
		{"payment option", []string{"Hello", "Asha", "Pune", "1", "1", "1", "1", "4"}, "3", structs.StatePaymentSelection, msgInvalidPayment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			for _, text := range tt.setup {
				h.say(t, text)
			}
			h.say(t, tt.input)
			assert.Equal(t, tt.state, h.session(t).State)
			assert.Equal(t, tt.reply, h.messenger.last(customerPhone))
			assert.Empty(t, h.store.orders)
		})
	}
}

func TestConversation_BackNavigation(t *testing.T) {
	h := newHarness()
	h.toMenu(t)

	h.say(t, "1")
	h.say(t, "0")
	s := h.session(t)
	assert.Equal(t, structs.StateMenuBrowsing, s.State)
	assert.Contains(t, h.messenger.last(customerPhone), "✅ Great choice! You selected:")

	h.say(t, "1")
	h.say(t, "2")
	h.say(t, "0")
	assert.Equal(t, structs.StateCategorySelection, h.session(t).State)

	h.say(t, "3")
	h.say(t, "0")
	assert.Equal(t, structs.StateCategorySelection, h.session(t).State)
}

func TestConversation_RepeatedItemMergesIntoOneLine(t *testing.T) {
	h := newHarness()
	h.toMenu(t)
	for _, text := range []string{"1", "1", "1", "1", "1", "1"} {
		h.say(t, text)
	}

	s := h.session(t)
	require.Len(t, s.Cart, 1)
	assert.Equal(t, 2, s.Cart[0].Quantity)
	assert.Equal(t, int64(50000), s.CartTotal())
	assert.Contains(t, h.messenger.last(customerPhone), "🛒 Current Cart: 1 items")
}

func TestConversation_CartViewAndClear(t *testing.T) {
	h := newHarness()
	h.toMenu(t)
	for _, text := range []string{"1", "1", "1", "1", "2", "1"} {
		h.say(t, text)
	}

	s := h.session(t)
	require.Len(t, s.Cart, 2)
	assert.Equal(t, structs.StateCartManagement, s.State)

	h.say(t, "2")
	s = h.session(t)
	assert.Equal(t, structs.StateCartView, s.State)
	cart := h.messenger.last(customerPhone)
	assert.Contains(t, cart, "🛒 Your Cart:")
	assert.Contains(t, cart, "💵 Total: ₹430")

	h.say(t, "4")
	s = h.session(t)
	assert.Equal(t, structs.StateMenuBrowsing, s.State)
	assert.Empty(t, s.Cart)
	assert.Equal(t, msgCartCleared, h.messenger.last(customerPhone))
}

func TestConversation_DeleteItems(t *testing.T) {
	h := newHarness()
	h.toMenu(t)
	for _, text := range []string{"1", "1", "1", "1", "2", "1"} {
		h.say(t, text)
	}

	h.say(t, "3")
	assert.Equal(t, structs.StateDeleteItemSelection, h.session(t).State)

	h.say(t, "5")
	assert.Equal(t, msgInvalidDelete, h.messenger.last(customerPhone))
	assert.Equal(t, structs.StateDeleteItemSelection, h.session(t).State)

	h.say(t, "1")
	s := h.session(t)
	assert.Equal(t, structs.StateCartManagement, s.State)
	require.Len(t, s.Cart, 1)
	assert.Equal(t, "Paneer Tikka", s.Cart[0].Name)
	assert.Contains(t, h.messenger.last(customerPhone), "❌ Chicken Biryani (₹250 x 1)")

	h.say(t, "3")
	h.say(t, "1")
	s = h.session(t)
	assert.Equal(t, structs.StateMenuBrowsing, s.State)
	assert.Empty(t, s.Cart)
	assert.Contains(t, h.messenger.last(customerPhone), "🛒 Your cart is now empty!")
}

func TestConversation_ChangeRestaurantEmptiesCart(t *testing.T) {
	h := newHarness()
	h.toMenu(t)
	for _, text := range []string{"1", "1", "1", "2"} {
		h.say(t, text)
	}
	require.Equal(t, structs.StateCartView, h.session(t).State)

	// Clearing brings the customer back to the restaurant options where 3 relists.
	h.say(t, "4")
	h.say(t, "3")
	s := h.session(t)
	assert.Equal(t, structs.StateRestaurantSelection, s.State)
	assert.Empty(t, s.Cart)
}

func TestConversation_PlaceOrderFailureKeepsPaymentSelection(t *testing.T) {
	h := newHarness()
	h.toMenu(t)
	for _, text := range []string{"1", "1", "1", "4"} {
		h.say(t, text)
	}

	h.store.placeOrderErr = errBoom
	h.say(t, "1")

	s := h.session(t)
	assert.Equal(t, structs.StatePaymentSelection, s.State)
	assert.Len(t, s.Cart, 1)
	assert.Equal(t, msgPaymentError, h.messenger.last(customerPhone))
	assert.Empty(t, h.store.orders)
	assert.Empty(t, h.messenger.to(ownerPhone))

	h.store.placeOrderErr = nil
	h.say(t, "1")
	assert.Len(t, h.store.orders, 1)
	assert.Equal(t, structs.StateWelcome, h.session(t).State)
}

func TestConversation_MissingDetailsRestarts(t *testing.T) {
	h := newHarness()
	s := structs.NewSession(customerPhone)
	s.State = structs.StatePaymentSelection
	s.Cart = []structs.CartLine{{MenuItemId: 100, Name: "Chicken Biryani", PricePaise: 25000, Quantity: 1}}
	require.NoError(t, h.sessions.Save(context.Background(), s))

	h.say(t, "1")

	assert.Equal(t, structs.StateAskName, h.session(t).State)
	assert.Equal(t, msgMissingDetails, h.messenger.last(customerPhone))
	assert.Empty(t, h.store.orders)
}

func TestConversation_NoRestaurants(t *testing.T) {
	h := newHarness()
	h.store.restaurants = nil
	for _, text := range []string{"Hello", "Asha", "Pune"} {
		h.say(t, text)
	}

	assert.Equal(t, structs.StateWelcome, h.session(t).State)
	assert.Equal(t, msgNoRestaurants, h.messenger.last(customerPhone))
}

func TestConversation_MenuLoadErrorRelistsRestaurants(t *testing.T) {
	h := newHarness()
	h.toMenu(t)
	h.store.listMenuErr = errBoom

	h.say(t, "1")

	replies := h.messenger.to(customerPhone)
	assert.Equal(t, msgMenuLoadError, replies[len(replies)-2])
	assert.Equal(t, structs.StateRestaurantSelection, h.session(t).State)
}

func TestConversation_EmptyBodyIsRejected(t *testing.T) {
	h := newHarness()
	h.say(t, "Hello")

	err := h.conversation.HandleInbound(context.Background(), structs.InboundMessage{From: customerAddress, Body: "   "})
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Equal(t, structs.StateAskName, h.session(t).State)
}

func TestConversation_InvalidSender(t *testing.T) {
	h := newHarness()
	err := h.conversation.HandleInbound(context.Background(), structs.InboundMessage{From: "whatsapp:", Body: "Hello"})
	assert.ErrorIs(t, err, lib.ErrInvalidPhone)
	assert.Empty(t, h.messenger.sent)
}

func TestConversation_ButtonPayloadIsLogged(t *testing.T) {
	h := newHarness()
	h.say(t, "Hello")

	err := h.conversation.HandleInbound(context.Background(), structs.InboundMessage{
		From:          customerAddress,
		ButtonPayload: "Asha",
		MessageSid:    "SM1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Asha", h.session(t).Name)
	last := h.store.messages[len(h.store.messages)-1]
	assert.Equal(t, tables.MessageButtonReply, last.Type)
	assert.Equal(t, "SM1", last.MessageSid)
	assert.Equal(t, customerPhone, last.Phone)
}

func TestConversation_OperatorNeverGetsSession(t *testing.T) {
	h := newHarness()

	err := h.conversation.HandleInbound(context.Background(), structs.InboundMessage{From: "whatsapp:+91" + ownerPhone, Body: "Hello"})
	require.NoError(t, err)

	s, err := h.sessions.Get(context.Background(), ownerPhone)
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.Equal(t, msgOwnerHelp, h.messenger.last(ownerPhone))
}

func TestConversation_Apologize(t *testing.T) {
	h := newHarness()

	h.conversation.Apologize(context.Background(), customerAddress)
	h.conversation.Apologize(context.Background(), "whatsapp:")

	assert.Equal(t, []string{msgGenericError}, h.messenger.to(customerPhone))
	assert.Len(t, h.messenger.sent, 1)
}

func TestConversation_StartOrderingFlow(t *testing.T) {
	h := newHarness()
	h.toMenu(t)
	h.messenger.reset()

	require.NoError(t, h.conversation.StartOrderingFlow(context.Background(), "98765 43210"))

	s := h.session(t)
	assert.Equal(t, structs.StateAskName, s.State)
	assert.Empty(t, s.Name)
	assert.Nil(t, s.SelectedRestaurant)
	assert.Equal(t, []string{msgHello}, h.messenger.to(customerPhone))

	// The next message is taken as the name.
	h.say(t, "Asha")
	assert.Equal(t, structs.StateAskLocation, h.session(t).State)
}

func TestConversation_StartOrderingFlowRejectsBadPhone(t *testing.T) {
	h := newHarness()
	err := h.conversation.StartOrderingFlow(context.Background(), "12345")
	assert.ErrorIs(t, err, lib.ErrInvalidPhone)
	assert.Empty(t, h.messenger.sent)
}

func TestConversation_SendMessage(t *testing.T) {
	h := newHarness()

	receipt, err := h.conversation.SendMessage(context.Background(), "9876543210", "Your table is ready")
	require.NoError(t, err)
	assert.True(t, receipt.Simulated)
	assert.Equal(t, "Your table is ready", h.messenger.last(customerPhone))

	_, err = h.conversation.SendMessage(context.Background(), "98765", "x")
	assert.ErrorIs(t, err, lib.ErrInvalidPhone)
}

func TestConversation_SendFailureDoesNotBlockProgress(t *testing.T) {
	h := newHarness()
	h.say(t, "Hello")
	h.messenger.err = errBoom

	h.say(t, "Asha")
	assert.Equal(t, structs.StateAskLocation, h.session(t).State)
}

func TestConversation_ConcurrentMessagesAreSerialised(t *testing.T) {
	h := newHarness()
	h.say(t, "Hello")
	h.say(t, "Asha")
	h.say(t, "Pune")
	h.say(t, "1")
	h.say(t, "1")
	h.say(t, "1")

	// Each run of three "1"s adds the first item, reopens the categories and
	// picks the first one again. Serialised handling sees every step in order.
	var wg sync.WaitGroup
	for range 9 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h.conversation.HandleInbound(context.Background(), structs.InboundMessage{From: customerAddress, Body: "1"})
		}()
	}
	wg.Wait()

	s := h.session(t)
	total := 0
	for _, line := range s.Cart {
		total += line.Quantity
	}
	assert.Equal(t, 3, total)
	assert.Equal(t, structs.StateItemSelection, s.State)
	assert.Equal(t, 0, h.conversation.locks.size())
}
