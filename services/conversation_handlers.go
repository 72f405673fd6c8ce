package services

import (
	"context"
	"errors"
	"fmt"
	"foodorder_server/lib"
	"foodorder_server/structs"
	"foodorder_server/structs/tables"
	"strconv"

	"github.com/MonkyMars/gecho"
)

// Numeric options. Selections in lists are 1-based; "0" means back wherever
// a back option is shown.
const (
	optBack = "0"
	opt1    = "1"
	opt2    = "2"
	opt3    = "3"
	opt4    = "4"
)

// selection resolves a 1-based choice against a list of n entries and
// returns the zero-based index.
func selection(input string, n int) (int, bool) {
	v, err := strconv.Atoi(input)
	if err != nil || v < 1 || v > n {
		return 0, false
	}
	return v - 1, true
}

func (cs *ConversationService) handleName(ctx context.Context, s *structs.Session, input string) error {
	if isGreeting(input) {
		cs.reply(ctx, s.Phone, msgGreetingReprompt)
		return nil
	}
	s.Name = input
	s.State = structs.StateAskLocation
	cs.reply(ctx, s.Phone, askLocationText(input))
	return nil
}

func (cs *ConversationService) handleLocation(ctx context.Context, s *structs.Session, input string) error {
	s.Location = input
	s.State = structs.StateWelcome
	cs.reply(ctx, s.Phone, chooseRestaurantText(input))
	return cs.showRestaurants(ctx, s)
}

func (cs *ConversationService) handleWelcome(ctx context.Context, s *structs.Session, _ string) error {
	return cs.showRestaurants(ctx, s)
}

// showRestaurants lists every restaurant, snapshots the list and empties the cart.
func (cs *ConversationService) showRestaurants(ctx context.Context, s *structs.Session) error {
	restaurants, err := cs.store.ListRestaurants(ctx)
	if err != nil {
		cs.logger.Error("Failed to list restaurants", gecho.Field("error", err), gecho.Field("phone", s.Phone))
		cs.reply(ctx, s.Phone, msgListError)
		return nil
	}
	if len(restaurants) == 0 {
		cs.reply(ctx, s.Phone, msgNoRestaurants)
		return nil
	}

	s.Restaurants = make([]structs.RestaurantSnapshot, len(restaurants))
	for i, r := range restaurants {
		s.Restaurants[i] = structs.RestaurantSnapshot{
			Id:      r.Id,
			OwnerId: r.OwnerId,
			Name:    r.Name,
			Address: r.Address,
			Phone:   r.Phone,
		}
	}
	s.ClearCart()
	s.State = structs.StateRestaurantSelection
	cs.reply(ctx, s.Phone, restaurantListText(s.Restaurants))
	return nil
}

func (cs *ConversationService) handleRestaurantSelection(ctx context.Context, s *structs.Session, input string) error {
	idx, ok := selection(input, len(s.Restaurants))
	if !ok {
		cs.reply(ctx, s.Phone, msgInvalidRestaurant)
		return nil
	}
	selected := s.Restaurants[idx]
	s.SelectedRestaurant = &selected
	s.State = structs.StateMenuBrowsing
	cs.reply(ctx, s.Phone, restaurantOptionsText(s.SelectedRestaurant, s.CartItemCount()))
	return nil
}

func (cs *ConversationService) handleMenuBrowsing(ctx context.Context, s *structs.Session, input string) error {
	switch input {
	case opt1:
		return cs.showCategories(ctx, s)
	case opt2:
		cs.showCart(ctx, s)
	case opt3:
		return cs.showRestaurants(ctx, s)
	default:
		cs.reply(ctx, s.Phone, msgMenuOptions)
	}
	return nil
}

// showCategories loads the selected restaurant's menu and lists its
// categories in the order they first appear.
func (cs *ConversationService) showCategories(ctx context.Context, s *structs.Session) error {
	if s.SelectedRestaurant == nil {
		cs.reply(ctx, s.Phone, msgMenuLoadError)
		s.State = structs.StateWelcome
		return cs.showRestaurants(ctx, s)
	}

	items, err := cs.store.ListMenuItems(ctx, s.SelectedRestaurant.Id)
	if err != nil {
		cs.logger.Error("Failed to load menu",
			gecho.Field("error", err),
			gecho.Field("restaurant_id", s.SelectedRestaurant.Id),
			gecho.Field("phone", s.Phone),
		)
		cs.reply(ctx, s.Phone, msgMenuLoadError)
		s.State = structs.StateWelcome
		return cs.showRestaurants(ctx, s)
	}
	if len(items) == 0 {
		cs.reply(ctx, s.Phone, msgNoMenuItems)
		return nil
	}

	seen := make(map[string]bool)
	s.Categories = s.Categories[:0]
	s.MenuItems = make([]structs.MenuItemSnapshot, len(items))
	for i, item := range items {
		s.MenuItems[i] = structs.MenuItemSnapshot{
			Id:          item.Id,
			Name:        item.Name,
			Description: item.Description,
			Category:    item.Category,
			PricePaise:  item.PricePaise,
		}
		if !seen[item.Category] {
			seen[item.Category] = true
			s.Categories = append(s.Categories, item.Category)
		}
	}

	s.State = structs.StateCategorySelection
	cs.reply(ctx, s.Phone, categoriesText(s.SelectedRestaurant.Name, s.Categories))
	return nil
}

func (cs *ConversationService) handleCategorySelection(ctx context.Context, s *structs.Session, input string) error {
	if input == optBack {
		s.State = structs.StateMenuBrowsing
		if s.SelectedRestaurant == nil {
			return cs.showRestaurants(ctx, s)
		}
		cs.reply(ctx, s.Phone, restaurantOptionsText(s.SelectedRestaurant, s.CartItemCount()))
		return nil
	}

	idx, ok := selection(input, len(s.Categories))
	if !ok {
		cs.reply(ctx, s.Phone, msgInvalidCategory)
		return nil
	}

	category := s.Categories[idx]
	s.CurrentCategoryItems = s.CurrentCategoryItems[:0]
	for _, item := range s.MenuItems {
		if item.Category == category {
			s.CurrentCategoryItems = append(s.CurrentCategoryItems, item)
		}
	}
	s.State = structs.StateItemSelection
	cs.reply(ctx, s.Phone, categoryItemsText(category, s.CurrentCategoryItems))
	return nil
}

func (cs *ConversationService) handleItemSelection(ctx context.Context, s *structs.Session, input string) error {
	if input == optBack {
		return cs.showCategories(ctx, s)
	}

	idx, ok := selection(input, len(s.CurrentCategoryItems))
	if !ok {
		cs.reply(ctx, s.Phone, msgInvalidItem)
		return nil
	}

	item := s.CurrentCategoryItems[idx]
	s.AddToCart(item)
	s.State = structs.StateCartManagement
	cs.reply(ctx, s.Phone, itemAddedText(item, s))
	return nil
}

// showCart lists the cart and switches to the cart view options. An empty
// cart leaves the state unchanged.
func (cs *ConversationService) showCart(ctx context.Context, s *structs.Session) {
	if len(s.Cart) == 0 {
		cs.reply(ctx, s.Phone, msgCartEmpty)
		return
	}
	s.State = structs.StateCartView
	cs.reply(ctx, s.Phone, cartText(s))
}

func (cs *ConversationService) showDeleteList(ctx context.Context, s *structs.Session) {
	if len(s.Cart) == 0 {
		cs.reply(ctx, s.Phone, msgCartEmpty)
		return
	}
	s.State = structs.StateDeleteItemSelection
	cs.reply(ctx, s.Phone, deleteListText(s))
}

// handleCartManagement follows an item being added or removed.
func (cs *ConversationService) handleCartManagement(ctx context.Context, s *structs.Session, input string) error {
	switch input {
	case opt1:
		return cs.showCategories(ctx, s)
	case opt2:
		cs.showCart(ctx, s)
	case opt3:
		cs.showDeleteList(ctx, s)
	case opt4:
		return cs.checkout(ctx, s)
	default:
		cs.reply(ctx, s.Phone, msgCartOptions)
	}
	return nil
}

// handleCartView follows the cart listing.
func (cs *ConversationService) handleCartView(ctx context.Context, s *structs.Session, input string) error {
	switch input {
	case opt1:
		return cs.showCategories(ctx, s)
	case opt2:
		return cs.checkout(ctx, s)
	case opt3:
		cs.showDeleteList(ctx, s)
	case opt4:
		s.ClearCart()
		s.State = structs.StateMenuBrowsing
		cs.reply(ctx, s.Phone, msgCartCleared)
	default:
		cs.reply(ctx, s.Phone, msgCartOptions)
	}
	return nil
}

func (cs *ConversationService) handleDeleteItemSelection(ctx context.Context, s *structs.Session, input string) error {
	if input == optBack {
		cs.showCart(ctx, s)
		return nil
	}

	idx, ok := selection(input, len(s.Cart))
	if !ok {
		cs.reply(ctx, s.Phone, msgInvalidDelete)
		return nil
	}

	removed, _ := s.RemoveCartLine(idx)
	if len(s.Cart) == 0 {
		s.State = structs.StateMenuBrowsing
	} else {
		s.State = structs.StateCartManagement
	}
	cs.reply(ctx, s.Phone, itemRemovedText(removed, s))
	return nil
}

// checkout snapshots the cart total and asks for a payment method.
func (cs *ConversationService) checkout(ctx context.Context, s *structs.Session) error {
	if len(s.Cart) == 0 {
		cs.reply(ctx, s.Phone, msgCheckoutEmpty)
		return nil
	}
	if s.SelectedRestaurant == nil {
		return cs.showRestaurants(ctx, s)
	}

	s.TotalPaise = s.CartTotal()
	s.State = structs.StatePaymentSelection
	cs.reply(ctx, s.Phone, orderSummaryText(s))
	return nil
}

var paymentOptions = map[string]tables.PaymentMethod{
	opt1: tables.PaymentMethodCOD,
	opt2: tables.PaymentMethodUPI,
}

func (cs *ConversationService) handlePaymentSelection(ctx context.Context, s *structs.Session, input string) error {
	if s.Name == "" || s.Location == "" {
		cs.reply(ctx, s.Phone, msgMissingDetails)
		s.State = structs.StateAskName
		return nil
	}

	method, ok := paymentOptions[input]
	if !ok {
		cs.reply(ctx, s.Phone, msgInvalidPayment)
		return nil
	}

	if len(s.Cart) == 0 || s.SelectedRestaurant == nil {
		s.State = structs.StateMenuBrowsing
		cs.reply(ctx, s.Phone, msgCheckoutEmpty)
		return nil
	}

	placed, err := cs.placeOrder(ctx, s, method)
	if err != nil {
		cs.logger.Error("Failed to place order",
			gecho.Field("error", err),
			gecho.Field("phone", s.Phone),
			gecho.Field("restaurant_id", s.SelectedRestaurant.Id),
		)
		s.State = structs.StatePaymentSelection
		cs.reply(ctx, s.Phone, msgPaymentError)
		return nil
	}

	cs.metrics.ObserveOrderPlaced(string(method))
	cs.logger.Info("Order placed",
		gecho.Field("order_id", placed.Order.Id),
		gecho.Field("phone", s.Phone),
		gecho.Field("restaurant_id", placed.Restaurant.Id),
		gecho.Field("total_paise", placed.Order.TotalPaise),
		gecho.Field("payment_method", string(method)),
	)

	cs.reply(ctx, s.Phone, orderPlacedText(method, placed.Order.TotalPaise, s.Location, cs.cfg.UPIPaymentID))
	cs.notifier.OrderPlaced(ctx, placed)

	s.ClearCart()
	s.State = structs.StateWelcome
	return nil
}

// customerAccount finds the account for the session's phone or creates a
// messaging-origin account without a password.
func (cs *ConversationService) customerAccount(ctx context.Context, s *structs.Session) (*tables.User, error) {
	user, err := cs.store.FindUserByPhone(ctx, s.Phone)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user, err = cs.store.CreateUser(ctx, &tables.User{
		Name:  s.Name,
		Phone: s.Phone,
		Role:  tables.RoleCustomer,
	})
	if errors.Is(err, lib.ErrConflict) {
		// created concurrently
		return cs.store.FindUserByPhone(ctx, s.Phone)
	}
	return user, err
}

func (cs *ConversationService) placeOrder(ctx context.Context, s *structs.Session, method tables.PaymentMethod) (*PlacedOrder, error) {
	user, err := cs.customerAccount(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve customer: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("customer %s vanished after create", s.Phone)
	}

	order := &tables.Order{
		UserId:          user.Id,
		RestaurantId:    s.SelectedRestaurant.Id,
		TotalPaise:      s.TotalPaise,
		DeliveryAddress: s.Location,
		Notes:           orderNotes(s.Name, s.Phone),
		Status:          tables.OrderStatusPending,
		PaymentStatus:   tables.PaymentStatusPending,
		PaymentMethod:   method,
	}
	items := make([]tables.OrderItem, len(s.Cart))
	for i, line := range s.Cart {
		items[i] = tables.OrderItem{
			MenuItemId: line.MenuItemId,
			Quantity:   line.Quantity,
			ItemName:   line.Name,
			PricePaise: line.PricePaise,
		}
	}

	created, err := cs.store.PlaceOrder(ctx, order, items)
	if err != nil {
		return nil, err
	}

	return &PlacedOrder{
		Order:         *created,
		Items:         items,
		Restaurant:    *s.SelectedRestaurant,
		CustomerName:  s.Name,
		CustomerPhone: s.Phone,
	}, nil
}
