package services

import (
	"context"
	"errors"
	"foodorder_server/lib"
	"foodorder_server/structs"
	"foodorder_server/structs/tables"
	"slices"
	"sync"
	"time"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	mu sync.Mutex

	users         []tables.User
	restaurants   []tables.Restaurant
	menu          []tables.MenuItem
	orders        []tables.Order
	orderItems    []tables.OrderItem
	messages      []tables.Message
	notifications []tables.Notification

	nextID  int64
	updates int

	placeOrderErr      error
	listRestaurantsErr error
	listMenuErr        error
	notificationErr    error
}

var _ Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{nextID: 1000}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) FindUserByPhone(_ context.Context, phone string) (*tables.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Phone == phone {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindUserByID(_ context.Context, id int64) (*tables.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Id == id {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateUser(_ context.Context, user *tables.User) (*tables.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Phone == user.Phone {
			return nil, lib.ErrConflict
		}
	}
	user.Id = m.id()
	user.CreatedAt = time.Now()
	m.users = append(m.users, *user)
	return user, nil
}

func (m *memStore) ListRestaurants(context.Context) ([]tables.Restaurant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listRestaurantsErr != nil {
		return nil, m.listRestaurantsErr
	}
	return slices.Clone(m.restaurants), nil
}

func (m *memStore) FindRestaurantsByOwner(_ context.Context, ownerID int64) ([]tables.Restaurant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []tables.Restaurant
	for _, r := range m.restaurants {
		if r.OwnerId == ownerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) ListMenuItems(_ context.Context, restaurantID int64) ([]tables.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listMenuErr != nil {
		return nil, m.listMenuErr
	}
	var out []tables.MenuItem
	for _, item := range m.menu {
		if item.RestaurantId == restaurantID && item.IsAvailable {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *memStore) PlaceOrder(_ context.Context, order *tables.Order, items []tables.OrderItem) (*tables.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.placeOrderErr != nil {
		return nil, m.placeOrderErr
	}
	order.Id = m.id()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	m.orders = append(m.orders, *order)
	for i := range items {
		items[i].Id = m.id()
		items[i].OrderId = order.Id
		m.orderItems = append(m.orderItems, items[i])
	}
	return order, nil
}

func (m *memStore) listing(o tables.Order) tables.OrderListing {
	l := tables.OrderListing{Order: o}
	for _, u := range m.users {
		if u.Id == o.UserId {
			l.CustomerName = u.Name
			l.CustomerPhone = u.Phone
		}
	}
	for _, r := range m.restaurants {
		if r.Id == o.RestaurantId {
			l.RestaurantName = r.Name
			l.RestaurantAddr = r.Address
			l.RestaurantPhone = r.Phone
			l.OwnerId = r.OwnerId
		}
	}
	return l
}

func (m *memStore) FindOrderListing(_ context.Context, id int64) (*tables.OrderListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.Id == id {
			l := m.listing(o)
			return &l, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListOrderItems(_ context.Context, orderID int64) ([]tables.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []tables.OrderItem
	for _, item := range m.orderItems {
		if item.OrderId == orderID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *memStore) UpdateOrder(_ context.Context, id int64, update OrderUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].Id != id {
			continue
		}
		if update.Status != nil {
			m.orders[i].Status = *update.Status
		}
		if update.PaymentStatus != nil {
			m.orders[i].PaymentStatus = *update.PaymentStatus
		}
		m.orders[i].UpdatedAt = time.Now()
		m.updates++
		return nil
	}
	return lib.ErrNotFound
}

func (m *memStore) ListOrdersByRestaurant(_ context.Context, restaurantID int64, statuses []tables.OrderStatus) ([]tables.OrderListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []tables.OrderListing
	for i := len(m.orders) - 1; i >= 0; i-- {
		o := m.orders[i]
		if o.RestaurantId == restaurantID && slices.Contains(statuses, o.Status) {
			out = append(out, m.listing(o))
		}
	}
	return out, nil
}

func (m *memStore) LogMessage(_ context.Context, msg *tables.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.Id = m.id()
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *memStore) CreateNotification(_ context.Context, n *tables.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.notificationErr != nil {
		return m.notificationErr
	}
	n.Id = m.id()
	m.notifications = append(m.notifications, *n)
	return nil
}

func (m *memStore) order(id int64) tables.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.Id == id {
			return o
		}
	}
	return tables.Order{}
}

func (m *memStore) addOrder(o tables.Order) tables.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.Id == 0 {
		o.Id = m.id()
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = tables.PaymentStatusPending
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = tables.PaymentMethodCOD
	}
	o.CreatedAt = time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC)
	m.orders = append(m.orders, o)
	return o
}

func (m *memStore) notificationsFor(userID int64) []tables.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []tables.Notification
	for _, n := range m.notifications {
		if n.UserId == userID {
			out = append(out, n)
		}
	}
	return out
}

const (
	ownerPhone      = "9000000001"
	otherOwnerPhone = "9000000002"
	customerPhone   = "9876543210"

	ownerID      int64 = 1
	otherOwnerID int64 = 2
	customerID   int64 = 3

	spiceHubID   int64 = 10
	otherPlaceID int64 = 20
)

// seededStore holds two restaurants with their owners and one known customer.
func seededStore() *memStore {
	m := newMemStore()
	m.users = []tables.User{
		{Id: ownerID, Name: "Ravi", Phone: ownerPhone, Role: tables.RoleRestaurantOwner},
		{Id: otherOwnerID, Name: "Meera", Phone: otherOwnerPhone, Role: tables.RoleRestaurantOwner},
		{Id: customerID, Name: "Kiran", Phone: "9111111111", Role: tables.RoleCustomer},
	}
	m.restaurants = []tables.Restaurant{
		{Id: spiceHubID, OwnerId: ownerID, Name: "Spice Hub", Address: "MG Road", Phone: ownerPhone},
		{Id: otherPlaceID, OwnerId: otherOwnerID, Name: "Other Place", Address: "FC Road"},
	}
	m.menu = []tables.MenuItem{
		{Id: 100, RestaurantId: spiceHubID, Name: "Chicken Biryani", Description: "Aromatic basmati rice", Category: "Biryanis", PricePaise: 25000, IsAvailable: true},
		{Id: 101, RestaurantId: spiceHubID, Name: "Paneer Tikka", Category: "Starters", PricePaise: 18000, IsAvailable: true},
		{Id: 102, RestaurantId: spiceHubID, Name: "Sweet Lassi", Category: "Beverages", PricePaise: 6050, IsAvailable: true},
		{Id: 103, RestaurantId: spiceHubID, Name: "Mutton Biryani", Category: "Biryanis", PricePaise: 32000, IsAvailable: true},
		{Id: 200, RestaurantId: otherPlaceID, Name: "Masala Dosa", Category: "Main Course", PricePaise: 9000, IsAvailable: true},
	}
	return m
}

type sentMessage struct {
	Phone string
	Body  string
}

// recordingMessenger captures outbound messages instead of sending them.
type recordingMessenger struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

var _ Messenger = (*recordingMessenger)(nil)

func (rm *recordingMessenger) Send(_ context.Context, phone, body string) (*structs.DeliveryReceipt, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if rm.err != nil {
		return nil, rm.err
	}
	rm.sent = append(rm.sent, sentMessage{Phone: phone, Body: body})
	return &structs.DeliveryReceipt{Sid: "test", Status: "delivered", Simulated: true}, nil
}

func (rm *recordingMessenger) to(phone string) []string {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	var out []string
	for _, m := range rm.sent {
		if m.Phone == phone {
			out = append(out, m.Body)
		}
	}
	return out
}

func (rm *recordingMessenger) last(phone string) string {
	bodies := rm.to(phone)
	if len(bodies) == 0 {
		return ""
	}
	return bodies[len(bodies)-1]
}

func (rm *recordingMessenger) reset() {
	rm.mu.Lock()
	rm.sent = nil
	rm.mu.Unlock()
}

var errBoom = errors.New("boom")

// testHarness wires the services against the fakes, with synchronous notifications.
type testHarness struct {
	store        *memStore
	messenger    *recordingMessenger
	sessions     *MemorySessionStore
	lifecycle    *LifecycleService
	notifier     *NotificationService
	commands     *CommandService
	conversation *ConversationService
	orders       *OrderService
}

func newHarness() *testHarness {
	logger := testLogger()
	store := seededStore()
	messenger := &recordingMessenger{}
	sessions := NewMemorySessionStore(0)
	metrics := NewDomainMetrics()

	notifier := NewNotificationService(logger, store, store, messenger, nil, false, metrics)
	lifecycle := NewLifecycleService(logger, store, metrics)
	commands := NewCommandService(logger, store, store, lifecycle, notifier, messenger, metrics)
	commands.location = time.UTC
	cfg := &structs.MessagingConfig{UPIPaymentID: "7032107890-2@ibl"}
	conversation := NewConversationService(logger, cfg, sessions, store, messenger, commands, notifier, metrics)

	return &testHarness{
		store:        store,
		messenger:    messenger,
		sessions:     sessions,
		lifecycle:    lifecycle,
		notifier:     notifier,
		commands:     commands,
		conversation: conversation,
		orders:       NewOrderService(logger, store, store, lifecycle, notifier),
	}
}
