package structs

import "time"

type ConversationState string

const (
	StateAskName             ConversationState = "ask_name"
	StateAskLocation         ConversationState = "ask_location"
	StateWelcome             ConversationState = "welcome"
	StateRestaurantSelection ConversationState = "restaurant_selection"
	StateMenuBrowsing        ConversationState = "menu_browsing"
	StateCategorySelection   ConversationState = "category_selection"
	StateItemSelection       ConversationState = "item_selection"
	// Reached after an item is added or removed: 1 add, 2 view cart, 3 delete, 4 checkout.
	StateCartManagement ConversationState = "cart_management"
	// Reached from the cart listing: 1 add, 2 checkout, 3 delete, 4 clear.
	StateCartView            ConversationState = "cart_view"
	StateDeleteItemSelection ConversationState = "delete_item_selection"
	StatePaymentSelection    ConversationState = "payment_selection"
)

type RestaurantSnapshot struct {
	Id      int64  `json:"id"`
	OwnerId int64  `json:"owner_id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

type MenuItemSnapshot struct {
	Id          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	PricePaise  int64  `json:"price_paise"`
}

type CartLine struct {
	MenuItemId int64  `json:"menu_item_id"`
	Name       string `json:"name"`
	PricePaise int64  `json:"price_paise"`
	Quantity   int    `json:"quantity"`
}

// LineTotal is price times quantity in paise.
func (cl CartLine) LineTotal() int64 {
	return cl.PricePaise * int64(cl.Quantity)
}

// Session is the per-phone conversation record. Restaurant and menu data are
// snapshots taken when they were listed and are never refreshed.
type Session struct {
	Phone                string               `json:"phone"`
	State                ConversationState    `json:"state"`
	Name                 string               `json:"name,omitempty"`
	Location             string               `json:"location,omitempty"`
	Restaurants          []RestaurantSnapshot `json:"restaurants,omitempty"`
	SelectedRestaurant   *RestaurantSnapshot  `json:"selected_restaurant,omitempty"`
	Categories           []string             `json:"categories,omitempty"`
	MenuItems            []MenuItemSnapshot   `json:"menu_items,omitempty"`
	CurrentCategoryItems []MenuItemSnapshot   `json:"current_category_items,omitempty"`
	Cart                 []CartLine           `json:"cart"`
	TotalPaise           int64                `json:"total_paise"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

func NewSession(phone string) *Session {
	return &Session{
		Phone:     phone,
		State:     StateAskName,
		Cart:      []CartLine{},
		UpdatedAt: time.Now(),
	}
}

// AddToCart merges repeated items into one line.
func (s *Session) AddToCart(item MenuItemSnapshot) {
	for i := range s.Cart {
		if s.Cart[i].MenuItemId == item.Id {
			s.Cart[i].Quantity++
			return
		}
	}
	s.Cart = append(s.Cart, CartLine{
		MenuItemId: item.Id,
		Name:       item.Name,
		PricePaise: item.PricePaise,
		Quantity:   1,
	})
}

// RemoveCartLine removes the line at the zero-based index and returns it.
func (s *Session) RemoveCartLine(index int) (CartLine, bool) {
	if index < 0 || index >= len(s.Cart) {
		return CartLine{}, false
	}
	removed := s.Cart[index]
	s.Cart = append(s.Cart[:index], s.Cart[index+1:]...)
	return removed, true
}

func (s *Session) CartTotal() int64 {
	var total int64
	for _, line := range s.Cart {
		total += line.LineTotal()
	}
	return total
}

func (s *Session) CartItemCount() int {
	return len(s.Cart)
}

func (s *Session) ClearCart() {
	s.Cart = []CartLine{}
	s.TotalPaise = 0
}

// Clone returns a deep copy so stored sessions never share slices with callers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Restaurants = append([]RestaurantSnapshot(nil), s.Restaurants...)
	c.Categories = append([]string(nil), s.Categories...)
	c.MenuItems = append([]MenuItemSnapshot(nil), s.MenuItems...)
	c.CurrentCategoryItems = append([]MenuItemSnapshot(nil), s.CurrentCategoryItems...)
	c.Cart = append([]CartLine{}, s.Cart...)
	if s.SelectedRestaurant != nil {
		r := *s.SelectedRestaurant
		c.SelectedRestaurant = &r
	}
	return &c
}
