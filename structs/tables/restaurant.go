package tables

import "time"

type Restaurant struct {
	tableName struct{}  `bun:"table:restaurants,alias:r"`
	Id        int64     `bun:"id,pk,autoincrement" json:"id"`
	OwnerId   int64     `bun:"owner_id,notnull" json:"owner_id"`
	Name      string    `bun:"name,notnull" json:"name" validate:"required,min=2,max=200"`
	Address   string    `bun:"address" json:"address,omitempty"`
	Phone     string    `bun:"phone" json:"phone,omitempty"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

type MenuItem struct {
	tableName    struct{}  `bun:"table:menu_items,alias:mi"`
	Id           int64     `bun:"id,pk,autoincrement" json:"id"`
	RestaurantId int64     `bun:"restaurant_id,notnull" json:"restaurant_id"`
	Name         string    `bun:"name,notnull" json:"name" validate:"required,min=1,max=200"`
	Description  string    `bun:"description" json:"description,omitempty"`
	Category     string    `bun:"category,notnull" json:"category" validate:"required"`
	PricePaise   int64     `bun:"price_paise,notnull" json:"price_paise" validate:"gte=0"`
	IsAvailable  bool      `bun:"is_available,notnull,default:true" json:"is_available"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
