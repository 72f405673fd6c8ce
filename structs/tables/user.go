package tables

import "time"

type Role string

const (
	RoleCustomer        Role = "customer"
	RoleRestaurantOwner Role = "restaurant_owner"
	RoleSuperAdmin      Role = "super_admin"
)

type User struct {
	tableName struct{} `bun:"table:users,alias:u"`
	Id        int64    `bun:"id,pk,autoincrement" json:"id"`
	Name      string   `bun:"name,notnull" json:"name" validate:"required,min=1,max=100"`
	Phone     string   `bun:"phone,notnull,unique" json:"phone" validate:"required,len=10,numeric"`
	Email     *string  `bun:"email" json:"email,omitempty" validate:"omitempty,email"`
	// NULL marks an account created over the messaging channel.
	PasswordHash *string   `bun:"password_hash" json:"-"`
	Role         Role      `bun:"role,notnull,default:'customer'" json:"role" validate:"required,oneof=customer restaurant_owner super_admin"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// IsOperator reports whether the user may drive orders with owner commands.
func (u *User) IsOperator() bool {
	return u != nil && u.Role == RoleRestaurantOwner
}
