package services

import (
	"context"
	"fmt"
	"foodorder_server/database"
	"foodorder_server/lib"
	"foodorder_server/structs/tables"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/uptrace/bun"
)

// PgStore implements Store on postgres through bun.
type PgStore struct {
	logger *gecho.Logger
	db     *database.DB
}

var _ Store = (*PgStore)(nil)

func NewPgStore(logger *gecho.Logger, db *database.DB) *PgStore {
	return &PgStore{logger: logger, db: db}
}

// Models lists every table the service owns, in creation order.
func Models() []any {
	return []any{
		(*tables.User)(nil),
		(*tables.Restaurant)(nil),
		(*tables.MenuItem)(nil),
		(*tables.Order)(nil),
		(*tables.OrderItem)(nil),
		(*tables.Message)(nil),
		(*tables.Notification)(nil),
	}
}

func (ps *PgStore) Migrate(ctx context.Context) error {
	return database.Migrate(ctx, ps.db, Models()...)
}

func (ps *PgStore) FindUserByPhone(ctx context.Context, phone string) (*tables.User, error) {
	user, err := database.Query[tables.User](ps.db).Where("phone", phone).First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return user, nil
}

func (ps *PgStore) FindUserByID(ctx context.Context, id int64) (*tables.User, error) {
	user, err := database.FindByID[tables.User](ctx, ps.db, "id", id)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return user, nil
}

func (ps *PgStore) CreateUser(ctx context.Context, user *tables.User) (*tables.User, error) {
	user.CreatedAt = time.Now()
	created, err := database.Query[tables.User](ps.db).Insert(ctx, user)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return created, nil
}

func (ps *PgStore) ListRestaurants(ctx context.Context) ([]tables.Restaurant, error) {
	restaurants, err := database.Query[tables.Restaurant](ps.db).
		OrderBy("r.created_at", database.DESC).
		OrderBy("r.id", database.DESC).
		All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return restaurants, nil
}

func (ps *PgStore) FindRestaurantsByOwner(ctx context.Context, ownerID int64) ([]tables.Restaurant, error) {
	restaurants, err := database.Query[tables.Restaurant](ps.db).
		Where("r.owner_id", ownerID).
		OrderBy("r.id", database.ASC).
		All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return restaurants, nil
}

func (ps *PgStore) ListMenuItems(ctx context.Context, restaurantID int64) ([]tables.MenuItem, error) {
	items, err := database.Query[tables.MenuItem](ps.db).
		Where("mi.restaurant_id", restaurantID).
		Where("mi.is_available", true).
		OrderBy("mi.category", database.ASC).
		OrderBy("mi.name", database.ASC).
		All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return items, nil
}

// PlaceOrder writes the order and all of its line items in one transaction.
func (ps *PgStore) PlaceOrder(ctx context.Context, order *tables.Order, items []tables.OrderItem) (*tables.Order, error) {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	err := database.Transaction(ctx, ps.db, func(ctx context.Context, tx bun.Tx) error {
		if _, err := database.Query[tables.Order](tx).Insert(ctx, order); err != nil {
			return err
		}
		for i := range items {
			items[i].OrderId = order.Id
		}
		if _, err := database.Query[tables.OrderItem](tx).InsertMany(ctx, items); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		ps.logger.Error("Failed to place order",
			gecho.Field("error", err),
			gecho.Field("user_id", order.UserId),
			gecho.Field("restaurant_id", order.RestaurantId),
		)
		return nil, lib.MapPgError(err)
	}

	return order, nil
}

func orderListingQuery(db bun.IDB) *database.QueryBuilder[tables.Order] {
	return database.Query[tables.Order](db).
		ColumnExpr("o.*").
		ColumnExpr("u.name AS customer_name").
		ColumnExpr("u.phone AS customer_phone").
		ColumnExpr("r.name AS restaurant_name").
		ColumnExpr("r.address AS restaurant_address").
		ColumnExpr("r.phone AS restaurant_phone").
		ColumnExpr("r.owner_id AS owner_id").
		Join("LEFT JOIN users AS u ON u.id = o.user_id").
		Join("JOIN restaurants AS r ON r.id = o.restaurant_id")
}

func (ps *PgStore) FindOrderListing(ctx context.Context, id int64) (*tables.OrderListing, error) {
	var listings []tables.OrderListing
	if err := orderListingQuery(ps.db).Where("o.id", id).Limit(1).Scan(ctx, &listings); err != nil {
		return nil, lib.MapPgError(err)
	}
	if len(listings) == 0 {
		return nil, nil
	}
	return &listings[0], nil
}

func (ps *PgStore) ListOrderItems(ctx context.Context, orderID int64) ([]tables.OrderItem, error) {
	items, err := database.Query[tables.OrderItem](ps.db).
		Where("oi.order_id", orderID).
		OrderBy("oi.id", database.ASC).
		All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return items, nil
}

func (ps *PgStore) UpdateOrder(ctx context.Context, id int64, update OrderUpdate) error {
	updates := map[string]any{"updated_at": time.Now()}
	if update.Status != nil {
		updates["status"] = *update.Status
	}
	if update.PaymentStatus != nil {
		updates["payment_status"] = *update.PaymentStatus
	}

	affected, err := database.Query[tables.Order](ps.db).Where("id", id).Update(ctx, updates)
	if err != nil {
		return lib.MapPgError(err)
	}
	if affected == 0 {
		return fmt.Errorf("order %d: %w", id, lib.ErrNotFound)
	}
	return nil
}

func (ps *PgStore) ListOrdersByRestaurant(ctx context.Context, restaurantID int64, statuses []tables.OrderStatus) ([]tables.OrderListing, error) {
	var listings []tables.OrderListing
	query := orderListingQuery(ps.db).Where("o.restaurant_id", restaurantID)
	if len(statuses) > 0 {
		query = query.WhereIn("o.status", statuses)
	}
	if err := query.OrderBy("o.created_at", database.DESC).Scan(ctx, &listings); err != nil {
		return nil, lib.MapPgError(err)
	}
	return listings, nil
}

func (ps *PgStore) LogMessage(ctx context.Context, msg *tables.Message) error {
	msg.CreatedAt = time.Now()
	if _, err := database.Query[tables.Message](ps.db).Insert(ctx, msg); err != nil {
		return lib.MapPgError(err)
	}
	return nil
}

func (ps *PgStore) CreateNotification(ctx context.Context, n *tables.Notification) error {
	n.CreatedAt = time.Now()
	if n.Status == "" {
		n.Status = "pending"
	}
	if _, err := database.Query[tables.Notification](ps.db).Insert(ctx, n); err != nil {
		return lib.MapPgError(err)
	}
	return nil
}
