package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Transaction runs fn inside a transaction, committing when it returns nil
func Transaction(ctx context.Context, db bun.IDB, fn func(ctx context.Context, tx bun.Tx) error) error {
	if err := db.RunInTx(ctx, nil, fn); err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

// FindByID returns the record with the given primary key, or nil
func FindByID[T any](ctx context.Context, db bun.IDB, column string, id any) (*T, error) {
	return Query[T](db).Where(column, id).First(ctx)
}

// Migrate creates the tables for the given models when they do not exist
func Migrate(ctx context.Context, db bun.IDB, models ...any) error {
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", model, err)
		}
	}
	return nil
}
