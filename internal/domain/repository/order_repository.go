package repository

import (
	"context"

	"tg_pizzeria/internal/domain/order"
)

// OrderStore is the durable order table. Insert fills the store-assigned
// fields (ID, CreatedAt, UpdatedAt) on the given order. SelectAll returns
// rows newest first. UpdateByID applies a partial status update, bumps
// updated_at and returns the resulting row, or order.ErrNotFound when the id
// does not exist.
type OrderStore interface {
	Insert(ctx context.Context, o *order.Order) error
	SelectAll(ctx context.Context) ([]order.Order, error)
	UpdateByID(ctx context.Context, id string, upd order.StatusUpdate) (*order.Order, error)
}
