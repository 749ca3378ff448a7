package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "tg_pizzeria/internal/domain/order"
)

// OrderRepository is the pgx-backed order store.
type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `id, order_number, customer_name, customer_phone, items, total_amount,
		payment_method, payment_status, order_status, notes, created_at, updated_at`

// Insert writes one row and fills the store-assigned id and timestamps on o.
func (r *OrderRepository) Insert(ctx context.Context, o *domain.Order) error {
	if o == nil {
		return fmt.Errorf("order is nil")
	}

	if err := r.ensureTable(ctx); err != nil {
		return err
	}

	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}

	var notes *string
	if o.Notes != "" {
		notes = &o.Notes
	}

	const query = `
		INSERT INTO orders (order_number, customer_name, customer_phone, items, total_amount,
			payment_method, payment_status, order_status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at;
	`

	return r.pool.QueryRow(ctx, query,
		o.OrderNumber,
		o.CustomerName,
		o.CustomerPhone,
		itemsJSON,
		o.TotalAmount,
		o.PaymentMethod,
		o.PaymentStatus,
		o.OrderStatus,
		notes,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
}

// SelectAll returns every order, newest first. Creation-time ties keep the
// store's insertion order.
func (r *OrderRepository) SelectAll(ctx context.Context) ([]domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders ORDER BY created_at DESC;`, orderColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// UpdateByID applies the provided status fields, bumps updated_at and
// returns the resulting row. A missing id yields order.ErrNotFound.
func (r *OrderRepository) UpdateByID(ctx context.Context, id string, upd domain.StatusUpdate) (*domain.Order, error) {
	set := []string{"updated_at = now()"}
	args := []interface{}{}
	idx := 1

	if upd.OrderStatus != nil {
		set = append(set, fmt.Sprintf("order_status = $%d", idx))
		args = append(args, *upd.OrderStatus)
		idx++
	}
	if upd.PaymentStatus != nil {
		set = append(set, fmt.Sprintf("payment_status = $%d", idx))
		args = append(args, *upd.PaymentStatus)
		idx++
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE orders SET %s WHERE id = $%d RETURNING %s;`,
		strings.Join(set, ", "), idx, orderColumns)

	o, err := scanOrder(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o         domain.Order
		itemsJSON []byte
		notes     *string
	)
	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.CustomerName,
		&o.CustomerPhone,
		&itemsJSON,
		&o.TotalAmount,
		&o.PaymentMethod,
		&o.PaymentStatus,
		&o.OrderStatus,
		&notes,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	if notes != nil {
		o.Notes = *notes
	}
	return &o, nil
}

func (r *OrderRepository) ensureTable(ctx context.Context) error {
	const stmt = `
		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			order_number TEXT NOT NULL,
			customer_name TEXT NOT NULL,
			customer_phone TEXT NOT NULL,
			items JSONB NOT NULL,
			total_amount NUMERIC NOT NULL,
			payment_method TEXT NOT NULL,
			payment_status TEXT NOT NULL,
			order_status TEXT NOT NULL,
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`
	_, err := r.pool.Exec(ctx, stmt)
	return err
}
