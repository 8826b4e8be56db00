package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Cjota221/C4franquiaas-sub006/internal/domain"
	"github.com/Cjota221/C4franquiaas-sub006/internal/gateway"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrderRepository cobre o que o cancelamento precisa. A criação de pedidos
// acontece no checkout, fora deste serviço.
type OrderRepository struct {
	db dbtx
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: pool}
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.getOrder(ctx, id, false)
}

func (r *OrderRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	return r.getOrder(ctx, id, true)
}

func (r *OrderRepository) getOrder(ctx context.Context, id string, forUpdate bool) (*domain.Order, error) {
	query := `SELECT id, payment_status, created_at, updated_at FROM orders WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var (
		order  domain.Order
		status string
	)
	err := r.db.QueryRow(ctx, query, id).Scan(&order.ID, &status, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	order.PaymentStatus = domain.PaymentStatus(status)

	rows, err := r.db.Query(ctx, `
		SELECT product_id, variation_key, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`,
		id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.VariationKey, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *OrderRepository) MarkCancelled(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET payment_status = $2, updated_at = now()
		WHERE id = $1 AND payment_status <> $2`,
		id, string(domain.PaymentStatusCancelled))
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderAlreadyCancelled
	}
	return nil
}

func (r *OrderRepository) WithTx(tx gateway.TransactionObject) gateway.OrderRepository {
	pgTx, ok := tx.(pgx.Tx)
	if !ok {
		return r
	}
	return &OrderRepository{db: pgTx}
}
