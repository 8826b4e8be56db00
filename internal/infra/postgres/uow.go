package postgres

import (
	"context"
	"fmt"

	"github.com/Cjota221/C4franquiaas-sub006/internal/gateway"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Uow implementa gateway.TransactionManager sobre o pgxpool.
//
// Read Committed basta aqui: a serialização entre operações concorrentes da
// mesma carteira/reserva/pedido vem do SELECT ... FOR UPDATE que cada
// usecase faz na linha certa, não do nível de isolamento.
type Uow struct {
	pool *pgxpool.Pool
}

func NewUow(pool *pgxpool.Pool) *Uow {
	return &Uow{pool: pool}
}

func (u *Uow) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Rollback no defer cobre erro E pânico; vira no-op depois do Commit
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	ctxWithTx := context.WithValue(ctx, gateway.TransactionKey, tx)

	if err := fn(ctxWithTx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
