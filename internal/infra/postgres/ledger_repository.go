package postgres

import (
	"context"
	"fmt"

	"github.com/Cjota221/C4franquiaas-sub006/internal/domain"
	"github.com/Cjota221/C4franquiaas-sub006/internal/gateway"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerRepository é o razão append-only no Postgres. Só INSERT e SELECT:
// não existe UPDATE nem DELETE de movimentação.
type LedgerRepository struct {
	db dbtx
}

func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: pool}
}

func (r *LedgerRepository) Append(ctx context.Context, entry *domain.LedgerEntry) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO ledger_entries (id, wallet_id, kind, amount, reference_type, reference_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		entry.ID, entry.WalletID, string(entry.Kind), entry.Amount, entry.ReferenceType, entry.ReferenceID)

	if err := row.Scan(&entry.CreatedAt); err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}

func (r *LedgerRepository) HasEntry(ctx context.Context, walletID int64, kind domain.LedgerKind, ref domain.Reference) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM ledger_entries
			WHERE wallet_id = $1 AND kind = $2 AND reference_type = $3 AND reference_id = $4
		)`,
		walletID, string(kind), ref.Type, ref.ID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check ledger entry: %w", err)
	}
	return exists, nil
}

// SumByWallet recalcula as somas por tipo em uma query só (FILTER evita
// três round-trips)
func (r *LedgerRepository) SumByWallet(ctx context.Context, walletID int64) (gateway.LedgerSums, error) {
	var sums gateway.LedgerSums
	err := r.db.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE kind = 'LOCK'), 0),
			COALESCE(SUM(amount) FILTER (WHERE kind = 'UNLOCK'), 0),
			COALESCE(SUM(amount) FILTER (WHERE kind = 'DEBIT'), 0)
		FROM ledger_entries
		WHERE wallet_id = $1`,
		walletID).Scan(&sums.Lock, &sums.Unlock, &sums.Debit)
	if err != nil {
		return gateway.LedgerSums{}, fmt.Errorf("failed to sum ledger entries: %w", err)
	}
	return sums, nil
}

func (r *LedgerRepository) ListByWallet(ctx context.Context, walletID int64, limit, offset int32) ([]domain.LedgerEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, wallet_id, kind, amount, reference_type, reference_id, created_at
		FROM ledger_entries
		WHERE wallet_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		walletID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var (
			e    domain.LedgerEntry
			kind string
		)
		if err := rows.Scan(&e.ID, &e.WalletID, &kind, &e.Amount, &e.ReferenceType, &e.ReferenceID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		e.Kind = domain.LedgerKind(kind)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *LedgerRepository) WithTx(tx gateway.TransactionObject) gateway.LedgerRepository {
	pgTx, ok := tx.(pgx.Tx)
	if !ok {
		return r
	}
	return &LedgerRepository{db: pgTx}
}
