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

// WalletRepository implementa gateway.WalletRepository usando pgx/v5
type WalletRepository struct {
	db dbtx
}

// NewWalletRepository cria uma nova instância
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{db: pool}
}

const walletColumns = `id, owner_id, balance, locked_balance, version, created_at, updated_at`

// Create insere uma nova carteira (locked_balance nasce zerado)
func (r *WalletRepository) Create(ctx context.Context, ownerID int64, balance int64) (*domain.Wallet, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO wallets (owner_id, balance, locked_balance)
		VALUES ($1, $2, 0)
		RETURNING `+walletColumns,
		ownerID, balance)

	wallet, err := scanWallet(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	return wallet, nil
}

// GetByID busca uma carteira
func (r *WalletRepository) GetByID(ctx context.Context, id int64) (*domain.Wallet, error) {
	row := r.db.QueryRow(ctx, `SELECT `+walletColumns+` FROM wallets WHERE id = $1`, id)

	wallet, err := scanWallet(row)
	if err != nil {
		// pgx retorna pgx.ErrNoRows, diferente de sql.ErrNoRows
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return wallet, nil
}

// GetByIDForUpdate trava a linha no banco (SELECT ... FOR UPDATE): toda
// mutação concorrente contra a mesma carteira serializa aqui.
func (r *WalletRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Wallet, error) {
	row := r.db.QueryRow(ctx, `SELECT `+walletColumns+` FROM wallets WHERE id = $1 FOR UPDATE`, id)

	wallet, err := scanWallet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}
	return wallet, nil
}

// Lock prende saldo com a guarda validando o disponível no banco
func (r *WalletRepository) Lock(ctx context.Context, id int64, amount int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE wallets
		SET locked_balance = locked_balance + $1,
		    version = version + 1,
		    updated_at = now()
		WHERE id = $2 AND balance - locked_balance >= $1`,
		amount, id)
	if err != nil {
		return fmt.Errorf("failed to lock funds: %w", err)
	}

	// Se 0 linhas foram afetadas, a cláusula "balance - locked >= amount" falhou
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientFunds
	}
	return nil
}

// Unlock libera saldo travado; a guarda impede locked_balance negativo
func (r *WalletRepository) Unlock(ctx context.Context, id int64, amount int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE wallets
		SET locked_balance = locked_balance - $1,
		    version = version + 1,
		    updated_at = now()
		WHERE id = $2 AND locked_balance >= $1`,
		amount, id)
	if err != nil {
		return fmt.Errorf("failed to unlock funds: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientFunds
	}
	return nil
}

// Debit consome a trava: balance e locked_balance caem juntos, atômico
func (r *WalletRepository) Debit(ctx context.Context, id int64, amount int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE wallets
		SET balance = balance - $1,
		    locked_balance = locked_balance - $1,
		    version = version + 1,
		    updated_at = now()
		WHERE id = $2 AND locked_balance >= $1 AND balance >= $1`,
		amount, id)
	if err != nil {
		return fmt.Errorf("failed to debit wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientFunds
	}
	return nil
}

// ListIDs alimenta o job de reconciliação
func (r *WalletRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM wallets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan wallet id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// WithTx retorna uma cópia do repositório usando uma transação específica
func (r *WalletRepository) WithTx(tx gateway.TransactionObject) gateway.WalletRepository {
	pgTx, ok := tx.(pgx.Tx)
	if !ok {
		return r
	}
	return &WalletRepository{db: pgTx}
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var w domain.Wallet
	err := row.Scan(&w.ID, &w.OwnerID, &w.Balance, &w.LockedBalance, &w.Version, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
