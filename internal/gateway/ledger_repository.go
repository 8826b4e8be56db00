package gateway

import (
	"context"

	"github.com/Cjota221/C4franquiaas-sub006/internal/domain"
)

// LedgerSums agrupa as somas por tipo de movimentação de uma carteira.
type LedgerSums struct {
	Lock   int64
	Unlock int64
	Debit  int64
}

// LedgerRepository é o razão append-only. Não existe Update nem Delete:
// entrada gravada é imutável.
type LedgerRepository interface {
	Append(ctx context.Context, entry *domain.LedgerEntry) error

	// HasEntry responde se já existe movimentação daquele tipo para a
	// referência — é a checagem de idempotência do UNLOCK.
	HasEntry(ctx context.Context, walletID int64, kind domain.LedgerKind, ref domain.Reference) (bool, error)

	// SumByWallet recalcula as somas do razão (fonte de verdade do
	// LockedBalance) para a reconciliação.
	SumByWallet(ctx context.Context, walletID int64) (LedgerSums, error)

	// ListByWallet pagina o histórico para auditoria/exibição,
	// mais recente primeiro.
	ListByWallet(ctx context.Context, walletID int64, limit, offset int32) ([]domain.LedgerEntry, error)

	WithTx(tx TransactionObject) LedgerRepository
}
