package usecase

import (
	"context"
	"fmt"

	"github.com/Cjota221/C4franquiaas-sub006/internal/domain"
	"github.com/Cjota221/C4franquiaas-sub006/internal/gateway"
	"github.com/google/uuid"
)

// LedgerManager é o único caminho para mexer no par balance/locked_balance.
// Toda mutação acontece com a linha da carteira travada (SELECT FOR UPDATE)
// e grava a movimentação correspondente no razão, na MESMA transação.
//
// LockFunds/UnlockFunds/DebitFunds esperam rodar dentro de um
// TransactionManager.Run: o contexto precisa carregar a transação
// (gateway.TransactionKey) para que trava + razão sejam atômicos.
type LedgerManager struct {
	walletRepository gateway.WalletRepository
	ledgerRepository gateway.LedgerRepository
}

func NewLedgerManager(walletRepo gateway.WalletRepository, ledgerRepo gateway.LedgerRepository) *LedgerManager {
	return &LedgerManager{
		walletRepository: walletRepo,
		ledgerRepository: ledgerRepo,
	}
}

// repos devolve os repositórios ligados à transação do contexto, se houver.
func (m *LedgerManager) repos(ctx context.Context) (gateway.WalletRepository, gateway.LedgerRepository) {
	if tx := ctx.Value(gateway.TransactionKey); tx != nil {
		return m.walletRepository.WithTx(tx), m.ledgerRepository.WithTx(tx)
	}
	return m.walletRepository, m.ledgerRepository
}

// LockFunds prende `amount` centavos do saldo disponível e grava um LOCK.
// Duas reservas concorrentes contra a mesma carteira serializam no
// GetByIDForUpdate: a segunda só lê depois do commit (ou rollback) da
// primeira, então nunca enxerga available obsoleto.
func (m *LedgerManager) LockFunds(ctx context.Context, walletID int64, amount int64, ref domain.Reference) (*domain.Wallet, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	walletRepo, ledgerRepo := m.repos(ctx)

	wallet, err := walletRepo.GetByIDForUpdate(ctx, walletID)
	if err != nil {
		return nil, err
	}

	// Validação de domínio antes de tocar no banco
	if err := wallet.Lock(amount); err != nil {
		return nil, err
	}

	// A guarda roda de novo no banco (AND balance - locked >= amount)
	if err := walletRepo.Lock(ctx, walletID, amount); err != nil {
		return nil, err
	}

	entry := &domain.LedgerEntry{
		ID:            uuid.NewString(),
		WalletID:      walletID,
		Kind:          domain.LedgerKindLock,
		Amount:        amount,
		ReferenceType: ref.Type,
		ReferenceID:   ref.ID,
	}
	if err := ledgerRepo.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("falha ao gravar LOCK no razão: %w", err)
	}

	return wallet, nil
}

// UnlockFunds libera saldo travado e grava um UNLOCK. É idempotente por
// referência: se já existe UNLOCK para a mesma reserva (requisição de
// cancelamento reenviada), vira no-op e devolve o snapshot atual — sem
// creditar disponibilidade duas vezes. O valor é limitado ao locked_balance
// atual para o travado nunca ficar negativo.
func (m *LedgerManager) UnlockFunds(ctx context.Context, walletID int64, amount int64, ref domain.Reference) (*domain.Wallet, int64, error) {
	walletRepo, ledgerRepo := m.repos(ctx)

	wallet, err := walletRepo.GetByIDForUpdate(ctx, walletID)
	if err != nil {
		return nil, 0, err
	}

	exists, err := ledgerRepo.HasEntry(ctx, walletID, domain.LedgerKindUnlock, ref)
	if err != nil {
		return nil, 0, fmt.Errorf("falha ao checar idempotência do UNLOCK: %w", err)
	}
	if exists {
		return wallet, 0, nil
	}

	unlocked := wallet.Unlock(amount)
	if unlocked == 0 {
		return wallet, 0, nil
	}

	if err := walletRepo.Unlock(ctx, walletID, unlocked); err != nil {
		return nil, 0, err
	}

	entry := &domain.LedgerEntry{
		ID:            uuid.NewString(),
		WalletID:      walletID,
		Kind:          domain.LedgerKindUnlock,
		Amount:        unlocked,
		ReferenceType: ref.Type,
		ReferenceID:   ref.ID,
	}
	if err := ledgerRepo.Append(ctx, entry); err != nil {
		return nil, 0, fmt.Errorf("falha ao gravar UNLOCK no razão: %w", err)
	}

	return wallet, unlocked, nil
}

// DebitFunds consome uma trava confirmada: balance e locked_balance caem
// juntos e UM DEBIT fecha a reserva no razão — a trava nunca é contada em
// dobro porque a reconciliação desconta LOCK - UNLOCK - DEBIT.
func (m *LedgerManager) DebitFunds(ctx context.Context, walletID int64, amount int64, ref domain.Reference) (*domain.Wallet, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	walletRepo, ledgerRepo := m.repos(ctx)

	wallet, err := walletRepo.GetByIDForUpdate(ctx, walletID)
	if err != nil {
		return nil, err
	}

	exists, err := ledgerRepo.HasEntry(ctx, walletID, domain.LedgerKindDebit, ref)
	if err != nil {
		return nil, fmt.Errorf("falha ao checar idempotência do DEBIT: %w", err)
	}
	if exists {
		return wallet, nil
	}

	if err := wallet.Debit(amount); err != nil {
		return nil, err
	}

	if err := walletRepo.Debit(ctx, walletID, amount); err != nil {
		return nil, err
	}

	entry := &domain.LedgerEntry{
		ID:            uuid.NewString(),
		WalletID:      walletID,
		Kind:          domain.LedgerKindDebit,
		Amount:        amount,
		ReferenceType: ref.Type,
		ReferenceID:   ref.ID,
	}
	if err := ledgerRepo.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("falha ao gravar DEBIT no razão: %w", err)
	}

	return wallet, nil
}
