package usecase

import (
	"context"

	"github.com/Cjota221/C4franquiaas-sub006/internal/domain"
	"github.com/Cjota221/C4franquiaas-sub006/internal/gateway"
	"github.com/rs/zerolog/log"
)

type ReconcileWalletOutput struct {
	WalletID      int64
	StoredLocked  int64
	DerivedLocked int64
	Consistent    bool
}

// ReconcileWalletUseCase recalcula o locked_balance a partir do razão e
// compara com o valor cacheado na carteira. Divergência é SEMPRE reportada
// (evento + erro), nunca corrigida automaticamente: mascarar um bug de razão
// é pior do que expor a diferença para revisão manual.
type ReconcileWalletUseCase struct {
	walletRepository gateway.WalletRepository
	ledgerRepository gateway.LedgerRepository
	eventPublisher   gateway.EventPublisher
}

func NewReconcileWallet(
	walletRepo gateway.WalletRepository,
	ledgerRepo gateway.LedgerRepository,
	publisher gateway.EventPublisher,
) *ReconcileWalletUseCase {
	return &ReconcileWalletUseCase{
		walletRepository: walletRepo,
		ledgerRepository: ledgerRepo,
		eventPublisher:   publisher,
	}
}

func (u *ReconcileWalletUseCase) Execute(ctx context.Context, walletID int64) (*ReconcileWalletOutput, error) {
	wallet, err := u.walletRepository.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	sums, err := u.ledgerRepository.SumByWallet(ctx, walletID)
	if err != nil {
		return nil, err
	}

	derived := domain.DeriveLockedBalance(sums.Lock, sums.Unlock, sums.Debit)

	output := &ReconcileWalletOutput{
		WalletID:      walletID,
		StoredLocked:  wallet.LockedBalance,
		DerivedLocked: derived,
		Consistent:    derived == wallet.LockedBalance,
	}

	if !output.Consistent {
		log.Error().
			Int64("wallet_id", walletID).
			Int64("stored_locked", wallet.LockedBalance).
			Int64("derived_locked", derived).
			Msg("Razão divergente do locked_balance cacheado")

		if u.eventPublisher != nil {
			event := map[string]interface{}{
				"wallet_id":      walletID,
				"stored_locked":  wallet.LockedBalance,
				"derived_locked": derived,
			}
			if err := u.eventPublisher.Publish(ctx, "commerce_events", "wallet.integrity_violation", event); err != nil {
				log.Error().Err(err).Int64("wallet_id", walletID).Msg("Falha ao publicar wallet.integrity_violation")
			}
		}

		return output, domain.ErrLedgerMismatch
	}

	return output, nil
}
