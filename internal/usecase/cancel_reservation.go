package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Cjota221/C4franquiaas-sub006/internal/domain"
	"github.com/Cjota221/C4franquiaas-sub006/internal/gateway"
	"github.com/rs/zerolog/log"
)

type CancelReservationInput struct {
	ReservationID string
	Reason        string
}

type CancelReservationOutput struct {
	Success          bool
	AmountUnlocked   int64
	AvailableBalance int64
}

// CancelReservationUseCase fecha uma reserva RESERVED liberando a trava.
// Status e UNLOCK andam na mesma transação: se a liberação de fundos falhar,
// o rollback devolve a reserva para RESERVED — nunca existe reserva CANCELED
// com dinheiro preso para sempre.
type CancelReservationUseCase struct {
	ledgerManager         *LedgerManager
	reservationRepository gateway.ReservationRepository
	transactionManager    gateway.TransactionManager
	eventPublisher        gateway.EventPublisher
}

func NewCancelReservation(
	ledgerManager *LedgerManager,
	reservationRepo gateway.ReservationRepository,
	txManager gateway.TransactionManager,
	publisher gateway.EventPublisher,
) *CancelReservationUseCase {
	return &CancelReservationUseCase{
		ledgerManager:         ledgerManager,
		reservationRepository: reservationRepo,
		transactionManager:    txManager,
		eventPublisher:        publisher,
	}
}

func (u *CancelReservationUseCase) Execute(ctx context.Context, input CancelReservationInput) (*CancelReservationOutput, error) {
	var (
		wallet   *domain.Wallet
		unlocked int64
		walletID int64
	)

	err := u.transactionManager.Run(ctx, func(contextWithTx context.Context) error {
		transactionObject := contextWithTx.Value(gateway.TransactionKey)
		if transactionObject == nil {
			return fmt.Errorf("erro crítico: transação não encontrada no contexto")
		}

		reservationRepoTx := u.reservationRepository.WithTx(transactionObject)

		// Trava a linha da reserva: bloqueia double-cancel concorrente
		reservation, err := reservationRepoTx.GetByIDForUpdate(contextWithTx, input.ReservationID)
		if err != nil {
			return err
		}

		// Guarda de estado: só RESERVED cancela (bloqueia double-cancel
		// e cancelamento depois de confirmada)
		if !reservation.IsOpen() {
			return domain.ErrInvalidReservationState
		}

		walletID = reservation.WalletID

		wallet, unlocked, err = u.ledgerManager.UnlockFunds(
			contextWithTx, reservation.WalletID, reservation.Amount, reservation.Reference())
		if err != nil {
			return fmt.Errorf("falha ao liberar fundos da reserva %s: %w", reservation.ID, err)
		}

		if err := reservationRepoTx.MarkCanceled(contextWithTx, reservation.ID, input.Reason, time.Now()); err != nil {
			return fmt.Errorf("falha ao marcar reserva como cancelada: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if u.eventPublisher != nil {
		event := map[string]interface{}{
			"reservation_id":  input.ReservationID,
			"wallet_id":       walletID,
			"amount_unlocked": unlocked,
			"reason":          input.Reason,
		}
		if err := u.eventPublisher.Publish(ctx, "commerce_events", "reservation.canceled", event); err != nil {
			log.Error().Err(err).Str("reservation_id", input.ReservationID).Msg("Falha ao publicar reservation.canceled")
		}
	}

	return &CancelReservationOutput{
		Success:          true,
		AmountUnlocked:   unlocked,
		AvailableBalance: wallet.Available(),
	}, nil
}
