package usecase

import (
	"context"
	"fmt"

	"github.com/Cjota221/C4franquiaas-sub006/internal/domain"
	"github.com/Cjota221/C4franquiaas-sub006/internal/gateway"
	"github.com/rs/zerolog/log"
)

type ConfirmReservationInput struct {
	ReservationID string
}

type ConfirmReservationOutput struct {
	Success bool
	Status  string
}

// ConfirmReservationUseCase converte a trava em débito definitivo:
// RESERVED -> CONFIRMED, balance e locked_balance caem juntos e um único
// DEBIT fecha a reserva no razão.
type ConfirmReservationUseCase struct {
	ledgerManager         *LedgerManager
	reservationRepository gateway.ReservationRepository
	transactionManager    gateway.TransactionManager
	eventPublisher        gateway.EventPublisher
}

func NewConfirmReservation(
	ledgerManager *LedgerManager,
	reservationRepo gateway.ReservationRepository,
	txManager gateway.TransactionManager,
	publisher gateway.EventPublisher,
) *ConfirmReservationUseCase {
	return &ConfirmReservationUseCase{
		ledgerManager:         ledgerManager,
		reservationRepository: reservationRepo,
		transactionManager:    txManager,
		eventPublisher:        publisher,
	}
}

func (u *ConfirmReservationUseCase) Execute(ctx context.Context, input ConfirmReservationInput) (*ConfirmReservationOutput, error) {
	var walletID int64

	err := u.transactionManager.Run(ctx, func(contextWithTx context.Context) error {
		transactionObject := contextWithTx.Value(gateway.TransactionKey)
		if transactionObject == nil {
			return fmt.Errorf("erro crítico: transação não encontrada no contexto")
		}

		reservationRepoTx := u.reservationRepository.WithTx(transactionObject)

		reservation, err := reservationRepoTx.GetByIDForUpdate(contextWithTx, input.ReservationID)
		if err != nil {
			return err
		}
		if !reservation.IsOpen() {
			return domain.ErrInvalidReservationState
		}

		walletID = reservation.WalletID

		if _, err := u.ledgerManager.DebitFunds(
			contextWithTx, reservation.WalletID, reservation.Amount, reservation.Reference()); err != nil {
			return fmt.Errorf("falha ao debitar fundos da reserva %s: %w", reservation.ID, err)
		}

		if err := reservationRepoTx.MarkConfirmed(contextWithTx, reservation.ID); err != nil {
			return fmt.Errorf("falha ao marcar reserva como confirmada: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if u.eventPublisher != nil {
		event := map[string]interface{}{
			"reservation_id": input.ReservationID,
			"wallet_id":      walletID,
		}
		if err := u.eventPublisher.Publish(ctx, "commerce_events", "reservation.confirmed", event); err != nil {
			log.Error().Err(err).Str("reservation_id", input.ReservationID).Msg("Falha ao publicar reservation.confirmed")
		}
	}

	return &ConfirmReservationOutput{
		Success: true,
		Status:  string(domain.ReservationStatusConfirmed),
	}, nil
}
