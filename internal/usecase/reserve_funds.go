package usecase

import (
	"context"
	"fmt"

	"github.com/Cjota221/C4franquiaas-sub006/internal/domain"
	"github.com/Cjota221/C4franquiaas-sub006/internal/gateway"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReserveFundsInput define os dados necessários para abrir uma reserva.
// Usamos DTOs (Data Transfer Objects) para não acoplar a API HTTP ao UseCase.
type ReserveFundsInput struct {
	WalletID int64
	Amount   int64 // Valor em centavos (ex: 1000 = R$ 10,00)
}

type ReserveFundsOutput struct {
	ReservationID    string
	Status           string
	AvailableBalance int64
}

// ReserveFundsUseCase abre uma trava de saldo: LOCK no razão + linha de
// reserva RESERVED, tudo ou nada.
type ReserveFundsUseCase struct {
	ledgerManager         *LedgerManager
	reservationRepository gateway.ReservationRepository
	transactionManager    gateway.TransactionManager // Nosso "Unit of Work"
	eventPublisher        gateway.EventPublisher
}

func NewReserveFunds(
	ledgerManager *LedgerManager,
	reservationRepo gateway.ReservationRepository,
	txManager gateway.TransactionManager,
	publisher gateway.EventPublisher,
) *ReserveFundsUseCase {
	return &ReserveFundsUseCase{
		ledgerManager:         ledgerManager,
		reservationRepository: reservationRepo,
		transactionManager:    txManager,
		eventPublisher:        publisher,
	}
}

func (u *ReserveFundsUseCase) Execute(ctx context.Context, input ReserveFundsInput) (*ReserveFundsOutput, error) {
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	// O ID nasce antes da transação: ele é a referência do LOCK no razão.
	reservationID := uuid.NewString()
	ref := domain.Reference{Type: domain.ReferenceTypeReservation, ID: reservationID}

	var wallet *domain.Wallet

	// Run inicia a transação (BEGIN). Erro na função anônima = ROLLBACK:
	// se o lock de fundos falhar, NENHUMA linha de reserva é criada.
	err := u.transactionManager.Run(ctx, func(contextWithTx context.Context) error {
		transactionObject := contextWithTx.Value(gateway.TransactionKey)
		if transactionObject == nil {
			return fmt.Errorf("erro crítico: transação não encontrada no contexto")
		}

		reservationRepoTx := u.reservationRepository.WithTx(transactionObject)

		var err error
		wallet, err = u.ledgerManager.LockFunds(contextWithTx, input.WalletID, input.Amount, ref)
		if err != nil {
			return err
		}

		reservation := &domain.Reservation{
			ID:       reservationID,
			WalletID: input.WalletID,
			Amount:   input.Amount,
			Status:   domain.ReservationStatusReserved,
		}
		if err := reservationRepoTx.Create(contextWithTx, reservation); err != nil {
			return fmt.Errorf("falha ao persistir reserva: %w", err)
		}

		return nil // Sucesso! O Commit será executado agora.
	})
	if err != nil {
		return nil, err
	}

	if u.eventPublisher != nil {
		event := map[string]interface{}{
			"reservation_id": reservationID,
			"wallet_id":      input.WalletID,
			"amount":         input.Amount,
			"status":         string(domain.ReservationStatusReserved),
		}
		if err := u.eventPublisher.Publish(ctx, "commerce_events", "reservation.created", event); err != nil {
			// Apenas logamos: o evento é auditoria, a reserva já commitou
			log.Error().Err(err).Str("reservation_id", reservationID).Msg("Falha ao publicar reservation.created")
		}
	}

	return &ReserveFundsOutput{
		ReservationID:    reservationID,
		Status:           string(domain.ReservationStatusReserved),
		AvailableBalance: wallet.Available(),
	}, nil
}
