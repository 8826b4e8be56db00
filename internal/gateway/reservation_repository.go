package gateway

import (
	"context"
	"time"

	"github.com/Cjota221/C4franquiaas-sub006/internal/domain"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) error
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)

	// GetByIDForUpdate trava a linha da reserva para bloquear
	// cancelamento/confirmação concorrentes da mesma reserva.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Reservation, error)

	MarkCanceled(ctx context.Context, id string, reason string, at time.Time) error
	MarkConfirmed(ctx context.Context, id string) error

	WithTx(tx TransactionObject) ReservationRepository
}
